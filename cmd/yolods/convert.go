package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/schollz/progressbar/v3"
	"github.com/sensorable/yolods"
	"github.com/spf13/cobra"
)

func newConvertCmd(a *app) *cobra.Command {
	var (
		to           string
		outPath      string
		labelMapPath string
		numShards    int
		noProgress   bool
	)

	cmd := &cobra.Command{
		Use:   "convert <root>",
		Short: "Convert the labels of a split to another format",
		Long: `Convert the labels of a split to KITTI (one .txt file per image in the --out
directory), Sloth (a JSON file) or TFRecord (one or more record files and a
.pbtxt label map). Only images with a label file are converted.`,
		Args: cobra.ExactArgs(1),
	}
	split := splitFlag(cmd)
	cmd.Flags().StringVar(&to, "to", "", "The target `format` {kitti, sloth, tfrecord}")
	cmd.Flags().StringVarP(&outPath, "out", "o", "",
		"The output `path`: a directory for kitti, a file otherwise")
	cmd.Flags().StringVar(&labelMapPath, "tfrecord-label-map-file", "",
		"The TFRecord label map file `path` (default <out>.pbtxt)")
	cmd.Flags().IntVar(&numShards, "num-shards", 1,
		"The number of shard files to create (tfrecord only)")
	cmd.Flags().BoolVar(&noProgress, "no-progress", false, "Do not show a progress bar")
	_ = cmd.MarkFlagRequired("to")
	_ = cmd.MarkFlagRequired("out")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		s, err := split()
		if err != nil {
			return err
		}
		format, err := yolods.ParseFormat(to)
		if err != nil {
			return err
		}
		if numShards < 1 {
			return fmt.Errorf("invalid --num-shards %d", numShards)
		}
		outPath = filepath.Clean(outPath)

		ds, err := a.open(args[0])
		if err != nil {
			return err
		}

		unlock, err := lockOutput(outPath)
		if err != nil {
			return err
		}
		defer unlock()

		opts := yolods.ConvertOptions{NumShards: numShards, LabelMapPath: labelMapPath}
		if !noProgress {
			total, err := ds.Count(s)
			if err != nil {
				return err
			}
			bar := progressbar.NewOptions(total,
				progressbar.OptionSetWriter(cmd.ErrOrStderr()),
				progressbar.OptionSetDescription(fmt.Sprintf("Converting %s", s)),
				progressbar.OptionClearOnFinish())
			defer func() { _ = bar.Finish() }()
			opts.Progress = func(n int) { _ = bar.Set(n) }
		}

		n, err := yolods.Convert(ds, s, format, outPath, opts)
		if err != nil {
			return err
		}

		a.log.Info().
			Stringer("split", s).
			Stringer("format", format).
			Str("out", outPath).
			Int("files", n).
			Msg("Successfully wrote labels")
		return nil
	}
	return cmd
}

// lockOutput takes an advisory lock on outPath, so that concurrent conversions cannot interleave
// their writes. The returned function releases the lock.
func lockOutput(outPath string) (func(), error) {
	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		return nil, fmt.Errorf("cannot create output directory: %w", err)
	}

	lockPath := outPath + ".lock"
	l := flock.New(lockPath)
	locked, err := l.TryLock()
	if err != nil {
		return nil, fmt.Errorf("cannot acquire output lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("another conversion is writing to %s (lock: %s)", outPath, lockPath)
	}
	return func() { _ = l.Unlock() }, nil
}
