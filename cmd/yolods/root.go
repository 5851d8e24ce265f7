package main

import (
	"github.com/rs/zerolog"
	"github.com/sensorable/yolods"
	"github.com/spf13/cobra"
)

// app holds the state shared by all sub-commands.
type app struct {
	manifestName string
	verbose      bool
	log          zerolog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{log: zerolog.Nop()}

	root := &cobra.Command{
		Use:          "yolods",
		Short:        "Inspect and convert YOLO object detection datasets",
		SilenceUsage: true, // don't print usage on operational errors
		Long: `yolods reads datasets in the YOLO layout: a data.yaml manifest with the class
names and one image directory per split, with the labels in the sibling directory
where the "images" path segment is replaced by "labels".`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := zerolog.InfoLevel
			if a.verbose {
				level = zerolog.DebugLevel
			}
			a.log = zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr()}).
				Level(level).
				With().Timestamp().Logger()
		},
	}

	root.PersistentFlags().StringVar(&a.manifestName, "manifest", yolods.DefaultManifestName,
		"The manifest file name in the dataset root")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(
		newInspectCmd(a),
		newPairsCmd(a),
		newLabelsCmd(a),
		newConvertCmd(a),
	)
	return root
}

// open opens the dataset in root with the shared options.
func (a *app) open(root string) (*yolods.Dataset, error) {
	return yolods.Open(root, yolods.WithManifestName(a.manifestName), yolods.WithLogger(a.log))
}

// splitFlag registers the --split flag on cmd and returns the parsed value accessor.
func splitFlag(cmd *cobra.Command) func() (yolods.Split, error) {
	name := cmd.Flags().String("split", yolods.Val.String(),
		"The dataset `split` {train, val, test, data}")
	return func() (yolods.Split, error) {
		return yolods.ParseSplit(*name)
	}
}
