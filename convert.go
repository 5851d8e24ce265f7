package yolods

import (
	"fmt"

	"github.com/pkg/errors"
)

// Format is a label output format.
type Format int

// The supported output formats.
const (
	Kitti Format = iota + 1
	Sloth
	TFRecord
)

// ParseFormat returns the Format for name.
func ParseFormat(name string) (Format, error) {
	switch name {
	case "kitti":
		return Kitti, nil
	case "sloth":
		return Sloth, nil
	case "tfrecord":
		return TFRecord, nil
	}
	return 0, fmt.Errorf("unsupported output format %q", name)
}

// String returns the name of f.
func (f Format) String() string {
	switch f {
	case Kitti:
		return "kitti"
	case Sloth:
		return "sloth"
	case TFRecord:
		return "tfrecord"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// ConvertOptions configures Convert.
type ConvertOptions struct {
	NumShards    int       // The number of TFRecord shard files.
	LabelMapPath string    // The TFRecord label map file; defaults to the output path + ".pbtxt".
	Progress     func(int) // Called with the number of files converted so far; may be nil.
}

// Convert writes the labelled images of split s in format f to outPath. For KITTI, outPath is a
// directory, which is created if needed; otherwise it is a file.
//
// Returns the number of converted files.
func Convert(d *Dataset, s Split, f Format, outPath string, opts ConvertOptions) (int, error) {
	it, err := d.Annotated(s)
	if err != nil {
		return 0, err
	}

	progress := opts.Progress
	if progress == nil {
		progress = func(int) {}
	}

	n := 0
	switch f {
	case Kitti:
		if err := d.fs.MkdirAll(outPath, 0755); err != nil {
			return 0, errors.Wrapf(err, "cannot create directory %q", outPath)
		}
		for it.Next() {
			if err := WriteKittiFile(d.fs, outPath, ToKitti(it.File())); err != nil {
				return n, err
			}
			n++
			progress(n)
		}

	case Sloth:
		slothData := make([]SlothAnnotatedFile, 0)
		for it.Next() {
			slothData = append(slothData, ToSloth(it.File()))
			n++
			progress(n)
		}
		if it.Err() == nil {
			if err := WriteSloth(d.fs, outPath, slothData); err != nil {
				return 0, err
			}
		}

	case TFRecord:
		total, err := d.Count(s)
		if err != nil {
			return 0, err
		}
		labelMapPath := opts.LabelMapPath
		if labelMapPath == "" {
			labelMapPath = outPath + ".pbtxt"
		}
		if err := WriteTFRecordLabelMap(d.fs, labelMapPath, d.manifest.Names()); err != nil {
			return 0, err
		}

		w := NewTFRecordWriter(d.fs, outPath, total, opts.NumShards)
		for it.Next() {
			if err := w.Write(it.File()); err != nil {
				_ = w.Close()
				return n, err
			}
			n++
			progress(n)
		}
		if err := w.Close(); err != nil {
			return n, err
		}

	default:
		return 0, fmt.Errorf("unsupported output format %v", f)
	}

	if err := it.Err(); err != nil {
		return n, err
	}
	d.log.Debug().Stringer("split", s).Stringer("format", f).Int("files", n).Msg("Converted")
	return n, nil
}
