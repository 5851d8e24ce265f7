package yolods

// TFRecord object detection specific functionality.

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/golang/protobuf/proto"
	"github.com/pkg/errors"
	"github.com/ryszard/tfutils/go/example"
	"github.com/ryszard/tfutils/go/tfrecord"
	"github.com/ryszard/tfutils/proto/tensorflow/core/example" // package tensorflow
	"github.com/spf13/afero"
)

// TFFeatureMap maps feature names to their values. Values must be convertible to
// tensorflow.Feature.
type TFFeatureMap map[string]interface{}

// toTFFeatures converts the intermediate representation for a single file to the features of an
// object detection example. Class IDs are the class indices plus one, as ID 0 is reserved for the
// background.
func toTFFeatures(fs afero.Fs, fileData AnnotatedFile) (TFFeatureMap, error) {
	imgData, err := afero.ReadFile(fs, fileData.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read the image: %v", err)
	}

	// Per file data.
	f := make(TFFeatureMap, 16)
	f["image/height"] = fileData.Height
	f["image/width"] = fileData.Width
	f["image/filename"] = fileData.FilePath
	f["image/source_id"] = fileData.FilePath
	f["image/encoded"] = imgData
	f["image/format"] = fileData.Format

	// Per label data.
	numLabels := len(fileData.Annotations)
	xmins := make([]float32, numLabels)
	ymins := make([]float32, numLabels)
	xmaxs := make([]float32, numLabels)
	ymaxs := make([]float32, numLabels)
	classes := make([]string, numLabels)
	classIDs := make([]int64, numLabels)
	for i, a := range fileData.Annotations {
		xmins[i] = float32(a.Coords[0]) / float32(fileData.Width)
		ymins[i] = float32(a.Coords[1]) / float32(fileData.Height)
		xmaxs[i] = float32(a.Coords[2]) / float32(fileData.Width)
		ymaxs[i] = float32(a.Coords[3]) / float32(fileData.Height)
		classes[i] = a.Label
		classIDs[i] = int64(a.ClassIndex) + 1
	}
	f["image/object/bbox/xmin"] = xmins
	f["image/object/bbox/ymin"] = ymins
	f["image/object/bbox/xmax"] = xmaxs
	f["image/object/bbox/ymax"] = ymaxs
	f["image/object/class/text"] = classes
	f["image/object/class/label"] = classIDs

	return f, nil
}

// TFRecordWriter does a streaming serialisation of AnnotatedFiles to one or more TFRecord files.
type TFRecordWriter struct {
	fs         afero.Fs
	recordPath string
	numShards  int
	shardSize  int

	shard    afero.File
	shardIdx int
	written  int
}

// NewTFRecordWriter returns a writer for total examples, which are distributed over numShards files
// stored under recordPath, with suffixes added when numShards > 1.
func NewTFRecordWriter(fs afero.Fs, recordPath string, total, numShards int) *TFRecordWriter {
	// Every shard named in the "-of-" suffix gets at least one example.
	if numShards > total {
		numShards = total
	}
	if numShards <= 0 {
		numShards = 1
	}
	shardSize := int(math.Ceil(float64(total) / float64(numShards)))
	if shardSize == 0 {
		shardSize = 1
	}
	return &TFRecordWriter{
		fs:         fs,
		recordPath: recordPath,
		numShards:  numShards,
		shardSize:  shardSize,
		shardIdx:   -1,
	}
}

// ShardPath returns the path of the shard file with index idx.
func (w *TFRecordWriter) ShardPath(idx int) string {
	if w.numShards == 1 {
		return w.recordPath
	}
	return w.recordPath + fmt.Sprintf("-%05d-of-%05d", idx, w.numShards)
}

// Write converts fileData to a tensorflow.Example and appends it to the current shard.
func (w *TFRecordWriter) Write(fileData AnnotatedFile) (err error) {
	defer func() {
		if e := recover(); e != nil {
			err = fmt.Errorf("conversion of %q to TensorFlow Example failed: %v", fileData.FilePath, e)
		}
	}()

	// Check if a new shard file needs to be opened for writing.
	if w.written%w.shardSize == 0 {
		if err := w.closeShard(); err != nil {
			return err
		}
		w.shardIdx++
		shardPath := w.ShardPath(w.shardIdx)
		f, err := w.fs.Create(shardPath)
		if err != nil {
			return errors.Wrapf(err, "failed to create shard at %q", shardPath)
		}
		w.shard = f
	}

	features, err := toTFFeatures(w.fs, fileData)
	if err != nil {
		return errors.WithMessagef(err, "converting %q", fileData.FilePath)
	}
	if err := writeTFRecordExample(w.shard, example.New(features)); err != nil {
		return errors.Wrap(err, "failed to write example")
	}

	w.written++
	return nil
}

// Close closes the current shard file. If nothing was written, an empty record file is created.
func (w *TFRecordWriter) Close() error {
	if w.shardIdx < 0 {
		w.shardIdx = 0
		f, err := w.fs.Create(w.ShardPath(0))
		if err != nil {
			return errors.Wrapf(err, "failed to create shard at %q", w.ShardPath(0))
		}
		w.shard = f
	}
	return w.closeShard()
}

func (w *TFRecordWriter) closeShard() error {
	if w.shard == nil {
		return nil
	}
	err := w.shard.Close()
	w.shard = nil
	return err
}

// writeTFRecordExample serialises the example and writes it as a TFRecord to w.
func writeTFRecordExample(w io.Writer, e *tensorflow.Example) error {
	enc, err := proto.Marshal(e)
	if err != nil {
		return err
	}

	return tfrecord.Write(w, enc)
}

// WriteTFRecordLabelMap writes the class names in the prototxt StringIntLabelMap format to path,
// with IDs starting at 1.
func WriteTFRecordLabelMap(fs afero.Fs, path string, classNames []string) error {
	var b strings.Builder
	for i, name := range classNames {
		fmt.Fprintf(&b, "item {\n  name: %s\n  id: %d\n}\n", strconv.Quote(name), i+1)
	}

	if err := afero.WriteFile(fs, path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("failed to write the label map %q: %v", path, err)
	}
	return nil
}
