package yolods

import (
	"image"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// Pair is an image file path and the path of its label file. LabelPath is empty if the image has
// no label file and missing labels are not skipped.
type Pair struct {
	ImagePath string
	LabelPath string
}

// PairIterator produces Pairs on demand. Use it like a bufio.Scanner:
//
//	for it.Next() {
//		p := it.Pair()
//	}
//	if err := it.Err(); err != nil {
//		return err
//	}
//
// A PairIterator is not safe for concurrent use. Independent iterators over the same Dataset are.
type PairIterator struct {
	fs                afero.Fs
	log               zerolog.Logger
	imageDir          string
	labelDir          string
	names             []string
	skipMissingLabels bool

	pos  int
	pair Pair
	err  error
}

// Next advances to the next pair. It returns false at the end of the split or after an error.
func (it *PairIterator) Next() bool {
	if it.err != nil {
		return false
	}

	for it.pos < len(it.names) {
		name := it.names[it.pos]
		it.pos++

		labelPath := filepath.Join(it.labelDir, changeExtension(name, ".txt"))
		ok, err := isRegularFile(it.fs, labelPath)
		if err != nil {
			it.err = errors.Wrapf(err, "cannot access label file %q", labelPath)
			return false
		}
		if !ok {
			if it.skipMissingLabels {
				it.log.Debug().Str("image", name).Msg("Skipping image without label file")
				continue
			}
			labelPath = ""
		}

		it.pair = Pair{ImagePath: filepath.Join(it.imageDir, name), LabelPath: labelPath}
		return true
	}

	return false
}

// Pair returns the pair produced by the last call to Next.
func (it *PairIterator) Pair() Pair {
	return it.pair
}

// Err returns the error that stopped the iteration, if any.
func (it *PairIterator) Err() error {
	return it.err
}

// Record is a decoded image with its objects.
type Record struct {
	Name  string // The image file name, without the directory.
	Image image.Image
	Boxes []BoundingBox
}

// RecordIterator produces Records on demand, see PairIterator.
type RecordIterator struct {
	pairs  *PairIterator
	d      *Dataset
	record Record
	err    error
}

// Next decodes the next record. It returns false at the end of the split or after an error.
func (it *RecordIterator) Next() bool {
	if it.err != nil || !it.pairs.Next() {
		return false
	}
	p := it.pairs.Pair()

	img, err := it.d.loader.Load(it.d.fs, p.ImagePath)
	if err != nil {
		it.err = errors.Wrapf(err, "failed to decode image %q", p.ImagePath)
		return false
	}

	boxes, err := ParseYOLOFile(it.d.fs, p.LabelPath)
	if err == nil {
		err = it.d.checkClasses(boxes, p.LabelPath)
	}
	if err != nil {
		it.err = err
		return false
	}

	it.record = Record{Name: filepath.Base(p.ImagePath), Image: img, Boxes: boxes}
	return true
}

// Record returns the record produced by the last call to Next.
func (it *RecordIterator) Record() Record {
	return it.record
}

// Err returns the error that stopped the iteration, if any.
func (it *RecordIterator) Err() error {
	if it.err != nil {
		return it.err
	}
	return it.pairs.Err()
}
