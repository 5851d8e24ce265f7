package yolods

// The intermediate annotation representation used by the label writers.

import (
	"github.com/pkg/errors"
)

// Annotation is a labelled object in absolute image coordinates.
type Annotation struct {
	ClassIndex int
	Coords     [4]float64 // Absolute x1, y1, x2, y2 offsets from the top-left corner.
	Label      string
}

// Width is the object width from a.Coords.
func (a Annotation) Width() float64 {
	return a.Coords[2] - a.Coords[0]
}

// Height is the object height from a.Coords.
func (a Annotation) Height() float64 {
	return a.Coords[3] - a.Coords[1]
}

// AnnotatedFile is the intermediate representation of file metadata.
type AnnotatedFile struct {
	Annotations []Annotation
	FilePath    string // The annotated image.
	Format      string // The image encoding, as registered with the image package.
	Width       int
	Height      int
}

// annotate converts normalised boxes into annotations for an image of the given size.
func (mf *Manifest) annotate(boxes []BoundingBox, width, height int) []Annotation {
	annotations := make([]Annotation, len(boxes))
	for i, b := range boxes {
		name, _ := mf.ClassName(b.ClassIndex)
		annotations[i] = Annotation{
			ClassIndex: b.ClassIndex,
			Coords:     b.PixelRect(width, height),
			Label:      name,
		}
	}
	return annotations
}

// AnnotatedIterator produces AnnotatedFiles on demand, see PairIterator.
type AnnotatedIterator struct {
	pairs *PairIterator
	d     *Dataset
	file  AnnotatedFile
	err   error
}

// Annotated returns an iterator over the labelled images of split s in the intermediate
// representation. Only the image headers are decoded, to obtain the image size.
func (d *Dataset) Annotated(s Split) (*AnnotatedIterator, error) {
	pairs, err := d.Pairs(s, true)
	if err != nil {
		return nil, err
	}
	return &AnnotatedIterator{pairs: pairs, d: d}, nil
}

// Next converts the next labelled image. It returns false at the end of the split or after an
// error.
func (it *AnnotatedIterator) Next() bool {
	if it.err != nil || !it.pairs.Next() {
		return false
	}
	p := it.pairs.Pair()

	config, format, err := DecodeImageConfig(it.d.fs, p.ImagePath)
	if err != nil {
		it.err = errors.Wrapf(err, "failed to decode the image metadata of %q", p.ImagePath)
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

	it.file = AnnotatedFile{
		Annotations: it.d.manifest.annotate(boxes, config.Width, config.Height),
		FilePath:    p.ImagePath,
		Format:      format,
		Width:       config.Width,
		Height:      config.Height,
	}
	return true
}

// File returns the file produced by the last call to Next.
func (it *AnnotatedIterator) File() AnnotatedFile {
	return it.file
}

// Err returns the error that stopped the iteration, if any.
func (it *AnnotatedIterator) Err() error {
	if it.err != nil {
		return it.err
	}
	return it.pairs.Err()
}
