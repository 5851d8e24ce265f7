package yolods

// YOLO label format specific functionality.

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

// BoundingBox is a single labelled object. The coordinates are normalised ratios of the image size,
// with X, Y the top-left corner of the box.
type BoundingBox struct {
	ClassIndex int
	X          float64
	Y          float64
	W          float64
	H          float64
}

// Center returns the normalised center of the box.
func (b BoundingBox) Center() (xn, yn float64) {
	return b.X + b.W/2, b.Y + b.H/2
}

// PixelRect returns the absolute x1, y1, x2, y2 coordinates of the box in an image of the given
// size.
func (b BoundingBox) PixelRect(width, height int) [4]float64 {
	w, h := float64(width), float64(height)
	return [4]float64{b.X * w, b.Y * h, (b.X + b.W) * w, (b.Y + b.H) * h}
}

// YOLOLine serialises the box as a label line. The top-left corner is converted back to the center
// based representation of the file format, so that ParseYOLOLine(b.YOLOLine()) yields b.
func (b BoundingBox) YOLOLine() string {
	xn, yn := b.Center()
	fields := []string{
		strconv.Itoa(b.ClassIndex),
		formatFloat(xn),
		formatFloat(yn),
		formatFloat(b.W),
		formatFloat(b.H),
	}
	return strings.Join(fields, " ")
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ParseYOLOLine parses the line of values for a single object: "class xn yn wn hn", with the
// center of the box at (xn, yn).
func ParseYOLOLine(line string) (BoundingBox, error) {
	b := BoundingBox{}

	tokens := strings.Split(strings.TrimSuffix(line, "\r"), " ")
	if len(tokens) != 5 {
		return b, formatErrorf("expected 5 tokens in %q, got %d", line, len(tokens))
	}

	var err error
	if b.ClassIndex, err = strconv.Atoi(tokens[0]); err != nil {
		return b, formatErrorf("unexpected class index in %q: %v", line, err)
	}

	var values [4]float64
	for i := 0; i < 4 && err == nil; i++ {
		values[i], err = strconv.ParseFloat(tokens[i+1], 64)
	}
	if err != nil {
		return b, formatErrorf("unexpected values in %q: %v", line, err)
	}

	// Move from the center to the top-left corner.
	b.W = values[2]
	b.H = values[3]
	b.X = values[0] - b.W/2
	b.Y = values[1] - b.H/2

	return b, nil
}

// ParseYOLOFile parses all objects from the label file at path, in file order. Blank lines are
// ignored. Parsing stops at the first malformed line and no boxes are returned in that case.
func ParseYOLOFile(fs afero.Fs, path string) ([]BoundingBox, error) {
	lines, err := readLines(fs, path)
	if err != nil {
		return nil, err
	}

	boxes := make([]BoundingBox, 0, len(lines))
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		b, err := ParseYOLOLine(line)
		if err != nil {
			return nil, errors.WithMessagef(err, "%s:%d", path, i+1)
		}
		boxes = append(boxes, b)
	}

	return boxes, nil
}
