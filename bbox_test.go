package yolods

import (
	"errors"
	"strings"
	"testing"

	"github.com/spf13/afero"
)

func TestParseYOLOLine(t *testing.T) {
	tests := []struct {
		line string
		want BoundingBox
	}{
		{"2 0.5 0.5 0.2 0.4", BoundingBox{ClassIndex: 2, X: 0.4, Y: 0.3, W: 0.2, H: 0.4}},
		{"0 0.5 0.5 1 1", BoundingBox{ClassIndex: 0, X: 0, Y: 0, W: 1, H: 1}},
		{"7 0.1 0.9 0 0", BoundingBox{ClassIndex: 7, X: 0.1, Y: 0.9, W: 0, H: 0}},
		{"1 0.5 0.5 0.2 0.4\r", BoundingBox{ClassIndex: 1, X: 0.4, Y: 0.3, W: 0.2, H: 0.4}},
	}
	for _, tt := range tests {
		got, err := ParseYOLOLine(tt.line)
		if err != nil {
			t.Fatalf("ParseYOLOLine(%q): %v", tt.line, err)
		}
		if !boxesEqual(got, tt.want) {
			t.Errorf("ParseYOLOLine(%q) = %+v, want %+v", tt.line, got, tt.want)
		}
	}
}

func TestParseYOLOLine_Malformed(t *testing.T) {
	for _, line := range []string{
		"2 0.5 0.5 0.2",
		"a b c d e",
		"2 0.5 0.5 0.2 0.4 0.1",
		"2.5 0.5 0.5 0.2 0.4",
		"2  0.5 0.5 0.2 0.4",
		"",
	} {
		if _, err := ParseYOLOLine(line); !errors.Is(err, ErrFormat) {
			t.Errorf("ParseYOLOLine(%q) error = %v, want ErrFormat", line, err)
		}
	}
}

func TestYOLOLine_RoundTrip(t *testing.T) {
	for _, line := range []string{"2 0.5 0.5 0.2 0.4", "0 0.125 0.75 0.25 0.5"} {
		b, err := ParseYOLOLine(line)
		if err != nil {
			t.Fatal(err)
		}
		if got := b.YOLOLine(); got != line {
			t.Errorf("YOLOLine() = %q, want %q", got, line)
		}
		b2, err := ParseYOLOLine(b.YOLOLine())
		if err != nil {
			t.Fatal(err)
		}
		if !boxesEqual(b, b2) {
			t.Errorf("round trip changed %+v to %+v", b, b2)
		}
	}
}

func TestPixelRect(t *testing.T) {
	b := BoundingBox{ClassIndex: 1, X: 0.4, Y: 0.3, W: 0.2, H: 0.4}
	got := b.PixelRect(100, 50)
	want := [4]float64{40, 15, 60, 35}
	for i := range want {
		if !approxEqual(got[i], want[i]) {
			t.Fatalf("PixelRect = %v, want %v", got, want)
		}
	}

	xn, yn := b.Center()
	if !approxEqual(xn, 0.5) || !approxEqual(yn, 0.5) {
		t.Errorf("Center = (%v, %v), want (0.5, 0.5)", xn, yn)
	}
}

func TestParseYOLOFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/l/a.txt", "1 0.5 0.5 0.2 0.4\n\n0 0.5 0.5 1 1\n")

	boxes, err := ParseYOLOFile(fs, "/l/a.txt")
	if err != nil {
		t.Fatalf("ParseYOLOFile: %v", err)
	}
	want := []BoundingBox{
		{ClassIndex: 1, X: 0.4, Y: 0.3, W: 0.2, H: 0.4},
		{ClassIndex: 0, X: 0, Y: 0, W: 1, H: 1},
	}
	if len(boxes) != len(want) {
		t.Fatalf("got %d boxes, want %d", len(boxes), len(want))
	}
	for i := range want {
		if !boxesEqual(boxes[i], want[i]) {
			t.Errorf("box %d = %+v, want %+v", i, boxes[i], want[i])
		}
	}
}

func TestParseYOLOFile_Empty(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/l/empty.txt", "")

	boxes, err := ParseYOLOFile(fs, "/l/empty.txt")
	if err != nil {
		t.Fatalf("ParseYOLOFile: %v", err)
	}
	if len(boxes) != 0 {
		t.Fatalf("expected no boxes, got %v", boxes)
	}
}

func TestParseYOLOFile_Errors(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/l/bad.txt", "1 0.5 0.5 0.2 0.4\n1 0.5 0.5\n")

	boxes, err := ParseYOLOFile(fs, "/l/bad.txt")
	if !errors.Is(err, ErrFormat) {
		t.Fatalf("expected ErrFormat, got %v", err)
	}
	if boxes != nil {
		t.Errorf("expected no partial result, got %v", boxes)
	}
	if !strings.Contains(err.Error(), "/l/bad.txt:2") {
		t.Errorf("error %q does not name the line", err)
	}

	if _, err := ParseYOLOFile(fs, "/l/missing.txt"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestParseYOLOFile_LongLine(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/l/long.txt", "0 "+strings.Repeat("1", maxLineLength)+"\n")

	if _, err := ParseYOLOFile(fs, "/l/long.txt"); !errors.Is(err, ErrFormat) {
		t.Fatalf("expected ErrFormat, got %v", err)
	}
}
