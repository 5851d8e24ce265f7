package yolods

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
)

const testManifest = `nc: 2
names: [cat, dog]
train: images/train
val: images/val
`

// writeFile writes content to path in fs, creating parent directories.
func writeFile(t *testing.T, fs afero.Fs, path, content string) {
	t.Helper()
	if err := fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := afero.WriteFile(fs, path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

// pngData returns a PNG encoded image of the given size.
func pngData(t *testing.T, width, height int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.String()
}

// newTestDataset creates the dataset layout used by most tests in memory:
//
//	root/data.yaml
//	root/images/val/{a,b,c}.png
//	root/labels/val/{a,c}.txt
//	root/images/train, root/labels/train (empty)
func newTestDataset(t *testing.T) (afero.Fs, string) {
	t.Helper()
	fs := afero.NewMemMapFs()
	root := "/ds"

	writeFile(t, fs, filepath.Join(root, DefaultManifestName), testManifest)
	for _, name := range []string{"c.png", "a.png", "b.png"} {
		writeFile(t, fs, filepath.Join(root, "images", "val", name), pngData(t, 100, 50))
	}
	writeFile(t, fs, filepath.Join(root, "labels", "val", "a.txt"), "0 0.5 0.5 0.2 0.4\n1 0.25 0.25 0.5 0.5\n")
	writeFile(t, fs, filepath.Join(root, "labels", "val", "c.txt"), "1 0.5 0.5 1 1\n")
	for _, dir := range []string{"images/train", "labels/train"} {
		if err := fs.MkdirAll(filepath.Join(root, dir), 0755); err != nil {
			t.Fatal(err)
		}
	}

	return fs, root
}

func openTestDataset(t *testing.T) *Dataset {
	t.Helper()
	fs, root := newTestDataset(t)
	ds, err := Open(root, WithFs(fs))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return ds
}

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func boxesEqual(a, b BoundingBox) bool {
	return a.ClassIndex == b.ClassIndex && approxEqual(a.X, b.X) && approxEqual(a.Y, b.Y) &&
		approxEqual(a.W, b.W) && approxEqual(a.H, b.H)
}
