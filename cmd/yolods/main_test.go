package main

import (
	"bytes"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
)

// newDatasetDir writes a small dataset to a temporary directory.
func newDatasetDir(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	write := func(rel string, data []byte) {
		path := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			t.Fatal(err)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewGray(image.Rect(0, 0, 8, 4))); err != nil {
		t.Fatal(err)
	}

	write("data.yaml", []byte("nc: 1\nnames: [car]\nval: images/val\ntest: images/test\n"))
	write("images/val/a.png", buf.Bytes())
	write("images/val/b.png", buf.Bytes())
	write("labels/val/a.txt", []byte("0 0.5 0.5 0.5 0.5\n"))
	return root
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestPairsCmd(t *testing.T) {
	root := newDatasetDir(t)

	out, err := run(t, "pairs", root, "--split", "val")
	if err != nil {
		t.Fatalf("pairs: %v", err)
	}
	want := filepath.Join(root, "images/val/a.png") + "\t" + filepath.Join(root, "labels/val/a.txt") + "\n"
	if out != want {
		t.Errorf("output = %q, want %q", out, want)
	}

	out, err = run(t, "pairs", root, "--keep-missing")
	if err != nil {
		t.Fatalf("pairs --keep-missing: %v", err)
	}
	if lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n"); len(lines) != 2 ||
		!strings.HasSuffix(lines[1], "b.png\t") {
		t.Errorf("output = %q", out)
	}

	if _, err := run(t, "pairs", root, "--split", "nope"); err == nil {
		t.Error("expected an error for an unknown split")
	}
	if _, err := run(t, "pairs", root, "--split", "train"); err == nil {
		t.Error("expected an error for an unconfigured split")
	}
}

func TestLabelsCmd(t *testing.T) {
	root := newDatasetDir(t)

	out, err := run(t, "labels", root)
	if err != nil {
		t.Fatalf("labels: %v", err)
	}
	want := "a.png 8x4\n  0 0.5 0.5 0.5 0.5\n"
	if out != want {
		t.Errorf("output = %q, want %q", out, want)
	}
}

func TestInspectCmd_JSON(t *testing.T) {
	root := newDatasetDir(t)

	out, err := run(t, "inspect", root, "--json")
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	var summary datasetSummary
	if err := json.Unmarshal([]byte(out), &summary); err != nil {
		t.Fatalf("invalid JSON %q: %v", out, err)
	}
	if summary.ClassCount != 1 || len(summary.Splits) != 2 {
		t.Fatalf("summary = %+v", summary)
	}
	if s := summary.Splits[0]; s.Split != "val" || s.Labelled != 1 || s.Error != "" {
		t.Errorf("val = %+v", s)
	}
	if s := summary.Splits[1]; s.Split != "test" || s.Error != "not found" {
		t.Errorf("test = %+v", s)
	}

	out, err = run(t, "inspect", root)
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	if !strings.Contains(out, "car") || !strings.Contains(out, "1 labelled") {
		t.Errorf("output = %q", out)
	}
}

func TestConvertCmd(t *testing.T) {
	root := newDatasetDir(t)
	outDir := filepath.Join(t.TempDir(), "nested", "kitti")

	if _, err := run(t, "convert", root, "--to", "kitti", "--out", outDir, "--no-progress"); err != nil {
		t.Fatalf("convert: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(outDir, "a.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "car 0.0 0 0.0 2.00 1.00 6.00 3.00") {
		t.Errorf("a.txt = %q", data)
	}

	if _, err := run(t, "convert", root, "--to", "voc", "--out", outDir); err == nil {
		t.Error("expected an error for an unsupported format")
	}
	if _, err := run(t, "convert", root, "--to", "kitti"); err == nil {
		t.Error("expected an error for a missing --out")
	}
}

func TestOpenErrors(t *testing.T) {
	if _, err := run(t, "inspect", t.TempDir()); err == nil {
		t.Error("expected an error for a missing manifest")
	}
	if _, err := run(t, "inspect", newDatasetDir(t), "--manifest", "other.yaml"); err == nil {
		t.Error("expected an error for a missing custom manifest")
	}
}
