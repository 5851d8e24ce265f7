// Package yolods reads object detection datasets in the YOLO directory layout.
//
// A dataset root contains a manifest (data.yaml) that lists the class names and, per split, the
// directory with the images relative to the root. The labels of a split live in the directory
// derived by replacing the "images" path segment with "labels", one .txt file per image with the
// same base name.
package yolods

import (
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// DefaultManifestName is the file name of the manifest in the dataset root.
const DefaultManifestName = "data.yaml"

// Dataset binds a validated Manifest to a root directory. It is read-only after Open.
type Dataset struct {
	fs       afero.Fs
	root     string
	manifest *Manifest
	loader   ImageLoader
	log      zerolog.Logger
}

type options struct {
	fs           afero.Fs
	manifestName string
	loader       ImageLoader
	log          zerolog.Logger
}

// Option configures Open.
type Option func(*options)

// WithFs sets the file system the dataset is read from. Defaults to the OS file system.
func WithFs(fs afero.Fs) Option {
	return func(o *options) { o.fs = fs }
}

// WithManifestName sets the file name of the manifest in the root directory.
func WithManifestName(name string) Option {
	return func(o *options) { o.manifestName = name }
}

// WithImageLoader sets the decoder used by Records.
func WithImageLoader(l ImageLoader) Option {
	return func(o *options) { o.loader = l }
}

// WithLogger sets the logger for debug output. Defaults to a no-op logger.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.log = l }
}

// Open loads and validates the manifest of the dataset in root.
//
// Returns an ErrNotFound if the manifest is not a regular file and an ErrValidation if it is
// invalid.
func Open(root string, opts ...Option) (*Dataset, error) {
	o := options{
		fs:           afero.NewOsFs(),
		manifestName: DefaultManifestName,
		loader:       DefaultImageLoader,
		log:          zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	manifestPath := filepath.Join(root, o.manifestName)
	ok, err := isRegularFile(o.fs, manifestPath)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot access manifest %q", manifestPath)
	}
	if !ok {
		return nil, notFoundf("manifest file %q", manifestPath)
	}

	manifest, err := ParseManifest(o.fs, manifestPath)
	if err != nil {
		return nil, err
	}
	o.log.Debug().
		Str("manifest", manifestPath).
		Int("classes", manifest.ClassCount).
		Msg("Manifest loaded")

	return &Dataset{
		fs:       o.fs,
		root:     root,
		manifest: manifest,
		loader:   o.loader,
		log:      o.log,
	}, nil
}

// Root returns the dataset root directory.
func (d *Dataset) Root() string {
	return d.root
}

// Manifest returns a copy of the dataset manifest.
func (d *Dataset) Manifest() *Manifest {
	mf := *d.manifest
	mf.ClassNames = d.manifest.Names()
	return &mf
}

// Fs returns the file system the dataset is read from.
func (d *Dataset) Fs() afero.Fs {
	return d.fs
}

// SplitPath returns the image directory of split s, relative to the root.
//
// Returns an ErrMissingPath, without accessing the file system, if the manifest does not configure
// the split, and an ErrNotFound if the directory does not exist.
func (d *Dataset) SplitPath(s Split) (string, error) {
	path := d.manifest.SplitPath(s)
	if path == "" {
		return "", errors.Wrapf(ErrMissingPath, "split %s", s)
	}

	if err := d.requireDir(path, "split"); err != nil {
		return "", err
	}
	return path, nil
}

// LabelDir returns the label directory of split s, relative to the root. It is derived from the
// image directory by replacing its first "images" path segment with "labels".
func (d *Dataset) LabelDir(s Split) (string, error) {
	imageDir, err := d.SplitPath(s)
	if err != nil {
		return "", err
	}
	return labelDirFor(imageDir), nil
}

// Pairs returns an iterator over the image and label file paths of split s, in ascending byte
// order of the image file names.
//
// If skipMissingLabels is true, images without a label file are omitted. Otherwise they are
// returned with an empty Pair.LabelPath.
func (d *Dataset) Pairs(s Split, skipMissingLabels bool) (*PairIterator, error) {
	imageDir, err := d.SplitPath(s)
	if err != nil {
		return nil, err
	}
	labelDir := labelDirFor(imageDir)
	if err := d.requireDir(labelDir, "label"); err != nil {
		return nil, err
	}

	imageDirPath := filepath.Join(d.root, imageDir)
	names, err := sortedFileNames(d.fs, imageDirPath)
	if err != nil {
		return nil, err
	}
	d.log.Debug().
		Stringer("split", s).
		Str("images", imageDir).
		Str("labels", labelDir).
		Int("files", len(names)).
		Msg("Listing split")

	return &PairIterator{
		fs:                d.fs,
		log:               d.log,
		imageDir:          imageDirPath,
		labelDir:          filepath.Join(d.root, labelDir),
		names:             names,
		skipMissingLabels: skipMissingLabels,
	}, nil
}

// Records returns an iterator over the decoded images and labels of split s. Images without a
// label file are skipped.
func (d *Dataset) Records(s Split) (*RecordIterator, error) {
	pairs, err := d.Pairs(s, true)
	if err != nil {
		return nil, err
	}
	return &RecordIterator{pairs: pairs, d: d}, nil
}

// Count returns the number of labelled images in split s.
func (d *Dataset) Count(s Split) (int, error) {
	it, err := d.Pairs(s, true)
	if err != nil {
		return 0, err
	}
	n := 0
	for it.Next() {
		n++
	}
	return n, it.Err()
}

// requireDir returns an ErrNotFound if the root relative path is not a directory.
func (d *Dataset) requireDir(rel, kind string) error {
	path := filepath.Join(d.root, rel)
	ok, err := isDir(d.fs, path)
	if err != nil {
		return errors.Wrapf(err, "cannot access %s directory %q", kind, path)
	}
	if !ok {
		return notFoundf("%s directory %q", kind, path)
	}
	return nil
}

// checkClasses returns an ErrFormat for the first box with a class index outside the manifest's
// classes.
func (d *Dataset) checkClasses(boxes []BoundingBox, labelPath string) error {
	for i, b := range boxes {
		if b.ClassIndex < 0 || b.ClassIndex >= d.manifest.ClassCount {
			return formatErrorf("%s: object %d has class index %d, expected [0, %d)",
				labelPath, i, b.ClassIndex, d.manifest.ClassCount)
		}
	}
	return nil
}

func labelDirFor(imageDir string) string {
	return replaceFirstSegment(imageDir, "images", "labels")
}
