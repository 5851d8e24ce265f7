package yolods

import (
	"image"

	// Also registers the JPEG, PNG, GIF, BMP and TIFF decoders for image.DecodeConfig.
	"github.com/disintegration/imaging"
	"github.com/spf13/afero"
)

// ImageLoader decodes the image at path.
type ImageLoader interface {
	Load(fs afero.Fs, path string) (image.Image, error)
}

// ImageLoaderFunc adapts a function to the ImageLoader interface.
type ImageLoaderFunc func(fs afero.Fs, path string) (image.Image, error)

// Load calls f(fs, path).
func (f ImageLoaderFunc) Load(fs afero.Fs, path string) (image.Image, error) {
	return f(fs, path)
}

// DefaultImageLoader decodes images with imaging.Decode, applying the EXIF orientation.
var DefaultImageLoader ImageLoader = ImageLoaderFunc(loadImage)

// loadImage reads and decodes the image at path.
func loadImage(fs afero.Fs, path string) (img image.Image, err error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, err
	}
	defer closeWithErrCheck(f, &err)

	return imaging.Decode(f, imaging.AutoOrientation(true))
}

// DecodeImageConfig opens the file at path and returns the results of image.DecodeConfig.
func DecodeImageConfig(fs afero.Fs, path string) (config image.Config, format string, err error) {
	file, err := fs.Open(path)
	if err != nil {
		return image.Config{}, "", err
	}
	defer closeWithErrCheck(file, &err)

	return image.DecodeConfig(file)
}
