package yolods

// KITTI specific functionality.

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// KITTIAnnotation is a single annotation within a KITTI file.
type KITTIAnnotation struct {
	Coords [4]float64 // x1, y1, x2, y2
	Label  string
}

// KITTIAnnotatedFile defines the KITTI annotation structure for a single file.
type KITTIAnnotatedFile struct {
	Annotations []KITTIAnnotation
	FilePath    string
}

// ToKitti converts the intermediate representation of a file to KITTI format.
func ToKitti(fileData AnnotatedFile) KITTIAnnotatedFile {
	kittiFileData := KITTIAnnotatedFile{
		Annotations: make([]KITTIAnnotation, len(fileData.Annotations)),
		FilePath:    fileData.FilePath,
	}
	for i, a := range fileData.Annotations {
		kittiFileData.Annotations[i] = KITTIAnnotation{Coords: a.Coords, Label: a.Label}
	}
	return kittiFileData
}

// kittiLabelPath returns the path of the label file for fileData in dirPath: the image file name
// with a .txt extension.
func kittiLabelPath(dirPath string, fileData KITTIAnnotatedFile) string {
	return filepath.Join(dirPath, changeExtension(filepath.Base(fileData.FilePath), ".txt"))
}

// WriteKittiFile writes the annotations of a single file to dirPath, which must exist.
func WriteKittiFile(fs afero.Fs, dirPath string, fileData KITTIAnnotatedFile) (err error) {
	filePath := kittiLabelPath(dirPath, fileData)
	file, err := fs.OpenFile(filePath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	defer closeWithErrCheck(file, &err)

	for _, a := range fileData.Annotations {
		// Spaces in class names would break the space separated format.
		label := strings.ReplaceAll(a.Label, " ", "_")
		_, err = fmt.Fprintf(file,
			"%s 0.0 0 0.0 %.2f %.2f %.2f %.2f 0.0 0.0 0.0 0.0 0.0 0.0 0.0\n",
			label, a.Coords[0], a.Coords[1], a.Coords[2], a.Coords[3])
		if err != nil {
			return err
		}
	}

	return nil
}
