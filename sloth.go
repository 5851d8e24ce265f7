package yolods

// Sloth specific functionality.

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/spf13/afero"
)

// SlothAnnotation is a single annotation within a Sloth file.
type SlothAnnotation struct {
	Class  string  `json:"class,omitempty"`
	Type   string  `json:"type,omitempty"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
}

// SlothAnnotatedFile defines the Sloth annotation structure for a single file.
type SlothAnnotatedFile struct {
	Annotations []SlothAnnotation `json:"annotations"`
	Class       string            `json:"class,omitempty"`
	FilePath    string            `json:"filename,omitempty"`
}

// ToSloth converts the intermediate representation of a file to Sloth format.
func ToSloth(fileData AnnotatedFile) SlothAnnotatedFile {
	slothFileData := SlothAnnotatedFile{
		Annotations: make([]SlothAnnotation, len(fileData.Annotations)),
		Class:       "image",
		FilePath:    fileData.FilePath,
	}
	for i, a := range fileData.Annotations {
		slothFileData.Annotations[i] = SlothAnnotation{
			Class:  a.Label,
			Type:   "rect",
			X:      a.Coords[0],
			Y:      a.Coords[1],
			Width:  a.Width(),
			Height: a.Height(),
		}
	}
	return slothFileData
}

// WriteSloth writes the Sloth annotations to outFile.
func WriteSloth(fs afero.Fs, outFile string, data []SlothAnnotatedFile) error {
	enc, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	if err := afero.WriteFile(fs, outFile, enc, 0644); err != nil {
		return fmt.Errorf("cannot write file %q: %v", outFile, err)
	}
	return nil
}
