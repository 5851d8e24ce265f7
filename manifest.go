package yolods

// Dataset manifest (data.yaml) specific functionality.

import (
	"fmt"
	"math"
	"os"
	"sort"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// Manifest keys.
const (
	keyClassCount = "nc"
	keyClassNames = "names"
)

// Manifest describes the classes of a dataset and the image directories of its splits, relative
// to the dataset root. An empty split path means that the split is not provided.
type Manifest struct {
	ClassCount int
	ClassNames []string
	Train      string
	Val        string
	Test       string
	Data       string
}

// LoadManifest constructs a Manifest from the mapping m, as decoded from a manifest file.
//
// Absent split paths default to the empty string. Unknown keys are ignored. The class names can be
// a sequence or a mapping from dense, zero-based class indices to names.
//
// The first violated invariant is returned as an ErrValidation: at least one split path must be
// set, the class names must not be empty and their number must equal the class count.
func LoadManifest(m map[string]interface{}) (*Manifest, error) {
	mf := &Manifest{}

	var err error
	if mf.ClassCount, err = intValue(m, keyClassCount); err != nil {
		return nil, err
	}
	if mf.ClassNames, err = classNames(m[keyClassNames]); err != nil {
		return nil, err
	}
	for _, s := range Splits() {
		v, ok := m[s.String()]
		if !ok || v == nil {
			continue
		}
		path, ok := v.(string)
		if !ok {
			return nil, invalidf("%q must be a string, got %T", s.String(), v)
		}
		*mf.splitField(s) = path
	}

	if !mf.hasAnyPath() {
		return nil, invalidf("at least one of train, val, test or data must be provided")
	}
	if len(mf.ClassNames) == 0 {
		return nil, invalidf("class names must be provided")
	}
	if mf.ClassCount != len(mf.ClassNames) {
		return nil, invalidf("number of class names (%d) must match the number of classes (%d)",
			len(mf.ClassNames), mf.ClassCount)
	}

	return mf, nil
}

// ParseManifest reads the YAML manifest file at path and constructs a Manifest from it.
func ParseManifest(fs afero.Fs, path string) (*Manifest, error) {
	enc, err := afero.ReadFile(fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, notFoundf("manifest file %q", path)
		}
		return nil, errors.Wrapf(err, "cannot read manifest %q", path)
	}

	var m map[string]interface{}
	if err := yaml.Unmarshal(enc, &m); err != nil {
		return nil, errors.Wrapf(ErrValidation, "failed to parse %q: %v", path, err)
	}

	mf, err := LoadManifest(m)
	if err != nil {
		return nil, errors.WithMessagef(err, "manifest %q", path)
	}
	return mf, nil
}

// SplitPath returns the configured relative path of split s, or "" if none is set.
func (mf *Manifest) SplitPath(s Split) string {
	if p := mf.splitField(s); p != nil {
		return *p
	}
	return ""
}

// ClassName returns the name of the class with index i.
func (mf *Manifest) ClassName(i int) (string, bool) {
	if i < 0 || i >= len(mf.ClassNames) {
		return "", false
	}
	return mf.ClassNames[i], true
}

// Names returns a copy of the class names, ordered by class index.
func (mf *Manifest) Names() []string {
	return append([]string(nil), mf.ClassNames...)
}

func (mf *Manifest) hasAnyPath() bool {
	return mf.Train != "" || mf.Val != "" || mf.Test != "" || mf.Data != ""
}

func (mf *Manifest) splitField(s Split) *string {
	switch s {
	case Train:
		return &mf.Train
	case Val:
		return &mf.Val
	case Test:
		return &mf.Test
	case Data:
		return &mf.Data
	}
	return nil
}

// intValue returns m[key] as an int. A missing key yields zero.
func intValue(m map[string]interface{}, key string) (int, error) {
	switch v := m[key].(type) {
	case nil:
		return 0, nil
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case uint64:
		return int(v), nil
	case float64:
		if v == math.Trunc(v) {
			return int(v), nil
		}
	}
	return 0, invalidf("%q must be an integer, got %v", key, m[key])
}

// classNames converts the decoded value of the names key into an ordered slice.
func classNames(v interface{}) ([]string, error) {
	toString := func(v interface{}) (string, error) {
		switch s := v.(type) {
		case string:
			return s, nil
		case int, int64, uint64, float64, bool:
			// YAML scalars such as 0 or yes are valid class names.
			return fmt.Sprint(s), nil
		}
		return "", invalidf("class names must be scalars, got %T", v)
	}

	switch names := v.(type) {
	case nil:
		return nil, nil

	case []interface{}:
		out := make([]string, len(names))
		for i, n := range names {
			s, err := toString(n)
			if err != nil {
				return nil, err
			}
			out[i] = s
		}
		return out, nil

	case map[interface{}]interface{}:
		byIndex := make(map[int]string, len(names))
		for k, n := range names {
			i, ok := k.(int)
			if !ok {
				return nil, invalidf("class name keys must be integers, got %v", k)
			}
			s, err := toString(n)
			if err != nil {
				return nil, err
			}
			byIndex[i] = s
		}
		return denseNames(byIndex)

	case map[string]interface{}:
		return nil, invalidf("class name keys must be integers")
	}

	return nil, invalidf("%q must be a sequence, got %T", keyClassNames, v)
}

// denseNames orders the names by index. The indices must be 0..len-1.
func denseNames(byIndex map[int]string) ([]string, error) {
	indices := make([]int, 0, len(byIndex))
	for i := range byIndex {
		indices = append(indices, i)
	}
	sort.Ints(indices)

	out := make([]string, len(indices))
	for pos, i := range indices {
		if i != pos {
			return nil, invalidf("class indices must be contiguous from 0, missing %d", pos)
		}
		out[pos] = byIndex[i]
	}
	return out, nil
}
