package yolods

import "fmt"

// Split identifies a partition of the dataset and the manifest key that configures its path.
type Split int

// The known splits.
const (
	Train Split = iota
	Val
	Test
	Data
)

var splitNames = [...]string{
	Train: "train",
	Val:   "val",
	Test:  "test",
	Data:  "data",
}

// Splits returns all splits in declaration order.
func Splits() []Split {
	return []Split{Train, Val, Test, Data}
}

// String returns the manifest key of s.
func (s Split) String() string {
	if s < Train || s > Data {
		return fmt.Sprintf("Split(%d)", int(s))
	}
	return splitNames[s]
}

// ParseSplit returns the Split for the manifest key name.
func ParseSplit(name string) (Split, error) {
	for i, n := range splitNames {
		if n == name {
			return Split(i), nil
		}
	}
	return 0, fmt.Errorf("unknown split %q", name)
}
