package enums

import "fmt"

// OptionKind names the configurable dimensions of a board.
type OptionKind string

const (
	OptionKindThickness OptionKind = "thickness"
	OptionKindHeight    OptionKind = "height"
	OptionKindWidth     OptionKind = "width"
)

var validOptionKinds = []OptionKind{
	OptionKindThickness,
	OptionKindHeight,
	OptionKindWidth,
}

// String implements fmt.Stringer.
func (k OptionKind) String() string {
	return string(k)
}

// IsValid reports whether the value is a known OptionKind.
func (k OptionKind) IsValid() bool {
	for _, candidate := range validOptionKinds {
		if candidate == k {
			return true
		}
	}
	return false
}

// ParseOptionKind converts raw input into an OptionKind.
func ParseOptionKind(value string) (OptionKind, error) {
	for _, candidate := range validOptionKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid option kind %q", value)
}
