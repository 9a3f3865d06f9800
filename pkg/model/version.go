package model

import (
	"fmt"

	goversion "github.com/hashicorp/go-version"
)

// Version identifies a package release. The zero value is the Unknown
// version, which orders below every semantic version and equals only
// another Unknown.
type Version struct {
	Major int  `cbor:"major"`
	Minor int  `cbor:"minor"`
	Patch int  `cbor:"patch"`
	Known bool `cbor:"known"`
}

// UnknownVersion returns the Unknown version.
func UnknownVersion() Version {
	return Version{}
}

// NewVersion constructs a known semantic version from its components.
func NewVersion(major, minor, patch int) Version {
	return Version{Major: major, Minor: minor, Patch: patch, Known: true}
}

// ParseVersion parses version text from a package manifest. Malformed or
// empty text degrades to the Unknown version rather than failing the parse.
func ParseVersion(text string) Version {
	if text == "" {
		return UnknownVersion()
	}
	parsed, err := goversion.NewVersion(text)
	if err != nil {
		return UnknownVersion()
	}
	segments := parsed.Segments()
	if len(segments) < 3 {
		return UnknownVersion()
	}
	return NewVersion(segments[0], segments[1], segments[2])
}

// Compare returns -1, 0 or 1 ordering v against other. Unknown is less than
// every known version; known versions compare (major, minor, patch)
// lexicographically.
func (v Version) Compare(other Version) int {
	if v.Known != other.Known {
		if v.Known {
			return 1
		}
		return -1
	}
	if !v.Known {
		return 0
	}
	for _, pair := range [][2]int{
		{v.Major, other.Major},
		{v.Minor, other.Minor},
		{v.Patch, other.Patch},
	} {
		if pair[0] != pair[1] {
			if pair[0] < pair[1] {
				return -1
			}
			return 1
		}
	}
	return 0
}

// Equal reports whether both versions are the same variant with equal
// components. Unknown never equals a known version, not even 0.0.0.
func (v Version) Equal(other Version) bool {
	return v.Known == other.Known && v.Compare(other) == 0
}

func (v Version) String() string {
	if !v.Known {
		return "Unknown version"
	}
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}
