package entities

import (
	"fmt"
	"strconv"
	"strings"
)

// Version is the host's {major, minor, patch} triple.
type Version struct {
	Major int32 `json:"major" yaml:"major"`
	Minor int32 `json:"minor" yaml:"minor"`
	Patch int32 `json:"patch" yaml:"patch"`
}

// APIVersion is the plugin API version this module is written against.
var APIVersion = Version{Major: 1, Minor: 0, Patch: 2}

// DefaultPluginVersion is reported when a descriptor leaves its version unset.
var DefaultPluginVersion = Version{Major: 0, Minor: 0, Patch: 1}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// ParseVersion parses "major.minor.patch". Missing trailing components are
// zero, so "1.2" is 1.2.0.
func ParseVersion(s string) (Version, error) {
	parts := strings.Split(strings.TrimPrefix(s, "v"), ".")
	if s == "" || len(parts) > 3 {
		return Version{}, fmt.Errorf("invalid version %q", s)
	}
	var out [3]int32
	for i, p := range parts {
		n, err := strconv.ParseInt(p, 10, 32)
		if err != nil || n < 0 {
			return Version{}, fmt.Errorf("invalid version %q: component %d is not a number", s, i+1)
		}
		out[i] = int32(n)
	}
	return Version{Major: out[0], Minor: out[1], Patch: out[2]}, nil
}

// IsZero reports whether all components are zero.
func (v Version) IsZero() bool {
	return v == Version{}
}

// Less orders versions component-wise.
func (v Version) Less(o Version) bool {
	if v.Major != o.Major {
		return v.Major < o.Major
	}
	if v.Minor != o.Minor {
		return v.Minor < o.Minor
	}
	return v.Patch < o.Patch
}

// HostInfo is what the host reports about itself through setMumbleInfo.
type HostInfo struct {
	MumbleVersion      Version
	APIVersion         Version
	MinimumExpectedAPI Version
}
