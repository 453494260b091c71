package contentregistry

import (
	"fmt"
	"regexp"
	"strconv"
)

// Version is an ordered API version token ("v1", "v2", ...). The zero value
// is not a valid version.
type Version int

// VersionPattern matches the wire encoding of a version token.
var VersionPattern = regexp.MustCompile(`^v[0-9]+$`)

// ParseVersion parses a "v<integer>" token.
func ParseVersion(s string) (Version, error) {
	if !VersionPattern.MatchString(s) {
		return 0, fmt.Errorf("%w: malformed version token %q", ErrInvalidVersion, s)
	}
	n, err := strconv.Atoi(s[1:])
	if err != nil {
		return 0, fmt.Errorf("%w: malformed version token %q", ErrInvalidVersion, s)
	}
	return Version(n), nil
}

// MustParseVersion is ParseVersion for static tokens; it panics on a
// malformed token.
func MustParseVersion(s string) Version {
	v, err := ParseVersion(s)
	if err != nil {
		panic(err)
	}
	return v
}

func (v Version) String() string {
	return "v" + strconv.Itoa(int(v))
}

// Negotiate reconciles a caller's requested version token against the
// backend's latest supported version. An empty requested token defaults to
// latest. A requested version greater than latest is a hard failure naming
// the latest available version, never a silent clamp. Negotiation itself
// never migrates between versions; the storage adapter receives both values.
func Negotiate(requested string, latest Version) (VersionSpec, error) {
	if requested == "" {
		return VersionSpec{Request: latest, Latest: latest}, nil
	}
	req, err := ParseVersion(requested)
	if err != nil {
		return VersionSpec{}, err
	}
	if req > latest {
		return VersionSpec{}, &VersionError{Latest: latest}
	}
	return VersionSpec{Request: req, Latest: latest}, nil
}
