package cindex

import "fmt"

// Version is a libclang release, ordered and comparable. It is detected once
// at load time and read-only thereafter.
type Version struct {
	Major int
	Minor int
}

// Known libclang releases, oldest first.
var (
	Clang2_7 = Version{2, 7}
	Clang2_8 = Version{2, 8}
	Clang2_9 = Version{2, 9}
	Clang3_0 = Version{3, 0}
	Clang3_1 = Version{3, 1}
	Clang3_2 = Version{3, 2}
	Clang3_3 = Version{3, 3}
)

// Less reports whether v precedes o.
func (v Version) Less(o Version) bool {
	if v.Major != o.Major {
		return v.Major < o.Major
	}
	return v.Minor < o.Minor
}

// AtLeast reports whether v is o or newer.
func (v Version) AtLeast(o Version) bool {
	return !v.Less(o)
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// Prober answers symbol-presence queries. *dylib.Handle satisfies it.
type Prober interface {
	Has(name string) bool
}

// versionMarkers lists, newest first, one symbol per release that was
// introduced at that release and never removed. Markers are strictly
// additive across releases: the presence of a newer marker implies every
// older marker's release requirements are satisfiable. That monotonicity is
// a precondition of the probe, not something it re-verifies.
var versionMarkers = []struct {
	version Version
	symbol  string
}{
	{Clang3_3, "clang_Cursor_isBitField"},
	{Clang3_2, "clang_Cursor_getSpellingNameRange"},
	{Clang3_1, "clang_Cursor_getArgument"},
	{Clang3_0, "clang_Range_isNull"},
	{Clang2_9, "clang_isAttribute"},
	{Clang2_8, "clang_getTokenKind"},
	{Clang2_7, "clang_createIndex"},
}

// DetectVersion probes marker symbols in strictly descending version order
// and returns the version of the first marker present. If no marker is
// present the library is not a recognized libclang build and
// ErrUnsupportedVersion is returned.
func DetectVersion(p Prober) (Version, error) {
	for _, m := range versionMarkers {
		if p.Has(m.symbol) {
			return m.version, nil
		}
	}
	return Version{}, ErrUnsupportedVersion
}
