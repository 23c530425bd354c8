package core

import (
	"strconv"
	"strings"
)

// Version is a single package or compiler version: a sequence of dotted
// components, each numeric or alphabetic. Components are compared
// element-wise, numeric components ordering before alphabetic ones when
// the types differ.
type Version struct {
	original string
	parts    []versionPart
}

type versionPart struct {
	num     int64
	text    string
	numeric bool
}

// NewVersion parses a version out of its string form. Any identifier is a
// valid version, so there is no error case.
func NewVersion(value string) Version {
	v := Version{original: value}
	for _, piece := range strings.Split(value, ".") {
		if num, err := strconv.ParseInt(piece, 10, 64); err == nil {
			v.parts = append(v.parts, versionPart{num: num, numeric: true})
			continue
		}
		v.parts = append(v.parts, versionPart{text: piece})
	}
	return v
}

// Compare returns -1, 0, or 1 ordering v against other.
func (v Version) Compare(other Version) int {
	for i := 0; i < len(v.parts) && i < len(other.parts); i++ {
		a, b := v.parts[i], other.parts[i]
		switch {
		case a.numeric && b.numeric:
			if a.num != b.num {
				if a.num < b.num {
					return -1
				}
				return 1
			}
		case !a.numeric && !b.numeric:
			if c := strings.Compare(a.text, b.text); c != 0 {
				return c
			}
		case a.numeric:
			// Numeric components order before alphabetic ones.
			return -1
		default:
			return 1
		}
	}
	switch {
	case len(v.parts) < len(other.parts):
		return -1
	case len(v.parts) > len(other.parts):
		return 1
	}
	return 0
}

func (v Version) Equal(other Version) bool {
	return v.Compare(other) == 0
}

func (v Version) LessThan(other Version) bool {
	return v.Compare(other) < 0
}

func (v Version) String() string {
	return v.original
}

// VersionRange is an inclusive interval of versions. A nil bound leaves
// that end of the interval open.
type VersionRange struct {
	Lo *Version
	Hi *Version
}

// Contains reports whether the version falls inside the interval.
func (r VersionRange) Contains(v Version) bool {
	if r.Lo != nil && v.LessThan(*r.Lo) {
		return false
	}
	if r.Hi != nil && r.Hi.LessThan(v) {
		return false
	}
	return true
}

// Overlaps reports whether the two intervals share at least one version.
func (r VersionRange) Overlaps(other VersionRange) bool {
	if r.Lo != nil && other.Hi != nil && other.Hi.LessThan(*r.Lo) {
		return false
	}
	if other.Lo != nil && r.Hi != nil && r.Hi.LessThan(*other.Lo) {
		return false
	}
	return true
}

func (r VersionRange) String() string {
	lo, hi := "", ""
	if r.Lo != nil {
		lo = r.Lo.String()
	}
	if r.Hi != nil {
		hi = r.Hi.String()
	}
	return lo + ":" + hi
}

// versionSpan is one element of a VersionList: either a single Version
// (point) or a VersionRange. Spans carry explicit bounds so that list
// arithmetic does not care which kind it is looking at.
type versionSpan struct {
	rng   VersionRange
	point bool
}

func pointSpan(v Version) versionSpan {
	return versionSpan{rng: VersionRange{Lo: &v, Hi: &v}, point: true}
}

func rangeSpan(r VersionRange) versionSpan {
	return versionSpan{rng: r}
}

func (s versionSpan) overlaps(other versionSpan) bool {
	return s.rng.Overlaps(other.rng)
}

// union assumes the spans overlap and returns the merged span.
func (s versionSpan) union(other versionSpan) versionSpan {
	if s.point && other.point && s.rng.Lo.Equal(*other.rng.Lo) {
		return s
	}
	merged := VersionRange{Lo: s.rng.Lo, Hi: s.rng.Hi}
	if merged.Lo != nil && (other.rng.Lo == nil || other.rng.Lo.LessThan(*merged.Lo)) {
		merged.Lo = other.rng.Lo
	}
	if merged.Hi != nil && (other.rng.Hi == nil || merged.Hi.LessThan(*other.rng.Hi)) {
		merged.Hi = other.rng.Hi
	}
	return versionSpan{rng: merged}
}

// intersect assumes the spans overlap and returns their intersection,
// collapsing to a point when the bounds meet.
func (s versionSpan) intersect(other versionSpan) versionSpan {
	lo, hi := s.rng.Lo, s.rng.Hi
	if other.rng.Lo != nil && (lo == nil || lo.LessThan(*other.rng.Lo)) {
		lo = other.rng.Lo
	}
	if other.rng.Hi != nil && (hi == nil || other.rng.Hi.LessThan(*hi)) {
		hi = other.rng.Hi
	}
	out := versionSpan{rng: VersionRange{Lo: lo, Hi: hi}}
	if (s.point || other.point) || (lo != nil && hi != nil && lo.Equal(*hi)) {
		out.point = true
	}
	return out
}

// covered reports whether s lies entirely within other.
func (s versionSpan) covered(other versionSpan) bool {
	if other.rng.Lo != nil && (s.rng.Lo == nil || s.rng.Lo.LessThan(*other.rng.Lo)) {
		return false
	}
	if other.rng.Hi != nil && (s.rng.Hi == nil || other.rng.Hi.LessThan(*s.rng.Hi)) {
		return false
	}
	return true
}

func (s versionSpan) String() string {
	if s.point {
		return s.rng.Lo.String()
	}
	return s.rng.String()
}

// VersionList is an ordered union of Versions and VersionRanges. Elements
// are kept in ascending order and pairwise disjoint; adding an element
// that overlaps an existing one coalesces the two.
type VersionList struct {
	spans []versionSpan
}

// NewVersionList builds a list from individual versions.
func NewVersionList(versions ...Version) *VersionList {
	list := &VersionList{}
	for _, v := range versions {
		list.Add(v)
	}
	return list
}

// AnyVersionList returns the list containing the single unbounded range,
// written ":". It is the version constraint of a spec that mentions no
// version at all.
func AnyVersionList() *VersionList {
	return &VersionList{spans: []versionSpan{rangeSpan(VersionRange{})}}
}

// Add inserts a single version, coalescing overlaps.
func (l *VersionList) Add(v Version) {
	l.addSpan(pointSpan(v))
}

// AddRange inserts a range, coalescing overlaps.
func (l *VersionList) AddRange(r VersionRange) {
	l.addSpan(rangeSpan(r))
}

func (l *VersionList) addSpan(span versionSpan) {
	var out []versionSpan
	inserted := false
	for _, existing := range l.spans {
		switch {
		case existing.overlaps(span):
			span = span.union(existing)
		case !inserted && spanBefore(span, existing):
			out = append(out, span)
			inserted = true
			out = append(out, existing)
		default:
			out = append(out, existing)
		}
	}
	if !inserted {
		// Any remaining overlap was already folded into span.
		pos := len(out)
		for pos > 0 && spanBefore(span, out[pos-1]) {
			pos--
		}
		out = append(out[:pos], append([]versionSpan{span}, out[pos:]...)...)
	}
	l.spans = out
}

// spanBefore orders spans by their low bound, open ends first.
func spanBefore(a, b versionSpan) bool {
	switch {
	case a.rng.Lo == nil:
		return b.rng.Lo != nil
	case b.rng.Lo == nil:
		return false
	default:
		return a.rng.Lo.LessThan(*b.rng.Lo)
	}
}

// Empty reports whether the list constrains to nothing at all.
func (l *VersionList) Empty() bool {
	return len(l.spans) == 0
}

// Any reports whether the list is the unconstrained ":" list.
func (l *VersionList) Any() bool {
	return len(l.spans) == 1 && !l.spans[0].point &&
		l.spans[0].rng.Lo == nil && l.spans[0].rng.Hi == nil
}

// Concrete reports whether the list pins exactly one version.
func (l *VersionList) Concrete() bool {
	return len(l.spans) == 1 && l.spans[0].point
}

// Single returns the pinned version of a concrete list.
func (l *VersionList) Single() (Version, bool) {
	if !l.Concrete() {
		return Version{}, false
	}
	return *l.spans[0].rng.Lo, true
}

// Overlaps reports whether the two lists share at least one version.
func (l *VersionList) Overlaps(other *VersionList) bool {
	for _, a := range l.spans {
		for _, b := range other.spans {
			if a.overlaps(b) {
				return true
			}
		}
	}
	return false
}

// Satisfies reports whether l is a refinement of other: every element of
// l is covered by some element of other and the lists overlap.
func (l *VersionList) Satisfies(other *VersionList) bool {
	for _, a := range l.spans {
		found := false
		for _, b := range other.spans {
			if a.covered(b) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return l.Overlaps(other)
}

// Contains reports whether a single version lies inside the list.
func (l *VersionList) Contains(v Version) bool {
	for _, span := range l.spans {
		if span.rng.Contains(v) {
			return true
		}
	}
	return false
}

// Intersect replaces the list with its element-wise intersection with
// other and reports whether the result is nonempty.
func (l *VersionList) Intersect(other *VersionList) bool {
	var out []versionSpan
	for _, a := range l.spans {
		for _, b := range other.spans {
			if a.overlaps(b) {
				out = append(out, a.intersect(b))
			}
		}
	}
	result := &VersionList{}
	for _, span := range out {
		result.addSpan(span)
	}
	l.spans = result.spans
	return len(l.spans) > 0
}

// Copy returns an independent copy of the list.
func (l *VersionList) Copy() *VersionList {
	clone := &VersionList{}
	clone.spans = append(clone.spans, l.spans...)
	return clone
}

// Equal reports whether two lists have identical elements.
func (l *VersionList) Equal(other *VersionList) bool {
	return l.String() == other.String()
}

func (l *VersionList) String() string {
	parts := make([]string, 0, len(l.spans))
	for _, span := range l.spans {
		parts = append(parts, span.String())
	}
	return strings.Join(parts, ",")
}
