package kpath

import (
	"strconv"
	"strings"
)

// Segment is one step of a Path: an object field or a list index.
type Segment struct {
	field   string
	index   int
	isIndex bool
}

// Field returns a field segment.
func Field(name string) Segment {
	return Segment{field: name}
}

// Index returns a list index segment.
func Index(i int) Segment {
	return Segment{index: i, isIndex: true}
}

// IsIndex reports whether s is a list index segment.
func (s Segment) IsIndex() bool {
	return s.isIndex
}

// FieldName returns the field name and true if s is a field segment.
func (s Segment) FieldName() (string, bool) {
	if s.isIndex {
		return "", false
	}
	return s.field, true
}

// IndexValue returns the index and true if s is a list index segment.
func (s Segment) IndexValue() (int, bool) {
	if !s.isIndex {
		return 0, false
	}
	return s.index, true
}

// String returns the canonical text of this single segment.
// Examples:
//   - Field("a") → "a"
//   - Field("field name") → "\"field name\""
//   - Index(3) → "[3]"
func (s Segment) String() string {
	if s.isIndex {
		return "[" + strconv.Itoa(s.index) + "]"
	}
	if quoteField(s.field) {
		return strconv.Quote(s.field)
	}
	return s.field
}

// quoteField reports whether a field needs quoting to survive a round trip
// through Parse.
func quoteField(f string) bool {
	if f == "" {
		return true
	}
	if f[0] == '"' || f[0] == '\'' {
		return true
	}
	return strings.ContainsAny(f, ".[]{} \t\n\r")
}
