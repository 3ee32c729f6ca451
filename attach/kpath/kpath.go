package kpath

import (
	"bytes"
	"cmp"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrSyntax is returned (wrapped) by Parse for malformed path text.
var ErrSyntax = errors.New("kpath syntax error")

// Path is a root-relative address. The zero value is the root path.
//
// Paths are values: every operation returns a new Path and never modifies
// the receiver or shares mutable storage with it.
type Path struct {
	segs []Segment
}

// Root is the empty path.
var Root = Path{}

// New returns a path made of segs.
func New(segs ...Segment) Path {
	if len(segs) == 0 {
		return Root
	}
	return Path{segs: append([]Segment(nil), segs...)}
}

// MustParse is like Parse but panics on malformed input.
func MustParse(s string) Path {
	p, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return p
}

// Parse parses text into a Path.
//
// Syntax:
//   - "a.b" → fields a then b
//   - "a[0]" → field a then index 0
//   - "[0].b" → index 0 then field b
//   - "\"a b\".c" or "'a b'.c" → quoted field then c
//   - "" → Root
//
// Negative indices, wildcards and unterminated brackets or quotes are
// errors.
func Parse(s string) (Path, error) {
	if s == "" {
		return Root, nil
	}
	var segs []Segment
	frag := s
	first := true
	for len(frag) > 0 {
		switch frag[0] {
		case '[':
			i := strings.IndexByte(frag, ']')
			if i == -1 {
				return Root, fmt.Errorf("%w: expected '[' <index> ']' in %q", ErrSyntax, s)
			}
			index, err := parseIndex(frag[1:i])
			if err != nil {
				return Root, fmt.Errorf("%w: %v in %q", ErrSyntax, err, s)
			}
			segs = append(segs, Index(index))
			frag = frag[i+1:]
		case '.':
			if first {
				return Root, fmt.Errorf("%w: leading '.' in %q", ErrSyntax, s)
			}
			field, rest, err := parseField(frag[1:])
			if err != nil {
				return Root, fmt.Errorf("%w: %v in %q", ErrSyntax, err, s)
			}
			segs = append(segs, Field(field))
			frag = rest
		default:
			if !first {
				return Root, fmt.Errorf("%w: expected '.' or '[', got %q in %q", ErrSyntax, frag[0], s)
			}
			field, rest, err := parseField(frag)
			if err != nil {
				return Root, fmt.Errorf("%w: %v in %q", ErrSyntax, err, s)
			}
			segs = append(segs, Field(field))
			frag = rest
		}
		first = false
	}
	return Path{segs: segs}, nil
}

func parseIndex(is string) (int, error) {
	if is == "*" {
		return 0, fmt.Errorf("wildcard index not supported")
	}
	u64, err := strconv.ParseUint(is, 10, 31)
	if err != nil {
		return 0, fmt.Errorf("invalid index %q", is)
	}
	return int(u64), nil
}

// parseField parses an object field from the start of frag. Unquoted fields
// stop at '.' or '['.
func parseField(frag string) (field, rest string, err error) {
	if len(frag) == 0 {
		return "", "", fmt.Errorf("expected field at end of path")
	}
	switch frag[0] {
	case '"':
		n, err := quotedEnd(frag)
		if err != nil {
			return "", "", err
		}
		field, err = strconv.Unquote(frag[:n])
		if err != nil {
			return "", "", fmt.Errorf("invalid quoted field %s", frag[:n])
		}
		return field, frag[n:], nil
	case '\'':
		n, err := quotedEnd(frag)
		if err != nil {
			return "", "", err
		}
		r := strings.NewReplacer(`\'`, `'`, `\\`, `\`)
		return r.Replace(frag[1 : n-1]), frag[n:], nil
	}
	i := strings.IndexAny(frag, ".[")
	if i == -1 {
		i = len(frag)
	}
	if i == 0 {
		return "", "", fmt.Errorf("empty field")
	}
	if strings.ContainsAny(frag[:i], "]{}") {
		return "", "", fmt.Errorf("invalid field %q", frag[:i])
	}
	return frag[:i], frag[i:], nil
}

// quotedEnd returns the length of the quoted string at the start of d,
// including both quotes.
func quotedEnd(d string) (int, error) {
	q := d[0]
	escaped := false
	for i := 1; i < len(d); i++ {
		switch d[i] {
		case '\\':
			escaped = !escaped
		case q:
			if !escaped {
				return i + 1, nil
			}
			escaped = false
		default:
			escaped = false
		}
	}
	return 0, fmt.Errorf("unterminated quoted field")
}

// String returns the text form of p; Parse(p.String()) equals p.
func (p Path) String() string {
	buf := bytes.NewBuffer(nil)
	for i, seg := range p.segs {
		if !seg.isIndex && i > 0 {
			buf.WriteByte('.')
		}
		buf.WriteString(seg.String())
	}
	return buf.String()
}

// IsRoot reports whether p has no segments.
func (p Path) IsRoot() bool {
	return len(p.segs) == 0
}

// Len returns the number of segments.
func (p Path) Len() int {
	return len(p.segs)
}

// Segments returns a copy of the segments of p, root first.
func (p Path) Segments() []Segment {
	return append([]Segment(nil), p.segs...)
}

// Segment returns the i'th segment.
func (p Path) Segment(i int) Segment {
	return p.segs[i]
}

// Parent returns p without its last segment. The parent of Root is Root.
func (p Path) Parent() Path {
	n := len(p.segs)
	if n <= 1 {
		return Root
	}
	return Path{segs: p.segs[: n-1 : n-1]}
}

// Name returns the last segment of p, or the zero Segment for Root.
func (p Path) Name() Segment {
	if len(p.segs) == 0 {
		return Segment{}
	}
	return p.segs[len(p.segs)-1]
}

// First returns the first segment of p, or the zero Segment for Root.
func (p Path) First() Segment {
	if len(p.segs) == 0 {
		return Segment{}
	}
	return p.segs[0]
}

// Append returns p followed by segs.
func (p Path) Append(segs ...Segment) Path {
	if len(segs) == 0 {
		return p
	}
	res := make([]Segment, 0, len(p.segs)+len(segs))
	res = append(res, p.segs...)
	res = append(res, segs...)
	return Path{segs: res}
}

// Field returns p followed by a field segment.
func (p Path) Field(name string) Path {
	return p.Append(Field(name))
}

// Index returns p followed by an index segment.
func (p Path) Index(i int) Path {
	return p.Append(Index(i))
}

// Join returns the concatenation of base and rel.
//
// Examples:
//   - Join("a", "b.c") → "a.b.c"
//   - Join("a", "[0]") → "a[0]"
//   - Join("", "b") → "b"
func Join(base, rel Path) Path {
	if base.IsRoot() {
		return rel
	}
	return base.Append(rel.segs...)
}

// RelativeTo returns the suffix of abs after removing the prefix base.
// It returns false if base is not a prefix of abs.
//
// Examples:
//   - RelativeTo("a", "a.b[0]") → ("b[0]", true)
//   - RelativeTo("a.b", "a.b") → ("", true)
//   - RelativeTo("a.c", "a.b") → ("", false)
func RelativeTo(base, abs Path) (Path, bool) {
	if !abs.HasPrefix(base) {
		return Root, false
	}
	return New(abs.segs[len(base.segs):]...), true
}

// HasPrefix reports whether prefix is a (possibly equal) leading part of p.
func (p Path) HasPrefix(prefix Path) bool {
	if len(prefix.segs) > len(p.segs) {
		return false
	}
	for i, seg := range prefix.segs {
		if seg != p.segs[i] {
			return false
		}
	}
	return true
}

// Equal reports whether p and o have the same segments.
func (p Path) Equal(o Path) bool {
	return len(p.segs) == len(o.segs) && p.HasPrefix(o)
}

// Compare compares two paths segment by segment.
// Fields sort before indices; a prefix sorts before its extensions.
// Returns -1 if p < o, 0 if p == o, 1 if p > o.
func (p Path) Compare(o Path) int {
	n := min(len(p.segs), len(o.segs))
	for i := 0; i < n; i++ {
		if c := compareSegment(p.segs[i], o.segs[i]); c != 0 {
			return c
		}
	}
	return cmp.Compare(len(p.segs), len(o.segs))
}

func compareSegment(a, b Segment) int {
	if a.isIndex != b.isIndex {
		if a.isIndex {
			return 1
		}
		return -1
	}
	if a.isIndex {
		return cmp.Compare(a.index, b.index)
	}
	return strings.Compare(a.field, b.field)
}

func (p Path) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Path) UnmarshalText(d []byte) error {
	pp, err := Parse(string(d))
	if err != nil {
		return err
	}
	*p = pp
	return nil
}
