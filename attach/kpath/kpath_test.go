package kpath

import (
	"errors"
	"testing"
)

func TestParseString(t *testing.T) {
	tests := []struct {
		in   string
		want string
		n    int
	}{
		{"", "", 0},
		{"a", "a", 1},
		{"a.b.c", "a.b.c", 3},
		{"attachments[0]", "attachments[0]", 2},
		{"attachments[0].attachments[12].position.x", "attachments[0].attachments[12].position.x", 6},
		{"[3]", "[3]", 1},
		{"[3][4].b", "[3][4].b", 3},
		{`"a b".c`, `"a b".c`, 2},
		{`'a b'.c`, `"a b".c`, 2},
		{`a."x.y"`, `a."x.y"`, 2},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			p, err := Parse(tt.in)
			if err != nil {
				t.Fatalf("Parse(%q): %v", tt.in, err)
			}
			if p.Len() != tt.n {
				t.Errorf("Parse(%q).Len() = %d, want %d", tt.in, p.Len(), tt.n)
			}
			if got := p.String(); got != tt.want {
				t.Errorf("Parse(%q).String() = %q, want %q", tt.in, got, tt.want)
			}
			again, err := Parse(p.String())
			if err != nil {
				t.Fatalf("reparse %q: %v", p.String(), err)
			}
			if !again.Equal(p) {
				t.Errorf("round trip of %q gave %q", tt.in, again)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	bad := []string{
		"a[",
		"a[-1]",
		"a[x]",
		"a[*]",
		".a",
		"a..b",
		"a.",
		`"a`,
		"a[0]b",
		"a]",
	}
	for _, in := range bad {
		if _, err := Parse(in); !errors.Is(err, ErrSyntax) {
			t.Errorf("Parse(%q) error = %v, want ErrSyntax", in, err)
		}
	}
}

func TestParentName(t *testing.T) {
	p := MustParse("attachments[1].position")
	if got := p.Parent().String(); got != "attachments[1]" {
		t.Errorf("Parent = %q", got)
	}
	if f, ok := p.Name().FieldName(); !ok || f != "position" {
		t.Errorf("Name = %v", p.Name())
	}
	if i, ok := p.Parent().Name().IndexValue(); !ok || i != 1 {
		t.Errorf("Parent().Name() = %v", p.Parent().Name())
	}
	if !Root.Parent().IsRoot() {
		t.Error("parent of root should be root")
	}
	if !MustParse("a").Parent().IsRoot() {
		t.Error("parent of single segment should be root")
	}
}

func TestImmutable(t *testing.T) {
	base := MustParse("a.b.c")
	parent := base.Parent()
	x := parent.Field("x")
	y := parent.Field("y")
	if base.String() != "a.b.c" {
		t.Errorf("base changed to %q", base)
	}
	if x.String() != "a.b.x" || y.String() != "a.b.y" {
		t.Errorf("appends interfere: %q %q", x, y)
	}
	segs := base.Segments()
	segs[0] = Field("zzz")
	if base.String() != "a.b.c" {
		t.Errorf("Segments leaked storage: %q", base)
	}
}

func TestJoinRelativeTo(t *testing.T) {
	tests := []struct {
		base, abs string
		rel       string
		ok        bool
	}{
		{"", "a.b", "a.b", true},
		{"a", "a.b[0]", "b[0]", true},
		{"a.b", "a.b", "", true},
		{"a.c", "a.b", "", false},
		{"attachments[1]", "attachments[10].x", "", false},
		{"a.b.c", "a.b", "", false},
	}
	for _, tt := range tests {
		base, abs := MustParse(tt.base), MustParse(tt.abs)
		rel, ok := RelativeTo(base, abs)
		if ok != tt.ok {
			t.Errorf("RelativeTo(%q, %q) ok = %v, want %v", tt.base, tt.abs, ok, tt.ok)
			continue
		}
		if !ok {
			continue
		}
		if rel.String() != tt.rel {
			t.Errorf("RelativeTo(%q, %q) = %q, want %q", tt.base, tt.abs, rel, tt.rel)
		}
		if j := Join(base, rel); !j.Equal(abs) {
			t.Errorf("Join(%q, %q) = %q, want %q", tt.base, rel, j, tt.abs)
		}
	}
}

func TestCompare(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"", "a", -1},
		{"a", "a.b", -1},
		{"a[1]", "a[0]", 1},
		{"a.b", "a[0]", -1},
		{"a.b", "a.b", 0},
	}
	for _, tt := range tests {
		if got := MustParse(tt.a).Compare(MustParse(tt.b)); got != tt.want {
			t.Errorf("Compare(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestText(t *testing.T) {
	p := MustParse("attachments[2].item")
	d, err := p.MarshalText()
	if err != nil {
		t.Fatal(err)
	}
	var q Path
	if err := q.UnmarshalText(d); err != nil {
		t.Fatal(err)
	}
	if !q.Equal(p) {
		t.Errorf("got %q, want %q", q, p)
	}
}
