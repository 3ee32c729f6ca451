package attach

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"
)

const trainDoc = `
type: EMPTY
attachments:
- type: ITEM
  item: apple
  position:
    x: 1
- type: MODEL
  modelName: wagon
  attachments:
  - type: SEAT
  - type: ITEM
    attachments:
    - type: TEXT
      text: hello
- type: MODEL
  modelName: ""
`

func mustTree(t *testing.T, doc string, opts ...TreeOption) *Tree {
	t.Helper()
	n := &yaml.Node{}
	if err := yaml.Unmarshal([]byte(doc), n); err != nil {
		t.Fatalf("yaml: %v", err)
	}
	tree, err := NewTree(n, opts...)
	if err != nil {
		t.Fatalf("NewTree: %v", err)
	}
	return tree
}

func discardLog() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func TestSingleChild(t *testing.T) {
	tree := mustTree(t, "type: EMPTY\nattachments:\n- type: ITEM\n")
	root := tree.Root()
	c := root.Child(0)
	if c == nil {
		t.Fatal("no child 0")
	}
	if c.ChildIndex() != 0 {
		t.Errorf("ChildIndex = %d", c.ChildIndex())
	}
	if c.TypeID() != "ITEM" {
		t.Errorf("TypeID = %q", c.TypeID())
	}
	if got := c.Path().String(); got != "attachments[0]" {
		t.Errorf("Path = %q", got)
	}
	if c.Parent() != root {
		t.Error("parent is not root")
	}
	if !root.Path().IsRoot() || root.Parent() != nil {
		t.Error("root path or parent")
	}
}

func TestPathsAndChildPaths(t *testing.T) {
	tree := mustTree(t, trainDoc)
	root := tree.Root()
	tests := []struct {
		indices []int
		typeID  string
		path    string
	}{
		{nil, "EMPTY", ""},
		{[]int{0}, "ITEM", "attachments[0]"},
		{[]int{1}, "MODEL", "attachments[1]"},
		{[]int{1, 0}, "SEAT", "attachments[1].attachments[0]"},
		{[]int{1, 1, 0}, "TEXT", "attachments[1].attachments[1].attachments[0]"},
	}
	for _, tt := range tests {
		c := root.ChildAt(tt.indices...)
		if c == nil {
			t.Errorf("ChildAt(%v) = nil", tt.indices)
			continue
		}
		if c.TypeID() != tt.typeID {
			t.Errorf("ChildAt(%v).TypeID() = %q, want %q", tt.indices, c.TypeID(), tt.typeID)
		}
		if got := c.Path().String(); got != tt.path {
			t.Errorf("ChildAt(%v).Path() = %q, want %q", tt.indices, got, tt.path)
		}
		want := tt.indices
		if want == nil {
			want = []int{}
		}
		if diff := cmp.Diff(want, c.ChildPath()); diff != "" {
			t.Errorf("ChildPath mismatch (-want +got):\n%s", diff)
		}
		if c.Depth() != len(tt.indices) {
			t.Errorf("Depth = %d", c.Depth())
		}
	}
}

func TestModelKind(t *testing.T) {
	tree := mustTree(t, trainDoc)
	root := tree.Root()
	m, ok := root.Child(1).AsModel()
	if !ok {
		t.Fatal("child 1 is not a model")
	}
	if m.ModelName() != "wagon" || m.Kind() != KindModel {
		t.Errorf("model = %q %s", m.ModelName(), m.Kind())
	}
	// a model attachment without a name is a plain attachment
	empty := root.Child(2)
	if _, ok := empty.AsModel(); ok || empty.Kind() != KindPlain {
		t.Errorf("empty model name should be plain, got %s", empty.Kind())
	}
	if root.Child(0).Kind() != KindPlain {
		t.Error("item should be plain")
	}
}

func TestPayloadPassThrough(t *testing.T) {
	tree := mustTree(t, trainDoc)
	item := tree.Root().Child(0)
	if v := Lookup(item.Payload(), "item"); v == nil || v.Value != "apple" {
		t.Errorf("item payload = %v", v)
	}
	if v := Lookup(Lookup(item.Payload(), "position"), "x"); v == nil || v.Value != "1" {
		t.Errorf("position.x = %v", v)
	}
}

func TestCustomSchema(t *testing.T) {
	doc := "kind: ROOT\nkids:\n- kind: A\n  kids:\n  - kind: B\n"
	tree := mustTree(t, doc, TreeSchema(Schema{AttachmentsKey: "kids", TypeKey: "kind"}))
	b := tree.Root().ChildAt(0, 0)
	if b == nil || b.TypeID() != "B" {
		t.Fatalf("got %v", b)
	}
	if got := b.Path().String(); got != "kids[0].kids[0]" {
		t.Errorf("Path = %q", got)
	}
	if tree.Schema().ModelType != "MODEL" {
		t.Errorf("defaults not applied: %+v", tree.Schema())
	}
}

func TestNonListAttachments(t *testing.T) {
	tree := mustTree(t, "type: A\nattachments: 3\n", TreeLogger(discardLog()))
	if n := len(tree.Root().Children()); n != 0 {
		t.Errorf("got %d children", n)
	}
}

func TestNewTreeRejectsScalar(t *testing.T) {
	n := &yaml.Node{}
	if err := yaml.Unmarshal([]byte("just a string"), n); err != nil {
		t.Fatal(err)
	}
	if _, err := NewTree(n); err == nil {
		t.Error("expected error for scalar document")
	}
}

func TestWalk(t *testing.T) {
	tree := mustTree(t, trainDoc)
	var got []string
	tree.Root().Walk(func(c *Config) bool {
		got = append(got, c.TypeID())
		return c.TypeID() != "ITEM" || c.Depth() == 1
	})
	want := []string{"EMPTY", "ITEM", "MODEL", "SEAT", "ITEM", "MODEL"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("walk mismatch (-want +got):\n%s", diff)
	}
}
