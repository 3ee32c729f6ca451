package attach

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/signadot/attachtree/attach/kpath"
)

type countingListener struct {
	added, removed, changed, synced int
}

func (l *countingListener) OnAttachmentAdded(*Config)   { l.added++ }
func (l *countingListener) OnAttachmentRemoved(*Config) { l.removed++ }
func (l *countingListener) OnAttachmentChanged(*Config) { l.changed++ }
func (l *countingListener) OnSynchronized(*Config)      { l.synced++ }

func (l *countingListener) total() int {
	return l.added + l.removed + l.changed + l.synced
}

func TestDispatchExclusive(t *testing.T) {
	root := mustTree(t, trainDoc).Root()
	tests := []struct {
		typ  ChangeType
		want countingListener
	}{
		{Added, countingListener{added: 1}},
		{Removed, countingListener{removed: 1}},
		{Changed, countingListener{changed: 1}},
		{Synchronized, countingListener{synced: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.typ.String(), func(t *testing.T) {
			l := &countingListener{}
			Dispatch(l, Change{Type: tt.typ, Config: root})
			if *l != tt.want || l.total() != 1 {
				t.Errorf("got %+v, want %+v", *l, tt.want)
			}
		})
	}
}

func TestDispatchPassesConfig(t *testing.T) {
	root := mustTree(t, trainDoc).Root()
	var got []*Config
	l := ListenerFuncs{Changed: func(c *Config) { got = append(got, c) }}
	Dispatch(l, Change{Type: Changed, Config: root.Child(0)})
	Dispatch(l, Change{Type: Added, Config: root.Child(1)})
	if len(got) != 1 || got[0] != root.Child(0) {
		t.Errorf("got %v", got)
	}
}

func TestChangeString(t *testing.T) {
	root := mustTree(t, trainDoc).Root()
	ch := Change{Type: Removed, Config: root.Child(1)}
	if got := ch.String(); got != "{REMOVED attachments[1]}" {
		t.Errorf("String = %q", got)
	}
	if got := ChangeType(9).String(); got != "ChangeType(9)" {
		t.Errorf("String = %q", got)
	}
}

func TestListeners(t *testing.T) {
	root := mustTree(t, trainDoc).Root()
	var order []string
	s := &Listeners{}
	s.Add(ChangeFunc(func(ch Change) { order = append(order, "a:"+ch.Type.String()) }))
	rmB := s.Add(ChangeFunc(func(ch Change) { order = append(order, "b:"+ch.Type.String()) }))
	s.Emit(Change{Type: Added, Config: root})
	rmB()
	rmB()
	s.Emit(Change{Type: Synchronized, Config: root})
	want := []string{"a:ADDED", "b:ADDED", "a:SYNCHRONIZED"}
	if diff := cmp.Diff(want, order); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
	if s.Len() != 1 {
		t.Errorf("Len = %d", s.Len())
	}
}

func TestFilter(t *testing.T) {
	root := mustTree(t, trainDoc).Root()
	l := &countingListener{}
	f := Filter(kpath.MustParse("attachments[1]"), l)
	Dispatch(f, Change{Type: Changed, Config: root.Child(0)})
	Dispatch(f, Change{Type: Changed, Config: root.Child(1)})
	Dispatch(f, Change{Type: Added, Config: root.ChildAt(1, 1, 0)})
	Dispatch(f, Change{Type: Changed, Config: root})
	Dispatch(f, Change{Type: Synchronized, Config: root})
	want := countingListener{changed: 2, added: 1, synced: 1}
	if *l != want {
		t.Errorf("got %+v, want %+v", *l, want)
	}
}
