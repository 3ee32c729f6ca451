package tracker

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func startLoop(t *testing.T) (*Loop, context.CancelFunc) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	loop := NewLoop(8)
	go loop.Run(ctx)
	t.Cleanup(cancel)
	return loop, cancel
}

func TestLoopCall(t *testing.T) {
	loop, cancel := startLoop(t)
	ctx := context.Background()
	n := 0
	for i := 0; i < 10; i++ {
		loop.Do(func() { n++ })
	}
	want := errors.New("done")
	err := loop.Call(ctx, func() error {
		if n != 10 {
			t.Errorf("n = %d before call", n)
		}
		return want
	})
	if err != want {
		t.Errorf("Call returned %v", err)
	}

	cancel()
	<-loop.Done()
	if loop.Do(func() {}) {
		t.Error("Do accepted work after stop")
	}
	if err := loop.Call(ctx, func() error { return nil }); !errors.Is(err, ErrLoopDone) {
		t.Errorf("Call after stop: %v", err)
	}
}

// reload is what OnReload saw, read on the loop.
type reload struct {
	err      error
	revision int64
	kids     int
}

func TestWatch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "train.yaml")
	if err := os.WriteFile(path, []byte(train), 0o644); err != nil {
		t.Fatal(err)
	}
	tr := mustTracker(t, train)
	loop, _ := startLoop(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	reloads := make(chan reload, 64)
	watchErr := make(chan error, 1)
	go func() {
		watchErr <- Watch(ctx, path, tr, loop, WatchOptions{
			Debounce: 10 * time.Millisecond,
			Logger:   quiet(),
			OnReload: func(err error) {
				reloads <- reload{err, tr.Revision(), len(tr.Root().Children())}
			},
		})
	}()

	// last is the state after the latest successful reload. A failed
	// reload must leave it untouched.
	last := reload{revision: 0, kids: 3}
	rewrite := func(doc string, want func(error) bool) {
		t.Helper()
		deadline := time.After(10 * time.Second)
		for {
			// the watch may not be registered yet, so rewrite until the
			// wanted reload is seen.
			if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
				t.Fatal(err)
			}
			tick := time.After(200 * time.Millisecond)
			for {
				select {
				case r := <-reloads:
					if r.err == nil {
						last = r
					} else if r.revision != last.revision || r.kids != last.kids {
						t.Errorf("failed reload %v left revision %d with %d children, want %d with %d",
							r.err, r.revision, r.kids, last.revision, last.kids)
					}
					if want(r.err) {
						return
					}
					continue
				case <-tick:
				case <-deadline:
					t.Fatalf("no reload of %q", doc)
				}
				break
			}
		}
	}

	rewrite("type: EMPTY\nattachments:\n- type: ITEM\n", func(err error) bool { return err == nil })
	if last.kids != 1 || last.revision < 1 {
		t.Errorf("after reload: revision %d, %d children", last.revision, last.kids)
	}
	rewrite("type: EMPTY\nattachments: [\n", func(err error) bool {
		return err != nil && !errors.Is(err, ErrNotMapping)
	})
	rewrite("- type: ITEM\n- type: SEAT\n", func(err error) bool { return errors.Is(err, ErrNotMapping) })

	var n int
	var rev int64
	if err := loop.Call(ctx, func() error {
		n, rev = len(tr.Root().Children()), tr.Revision()
		return nil
	}); err != nil {
		t.Fatal(err)
	}
	if n != last.kids || rev != last.revision {
		t.Errorf("after failed reloads: revision %d with %d children, want %d with %d", rev, n, last.revision, last.kids)
	}

	cancel()
	if err := <-watchErr; !errors.Is(err, context.Canceled) {
		t.Errorf("Watch returned %v", err)
	}
}
