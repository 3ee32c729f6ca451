package tracker

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/signadot/attachtree/debug"
)

const defaultDebounce = 100 * time.Millisecond

// WatchOptions configures Watch.
type WatchOptions struct {
	// Debounce is how long the file must be quiet before it is reloaded.
	Debounce time.Duration
	Logger   *slog.Logger
	// OnReload, if set, is called on the loop after each reload attempt.
	OnReload func(err error)
}

// Watch reloads the document at path into t whenever the file changes,
// until ctx is done. The directory of path is watched so that editors
// replacing the file are followed. Reloads run on loop; read and parse
// errors are logged and leave the tree as it was.
func Watch(ctx context.Context, path string, t *Tracker, loop *Loop, opts WatchOptions) error {
	if opts.Debounce <= 0 {
		opts.Debounce = defaultDebounce
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}
	defer w.Close()
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}

	var (
		mu    sync.Mutex
		timer *time.Timer
	)
	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
	}()
	reload := func() {
		data, err := os.ReadFile(abs)
		loop.Do(func() {
			if err == nil {
				err = t.Load(data)
			}
			if err != nil {
				opts.Logger.Error("reload failed", "path", abs, "error", err)
			} else {
				opts.Logger.Debug("reloaded", "path", abs, "revision", t.Revision())
			}
			if opts.OnReload != nil {
				opts.OnReload(err)
			}
		})
	}
	schedule := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer == nil {
			timer = time.AfterFunc(opts.Debounce, reload)
			return
		}
		timer.Reset(opts.Debounce)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-loop.Done():
			return ErrLoopDone
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs {
				continue
			}
			if debug.Watch() {
				debug.Logf("watch: %s %s\n", ev.Op, ev.Name)
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) {
				schedule()
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			opts.Logger.Warn("watch error", "path", abs, "error", err)
		}
	}
}
