package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/signadot/attachtree/attach"
	"github.com/signadot/attachtree/live"
	"github.com/signadot/attachtree/tracker"

	"github.com/google/gops/agent"
	"github.com/scott-cotton/cli"
)

func watch(cfg *WatchConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Watch.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) != 1 || args[0] == "-" {
		return fmt.Errorf("%w: watch requires exactly one file", cli.ErrUsage)
	}
	file := args[0]

	if cfg.Gops {
		// Start gops agent for debugging
		if err := agent.Listen(agent.Options{}); err != nil {
			fmt.Fprintf(cc.Out, "gops agent failed: %v\n", err)
		}
		defer agent.Close()
	}

	tc, err := cfg.trackerConfig()
	if err != nil {
		return err
	}
	wOpts := tc.WatchOptions()
	wOpts.Logger = theLog
	if cfg.Debounce > 0 {
		wOpts.Debounce = cfg.Debounce
	}

	tr, err := cfg.open(cc, file)
	if err != nil {
		return err
	}
	reg := live.NewRegistry(theLog)
	tr.SetLiveFinder(reg)
	tr.StartTracking(reg.Listener())
	h, err := reg.Spawn(file, tr.Root())
	if err != nil {
		return err
	}

	p := newPainter(cfg.colors(cc.Out))
	printTree(cc.Out, p, tr.Root(), false)
	w := &changeWriter{out: cc.Out, p: p, h: h, tr: tr}
	if cfg.Diff {
		w.snap = map[*attach.Config]string{}
		w.remember(tr.Root())
	}
	tr.StartTracking(attach.ChangeFunc(w.write))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	loop := tracker.NewLoop(16)
	go loop.Run(ctx)
	err = tracker.Watch(ctx, file, tr, loop, wOpts)
	if ctx.Err() != nil {
		return nil
	}
	return err
}

// changeWriter prints tracker changes as they are delivered.
type changeWriter struct {
	out  io.Writer
	p    *painter
	h    *live.Hierarchy
	tr   *tracker.Tracker
	snap map[*attach.Config]string
}

func (w *changeWriter) write(ch attach.Change) {
	if ch.Type == attach.Synchronized {
		n := 0
		w.h.Walk(func(*live.Attachment) { n++ })
		fmt.Fprintf(w.out, "%s revision %d, %d live attachments\n",
			w.p.change(ch), w.tr.Revision(), n)
		return
	}
	fmt.Fprintln(w.out, w.p.change(ch))
	if w.snap == nil {
		return
	}
	switch ch.Type {
	case attach.Added:
		w.remember(ch.Config)
	case attach.Removed:
		ch.Config.Walk(func(c *attach.Config) bool {
			delete(w.snap, c)
			return true
		})
	case attach.Changed:
		now := ownPayload(ch.Config)
		fmt.Fprint(w.out, w.p.lineDiff(w.snap[ch.Config], now))
		w.snap[ch.Config] = now
	}
}

func (w *changeWriter) remember(root *attach.Config) {
	root.Walk(func(c *attach.Config) bool {
		w.snap[c] = ownPayload(c)
		return true
	})
}
