package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/signadot/attachtree/attach"

	"github.com/scott-cotton/cli"
)

func tree(cfg *TreeConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Tree.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) > 1 {
		return fmt.Errorf("%w: tree takes at most one file", cli.ErrUsage)
	}
	arg := ""
	if len(args) == 1 {
		arg = args[0]
	}
	tr, err := cfg.open(cc, arg)
	if err != nil {
		return err
	}
	printTree(cc.Out, newPainter(cfg.colors(cc.Out)), tr.Root(), cfg.Payload)
	return nil
}

func printTree(w io.Writer, p *painter, root *attach.Config, payload bool) {
	root.Walk(func(c *attach.Config) bool {
		indent := strings.Repeat("  ", c.Depth())
		fmt.Fprintf(w, "%s%s\n", indent, p.label(c))
		if !payload {
			return true
		}
		own := strings.TrimSuffix(ownPayload(c), "\n")
		if own == "" || own == "{}" {
			return true
		}
		for _, line := range strings.Split(own, "\n") {
			fmt.Fprintf(w, "%s  | %s\n", indent, line)
		}
		return true
	})
}
