package main

import (
	"fmt"

	"github.com/signadot/attachtree/attach"
	"github.com/signadot/attachtree/attach/kpath"

	"github.com/scott-cotton/cli"
	"gopkg.in/yaml.v3"
)

func get(cfg *GetConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Get.Parse(cc, args)
	if err != nil {
		cfg.Get.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) == 0 || len(args) > 2 {
		return fmt.Errorf("%w: get requires a path and at most one file", cli.ErrUsage)
	}
	target, err := kpath.Parse(args[0])
	if err != nil {
		return fmt.Errorf("%w: %w", cli.ErrUsage, err)
	}
	arg := ""
	if len(args) == 2 {
		arg = args[1]
	}
	tr, err := cfg.open(cc, arg)
	if err != nil {
		return err
	}
	c := tr.Root().Resolve(target)
	if c == nil {
		fmt.Fprintf(cc.Out, "%s: no such attachment\n", target)
		return cli.ExitCodeErr(1)
	}
	rel, _ := kpath.RelativeTo(c.Path(), target)
	if rel.IsRoot() {
		p := newPainter(cfg.colors(cc.Out))
		fmt.Fprintln(cc.Out, p.label(c))
		fmt.Fprint(cc.Out, ownPayload(c))
		return nil
	}
	n := lookup(c.Payload(), rel)
	if n == nil {
		fmt.Fprintf(cc.Out, "%s: no such property\n", target)
		return cli.ExitCodeErr(1)
	}
	fmt.Fprint(cc.Out, marshal(n))
	return nil
}

// lookup follows rel inside a payload.
func lookup(n *yaml.Node, rel kpath.Path) *yaml.Node {
	for _, seg := range rel.Segments() {
		n = attach.Unwrap(n)
		if n == nil {
			return nil
		}
		if i, ok := seg.IndexValue(); ok {
			if n.Kind != yaml.SequenceNode || i >= len(n.Content) {
				return nil
			}
			n = n.Content[i]
			continue
		}
		name, _ := seg.FieldName()
		n = attach.Lookup(n, name)
	}
	return n
}
