package main

import (
	"fmt"

	"github.com/signadot/attachtree/query"

	"github.com/scott-cotton/cli"
)

func selectAttachments(cfg *SelectConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Select.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) == 0 || len(args) > 2 {
		return fmt.Errorf("%w: select requires an expression and at most one file", cli.ErrUsage)
	}
	q, err := query.Compile(args[0])
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
	res, err := query.Select(tr.Root(), q)
	if err != nil {
		return err
	}
	if cfg.Count {
		fmt.Fprintln(cc.Out, len(res))
		return nil
	}
	p := newPainter(cfg.colors(cc.Out))
	for _, c := range res {
		fmt.Fprintln(cc.Out, p.label(c))
	}
	return nil
}
