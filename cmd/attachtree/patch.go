package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/signadot/attachtree/attach"
	"github.com/signadot/attachtree/tracker"

	jsonpatch "github.com/evanphx/json-patch"
	"github.com/scott-cotton/cli"
	"gopkg.in/yaml.v3"
)

func patch(cfg *PatchConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Patch.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: patch requires a patch file and a document file", cli.ErrUsage)
	}
	patchFile, docFile := args[0], args[1]
	if cfg.Write && docFile == "-" {
		return fmt.Errorf("%w: -w needs a document file", cli.ErrUsage)
	}
	pd, err := readArg(cc, patchFile)
	if err != nil {
		return err
	}
	tr, err := cfg.open(cc, docFile)
	if err != nil {
		return err
	}
	out, err := applyPatch(tr.Document(), pd)
	if err != nil {
		return fmt.Errorf("error patching %s with %s: %w", docFile, patchFile, err)
	}

	p := newPainter(cfg.colors(cc.Out))
	tr.StartTracking(attach.ChangeFunc(func(ch attach.Change) {
		if ch.Type != attach.Synchronized {
			fmt.Fprintln(cc.Out, p.change(ch))
		}
	}))
	if err := tr.Update(out); err != nil {
		return err
	}
	res, err := yaml.Marshal(out)
	if err != nil {
		return err
	}
	if cfg.Write {
		return os.WriteFile(docFile, res, 0644)
	}
	fmt.Fprintf(cc.Out, "---\n%s", res)
	return nil
}

// applyPatch applies an RFC 6902 patch, given in JSON or YAML, to doc. The
// result is in block style and loses comments and key order.
func applyPatch(doc *yaml.Node, patchData []byte) (*yaml.Node, error) {
	dj, err := toJSON(doc)
	if err != nil {
		return nil, err
	}
	pn, err := tracker.Parse(patchData)
	if err != nil {
		return nil, err
	}
	pj, err := toJSON(pn)
	if err != nil {
		return nil, err
	}
	ops, err := jsonpatch.DecodePatch(pj)
	if err != nil {
		return nil, err
	}
	jOut, err := ops.Apply(dj)
	if err != nil {
		return nil, err
	}
	out, err := tracker.Parse(jOut)
	if err != nil {
		return nil, err
	}
	blockStyle(out)
	return out, nil
}

// blockStyle clears the flow and quoting styles the JSON form left on n.
func blockStyle(n *yaml.Node) {
	n.Style = 0
	for _, k := range n.Content {
		blockStyle(k)
	}
}

func toJSON(n *yaml.Node) ([]byte, error) {
	var v any
	if err := n.Decode(&v); err != nil {
		return nil, err
	}
	return json.Marshal(v)
}
