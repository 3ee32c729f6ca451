package main

import (
	"fmt"
	"strings"

	"github.com/signadot/attachtree/attach"

	"github.com/fatih/color"
	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
	"gopkg.in/yaml.v3"
)

type painter struct {
	typ, model, path, added, removed, changed func(string, ...any) string
}

func newPainter(on bool) *painter {
	if !on {
		plain := fmt.Sprintf
		return &painter{plain, plain, plain, plain, plain, plain}
	}
	return &painter{
		typ:     color.CyanString,
		model:   color.MagentaString,
		path:    color.RGB(128, 168, 196).SprintfFunc(),
		added:   color.GreenString,
		removed: color.RedString,
		changed: color.YellowString,
	}
}

// label renders c as "TYPE(model) path".
func (p *painter) label(c *attach.Config) string {
	var b strings.Builder
	typ := c.TypeID()
	if typ == "" {
		typ = "-"
	}
	b.WriteString(p.typ("%s", typ))
	if m, ok := c.AsModel(); ok {
		b.WriteString(p.model("(%s)", m.ModelName()))
	}
	if path := c.Path(); !path.IsRoot() {
		b.WriteByte(' ')
		b.WriteString(p.path("%s", path))
	}
	return b.String()
}

func (p *painter) change(ch attach.Change) string {
	var paint func(string, ...any) string
	switch ch.Type {
	case attach.Added:
		paint = p.added
	case attach.Removed:
		paint = p.removed
	case attach.Changed:
		paint = p.changed
	default:
		paint = fmt.Sprintf
	}
	return paint("%-12s", ch.Type) + " " + p.label(ch.Config)
}

// ownPayload renders the payload of c without its child attachments.
func ownPayload(c *attach.Config) string {
	n := c.Payload()
	if n == nil {
		return ""
	}
	if n.Kind == yaml.MappingNode {
		key := c.Tree().Schema().AttachmentsKey
		own := *n
		own.Content = nil
		for i := 0; i+1 < len(n.Content); i += 2 {
			if n.Content[i].Value == key {
				continue
			}
			own.Content = append(own.Content, n.Content[i], n.Content[i+1])
		}
		n = &own
	}
	return marshal(n)
}

func marshal(n *yaml.Node) string {
	d, err := yaml.Marshal(n)
	if err != nil {
		return fmt.Sprintf("# %v\n", err)
	}
	return string(d)
}

// lineDiff returns a line oriented diff of from and to, one line per
// output line prefixed with "-", "+" or " ".
func (p *painter) lineDiff(from, to string) string {
	dmp := diffpatch.New()
	a, b, lines := dmp.DiffLinesToChars(from, to)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)
	var out strings.Builder
	for _, d := range diffs {
		prefix, paint := " ", fmt.Sprintf
		switch d.Type {
		case diffpatch.DiffInsert:
			prefix, paint = "+", p.added
		case diffpatch.DiffDelete:
			prefix, paint = "-", p.removed
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			out.WriteString(paint("%s", prefix+strings.TrimSuffix(line, "\n")))
			out.WriteByte('\n')
		}
	}
	return out.String()
}
