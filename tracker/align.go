package tracker

import (
	"unicode/utf8"

	diffpatch "github.com/sergi/go-diff/diffmatchpatch"

	"gopkg.in/yaml.v3"
)

// opKind is one step of a child alignment.
type opKind int

const (
	opKeep    opKind = iota // same content, old and new
	opUpdate                // old and new occupy the same slot
	opRemove                // old only
	opInsert                // new only
)

type alignOp struct {
	kind opKind
	n    int
}

// alignChildren aligns old and new child payloads:
//
//  1. summarize each child by the hash of its whole subtree
//  2. diff the sequences of summaries
//  3. equal runs are kept, a delete run next to an insert run pairs up
//     into updates, the rest are removals and insertions
func alignChildren(from, to []*yaml.Node) []alignOp {
	m := map[uint64]rune{}
	fromRunes := summarize(m, from)
	toRunes := summarize(m, to)
	diffs := diffpatch.New().DiffMainRunes(fromRunes, toRunes, false)

	var ops []alignOp
	for i := 0; i < len(diffs); i++ {
		diff := &diffs[i]
		n := utf8.RuneCountInString(diff.Text)
		if diff.Type == diffpatch.DiffEqual {
			ops = append(ops, alignOp{kind: opKeep, n: n})
			continue
		}
		var dels, ins int
		if diff.Type == diffpatch.DiffDelete {
			dels = n
		} else {
			ins = n
		}
		if i+1 < len(diffs) && diffs[i+1].Type != diffpatch.DiffEqual && diffs[i+1].Type != diff.Type {
			i++
			m := utf8.RuneCountInString(diffs[i].Text)
			if diffs[i].Type == diffpatch.DiffDelete {
				dels = m
			} else {
				ins = m
			}
		}
		if pair := min(dels, ins); pair > 0 {
			ops = append(ops, alignOp{kind: opUpdate, n: pair})
		}
		if dels > ins {
			ops = append(ops, alignOp{kind: opRemove, n: dels - ins})
		}
		if ins > dels {
			ops = append(ops, alignOp{kind: opInsert, n: ins - dels})
		}
	}
	return ops
}

func summarize(m map[uint64]rune, nodes []*yaml.Node) []rune {
	rs := make([]rune, len(nodes))
	for i, v := range nodes {
		sum := hashNode(v, "")
		r, ok := m[sum]
		if !ok {
			r = rune(len(m))
			m[sum] = r
		}
		rs[i] = r
	}
	return rs
}
