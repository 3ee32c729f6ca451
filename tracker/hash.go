package tracker

import (
	"encoding/binary"
	"hash/maphash"
	"slices"

	"github.com/signadot/attachtree/attach"

	"gopkg.in/yaml.v3"
)

var seed = maphash.MakeSeed()

// hashNode returns a 64-bit hash of the content of n. Comments, styles and
// the order of mapping keys are not included. Keys equal to skip at the top
// level of n are left out.
func hashNode(n *yaml.Node, skip string) uint64 {
	var h maphash.Hash
	h.SetSeed(seed)
	n = attach.Unwrap(n)
	if n == nil {
		return h.Sum64()
	}
	h.WriteByte(byte(n.Kind))
	var b [8]byte
	switch n.Kind {
	case yaml.ScalarNode:
		h.WriteString(n.ShortTag())
		h.WriteByte(0)
		h.WriteString(n.Value)
	case yaml.SequenceNode:
		for _, v := range n.Content {
			binary.LittleEndian.PutUint64(b[:], hashNode(v, ""))
			h.Write(b[:])
		}
	case yaml.MappingNode:
		pairs := make([]uint64, 0, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			k := n.Content[i]
			if skip != "" && k.Value == skip {
				continue
			}
			var ph maphash.Hash
			ph.SetSeed(seed)
			binary.LittleEndian.PutUint64(b[:], hashNode(k, ""))
			ph.Write(b[:])
			binary.LittleEndian.PutUint64(b[:], hashNode(n.Content[i+1], ""))
			ph.Write(b[:])
			pairs = append(pairs, ph.Sum64())
		}
		slices.Sort(pairs)
		for _, sum := range pairs {
			binary.LittleEndian.PutUint64(b[:], sum)
			h.Write(b[:])
		}
	}
	return h.Sum64()
}
