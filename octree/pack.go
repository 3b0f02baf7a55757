package octree

import "math/bits"

// Pack compacts a Sparse-layout store into a Packed one, walking
// breadth-first from the root so same-parent children land in
// contiguous index ranges (the recommended storage order from §3) and
// stay cache-friendly for the splatter's traversal.
//
// Malformed input (a cyclic Address chain) would otherwise make this
// walk grow forever; Pack instead bounds the produced node count to
// the input length and aborts as soon as it would be exceeded,
// returning a single-node store whose root has Mask 0 (an empty
// octree) rather than hanging or overflowing. That's the only
// validation the octree package performs — traversal itself trusts
// the data, per §7.
func (s *Store) Pack() *Store {
	if s.layout == Packed {
		return s
	}

	limit := len(s.nodes)
	if limit == 0 {
		return &Store{layout: Packed}
	}

	out := make([]Node, 1, limit) // slot 0 reserved for the root
	queueSrc := []uint32{0}
	queueDst := []uint32{0}

	for len(queueSrc) > 0 {
		srcIdx, dstIdx := queueSrc[0], queueDst[0]
		queueSrc, queueDst = queueSrc[1:], queueDst[1:]

		src := s.nodes[srcIdx]
		childCount := bits.OnesCount8(src.Mask)

		var firstChild uint32
		if childCount > 0 {
			if len(out)+childCount > limit {
				return abortedEmpty()
			}
			firstChild = uint32(len(out))
			for o := 0; o < 8; o++ {
				if src.Mask&(1<<uint(o)) == 0 {
					continue
				}
				childSrc := src.Address + uint32(o)
				queueSrc = append(queueSrc, childSrc)
				queueDst = append(queueDst, uint32(len(out)))
				out = append(out, Node{})
			}
		}

		out[dstIdx] = Node{Address: firstChild, Mask: src.Mask, Data: src.Data}
	}

	return &Store{nodes: out, layout: Packed}
}

func abortedEmpty() *Store {
	return &Store{nodes: []Node{{Mask: 0}}, layout: Packed}
}
