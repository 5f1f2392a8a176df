package visibility

import "github.com/memmaker/sectionscene/engine/voxel"

type pairKey struct {
	coord  voxel.Int3
	lo, hi voxel.Facing
}

func newPairKey(coord voxel.Int3, a, b voxel.Facing) pairKey {
	if a > b {
		a, b = b, a
	}
	return pairKey{coord: coord, lo: a, hi: b}
}

// consumedPairs records the face pairs a traversal already used to carry the
// flood through a section. Each unordered pair can carry the flood once,
// whichever direction used it first; this is what stops cycles.
type consumedPairs map[pairKey]struct{}

func (c consumedPairs) mark(coord voxel.Int3, a, b voxel.Facing) {
	c[newPairKey(coord, a, b)] = struct{}{}
}

func (c consumedPairs) has(coord voxel.Int3, a, b voxel.Facing) bool {
	_, ok := c[newPairKey(coord, a, b)]
	return ok
}

// exhausted reports whether every reachable pair of the section has been used.
func (c consumedPairs) exhausted(coord voxel.Int3, reachability voxel.FaceReachability) bool {
	for _, pair := range reachability.Pairs() {
		if !c.has(coord, pair[0], pair[1]) {
			return false
		}
	}
	return true
}
