package voxel

import (
	"strings"
)

// FaceReachability is a symmetric relation over the six faces of a section:
// a pair is set when open space inside the section connects the two faces.
// It is a value type; Clear only changes the copy it is called on.
type FaceReachability struct {
	bits uint64
}

func pairBit(a, b Facing) uint64 {
	return 1 << uint(a.Ordinal()*FacingCount+b.Ordinal())
}

func NewFaceReachability(pairs ...[2]Facing) FaceReachability {
	var r FaceReachability
	for _, pair := range pairs {
		r.Set(pair[0], pair[1])
	}
	return r
}

// FullyOpen connects every face with every other face.
func FullyOpen() FaceReachability {
	var r FaceReachability
	for _, a := range AllFacings {
		for _, b := range AllFacings {
			if a != b {
				r.Set(a, b)
			}
		}
	}
	return r
}

// Opaque connects nothing.
func Opaque() FaceReachability {
	return FaceReachability{}
}

// Set marks the pair reachable in both directions. A face is never paired with itself.
func (r *FaceReachability) Set(a, b Facing) {
	if a == b || !a.IsValid() || !b.IsValid() {
		return
	}
	r.bits |= pairBit(a, b) | pairBit(b, a)
}

// Clear removes the pair in both directions.
func (r *FaceReachability) Clear(a, b Facing) {
	if !a.IsValid() || !b.IsValid() {
		return
	}
	r.bits &^= pairBit(a, b) | pairBit(b, a)
}

func (r FaceReachability) IsReachable(a, b Facing) bool {
	if !a.IsValid() || !b.IsValid() {
		return false
	}
	return r.bits&pairBit(a, b) != 0
}

func (r FaceReachability) IsFullyUnreachable() bool {
	return r.bits == 0
}

// Pairs lists the reachable unordered pairs, lower ordinal first.
func (r FaceReachability) Pairs() [][2]Facing {
	var pairs [][2]Facing
	for i, a := range AllFacings {
		for _, b := range AllFacings[i+1:] {
			if r.IsReachable(a, b) {
				pairs = append(pairs, [2]Facing{a, b})
			}
		}
	}
	return pairs
}

func (r FaceReachability) PairCount() int {
	return len(r.Pairs())
}

func (r FaceReachability) String() string {
	pairs := r.Pairs()
	if len(pairs) == 0 {
		return "{}"
	}
	parts := make([]string, len(pairs))
	for i, pair := range pairs {
		parts[i] = pair[0].String() + "<>" + pair[1].String()
	}
	return "{" + strings.Join(parts, " ") + "}"
}

func faceMask(f Facing) uint8 {
	return 1 << uint(f)
}

// ComputeFaceReachability flood fills the air inside the section. Every set of
// faces touched by one connected air region becomes mutually reachable.
func ComputeFaceReachability(section *Section) FaceReachability {
	if section == nil {
		return Opaque()
	}
	helper := &SectionHelper{}
	helper.Reset()

	var result FaceReachability
	stack := make([]int32, 0, 256)
	for start := int32(0); start < SECTION_SIZE_CUBED; start++ {
		if helper.visited[start] || section.data[start] != AIR {
			continue
		}
		var faces uint8
		helper.visited[start] = true
		stack = append(stack[:0], start)
		for len(stack) > 0 {
			current := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			x := current % SECTION_SIZE
			z := (current / SECTION_SIZE) % SECTION_SIZE
			y := current / SECTION_SIZE_SQUARED
			faces |= touchedFaces(x, y, z)
			for _, facing := range AllFacings {
				offset := facing.Offset()
				nx, ny, nz := x+offset.X, y+offset.Y, z+offset.Z
				if !section.Contains(nx, ny, nz) {
					continue
				}
				next := blockIndex(nx, ny, nz)
				if helper.visited[next] || section.data[next] != AIR {
					continue
				}
				helper.visited[next] = true
				stack = append(stack, next)
			}
		}
		for _, a := range AllFacings {
			if faces&faceMask(a) == 0 {
				continue
			}
			for _, b := range AllFacings {
				if faces&faceMask(b) != 0 {
					result.Set(a, b)
				}
			}
		}
	}
	return result
}

func touchedFaces(x, y, z int32) uint8 {
	var faces uint8
	last := SECTION_SIZE - 1
	if x == 0 {
		faces |= faceMask(NegX)
	} else if x == last {
		faces |= faceMask(PosX)
	}
	if y == 0 {
		faces |= faceMask(NegY)
	} else if y == last {
		faces |= faceMask(PosY)
	}
	if z == 0 {
		faces |= faceMask(NegZ)
	} else if z == last {
		faces |= faceMask(PosZ)
	}
	return faces
}
