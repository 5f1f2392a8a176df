package visibility

import "github.com/memmaker/sectionscene/engine/voxel"

// VisitedSet marks grid coordinates that need no further expansion. Empty
// coordinates are marked as well as exhausted sections.
type VisitedSet struct {
	marks map[voxel.Int3]struct{}
}

func NewVisitedSet() *VisitedSet {
	return &VisitedSet{marks: make(map[voxel.Int3]struct{})}
}

func (v *VisitedSet) Mark(coord voxel.Int3) {
	v.marks[coord] = struct{}{}
}

func (v *VisitedSet) IsVisited(coord voxel.Int3) bool {
	_, ok := v.marks[coord]
	return ok
}

func (v *VisitedSet) Len() int {
	return len(v.marks)
}
