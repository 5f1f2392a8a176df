package voxel

// SectionHelper holds the scratch state of a flood fill over one section.
type SectionHelper struct {
	visited []bool
}

func (h *SectionHelper) Reset() {
	h.visited = make([]bool, SECTION_SIZE_CUBED)
}
