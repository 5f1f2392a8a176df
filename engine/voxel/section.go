package voxel

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Section is a 16x16x16 cube of blocks. Origin is the world position of its
// min corner, Coord its position on the section grid.
type Section struct {
	data    []uint16
	coord   Int3
	palette *Palette
}

func NewSection(palette *Palette, coord Int3) *Section {
	return &Section{
		data:    make([]uint16, SECTION_SIZE_CUBED),
		coord:   coord,
		palette: palette,
	}
}

func blockIndex(i, j, k int32) int32 {
	return i + k*SECTION_SIZE + j*SECTION_SIZE_SQUARED
}

func (s *Section) Contains(x, y, z int32) bool {
	return x >= 0 && x < SECTION_SIZE && y >= 0 && y < SECTION_SIZE && z >= 0 && z < SECTION_SIZE
}

// GetLocalBlock returns the block id at section relative coordinates, air when outside.
func (s *Section) GetLocalBlock(x, y, z int32) uint16 {
	if !s.Contains(x, y, z) {
		return AIR
	}
	return s.data[blockIndex(x, y, z)]
}

func (s *Section) SetLocalBlock(x, y, z int32, id uint16) {
	s.data[blockIndex(x, y, z)] = id
}

func (s *Section) IsBlockAt(x, y, z int32) bool {
	return s.GetLocalBlock(x, y, z) != AIR
}

// BlockName resolves the block at section relative coordinates through the palette.
func (s *Section) BlockName(x, y, z int32) string {
	return s.palette.Name(s.GetLocalBlock(x, y, z))
}

func (s *Section) Coord() Int3 {
	return s.coord
}

func (s *Section) Origin() Int3 {
	return s.coord.SectionOrigin()
}

func (s *Section) Palette() *Palette {
	return s.palette
}

func (s *Section) NonAirCount() int {
	count := 0
	for _, id := range s.data {
		if id != AIR {
			count++
		}
	}
	return count
}

func (s *Section) IsEmpty() bool {
	for _, id := range s.data {
		if id != AIR {
			return false
		}
	}
	return true
}

// ForEachBlock calls fn for every non-air block with its world position, in y, z, x order.
func (s *Section) ForEachBlock(fn func(worldPos Int3, id uint16)) {
	origin := s.Origin()
	for y := int32(0); y < SECTION_SIZE; y++ {
		for z := int32(0); z < SECTION_SIZE; z++ {
			for x := int32(0); x < SECTION_SIZE; x++ {
				id := s.data[blockIndex(x, y, z)]
				if id == AIR {
					continue
				}
				fn(origin.Add(Int3{x, y, z}), id)
			}
		}
	}
}

func (s *Section) AABBMin() mgl32.Vec3 {
	return s.Origin().ToVec3()
}

func (s *Section) AABBMax() mgl32.Vec3 {
	return s.Origin().Add(Int3{SECTION_SIZE, SECTION_SIZE, SECTION_SIZE}).ToVec3()
}
