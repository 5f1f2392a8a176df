package voxel

const (
	AIR                  uint16 = 0
	AIR_NAME                    = "minecraft:air"
	SECTION_SIZE         int32  = 16
	SECTION_SIZE_SQUARED int32  = SECTION_SIZE * SECTION_SIZE
	SECTION_SIZE_CUBED   int32  = SECTION_SIZE * SECTION_SIZE * SECTION_SIZE
)

// Bounds is the vertical extent of a world, measured in sections.
type Bounds struct {
	MinSectionY  int32
	SectionCount int32
}

// DefaultBounds matches a classic 256 block high world.
var DefaultBounds = Bounds{MinSectionY: 0, SectionCount: 16}

// AnvilBounds matches the -64..320 block range of 1.18+ region files.
var AnvilBounds = Bounds{MinSectionY: -4, SectionCount: 24}

func (b Bounds) MaxSectionY() int32 {
	return b.MinSectionY + b.SectionCount - 1
}

func (b Bounds) ContainsSectionY(y int32) bool {
	return y >= b.MinSectionY && y <= b.MaxSectionY()
}

func (b Bounds) ClampSectionY(y int32) int32 {
	if y < b.MinSectionY {
		return b.MinSectionY
	}
	if y > b.MaxSectionY() {
		return b.MaxSectionY()
	}
	return y
}

func (b Bounds) MinBlockY() int32 {
	return b.MinSectionY * SECTION_SIZE
}

func (b Bounds) MaxBlockY() int32 {
	return (b.MinSectionY + b.SectionCount) * SECTION_SIZE
}

// FloorDiv divides rounding towards negative infinity, so -1 / 16 is -1.
func FloorDiv(a, b int32) int32 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// FloorMod is the remainder matching FloorDiv, always in [0, b).
func FloorMod(a, b int32) int32 {
	return a - FloorDiv(a, b)*b
}
