package visibility

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/memmaker/sectionscene/engine/voxel"
)

// RayMiss is a block seen along a ray whose section is not in the visible set.
type RayMiss struct {
	Direction mgl32.Vec3
	Block     voxel.Int3
	Section   voxel.Int3
	Distance  float64
}

// SolidAt adapts a section source to a block lookup for raycasts.
func SolidAt(sections SectionSource) func(x, y, z int32) bool {
	return func(x, y, z int32) bool {
		coord := voxel.Int3{X: x, Y: y, Z: z}.ToSectionCoord()
		section := sections.SectionAt(coord)
		if section == nil {
			return false
		}
		return section.IsBlockAt(voxel.FloorMod(x, voxel.SECTION_SIZE), voxel.FloorMod(y, voxel.SECTION_SIZE), voxel.FloorMod(z, voxel.SECTION_SIZE))
	}
}

// CheckRays casts rays of the given length from the viewpoint and reports the
// first blocks they hit that lie in sections missing from visible. Face pairs
// are shared by every air pocket touching a face, so sections with several
// pockets per face can produce misses.
func CheckRays(sections SectionSource, viewpoint mgl32.Vec3, visible []Visible, directions []mgl32.Vec3, length float32) []RayMiss {
	reported := make(map[voxel.Int3]struct{}, len(visible))
	for _, v := range visible {
		reported[v.Coord] = struct{}{}
	}

	solid := SolidAt(sections)
	var misses []RayMiss
	for _, direction := range directions {
		if direction.Len() == 0 {
			continue
		}
		end := viewpoint.Add(direction.Normalize().Mul(length))
		hit := voxel.Raycast(viewpoint, end, solid)
		if !hit.Hit {
			continue
		}
		section := hit.Block.ToSectionCoord()
		if _, ok := reported[section]; ok {
			continue
		}
		misses = append(misses, RayMiss{
			Direction: direction,
			Block:     hit.Block,
			Section:   section,
			Distance:  hit.Distance,
		})
	}
	return misses
}

// SafeRayLength is the longest ray whose blocks all lie in sections the
// traversal reaches within radius.
func SafeRayLength(radius float64) float32 {
	halfDiagonal := float64(voxel.SECTION_SIZE) / 2 * 1.7320508075688772
	if radius <= halfDiagonal {
		return 0
	}
	return float32(radius - halfDiagonal)
}
