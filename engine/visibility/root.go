package visibility

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/memmaker/sectionscene/engine/voxel"
	"github.com/pkg/errors"
)

// RootCoord returns the section grid coordinate containing the viewpoint.
// X and Z are floored, so negative positions map to negative sections. Y is
// clamped into the world first, a viewer above or below the world starts in
// the top or bottom section.
func RootCoord(viewpoint mgl32.Vec3, bounds voxel.Bounds) (voxel.Int3, error) {
	for _, component := range viewpoint {
		v := float64(component)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return voxel.Int3{}, errors.Wrapf(ErrInvalidViewpoint, "viewpoint %v", viewpoint)
		}
	}
	size := float64(voxel.SECTION_SIZE)
	x := math.Floor(float64(viewpoint.X()) / size)
	z := math.Floor(float64(viewpoint.Z()) / size)
	if x < math.MinInt32 || x > math.MaxInt32 || z < math.MinInt32 || z > math.MaxInt32 {
		return voxel.Int3{}, errors.Wrapf(ErrInvalidViewpoint, "viewpoint %v is outside the section grid", viewpoint)
	}

	clampedY := math.Max(float64(bounds.MinBlockY()), math.Min(float64(viewpoint.Y()), float64(bounds.MaxBlockY())))
	y := bounds.ClampSectionY(int32(math.Floor(clampedY / size)))

	return voxel.Int3{X: int32(x), Y: y, Z: int32(z)}, nil
}
