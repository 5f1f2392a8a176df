package visibility

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/memmaker/sectionscene/engine/voxel"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestRootCoord(t *testing.T) {
	tests := []struct {
		name      string
		viewpoint mgl32.Vec3
		bounds    voxel.Bounds
		expected  voxel.Int3
	}{
		{name: "origin", viewpoint: mgl32.Vec3{0, 0, 0}, bounds: voxel.DefaultBounds, expected: voxel.Int3{}},
		{name: "inside", viewpoint: mgl32.Vec3{17, 33.5, 47.9}, bounds: voxel.DefaultBounds, expected: voxel.Int3{X: 1, Y: 2, Z: 2}},
		{name: "negative floors", viewpoint: mgl32.Vec3{-0.5, 10, -16.1}, bounds: voxel.DefaultBounds, expected: voxel.Int3{X: -1, Y: 0, Z: -2}},
		{name: "below world", viewpoint: mgl32.Vec3{3, -50, 3}, bounds: voxel.DefaultBounds, expected: voxel.Int3{}},
		{name: "top edge", viewpoint: mgl32.Vec3{3, 256, 3}, bounds: voxel.DefaultBounds, expected: voxel.Int3{Y: 15}},
		{name: "above world", viewpoint: mgl32.Vec3{3, 1000, 3}, bounds: voxel.DefaultBounds, expected: voxel.Int3{Y: 15}},
		{name: "anvil below zero", viewpoint: mgl32.Vec3{3, -20, 3}, bounds: voxel.AnvilBounds, expected: voxel.Int3{Y: -2}},
		{name: "anvil bottom", viewpoint: mgl32.Vec3{3, -500, 3}, bounds: voxel.AnvilBounds, expected: voxel.Int3{Y: -4}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			coord, err := RootCoord(test.viewpoint, test.bounds)
			require.NoError(t, err)
			require.Equal(t, test.expected, coord)
		})
	}
}

func TestRootCoordInvalid(t *testing.T) {
	for _, viewpoint := range []mgl32.Vec3{
		{float32(math.NaN()), 0, 0},
		{0, 0, float32(math.Inf(-1))},
		{math.MaxFloat32, 0, 0},
	} {
		_, err := RootCoord(viewpoint, voxel.DefaultBounds)
		require.True(t, errors.Is(err, ErrInvalidViewpoint), "viewpoint %v", viewpoint)
	}
}
