package visibility

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/memmaker/sectionscene/engine/voxel"
	"github.com/stretchr/testify/require"
)

// newTerrainStore builds rolling terrain between y=16 and y=30 with open sky,
// so every surface section has a single air pocket.
func newTerrainStore() *voxel.Store {
	store := voxel.NewStore()
	for x := int32(-64); x < 64; x++ {
		for z := int32(-64); z < 64; z++ {
			height := 16 + voxel.FloorMod(x*7+z*13, 15)
			for y := int32(16); y <= height; y++ {
				store.SetBlock(x, y, z, "stone")
			}
		}
	}
	return store
}

func TestCheckRaysFindsNoMissesOnOpenTerrain(t *testing.T) {
	store := newTerrainStore()
	viewpoint := mgl32.Vec3{0.5, 40.5, 0.5}
	opts := DefaultOptions()
	opts.MaxRadius = 120

	visible, err := Traverse(store, viewpoint, opts)
	require.NoError(t, err)

	directions := voxel.FibonacciDirections(300)
	length := SafeRayLength(opts.MaxRadius)
	require.Empty(t, CheckRays(store, viewpoint, visible, directions, length))

	misses := CheckRays(store, viewpoint, nil, directions, length)
	require.NotEmpty(t, misses)
	for _, miss := range misses {
		require.Equal(t, miss.Block.ToSectionCoord(), miss.Section)
		require.EqualValues(t, 1, miss.Section.Y)
	}
}

func TestSolidAt(t *testing.T) {
	store := voxel.NewStore()
	store.SetBlock(-1, 17, -33, "stone")
	solid := SolidAt(store)

	require.True(t, solid(-1, 17, -33))
	require.False(t, solid(-1, 18, -33))
	require.False(t, solid(500, 17, -33))
}

func TestSafeRayLength(t *testing.T) {
	require.Zero(t, SafeRayLength(10))
	require.InDelta(t, 100-13.856, SafeRayLength(100), 0.01)
}
