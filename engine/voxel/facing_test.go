package voxel

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFacingOffsets(t *testing.T) {
	tests := []struct {
		facing   Facing
		ordinal  int
		offset   Int3
		opposite Facing
	}{
		{NegZ, 0, Int3{Z: -1}, PosZ},
		{PosZ, 1, Int3{Z: 1}, NegZ},
		{NegX, 2, Int3{X: -1}, PosX},
		{PosX, 3, Int3{X: 1}, NegX},
		{NegY, 4, Int3{Y: -1}, PosY},
		{PosY, 5, Int3{Y: 1}, NegY},
	}
	for _, test := range tests {
		t.Run(test.facing.String(), func(t *testing.T) {
			require.Equal(t, test.ordinal, test.facing.Ordinal())
			require.Equal(t, test.offset, test.facing.Offset())
			require.Equal(t, test.opposite, test.facing.Opposite())
			require.Equal(t, Int3{}, test.facing.Offset().Add(test.opposite.Offset()))
		})
	}
	require.Equal(t, "invalid", Facing(9).String())
}

func TestFloorDiv(t *testing.T) {
	require.Equal(t, int32(0), FloorDiv(15, 16))
	require.Equal(t, int32(1), FloorDiv(16, 16))
	require.Equal(t, int32(-1), FloorDiv(-1, 16))
	require.Equal(t, int32(-1), FloorDiv(-16, 16))
	require.Equal(t, int32(-2), FloorDiv(-17, 16))
	require.Equal(t, int32(15), FloorMod(-1, 16))
	require.Equal(t, int32(0), FloorMod(-16, 16))
}

func TestInt3SectionHelpers(t *testing.T) {
	require.Equal(t, Int3{-1, 0, 2}, Int3{-1, 5, 40}.ToSectionCoord())
	require.Equal(t, Int3{16, -32, 0}, Int3{1, -2, 0}.SectionOrigin())

	center := Int3{1, 0, -1}.SectionCenter()
	require.InDelta(t, 24, center.X(), 1e-6)
	require.InDelta(t, 8, center.Y(), 1e-6)
	require.InDelta(t, -8, center.Z(), 1e-6)
	require.Equal(t, "(1, 2, 3)", Int3{1, 2, 3}.String())
}

func TestBounds(t *testing.T) {
	b := DefaultBounds
	require.True(t, b.ContainsSectionY(0))
	require.True(t, b.ContainsSectionY(15))
	require.False(t, b.ContainsSectionY(16))
	require.False(t, b.ContainsSectionY(-1))
	require.Equal(t, int32(0), b.ClampSectionY(-3))
	require.Equal(t, int32(15), b.ClampSectionY(99))
	require.Equal(t, int32(256), b.MaxBlockY())

	require.Equal(t, int32(-64), AnvilBounds.MinBlockY())
	require.Equal(t, int32(320), AnvilBounds.MaxBlockY())
}
