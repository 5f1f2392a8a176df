package voxel

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStoreSetBlockHandlesNegativeCoordinates(t *testing.T) {
	store := NewStore()
	store.SetBlock(-1, 3, -17, "stone")

	section := store.SectionAt(Int3{-1, 0, -2})
	require.NotNil(t, section)
	require.Equal(t, "minecraft:stone", section.BlockName(15, 3, 15))
	require.True(t, store.IsSolidBlockAt(-1, 3, -17))
	require.False(t, store.IsSolidBlockAt(0, 3, -17))
	require.Nil(t, store.SectionAt(Int3{}))
}

func TestStoreAirDoesNotCreateSections(t *testing.T) {
	store := NewStore()
	store.SetBlock(4, 4, 4, "minecraft:air")
	store.SetBlock(4, 4, 4, "cave_air")
	require.Equal(t, 0, store.Len())
}

func TestStoreSectionsAreOrdered(t *testing.T) {
	store := NewStore()
	store.SetBlock(40, 0, 0, "stone")
	store.SetBlock(0, 20, 0, "stone")
	store.SetBlock(0, 0, 0, "stone")
	store.SetBlock(0, 0, 20, "stone")

	var coords []Int3
	for _, section := range store.Sections() {
		coords = append(coords, section.Coord())
	}
	require.Equal(t, []Int3{{0, 0, 0}, {2, 0, 0}, {0, 0, 1}, {0, 1, 0}}, coords)
}

func TestStoreRemoveEmptySections(t *testing.T) {
	store := NewStore()
	store.NewSection(Int3{1, 1, 1})
	store.SetBlock(0, 0, 0, "dirt")
	require.Equal(t, 1, store.RemoveEmptySections())
	require.Equal(t, 1, store.Len())

	minY, maxY, ok := store.SectionYRange()
	require.True(t, ok)
	require.Equal(t, int32(0), minY)
	require.Equal(t, int32(0), maxY)
}

func TestStoreSaveAndLoad(t *testing.T) {
	store := NewStore()
	store.SetBlock(1, 2, 3, "stone")
	store.SetBlock(-20, 40, 5, "oak_planks")

	var buf bytes.Buffer
	require.NoError(t, store.Save(&buf))

	loaded, err := LoadStore(&buf)
	require.NoError(t, err)
	require.Equal(t, store.Len(), loaded.Len())
	require.Equal(t, store.Palette().Names(), loaded.Palette().Names())
	require.Equal(t, "minecraft:stone", loaded.Palette().Name(loaded.GetGlobalBlock(1, 2, 3)))
	require.Equal(t, "minecraft:oak_planks", loaded.Palette().Name(loaded.GetGlobalBlock(-20, 40, 5)))
}

func TestLoadStoreRejectsGarbage(t *testing.T) {
	_, err := LoadStore(bytes.NewReader([]byte("not a store")))
	require.Error(t, err)
}

func TestPalette(t *testing.T) {
	p := NewPalette()
	require.Equal(t, AIR, p.GetBlockID("air"))
	stone := p.GetBlockID("stone")
	require.Equal(t, stone, p.GetBlockID("minecraft:stone"))
	require.Equal(t, "minecraft:stone", p.Name(stone))
	require.Equal(t, AIR_NAME, p.Name(999))
	_, ok := p.LookupID("dirt")
	require.False(t, ok)
	require.Equal(t, 2, p.Len())
}
