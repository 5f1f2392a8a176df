package voxel

import (
	"bytes"
	"compress/gzip"
	"encoding/binary"
	"testing"

	"github.com/Tnze/go-mc/nbt"
	"github.com/stretchr/testify/require"
)

type testIntSection struct {
	BlockEntities   []BlockEntity `nbt:"block_entities"`
	BlocksArrayType byte          `nbt:"blocks_array_type"`
	Blocks          []int32       `nbt:"blocks"`
}

type testMetadata struct {
	SectionIndexTable []byte            `nbt:"section_index_table"`
	BlockPalette      []BlockDefinition `nbt:"block_palette"`
}

func gzipNBT(t *testing.T, v any) []byte {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	require.NoError(t, nbt.NewEncoder(gz).Encode(v, ""))
	require.NoError(t, gz.Close())
	return buf.Bytes()
}

func sectionTableEntry(origin Int3, shape [3]uint8, offset, size uint32) []byte {
	entry := make([]byte, 23)
	binary.LittleEndian.PutUint32(entry[0:], uint32(origin.X))
	binary.LittleEndian.PutUint32(entry[4:], uint32(origin.Y))
	binary.LittleEndian.PutUint32(entry[8:], uint32(origin.Z))
	copy(entry[12:15], shape[:])
	binary.LittleEndian.PutUint32(entry[15:], offset)
	binary.LittleEndian.PutUint32(entry[19:], size)
	return entry
}

// buildConstruction writes a file with a single 2x1x1 section: stone, then a chest.
func buildConstruction(t *testing.T) []byte {
	section := gzipNBT(t, testIntSection{
		BlockEntities: []BlockEntity{
			{Namespace: "minecraft", Name: "chest", X: -1, Y: 64, Z: 5},
		},
		BlocksArrayType: 11,
		Blocks:          []int32{1, 0},
	})
	sectionOffset := uint32(len(constructionMagic))
	metadata := gzipNBT(t, testMetadata{
		SectionIndexTable: sectionTableEntry(Int3{X: -2, Y: 64, Z: 5}, [3]uint8{2, 1, 1}, sectionOffset, uint32(len(section))),
		BlockPalette: []BlockDefinition{
			{Name: "air", NameSpace: "minecraft"},
			{Name: "stone", NameSpace: "minecraft"},
		},
	})

	var file bytes.Buffer
	file.WriteString(constructionMagic)
	file.Write(section)
	metadataOffset := int32(file.Len())
	file.Write(metadata)
	require.NoError(t, binary.Write(&file, binary.BigEndian, metadataOffset))
	file.WriteString(constructionMagic)
	return file.Bytes()
}

func TestReadConstruction(t *testing.T) {
	construction, err := ReadConstruction(bytes.NewReader(buildConstruction(t)))
	require.NoError(t, err)
	require.Len(t, construction.Sections, 1)

	section := construction.Sections[0]
	require.Equal(t, int32(-2), section.MinBlockX)
	require.Equal(t, int32(64), section.MinBlockY)
	require.Equal(t, uint8(2), section.ShapeX)
	require.Len(t, section.Blocks, 2)
	require.Equal(t, "minecraft:stone", section.Blocks[0].FullName())
	require.Equal(t, "minecraft:air", section.Blocks[1].FullName())
	require.Len(t, section.BlockEntities, 1)

	store := NewStoreFromConstruction(construction)
	require.Equal(t, 1, store.Len())
	require.NotNil(t, store.SectionAt(Int3{X: -1, Y: 4, Z: 0}))
	require.Equal(t, "minecraft:stone", store.Palette().Name(store.GetGlobalBlock(-2, 64, 5)))
	require.Equal(t, "minecraft:chest", store.Palette().Name(store.GetGlobalBlock(-1, 64, 5)))
	require.False(t, store.IsSolidBlockAt(-3, 64, 5))
}

func TestReadConstructionRejectsBadMagic(t *testing.T) {
	file := buildConstruction(t)
	copy(file, "notmagic")
	_, err := ReadConstruction(bytes.NewReader(file))
	require.EqualError(t, err, "invalid magic number")

	_, err = ReadConstruction(bytes.NewReader([]byte("con")))
	require.Error(t, err)
}

func TestDecodeSectionTable(t *testing.T) {
	table := append(
		sectionTableEntry(Int3{X: -16, Y: 0, Z: 32}, [3]uint8{16, 16, 16}, 8, 100),
		sectionTableEntry(Int3{X: 0, Y: -64, Z: 0}, [3]uint8{1, 2, 3}, 108, 7)...,
	)
	// a trailing partial entry is ignored
	table = append(table, 1, 2, 3)

	sections := decodeSectionTable(table)
	require.Len(t, sections, 2)
	require.Equal(t, SectionIndex{
		MinBlockX: -16, MinBlockY: 0, MinBlockZ: 32,
		ShapeX: 16, ShapeY: 16, ShapeZ: 16,
		Offset: 8, Size: 100,
	}, sections[0])
	require.Equal(t, int32(-64), sections[1].MinBlockY)
	require.Equal(t, uint8(3), sections[1].ShapeZ)
	require.Equal(t, uint32(7), sections[1].Size)
}

func TestDecodeBlocks(t *testing.T) {
	palette := []*BlockDefinition{{Name: "air"}, {Name: "dirt", NameSpace: "minecraft"}}

	blocks, err := decodeBlocks([]byte{1, 0, 1}, palette)
	require.NoError(t, err)
	require.Equal(t, []*BlockDefinition{palette[1], palette[0], palette[1]}, blocks)

	_, err = decodeBlocks([]int32{0, 2}, palette)
	require.Error(t, err)
	_, err = decodeBlocks([]int32{-1}, palette)
	require.Error(t, err)
}

func TestBlockDefinitionFullName(t *testing.T) {
	var missing *BlockDefinition
	require.Equal(t, AIR_NAME, missing.FullName())
	require.Equal(t, "minecraft:oak_log", (&BlockDefinition{Name: "oak_log", NameSpace: "minecraft"}).FullName())
	require.Equal(t, NormalizeBlockName("stone"), (&BlockDefinition{Name: "stone"}).FullName())
}
