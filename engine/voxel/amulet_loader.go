package voxel

import (
	"compress/gzip"
	"encoding/binary"
	"io"
	"os"

	"github.com/Tnze/go-mc/nbt"
	"github.com/memmaker/sectionscene/engine/util"
	"github.com/pkg/errors"
)

/*
	TAG_Compound({
	    "block_entities": TAG_List([
	        TAG_Compound({
	            "namespace": TAG_String(),
	            "base_name": TAG_String(),
	            "x": TAG_Int(),
	            "y": TAG_Int(),
	            "z": TAG_Int(),
	            "nbt": TAG_Compound()
	        })
	        ...
	    ]),
	    "blocks_array_type": TAG_Byte(),
	    "blocks": <See below>
	})
*/
type SectionBlockInfo struct {
	BlocksArrayType byte `nbt:"blocks_array_type"`
}
type ByteSection struct {
	BlockEntities []BlockEntity `nbt:"block_entities"`
	Blocks        []byte        `nbt:"blocks"`
}
type IntSection struct {
	BlockEntities []BlockEntity `nbt:"block_entities"`
	Blocks        []int32       `nbt:"blocks"`
}

type BlockEntity struct {
	Namespace string `nbt:"namespace"`
	Name      string `nbt:"base_name"`
	X         int32  `nbt:"x"`
	Y         int32  `nbt:"y"`
	Z         int32  `nbt:"z"`
}

type AmuletMetadata struct {
	SelectionBoxes    []int32 `nbt:"selection_boxes"`
	SectionIndexTable []byte  `nbt:"section_index_table"`
	SectionVersion    byte    `nbt:"section_version"`
	ExportVersion     struct {
		Edition string  `nbt:"edition"`
		Version []int32 `nbt:"version"`
	} `nbt:"export_version"`
	BlockPalette []*BlockDefinition `nbt:"block_palette"`
	CreatedWith  string             `nbt:"created_with"`
}
type BlockDefinition struct {
	Name      string `nbt:"blockname"`
	NameSpace string `nbt:"namespace"`
}

func (d *BlockDefinition) FullName() string {
	if d == nil {
		return AIR_NAME
	}
	if d.NameSpace == "" {
		return NormalizeBlockName(d.Name)
	}
	return d.NameSpace + ":" + d.Name
}

type Construction struct {
	Sections []*ConstructionSection
}

type ConstructionSection struct {
	Blocks        []*BlockDefinition
	ShapeX        uint8
	ShapeY        uint8
	ShapeZ        uint8
	MinBlockX     int32
	MinBlockY     int32
	MinBlockZ     int32
	BlockEntities []BlockEntity
}

const constructionMagic = "constrct"

func LoadConstruction(filename string) (*Construction, error) {
	fileReader, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrap(err, "opening construction")
	}
	defer fileReader.Close()
	construction, err := ReadConstruction(fileReader)
	if err != nil {
		return nil, err
	}
	util.LogIOInfo("construction loaded", util.Tags{
		"file":     filename,
		"sections": len(construction.Sections),
	})
	return construction, nil
}

// ReadConstruction decodes an Amulet .construction file: a magic number at
// both ends, a trailing metadata offset and gzip compressed NBT sections.
func ReadConstruction(fileReader io.ReadSeeker) (*Construction, error) {
	var magicNumber [8]byte
	if err := binary.Read(fileReader, binary.BigEndian, &magicNumber); err != nil {
		return nil, errors.Wrap(err, "reading construction header")
	}
	if string(magicNumber[:]) != constructionMagic {
		return nil, errors.New("invalid magic number")
	}
	offset := len(constructionMagic)

	if _, err := fileReader.Seek(int64(-offset), io.SeekEnd); err != nil {
		return nil, errors.Wrap(err, "seeking construction footer")
	}
	var magicNumber2 [8]byte
	if err := binary.Read(fileReader, binary.BigEndian, &magicNumber2); err != nil {
		return nil, errors.Wrap(err, "reading construction footer")
	}
	if string(magicNumber2[:]) != constructionMagic {
		return nil, errors.New("invalid magic number")
	}

	if _, err := fileReader.Seek(int64(-offset-4), io.SeekEnd); err != nil {
		return nil, errors.Wrap(err, "seeking metadata offset")
	}
	var metaDataOffset int32
	if err := binary.Read(fileReader, binary.BigEndian, &metaDataOffset); err != nil {
		return nil, errors.Wrap(err, "reading metadata offset")
	}
	if _, err := fileReader.Seek(int64(metaDataOffset), io.SeekStart); err != nil {
		return nil, errors.Wrap(err, "seeking metadata")
	}
	gzipReader, err := gzip.NewReader(fileReader)
	if err != nil {
		return nil, errors.Wrap(err, "opening metadata")
	}
	var value AmuletMetadata
	if _, err = nbt.NewDecoder(gzipReader).Decode(&value); err != nil {
		return nil, errors.Wrap(err, "decoding metadata")
	}

	sectionTable := decodeSectionTable(value.SectionIndexTable)
	sections := make([]*ConstructionSection, len(sectionTable))
	for sIndex, section := range sectionTable {
		blocks, blockEntities, err := readConstructionSection(fileReader, section, value.BlockPalette)
		if err != nil {
			return nil, errors.Wrapf(err, "section %d", sIndex)
		}
		sections[sIndex] = &ConstructionSection{
			Blocks:        blocks,
			BlockEntities: blockEntities,
			ShapeX:        section.ShapeX,
			ShapeY:        section.ShapeY,
			ShapeZ:        section.ShapeZ,
			MinBlockX:     section.MinBlockX,
			MinBlockY:     section.MinBlockY,
			MinBlockZ:     section.MinBlockZ,
		}
	}
	return &Construction{Sections: sections}, nil
}

func readConstructionSection(fileReader io.ReadSeeker, section SectionIndex, palette []*BlockDefinition) ([]*BlockDefinition, []BlockEntity, error) {
	decodeAt := func(v any) error {
		if _, err := fileReader.Seek(int64(section.Offset), io.SeekStart); err != nil {
			return err
		}
		gzipReader, err := gzip.NewReader(fileReader)
		if err != nil {
			return err
		}
		_, err = nbt.NewDecoder(gzipReader).Decode(v)
		return err
	}

	var sectionBlockType SectionBlockInfo
	if err := decodeAt(&sectionBlockType); err != nil {
		return nil, nil, err
	}
	switch sectionBlockType.BlocksArrayType {
	case 7:
		var decodedSection ByteSection
		if err := decodeAt(&decodedSection); err != nil {
			return nil, nil, err
		}
		blocks, err := decodeBlocks(decodedSection.Blocks, palette)
		return blocks, decodedSection.BlockEntities, err
	case 11:
		var decodedSection IntSection
		if err := decodeAt(&decodedSection); err != nil {
			return nil, nil, err
		}
		blocks, err := decodeBlocks(decodedSection.Blocks, palette)
		return blocks, decodedSection.BlockEntities, err
	}
	// sections without block data are air
	return nil, nil, nil
}

func decodeBlocks[T int32 | byte](blocks []T, palette []*BlockDefinition) ([]*BlockDefinition, error) {
	result := make([]*BlockDefinition, len(blocks))
	for i, block := range blocks {
		if int(block) < 0 || int(block) >= len(palette) {
			return nil, errors.Errorf("block %d references palette entry %d of %d", i, block, len(palette))
		}
		result[i] = palette[block]
	}
	return result, nil
}

/*
The section_index_table is an Mx23 TAG_Byte_Array where M is the number of section data entries present in the construction file.

The real format of the section_index_table is IIIBBBII where I is a uint32 and B is a uint8.

III: The X, Y, and Z block coordinates of the minimum point of the section
BBB: The shape of the section in blocks in X, Y, Z order
I: The starting byte of the section data entry in the file
I: The byte length of the section data entry
*/

type SectionIndex struct {
	MinBlockX int32
	MinBlockY int32
	MinBlockZ int32
	ShapeX    uint8
	ShapeY    uint8
	ShapeZ    uint8
	Offset    uint32
	Size      uint32
}

func decodeSectionTable(table []byte) []SectionIndex {
	sectionCount := len(table) / 23
	sections := make([]SectionIndex, sectionCount)
	for i := 0; i < sectionCount; i++ {
		sections[i].MinBlockX = int32(binary.LittleEndian.Uint32(table[i*23 : i*23+4]))
		sections[i].MinBlockY = int32(binary.LittleEndian.Uint32(table[i*23+4 : i*23+8]))
		sections[i].MinBlockZ = int32(binary.LittleEndian.Uint32(table[i*23+8 : i*23+12]))
		sections[i].ShapeX = table[i*23+12]
		sections[i].ShapeY = table[i*23+13]
		sections[i].ShapeZ = table[i*23+14]
		sections[i].Offset = binary.LittleEndian.Uint32(table[i*23+15 : i*23+19])
		sections[i].Size = binary.LittleEndian.Uint32(table[i*23+19 : i*23+23])
	}
	return sections
}

// NewStoreFromConstruction places every construction block at its world position.
// Blocks keep their absolute coordinates, so the
// viewpoint of an export lines up with the coordinates shown in-game.
func NewStoreFromConstruction(construction *Construction) *Store {
	store := NewStore()
	for _, section := range construction.Sections {
		blockIndex := 0
		for x := section.MinBlockX; x < section.MinBlockX+int32(section.ShapeX); x++ {
			for y := section.MinBlockY; y < section.MinBlockY+int32(section.ShapeY); y++ {
				for z := section.MinBlockZ; z < section.MinBlockZ+int32(section.ShapeZ); z++ {
					if blockIndex < len(section.Blocks) {
						store.SetBlock(x, y, z, section.Blocks[blockIndex].FullName())
					}
					blockIndex++
				}
			}
		}
		for _, blockEntity := range section.BlockEntities {
			name := blockEntity.Name
			if blockEntity.Namespace != "" {
				name = blockEntity.Namespace + ":" + name
			}
			store.SetBlock(blockEntity.X, blockEntity.Y, blockEntity.Z, name)
		}
	}
	store.RemoveEmptySections()
	return store
}
