package voxel

import (
	"bytes"
	"compress/gzip"
	"compress/zlib"
	"fmt"
	"io"
	"math/bits"
	"path/filepath"
	"sort"

	"github.com/Tnze/go-mc/nbt"
	"github.com/Tnze/go-mc/save/region"
	"github.com/memmaker/sectionscene/engine/util"
	"github.com/pkg/errors"
)

const (
	regionChunks      = 32
	compressionGzip   = 1
	compressionZlib   = 2
	compressionNone   = 3
	minBitsPerBlock   = 4
	chunkSectionCount = SECTION_SIZE_CUBED
)

// anvilChunk is the part of a 1.18+ chunk we need.
type anvilChunk struct {
	XPos     int32          `nbt:"xPos"`
	ZPos     int32          `nbt:"zPos"`
	Sections []anvilSection `nbt:"sections"`
}

type anvilSection struct {
	Y           int8             `nbt:"Y"`
	BlockStates anvilBlockStates `nbt:"block_states"`
}

type anvilBlockStates struct {
	Palette []anvilBlockState `nbt:"palette"`
	Data    []int64           `nbt:"data"`
}

type anvilBlockState struct {
	Name string `nbt:"Name"`
}

// ChunkArea limits region loading to an inclusive rectangle of chunk coordinates.
type ChunkArea struct {
	MinX, MinZ int32
	MaxX, MaxZ int32
}

// ChunkAreaAround returns the chunks within radius blocks of a world position.
func ChunkAreaAround(center Int3, radius int32) ChunkArea {
	return ChunkArea{
		MinX: FloorDiv(center.X-radius, SECTION_SIZE),
		MinZ: FloorDiv(center.Z-radius, SECTION_SIZE),
		MaxX: FloorDiv(center.X+radius, SECTION_SIZE),
		MaxZ: FloorDiv(center.Z+radius, SECTION_SIZE),
	}
}

func (a *ChunkArea) Contains(chunkX, chunkZ int32) bool {
	if a == nil {
		return true
	}
	return chunkX >= a.MinX && chunkX <= a.MaxX && chunkZ >= a.MinZ && chunkZ <= a.MaxZ
}

func (a *ChunkArea) overlapsRegion(regionX, regionZ int32) bool {
	if a == nil {
		return true
	}
	minX, minZ := regionX*regionChunks, regionZ*regionChunks
	maxX, maxZ := minX+regionChunks-1, minZ+regionChunks-1
	return a.MaxX >= minX && a.MinX <= maxX && a.MaxZ >= minZ && a.MinZ <= maxZ
}

// LoadRegionDir reads all r.X.Z.mca files of a world's region directory into a store.
func LoadRegionDir(dir string, area *ChunkArea) (*Store, error) {
	files, err := filepath.Glob(filepath.Join(dir, "r.*.*.mca"))
	if err != nil {
		return nil, errors.Wrap(err, "listing region files")
	}
	if len(files) == 0 {
		return nil, errors.Errorf("no region files in %s", dir)
	}
	sort.Strings(files)

	store := NewStore()
	for _, file := range files {
		var regionX, regionZ int32
		if _, err := fmt.Sscanf(filepath.Base(file), "r.%d.%d.mca", &regionX, &regionZ); err != nil {
			continue
		}
		if !area.overlapsRegion(regionX, regionZ) {
			continue
		}
		chunks, err := loadRegionFile(store, file, regionX, regionZ, area)
		if err != nil {
			return nil, errors.Wrapf(err, "region %s", filepath.Base(file))
		}
		util.LogIOInfo("region loaded", util.Tags{
			"file":   filepath.Base(file),
			"chunks": chunks,
		})
	}
	store.RemoveEmptySections()
	return store, nil
}

func loadRegionFile(store *Store, filename string, regionX, regionZ int32, area *ChunkArea) (int, error) {
	r, err := region.Open(filename)
	if err != nil {
		return 0, errors.Wrap(err, "opening region")
	}
	defer r.Close()

	chunks := 0
	for localZ := 0; localZ < regionChunks; localZ++ {
		for localX := 0; localX < regionChunks; localX++ {
			chunkX := regionX*regionChunks + int32(localX)
			chunkZ := regionZ*regionChunks + int32(localZ)
			if !area.Contains(chunkX, chunkZ) || !r.ExistSector(localX, localZ) {
				continue
			}
			data, err := r.ReadSector(localX, localZ)
			if err != nil {
				return chunks, errors.Wrapf(err, "reading chunk %d,%d", chunkX, chunkZ)
			}
			if err = DecodeAnvilChunk(store, data); err != nil {
				return chunks, errors.Wrapf(err, "decoding chunk %d,%d", chunkX, chunkZ)
			}
			chunks++
		}
	}
	return chunks, nil
}

// DecodeAnvilChunk decodes one chunk payload (compression byte + NBT) into the store.
func DecodeAnvilChunk(store *Store, data []byte) error {
	if len(data) == 0 {
		return errors.New("empty chunk payload")
	}
	reader, err := chunkReader(data[0], data[1:])
	if err != nil {
		return err
	}
	defer reader.Close()

	var chunk anvilChunk
	if _, err = nbt.NewDecoder(reader).Decode(&chunk); err != nil {
		return errors.Wrap(err, "decoding chunk nbt")
	}
	return addAnvilChunk(store, chunk)
}

func chunkReader(compression byte, payload []byte) (io.ReadCloser, error) {
	var reader io.ReadCloser
	var err error
	switch compression {
	case compressionGzip:
		reader, err = gzip.NewReader(bytes.NewReader(payload))
	case compressionZlib:
		reader, err = zlib.NewReader(bytes.NewReader(payload))
	case compressionNone:
		reader = io.NopCloser(bytes.NewReader(payload))
	default:
		return nil, errors.Errorf("unsupported compression type %d", compression)
	}
	if err != nil {
		return nil, errors.Wrap(err, "decompressing chunk")
	}
	return reader, nil
}

func addAnvilChunk(store *Store, chunk anvilChunk) error {
	for _, anvil := range chunk.Sections {
		states := anvil.BlockStates
		if len(states.Palette) == 0 {
			continue
		}
		ids := make([]uint16, len(states.Palette))
		allAir := true
		for i, state := range states.Palette {
			ids[i] = store.Palette().GetBlockID(state.Name)
			if ids[i] != AIR {
				allAir = false
			}
		}
		if allAir {
			continue
		}
		indices, err := unpackBlockStates(states.Data, len(states.Palette))
		if err != nil {
			return errors.Wrapf(err, "section y=%d", anvil.Y)
		}
		section := store.NewSection(Int3{chunk.XPos, int32(anvil.Y), chunk.ZPos})
		for i, paletteIndex := range indices {
			section.data[i] = ids[paletteIndex]
		}
	}
	return nil
}

// unpackBlockStates expands the packed palette indices of a section. Since 1.16
// an index never spans two longs, so each long holds 64/bitsPerBlock entries.
func unpackBlockStates(data []int64, paletteSize int) ([]uint16, error) {
	indices := make([]uint16, chunkSectionCount)
	if paletteSize <= 1 {
		return indices, nil
	}
	bitsPerBlock := bits.Len(uint(paletteSize - 1))
	if bitsPerBlock < minBitsPerBlock {
		bitsPerBlock = minBitsPerBlock
	}
	perLong := 64 / bitsPerBlock
	needed := (int(chunkSectionCount) + perLong - 1) / perLong
	if len(data) < needed {
		return nil, errors.Errorf("block state data holds %d longs, need %d", len(data), needed)
	}
	mask := uint64(1)<<uint(bitsPerBlock) - 1
	for i := range indices {
		long := uint64(data[i/perLong])
		shift := uint((i % perLong) * bitsPerBlock)
		index := (long >> shift) & mask
		if int(index) >= paletteSize {
			return nil, errors.Errorf("block %d references palette entry %d of %d", i, index, paletteSize)
		}
		indices[i] = uint16(index)
	}
	return indices, nil
}
