package voxel

import (
	"compress/gzip"
	"encoding/binary"
	"io"
	"os"
	"sort"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

const storeMagic = "SECTSTR1"

// Store is a sparse world of sections keyed by their grid coordinate.
// Coordinates without a section are air.
type Store struct {
	sections map[Int3]*Section
	palette  *Palette
}

func NewStore() *Store {
	return NewStoreWithPalette(NewPalette())
}

func NewStoreWithPalette(palette *Palette) *Store {
	return &Store{
		sections: make(map[Int3]*Section),
		palette:  palette,
	}
}

func (m *Store) Palette() *Palette {
	return m.palette
}

// SectionAt returns the section at the grid coordinate or nil when the coordinate is empty.
func (m *Store) SectionAt(coord Int3) *Section {
	return m.sections[coord]
}

func (m *Store) SectionExists(coord Int3) bool {
	_, ok := m.sections[coord]
	return ok
}

func (m *Store) Put(section *Section) {
	m.sections[section.Coord()] = section
}

func (m *Store) Remove(coord Int3) {
	delete(m.sections, coord)
}

func (m *Store) Len() int {
	return len(m.sections)
}

// NewSection creates (or returns the existing) section at the grid coordinate.
func (m *Store) NewSection(coord Int3) *Section {
	if section, ok := m.sections[coord]; ok {
		return section
	}
	section := NewSection(m.palette, coord)
	m.sections[coord] = section
	return section
}

// Sections enumerates all present sections ordered by y, z, x.
func (m *Store) Sections() []*Section {
	result := make([]*Section, 0, len(m.sections))
	for _, section := range m.sections {
		result = append(result, section)
	}
	sort.Slice(result, func(i, j int) bool {
		a, b := result[i].Coord(), result[j].Coord()
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		if a.Z != b.Z {
			return a.Z < b.Z
		}
		return a.X < b.X
	})
	return result
}

// SetBlock writes a block at world coordinates, creating the section if needed.
func (m *Store) SetBlock(x, y, z int32, name string) {
	id := m.palette.GetBlockID(name)
	coord := Int3{x, y, z}.ToSectionCoord()
	section := m.sections[coord]
	if section == nil {
		if id == AIR {
			return
		}
		section = m.NewSection(coord)
	}
	section.SetLocalBlock(FloorMod(x, SECTION_SIZE), FloorMod(y, SECTION_SIZE), FloorMod(z, SECTION_SIZE), id)
}

func (m *Store) GetGlobalBlock(x, y, z int32) uint16 {
	section := m.sections[Int3{x, y, z}.ToSectionCoord()]
	if section == nil {
		return AIR
	}
	return section.GetLocalBlock(FloorMod(x, SECTION_SIZE), FloorMod(y, SECTION_SIZE), FloorMod(z, SECTION_SIZE))
}

func (m *Store) IsSolidBlockAt(x, y, z int32) bool {
	return m.GetGlobalBlock(x, y, z) != AIR
}

func (m *Store) GetBlockFromPosition(pos mgl32.Vec3) uint16 {
	grid := ToGridInt3(pos)
	return m.GetGlobalBlock(grid.X, grid.Y, grid.Z)
}

// RemoveEmptySections drops sections that contain only air. An absent
// section is treated as fully transparent, so this does not change visibility.
func (m *Store) RemoveEmptySections() int {
	removed := 0
	for coord, section := range m.sections {
		if section.IsEmpty() {
			delete(m.sections, coord)
			removed++
		}
	}
	return removed
}

// SectionYRange returns the lowest and highest occupied section y.
func (m *Store) SectionYRange() (int32, int32, bool) {
	if len(m.sections) == 0 {
		return 0, 0, false
	}
	first := true
	var minY, maxY int32
	for coord := range m.sections {
		if first || coord.Y < minY {
			minY = coord.Y
		}
		if first || coord.Y > maxY {
			maxY = coord.Y
		}
		first = false
	}
	return minY, maxY, true
}

func ToGridInt3(pos mgl32.Vec3) Int3 {
	return Int3{floor32(pos.X()), floor32(pos.Y()), floor32(pos.Z())}
}

func floor32(v float32) int32 {
	i := int32(v)
	if float32(i) > v {
		i--
	}
	return i
}

// Save writes the store as a gzip compressed little endian dump.
func (m *Store) Save(w io.Writer) error {
	gzipWriter := gzip.NewWriter(w)
	le := binary.LittleEndian

	if _, err := gzipWriter.Write([]byte(storeMagic)); err != nil {
		return errors.Wrap(err, "writing store header")
	}
	names := m.palette.Names()
	if err := binary.Write(gzipWriter, le, uint32(len(names))); err != nil {
		return errors.Wrap(err, "writing palette size")
	}
	for _, name := range names {
		if err := binary.Write(gzipWriter, le, uint16(len(name))); err != nil {
			return errors.Wrap(err, "writing palette entry")
		}
		if _, err := gzipWriter.Write([]byte(name)); err != nil {
			return errors.Wrap(err, "writing palette entry")
		}
	}

	sections := m.Sections()
	if err := binary.Write(gzipWriter, le, uint32(len(sections))); err != nil {
		return errors.Wrap(err, "writing section count")
	}
	for _, section := range sections {
		coord := section.Coord()
		if err := binary.Write(gzipWriter, le, [3]int32{coord.X, coord.Y, coord.Z}); err != nil {
			return errors.Wrapf(err, "writing section %s", coord)
		}
		if err := binary.Write(gzipWriter, le, section.data); err != nil {
			return errors.Wrapf(err, "writing section %s", coord)
		}
	}
	return errors.Wrap(gzipWriter.Close(), "closing store writer")
}

func (m *Store) SaveToDisk(filename string) error {
	outfile, err := os.Create(filename)
	if err != nil {
		return errors.Wrap(err, "creating store file")
	}
	if err = m.Save(outfile); err != nil {
		outfile.Close()
		return err
	}
	return outfile.Close()
}

// LoadStore reads a store previously written by Save.
func LoadStore(r io.Reader) (*Store, error) {
	gzipReader, err := gzip.NewReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "opening store")
	}
	defer gzipReader.Close()
	le := binary.LittleEndian

	magic := make([]byte, len(storeMagic))
	if _, err = io.ReadFull(gzipReader, magic); err != nil {
		return nil, errors.Wrap(err, "reading store header")
	}
	if string(magic) != storeMagic {
		return nil, errors.New("invalid store header")
	}

	var paletteSize uint32
	if err = binary.Read(gzipReader, le, &paletteSize); err != nil {
		return nil, errors.Wrap(err, "reading palette size")
	}
	palette := NewPalette()
	for i := uint32(0); i < paletteSize; i++ {
		var nameLength uint16
		if err = binary.Read(gzipReader, le, &nameLength); err != nil {
			return nil, errors.Wrap(err, "reading palette entry")
		}
		name := make([]byte, nameLength)
		if _, err = io.ReadFull(gzipReader, name); err != nil {
			return nil, errors.Wrap(err, "reading palette entry")
		}
		if id := palette.GetBlockID(string(name)); uint32(id) != i {
			return nil, errors.Errorf("palette entry %d (%s) resolved to id %d", i, name, id)
		}
	}

	store := NewStoreWithPalette(palette)
	var sectionCount uint32
	if err = binary.Read(gzipReader, le, &sectionCount); err != nil {
		return nil, errors.Wrap(err, "reading section count")
	}
	for i := uint32(0); i < sectionCount; i++ {
		var pos [3]int32
		if err = binary.Read(gzipReader, le, &pos); err != nil {
			return nil, errors.Wrapf(err, "reading section %d", i)
		}
		section := store.NewSection(Int3{pos[0], pos[1], pos[2]})
		if err = binary.Read(gzipReader, le, section.data); err != nil {
			return nil, errors.Wrapf(err, "reading blocks of section %d", i)
		}
		for _, id := range section.data {
			if int(id) >= palette.Len() {
				return nil, errors.Errorf("section %s references unknown block id %d", section.Coord(), id)
			}
		}
	}
	return store, nil
}

func LoadStoreFromDisk(filename string) (*Store, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrap(err, "opening store file")
	}
	defer file.Close()
	return LoadStore(file)
}
