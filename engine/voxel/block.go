package voxel

import (
	"sort"
	"strings"
)

// Palette maps block names to the compact ids stored in sections.
// Id 0 is always air.
type Palette struct {
	names         []string
	ids           map[string]uint16
	UnknownBlocks map[string]bool
}

func NewPalette() *Palette {
	return &Palette{
		names:         []string{AIR_NAME},
		ids:           map[string]uint16{AIR_NAME: AIR},
		UnknownBlocks: map[string]bool{},
	}
}

// NormalizeBlockName adds the minecraft namespace to bare names.
func NormalizeBlockName(name string) string {
	if name == "" {
		return AIR_NAME
	}
	if !strings.Contains(name, ":") {
		return "minecraft:" + name
	}
	return name
}

// IsAirName reports whether the block name is one of the air variants.
func IsAirName(name string) bool {
	switch NormalizeBlockName(name) {
	case AIR_NAME, "minecraft:cave_air", "minecraft:void_air":
		return true
	}
	return false
}

// GetBlockID returns the id for a block name, registering it when unseen.
func (p *Palette) GetBlockID(name string) uint16 {
	if IsAirName(name) {
		return AIR
	}
	name = NormalizeBlockName(name)
	if id, exists := p.ids[name]; exists {
		return id
	}
	if len(p.names) > 0xFFFF {
		p.UnknownBlocks[name] = true
		return AIR
	}
	id := uint16(len(p.names))
	p.names = append(p.names, name)
	p.ids[name] = id
	return id
}

func (p *Palette) LookupID(name string) (uint16, bool) {
	id, ok := p.ids[NormalizeBlockName(name)]
	return id, ok
}

func (p *Palette) Name(id uint16) string {
	if int(id) >= len(p.names) {
		return AIR_NAME
	}
	return p.names[id]
}

func (p *Palette) Len() int {
	return len(p.names)
}

func (p *Palette) Names() []string {
	return append([]string(nil), p.names...)
}

func (p *Palette) SortedUnknownBlocks() []string {
	var names []string
	for name := range p.UnknownBlocks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
