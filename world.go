package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/memmaker/sectionscene/engine/util"
	"github.com/memmaker/sectionscene/engine/voxel"
	"github.com/pkg/errors"
)

const (
	kindAuto         = "auto"
	kindRegion       = "region"
	kindConstruction = "construction"
	kindStore        = "store"
)

// detectKind guesses the world kind from the path: directories are region
// folders (or a save folder containing one), files go by extension.
func detectKind(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", errors.Wrapf(err, "opening world %s", path)
	}
	if info.IsDir() {
		return kindRegion, nil
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".construction":
		return kindConstruction, nil
	case ".bin":
		return kindStore, nil
	}
	return "", errors.Errorf("cannot tell the world kind of %s, set it explicitly", path)
}

// regionDir accepts a save folder as well as its region folder.
func regionDir(path string) string {
	nested := filepath.Join(path, "region")
	if info, err := os.Stat(nested); err == nil && info.IsDir() {
		return nested
	}
	return path
}

func loadWorld(conf config, viewpoint mgl32.Vec3, radius float64) (*voxel.Store, string, error) {
	kind := conf.Kind
	if kind == "" || kind == kindAuto {
		detected, err := detectKind(conf.World)
		if err != nil {
			return nil, "", err
		}
		kind = detected
	}

	var store *voxel.Store
	var err error
	switch kind {
	case kindRegion:
		var area *voxel.ChunkArea
		if !conf.LoadAll {
			around := voxel.ChunkAreaAround(voxel.ToGridInt3(viewpoint), int32(radius)+voxel.SECTION_SIZE)
			area = &around
		}
		store, err = voxel.LoadRegionDir(regionDir(conf.World), area)
	case kindConstruction:
		var construction *voxel.Construction
		construction, err = voxel.LoadConstruction(conf.World)
		if err == nil {
			store = voxel.NewStoreFromConstruction(construction)
		}
	case kindStore:
		store, err = voxel.LoadStoreFromDisk(conf.World)
	default:
		return nil, "", errors.Errorf("unknown world kind %q", kind)
	}
	if err != nil {
		return nil, "", errors.Wrapf(err, "loading %s world", kind)
	}

	tags := util.Tags{
		"world":    conf.World,
		"kind":     kind,
		"sections": store.Len(),
		"palette":  store.Palette().Len(),
	}
	util.LogIOInfo("world loaded", tags)
	if unknown := store.Palette().SortedUnknownBlocks(); len(unknown) > 0 {
		util.LogVoxelWarning(errors.Errorf("%d block names could not be registered", len(unknown)), util.Tags{
			"blocks": strings.Join(unknown, ","),
		})
	}
	return store, kind, nil
}

// worldBounds starts from the usual height of the world kind and widens it to
// cover every loaded section.
func worldBounds(kind string, store *voxel.Store) voxel.Bounds {
	bounds := voxel.DefaultBounds
	if kind == kindRegion {
		bounds = voxel.AnvilBounds
	}
	minY, maxY, ok := store.SectionYRange()
	if !ok {
		return bounds
	}
	if minY < bounds.MinSectionY {
		bounds.SectionCount += bounds.MinSectionY - minY
		bounds.MinSectionY = minY
	}
	if maxY > bounds.MaxSectionY() {
		bounds.SectionCount = maxY - bounds.MinSectionY + 1
	}
	return bounds
}
