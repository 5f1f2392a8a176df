package scene

import (
	"io"
	"os"
	"sort"

	"github.com/memmaker/sectionscene/engine/util"
	"github.com/memmaker/sectionscene/engine/visibility"
	"github.com/memmaker/sectionscene/engine/voxel"
	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// faceCorners lists the unit cube corners of each face, counter-clockwise
// when seen from outside. Indexed by facing ordinal.
var faceCorners = [voxel.FacingCount][4][3]float32{
	voxel.NegZ: {{1, 0, 0}, {0, 0, 0}, {0, 1, 0}, {1, 1, 0}},
	voxel.PosZ: {{0, 0, 1}, {1, 0, 1}, {1, 1, 1}, {0, 1, 1}},
	voxel.NegX: {{0, 0, 0}, {0, 0, 1}, {0, 1, 1}, {0, 1, 0}},
	voxel.PosX: {{1, 0, 1}, {1, 0, 0}, {1, 1, 0}, {1, 1, 1}},
	voxel.NegY: {{0, 0, 0}, {1, 0, 0}, {1, 0, 1}, {0, 0, 1}},
	voxel.PosY: {{0, 1, 1}, {1, 1, 1}, {1, 1, 0}, {0, 1, 0}},
}

type blockMesh struct {
	positions [][3]float32
	normals   [][3]float32
	indices   []uint32
}

func (m *blockMesh) addFace(pos voxel.Int3, facing voxel.Facing) {
	base := uint32(len(m.positions))
	offset := facing.Offset()
	normal := [3]float32{float32(offset.X), float32(offset.Y), float32(offset.Z)}
	for _, corner := range faceCorners[facing] {
		m.positions = append(m.positions, [3]float32{
			float32(pos.X) + corner[0],
			float32(pos.Y) + corner[1],
			float32(pos.Z) + corner[2],
		})
		m.normals = append(m.normals, normal)
	}
	m.indices = append(m.indices, base, base+1, base+2, base, base+2, base+3)
}

// BuildGLTF turns the visible sections into a glTF document with one mesh per
// material. Faces shared by two solid blocks of the same section are dropped.
func BuildGLTF(visible []visibility.Visible, settings Settings) (*gltf.Document, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	meshes := make(map[string]*blockMesh)
	for _, v := range visible {
		if v.Section == nil {
			continue
		}
		collectFaces(v.Section, settings, meshes)
	}

	doc := gltf.NewDocument()
	doc.Asset.Generator = "sectionscene"

	for _, name := range sortedMaterialNames(meshes) {
		mesh := meshes[name]
		albedo := settings.Albedo
		if name != DefaultMaterial {
			albedo = settings.BlockAlbedo[name[len(DefaultMaterial)+1:]]
		}
		doc.Materials = append(doc.Materials, &gltf.Material{
			Name: name,
			PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
				BaseColorFactor: &[4]float32{albedo[0], albedo[1], albedo[2], 1},
			},
		})
		materialIndex := uint32(len(doc.Materials) - 1)

		indices := modeler.WriteIndices(doc, mesh.indices)
		positions := modeler.WritePosition(doc, mesh.positions)
		normals := modeler.WriteNormal(doc, mesh.normals)
		doc.Meshes = append(doc.Meshes, &gltf.Mesh{
			Name: name,
			Primitives: []*gltf.Primitive{{
				Indices: gltf.Index(indices),
				Attributes: map[string]uint32{
					gltf.POSITION: positions,
					gltf.NORMAL:   normals,
				},
				Material: gltf.Index(materialIndex),
			}},
		})
		doc.Nodes = append(doc.Nodes, &gltf.Node{
			Name: name,
			Mesh: gltf.Index(uint32(len(doc.Meshes) - 1)),
		})
		doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, uint32(len(doc.Nodes)-1))

		util.LogExportDebug("gltf mesh built", util.Tags{
			"material": name,
			"vertices": len(mesh.positions),
		})
	}
	return doc, nil
}

func collectFaces(section *voxel.Section, settings Settings, meshes map[string]*blockMesh) {
	palette := section.Palette()
	origin := section.Origin()
	solid := func(local voxel.Int3) bool {
		if !section.Contains(local.X, local.Y, local.Z) {
			return false
		}
		id := section.GetLocalBlock(local.X, local.Y, local.Z)
		return id != voxel.AIR && !settings.skips(palette.Name(id))
	}

	section.ForEachBlock(func(worldPos voxel.Int3, id uint16) {
		blockName := palette.Name(id)
		if settings.skips(blockName) {
			return
		}
		material := settings.MaterialName(blockName)
		mesh, ok := meshes[material]
		if !ok {
			mesh = &blockMesh{}
			meshes[material] = mesh
		}
		local := worldPos.Sub(origin)
		for _, facing := range voxel.AllFacings {
			if solid(local.Add(facing.Offset())) {
				continue
			}
			mesh.addFace(worldPos, facing)
		}
	})
}

func sortedMaterialNames(meshes map[string]*blockMesh) []string {
	names := make([]string, 0, len(meshes))
	for name := range meshes {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if names[i] == DefaultMaterial || names[j] == DefaultMaterial {
			return names[i] == DefaultMaterial && names[j] != DefaultMaterial
		}
		return names[i] < names[j]
	})
	return names
}

// WriteGLB encodes the document as binary glTF.
func WriteGLB(w io.Writer, doc *gltf.Document) error {
	encoder := gltf.NewEncoder(w)
	encoder.AsBinary = true
	return errors.Wrap(encoder.Encode(doc), "encoding glb")
}

func SaveGLTF(filename string, doc *gltf.Document) error {
	file, err := os.Create(filename)
	if err != nil {
		return errors.Wrapf(err, "creating %s", filename)
	}
	if err := WriteGLB(file, doc); err != nil {
		file.Close()
		return err
	}
	return errors.Wrapf(file.Close(), "closing %s", filename)
}
