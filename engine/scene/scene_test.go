package scene

import (
	"bytes"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/memmaker/sectionscene/engine/visibility"
	"github.com/memmaker/sectionscene/engine/voxel"
	"github.com/qmuntal/gltf"
	"github.com/stretchr/testify/require"
)

func visibleFromStore(store *voxel.Store) []visibility.Visible {
	var visible []visibility.Visible
	for _, section := range store.Sections() {
		visible = append(visible, visibility.Visible{Coord: section.Coord(), Section: section})
	}
	return visible
}

func TestCommandText(t *testing.T) {
	command := NewCommand("geometry", "cuboid", "(1, 2, 3)").
		Set("min-vertex", Vector3{1, 2, 3}).
		Set("max-vertex", Vector3{2, 3, 4.5})
	require.Equal(t, `-> geometry(cuboid) @"(1, 2, 3)" [vector3 min-vertex "1 2 3"] [vector3 max-vertex "2 3 4.5"]`, command.Text())

	command = NewCommand("renderer", "sampling", "").
		Set("width", Integer(1920)).
		Set("filter-name", String("gaussian")).
		Set("fov", Real(105))
	require.Equal(t, `-> renderer(sampling) [integer width 1920] [string filter-name "gaussian"] [real fov 105]`, command.Text())

	command = NewCommand("actor", "model", "actor:x").
		Set("geometry", GeometryRef("x")).
		Set("material", MaterialRef("mat"))
	require.Equal(t, `-> actor(model) @"actor:x" [geometry geometry @"x"] [material material @"mat"]`, command.Text())
}

func TestConsoleFlush(t *testing.T) {
	console := NewConsole()
	console.Queue(NewCommand("a", "b", ""))
	console.Queue(NewCommand("c", "d", "e"))
	require.Equal(t, 2, console.Pending())

	var out bytes.Buffer
	require.NoError(t, console.Flush(&out))
	require.Equal(t, "-> a(b)\n-> c(d) @\"e\"\n", out.String())
	require.Equal(t, 0, console.Pending())
	require.Equal(t, 2, console.Written())
}

func TestExportSDL(t *testing.T) {
	store := voxel.NewStore()
	store.SetBlock(1, 2, 3, "stone")
	store.SetBlock(-1, 0, 0, "grass_block")
	store.SetBlock(2, 2, 3, "barrier")

	settings := DefaultSettings()
	settings.BlockAlbedo = map[string]Color{"minecraft:grass_block": {0.2, 0.8, 0.2}}
	settings.SkipBlocks = []string{"minecraft:barrier"}
	settings = settings.WithViewpoint(mgl32.Vec3{8, 70, 8})

	var out bytes.Buffer
	stats, err := ExportSDL(&out, visibleFromStore(store), settings)
	require.NoError(t, err)
	require.Equal(t, 2, stats.Sections)
	require.Equal(t, 2, stats.Blocks)
	require.Equal(t, 1, stats.Skipped)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Equal(t, stats.Commands, len(lines))
	require.Equal(t, `-> sample-generator(stratified) [integer sample-amount 10000]`, lines[0])
	require.Equal(t, `-> renderer(sampling) [integer width 1920] [integer height 1080] [string filter-name "gaussian"] [string estimator "bneept"]`, lines[1])
	require.Equal(t, `-> camera(pinhole) [real fov-degree 105] [vector3 position "8 70 8"] [vector3 direction "0 0 -1"] [vector3 up-axis "0 1 0"]`, lines[2])
	require.Equal(t, `-> actor(dome) @"envmap" [string env-map "spruit_sunrise_2k.hdr"]`, lines[3])
	require.Equal(t, `-> material(matte-opaque) @"mat" [vector3 albedo "0.5 0.5 0.5"]`, lines[4])
	require.Equal(t, `-> material(matte-opaque) @"mat:minecraft:grass_block" [vector3 albedo "0.2 0.8 0.2"]`, lines[5])

	// sections come out in the order given: (-1, 0, 0) sorts before (0, 0, 0)
	require.Equal(t, `-> geometry(cuboid) @"(-1, 0, 0)" [vector3 min-vertex "-1 0 0"] [vector3 max-vertex "0 1 1"]`, lines[6])
	require.Equal(t, `-> actor(model) @"actor:(-1, 0, 0)" [geometry geometry @"(-1, 0, 0)"] [material material @"mat:minecraft:grass_block"]`, lines[7])
	require.Equal(t, `-> geometry(cuboid) @"(1, 2, 3)" [vector3 min-vertex "1 2 3"] [vector3 max-vertex "2 3 4"]`, lines[8])
	require.Equal(t, `-> actor(model) @"actor:(1, 2, 3)" [geometry geometry @"(1, 2, 3)"] [material material @"mat"]`, lines[9])
	require.Len(t, lines, 10)
}

func TestExportSDLRejectsBadSettings(t *testing.T) {
	settings := DefaultSettings()
	settings.Width = 0
	_, err := ExportSDL(&bytes.Buffer{}, nil, settings)
	require.Error(t, err)
}

func TestBuildGLTF(t *testing.T) {
	store := voxel.NewStore()
	store.SetBlock(0, 0, 0, "stone")
	store.SetBlock(1, 0, 0, "stone")
	store.SetBlock(5, 5, 5, "gold_block")

	settings := DefaultSettings()
	settings.BlockAlbedo = map[string]Color{"minecraft:gold_block": {1, 0.8, 0}}

	doc, err := BuildGLTF(visibleFromStore(store), settings)
	require.NoError(t, err)
	require.Len(t, doc.Meshes, 2)
	require.Len(t, doc.Materials, 2)
	require.Equal(t, DefaultMaterial, doc.Materials[0].Name)
	require.Equal(t, "mat:minecraft:gold_block", doc.Materials[1].Name)
	require.Equal(t, [4]float32{1, 0.8, 0, 1}, *doc.Materials[1].PBRMetallicRoughness.BaseColorFactor)
	require.Len(t, doc.Scenes[0].Nodes, 2)

	// two touching stones share one hidden face each
	stone := doc.Meshes[0].Primitives[0]
	require.EqualValues(t, 10*4, doc.Accessors[stone.Attributes[gltf.POSITION]].Count)
	require.EqualValues(t, 10*6, doc.Accessors[*stone.Indices].Count)

	gold := doc.Meshes[1].Primitives[0]
	require.EqualValues(t, 6*4, doc.Accessors[gold.Attributes[gltf.NORMAL]].Count)
	require.EqualValues(t, 1, *gold.Material)

	var out bytes.Buffer
	require.NoError(t, WriteGLB(&out, doc))
	require.True(t, bytes.HasPrefix(out.Bytes(), []byte("glTF")))
}

func TestFaceCornersFaceOutwards(t *testing.T) {
	for _, facing := range voxel.AllFacings {
		corners := faceCorners[facing]
		a := mgl32.Vec3(corners[0])
		b := mgl32.Vec3(corners[1])
		c := mgl32.Vec3(corners[2])
		normal := b.Sub(a).Cross(c.Sub(a))
		require.Equal(t, facing.Offset().ToVec3(), normal, "facing %s", facing)
	}
}
