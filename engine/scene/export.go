package scene

import (
	"io"
	"sort"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/memmaker/sectionscene/engine/util"
	"github.com/memmaker/sectionscene/engine/visibility"
	"github.com/memmaker/sectionscene/engine/voxel"
)

const DefaultMaterial = "mat"

type ExportStats struct {
	Sections int
	Blocks   int
	Skipped  int
	Commands int
}

// WithViewpoint places the camera at the viewpoint unless a position is configured.
func (s Settings) WithViewpoint(viewpoint mgl32.Vec3) Settings {
	if s.Camera.Position == nil {
		position := [3]float32(viewpoint)
		s.Camera.Position = &position
	}
	return s
}

// MaterialName is the scene material a block is rendered with.
func (s Settings) MaterialName(blockName string) string {
	if _, ok := s.BlockAlbedo[blockName]; ok {
		return DefaultMaterial + ":" + blockName
	}
	return DefaultMaterial
}

// ExportSDL writes the scene description for the visible sections: renderer
// setup first, then one cuboid and one model actor per non-air block.
func ExportSDL(w io.Writer, visible []visibility.Visible, settings Settings) (ExportStats, error) {
	var stats ExportStats
	if err := settings.Validate(); err != nil {
		return stats, err
	}

	console := NewConsole()
	queueSetup(console, settings)
	if err := console.Flush(w); err != nil {
		return stats, err
	}

	for _, v := range visible {
		if v.Section == nil {
			continue
		}
		stats.Sections++
		queueSection(console, v.Section, settings, &stats)
		util.LogExportDebug("exported section", util.Tags{
			"coord":    v.Coord.String(),
			"commands": console.Pending(),
		})
		if err := console.Flush(w); err != nil {
			return stats, err
		}
	}
	stats.Commands = console.Written()
	util.LogExportInfo("scene description written", util.Tags{
		"sections": stats.Sections,
		"blocks":   stats.Blocks,
		"commands": stats.Commands,
	})
	return stats, nil
}

func queueSetup(console *Console, settings Settings) {
	console.Queue(NewCommand("sample-generator", "stratified", "").
		Set("sample-amount", Integer(settings.Samples)))

	console.Queue(NewCommand("renderer", "sampling", "").
		Set("width", Integer(settings.Width)).
		Set("height", Integer(settings.Height)).
		Set("filter-name", String(settings.Filter)).
		Set("estimator", String(settings.Estimator)))

	console.Queue(NewCommand("camera", "pinhole", "").
		Set("fov-degree", Real(settings.FovDegrees)).
		Set("position", Vector3(settings.CameraPosition(mgl32.Vec3{}))).
		Set("direction", Vector3(settings.Camera.Direction)).
		Set("up-axis", Vector3(settings.Camera.Up)))

	if settings.EnvMap != "" {
		console.Queue(NewCommand("actor", "dome", "envmap").
			Set("env-map", String(settings.EnvMap)))
	}

	console.Queue(NewCommand("material", "matte-opaque", DefaultMaterial).
		Set("albedo", Vector3(settings.Albedo)))

	names := make([]string, 0, len(settings.BlockAlbedo))
	for name := range settings.BlockAlbedo {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		console.Queue(NewCommand("material", "matte-opaque", settings.MaterialName(name)).
			Set("albedo", Vector3(settings.BlockAlbedo[name])))
	}
}

func queueSection(console *Console, section *voxel.Section, settings Settings, stats *ExportStats) {
	palette := section.Palette()
	section.ForEachBlock(func(worldPos voxel.Int3, id uint16) {
		blockName := palette.Name(id)
		if settings.skips(blockName) {
			stats.Skipped++
			return
		}
		stats.Blocks++
		cubeName := worldPos.String()
		minVertex := worldPos.ToVec3()
		maxVertex := minVertex.Add(mgl32.Vec3{1, 1, 1})

		console.Queue(NewCommand("geometry", "cuboid", cubeName).
			Set("min-vertex", Vector3(minVertex)).
			Set("max-vertex", Vector3(maxVertex)))
		console.Queue(NewCommand("actor", "model", "actor:"+cubeName).
			Set("geometry", GeometryRef(cubeName)).
			Set("material", MaterialRef(settings.MaterialName(blockName))))
	})
}
