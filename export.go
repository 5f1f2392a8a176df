package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/memmaker/sectionscene/engine/preview"
	"github.com/memmaker/sectionscene/engine/scene"
	"github.com/memmaker/sectionscene/engine/util"
	"github.com/memmaker/sectionscene/engine/visibility"
	"github.com/memmaker/sectionscene/engine/voxel"
	"github.com/pkg/errors"
	"github.com/segmentio/encoding/json"
)

func validateConfig(conf config) error {
	if conf.World == "" {
		return errors.New("no world given")
	}
	if conf.Radius < 0 {
		return errors.Errorf("invalid radius %v", conf.Radius)
	}
	switch strings.ToLower(filepath.Ext(conf.Out)) {
	case ".sdl", ".glb":
	default:
		return errors.Errorf("unsupported scene output %q, use .sdl or .glb", conf.Out)
	}
	if conf.VerifyRays < 0 {
		return errors.Errorf("invalid ray count %d", conf.VerifyRays)
	}
	return nil
}

type report struct {
	Version   string               `json:"version"`
	World     string               `json:"world"`
	Kind      string               `json:"kind"`
	Viewpoint [3]float32           `json:"viewpoint"`
	Root      voxel.Int3           `json:"root"`
	Radius    float64              `json:"radius"`
	Bounds    voxel.Bounds         `json:"bounds"`
	Stats     visibility.Stats     `json:"stats"`
	Export    scene.ExportStats    `json:"export"`
	Sections  []reportSection      `json:"sections"`
	RayMisses []visibility.RayMiss `json:"ray_misses,omitempty"`
	Timings   []util.StageTiming   `json:"timings"`
	Output    map[string]string    `json:"output"`
}

type reportSection struct {
	Coord        voxel.Int3 `json:"coord"`
	Blocks       int        `json:"blocks"`
	Reachability string     `json:"reachability"`
}

// run loads the world, finds the sections visible from the viewpoint and
// writes the requested outputs.
func run(ctx context.Context, conf config, stdout io.Writer, interactive bool) error {
	timer := util.NewTimer()

	settings := scene.DefaultSettings()
	if conf.Scene != "" {
		loaded, err := scene.LoadSettings(conf.Scene)
		if err != nil {
			return err
		}
		settings = loaded
	}
	radius := float64(visibility.DefaultMaxRadius)
	if settings.Radius > 0 {
		radius = settings.Radius
	}
	if conf.Radius > 0 {
		radius = conf.Radius
	}
	viewpoint := mgl32.Vec3{float32(conf.ViewX), float32(conf.ViewY), float32(conf.ViewZ)}

	stop := timer.Start("load")
	store, kind, err := loadWorld(conf, viewpoint, radius)
	stop()
	if err != nil {
		return err
	}
	if conf.SaveStore != "" {
		if err := store.SaveToDisk(conf.SaveStore); err != nil {
			return err
		}
		util.LogIOInfo("store cache written", util.Tags{"file": conf.SaveStore})
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	opts := visibility.DefaultOptions()
	opts.MaxRadius = radius
	opts.Bounds = worldBounds(kind, store)
	opts.IncludeOpaque = !conf.SkipOpaque
	opts.Cache = visibility.NewReachabilityCache(opts.Provider)
	if conf.Trace {
		opts.Tracer = visibility.LogTracer
	}
	root, err := visibility.RootCoord(viewpoint, opts.Bounds)
	if err != nil {
		return err
	}

	stop = timer.Start("traverse")
	visible, stats, err := visibility.TraverseWithStats(store, viewpoint, opts)
	stop()
	if err != nil {
		return err
	}
	util.LogTraversalInfo("visible sections found", util.Tags{
		"root":          root.String(),
		"visible":       len(visible),
		"sections":      store.Len(),
		"radius":        radius,
		"radius_cutoff": stats.RadiusCutoff,
	})
	if err := ctx.Err(); err != nil {
		return err
	}

	rep := report{
		Version:   version,
		World:     conf.World,
		Kind:      kind,
		Viewpoint: [3]float32(viewpoint),
		Root:      root,
		Radius:    radius,
		Bounds:    opts.Bounds,
		Stats:     stats,
		Output:    make(map[string]string),
	}
	for _, v := range visible {
		rep.Sections = append(rep.Sections, reportSection{
			Coord:        v.Coord,
			Blocks:       v.Section.NonAirCount(),
			Reachability: v.Reachability.String(),
		})
	}

	stop = timer.Start("export")
	rep.Export, err = writeScene(conf.Out, visible, settings.WithViewpoint(viewpoint))
	stop()
	if err != nil {
		return err
	}
	rep.Output["scene"] = conf.Out

	if conf.Preview != "" {
		stop = timer.Start("preview")
		previewOpts := preview.DefaultOptions()
		previewOpts.Albedo = func(blockName string) [3]float32 {
			return settings.AlbedoFor(blockName)
		}
		err = preview.SavePNG(conf.Preview, visible, previewOpts)
		stop()
		if err != nil && !errors.Is(err, preview.ErrNothingVisible) {
			return err
		}
		if err == nil {
			rep.Output["preview"] = conf.Preview
		}
	}

	if conf.VerifyRays > 0 {
		stop = timer.Start("verify")
		directions := voxel.FibonacciDirections(conf.VerifyRays)
		rep.RayMisses = visibility.CheckRays(store, viewpoint, visible, directions, visibility.SafeRayLength(radius))
		stop()
		if len(rep.RayMisses) > 0 {
			util.LogTraversalWarning(errors.Errorf("%d of %d rays hit blocks outside the visible set", len(rep.RayMisses), conf.VerifyRays), util.Tags{
				"first": rep.RayMisses[0].Block.String(),
			})
		}
	}

	rep.Timings = timer.Timings()
	if conf.Report != "" {
		if err := writeReport(conf.Report, stdout, rep); err != nil {
			return err
		}
	}
	if interactive {
		printSummary(stdout, rep, timer)
	}
	return nil
}

func writeScene(filename string, visible []visibility.Visible, settings scene.Settings) (scene.ExportStats, error) {
	if strings.ToLower(filepath.Ext(filename)) == ".glb" {
		doc, err := scene.BuildGLTF(visible, settings)
		if err != nil {
			return scene.ExportStats{}, err
		}
		var stats scene.ExportStats
		for _, v := range visible {
			stats.Sections++
			stats.Blocks += v.Section.NonAirCount()
		}
		if err := scene.SaveGLTF(filename, doc); err != nil {
			return stats, err
		}
		util.LogExportInfo("glb written", util.Tags{"file": filename, "meshes": len(doc.Meshes)})
		return stats, nil
	}

	file, err := os.Create(filename)
	if err != nil {
		return scene.ExportStats{}, errors.Wrapf(err, "creating %s", filename)
	}
	stats, err := scene.ExportSDL(file, visible, settings)
	if err != nil {
		file.Close()
		return stats, err
	}
	return stats, errors.Wrapf(file.Close(), "closing %s", filename)
}

func writeReport(filename string, stdout io.Writer, rep report) error {
	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding report")
	}
	data = append(data, '\n')
	if filename == "-" {
		_, err = stdout.Write(data)
		return errors.Wrap(err, "writing report")
	}
	return errors.Wrapf(os.WriteFile(filename, data, 0o644), "writing report %s", filename)
}

func printSummary(w io.Writer, rep report, timer *util.Timer) {
	fmt.Fprintf(w, "root %s, %d visible sections, %d blocks exported to %s\n",
		rep.Root, len(rep.Sections), rep.Export.Blocks, rep.Output["scene"])
	if rep.Stats.RadiusCutoff {
		fmt.Fprintf(w, "stopped at radius %.0f\n", rep.Radius)
	}
	if len(rep.RayMisses) > 0 {
		fmt.Fprintf(w, "%d ray hits outside the visible set\n", len(rep.RayMisses))
	}
	fmt.Fprint(w, timer.String())
}
