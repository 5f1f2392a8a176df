package main

import (
	"context"
	"fmt"
	"os"
	"reflect"
	"syscall"

	"github.com/aukilabs/go-tooling/pkg/cli"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/segmentio/encoding/json"
	"golang.org/x/term"
)

var version = "v0.1.0"

// Keeps the option names readable when the binary is obfuscated.
var _ = reflect.TypeOf(config{})

type config struct {
	World      string  `cli:""        env:"SECTIONSCENE_WORLD"       help:"World to export: Anvil region directory, .construction file or .bin store cache."`
	Kind       string  `cli:""        env:"SECTIONSCENE_KIND"        help:"World kind (auto|region|construction|store)."`
	ViewX      float64 `cli:""        env:"SECTIONSCENE_VIEW_X"      help:"Viewpoint x in blocks."`
	ViewY      float64 `cli:""        env:"SECTIONSCENE_VIEW_Y"      help:"Viewpoint y in blocks."`
	ViewZ      float64 `cli:""        env:"SECTIONSCENE_VIEW_Z"      help:"Viewpoint z in blocks."`
	Radius     float64 `cli:""        env:"SECTIONSCENE_RADIUS"      help:"Search radius in blocks, overrides the scene settings."`
	Out        string  `cli:""        env:"SECTIONSCENE_OUT"         help:"Scene output file, .sdl for a scene description or .glb for binary glTF."`
	Scene      string  `cli:""        env:"SECTIONSCENE_SCENE"       help:"Scene settings YAML file."`
	Preview    string  `cli:""        env:"SECTIONSCENE_PREVIEW"     help:"Writes a top-down PNG preview of the visible blocks."`
	SaveStore  string  `cli:""        env:"SECTIONSCENE_SAVE_STORE"  help:"Writes the loaded world as a .bin store cache."`
	Report     string  `cli:""        env:"SECTIONSCENE_REPORT"      help:"Writes a JSON traversal report, - for stdout."`
	SkipOpaque bool    `cli:""        env:"SECTIONSCENE_SKIP_OPAQUE" help:"Leaves out sections without any connected face pair."`
	LoadAll    bool    `cli:",hidden" env:"SECTIONSCENE_LOAD_ALL"    help:"Loads every region chunk instead of the ones within the radius."`
	VerifyRays int     `cli:",hidden" env:"SECTIONSCENE_VERIFY_RAYS" help:"Casts this many rays from the viewpoint and reports hits outside the visible set."`
	Trace      bool    `cli:",hidden" env:"SECTIONSCENE_TRACE"       help:"Logs every traversal step at debug level."`
	LogLevel   string  `cli:""        env:"SECTIONSCENE_LOG_LEVEL"   help:"Log level (debug|info|warning|error)."`
	LogIndent  bool    `cli:""        env:"SECTIONSCENE_LOG_INDENT"  help:"Indent logs."`
	Version    bool    `cli:""        env:"-"                        help:"Show version."`
	Help       bool    `cli:""        env:"-"                        help:"Show help."`
}

func defaultConfig() config {
	return config{
		Kind:     kindAuto,
		Out:      "scene.sdl",
		LogLevel: logs.InfoLevel.String(),
	}
}

func main() {
	conf := defaultConfig()

	ctx, cancel := cli.ContextWithSignals(context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer cancel()

	cli.Register().
		Help("Exports the sections visible from a viewpoint as a renderer scene.").
		Options(&conf)
	cli.Load()

	if conf.Version {
		fmt.Println(version)
		os.Exit(0)
	}

	setupLogs(conf)

	if err := validateConfig(conf); err != nil {
		logs.Fatal(err)
	}

	interactive := term.IsTerminal(int(os.Stdout.Fd()))
	if err := run(ctx, conf, os.Stdout, interactive); err != nil {
		logs.Fatal(err)
	}
}

func setupLogs(conf config) {
	logs.SetLevel(logs.ParseLevel(conf.LogLevel))
	logs.Encoder = json.Marshal
	if conf.LogIndent {
		logs.Encoder = func(v any) ([]byte, error) {
			return json.MarshalIndent(v, "", "  ")
		}
	}
}
