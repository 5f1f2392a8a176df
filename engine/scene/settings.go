package scene

import (
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/memmaker/sectionscene/engine/voxel"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Color is a linear RGB triple in [0, 1].
type Color [3]float32

func (c Color) Vec3() mgl32.Vec3 {
	return mgl32.Vec3(c)
}

type CameraSettings struct {
	// Position defaults to the traversal viewpoint when nil.
	Position  *[3]float32 `yaml:"position,omitempty"`
	Direction [3]float32  `yaml:"direction"`
	Up        [3]float32  `yaml:"up"`
}

// Settings control what the exporters write around the visible blocks.
type Settings struct {
	Width       int              `yaml:"width"`
	Height      int              `yaml:"height"`
	Samples     int              `yaml:"samples"`
	Filter      string           `yaml:"filter"`
	Estimator   string           `yaml:"estimator"`
	FovDegrees  float32          `yaml:"fov_degrees"`
	Camera      CameraSettings   `yaml:"camera"`
	EnvMap      string           `yaml:"env_map"`
	Albedo      Color            `yaml:"albedo"`
	BlockAlbedo map[string]Color `yaml:"block_albedo,omitempty"`
	SkipBlocks  []string         `yaml:"skip_blocks,omitempty"`
	// Radius in blocks, zero leaves the traversal default.
	Radius float64 `yaml:"radius,omitempty"`
}

func DefaultSettings() Settings {
	return Settings{
		Width:      1920,
		Height:     1080,
		Samples:    10000,
		Filter:     "gaussian",
		Estimator:  "bneept",
		FovDegrees: 105,
		Camera: CameraSettings{
			Direction: [3]float32{0, 0, -1},
			Up:        [3]float32{0, 1, 0},
		},
		EnvMap: "spruit_sunrise_2k.hdr",
		Albedo: Color{0.5, 0.5, 0.5},
	}
}

// ParseSettings reads YAML on top of the defaults, so a partial file only
// overrides what it names.
func ParseSettings(data []byte) (Settings, error) {
	settings := DefaultSettings()
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return Settings{}, errors.Wrap(err, "parsing scene settings")
	}
	settings.normalize()
	if err := settings.Validate(); err != nil {
		return Settings{}, err
	}
	return settings, nil
}

func LoadSettings(filename string) (Settings, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return Settings{}, errors.Wrapf(err, "reading scene settings %s", filename)
	}
	return ParseSettings(data)
}

func (s Settings) Marshal() ([]byte, error) {
	return yaml.Marshal(s)
}

func (s *Settings) normalize() {
	if len(s.BlockAlbedo) > 0 {
		normalized := make(map[string]Color, len(s.BlockAlbedo))
		for name, color := range s.BlockAlbedo {
			normalized[voxel.NormalizeBlockName(name)] = color
		}
		s.BlockAlbedo = normalized
	}
	for i, name := range s.SkipBlocks {
		s.SkipBlocks[i] = voxel.NormalizeBlockName(name)
	}
}

func (s Settings) Validate() error {
	if s.Width <= 0 || s.Height <= 0 {
		return errors.Errorf("invalid resolution %dx%d", s.Width, s.Height)
	}
	if s.Samples <= 0 {
		return errors.Errorf("invalid sample amount %d", s.Samples)
	}
	if s.FovDegrees <= 0 || s.FovDegrees >= 180 {
		return errors.Errorf("invalid field of view %v", s.FovDegrees)
	}
	if mgl32.Vec3(s.Camera.Direction).Len() == 0 {
		return errors.New("camera direction must not be zero")
	}
	if s.Radius < 0 {
		return errors.Errorf("invalid radius %v", s.Radius)
	}
	return nil
}

// AlbedoFor returns the block's override or the default albedo.
func (s Settings) AlbedoFor(blockName string) Color {
	if color, ok := s.BlockAlbedo[blockName]; ok {
		return color
	}
	return s.Albedo
}

func (s Settings) skips(blockName string) bool {
	for _, name := range s.SkipBlocks {
		if name == blockName {
			return true
		}
	}
	return false
}

// CameraPosition returns the configured camera position or the fallback.
func (s Settings) CameraPosition(fallback mgl32.Vec3) mgl32.Vec3 {
	if s.Camera.Position == nil {
		return fallback
	}
	return mgl32.Vec3(*s.Camera.Position)
}
