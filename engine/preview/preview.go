package preview

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"os"

	"github.com/memmaker/sectionscene/engine/util"
	"github.com/memmaker/sectionscene/engine/visibility"
	"github.com/memmaker/sectionscene/engine/voxel"
	"github.com/pkg/errors"
	"golang.org/x/image/draw"
)

var ErrNothingVisible = errors.New("no visible blocks")

type Options struct {
	// Scale is the size of one block column in pixels.
	Scale int
	// MaxSize caps the longer image side, the map is scaled down to fit.
	MaxSize int
	// Albedo colors a block by name, nil renders every block gray.
	Albedo func(blockName string) [3]float32
}

func DefaultOptions() Options {
	return Options{Scale: 4, MaxSize: 2048}
}

type column struct {
	y    int32
	name string
}

// Render draws a top-down height map of the visible blocks. Each pixel shows
// the highest visible block of its column, darker the lower it sits.
func Render(visible []visibility.Visible, opts Options) (*image.RGBA, error) {
	if opts.Scale <= 0 {
		opts.Scale = 1
	}
	columns := make(map[[2]int32]column)
	for _, v := range visible {
		if v.Section == nil {
			continue
		}
		palette := v.Section.Palette()
		v.Section.ForEachBlock(func(pos voxel.Int3, id uint16) {
			key := [2]int32{pos.X, pos.Z}
			if top, ok := columns[key]; ok && top.y >= pos.Y {
				return
			}
			columns[key] = column{y: pos.Y, name: palette.Name(id)}
		})
	}
	if len(columns) == 0 {
		return nil, ErrNothingVisible
	}

	// bounds and shading range over the final column tops only
	var minX, minZ, maxX, maxZ, minY, maxY int32
	first := true
	for key, top := range columns {
		if first {
			minX, maxX, minZ, maxZ, minY, maxY = key[0], key[0], key[1], key[1], top.y, top.y
			first = false
			continue
		}
		minX, maxX = min(minX, key[0]), max(maxX, key[0])
		minZ, maxZ = min(minZ, key[1]), max(maxZ, key[1])
		minY, maxY = min(minY, top.y), max(maxY, top.y)
	}

	width := int(maxX-minX) + 1
	height := int(maxZ-minZ) + 1
	heightMap := image.NewRGBA(image.Rect(0, 0, width, height))
	span := float32(maxY-minY) + 1
	for key, top := range columns {
		albedo := [3]float32{0.5, 0.5, 0.5}
		if opts.Albedo != nil {
			albedo = opts.Albedo(top.name)
		}
		shade := 0.35 + 0.65*(float32(top.y-minY)+1)/span
		heightMap.SetRGBA(int(key[0]-minX), int(key[1]-minZ), color.RGBA{
			R: channel(albedo[0] * shade),
			G: channel(albedo[1] * shade),
			B: channel(albedo[2] * shade),
			A: 255,
		})
	}

	targetWidth, targetHeight := width*opts.Scale, height*opts.Scale
	if opts.MaxSize > 0 {
		longest := targetWidth
		if targetHeight > longest {
			longest = targetHeight
		}
		if longest > opts.MaxSize {
			targetWidth = max(1, targetWidth*opts.MaxSize/longest)
			targetHeight = max(1, targetHeight*opts.MaxSize/longest)
		}
	}

	var scaler draw.Scaler = draw.NearestNeighbor
	if targetWidth < width || targetHeight < height {
		scaler = draw.ApproxBiLinear
	}
	result := image.NewRGBA(image.Rect(0, 0, targetWidth, targetHeight))
	scaler.Scale(result, result.Bounds(), heightMap, heightMap.Bounds(), draw.Src, nil)

	util.LogExportDebug("preview rendered", util.Tags{
		"columns": len(columns),
		"width":   targetWidth,
		"height":  targetHeight,
	})
	return result, nil
}

func WritePNG(w io.Writer, img image.Image) error {
	return errors.Wrap(png.Encode(w, img), "encoding preview")
}

func SavePNG(filename string, visible []visibility.Visible, opts Options) error {
	img, err := Render(visible, opts)
	if err != nil {
		return err
	}
	file, err := os.Create(filename)
	if err != nil {
		return errors.Wrapf(err, "creating %s", filename)
	}
	if err := WritePNG(file, img); err != nil {
		file.Close()
		return err
	}
	return errors.Wrapf(file.Close(), "closing %s", filename)
}

func channel(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}
