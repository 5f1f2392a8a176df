package visibility

import (
	"math"

	"github.com/memmaker/sectionscene/engine/voxel"
	"github.com/pkg/errors"
)

// DefaultMaxRadius is the search radius in blocks.
const DefaultMaxRadius = 256

var (
	ErrInvalidViewpoint = errors.New("invalid viewpoint")
	ErrInvalidRadius    = errors.New("invalid search radius")
	ErrInvalidBounds    = errors.New("invalid world bounds")
)

// SectionSource is the point lookup the traversal needs from a world.
// A nil section means the coordinate is empty and fully transparent.
type SectionSource interface {
	SectionAt(coord voxel.Int3) *voxel.Section
}

// ReachabilityProvider computes the face connectivity of a section.
type ReachabilityProvider func(section *voxel.Section) (voxel.FaceReachability, error)

// ComputeReachability is the default provider.
func ComputeReachability(section *voxel.Section) (voxel.FaceReachability, error) {
	return voxel.ComputeFaceReachability(section), nil
}

type Options struct {
	// MaxRadius bounds the distance in blocks from the viewpoint to the center
	// of any section the flood steps into.
	MaxRadius float64
	Bounds    voxel.Bounds
	// Provider is used when Cache is nil.
	Provider ReachabilityProvider
	// Cache shares computed reachability between traversals.
	Cache *ReachabilityCache
	// IncludeOpaque also reports sections without any connected face pair.
	// They never pass the flood on; by default only the root section is
	// reported when opaque.
	IncludeOpaque bool
	Tracer        Tracer
}

func DefaultOptions() Options {
	return Options{
		MaxRadius: DefaultMaxRadius,
		Bounds:    voxel.DefaultBounds,
		Provider:  ComputeReachability,
	}
}

func (o Options) validate() error {
	if math.IsNaN(o.MaxRadius) || math.IsInf(o.MaxRadius, 0) || o.MaxRadius <= 0 {
		return errors.Wrapf(ErrInvalidRadius, "radius %v", o.MaxRadius)
	}
	if o.Bounds.SectionCount <= 0 {
		return errors.Wrapf(ErrInvalidBounds, "section count %d", o.Bounds.SectionCount)
	}
	return nil
}

func (o Options) provider() ReachabilityProvider {
	if o.Provider == nil {
		return ComputeReachability
	}
	return o.Provider
}
