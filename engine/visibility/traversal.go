package visibility

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/memmaker/sectionscene/engine/path"
	"github.com/memmaker/sectionscene/engine/voxel"
	"github.com/pkg/errors"
)

// Visible is one section of the potentially visible set.
type Visible struct {
	Coord        voxel.Int3
	Section      *voxel.Section
	Reachability voxel.FaceReachability
}

// Stats counts what a traversal did. RadiusCutoff tells whether it stopped at
// the radius rather than running out of candidates.
type Stats struct {
	Popped       int  `json:"popped"`
	Enqueued     int  `json:"enqueued"`
	EmptyCoords  int  `json:"empty_coords"`
	Discovered   int  `json:"discovered"`
	Propagations int  `json:"propagations"`
	Exhausted    int  `json:"exhausted"`
	Failed       int  `json:"failed"`
	RadiusCutoff bool `json:"radius_cutoff"`
}

// frontier means the flood stands in coord and tries to leave through facing.
type frontier struct {
	coord  voxel.Int3
	facing voxel.Facing
}

type traversal struct {
	sections      SectionSource
	viewpoint     mgl32.Vec3
	opts          Options
	queue         *path.PriorityQueue[frontier]
	visited       *VisitedSet
	consumed      consumedPairs
	reachability  map[voxel.Int3]voxel.FaceReachability
	result        []Visible
	stats         Stats
	radiusSquared float64
}

// Traverse returns the sections potentially visible from viewpoint, in discovery order.
func Traverse(sections SectionSource, viewpoint mgl32.Vec3, opts Options) ([]Visible, error) {
	visible, _, err := TraverseWithStats(sections, viewpoint, opts)
	return visible, err
}

// TraverseWithStats floods outwards from the viewpoint's section, nearest
// candidate first. Empty coordinates pass the flood on through all faces;
// present sections pass it on only through face pairs connected inside the
// section, and each pair carries the flood at most once. The traversal stops
// when the queue runs dry or when the nearest candidate lies beyond the radius.
// Since the queue is ordered by the distance of the coordinate an item steps
// into, nothing left in the queue can be closer at that point.
func TraverseWithStats(sections SectionSource, viewpoint mgl32.Vec3, opts Options) ([]Visible, Stats, error) {
	if sections == nil {
		return nil, Stats{}, errors.New("no section source")
	}
	if err := opts.validate(); err != nil {
		return nil, Stats{}, err
	}
	root, err := RootCoord(viewpoint, opts.Bounds)
	if err != nil {
		return nil, Stats{}, err
	}

	t := &traversal{
		sections:      sections,
		viewpoint:     viewpoint,
		opts:          opts,
		queue:         path.NewPriorityQueue[frontier](),
		visited:       NewVisitedSet(),
		consumed:      make(consumedPairs),
		reachability:  make(map[voxel.Int3]voxel.FaceReachability),
		radiusSquared: opts.MaxRadius * opts.MaxRadius,
	}
	t.run(root)
	return t.result, t.stats, nil
}

func (t *traversal) trace(kind TraceKind, coord voxel.Int3, facing voxel.Facing, err error) {
	if t.opts.Tracer == nil {
		return
	}
	t.opts.Tracer(TraceEvent{
		Kind:     kind,
		Coord:    coord,
		Facing:   facing,
		Distance: math.Sqrt(t.distanceSquared(coord)),
		Err:      err,
	})
}

func (t *traversal) distanceSquared(coord voxel.Int3) float64 {
	return float64(coord.SectionCenter().Sub(t.viewpoint).LenSqr())
}

func (t *traversal) enqueue(coord voxel.Int3, facing voxel.Facing) {
	target := coord.Add(facing.Offset())
	t.queue.Push(frontier{coord: coord, facing: facing}, t.distanceSquared(target))
	t.stats.Enqueued++
}

func (t *traversal) run(root voxel.Int3) {
	t.trace(TraceRoot, root, 0, nil)
	t.visited.Mark(root)
	if section := t.sections.SectionAt(root); section != nil {
		t.resolve(root, section, true)
	}
	for _, facing := range voxel.AllFacings {
		t.enqueue(root, facing)
	}

	for {
		item, distanceSquared, ok := t.queue.Pop()
		if !ok {
			t.trace(TraceQueueEmpty, root, 0, nil)
			return
		}
		t.stats.Popped++
		neighbor := item.coord.Add(item.facing.Offset())
		t.trace(TracePopped, neighbor, item.facing, nil)

		if !t.opts.Bounds.ContainsSectionY(neighbor.Y) {
			t.trace(TraceOutOfBounds, neighbor, item.facing, nil)
			continue
		}
		if t.visited.IsVisited(neighbor) {
			t.trace(TraceAlreadyVisited, neighbor, item.facing, nil)
			continue
		}
		if distanceSquared > t.radiusSquared {
			t.stats.RadiusCutoff = true
			t.trace(TraceRadiusCutoff, neighbor, item.facing, nil)
			return
		}

		section := t.sections.SectionAt(neighbor)
		if section == nil {
			t.stats.EmptyCoords++
			t.trace(TraceEmpty, neighbor, item.facing, nil)
			for _, facing := range voxel.AllFacings {
				t.enqueue(neighbor, facing)
			}
			t.visited.Mark(neighbor)
			continue
		}

		t.propagate(neighbor, section, item.facing.Opposite())
	}
}

// propagate continues the flood that entered the section through face entry.
func (t *traversal) propagate(coord voxel.Int3, section *voxel.Section, entry voxel.Facing) {
	reachability := t.resolve(coord, section, false)
	for _, other := range voxel.AllFacings {
		if other == entry || !reachability.IsReachable(entry, other) || t.consumed.has(coord, entry, other) {
			continue
		}
		t.enqueue(coord, other)
		t.consumed.mark(coord, entry, other)
		t.stats.Propagations++
		t.trace(TracePropagated, coord, other, nil)
	}
	if t.consumed.exhausted(coord, reachability) {
		t.visited.Mark(coord)
		t.stats.Exhausted++
		t.trace(TraceExhausted, coord, entry, nil)
	}
}

// resolve looks up the connectivity of a present section. The first call for
// a coordinate records the section as discovered.
func (t *traversal) resolve(coord voxel.Int3, section *voxel.Section, isRoot bool) voxel.FaceReachability {
	if reachability, ok := t.reachability[coord]; ok {
		return reachability
	}

	var reachability voxel.FaceReachability
	var err error
	if t.opts.Cache != nil {
		reachability, err = t.opts.Cache.Get(coord, section)
	} else {
		reachability, err = t.opts.provider()(section)
	}
	if err != nil {
		t.stats.Failed++
		t.trace(TraceReachabilityFailed, coord, 0, errors.Wrapf(err, "reachability of section %s", coord))
		reachability = voxel.Opaque()
	}

	t.reachability[coord] = reachability
	if reachability.IsFullyUnreachable() && !isRoot && !t.opts.IncludeOpaque {
		return reachability
	}
	t.result = append(t.result, Visible{Coord: coord, Section: section, Reachability: reachability})
	t.stats.Discovered++
	t.trace(TraceDiscovered, coord, 0, nil)
	return reachability
}
