package visibility

import (
	"github.com/memmaker/sectionscene/engine/util"
	"github.com/memmaker/sectionscene/engine/voxel"
)

type TraceKind int

const (
	TraceRoot TraceKind = iota
	TraceOutOfBounds
	TraceAlreadyVisited
	TraceRadiusCutoff
	TraceEmpty
	TraceDiscovered
	TracePropagated
	TraceExhausted
	TraceReachabilityFailed
	TracePopped
	TraceQueueEmpty
)

var traceKindNames = map[TraceKind]string{
	TraceRoot:               "root",
	TraceOutOfBounds:        "out_of_bounds",
	TraceAlreadyVisited:     "already_visited",
	TraceRadiusCutoff:       "radius_cutoff",
	TraceEmpty:              "empty",
	TraceDiscovered:         "discovered",
	TracePropagated:         "propagated",
	TraceExhausted:          "exhausted",
	TraceReachabilityFailed: "reachability_failed",
	TracePopped:             "popped",
	TraceQueueEmpty:         "queue_empty",
}

func (k TraceKind) String() string {
	if name, ok := traceKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// TraceEvent describes one step of a traversal. Facing is the direction of
// travel for pops and propagations, Distance the distance in blocks from the
// viewpoint to the center of Coord.
type TraceEvent struct {
	Kind     TraceKind
	Coord    voxel.Int3
	Facing   voxel.Facing
	Distance float64
	Err      error
}

// Tracer receives trace events synchronously. It must not retain the traversal.
type Tracer func(event TraceEvent)

// LogTracer forwards events to the traversal debug log.
func LogTracer(event TraceEvent) {
	tags := util.Tags{
		"event":    event.Kind.String(),
		"coord":    event.Coord.String(),
		"facing":   event.Facing.String(),
		"distance": event.Distance,
	}
	if event.Err != nil {
		util.LogTraversalWarning(event.Err, tags)
		return
	}
	util.LogTraversalDebug("traversal step", tags)
}
