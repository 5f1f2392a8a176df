package util

import (
	"fmt"
	"math"
	"time"
)

type TimerState struct {
	name         string
	lastDuration float64

	totalDuration  float64
	executionCount int64

	minDuration float64
	maxDuration float64
}

// StageTiming is the exported summary of one named stage, in milliseconds.
type StageTiming struct {
	Name    string  `json:"name"`
	LastMS  float64 `json:"last_ms"`
	TotalMS float64 `json:"total_ms"`
	MinMS   float64 `json:"min_ms"`
	MaxMS   float64 `json:"max_ms"`
	Count   int64   `json:"count"`
}

func (t *TimerState) averageDuration() float64 {
	if t.executionCount == 0 {
		return 0
	}
	return t.totalDuration / float64(t.executionCount)
}

func (t *TimerState) String() string {
	return fmt.Sprintf("%s last: %.2fms, avg: %.2fms, min: %.2fms, max: %.2fms", t.name, t.lastDuration, t.averageDuration(), t.minDuration, t.maxDuration)
}

func (t *TimerState) timing() StageTiming {
	return StageTiming{
		Name:    t.name,
		LastMS:  t.lastDuration,
		TotalMS: t.totalDuration,
		MinMS:   t.minDuration,
		MaxMS:   t.maxDuration,
		Count:   t.executionCount,
	}
}

// Timer measures named stages, e.g. loading, traversal and export.
type Timer struct {
	states     map[string]*TimerState
	timerNames []string
}

func NewTimer() *Timer {
	return &Timer{
		states: make(map[string]*TimerState),
	}
}

func (t *Timer) GetState(name string) *TimerState {
	return t.states[name]
}

func (t *Timer) String() string {
	var str string
	for _, name := range t.timerNames {
		str += t.states[name].String() + "\n"
	}
	return str
}

// Timings lists the stages in the order they were first started.
func (t *Timer) Timings() []StageTiming {
	timings := make([]StageTiming, 0, len(t.timerNames))
	for _, name := range t.timerNames {
		timings = append(timings, t.states[name].timing())
	}
	return timings
}

// Start begins a measurement, the returned func stops it and returns the
// duration in milliseconds.
func (t *Timer) Start(name string) func() float64 {
	state, ok := t.states[name]
	if !ok {
		t.timerNames = append(t.timerNames, name)
		state = &TimerState{
			name:        name,
			minDuration: math.MaxFloat64,
		}
		t.states[name] = state
	}
	start := time.Now()
	return func() float64 {
		durationInMS := float64(time.Since(start).Microseconds()) / 1000.0
		state.lastDuration = durationInMS
		state.totalDuration += durationInMS
		state.executionCount++
		state.minDuration = math.Min(state.minDuration, durationInMS)
		state.maxDuration = math.Max(state.maxDuration, durationInMS)
		return durationInMS
	}
}
