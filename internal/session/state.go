// Package session holds per-session editing state for the enhancement
// tool. State is modeled as an immutable record folded forward by a
// pure reducer, so the transform logic is testable without any HTTP or
// rendering layer. Overlapping runs are resolved deterministically with
// a cancel-stale policy: every run carries a generation token and only
// the most recently issued token may commit.
package session

import (
	"github.com/fpang/image-enhancer/internal/enhance"
	"github.com/fpang/image-enhancer/internal/stats"
)

// State is an immutable snapshot of one editing session. Reducers
// return a new State; a published State is never mutated.
type State struct {
	// Source is the currently loaded image. Replaced wholesale on a
	// new upload, never edited in place.
	Source      *enhance.Source
	SourceStats stats.ImageStats

	// Params are the slider positions of the most recently requested
	// run, which is not necessarily the committed one.
	Params enhance.Params

	// Enhanced and EnhancedStats are the output of the last committed
	// run. They are set together by a single event so the UI can never
	// observe a payload without its matching stats.
	Enhanced      []byte
	EnhancedStats stats.ImageStats

	// Generation is the token of the last committed run.
	Generation uint64
}

// HasEnhanced reports whether a run has committed since the current
// source was loaded.
func (s State) HasEnhanced() bool {
	return len(s.Enhanced) > 0
}

// Event is a state transition input for Apply.
type Event interface {
	isEvent()
}

// SourceLoaded replaces the source image wholesale. Any previous
// enhanced output is dropped because it no longer derives from the
// current source. Slider positions are kept.
type SourceLoaded struct {
	Source *enhance.Source
	Stats  stats.ImageStats
}

// ParamsChanged records the slider positions of a newly requested run.
// It invalidates nothing by itself; the enhanced output is only
// replaced when the run commits.
type ParamsChanged struct {
	Params enhance.Params
}

// RunCommitted installs the output of a completed pipeline run. The
// payload and its stats arrive in one event and are applied atomically.
type RunCommitted struct {
	Generation uint64
	Data       []byte
	Stats      stats.ImageStats
}

func (SourceLoaded) isEvent()  {}
func (ParamsChanged) isEvent() {}
func (RunCommitted) isEvent()  {}

// Apply folds one event into a state, returning the next state. It is
// a pure function: neither argument is modified.
func Apply(s State, ev Event) State {
	switch e := ev.(type) {
	case SourceLoaded:
		return State{
			Source:      e.Source,
			SourceStats: e.Stats,
			Params:      s.Params,
		}
	case ParamsChanged:
		next := s
		next.Params = e.Params
		return next
	case RunCommitted:
		next := s
		next.Enhanced = e.Data
		next.EnhancedStats = e.Stats
		next.Generation = e.Generation
		return next
	default:
		return s
	}
}
