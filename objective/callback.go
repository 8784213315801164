package objective

import (
	"fmt"

	"github.com/vishalbelsare/pydl8.5/cover"
)

// TidsObjective scores the raw instance coverage of a leaf: it
// receives the covered instance indices and returns the leaf error
// and predicted class.
type TidsObjective func(tids []int) (float64, int)

// SupportsObjective scores a leaf from its aggregated per-class
// supports and returns the leaf error and predicted class.
type SupportsObjective func(supports []float64) (float64, int)

// ScalarObjective scores the raw instance coverage of a leaf with an
// error alone, for objectives that need no leaf label.
type ScalarObjective func(tids []int) float64

/*
External is an Evaluator that dispatches every leaf computation to a
caller-supplied scoring function instead of a built-in metric.

The supplied function is an opaque boundary: it has no failure
channel, and a call that goes wrong can only show up as a degenerate
returned value, never as an error the evaluator could inspect.
Callers supplying one own the obligation never to fail silently.
*/
type External struct {
	base
	tids     TidsObjective
	supports SupportsObjective
	scalar   ScalarObjective
}

/*
NewExternal takes the three supported scoring shapes, of which exactly
one must be non-nil, and returns an evaluator dispatching to it, or an
error if none or several were supplied.
*/
func NewExternal(tids TidsObjective, supports SupportsObjective, scalar ScalarObjective) (*External, error) {
	set := 0
	for _, ok := range []bool{tids != nil, supports != nil, scalar != nil} {
		if ok {
			set++
		}
	}
	if set != 1 {
		return nil, fmt.Errorf("external objective: exactly one scoring function must be supplied, got %d", set)
	}
	return &External{tids: tids, supports: supports, scalar: scalar}, nil
}

func (e *External) LeafInfo(c *cover.Cover) LeafInfo {
	switch {
	case e.tids != nil:
		err, class := e.tids(c.Tids())
		return LeafInfo{Error: err, Class: class}
	case e.supports != nil:
		var supports []float64
		if c.Weighted() {
			supports = c.WeightedSupports()
		} else {
			supports = make([]float64, 0, c.Dataset().NumClasses())
			for _, s := range c.Supports() {
				supports = append(supports, float64(s))
			}
		}
		err, class := e.supports(supports)
		return LeafInfo{Error: err, Class: class}
	default:
		return LeafInfo{Error: e.scalar(c.Tids()), Class: NoClass}
	}
}

func (e *External) LeafInfoFromSupports(supports []float64) LeafInfo {
	if e.supports == nil {
		// The raw-coverage shapes need the instance indices, which
		// aggregates cannot reproduce. Reaching this is a caller
		// bug, not a recoverable condition.
		panic("objective: external raw-coverage objective cannot score pre-aggregated supports")
	}
	err, class := e.supports(supports)
	return LeafInfo{Error: err, Class: class}
}
