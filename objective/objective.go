/*
Package objective scores sub-problems of the tree search: it computes
leaf errors from per-class supports, decides whether a cached result
can be skipped or improved, and commits candidate splits into the
cached solution records.

An Evaluator is stateless per call; the built-in implementations score
misclassification counts, plain or instance-weighted, and External
dispatches every leaf computation to a caller-supplied function
instead.
*/
package objective

import (
	"math"

	"github.com/vishalbelsare/pydl8.5/cache"
	"github.com/vishalbelsare/pydl8.5/cover"
)

// NoClass is the LeafInfo class of objectives that produce an error
// without a leaf label.
const NoClass = -1

/*
LeafInfo is the transient result of scoring a sub-problem as a leaf:
its error and the class the leaf would predict. It is recomputed
whenever needed, never cached.
*/
type LeafInfo struct {
	Error float64
	Class int
}

/*
Evaluator scores leaves and candidate splits for the search driver.
All methods run synchronously and mutate nothing but the NodeData
explicitly handed to them.
*/
type Evaluator interface {
	// InitData returns the default solution record for a sub-problem
	// first seen by the search.
	InitData() cache.NodeData
	// LeafInfo scores the covered instances as a single leaf. It
	// costs one pass over the cover's per-class aggregates, not over
	// the instances.
	LeafInfo(c *cover.Cover) LeafInfo
	// LeafInfoFromSupports is the same computation for callers that
	// already hold the per-class aggregates without a live cover.
	LeafInfoFromSupports(supports []float64) LeafInfo
	// CanImprove reports whether the cached result still admits a
	// solution strictly better than the given upper bound.
	CanImprove(d *cache.NodeData, upperBound float64) bool
	// CanSkip reports whether the cached result is already provably
	// optimal, so the driver can reuse it with no further work.
	CanSkip(d *cache.NodeData) bool
	// UpdateData commits the split on attribute as best's new
	// solution if the combined child error beats both the upper
	// bound and best's current error, mutating best in place and
	// reporting whether it did. Ties on error prefer the smaller
	// resulting subtree, so repeated runs report the same tree.
	UpdateData(best *cache.NodeData, upperBound float64, attribute int, left, right *cache.NodeData) bool
}

// base carries the evaluator logic that does not depend on the
// configured metric.
type base struct{}

func (base) InitData() cache.NodeData {
	return cache.NewNodeData()
}

func (base) CanImprove(d *cache.NodeData, upperBound float64) bool {
	return d.Error < upperBound
}

func (base) CanSkip(d *cache.NodeData) bool {
	return floatEqual(d.Error, d.LowerBound)
}

func (base) UpdateData(best *cache.NodeData, upperBound float64, attribute int, left, right *cache.NodeData) bool {
	combined := left.Error + right.Error
	size := left.Size + right.Size + 1
	if combined >= upperBound {
		return false
	}
	if combined > best.Error {
		return false
	}
	if floatEqual(combined, best.Error) && size >= best.Size {
		return false
	}
	best.Test = attribute
	best.Error = combined
	best.Size = size
	if best.Error < best.LowerBound && !floatEqual(best.Error, best.LowerBound) {
		panic("objective: committed error below the proven lower bound")
	}
	return true
}

/*
Misclassification is the unweighted built-in objective: a leaf's error
is the number of covered instances outside its majority class.
*/
type Misclassification struct {
	base
}

// NewMisclassification returns the unweighted misclassification
// objective.
func NewMisclassification() *Misclassification {
	return &Misclassification{}
}

func (m *Misclassification) LeafInfo(c *cover.Cover) LeafInfo {
	return leafFromCounts(c.Supports())
}

func (m *Misclassification) LeafInfoFromSupports(supports []float64) LeafInfo {
	return leafFromSupports(supports)
}

/*
Weighted is the instance-weighted variant of the misclassification
objective: every instance counts its weight instead of 1. Covers
handed to it must carry weights.
*/
type Weighted struct {
	base
}

// NewWeighted returns the instance-weighted misclassification
// objective.
func NewWeighted() *Weighted {
	return &Weighted{}
}

func (w *Weighted) LeafInfo(c *cover.Cover) LeafInfo {
	return leafFromSupports(c.WeightedSupports())
}

func (w *Weighted) LeafInfoFromSupports(supports []float64) LeafInfo {
	return leafFromSupports(supports)
}

// leafFromCounts scores integer per-class supports.
func leafFromCounts(supports []int) LeafInfo {
	fs := make([]float64, len(supports))
	for i, s := range supports {
		fs[i] = float64(s)
	}
	return leafFromSupports(fs)
}

// leafFromSupports returns the majority-class leaf: its error is the
// summed support of every other class. The first class reaching the
// maximum wins, so equal supports break deterministically.
func leafFromSupports(supports []float64) LeafInfo {
	total := 0.0
	best := NoClass
	bestSupport := math.Inf(-1)
	for c, s := range supports {
		total += s
		if s > bestSupport {
			bestSupport = s
			best = c
		}
	}
	return LeafInfo{Error: total - bestSupport, Class: best}
}

const floatTolerance = 1e-9

func floatEqual(a, b float64) bool {
	return math.Abs(a-b) <= floatTolerance
}
