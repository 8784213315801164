package dl85

import (
	"context"
	"math"

	"github.com/vishalbelsare/pydl8.5/cache"
	"github.com/vishalbelsare/pydl8.5/cover"
	"github.com/vishalbelsare/pydl8.5/itemset"
)

/*
search solves the sub-problem identified by its, whose cache node is
ref, looking only for solutions with error strictly below upperBound.
It returns the node's best-known error when it is done. ancestors is
the chain of active cache nodes from the root down to ref's parent,
which the cache needs to propagate improvements upward.

The recursion depth always equals len(its): every level adds exactly
one item, which is what makes the itemset a sound key regardless of
the depth at which it is reached.

Pointers into the cache arena are re-resolved after every operation
that may grow it; only refs are held across calls.
*/
func (l *Learner) search(ctx context.Context, cov *cover.Cover, its itemset.Itemset, ref cache.Ref, upperBound float64, ancestors []cache.Ref) float64 {
	if ctx.Err() != nil {
		l.timedOut = true
		return l.Cache.Node(ref).Data.Error
	}

	node := l.Cache.Node(ref)
	if !math.IsInf(node.Data.LeafError, 1) {
		// Revisited sub-problem.
		if l.Evaluator.CanSkip(&node.Data) {
			return node.Data.Error
		}
		if node.Data.LowerBound >= upperBound {
			// Nothing below upperBound is achievable here; the
			// cached result, whatever it is, cannot improve on it.
			return node.Data.Error
		}
	} else {
		node.Data.LeafError = l.Evaluator.LeafInfo(cov).Error
	}
	leafError := node.Data.LeafError

	// The leaf is the first candidate solution.
	if leafError < upperBound && leafError < node.Data.Error {
		node.Data.Error = leafError
		node.Data.Test = cache.NoAttribute
		node.Data.Size = 1
	}

	// Stopping rules: depth budget exhausted, branches would fall
	// under the support floor, or the leaf is already proven optimal.
	if len(its) == l.MaxDepth || cov.Count() < 2*l.MinSupport || leafError == 0 ||
		floatEqual(leafError, node.Data.LowerBound) {
		if node.Data.LowerBound < node.Data.Error && !math.IsInf(node.Data.Error, 1) {
			node.Data.LowerBound = node.Data.Error
		}
		return node.Data.Error
	}

	release := l.Cache.Activate(ref)
	defer release()

	searchBound := upperBound
	if node.Data.Error < searchBound {
		searchBound = node.Data.Error
	}

	ds := cov.Dataset()
	childAncestors := append(ancestors, ref)
	exhausted := true
	for attr := 0; attr < ds.NumAttributes(); attr++ {
		if its.ContainsAttribute(attr) {
			continue
		}
		withCount := cov.CountItem(itemset.New(attr, 1))
		if withCount < l.MinSupport || cov.Count()-withCount < l.MinSupport {
			continue
		}

		withoutItem := itemset.New(attr, 0)
		withoutIts := its.Add(withoutItem)
		cov.Intersect(withoutItem)
		withoutRef, _ := l.Cache.Descend(ref, withoutItem)
		withoutErr := l.search(ctx, cov, withoutIts, withoutRef, searchBound, childAncestors)
		cov.Restore()

		if l.timedOut {
			exhausted = false
			break
		}
		// Snapshot the child result now: a wipe during the sibling's
		// recursion may evict the node behind withoutRef.
		withoutData := l.Cache.Node(withoutRef).Data
		if !l.Evaluator.CanImprove(&withoutData, searchBound) {
			continue
		}

		withItem := itemset.New(attr, 1)
		withIts := its.Add(withItem)
		cov.Intersect(withItem)
		withRef, _ := l.Cache.Descend(ref, withItem)
		l.search(ctx, cov, withIts, withRef, searchBound-withoutErr, childAncestors)
		cov.Restore()

		if l.timedOut {
			exhausted = false
			break
		}

		withData := l.Cache.Node(withRef).Data
		node = l.Cache.Node(ref)
		if l.Evaluator.UpdateData(&node.Data, searchBound, attr, &withoutData, &withData) {
			l.Cache.UpdateParents(ancestors)
			searchBound = node.Data.Error
		}
		if l.Evaluator.CanSkip(&node.Data) {
			break
		}
		if l.Cache.Full() {
			l.Cache.Wipe()
		}
		if ctx.Err() != nil {
			l.timedOut = true
			exhausted = false
			break
		}
	}

	node = l.Cache.Node(ref)
	if exhausted {
		// The whole candidate space below upperBound was covered:
		// either the committed solution is optimal, or nothing below
		// the bound exists and the bound becomes a proven floor.
		if !math.IsInf(node.Data.Error, 1) {
			if node.Data.LowerBound < node.Data.Error {
				node.Data.LowerBound = node.Data.Error
			}
		} else if node.Data.LowerBound < upperBound {
			node.Data.LowerBound = upperBound
		}
	}
	return node.Data.Error
}

const floatTolerance = 1e-9

func floatEqual(a, b float64) bool {
	return math.Abs(a-b) <= floatTolerance
}
