/*
Package dl85 induces provably optimal decision trees over binary
datasets by depth-first branch-and-bound search with memoization: the
lattice of attribute-combination subsets is explored once, sub-problem
results are cached under their canonical itemset, and proven lower
bounds prune everything that cannot beat the best solution found.

The heavy lifting is split between the cache package (the bounded
memoization store), the objective package (leaf and split scoring) and
the cover package (the bitset instance coverage); this package owns
the traversal and the extraction of the final tree.
*/
package dl85

import (
	"context"
	"fmt"
	"math"

	"github.com/vishalbelsare/pydl8.5/cache"
	"github.com/vishalbelsare/pydl8.5/cover"
	"github.com/vishalbelsare/pydl8.5/itemset"
	"github.com/vishalbelsare/pydl8.5/objective"
	"github.com/vishalbelsare/pydl8.5/tree"
)

/*
Learner configures one run of the search. A Learner is single-use
state for Fit and is not safe for concurrent use: the search is one
depth-first recursion, and the cache it owns relies on that call
discipline.
*/
type Learner struct {
	// Evaluator scores leaves and splits.
	Evaluator objective.Evaluator
	// Cache memoizes sub-problem results.
	Cache cache.Cache
	// MaxDepth is the maximum number of splits on any root-to-leaf
	// path.
	MaxDepth int
	// MinSupport is the minimum number of instances each branch of a
	// split must keep. Zero means 1.
	MinSupport int
	// MaxError, when positive, is an initial upper bound: only trees
	// with a strictly smaller error are searched for.
	MaxError float64

	timedOut bool
}

// NewLearner takes an objective evaluator, a cache and the depth and
// support limits of the search and returns a Learner ready to fit.
func NewLearner(eval objective.Evaluator, c cache.Cache, maxDepth, minSupport int) *Learner {
	return &Learner{
		Evaluator:  eval,
		Cache:      c,
		MaxDepth:   maxDepth,
		MinSupport: minSupport,
	}
}

/*
Result is the outcome of a Fit: the induced tree, its objective error,
whether the search ran to proven optimality, and the node count left
in the cache.
*/
type Result struct {
	Tree      *tree.Tree
	Error     float64
	Optimal   bool
	CacheSize int
}

/*
Fit searches for the optimal tree over the instances covered by the
given cover and materializes it on the given node store. The context
bounds the search: when it expires, the best tree found so far is
returned with Optimal set to false. An error is returned if the
configuration is invalid, no tree exists within MaxError, or the
store fails.
*/
func (l *Learner) Fit(ctx context.Context, cov *cover.Cover, store tree.NodeStore) (*Result, error) {
	if l.Evaluator == nil || l.Cache == nil {
		return nil, fmt.Errorf("fitting tree: learner needs an evaluator and a cache")
	}
	if l.MaxDepth < 1 {
		return nil, fmt.Errorf("fitting tree: maximum depth %d must be at least 1", l.MaxDepth)
	}
	if l.MinSupport < 1 {
		l.MinSupport = 1
	}
	l.timedOut = false

	upperBound := math.Inf(1)
	if l.MaxError > 0 {
		upperBound = l.MaxError
	}
	rootRef := l.Cache.Root()
	l.search(ctx, cov, itemset.Itemset{}, rootRef, upperBound, nil)

	rootData := l.Cache.Node(rootRef).Data
	if math.IsInf(rootData.Error, 1) {
		return nil, fmt.Errorf("fitting tree: no tree with error below %g exists", upperBound)
	}
	t := tree.New("", store)
	rootID, err := l.extract(ctx, cov, itemset.Itemset{}, rootRef, store, "")
	if err != nil {
		return nil, fmt.Errorf("fitting tree: materializing result: %v", err)
	}
	t.RootID = rootID
	return &Result{
		Tree:      t,
		Error:     rootData.Error,
		Optimal:   !l.timedOut,
		CacheSize: l.Cache.Len(),
	}, nil
}

/*
extract walks the cached solution below ref and materializes it as
tree nodes on the store, replaying the cover down the committed tests
to recover leaf classes. A child evicted by a wipe after its parent's
solution was proven is re-emitted as a majority-class leaf over its
sub-cover. It returns the ID of the created node.
*/
func (l *Learner) extract(ctx context.Context, cov *cover.Cover, its itemset.Itemset, ref cache.Ref, store tree.NodeStore, parentID string) (string, error) {
	data := l.Cache.Node(ref).Data
	n := &tree.Node{ParentID: parentID, Attribute: cache.NoAttribute, Error: data.Error}
	if data.Test == cache.NoAttribute {
		l.fillLeaf(n, cov)
		n.Error = data.Error
		if err := store.Create(ctx, n); err != nil {
			return "", err
		}
		return n.ID, nil
	}
	n.Attribute = data.Test
	n.AttributeName = cov.Dataset().AttributeName(data.Test)
	if err := store.Create(ctx, n); err != nil {
		return "", err
	}
	childIDs := make([]string, 2)
	for branch := 0; branch < 2; branch++ {
		item := itemset.New(data.Test, branch)
		childIts := its.Add(item)
		cov.Intersect(item)
		childRef := l.Cache.Get(childIts)
		var childID string
		var err error
		if childRef == cache.NoRef {
			childID, err = l.extractEvictedLeaf(ctx, cov, store, n.ID)
		} else {
			childID, err = l.extract(ctx, cov, childIts, childRef, store, n.ID)
		}
		cov.Restore()
		if err != nil {
			return "", err
		}
		childIDs[branch] = childID
	}
	n.WithoutID = childIDs[0]
	n.WithID = childIDs[1]
	if err := store.Store(ctx, n); err != nil {
		return "", err
	}
	return n.ID, nil
}

// extractEvictedLeaf stands in for a solution subtree the cache no
// longer holds: the sub-cover is scored as a leaf.
func (l *Learner) extractEvictedLeaf(ctx context.Context, cov *cover.Cover, store tree.NodeStore, parentID string) (string, error) {
	n := &tree.Node{ParentID: parentID, Attribute: cache.NoAttribute}
	l.fillLeaf(n, cov)
	if err := store.Create(ctx, n); err != nil {
		return "", err
	}
	return n.ID, nil
}

func (l *Learner) fillLeaf(n *tree.Node, cov *cover.Cover) {
	li := l.Evaluator.LeafInfo(cov)
	n.Error = li.Error
	if li.Class != objective.NoClass {
		n.Class = cov.Dataset().ClassLabel(li.Class)
	}
}
