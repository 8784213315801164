package cache_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vishalbelsare/pydl8.5/cache"
	"github.com/vishalbelsare/pydl8.5/itemset"
)

type backendBuilder func(wipeType cache.WipeType, maxCacheSize int) cache.Cache

func backends() map[string]backendBuilder {
	return map[string]backendBuilder{
		"hash": func(wt cache.WipeType, size int) cache.Cache {
			return cache.NewHash(4, wt, size)
		},
		"trie": func(wt cache.WipeType, size int) cache.Cache {
			return cache.NewTrie(4, wt, size)
		},
	}
}

func item(attribute, branch int) itemset.Item {
	return itemset.New(attribute, branch)
}

func TestRootAlwaysExists(t *testing.T) {
	for name, build := range backends() {
		t.Run(name, func(t *testing.T) {
			c := build(cache.WipeAll, 0)
			root := c.Root()
			require.NotEqual(t, cache.NoRef, root)
			assert.Equal(t, 1, c.Len())
			data := c.Node(root).Data
			assert.Equal(t, cache.NoAttribute, data.Test)
			assert.Empty(t, c.Key(root))
		})
	}
}

func TestInsertDeduplicates(t *testing.T) {
	for name, build := range backends() {
		t.Run(name, func(t *testing.T) {
			c := build(cache.WipeAll, 0)
			its := itemset.Itemset{}.Add(item(1, 0)).Add(item(3, 1))
			ref, isNew := c.Insert(its)
			require.True(t, isNew)
			again, isNew := c.Insert(its)
			assert.False(t, isNew)
			assert.Equal(t, ref, again)
		})
	}
}

func TestInsertEmptyItemsetIsRoot(t *testing.T) {
	for name, build := range backends() {
		t.Run(name, func(t *testing.T) {
			c := build(cache.WipeAll, 0)
			ref, isNew := c.Insert(itemset.Itemset{})
			assert.True(t, isNew)
			assert.Equal(t, c.Root(), ref)
			assert.Equal(t, 1, c.Len())

			again, isNew := c.Insert(itemset.Itemset{})
			assert.False(t, isNew)
			assert.Equal(t, ref, again)
		})
	}
}

func TestInsertPanicsOnUnsortedKey(t *testing.T) {
	for name, build := range backends() {
		t.Run(name, func(t *testing.T) {
			c := build(cache.WipeAll, 0)
			assert.Panics(t, func() { c.Insert(itemset.Itemset{3, 1}) })
		})
	}
}

func TestDescendMatchesInsert(t *testing.T) {
	for name, build := range backends() {
		t.Run(name, func(t *testing.T) {
			c := build(cache.WipeAll, 0)
			parent, _ := c.Insert(itemset.Itemset{}.Add(item(0, 0)))
			child, isNew := c.Descend(parent, item(2, 1))
			require.True(t, isNew)
			byKey, isNew := c.Insert(itemset.Itemset{}.Add(item(0, 0)).Add(item(2, 1)))
			assert.False(t, isNew)
			assert.Equal(t, child, byKey)

			again, isNew := c.Descend(parent, item(2, 1))
			assert.False(t, isNew)
			assert.Equal(t, child, again)
		})
	}
}

func TestGetDoesNotCreate(t *testing.T) {
	for name, build := range backends() {
		t.Run(name, func(t *testing.T) {
			c := build(cache.WipeAll, 0)
			its := itemset.Itemset{}.Add(item(1, 1))
			assert.Equal(t, cache.NoRef, c.Get(its))
			assert.Equal(t, 1, c.Len())
			ref, _ := c.Insert(its)
			assert.Equal(t, ref, c.Get(its))
		})
	}
}

func TestKeyIsCanonical(t *testing.T) {
	for name, build := range backends() {
		t.Run(name, func(t *testing.T) {
			c := build(cache.WipeAll, 0)
			its := itemset.Itemset{}.Add(item(2, 0)).Add(item(0, 1)).Add(item(3, 1))
			ref, _ := c.Insert(its)
			assert.True(t, its.Equal(c.Key(ref)))
		})
	}
}

func TestNodePanicsOnDeadRef(t *testing.T) {
	for name, build := range backends() {
		t.Run(name, func(t *testing.T) {
			c := build(cache.WipeAll, 0)
			assert.Panics(t, func() { c.Node(cache.NoRef) })
			assert.Panics(t, func() { c.Node(cache.Ref(99)) })
		})
	}
}

func TestNodeDataMutationSticks(t *testing.T) {
	for name, build := range backends() {
		t.Run(name, func(t *testing.T) {
			c := build(cache.WipeAll, 0)
			ref, _ := c.Insert(itemset.Itemset{}.Add(item(0, 0)))
			c.Node(ref).Data.Error = 3
			c.Node(ref).Data.Test = 2
			assert.Equal(t, 3.0, c.Node(ref).Data.Error)
			assert.Equal(t, 2, c.Node(ref).Data.Test)
		})
	}
}

func TestFullRespectsBudget(t *testing.T) {
	for name, build := range backends() {
		t.Run(name, func(t *testing.T) {
			unbounded := build(cache.WipeAll, 0)
			for a := 0; a < 3; a++ {
				unbounded.Insert(itemset.Itemset{}.Add(item(a, 0)))
			}
			assert.False(t, unbounded.Full())

			bounded := build(cache.WipeAll, 2)
			assert.False(t, bounded.Full())
			for a := 0; a < 3; a++ {
				bounded.Insert(itemset.Itemset{}.Add(item(a, 0)))
			}
			assert.True(t, bounded.Full())
		})
	}
}

func TestWipeAllKeepsRootAndActivePath(t *testing.T) {
	for name, build := range backends() {
		t.Run(name, func(t *testing.T) {
			c := build(cache.WipeAll, 0)
			activeIts := itemset.Itemset{}.Add(item(0, 0))
			active, _ := c.Insert(activeIts)
			gone, _ := c.Insert(itemset.Itemset{}.Add(item(1, 1)))
			release := c.Activate(active)

			c.Wipe()

			assert.Equal(t, active, c.Get(activeIts))
			assert.Equal(t, cache.NoRef, c.Get(itemset.Itemset{}.Add(item(1, 1))))
			assert.NotPanics(t, func() { c.Node(c.Root()) })
			_ = gone

			release()
			c.Wipe()
			assert.Equal(t, cache.NoRef, c.Get(activeIts))
			assert.Equal(t, 1, c.Len())
		})
	}
}

func TestWipeSubnodesKeepsReturnPath(t *testing.T) {
	for name, build := range backends() {
		t.Run(name, func(t *testing.T) {
			c := build(cache.WipeSubnodes, 0)
			frontierIts := itemset.Itemset{}.Add(item(0, 0))
			frontier, _ := c.Insert(frontierIts)
			release := c.Activate(frontier)
			defer release()
			descendant, _ := c.Descend(frontier, item(1, 0))
			siblingIts := itemset.Itemset{}.Add(item(0, 1))
			sibling, _ := c.Insert(siblingIts)

			c.Wipe()

			assert.Equal(t, frontier, c.Get(frontierIts))
			assert.Equal(t, sibling, c.Get(siblingIts))
			assert.Equal(t, cache.NoRef, c.Get(frontierIts.Add(item(1, 0))))
			_ = descendant
		})
	}
}

func TestWipeRecallEvictsDeepestUntilUnderBudget(t *testing.T) {
	for name, build := range backends() {
		t.Run(name, func(t *testing.T) {
			c := build(cache.WipeRecall, 3)
			shallow0, _ := c.Insert(itemset.Itemset{}.Add(item(0, 0)))
			shallow1, _ := c.Insert(itemset.Itemset{}.Add(item(0, 1)))
			c.Insert(itemset.Itemset{}.Add(item(0, 0)).Add(item(1, 0)))
			c.Insert(itemset.Itemset{}.Add(item(0, 0)).Add(item(1, 1)))
			require.True(t, c.Full())

			c.Wipe()

			assert.Equal(t, 3, c.Len())
			assert.False(t, c.Full())
			assert.Equal(t, shallow0, c.Get(itemset.Itemset{}.Add(item(0, 0))))
			assert.Equal(t, shallow1, c.Get(itemset.Itemset{}.Add(item(0, 1))))
			assert.Equal(t, cache.NoRef, c.Get(itemset.Itemset{}.Add(item(0, 0)).Add(item(1, 0))))
			assert.Equal(t, cache.NoRef, c.Get(itemset.Itemset{}.Add(item(0, 0)).Add(item(1, 1))))
		})
	}
}

func TestWipeRecallDoesNothingUnderBudget(t *testing.T) {
	for name, build := range backends() {
		t.Run(name, func(t *testing.T) {
			c := build(cache.WipeRecall, 10)
			c.Insert(itemset.Itemset{}.Add(item(0, 0)))
			c.Wipe()
			assert.Equal(t, 2, c.Len())
		})
	}
}

func TestActivatePanicsOnDoubleActivate(t *testing.T) {
	for name, build := range backends() {
		t.Run(name, func(t *testing.T) {
			c := build(cache.WipeAll, 0)
			ref, _ := c.Insert(itemset.Itemset{}.Add(item(0, 0)))
			release := c.Activate(ref)
			defer release()
			assert.True(t, c.Node(ref).Used())
			assert.Panics(t, func() { c.Activate(ref) })
		})
	}
}

func TestActivateReleasesInRecursionOrder(t *testing.T) {
	for name, build := range backends() {
		t.Run(name, func(t *testing.T) {
			c := build(cache.WipeAll, 0)
			outer, _ := c.Insert(itemset.Itemset{}.Add(item(0, 0)))
			inner, _ := c.Insert(itemset.Itemset{}.Add(item(0, 0)).Add(item(1, 0)))
			releaseOuter := c.Activate(outer)
			releaseInner := c.Activate(inner)

			assert.Panics(t, releaseOuter)

			releaseInner()
			assert.NotPanics(t, releaseOuter)
			assert.NotPanics(t, releaseOuter) // released releases are inert
			assert.False(t, c.Node(outer).Used())
		})
	}
}

func TestTrieWipeKeepsPathToActiveNode(t *testing.T) {
	// The active path is not a trie chain: branching attribute 1 from
	// inside attribute 0's subtree activates {0:0 1:1} while {0:0}
	// itself is off the stack. The structural parent has to survive a
	// wipe anyway to keep the active node reachable.
	c := cache.NewTrie(4, cache.WipeAll, 0)
	parentIts := itemset.Itemset{}.Add(item(0, 0))
	parent, _ := c.Insert(parentIts)
	activeIts := parentIts.Add(item(1, 1))
	active, _ := c.Insert(activeIts)
	release := c.Activate(active)
	defer release()

	c.Wipe()

	assert.Equal(t, active, c.Get(activeIts))
	assert.Equal(t, parent, c.Get(parentIts))
}

func TestUpdateParentsPropagatesImprovement(t *testing.T) {
	for name, build := range backends() {
		t.Run(name, func(t *testing.T) {
			c := build(cache.WipeAll, 0)
			root := c.Root()
			mid, _ := c.Insert(itemset.Itemset{}.Add(item(0, 0)))
			midSibling, _ := c.Insert(itemset.Itemset{}.Add(item(0, 1)))
			improved, _ := c.Insert(itemset.Itemset{}.Add(item(0, 0)).Add(item(1, 0)))
			improvedSibling, _ := c.Insert(itemset.Itemset{}.Add(item(0, 0)).Add(item(1, 1)))

			c.Node(root).Data.Test = 0
			c.Node(root).Data.Error = 6
			c.Node(mid).Data.Test = 1
			c.Node(mid).Data.Error = 5
			c.Node(midSibling).Data.Error = 1
			c.Node(improved).Data.Error = 1 // just improved by the driver
			c.Node(improvedSibling).Data.Error = 1

			c.UpdateParents([]cache.Ref{root, mid})

			assert.Equal(t, 2.0, c.Node(mid).Data.Error)
			assert.Equal(t, 3.0, c.Node(root).Data.Error)
		})
	}
}

func TestUpdateParentsStopsWithoutImprovement(t *testing.T) {
	for name, build := range backends() {
		t.Run(name, func(t *testing.T) {
			c := build(cache.WipeAll, 0)
			root := c.Root()
			without, _ := c.Insert(itemset.Itemset{}.Add(item(0, 0)))
			with, _ := c.Insert(itemset.Itemset{}.Add(item(0, 1)))

			c.Node(root).Data.Test = 0
			c.Node(root).Data.Error = 3
			c.Node(without).Data.Error = 2
			c.Node(with).Data.Error = 1

			c.UpdateParents([]cache.Ref{root})

			assert.Equal(t, 3.0, c.Node(root).Data.Error)
		})
	}
}

func TestUpdateParentsStopsOnLeafAncestor(t *testing.T) {
	for name, build := range backends() {
		t.Run(name, func(t *testing.T) {
			c := build(cache.WipeAll, 0)
			root := c.Root()
			c.Insert(itemset.Itemset{}.Add(item(0, 0)))
			c.Insert(itemset.Itemset{}.Add(item(0, 1)))

			c.Node(root).Data.Error = 5 // solved as a leaf, no test committed

			c.UpdateParents([]cache.Ref{root})

			assert.Equal(t, 5.0, c.Node(root).Data.Error)
		})
	}
}

func TestUpdateParentsStopsOnWipedChild(t *testing.T) {
	for name, build := range backends() {
		t.Run(name, func(t *testing.T) {
			c := build(cache.WipeAll, 0)
			root := c.Root()
			without, _ := c.Insert(itemset.Itemset{}.Add(item(0, 0)))

			c.Node(root).Data.Test = 0
			c.Node(root).Data.Error = 5
			c.Node(without).Data.Error = 1

			// The with-branch child was never cached (or was wiped);
			// the ancestor cannot be recomputed and must keep its
			// committed result.
			c.UpdateParents([]cache.Ref{root})

			assert.Equal(t, 5.0, c.Node(root).Data.Error)
		})
	}
}

func TestParseWipeType(t *testing.T) {
	for _, wt := range []cache.WipeType{cache.WipeAll, cache.WipeSubnodes, cache.WipeRecall} {
		parsed, err := cache.ParseWipeType(wt.String())
		require.NoError(t, err)
		assert.Equal(t, wt, parsed)
	}
	_, err := cache.ParseWipeType("lru")
	assert.Error(t, err)
}
