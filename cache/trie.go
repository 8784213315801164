package cache

import (
	"sort"

	"github.com/vishalbelsare/pydl8.5/itemset"
)

/*
Trie is a Cache that stores itemsets as paths in a prefix tree: nodes
whose itemsets share a prefix share the storage for it, and no node
carries a materialized key at all. Descend resolves a child in O(1)
from the parent's edge map, which is what the driver uses while it
extends the current itemset one item per recursion level.

Inserting an itemset creates the nodes of every prefix on its path;
each prefix is itself a valid sub-problem key, so those nodes are
ordinary cache entries, not placeholders.
*/
type Trie struct {
	arena
	root Ref
}

// NewTrie returns an empty trie-backed cache holding only the root
// node, configured with the given maximum search depth, wipe policy
// and size budget (0 means unbounded).
func NewTrie(maxDepth int, wipeType WipeType, maxCacheSize int) *Trie {
	t := &Trie{arena: newArena(maxDepth, wipeType, maxCacheSize)}
	t.root = t.alloc()
	t.Node(t.root).parent = NoRef
	return t
}

// Root returns the node of the empty itemset.
func (t *Trie) Root() Ref {
	return t.root
}

func (t *Trie) Insert(its itemset.Itemset) (Ref, bool) {
	checkKey(its)
	ref := t.root
	isNew := false
	for _, item := range its {
		ref, isNew = t.descend(ref, item)
	}
	if ref == t.root {
		isNew = t.firstRootInsert()
	}
	t.touch(ref)
	return ref, isNew
}

func (t *Trie) Descend(parent Ref, item itemset.Item) (Ref, bool) {
	ref, isNew := t.descend(parent, item)
	t.touch(ref)
	return ref, isNew
}

func (t *Trie) descend(parent Ref, item itemset.Item) (Ref, bool) {
	p := t.Node(parent)
	if ref, ok := p.children[item]; ok {
		return ref, false
	}
	ref := t.alloc()
	n := t.Node(ref)
	n.parent = parent
	n.item = item
	p = t.Node(parent) // alloc may have moved the arena
	if p.children == nil {
		p.children = make(map[itemset.Item]Ref)
	}
	p.children[item] = ref
	return ref, true
}

func (t *Trie) Get(its itemset.Itemset) Ref {
	ref := t.root
	for _, item := range its {
		child, ok := t.Node(ref).children[item]
		if !ok {
			return NoRef
		}
		ref = child
	}
	t.touch(ref)
	return ref
}

// Key rebuilds a node's itemset by walking its trie path back to the
// root. Paths follow key order, so the walk reversed is already
// canonical.
func (t *Trie) Key(ref Ref) itemset.Itemset {
	var reversed itemset.Itemset
	for ref != t.root {
		n := t.Node(ref)
		reversed = append(reversed, n.item)
		ref = n.parent
	}
	key := make(itemset.Itemset, len(reversed))
	for i, item := range reversed {
		key[len(reversed)-1-i] = item
	}
	return key
}

func (t *Trie) UpdateParents(ancestors []Ref) {
	updateParents(&t.arena, t, ancestors)
}

func (t *Trie) Wipe() {
	// The active path is not a single trie chain: the driver may
	// branch attributes out of key order, so active nodes sit at
	// arbitrary positions. Everything on a trie path from the root
	// to an active node has to survive to keep it reachable.
	protected := map[Ref]bool{t.root: true}
	for _, ref := range t.active {
		for ref != NoRef && !protected[ref] {
			protected[ref] = true
			ref = t.Node(ref).parent
		}
	}
	switch t.wipeType {
	case WipeSubnodes:
		frontier := t.frontier(t.root)
		f := t.Node(frontier)
		for item, child := range f.children {
			if t.sweep(child, protected) {
				delete(f.children, item)
			}
		}
	case WipeRecall:
		t.sweepRecall(protected)
	default:
		for item, child := range t.Node(t.root).children {
			if t.sweep(child, protected) {
				delete(t.Node(t.root).children, item)
			}
		}
	}
}

// sweep removes the subtree under ref bottom-up, keeping protected
// nodes and everything needed to reach them. It reports whether ref
// itself was removed.
func (t *Trie) sweep(ref Ref, protected map[Ref]bool) bool {
	n := t.Node(ref)
	for item, child := range n.children {
		if t.sweep(child, protected) {
			delete(n.children, item)
		}
	}
	if protected[ref] || len(n.children) > 0 {
		return false
	}
	t.release(ref)
	return true
}

// sweepRecall evicts deepest leaves first until the store is back
// under budget. Sorting by depth descending guarantees a node's
// children are considered before the node itself, so a single pass
// can cascade up emptied branches.
func (t *Trie) sweepRecall(protected map[Ref]bool) {
	if !t.Full() {
		return
	}
	type candidate struct {
		ref   Ref
		depth int
	}
	var candidates []candidate
	for i := range t.nodes {
		ref := Ref(i)
		if t.nodes[i].free || protected[ref] {
			continue
		}
		candidates = append(candidates, candidate{ref, t.depth(ref)})
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].depth != candidates[j].depth {
			return candidates[i].depth > candidates[j].depth
		}
		return t.Node(candidates[i].ref).touched < t.Node(candidates[j].ref).touched
	})
	for _, c := range candidates {
		if t.live <= t.maxCacheSize {
			break
		}
		n := t.Node(c.ref)
		if len(n.children) > 0 {
			continue
		}
		delete(t.Node(n.parent).children, n.item)
		t.release(c.ref)
	}
}

func (t *Trie) depth(ref Ref) int {
	d := 0
	for p := t.Node(ref).parent; p != NoRef; p = t.Node(p).parent {
		d++
	}
	return d
}
