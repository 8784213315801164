package cache

import (
	"sort"

	"github.com/vishalbelsare/pydl8.5/itemset"
)

/*
Hash is a Cache backed by a map from full itemset keys to arena slots.
Every node carries its complete itemset, which costs memory density
compared to Trie but makes lookups a single map access regardless of
key length.
*/
type Hash struct {
	arena
	root  Ref
	index map[string]Ref
}

// NewHash returns an empty hash-backed cache holding only the root
// node, configured with the given maximum search depth, wipe policy
// and size budget (0 means unbounded).
func NewHash(maxDepth int, wipeType WipeType, maxCacheSize int) *Hash {
	h := &Hash{
		arena: newArena(maxDepth, wipeType, maxCacheSize),
		index: make(map[string]Ref),
	}
	h.root = h.alloc()
	h.Node(h.root).key = itemset.Itemset{}
	h.index[""] = h.root
	return h
}

// Root returns the node of the empty itemset.
func (h *Hash) Root() Ref {
	return h.root
}

func (h *Hash) Insert(its itemset.Itemset) (Ref, bool) {
	checkKey(its)
	key := its.Key()
	if ref, ok := h.index[key]; ok {
		h.touch(ref)
		if ref == h.root {
			return ref, h.firstRootInsert()
		}
		return ref, false
	}
	ref := h.alloc()
	n := h.Node(ref)
	n.key = append(itemset.Itemset(nil), its...)
	h.index[key] = ref
	return ref, true
}

func (h *Hash) Descend(parent Ref, item itemset.Item) (Ref, bool) {
	return h.Insert(h.Node(parent).key.Add(item))
}

func (h *Hash) Get(its itemset.Itemset) Ref {
	ref, ok := h.index[its.Key()]
	if !ok {
		return NoRef
	}
	h.touch(ref)
	return ref
}

func (h *Hash) Key(ref Ref) itemset.Itemset {
	return h.Node(ref).key
}

func (h *Hash) UpdateParents(ancestors []Ref) {
	updateParents(&h.arena, h, ancestors)
}

func (h *Hash) Wipe() {
	switch h.wipeType {
	case WipeSubnodes:
		frontier := h.Node(h.frontier(h.root)).key
		h.evictWhere(func(n *Node) bool {
			return len(n.key) > len(frontier) && frontier.Subset(n.key)
		})
	case WipeRecall:
		h.evictRecall()
	default:
		h.evictWhere(func(n *Node) bool { return true })
	}
}

// evictWhere removes every live, non-root, non-active node matching
// the predicate.
func (h *Hash) evictWhere(pred func(*Node) bool) {
	for i := range h.nodes {
		ref := Ref(i)
		n := &h.nodes[i]
		if n.free || n.used || ref == h.root || !pred(n) {
			continue
		}
		delete(h.index, n.key.Key())
		h.release(ref)
	}
}

// evictRecall removes the nodes least likely to be revisited until
// the store is back under budget: deepest itemsets first, least
// recently touched first among equally deep ones.
func (h *Hash) evictRecall() {
	if !h.Full() {
		return
	}
	var candidates []Ref
	for i := range h.nodes {
		ref := Ref(i)
		n := &h.nodes[i]
		if n.free || n.used || ref == h.root {
			continue
		}
		candidates = append(candidates, ref)
	}
	sort.Slice(candidates, func(i, j int) bool {
		a, b := h.Node(candidates[i]), h.Node(candidates[j])
		if len(a.key) != len(b.key) {
			return len(a.key) > len(b.key)
		}
		return a.touched < b.touched
	})
	for _, ref := range candidates {
		if h.live <= h.maxCacheSize {
			break
		}
		delete(h.index, h.Node(ref).key.Key())
		h.release(ref)
	}
}
