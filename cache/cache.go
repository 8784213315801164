/*
Package cache implements the memoization store of the branch-and-bound
decision tree search: a bounded, deduplicating map from itemsets to the
best-known solution of the sub-problem each itemset identifies.

The search space is a DAG, not a tree: different split orders reach the
same attribute combination, and the cache collapses all of them onto a
single Node so a sub-problem solved once is never solved again. Nodes
live in an arena owned by the cache and are addressed by Ref; every
reference held outside the cache is a Ref, never a pointer, so a Wipe
cannot leave dangling references behind.

Two backing stores implement the same contract: Hash keys every node by
its full itemset, Trie shares storage between itemsets with a common
prefix and offers an O(1) per-edge Descend for callers that build the
key one item at a time while recursing.
*/
package cache

import (
	"fmt"

	"github.com/vishalbelsare/pydl8.5/itemset"
)

/*
WipeType selects which nodes a Wipe pass is allowed to reclaim.
Whatever the policy, a Wipe never removes the root, a node on the
driver's active recursion path, or a node the store needs to keep an
active node reachable.
*/
type WipeType int

const (
	// WipeAll reclaims every unprotected node: a full reset trading
	// recomputation of everything evicted for maximum memory recovery.
	WipeAll WipeType = iota
	// WipeSubnodes reclaims only strict descendants of the deepest
	// active node, keeping every result on the return path so
	// backtracking still hits memoized ancestors.
	WipeSubnodes
	// WipeRecall reclaims the nodes judged least likely to be
	// revisited, deepest first, and stops as soon as the store is
	// back under its size budget.
	WipeRecall
)

func (w WipeType) String() string {
	switch w {
	case WipeAll:
		return "all"
	case WipeSubnodes:
		return "subnodes"
	case WipeRecall:
		return "recall"
	}
	return fmt.Sprintf("WipeType(%d)", int(w))
}

// ParseWipeType takes the name of a wipe policy and returns the
// WipeType it designates or an error if the name matches none.
func ParseWipeType(s string) (WipeType, error) {
	switch s {
	case "all":
		return WipeAll, nil
	case "subnodes":
		return WipeSubnodes, nil
	case "recall":
		return WipeRecall, nil
	}
	return 0, fmt.Errorf("unknown wipe policy %q", s)
}

/*
Cache is the contract between the search driver and a memoization
store. Implementations are not safe for concurrent use: the search is
a single-threaded depth-first recursion and the strict call/return
ordering is what keeps the memoized results consistent.
*/
type Cache interface {
	// Root returns the node of the empty itemset. It always exists
	// and is never evicted.
	Root() Ref
	// Node resolves a Ref into the node it addresses. The pointer is
	// valid until the next Wipe unless the node is on the active
	// path. Node panics on a Ref that addresses no live node.
	Node(Ref) *Node
	// Insert returns the node registered under the given itemset,
	// creating it with default NodeData first if the itemset was
	// never seen. The boolean is true exactly when the caller is the
	// first to see the sub-problem: the driver relies on it to decide
	// whether the sub-problem still has to be explored. The root node
	// pre-exists, so the first Insert of the empty itemset reports it
	// as new without creating anything. The itemset must be sorted;
	// Insert panics on a non-canonical key.
	Insert(itemset.Itemset) (Ref, bool)
	// Descend is the incremental form of Insert: it returns the node
	// of the parent's itemset extended with one item, creating it if
	// needed. Prefix-sharing stores answer it without materializing
	// the full key.
	Descend(parent Ref, item itemset.Item) (Ref, bool)
	// Get returns the node registered under the given itemset or
	// NoRef without creating anything.
	Get(itemset.Itemset) Ref
	// Len returns the current number of live nodes.
	Len() int
	// Full reports whether the store has outgrown its size budget
	// and a Wipe is due. Always false on an unbounded store.
	Full() bool
	// Wipe synchronously reclaims nodes according to the configured
	// WipeType. Root and active-path nodes survive every policy.
	Wipe()
	// Activate marks the node as being on the driver's recursion
	// stack and returns the release that unmarks it. The release
	// must run on every exit path of the recursion level, so callers
	// are expected to defer it immediately.
	Activate(Ref) func()
	// Key returns the canonical itemset of a live node.
	Key(Ref) itemset.Itemset
	// UpdateParents propagates an improvement of a node's best-known
	// error up the given ancestor chain (ordered root first, deepest
	// last): each ancestor is recomputed from the two children of its
	// own committed split, for as long as that keeps improving. The
	// cache stores no parent links itself: a node has many logical
	// parents across split orders, and only the driver knows which
	// chain was taken this call.
	UpdateParents(ancestors []Ref)
}

// arena is the node storage and active-path bookkeeping shared by the
// backing stores.
type arena struct {
	nodes    []Node
	freeList []Ref
	live     int
	clock    uint64

	maxDepth     int
	wipeType     WipeType
	maxCacheSize int

	rootSeen bool
	active   []Ref
}

func newArena(maxDepth int, wipeType WipeType, maxCacheSize int) arena {
	return arena{
		maxDepth:     maxDepth,
		wipeType:     wipeType,
		maxCacheSize: maxCacheSize,
	}
}

func (a *arena) Node(ref Ref) *Node {
	if ref < 0 || int(ref) >= len(a.nodes) || a.nodes[ref].free {
		panic(fmt.Sprintf("cache: ref %d addresses no live node", ref))
	}
	return &a.nodes[ref]
}

func (a *arena) Len() int {
	return a.live
}

func (a *arena) Full() bool {
	return a.maxCacheSize > 0 && a.live > a.maxCacheSize
}

// alloc reserves an arena slot for a new node with default data and
// returns its Ref.
func (a *arena) alloc() Ref {
	a.clock++
	n := Node{Data: NewNodeData(), touched: a.clock}
	if len(a.freeList) > 0 {
		ref := a.freeList[len(a.freeList)-1]
		a.freeList = a.freeList[:len(a.freeList)-1]
		a.nodes[ref] = n
		a.live++
		return ref
	}
	a.nodes = append(a.nodes, n)
	a.live++
	return Ref(len(a.nodes) - 1)
}

// release returns a slot to the free list. The caller has already
// unlinked the node from its index structure.
func (a *arena) release(ref Ref) {
	n := &a.nodes[ref]
	if n.used {
		panic(fmt.Sprintf("cache: evicting active-path node %v", n.key))
	}
	*n = Node{free: true}
	a.freeList = append(a.freeList, ref)
	a.live--
}

// firstRootInsert reports true exactly once, for the first Insert of
// the empty itemset: the root node pre-exists, but the caller is still
// seeing its sub-problem for the first time.
func (a *arena) firstRootInsert() bool {
	if a.rootSeen {
		return false
	}
	a.rootSeen = true
	return true
}

func (a *arena) touch(ref Ref) {
	a.clock++
	a.nodes[ref].touched = a.clock
}

func (a *arena) Activate(ref Ref) func() {
	n := a.Node(ref)
	if n.used {
		panic(fmt.Sprintf("cache: node %v activated twice", n.key))
	}
	n.used = true
	a.active = append(a.active, ref)
	released := false
	return func() {
		if released {
			return
		}
		if len(a.active) == 0 || a.active[len(a.active)-1] != ref {
			panic("cache: active-path releases out of recursion order")
		}
		released = true
		a.active = a.active[:len(a.active)-1]
		a.Node(ref).used = false
	}
}

// frontier returns the deepest node of the active path, or the given
// root when nothing is active.
func (a *arena) frontier(root Ref) Ref {
	if len(a.active) == 0 {
		return root
	}
	return a.active[len(a.active)-1]
}

// combine commits left+right into best if the sum improves on best's
// current error and reports whether it did.
func (a *arena) combine(best, left, right Ref) bool {
	combined := a.Node(left).Data.Error + a.Node(right).Data.Error
	size := a.Node(left).Data.Size + a.Node(right).Data.Size + 1
	b := a.Node(best)
	if combined >= b.Data.Error || floatEqual(combined, b.Data.Error) {
		return false
	}
	b.Data.Error = combined
	b.Data.Size = size
	b.Data.check()
	return true
}

// updateParents is the shared UpdateParents implementation: it runs
// over the Cache interface so each backing store resolves keys and
// children its own way. An ancestor is recomputed from the two
// children of its committed split; the walk stops at the first
// ancestor that is solved as a leaf, has a wiped child, or does not
// improve, since nothing above it can improve either.
func updateParents(a *arena, c Cache, ancestors []Ref) {
	for i := len(ancestors) - 1; i >= 0; i-- {
		ref := ancestors[i]
		n := c.Node(ref)
		if n.Data.Test == NoAttribute {
			return
		}
		key := c.Key(ref)
		without := c.Get(key.Add(itemset.New(n.Data.Test, 0)))
		with := c.Get(key.Add(itemset.New(n.Data.Test, 1)))
		if without == NoRef || with == NoRef {
			return
		}
		if !a.combine(ref, without, with) {
			return
		}
	}
}

// checkKey panics on a non-canonical itemset. An unsorted key would
// silently register a duplicate sub-problem and corrupt every result
// memoized under it, so it is rejected loudly instead.
func checkKey(its itemset.Itemset) {
	if !its.Sorted() {
		panic(fmt.Sprintf("cache: itemset key %v is not sorted", its))
	}
}
