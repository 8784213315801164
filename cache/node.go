package cache

import (
	"fmt"
	"math"

	"github.com/vishalbelsare/pydl8.5/itemset"
)

// NoAttribute is the sentinel for NodeData.Test while no split has
// been committed on a node. A node whose search has completed with
// Test still at NoAttribute is solved as a leaf.
const NoAttribute = -1

// Ref addresses a Node inside the arena of the cache that owns it.
// Refs on the driver's active path stay valid across Wipe; any other
// Ref may be invalidated by it.
type Ref int32

// NoRef is the Ref returned by lookups that find nothing.
const NoRef Ref = -1

/*
NodeData is the best-known solution of one sub-problem. It is mutated
in place as the search discovers better splits, under two monotonicity
rules: Error only decreases, LowerBound only increases, and
Error >= LowerBound holds after every mutation.
*/
type NodeData struct {
	// Test is the attribute of the best split found so far, or
	// NoAttribute while the best known solution is a leaf (or no
	// solution has been committed yet).
	Test int
	// LeafError is the error of this sub-problem solved as a leaf.
	LeafError float64
	// Error is the best objective value found so far, leaf or split.
	Error float64
	// LowerBound is a proven minimum achievable error.
	LowerBound float64
	// Size is the node count of the best subtree found so far.
	Size int
}

// NewNodeData returns the default solution record of an unexplored
// sub-problem: no test, infinite errors, zero bound, single node.
func NewNodeData() NodeData {
	return NodeData{
		Test:      NoAttribute,
		LeafError: math.Inf(1),
		Error:     math.Inf(1),
		Size:      1,
	}
}

// check panics if the record violates Error >= LowerBound. A
// violation means a caller corrupted the memoized state, after which
// no optimality guarantee survives, so the search must not continue.
func (d *NodeData) check() {
	if d.Error < d.LowerBound && !floatEqual(d.Error, d.LowerBound) {
		panic(fmt.Sprintf("cache: node error %g below its lower bound %g", d.Error, d.LowerBound))
	}
}

/*
Node pairs the solution record of a sub-problem with the bookkeeping
the owning cache needs. Nodes live only inside a cache arena and are
addressed by Ref; their identity is their arena slot, not their field
values.
*/
type Node struct {
	// Data is the mutable best-known solution. The driver and the
	// objective evaluator mutate it through the pointer returned by
	// Cache.Node.
	Data NodeData

	// used is true exactly while the node is on the driver's current
	// recursion stack. Set and cleared only through Cache.Activate.
	used bool
	// touched is the arena clock value of the last insert or get hit,
	// consulted by the recall wipe policy.
	touched uint64

	// key is the node's canonical itemset. Hash stores keep the full
	// key; trie stores keep only the edge item and parent link below.
	key itemset.Itemset

	// Trie linkage. Unused by hash stores.
	item     itemset.Item
	parent   Ref
	children map[itemset.Item]Ref

	// free marks a reclaimed arena slot awaiting reuse.
	free bool
}

// Used reports whether the node is currently on the driver's active
// recursion path.
func (n *Node) Used() bool {
	return n.used
}

const floatTolerance = 1e-9

func floatEqual(a, b float64) bool {
	return math.Abs(a-b) <= floatTolerance
}
