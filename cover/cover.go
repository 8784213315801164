/*
Package cover tracks which instances are still covered at the current
point of the tree search. A Cover is a bitset over the instance
universe that the driver narrows with Intersect as it branches on an
attribute and widens back with Restore as it backtracks; the two calls
nest exactly with the recursion depth.
*/
package cover

import (
	"fmt"
	"math/bits"

	"github.com/vishalbelsare/pydl8.5/dataset"
	"github.com/vishalbelsare/pydl8.5/itemset"
)

const wordBits = 64

/*
Cover is the set of instances matching every branch taken from the
root of the search down to the current sub-problem. It starts out
covering the whole dataset.
*/
type Cover struct {
	ds      *dataset.Dataset
	words   []uint64
	saved   [][]uint64
	weights []float64
}

// New returns a cover over the whole of the given dataset.
func New(ds *dataset.Dataset) *Cover {
	words := make([]uint64, ds.Words())
	for i := range words {
		words[i] = ^uint64(0)
	}
	if tail := ds.Count() % wordBits; tail != 0 {
		words[len(words)-1] = (1 << tail) - 1
	}
	return &Cover{ds: ds, words: words}
}

/*
NewWeighted returns a cover over the whole dataset carrying one weight
per instance, for objectives that score weighted instance counts. It
returns an error if the weight count does not match the instance
count.
*/
func NewWeighted(ds *dataset.Dataset, weights []float64) (*Cover, error) {
	if len(weights) != ds.Count() {
		return nil, fmt.Errorf("weighted cover: %d weights for %d instances", len(weights), ds.Count())
	}
	c := New(ds)
	c.weights = weights
	return c, nil
}

// Dataset returns the dataset the cover ranges over.
func (c *Cover) Dataset() *dataset.Dataset {
	return c.ds
}

// Weighted reports whether the cover carries instance weights.
func (c *Cover) Weighted() bool {
	return c.weights != nil
}

// Count returns the number of covered instances.
func (c *Cover) Count() int {
	count := 0
	for _, w := range c.words {
		count += bits.OnesCount64(w)
	}
	return count
}

// Supports returns the covered instance count of every class. It runs
// in time proportional to the bitset width, not the instance count.
func (c *Cover) Supports() []int {
	supports := make([]int, c.ds.NumClasses())
	for cl := range supports {
		mask := c.ds.ClassMask(cl)
		for i, w := range c.words {
			supports[cl] += bits.OnesCount64(w & mask[i])
		}
	}
	return supports
}

// WeightedSupports returns the summed instance weights of every class
// over the covered instances. It panics if the cover carries no
// weights.
func (c *Cover) WeightedSupports() []float64 {
	if c.weights == nil {
		panic("cover: WeightedSupports on an unweighted cover")
	}
	supports := make([]float64, c.ds.NumClasses())
	for cl := range supports {
		mask := c.ds.ClassMask(cl)
		for i, w := range c.words {
			for m := w & mask[i]; m != 0; m &= m - 1 {
				supports[cl] += c.weights[i*wordBits+bits.TrailingZeros64(m)]
			}
		}
	}
	return supports
}

// Tids returns the indices of the covered instances in increasing
// order.
func (c *Cover) Tids() []int {
	var tids []int
	for i, w := range c.words {
		for m := w; m != 0; m &= m - 1 {
			tids = append(tids, i*wordBits+bits.TrailingZeros64(m))
		}
	}
	return tids
}

// CountItem returns how many covered instances the given item would
// keep, without narrowing the cover.
func (c *Cover) CountItem(item itemset.Item) int {
	mask := c.ds.AttributeMask(item.Attribute())
	count := 0
	for i, w := range c.words {
		if item.Branch() == 1 {
			count += bits.OnesCount64(w & mask[i])
		} else {
			count += bits.OnesCount64(w &^ mask[i])
		}
	}
	return count
}

/*
Intersect narrows the cover to the instances the given item keeps and
saves the previous state. Every Intersect must be undone by exactly
one Restore once the branch has been explored.
*/
func (c *Cover) Intersect(item itemset.Item) {
	saved := make([]uint64, len(c.words))
	copy(saved, c.words)
	c.saved = append(c.saved, saved)
	mask := c.ds.AttributeMask(item.Attribute())
	for i := range c.words {
		if item.Branch() == 1 {
			c.words[i] &= mask[i]
		} else {
			c.words[i] &^= mask[i]
		}
	}
}

// Restore undoes the most recent Intersect. It panics if there is
// nothing to undo, which means branch and restore calls stopped
// nesting with the recursion.
func (c *Cover) Restore() {
	if len(c.saved) == 0 {
		panic("cover: Restore without matching Intersect")
	}
	c.words = c.saved[len(c.saved)-1]
	c.saved = c.saved[:len(c.saved)-1]
}

// Depth returns how many Intersect calls are currently undone by a
// pending Restore.
func (c *Cover) Depth() int {
	return len(c.saved)
}

/*
Branch returns the two child covers of splitting on the given
attribute, instances without it first, without mutating the receiver.
The children share the receiver's dataset and weights and start with
empty restore stacks.
*/
func (c *Cover) Branch(attribute int) (*Cover, *Cover) {
	mask := c.ds.AttributeMask(attribute)
	without := &Cover{ds: c.ds, words: make([]uint64, len(c.words)), weights: c.weights}
	with := &Cover{ds: c.ds, words: make([]uint64, len(c.words)), weights: c.weights}
	for i, w := range c.words {
		without.words[i] = w &^ mask[i]
		with.words[i] = w & mask[i]
	}
	return without, with
}
