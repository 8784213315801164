/*
Package itemset defines the canonical keys under which sub-problems of
the decision tree search are identified.

An Item encodes the outcome of testing one binary attribute: the pair
(attribute, branch) packed as 2*attribute+branch, so the two branches
of an attribute are consecutive integers. An Itemset is a strictly
increasing sequence of items: the set of branch outcomes taken from the
root of the search down to a sub-problem. Two root-to-node paths that
take the same outcomes in different orders produce the same Itemset and
therefore identify the same sub-problem.
*/
package itemset

import (
	"fmt"
	"strconv"
	"strings"
)

// Item is a (attribute, branch) pair packed as 2*attribute+branch,
// where branch is 0 for instances without the attribute and 1 for
// instances with it.
type Item int

/*
New takes an attribute index and a branch value and returns the item
encoding the corresponding test outcome. It panics if branch is not
0 or 1, as no other outcome exists for a binary attribute.
*/
func New(attribute, branch int) Item {
	if branch != 0 && branch != 1 {
		panic(fmt.Sprintf("itemset: invalid branch value %d for attribute %d", branch, attribute))
	}
	return Item(2*attribute + branch)
}

// Attribute returns the attribute index the item tests.
func (i Item) Attribute() int {
	return int(i) / 2
}

// Branch returns 1 if the item selects instances with the attribute
// and 0 if it selects instances without it.
func (i Item) Branch() int {
	return int(i) % 2
}

/*
Itemset is a sorted, duplicate-free sequence of items identifying a
sub-problem of the search. The empty Itemset identifies the root
problem, that is, the whole dataset.

Callers own the sortedness invariant: an Itemset built through Add is
always canonical, one assembled by hand may not be.
*/
type Itemset []Item

/*
Add returns a new Itemset with the given item inserted at its sorted
position. The receiver is not modified, so the driver can keep the
parent key while descending into a child sub-problem. Add panics if
the item is already present: a sub-problem never tests the same
attribute outcome twice.
*/
func (its Itemset) Add(item Item) Itemset {
	pos := len(its)
	for i, present := range its {
		if present == item {
			panic(fmt.Sprintf("itemset: duplicate item %d in %v", item, its))
		}
		if present > item {
			pos = i
			break
		}
	}
	result := make(Itemset, 0, len(its)+1)
	result = append(result, its[:pos]...)
	result = append(result, item)
	result = append(result, its[pos:]...)
	return result
}

// Contains reports whether the itemset includes the given item.
func (its Itemset) Contains(item Item) bool {
	for _, present := range its {
		if present == item {
			return true
		}
		if present > item {
			return false
		}
	}
	return false
}

// ContainsAttribute reports whether either branch of the given
// attribute appears in the itemset.
func (its Itemset) ContainsAttribute(attribute int) bool {
	return its.Contains(New(attribute, 0)) || its.Contains(New(attribute, 1))
}

// Equal reports whether both itemsets hold the same items.
func (its Itemset) Equal(other Itemset) bool {
	if len(its) != len(other) {
		return false
	}
	for i, item := range its {
		if other[i] != item {
			return false
		}
	}
	return true
}

// Sorted reports whether the itemset is strictly increasing, that is,
// a canonical sub-problem key.
func (its Itemset) Sorted() bool {
	for i := 1; i < len(its); i++ {
		if its[i] <= its[i-1] {
			return false
		}
	}
	return true
}

// Subset reports whether every item of the itemset appears in other.
func (its Itemset) Subset(other Itemset) bool {
	j := 0
	for _, item := range its {
		for j < len(other) && other[j] < item {
			j++
		}
		if j == len(other) || other[j] != item {
			return false
		}
		j++
	}
	return true
}

// Key returns a compact string form of the itemset usable as a map
// key.
func (its Itemset) Key() string {
	var b strings.Builder
	for i, item := range its {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(int(item)))
	}
	return b.String()
}

func (its Itemset) String() string {
	parts := make([]string, 0, len(its))
	for _, item := range its {
		parts = append(parts, fmt.Sprintf("%d:%d", item.Attribute(), item.Branch()))
	}
	return "{" + strings.Join(parts, " ") + "}"
}
