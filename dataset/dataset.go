/*
Package dataset holds the binary training data the tree search runs
on: one bitset over the instance universe per attribute and one per
class. All per-class statistics the search needs are computed by
masked popcounts over these bitsets, never by re-scanning samples.
*/
package dataset

import (
	"fmt"
	"math/bits"
)

const wordBits = 64

/*
Sample is one training instance: the value of every binary attribute
plus its class label.
*/
type Sample struct {
	Attributes []bool
	Class      string
}

/*
Dataset is an immutable binary training set. Attribute and class
membership are stored column-wise as bitsets indexed by instance.
*/
type Dataset struct {
	attributeNames []string
	classLabels    []string
	attributes     [][]uint64
	classes        [][]uint64
	count          int
	words          int
}

/*
New takes the attribute column names and a slice of samples and
returns the dataset built from them, or an error if a sample has the
wrong number of attribute values. Class labels are indexed in order
of first appearance. A nil attributeNames slice generates positional
names.
*/
func New(attributeNames []string, samples []Sample) (*Dataset, error) {
	if len(samples) == 0 {
		return nil, fmt.Errorf("building dataset: no samples")
	}
	numAttrs := len(samples[0].Attributes)
	if attributeNames == nil {
		attributeNames = make([]string, numAttrs)
		for i := range attributeNames {
			attributeNames[i] = fmt.Sprintf("a%d", i)
		}
	}
	if len(attributeNames) != numAttrs {
		return nil, fmt.Errorf("building dataset: %d attribute names for %d attribute columns", len(attributeNames), numAttrs)
	}
	words := (len(samples) + wordBits - 1) / wordBits
	ds := &Dataset{
		attributeNames: attributeNames,
		attributes:     make([][]uint64, numAttrs),
		count:          len(samples),
		words:          words,
	}
	for a := range ds.attributes {
		ds.attributes[a] = make([]uint64, words)
	}
	classIndex := make(map[string]int)
	for i, s := range samples {
		if len(s.Attributes) != numAttrs {
			return nil, fmt.Errorf("building dataset: sample %d has %d attribute values, expected %d", i, len(s.Attributes), numAttrs)
		}
		c, ok := classIndex[s.Class]
		if !ok {
			c = len(ds.classLabels)
			classIndex[s.Class] = c
			ds.classLabels = append(ds.classLabels, s.Class)
			ds.classes = append(ds.classes, make([]uint64, words))
		}
		ds.classes[c][i/wordBits] |= 1 << (i % wordBits)
		for a, v := range s.Attributes {
			if v {
				ds.attributes[a][i/wordBits] |= 1 << (i % wordBits)
			}
		}
	}
	return ds, nil
}

// Count returns the number of instances.
func (ds *Dataset) Count() int {
	return ds.count
}

// NumAttributes returns the number of binary attributes.
func (ds *Dataset) NumAttributes() int {
	return len(ds.attributes)
}

// NumClasses returns the number of distinct class labels.
func (ds *Dataset) NumClasses() int {
	return len(ds.classLabels)
}

// AttributeName returns the name of the given attribute column.
func (ds *Dataset) AttributeName(a int) string {
	return ds.attributeNames[a]
}

// AttributeNames returns the attribute column names in order.
func (ds *Dataset) AttributeNames() []string {
	return ds.attributeNames
}

// ClassLabel returns the label of the given class index.
func (ds *Dataset) ClassLabel(c int) string {
	return ds.classLabels[c]
}

// ClassLabels returns the class labels in index order.
func (ds *Dataset) ClassLabels() []string {
	return ds.classLabels
}

// Words returns the number of 64-bit words in each bitset.
func (ds *Dataset) Words() int {
	return ds.words
}

// AttributeMask returns the bitset of instances holding the given
// attribute. Callers must treat the slice as read-only.
func (ds *Dataset) AttributeMask(a int) []uint64 {
	return ds.attributes[a]
}

// ClassMask returns the bitset of instances of the given class.
// Callers must treat the slice as read-only.
func (ds *Dataset) ClassMask(c int) []uint64 {
	return ds.classes[c]
}

// Samples reconstructs the instances of the dataset, in insertion
// order, from its column bitsets.
func (ds *Dataset) Samples() []Sample {
	samples := make([]Sample, ds.count)
	for i := range samples {
		word, bit := i/wordBits, uint(i%wordBits)
		s := Sample{Attributes: make([]bool, len(ds.attributes))}
		for a, mask := range ds.attributes {
			s.Attributes[a] = mask[word]&(1<<bit) != 0
		}
		for c, mask := range ds.classes {
			if mask[word]&(1<<bit) != 0 {
				s.Class = ds.classLabels[c]
				break
			}
		}
		samples[i] = s
	}
	return samples
}

// ClassSupports returns the per-class instance counts of the whole
// dataset.
func (ds *Dataset) ClassSupports() []int {
	supports := make([]int, len(ds.classes))
	for c, mask := range ds.classes {
		for _, w := range mask {
			supports[c] += bits.OnesCount64(w)
		}
	}
	return supports
}
