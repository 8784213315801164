package tree

import (
	"context"
	"fmt"
	"strings"

	"github.com/vishalbelsare/pydl8.5/dataset"
)

// ErrCannotPredictSample is returned by Predict when the walk down
// the tree ends on a node without a class.
var ErrCannotPredictSample = fmt.Errorf("cannot predict sample")

// Tree represents an induced decision tree. It is composed of a
// NodeStore where all its nodes are stored and the id for the root
// node of the tree.
type Tree struct {
	NodeStore
	RootID string
}

// New takes the ID for the root Node and a NodeStore and returns the
// tree composed of the nodes in the NodeStore connected to the node
// with the given root ID.
func New(rootID string, nodeStore NodeStore) *Tree {
	return &Tree{nodeStore, rootID}
}

// Predict takes a binary sample, indexed like the attributes of the
// dataset the tree was induced from, and returns the predicted class
// or an error if the prediction could not be made.
func (t *Tree) Predict(ctx context.Context, sample []bool) (string, error) {
	if t == nil {
		return "", fmt.Errorf("nil tree cannot predict samples")
	}
	n, err := t.Get(ctx, t.RootID)
	if err != nil {
		return "", fmt.Errorf("predicting sample: retrieving node %v: %v", t.RootID, err)
	}
	if n == nil {
		return "", fmt.Errorf("predicting sample: root node %v not found", t.RootID)
	}
	for !n.Leaf() {
		if n.Attribute >= len(sample) {
			return "", fmt.Errorf("predicting sample: node %v tests attribute %d, sample has %d", n.ID, n.Attribute, len(sample))
		}
		childID := n.WithoutID
		if sample[n.Attribute] {
			childID = n.WithID
		}
		child, err := t.Get(ctx, childID)
		if err != nil {
			return "", fmt.Errorf("predicting sample: retrieving node %v: %v", childID, err)
		}
		if child == nil {
			return "", fmt.Errorf("predicting sample: node %v not found", childID)
		}
		n = child
	}
	if n.Class == "" {
		return "", ErrCannotPredictSample
	}
	return n.Class, nil
}

/*
Test takes a context.Context and a dataset and returns two values:
  - the prediction success rate of the tree over the samples of the
    dataset
  - an error if a prediction could not be made. If this is not nil,
    the rate will be 0.0
*/
func (t *Tree) Test(ctx context.Context, ds *dataset.Dataset, samples []dataset.Sample) (float64, error) {
	if t == nil || len(samples) == 0 {
		return 0.0, nil
	}
	var hits float64
	for _, s := range samples {
		predicted, err := t.Predict(ctx, s.Attributes)
		if err != nil {
			return 0.0, err
		}
		if predicted == s.Class {
			hits += 1.0
		}
	}
	return hits / float64(len(samples)), nil
}

// Traverse takes a context, a bottomup boolean and an
// error-returning function that takes a context and a node
// as parameters, and goes through the tree running the
// function with the context and every traversed node.
// Traverse will call the function with a parent node before
// calling it for its children if bottomup is false, and
// call it after its children if bottomup is true.
func (t *Tree) Traverse(ctx context.Context, bottomup bool, f func(context.Context, *Node) error) error {
	n, err := t.NodeStore.Get(ctx, t.RootID)
	if err != nil {
		return err
	}
	if n == nil {
		return fmt.Errorf("traversing tree: root node %v not found", t.RootID)
	}
	return t.traverse(ctx, n, bottomup, f)
}

func (t *Tree) traverse(ctx context.Context, n *Node, bottomup bool, f func(context.Context, *Node) error) error {
	err := ctx.Err()
	if err != nil {
		return err
	}
	if !bottomup {
		err = f(ctx, n)
		if err != nil {
			return err
		}
	}
	for _, snID := range n.SubtreeIDs() {
		sn, err := t.NodeStore.Get(ctx, snID)
		if err != nil {
			return err
		}
		if sn == nil {
			return fmt.Errorf("traversing tree: node %v not found", snID)
		}
		err = t.traverse(ctx, sn, bottomup, f)
		if err != nil {
			return err
		}
	}
	if bottomup {
		err = f(ctx, n)
		if err != nil {
			return err
		}
	}
	return nil
}

func (t *Tree) String() string {
	return t.subtreeString(t.RootID)
}

func (t *Tree) subtreeString(nodeID string) string {
	n, err := t.NodeStore.Get(context.TODO(), nodeID)
	if err != nil {
		return fmt.Sprintf("ERROR: %s\n", err.Error())
	}
	if n == nil {
		return fmt.Sprintf("ERROR: node %s not found\n", nodeID)
	}
	var result string
	if n.Leaf() {
		result = fmt.Sprintf("[%s] { %s (error %g) }\n", nodeID, n.Class, n.Error)
	} else {
		result = fmt.Sprintf("[%s] { %s? (error %g) }\n|\n", nodeID, n.AttributeName, n.Error)
	}
	subtreeIDs := n.SubtreeIDs()
	for i, subtreeID := range subtreeIDs {
		for j, line := range strings.Split(t.subtreeString(subtreeID), "\n") {
			if len(line) > 0 {
				if j == 0 {
					result = fmt.Sprintf("%s|__%s\n", result, line)
				} else {
					if i == len(subtreeIDs)-1 {
						result = fmt.Sprintf("%s   %s\n", result, line)
					} else {
						result = fmt.Sprintf("%s|  %s\n", result, line)
					}
				}
			}
		}
	}
	return result
}
