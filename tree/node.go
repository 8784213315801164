package tree

/*
Node is a node of an induced decision tree. Split nodes test one
binary attribute and route instances without it to their WithoutID
child and instances with it to their WithID child; leaves predict a
class.
*/
type Node struct {
	// An ID to identify the node
	ID string
	// The ID for the parent of the node in the tree
	ParentID string
	// The index of the attribute the node tests, negative for leaves.
	Attribute int
	// The name of the tested attribute, empty for leaves.
	AttributeName string
	// The ID of the child covering instances without the attribute.
	WithoutID string
	// The ID of the child covering instances with the attribute.
	WithID string
	// The class the node predicts when it is a leaf.
	Class string
	// The objective error of the subtree rooted at the node.
	Error float64
}

// Leaf reports whether the node predicts a class instead of testing
// an attribute.
func (n *Node) Leaf() bool {
	return n.Attribute < 0
}

// SubtreeIDs returns the IDs of the node's children, empty for
// leaves.
func (n *Node) SubtreeIDs() []string {
	if n.Leaf() {
		return nil
	}
	return []string{n.WithoutID, n.WithID}
}
