/*
Package json provides methods to serialize and deserialize induced
trees and their nodes as JSON.
*/
package json

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/vishalbelsare/pydl8.5/tree"
)

type jsonNode struct {
	ID            string  `json:"id"`
	ParentID      string  `json:"parentID,omitempty"`
	Attribute     int     `json:"attribute"`
	AttributeName string  `json:"attributeName,omitempty"`
	WithoutID     string  `json:"withoutID,omitempty"`
	WithID        string  `json:"withID,omitempty"`
	Class         string  `json:"class,omitempty"`
	Error         float64 `json:"error"`
}

/*
NodeEncodeDecoder encodes tree nodes as JSON objects and decodes them
back. The zero value is ready to use.
*/
type NodeEncodeDecoder struct{}

// Encode receives a *tree.Node and returns a slice of bytes with the
// node encoded or an error if the encoding could not be performed.
func (NodeEncodeDecoder) Encode(n *tree.Node) ([]byte, error) {
	return json.Marshal(&jsonNode{
		ID:            n.ID,
		ParentID:      n.ParentID,
		Attribute:     n.Attribute,
		AttributeName: n.AttributeName,
		WithoutID:     n.WithoutID,
		WithID:        n.WithID,
		Class:         n.Class,
		Error:         n.Error,
	})
}

// Decode receives a slice of bytes and returns a *tree.Node decoded
// from it or an error if the decoding could not be performed.
func (NodeEncodeDecoder) Decode(data []byte) (*tree.Node, error) {
	jn := &jsonNode{}
	if err := json.Unmarshal(data, jn); err != nil {
		return nil, err
	}
	return &tree.Node{
		ID:            jn.ID,
		ParentID:      jn.ParentID,
		Attribute:     jn.Attribute,
		AttributeName: jn.AttributeName,
		WithoutID:     jn.WithoutID,
		WithID:        jn.WithID,
		Class:         jn.Class,
		Error:         jn.Error,
	}, nil
}

/*
WriteJSONTree takes a context.Context, a pointer to a tree.Tree and an
io.Writer and serializes the given tree as JSON onto the io.Writer.
A tree is serialized as a JSON object with the following fields:
  - "rootID": a string with the ID of the node at the root of the tree
  - "nodes": an array containing the nodes that can be traversed on
    the tree

An error is returned if the tree cannot be traversed, serialized or
written onto the io.Writer.
*/
func WriteJSONTree(ctx context.Context, t *tree.Tree, w io.Writer) error {
	jrootID, err := json.Marshal(t.RootID)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, `{"rootID":%s,"nodes":[`, jrootID)
	if err != nil {
		return err
	}
	var ned NodeEncodeDecoder
	var i int
	err = t.Traverse(ctx, false, func(ctx context.Context, n *tree.Node) error {
		if i != 0 {
			if _, err := w.Write([]byte(",")); err != nil {
				return err
			}
		}
		i++
		jn, err := ned.Encode(n)
		if err != nil {
			return err
		}
		_, err = w.Write(jn)
		return err
	})
	if err != nil {
		return err
	}
	_, err = w.Write([]byte(`]}`))
	return err
}

/*
ReadJSONTree takes a context.Context, a pointer to a tree.Tree and an
io.Reader and unmarshals the contents of the io.Reader onto the given
tree: the nodes are stored on the tree's NodeStore and its RootID is
set. An error is returned if the JSON cannot be read or decoded, or a
node cannot be stored.
*/
func ReadJSONTree(ctx context.Context, t *tree.Tree, r io.Reader) error {
	dec := json.NewDecoder(r)
	jt := &struct {
		RootID string             `json:"rootID"`
		Nodes  []*json.RawMessage `json:"nodes"`
	}{}
	err := dec.Decode(jt)
	if err != nil {
		return err
	}
	if jt.RootID == "" {
		return fmt.Errorf("no root node id available")
	}
	t.RootID = jt.RootID
	var ned NodeEncodeDecoder
	for _, jn := range jt.Nodes {
		n, err := ned.Decode(*jn)
		if err != nil {
			return err
		}
		err = t.NodeStore.Store(ctx, n)
		if err != nil {
			return err
		}
	}
	return nil
}
