package dot_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vishalbelsare/pydl8.5/tree"
	"github.com/vishalbelsare/pydl8.5/tree/dot"
)

func buildTree(t *testing.T) *tree.Tree {
	t.Helper()
	ctx := context.Background()
	store := tree.NewMemoryNodeStore()

	root := &tree.Node{Attribute: 1, AttributeName: "windy", Error: 1}
	require.NoError(t, store.Create(ctx, root))
	left := &tree.Node{ParentID: root.ID, Attribute: -1, Class: "yes", Error: 0}
	require.NoError(t, store.Create(ctx, left))
	right := &tree.Node{ParentID: root.ID, Attribute: -1, Class: "no", Error: 1}
	require.NoError(t, store.Create(ctx, right))
	root.WithoutID = left.ID
	root.WithID = right.ID
	require.NoError(t, store.Store(ctx, root))

	return tree.New(root.ID, store)
}

func TestWriteDOTTree(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, dot.WriteDOTTree(context.Background(), buildTree(t), &buf))

	rendered := buf.String()
	assert.True(t, strings.HasPrefix(rendered, "digraph Tree {\n"))
	assert.True(t, strings.HasSuffix(rendered, "}\n"))
	assert.Contains(t, rendered, "node [shape=record];")
	assert.Contains(t, rendered, `[label="{{feat|windy}}"];`)
	assert.Contains(t, rendered, `[label="{{class|yes}|{error|0}}"];`)
	assert.Contains(t, rendered, `[label="{{class|no}|{error|1}}"];`)
	assert.Contains(t, rendered, "[label=0];")
	assert.Contains(t, rendered, "[label=1];")
}

func TestWriteDOTTreeEscapesLabels(t *testing.T) {
	ctx := context.Background()
	store := tree.NewMemoryNodeStore()
	leaf := &tree.Node{Attribute: -1, Class: `size|{"large"}`, Error: 0}
	require.NoError(t, store.Create(ctx, leaf))

	var buf bytes.Buffer
	require.NoError(t, dot.WriteDOTTree(ctx, tree.New(leaf.ID, store), &buf))
	assert.Contains(t, buf.String(), `{{class|size\|\{\"large\"\}}|{error|0}}`)
}

func TestWriteDOTTreeErrsOnMissingRoot(t *testing.T) {
	var buf bytes.Buffer
	missing := tree.New("nowhere", tree.NewMemoryNodeStore())
	assert.Error(t, dot.WriteDOTTree(context.Background(), missing, &buf))
}
