package tree_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vishalbelsare/pydl8.5/dataset"
	"github.com/vishalbelsare/pydl8.5/tree"
)

/*
buildTree stores a depth-one tree testing attribute 0 and returns it:
samples without the attribute predict "no", samples with it predict
"yes".
*/
func buildTree(t *testing.T) *tree.Tree {
	t.Helper()
	ctx := context.Background()
	store := tree.NewMemoryNodeStore()

	root := &tree.Node{Attribute: 0, AttributeName: "a0", Error: 0}
	require.NoError(t, store.Create(ctx, root))
	left := &tree.Node{ParentID: root.ID, Attribute: -1, Class: "no"}
	require.NoError(t, store.Create(ctx, left))
	right := &tree.Node{ParentID: root.ID, Attribute: -1, Class: "yes"}
	require.NoError(t, store.Create(ctx, right))
	root.WithoutID = left.ID
	root.WithID = right.ID
	require.NoError(t, store.Store(ctx, root))

	return tree.New(root.ID, store)
}

func TestMemoryNodeStore(t *testing.T) {
	ctx := context.Background()
	store := tree.NewMemoryNodeStore()

	n := &tree.Node{Attribute: -1, Class: "x"}
	require.NoError(t, store.Create(ctx, n))
	require.NotEmpty(t, n.ID)

	got, err := store.Get(ctx, n.ID)
	require.NoError(t, err)
	assert.Equal(t, n, got)

	missing, err := store.Get(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)

	n.Class = "y"
	require.NoError(t, store.Store(ctx, n))
	got, err = store.Get(ctx, n.ID)
	require.NoError(t, err)
	assert.Equal(t, "y", got.Class)

	require.NoError(t, store.Delete(ctx, n))
	got, err = store.Get(ctx, n.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	assert.NoError(t, store.Close(ctx))
}

func TestMemoryNodeStoreHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	store := tree.NewMemoryNodeStore()
	err := store.Create(ctx, &tree.Node{})
	assert.Error(t, err)
}

func TestNodeLeaf(t *testing.T) {
	leaf := &tree.Node{Attribute: -1, Class: "c"}
	assert.True(t, leaf.Leaf())
	assert.Empty(t, leaf.SubtreeIDs())

	split := &tree.Node{Attribute: 2, WithoutID: "l", WithID: "r"}
	assert.False(t, split.Leaf())
	assert.Equal(t, []string{"l", "r"}, split.SubtreeIDs())
}

func TestPredict(t *testing.T) {
	ctx := context.Background()
	tr := buildTree(t)

	predicted, err := tr.Predict(ctx, []bool{true})
	require.NoError(t, err)
	assert.Equal(t, "yes", predicted)

	predicted, err = tr.Predict(ctx, []bool{false})
	require.NoError(t, err)
	assert.Equal(t, "no", predicted)
}

func TestPredictErrors(t *testing.T) {
	ctx := context.Background()

	var nilTree *tree.Tree
	_, err := nilTree.Predict(ctx, []bool{true})
	assert.Error(t, err)

	empty := tree.New("missing", tree.NewMemoryNodeStore())
	_, err = empty.Predict(ctx, []bool{true})
	assert.Error(t, err)

	tr := buildTree(t)
	_, err = tr.Predict(ctx, []bool{})
	assert.Error(t, err)

	store := tree.NewMemoryNodeStore()
	classless := &tree.Node{Attribute: -1}
	require.NoError(t, store.Create(ctx, classless))
	_, err = tree.New(classless.ID, store).Predict(ctx, []bool{true})
	assert.ErrorIs(t, err, tree.ErrCannotPredictSample)
}

func TestTest(t *testing.T) {
	ctx := context.Background()
	tr := buildTree(t)
	ds, err := dataset.New([]string{"a0"}, []dataset.Sample{
		{Attributes: []bool{true}, Class: "yes"},
		{Attributes: []bool{false}, Class: "no"},
		{Attributes: []bool{true}, Class: "no"},
		{Attributes: []bool{false}, Class: "no"},
	})
	require.NoError(t, err)

	rate, err := tr.Test(ctx, ds, ds.Samples())
	require.NoError(t, err)
	assert.InDelta(t, 0.75, rate, 1e-12)
}

func TestTraverseOrders(t *testing.T) {
	ctx := context.Background()
	tr := buildTree(t)

	var topdown []string
	require.NoError(t, tr.Traverse(ctx, false, func(_ context.Context, n *tree.Node) error {
		topdown = append(topdown, n.ID)
		return nil
	}))
	require.Len(t, topdown, 3)
	assert.Equal(t, tr.RootID, topdown[0])

	var bottomup []string
	require.NoError(t, tr.Traverse(ctx, true, func(_ context.Context, n *tree.Node) error {
		bottomup = append(bottomup, n.ID)
		return nil
	}))
	require.Len(t, bottomup, 3)
	assert.Equal(t, tr.RootID, bottomup[2])
}

func TestString(t *testing.T) {
	tr := buildTree(t)
	s := tr.String()
	assert.Contains(t, s, "a0?")
	assert.Contains(t, s, "yes")
	assert.Contains(t, s, "no")
}
