/*
Package dot renders induced trees in the Graphviz DOT language.
*/
package dot

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/vishalbelsare/pydl8.5/tree"
)

/*
WriteDOTTree takes a context.Context, a pointer to a tree.Tree and an
io.Writer and renders the given tree as a Graphviz digraph onto the
io.Writer: split nodes become record nodes labeled with the tested
attribute, leaves become record nodes labeled with their class and
error, and each edge carries the branch value it follows (0 for
instances without the attribute, 1 for instances with it). An error is
returned if the tree cannot be traversed or written onto the
io.Writer.
*/
func WriteDOTTree(ctx context.Context, t *tree.Tree, w io.Writer) error {
	_, err := fmt.Fprint(w, "digraph Tree {\ngraph [ranksep=0];\nnode [shape=record];\n")
	if err != nil {
		return err
	}
	err = t.Traverse(ctx, false, func(ctx context.Context, n *tree.Node) error {
		if n.Leaf() {
			_, err := fmt.Fprintf(w, "%s [label=\"{{class|%s}|{error|%g}}\"];\n", nodeName(n.ID), escapeLabel(n.Class), n.Error)
			return err
		}
		label := n.AttributeName
		if label == "" {
			label = fmt.Sprintf("%d", n.Attribute)
		}
		_, err := fmt.Fprintf(w, "%s [label=\"{{feat|%s}}\"];\n", nodeName(n.ID), escapeLabel(label))
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(w, "%s -> %s [label=0];\n", nodeName(n.ID), nodeName(n.WithoutID))
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(w, "%s -> %s [label=1];\n", nodeName(n.ID), nodeName(n.WithID))
		return err
	})
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(w, "}\n")
	return err
}

// nodeName turns a store node ID into a DOT identifier: store IDs may
// hold characters DOT identifiers cannot.
func nodeName(id string) string {
	var b strings.Builder
	b.WriteString("node_")
	for _, r := range id {
		if r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}

var labelEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"{", `\{`,
	"}", `\}`,
	"|", `\|`,
	"<", `\<`,
	">", `\>`,
)

// escapeLabel escapes the characters the DOT record shape reserves.
func escapeLabel(s string) string {
	return labelEscaper.Replace(s)
}
