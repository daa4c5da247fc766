package pqtree

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"
)

// ToDOT returns a Graphviz DOT representation of the tree's current
// shape, for visualizing which elements a reduction forced consecutive.
//
// Node representation:
//   - P-nodes: labeled "P", ellipse shape
//   - Q-nodes: labeled "Q", box shape, children drawn left to right in
//     chain order starting from endmost[0]
//   - Leaves: labeled with their decimal value, rounded box shape
func (t *Tree) ToDOT() string {
	var buf bytes.Buffer
	buf.WriteString("digraph PQTree {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [fontname=\"SF Mono, Menlo, monospace\", fontsize=14, style=filled, fillcolor=white];\n")
	buf.WriteString("  edge [arrowhead=none];\n\n")

	if t.root != nil {
		writeDOTNode(&buf, t.root, 0)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func writeDOTNode(buf *bytes.Buffer, n *node, id int) int {
	nodeID := fmt.Sprintf("n%d", id)
	next := id + 1

	switch n.kind {
	case leafNode:
		fmt.Fprintf(buf, "  %s [label=%q, shape=box, style=\"filled,rounded\"];\n", nodeID, fmt.Sprint(n.value))

	case pNode:
		fmt.Fprintf(buf, "  %s [label=\"P\", shape=ellipse];\n", nodeID)
		for _, c := range n.circularLink {
			fmt.Fprintf(buf, "  %s -> n%d;\n", nodeID, next)
			next = writeDOTNode(buf, c, next)
		}

	case qNode:
		fmt.Fprintf(buf, "  %s [label=\"Q\", shape=box];\n", nodeID)
		forEachQChild(n, func(c *node) {
			fmt.Fprintf(buf, "  %s -> n%d;\n", nodeID, next)
			next = writeDOTNode(buf, c, next)
		})
	}

	return next
}

// RenderSVG renders the tree's current shape as an SVG image via
// ToDOT and Graphviz. Errors are wrapped with context suitable for
// unwrapping with errors.Is/errors.As.
func (t *Tree) RenderSVG() ([]byte, error) {
	dot := t.ToDOT()

	gv, err := graphviz.New(context.Background())
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(context.Background(), g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
