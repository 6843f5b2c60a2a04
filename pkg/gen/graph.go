package gen

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"

	"github.com/microsoft/playwright-go-sub009/pkg/api"
	"github.com/microsoft/playwright-go-sub009/pkg/errors"
)

// GraphOptions configures API reference graph rendering.
type GraphOptions struct {
	// Detailed includes member counts in node labels.
	// When false, only the interface name is shown.
	Detailed bool
}

// ToDOT renders the schema's interface reference graph in Graphviz DOT
// format. Nodes are interfaces; an edge A -> B means a member of A
// mentions B in a signature. The DOT string can be rendered with
// [RenderSVG].
func ToDOT(schema *api.Schema, opts GraphOptions) string {
	var buf bytes.Buffer
	buf.WriteString("digraph API {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, name := range schema.Names() {
		iface, _ := schema.Interface(name)
		label := name
		if opts.Detailed {
			label = fmt.Sprintf("%s\n%d members", name, len(iface.Members))
		}
		fmt.Fprintf(&buf, "  %q [label=%q];\n", name, label)
	}

	buf.WriteString("\n")
	for _, name := range schema.Names() {
		iface, _ := schema.Interface(name)
		for _, ref := range schema.References(iface) {
			fmt.Fprintf(&buf, "  %q -> %q;\n", name, ref)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render SVG")
	}
	return buf.Bytes(), nil
}
