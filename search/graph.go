package search

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/awalterschulze/gographviz"
)

const tmplRaw = `<
<TABLE BORDER="0" CELLBORDER="1" CELLSPACING="0">
<TR><TD>Node ID</TD><TD>{{.ID}}</TD></TR>
<TR><TD>Move</TD><TD>{{.Move}}</TD></TR>
<TR><TD>Color</TD><TD>{{.Color}}</TD></TR>
<TR><TD>Visits</TD><TD>{{.Visits}}</TD></TR>
<TR><TD>Playouts</TD><TD>{{.Playouts}}</TD></TR>
<TR><TD>Value</TD><TD>{{.MeanValue}}</TD></TR>
</TABLE>
>
`

var tmpl = template.Must(template.New("node").Parse(tmplRaw))

type nodeView struct {
	*Node
}

func (v nodeView) MeanValue() float32 { return v.Node.MeanValue() }

// ToDot renders the subtree rooted at id as a Graphviz dot document, one
// table-shaped node per tree node and one edge per parent/child link. This
// is tree-introspection tooling for humans debugging a search run, not the
// out-of-scope board display subprocess.
func (p *NodePool) ToDot(root naughty) string {
	g := gographviz.NewGraph()
	if err := g.SetName("G"); err != nil {
		panic(err)
	}
	g.SetDir(true)

	var buf bytes.Buffer
	stack := []naughty{root}
	visited := make(map[naughty]bool)
	for len(stack) > 0 {
		n := len(stack) - 1
		id := stack[n]
		stack = stack[:n]
		if visited[id] {
			continue
		}
		visited[id] = true

		node := p.get(id)
		if err := tmpl.Execute(&buf, nodeView{node}); err != nil {
			panic(err)
		}
		attrs := map[string]string{
			"fontname": "Monaco",
			"shape":    "none",
			"label":    buf.String(),
		}
		g.AddNode("G", fmt.Sprintf("%d", id), attrs)
		buf.Reset()

		for _, kid := range node.ChildIDs() {
			g.AddEdge(fmt.Sprintf("%d", id), fmt.Sprintf("%d", kid), true, nil)
			stack = append(stack, kid)
		}
	}
	return g.String()
}
