package render

import (
	"fmt"
	"strings"

	"github.com/matzehuels/bitroute/pkg/world"
)

// costColors styles world edges by the constraint class of their target.
var costColors = map[world.Cost]string{
	world.CostLock:   "red",
	world.CostSecret: "yellow3",
	world.CostWater:  "blue",
	world.CostOneof:  "orange",
}

// WorldDOT serializes the bare world graph, without solver state. Rooms
// become clusters and edges are colored by constraint class.
func WorldDOT(g *world.Graph) string {
	var b strings.Builder
	b.WriteString("digraph world {\n")
	b.WriteString("\tnode [shape=box, style=rounded];\n")

	var rooms []string
	members := map[string][]int{}
	for _, n := range g.Nodes() {
		room, _ := roomOf(n.Name)
		if _, ok := members[room]; !ok {
			rooms = append(rooms, room)
		}
		members[room] = append(members[room], n.ID)
	}
	for i, room := range rooms {
		fmt.Fprintf(&b, "\tsubgraph cluster_%d {\n", i)
		fmt.Fprintf(&b, "\t\tlabel=%q;\n", room)
		for _, id := range members[room] {
			n := g.Node(id)
			_, short := roomOf(n.Name)
			label := short
			if n.Bits > 0 {
				label = fmt.Sprintf("%s\\n%db", short, n.Bits)
			}
			fmt.Fprintf(&b, "\t\t%q [label=\"%s\"];\n", n.Name, label)
		}
		b.WriteString("\t}\n")
	}

	for _, e := range g.Edges() {
		attrs := ""
		if c, ok := costColors[e.Cost]; ok {
			attrs = fmt.Sprintf(" [color=%q]", c)
		}
		fmt.Fprintf(&b, "\t%q -> %q%s;\n", g.Node(e.From).Name, g.Node(e.To).Name, attrs)
	}

	b.WriteString("}\n")
	return b.String()
}
