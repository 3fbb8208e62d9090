package render

import (
	"fmt"
	"strings"

	"github.com/matzehuels/bitroute/pkg/route"
)

// colorStops span the value range from 0 to 1: red through magenta, blue
// and cyan to green.
var colorStops = [][3]float64{
	{1, 0, 0},
	{1, 0, 1},
	{0, 0, 1},
	{0, 1, 1},
	{0, 1, 0},
}

// valueColor maps an edge value in [0,1] to a hex color on the scale.
// Out-of-range values are clamped.
func valueColor(v float64) string {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	segments := len(colorStops) - 1
	pos := v * float64(segments)
	i := int(pos)
	if i >= segments {
		i = segments - 1
	}
	frac := pos - float64(i)
	lo, hi := colorStops[i], colorStops[i+1]
	blend := func(a, b float64) int {
		return int((a + (b-a)*frac) * 255)
	}
	return fmt.Sprintf("#%02x%02x%02x", blend(lo[0], hi[0]), blend(lo[1], hi[1]), blend(lo[2], hi[2]))
}

// ToDOT serializes a solver snapshot: rooms become clusters, live edges
// are colored by their solver value, and the heuristic path is drawn with
// a heavy stroke.
func ToDOT(vg *route.ValueGraph) string {
	var b strings.Builder
	b.WriteString("digraph route {\n")
	b.WriteString("\tnode [shape=box, style=rounded];\n")

	writeClusters(&b, vg)
	writeEdges(&b, vg)

	b.WriteString("}\n")
	return b.String()
}

// roomOf splits a node name into its room prefix and short name.
func roomOf(name string) (room, short string) {
	if i := strings.IndexByte(name, '.'); i >= 0 {
		return name[:i], name[i+1:]
	}
	return "", name
}

func writeClusters(b *strings.Builder, vg *route.ValueGraph) {
	var rooms []string
	members := map[string][]int{}
	for _, n := range vg.World.Nodes() {
		room, _ := roomOf(n.Name)
		if _, ok := members[room]; !ok {
			rooms = append(rooms, room)
		}
		members[room] = append(members[room], n.ID)
	}

	for i, room := range rooms {
		fmt.Fprintf(b, "\tsubgraph cluster_%d {\n", i)
		fmt.Fprintf(b, "\t\tlabel=%q;\n", room)
		for _, id := range members[room] {
			n := vg.World.Node(id)
			_, short := roomOf(n.Name)
			label := short
			if n.Bits > 0 {
				label = fmt.Sprintf("%s\\n%db", short, n.Bits)
			}
			attrs := fmt.Sprintf("label=\"%s\"", label)
			if id == vg.Entry || id == vg.Goal {
				attrs += ", peripheries=2"
			}
			fmt.Fprintf(b, "\t\t%q [%s];\n", n.Name, attrs)
		}
		b.WriteString("\t}\n")
	}
}

func writeEdges(b *strings.Builder, vg *route.ValueGraph) {
	onPath := map[int]bool{}
	if path, ok := vg.HeuristicPath(); ok {
		for _, e := range path {
			onPath[e] = true
		}
	}

	for _, e := range vg.World.Edges() {
		if !vg.Live(e.ID) {
			continue
		}
		v := vg.Value(e.ID)
		attrs := fmt.Sprintf("color=%q, label=\"%.2f\"", valueColor(v), v)
		if onPath[e.ID] {
			attrs += ", penwidth=3"
		}
		fmt.Fprintf(b, "\t%q -> %q [%s];\n",
			vg.World.Node(e.From).Name, vg.World.Node(e.To).Name, attrs)
	}
}
