package world

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// Dwell frames charged for stopping at a node, by time tag. Rough averages
// measured from runs rather than exact values.
const (
	framesChest  = 90.0
	framesPuzzle = 240.0
	framesFar    = 150.0
)

// A cube is worth eight bits; anti-cubes count the same toward the total.
const bitsPerCube = 8

type position struct {
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Z           float64 `json:"z"`
	Orientation string  `json:"orientation"`
}

type collectableSpec struct {
	Name     string   `json:"name"`
	Position position `json:"position"`
	Bit      float64  `json:"bit"`
	Cube     float64  `json:"cube"`
	Anti     float64  `json:"anti"`
	Key      float64  `json:"key"`
	Time     string   `json:"time"`
	Cost     string   `json:"cost"`

	id int // node ID once added, -1 before
}

type doorSpec struct {
	// To names the room the door leads into. Doors without a destination
	// are positional anchors only: they never become nodes, but a matching
	// door in another room may still land on them.
	To       string   `json:"to"`
	Name     string   `json:"name"`
	Position position `json:"position"`
	Time     string   `json:"time"`
	Cost     string   `json:"cost"`

	id int
}

type roomSpec struct {
	Name         string            `json:"name"`
	Collectables []collectableSpec `json:"collectables"`
	Doors        []doorSpec        `json:"doors"`
}

// Load reads a JSON room description from a file and builds the world
// graph. Data-quality problems (duplicate names, dangling door references)
// are logged as warnings and do not fail the load; the solve may still
// tolerate them. A nil logger falls back to log.Default().
func Load(path string, logger *log.Logger) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	g, err := Parse(f, logger)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return g, nil
}

// Parse decodes a JSON room description and builds the world graph.
// See Load for the warning policy.
func Parse(r io.Reader, logger *log.Logger) (*Graph, error) {
	if logger == nil {
		logger = log.Default()
	}
	var rooms []roomSpec
	if err := json.NewDecoder(r).Decode(&rooms); err != nil {
		return nil, fmt.Errorf("decode rooms: %w", err)
	}
	verifyUniqueNames(rooms, logger)
	return buildGraph(rooms, logger)
}

func verifyUniqueNames(rooms []roomSpec, logger *log.Logger) {
	for i := range rooms {
		for j := i + 1; j < len(rooms); j++ {
			if rooms[i].Name == rooms[j].Name {
				logger.Warn("multiple definitions for room", "room", rooms[i].Name)
			}
		}
		verifyUniqueInnerNames(&rooms[i], logger)
	}
}

func verifyUniqueInnerNames(room *roomSpec, logger *log.Logger) {
	for i, a := range room.Collectables {
		for _, b := range room.Collectables[i+1:] {
			if a.Name == b.Name {
				logger.Warn("multiple definitions for collectable", "room", room.Name, "name", a.Name)
			}
		}
	}
	for i, a := range room.Doors {
		for _, b := range room.Doors[i+1:] {
			if a.Name != b.Name {
				continue
			}
			switch {
			case a.To != "" && b.To != "":
				if a.To == b.To {
					logger.Warn("multiple definitions for door", "room", room.Name, "name", a.Name, "to", a.To)
				}
			case a.To == "" && b.To == "":
				logger.Warn("multiple definitions for dest", "room", room.Name, "name", a.Name)
			}
			// a dest and a door may share a name: dests are matched
			// preferentially when resolving the reverse side
		}
	}
	for _, d := range room.Doors {
		if d.To != "" {
			continue
		}
		for _, c := range room.Collectables {
			if d.Name == c.Name {
				logger.Warn("collectable is also a dest", "room", room.Name, "name", d.Name)
			}
		}
	}
}

func buildGraph(rooms []roomSpec, logger *log.Logger) (*Graph, error) {
	g := New()
	for ri := range rooms {
		addRoomNodes(g, &rooms[ri], logger)
	}
	for ri := range rooms {
		if err := addRoomEdges(g, rooms, &rooms[ri], logger); err != nil {
			return nil, err
		}
	}
	return g, nil
}

func addRoomNodes(g *Graph, room *roomSpec, logger *log.Logger) {
	for i := range room.Collectables {
		c := &room.Collectables[i]
		c.id = g.AddNode(Node{
			Name: room.Name + "." + c.Name,
			Bits: int(c.Bit) + bitsPerCube*(int(c.Cube)+int(c.Anti)),
			Keys: int(c.Key),
			Cost: parseCost(c.Cost, room.Name, c.Name, logger),
			Time: dwellFrames(c.Time),
		})
	}
	for i := range room.Doors {
		d := &room.Doors[i]
		if d.To == "" {
			d.id = -1
			continue
		}
		d.id = g.AddNode(Node{
			Name: room.Name + "." + d.Name,
			Cost: parseCost(d.Cost, room.Name, d.Name, logger),
			Time: dwellFrames(d.Time),
		})
	}
}

func addRoomEdges(g *Graph, rooms []roomSpec, room *roomSpec, logger *log.Logger) error {
	for i := range room.Collectables {
		c := &room.Collectables[i]
		if err := addEdges(g, c.id, c.Position, room, c.id); err != nil {
			return err
		}
	}
	for i := range room.Doors {
		door := &room.Doors[i]
		if door.To == "" {
			continue
		}
		dest := findRoom(rooms, door.To)
		if dest == nil {
			logger.Warn("no dest room for door", "room", room.Name, "door", door.Name, "to", door.To)
			continue
		}
		rev := findReverseDoor(dest, door.Name, room.Name)
		if rev == nil {
			logger.Warn("no dest door", "room", room.Name, "door", door.Name, "to", dest.Name)
			continue
		}
		if err := addEdges(g, door.id, rev.Position, dest, rev.id); err != nil {
			return err
		}
	}
	return nil
}

// addEdges connects src to every node of room except itself and the
// landing point it arrived through, with the geometric displacement
// between the two positions as the traversal cost.
func addEdges(g *Graph, src int, srcPos position, room *roomSpec, except int) error {
	add := func(dest int, destPos position) error {
		if dest < 0 || dest == except {
			return nil
		}
		_, err := g.AddEdge(Edge{
			From: src,
			To:   dest,
			DX:   destPos.X - srcPos.X,
			DY:   destPos.Y - srcPos.Y,
			DZ:   destPos.Z - srcPos.Z,
			Cost: g.Node(dest).Cost,
		})
		return err
	}
	for i := range room.Collectables {
		c := &room.Collectables[i]
		if err := add(c.id, c.Position); err != nil {
			return err
		}
	}
	for i := range room.Doors {
		d := &room.Doors[i]
		if err := add(d.id, d.Position); err != nil {
			return err
		}
	}
	return nil
}

func findRoom(rooms []roomSpec, name string) *roomSpec {
	for i := range rooms {
		if rooms[i].Name == name {
			return &rooms[i]
		}
	}
	return nil
}

// findReverseDoor locates the landing point in the destination room for a
// door named name coming from fromRoom. Dests (doors without a destination
// of their own) are preferred over doors that lead back.
func findReverseDoor(dest *roomSpec, name, fromRoom string) *doorSpec {
	var back *doorSpec
	for i := range dest.Doors {
		d := &dest.Doors[i]
		if d.Name != name {
			continue
		}
		if d.To == "" {
			return d
		}
		if d.To == fromRoom && back == nil {
			back = d
		}
	}
	return back
}

func parseCost(tag, room, name string, logger *log.Logger) Cost {
	switch tag {
	case "":
		return CostFree
	case "lock":
		return CostLock
	case "water":
		return CostWater
	case "secret":
		return CostSecret
	case "oneof":
		return CostOneof
	default:
		logger.Warn("unknown cost tag", "room", room, "name", name, "cost", tag)
		return CostFree
	}
}

func dwellFrames(tag string) float64 {
	switch tag {
	case "chest":
		return framesChest
	case "puzzle":
		return framesPuzzle
	case "far":
		return framesFar
	default:
		return 0
	}
}
