package floorplan

import (
	"encoding/json"

	"github.com/ChicagoDave/floorplanner/pkg/geo"
)

// State is the closed set of node states: Untouched, Parent or Room.
type State interface {
	kind() string
}

// Untouched leaves can still be split or claimed by a requirement.
type Untouched struct{}

// Parent nodes own their children exclusively. Children tile the parent,
// separated by HallWidth corridors when ViaHallway is set.
type Parent struct {
	Children   []*Node
	ViaHallway bool
}

// Room is a terminal leaf claimed by a requirement. The requirement's
// constraints are copied so the tree can be checked on its own.
type Room struct {
	Name         string `json:"name"`
	Area         Range  `json:"area"`
	DirectAccess bool   `json:"direct_access,omitempty"`
}

func (Untouched) kind() string { return "untouched" }
func (Parent) kind() string    { return "parent" }
func (Room) kind() string      { return "room" }

// Node is one rectangle of the partition tree.
type Node struct {
	ID   string
	Rect geo.Rect
	// Horizontal records the axis of the split that created this node:
	// true means it sits beside its siblings along X. The node's own split
	// runs along the other axis.
	Horizontal bool
	State      State
	// Doors are bucketed by Direction and ordered along the wall.
	Doors [4][]Door
}

// NewNode returns an untouched node.
func NewNode(id string, rect geo.Rect, horizontal bool) *Node {
	return &Node{ID: id, Rect: rect, Horizontal: horizontal, State: Untouched{}}
}

// Kind returns "untouched", "parent" or "room".
func (n *Node) Kind() string {
	if n.State == nil {
		return Untouched{}.kind()
	}
	return n.State.kind()
}

// IsLeaf reports whether the node has no children.
func (n *Node) IsLeaf() bool {
	_, ok := n.State.(Parent)
	return !ok
}

// IsUntouched reports whether the node can still be split or claimed.
func (n *Node) IsUntouched() bool {
	switch n.State.(type) {
	case nil, Untouched:
		return true
	}
	return false
}

// Children returns the node's children, or nil for leaves.
func (n *Node) Children() []*Node {
	if p, ok := n.State.(Parent); ok {
		return p.Children
	}
	return nil
}

// Walk visits the subtree in pre-order, children in insertion order.
// Returning false from fn skips the node's descendants.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.Children() {
		c.Walk(fn)
	}
}

// Leaves returns the rectangle of every Untouched or Room node.
func (n *Node) Leaves() []geo.Rect {
	var rects []geo.Rect
	n.Walk(func(c *Node) bool {
		if c.IsLeaf() {
			rects = append(rects, c.Rect)
		}
		return true
	})
	return rects
}

// LeafNodes returns every Untouched or Room node.
func (n *Node) LeafNodes() []*Node {
	var leaves []*Node
	n.Walk(func(c *Node) bool {
		if c.IsLeaf() {
			leaves = append(leaves, c)
		}
		return true
	})
	return leaves
}

// UntouchedLeaves returns a distinct pointer to every Untouched node, so
// callers can tag them in place.
func (n *Node) UntouchedLeaves() []*Node {
	var leaves []*Node
	n.Walk(func(c *Node) bool {
		if c.IsUntouched() {
			leaves = append(leaves, c)
		}
		return true
	})
	return leaves
}

// Rooms returns every node claimed by a requirement.
func (n *Node) Rooms() []*Node {
	var rooms []*Node
	n.Walk(func(c *Node) bool {
		if _, ok := c.State.(Room); ok {
			rooms = append(rooms, c)
		}
		return true
	})
	return rooms
}

// AllNodes returns every node, internal ones included.
func (n *Node) AllNodes() []*Node {
	var nodes []*Node
	n.Walk(func(c *Node) bool {
		nodes = append(nodes, c)
		return true
	})
	return nodes
}

// Find returns the node with the given ID, or nil.
func (n *Node) Find(id string) *Node {
	var found *Node
	n.Walk(func(c *Node) bool {
		if found != nil {
			return false
		}
		if c.ID == id {
			found = c
			return false
		}
		return true
	})
	return found
}

// DoorCount returns the number of doors on all four walls.
func (n *Node) DoorCount() int {
	total := 0
	for _, doors := range n.Doors {
		total += len(doors)
	}
	return total
}

// DoorPosition returns where door i on wall d sits: (i+0.5)/count of the
// way along the wall.
func (n *Node) DoorPosition(d Direction, i int) geo.Point2D {
	from, to := d.Wall(n.Rect)
	count := len(n.Doors[d])
	if count == 0 {
		return geo.MidPoint(from, to)
	}
	return from.Lerp(to, (float64(i)+0.5)/float64(count))
}

// Corridors returns the hallway gaps between a parent's children.
func (n *Node) Corridors() []geo.Rect {
	p, ok := n.State.(Parent)
	if !ok || !p.ViaHallway {
		return nil
	}
	var gaps []geo.Rect
	for i := 0; i+1 < len(p.Children); i++ {
		a, b := p.Children[i].Rect, p.Children[i+1].Rect
		if p.Children[i].Horizontal {
			gaps = append(gaps, geo.Rect{
				Min: geo.Pt(a.Max.X, n.Rect.Min.Z),
				Max: geo.Pt(b.Min.X, n.Rect.Max.Z),
			})
		} else {
			gaps = append(gaps, geo.Rect{
				Min: geo.Pt(n.Rect.Min.X, a.Max.Z),
				Max: geo.Pt(n.Rect.Max.X, b.Min.Z),
			})
		}
	}
	return gaps
}

type nodeJSON struct {
	ID         string            `json:"id"`
	Rect       geo.Rect          `json:"rect"`
	Horizontal bool              `json:"horizontal"`
	State      string            `json:"state"`
	ViaHallway bool              `json:"via_hallway,omitempty"`
	Room       *Room             `json:"room,omitempty"`
	Doors      map[string][]Door `json:"doors,omitempty"`
	Children   []*Node           `json:"children,omitempty"`
}

// MarshalJSON flattens the state union into a "state" discriminator.
func (n *Node) MarshalJSON() ([]byte, error) {
	out := nodeJSON{
		ID:         n.ID,
		Rect:       n.Rect,
		Horizontal: n.Horizontal,
		State:      n.Kind(),
	}
	switch s := n.State.(type) {
	case Parent:
		out.ViaHallway = s.ViaHallway
		out.Children = s.Children
	case Room:
		room := s
		out.Room = &room
	}
	for _, d := range Directions {
		if len(n.Doors[d]) == 0 {
			continue
		}
		if out.Doors == nil {
			out.Doors = make(map[string][]Door)
		}
		out.Doors[d.String()] = n.Doors[d]
	}
	return json.Marshal(out)
}
