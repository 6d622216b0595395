package topology

import (
	"sort"

	"github.com/dhconnelly/rtreego"
	"github.com/zyedidia/generic/mapset"

	"github.com/ChicagoDave/floorplanner/pkg/floorplan"
	"github.com/ChicagoDave/floorplanner/pkg/geo"
)

// Outside is the region ID for everything beyond the building footprint.
const Outside = "outside"

// RegionKind classifies a walkable region of the plan.
type RegionKind string

const (
	RegionRoom      RegionKind = "room"
	RegionUntouched RegionKind = "untouched"
	RegionCorridor  RegionKind = "corridor"
	RegionOutside   RegionKind = "outside"
)

// Connection kinds that are not doors.
const (
	// Junction joins two corridors that share an edge.
	Junction floorplan.DoorKind = "junction"
	// Opening is a corridor end on the building perimeter.
	Opening floorplan.DoorKind = "opening"
)

// Region is a leaf, a corridor gap or the outside.
type Region struct {
	ID   string     `json:"id"`
	Kind RegionKind `json:"kind"`
	Name string     `json:"name,omitempty"`
	Rect geo.Rect   `json:"rect"`
}

// Bounds implements rtreego.Spatial.
func (r *Region) Bounds() rtreego.Rect {
	rect, _ := rtreego.NewRect(
		rtreego.Point{r.Rect.Min.X, r.Rect.Min.Z},
		[]float64{r.Rect.Width(), r.Rect.Height()},
	)
	return rect
}

// Connection is one passage between two regions.
type Connection struct {
	From   string             `json:"from"`
	To     string             `json:"to"`
	Kind   floorplan.DoorKind `json:"kind"`
	Locked bool               `json:"locked,omitempty"`
	At     geo.Point2D        `json:"at"`
}

// Graph is the region adjacency of a plan.
type Graph struct {
	Regions     map[string]*Region  `json:"regions"`
	Connections []Connection        `json:"connections"`
	Adjacency   map[string][]string `json:"adjacency"`

	index *rtreego.Rtree
}

func newGraph() *Graph {
	return &Graph{
		Regions:   make(map[string]*Region),
		Adjacency: make(map[string][]string),
		index:     rtreego.NewTree(2, 25, 50),
	}
}

func (g *Graph) addRegion(r *Region) {
	g.Regions[r.ID] = r
	if r.Kind != RegionOutside {
		g.index.Insert(r)
	}
}

// RegionAt returns the indoor region containing pt, preferring the lowest
// ID when pt sits on a shared wall. It returns nil outside the footprint.
func (g *Graph) RegionAt(pt geo.Point2D) *Region {
	hits := g.index.SearchIntersect(rtreego.Point{pt.X, pt.Z}.ToRect(geo.Epsilon))
	var best *Region
	for _, h := range hits {
		r := h.(*Region)
		if !r.Rect.Contains(pt) {
			continue
		}
		if best == nil || r.ID < best.ID {
			best = r
		}
	}
	return best
}

// Neighbors returns the regions directly connected to id, sorted.
func (g *Graph) Neighbors(id string) []string {
	return g.Adjacency[id]
}

// Reachable returns every region reachable from start. Locked doors are
// crossed only when throughLocked is set.
func (g *Graph) Reachable(start string, throughLocked bool) mapset.Set[string] {
	open := g.Adjacency
	if !throughLocked {
		open = g.unlockedAdjacency()
	}

	visited := mapset.New[string]()
	if _, ok := g.Regions[start]; !ok {
		return visited
	}
	visited.Put(start)
	queue := []string{start}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, next := range open[id] {
			if visited.Has(next) {
				continue
			}
			visited.Put(next)
			queue = append(queue, next)
		}
	}
	return visited
}

func (g *Graph) unlockedAdjacency() map[string][]string {
	var conns []Connection
	for _, c := range g.Connections {
		if !c.Locked {
			conns = append(conns, c)
		}
	}
	return buildAdjacency(conns)
}

// buildAdjacency turns connections into sorted, bidirectional neighbour
// lists.
func buildAdjacency(conns []Connection) map[string][]string {
	sets := make(map[string]mapset.Set[string])
	link := func(a, b string) {
		s, ok := sets[a]
		if !ok {
			s = mapset.New[string]()
			sets[a] = s
		}
		s.Put(b)
	}
	for _, c := range conns {
		link(c.From, c.To)
		link(c.To, c.From)
	}

	result := make(map[string][]string, len(sets))
	for id, s := range sets {
		ids := make([]string, 0, s.Size())
		s.Each(func(n string) {
			ids = append(ids, n)
		})
		sort.Strings(ids)
		result[id] = ids
	}
	return result
}
