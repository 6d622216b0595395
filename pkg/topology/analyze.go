package topology

import (
	"fmt"
	"math"
	"sort"

	"github.com/dhconnelly/rtreego"
	"github.com/sirupsen/logrus"

	"github.com/ChicagoDave/floorplanner/pkg/floorplan"
	"github.com/ChicagoDave/floorplanner/pkg/geo"
	"github.com/ChicagoDave/floorplanner/pkg/logger"
	"github.com/ChicagoDave/floorplanner/pkg/validation"
)

// probeDepth is how far past a wall a door looks for the region it opens
// onto. It must stay below half the corridor width.
const probeDepth = floorplan.HallWidth / 4

// CorridorID names the i-th hallway gap of a parent node.
func CorridorID(parentID string, i int) string {
	return fmt.Sprintf("%s_hall_%d", parentID, i)
}

// Analyze builds the region graph of a plan: every door links its leaf to
// whatever lies across the wall, corridors that share an edge are joined,
// and corridors reaching the perimeter open to the outside. The report
// lists rooms that cannot be reached from outside.
func Analyze(p *floorplan.Plan) (*Graph, *validation.Report) {
	report := validation.NewReport()
	g := newGraph()

	if p == nil || p.Root == nil {
		report.AddError(validation.Result{
			Level:   validation.LevelStructural,
			Message: "plan has no root node",
		})
		return g, report
	}

	g.addRegion(&Region{ID: Outside, Kind: RegionOutside})

	leaves := p.Root.LeafNodes()
	for _, leaf := range leaves {
		r := &Region{ID: leaf.ID, Kind: RegionUntouched, Rect: leaf.Rect}
		if room, ok := leaf.State.(floorplan.Room); ok {
			r.Kind = RegionRoom
			r.Name = room.Name
		}
		g.addRegion(r)
	}

	var corridors []*Region
	p.Root.Walk(func(n *floorplan.Node) bool {
		for i, gap := range n.Corridors() {
			r := &Region{ID: CorridorID(n.ID, i), Kind: RegionCorridor, Rect: gap}
			g.addRegion(r)
			corridors = append(corridors, r)
		}
		return true
	})

	connectDoors(g, p.Bounds, leaves, report)
	connectCorridors(g, p.Bounds, corridors)
	g.Adjacency = buildAdjacency(g.Connections)

	checkReachability(g, leaves, report)

	report.AddInfo(validation.Result{
		Level: validation.LevelStructural,
		Message: fmt.Sprintf("%d regions, %d connections (%d corridors)",
			len(g.Regions), len(g.Connections), len(corridors)),
	})

	logger.For("topology").WithFields(logrus.Fields{
		"regions":     len(g.Regions),
		"connections": len(g.Connections),
		"corridors":   len(corridors),
	}).Debug("topology analyzed")

	return g, report
}

func connectDoors(g *Graph, bounds geo.Rect, leaves []*floorplan.Node, report *validation.Report) {
	for _, leaf := range leaves {
		for _, d := range floorplan.Directions {
			for i, door := range leaf.Doors[d] {
				at := leaf.DoorPosition(d, i)
				to := g.across(bounds, leaf.ID, at, d)
				if to == "" {
					report.AddError(validation.Result{
						Level:   validation.LevelStructural,
						Message: fmt.Sprintf("%s door on the %s wall of %s opens onto nothing", door.Kind, d, leaf.ID),
						NodeID:  leaf.ID,
					})
					continue
				}
				g.Connections = append(g.Connections, Connection{
					From:   leaf.ID,
					To:     to,
					Kind:   door.Kind,
					Locked: door.Locked,
					At:     at,
				})
			}
		}
	}
}

// across returns the region just past wall d at the door position.
func (g *Graph) across(bounds geo.Rect, self string, at geo.Point2D, d floorplan.Direction) string {
	probe := at.Add(d.Outward().Scale(probeDepth))
	if !bounds.Contains(probe) {
		return Outside
	}
	r := g.RegionAt(probe)
	if r == nil || r.ID == self {
		return ""
	}
	return r.ID
}

func connectCorridors(g *Graph, bounds geo.Rect, corridors []*Region) {
	for _, a := range corridors {
		var hits []*Region
		for _, h := range g.index.SearchIntersect(searchRect(a.Rect)) {
			b := h.(*Region)
			if b.Kind == RegionCorridor && b.ID > a.ID {
				hits = append(hits, b)
			}
		}
		sort.Slice(hits, func(i, j int) bool { return hits[i].ID < hits[j].ID })

		for _, b := range hits {
			if at, ok := sharedEdge(a.Rect, b.Rect); ok {
				g.Connections = append(g.Connections, Connection{From: a.ID, To: b.ID, Kind: Junction, At: at})
			}
		}
		if at, ok := perimeterOpening(a.Rect, bounds); ok {
			g.Connections = append(g.Connections, Connection{From: a.ID, To: Outside, Kind: Opening, At: at})
		}
	}
}

// searchRect is r grown by geo.Epsilon so edge-adjacent regions intersect.
func searchRect(r geo.Rect) rtreego.Rect {
	rect, _ := rtreego.NewRect(
		rtreego.Point{r.Min.X - geo.Epsilon, r.Min.Z - geo.Epsilon},
		[]float64{r.Width() + 2*geo.Epsilon, r.Height() + 2*geo.Epsilon},
	)
	return rect
}

// sharedEdge reports whether a and b share a wall segment of positive
// length and returns its midpoint.
func sharedEdge(a, b geo.Rect) (geo.Point2D, bool) {
	lo := geo.Pt(math.Max(a.Min.X, b.Min.X), math.Max(a.Min.Z, b.Min.Z))
	hi := geo.Pt(math.Min(a.Max.X, b.Max.X), math.Min(a.Max.Z, b.Max.Z))
	ox, oz := hi.X-lo.X, hi.Z-lo.Z
	if (ox > geo.Epsilon && oz > -geo.Epsilon) || (oz > geo.Epsilon && ox > -geo.Epsilon) {
		return geo.MidPoint(lo, hi), true
	}
	return geo.Point2D{}, false
}

// perimeterOpening returns the midpoint of the first corridor edge lying on
// the building boundary, checked north, east, south, west.
func perimeterOpening(r, bounds geo.Rect) (geo.Point2D, bool) {
	switch {
	case math.Abs(r.Min.Z-bounds.Min.Z) < geo.Epsilon:
		return r.TopCenter(), true
	case math.Abs(r.Max.X-bounds.Max.X) < geo.Epsilon:
		return r.RightCenter(), true
	case math.Abs(r.Max.Z-bounds.Max.Z) < geo.Epsilon:
		return r.BottomCenter(), true
	case math.Abs(r.Min.X-bounds.Min.X) < geo.Epsilon:
		return r.LeftCenter(), true
	}
	return geo.Point2D{}, false
}

func checkReachability(g *Graph, leaves []*floorplan.Node, report *validation.Report) {
	reach := g.Reachable(Outside, true)
	unlocked := g.Reachable(Outside, false)

	for _, leaf := range leaves {
		r := g.Regions[leaf.ID]
		switch {
		case !reach.Has(leaf.ID) && r.Kind == RegionRoom:
			report.AddWarning(validation.Result{
				Level:       validation.LevelStructural,
				Message:     fmt.Sprintf("room %q (%s) cannot be reached from outside", r.Name, leaf.ID),
				NodeID:      leaf.ID,
				Suggestions: []string{"Use a hallway round or interior doors on the enclosing split"},
			})
		case !reach.Has(leaf.ID):
			report.AddInfo(validation.Result{
				Level:   validation.LevelStructural,
				Message: fmt.Sprintf("unassigned space %s cannot be reached from outside", leaf.ID),
				NodeID:  leaf.ID,
			})
		case !unlocked.Has(leaf.ID) && r.Kind == RegionRoom:
			report.AddInfo(validation.Result{
				Level:   validation.LevelStructural,
				Message: fmt.Sprintf("room %q (%s) is behind a locked door", r.Name, leaf.ID),
				NodeID:  leaf.ID,
			})
		}
	}
}
