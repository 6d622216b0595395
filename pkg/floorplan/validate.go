package floorplan

import (
	"fmt"
	"math"

	"github.com/zyedidia/generic/mapset"

	"github.com/ChicagoDave/floorplanner/pkg/validation"
)

// areaTolerance is the relative error allowed when comparing summed areas.
const areaTolerance = 1e-6

// ValidatePlan checks the structural invariants of a generated plan:
// children tile their parent (minus corridors) without overlap, leaves
// cover the footprint, doors live only on leaves, and every room honours
// the requirement that claimed it.
func ValidatePlan(p *Plan) *validation.Report {
	r := validation.NewReport()

	if p == nil || p.Root == nil {
		r.AddError(validation.Result{
			Level:   validation.LevelStructural,
			Message: "plan has no root node",
		})
		return r
	}

	if p.Root.Rect != p.Bounds {
		r.AddError(validation.Result{
			Level:       validation.LevelStructural,
			Message:     fmt.Sprintf("root rect %v does not match bounds %v", p.Root.Rect, p.Bounds),
			NodeID:      p.Root.ID,
			ActualValue: p.Root.Rect.String(),
			Expected:    p.Bounds.String(),
		})
	}

	validateTiling(p, r)
	validateCoverage(p, r)
	validateRooms(p, r)
	validateRequirements(p, r)

	return r
}

func approxArea(a, b, scale float64) bool {
	return math.Abs(a-b) <= areaTolerance*math.Max(1, scale)
}

func validateTiling(p *Plan, r *validation.Report) {
	ids := mapset.New[string]()
	p.Root.Walk(func(n *Node) bool {
		if ids.Has(n.ID) {
			r.AddError(validation.Result{
				Level:   validation.LevelStructural,
				Message: fmt.Sprintf("duplicate node ID %q", n.ID),
				NodeID:  n.ID,
			})
		}
		ids.Put(n.ID)

		par, ok := n.State.(Parent)
		if !ok {
			return true
		}
		if n.DoorCount() > 0 {
			r.AddError(validation.Result{
				Level:       validation.LevelStructural,
				Message:     fmt.Sprintf("parent node %s still carries %d doors", n.ID, n.DoorCount()),
				NodeID:      n.ID,
				ActualValue: n.DoorCount(),
				Expected:    "0",
			})
		}
		if len(par.Children) < 2 {
			r.AddError(validation.Result{
				Level:       validation.LevelStructural,
				Message:     fmt.Sprintf("parent node %s has %d children", n.ID, len(par.Children)),
				NodeID:      n.ID,
				ActualValue: len(par.Children),
				Expected:    ">= 2",
			})
		}

		covered := 0.0
		for i, c := range par.Children {
			if !n.Rect.ContainsRect(c.Rect) {
				r.AddError(validation.Result{
					Level:       validation.LevelStructural,
					Message:     fmt.Sprintf("child %s %v escapes parent %s %v", c.ID, c.Rect, n.ID, n.Rect),
					NodeID:      c.ID,
					ActualValue: c.Rect.String(),
				})
			}
			for _, o := range par.Children[i+1:] {
				if overlap := c.Rect.Overlap(o.Rect); overlap > areaTolerance*n.Rect.Area() {
					r.AddError(validation.Result{
						Level:       validation.LevelStructural,
						Message:     fmt.Sprintf("siblings %s and %s overlap by %.4f", c.ID, o.ID, overlap),
						NodeID:      c.ID,
						ActualValue: overlap,
						Expected:    "0",
					})
				}
			}
			covered += c.Rect.Area()
		}
		for _, gap := range n.Corridors() {
			covered += gap.Area()
		}
		if !approxArea(covered, n.Rect.Area(), n.Rect.Area()) {
			r.AddError(validation.Result{
				Level:       validation.LevelStructural,
				Message:     fmt.Sprintf("children of %s cover %.4f of %.4f", n.ID, covered, n.Rect.Area()),
				NodeID:      n.ID,
				ActualValue: covered,
				Expected:    fmt.Sprintf("%.4f", n.Rect.Area()),
			})
		}
		return true
	})
}

// CorridorArea returns the total area of every hallway gap in the tree.
func CorridorArea(root *Node) float64 {
	total := 0.0
	root.Walk(func(n *Node) bool {
		for _, gap := range n.Corridors() {
			total += gap.Area()
		}
		return true
	})
	return total
}

func validateCoverage(p *Plan, r *validation.Report) {
	leafArea := 0.0
	for _, rect := range p.Leaves() {
		leafArea += rect.Area()
	}
	want := p.Bounds.Area() - CorridorArea(p.Root)
	if !approxArea(leafArea, want, p.Bounds.Area()) {
		r.AddError(validation.Result{
			Level:       validation.LevelStructural,
			Message:     fmt.Sprintf("leaves cover %.4f, footprint minus corridors is %.4f", leafArea, want),
			ActualValue: leafArea,
			Expected:    fmt.Sprintf("%.4f", want),
		})
	}
}

func validateRooms(p *Plan, r *validation.Report) {
	for _, n := range p.Root.Rooms() {
		room := n.State.(Room)
		area := n.Rect.Area()
		if !room.Area.Contains(area) {
			r.AddError(validation.Result{
				Level:       validation.LevelStructural,
				Message:     fmt.Sprintf("room %q (%s) has area %.2f outside %.1f-%.1f", room.Name, n.ID, area, room.Area.Min, room.Area.Max),
				NodeID:      n.ID,
				ActualValue: area,
				Expected:    fmt.Sprintf("%.1f-%.1f", room.Area.Min, room.Area.Max),
			})
		}
		if room.DirectAccess && !n.Rect.TouchesBoundary(p.Bounds) {
			r.AddError(validation.Result{
				Level:   validation.LevelStructural,
				Message: fmt.Sprintf("room %q (%s) needs direct access but does not touch the perimeter", room.Name, n.ID),
				NodeID:  n.ID,
			})
		}
	}
}

func validateRequirements(p *Plan, r *validation.Report) {
	claimed := mapset.New[string]()
	for _, req := range p.Requirements {
		if !req.Assigned() {
			continue
		}
		n := p.Root.Find(req.NodeID)
		if n == nil {
			r.AddError(validation.Result{
				Level:       validation.LevelStructural,
				Message:     fmt.Sprintf("requirement %q points at missing node %q", req.Name, req.NodeID),
				ActualValue: req.NodeID,
			})
			continue
		}
		if _, ok := n.State.(Room); !ok {
			r.AddError(validation.Result{
				Level:       validation.LevelStructural,
				Message:     fmt.Sprintf("requirement %q points at %s node %s", req.Name, n.Kind(), n.ID),
				NodeID:      n.ID,
				ActualValue: n.Kind(),
				Expected:    "room",
			})
		}
		if claimed.Has(n.ID) {
			r.AddError(validation.Result{
				Level:   validation.LevelStructural,
				Message: fmt.Sprintf("node %s is claimed by more than one requirement", n.ID),
				NodeID:  n.ID,
			})
		}
		claimed.Put(n.ID)
		if *req.AssignedRect != n.Rect {
			r.AddError(validation.Result{
				Level:       validation.LevelStructural,
				Message:     fmt.Sprintf("requirement %q rect %v differs from node %s %v", req.Name, *req.AssignedRect, n.ID, n.Rect),
				NodeID:      n.ID,
				ActualValue: req.AssignedRect.String(),
				Expected:    n.Rect.String(),
			})
		}
	}

	if rooms := len(p.Root.Rooms()); rooms != claimed.Size() {
		r.AddWarning(validation.Result{
			Level:       validation.LevelStructural,
			Message:     fmt.Sprintf("%d rooms in the tree but %d claimed by requirements", rooms, claimed.Size()),
			ActualValue: rooms,
			Expected:    fmt.Sprintf("%d", claimed.Size()),
		})
	}
}
