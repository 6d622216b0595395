package floorplan

import (
	"fmt"
	"math"

	"github.com/ChicagoDave/floorplanner/pkg/geo"
	"github.com/ChicagoDave/floorplanner/pkg/spec"
)

const (
	HallWidth       = 2.0   // corridor gap left between siblings on hallway rounds
	MinRoomDim      = 5.0   // both sides of a split child must exceed this
	MinBuildingArea = 300.0 // floor for the footprint derived from requirements

	// MaxSplitChildren caps MaxChildren in a round.
	MaxSplitChildren = spec.MaxChildren

	// Footprint proportions: the aspect angle is drawn from a band around
	// 45 degrees and both sides are scaled by a factor in [1, 1+SizeVariation).
	AspectVariation = math.Pi / 16
	SizeVariation   = 2.0
)

// Direction indexes the four walls of a rectangle.
type Direction int

const (
	North Direction = iota // min Z
	East                   // max X
	South                  // max Z
	West                   // min X
)

// Directions lists every wall direction in index order.
var Directions = [4]Direction{North, East, South, West}

func (d Direction) String() string {
	switch d {
	case North:
		return "north"
	case East:
		return "east"
	case South:
		return "south"
	case West:
		return "west"
	}
	return fmt.Sprintf("direction(%d)", int(d))
}

// Opposite returns the direction facing the other way.
func (d Direction) Opposite() Direction {
	return (d + 2) % 4
}

// Outward is the unit vector pointing out of a rectangle through this wall.
func (d Direction) Outward() geo.Point2D {
	switch d {
	case North:
		return geo.Pt(0, -1)
	case East:
		return geo.Pt(1, 0)
	case South:
		return geo.Pt(0, 1)
	default:
		return geo.Pt(-1, 0)
	}
}

// Wall returns the endpoints of r's wall in this direction. North and south
// walls run west to east, east and west walls run north to south.
func (d Direction) Wall(r geo.Rect) (geo.Point2D, geo.Point2D) {
	switch d {
	case North:
		return r.Min, geo.Pt(r.Max.X, r.Min.Z)
	case East:
		return geo.Pt(r.Max.X, r.Min.Z), r.Max
	case South:
		return geo.Pt(r.Min.X, r.Max.Z), r.Max
	default:
		return r.Min, geo.Pt(r.Min.X, r.Max.Z)
	}
}

// DoorKind classifies what a door connects a room to.
type DoorKind string

const (
	DoorExterior DoorKind = "exterior" // building perimeter
	DoorInterior DoorKind = "interior" // neighbouring room
	DoorHallway  DoorKind = "hallway"  // corridor
)

// Door is a single opening in a wall.
type Door struct {
	Kind   DoorKind `json:"kind"`
	Locked bool     `json:"locked,omitempty"`
}

// Range is a closed interval of areas.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Contains reports whether v lies within the range.
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Center returns the midpoint of the range.
func (r Range) Center() float64 {
	return (r.Min + r.Max) / 2
}

// RoomRequirement asks for one leaf with an area inside Area. The generator
// fills AssignedRect and NodeID once a leaf has been claimed.
type RoomRequirement struct {
	Name         string    `json:"name"`
	Area         Range     `json:"area"`
	DirectAccess bool      `json:"direct_access"`
	AssignedRect *geo.Rect `json:"assigned_rect,omitempty"`
	NodeID       string    `json:"node_id,omitempty"`
}

// Assigned reports whether a leaf has been claimed for the requirement.
func (r *RoomRequirement) Assigned() bool {
	return r.AssignedRect != nil
}

// SubdivisionParameters configures one partition round and the rooms to
// place after it.
type SubdivisionParameters struct {
	MinChildren int
	MaxChildren int
	Hallway     bool

	// A split is accepted with probability
	// clamp(AspectOffset - imbalance*AspectFactor, 0, 1).
	AspectFactor float64
	AspectOffset float64

	// Chance that an interior door stamped by this round is locked.
	LockedDoorChance float64

	Requirements []*RoomRequirement
}

// Round applies Params Repeat times.
type Round struct {
	Params SubdivisionParameters
	Repeat int
}
