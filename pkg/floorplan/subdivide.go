package floorplan

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/sirupsen/logrus"

	"github.com/ChicagoDave/floorplanner/pkg/geo"
	"github.com/ChicagoDave/floorplanner/pkg/logger"
)

// AspectImbalance measures how far a width x height rectangle is from
// square: 0 for a square, approaching 0.5 for a sliver.
func AspectImbalance(width, height float64) float64 {
	return math.Abs(width/(width+height) - 0.5)
}

// SplitProbability is the chance of accepting a split whose children are
// width x height. Children not larger than MinRoomDim on both sides are
// never accepted.
func SplitProbability(width, height, aspectFactor, aspectOffset float64) float64 {
	if !(width > MinRoomDim) || !(height > MinRoomDim) {
		return 0
	}
	p := aspectOffset - AspectImbalance(width, height)*aspectFactor
	return math.Max(0, math.Min(1, p))
}

// Subdivide grows the tree by one round. An untouched node tries to split
// into k children with k drawn from [MinChildren, MaxChildren]; a parent
// passes the round down to every child; rooms are left alone.
func (n *Node) Subdivide(rng *rand.Rand, params SubdivisionParameters) {
	switch s := n.State.(type) {
	case nil, Untouched:
		hi := min(params.MaxChildren, MaxSplitChildren)
		if hi < params.MinChildren {
			return
		}
		k := params.MinChildren + rng.IntN(hi-params.MinChildren+1)
		n.divideEvenly(rng, k, params)
	case Parent:
		for _, c := range s.Children {
			c.Subdivide(rng, params)
		}
	}
}

// divideEvenly attempts to split the node into k equal children along the
// axis opposite to its own orientation. It reports whether the split was
// accepted; a rejected node stays untouched.
func (n *Node) divideEvenly(rng *rand.Rand, k int, params SubdivisionParameters) bool {
	if k <= 1 {
		return false
	}
	log := logger.For("subdivide").WithFields(logrus.Fields{
		"node":     n.ID,
		"children": k,
		"hallway":  params.Hallway,
	})

	horizontal := !n.Horizontal
	gap := 0.0
	if params.Hallway {
		gap = HallWidth
	}

	width, height := n.Rect.Width(), n.Rect.Height()
	if horizontal {
		width = (width - gap*float64(k-1)) / float64(k)
	} else {
		height = (height - gap*float64(k-1)) / float64(k)
	}

	p := SplitProbability(width, height, params.AspectFactor, params.AspectOffset)
	if p == 0 || rng.Float64() >= p {
		log.WithField("probability", p).Debug("split rejected")
		return false
	}

	children := make([]*Node, k)
	for i := range children {
		var rect geo.Rect
		if horizontal {
			offset := float64(i) * (gap + width)
			rect = geo.NewRect(geo.Pt(n.Rect.Min.X+offset, n.Rect.Min.Z), width, height)
		} else {
			offset := float64(i) * (gap + height)
			rect = geo.NewRect(geo.Pt(n.Rect.Min.X, n.Rect.Min.Z+offset), width, height)
		}
		children[i] = NewNode(fmt.Sprintf("%s.%d", n.ID, i), rect, horizontal)
	}

	n.handDownDoors(children, horizontal)
	stampDoors(rng, children, horizontal, params)
	n.State = Parent{Children: children, ViaHallway: params.Hallway}

	log.WithField("probability", p).Debug("split accepted")
	return true
}

// splitFaces returns the faces of a child pointing at its previous and next
// sibling for a split along the given axis.
func splitFaces(horizontal bool) (prev, next Direction) {
	if horizontal {
		return West, East
	}
	return North, South
}

// handDownDoors moves the node's doors onto the children that now own the
// wall. End-face doors go to the first or last child; doors on the faces
// running along the split go to the child whose span holds the door.
func (n *Node) handDownDoors(children []*Node, horizontal bool) {
	prev, next := splitFaces(horizontal)
	first, last := children[0], children[len(children)-1]
	first.Doors[prev] = append(first.Doors[prev], n.Doors[prev]...)
	last.Doors[next] = append(last.Doors[next], n.Doors[next]...)

	sides := [2]Direction{North, South}
	if !horizontal {
		sides = [2]Direction{West, East}
	}
	for _, d := range sides {
		for i, door := range n.Doors[d] {
			pos := n.DoorPosition(d, i)
			c := childAt(children, pos, horizontal)
			c.Doors[d] = append(c.Doors[d], door)
		}
	}

	n.Doors = [4][]Door{}
}

// childAt returns the child whose span along the split axis contains pos,
// or the nearest child when pos falls in a corridor gap.
func childAt(children []*Node, pos geo.Point2D, horizontal bool) *Node {
	best := children[0]
	bestDist := math.Inf(1)
	for _, c := range children {
		lo, hi, v := c.Rect.Min.Z, c.Rect.Max.Z, pos.Z
		if horizontal {
			lo, hi, v = c.Rect.Min.X, c.Rect.Max.X, pos.X
		}
		var dist float64
		switch {
		case v < lo:
			dist = lo - v
		case v > hi:
			dist = v - hi
		}
		if dist < bestDist {
			best, bestDist = c, dist
		}
	}
	return best
}

// stampDoors records how fresh siblings connect. Hallway rounds put a
// hallway door on every face bordering a corridor gap. Other rounds put one
// interior door on each shared wall, owned by the later sibling.
func stampDoors(rng *rand.Rand, children []*Node, horizontal bool, params SubdivisionParameters) {
	prev, next := splitFaces(horizontal)
	for i, c := range children {
		if params.Hallway {
			if i > 0 {
				c.Doors[prev] = append(c.Doors[prev], Door{Kind: DoorHallway})
			}
			if i < len(children)-1 {
				c.Doors[next] = append(c.Doors[next], Door{Kind: DoorHallway})
			}
			continue
		}
		if i > 0 {
			locked := params.LockedDoorChance > 0 && rng.Float64() < params.LockedDoorChance
			c.Doors[prev] = append(c.Doors[prev], Door{Kind: DoorInterior, Locked: locked})
		}
	}
}
