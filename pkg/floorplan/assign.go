package floorplan

import (
	"math/rand/v2"

	"github.com/sirupsen/logrus"

	"github.com/ChicagoDave/floorplanner/pkg/geo"
	"github.com/ChicagoDave/floorplanner/pkg/logger"
)

// AcceptProbability is the chance that a leaf of the given area is claimed
// by a requirement whose area range is centred on center. Smaller leaves
// are favoured.
func AcceptProbability(center, area float64) float64 {
	if center+area <= 0 {
		return 0
	}
	return center / (center + area)
}

// Candidates returns the untouched leaves a requirement may claim: area
// inside the requirement's range and, for direct-access rooms, touching the
// building boundary.
func Candidates(root *Node, bounds geo.Rect, req *RoomRequirement) []*Node {
	var out []*Node
	for _, leaf := range root.UntouchedLeaves() {
		if !req.Area.Contains(leaf.Rect.Area()) {
			continue
		}
		if req.DirectAccess && !leaf.Rect.TouchesBoundary(bounds) {
			continue
		}
		out = append(out, leaf)
	}
	return out
}

// Assign tries to bind every pending requirement to an untouched leaf and
// returns the requirements still unmatched, in their original order.
//
// Candidates are flipped one at a time with AcceptProbability; the first
// success claims the leaf as a Room and ends the search for that
// requirement, so a requirement never holds more than one room.
func Assign(rng *rand.Rand, root *Node, bounds geo.Rect, pending []*RoomRequirement) []*RoomRequirement {
	log := logger.For("assign")

	var remaining []*RoomRequirement
	for _, req := range pending {
		if req.Assigned() {
			continue
		}
		leaf := claim(rng, root, bounds, req)
		if leaf == nil {
			remaining = append(remaining, req)
			continue
		}
		log.WithFields(logrus.Fields{
			"room": req.Name,
			"node": leaf.ID,
			"area": leaf.Rect.Area(),
		}).Debug("requirement assigned")
	}
	return remaining
}

func claim(rng *rand.Rand, root *Node, bounds geo.Rect, req *RoomRequirement) *Node {
	center := req.Area.Center()
	for _, leaf := range Candidates(root, bounds, req) {
		if rng.Float64() >= AcceptProbability(center, leaf.Rect.Area()) {
			continue
		}
		leaf.State = Room{Name: req.Name, Area: req.Area, DirectAccess: req.DirectAccess}
		rect := leaf.Rect
		req.AssignedRect = &rect
		req.NodeID = leaf.ID
		return leaf
	}
	return nil
}
