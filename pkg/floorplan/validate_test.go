package floorplan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChicagoDave/floorplanner/pkg/geo"
)

// splitPlan returns a valid plan: a 20x10 footprint split into two rooms.
func splitPlan() *Plan {
	bounds := geo.NewRect(geo.Pt(0, 0), 20, 10)
	root := NewNode("0", bounds, false)
	root.Subdivide(NewRand(1), alwaysSplit(2, 2, false))
	return &Plan{Root: root, Bounds: bounds}
}

func TestValidatePlanAcceptsGenerated(t *testing.T) {
	plan, _, err := Generate(NewRand(17), manorRounds())
	require.NoError(t, err)

	r := ValidatePlan(plan)
	assert.True(t, r.Valid, "%v", r.Errors)
	assert.Empty(t, r.Warnings)
}

func TestValidatePlanNil(t *testing.T) {
	assert.False(t, ValidatePlan(nil).Valid)
	assert.False(t, ValidatePlan(&Plan{}).Valid)
}

func TestValidatePlanOverlap(t *testing.T) {
	p := splitPlan()
	right := p.Root.Children()[1]
	right.Rect = geo.NewRect(geo.Pt(5, 0), 15, 10)

	r := ValidatePlan(p)
	require.False(t, r.Valid)
	assert.Contains(t, r.Errors[0].Message, "overlap")
}

func TestValidatePlanGapWithoutCorridor(t *testing.T) {
	p := splitPlan()
	right := p.Root.Children()[1]
	right.Rect = geo.NewRect(geo.Pt(12, 0), 8, 10)

	r := ValidatePlan(p)
	assert.False(t, r.Valid)
}

func TestValidatePlanDoorsOnParent(t *testing.T) {
	p := splitPlan()
	p.Root.Doors[North] = []Door{{Kind: DoorExterior}}

	r := ValidatePlan(p)
	require.False(t, r.Valid)
	assert.Equal(t, "0", r.Errors[0].NodeID)
}

func TestValidatePlanRoomConstraints(t *testing.T) {
	p := splitPlan()
	leaf := p.Root.Children()[0]
	leaf.State = Room{Name: "pantry", Area: Range{Min: 1, Max: 10}}

	r := ValidatePlan(p)
	require.False(t, r.Valid)
	assert.Contains(t, r.Errors[0].Message, "pantry")
}

func TestValidatePlanDirectAccess(t *testing.T) {
	bounds := geo.NewRect(geo.Pt(0, 0), 30, 30)
	root := NewNode("0", bounds, false)
	rng := NewRand(1)
	root.Subdivide(rng, alwaysSplit(3, 3, false))
	root.Subdivide(rng, alwaysSplit(3, 3, false))
	center := root.Find("0.1.1")
	require.NotNil(t, center)
	require.False(t, center.Rect.TouchesBoundary(bounds))
	center.State = Room{Name: "vault", Area: Range{Min: 0, Max: 1000}, DirectAccess: true}

	r := ValidatePlan(&Plan{Root: root, Bounds: bounds})
	require.False(t, r.Valid)
	assert.Contains(t, r.Errors[0].Message, "perimeter")
}

func TestValidatePlanRequirementMismatch(t *testing.T) {
	p := splitPlan()
	leaf := p.Root.Children()[0]
	leaf.State = Room{Name: "den", Area: Range{Min: 0, Max: 1000}}

	wrong := geo.NewRect(geo.Pt(0, 0), 1, 1)
	p.Requirements = []*RoomRequirement{
		{Name: "den", Area: Range{Min: 0, Max: 1000}, AssignedRect: &wrong, NodeID: leaf.ID},
		{Name: "ghost", AssignedRect: &wrong, NodeID: "0.9"},
	}

	r := ValidatePlan(p)
	require.False(t, r.Valid)
	assert.Len(t, r.Errors, 2)
}

func TestCorridorArea(t *testing.T) {
	root := NewNode("0", geo.NewRect(geo.Pt(0, 0), 20, 15), false)
	root.Subdivide(NewRand(1), alwaysSplit(2, 2, true))
	assert.InDelta(t, 2*15, CorridorArea(root), 1e-9)
}
