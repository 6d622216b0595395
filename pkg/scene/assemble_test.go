package scene

import (
	"math"
	"testing"

	"github.com/ChicagoDave/floorplanner/pkg/floorplan"
	"github.com/ChicagoDave/floorplanner/pkg/geo"
	"github.com/ChicagoDave/floorplanner/pkg/spec"
)

func testPlan(t testing.TB, seed int64) *floorplan.Plan {
	t.Helper()
	s, err := spec.LoadProject("../../examples/default-building")
	if err != nil {
		t.Fatalf("LoadProject failed: %v", err)
	}
	plan, report, err := floorplan.GenerateSpec(s, seed)
	if err != nil {
		t.Fatalf("GenerateSpec failed: %v", err)
	}
	if !report.Valid {
		t.Fatalf("generation report invalid: %s", report.Summary)
	}
	return plan
}

func assembleTestGraph(t *testing.T) *Graph {
	t.Helper()
	return Assemble(testPlan(t, 11))
}

func TestAssembleProducesGraph(t *testing.T) {
	g := assembleTestGraph(t)
	if g == nil {
		t.Fatal("expected non-nil graph")
	}
	if len(g.Entities) == 0 {
		t.Fatal("expected entities")
	}
	t.Logf("scene graph: %d entities", len(g.Entities))
}

func TestAssembleEntityCounts(t *testing.T) {
	plan := testPlan(t, 11)
	g := Assemble(plan)

	leaves := len(plan.Root.LeafNodes())
	doors := 0
	for _, leaf := range plan.Root.LeafNodes() {
		doors += leaf.DoorCount()
	}

	tests := []struct {
		et   EntityType
		want int
	}{
		{EntityFloor, leaves},
		{EntityWall, 4 * leaves},
		{EntityLight, leaves},
		{EntityDoor, doors},
	}
	for _, tt := range tests {
		if got := len(g.Groups.EntityTypes[tt.et]); got != tt.want {
			t.Errorf("%s entities = %d, want %d", tt.et, got, tt.want)
		}
	}
}

func TestAssembleSingleRoom(t *testing.T) {
	bounds := geo.NewRect(geo.Pt(0, 0), 10, 8)
	root := floorplan.NewNode("0", bounds, false)
	root.State = floorplan.Room{Name: "studio", Area: floorplan.Range{Min: 0, Max: 100}}
	root.Doors[floorplan.East] = []floorplan.Door{{Kind: floorplan.DoorExterior}}

	g := Assemble(&floorplan.Plan{Root: root, Bounds: bounds, Seed: 4})

	if len(g.Entities) != 7 {
		t.Fatalf("entities = %d, want 7", len(g.Entities))
	}
	floor := g.Entity("0_floor")
	if floor == nil {
		t.Fatal("missing floor entity")
	}
	if floor.Material != "wood" || floor.Metadata["name"] != "studio" {
		t.Errorf("floor material=%s name=%v, want wood/studio", floor.Material, floor.Metadata["name"])
	}
	if len(floor.Children) != 6 {
		t.Errorf("floor children = %d, want 6", len(floor.Children))
	}

	door := g.Entity("0_door_east_0")
	if door == nil {
		t.Fatal("missing door entity")
	}
	if door.Position.X != 10 || door.Position.Z != 4 {
		t.Errorf("door at (%.1f, %.1f), want (10, 4)", door.Position.X, door.Position.Z)
	}
	if door.Dimensions.Z != doorWidth {
		t.Errorf("east door spans %.2f along Z, want %.2f", door.Dimensions.Z, doorWidth)
	}

	wall := g.Entity("0_wall_north")
	if wall == nil || wall.Dimensions.X != 10 || wall.Position.Z != 0 {
		t.Errorf("north wall = %+v, want 10m long at z=0", wall)
	}

	if g.Metadata.Seed != 4 || g.Metadata.Rooms != 1 {
		t.Errorf("metadata seed=%d rooms=%d, want 4/1", g.Metadata.Seed, g.Metadata.Rooms)
	}
}

func TestAssembleCorridors(t *testing.T) {
	bounds := geo.NewRect(geo.Pt(0, 0), 20, 15)
	root := floorplan.NewNode("0", bounds, false)
	root.Subdivide(floorplan.NewRand(1), floorplan.SubdivisionParameters{
		MinChildren: 2, MaxChildren: 2, Hallway: true, AspectOffset: 1,
	})

	g := Assemble(&floorplan.Plan{Root: root, Bounds: bounds})
	hall := g.Entity("0_hall_0")
	if hall == nil {
		t.Fatal("missing corridor entity")
	}
	if hall.Position.X != 10 || hall.Dimensions.X != floorplan.HallWidth {
		t.Errorf("corridor at x=%.1f width %.1f, want 10/%.1f", hall.Position.X, hall.Dimensions.X, floorplan.HallWidth)
	}
	if ids := g.Groups.Regions["0_hall_0"]; len(ids) != 1 {
		t.Errorf("corridor region group = %v, want one entity", ids)
	}
}

func TestAssembleGroupsPopulated(t *testing.T) {
	g := assembleTestGraph(t)

	if len(g.Groups.Regions) == 0 {
		t.Error("regions group is empty")
	}
	if len(g.Groups.Layers) != 3 {
		t.Errorf("layers = %d, want 3", len(g.Groups.Layers))
	}
	if len(g.Groups.EntityTypes) == 0 {
		t.Error("entity_types group is empty")
	}
	t.Logf("groups: %d regions, %d layers, %d entity_types",
		len(g.Groups.Regions), len(g.Groups.Layers), len(g.Groups.EntityTypes))
}

func TestAssembleMetadata(t *testing.T) {
	g := assembleTestGraph(t)

	if g.Metadata.Seed != 11 {
		t.Errorf("expected seed 11, got %d", g.Metadata.Seed)
	}
	if g.Metadata.GeneratedAt == "" {
		t.Error("generated_at is empty")
	}
	if g.Metadata.BuildingBounds.Min.X >= g.Metadata.BuildingBounds.Max.X {
		t.Error("building_bounds min.x >= max.x")
	}
	if math.Abs(g.Metadata.BuildingBounds.Max.Y-wallHeight) > 1e-9 {
		t.Errorf("building height = %.1f, want %.1f", g.Metadata.BuildingBounds.Max.Y, wallHeight)
	}
}

func TestAssembleBoundsEncloseEntities(t *testing.T) {
	g := assembleTestGraph(t)
	bounds := g.Metadata.BuildingBounds

	for _, e := range g.Entities {
		if e.Position.X < bounds.Min.X || e.Position.X > bounds.Max.X {
			t.Errorf("entity %s X=%.1f outside bounds [%.1f, %.1f]",
				e.ID, e.Position.X, bounds.Min.X, bounds.Max.X)
			break
		}
		if e.Position.Z < bounds.Min.Z || e.Position.Z > bounds.Max.Z {
			t.Errorf("entity %s Z=%.1f outside bounds [%.1f, %.1f]",
				e.ID, e.Position.Z, bounds.Min.Z, bounds.Max.Z)
			break
		}
	}
}

func TestAssembleUniqueEntityIDs(t *testing.T) {
	g := assembleTestGraph(t)
	seen := map[string]bool{}
	for _, e := range g.Entities {
		if seen[e.ID] {
			t.Errorf("duplicate entity ID: %s", e.ID)
		}
		seen[e.ID] = true
	}
}
