package scene

import (
	"fmt"
	"math"
	"time"

	"github.com/ChicagoDave/floorplanner/pkg/floorplan"
	"github.com/ChicagoDave/floorplanner/pkg/geo"
	"github.com/ChicagoDave/floorplanner/pkg/topology"
)

const (
	wallHeight     = 3.0 // meters per story
	wallThickness  = 0.2
	floorThickness = 0.1
	doorWidth      = 0.9
	doorHeight     = 2.1
	lightSize      = 0.3
)

// Assemble converts a generated plan into a scene graph: a floor, four
// walls and a ceiling light per leaf, a floor slab per corridor, and one
// entity per door.
func Assemble(p *floorplan.Plan) *Graph {
	g := NewGraph()

	for _, leaf := range p.Root.LeafNodes() {
		assembleLeaf(leaf, g)
	}
	p.Root.Walk(func(n *floorplan.Node) bool {
		for i, gap := range n.Corridors() {
			assembleCorridor(topology.CorridorID(n.ID, i), gap, g)
		}
		return true
	})

	unassigned := make([]string, 0, len(p.Unassigned))
	for _, req := range p.Unassigned {
		unassigned = append(unassigned, req.Name)
	}

	g.Metadata = Metadata{
		Seed:           p.Seed,
		GeneratedAt:    time.Now().UTC().Format(time.RFC3339),
		BuildingBounds: computeBounds(g.Entities),
		Rooms:          len(p.Root.Rooms()),
		Unassigned:     unassigned,
	}

	return g
}

func assembleLeaf(leaf *floorplan.Node, g *Graph) {
	mat := "concrete"
	meta := map[string]any{
		"state": leaf.Kind(),
		"area":  leaf.Rect.Area(),
	}
	if room, ok := leaf.State.(floorplan.Room); ok {
		mat = "wood"
		meta["name"] = room.Name
		meta["direct_access"] = room.DirectAccess
	}

	floor := Entity{
		ID:         leaf.ID + "_floor",
		Type:       EntityFloor,
		Position:   base(leaf.Rect.Center(), 0),
		Dimensions: Vec3{X: leaf.Rect.Width(), Y: floorThickness, Z: leaf.Rect.Height()},
		Rotation:   identityQuat(),
		Material:   mat,
		Region:     leaf.ID,
		Layer:      LayerFloor,
		Metadata:   meta,
	}

	for _, d := range floorplan.Directions {
		wall := wallEntity(leaf, d)
		floor.Children = append(floor.Children, wall.ID)
		addEntity(g, wall)

		for i, door := range leaf.Doors[d] {
			e := doorEntity(leaf, d, i, door)
			floor.Children = append(floor.Children, e.ID)
			addEntity(g, e)
		}
	}

	light := Entity{
		ID:         leaf.ID + "_light",
		Type:       EntityLight,
		Position:   base(leaf.Rect.Center(), wallHeight-lightSize),
		Dimensions: Vec3{X: lightSize, Y: lightSize, Z: lightSize},
		Rotation:   identityQuat(),
		Material:   "glass",
		Region:     leaf.ID,
		Layer:      LayerFixtures,
		Metadata:   map[string]any{"intensity": lightIntensity(leaf.Rect.Area())},
	}
	floor.Children = append(floor.Children, light.ID)
	addEntity(g, light)

	addEntity(g, floor)
}

func wallEntity(leaf *floorplan.Node, d floorplan.Direction) Entity {
	from, to := d.Wall(leaf.Rect)
	dims := Vec3{X: from.Distance(to), Y: wallHeight, Z: wallThickness}
	if d == floorplan.East || d == floorplan.West {
		dims.X, dims.Z = wallThickness, from.Distance(to)
	}
	return Entity{
		ID:         fmt.Sprintf("%s_wall_%s", leaf.ID, d),
		Type:       EntityWall,
		Position:   base(geo.MidPoint(from, to), 0),
		Dimensions: dims,
		Rotation:   identityQuat(),
		Material:   "plaster",
		Region:     leaf.ID,
		Layer:      LayerStructure,
		Metadata:   map[string]any{"wall": d.String(), "doors": len(leaf.Doors[d])},
	}
}

func doorEntity(leaf *floorplan.Node, d floorplan.Direction, i int, door floorplan.Door) Entity {
	dims := Vec3{X: doorWidth, Y: doorHeight, Z: wallThickness}
	if d == floorplan.East || d == floorplan.West {
		dims.X, dims.Z = wallThickness, doorWidth
	}

	mat := "oak"
	switch {
	case door.Locked:
		mat = "iron"
	case door.Kind == floorplan.DoorExterior:
		mat = "steel"
	}

	out := d.Outward()
	return Entity{
		ID:         fmt.Sprintf("%s_door_%s_%d", leaf.ID, d, i),
		Type:       EntityDoor,
		Position:   base(leaf.DoorPosition(d, i), 0),
		Dimensions: dims,
		Rotation:   yawQuat(math.Atan2(out.Z, out.X)),
		Material:   mat,
		Region:     leaf.ID,
		Layer:      LayerStructure,
		Metadata: map[string]any{
			"kind":   string(door.Kind),
			"locked": door.Locked,
			"wall":   d.String(),
		},
	}
}

func assembleCorridor(id string, gap geo.Rect, g *Graph) {
	addEntity(g, Entity{
		ID:         id,
		Type:       EntityCorridor,
		Position:   base(gap.Center(), 0),
		Dimensions: Vec3{X: gap.Width(), Y: floorThickness, Z: gap.Height()},
		Rotation:   identityQuat(),
		Material:   "tile",
		Region:     id,
		Layer:      LayerFloor,
		Metadata:   map[string]any{"area": gap.Area()},
	})
}

// lightIntensity scales with floor area so larger rooms stay lit.
func lightIntensity(area float64) float64 {
	return math.Round(math.Sqrt(area)*100) / 100
}

// addEntity appends an entity and updates all group indices.
func addEntity(g *Graph, e Entity) {
	g.Entities = append(g.Entities, e)
	id := e.ID

	if e.Region != "" {
		g.Groups.Regions[e.Region] = append(g.Groups.Regions[e.Region], id)
	}
	g.Groups.Layers[e.Layer] = append(g.Groups.Layers[e.Layer], id)
	g.Groups.EntityTypes[e.Type] = append(g.Groups.EntityTypes[e.Type], id)
}

// computeBounds calculates the AABB of all entities.
func computeBounds(entities []Entity) BoundingBox {
	if len(entities) == 0 {
		return BoundingBox{}
	}
	minV := Vec3{X: math.MaxFloat64, Y: math.MaxFloat64, Z: math.MaxFloat64}
	maxV := Vec3{X: -math.MaxFloat64, Y: -math.MaxFloat64, Z: -math.MaxFloat64}

	for _, e := range entities {
		halfX := e.Dimensions.X / 2
		halfZ := e.Dimensions.Z / 2

		minV.X = math.Min(minV.X, e.Position.X-halfX)
		maxV.X = math.Max(maxV.X, e.Position.X+halfX)
		minV.Y = math.Min(minV.Y, e.Position.Y)
		maxV.Y = math.Max(maxV.Y, e.Position.Y+e.Dimensions.Y)
		minV.Z = math.Min(minV.Z, e.Position.Z-halfZ)
		maxV.Z = math.Max(maxV.Z, e.Position.Z+halfZ)
	}
	return BoundingBox{Min: minV, Max: maxV}
}

func base(p geo.Point2D, y float64) Vec3 {
	return Vec3{X: p.X, Y: y, Z: p.Z}
}

func identityQuat() [4]float64 {
	return [4]float64{0, 0, 0, 1}
}

func yawQuat(angle float64) [4]float64 {
	half := angle / 2
	return [4]float64{0, math.Sin(half), 0, math.Cos(half)}
}
