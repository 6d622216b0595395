package scene

// LayerType identifies a vertical layer of the building.
type LayerType string

const (
	LayerFloor     LayerType = "floor"
	LayerStructure LayerType = "structure"
	LayerFixtures  LayerType = "fixtures"
)

// EntityType identifies the kind of entity.
type EntityType string

const (
	EntityFloor    EntityType = "floor"
	EntityCorridor EntityType = "corridor"
	EntityWall     EntityType = "wall"
	EntityDoor     EntityType = "door"
	EntityLight    EntityType = "light"
)

// Vec3 is a 3D vector. Y is up; X and Z match the floor plan.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// BoundingBox defines an axis-aligned bounding box.
type BoundingBox struct {
	Min Vec3 `json:"min"`
	Max Vec3 `json:"max"`
}

// Entity is a single element in the scene graph. Position is the centre of
// the footprint at the entity's base; Dimensions are axis-aligned.
type Entity struct {
	ID         string         `json:"id"`
	Type       EntityType     `json:"type"`
	Position   Vec3           `json:"position"`
	Dimensions Vec3           `json:"dimensions"`
	Rotation   [4]float64     `json:"rotation"` // quaternion [x, y, z, w]
	Material   string         `json:"material"`
	Region     string         `json:"region,omitempty"`
	Layer      LayerType      `json:"layer"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	Children   []string       `json:"children,omitempty"`
}

// Graph is the complete scene graph for one generated building.
type Graph struct {
	Metadata Metadata `json:"metadata"`
	Entities []Entity `json:"entities"`
	Groups   Groups   `json:"groups"`
}

// Metadata holds scene-level information.
type Metadata struct {
	Seed           int64       `json:"seed"`
	GeneratedAt    string      `json:"generated_at"`
	BuildingBounds BoundingBox `json:"building_bounds"`
	Rooms          int         `json:"rooms"`
	Unassigned     []string    `json:"unassigned,omitempty"`
}

// Groups organizes entity IDs by various axes for fast filtering.
type Groups struct {
	Regions     map[string][]string     `json:"regions"`
	Layers      map[LayerType][]string  `json:"layers"`
	EntityTypes map[EntityType][]string `json:"entity_types"`
}

// NewGraph creates an empty scene graph.
func NewGraph() *Graph {
	return &Graph{
		Entities: []Entity{},
		Groups: Groups{
			Regions:     make(map[string][]string),
			Layers:      make(map[LayerType][]string),
			EntityTypes: make(map[EntityType][]string),
		},
	}
}

// Entity returns the entity with the given ID, or nil.
func (g *Graph) Entity(id string) *Entity {
	for i := range g.Entities {
		if g.Entities[i].ID == id {
			return &g.Entities[i]
		}
	}
	return nil
}
