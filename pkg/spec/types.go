package spec

// MaxChildren caps max_children in a round. A node split further than this
// would leave slivers below any usable room size.
const MaxChildren = 64

// BuildingSpec is the top-level description of a building to generate.
type BuildingSpec struct {
	SpecVersion string     `yaml:"spec_version" json:"spec_version"`
	Name        string     `yaml:"name" json:"name"`
	Seed        int64      `yaml:"seed" json:"seed"`
	Bounds      *BoundsDef `yaml:"bounds,omitempty" json:"bounds,omitempty"`
	Rounds      []RoundDef `yaml:"rounds" json:"rounds"`
}

// BoundsDef pins the building footprint instead of deriving it from the
// requested room areas.
type BoundsDef struct {
	Width float64 `yaml:"width" json:"width"`
	Depth float64 `yaml:"depth" json:"depth"`
}

// RoundDef is one set of subdivision parameters, applied Repeat times, with
// the rooms to place once those subdivisions have run.
type RoundDef struct {
	Repeat           int       `yaml:"repeat" json:"repeat"`
	MinChildren      int       `yaml:"min_children" json:"min_children"`
	MaxChildren      int       `yaml:"max_children" json:"max_children"`
	Hallway          bool      `yaml:"hallway" json:"hallway"`
	AspectFactor     float64   `yaml:"aspect_factor" json:"aspect_factor"`
	AspectOffset     float64   `yaml:"aspect_offset" json:"aspect_offset"`
	LockedDoorChance float64   `yaml:"locked_door_chance" json:"locked_door_chance"`
	Rooms            []RoomDef `yaml:"rooms" json:"rooms"`
}

// RoomDef requests a room with an area in [AreaMin, AreaMax].
type RoomDef struct {
	Name         string  `yaml:"name" json:"name"`
	AreaMin      float64 `yaml:"area_min" json:"area_min"`
	AreaMax      float64 `yaml:"area_max" json:"area_max"`
	DirectAccess bool    `yaml:"direct_access" json:"direct_access"`
}

// RoomCount returns the number of rooms requested across all rounds.
func (s *BuildingSpec) RoomCount() int {
	n := 0
	for _, r := range s.Rounds {
		n += len(r.Rooms)
	}
	return n
}
