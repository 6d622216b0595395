package scene

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/ChicagoDave/floorplanner/pkg/floorplan"
	"github.com/ChicagoDave/floorplanner/pkg/topology"
)

// GeoJSON exports a plan as a feature collection in plan coordinates
// (X as x, Z as y): one polygon per leaf and corridor, one point per door.
func GeoJSON(p *floorplan.Plan) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	outline := geojson.NewFeature(p.Bounds.Bound().ToPolygon())
	outline.ID = "building"
	outline.Properties["kind"] = "building"
	outline.Properties["seed"] = p.Seed
	outline.Properties["area"] = p.Bounds.Area()
	fc.Append(outline)

	for _, leaf := range p.Root.LeafNodes() {
		f := geojson.NewFeature(leaf.Rect.Bound().ToPolygon())
		f.ID = leaf.ID
		f.Properties["kind"] = leaf.Kind()
		f.Properties["area"] = leaf.Rect.Area()
		if room, ok := leaf.State.(floorplan.Room); ok {
			f.Properties["name"] = room.Name
			f.Properties["direct_access"] = room.DirectAccess
		}
		fc.Append(f)
	}

	p.Root.Walk(func(n *floorplan.Node) bool {
		for i, gap := range n.Corridors() {
			f := geojson.NewFeature(gap.Bound().ToPolygon())
			f.ID = topology.CorridorID(n.ID, i)
			f.Properties["kind"] = "corridor"
			f.Properties["area"] = gap.Area()
			fc.Append(f)
		}
		return true
	})

	for _, leaf := range p.Root.LeafNodes() {
		for _, d := range floorplan.Directions {
			for i, door := range leaf.Doors[d] {
				at := leaf.DoorPosition(d, i)
				f := geojson.NewFeature(orb.Point{at.X, at.Z})
				f.Properties["kind"] = "door"
				f.Properties["door"] = string(door.Kind)
				f.Properties["locked"] = door.Locked
				f.Properties["wall"] = d.String()
				f.Properties["node"] = leaf.ID
				fc.Append(f)
			}
		}
	}

	return fc
}
