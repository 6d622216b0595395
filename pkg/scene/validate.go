package scene

import (
	"fmt"

	"github.com/zyedidia/generic/mapset"

	"github.com/ChicagoDave/floorplanner/pkg/validation"
)

// ValidateGraph performs structural validation on a scene graph output.
// It checks entity integrity, group index consistency, and bounds enclosure.
func ValidateGraph(g *Graph) *validation.Report {
	r := validation.NewReport()

	if g == nil {
		r.AddError(validation.Result{
			Level:   validation.LevelStructural,
			Message: "scene graph is nil",
		})
		return r
	}

	validateEntityIDs(g, r)
	validateGroupIndices(g, r)
	validateGroupMembership(g, r)
	validateChildren(g, r)
	validateBoundsEnclosure(g, r)
	validateEntityDimensions(g, r)

	return r
}

func validateEntityIDs(g *Graph, r *validation.Report) {
	seen := make(map[string]int, len(g.Entities))

	for i, e := range g.Entities {
		if e.ID == "" {
			r.AddError(validation.Result{
				Level:       validation.LevelStructural,
				Message:     fmt.Sprintf("entity at index %d has empty ID", i),
				SpecPath:    fmt.Sprintf("entities[%d].id", i),
				ActualValue: "",
				Expected:    "non-empty string",
			})
			continue
		}
		if prev, exists := seen[e.ID]; exists {
			r.AddError(validation.Result{
				Level:       validation.LevelStructural,
				Message:     fmt.Sprintf("duplicate entity ID %q at indices %d and %d", e.ID, prev, i),
				SpecPath:    fmt.Sprintf("entities[%d].id", i),
				ActualValue: e.ID,
			})
		}
		seen[e.ID] = i
	}
}

func entityIDs(g *Graph) mapset.Set[string] {
	ids := mapset.New[string]()
	for _, e := range g.Entities {
		ids.Put(e.ID)
	}
	return ids
}

func validateGroupIndices(g *Graph, r *validation.Report) {
	ids := entityIDs(g)

	checkGroup := func(groupType, groupName string, members []string) {
		for _, id := range members {
			if !ids.Has(id) {
				r.AddError(validation.Result{
					Level:       validation.LevelStructural,
					Message:     fmt.Sprintf("group %s.%s references non-existent entity %q", groupType, groupName, id),
					SpecPath:    fmt.Sprintf("groups.%s.%s", groupType, groupName),
					ActualValue: id,
					Expected:    "existing entity ID",
				})
			}
		}
	}

	for name, members := range g.Groups.Regions {
		checkGroup("regions", name, members)
	}
	for name, members := range g.Groups.Layers {
		checkGroup("layers", string(name), members)
	}
	for name, members := range g.Groups.EntityTypes {
		checkGroup("entity_types", string(name), members)
	}
}

// groupSets indexes each group's members for membership checks.
func groupSets[K ~string](groups map[K][]string) map[string]mapset.Set[string] {
	out := make(map[string]mapset.Set[string], len(groups))
	for name, members := range groups {
		s := mapset.New[string]()
		for _, id := range members {
			s.Put(id)
		}
		out[string(name)] = s
	}
	return out
}

func validateGroupMembership(g *Graph, r *validation.Report) {
	layers := groupSets(g.Groups.Layers)
	types := groupSets(g.Groups.EntityTypes)
	regions := groupSets(g.Groups.Regions)

	check := func(e Entity, axis, value string, sets map[string]mapset.Set[string]) {
		s, ok := sets[value]
		switch {
		case !ok:
			r.AddError(validation.Result{
				Level:       validation.LevelStructural,
				Message:     fmt.Sprintf("entity %q has %s %q but no such group exists", e.ID, axis, value),
				SpecPath:    "groups." + axis + "s",
				ActualValue: value,
			})
		case !s.Has(e.ID):
			r.AddError(validation.Result{
				Level:       validation.LevelStructural,
				Message:     fmt.Sprintf("entity %q has %s %q but is not in that group", e.ID, axis, value),
				SpecPath:    fmt.Sprintf("groups.%ss.%s", axis, value),
				ActualValue: e.ID,
			})
		}
	}

	for _, e := range g.Entities {
		if e.ID == "" {
			continue
		}
		if e.Layer != "" {
			check(e, "layer", string(e.Layer), layers)
		}
		if e.Type != "" {
			check(e, "entity_type", string(e.Type), types)
		}
		if e.Region != "" {
			check(e, "region", e.Region, regions)
		}
	}
}

func validateChildren(g *Graph, r *validation.Report) {
	ids := entityIDs(g)
	for _, e := range g.Entities {
		for _, child := range e.Children {
			if !ids.Has(child) {
				r.AddError(validation.Result{
					Level:       validation.LevelStructural,
					Message:     fmt.Sprintf("entity %q lists missing child %q", e.ID, child),
					SpecPath:    fmt.Sprintf("entities.%s.children", e.ID),
					ActualValue: child,
				})
			}
		}
	}
}

func validateBoundsEnclosure(g *Graph, r *validation.Report) {
	bounds := g.Metadata.BuildingBounds
	tolerance := 0.5

	for _, e := range g.Entities {
		halfX := e.Dimensions.X / 2
		halfZ := e.Dimensions.Z / 2

		if e.Position.X-halfX < bounds.Min.X-tolerance || e.Position.X+halfX > bounds.Max.X+tolerance {
			r.AddWarning(validation.Result{
				Level:       validation.LevelStructural,
				Message:     fmt.Sprintf("entity %q X extent [%.1f, %.1f] outside building bounds [%.1f, %.1f]", e.ID, e.Position.X-halfX, e.Position.X+halfX, bounds.Min.X, bounds.Max.X),
				SpecPath:    "metadata.building_bounds",
				ActualValue: e.Position.X,
			})
			break
		}
		if e.Position.Z-halfZ < bounds.Min.Z-tolerance || e.Position.Z+halfZ > bounds.Max.Z+tolerance {
			r.AddWarning(validation.Result{
				Level:       validation.LevelStructural,
				Message:     fmt.Sprintf("entity %q Z extent [%.1f, %.1f] outside building bounds [%.1f, %.1f]", e.ID, e.Position.Z-halfZ, e.Position.Z+halfZ, bounds.Min.Z, bounds.Max.Z),
				SpecPath:    "metadata.building_bounds",
				ActualValue: e.Position.Z,
			})
			break
		}
	}
}

func validateEntityDimensions(g *Graph, r *validation.Report) {
	for _, e := range g.Entities {
		if e.Dimensions.X <= 0 || e.Dimensions.Y <= 0 || e.Dimensions.Z <= 0 {
			r.AddWarning(validation.Result{
				Level:       validation.LevelStructural,
				Message:     fmt.Sprintf("entity %q has zero or negative dimension (%.2f, %.2f, %.2f)", e.ID, e.Dimensions.X, e.Dimensions.Y, e.Dimensions.Z),
				SpecPath:    fmt.Sprintf("entities.%s.dimensions", e.ID),
				ActualValue: fmt.Sprintf("%.2f x %.2f x %.2f", e.Dimensions.X, e.Dimensions.Y, e.Dimensions.Z),
				Expected:    "all dimensions > 0",
			})
		}
	}
}
