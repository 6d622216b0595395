package validation

import (
	"fmt"
	"math"

	"github.com/ChicagoDave/floorplanner/pkg/spec"
)

// ValidateSchema performs Level 1 (schema) validation on a parsed BuildingSpec.
// It checks structural correctness before any randomness is drawn.
func ValidateSchema(s *spec.BuildingSpec) *Report {
	r := NewReport()

	validateRounds(s, r)
	validateBounds(s, r)

	return r
}

func validateRounds(s *spec.BuildingSpec, r *Report) {
	if len(s.Rounds) == 0 {
		r.AddError(Result{
			Level:    LevelSchema,
			Message:  "rounds must contain at least one round",
			SpecPath: "rounds",
			Expected: "at least 1 round",
		})
		return
	}

	for i, round := range s.Rounds {
		path := fmt.Sprintf("rounds[%d]", i)

		if round.Repeat < 0 {
			r.AddError(Result{
				Level:       LevelSchema,
				Message:     fmt.Sprintf("%s: repeat must be >= 0", path),
				SpecPath:    path + ".repeat",
				ActualValue: round.Repeat,
				Expected:    ">= 0",
			})
		}
		if round.MinChildren < 0 || round.MaxChildren < 0 {
			r.AddError(Result{
				Level:       LevelSchema,
				Message:     fmt.Sprintf("%s: child counts must be non-negative", path),
				SpecPath:    path + ".min_children",
				ActualValue: fmt.Sprintf("%d-%d", round.MinChildren, round.MaxChildren),
				Expected:    ">= 0",
			})
		}
		if round.MaxChildren > spec.MaxChildren {
			r.AddError(Result{
				Level:       LevelSchema,
				Message:     fmt.Sprintf("%s: max_children (%d) must not exceed %d", path, round.MaxChildren, spec.MaxChildren),
				SpecPath:    path + ".max_children",
				ActualValue: round.MaxChildren,
				Expected:    fmt.Sprintf("<= %d", spec.MaxChildren),
			})
		}
		if round.MinChildren > round.MaxChildren {
			r.AddError(Result{
				Level:       LevelSchema,
				Message:     fmt.Sprintf("%s: min_children (%d) must not exceed max_children (%d)", path, round.MinChildren, round.MaxChildren),
				SpecPath:    path + ".min_children",
				ActualValue: round.MinChildren,
				Expected:    fmt.Sprintf("<= %d", round.MaxChildren),
			})
		}
		if round.MaxChildren <= 1 {
			r.AddWarning(Result{
				Level:       LevelSchema,
				Message:     fmt.Sprintf("%s: max_children <= 1 never splits anything", path),
				SpecPath:    path + ".max_children",
				ActualValue: round.MaxChildren,
				Suggestions: []string{"Use max_children >= 2, or remove the round"},
			})
		}
		if notFinite(round.AspectFactor) || notFinite(round.AspectOffset) {
			r.AddError(Result{
				Level:    LevelSchema,
				Message:  fmt.Sprintf("%s: aspect_factor and aspect_offset must be finite", path),
				SpecPath: path + ".aspect_offset",
			})
		} else if round.AspectOffset <= 0 {
			r.AddWarning(Result{
				Level:       LevelSchema,
				Message:     fmt.Sprintf("%s: aspect_offset %.2f rejects every split", path, round.AspectOffset),
				SpecPath:    path + ".aspect_offset",
				ActualValue: round.AspectOffset,
				Expected:    "> 0",
			})
		}
		if round.LockedDoorChance < 0 || round.LockedDoorChance > 1 || math.IsNaN(round.LockedDoorChance) {
			r.AddError(Result{
				Level:       LevelSchema,
				Message:     fmt.Sprintf("%s: locked_door_chance must be within [0, 1]", path),
				SpecPath:    path + ".locked_door_chance",
				ActualValue: round.LockedDoorChance,
				Expected:    "0-1",
			})
		}

		for j, room := range round.Rooms {
			validateRoom(fmt.Sprintf("%s.rooms[%d]", path, j), room, r)
		}
	}
}

func validateRoom(path string, room spec.RoomDef, r *Report) {
	if room.AreaMin < 0 || notFinite(room.AreaMin) || notFinite(room.AreaMax) {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     fmt.Sprintf("%s (%s): area_min must be a finite non-negative number", path, room.Name),
			SpecPath:    path + ".area_min",
			ActualValue: room.AreaMin,
			Expected:    ">= 0",
		})
		return
	}
	if room.AreaMin > room.AreaMax {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     fmt.Sprintf("%s (%s): area_min (%.1f) must not exceed area_max (%.1f)", path, room.Name, room.AreaMin, room.AreaMax),
			SpecPath:    path + ".area_max",
			ActualValue: fmt.Sprintf("%.1f-%.1f", room.AreaMin, room.AreaMax),
		})
	}
	if room.Name == "" {
		r.AddInfo(Result{
			Level:    LevelSchema,
			Message:  fmt.Sprintf("%s has no name; it will be reported by index", path),
			SpecPath: path + ".name",
		})
	}
}

func validateBounds(s *spec.BuildingSpec, r *Report) {
	if s.Bounds == nil {
		return
	}
	if !(s.Bounds.Width > 0) || !(s.Bounds.Depth > 0) || notFinite(s.Bounds.Width) || notFinite(s.Bounds.Depth) {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     fmt.Sprintf("bounds %.1fx%.1f must have positive width and depth", s.Bounds.Width, s.Bounds.Depth),
			SpecPath:    "bounds",
			ActualValue: fmt.Sprintf("%.1fx%.1f", s.Bounds.Width, s.Bounds.Depth),
			Expected:    "> 0",
		})
	}
}

func notFinite(v float64) bool {
	return math.IsNaN(v) || math.IsInf(v, 0)
}
