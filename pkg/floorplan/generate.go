package floorplan

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ChicagoDave/floorplanner/pkg/geo"
	"github.com/ChicagoDave/floorplanner/pkg/logger"
	"github.com/ChicagoDave/floorplanner/pkg/spec"
	"github.com/ChicagoDave/floorplanner/pkg/validation"
)

// ErrInvalidRounds is wrapped by every caller-misuse error from Generate.
var ErrInvalidRounds = errors.New("invalid generation rounds")

// Plan is a finished building: the partition tree and its footprint.
type Plan struct {
	Seed         int64              `json:"seed,omitempty"`
	Bounds       geo.Rect           `json:"bounds"`
	Root         *Node              `json:"root"`
	Requirements []*RoomRequirement `json:"requirements"`
	Unassigned   []*RoomRequirement `json:"unassigned"`
}

// Leaves returns the rectangle of every leaf in the plan.
func (p *Plan) Leaves() []geo.Rect {
	return p.Root.Leaves()
}

// AllNodes returns every node in the plan.
func (p *Plan) AllNodes() []*Node {
	return p.Root.AllNodes()
}

// NewRand returns a PCG-backed generator. Equal seeds give equal plans.
func NewRand(seed int64) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15))
}

// ResolveSeed picks the first non-zero seed, falling back to the clock.
func ResolveSeed(seeds ...int64) int64 {
	for _, s := range seeds {
		if s != 0 {
			return s
		}
	}
	return time.Now().UnixNano()
}

// SizeBounds derives the building footprint from the requirements: the
// sum of their area midpoints (at least MinBuildingArea), shaped by an
// aspect angle near 45 degrees and a random scale.
func SizeBounds(rng *rand.Rand, rounds []Round) geo.Rect {
	area := 0.0
	for _, r := range rounds {
		for _, req := range r.Params.Requirements {
			area += req.Area.Center()
		}
	}
	area = math.Max(area, MinBuildingArea)

	theta := math.Pi/4 - AspectVariation + rng.Float64()*2*AspectVariation
	scale := 1 + rng.Float64()*SizeVariation
	side := math.Sqrt(area) * scale
	return geo.NewRect(geo.Pt(0, 0), side*math.Cos(theta), side*math.Sin(theta))
}

// Generate builds a floor plan from the rounds, sizing the footprint from
// the requirements. Unmatched requirements are listed in Plan.Unassigned
// and reported as warnings; only caller misuse returns an error.
func Generate(rng *rand.Rand, rounds []Round) (*Plan, *validation.Report, error) {
	if err := checkRounds(rng, rounds); err != nil {
		return nil, nil, err
	}
	plan, report := generate(rng, SizeBounds(rng, rounds), rounds)
	return plan, report, nil
}

// GenerateWithin is Generate with a fixed footprint.
func GenerateWithin(rng *rand.Rand, bounds geo.Rect, rounds []Round) (*Plan, *validation.Report, error) {
	if err := checkRounds(rng, rounds); err != nil {
		return nil, nil, err
	}
	if !(bounds.Width() > 0) || !(bounds.Height() > 0) || math.IsInf(bounds.Area(), 0) {
		return nil, nil, fmt.Errorf("%w: bounds %v have no area", ErrInvalidRounds, bounds)
	}
	plan, report := generate(rng, bounds, rounds)
	return plan, report, nil
}

// GenerateSpec validates a building spec and generates it with the given
// seed. Pinned bounds in the spec replace the derived footprint.
func GenerateSpec(s *spec.BuildingSpec, seed int64) (*Plan, *validation.Report, error) {
	report := validation.ValidateSchema(s)
	if !report.Valid {
		return nil, report, fmt.Errorf("spec has validation errors: %s", report.FirstError())
	}

	rng := NewRand(seed)
	rounds := RoundsFromSpec(s)

	var (
		plan   *Plan
		genRep *validation.Report
		err    error
	)
	if s.Bounds != nil {
		bounds := geo.NewRect(geo.Pt(0, 0), s.Bounds.Width, s.Bounds.Depth)
		plan, genRep, err = GenerateWithin(rng, bounds, rounds)
	} else {
		plan, genRep, err = Generate(rng, rounds)
	}
	if err != nil {
		return nil, report, err
	}
	plan.Seed = seed
	report.Merge(genRep)
	return plan, report, nil
}

// RoundsFromSpec converts spec rounds into generation rounds with fresh
// requirements.
func RoundsFromSpec(s *spec.BuildingSpec) []Round {
	rounds := make([]Round, 0, len(s.Rounds))
	for _, rd := range s.Rounds {
		params := SubdivisionParameters{
			MinChildren:      rd.MinChildren,
			MaxChildren:      rd.MaxChildren,
			Hallway:          rd.Hallway,
			AspectFactor:     rd.AspectFactor,
			AspectOffset:     rd.AspectOffset,
			LockedDoorChance: rd.LockedDoorChance,
		}
		for _, room := range rd.Rooms {
			params.Requirements = append(params.Requirements, &RoomRequirement{
				Name:         room.Name,
				Area:         Range{Min: room.AreaMin, Max: room.AreaMax},
				DirectAccess: room.DirectAccess,
			})
		}
		rounds = append(rounds, Round{Params: params, Repeat: rd.Repeat})
	}
	return rounds
}

func generate(rng *rand.Rand, bounds geo.Rect, rounds []Round) (*Plan, *validation.Report) {
	log := logger.For("generate")

	root := NewNode("0", bounds, false)
	// Every building gets one entrance before any room is placed.
	root.Doors[Directions[rng.IntN(len(Directions))]] = []Door{{Kind: DoorExterior}}

	plan := &Plan{Root: root, Bounds: bounds}
	var pending []*RoomRequirement
	for i, round := range rounds {
		plan.Requirements = append(plan.Requirements, round.Params.Requirements...)
		pending = append(pending, round.Params.Requirements...)

		if round.Repeat == 0 {
			pending = Assign(rng, root, bounds, pending)
		}
		for n := 0; n < round.Repeat; n++ {
			root.Subdivide(rng, round.Params)
			pending = Assign(rng, root, bounds, pending)
		}

		log.WithFields(logrus.Fields{
			"round":   i,
			"repeat":  round.Repeat,
			"leaves":  len(root.LeafNodes()),
			"pending": len(pending),
		}).Debug("round complete")
	}
	plan.Unassigned = pending

	report := validation.NewReport()
	for _, req := range pending {
		report.AddWarning(validation.Result{
			Level:       validation.LevelGeneration,
			Message:     fmt.Sprintf("room %q (area %.1f-%.1f) was not placed", req.Name, req.Area.Min, req.Area.Max),
			ActualValue: req.Area,
			Suggestions: []string{
				"Widen the area range",
				"Add rounds so more leaves reach the requested size",
			},
		})
	}
	report.AddInfo(validation.Result{
		Level: validation.LevelGeneration,
		Message: fmt.Sprintf("generated %.1fx%.1f building: %d leaves, %d rooms, %d unplaced",
			bounds.Width(), bounds.Height(), len(root.LeafNodes()), len(root.Rooms()), len(pending)),
	})

	log.WithFields(logrus.Fields{
		"width":      bounds.Width(),
		"depth":      bounds.Height(),
		"rooms":      len(root.Rooms()),
		"unassigned": len(pending),
	}).Debug("building generated")

	return plan, report
}

// checkRounds rejects caller misuse before any randomness is drawn.
func checkRounds(rng *rand.Rand, rounds []Round) error {
	if rng == nil {
		return fmt.Errorf("%w: nil random source", ErrInvalidRounds)
	}
	if len(rounds) == 0 {
		return fmt.Errorf("%w: no rounds", ErrInvalidRounds)
	}

	seen := make(map[*RoomRequirement]bool)
	for i, r := range rounds {
		p := r.Params
		switch {
		case r.Repeat < 0:
			return fmt.Errorf("%w: rounds[%d]: negative repeat %d", ErrInvalidRounds, i, r.Repeat)
		case p.MinChildren < 0:
			return fmt.Errorf("%w: rounds[%d]: negative min_children %d", ErrInvalidRounds, i, p.MinChildren)
		case p.MaxChildren > MaxSplitChildren:
			return fmt.Errorf("%w: rounds[%d]: max_children %d exceeds %d", ErrInvalidRounds, i, p.MaxChildren, MaxSplitChildren)
		case p.MinChildren > p.MaxChildren:
			return fmt.Errorf("%w: rounds[%d]: min_children %d exceeds max_children %d", ErrInvalidRounds, i, p.MinChildren, p.MaxChildren)
		case math.IsNaN(p.AspectFactor) || math.IsNaN(p.AspectOffset):
			return fmt.Errorf("%w: rounds[%d]: aspect tunables must be numbers", ErrInvalidRounds, i)
		case !(p.LockedDoorChance >= 0 && p.LockedDoorChance <= 1):
			return fmt.Errorf("%w: rounds[%d]: locked door chance %v outside [0, 1]", ErrInvalidRounds, i, p.LockedDoorChance)
		}

		for j, req := range p.Requirements {
			switch {
			case req == nil:
				return fmt.Errorf("%w: rounds[%d].requirements[%d] is nil", ErrInvalidRounds, i, j)
			case seen[req]:
				return fmt.Errorf("%w: requirement %q listed twice", ErrInvalidRounds, req.Name)
			case req.Assigned():
				return fmt.Errorf("%w: requirement %q is already assigned", ErrInvalidRounds, req.Name)
			case !(req.Area.Min >= 0) || math.IsInf(req.Area.Max, 0) || math.IsNaN(req.Area.Max):
				return fmt.Errorf("%w: requirement %q has invalid area range %v-%v", ErrInvalidRounds, req.Name, req.Area.Min, req.Area.Max)
			case req.Area.Min > req.Area.Max:
				return fmt.Errorf("%w: requirement %q area min %v exceeds max %v", ErrInvalidRounds, req.Name, req.Area.Min, req.Area.Max)
			}
			seen[req] = true
		}
	}
	return nil
}
