package main

import (
	"fmt"
	"io"

	"github.com/ChicagoDave/floorplanner/internal/pipeline"
	"github.com/ChicagoDave/floorplanner/pkg/floorplan"
	"github.com/ChicagoDave/floorplanner/pkg/validation"
)

func printValidationReport(w io.Writer, r *validation.Report) {
	if len(r.Errors) > 0 {
		fmt.Fprintf(w, "ERRORS (%d):\n", len(r.Errors))
		for _, e := range r.Errors {
			printResult(w, e, true)
		}
		fmt.Fprintln(w)
	}

	if len(r.Warnings) > 0 {
		fmt.Fprintf(w, "WARNINGS (%d):\n", len(r.Warnings))
		for _, wr := range r.Warnings {
			printResult(w, wr, true)
		}
		fmt.Fprintln(w)
	}

	if len(r.Info) > 0 {
		fmt.Fprintf(w, "INFO (%d):\n", len(r.Info))
		for _, i := range r.Info {
			printResult(w, i, false)
		}
		fmt.Fprintln(w)
	}

	if r.Valid {
		fmt.Fprintf(w, "Result: VALID (%s)\n", r.Summary)
	} else {
		fmt.Fprintf(w, "Result: INVALID (%s)\n", r.Summary)
	}
}

func printResult(w io.Writer, res validation.Result, detail bool) {
	fmt.Fprintf(w, "  [%s] %s\n", res.Level, res.Message)
	if res.NodeID != "" {
		fmt.Fprintf(w, "    at node %s\n", res.NodeID)
	}
	if !detail {
		return
	}
	if res.SpecPath != "" {
		fmt.Fprintf(w, "    -> %s = %v\n", res.SpecPath, res.ActualValue)
	}
	if res.Expected != "" {
		fmt.Fprintf(w, "    expected: %s\n", res.Expected)
	}
	for _, s := range res.Suggestions {
		fmt.Fprintf(w, "    * %s\n", s)
	}
}

func printPlanSummary(w io.Writer, r *pipeline.Result) {
	p := r.Plan
	fmt.Fprintf(w, "Building (seed %d)\n", r.Seed)
	fmt.Fprintln(w, "==================")
	fmt.Fprintf(w, "  Footprint:   %.1f x %.1f m (%.1f m²)\n", p.Bounds.Width(), p.Bounds.Height(), p.Bounds.Area())
	fmt.Fprintf(w, "  Leaves:      %d\n", len(p.Root.LeafNodes()))
	fmt.Fprintf(w, "  Corridors:   %d (%.1f m²)\n", len(p.Root.Corridors()), floorplan.CorridorArea(p.Root))
	fmt.Fprintf(w, "  Doors:       %d\n", doorCount(p))
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Rooms")
	fmt.Fprintln(w, "-----")
	for _, n := range p.Root.Rooms() {
		room := n.State.(floorplan.Room)
		access := ""
		if room.DirectAccess {
			access = "  [direct access]"
		}
		fmt.Fprintf(w, "  %-16s %-10s %6.1f m²  (%.0f-%.0f)%s\n",
			room.Name, n.ID, n.Rect.Area(), room.Area.Min, room.Area.Max, access)
	}
	for _, req := range p.Unassigned {
		fmt.Fprintf(w, "  %-16s UNASSIGNED (%.0f-%.0f)\n", req.Name, req.Area.Min, req.Area.Max)
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Validation: %s\n", r.Report.Summary)
}

func doorCount(p *floorplan.Plan) int {
	n := 0
	for _, leaf := range p.Root.LeafNodes() {
		n += leaf.DoorCount()
	}
	return n
}
