package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/ChicagoDave/floorplanner/internal/pipeline"
	"github.com/ChicagoDave/floorplanner/pkg/floorplan"
	"github.com/ChicagoDave/floorplanner/pkg/scene"
)

const (
	formatJSON    = "json"
	formatGeoJSON = "geojson"
	formatScene   = "scene"
	formatSummary = "summary"
)

type generateOptions struct {
	seed   int64
	count  int
	format string
}

var errInvalidSpec = errors.New("spec has validation errors")

func runValidate(w io.Writer, projectPath string) error {
	_, report, err := pipeline.LoadAndValidate(projectPath)
	if err != nil {
		return err
	}

	printValidationReport(w, report)

	if !report.Valid {
		return errInvalidSpec
	}
	return nil
}

func runGenerate(ctx context.Context, w io.Writer, projectPath string, opts generateOptions) error {
	switch opts.format {
	case formatJSON, formatGeoJSON, formatScene, formatSummary:
	default:
		return fmt.Errorf("unknown format %q", opts.format)
	}

	s, report, err := pipeline.LoadAndValidate(projectPath)
	if err != nil {
		return err
	}
	if !report.Valid {
		printValidationReport(w, report)
		return errInvalidSpec
	}

	if ctx == nil {
		ctx = context.Background()
	}
	seed := floorplan.ResolveSeed(opts.seed, s.Seed)
	results, err := pipeline.RunBatch(ctx, s, seed, opts.count)
	if err != nil {
		return err
	}

	if opts.format == formatSummary {
		for i, r := range results {
			if i > 0 {
				fmt.Fprintln(w)
			}
			printPlanSummary(w, r)
		}
		return nil
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	for _, r := range results {
		var out any
		switch opts.format {
		case formatGeoJSON:
			out = scene.GeoJSON(r.Plan)
		case formatScene:
			out = r.Scene
		default:
			out = r
		}
		if err := enc.Encode(out); err != nil {
			return err
		}
	}
	return nil
}
