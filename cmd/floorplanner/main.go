package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/ChicagoDave/floorplanner/internal/server"
	"github.com/ChicagoDave/floorplanner/pkg/logger"
)

func main() {
	logger.Init()

	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "floorplanner",
		Short: "Procedural building floor plan generator",
	}

	root.AddCommand(generateCmd())
	root.AddCommand(validateCmd())
	root.AddCommand(serveCmd())
	return root
}

func generateCmd() *cobra.Command {
	var opts generateOptions

	cmd := &cobra.Command{
		Use:   "generate [project-path]",
		Short: "Generate one or more buildings and print them",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd.Context(), cmd.OutOrStdout(), args[0], opts)
		},
	}

	cmd.Flags().Int64VarP(&opts.seed, "seed", "s", 0, "random seed (0 uses the spec seed, then the clock)")
	cmd.Flags().IntVarP(&opts.count, "count", "n", 1, "number of buildings, seeded seed, seed+1, ...")
	cmd.Flags().StringVarP(&opts.format, "format", "f", formatJSON, "output format: json, geojson, scene or summary")
	return cmd
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [project-path]",
		Short: "Validate a building spec without generating",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd.OutOrStdout(), args[0])
		},
	}
}

func serveCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve [project-path]",
		Short: "Start the local dev server",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			srv := server.New(args[0], port)
			return srv.Start()
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 3000, "HTTP server port")
	return cmd
}
