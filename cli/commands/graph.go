package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/erikhoward/patrol/graph"
)

var (
	graphFormat string
	graphOutput string
	graphAll    bool
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Collision graph operations",
	Long:  `Commands for working with the guard's collision graph, including exporting to visualization formats.`,
}

var graphExportCmd = &cobra.Command{
	Use:   "export <grid-file>",
	Short: "Export the collision graph to a visualization format",
	Long: `Build the collision graph of a grid and export it to Mermaid, JSON or YAML.

Examples:
  patrol graph export input.txt
  patrol graph export input.txt --format json
  patrol graph export input.txt --all --format mermaid --output graph.md`,
	Args: cobra.ExactArgs(1),
	RunE: runGraphExport,
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.AddCommand(graphExportCmd)

	graphExportCmd.Flags().StringVar(&graphFormat, "format", "mermaid", "Output format: mermaid, json, yaml")
	graphExportCmd.Flags().StringVar(&graphOutput, "output", "", "Output file (default: stdout)")
	graphExportCmd.Flags().BoolVar(&graphAll, "all", false, "Include nodes off the guard's patrol")
}

func runGraphExport(cmd *cobra.Command, args []string) error {
	gridPath := args[0]

	g, err := loadGrid(gridPath)
	if err != nil {
		return err
	}

	tg := graph.Build(g)
	if err := tg.Validate(); err != nil {
		return fmt.Errorf("invalid collision graph: %w", err)
	}
	name := filepath.Base(gridPath)
	spec := tg.Spec(name, graphAll)
	if err := spec.Validate(); err != nil {
		return fmt.Errorf("invalid graph spec: %w", err)
	}

	// Generate output based on format
	var output []byte
	switch graphFormat {
	case "mermaid":
		output = []byte(spec.ToMermaid())
	case "json":
		jsonData, err := spec.ToJSON()
		if err != nil {
			return fmt.Errorf("failed to generate JSON: %w", err)
		}
		output = jsonData
	case "yaml":
		yamlData, err := spec.ToYAML()
		if err != nil {
			return fmt.Errorf("failed to generate YAML: %w", err)
		}
		output = yamlData
	default:
		return fmt.Errorf("unsupported format: %s (use 'mermaid', 'json' or 'yaml')", graphFormat)
	}

	out := commandOutput(cmd)
	if graphOutput != "" {
		if err := os.WriteFile(graphOutput, output, 0644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		fmt.Fprintf(out, "Graph exported to %s\n", graphOutput)
	} else {
		fmt.Fprint(out, string(output))
	}

	return nil
}
