package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mkravets/formflow/internal/cli"
	"github.com/mkravets/formflow/internal/client"
	"github.com/mkravets/formflow/internal/forms"
)

var exportOutput string

// ExportFormat represents the structure for exporting forms
type ExportFormat struct {
	Forms []forms.Form `yaml:"forms" json:"forms"`
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export forms to a file",
	Long: `Export all published forms from the specified environment to a YAML or
JSON file.

Examples:
  formflow export --env prod --output forms.yaml
  formflow export --env prod --output forms.json --format json
  formflow export --env prod > backup.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		envCfg, _, err := cli.GetEnvConfig(env, baseURL, apiKey)
		if err != nil {
			return fmt.Errorf("configuration error: %w", err)
		}

		c := client.NewClient(envCfg.BaseURL, envCfg.APIKey)

		ctx := context.Background()
		list, err := c.ListForms(ctx)
		if err != nil {
			return fmt.Errorf("failed to list forms: %w", err)
		}
		sort.Slice(list, func(i, j int) bool { return list[i].Key < list[j].Key })

		exportData := ExportFormat{Forms: list}

		var output *os.File
		if exportOutput == "" || exportOutput == "-" {
			output = os.Stdout
		} else {
			output, err = os.Create(exportOutput)
			if err != nil {
				return fmt.Errorf("failed to create output file: %w", err)
			}
			defer output.Close()
		}

		switch format {
		case "json":
			encoder := json.NewEncoder(output)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(exportData); err != nil {
				return fmt.Errorf("failed to encode JSON: %w", err)
			}
		case "yaml", "table":
			// Default to YAML for export
			encoder := yaml.NewEncoder(output)
			defer encoder.Close()
			encoder.SetIndent(2)
			if err := encoder.Encode(exportData); err != nil {
				return fmt.Errorf("failed to encode YAML: %w", err)
			}
		default:
			return fmt.Errorf("unsupported export format: %s", format)
		}

		if exportOutput != "" && exportOutput != "-" && !quiet {
			fmt.Fprintf(os.Stderr, "Successfully exported %d form(s) to %s\n", len(list), exportOutput)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file (default: stdout)")
}
