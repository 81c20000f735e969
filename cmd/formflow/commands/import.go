package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mkravets/formflow/internal/cli"
	"github.com/mkravets/formflow/internal/client"
	"github.com/mkravets/formflow/internal/forms"
	"github.com/mkravets/formflow/internal/store"
)

var (
	importDryRun bool
	importForce  bool
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import forms from a file",
	Long: `Import forms from a YAML or JSON file produced by export.

Examples:
  formflow import forms.yaml --env prod
  formflow import forms.yaml --env staging --dry-run
  formflow import forms.yaml --env prod --force`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filename := args[0]

		data, err := os.ReadFile(filename)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}

		var importData ExportFormat
		if err := yaml.Unmarshal(data, &importData); err != nil {
			return fmt.Errorf("failed to parse file: %w", err)
		}

		if len(importData.Forms) == 0 {
			return fmt.Errorf("no forms found in file")
		}

		// Validate every definition up front so a bad file fails fast.
		for _, form := range importData.Forms {
			if err := forms.ValidateForm(form); err != nil {
				return fmt.Errorf("invalid form '%s': %w", form.Key, err)
			}
		}

		// Dry run mode - just validate and show what would be imported
		if importDryRun {
			fmt.Println("Dry run mode - the following forms would be imported:")
			for _, form := range importData.Forms {
				fmt.Printf("  - %s (published: %v, fields: %d, env: %s)\n",
					form.Key, form.Published, len(form.Fields), form.Env)
			}
			return nil
		}

		envCfg, effectiveEnv, err := cli.GetEnvConfig(env, baseURL, apiKey)
		if err != nil {
			return fmt.Errorf("configuration error: %w", err)
		}

		c := client.NewClient(envCfg.BaseURL, envCfg.APIKey)
		ctx := context.Background()

		successCount := 0
		errorCount := 0

		for _, form := range importData.Forms {
			// Use the environment from the form or override with --env flag
			targetEnv := form.Env
			if effectiveEnv != "" {
				targetEnv = effectiveEnv
			}

			params := store.UpsertParams{
				Key:         form.Key,
				Title:       form.Title,
				Description: form.Description,
				Published:   form.Published,
				Fields:      form.Fields,
				Env:         targetEnv,
			}

			if err := c.CreateForm(ctx, params); err != nil {
				errorCount++
				fmt.Fprintf(os.Stderr, "Failed to import form '%s': %v\n", form.Key, err)
				if !importForce {
					return fmt.Errorf("import failed, use --force to continue on errors")
				}
			} else {
				successCount++
			}
		}

		if !quiet {
			fmt.Printf("Import complete: %d succeeded, %d failed\n", successCount, errorCount)
		}

		if errorCount > 0 && !importForce {
			return fmt.Errorf("import completed with errors")
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "Validate without importing")
	importCmd.Flags().BoolVar(&importForce, "force", false, "Continue on errors")
}
