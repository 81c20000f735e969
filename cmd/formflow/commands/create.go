package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mkravets/formflow/internal/cli"
	"github.com/mkravets/formflow/internal/client"
	"github.com/mkravets/formflow/internal/forms"
	"github.com/mkravets/formflow/internal/store"
)

var (
	createFile      string
	createPublished bool
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create or update a form from a definition file",
	Long: `Create or update a form from a YAML or JSON definition file. The file
holds the form's key, title, fields and logic rules. Creating an existing
key replaces its definition.

Examples:
  formflow create --file onboarding.yaml --env prod
  formflow create --file onboarding.json --published --env staging`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if createFile == "" {
			return fmt.Errorf("--file is required")
		}

		envCfg, effectiveEnv, err := cli.GetEnvConfig(env, baseURL, apiKey)
		if err != nil {
			return fmt.Errorf("configuration error: %w", err)
		}

		form, err := readFormFile(createFile)
		if err != nil {
			return err
		}
		if createPublished {
			form.Published = true
		}
		form.Env = effectiveEnv

		if err := forms.ValidateForm(*form); err != nil {
			return fmt.Errorf("invalid form definition: %w", err)
		}

		c := client.NewClient(envCfg.BaseURL, envCfg.APIKey)

		params := store.UpsertParams{
			Key:         form.Key,
			Title:       form.Title,
			Description: form.Description,
			Published:   form.Published,
			Fields:      form.Fields,
			Env:         effectiveEnv,
		}

		ctx := context.Background()
		if err := c.CreateForm(ctx, params); err != nil {
			return fmt.Errorf("failed to create form: %w", err)
		}

		if !quiet {
			fmt.Printf("Successfully created form '%s' in environment '%s'\n", form.Key, effectiveEnv)
		}

		return nil
	},
}

// readFormFile decodes a form definition from a YAML or JSON file.
func readFormFile(path string) (*forms.Form, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var form forms.Form
	if strings.HasSuffix(path, ".json") {
		if err := json.Unmarshal(data, &form); err != nil {
			return nil, fmt.Errorf("invalid JSON form definition: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, &form); err != nil {
			return nil, fmt.Errorf("invalid YAML form definition: %w", err)
		}
	}
	return &form, nil
}

func init() {
	rootCmd.AddCommand(createCmd)

	createCmd.Flags().StringVarP(&createFile, "file", "f", "", "Form definition file (YAML or JSON)")
	createCmd.Flags().BoolVar(&createPublished, "published", false, "Publish the form")
}
