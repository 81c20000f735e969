package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	baseURL string
	apiKey  string
	env     string
	format  string
	quiet   bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "formflow",
	Short: "CLI tool for managing forms and branching logic",
	Long: `Formflow is a command-line tool for managing form definitions in the
formflow service.

It provides commands for creating, reading and deleting forms, importing
and exporting form definitions, and walking a form's branching logic with
a prepared set of answers.

Examples:
  formflow list --env prod
  formflow get onboarding --env prod
  formflow create --file onboarding.yaml --env prod
  formflow walk onboarding --answers answers.json --env prod
  formflow export --env prod --output forms.yaml`,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags available to all commands
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "Base URL of the formflow API")
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", "", "API key for authentication")
	rootCmd.PersistentFlags().StringVar(&env, "env", "", "Environment (dev, staging, prod)")
	rootCmd.PersistentFlags().StringVar(&format, "format", "table", "Output format (table, json, yaml)")
	rootCmd.PersistentFlags().BoolVar(&quiet, "quiet", false, "Suppress output")
}
