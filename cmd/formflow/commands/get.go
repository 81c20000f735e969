package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mkravets/formflow/internal/cli"
	"github.com/mkravets/formflow/internal/client"
)

var getCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a single form by key",
	Long: `Retrieve a form definition, including fields and logic rules.

Examples:
  formflow get onboarding --env prod
  formflow get onboarding --env prod --format yaml`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key := args[0]

		envCfg, _, err := cli.GetEnvConfig(env, baseURL, apiKey)
		if err != nil {
			return fmt.Errorf("configuration error: %w", err)
		}

		c := client.NewClient(envCfg.BaseURL, envCfg.APIKey)

		ctx := context.Background()
		form, err := c.GetForm(ctx, key)
		if err != nil {
			return fmt.Errorf("failed to get form: %w", err)
		}

		if !quiet {
			return cli.PrintForm(form, cli.OutputFormat(format))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(getCmd)
}
