package commands

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/mkravets/formflow/internal/cli"
	"github.com/mkravets/formflow/internal/client"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all published forms",
	Long: `List all published forms in the specified environment.

Examples:
  formflow list --env prod
  formflow list --env prod --format json`,
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

		if !quiet {
			if len(list) == 0 {
				fmt.Println("No forms found")
				return nil
			}
			return cli.PrintForms(list, cli.OutputFormat(format))
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
