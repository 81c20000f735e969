package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/mkravets/formflow/internal/cli"
	"github.com/mkravets/formflow/internal/client"
	"github.com/mkravets/formflow/internal/engine"
	"github.com/mkravets/formflow/internal/forms"
	"github.com/mkravets/formflow/internal/session"
)

var (
	walkAnswersFile string
	walkFormFile    string
	walkRemote      bool
	walkSubmit      bool
)

var walkCmd = &cobra.Command{
	Use:   "walk <key>",
	Short: "Walk a form's branching logic with prepared answers",
	Long: `Walk a form field by field, feeding answers from a JSON file that maps
field ids to values. The visited path and the expanded submission are
printed at the end.

The form definition is fetched from the server by default; --file walks a
local definition instead. Each step resolves locally unless the
environment's resolve_mode is "remote" or --remote is given; remote steps
exercise the same evaluation path that an embedded renderer would use and
are bounded by the environment's resolve_timeout_ms.

Examples:
  formflow walk onboarding --answers answers.json --env prod
  formflow walk onboarding --file onboarding.yaml --answers answers.json
  formflow walk onboarding --answers answers.json --remote --submit --env staging`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key := args[0]

		if walkAnswersFile == "" {
			return fmt.Errorf("--answers is required")
		}
		answers, err := readAnswersFile(walkAnswersFile)
		if err != nil {
			return err
		}

		var (
			form   *forms.Form
			c      *client.Client
			envCfg *cli.EnvConfig
		)
		if walkFormFile != "" {
			form, err = readFormFile(walkFormFile)
			if err != nil {
				return err
			}
		} else {
			envCfg, _, err = cli.GetEnvConfig(env, baseURL, apiKey)
			if err != nil {
				return fmt.Errorf("configuration error: %w", err)
			}
			c = client.NewClient(envCfg.BaseURL, envCfg.APIKey)
			form, err = c.GetForm(context.Background(), key)
			if err != nil {
				return fmt.Errorf("failed to get form: %w", err)
			}
		}

		// An explicit --remote/--remote=false wins over the environment's
		// resolve_mode.
		remote := walkRemote
		if !cmd.Flags().Changed("remote") && envCfg != nil {
			remote = envCfg.Remote()
		}

		var resolver session.Resolver = session.LocalResolver{Fields: form.Fields}
		var stepTimeout time.Duration
		if remote {
			if c == nil {
				return fmt.Errorf("resolving on the server requires a connection, not --file")
			}
			resolver = client.NewRemoteResolver(c, key)
			stepTimeout = envCfg.Timeout()
		}

		s := session.New(form.Fields, resolver)
		ctx := context.Background()

		// The answers never change between steps, so revisiting any field
		// would replay the walk forever. A cycle-free walk visits at most
		// len(fields) fields.
		maxSteps := len(form.Fields)
		for steps := 0; !s.AtEnd(); steps++ {
			if steps == maxSteps {
				return fmt.Errorf("form '%s' did not end after %d steps; its logic rules cycle", key, maxSteps)
			}
			field, ok := s.Current()
			if !ok {
				break
			}
			value := answers[field.ID]

			res, err := nextStep(ctx, s, value, stepTimeout)
			if err != nil {
				return fmt.Errorf("failed to resolve after '%s': %w", field.ID, err)
			}
			if !quiet {
				printStep(field, value, res)
			}
		}

		submission := s.Submission()
		if !quiet {
			fmt.Printf("\nReached end of form after %d field(s)\n", len(s.History()))
			fmt.Println("Submission:")
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(submission); err != nil {
				return err
			}
		}

		if walkSubmit {
			if c == nil {
				return fmt.Errorf("--submit requires a server connection, not --file")
			}
			flat := make(map[string]any, len(answers))
			for fieldID, value := range answers {
				flat[fieldID] = value
			}
			id, err := c.SubmitResponse(ctx, key, flat)
			if err != nil {
				return fmt.Errorf("failed to submit response: %w", err)
			}
			if !quiet {
				fmt.Printf("Submitted response %s\n", id)
			}
		}

		return nil
	},
}

func readAnswersFile(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read answers file: %w", err)
	}
	var answers map[string]any
	if err := json.Unmarshal(data, &answers); err != nil {
		return nil, fmt.Errorf("invalid answers JSON: %w", err)
	}
	return answers, nil
}

// nextStep advances the session, bounding remote resolution by timeout
// when one is configured.
func nextStep(ctx context.Context, s *session.Session, value any, timeout time.Duration) (engine.Resolution, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return s.Next(ctx, value)
}

func printStep(field forms.Field, value any, res engine.Resolution) {
	if res.AppliedRuleID != "" {
		fmt.Printf("  %s = %v  (%s via rule %s)\n", field.ID, value, res.Reason, res.AppliedRuleID)
		return
	}
	fmt.Printf("  %s = %v  (%s)\n", field.ID, value, res.Reason)
}

func init() {
	rootCmd.AddCommand(walkCmd)

	walkCmd.Flags().StringVar(&walkAnswersFile, "answers", "", "JSON file mapping field ids to answer values")
	walkCmd.Flags().StringVar(&walkFormFile, "file", "", "Walk a local form definition instead of fetching")
	walkCmd.Flags().BoolVar(&walkRemote, "remote", false, "Resolve each step on the server")
	walkCmd.Flags().BoolVar(&walkSubmit, "submit", false, "Submit the answers when the walk completes")
}
