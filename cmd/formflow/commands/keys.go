package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mkravets/formflow/internal/auth"
)

var keysPrefix string

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Manage admin API keys",
	Long:  `Generate and hash admin API keys for the formflow server.`,
}

var keysGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a new admin API key",
	Long: `Generate a random API key and its bcrypt hash. The plain key is shown
once; configure the hash on the server via ADMIN_KEY_HASHES.

Example:
  formflow keys generate`,
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := auth.GenerateAPIKey(keysPrefix)
		if err != nil {
			return fmt.Errorf("failed to generate key: %w", err)
		}
		hash, err := auth.HashAPIKey(key)
		if err != nil {
			return fmt.Errorf("failed to hash key: %w", err)
		}

		fmt.Printf("API key (shown once): %s\n", key)
		fmt.Printf("Hash for server config: %s\n", hash)
		return nil
	},
}

var keysHashCmd = &cobra.Command{
	Use:   "hash <key>",
	Short: "Hash an existing API key",
	Long: `Produce the bcrypt hash of an existing key for server configuration.

Example:
  formflow keys hash ffk_abc123`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		hash, err := auth.HashAPIKey(args[0])
		if err != nil {
			return fmt.Errorf("failed to hash key: %w", err)
		}
		fmt.Println(hash)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(keysCmd)
	keysCmd.AddCommand(keysGenerateCmd)
	keysCmd.AddCommand(keysHashCmd)

	keysGenerateCmd.Flags().StringVar(&keysPrefix, "prefix", auth.DefaultKeyPrefix, "Key prefix")
}
