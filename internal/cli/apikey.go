package cli

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/rpggio/temporal-xray/internal/config"
	"github.com/rpggio/temporal-xray/internal/sqlite"
	"github.com/rpggio/temporal-xray/internal/transport"
	"github.com/spf13/cobra"
)

var (
	apiKeyCaller      string
	apiKeyDescription string
	apiKeyDBPath      string
)

func init() {
	rootCmd.AddCommand(apiKeyCmd)
	apiKeyCmd.AddCommand(apiKeyCreateCmd)
	apiKeyCreateCmd.Flags().StringVar(&apiKeyCaller, "caller", "", "Caller ID the key authenticates as (required)")
	apiKeyCreateCmd.Flags().StringVar(&apiKeyDescription, "description", "", "Free-form note stored with the key")
	apiKeyCreateCmd.Flags().StringVar(&apiKeyDBPath, "db", "", "Server database path (defaults to XRAY_DB_PATH)")
	_ = apiKeyCreateCmd.MarkFlagRequired("caller")
}

var apiKeyCmd = &cobra.Command{
	Use:   "apikey",
	Short: "Manage API keys for the HTTP server",
}

var apiKeyCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an API key and print it once",
	Long:  "Generates a bearer token for the HTTP transport. Only its hash is stored,\nso the token cannot be shown again.",
	Args:  cobra.NoArgs,
	RunE:  runAPIKeyCreate,
}

func runAPIKeyCreate(cmd *cobra.Command, _ []string) error {
	path := apiKeyDBPath
	if path == "" {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		path = cfg.DB.Path
	}

	db, err := sqlite.New(path)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := db.RunMigrations(); err != nil {
		return err
	}

	token := "xray_" + uuid.NewString()
	if err := sqlite.NewAPIKeyRepository(db).Create(cmd.Context(), transport.HashToken(token), apiKeyCaller, apiKeyDescription); err != nil {
		return fmt.Errorf("create api key: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), token)
	return nil
}
