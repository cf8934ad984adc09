package main

import (
	"fmt"
	"os"

	"narration-desk/database"
	"narration-desk/database/seeders"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "migrate",
	Short:         "Database maintenance for the narration desk",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		_ = godotenv.Load()
	},
}

// migrateCmd applies the schema, indexes and foreign keys
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("🚀 Running database migrations...")
		if _, err := database.InitDB(); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		fmt.Println("✅ Migration completed successfully!")
		return nil
	},
}

var (
	adminUsername string
	adminPassword string
)

// createAdminCmd seeds a dashboard account with full permissions
var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create a dashboard account with full permissions",
	Long: `Create a dashboard account with full permissions.

The password may be given with --password or through ADMIN_PASSWORD.
Nothing is changed when the username already exists.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if adminUsername == "" {
			adminUsername = os.Getenv("ADMIN_USERNAME")
		}
		if adminPassword == "" {
			adminPassword = os.Getenv("ADMIN_PASSWORD")
		}
		db, err := database.InitDB()
		if err != nil {
			return err
		}
		created, err := seeders.SeedAdmin(db, adminUsername, adminPassword)
		if err != nil {
			return err
		}
		if created {
			fmt.Printf("✅ Admin %q created\n", adminUsername)
		} else {
			fmt.Printf("ℹ️ Admin %q already exists\n", adminUsername)
		}
		return nil
	},
}

func init() {
	createAdminCmd.Flags().StringVarP(&adminUsername, "username", "u", "", "account username (defaults to ADMIN_USERNAME)")
	createAdminCmd.Flags().StringVarP(&adminPassword, "password", "p", "", "account password (defaults to ADMIN_PASSWORD)")
	rootCmd.AddCommand(migrateCmd, createAdminCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Printf("❌ %v\n", err)
		os.Exit(1)
	}
}
