// Command migrate manages the Atlas database schema
package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	migrate "github.com/rubenv/sql-migrate"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/johnquangdev/atlas/internal/adapter/repository"
	"github.com/johnquangdev/atlas/internal/domain/entities"
	"github.com/johnquangdev/atlas/internal/infrastructure/database"
	"github.com/johnquangdev/atlas/pkg/config"
	pkgjwt "github.com/johnquangdev/atlas/pkg/jwt"
)

var (
	upMax     int
	downMax   int
	seedEmail string
	seedName  string
)

var rootCmd = &cobra.Command{
	Use:           "migrate",
	Short:         "Manage the Atlas database schema",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(db *gorm.DB, _ *config.Config) error {
			n, err := database.Migrate(db, migrate.Up, upMax)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Applied %d migration(s)\n", n)
			return nil
		})
	},
}

var downCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back migrations (one by default)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(db *gorm.DB, _ *config.Config) error {
			n, err := database.Migrate(db, migrate.Down, downMax)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Rolled back %d migration(s)\n", n)
			return nil
		})
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show which migrations are applied",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(db *gorm.DB, _ *config.Config) error {
			rows, err := database.Status(db)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "MIGRATION\tAPPLIED")
			for _, r := range rows {
				applied := "no"
				if r.AppliedAt != nil {
					applied = r.AppliedAt.Format(time.RFC3339)
				}
				fmt.Fprintf(w, "%s\t%s\n", r.ID, applied)
			}
			return w.Flush()
		})
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the owner account and print an access token",
	Long: `seed creates a user for --email when none exists, so that webhooks have an
owner before the first magic-link sign-in, and prints an access token for it.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if seedEmail == "" {
			return fmt.Errorf("--email is required")
		}
		return withDB(func(db *gorm.DB, cfg *config.Config) error {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			users := repository.NewUserRepository(db)
			user, err := users.FindByEmail(ctx, entities.NormalizeEmail(seedEmail))
			if err != nil {
				user = entities.NewUser(seedEmail)
				if seedName != "" {
					user.Name = seedName
				}
				if err := users.Create(ctx, user); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created user %s (%s)\n", user.Email, user.ID)
			}

			jwtManager := pkgjwt.NewManager(
				cfg.JWT.AccessSecret,
				cfg.JWT.RefreshSecret,
				cfg.JWT.AccessExpiry,
				cfg.JWT.RefreshExpiry,
			)
			token, err := jwtManager.GenerateAccessToken(user.ID, user.Email)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Access token (expires in %s):\n%s\n", cfg.JWT.AccessExpiry, token)
			return nil
		})
	},
}

func init() {
	upCmd.Flags().IntVar(&upMax, "max", 0, "maximum migrations to apply (0 = all)")
	downCmd.Flags().IntVar(&downMax, "max", 1, "maximum migrations to roll back (0 = all)")
	seedCmd.Flags().StringVar(&seedEmail, "email", "", "owner email")
	seedCmd.Flags().StringVar(&seedName, "name", "", "display name")

	rootCmd.AddCommand(upCmd, downCmd, statusCmd, seedCmd)
}

func withDB(fn func(db *gorm.DB, cfg *config.Config) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		return err
	}
	defer database.CloseDB(db)
	return fn(db, cfg)
}

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	if err := rootCmd.Execute(); err != nil {
		logger.Error("migrate.failed", zap.Error(err))
		os.Exit(1)
	}
}
