package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/Madhav-Gupta-28/kopi-shop-backend-go/config"
	"github.com/Madhav-Gupta-28/kopi-shop-backend-go/database"
	"github.com/Madhav-Gupta-28/kopi-shop-backend-go/models"
	"github.com/Madhav-Gupta-28/kopi-shop-backend-go/repository"
	"github.com/Madhav-Gupta-28/kopi-shop-backend-go/services"
	"github.com/Madhav-Gupta-28/kopi-shop-backend-go/utils"
	"github.com/labstack/gommon/log"
	"github.com/spf13/cobra"
)

var (
	// Promote flags
	promoteEmail string
	promoteRole  string
)

// promoteCmd changes a user's role; roles cannot be changed over HTTP.
var promoteCmd = &cobra.Command{
	Use:   "promote",
	Short: "Set the role of an existing user",
	Long: `Set the role of an existing user.

Examples:
  kopi-shop promote --email boss@example.com              # Make admin
  kopi-shop promote --email ani@example.com --role customer`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPromote(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(promoteCmd)

	promoteCmd.Flags().StringVarP(&promoteEmail, "email", "e", "", "Email of the user to change")
	promoteCmd.Flags().StringVarP(&promoteRole, "role", "r", models.RoleAdmin.String(), "Role to assign (admin or customer)")
	_ = promoteCmd.MarkFlagRequired("email")
}

func runPromote(ctx context.Context) error {
	role, err := models.ParseRole(promoteRole)
	if err != nil {
		return err
	}

	config.LoadEnv()
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	db, err := database.ConnectDB(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Disconnect(context.Background(), db)

	logger := log.New("promote")
	logger.SetLevel(parseLevel(cfg.LogLevel))

	issuer := utils.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	auth := services.NewAuthService(repository.NewUserRepository(db), repository.NewTokenRepository(db), issuer, logger)

	profile, err := auth.Promote(ctx, promoteEmail, role)
	if err != nil {
		return err
	}
	fmt.Printf("%s (%s) is now %s\n", profile.Email, profile.ID, profile.Role)
	return nil
}
