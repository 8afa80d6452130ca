package main

import (
	"context"
	"fmt"
	"os"
	"time"
	_ "time/tzdata"

	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"amazonia/cmd/fx/alerts_fx"
	"amazonia/cmd/fx/assistant_fx"
	"amazonia/cmd/fx/auth_fx"
	"amazonia/cmd/fx/chat_fx"
	"amazonia/cmd/fx/config_fx"
	"amazonia/cmd/fx/connectivity_fx"
	"amazonia/cmd/fx/controllers_fx"
	"amazonia/cmd/fx/dashboard_fx"
	"amazonia/cmd/fx/db_fx"
	"amazonia/cmd/fx/emergency_fx"
	"amazonia/cmd/fx/events_fx"
	"amazonia/cmd/fx/mail_fx"
	"amazonia/cmd/fx/memcache_fx"
	"amazonia/cmd/fx/places_fx"
	"amazonia/cmd/fx/quiz_fx"
	"amazonia/cmd/fx/realtime_fx"
	"amazonia/cmd/fx/rewards_fx"
	"amazonia/cmd/fx/storage_fx"
	"amazonia/internal/config"
	"amazonia/internal/infra"
	"amazonia/internal/models/request_models"
	"amazonia/internal/repositories"
	"amazonia/internal/services"
	"amazonia/pkg/logging"
	mem "amazonia/pkg/memcache"
	"amazonia/pkg/utils"
)

func main() {
	root := &cobra.Command{
		Use:   "amazonia",
		Short: "AmazôniaExperience API for COP30 visitors",
		// Errors are logged by the commands themselves.
		SilenceUsage: true,
	}

	root.AddCommand(serveCmd(), migrateCmd(), adminCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := fx.New(
				config_fx.Module,
				db_fx.Module,
				mail_fx.Module,
				memcache_fx.Module,
				storage_fx.Module,
				assistant_fx.Module,
				realtime_fx.Module,
				alerts_fx.Module,
				auth_fx.Module,
				events_fx.Module,
				places_fx.Module,
				quiz_fx.Module,
				rewards_fx.Module,
				connectivity_fx.Module,
				emergency_fx.Module,
				chat_fx.Module,
				dashboard_fx.Module,
				controllers_fx.Module,

				fx.Provide(ProvideRouter),
				fx.Invoke(StartServer),
			)
			if err := app.Err(); err != nil {
				logging.Error().Err(err).Msg("failed to build application")
				return err
			}
			app.Run()
			return nil
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			db, err := infra.InitPostgresql(cfg.Database)
			if err != nil {
				logging.Error().Err(err).Msg("failed to connect to database")
				return err
			}
			defer infra.ClosePostgresql(db)

			start := time.Now()
			if err := infra.Migrate(db); err != nil {
				logging.Error().Err(err).Msg("migration failed")
				return err
			}
			logging.Info().Int("models", len(infra.Models())).Dur("took", time.Since(start)).Msg("migration complete")
			return nil
		},
	}
}

func adminCmd() *cobra.Command {
	admin := &cobra.Command{
		Use:   "admin",
		Short: "Administrative tasks",
	}

	var req request_models.CreateAdminRequest
	create := &cobra.Command{
		Use:   "create",
		Short: "Create an admin account, or promote an existing user",
		RunE: func(cmd *cobra.Command, args []string) error {
			if req.Password == "" {
				req.Password = os.Getenv(config.EnvPrefix + "ADMIN_PASSWORD")
			}
			return runCreateAdmin(cmd.Context(), req)
		},
	}
	f := create.Flags()
	f.StringVar(&req.Email, "email", "", "Admin email")
	f.StringVar(&req.Name, "name", "Administrator", "Display name for a new account")
	f.StringVar(&req.Password, "password", "", "Password for a new account (defaults to $"+config.EnvPrefix+"ADMIN_PASSWORD)")
	_ = create.MarkFlagRequired("email")

	admin.AddCommand(create)
	return admin
}

func runCreateAdmin(ctx context.Context, req request_models.CreateAdminRequest) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	db, err := infra.InitPostgresql(cfg.Database)
	if err != nil {
		logging.Error().Err(err).Msg("failed to connect to database")
		return err
	}
	defer infra.ClosePostgresql(db)

	auth := services.NewAuthService(
		repositories.NewUserRepository(db),
		repositories.NewRefreshTokenRepository(db),
		utils.NewTokenManager(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.AccessTTL),
		cfg,
		mem.NewResetTokens(),
		services.NewMailService(cfg),
	)

	user, created, err := auth.CreateAdmin(ctx, req)
	if err != nil {
		logging.Error().Err(err).Str("email", req.Email).Msg("failed to create admin")
		return err
	}

	action := "promoted"
	if created {
		action = "created"
	}
	fmt.Printf("admin %s: %s (%s)\n", action, user.Email, user.ID)
	return nil
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		logging.Error().Err(err).Msg("failed to load configuration")
		return nil, err
	}
	logging.Init(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Caller: cfg.Log.Caller})
	return cfg, nil
}
