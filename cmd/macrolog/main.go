package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"macrolog/internal/api"
	"macrolog/internal/auth"
	"macrolog/internal/config"
	"macrolog/internal/db"
	"macrolog/internal/mail"
	"macrolog/internal/otel"
	"macrolog/internal/store"
	"macrolog/internal/sweeper"
)

const serviceName = "macrolog"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	_ = godotenv.Load()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           serviceName,
		Short:         "Nutrition tracking API server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(newServeCommand())
	cmd.AddCommand(newMigrateCommand())
	cmd.AddCommand(newSweepCommand())
	return cmd
}

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the signup expiry sweeper",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			cfg, err := config.Load(ctx)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			cleanup, err := otel.Init(ctx, serviceName, cfg.OTLPEndpoint)
			if err != nil {
				return fmt.Errorf("init otel: %w", err)
			}
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := cleanup(shutdownCtx); err != nil {
					log.Error().Err(err).Msg("shutdown otel")
				}
			}()

			database, err := db.Connect(ctx, cfg.DBDSN)
			if err != nil {
				return fmt.Errorf("connect database: %w", err)
			}
			defer func() {
				if err := db.Close(database); err != nil {
					log.Error().Err(err).Msg("close database")
				}
			}()

			if err := db.Migrate(ctx, database); err != nil {
				return fmt.Errorf("migrate database: %w", err)
			}

			st := store.New(database)

			mailer, err := mail.NewSender(ctx, cfg.MailFrom)
			if err != nil {
				return fmt.Errorf("init mailer: %w", err)
			}

			tokens, err := auth.NewManager(cfg.JWTSigningKey, cfg.AccessTokenTTL)
			if err != nil {
				return fmt.Errorf("init token manager: %w", err)
			}

			a, err := api.New(st, mailer, tokens, api.Config{
				AppBaseURL:           cfg.AppBaseURL,
				VerificationTokenTTL: cfg.VerificationTokenTTL,
				AllowedOrigins:       cfg.AllowedOrigins,
			})
			if err != nil {
				return fmt.Errorf("init api: %w", err)
			}

			go func() {
				sw := sweeper.New(st, cfg.SweepInterval, log.Logger)
				if err := sw.Run(ctx); err != nil && ctx.Err() == nil {
					log.Error().Err(err).Msg("sweeper stopped")
				}
			}()

			srv := &http.Server{
				Addr:              cfg.Addr,
				Handler:           a.Routes(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				log.Info().Str("addr", cfg.Addr).Msg("starting macrolog api")
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- err
				}
			}()

			select {
			case err := <-errCh:
				return fmt.Errorf("http server: %w", err)
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Error().Err(err).Msg("shutdown server")
			}
			return nil
		},
	}
}

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run schema migrations and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			cfg, err := config.Load(ctx)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			database, err := db.Connect(ctx, cfg.DBDSN)
			if err != nil {
				return fmt.Errorf("connect database: %w", err)
			}
			defer func() {
				if err := db.Close(database); err != nil {
					log.Error().Err(err).Msg("close database")
				}
			}()

			if err := db.Migrate(ctx, database); err != nil {
				return fmt.Errorf("migrate database: %w", err)
			}
			log.Info().Msg("migrations applied")
			return nil
		},
	}
}

func newSweepCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Delete expired unverified signups once and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			cfg, err := config.Load(ctx)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			database, err := db.Connect(ctx, cfg.DBDSN)
			if err != nil {
				return fmt.Errorf("connect database: %w", err)
			}
			defer func() {
				if err := db.Close(database); err != nil {
					log.Error().Err(err).Msg("close database")
				}
			}()

			sw := sweeper.New(store.New(database), cfg.SweepInterval, log.Logger)
			return sw.RunOnce(ctx)
		},
	}
}
