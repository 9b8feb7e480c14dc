package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/AyanAnees/volunteer-webapp-sd29-sub001/internal/transport/httpapi"
)

const shutdownTimeout = 10 * time.Second

// ServeCmd creates the serve command
func ServeCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, _ := cmd.Flags().GetString("addr")
			if addr == "" {
				addr = app.Cfg.HTTPAddr
			}

			ctx, stop := signal.NotifyContext(app.Ctx, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			handler := httpapi.NewHandler(app.Database, app.Effects, app.Logger, httpapi.Options{
				RequestTimeout:       app.Cfg.RequestTimeout,
				SeriesRRule:          app.Cfg.SeriesDefaults.RRule,
				SeriesMaxOccurrences: app.Cfg.SeriesDefaults.MaxOccurrences,
			})

			srv := &http.Server{
				Addr:              addr,
				Handler:           handler.Routes(),
				ReadHeaderTimeout: 5 * time.Second,
				ReadTimeout:       10 * time.Second,
				WriteTimeout:      app.Cfg.RequestTimeout + 5*time.Second,
				IdleTimeout:       60 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				app.Logger.Info("Listening", zap.String("addr", addr), zap.String("storage", app.Cfg.Storage))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				if err != nil {
					return fmt.Errorf("http server: %w", err)
				}
				return nil
			case <-ctx.Done():
			}

			app.Logger.Info("Shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("failed to shut down cleanly: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().String("addr", "", "Listen address (defaults to config httpAddr)")

	return cmd
}

// MigrateCmd creates the migrate command
func MigrateCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Postgres == nil {
				return errors.New("migrate requires storage: postgres")
			}
			if err := app.Postgres.RunMigrations(app.Ctx); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			app.printf("\n✓ Database is up to date\n\n")
			return nil
		},
	}
}
