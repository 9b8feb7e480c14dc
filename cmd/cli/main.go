package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/AyanAnees/volunteer-webapp-sd29-sub001/cmd/cli/commands"
	"github.com/AyanAnees/volunteer-webapp-sd29-sub001/internal/config"
	"github.com/AyanAnees/volunteer-webapp-sd29-sub001/pkg/clients/gmailclient"
	"github.com/AyanAnees/volunteer-webapp-sd29-sub001/pkg/core/services"
	"github.com/AyanAnees/volunteer-webapp-sd29-sub001/pkg/db"
	"github.com/AyanAnees/volunteer-webapp-sd29-sub001/pkg/history"
	"github.com/AyanAnees/volunteer-webapp-sd29-sub001/pkg/notify"
	"github.com/AyanAnees/volunteer-webapp-sd29-sub001/pkg/postgres"
	"github.com/AyanAnees/volunteer-webapp-sd29-sub001/pkg/utils"
	"github.com/AyanAnees/volunteer-webapp-sd29-sub001/pkg/utils/logging"
)

var (
	env         string
	app         = &commands.AppContext{}
	mongoClient *mongo.Client
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "volunteer",
		Short: "Volunteer matching - rank events, manage applications and capacity",
		Long:  `A CLI and HTTP service for matching volunteers to events and tracking their applications.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			shutdown()
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "", "Environment (required: dev, test, prod, etc.)")
	rootCmd.MarkPersistentFlagRequired("env")

	rootCmd.AddCommand(commands.ServeCmd(app))
	rootCmd.AddCommand(commands.MigrateCmd(app))
	rootCmd.AddCommand(commands.RankEventsCmd(app))
	rootCmd.AddCommand(commands.ApplyCmd(app))
	rootCmd.AddCommand(commands.TransitionCmd(app))
	rootCmd.AddCommand(commands.FeedbackCmd(app))
	rootCmd.AddCommand(commands.HistoryCmd(app))
	rootCmd.AddCommand(commands.EventVolunteersCmd(app))
	rootCmd.AddCommand(commands.CreateEventCmd(app))
	rootCmd.AddCommand(commands.CreateEventSeriesCmd(app))
	rootCmd.AddCommand(commands.SetEventStatusCmd(app))
	rootCmd.AddCommand(commands.ListEventsCmd(app))
	rootCmd.AddCommand(commands.SaveProfileCmd(app))
	rootCmd.AddCommand(commands.NotificationsCmd(app))
	rootCmd.AddCommand(commands.AuditCmd(app))
	rootCmd.AddCommand(commands.InteractiveCmd(app))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initApp sets up logger, config, database and notification/history sinks
func initApp() error {
	var err error
	app.Env = env
	app.Ctx = context.Background()

	app.Logger, err = logging.InitLogger(env)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.Logger.Info("Starting application", zap.String("environment", env))

	app.Logger.Info("Loading configuration")
	app.Cfg, err = config.Load(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	app.Logger.Debug("Configuration loaded successfully", zap.String("storage", app.Cfg.Storage))

	if err := initDatabase(); err != nil {
		return err
	}

	notifier, err := initNotifier()
	if err != nil {
		return err
	}

	recorder, err := initRecorder()
	if err != nil {
		return err
	}

	app.Effects = services.NewEffects(notifier, recorder, app.Logger, app.Cfg.Notifications.Timeout)
	return nil
}

func initDatabase() error {
	if app.Cfg.Storage == config.StorageMemory {
		app.Logger.Info("Using in-memory storage; data is lost on exit")
		app.Database = db.NewMemoryDB()
		return nil
	}

	app.Logger.Info("Connecting to database")
	pg, err := postgres.NewDB(app.Ctx, app.Cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	app.Postgres = pg
	app.Database = pg
	app.Logger.Info("Database connected successfully")
	return nil
}

// initNotifier builds the notification fan-out from the enabled sinks
func initNotifier() (services.Notifier, error) {
	var sinks notify.Multi

	if app.Cfg.Notifications.StoreSinkEnabled() {
		sinks = append(sinks, notify.NewStoreSink(app.Database))
	}

	emailCfg := app.Cfg.Notifications.Email
	if emailCfg.Enabled {
		app.Logger.Info("Loading OAuth client configuration")
		oauthCfg, err := config.LoadOAuthClient(emailCfg, env)
		if err != nil {
			return nil, fmt.Errorf("failed to load OAuth client config: %w", err)
		}

		oauthConfig, err := utils.GetOAuthConfig(oauthCfg)
		if err != nil {
			return nil, fmt.Errorf("failed to build OAuth config: %w", err)
		}
		token, err := utils.GetTokenWithFlow(app.Ctx, oauthConfig, env, app.Logger)
		if err != nil {
			return nil, fmt.Errorf("failed to get OAuth token: %w", err)
		}

		app.Logger.Info("Initializing gmail client")
		gmail, err := gmailclient.NewClient(app.Ctx, oauthCfg, token, emailCfg.GmailUserID, emailCfg.GmailSender)
		if err != nil {
			return nil, fmt.Errorf("failed to create gmail client: %w", err)
		}
		sinks = append(sinks, notify.NewEmailSink(gmail, app.Database, emailCfg.LinkBaseURL, app.Logger))
		app.Logger.Debug("Gmail client initialized successfully")
	}

	if len(sinks) == 0 {
		app.Logger.Info("All notification sinks disabled")
		return nil, nil
	}
	return sinks, nil
}

// initRecorder records history in MongoDB when configured, otherwise in the log
func initRecorder() (services.Recorder, error) {
	hc := app.Cfg.History
	if hc.MongoURI == "" {
		return history.NewLogRecorder(app.Logger), nil
	}

	app.Logger.Info("Connecting to history store")
	client, recorder, err := history.Connect(app.Ctx, hc.MongoURI, hc.Database, hc.Collection)
	if err != nil {
		return nil, err
	}
	if err := recorder.EnsureIndexes(app.Ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	mongoClient = client
	app.History = recorder
	return recorder, nil
}

// shutdown waits for pending notifications and history writes before closing connections
func shutdown() {
	app.Effects.Wait()

	if mongoClient != nil {
		if err := mongoClient.Disconnect(context.Background()); err != nil && app.Logger != nil {
			app.Logger.Warn("Failed to disconnect history store", zap.Error(err))
		}
	}
	if app.Database != nil {
		app.Database.Close()
	}
	if app.Logger != nil {
		app.Logger.Sync()
	}
}
