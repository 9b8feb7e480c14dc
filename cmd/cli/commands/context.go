package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/AyanAnees/volunteer-webapp-sd29-sub001/internal/config"
	"github.com/AyanAnees/volunteer-webapp-sd29-sub001/pkg/core/services"
	"github.com/AyanAnees/volunteer-webapp-sd29-sub001/pkg/db"
	"github.com/AyanAnees/volunteer-webapp-sd29-sub001/pkg/history"
	"github.com/AyanAnees/volunteer-webapp-sd29-sub001/pkg/postgres"
)

// AppContext holds the application dependencies shared across all commands
type AppContext struct {
	Env      string
	Cfg      *config.Config
	Database db.Database
	Postgres *postgres.DB // nil when running on the in-memory store
	History  *history.MongoRecorder
	Effects  *services.Effects
	Logger   *zap.Logger
	Ctx      context.Context
	Out      io.Writer
}

func (app *AppContext) out() io.Writer {
	if app.Out != nil {
		return app.Out
	}
	return os.Stdout
}

// printJSON writes v as indented JSON, used by --json output
func (app *AppContext) printJSON(v any) error {
	enc := json.NewEncoder(app.out())
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}

func (app *AppContext) printf(format string, args ...any) {
	fmt.Fprintf(app.out(), format, args...)
}
