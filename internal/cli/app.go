package cli

import (
	"errors"
	"fmt"

	"github.com/wallyhq/wally/internal/api"
	"github.com/wallyhq/wally/internal/config"
	"github.com/wallyhq/wally/internal/db"
	"github.com/wallyhq/wally/internal/logger"
	"github.com/wallyhq/wally/internal/session"
)

// app bundles the pieces every command needs: config, the local store,
// the session and the API client. Commands build one, use it, close it.
type app struct {
	cfg     *config.Config
	db      *db.DB // nil when local storage is unavailable
	session *session.Store
	api     *api.Client
}

func newApp() *app {
	cfg, err := config.Load()
	if err != nil {
		logger.Warn("Failed to load config, using defaults", logger.F("error", err))
		cfg = config.DefaultConfig()
	}

	database, err := db.OpenDefault()
	if err != nil {
		// The session store degrades to in-memory; the command still runs.
		logger.Warn("Local storage unavailable, running in memory", logger.F("error", err))
		database = nil
	}

	var kv session.KV
	if database != nil {
		kv = database
	}
	sess := session.NewStore(kv)

	return &app{
		cfg:     cfg,
		db:      database,
		session: sess,
		api:     api.NewClient(cfg, sess),
	}
}

func (a *app) close() {
	if a.db != nil {
		_ = a.db.Close()
	}
}

// requireSession fails fast when no valid session exists, before any
// request goes out unauthenticated.
func (a *app) requireSession() error {
	if !a.session.IsValid() {
		return fmt.Errorf("not logged in — run 'wally auth login'")
	}
	return nil
}

// notice converts an API failure into the message a command prints.
// NotFound is deliberately absent: callers present it themselves.
func notice(err error) string {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Notice()
	}
	return err.Error()
}
