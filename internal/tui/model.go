package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/wallyhq/wally/internal/api"
	"github.com/wallyhq/wally/internal/db"
	"github.com/wallyhq/wally/internal/model"
	"github.com/wallyhq/wally/internal/session"
)

// Mode represents the current UI mode
type Mode int

const (
	ModeList Mode = iota
	ModeDetail
	ModeHelp
)

// Model is the dashboard TUI model.
type Model struct {
	api     *api.Client
	session *session.Store
	db      *db.DB // nil when local storage is unavailable

	// Data
	wallet      *model.Wallet
	walletStale bool
	txs         []model.Transaction

	// Fetch coordination. gen identifies the current fetch; results
	// stamped with an older gen are superseded and dropped, so a slow
	// stale response can never overwrite a newer one. cancel aborts the
	// in-flight fetch when a new one starts.
	gen    int
	cancel context.CancelFunc

	// UI state
	width    int
	height   int
	mode     Mode
	cursor   int
	loading  bool
	notice   string
	detail   *model.Transaction
	spin     spinner.Model
	quitting bool
}

// NewModel creates the dashboard model.
func NewModel(apiClient *api.Client, sess *session.Store, database *db.DB) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		api:     apiClient,
		session: sess,
		db:      database,
		spin:    sp,
		mode:    ModeList,
	}
}
