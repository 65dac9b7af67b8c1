package tui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/wallyhq/wally/internal/api"
	"github.com/wallyhq/wally/internal/model"
)

// dashboardMsg carries the outcome of one dashboard fetch. gen ties it to
// the fetch that produced it.
type dashboardMsg struct {
	gen    int
	wallet *model.Wallet
	txs    []model.Transaction
	err    error
}

// startFetch supersedes any in-flight fetch and begins a new one. The
// previous request's context is canceled; its eventual result is dropped
// by generation mismatch in applyFetch.
func (m *Model) startFetch() tea.Cmd {
	if m.cancel != nil {
		m.cancel()
	}

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.gen++
	m.loading = true

	gen := m.gen
	apiClient := m.api

	return func() tea.Msg {
		wallet, err := apiClient.Wallet(ctx)
		if err != nil {
			return dashboardMsg{gen: gen, err: err}
		}

		txs, _, err := apiClient.History(ctx, api.HistoryParams{Limit: 10})
		if err != nil {
			return dashboardMsg{gen: gen, err: err}
		}

		return dashboardMsg{gen: gen, wallet: wallet, txs: txs}
	}
}

// applyFetch folds a fetch result into the model. Stale generations and
// canceled requests are silent no-ops.
func (m *Model) applyFetch(msg dashboardMsg) {
	if msg.gen != m.gen {
		return
	}
	m.loading = false

	if msg.err != nil {
		if errors.Is(msg.err, context.Canceled) {
			return
		}

		var apiErr *api.APIError
		if errors.As(msg.err, &apiErr) {
			m.notice = apiErr.Notice()
		} else {
			m.notice = msg.err.Error()
		}

		// Fall back to the cached balance when offline.
		if errors.Is(msg.err, api.ErrNetwork) && m.wallet == nil && m.db != nil {
			if snap, ok := m.db.LoadWalletSnapshot(); ok {
				w := snap.Wallet
				m.wallet = &w
				m.walletStale = true
			}
		}
		return
	}

	m.notice = ""
	m.wallet = msg.wallet
	m.walletStale = false
	m.txs = msg.txs
	if m.cursor >= len(m.txs) {
		m.cursor = 0
	}

	if m.db != nil && msg.wallet != nil {
		_ = m.db.SaveWalletSnapshot(*msg.wallet)
	}
}

// sessionExpired reports whether the last fetch failed because the
// server rejected the token. The session is already cleared by then;
// the dashboard exits back to the shell.
func (m *Model) sessionExpired(msg dashboardMsg) bool {
	return msg.gen == m.gen && errors.Is(msg.err, api.ErrAuthExpired)
}
