package tui

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/wallyhq/wally/internal/model"
	"github.com/wallyhq/wally/internal/money"
)

func testTxs() []model.Transaction {
	return []model.Transaction{
		{ID: "tx-1", SenderHandle: "alice", ReceiverHandle: "bob",
			Amount: money.MustParse("5.00"), Status: model.TxCompleted,
			CreatedAt: time.Now()},
	}
}

func TestApplyFetchStoresResult(t *testing.T) {
	m := Model{gen: 1, loading: true}
	wallet := &model.Wallet{ID: "w-1", Balance: money.MustParse("10"), Currency: "USD"}

	m.applyFetch(dashboardMsg{gen: 1, wallet: wallet, txs: testTxs()})

	require.False(t, m.loading)
	require.Equal(t, wallet, m.wallet)
	require.Len(t, m.txs, 1)
	require.Empty(t, m.notice)
}

func TestStaleGenerationIsDropped(t *testing.T) {
	wallet := &model.Wallet{ID: "w-1", Balance: money.MustParse("10"), Currency: "USD"}
	m := Model{gen: 2, loading: true, wallet: wallet}

	// A late result from a superseded fetch must never overwrite newer
	// state, even though the request eventually resolved.
	old := &model.Wallet{ID: "w-1", Balance: money.MustParse("999"), Currency: "USD"}
	m.applyFetch(dashboardMsg{gen: 1, wallet: old, txs: nil})

	require.Equal(t, wallet, m.wallet, "stale fetch result leaked into the model")
	require.True(t, m.loading, "stale result must not end the newer fetch's loading state")
}

func TestCanceledFetchIsSilent(t *testing.T) {
	m := Model{gen: 1, loading: true}

	m.applyFetch(dashboardMsg{gen: 1, err: context.Canceled})

	require.False(t, m.loading)
	require.Empty(t, m.notice, "a canceled request is a no-op, not an error to show")
}

func TestFetchErrorSetsNotice(t *testing.T) {
	m := Model{gen: 1, loading: true}

	m.applyFetch(dashboardMsg{gen: 1, err: errTest})
	require.False(t, m.loading)
	require.NotEmpty(t, m.notice)
}

var errTest = &testError{}

type testError struct{}

func (*testError) Error() string { return "boom" }

func TestStartFetchCancelsPrevious(t *testing.T) {
	m := Model{}

	canceled := false
	m.cancel = func() { canceled = true }
	prev := m.gen

	cmd := m.startFetch()
	require.NotNil(t, cmd)
	require.True(t, canceled, "starting a fetch must cancel the in-flight one")
	require.Equal(t, prev+1, m.gen)
	require.True(t, m.loading)
}
