package db

import (
	"encoding/json"
	"time"

	"github.com/wallyhq/wally/internal/model"
)

const snapshotKey = "wallet_snapshot"

// WalletSnapshot is the last successfully fetched wallet, kept so the
// balance can still be shown (marked stale) when the server is
// unreachable. It is never authoritative; every successful fetch
// replaces it.
type WalletSnapshot struct {
	Wallet    model.Wallet `json:"wallet"`
	FetchedAt time.Time    `json:"fetchedAt"`
}

// SaveWalletSnapshot records the wallet as of now.
func (db *DB) SaveWalletSnapshot(w model.Wallet) error {
	snap := WalletSnapshot{Wallet: w, FetchedAt: time.Now()}
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return db.Put(snapshotKey, string(data))
}

// LoadWalletSnapshot returns the cached wallet, or ok=false when none is
// stored or the stored form does not parse.
func (db *DB) LoadWalletSnapshot() (WalletSnapshot, bool) {
	raw, ok, err := db.Get(snapshotKey)
	if err != nil || !ok {
		return WalletSnapshot{}, false
	}

	var snap WalletSnapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		return WalletSnapshot{}, false
	}
	return snap, true
}

// ClearWalletSnapshot drops the cached wallet, used on logout so a
// balance never leaks across accounts.
func (db *DB) ClearWalletSnapshot() error {
	return db.Delete(snapshotKey)
}
