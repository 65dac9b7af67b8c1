// Package session holds the client-side authentication state: the current
// user identity, the bearer token and its expiry. It is the only piece of
// process-wide mutable state in wally. Every mutation replaces the session
// wholesale and is written through to durable storage; if storage is
// unavailable the store degrades to in-memory operation.
package session

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/wallyhq/wally/internal/logger"
	"github.com/wallyhq/wally/internal/model"
)

// storageKey is the fixed key the session record is persisted under.
const storageKey = "session"

// schemaVersion is the version written with every persisted record.
// Records with an unknown version reset to an empty session.
const schemaVersion = 1

// DefaultTokenTTL is the validity window applied by SetAuth when the
// server does not dictate one.
const DefaultTokenTTL = 24 * time.Hour

// KV is the durable key-value storage the store persists through.
// *db.DB satisfies it.
type KV interface {
	Get(key string) (string, bool, error)
	Put(key, value string) error
	Delete(key string) error
}

// record is the persisted wire form of the session.
type record struct {
	SchemaVersion int         `json:"schemaVersion"`
	User          *model.User `json:"user"`
	Token         string      `json:"token"`
	TokenExpiry   int64       `json:"tokenExpiry"` // unix millis, 0 = unset
}

// Store owns the session. All access goes through its methods; the token
// and expiry are always set and cleared together.
type Store struct {
	mu sync.Mutex

	user        *model.User
	token       string
	tokenExpiry int64 // unix millis, 0 = unset

	kv  KV // nil when storage is unavailable
	now func() time.Time
}

// NewStore loads the persisted session from kv. A nil kv, a corrupt
// record or an unrecognized schema version all yield an empty session
// rather than an error. If the loaded session is no longer valid its
// residual credentials are scrubbed immediately, so downstream consumers
// can trust the fields without re-validating on every read.
func NewStore(kv KV) *Store {
	s := &Store{kv: kv, now: time.Now}
	s.load()

	if !s.IsValid() {
		s.Logout()
	}
	return s
}

func (s *Store) load() {
	if s.kv == nil {
		return
	}

	raw, ok, err := s.kv.Get(storageKey)
	if err != nil {
		logger.Warn("Failed to read session, starting empty", logger.F("error", err))
		s.kv = nil
		return
	}
	if !ok {
		return
	}

	var rec record
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		logger.Warn("Corrupt session record, resetting", logger.F("error", err))
		return
	}

	rec = migrate(rec)
	if rec.SchemaVersion != schemaVersion {
		logger.Warn("Unknown session schema version, resetting",
			logger.F("version", rec.SchemaVersion))
		return
	}

	s.user = rec.User
	s.token = rec.Token
	s.tokenExpiry = rec.TokenExpiry
}

// SetAuth replaces the whole session after a successful login or
// registration. The expiry is now + ttl; a zero ttl applies the default
// 24 hour window.
func (s *Store) SetAuth(user *model.User, token string, ttl time.Duration) {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}

	s.mu.Lock()
	s.user = user
	s.token = token
	s.tokenExpiry = s.now().Add(ttl).UnixMilli()
	s.persistLocked()
	s.mu.Unlock()
}

// SetUser replaces the identity only, leaving token and expiry untouched.
// Used after profile edits.
func (s *Store) SetUser(user *model.User) {
	s.mu.Lock()
	s.user = user
	s.persistLocked()
	s.mu.Unlock()
}

// Logout clears all session fields unconditionally. Calling it on an
// already-empty session is a no-op.
func (s *Store) Logout() {
	s.mu.Lock()
	s.user = nil
	s.token = ""
	s.tokenExpiry = 0
	s.persistLocked()
	s.mu.Unlock()
}

// IsValid reports whether a token is present, an expiry is set, and the
// expiry has not passed. It never mutates state.
func (s *Store) IsValid() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token != "" && s.tokenExpiry != 0 && s.now().UnixMilli() < s.tokenExpiry
}

// Token returns the bearer token, or "" when logged out.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// User returns the current identity, or nil when logged out.
func (s *Store) User() *model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// Handle returns the current user's handle, or "" when logged out.
func (s *Store) Handle() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return ""
	}
	return s.user.Handle
}

// persistLocked writes the session through to storage. Persistence
// failures downgrade the store to in-memory operation instead of
// surfacing to the caller.
func (s *Store) persistLocked() {
	if s.kv == nil {
		return
	}

	rec := record{
		SchemaVersion: schemaVersion,
		User:          s.user,
		Token:         s.token,
		TokenExpiry:   s.tokenExpiry,
	}
	data, err := json.Marshal(rec)
	if err == nil {
		err = s.kv.Put(storageKey, string(data))
	}
	if err != nil {
		logger.Warn("Failed to persist session, continuing in memory",
			logger.F("error", err))
		s.kv = nil
	}
}
