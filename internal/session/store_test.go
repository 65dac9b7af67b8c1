package session

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/wallyhq/wally/internal/model"
)

// ---- helpers ----

// memKV is an in-memory KV for tests.
type memKV struct {
	data    map[string]string
	failAll bool
}

func newMemKV() *memKV {
	return &memKV{data: map[string]string{}}
}

func (m *memKV) Get(key string) (string, bool, error) {
	if m.failAll {
		return "", false, errors.New("storage unavailable")
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memKV) Put(key, value string) error {
	if m.failAll {
		return errors.New("storage unavailable")
	}
	m.data[key] = value
	return nil
}

func (m *memKV) Delete(key string) error {
	if m.failAll {
		return errors.New("storage unavailable")
	}
	delete(m.data, key)
	return nil
}

func testUser() *model.User {
	return &model.User{
		ID:     "u-1",
		Email:  "alice@example.com",
		Handle: "alice",
		Role:   model.RoleUser,
		Status: model.StatusActive,
	}
}

// ---- tests ----

func TestSetAuthMakesSessionValid(t *testing.T) {
	s := NewStore(newMemKV())

	require.False(t, s.IsValid())

	s.SetAuth(testUser(), "tok-123", time.Hour)
	require.True(t, s.IsValid())
	require.Equal(t, "tok-123", s.Token())
	require.Equal(t, "alice", s.Handle())
}

func TestIsValidFlipsExactlyAtExpiry(t *testing.T) {
	s := NewStore(newMemKV())

	now := time.Now()
	s.now = func() time.Time { return now }
	s.SetAuth(testUser(), "tok", time.Hour)

	s.now = func() time.Time { return now.Add(time.Hour - time.Millisecond) }
	require.True(t, s.IsValid())

	s.now = func() time.Time { return now.Add(time.Hour) }
	require.False(t, s.IsValid(), "session must be invalid the instant the clock passes expiry")
}

func TestIsValidHasNoSideEffects(t *testing.T) {
	s := NewStore(newMemKV())

	now := time.Now()
	s.now = func() time.Time { return now }
	s.SetAuth(testUser(), "tok", time.Minute)

	s.now = func() time.Time { return now.Add(time.Hour) }
	require.False(t, s.IsValid())
	// The stale token remains until something logs out; IsValid itself
	// never mutates.
	require.Equal(t, "tok", s.token)
}

func TestLogoutAlwaysInvalidates(t *testing.T) {
	s := NewStore(newMemKV())
	s.SetAuth(testUser(), "tok", time.Hour)

	s.Logout()
	require.False(t, s.IsValid())
	require.Empty(t, s.Token())
	require.Nil(t, s.User())

	// Idempotent on an already-empty session.
	s.Logout()
	require.False(t, s.IsValid())
}

func TestSetUserLeavesTokenUntouched(t *testing.T) {
	s := NewStore(newMemKV())
	s.SetAuth(testUser(), "tok", time.Hour)

	updated := testUser()
	updated.Handle = "alice2"
	s.SetUser(updated)

	require.True(t, s.IsValid())
	require.Equal(t, "tok", s.Token())
	require.Equal(t, "alice2", s.Handle())
}

func TestDefaultTTLApplied(t *testing.T) {
	s := NewStore(newMemKV())

	now := time.Now()
	s.now = func() time.Time { return now }
	s.SetAuth(testUser(), "tok", 0)

	s.now = func() time.Time { return now.Add(23 * time.Hour) }
	require.True(t, s.IsValid())

	s.now = func() time.Time { return now.Add(25 * time.Hour) }
	require.False(t, s.IsValid())
}

func TestPersistAndReload(t *testing.T) {
	kv := newMemKV()

	s1 := NewStore(kv)
	s1.SetAuth(testUser(), "tok-abc", time.Hour)

	s2 := NewStore(kv)
	require.True(t, s2.IsValid())
	require.Equal(t, "tok-abc", s2.Token())
	require.Equal(t, "alice", s2.Handle())
}

func TestExpiredSessionScrubbedOnLoad(t *testing.T) {
	kv := newMemKV()

	rec := record{
		SchemaVersion: schemaVersion,
		User:          testUser(),
		Token:         "stale-tok",
		TokenExpiry:   time.Now().Add(-time.Minute).UnixMilli(),
	}
	data, err := json.Marshal(rec)
	require.NoError(t, err)
	require.NoError(t, kv.Put(storageKey, string(data)))

	s := NewStore(kv)
	require.False(t, s.IsValid())
	require.Empty(t, s.Token(), "stale credentials must be scrubbed on load")

	// The scrub is written through, so the next load starts clean too.
	var persisted record
	raw, ok, err := kv.Get(storageKey)
	require.NoError(t, err)
	require.True(t, ok)
	require.NoError(t, json.Unmarshal([]byte(raw), &persisted))
	require.Empty(t, persisted.Token)
}

func TestCorruptRecordResetsToEmpty(t *testing.T) {
	kv := newMemKV()
	require.NoError(t, kv.Put(storageKey, "{not json"))

	require.NotPanics(t, func() {
		s := NewStore(kv)
		require.False(t, s.IsValid())
	})
}

func TestUnknownSchemaVersionResetsToEmpty(t *testing.T) {
	kv := newMemKV()

	rec := record{
		SchemaVersion: 99,
		User:          testUser(),
		Token:         "tok",
		TokenExpiry:   time.Now().Add(time.Hour).UnixMilli(),
	}
	data, err := json.Marshal(rec)
	require.NoError(t, err)
	require.NoError(t, kv.Put(storageKey, string(data)))

	s := NewStore(kv)
	require.False(t, s.IsValid())
	require.Empty(t, s.Token())
}

func TestV0RecordMigratesToLoggedOut(t *testing.T) {
	kv := newMemKV()

	// v0 records predate the expiry field; without one the session
	// cannot be proven valid.
	require.NoError(t, kv.Put(storageKey,
		`{"schemaVersion":0,"user":{"id":"u-1","handle":"alice"},"token":"old-tok"}`))

	s := NewStore(kv)
	require.False(t, s.IsValid())
	require.Empty(t, s.Token())
}

func TestStorageFailureDegradesToMemory(t *testing.T) {
	kv := newMemKV()
	kv.failAll = true

	// No operation surfaces the storage failure.
	s := NewStore(kv)
	s.SetAuth(testUser(), "tok", time.Hour)
	require.True(t, s.IsValid())
	s.Logout()
	require.False(t, s.IsValid())
}

func TestNilStorageIsInMemory(t *testing.T) {
	s := NewStore(nil)
	s.SetAuth(testUser(), "tok", time.Hour)
	require.True(t, s.IsValid())
}
