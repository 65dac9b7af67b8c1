package session

// migrate upgrades a persisted record to the current schema, one version
// step at a time. Versions newer than the current schema pass through
// unchanged and are rejected by the caller.
func migrate(rec record) record {
	// v0 records predate the token expiry field. Without an expiry the
	// session cannot be proven valid, so it loads as logged-out.
	if rec.SchemaVersion == 0 {
		rec.TokenExpiry = 0
		rec.SchemaVersion = 1
	}
	return rec
}
