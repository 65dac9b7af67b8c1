package api

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// NewIdempotencyKey returns a key for one logical transfer submission.
// Unix millis plus a random suffix is practically unique per session,
// which is all the server needs to collapse duplicate deliveries; this
// is not a security token.
func NewIdempotencyKey() string {
	return fmt.Sprintf("%d-%s", time.Now().UnixMilli(), uuid.NewString()[:8])
}
