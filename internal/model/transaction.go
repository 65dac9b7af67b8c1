package model

import (
	"strings"
	"time"

	"github.com/wallyhq/wally/internal/money"
)

// Transaction statuses after normalization.
const (
	TxPending   = "pending"
	TxCompleted = "completed"
	TxFailed    = "failed"
)

// Transaction is the client-side projection of a transfer. Both the list
// and the detail endpoints normalize into this one shape, so views never
// branch on the wire format they came from.
type Transaction struct {
	ID             string       `json:"id"`
	SenderHandle   string       `json:"senderHandle"`
	ReceiverHandle string       `json:"receiverHandle"`
	Amount         money.Amount `json:"amount"`
	Currency       string       `json:"currency"`
	Note           string       `json:"note,omitempty"`
	Status         string       `json:"status"`
	CreatedAt      time.Time    `json:"createdAt"`
	FailureReason  string       `json:"failureReason,omitempty"`
}

// Outgoing reports whether the transaction was sent by the given handle.
func (t Transaction) Outgoing(handle string) bool {
	return strings.EqualFold(t.SenderHandle, handle)
}

// NormalizeStatus maps the server's status vocabulary onto the client's.
// The server reports successful transfers as "SUCCESS"; everything else
// passes through lowercased.
func NormalizeStatus(s string) string {
	if strings.EqualFold(s, "SUCCESS") {
		return TxCompleted
	}
	return strings.ToLower(s)
}
