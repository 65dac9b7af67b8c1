package model

import "github.com/wallyhq/wally/internal/money"

// Wallet is a read-only projection of the server-side wallet. The balance
// is never authoritative locally; it is replaced wholesale by the next
// successful fetch.
type Wallet struct {
	ID       string       `json:"id"`
	Balance  money.Amount `json:"balance"`
	Currency string       `json:"currency"`
}

// AdminStats is the aggregate view returned by the admin stats endpoint.
type AdminStats struct {
	TotalUsers        int          `json:"totalUsers"`
	ActiveUsers       int          `json:"activeUsers"`
	TotalTransactions int          `json:"totalTransactions"`
	TotalVolume       money.Amount `json:"totalVolume"`
}

// Page describes the pagination block accompanying list responses.
type Page struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}
