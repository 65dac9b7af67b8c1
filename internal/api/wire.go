package api

import (
	"encoding/json"
	"time"

	"github.com/wallyhq/wally/internal/model"
	"github.com/wallyhq/wally/internal/money"
)

// The server wraps some payloads in a {success, data} envelope and not
// others, and the inner shapes differ per endpoint. Everything
// shape-specific lives in this file; no caller ever sees a wire type.

// defaultCurrency is assumed when an endpoint omits the currency, which
// the list and wallet shapes do.
const defaultCurrency = "USD"

type envelope struct {
	Success *bool           `json:"success"`
	Data    json.RawMessage `json:"data"`
}

// unwrap strips the {success, data} envelope when present. A body is
// only treated as an envelope if it carries the success flag; plain
// resources that happen to have a "data" field (the admin user list)
// pass through untouched.
func unwrap(body []byte) json.RawMessage {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return body
	}
	if env.Success == nil || len(env.Data) == 0 {
		return body
	}
	return env.Data
}

// serverMessage pulls the human-readable message out of a failure body.
// Error bodies are inconsistent across endpoints ("message", "error", or
// nothing parseable), so this is strictly best-effort.
func serverMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if payload.Message != "" {
		return payload.Message
	}
	return payload.Error
}

// wireWalletOwner is the wallet fetch shape: the owning user's id with a
// nested wallet whose balance is a decimal string.
type wireWalletOwner struct {
	ID     string `json:"id"`
	Wallet struct {
		ID       string       `json:"id"`
		Balance  money.Amount `json:"balance"`
		Currency string       `json:"currency"`
	} `json:"wallet"`
}

func (w wireWalletOwner) normalize() model.Wallet {
	currency := w.Wallet.Currency
	if currency == "" {
		currency = defaultCurrency
	}
	return model.Wallet{
		ID:       w.Wallet.ID,
		Balance:  w.Wallet.Balance,
		Currency: currency,
	}
}

// wireTransactionList is the history item shape. Direction comes as a
// SENT/RECEIVED tag with a counterparty instead of absolute sender and
// receiver identities.
type wireTransactionList struct {
	ID           string `json:"id"`
	Type         string `json:"type"` // SENT or RECEIVED
	Counterparty struct {
		Handle string `json:"handle"`
	} `json:"counterparty"`
	Amount    money.Amount `json:"amount"`
	Status    string       `json:"status"`
	Note      string       `json:"note"`
	CreatedAt time.Time    `json:"createdAt"`
}

// normalize resolves SENT/RECEIVED into concrete sender and receiver
// handles using the session's handle as the missing side.
func (t wireTransactionList) normalize(selfHandle string) model.Transaction {
	if selfHandle == "" {
		selfHandle = "me"
	}

	sender, receiver := selfHandle, t.Counterparty.Handle
	if t.Type != "SENT" {
		sender, receiver = t.Counterparty.Handle, selfHandle
	}

	return model.Transaction{
		ID:             t.ID,
		SenderHandle:   sender,
		ReceiverHandle: receiver,
		Amount:         t.Amount,
		Currency:       defaultCurrency,
		Note:           t.Note,
		Status:         model.NormalizeStatus(t.Status),
		CreatedAt:      t.CreatedAt,
	}
}

// wireTransactionDetail is the detail (and transfer response) shape,
// which does carry absolute handles.
type wireTransactionDetail struct {
	ID             string       `json:"id"`
	SenderHandle   string       `json:"senderHandle"`
	ReceiverHandle string       `json:"receiverHandle"`
	Amount         money.Amount `json:"amount"`
	Currency       string       `json:"currency"`
	Note           string       `json:"note"`
	Status         string       `json:"status"`
	CreatedAt      time.Time    `json:"createdAt"`
	FailureReason  string       `json:"failureReason"`
}

func (t wireTransactionDetail) normalize(selfHandle string) model.Transaction {
	currency := t.Currency
	if currency == "" {
		currency = defaultCurrency
	}

	sender, receiver := t.SenderHandle, t.ReceiverHandle
	if sender == "" && selfHandle != "" {
		sender = selfHandle
	}
	if receiver == "" && selfHandle != "" {
		receiver = selfHandle
	}

	return model.Transaction{
		ID:             t.ID,
		SenderHandle:   sender,
		ReceiverHandle: receiver,
		Amount:         t.Amount,
		Currency:       currency,
		Note:           t.Note,
		Status:         model.NormalizeStatus(t.Status),
		CreatedAt:      t.CreatedAt,
		FailureReason:  t.FailureReason,
	}
}

// wireHistory is the inner history payload.
type wireHistory struct {
	Transactions []wireTransactionList `json:"transactions"`
	Pagination   model.Page            `json:"pagination"`
}

// wireUserList is the admin user listing, which nests nothing but keeps
// its pagination fields at the top level.
type wireUserList struct {
	Data       []model.User `json:"data"`
	Total      int          `json:"total"`
	Page       int          `json:"page"`
	Limit      int          `json:"limit"`
	TotalPages int          `json:"totalPages"`
}

func (l wireUserList) page() model.Page {
	totalPages := l.TotalPages
	if totalPages == 0 {
		totalPages = 1
	}
	return model.Page{Page: l.Page, Limit: l.Limit, Total: l.Total, TotalPages: totalPages}
}
