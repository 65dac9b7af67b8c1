// Package api is the single chokepoint for requests to the wallet server.
// It attaches the bearer token when the session is valid, classifies every
// failed response exactly once into the error taxonomy in errors.go, and
// normalizes the server's per-endpoint payload shapes into the stable
// models in internal/model.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/wallyhq/wally/internal/config"
	"github.com/wallyhq/wally/internal/logger"
	"github.com/wallyhq/wally/internal/model"
	"github.com/wallyhq/wally/internal/money"
	"github.com/wallyhq/wally/internal/session"
)

// Client talks to the wallet API.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	session     *session.Store
	legacyPaths bool

	// expiredOnce guards the 401 side effects (logout, warning log) so
	// a burst of concurrent requests failing together performs them once.
	// The classified error is still returned to every caller.
	expiredOnce atomic.Bool
}

// NewClient creates a client from config and the session store.
func NewClient(cfg *config.Config, sess *session.Store) *Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &Client{
		baseURL:     cfg.ServerURL,
		httpClient:  &http.Client{Timeout: timeout},
		session:     sess,
		legacyPaths: cfg.LegacyPaths,
	}
}

// The wallet and history paths moved between server revisions; which set
// to use is configuration, not contract.
func (c *Client) walletPath() string {
	if c.legacyPaths {
		return "/wallet"
	}
	return "/users/me"
}

func (c *Client) historyPath() string {
	if c.legacyPaths {
		return "/transactions"
	}
	return "/transactions/history"
}

// do issues one request. The session's validity is checked fresh per
// request, never cached, since expiry is time-dependent. On any non-2xx
// response or transport failure it classifies the error (performing the
// global side effects) and returns it; the 2xx body, unwrapped from a
// {success, data} envelope when present, is decoded into out.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	hadToken := false
	if c.session.IsValid() {
		req.Header.Set("Authorization", "Bearer "+c.session.Token())
		hadToken = true
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// A canceled request is a deliberate no-op for the caller, not
		// a failure to report.
		if errors.Is(err, context.Canceled) {
			return context.Canceled
		}
		logger.Warn("Request failed", logger.F("method", method), logger.F("path", path), logger.F("error", err))
		return newAPIError(ErrNetwork, 0, "")
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return context.Canceled
		}
		return newAPIError(ErrNetwork, 0, "")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.classify(resp.StatusCode, hadToken, data, method, path)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(unwrap(data), out); err != nil {
		return fmt.Errorf("failed to decode %s %s response: %w", method, path, err)
	}
	return nil
}

// classify maps a failed response onto the error taxonomy and performs
// the global side effects. It runs exactly once per failed request and
// never swallows the failure: the classified error always goes back to
// the caller for any endpoint-specific handling.
func (c *Client) classify(status int, hadToken bool, body []byte, method, path string) error {
	msg := serverMessage(body)

	switch {
	case status == http.StatusUnauthorized && hadToken:
		if c.expiredOnce.CompareAndSwap(false, true) {
			logger.Warn("Session rejected by server, logging out",
				logger.F("method", method), logger.F("path", path))
			c.session.Logout()
		}
		return newAPIError(ErrAuthExpired, status, msg)
	case status == http.StatusForbidden:
		return newAPIError(ErrForbidden, status, msg)
	case status == http.StatusNotFound:
		return newAPIError(ErrNotFound, status, msg)
	case status == http.StatusTooManyRequests:
		return newAPIError(ErrRateLimited, status, msg)
	case status >= 500:
		logger.Error("Server fault", logger.F("status", status),
			logger.F("method", method), logger.F("path", path))
		return newAPIError(ErrServer, status, msg)
	default:
		return newAPIError(ErrClient, status, msg)
	}
}

// resetExpiryGuard re-arms the one-shot 401 handling after a fresh login.
func (c *Client) resetExpiryGuard() {
	c.expiredOnce.Store(false)
}

// --- Auth ---

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Handle   string `json:"handle,omitempty"`
}

type authResponse struct {
	User  model.User `json:"user"`
	Token string     `json:"token"`
}

// Login authenticates and installs the session on success.
func (c *Client) Login(ctx context.Context, email, password string) (*model.User, error) {
	var out authResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, credentials{Email: email, Password: password}, &out); err != nil {
		return nil, err
	}

	user := out.User
	c.session.SetAuth(&user, out.Token, 0)
	c.resetExpiryGuard()
	logger.Info("Logged in", logger.F("handle", user.Handle))
	return &user, nil
}

// Register creates an account and installs the session on success.
func (c *Client) Register(ctx context.Context, email, password, handle string) (*model.User, error) {
	var out authResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", nil, credentials{Email: email, Password: password, Handle: handle}, &out); err != nil {
		return nil, err
	}

	user := out.User
	c.session.SetAuth(&user, out.Token, 0)
	c.resetExpiryGuard()
	logger.Info("Registered", logger.F("handle", user.Handle))
	return &user, nil
}

// Logout tells the server best-effort and clears the local session
// regardless of the outcome.
func (c *Client) Logout(ctx context.Context) {
	if err := c.do(ctx, http.MethodPost, "/auth/logout", nil, nil, nil); err != nil {
		logger.Debug("Server logout failed, clearing local session anyway", logger.F("error", err))
	}
	c.session.Logout()
}

// Me fetches the authenticated identity.
func (c *Client) Me(ctx context.Context) (*model.User, error) {
	var user model.User
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// --- Wallet ---

// Wallet fetches the wallet projection.
func (c *Client) Wallet(ctx context.Context) (*model.Wallet, error) {
	var owner wireWalletOwner
	if err := c.do(ctx, http.MethodGet, c.walletPath(), nil, nil, &owner); err != nil {
		return nil, err
	}
	w := owner.normalize()
	return &w, nil
}

type fundRequest struct {
	Amount money.Amount `json:"amount"`
}

// Fund adds funds to the wallet and returns the updated projection.
func (c *Client) Fund(ctx context.Context, amount money.Amount) (*model.Wallet, error) {
	var owner wireWalletOwner
	if err := c.do(ctx, http.MethodPost, "/wallet/fund", nil, fundRequest{Amount: amount}, &owner); err != nil {
		return nil, err
	}
	w := owner.normalize()
	return &w, nil
}

// --- Transactions ---

type transferRequest struct {
	RecipientHandle string       `json:"recipientHandle"`
	Amount          money.Amount `json:"amount"`
	Note            string       `json:"note,omitempty"`
	IdempotencyKey  string       `json:"idempotencyKey"`
}

// Send submits one logical transfer. The idempotency key is generated
// here, per call: one user action maps to one Send call and one key, so
// duplicate deliveries of the same submission collapse server-side while
// a genuine second attempt gets a fresh key.
func (c *Client) Send(ctx context.Context, recipientHandle string, amount money.Amount, note string) (*model.Transaction, error) {
	req := transferRequest{
		RecipientHandle: recipientHandle,
		Amount:          amount,
		Note:            note,
		IdempotencyKey:  NewIdempotencyKey(),
	}

	var wire wireTransactionDetail
	if err := c.do(ctx, http.MethodPost, "/transactions/send", nil, req, &wire); err != nil {
		return nil, err
	}
	tx := wire.normalize(c.session.Handle())
	return &tx, nil
}

// HistoryParams filters the transaction history listing.
type HistoryParams struct {
	Page   int
	Limit  int
	Search string
	Filter string
}

// History fetches a page of transactions, normalized against the current
// session's handle.
func (c *Client) History(ctx context.Context, params HistoryParams) ([]model.Transaction, model.Page, error) {
	query := url.Values{}
	if params.Page > 0 {
		query.Set("page", strconv.Itoa(params.Page))
	}
	if params.Limit > 0 {
		query.Set("limit", strconv.Itoa(params.Limit))
	}
	if params.Search != "" {
		query.Set("search", params.Search)
	}
	if params.Filter != "" && params.Filter != "all" {
		query.Set("filter", params.Filter)
	}

	var out wireHistory
	if err := c.do(ctx, http.MethodGet, c.historyPath(), query, nil, &out); err != nil {
		return nil, model.Page{}, err
	}

	handle := c.session.Handle()
	txs := make([]model.Transaction, 0, len(out.Transactions))
	for _, wire := range out.Transactions {
		txs = append(txs, wire.normalize(handle))
	}

	page := out.Pagination
	if page.TotalPages == 0 {
		page.TotalPages = 1
	}
	return txs, page, nil
}

// Transaction fetches one transaction by id. A 404 comes back as
// ErrNotFound for the caller to present.
func (c *Client) Transaction(ctx context.Context, id string) (*model.Transaction, error) {
	var wire wireTransactionDetail
	if err := c.do(ctx, http.MethodGet, "/transactions/"+url.PathEscape(id), nil, nil, &wire); err != nil {
		return nil, err
	}
	tx := wire.normalize(c.session.Handle())
	return &tx, nil
}

// --- Profile ---

type handleRequest struct {
	Handle string `json:"handle"`
}

// UpdateHandle changes the account handle and refreshes the session's
// identity on success.
func (c *Client) UpdateHandle(ctx context.Context, handle string) (*model.User, error) {
	var user model.User
	if err := c.do(ctx, http.MethodPatch, "/user/handle", nil, handleRequest{Handle: handle}, &user); err != nil {
		return nil, err
	}
	c.session.SetUser(&user)
	return &user, nil
}

// --- Admin ---

// AdminStats fetches the aggregate admin dashboard numbers.
func (c *Client) AdminStats(ctx context.Context) (*model.AdminStats, error) {
	var stats model.AdminStats
	if err := c.do(ctx, http.MethodGet, "/admin/stats", nil, nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// AdminUsers lists users for the admin panel.
func (c *Client) AdminUsers(ctx context.Context, page, limit int, search string) ([]model.User, model.Page, error) {
	query := url.Values{}
	if page > 0 {
		query.Set("page", strconv.Itoa(page))
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	if search != "" {
		query.Set("search", search)
	}

	var out wireUserList
	if err := c.do(ctx, http.MethodGet, "/admin/users", query, nil, &out); err != nil {
		return nil, model.Page{}, err
	}
	return out.Data, out.page(), nil
}

// BlockUser blocks an account.
func (c *Client) BlockUser(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	if err := c.do(ctx, http.MethodPost, "/admin/users/"+url.PathEscape(id)+"/block", nil, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UnblockUser unblocks an account.
func (c *Client) UnblockUser(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	if err := c.do(ctx, http.MethodPost, "/admin/users/"+url.PathEscape(id)+"/unblock", nil, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
