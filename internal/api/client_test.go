package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"github.com/wallyhq/wally/internal/config"
	"github.com/wallyhq/wally/internal/model"
	"github.com/wallyhq/wally/internal/money"
	"github.com/wallyhq/wally/internal/session"
)

// ---- fake wallet server ----

// fakeServer is an echo-based stand-in for the wallet API, just enough
// surface for the gateway to talk to.
type fakeServer struct {
	e *echo.Echo

	// captured per request
	lastAuth     string
	lastTransfer map[string]any

	// canned behavior
	walletStatus int
}

func newFakeServer(t *testing.T) (*fakeServer, *httptest.Server) {
	t.Helper()

	f := &fakeServer{e: echo.New(), walletStatus: http.StatusOK}
	f.e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			f.lastAuth = c.Request().Header.Get("Authorization")
			return next(c)
		}
	})

	f.e.POST("/auth/login", func(c echo.Context) error {
		var body map[string]string
		if err := c.Bind(&body); err != nil {
			return err
		}
		if body["password"] != "hunter2" {
			return c.JSON(http.StatusBadRequest, map[string]string{"message": "invalid credentials"})
		}
		return c.JSON(http.StatusOK, map[string]any{
			"user": map[string]any{
				"id": "u-1", "email": body["email"], "handle": "alice",
				"role": "user", "status": "active",
			},
			"token": "tok-fresh",
		})
	})

	f.e.GET("/users/me", func(c echo.Context) error {
		if f.walletStatus != http.StatusOK {
			return c.JSON(f.walletStatus, map[string]string{"message": "nope"})
		}
		return c.JSON(http.StatusOK, map[string]any{
			"success": true,
			"data": map[string]any{
				"id": "u-1",
				"wallet": map[string]any{
					"id":      "w-1",
					"balance": "1234.5",
				},
			},
		})
	})

	f.e.GET("/transactions/history", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]any{
			"success": true,
			"data": map[string]any{
				"transactions": []map[string]any{
					{
						"id":           "tx-1",
						"type":         "SENT",
						"counterparty": map[string]string{"handle": "bob"},
						"amount":       "25.00",
						"status":       "SUCCESS",
						"note":         "lunch",
						"createdAt":    "2026-08-30T12:00:00Z",
					},
					{
						"id":           "tx-2",
						"type":         "RECEIVED",
						"counterparty": map[string]string{"handle": "carol"},
						"amount":       "10.50",
						"status":       "PENDING",
						"createdAt":    "2026-08-29T09:30:00Z",
					},
				},
				"pagination": map[string]int{
					"page": 1, "limit": 10, "total": 2, "totalPages": 1,
				},
			},
		})
	})

	f.e.GET("/transactions/:id", func(c echo.Context) error {
		if c.Param("id") != "tx-1" {
			return c.JSON(http.StatusNotFound, map[string]string{"message": "transaction not found"})
		}
		return c.JSON(http.StatusOK, map[string]any{
			"id":             "tx-1",
			"senderHandle":   "alice",
			"receiverHandle": "bob",
			"amount":         "25.00",
			"currency":       "USD",
			"note":           "lunch",
			"status":         "SUCCESS",
			"createdAt":      "2026-08-30T12:00:00Z",
		})
	})

	f.e.POST("/transactions/send", func(c echo.Context) error {
		var body map[string]any
		if err := c.Bind(&body); err != nil {
			return err
		}
		f.lastTransfer = body
		return c.JSON(http.StatusCreated, map[string]any{
			"id":             "tx-new",
			"senderHandle":   "alice",
			"receiverHandle": body["recipientHandle"],
			"amount":         body["amount"],
			"status":         "PENDING",
			"createdAt":      time.Now().UTC().Format(time.RFC3339),
		})
	})

	srv := httptest.NewServer(f.e)
	t.Cleanup(srv.Close)
	return f, srv
}

func newTestClient(t *testing.T, url string) (*Client, *session.Store) {
	t.Helper()
	cfg := &config.Config{ServerURL: url, TimeoutSeconds: 5}
	sess := session.NewStore(nil)
	return NewClient(cfg, sess), sess
}

func loggedIn(sess *session.Store) {
	sess.SetAuth(&model.User{ID: "u-1", Handle: "alice"}, "tok-valid", time.Hour)
}

// ---- tests ----

func TestLoginInstallsSession(t *testing.T) {
	_, srv := newFakeServer(t)
	client, sess := newTestClient(t, srv.URL)

	user, err := client.Login(context.Background(), "alice@example.com", "hunter2")
	require.NoError(t, err)
	require.Equal(t, "alice", user.Handle)
	require.True(t, sess.IsValid())
	require.Equal(t, "tok-fresh", sess.Token())
}

func TestLoginFailureSurfacesServerMessage(t *testing.T) {
	_, srv := newFakeServer(t)
	client, sess := newTestClient(t, srv.URL)

	_, err := client.Login(context.Background(), "alice@example.com", "wrong")
	require.ErrorIs(t, err, ErrClient)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "invalid credentials", apiErr.Message)
	require.False(t, sess.IsValid())
}

func TestBearerAttachedWhenSessionValid(t *testing.T) {
	f, srv := newFakeServer(t)
	client, sess := newTestClient(t, srv.URL)
	loggedIn(sess)

	_, err := client.Wallet(context.Background())
	require.NoError(t, err)
	require.Equal(t, "Bearer tok-valid", f.lastAuth)
}

func TestNoBearerWhenSessionExpired(t *testing.T) {
	f, srv := newFakeServer(t)
	client, sess := newTestClient(t, srv.URL)

	sess.SetAuth(&model.User{Handle: "alice"}, "tok-old", time.Millisecond)
	time.Sleep(5 * time.Millisecond)
	require.False(t, sess.IsValid())

	_, _ = client.Wallet(context.Background())
	require.Empty(t, f.lastAuth, "expired session must not attach a token")
}

func TestUnauthorizedWithTokenClearsSession(t *testing.T) {
	f, srv := newFakeServer(t)
	client, sess := newTestClient(t, srv.URL)
	loggedIn(sess)
	f.walletStatus = http.StatusUnauthorized

	_, err := client.Wallet(context.Background())
	require.ErrorIs(t, err, ErrAuthExpired)
	require.False(t, sess.IsValid())
	require.Empty(t, sess.Token())
}

func TestUnauthorizedWithoutTokenIsPlainClientError(t *testing.T) {
	f, srv := newFakeServer(t)
	client, sess := newTestClient(t, srv.URL)
	f.walletStatus = http.StatusUnauthorized

	_, err := client.Wallet(context.Background())
	require.ErrorIs(t, err, ErrClient, "401 with no token attached must not look like an expired session")
	require.NotErrorIs(t, err, ErrAuthExpired)
	require.False(t, sess.IsValid())
}

func TestClassification(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusForbidden, ErrForbidden},
		{http.StatusNotFound, ErrNotFound},
		{http.StatusTooManyRequests, ErrRateLimited},
		{http.StatusInternalServerError, ErrServer},
		{http.StatusBadGateway, ErrServer},
		{http.StatusUnprocessableEntity, ErrClient},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			f, srv := newFakeServer(t)
			client, sess := newTestClient(t, srv.URL)
			loggedIn(sess)
			f.walletStatus = tt.status

			_, err := client.Wallet(context.Background())
			require.ErrorIs(t, err, tt.want)

			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			require.Equal(t, tt.status, apiErr.Status)

			// Only authentication expiry touches the session.
			require.True(t, sess.IsValid(), "status %d must not clear the session", tt.status)
		})
	}
}

func TestNetworkFailure(t *testing.T) {
	_, srv := newFakeServer(t)
	client, sess := newTestClient(t, srv.URL)
	loggedIn(sess)
	srv.Close()

	_, err := client.Wallet(context.Background())
	require.ErrorIs(t, err, ErrNetwork)
	require.True(t, sess.IsValid(), "network failure must not clear the session")
}

func TestCanceledRequestIsSilent(t *testing.T) {
	_, srv := newFakeServer(t)
	client, sess := newTestClient(t, srv.URL)
	loggedIn(sess)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Wallet(ctx)
	require.ErrorIs(t, err, context.Canceled)
	require.NotErrorIs(t, err, ErrNetwork, "a canceled request is not a network failure")
}

func TestWalletNormalization(t *testing.T) {
	_, srv := newFakeServer(t)
	client, sess := newTestClient(t, srv.URL)
	loggedIn(sess)

	wallet, err := client.Wallet(context.Background())
	require.NoError(t, err)
	require.Equal(t, "w-1", wallet.ID)
	require.Equal(t, money.MustParse("1234.5"), wallet.Balance)
	require.Equal(t, "1234.50", wallet.Balance.String())
	require.Equal(t, "USD", wallet.Currency)
}

func TestHistoryNormalization(t *testing.T) {
	_, srv := newFakeServer(t)
	client, sess := newTestClient(t, srv.URL)
	loggedIn(sess)

	txs, page, err := client.History(context.Background(), HistoryParams{Limit: 10})
	require.NoError(t, err)
	require.Len(t, txs, 2)
	require.Equal(t, 1, page.TotalPages)

	// SENT: the session's handle is the sender, the counterparty receives.
	sent := txs[0]
	require.Equal(t, "alice", sent.SenderHandle)
	require.Equal(t, "bob", sent.ReceiverHandle)
	require.Equal(t, model.TxCompleted, sent.Status, "SUCCESS maps to completed")
	require.Equal(t, money.MustParse("25"), sent.Amount)

	// RECEIVED: the counterparty is the sender.
	recv := txs[1]
	require.Equal(t, "carol", recv.SenderHandle)
	require.Equal(t, "alice", recv.ReceiverHandle)
	require.Equal(t, model.TxPending, recv.Status)
}

func TestListAndDetailNormalizeIdentically(t *testing.T) {
	_, srv := newFakeServer(t)
	client, sess := newTestClient(t, srv.URL)
	loggedIn(sess)

	txs, _, err := client.History(context.Background(), HistoryParams{})
	require.NoError(t, err)
	fromList := txs[0]

	fromDetail, err := client.Transaction(context.Background(), "tx-1")
	require.NoError(t, err)

	require.Equal(t, fromList.SenderHandle, fromDetail.SenderHandle)
	require.Equal(t, fromList.ReceiverHandle, fromDetail.ReceiverHandle)
	require.Equal(t, fromList.Amount, fromDetail.Amount)
	require.Equal(t, fromList.Status, fromDetail.Status)
}

func TestTransactionNotFound(t *testing.T) {
	_, srv := newFakeServer(t)
	client, sess := newTestClient(t, srv.URL)
	loggedIn(sess)

	_, err := client.Transaction(context.Background(), "tx-missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSendCarriesIdempotencyKey(t *testing.T) {
	f, srv := newFakeServer(t)
	client, sess := newTestClient(t, srv.URL)
	loggedIn(sess)

	_, err := client.Send(context.Background(), "bob", money.MustParse("25"), "lunch")
	require.NoError(t, err)

	key1, ok := f.lastTransfer["idempotencyKey"].(string)
	require.True(t, ok)
	require.NotEmpty(t, key1)

	// A second logical submission gets a fresh key, so only duplicate
	// deliveries of one attempt collapse server-side.
	_, err = client.Send(context.Background(), "bob", money.MustParse("25"), "lunch")
	require.NoError(t, err)
	key2 := f.lastTransfer["idempotencyKey"].(string)
	require.NotEqual(t, key1, key2)
}
