// Package api wraps the remote blog REST API. Every function here follows
// the same contract: on success, decoded payloads; on any failure, an
// *Error whose message can be rendered to the user as-is. Raw transport
// errors never escape this package.
package api

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/Qoldo3/Django/store"
)

const loginPath = "/accounts/api/v1/jwt/create/"

type Client struct {
	baseURL string
	http    *http.Client
	store   *store.Store
	log     *slog.Logger

	// unauthorized runs after the transport layer wipes the session on a
	// 401. Set once at startup, before any request is issued.
	unauthorized func()
}

// New builds the one client the whole program shares. timeout bounds every
// outbound request; once it fires the failure is indistinguishable from a
// network error to the caller.
func New(baseURL string, timeout time.Duration, st *store.Store, log *slog.Logger) *Client {
	c := &Client{
		baseURL: baseURL,
		store:   st,
		log:     log,
	}
	c.http = &http.Client{
		Timeout:   timeout,
		Transport: &authTransport{client: c, next: http.DefaultTransport},
	}
	return c
}

// OnUnauthorized registers the forced-logout hook. Call before the UI
// starts issuing requests.
func (c *Client) OnUnauthorized(fn func()) {
	c.unauthorized = fn
}

// authTransport is the interceptor pair of the client: it attaches the
// persisted bearer token to every outgoing request and tears the session
// down on any 401 response. The teardown is deliberately blunt: no
// expired-vs-missing distinction and no refresh-token exchange; the
// stored refresh token stays unredeemed.
type authTransport struct {
	client *Client
	next   http.RoundTripper
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("X-Request-ID", uuid.NewString())
	if token := t.client.store.AccessToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := t.next.RoundTrip(req)
	if err != nil {
		t.client.log.Warn("request failed",
			"method", req.Method, "url", req.URL.Path, "err", err)
		return nil, err
	}

	t.client.log.Debug("request",
		"method", req.Method, "url", req.URL.Path,
		"status", resp.StatusCode, "request_id", req.Header.Get("X-Request-ID"))

	// A 401 from the credential exchange itself is a login failure, not a
	// dead session; it renders inline next to the form instead.
	if resp.StatusCode == http.StatusUnauthorized && req.URL.Path != loginPath {
		if clearErr := t.client.store.Clear(); clearErr != nil {
			t.client.log.Error("clearing session", "err", clearErr)
		}
		if fn := t.client.unauthorized; fn != nil {
			fn()
		}
	}

	return resp, nil
}

// do issues one request against the API. contentType may be empty for
// body-less requests.
func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return c.http.Do(req)
}

// readBody drains and closes the response body. Bodies are small (JSON
// payloads), reading them whole keeps error extraction simple.
func readBody(resp *http.Response) []byte {
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil
	}
	return raw
}
