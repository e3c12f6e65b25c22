package tracker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/venkatarun/hidden-habits/internal/core/domain"
	"github.com/venkatarun/hidden-habits/internal/core/services"
)

// SyncEndpoint is the sync API path on the server.
const SyncEndpoint = "/api/vx7a9d2"

// Client talks to the sync endpoint, presenting a session token obtained
// from the unlock flow.
type Client struct {
	baseURL      string
	sessionToken string
	cookieName   string
	httpClient   *http.Client
}

func NewClient(baseURL, sessionToken string) *Client {
	return &Client{
		baseURL:      baseURL,
		sessionToken: sessionToken,
		cookieName:   services.SessionCookieName,
		httpClient:   &http.Client{Timeout: 10 * time.Second},
	}
}

// FetchStore retrieves and normalizes the current store. Any transport
// failure, non-OK status or undecodable body is an error; the caller decides
// how to degrade.
func (c *Client) FetchStore(ctx context.Context) (domain.HabitStore, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+SyncEndpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("tracker: build fetch request: %w", err)
	}
	c.attachSession(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tracker: fetch store: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tracker: fetch store: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("tracker: read fetch response: %w", err)
	}

	var raw any
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("tracker: decode fetch response: %w", err)
	}
	return domain.NormalizeStore(raw), nil
}

// ReplaceStore persists the given store server-side.
func (c *Client) ReplaceStore(ctx context.Context, store domain.HabitStore) error {
	payload, err := store.CanonicalPayload()
	if err != nil {
		return fmt.Errorf("tracker: serialize store: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+SyncEndpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("tracker: build replace request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.attachSession(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("tracker: replace store: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("tracker: replace store: unexpected status %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) attachSession(req *http.Request) {
	req.AddCookie(&http.Cookie{Name: c.cookieName, Value: c.sessionToken})
}
