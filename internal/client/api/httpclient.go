package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

const defaultTimeout = 15 * time.Second

// HTTPClient implements Client against the Reverie REST backend.
type HTTPClient struct {
	baseURL string
	http    *http.Client

	mu    sync.RWMutex
	token string
}

// NewHTTPClient builds a client for the backend at baseURL (no trailing
// slash required).
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
	}
}

func (c *HTTPClient) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *HTTPClient) currentToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// doJSON performs one request with a JSON body (nil for none), decoding the
// response into out (nil to discard). Transport failures map to
// ErrUnavailable, 401 to ErrUnauthorized, other non-2xx to *APIError.
func (c *HTTPClient) doJSON(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token := c.currentToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{Status: resp.StatusCode, Message: strings.TrimSpace(string(msg))}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (LoginResponse, error) {
	var out LoginResponse
	err := c.doJSON(ctx, http.MethodPost, "/auth/login", loginRequest{Email: email, Password: password}, &out)
	return out, err
}

func (c *HTTPClient) Register(ctx context.Context, email, password, username string) error {
	var out registerResponse
	if err := c.doJSON(ctx, http.MethodPost, "/auth/register", registerRequest{Email: email, Password: password, Username: username}, &out); err != nil {
		return err
	}
	if out.Error != "" {
		return &APIError{Status: http.StatusOK, Message: out.Error}
	}
	return nil
}

func (c *HTTPClient) VerifyToken(ctx context.Context) (bool, error) {
	var out verifyResponse
	if err := c.doJSON(ctx, http.MethodGet, "/auth/verify", nil, &out); err != nil {
		return false, err
	}
	return out.Valid, nil
}

func (c *HTTPClient) Me(ctx context.Context) (UserMe, error) {
	var out UserMe
	err := c.doJSON(ctx, http.MethodGet, "/auth/me", nil, &out)
	return out, err
}

func (c *HTTPClient) ListDreams(ctx context.Context) ([]DreamRecord, error) {
	var out []DreamRecord
	err := c.doJSON(ctx, http.MethodGet, "/dream/dreams", nil, &out)
	return out, err
}

func (c *HTTPClient) CreateDream(ctx context.Context, req CreateDreamRequest) (CreateDreamResponse, error) {
	var out CreateDreamResponse
	err := c.doJSON(ctx, http.MethodPost, "/dream/dreams", req, &out)
	return out, err
}

func (c *HTTPClient) UpdateDream(ctx context.Context, id string, req UpdateDreamRequest) error {
	return c.doJSON(ctx, http.MethodPut, "/dream/dreams/"+url.PathEscape(id), req, nil)
}

func (c *HTTPClient) DeleteDream(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/dream/dreams/"+url.PathEscape(id), nil, nil)
}

func (c *HTTPClient) UpdateProfile(ctx context.Context, userID string, req ProfileUpdateRequest) error {
	return c.doJSON(ctx, http.MethodPut, "/user_bp/users/"+url.PathEscape(userID), req, nil)
}

func (c *HTTPClient) UserStats(ctx context.Context, userID string) (UserStats, error) {
	var out UserStats
	err := c.doJSON(ctx, http.MethodGet, "/user_bp/users/"+url.PathEscape(userID)+"/stats", nil, &out)
	return out, err
}

func (c *HTTPClient) TrendSummary(ctx context.Context) (TrendSummary, error) {
	var out TrendSummary
	err := c.doJSON(ctx, http.MethodGet, "/trend/trends/summary", nil, &out)
	return out, err
}

func (c *HTTPClient) TrendTimeline(ctx context.Context) ([]TrendTimelineEntry, error) {
	var out []TrendTimelineEntry
	err := c.doJSON(ctx, http.MethodGet, "/trend/trends/timeline", nil, &out)
	return out, err
}

func (c *HTTPClient) TrendStreaks(ctx context.Context) (TrendStreaks, error) {
	var out TrendStreaks
	err := c.doJSON(ctx, http.MethodGet, "/trend/trends/streaks", nil, &out)
	return out, err
}

func (c *HTTPClient) TrendTags(ctx context.Context) (TrendTags, error) {
	var out TrendTags
	err := c.doJSON(ctx, http.MethodGet, "/trend/trends/tags", nil, &out)
	return out, err
}

func (c *HTTPClient) TrendMonthly(ctx context.Context) ([]TrendMonthlyEntry, error) {
	var out []TrendMonthlyEntry
	err := c.doJSON(ctx, http.MethodGet, "/trend/trends/monthly", nil, &out)
	return out, err
}
