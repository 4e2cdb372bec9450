package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mmcdole/backlog/internal/domain"
)

const (
	defaultTimeout = 30 * time.Second
	requestIDKey   = "X-Request-Id"
)

// statusError is a non-2xx response other than 401
type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected status code: %d", e.code)
}

// Client implements domain.BacklogRepository and domain.CatalogRepository
// against the backlog REST API
type Client struct {
	baseURL    string
	tokens     domain.TokenSource
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a new backlog API client. A zero timeout uses the default.
func NewClient(baseURL string, tokens domain.TokenSource, timeout time.Duration, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		tokens:  tokens,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// doRequest performs an authenticated HTTP request. No retries: a failed
// call surfaces immediately as a notification or search error.
func (c *Client) doRequest(ctx context.Context, method, path string, query url.Values) ([]byte, error) {
	token, ok := c.tokens.Token()
	if !ok {
		return nil, domain.ErrUnauthenticated
	}

	reqURL := c.baseURL + path
	if query != nil {
		reqURL = fmt.Sprintf("%s?%s", reqURL, query.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set(requestIDKey, requestID)

	c.logger.Debug("backlog request", "method", method, "url", reqURL, "requestID", requestID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		c.logger.Error("backlog request failed", "error", err, "requestID", requestID)
		return nil, domain.ErrServerOffline
	}

	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		c.logger.Warn("backlog request unauthorized", "path", path, "requestID", requestID)
		return nil, domain.ErrAuthFailed
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Error("backlog request error",
			"status", resp.StatusCode,
			"body", string(body),
			"path", path,
			"requestID", requestID,
		)
		return nil, &statusError{code: resp.StatusCode, body: string(body)}
	}

	return body, nil
}

// ListEntries returns the full backlog
func (c *Client) ListEntries(ctx context.Context) ([]domain.Entry, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "/games", nil)
	if err != nil {
		return nil, err
	}

	var resp []entryDTO
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	return mapEntries(resp, c.logger), nil
}

// SearchCatalog queries the external catalog
func (c *Client) SearchCatalog(ctx context.Context, query string) ([]domain.SearchHit, error) {
	q := url.Values{}
	q.Set("query", query)

	body, err := c.doRequest(ctx, http.MethodGet, "/games/search", q)
	if err != nil {
		return nil, err
	}

	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	return mapHits(resp.Results), nil
}

// SaveFromCatalog adds a catalog game to the backlog. Any refusal other
// than 401 is reported as domain.ErrDuplicateEntry.
func (c *Client) SaveFromCatalog(ctx context.Context, externalID string) error {
	path := "/games/save/" + url.PathEscape(externalID)
	_, err := c.doRequest(ctx, http.MethodPost, path, nil)

	var se *statusError
	if errors.As(err, &se) {
		return fmt.Errorf("%w: status %d", domain.ErrDuplicateEntry, se.code)
	}
	return err
}

// UpdateStatus sets the status of an entry
func (c *Client) UpdateStatus(ctx context.Context, id string, status domain.Status) error {
	q := url.Values{}
	q.Set("status", string(status))

	path := fmt.Sprintf("/games/%s/status", url.PathEscape(id))
	_, err := c.doRequest(ctx, http.MethodPatch, path, q)
	return notFound(err, id)
}

// DeleteEntry removes an entry
func (c *Client) DeleteEntry(ctx context.Context, id string) error {
	path := "/games/" + url.PathEscape(id)
	_, err := c.doRequest(ctx, http.MethodDelete, path, nil)
	return notFound(err, id)
}

// notFound maps a 404 to domain.ErrEntryNotFound
func notFound(err error, id string) error {
	var se *statusError
	if errors.As(err, &se) && se.code == http.StatusNotFound {
		return fmt.Errorf("%w: %s", domain.ErrEntryNotFound, id)
	}
	return err
}
