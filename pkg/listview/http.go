package listview

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/storelane/storelane/internal/listquery"
)

// Client is a session-aware HTTP client for the console API. The cookie
// jar carries the login session across requests.
type Client struct {
	base *url.URL
	http *http.Client
}

// NewClient constructs a Client for the given API base URL, e.g.
// "https://console.example.com/api".
func NewClient(baseURL string) (*Client, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("cookie jar: %w", err)
	}
	return &Client{
		base: base,
		http: &http.Client{Jar: jar, Timeout: 30 * time.Second},
	}, nil
}

// Login authenticates the client's session.
func (c *Client) Login(ctx context.Context, email, password string) error {
	body, _ := json.Marshal(map[string]string{"email": email, "password": password})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint("auth/login"), strings.NewReader(string(body)))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return decodeFailure(resp)
	}
	return nil
}

// Resource binds the client to one list endpoint.
func Resource[T any](c *Client, path string, cfg listquery.Config) *HTTPFetcher[T] {
	return &HTTPFetcher[T]{client: c, path: strings.Trim(path, "/"), cfg: cfg}
}

// HTTPFetcher fetches list pages over the REST API.
type HTTPFetcher[T any] struct {
	client *Client
	path   string
	cfg    listquery.Config

	// Extra query parameters sent with every fetch, e.g. a branch filter.
	Extra url.Values
}

type listEnvelope[T any] struct {
	Data    []T             `json:"data"`
	Total   int             `json:"total"`
	Summary json.RawMessage `json:"summary"`
}

// Fetch loads one page.
func (f *HTTPFetcher[T]) Fetch(ctx context.Context, state listquery.State) (Page[T], error) {
	vals := f.cfg.Encode(state)
	for k, vs := range f.Extra {
		for _, v := range vs {
			vals.Add(k, v)
		}
	}

	endpoint := f.client.endpoint(f.path)
	if q := vals.Encode(); q != "" {
		endpoint += "?" + q
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Page[T]{}, err
	}

	resp, err := f.client.http.Do(req)
	if err != nil {
		return Page[T]{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Page[T]{}, decodeFailure(resp)
	}

	var envelope listEnvelope[T]
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return Page[T]{}, fmt.Errorf("decode %s page: %w", f.path, err)
	}
	return Page[T]{Data: envelope.Data, Total: envelope.Total, Summary: envelope.Summary}, nil
}

// Delete removes one row of the resource.
func (f *HTTPFetcher[T]) Delete(ctx context.Context, id int64) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete,
		fmt.Sprintf("%s/%d", f.client.endpoint(f.path), id), nil)
	if err != nil {
		return err
	}
	resp, err := f.client.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return decodeFailure(resp)
	}
	io.Copy(io.Discard, resp.Body)
	return nil
}

func (c *Client) endpoint(path string) string {
	u := *c.base
	u.Path = strings.TrimRight(u.Path, "/") + "/" + strings.Trim(path, "/")
	return u.String()
}

// decodeFailure extracts the server's failure message so callers can show
// it verbatim.
func decodeFailure(resp *http.Response) error {
	var body struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Message != "" {
		return fmt.Errorf("%s", body.Message)
	}
	return fmt.Errorf("request failed with status %d", resp.StatusCode)
}
