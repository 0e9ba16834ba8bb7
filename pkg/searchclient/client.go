package searchclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// Phase is the client's lifecycle phase.
type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhaseLoading Phase = "loading"
	PhaseSuccess Phase = "success"
	PhaseError   Phase = "error"
)

// Defaults applied when the caller does not override them.
const (
	DefaultDebounce = 300 * time.Millisecond
	DefaultTimeout  = 10 * time.Second
	DefaultModule   = "MMS"
	DefaultLimit    = 10
)

// Request is the POST /search body.
type Request struct {
	Q      string `json:"q"`
	Module string `json:"module"`
	Limit  int    `json:"limit"`
}

// Result is one matching code.
type Result struct {
	Code       string `json:"code"`
	Title      string `json:"title"`
	Definition string `json:"definition,omitempty"`
}

// Response is the POST /search payload.
type Response struct {
	Source    string     `json:"source"`
	QueryHash string     `json:"query_hash"`
	Count     int        `json:"count"`
	Results   []Result   `json:"results"`
	CachedAt  *time.Time `json:"cached_at,omitempty"`
}

// MetaLine renders the provenance line shown under the result list. Cached
// responses carry the time they were stored.
func (r *Response) MetaLine() string {
	line := fmt.Sprintf("Source: %s • %d results", r.Source, r.Count)
	if r.CachedAt != nil {
		line += " • cached " + r.CachedAt.Format(time.RFC3339)
	}
	return line
}

// State is a snapshot of the client, delivered to the OnState callback and
// returned by State(). Results and Meta are set only in PhaseSuccess; Err
// only in PhaseError.
type State struct {
	Phase   Phase
	Query   string
	Results []Result
	Meta    string
	Err     string
}

// Option configures a Client.
type Option func(*Client)

// WithDebounce overrides the settle delay.
func WithDebounce(d time.Duration) Option { return func(c *Client) { c.deb = NewDebouncer(d) } }

// WithHTTPClient overrides the HTTP client, e.g. to set a custom timeout.
func WithHTTPClient(h *http.Client) Option { return func(c *Client) { c.httpc = h } }

// WithModule sets the linearization searched ("MMS" or "TM2").
func WithModule(m string) Option { return func(c *Client) { c.module = m } }

// WithLimit sets the per-search result cap.
func WithLimit(n int) Option { return func(c *Client) { c.limit = n } }

// WithOnState registers a callback invoked on every state change. Callbacks
// run on the goroutine that completed the request (or synchronously from
// SetQuery for resets) and must not block.
func WithOnState(fn func(State)) Option { return func(c *Client) { c.onState = fn } }

// Client drives debounced searches against a search server. The base URL is
// an explicit constructor argument; the client never consults the
// environment.
type Client struct {
	baseURL string
	httpc   *http.Client
	deb     *Debouncer
	module  string
	limit   int
	onState func(State)

	// gen invalidates in-flight requests: a response is applied only if
	// its generation is still current when it lands.
	gen atomic.Uint64

	mu    sync.Mutex
	state State
}

// New creates a Client talking to baseURL (e.g. "http://localhost:8080/api/v1").
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: DefaultTimeout},
		deb:     NewDebouncer(DefaultDebounce),
		module:  DefaultModule,
		limit:   DefaultLimit,
		state:   State{Phase: PhaseIdle},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetModule switches the searched linearization for subsequent queries.
func (c *Client) SetModule(m string) {
	c.mu.Lock()
	c.module = m
	c.mu.Unlock()
}

// Module returns the currently searched linearization.
func (c *Client) Module() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.module
}

// State returns the current snapshot.
func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// SetQuery feeds one keystroke's worth of input. A blank query cancels any
// pending or in-flight search and resets to idle synchronously, without
// issuing a request. Anything else (re)starts the debounce window; when it
// settles, the search fires with the latest query.
func (c *Client) SetQuery(ctx context.Context, q string) {
	q = strings.TrimSpace(q)
	if q == "" {
		c.deb.Stop()
		c.gen.Add(1)
		c.setState(State{Phase: PhaseIdle})
		return
	}
	c.deb.Trigger(func() {
		c.search(ctx, q)
	})
}

// SearchNow bypasses the debounce window and runs the search immediately.
// Stale-response protection still applies.
func (c *Client) SearchNow(ctx context.Context, q string) {
	q = strings.TrimSpace(q)
	if q == "" {
		c.SetQuery(ctx, q)
		return
	}
	c.deb.Stop()
	c.search(ctx, q)
}

// Close cancels any pending debounce and invalidates in-flight requests.
func (c *Client) Close() {
	c.deb.Stop()
	c.gen.Add(1)
}

func (c *Client) setState(s State) {
	c.mu.Lock()
	c.state = s
	fn := c.onState
	c.mu.Unlock()
	if fn != nil {
		fn(s)
	}
}

// setStateIfCurrent applies s only when gen is still the latest generation,
// so a slow response for an old query never overwrites a newer one. The
// generation check happens under the state lock: checking first and locking
// after would leave a window where a stale response slips past a newer
// request that has bumped gen but not yet written its loading state.
func (c *Client) setStateIfCurrent(gen uint64, s State) {
	c.mu.Lock()
	if c.gen.Load() != gen {
		c.mu.Unlock()
		return
	}
	c.state = s
	fn := c.onState
	c.mu.Unlock()
	if fn != nil {
		fn(s)
	}
}

func (c *Client) search(ctx context.Context, q string) {
	gen := c.gen.Add(1)

	c.mu.Lock()
	module := c.module
	limit := c.limit
	c.mu.Unlock()

	c.setStateIfCurrent(gen, State{Phase: PhaseLoading, Query: q})

	resp, err := c.do(ctx, Request{Q: q, Module: module, Limit: limit})
	if err != nil {
		c.setStateIfCurrent(gen, State{Phase: PhaseError, Query: q, Err: err.Error()})
		return
	}
	c.setStateIfCurrent(gen, State{
		Phase:   PhaseSuccess,
		Query:   q,
		Results: resp.Results,
		Meta:    resp.MetaLine(),
	})
}

// errorDetail is the non-2xx body shape: {"detail": "..."}.
type errorDetail struct {
	Detail string `json:"detail"`
}

func (c *Client) do(ctx context.Context, req Request) (*Response, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/search", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.httpc.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(httpResp.Body, 1<<20))
	if err != nil {
		return nil, err
	}

	if httpResp.StatusCode/100 != 2 {
		var detail errorDetail
		if json.Unmarshal(raw, &detail) == nil && detail.Detail != "" {
			return nil, fmt.Errorf("%s", detail.Detail)
		}
		return nil, fmt.Errorf("HTTP %d", httpResp.StatusCode)
	}

	var resp Response
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &resp, nil
}
