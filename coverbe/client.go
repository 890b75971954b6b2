package coverbe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fwojciec/coverletter"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Interface compliance checks.
var (
	_ coverletter.Generator     = (*Client)(nil)
	_ coverletter.PDFService    = (*Client)(nil)
	_ coverletter.LetterService = (*Client)(nil)
	_ coverletter.Authenticator = (*Client)(nil)
)

// Client talks to the remote cover-letter API.
type Client struct {
	baseURL         string
	httpClient      *http.Client
	tokens          coverletter.TokenSource
	logger          zerolog.Logger
	requireComplete bool
	now             func() time.Time
}

// Option configures a [Client].
type Option func(*Client)

// WithBaseURL sets the API base URL. Useful for testing with httptest.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = url }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTokenSource sets where bearer tokens come from. Without one, every
// authenticated call fails with [coverletter.ErrUnauthenticated].
func WithTokenSource(ts coverletter.TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

// WithLogger sets the logger for request and stream diagnostics.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithRequireComplete makes a generation stream that delivered content but no
// complete event fail with [coverletter.ErrUnexpectedStreamEnd].
func WithRequireComplete(v bool) Option {
	return func(c *Client) { c.requireComplete = v }
}

// New creates a new [Client].
func New(opts ...Option) *Client {
	c := &Client{
		baseURL:    defaultBaseURL,
		httpClient: http.DefaultClient,
		logger:     zerolog.Nop(),
		now:        time.Now,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// newRequest builds a request with a fresh request id and, when auth is set,
// the bearer token.
func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader, auth bool) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("coverbe: %w", err)
	}
	req.Header.Set(requestIDHeader, uuid.NewString())
	if auth {
		if c.tokens == nil {
			return nil, fmt.Errorf("coverbe: %w", coverletter.ErrUnauthenticated)
		}
		tok, err := c.tokens.Token(ctx)
		if err != nil {
			return nil, fmt.Errorf("coverbe: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	return req, nil
}

func (c *Client) do(req *http.Request) (*http.Response, error) {
	start := c.now()
	log := c.logger.With().
		Str("method", req.Method).
		Str("path", req.URL.Path).
		Str("request_id", req.Header.Get(requestIDHeader)).
		Logger()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Debug().Err(err).Msg("request failed")
		return nil, fmt.Errorf("coverbe: %w: %w", coverletter.ErrTransport, err)
	}
	log.Debug().Int("status", resp.StatusCode).Dur("elapsed", c.now().Sub(start)).Msg("request done")
	return resp, nil
}

// doJSON sends in (when non-nil) as a JSON body and decodes a 2xx response
// into out. Non-2xx responses become *coverletter.APIError with fallback as
// the message when the body carries none.
func (c *Client) doJSON(ctx context.Context, method, path string, in, out any, auth bool, fallback string) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("coverbe: %w", err)
		}
		body = bytes.NewReader(b)
	}
	req, err := c.newRequest(ctx, method, path, body, auth)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		return parseHTTPError(resp, nil, fallback)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("coverbe: decode %s: %w: %w", path, coverletter.ErrTransport, err)
	}
	return nil
}

func isSuccess(code int) bool {
	return code >= 200 && code < 300
}

// parseHTTPError reads the {"error": "..."} body of a failed response.
// kind, when non-nil, is the sentinel the error unwraps to.
func parseHTTPError(resp *http.Response, kind error, fallback string) error {
	apiErr := &coverletter.APIError{StatusCode: resp.StatusCode, Kind: kind, Message: fallback}
	body, err := io.ReadAll(resp.Body)
	if err == nil {
		var payload apiErrorResponse
		if json.Unmarshal(body, &payload) == nil && payload.Error != "" {
			apiErr.Message = payload.Error
		}
	}
	return fmt.Errorf("coverbe: %w", apiErr)
}
