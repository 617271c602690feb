// Package api is the HTTP client for the knowledge backend. It attaches the
// bearer token, encodes JSON and multipart bodies and turns failures into
// RequestError / ErrUnavailable / ErrDecode.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/knowledgekeeper/internal/common"
	"github.com/dmitrijs2005/knowledgekeeper/internal/logging"
)

// TokenSource yields the current bearer token, or "" when there is none.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

type noToken struct{}

func (noToken) Token(context.Context) (string, error) { return "", nil }

type Client struct {
	baseURL *url.URL
	http    *http.Client
	tokens  TokenSource
	log     logging.Logger
	timeout time.Duration
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

func WithLogger(l logging.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithTimeout bounds every request. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

func NewClient(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base url %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid base url %q: scheme must be http or https", baseURL)
	}

	c := &Client{
		baseURL: u,
		http:    http.DefaultClient,
		tokens:  noToken{},
		log:     logging.Discard(),
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

type tokenOverrideKey struct{}

// withToken forces the bearer token of a single request, bypassing the
// TokenSource. Used by token verification.
func withToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenOverrideKey{}, token)
}

func (c *Client) resolve(path string) string {
	return c.baseURL.String() + path
}

func (c *Client) authorize(ctx context.Context, req *http.Request) error {
	token, ok := ctx.Value(tokenOverrideKey{}).(string)
	if !ok {
		var err error
		token, err = c.tokens.Token(ctx)
		if err != nil {
			return fmt.Errorf("failed to read token: %w", err)
		}
	}
	if token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerScheme+token)
	}
	return nil
}

// Do sends a JSON request. in may be nil for an empty body; out may be nil
// to discard the response body.
func (c *Client) Do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	return c.send(ctx, method, path, body, func(h http.Header) {
		if in != nil {
			h.Set("Content-Type", "application/json")
		}
		h.Set("Accept", "application/json")
	}, func(r io.Reader) error {
		return decodeJSON(r, out)
	})
}

// Upload posts a multipart form with one file part named "file" plus the
// given text fields. The content type comes from the multipart writer.
func (c *Client) Upload(ctx context.Context, path, filename string, file io.Reader, fields map[string]string, out any) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			return fmt.Errorf("failed to write field %s: %w", k, err)
		}
	}
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return fmt.Errorf("failed to create file part: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return fmt.Errorf("failed to read %s: %w", filename, err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("failed to finish multipart body: %w", err)
	}

	return c.send(ctx, http.MethodPost, path, &buf, func(h http.Header) {
		h.Set("Content-Type", mw.FormDataContentType())
		h.Set("Accept", "application/json")
	}, func(r io.Reader) error {
		return decodeJSON(r, out)
	})
}

// download streams a successful response body into w.
func (c *Client) download(ctx context.Context, path string, w io.Writer) (int64, error) {
	var n int64
	err := c.send(ctx, http.MethodGet, path, nil, nil, func(r io.Reader) error {
		var err error
		n, err = io.Copy(w, r)
		if err != nil {
			return fmt.Errorf("failed to read download: %w", err)
		}
		return nil
	})
	return n, err
}

func (c *Client) send(
	ctx context.Context,
	method, path string,
	body io.Reader,
	header func(http.Header),
	onSuccess func(io.Reader) error,
) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, method, c.resolve(path), body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if header != nil {
		header(req.Header)
	}
	if err := c.authorize(ctx, req); err != nil {
		return err
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug(ctx, "request failed", "method", method, "path", path, "error", err)
		return fmt.Errorf("%s %s: %w: %w", method, path, ErrUnavailable, err)
	}
	defer resp.Body.Close()

	c.log.Debug(ctx, "request done", "method", method, "path", path,
		"status", resp.StatusCode, "elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		return newRequestError(resp.StatusCode, b)
	}

	return onSuccess(resp.Body)
}

func decodeJSON(r io.Reader, out any) error {
	if out == nil {
		_, _ = io.Copy(io.Discard, r)
		return nil
	}
	if err := json.NewDecoder(r).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: empty body", ErrDecode)
		}
		return fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return nil
}

func escape(id string) string {
	return url.PathEscape(id)
}
