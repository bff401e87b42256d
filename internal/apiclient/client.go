// Package apiclient is the single configured HTTP client for a remote
// service: base URL, JSON and multipart bodies, and automatic bearer-token
// injection from the persistent store. One Client is constructed per service
// at process start and handed to the components that need it.
package apiclient

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
	"time"

	slogctx "github.com/veqryn/slog-context"

	"github.com/medicoin/imaging-client/internal/serviceerr"
	"github.com/medicoin/imaging-client/internal/store"
)

const defaultTimeout = 30 * time.Second

// StatusError reports a non-2xx response, carrying the server's status text.
type StatusError struct {
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("server error: %s", e.Status)
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = timeout }
}

type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	tokens     store.Store
}

func New(baseURL string, tokens store.Store, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}

	c := &Client{
		baseURL:    u,
		httpClient: &http.Client{Timeout: defaultTimeout},
		tokens:     tokens,
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// BaseURL returns the service origin the client was configured with.
func (c *Client) BaseURL() *url.URL {
	return c.baseURL
}

// GetJSON issues a GET request and decodes the JSON response body into v.
func (c *Client) GetJSON(ctx context.Context, path string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.resolve(path), nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	return c.doJSON(req, v)
}

// PostJSON issues a POST request with a JSON body and decodes the JSON
// response body into v. A nil v discards the response body.
func (c *Client) PostJSON(ctx context.Context, path string, body, v any) error {
	encoded, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshaling request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.resolve(path), bytes.NewReader(encoded))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	return c.doJSON(req, v)
}

// Get issues a GET request and returns the raw response. The caller owns the
// returned body; a non-2xx status is consumed here and reported as an error.
func (c *Client) Get(ctx context.Context, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.resolve(path), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		defer resp.Body.Close()
		return nil, classifyStatus(resp)
	}

	return resp, nil
}

// FilePart is the file carried by a multipart submission.
type FilePart struct {
	FieldName string
	FileName  string
	Content   []byte
}

// PostMultipart issues a POST request with a multipart/form-data body made of
// the given fields plus one file part. The caller owns the returned response
// body; a non-2xx status is consumed here and reported as an error.
func (c *Client) PostMultipart(ctx context.Context, path string, fields map[string]string, file FilePart) (*http.Response, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			return nil, fmt.Errorf("writing form field %q: %w", name, err)
		}
	}

	part, err := writer.CreateFormFile(file.FieldName, file.FileName)
	if err != nil {
		return nil, fmt.Errorf("creating file part: %w", err)
	}
	if _, err := part.Write(file.Content); err != nil {
		return nil, fmt.Errorf("writing file part: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("finalising multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.resolve(path), &buf)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		defer resp.Body.Close()
		return nil, classifyStatus(resp)
	}

	return resp, nil
}

func (c *Client) doJSON(req *http.Request, v any) error {
	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return classifyStatus(resp)
	}

	if v == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return errors.Join(serviceerr.ErrMalformedResponse, err)
	}

	return nil
}

// do sends the request with the bearer token attached when one is stored.
// An absent token means the request goes out unauthenticated and the server
// decides whether to reject it.
func (c *Client) do(req *http.Request) (*http.Response, error) {
	token, err := c.tokens.Get(req.Context(), store.KeyAuthToken)
	switch {
	case err == nil && token != "":
		req.Header.Set("Authorization", "Bearer "+token)
	case err != nil && !errors.Is(err, serviceerr.ErrNotFound):
		slogctx.Warn(req.Context(), "Failed to read the stored token, sending unauthenticated", "error", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Join(serviceerr.New(serviceerr.CodeNetwork, "request failed"), err)
	}

	return resp, nil
}

// resolve joins a server-relative path onto the base URL. A query string on
// the path is carried over instead of being escaped into the path.
func (c *Client) resolve(path string) string {
	ref, err := url.Parse(path)
	if err != nil || ref.RawQuery == "" {
		return c.baseURL.JoinPath(path).String()
	}

	u := c.baseURL.JoinPath(ref.Path)
	u.RawQuery = ref.RawQuery

	return u.String()
}

// classifyStatus maps a non-2xx response to the error taxonomy: 401 and 403
// are auth failures, everything else is a network-class failure carrying the
// server's status text.
func classifyStatus(resp *http.Response) error {
	_, _ = io.Copy(io.Discard, resp.Body)

	code := serviceerr.CodeNetwork
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		code = serviceerr.CodeAuth
	}

	return errors.Join(
		serviceerr.New(code, resp.Status),
		&StatusError{StatusCode: resp.StatusCode, Status: resp.Status},
	)
}
