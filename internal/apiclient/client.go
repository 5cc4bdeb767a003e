package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"
)

const (
	SchemeBearer = "Bearer"
	SchemeToken  = "Token"
)

// CredentialSource supplies the Authorization credential for each request.
type CredentialSource interface {
	Credential() (scheme, token string, ok bool)
}

// Client sends requests to the club backend.
type Client struct {
	BaseURL    string
	httpClient *http.Client
	creds      CredentialSource
	scheme     string
	limiter    *rate.Limiter
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

func WithCredentials(src CredentialSource) Option {
	return func(c *Client) { c.creds = src }
}

// WithScheme sets the Authorization scheme used when the credential names none.
func WithScheme(scheme string) Option {
	return func(c *Client) {
		if scheme != "" {
			c.scheme = scheme
		}
	}
}

// WithRateLimit throttles outbound requests to rps per second. Zero disables throttling.
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		}
	}
}

// New creates a Client for the backend at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
		scheme:     SchemeBearer,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Response is a successful (2xx) response.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// Decode unmarshals the JSON body into v.
func (r *Response) Decode(v any) error {
	if len(r.Body) == 0 {
		return nil
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

type request struct {
	multipart *multipartFile
	blob      bool
	token     string
}

type multipartFile struct {
	field    string
	filename string
	content  io.Reader
}

type RequestOption func(*request)

// WithMultipart sends content as a multipart/form-data file field instead of a JSON body.
func WithMultipart(field, filename string, content io.Reader) RequestOption {
	return func(r *request) {
		r.multipart = &multipartFile{field: field, filename: filename, content: content}
	}
}

// WithToken authenticates the request with token instead of the active credential.
func WithToken(token string) RequestOption {
	return func(r *request) { r.token = token }
}

// AsBlob asks for the raw response body, such as a file download.
func AsBlob() RequestOption {
	return func(r *request) { r.blob = true }
}

// Send performs a request against path and returns the response when the
// status is 2xx. Failures are *NetworkError, *AuthError, *ValidationError or *ServerError.
func (c *Client) Send(ctx context.Context, method, path string, body any, opts ...RequestOption) (*Response, error) {
	var r request
	for _, opt := range opts {
		opt(&r)
	}

	payload, contentType, err := encodeBody(body, r.multipart)
	if err != nil {
		return nil, err
	}
	url := c.BaseURL + path
	req, err := http.NewRequestWithContext(ctx, method, url, payload)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if r.blob {
		req.Header.Set("Accept", "*/*")
	} else {
		req.Header.Set("Accept", "application/json")
	}
	req.Header.Set("User-Agent", "clubhouse-cli/1.0")
	if r.token != "" {
		req.Header.Set("Authorization", c.scheme+" "+r.token)
	} else if c.creds != nil {
		if scheme, token, ok := c.creds.Credential(); ok {
			if scheme == "" {
				scheme = c.scheme
			}
			req.Header.Set("Authorization", scheme+" "+token)
		}
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &NetworkError{Err: err}
		}
	}

	log.Debug("API request", "method", method, "url", url)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Err: fmt.Errorf("failed to read response: %w", err)}
	}
	log.Debug("API response", "method", method, "url", url, "status", resp.StatusCode, "bytes", len(data))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newStatusError(resp.StatusCode, data)
	}
	return &Response{Status: resp.StatusCode, Header: resp.Header, Body: data}, nil
}

func encodeBody(body any, file *multipartFile) (io.Reader, string, error) {
	if file != nil {
		var buf bytes.Buffer
		w := multipart.NewWriter(&buf)
		part, err := w.CreateFormFile(file.field, file.filename)
		if err != nil {
			return nil, "", err
		}
		if _, err := io.Copy(part, file.content); err != nil {
			return nil, "", fmt.Errorf("failed to read upload: %w", err)
		}
		if err := w.Close(); err != nil {
			return nil, "", err
		}
		return &buf, w.FormDataContentType(), nil
	}
	if body == nil {
		return nil, "", nil
	}
	data, err := json.Marshal(body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to encode request: %w", err)
	}
	return bytes.NewReader(data), "application/json", nil
}
