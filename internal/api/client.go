package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"ourtime/internal/logging"
)

// TokenSource supplies the persisted token pair to the adapter and lets it
// clear both tokens when the session ends. All access is from the event
// loop's request goroutines; implementations guard their own state.
type TokenSource interface {
	AccessToken() string
	Clear() error
}

// Client is the HTTP adapter every resource client goes through. It injects
// the bearer token, unwraps the {"data": ...} response envelope, and is the
// single point where auth expiry is detected: a 401 clears both tokens and
// fires OnUnauthorized. There is no refresh-token retry; a 401 is terminal
// for the current request.
type Client struct {
	baseURL        string
	httpClient     *http.Client
	tokens         TokenSource
	onUnauthorized func()
	validate       *validator.Validate
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying transport (tests use httptest).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the per-request timeout. Non-positive values keep the
// default.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithOnUnauthorized installs the callback fired after a 401 has cleared the
// token pair. Hosts use it to navigate to the login page.
func WithOnUnauthorized(fn func()) Option {
	return func(c *Client) { c.onUnauthorized = fn }
}

// New creates a client for the given API base URL, e.g.
// "http://localhost:8080/api".
func New(baseURL string, tokens TokenSource, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		tokens:     tokens,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		validate:   validator.New(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// envelope is the uniform success shape the backend wraps every payload in.
type envelope struct {
	Data json.RawMessage `json:"data"`
}

// errorBody is the shape the backend uses for error responses.
type errorBody struct {
	Message string `json:"message"`
	Code    string `json:"code"`
	Error   string `json:"error"`
}

// doJSON issues a request with an optional JSON body and decodes the
// unwrapped envelope payload into out (which may be nil).
func (c *Client) doJSON(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &Error{Kind: KindNetwork, Message: fmt.Sprintf("encode request: %v", err)}
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return &Error{Kind: KindNetwork, Message: err.Error()}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req, out)
}

// do sends a prepared request, handling auth injection, envelope unwrapping
// and the global 401 path. Multipart callers build their own request and
// land here too, so the 401 handling runs for every request issued by any
// resource client.
func (c *Client) do(req *http.Request, out interface{}) error {
	if tok := c.tokens.AccessToken(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logging.API("request failed: %s %s: %v", req.Method, req.URL.Path, err)
		return &Error{Kind: KindNetwork, Message: err.Error()}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Kind: KindNetwork, Message: err.Error()}
	}

	if resp.StatusCode == http.StatusUnauthorized {
		logging.Session("401 on %s %s, clearing tokens", req.Method, req.URL.Path)
		if clearErr := c.tokens.Clear(); clearErr != nil {
			logging.SessionError("clearing tokens: %v", clearErr)
		}
		if c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		return &Error{Kind: KindAuth, StatusCode: resp.StatusCode, Message: "authentication expired"}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &Error{Kind: KindResource, StatusCode: resp.StatusCode, Message: serverMessage(data)}
	}

	if out == nil {
		return nil
	}
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return &Error{Kind: KindResource, StatusCode: resp.StatusCode,
			Message: fmt.Sprintf("malformed response envelope: %v", err)}
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return &Error{Kind: KindResource, StatusCode: resp.StatusCode,
			Message: fmt.Sprintf("decode payload: %v", err)}
	}
	return nil
}

// serverMessage extracts the server-provided message from an error body,
// falling back to a generic message.
func serverMessage(data []byte) string {
	var body errorBody
	if err := json.Unmarshal(data, &body); err == nil {
		if body.Message != "" {
			return body.Message
		}
		if body.Error != "" {
			return body.Error
		}
	}
	return "request failed"
}

// checkRequest runs struct-tag validation and converts the first failure
// into a field-scoped validation error, keeping the request off the wire.
func (c *Client) checkRequest(req interface{}) error {
	err := c.validate.Struct(req)
	if err == nil {
		return nil
	}
	if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
		fe := verrs[0]
		return validationErr(fe.Field(), fmt.Sprintf("failed %q constraint", fe.Tag()))
	}
	return validationErr("", err.Error())
}
