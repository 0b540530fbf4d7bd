// ABOUTME: HTTP client for the storefront API
// ABOUTME: Attaches the bearer token and recovers from expired sessions with one shared refresh

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/delcarajo/storefront/internal/nav"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

// DefaultTimeout bounds every request, including the refresh call
const DefaultTimeout = 10 * time.Second

// RefreshPath is exempt from expired-session handling
const RefreshPath = "/auth/refresh"

// RequestIDHeader carries the id shared by a request and its replay
const RequestIDHeader = "X-Request-ID"

const maxBodyBytes = 10 << 20

// TokenStore is the durable home of the access token
type TokenStore interface {
	AccessToken() string
	SetAccessToken(token string) error
	ClearAccessToken() error
}

// Config holds the collaborators of a Client
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	Tokens     TokenStore
	Cookies    KV // optional; persists the refresh cookie between runs
	Navigator  nav.Navigator
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Client is the API client for the storefront backend
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenStore
	navigator  nav.Navigator
	logger     *slog.Logger
	refresher  *refresher
	jar        http.CookieJar

	onExpired []func(error)
}

// Request describes one API call. Body is JSON-encoded unless RawBody is set.
type Request struct {
	Method      string
	Path        string
	Query       url.Values
	Body        any
	RawBody     []byte
	ContentType string
}

// New creates a new API client
func New(cfg Config) (*Client, error) {
	base, err := url.Parse(strings.TrimSuffix(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid API URL %q: %w", cfg.BaseURL, err)
	}
	if cfg.Tokens == nil {
		return nil, fmt.Errorf("client requires a token store")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "client")

	jar, err := newCookieJar(base, cfg.Cookies, logger)
	if err != nil {
		return nil, fmt.Errorf("creating cookie jar: %w", err)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	} else {
		copied := *httpClient
		httpClient = &copied
	}
	httpClient.Timeout = timeout
	httpClient.Jar = jar

	c := &Client{
		baseURL:    base.String(),
		httpClient: httpClient,
		tokens:     cfg.Tokens,
		navigator:  cfg.Navigator,
		logger:     logger,
		jar:        jar,
	}
	c.refresher = &refresher{
		tokens:    cfg.Tokens,
		refresh:   c.Refresh,
		onFailure: c.expireSession,
		timeout:   timeout,
		logger:    logger,
	}
	return c, nil
}

// BaseURL returns the API root every path is resolved against
func (c *Client) BaseURL() string {
	return c.baseURL
}

// OnSessionExpired registers fn to run after a refresh fails and local
// credentials were cleared. Must be called before the client is shared.
func (c *Client) OnSessionExpired(fn func(error)) {
	c.onExpired = append(c.onExpired, fn)
}

// Get issues a GET and decodes the response into out
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.Do(ctx, Request{Method: http.MethodGet, Path: path, Query: query}, out)
}

// Post issues a POST with a JSON body
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, Request{Method: http.MethodPost, Path: path, Body: body}, out)
}

// Patch issues a PATCH with a JSON body
func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, Request{Method: http.MethodPatch, Path: path, Body: body}, out)
}

// Put issues a PUT with a JSON body
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, Request{Method: http.MethodPut, Path: path, Body: body}, out)
}

// Delete issues a DELETE
func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.Do(ctx, Request{Method: http.MethodDelete, Path: path}, out)
}

// Upload sends r as a multipart form file under field
func (c *Client) Upload(ctx context.Context, path, field, filename string, r io.Reader, out any) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(field, filename)
	if err != nil {
		return fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return fmt.Errorf("failed to read %s: %w", filename, err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("failed to finish form: %w", err)
	}

	return c.Do(ctx, Request{
		Method:      http.MethodPost,
		Path:        path,
		RawBody:     buf.Bytes(),
		ContentType: mw.FormDataContentType(),
	}, out)
}

// Do sends req and decodes a successful response into out. A 401 outside the
// refresh endpoint joins or starts the shared refresh and replays req once
// with the new token.
func (c *Client) Do(ctx context.Context, req Request, out any) error {
	payload, contentType, err := encodeBody(req)
	if err != nil {
		return err
	}

	requestID := uuid.NewString()
	logger := c.logger.With("request_id", requestID, "method", req.Method, "path", req.Path)

	token := c.tokens.AccessToken()
	status, body, err := c.send(ctx, req, payload, contentType, token, requestID)
	if err != nil {
		logger.Debug("request failed", "error", err)
		return err
	}

	if status == http.StatusUnauthorized && req.Path != RefreshPath {
		logger.Debug("access token rejected, awaiting refresh")
		fresh, err := c.refresher.await(ctx, token)
		if err != nil {
			return err
		}

		status, body, err = c.send(ctx, req, payload, contentType, fresh, requestID)
		if err != nil {
			logger.Debug("replay failed", "error", err)
			return err
		}
	}

	if status < 200 || status > 299 {
		apiErr := newAPIError(status, body)
		logger.Debug("backend returned error", "status", status, "message", apiErr.Message)
		return apiErr
	}

	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("invalid response from backend: %w", err)
	}
	return nil
}

// Refresh exchanges the cookie credential for a new access token. It does not
// persist the token; the refresh coordinator does.
func (c *Client) Refresh(ctx context.Context) (string, error) {
	req := Request{Method: http.MethodPost, Path: RefreshPath}
	status, body, err := c.send(ctx, req, nil, "", "", uuid.NewString())
	if err != nil {
		return "", err
	}
	if status < 200 || status > 299 {
		return "", newAPIError(status, body)
	}

	var resp struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("invalid refresh response: %w", err)
	}
	if resp.AccessToken == "" {
		return "", fmt.Errorf("refresh response has no access_token")
	}
	return resp.AccessToken, nil
}

// ClearCredentials removes the access token and any stored refresh cookie
func (c *Client) ClearCredentials() error {
	if pj, ok := c.jar.(*persistentJar); ok {
		pj.clear()
	}
	return c.tokens.ClearAccessToken()
}

func (c *Client) send(ctx context.Context, req Request, payload []byte, contentType, token, requestID string) (int, []byte, error) {
	var bodyReader io.Reader
	if payload != nil {
		bodyReader = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, c.url(req), bodyReader)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set(RequestIDHeader, requestID)
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		(&oauth2.Token{AccessToken: token}).SetAuthHeader(httpReq)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return 0, nil, c.handleRequestError(ctx, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return 0, nil, c.handleRequestError(ctx, err)
	}
	return resp.StatusCode, body, nil
}

func (c *Client) url(req Request) string {
	u := c.baseURL + req.Path
	if len(req.Query) > 0 {
		u += "?" + req.Query.Encode()
	}
	return u
}

// expireSession clears local credentials and sends the user to the login
// route unless they are already there.
func (c *Client) expireSession(err error) {
	c.logger.Warn("session refresh failed", "error", err)

	if cerr := c.tokens.ClearAccessToken(); cerr != nil {
		c.logger.Warn("failed to clear access token", "error", cerr)
	}
	for _, fn := range c.onExpired {
		fn(err)
	}
	if c.navigator != nil && c.navigator.Current() != nav.Login {
		if nerr := c.navigator.Navigate(nav.Login); nerr != nil {
			c.logger.Warn("failed to navigate to login", "error", nerr)
		}
	}
}

func encodeBody(req Request) ([]byte, string, error) {
	if req.RawBody != nil {
		return req.RawBody, req.ContentType, nil
	}
	if req.Body == nil {
		return nil, "", nil
	}
	data, err := json.Marshal(req.Body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to marshal request: %w", err)
	}
	return data, "application/json", nil
}
