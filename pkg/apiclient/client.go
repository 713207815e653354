package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
)

// Client talks to the streaming backend's user endpoints.
type Client struct {
	base   *url.URL
	http   *http.Client
	logger *slog.Logger
}

// Option is a functional option for configuring the Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. Pass the gateway's
// client so calls flow through the credential chokepoint; a cookie jar is
// attached when the client has none.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithLogger sets a custom logger for the client.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a client for the backend at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("apiclient: parse base url: %w", err)
	}

	c := &Client{
		base:   base,
		http:   &http.Client{},
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.http.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("apiclient: create cookie jar: %w", err)
		}
		c.http.Jar = jar
	}

	return c, nil
}

// Site returns the base URL; the cookie awaiter needs it to query the jar.
func (c *Client) Site() *url.URL {
	return c.base
}

// Jar returns the cookie jar shared with the backend.
func (c *Client) Jar() http.CookieJar {
	return c.http.Jar
}

// AuthResponse is the payload of a successful login or registration.
type AuthResponse struct {
	// Token is the bearer credential, empty when the server relies on the
	// session cookie alone.
	Token string

	// User is the raw identity payload, un-normalized.
	User map[string]any
}

// Login authenticates with email and password. A 400/401/403 response maps
// to ErrCredentialsInvalid carrying the server's message.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	body, err := json.Marshal(map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, fmt.Errorf("apiclient: marshal login payload: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPost, "/login", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if rejected(resp.StatusCode) {
		return nil, fmt.Errorf("%w: %s", ErrCredentialsInvalid, errorMessage(resp.Body))
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: login returned %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	return decodeAuthResponse(resp.Body)
}

// RegisterParams are the registration fields. Avatar is optional; when set
// the request goes out as multipart form data.
type RegisterParams struct {
	Name           string
	Email          string
	Password       string
	Avatar         []byte
	AvatarFilename string
}

// Register creates an account. Rejections map to ErrCredentialsInvalid the
// same way login rejections do.
func (c *Client) Register(ctx context.Context, params RegisterParams) (*AuthResponse, error) {
	var (
		body        io.Reader
		contentType string
		err         error
	)
	if len(params.Avatar) > 0 {
		body, contentType, err = multipartBody(params)
		if err != nil {
			return nil, err
		}
	} else {
		payload, merr := json.Marshal(map[string]string{
			"name":     params.Name,
			"email":    params.Email,
			"password": params.Password,
		})
		if merr != nil {
			return nil, fmt.Errorf("apiclient: marshal register payload: %w", merr)
		}
		body, contentType = bytes.NewReader(payload), "application/json"
	}

	resp, err := c.do(ctx, http.MethodPost, "/register", contentType, body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if rejected(resp.StatusCode) {
		return nil, fmt.Errorf("%w: %s", ErrCredentialsInvalid, errorMessage(resp.Body))
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: register returned %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	return decodeAuthResponse(resp.Body)
}

// GetUser fetches the canonical user record for revalidation. A 401 maps
// to ErrUnauthorized; any other failure to ErrIdentityFetch.
func (c *Client) GetUser(ctx context.Context, id int64) (map[string]any, error) {
	resp, err := c.do(ctx, http.MethodGet, "/users/"+strconv.FormatInt(id, 10), "", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, ErrUnauthorized
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, fmt.Errorf("%w: status %d", ErrIdentityFetch, resp.StatusCode)
	}

	var user map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrIdentityFetch, err)
	}
	return user, nil
}

// UpdateUser updates the user record and returns the server's view of it.
func (c *Client) UpdateUser(ctx context.Context, id int64, fields map[string]any) (map[string]any, error) {
	body, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("apiclient: marshal update payload: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPut, "/users/"+strconv.FormatInt(id, 10), "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, ErrUnauthorized
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, fmt.Errorf("%w: update returned %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	var user map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		if errors.Is(err, io.EOF) {
			// Some backends answer updates with an empty body.
			return nil, nil
		}
		return nil, fmt.Errorf("%w: decode update response: %v", ErrUnexpectedStatus, err)
	}
	return user, nil
}

// SessionCookie returns the named cookie's current value from the jar, or
// empty when it is not observable yet.
func (c *Client) SessionCookie(name string) string {
	for _, cookie := range c.http.Jar.Cookies(c.base) {
		if cookie.Name == name {
			return cookie.Value
		}
	}
	return ""
}

// ExpireSessionCookie overwrites the named cookie with an already-expired
// value, the client-side half of logout.
func (c *Client) ExpireSessionCookie(name string) {
	c.http.Jar.SetCookies(c.base, []*http.Cookie{{
		Name:   name,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	}})
}

func (c *Client) do(ctx context.Context, method, path, contentType string, body io.Reader) (*http.Response, error) {
	u := c.base.JoinPath(path)

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("apiclient: build %s %s: %w", method, path, err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("apiclient: %s %s: %w", method, path, err)
	}
	return resp, nil
}

func multipartBody(params RegisterParams) (io.Reader, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	fields := map[string]string{
		"name":     params.Name,
		"email":    params.Email,
		"password": params.Password,
	}
	for field, value := range fields {
		if err := mw.WriteField(field, value); err != nil {
			return nil, "", fmt.Errorf("apiclient: write field %s: %w", field, err)
		}
	}

	filename := params.AvatarFilename
	if filename == "" {
		filename = "avatar"
	}
	part, err := mw.CreateFormFile("avatar", filename)
	if err != nil {
		return nil, "", fmt.Errorf("apiclient: create avatar part: %w", err)
	}
	if _, err := part.Write(params.Avatar); err != nil {
		return nil, "", fmt.Errorf("apiclient: write avatar: %w", err)
	}

	if err := mw.Close(); err != nil {
		return nil, "", fmt.Errorf("apiclient: finalize multipart body: %w", err)
	}
	return &buf, mw.FormDataContentType(), nil
}

func rejected(status int) bool {
	switch status {
	case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden, http.StatusConflict:
		return true
	default:
		return false
	}
}

func decodeAuthResponse(body io.Reader) (*AuthResponse, error) {
	var payload map[string]any
	if err := json.NewDecoder(body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decode auth response: %v", ErrUnexpectedStatus, err)
	}

	out := &AuthResponse{}
	if token, ok := payload["token"].(string); ok {
		out.Token = token
	}
	if user, ok := payload["user"].(map[string]any); ok {
		out.User = user
	} else {
		// Flat responses carry the identity fields at the top level.
		delete(payload, "token")
		out.User = payload
	}
	return out, nil
}

// errorMessage extracts a human-readable message from an error response
// body, whatever shape the backend chose for it.
func errorMessage(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil || len(raw) == 0 {
		return "request rejected"
	}

	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err == nil {
		for _, field := range []string{"message", "error"} {
			if msg, ok := payload[field].(string); ok && msg != "" {
				return msg
			}
		}
	}
	return string(raw)
}
