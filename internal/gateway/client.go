package gateway

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Sugar is assigned by main during startup.
var Sugar = zap.NewNop().Sugar()

// FilePart is an attachment carried in a multipart request (transfer proof,
// product image, profile image).
type FilePart struct {
	Field    string
	FileName string
	Content  []byte
}

// Client is the single point of HTTP access to the rewards backend. Every
// request carries the lang header and, when a session token is present, an
// Authorization bearer header. A 401 triggers exactly one token refresh and
// retry; anything else is surfaced as an error with a message extracted from
// the response body.
type Client struct {
	BaseURL      string
	MediaBaseURL string
	Lang         string
	HTTP         *http.Client
	Session      *Session
}

func NewClient(baseURL, mediaBaseURL, lang string, session *Session) *Client {
	if lang == "" {
		lang = "en"
	}
	return &Client{
		BaseURL:      strings.TrimRight(baseURL, "/"),
		MediaBaseURL: strings.TrimRight(mediaBaseURL, "/"),
		Lang:         lang,
		HTTP:         &http.Client{Timeout: 30 * time.Second},
		Session:      session,
	}
}

func (c *Client) Get(path string, query url.Values) ([]byte, error) {
	return c.do(http.MethodGet, path, query, nil, "")
}

func (c *Client) Post(path string, payload interface{}) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return c.do(http.MethodPost, path, nil, body, "application/json")
}

func (c *Client) Put(path string, payload interface{}) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return c.do(http.MethodPut, path, nil, body, "application/json")
}

func (c *Client) Delete(path string) ([]byte, error) {
	return c.do(http.MethodDelete, path, nil, nil, "")
}

// PostMultipart submits form fields plus file attachments. Query carries the
// scalar values for endpoints that insist on query-string parameters next to
// the multipart body (Users edit does).
func (c *Client) PostMultipart(path string, query url.Values, fields map[string]string, files []FilePart) ([]byte, error) {
	body, contentType, err := buildMultipart(fields, files)
	if err != nil {
		return nil, err
	}
	return c.do(http.MethodPost, path, query, body, contentType)
}

func (c *Client) PutMultipart(path string, fields map[string]string, files []FilePart) ([]byte, error) {
	body, contentType, err := buildMultipart(fields, files)
	if err != nil {
		return nil, err
	}
	return c.do(http.MethodPut, path, nil, body, contentType)
}

// Login authenticates against the backend and stores the returned token in
// the session. The raw response is returned so callers can surface the user
// profile that rides along with the token.
func (c *Client) Login(userName, password string) ([]byte, error) {
	resp, err := c.Authenticate(userName, password)
	if err != nil {
		return nil, err
	}

	token := extractToken(resp)
	if token == "" {
		return nil, errors.New("login response carried no token")
	}
	c.Session.SetToken(token)
	return resp, nil
}

// Authenticate verifies console-user credentials against the backend without
// touching the service session. The raw response (token plus profile) is
// handed back to the caller.
func (c *Client) Authenticate(userName, password string) ([]byte, error) {
	payload, err := json.Marshal(map[string]string{
		"userName": userName,
		"password": password,
	})
	if err != nil {
		return nil, err
	}

	status, resp, err := c.send(http.MethodPost, "/Auth/login", nil, payload, "application/json")
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, errors.New(ExtractMessage(resp, status))
	}
	return resp, nil
}

// Logout clears the session token.
func (c *Client) Logout() {
	c.Session.Clear()
}

// MediaURL resolves a stored image path against the static media host.
func (c *Client) MediaURL(path string) string {
	if path == "" || strings.HasPrefix(path, "http") {
		return path
	}
	return c.MediaBaseURL + "/" + strings.TrimLeft(path, "/")
}

func (c *Client) do(method, path string, query url.Values, body []byte, contentType string) ([]byte, error) {
	if c.Session.Expired() && c.Session.Token() != "" {
		// Token already past its exp claim; refresh before the backend
		// bounces us.
		if err := c.refresh(); err != nil {
			Sugar.Warnw("proactive token refresh failed", "error", err)
		}
	}

	status, resp, err := c.send(method, path, query, body, contentType)
	if err != nil {
		return nil, err
	}

	if status == http.StatusUnauthorized {
		if rErr := c.refresh(); rErr != nil {
			return nil, errors.New("session expired, sign in again")
		}
		status, resp, err = c.send(method, path, query, body, contentType)
		if err != nil {
			return nil, err
		}
	}

	if status < 200 || status >= 300 {
		return nil, errors.New(ExtractMessage(resp, status))
	}
	return resp, nil
}

func (c *Client) send(method, path string, query url.Values, body []byte, contentType string) (int, []byte, error) {
	u := c.BaseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequest(method, u, reader)
	if err != nil {
		return 0, nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("lang", c.Lang)
	if token := c.Session.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, err
	}
	return resp.StatusCode, data, nil
}

// refresh re-authenticates with the configured service credentials. The
// backend exposes no dedicated refresh endpoint, so refresh means re-login.
func (c *Client) refresh() error {
	userName, password := c.Session.Credentials()
	if userName == "" {
		return errors.New("no credentials available for token refresh")
	}
	_, err := c.Login(userName, password)
	return err
}

func buildMultipart(fields map[string]string, files []FilePart) ([]byte, string, error) {
	buf := new(bytes.Buffer)
	writer := multipart.NewWriter(buf)

	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return nil, "", err
		}
	}
	for _, file := range files {
		part, err := writer.CreateFormFile(file.Field, file.FileName)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(file.Content); err != nil {
			return nil, "", err
		}
	}
	if err := writer.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), writer.FormDataContentType(), nil
}

func extractToken(body []byte) string {
	var payload map[string]json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	for _, key := range []string{"token", "accessToken", "access_token"} {
		if raw, ok := payload[key]; ok {
			var token string
			if err := json.Unmarshal(raw, &token); err == nil && token != "" {
				return token
			}
		}
	}
	if raw, ok := payload["data"]; ok {
		return extractToken(raw)
	}
	return ""
}
