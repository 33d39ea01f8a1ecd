package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client issues authenticated requests against the REST API. It attaches
// the bearer token to every outgoing request when one is set and tears
// the session down on any 401 via the OnUnauthorized hook.
//
// In-flight requests are never cancelled by this layer; timeouts belong
// to the underlying http.Client.
type Client struct {
	BaseURL string

	// OnUnauthorized runs once per 401 response, before the AuthError is
	// returned to the caller.
	OnUnauthorized func()

	httpClient *http.Client
	token      string
}

// NewClient creates a client for the given API base URL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// SetToken installs the bearer token attached to subsequent requests.
func (c *Client) SetToken(token string) {
	c.token = token
}

// Token returns the currently installed bearer token.
func (c *Client) Token() string {
	return c.token
}

// ClearToken removes the bearer token.
func (c *Client) ClearToken() {
	c.token = ""
}

// Get issues a GET request and decodes the JSON response into out.
func (c *Client) Get(path string, out interface{}) error {
	return c.doJSON(http.MethodGet, path, nil, out)
}

// Post issues a POST request with a JSON body and decodes the response
// into out. body and out may each be nil.
func (c *Client) Post(path string, body, out interface{}) error {
	return c.doJSON(http.MethodPost, path, body, out)
}

// Put issues a PUT request with a JSON body and decodes the response
// into out. body and out may each be nil.
func (c *Client) Put(path string, body, out interface{}) error {
	return c.doJSON(http.MethodPut, path, body, out)
}

// Delete issues a DELETE request.
func (c *Client) Delete(path string) error {
	return c.doJSON(http.MethodDelete, path, nil, nil)
}

// PostMultipart issues a POST request with multipart form fields, used
// by professional registration (profile data plus document references).
func (c *Client) PostMultipart(path string, fields map[string]string, out interface{}) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return err
		}
	}
	if err := writer.Close(); err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, c.BaseURL+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return c.send(req, out)
}

// Download issues a GET request and returns the raw response body along
// with the response headers.
func (c *Client) Download(path string) ([]byte, http.Header, error) {
	req, err := http.NewRequest(http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return nil, nil, err
	}
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, err
	}
	if respErr := c.checkStatus(resp.StatusCode, data); respErr != nil {
		return nil, nil, respErr
	}
	return data, resp.Header, nil
}

// BuildQuery renders non-empty params as a query-string suffix, starting
// with "?", or returns "" when params is empty.
func BuildQuery(params map[string]string) string {
	values := url.Values{}
	for key, value := range params {
		if value != "" {
			values.Set(key, value)
		}
	}
	if len(values) == 0 {
		return ""
	}
	return "?" + values.Encode()
}

func (c *Client) doJSON(method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, c.BaseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req, out)
}

func (c *Client) send(req *http.Request, out interface{}) error {
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if respErr := c.checkStatus(resp.StatusCode, data); respErr != nil {
		return respErr
	}
	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

func (c *Client) authorize(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}

func (c *Client) checkStatus(status int, body []byte) error {
	if status >= 200 && status < 300 {
		return nil
	}

	message := extractMessage(body)
	if status == http.StatusUnauthorized {
		if c.OnUnauthorized != nil {
			c.OnUnauthorized()
		}
		return &AuthError{Message: message}
	}
	return &RequestError{StatusCode: status, Message: message}
}

func extractMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if payload.Message != "" {
		return payload.Message
	}
	return payload.Error
}
