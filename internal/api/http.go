package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tiadocs/tia/internal/models"
)

// Backend routes, mounted under /api/v1 like the server does.
const (
	pathUpload    = "/api/v1/upload/"
	pathDelete    = "/api/v1/delete/"
	pathQuery     = "/api/v1/query/"
	pathSignup    = "/api/v1/auth/signup"
	pathLogin     = "/api/v1/auth/login"
	pathDocuments = "/api/v1/documents/"
	pathHealth    = "/api/v1/health"
)

// HTTPClient talks JSON over HTTP to the Tia backend. All methods honor the
// caller's context and additionally bound each request by the configured
// timeout, so an unreachable backend can never leave a coordinator hanging.
type HTTPClient struct {
	baseURL string
	http    *http.Client
}

// NewHTTPClient builds a client for the given base URL (scheme://host[:port]).
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClient) Upload(ctx context.Context, userID, filename string, body io.Reader) (*UploadResult, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := mw.WriteField("user_id", userID); err != nil {
		return nil, err
	}
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, body); err != nil {
		return nil, fmt.Errorf("reading %s: %w", filename, err)
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+pathUpload, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	out := &UploadResult{}
	if err := c.do(req, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) Delete(ctx context.Context, userID string, filenames []string) (*DeleteResult, error) {
	body := struct {
		UserID    string   `json:"user_id"`
		Filenames []string `json:"filenames"`
	}{UserID: userID, Filenames: filenames}

	out := &DeleteResult{}
	if err := c.postJSON(ctx, pathDelete, body, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) Query(ctx context.Context, userID, question string, topK int) (*QueryResult, error) {
	body := struct {
		UserID   string `json:"user_id"`
		Question string `json:"question"`
		TopK     int    `json:"top_k,omitempty"`
	}{UserID: userID, Question: question, TopK: topK}

	out := &QueryResult{}
	if err := c.postJSON(ctx, pathQuery, body, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) Login(ctx context.Context, username, password string) (*models.Identity, error) {
	body := struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}{Username: username, Password: password}

	var resp userResponse
	if err := c.postJSON(ctx, pathLogin, body, &resp); err != nil {
		return nil, err
	}
	return resp.identity(), nil
}

func (c *HTTPClient) Signup(ctx context.Context, req SignupRequest) (*models.Identity, error) {
	var resp userResponse
	if err := c.postJSON(ctx, pathSignup, req, &resp); err != nil {
		return nil, err
	}
	return resp.identity(), nil
}

func (c *HTTPClient) ListDocuments(ctx context.Context, userID string) ([]RemoteDocument, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+pathDocuments+url.PathEscape(userID), nil)
	if err != nil {
		return nil, err
	}

	var out []RemoteDocument
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+pathHealth, nil)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

// userResponse is the wire shape of both auth endpoints.
type userResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	FullName string `json:"full_name,omitempty"`
	Role     string `json:"role"`
}

func (r userResponse) identity() *models.Identity {
	return &models.Identity{
		Username: r.Username,
		FullName: r.FullName,
		Role:     models.Role(r.Role),
	}
}

func (c *HTTPClient) postJSON(ctx context.Context, path string, body, out any) error {
	b, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

// do executes the request and decodes a 2xx body into out (when non-nil).
// Transport failures and non-2xx statuses are mapped to the package's error
// taxonomy so callers can match with errors.Is.
func (c *HTTPClient) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return mapStatus(resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding backend response: %w", err)
	}
	return nil
}

// mapStatus converts a non-2xx response into an error. The backend's
// "detail" field, when parseable, is surfaced verbatim.
func mapStatus(resp *http.Response) error {
	var detail struct {
		Detail string `json:"detail"`
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	_ = json.Unmarshal(body, &detail)

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		if detail.Detail != "" {
			return fmt.Errorf("%w: %s", ErrUnauthorized, detail.Detail)
		}
		return ErrUnauthorized
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return ErrUnavailable
	default:
		return &APIError{StatusCode: resp.StatusCode, Detail: detail.Detail}
	}
}
