package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/moodiary/internal/client/models"
	"github.com/dmitrijs2005/moodiary/internal/common"
	"github.com/google/uuid"
)

const (
	// RefreshPath is the token refresh endpoint of the backend.
	RefreshPath = "/api/users/token/refresh/"

	maxDetailLength = 200
)

var errEmptyAccessToken = errors.New("refresh response carries no access token")

// HTTPClient talks to the Moodiary REST API.
type HTTPClient struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
}

// NewHTTPClient validates baseURL and builds a client whose requests time out
// after timeout. A zero timeout disables the client-side limit.
func NewHTTPClient(baseURL string, timeout time.Duration) (*HTTPClient, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid api url %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
		return nil, fmt.Errorf("invalid api url %q: want http(s)://host[:port]", baseURL)
	}

	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}, nil
}

// SetTokenSource installs the source of the bearer credential.
func (c *HTTPClient) SetTokenSource(ts TokenSource) {
	c.tokens = ts
}

type request struct {
	method string
	path   string
	query  url.Values
	body   any
	out    any
	auth   bool
}

func (c *HTTPClient) do(ctx context.Context, r request) error {
	var body io.Reader
	if r.body != nil {
		b, err := json.Marshal(r.body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	target := c.baseURL + r.path
	if len(r.query) > 0 {
		target += "?" + r.query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, r.method, target, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(common.RequestIDHeaderName, uuid.NewString())
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if r.auth && c.tokens != nil {
		token, err := c.tokens.AccessToken(ctx)
		if err != nil {
			return fmt.Errorf("read access token: %w", err)
		}
		if token != "" {
			req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		return &APIError{Status: resp.StatusCode, Detail: extractDetail(b)}
	}

	if r.out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(r.out); err != nil {
		return fmt.Errorf("decode response of %s %s: %w", r.method, r.path, err)
	}
	return nil
}

// extractDetail pulls a human-readable message out of an error body. The
// backend uses "detail" for framework errors and "error" for its own, and
// field-keyed lists for validation failures.
func extractDetail(b []byte) string {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return ""
	}

	var m map[string]any
	if err := json.Unmarshal(b, &m); err == nil {
		for _, key := range []string{"detail", "error"} {
			if s, ok := m[key].(string); ok && s != "" {
				return s
			}
		}
	}

	s := string(b)
	if len(s) > maxDetailLength {
		s = s[:maxDetailLength] + "..."
	}
	return s
}

func (c *HTTPClient) Login(ctx context.Context, creds models.Credentials) (*models.AuthResponse, error) {
	var resp models.AuthResponse
	if err := c.do(ctx, request{method: http.MethodPost, path: "/api/users/login/", body: creds, out: &resp}); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) Register(ctx context.Context, reg models.Registration) (*models.AuthResponse, error) {
	var resp models.AuthResponse
	if err := c.do(ctx, request{method: http.MethodPost, path: "/api/users/register/", body: reg, out: &resp}); err != nil {
		return nil, err
	}
	return &resp, nil
}

// RefreshToken exchanges a refresh token for a new access token. A 2xx
// response without an access token is an error.
func (c *HTTPClient) RefreshToken(ctx context.Context, refreshToken string) (string, error) {
	var resp models.RefreshResponse
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   RefreshPath,
		body:   models.RefreshRequest{Refresh: refreshToken},
		out:    &resp,
	})
	if err != nil {
		return "", err
	}
	if resp.Access == "" {
		return "", errEmptyAccessToken
	}
	return resp.Access, nil
}

func (c *HTTPClient) Me(ctx context.Context) (models.Profile, error) {
	var p models.Profile
	if err := c.do(ctx, request{method: http.MethodGet, path: "/api/users/me/", out: &p, auth: true}); err != nil {
		return nil, err
	}
	return p, nil
}

func (c *HTTPClient) UpdateMe(ctx context.Context, fields map[string]any) (models.Profile, error) {
	var p models.Profile
	if err := c.do(ctx, request{method: http.MethodPatch, path: "/api/users/me/", body: fields, out: &p, auth: true}); err != nil {
		return nil, err
	}
	return p, nil
}

func (c *HTTPClient) DeleteMe(ctx context.Context) error {
	return c.do(ctx, request{method: http.MethodDelete, path: "/api/users/me/", auth: true})
}

func (c *HTTPClient) SetPin(ctx context.Context, req models.PinRequest) error {
	return c.do(ctx, request{method: http.MethodPost, path: "/api/users/set-pin/", body: req, auth: true})
}

func (c *HTTPClient) VerifyPin(ctx context.Context, pin string) error {
	return c.do(ctx, request{method: http.MethodPost, path: "/api/users/verify-pin/", body: models.PinRequest{PinCode: pin}, auth: true})
}

func (c *HTTPClient) ChangePassword(ctx context.Context, req models.PasswordChange) error {
	return c.do(ctx, request{method: http.MethodPost, path: "/api/users/change-password/", body: req, auth: true})
}

func (c *HTTPClient) ListEntries(ctx context.Context) ([]models.Entry, error) {
	var out []models.Entry
	if err := c.do(ctx, request{method: http.MethodGet, path: "/api/entries/", out: &out, auth: true}); err != nil {
		return nil, err
	}
	return out, nil
}

// LastEntry returns (nil, nil) when the user has no entries yet.
func (c *HTTPClient) LastEntry(ctx context.Context) (*models.Entry, error) {
	var out *models.Entry
	if err := c.do(ctx, request{method: http.MethodGet, path: "/api/entries/last/", out: &out, auth: true}); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) EntriesByDate(ctx context.Context, date string) ([]models.Entry, error) {
	var out []models.Entry
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/api/entries/by_date/",
		query:  url.Values{"date": {date}},
		out:    &out,
		auth:   true,
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) PublicEntries(ctx context.Context) ([]models.Entry, error) {
	var out []models.Entry
	if err := c.do(ctx, request{method: http.MethodGet, path: "/api/entries/public/", out: &out, auth: true}); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) GetEntry(ctx context.Context, id int64) (*models.Entry, error) {
	var out models.Entry
	if err := c.do(ctx, request{method: http.MethodGet, path: entryPath(id), out: &out, auth: true}); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) CreateEntry(ctx context.Context, e models.Entry) (*models.Entry, error) {
	var out models.Entry
	if err := c.do(ctx, request{method: http.MethodPost, path: "/api/entries/", body: e, out: &out, auth: true}); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateEntry replaces entry id with e.
func (c *HTTPClient) UpdateEntry(ctx context.Context, id int64, e models.Entry) (*models.Entry, error) {
	var out models.Entry
	if err := c.do(ctx, request{method: http.MethodPut, path: entryPath(id), body: e, out: &out, auth: true}); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) DeleteEntry(ctx context.Context, id int64) error {
	return c.do(ctx, request{method: http.MethodDelete, path: entryPath(id), auth: true})
}

func (c *HTTPClient) ListEmotions(ctx context.Context) ([]models.Emotion, error) {
	var out []models.Emotion
	if err := c.do(ctx, request{method: http.MethodGet, path: "/api/emotions/", out: &out, auth: true}); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) AddEmotion(ctx context.Context, t models.EmotionType) (*models.Emotion, error) {
	var out models.Emotion
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/api/emotions/",
		body:   models.Emotion{EmotionType: t},
		out:    &out,
		auth:   true,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) EmotionStats(ctx context.Context, period models.StatsPeriod) (*models.EmotionStats, error) {
	var out models.EmotionStats
	path := "/api/emotions/stats/" + url.PathEscape(string(period)) + "/"
	if err := c.do(ctx, request{method: http.MethodGet, path: path, out: &out, auth: true}); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) ToggleLike(ctx context.Context, entryID int64) (*models.LikeState, error) {
	var out models.LikeState
	path := "/api/like/" + strconv.FormatInt(entryID, 10) + "/toggle/"
	if err := c.do(ctx, request{method: http.MethodPost, path: path, out: &out, auth: true}); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) LikeCount(ctx context.Context, entryID int64) (int, error) {
	var out models.LikeState
	path := "/api/like/" + strconv.FormatInt(entryID, 10) + "/count/"
	if err := c.do(ctx, request{method: http.MethodGet, path: path, out: &out, auth: true}); err != nil {
		return 0, err
	}
	return out.Count, nil
}

func (c *HTTPClient) ListComments(ctx context.Context, entryID int64) ([]models.Comment, error) {
	var out []models.Comment
	if err := c.do(ctx, request{method: http.MethodGet, path: commentsPath(entryID), out: &out, auth: true}); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) AddComment(ctx context.Context, entryID int64, text string) (*models.Comment, error) {
	var out models.Comment
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   commentsPath(entryID),
		body:   models.Comment{Text: text},
		out:    &out,
		auth:   true,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func entryPath(id int64) string {
	return "/api/entries/" + strconv.FormatInt(id, 10) + "/"
}

func commentsPath(entryID int64) string {
	return "/api/comments/" + strconv.FormatInt(entryID, 10) + "/"
}
