// Package client is a typed HTTP client for the StandupBot API plus a small
// observable session for UI code.
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
	"sync"
	"time"

	"github.com/geocoder89/standupbot/internal/domain/standup"
	"github.com/geocoder89/standupbot/internal/domain/team"
	"github.com/geocoder89/standupbot/internal/domain/user"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// APIError is a non-2xx response decoded from the error envelope.
type APIError struct {
	Status    int            `json:"-"`
	Code      string         `json:"code"`
	Message   string         `json:"message"`
	RequestID string         `json:"requestId,omitempty"`
	Details   map[string]any `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("standupbot: %d %s: %s", e.Status, e.Code, e.Message)
}

func statusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

func IsNotFound(err error) bool   { return statusOf(err) == http.StatusNotFound }
func IsConflict(err error) bool   { return statusOf(err) == http.StatusConflict }
func IsValidation(err error) bool { return statusOf(err) == http.StatusBadRequest }

type Client struct {
	baseURL string
	http    *http.Client

	mu    sync.RWMutex
	token string
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout:   10 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetToken replaces the bearer token sent with every request.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) bearer() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.bearer(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return decodeError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}

	var env struct {
		Error *APIError `json:"error"`
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if json.Unmarshal(raw, &env) == nil && env.Error != nil {
		env.Error.Status = resp.StatusCode
		return env.Error
	}

	apiErr.Code = "http_" + strconv.Itoa(resp.StatusCode)
	apiErr.Message = strings.TrimSpace(string(raw))
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return apiErr
}

func id(n int64) string {
	return strconv.FormatInt(n, 10)
}

func (c *Client) GetTodayStandup(ctx context.Context, userID int64) (standup.Standup, error) {
	var out standup.Standup
	err := c.do(ctx, http.MethodGet, "/standups/today/"+id(userID), nil, &out)
	return out, err
}

// GetUserHistory passes count through as is; zero asks for the server default.
func (c *Client) GetUserHistory(ctx context.Context, userID int64, count int) ([]standup.Summary, error) {
	path := "/standups/history/" + id(userID)
	if count != 0 {
		path += "?count=" + strconv.Itoa(count)
	}

	var out []standup.Summary
	err := c.do(ctx, http.MethodGet, path, nil, &out)
	return out, err
}

// GetTeamStandups lists a team's standups on day; a zero day means today.
func (c *Client) GetTeamStandups(ctx context.Context, teamID int64, day standup.Day) ([]standup.Standup, error) {
	path := "/standups/team/" + id(teamID)
	if !day.IsZero() {
		path += "?" + url.Values{"date": {day.String()}}.Encode()
	}

	var out []standup.Standup
	err := c.do(ctx, http.MethodGet, path, nil, &out)
	return out, err
}

func (c *Client) CreateStandup(ctx context.Context, userID int64, req standup.CreateRequest) (standup.Standup, error) {
	var out standup.Standup
	err := c.do(ctx, http.MethodPost, "/standups/"+id(userID), req, &out)
	return out, err
}

func (c *Client) UpdateStandup(ctx context.Context, userID int64, req standup.UpdateRequest) (standup.Standup, error) {
	var out standup.Standup
	err := c.do(ctx, http.MethodPut, "/standups/"+id(userID), req, &out)
	return out, err
}

func (c *Client) UpdateBlockerStatus(ctx context.Context, standupID int64, status standup.BlockerStatus) (standup.Standup, error) {
	var out standup.Standup
	err := c.do(ctx, http.MethodPatch, "/standups/"+id(standupID)+"/blocker-status",
		standup.BlockerStatusRequest{Status: string(status)}, &out)
	return out, err
}

func (c *Client) HasSubmittedToday(ctx context.Context, userID int64) (bool, error) {
	var out struct {
		HasSubmittedToday bool `json:"hasSubmittedToday"`
	}
	err := c.do(ctx, http.MethodGet, "/standups/status/"+id(userID), nil, &out)
	return out.HasSubmittedToday, err
}

func (c *Client) GetTeamSubmissionStatus(ctx context.Context, teamID int64) (team.SubmissionStatus, error) {
	var out team.SubmissionStatus
	err := c.do(ctx, http.MethodGet, "/standups/team/"+id(teamID)+"/status", nil, &out)
	return out, err
}

func (c *Client) ListUsers(ctx context.Context) ([]user.User, error) {
	var out []user.User
	err := c.do(ctx, http.MethodGet, "/users", nil, &out)
	return out, err
}

func (c *Client) GetUser(ctx context.Context, userID int64) (user.User, error) {
	var out user.User
	err := c.do(ctx, http.MethodGet, "/users/"+id(userID), nil, &out)
	return out, err
}

func (c *Client) GetTeam(ctx context.Context, teamID int64) (team.Team, error) {
	var out team.Team
	err := c.do(ctx, http.MethodGet, "/teams/"+id(teamID), nil, &out)
	return out, err
}

func (c *Client) ListTeamMembers(ctx context.Context, teamID int64) ([]user.User, error) {
	var out []user.User
	err := c.do(ctx, http.MethodGet, "/teams/"+id(teamID)+"/members", nil, &out)
	return out, err
}

func (c *Client) BlockerStatuses(ctx context.Context) ([]standup.StatusLabel, error) {
	var out []standup.StatusLabel
	err := c.do(ctx, http.MethodGet, "/lookups/blocker-statuses", nil, &out)
	return out, err
}

func (c *Client) Roles(ctx context.Context) ([]user.RoleLabel, error) {
	var out []user.RoleLabel
	err := c.do(ctx, http.MethodGet, "/lookups/roles", nil, &out)
	return out, err
}

type SessionToken struct {
	AccessToken string    `json:"accessToken"`
	TokenType   string    `json:"tokenType"`
	ExpiresAt   time.Time `json:"expiresAt"`
	User        user.User `json:"user"`
}

// StartSession exchanges a seeded user's email for a bearer token and uses
// it for subsequent calls.
func (c *Client) StartSession(ctx context.Context, email string) (SessionToken, error) {
	var out SessionToken
	if err := c.do(ctx, http.MethodPost, "/auth/session", map[string]string{"email": email}, &out); err != nil {
		return SessionToken{}, err
	}
	c.SetToken(out.AccessToken)
	return out, nil
}
