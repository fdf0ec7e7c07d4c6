package tracker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/5con/fittrack/internal/plans"
	"github.com/5con/fittrack/internal/telemetry/tracing"
	"github.com/5con/fittrack/internal/users"
	"github.com/5con/fittrack/pkg"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
)

// StatusError is returned for any non 2xx API response.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("http %d", e.StatusCode)
	}
	return fmt.Sprintf("http %d: %s", e.StatusCode, e.Message)
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
}

func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = NewHTTPClient(10 * time.Second)
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// UpsertUserFromProfile finds the user by email and updates the stored profile,
// or creates a new user when none exists yet.
func (c *Client) UpsertUserFromProfile(ctx context.Context, email string, profile Profile) (_ *users.User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "tracker.client.upsertuser")
	defer tracing.EndSpan(span, &err)

	found, err := c.FindUsers(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}

	in := profile.toInput(email)
	if len(found) > 0 {
		u := found[0]
		span.SetAttributes(attribute.Int("user-id", u.ID))
		if err := c.UpdateUser(ctx, u.ID, in); err != nil {
			return nil, fmt.Errorf("update user %d: %w", u.ID, err)
		}
		return &u, nil
	}

	created, err := c.CreateUser(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return created, nil
}

func (c *Client) FindUsers(ctx context.Context, email string) ([]users.User, error) {
	var found []users.User
	path := "/api/users?email=" + url.QueryEscape(email)
	if err := c.do(ctx, http.MethodGet, path, nil, &found); err != nil {
		return nil, err
	}
	return found, nil
}

func (c *Client) CreateUser(ctx context.Context, in users.Input) (*users.User, error) {
	created := &users.User{}
	if err := c.do(ctx, http.MethodPost, "/api/users", in, created); err != nil {
		return nil, err
	}
	return created, nil
}

func (c *Client) UpdateUser(ctx context.Context, id int, in users.Input) error {
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/api/users/%d", id), in, nil)
}

func (c *Client) Register(ctx context.Context, in users.Input) (*users.AuthResponse, error) {
	resp := &users.AuthResponse{}
	if err := c.do(ctx, http.MethodPost, "/api/users/register", in, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*users.AuthResponse, error) {
	resp := &users.AuthResponse{}
	req := users.LoginRequest{Email: email, Password: password}
	if err := c.do(ctx, http.MethodPost, "/api/users/login", req, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) GetPlan(ctx context.Context, userID int, weekStart string) ([]plans.PlanDay, error) {
	var days []plans.PlanDay
	if err := c.do(ctx, http.MethodGet, planPath(userID, "", weekStart), nil, &days); err != nil {
		return nil, err
	}
	return days, nil
}

func (c *Client) GeneratePlan(ctx context.Context, userID int, weekStart string) (*plans.GeneratedWeek, error) {
	week := &plans.GeneratedWeek{}
	if err := c.do(ctx, http.MethodPost, planPath(userID, "/generate", weekStart), nil, week); err != nil {
		return nil, err
	}
	return week, nil
}

func (c *Client) Tips(ctx context.Context, sport, position string) ([]string, error) {
	path := "/api/tips/" + url.PathEscape(sport)
	if position != "" {
		path += "/" + url.PathEscape(position)
	}
	var tips []string
	if err := c.do(ctx, http.MethodGet, path, nil, &tips); err != nil {
		return nil, err
	}
	return tips, nil
}

func planPath(userID int, suffix, weekStart string) string {
	path := fmt.Sprintf("/api/users/%d/plans%s", userID, suffix)
	if weekStart != "" {
		path += "?weekStart=" + url.QueryEscape(weekStart)
	}
	return path
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", pkg.ContentType.JSON)

	log.Debugf("tracker api: %s %s", method, path)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http client do: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{
			StatusCode: resp.StatusCode,
			Message:    errorMessage(respBytes),
		}
	}

	if out == nil || len(respBytes) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBytes, out); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}

func errorMessage(body []byte) string {
	var msg struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &msg); err == nil && msg.Message != "" {
		return msg.Message
	}
	return strings.TrimSpace(string(body))
}
