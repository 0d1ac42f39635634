package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/liftledger/liftledger/workout"
)

// Ensure Client implements Store at compile time.
var _ Store = (*Client)(nil)

const (
	defaultUserAgent = "liftledger-client/0.1"
	requestTimeout   = 15 * time.Second
)

// Client talks to a LiftLedger server over its JSON API. It holds the
// signed-in identity and token pair, refreshing the access token once when a
// data call comes back unauthorized.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	logger    *slog.Logger

	mu       sync.Mutex
	access   string
	refresh  string
	identity *Identity
}

// Options configure a Client. The zero value is usable.
type Options struct {
	Logger *slog.Logger
}

// NewClient builds a Client for the given server base URL ("host:port" or a
// full URL).
func NewClient(baseURL string, opts Options) (*Client, error) {
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:   base,
		http:      &http.Client{Timeout: requestTimeout},
		userAgent: defaultUserAgent,
		logger:    logger,
	}, nil
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type authResponse struct {
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
	User         Identity `json:"user"`
}

// SignUp registers a new account and signs it in.
func (c *Client) SignUp(ctx context.Context, email, password string) (Identity, error) {
	return c.authenticate(ctx, "/api/auth/register", email, password)
}

// SignIn exchanges credentials for a token pair.
func (c *Client) SignIn(ctx context.Context, email, password string) (Identity, error) {
	return c.authenticate(ctx, "/api/auth/login", email, password)
}

func (c *Client) authenticate(ctx context.Context, path, email, password string) (Identity, error) {
	var resp authResponse
	err := c.do(ctx, http.MethodPost, path, credentialsRequest{Email: email, Password: password}, &resp, false)
	if err != nil {
		return Identity{}, err
	}
	c.mu.Lock()
	c.access = resp.AccessToken
	c.refresh = resp.RefreshToken
	id := resp.User
	c.identity = &id
	c.mu.Unlock()
	return id, nil
}

// SignOut revokes the refresh token and forgets the identity. Local state is
// cleared even when the revoke call fails.
func (c *Client) SignOut(ctx context.Context) error {
	c.mu.Lock()
	refresh := c.refresh
	c.mu.Unlock()

	var err error
	if refresh != "" {
		err = c.do(ctx, http.MethodPost, "/api/auth/logout", refreshRequest{RefreshToken: refresh}, nil, true)
	}

	c.mu.Lock()
	c.access = ""
	c.refresh = ""
	c.identity = nil
	c.mu.Unlock()
	return err
}

// Restore resumes a previously persisted session without a network call.
func (c *Client) Restore(id Identity, accessToken, refreshToken string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.access = accessToken
	c.refresh = refreshToken
	c.identity = &id
}

// Tokens returns the current token pair for persistence.
func (c *Client) Tokens() (accessToken, refreshToken string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.access, c.refresh
}

// CurrentIdentity reports the signed-in identity, if any.
func (c *Client) CurrentIdentity() (Identity, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.identity == nil {
		return Identity{}, false
	}
	return *c.identity, true
}

type profileRequest struct {
	DisplayName string `json:"display_name"`
}

// Profile fetches the caller's profile; absence surfaces as a not-found
// store error.
func (c *Client) Profile(ctx context.Context) (*workout.Profile, error) {
	var p workout.Profile
	if err := c.do(ctx, http.MethodGet, "/api/profile", nil, &p, true); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) CreateProfile(ctx context.Context, displayName string) (*workout.Profile, error) {
	var p workout.Profile
	if err := c.do(ctx, http.MethodPost, "/api/profile", profileRequest{DisplayName: displayName}, &p, true); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) UpdateProfile(ctx context.Context, displayName string) (*workout.Profile, error) {
	var p workout.Profile
	if err := c.do(ctx, http.MethodPut, "/api/profile", profileRequest{DisplayName: displayName}, &p, true); err != nil {
		return nil, err
	}
	return &p, nil
}

// ActiveExercises lists the caller's non-archived exercises sorted by name.
func (c *Client) ActiveExercises(ctx context.Context) ([]workout.Exercise, error) {
	var list []workout.Exercise
	if err := c.do(ctx, http.MethodGet, "/api/exercises", nil, &list, true); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *Client) CreateExercise(ctx context.Context, in NewExercise) (*workout.Exercise, error) {
	var ex workout.Exercise
	if err := c.do(ctx, http.MethodPost, "/api/exercises", in, &ex, true); err != nil {
		return nil, err
	}
	return &ex, nil
}

func (c *Client) ArchiveExercise(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/api/exercises/"+id.String(), nil, nil, true)
}

func (c *Client) WorkoutByDate(ctx context.Context, date string) (*workout.Workout, error) {
	var w workout.Workout
	if err := c.do(ctx, http.MethodGet, "/api/workouts/date/"+url.PathEscape(date), nil, &w, true); err != nil {
		return nil, err
	}
	return &w, nil
}

type createWorkoutRequest struct {
	Date string `json:"date"`
	Note string `json:"note,omitempty"`
}

func (c *Client) CreateWorkout(ctx context.Context, date, note string) (*workout.Workout, error) {
	var w workout.Workout
	if err := c.do(ctx, http.MethodPost, "/api/workouts", createWorkoutRequest{Date: date, Note: note}, &w, true); err != nil {
		return nil, err
	}
	return &w, nil
}

func (c *Client) WorkoutsBetween(ctx context.Context, start, end string) ([]workout.Workout, error) {
	values := url.Values{}
	values.Set("start", start)
	values.Set("end", end)
	rel := &url.URL{Path: "/api/workouts", RawQuery: values.Encode()}
	var list []workout.Workout
	if err := c.doURL(ctx, http.MethodGet, rel, nil, &list, true); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *Client) Sets(ctx context.Context, workoutID uuid.UUID) ([]workout.SetEntry, error) {
	var list []workout.SetEntry
	if err := c.do(ctx, http.MethodGet, "/api/workouts/"+workoutID.String()+"/sets", nil, &list, true); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *Client) CreateSet(ctx context.Context, in NewSet) (*workout.Set, error) {
	var s workout.Set
	if err := c.do(ctx, http.MethodPost, "/api/sets", in, &s, true); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *Client) UpdateSet(ctx context.Context, id uuid.UUID, patch SetPatch) (*workout.Set, error) {
	var s workout.Set
	if err := c.do(ctx, http.MethodPatch, "/api/sets/"+id.String(), patch, &s, true); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *Client) DeleteSet(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/api/sets/"+id.String(), nil, nil, true)
}

func (c *Client) AllWorkoutsWithSets(ctx context.Context) ([]workout.Detail, error) {
	var list []workout.Detail
	if err := c.do(ctx, http.MethodGet, "/api/export", nil, &list, true); err != nil {
		return nil, err
	}
	return list, nil
}

type apiError struct {
	Error   bool   `json:"error"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (c *Client) do(ctx context.Context, method, path string, body, dest any, authed bool) error {
	return c.doURL(ctx, method, &url.URL{Path: path}, body, dest, authed)
}

func (c *Client) doURL(ctx context.Context, method string, rel *url.URL, body, dest any, authed bool) error {
	err := c.roundTrip(ctx, method, rel, body, dest, authed)
	if authed && IsUnauthorized(err) && c.refreshAccessToken(ctx) {
		err = c.roundTrip(ctx, method, rel, body, dest, authed)
	}
	return err
}

func (c *Client) roundTrip(ctx context.Context, method string, rel *url.URL, body, dest any, authed bool) error {
	reqURL := c.baseURL.ResolveReference(rel)

	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		c.mu.Lock()
		access := c.access
		c.mu.Unlock()
		if access != "" {
			req.Header.Set("Authorization", "Bearer "+access)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &Error{Code: CodeTransport, Message: err.Error()}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return decodeError(resp)
	}
	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return &Error{Code: CodeTransport, Status: resp.StatusCode, Message: fmt.Sprintf("decode response: %v", err)}
	}
	return nil
}

// refreshAccessToken swaps the refresh token for a new pair. It reports
// whether the original call is worth retrying.
func (c *Client) refreshAccessToken(ctx context.Context) bool {
	c.mu.Lock()
	refresh := c.refresh
	c.mu.Unlock()
	if refresh == "" {
		return false
	}

	var resp authResponse
	err := c.roundTrip(ctx, http.MethodPost, &url.URL{Path: "/api/auth/refresh"}, refreshRequest{RefreshToken: refresh}, &resp, false)
	if err != nil {
		c.logger.Debug("token refresh failed", "error", err)
		return false
	}

	c.mu.Lock()
	c.access = resp.AccessToken
	c.refresh = resp.RefreshToken
	if resp.User.UserID != uuid.Nil {
		id := resp.User
		c.identity = &id
	}
	c.mu.Unlock()
	return true
}

func decodeError(resp *http.Response) error {
	var payload apiError
	if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil && payload.Code != "" {
		return &Error{Code: payload.Code, Message: payload.Message, Status: resp.StatusCode}
	}
	code := CodeTransport
	if resp.StatusCode == http.StatusUnauthorized {
		code = CodeUnauthorized
	}
	return &Error{Code: code, Message: resp.Status, Status: resp.StatusCode}
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, fmt.Errorf("server url is empty")
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse server url %q: %w", raw, err)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
