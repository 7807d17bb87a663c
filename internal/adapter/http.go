package adapter

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/MKhiriev/go-user-keeper/internal/logger"
	"github.com/MKhiriev/go-user-keeper/internal/utils"
	"github.com/MKhiriev/go-user-keeper/models"
	"github.com/go-resty/resty/v2"
)

const (
	loginPath   = "/api/users/login"
	refreshPath = "/api/users/token/refresh"
	usersPath   = "/api/users"
	mePath      = "/api/users/me"
	userPath    = "/api/users/{id}"
)

type httpAPIClient struct {
	client *utils.HTTPClient

	mu     sync.RWMutex
	tokens models.TokenPair

	logger *logger.Logger
}

// NewHTTPAPIClient returns an [APIClient] for the API at address. A bare
// "host:port" is treated as http. A zero timeout disables the client
// timeout.
func NewHTTPAPIClient(address string, timeout time.Duration, logger *logger.Logger) (APIClient, error) {
	baseURL, err := normalizeBaseURL(address)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidBaseURL, err)
	}

	return &httpAPIClient{
		client: utils.NewHTTPClient(baseURL, timeout),
		logger: logger,
	}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

func (h *httpAPIClient) SetTokens(tokens models.TokenPair) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.tokens = models.TokenPair{
		Access:  strings.TrimSpace(tokens.Access),
		Refresh: strings.TrimSpace(tokens.Refresh),
	}
}

func (h *httpAPIClient) Tokens() models.TokenPair {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.tokens
}

// request starts a request carrying the stored access token, if any.
func (h *httpAPIClient) request(ctx context.Context) *resty.Request {
	req := h.client.R().SetContext(ctx)
	if access := h.Tokens().Access; access != "" {
		req.SetAuthToken(access)
	}
	return req
}

func (h *httpAPIClient) Login(ctx context.Context, credentials models.Credentials) (models.TokenPair, error) {
	var tokens models.TokenPair

	resp, err := h.client.R().
		SetContext(ctx).
		SetBody(credentials).
		SetResult(&tokens).
		Post(loginPath)
	if err != nil {
		return models.TokenPair{}, fmt.Errorf("login request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.TokenPair{}, err
	}

	h.SetTokens(tokens)
	h.logger.Debug().Str("username", credentials.Username).Msg("logged in")
	return tokens, nil
}

func (h *httpAPIClient) Refresh(ctx context.Context) (models.TokenPair, error) {
	refresh := h.Tokens().Refresh
	if refresh == "" {
		return models.TokenPair{}, ErrNoRefreshToken
	}

	var tokens models.TokenPair
	resp, err := h.client.R().
		SetContext(ctx).
		SetBody(models.RefreshRequest{Refresh: refresh}).
		SetResult(&tokens).
		Post(refreshPath)
	if err != nil {
		return models.TokenPair{}, fmt.Errorf("refresh request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.TokenPair{}, err
	}

	if tokens.Refresh == "" {
		tokens.Refresh = refresh
	}
	h.SetTokens(tokens)
	return tokens, nil
}

func (h *httpAPIClient) ListUsers(ctx context.Context) ([]models.User, error) {
	var result models.UsersResponse

	resp, err := h.request(ctx).SetResult(&result).Get(usersPath)
	if err != nil {
		return nil, fmt.Errorf("list users request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	return result.Data.Users, nil
}

func (h *httpAPIClient) GetUser(ctx context.Context, id string) (models.User, error) {
	var result models.UserResponse

	resp, err := h.request(ctx).
		SetPathParam("id", id).
		SetResult(&result).
		Get(userPath)
	if err != nil {
		return models.User{}, fmt.Errorf("get user request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.User{}, err
	}

	return result.Data.User, nil
}

func (h *httpAPIClient) Me(ctx context.Context) (models.User, error) {
	var result models.UserResponse

	resp, err := h.request(ctx).SetResult(&result).Get(mePath)
	if err != nil {
		return models.User{}, fmt.Errorf("me request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.User{}, err
	}

	return result.Data.User, nil
}

func (h *httpAPIClient) CreateUser(ctx context.Context, input models.CreateUserInput) (models.User, error) {
	var result models.UserResponse

	resp, err := h.request(ctx).
		SetBody(input).
		SetResult(&result).
		Post(usersPath)
	if err != nil {
		return models.User{}, fmt.Errorf("create user request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.User{}, err
	}

	return result.Data.User, nil
}

// UpdateUser sends a PATCH; only the non-nil fields of input change.
func (h *httpAPIClient) UpdateUser(ctx context.Context, id string, input models.UpdateUserInput) (models.User, error) {
	var result models.UserResponse

	resp, err := h.request(ctx).
		SetPathParam("id", id).
		SetBody(input).
		SetResult(&result).
		Patch(userPath)
	if err != nil {
		return models.User{}, fmt.Errorf("update user request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.User{}, err
	}

	return result.Data.User, nil
}

func (h *httpAPIClient) DeleteUser(ctx context.Context, id string) error {
	resp, err := h.request(ctx).
		SetPathParam("id", id).
		Delete(userPath)
	if err != nil {
		return fmt.Errorf("delete user request: %w", err)
	}
	return mapHTTPError(resp)
}
