// SPDX-License-Identifier: Apache-2.0

package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/mpetrenko/fieldstore/internal/config"
	"github.com/mpetrenko/fieldstore/internal/logger"
	"github.com/mpetrenko/fieldstore/internal/utils"
	"github.com/mpetrenko/fieldstore/models"
)

type httpRemoteStore struct {
	client *utils.HTTPClient

	token string

	logger *logger.Logger
}

// NewHTTPRemoteStore constructs an HTTP/REST implementation of
// [RemoteStore]. It normalises and validates the base URL from
// cfg.HTTPAddress and configures the underlying HTTP client with the
// resolved base URL and request timeout.
//
// Returns an error if cfg.HTTPAddress is empty or cannot be parsed as a
// valid URL.
func NewHTTPRemoteStore(cfg config.Adapter, logger *logger.Logger) (RemoteStore, error) {
	client := utils.NewHTTPClient()
	baseURL, err := normalizeBaseURL(cfg.HTTPAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter http address: %w", err)
	}

	client.
		SetBaseURL(baseURL).
		SetTimeout(cfg.RequestTimeout)

	return &httpRemoteStore{client: client, logger: logger}, nil
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

// SetToken implements [RemoteStore]. It stores token
// (whitespace-trimmed) for use in the Authorization header of all
// subsequent authenticated requests.
func (h *httpRemoteStore) SetToken(token string) {
	h.token = strings.TrimSpace(token)
}

// Token implements [RemoteStore].
func (h *httpRemoteStore) Token() string {
	return h.token
}

// Register implements [RemoteStore]. It POSTs the account credentials
// to POST /api/auth/register. On success the bearer token is extracted
// from the Authorization response header and stored via SetToken.
func (h *httpRemoteStore) Register(ctx context.Context, user models.User) (models.User, error) {
	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(user).
		Post("/api/auth/register")
	if err != nil {
		return models.User{}, fmt.Errorf("register request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.User{}, err
	}

	token, err := utils.ParseBearerToken(resp.Header().Get("Authorization"))
	if err != nil {
		return models.User{}, fmt.Errorf("register parse bearer token: %w", err)
	}

	h.SetToken(token)
	return user, nil
}

// Login implements [RemoteStore]. It POSTs the derived password hash to
// POST /api/auth/login. On success the bearer token is extracted from
// the Authorization response header and stored via SetToken.
func (h *httpRemoteStore) Login(ctx context.Context, user models.User) (models.User, error) {
	var foundUser models.User

	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(user).
		SetResult(&foundUser).
		Post("/api/auth/login")
	if err != nil {
		return user, fmt.Errorf("login request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return user, err
	}

	token, err := utils.ParseBearerToken(resp.Header().Get("Authorization"))
	if err != nil {
		return user, fmt.Errorf("login parse bearer token: %w", err)
	}

	h.SetToken(token)
	return foundUser, nil
}

// Changes implements [RemoteStore]. It GETs the changes feed from
// GET /api/sync/changes with since and limit as query parameters and
// decodes the response. Requires a valid bearer token.
func (h *httpRemoteStore) Changes(ctx context.Context, since int64, limit int) (models.ChangesResponse, error) {
	resp, err := h.authedRequest(ctx).
		SetQueryParam("since", fmt.Sprintf("%d", since)).
		SetQueryParam("limit", fmt.Sprintf("%d", limit)).
		Get("/api/sync/changes")
	if err != nil {
		return models.ChangesResponse{}, fmt.Errorf("changes request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.ChangesResponse{}, err
	}

	var changes models.ChangesResponse
	if err = json.Unmarshal(resp.Body(), &changes); err != nil {
		return models.ChangesResponse{}, fmt.Errorf("decode changes response: %w", err)
	}

	return changes, nil
}

// Push implements [RemoteStore]. It sets req.Length and POSTs the batch
// to POST /api/sync/push. Per-entry conflicts come back inside the
// decoded [models.PushResponse]; only transport and whole-batch
// failures surface as errors. Requires a valid bearer token.
func (h *httpRemoteStore) Push(ctx context.Context, req models.PushRequest) (models.PushResponse, error) {
	req.Length = len(req.Entries)

	resp, err := h.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		Post("/api/sync/push")
	if err != nil {
		return models.PushResponse{}, fmt.Errorf("push request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.PushResponse{}, err
	}

	var result models.PushResponse
	if err = json.Unmarshal(resp.Body(), &result); err != nil {
		return models.PushResponse{}, fmt.Errorf("decode push response: %w", err)
	}

	return result, nil
}

func (h *httpRemoteStore) authedRequest(ctx context.Context) *resty.Request {
	req := h.client.R().SetContext(ctx)
	if token := h.Token(); token != "" {
		req.SetHeader("Authorization", "Bearer "+token)
	}
	return req
}
