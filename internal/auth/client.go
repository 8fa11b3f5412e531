// SPDX-FileCopyrightText: Copyright The Website Authors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package auth // import "website.app/v2/internal/auth"

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/klauspost/compress/gzhttp"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"

	"website.app/v2/internal/config"
	"website.app/v2/internal/logging"
	"website.app/v2/internal/metric"
	"website.app/v2/internal/model"
)

const (
	ActionSetAuthToken = "set_auth_token"
	ActionGetUserData  = "get_user_data"

	maxResponseSize = 1 << 20
	maxErrorBody    = 512
)

// ErrEmptyToken is returned by SetAuthToken when the auth API answered
// without a token.
var ErrEmptyToken = errors.New("auth: empty authentication token")

// StatusError is returned when the auth API answers with a non-2xx status.
type StatusError struct {
	Op         string
	StatusCode int
	Body       string
}

func (self *StatusError) Error() string {
	s := fmt.Sprintf("auth: %s: unexpected status %d", self.Op, self.StatusCode)
	if self.Body != "" {
		s += ": " + self.Body
	}
	return s
}

// NewFromConfig returns a Client configured by AUTH_API_* options.
func NewFromConfig() *Client {
	return New(config.Opts.AuthAPIURL(),
		WithTimeout(config.Opts.AuthAPITimeout()),
		WithMaxConns(config.Opts.AuthAPIMaxConns()),
		WithRate(config.Opts.AuthAPIRate()),
		WithUserAgent(config.Opts.AuthAPIUserAgent()))
}

// New returns a Client of the auth API at baseURL.
func New(baseURL string, opts ...Option) *Client {
	self := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		timeout: 20 * time.Second,
		limiter: rate.NewLimiter(rate.Inf, 0),
	}
	for _, fn := range opts {
		fn(self)
	}

	if self.client == nil {
		self.client = &http.Client{
			Transport: self.transport(),
			Timeout:   self.timeout,
		}
	}
	return self
}

// Client calls the two actions of the auth API. It is safe for concurrent
// use.
type Client struct {
	baseURL   string
	userAgent string
	timeout   time.Duration

	client  *http.Client
	sem     *semaphore.Weighted
	limiter *rate.Limiter
}

type Option func(c *Client)

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithMaxConns limits the number of concurrent calls. Calls above the limit
// wait for a free slot.
func WithMaxConns(n int64) Option {
	return func(c *Client) {
		if n > 0 {
			c.sem = semaphore.NewWeighted(n)
		}
	}
}

// WithRate limits calls per second. Zero means unlimited.
func WithRate(r float64) Option {
	return func(c *Client) {
		if r > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(r), max(1, int(r)))
		}
	}
}

func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// WithHTTPClient replaces the default client and its transport.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) { c.client = client }
}

func (self *Client) transport() http.RoundTripper {
	dialer := &net.Dialer{Timeout: self.timeout}
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		TLSHandshakeTimeout:   self.timeout,
		IdleConnTimeout:       90 * time.Second,
		ResponseHeaderTimeout: self.timeout,
		ForceAttemptHTTP2:     true,
	}
	return gzhttp.Transport(transport)
}

type tokenRequest struct {
	Credential string `json:"credential"`
}

type tokenResponse struct {
	Authentication string `json:"authentication"`
}

// SetAuthToken exchanges credential for an authentication token.
func (self *Client) SetAuthToken(ctx context.Context, credential string,
) (*model.Authentication, error) {
	body, err := json.Marshal(&tokenRequest{Credential: credential})
	if err != nil {
		return nil, fmt.Errorf("auth: marshal token request: %w", err)
	}

	var resp tokenResponse
	err = self.do(ctx, ActionSetAuthToken, http.MethodPost, "/auth/token",
		"", bytes.NewReader(body), &resp)
	if err != nil {
		return nil, err
	} else if resp.Authentication == "" {
		return nil, ErrEmptyToken
	}
	return &model.Authentication{Token: resp.Authentication}, nil
}

// UserData returns the profile of the user authenticated by auth.
func (self *Client) UserData(ctx context.Context, auth *model.Authentication,
) (*model.User, error) {
	if !auth.Valid() {
		return nil, ErrEmptyToken
	}

	var user model.User
	err := self.do(ctx, ActionGetUserData, http.MethodGet, "/user", auth.Token,
		nil, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (self *Client) do(ctx context.Context, op, method, path, token string,
	body io.Reader, v any,
) (err error) {
	release, err := self.acquire(ctx, op)
	if err != nil {
		return err
	}
	defer release()

	startTime := time.Now()
	defer func() { metric.ObserveAuthAction(op, startTime, err) }()

	req, err := http.NewRequestWithContext(ctx, method, self.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("auth: %s: create request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if self.userAgent != "" {
		req.Header.Set("User-Agent", self.userAgent)
	}

	log := logging.FromContext(ctx).With(slog.String("op", op),
		slog.String("url", req.URL.String()))
	log.Debug("calling auth API")

	resp, err := self.client.Do(req)
	if err != nil {
		return fmt.Errorf("auth: %s: %w", op, err)
	}
	defer resp.Body.Close()

	log.Debug("auth API answered",
		slog.Int("status_code", resp.StatusCode),
		slog.Duration("elapsed", time.Since(startTime)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(b)),
		}
	}

	err = json.NewDecoder(io.LimitReader(resp.Body, maxResponseSize)).Decode(v)
	if err != nil {
		return fmt.Errorf("auth: %s: decode response: %w", op, err)
	}
	return nil
}

func (self *Client) acquire(ctx context.Context, op string) (func(), error) {
	if err := self.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("auth: %s: wait rate limiter: %w", op, err)
	}

	if self.sem == nil {
		return func() {}, nil
	}
	if err := self.sem.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("auth: %s: acquire semaphore: %w", op, err)
	}
	return func() { self.sem.Release(1) }, nil
}
