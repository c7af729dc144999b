// Package client talks to the sleep API on behalf of a signed-in user.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/EncryptEx/ichack26/internal"
	"github.com/EncryptEx/ichack26/internal/service"
)

// ErrNoToken is returned before any request is made when the client has no
// bearer token.
var ErrNoToken = errors.New("client: no auth token")

// StatusError is a non-2xx answer from the API.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("client: server returned %d: %s", e.Code, e.Body)
}

type Client struct {
	BaseURL string
	Token   string
	HTTP    *http.Client
	logger  internal.Logger
}

func New(baseURL, token string, logger internal.Logger) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Token:   token,
		HTTP:    &http.Client{Timeout: 10 * time.Second},
		logger:  logger,
	}
}

func (c *Client) do(ctx context.Context, method, path string, body, dst interface{}) error {
	if c.Token == "" {
		return ErrNoToken
	}

	var rdr io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rdr = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, rdr)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.Token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(msg))}
	}
	if dst == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("client: decode %s %s: %w", method, path, err)
	}
	return nil
}

// getData unwraps the {data, meta, error} envelope.
func (c *Client) getData(ctx context.Context, path string, dst interface{}) error {
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &env); err != nil {
		return err
	}
	return json.Unmarshal(env.Data, dst)
}

func (c *Client) Streak(ctx context.Context) (*service.Streak, error) {
	var s service.Streak
	if err := c.do(ctx, http.MethodGet, "/api/analytics/streak", nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *Client) DreamFeed(ctx context.Context) ([]internal.Dream, error) {
	var feed []internal.Dream
	if err := c.do(ctx, http.MethodGet, "/api/dreams/feed", nil, &feed); err != nil {
		return nil, err
	}
	return feed, nil
}

func (c *Client) CreateDream(ctx context.Context, req service.DreamRequest) (*internal.Dream, error) {
	var d internal.Dream
	if err := c.do(ctx, http.MethodPost, "/api/dreams/", req, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (c *Client) Leaderboard(ctx context.Context) (*service.Leaderboard, error) {
	var b service.Leaderboard
	if err := c.getData(ctx, "/api/leaderboard/weekly", &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// Home is what the landing screen shows. A part that failed to load is
// left empty.
type Home struct {
	Streak service.Streak
	Feed   []internal.Dream
}

// LoadHome fetches the streak and the dream feed concurrently. Failures are
// logged and never returned.
func (c *Client) LoadHome(ctx context.Context) Home {
	var home Home
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s, err := c.Streak(gctx)
		if err != nil {
			c.logHomeError("streak", err)
			return nil
		}
		home.Streak = *s
		return nil
	})
	g.Go(func() error {
		feed, err := c.DreamFeed(gctx)
		if err != nil {
			c.logHomeError("dream feed", err)
			return nil
		}
		home.Feed = feed
		return nil
	})

	_ = g.Wait()
	if home.Feed == nil {
		home.Feed = []internal.Dream{}
	}
	return home
}

// A missing token is the normal signed-out state, not a fault.
func (c *Client) logHomeError(what string, err error) {
	if errors.Is(err, ErrNoToken) {
		c.logger.Debugf("home: %s: %v", what, err)
		return
	}
	c.logger.Warnf("home: %s: %v", what, err)
}
