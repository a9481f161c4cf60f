// Package gh provides a GraphQL client for the GitHub repository search API.
// It hides the GraphQL query and failure handling behind a single search method.
package gh

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/machinebox/graphql"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
)

// DefaultEndpoint is the public GitHub GraphQL endpoint.
const DefaultEndpoint = "https://api.github.com/graphql"

// Options configures a Client. Zero values fall back to defaults.
type Options struct {
	Endpoint    string        // GraphQL endpoint URL
	Token       string        // Bearer token, required
	PageSize    int           // Repositories requested per search (1-100)
	Timeout     time.Duration // Per-request HTTP timeout
	MaxFailures uint32        // Consecutive failures before the breaker opens
	Cooldown    time.Duration // Time the breaker stays open before probing again
	Log         logrus.FieldLogger
}

// Client is a GitHub GraphQL API client for repository search.
type Client struct {
	gql      *graphql.Client
	token    string
	pageSize int
	breaker  *gobreaker.CircuitBreaker
	log      logrus.FieldLogger
}

// New creates a new GitHub GraphQL client. The token comes from auth.Resolve.
func New(opts Options) (*Client, error) {
	opts = withDefaults(opts)
	if opts.Token == "" {
		return nil, errors.New("a GitHub token is required")
	}

	log := opts.Log.WithField("component", "gh")

	httpClient := &http.Client{
		Timeout:   opts.Timeout,
		Transport: statusTransport{next: http.DefaultTransport},
	}
	client := graphql.NewClient(opts.Endpoint, graphql.WithHTTPClient(httpClient))
	client.Log = func(s string) { log.Trace(s) }

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "github-search",
		Timeout: opts.Cooldown,
		// Searches abandoned at shutdown say nothing about GitHub's health.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= opts.MaxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.WithFields(logrus.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("circuit breaker state changed")
		},
	})

	return &Client{
		gql:      client,
		token:    opts.Token,
		pageSize: opts.PageSize,
		breaker:  breaker,
		log:      log,
	}, nil
}

func withDefaults(opts Options) Options {
	if opts.Endpoint == "" {
		opts.Endpoint = DefaultEndpoint
	}
	if opts.PageSize <= 0 {
		opts.PageSize = 30
	}
	if opts.PageSize > 100 {
		opts.PageSize = 100
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	if opts.MaxFailures == 0 {
		opts.MaxFailures = 5
	}
	if opts.Cooldown <= 0 {
		opts.Cooldown = 30 * time.Second
	}
	if opts.Log == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		opts.Log = discard
	}
	return opts
}

// makeRequest executes a GraphQL request with authentication through the breaker.
func (c *Client) makeRequest(ctx context.Context, req *graphql.Request, resp interface{}) error {
	req.Header.Set("Authorization", "Bearer "+c.token)
	_, err := c.breaker.Execute(func() (interface{}, error) {
		return nil, c.gql.Run(ctx, req, resp)
	})
	return err
}

// StatusError reports a non-2xx HTTP response. The graphql client decodes any body it
// gets, so the status has to be checked before it sees the response.
type StatusError struct {
	Code   int
	Status string // e.g. "401 Unauthorized"
}

func (e *StatusError) Error() string {
	return e.Status
}

// statusTransport turns non-2xx responses into a *StatusError.
type statusTransport struct {
	next http.RoundTripper
}

func (t statusTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	res, err := t.next.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(res.Body, 64<<10))
		res.Body.Close()
		return nil, &StatusError{Code: res.StatusCode, Status: res.Status}
	}
	return res, nil
}
