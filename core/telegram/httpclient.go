package telegram

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/m3rciful/fridgebot/core/telegram/netutil"
)

const (
	defaultDialTimeout       = 5 * time.Second
	defaultTLSHandshake      = 5 * time.Second
	defaultIdleConnTimeout   = 30 * time.Second
	defaultResponseTimeout   = 5 * time.Second
	defaultClientTimeout     = 30 * time.Second
	defaultKeepAliveInterval = 30 * time.Second
	defaultRetryAttempts     = 3
	defaultRetryBackoff      = 2 * time.Second
)

// HTTPClientOptions tunes transport-level retries; zero values select defaults.
type HTTPClientOptions struct {
	MaxRetries int
	Backoff    time.Duration
}

// BuildHTTPClient returns an HTTP client tuned for Telegram API calls.
func BuildHTTPClient(opts HTTPClientOptions) *http.Client {
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = defaultRetryAttempts
	}
	if opts.Backoff <= 0 {
		opts.Backoff = defaultRetryBackoff
	}
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           (&net.Dialer{Timeout: defaultDialTimeout, KeepAlive: defaultKeepAliveInterval}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       defaultIdleConnTimeout,
		TLSHandshakeTimeout:   defaultTLSHandshake,
		ResponseHeaderTimeout: defaultResponseTimeout,
		ExpectContinueTimeout: 1 * time.Second,
	}

	retry := &retryTransport{
		base:       transport,
		maxRetries: opts.MaxRetries,
		backoff:    opts.Backoff,
	}

	return &http.Client{
		Timeout:   defaultClientTimeout,
		Transport: retry,
	}
}

type retryTransport struct {
	base       http.RoundTripper
	maxRetries int
	backoff    time.Duration
}

func (t *retryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}
	attempts := t.maxRetries + 1

	resp, err := base.RoundTrip(req)
	for attempt := 1; err != nil && attempt < attempts && netutil.ShouldRetry(err); attempt++ {
		if werr := wait(req.Context(), t.backoff*time.Duration(attempt)); werr != nil {
			return nil, werr
		}
		next, rerr := rewind(req)
		if rerr != nil {
			return nil, err
		}
		resp, err = base.RoundTrip(next)
	}
	return resp, err
}

// rewind clones req with a fresh body. Requests whose body cannot be replayed
// are not retried.
func rewind(req *http.Request) (*http.Request, error) {
	next := req.Clone(req.Context())
	if req.Body == nil || req.Body == http.NoBody {
		return next, nil
	}
	if req.GetBody == nil {
		return nil, errors.New("telegram http: request body cannot be replayed")
	}
	body, err := req.GetBody()
	if err != nil {
		return nil, err
	}
	next.Body = body
	return next, nil
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
