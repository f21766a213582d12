// Package fetch provides a resilient HTTP fetcher for vendor documentation pages
package fetch

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"time"

	perr "modelwatch/internal/platform/errors"
	"modelwatch/internal/platform/logger"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultUA        = "modelwatch-scrape"
	defaultMaxRetry  = 3
	defaultRetryBase = 500 * time.Millisecond
	defaultMaxBody   = 8 << 20
)

// Options configures the Client
type Options struct {
	UserAgent string
	Timeout   time.Duration

	// Retry config for transient and rate limited responses
	MaxRetries int
	RetryBase  time.Duration

	// MaxBody caps the page size; a larger response is a transport error,
	// never a silently clipped table. Zero means default
	MaxBody int64
}

// Client fetches HTML pages with retries and backoff
type Client struct {
	http  *http.Client
	opts  Options
	log   logger.Logger
	now   func() time.Time
	sleep func(time.Duration)
}

// NewClient creates a new Client with sane defaults
func NewClient(o Options) *Client {
	if o.UserAgent == "" {
		o.UserAgent = defaultUA
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	if o.MaxRetries <= 0 {
		o.MaxRetries = defaultMaxRetry
	}
	if o.RetryBase <= 0 {
		o.RetryBase = defaultRetryBase
	}
	if o.MaxBody <= 0 {
		o.MaxBody = defaultMaxBody
	}
	return &Client{
		http:  &http.Client{Timeout: o.Timeout},
		opts:  o,
		log:   *logger.Named("fetch"),
		now:   time.Now,
		sleep: time.Sleep,
	}
}

// Page fetches url and returns the response body as a string
// transient statuses and transport errors are retried with exponential backoff
func (c *Client) Page(ctx context.Context, url string) (string, error) {
	attempts := 0
	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return "", perr.Wrapf(err, perr.ErrorCodeUnknown, "fetch new request failed")
		}
		req.Header.Set("User-Agent", c.opts.UserAgent)
		req.Header.Set("Accept", "text/html,application/xhtml+xml")

		start := c.now()
		resp, err := c.http.Do(req)
		lat := c.now().Sub(start)

		if err != nil {
			if !c.shouldRetry(attempts) {
				return "", perr.Transportf("fetch %s failed: %v", url, err)
			}
			back := c.backoff(attempts)
			c.log.Warn().Str("url", url).Dur("retry_in", back).Int("attempt", attempts).Msg("fetch transport error retrying")
			c.sleep(back)
			attempts++
			continue
		}

		c.log.Debug().
			Str("url", url).
			Int("status", resp.StatusCode).
			Int("attempt", attempts).
			Dur("latency", lat).
			Msg("fetch http response")

		switch {
		case resp.StatusCode == http.StatusOK:
			// read one byte past the cap so truncation is named instead of
			// surfacing later as a baffling extraction failure
			body, rerr := io.ReadAll(io.LimitReader(resp.Body, c.opts.MaxBody+1))
			cerr := resp.Body.Close()
			if rerr != nil {
				return "", perr.Transportf("fetch %s read body: %v", url, rerr)
			}
			if cerr != nil {
				return "", perr.Transportf("fetch %s close body: %v", url, cerr)
			}
			if int64(len(body)) > c.opts.MaxBody {
				return "", perr.Transportf("fetch %s body exceeds %d byte cap", url, c.opts.MaxBody)
			}
			return string(body), nil

		case resp.StatusCode == http.StatusTooManyRequests,
			resp.StatusCode == http.StatusBadGateway,
			resp.StatusCode == http.StatusServiceUnavailable,
			resp.StatusCode == http.StatusGatewayTimeout:
			wait := retryAfter(resp.Header)
			if wait <= 0 {
				wait = c.backoff(attempts)
			}
			if !c.shouldRetry(attempts) {
				_ = drainAndClose(resp.Body)
				return "", perr.Transportf("fetch %s transient status %d", url, resp.StatusCode)
			}
			c.log.Warn().Str("url", url).Int("status", resp.StatusCode).Dur("sleep", wait).Msg("fetch transient status backing off")
			_ = drainAndClose(resp.Body)
			c.sleep(wait)
			attempts++
			continue

		default:
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
			_ = resp.Body.Close()
			return "", perr.Transportf("fetch %s unexpected status %d body %s", url, resp.StatusCode, string(body))
		}
	}
}

func (c *Client) backoff(attempt int) time.Duration {
	d := c.opts.RetryBase
	// simple exponential with cap
	ms := int64(d / time.Millisecond)
	ms = ms << uint(attempt)
	max := int64(30 * time.Second / time.Millisecond)
	if ms > max {
		ms = max
	}
	return time.Duration(ms) * time.Millisecond
}

func (c *Client) shouldRetry(attempt int) bool {
	return attempt < c.opts.MaxRetries
}

func retryAfter(h http.Header) time.Duration {
	s := h.Get("Retry-After")
	if s == "" {
		return 0
	}
	sec, err := strconv.Atoi(s)
	if err != nil || sec <= 0 {
		return 0
	}
	return time.Duration(sec) * time.Second
}

func drainAndClose(rc io.ReadCloser) error {
	_, _ = io.Copy(io.Discard, io.LimitReader(rc, 512))
	return rc.Close()
}
