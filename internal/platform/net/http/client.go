// Package http is the outbound HTTP toolkit source connectors share
package http

import (
	"net/http"
	"net/url"
	"time"

	"marketingetl/internal/platform/logger"
)

// ClientOptions configures NewClient
type ClientOptions struct {
	Timeout   time.Duration // <=0 -> 60s
	UserAgent string
	// Slow marks requests taking >= Slow as warn level, 0 disables slow marking
	Slow time.Duration
	// Transport is the wrapped round tripper, nil for http.DefaultTransport
	Transport http.RoundTripper
}

// NewClient returns a client whose transport logs every exchange
func NewClient(log logger.Logger, o ClientOptions) *http.Client {
	if o.Timeout <= 0 {
		o.Timeout = 60 * time.Second
	}
	return &http.Client{
		Timeout:   o.Timeout,
		Transport: AccessLog(log, o, o.Transport),
	}
}

// AccessLog wraps next with a round tripper that logs method, redacted url,
// status and elapsed time; it also sets the user agent when configured
func AccessLog(log logger.Logger, o ClientOptions, next http.RoundTripper) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	return roundTripFunc(func(r *http.Request) (*http.Response, error) {
		if o.UserAgent != "" && r.Header.Get("User-Agent") == "" {
			r = r.Clone(r.Context())
			r.Header.Set("User-Agent", o.UserAgent)
		}
		start := time.Now()
		resp, err := next.RoundTrip(r)
		elapsed := time.Since(start)

		evt := log.Debug()
		if err != nil {
			evt = log.Warn().Err(err)
		} else if o.Slow > 0 && elapsed >= o.Slow {
			evt = log.Warn()
		}
		if resp != nil {
			evt = evt.Int("status", resp.StatusCode)
		}
		evt.Str("method", r.Method).
			Str("url", Redact(r.URL)).
			Dur("elapsed", elapsed).
			Msg("source request done")
		return resp, err
	})
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

// secretParams are query parameters never written to logs or errors
var secretParams = []string{"access_token", "client_secret", "refresh_token"}

// Redact renders u with secret query parameters masked
func Redact(u *url.URL) string {
	if u == nil {
		return ""
	}
	q := u.Query()
	changed := false
	for _, k := range secretParams {
		if q.Has(k) {
			q.Set(k, "REDACTED")
			changed = true
		}
	}
	if !changed {
		return u.String()
	}
	c := *u
	c.RawQuery = q.Encode()
	return c.String()
}
