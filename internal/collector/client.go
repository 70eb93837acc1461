package collector

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"MacroSentinel/internal/model"

	"github.com/rs/zerolog"
)

const (
	DefaultUserAgent      = "MacroRiskDashboard/1.0"
	DefaultConnectTimeout = 3 * time.Second
	DefaultTimeout        = 5 * time.Second

	maxBodyBytes = 4 << 20
)

// FetchObserver receives the outcome of every upstream call.
type FetchObserver interface {
	ObserveFetch(tag, outcome string, elapsed time.Duration)
}

// ClientConfig configures the outbound HTTP client.
type ClientConfig struct {
	ConnectTimeout time.Duration
	Timeout        time.Duration
	UserAgent      string
	Proxy          string
}

// Client performs single-attempt JSON GETs against upstream providers.
type Client struct {
	HTTP      *http.Client
	UserAgent string
	Observer  FetchObserver
	lg        zerolog.Logger
}

// NewClient builds a client that dials IPv4 only, verifies TLS and enforces
// separate connect and total timeouts.
func NewClient(cfg ClientConfig, lg zerolog.Logger) *Client {
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = DefaultConnectTimeout
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}

	dialer := &net.Dialer{Timeout: cfg.ConnectTimeout}
	transport := &http.Transport{
		DialContext: func(ctx context.Context, _, addr string) (net.Conn, error) {
			return dialer.DialContext(ctx, "tcp4", addr)
		},
		TLSClientConfig:     &tls.Config{MinVersion: tls.VersionTLS12},
		TLSHandshakeTimeout: cfg.ConnectTimeout,
		ForceAttemptHTTP2:   true,
		MaxIdleConnsPerHost: 8,
		IdleConnTimeout:     90 * time.Second,
	}
	lg = lg.With().Str("module", "collector").Logger()
	if cfg.Proxy != "" {
		if u, err := url.Parse(cfg.Proxy); err == nil {
			transport.Proxy = http.ProxyURL(u)
		} else {
			// the raw value may carry credentials
			lg.Warn().Err(errors.Unwrap(err)).Msg("ignoring unparsable proxy, connecting directly")
		}
	}

	return &Client{
		HTTP: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport,
		},
		UserAgent: cfg.UserAgent,
		lg:        lg,
	}
}

// FetchJSON issues one GET and decodes the JSON body into dest.
// There are no retries; any failure is final for this call.
func (c *Client) FetchJSON(ctx context.Context, rawURL, tag string, dest any) (err error) {
	start := time.Now()
	status := 0
	defer func() {
		elapsed := time.Since(start)
		rec := model.TraceRecord{
			Time:       start,
			Tag:        tag,
			HTTPStatus: status,
			LatencyMs:  elapsed.Milliseconds(),
		}
		outcome := "ok"
		if err != nil {
			rec.ErrCode = errCode(err)
			rec.Error = err.Error()
			outcome = rec.ErrCode
		}
		TraceFrom(ctx).Add(rec)
		if c.Observer != nil {
			c.Observer.ObserveFetch(tag, outcome, elapsed)
		}
		c.lg.Debug().Str("tag", tag).Int("http", status).Str("outcome", outcome).
			Int64("ms", rec.LatencyMs).Msg("upstream call")
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return transportError(tag, err)
	}
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return transportError(tag, err)
	}
	defer resp.Body.Close()
	status = resp.StatusCode

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return transportError(tag, fmt.Errorf("read body: %w", err))
	}
	if status < 200 || status >= 300 {
		return protocolError(tag, status, errors.New("unexpected status"))
	}
	if !json.Valid(body) {
		return protocolError(tag, status, errors.New("malformed json"))
	}
	if err := json.Unmarshal(body, dest); err != nil {
		return shapeError(tag, "decode: %v", err)
	}
	return nil
}
