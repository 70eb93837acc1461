package collector

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
)

// Fetch error taxonomy. A *FetchError always wraps exactly one of these.
var (
	ErrTransport = errors.New("transport error") // connect, timeout, TLS
	ErrProtocol  = errors.New("protocol error")  // non-2xx status, malformed JSON
	ErrShape     = errors.New("shape error")     // expected field absent or not numeric
)

// FetchError describes a failed upstream call.
type FetchError struct {
	Tag    string
	Kind   error
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: %v (status %d): %v", e.Tag, e.Kind, e.Status, e.Err)
	}
	return fmt.Sprintf("%s: %v: %v", e.Tag, e.Kind, e.Err)
}

func (e *FetchError) Unwrap() []error { return []error{e.Kind, e.Err} }

func transportError(tag string, err error) error {
	return &FetchError{Tag: tag, Kind: ErrTransport, Err: redactError(err)}
}

func protocolError(tag string, status int, err error) error {
	return &FetchError{Tag: tag, Kind: ErrProtocol, Status: status, Err: err}
}

func shapeError(tag string, format string, args ...any) error {
	return &FetchError{Tag: tag, Kind: ErrShape, Err: fmt.Errorf(format, args...)}
}

// errCode returns a short code for trace records and metric labels.
func errCode(err error) string {
	if err == nil {
		return ""
	}
	var ne net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.As(err, &ne) && ne.Timeout():
		return "TIMEOUT"
	case errors.Is(err, context.Canceled):
		return "CANCELED"
	case errors.Is(err, ErrTransport):
		return "TRANSPORT"
	case errors.Is(err, ErrProtocol):
		return "PROTOCOL"
	case errors.Is(err, ErrShape):
		return "SHAPE"
	}
	return "UNKNOWN"
}

var secretParams = []string{"api_key", "apikey", "token"}

// redactURL masks credential query parameters.
func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	q := u.Query()
	changed := false
	for _, p := range secretParams {
		if q.Has(p) {
			q.Set(p, "REDACTED")
			changed = true
		}
	}
	if !changed {
		return raw
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// redactError strips credentials from *url.Error, which embeds the request URL.
func redactError(err error) error {
	var ue *url.Error
	if errors.As(err, &ue) {
		return &url.Error{Op: ue.Op, URL: redactURL(ue.URL), Err: ue.Err}
	}
	return err
}
