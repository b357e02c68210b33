package edgetrust

import (
	"context"
	"net/http"
)

// RequestInfo is the minimal view of an inbound request the resolver needs:
// the transport-layer peer address, header access, and the transport's
// standard forwarded-address resolution.
//
// Concrete request representations plug in through thin adapters; *http.Request
// is adapted by Resolver.Resolve and framework-agnostic data by
// Resolver.ResolveFrom.
type RequestInfo interface {
	// PeerAddr returns the transport-layer peer address, possibly carrying a
	// port ("10.0.0.1:443"). Empty when the transport supplied none.
	PeerAddr() string

	// HeaderValue returns the first value of the named header, or "" when
	// the header is absent.
	HeaderValue(name string) string

	// ForwardedAddr returns the transport's standard forwarded-address
	// resolution result. Consulted only in proxy mode, after the peer has
	// passed the trust check.
	ForwardedAddr() string
}

// HeaderValues provides access to request header values by name.
//
// Header names are requested in canonical MIME format (for example
// "X-Client-IP").
//
// net/http's http.Header satisfies this interface directly.
type HeaderValues interface {
	Values(name string) []string
}

// HeaderValuesFunc adapts a function to the HeaderValues interface.
type HeaderValuesFunc func(name string) []string

// Values implements HeaderValues.
func (f HeaderValuesFunc) Values(name string) []string {
	if f == nil {
		return nil
	}

	return f(name)
}

// RequestInput provides framework-agnostic request data for resolution.
//
// Context defaults to context.Background() when nil. ForwardedAddr may carry
// the transport's own forwarded-address resolution result; when empty, the
// standard Forwarded / X-Forwarded-For / X-Real-IP walk is applied to
// Headers instead.
type RequestInput struct {
	Context       context.Context
	PeerAddr      string
	Headers       HeaderValues
	ForwardedAddr string
}

type httpRequestInfo struct {
	r *http.Request
}

func (i httpRequestInfo) PeerAddr() string {
	return i.r.RemoteAddr
}

func (i httpRequestInfo) HeaderValue(name string) string {
	if i.r.Header == nil {
		return ""
	}

	return i.r.Header.Get(name)
}

func (i httpRequestInfo) ForwardedAddr() string {
	return standardForwardedAddr(i.HeaderValue, i.r.RemoteAddr)
}

type inputRequestInfo struct {
	input RequestInput
}

func (i inputRequestInfo) PeerAddr() string {
	return i.input.PeerAddr
}

func (i inputRequestInfo) HeaderValue(name string) string {
	if i.input.Headers == nil {
		return ""
	}

	values := i.input.Headers.Values(name)
	if len(values) == 0 {
		return ""
	}

	return values[0]
}

func (i inputRequestInfo) ForwardedAddr() string {
	if i.input.ForwardedAddr != "" {
		return i.input.ForwardedAddr
	}

	return standardForwardedAddr(i.HeaderValue, i.input.PeerAddr)
}
