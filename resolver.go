package edgetrust

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/netip"
)

const (
	// SourceOverrideHeader resolves from the configured override header,
	// supplied by a trusted proxy.
	SourceOverrideHeader = "override_header"
	// SourceProxyForwarded resolves from the transport's standard
	// forwarded-address mechanism, supplied by a trusted proxy.
	SourceProxyForwarded = "proxy_forwarded"
	// SourcePeerAddr resolves from the raw transport peer address.
	SourcePeerAddr = "peer_addr"
)

// Resolver decides the authoritative client IP for inbound requests.
//
// Resolver instances are safe for concurrent reuse.
type Resolver struct {
	config *config
}

// New creates a Resolver from one or more Option builders.
func New(opts ...Option) (*Resolver, error) {
	cfg, err := configFromOptions(opts...)
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &Resolver{config: cfg}, nil
}

// Resolve decides the client IP for the request.
func (r *Resolver) Resolve(req *http.Request) (Resolution, error) {
	ctx := requestContext(req)
	if req == nil {
		req = &http.Request{}
	}

	return r.ResolveInfo(ctx, httpRequestInfo{r: req})
}

// ResolveAddr resolves only the client IP address.
func (r *Resolver) ResolveAddr(req *http.Request) (netip.Addr, error) {
	resolution, err := r.Resolve(req)
	if err != nil {
		return netip.Addr{}, err
	}

	return resolution.IP, nil
}

// ResolveFrom decides the client IP from framework-agnostic request input.
func (r *Resolver) ResolveFrom(input RequestInput) (Resolution, error) {
	ctx := input.Context
	if ctx == nil {
		ctx = context.Background()
	}

	return r.ResolveInfo(ctx, inputRequestInfo{input: input})
}

// ResolveAddrFrom resolves only the client IP address from
// framework-agnostic request input.
func (r *Resolver) ResolveAddrFrom(input RequestInput) (netip.Addr, error) {
	resolution, err := r.ResolveFrom(input)
	if err != nil {
		return netip.Addr{}, err
	}

	return resolution.IP, nil
}

// ResolveInfo decides the client IP for any request representation exposing
// the RequestInfo capabilities.
//
// Exactly one of three strategies produces the result: the configured
// override header (absolute precedence, requires a trusted peer), the
// standard forwarded mechanism (proxy mode only, requires a trusted peer),
// or the raw peer address (no trust check, since nothing is overridden).
func (r *Resolver) ResolveInfo(ctx context.Context, info RequestInfo) (Resolution, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	peerRaw := info.PeerAddr()
	peer, err := parsePeerAddr(peerRaw, SourcePeerAddr)
	if err != nil {
		return Resolution{}, r.rejectPeerAddr(ctx, SourcePeerAddr, peerRaw, err)
	}

	if ip, ok := r.overrideHeaderIP(ctx, info); ok {
		if !r.TrustsProxy(peer) {
			return Resolution{}, r.rejectUntrusted(ctx, SourceOverrideHeader, peer)
		}

		r.config.metrics.RecordResolutionSuccess(SourceOverrideHeader)
		return Resolution{IP: ip, Source: SourceOverrideHeader}, nil
	}

	if r.config.proxyMode {
		if !r.TrustsProxy(peer) {
			return Resolution{}, r.rejectUntrusted(ctx, SourceProxyForwarded, peer)
		}

		forwardedRaw := info.ForwardedAddr()
		forwarded := parseIP(forwardedRaw)
		if !forwarded.IsValid() {
			r.config.metrics.RecordSecurityEvent(securityEventMalformedForwardedAddr)
			r.config.metrics.RecordResolutionFailure(SourceProxyForwarded)
			r.config.logger.ErrorContext(ctx, "cannot parse forwarded address",
				"source", SourceProxyForwarded,
				"forwarded_addr", forwardedRaw,
			)

			return Resolution{}, &PeerAddrError{
				ResolutionError: ResolutionError{Err: ErrMalformedPeerAddress, Source: SourceProxyForwarded},
				PeerAddr:        forwardedRaw,
			}
		}

		r.config.metrics.RecordResolutionSuccess(SourceProxyForwarded)
		return Resolution{IP: normalizeIP(forwarded), Source: SourceProxyForwarded}, nil
	}

	r.config.metrics.RecordResolutionSuccess(SourcePeerAddr)
	return Resolution{IP: peer, Source: SourcePeerAddr}, nil
}

// TrustsProxy reports whether ip falls within at least one configured
// trusted-proxy range.
func (r *Resolver) TrustsProxy(ip netip.Addr) bool {
	if !ip.IsValid() {
		return false
	}

	ip = normalizeIP(ip)
	if r.config.trustedProxyMatch.initialized {
		return r.config.trustedProxyMatch.contains(ip)
	}

	for _, prefix := range r.config.trustedProxyPrefixes {
		if prefix.Contains(ip) {
			return true
		}
	}

	return false
}

// ResolveWithOptions is a one-shot convenience helper.
//
// It constructs a temporary resolver from opts and decides the client IP for
// req.
func ResolveWithOptions(req *http.Request, opts ...Option) (Resolution, error) {
	resolver, err := New(opts...)
	if err != nil {
		return Resolution{}, err
	}

	return resolver.Resolve(req)
}

// ResolveAddrWithOptions is a one-shot convenience helper.
//
// It constructs a temporary resolver from opts and resolves only the client
// IP address for req.
func ResolveAddrWithOptions(req *http.Request, opts ...Option) (netip.Addr, error) {
	resolver, err := New(opts...)
	if err != nil {
		return netip.Addr{}, err
	}

	return resolver.ResolveAddr(req)
}

// parsePeerAddr parses a transport-supplied address string into a normalized
// netip.Addr, distinguishing a missing address from an unparsable one.
func parsePeerAddr(raw, source string) (netip.Addr, error) {
	if raw == "" {
		return netip.Addr{}, &PeerAddrError{
			ResolutionError: ResolutionError{Err: ErrMissingPeerAddress, Source: source},
		}
	}

	ip := parseIP(raw)
	if !ip.IsValid() {
		return netip.Addr{}, &PeerAddrError{
			ResolutionError: ResolutionError{Err: ErrMalformedPeerAddress, Source: source},
			PeerAddr:        raw,
		}
	}

	return normalizeIP(ip), nil
}

// overrideHeaderIP reads the configured override header from the request.
//
// A configured header that is absent or carries an unparsable value falls
// through to the next resolution strategy rather than rejecting; an
// unparsable value is diagnosed at error level, absence at debug level only.
func (r *Resolver) overrideHeaderIP(ctx context.Context, info RequestInfo) (netip.Addr, bool) {
	headerName := r.config.overrideHeader
	if headerName == "" {
		return netip.Addr{}, false
	}

	value := info.HeaderValue(headerName)
	if value != "" {
		if ip := parseIP(value); ip.IsValid() {
			return normalizeIP(ip), true
		}

		r.config.metrics.RecordSecurityEvent(securityEventMalformedOverrideHeader)
		r.config.logger.ErrorContext(ctx, "cannot parse IP from override header",
			"header", headerName,
			"value", value,
		)
	}

	r.config.logger.DebugContext(ctx, "no client IP from override header",
		"header", headerName,
	)
	return netip.Addr{}, false
}

func (r *Resolver) rejectPeerAddr(ctx context.Context, source, raw string, err error) error {
	event := securityEventMalformedPeerAddr
	msg := "cannot parse peer address"
	if errors.Is(err, ErrMissingPeerAddress) {
		event = securityEventMissingPeerAddr
		msg = "no peer address in connection metadata"
	}

	r.config.metrics.RecordSecurityEvent(event)
	r.config.metrics.RecordResolutionFailure(source)
	r.config.logger.ErrorContext(ctx, msg,
		"source", source,
		"peer_addr", raw,
	)

	return err
}

func (r *Resolver) rejectUntrusted(ctx context.Context, source string, peer netip.Addr) error {
	r.config.metrics.RecordSecurityEvent(securityEventUntrustedProxy)
	r.config.metrics.RecordResolutionFailure(source)
	r.config.logger.ErrorContext(ctx, "request from IP which is not a trusted proxy",
		"source", source,
		"peer", peer.String(),
	)

	return &UntrustedProxyError{
		ResolutionError: ResolutionError{Err: ErrUntrustedProxy, Source: source},
		Peer:            peer,
	}
}

func requestContext(req *http.Request) context.Context {
	if req == nil {
		return context.Background()
	}

	return req.Context()
}
