package edgetrust

import (
	"errors"
	"fmt"
	"net/netip"
)

var (
	// ErrMissingPeerAddress reports that the transport supplied no peer
	// address at all. Expected only with degenerate or test transports.
	ErrMissingPeerAddress = errors.New("no peer address in connection metadata")

	// ErrMalformedPeerAddress reports a peer or forwarded address that is not
	// a valid IP literal.
	ErrMalformedPeerAddress = errors.New("peer address is not a valid IP")

	// ErrUntrustedProxy reports a peer attempting to override the resolved IP
	// without being in the trusted proxy list.
	ErrUntrustedProxy = errors.New("request from untrusted proxy")

	// ErrMalformedToken reports a token lacking the expected
	// header.body.signature structure.
	ErrMalformedToken = errors.New("invalid or malformed token")

	// ErrMalformedTokenBody reports a token body segment that is not valid
	// URL-safe base64.
	ErrMalformedTokenBody = errors.New("invalid token body")

	// ErrMalformedTokenClaims reports a decoded token body that does not
	// deserialize into the requested claims shape.
	ErrMalformedTokenClaims = errors.New("invalid token claims")
)

// ResolutionError is the base error type for rejected IP resolutions.
type ResolutionError struct {
	Err    error
	Source string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("%s: %v", e.Source, e.Err)
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}

// SourceName returns the resolution source the error originated from.
func (e *ResolutionError) SourceName() string {
	return e.Source
}

// PeerAddrError reports a missing or unparsable peer or forwarded address.
type PeerAddrError struct {
	ResolutionError
	PeerAddr string
}

func (e *PeerAddrError) Error() string {
	if e.PeerAddr == "" {
		return e.ResolutionError.Error()
	}
	return fmt.Sprintf("%s: %v (peer_addr=%q)", e.Source, e.Err, e.PeerAddr)
}

// UntrustedProxyError reports a peer that attempted to override the client
// address without being in the trusted proxy list.
type UntrustedProxyError struct {
	ResolutionError
	Peer netip.Addr
}

func (e *UntrustedProxyError) Error() string {
	return fmt.Sprintf("%s: %v (peer=%s)", e.Source, e.Err, e.Peer)
}

// TokenError reports a failed unverified claims extraction.
//
// Segment carries the offending token segment and Cause the underlying
// decode or deserialization error, so one logged TokenError contains the
// full diagnostic.
type TokenError struct {
	Err     error
	Segment string
	Cause   error
}

func (e *TokenError) Error() string {
	switch {
	case e.Cause != nil && e.Segment != "":
		return fmt.Sprintf("%v (segment=%q): %v", e.Err, e.Segment, e.Cause)
	case e.Cause != nil:
		return fmt.Sprintf("%v: %v", e.Err, e.Cause)
	default:
		return e.Err.Error()
	}
}

func (e *TokenError) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Err, e.Cause}
	}
	return []error{e.Err}
}

// Resolution is the outcome of a successful client IP resolution.
type Resolution struct {
	// IP is the address selected as authoritative for the request.
	IP netip.Addr

	// Source names where IP came from: SourceOverrideHeader,
	// SourceProxyForwarded, or SourcePeerAddr.
	Source string
}

// Valid reports whether the resolution produced a usable address.
func (r Resolution) Valid() bool {
	return r.IP.IsValid()
}

// ParseCIDRs parses CIDR strings into prefixes, failing on the first
// malformed entry.
//
// For the lenient multi-line configuration form that skips malformed lines,
// use the TrustedProxies option.
func ParseCIDRs(cidrs ...string) ([]netip.Prefix, error) {
	prefixes := make([]netip.Prefix, 0, len(cidrs))
	for _, cidr := range cidrs {
		prefix, err := netip.ParsePrefix(cidr)
		if err != nil {
			return nil, fmt.Errorf("invalid CIDR %q: %w", cidr, err)
		}
		prefixes = append(prefixes, prefix)
	}
	return prefixes, nil
}
