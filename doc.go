// Package edgetrust decides, at the trust boundary of a network service,
// which IP address is the true client address for an inbound request, and
// extracts unverified claims from signed-token envelopes for low-stakes
// inspection.
//
// # Client IP Resolution
//
// A Resolver picks the authoritative client IP from exactly one of three
// places: a configured override header, the transport's standard
// forwarded-address mechanism, or the raw transport peer address. Trust is
// consulted only at the moment a header-supplied value is about to override
// the physically observed peer: a peer outside the trusted-proxy ranges may
// never substitute another address, but is not rejected merely for its
// origin.
//
// Direct connections need no configuration:
//
//	resolver, err := edgetrust.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	res, err := resolver.Resolve(req)
//	if err != nil {
//	    log.Printf("resolve failed: %v", err)
//	    return
//	}
//
//	fmt.Printf("Client IP: %s from %s\n", res.IP, res.Source)
//
// # Behind Reverse Proxy
//
// Trusted proxy ranges come from a multi-line configuration value, one entry
// per line. Entries may be CIDR blocks, bare addresses, or explicit
// start-end ranges; malformed lines are logged and skipped so a single bad
// entry never disables proxy trust entirely:
//
//	resolver, err := edgetrust.New(
//	    edgetrust.TrustedProxies("10.0.0.0/8\n192.168.100.0/24"),
//	    edgetrust.ProxyMode(true),
//	)
//
// An override header takes absolute precedence over the standard forwarded
// mechanism when both could apply:
//
//	resolver, err := edgetrust.New(
//	    edgetrust.TrustLoopbackProxy(),
//	    edgetrust.OverrideHeader("X-Client-IP"),
//	)
//
// # Unverified Claims
//
// UnverifiedClaims decodes the payload segment of a three-part dot-delimited
// token into a caller-chosen type without checking the signature. The result
// carries no claim of authenticity and must never be trusted before the
// signature is verified elsewhere:
//
//	type claims struct {
//	    Subject string `json:"sub"`
//	}
//
//	c, err := edgetrust.UnverifiedClaims[claims](token)
//
// # Observability
//
// The Logger interface mirrors slog's context methods, so *slog.Logger can
// be used directly. Metrics are pluggable; a Prometheus adapter lives in
// github.com/edgekit-go/edgetrust/prometheus:
//
//	resolver, err := edgetrust.New(
//	    edgetrust.TrustedProxies(raw),
//	    edgetrust.ProxyMode(true),
//	    edgetrust.WithLogger(slog.Default()),
//	    edgetrustprom.WithMetrics(),
//	)
//
// # Thread Safety
//
// Resolver instances are safe for concurrent use. The trusted-proxy list is
// built once at construction and is read-only afterward; create the resolver
// at application startup and reuse it across all requests.
package edgetrust
