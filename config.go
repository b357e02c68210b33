package edgetrust

import (
	"context"
	"fmt"
	"net/netip"
	"strings"
)

// Option configures a Resolver.
//
// Construct options using package-provided option builder functions.
type Option func(*config) error

// config holds resolver configuration state.
//
// It is mutated by Option functions during construction and becomes
// read-only once configFromOptions returns; a Resolver never touches it
// again except to read.
type config struct {
	trustedProxyRaw      []string
	trustedProxyPrefixes []netip.Prefix
	trustedProxyMatch    trustMatcher

	overrideHeader string
	proxyMode      bool

	logger  Logger
	metrics Metrics

	metricsFactory    func() (Metrics, error)
	useMetricsFactory bool
}

var (
	// loopbackProxyCIDRs contains loopback networks used when the app sits
	// behind a reverse proxy running on the same host.
	loopbackProxyCIDRs = []netip.Prefix{
		mustParsePrefix("127.0.0.0/8"),
		mustParsePrefix("::1/128"),
	}

	// privateProxyCIDRs contains private-network ranges commonly used for
	// trusted upstream proxies in VM and internal network deployments.
	privateProxyCIDRs = []netip.Prefix{
		mustParsePrefix("10.0.0.0/8"),
		mustParsePrefix("172.16.0.0/12"),
		mustParsePrefix("192.168.0.0/16"),
		mustParsePrefix("fc00::/7"),
	}
)

func mustParsePrefix(cidr string) netip.Prefix {
	prefix, err := netip.ParsePrefix(cidr)
	if err != nil {
		panic(fmt.Sprintf("invalid built-in CIDR %q: %v", cidr, err))
	}
	return prefix
}

func clonePrefixes(prefixes []netip.Prefix) []netip.Prefix {
	if prefixes == nil {
		return nil
	}
	cloned := make([]netip.Prefix, len(prefixes))
	copy(cloned, prefixes)
	return cloned
}

func cloneAddrs(addrs []netip.Addr) []netip.Addr {
	if addrs == nil {
		return nil
	}
	cloned := make([]netip.Addr, len(addrs))
	copy(cloned, addrs)
	return cloned
}

func normalizeTrustedProxyPrefixes(prefixes []netip.Prefix) ([]netip.Prefix, error) {
	normalized := make([]netip.Prefix, 0, len(prefixes))
	for _, prefix := range prefixes {
		if !prefix.IsValid() {
			return nil, fmt.Errorf("invalid trusted proxy prefix %q", prefix)
		}
		normalized = append(normalized, prefix.Masked())
	}

	return normalized, nil
}

func mergeUniquePrefixes(existing []netip.Prefix, additions ...netip.Prefix) []netip.Prefix {
	if len(existing) == 0 && len(additions) == 0 {
		return nil
	}

	merged := make([]netip.Prefix, 0, len(existing)+len(additions))
	seen := make(map[netip.Prefix]struct{}, len(existing)+len(additions))

	for _, prefix := range existing {
		if _, ok := seen[prefix]; ok {
			continue
		}
		seen[prefix] = struct{}{}
		merged = append(merged, prefix)
	}

	for _, prefix := range additions {
		if _, ok := seen[prefix]; ok {
			continue
		}
		seen[prefix] = struct{}{}
		merged = append(merged, prefix)
	}

	return merged
}

func appendTrustedProxyCIDRs(c *config, prefixes ...netip.Prefix) {
	if len(prefixes) == 0 {
		return
	}

	c.trustedProxyPrefixes = mergeUniquePrefixes(c.trustedProxyPrefixes, prefixes...)
}

func defaultConfig() *config {
	return &config{
		proxyMode: false,
		logger:    noopLogger{},
		metrics:   noopMetrics{},
	}
}

func applyOptions(c *config, opts ...Option) error {
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return err
		}
	}

	return nil
}

func configFromOptions(opts ...Option) (*config, error) {
	cfg := defaultConfig()

	if err := applyOptions(cfg, opts...); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	if cfg.useMetricsFactory {
		metrics, err := cfg.metricsFactory()
		if err != nil {
			return nil, err
		}
		cfg.metrics = metrics
	}

	// The raw trust-list blocks are parsed only now, after all options have
	// been applied, so skipped-line diagnostics reach the final configured
	// logger and metrics.
	for _, raw := range cfg.trustedProxyRaw {
		prefixes, skipped := parseTrustList(raw)
		for _, issue := range skipped {
			cfg.metrics.RecordSecurityEvent(securityEventSkippedTrustEntry)
			cfg.logger.ErrorContext(context.Background(), "cannot parse trusted proxy entry",
				"entry", issue.entry,
				"error", issue.err,
			)
		}
		appendTrustedProxyCIDRs(cfg, prefixes...)
	}

	cfg.trustedProxyMatch = buildTrustMatcher(cfg.trustedProxyPrefixes)

	return cfg, nil
}

func (c *config) validate() error {
	if err := validateHeaderName(c.overrideHeader); err != nil {
		return err
	}
	if c.useMetricsFactory && c.metricsFactory == nil {
		return fmt.Errorf("metrics factory cannot be nil")
	}

	return nil
}

// validateHeaderName rejects override header names that could never appear
// on the wire. Empty means "no override header configured" and is valid.
func validateHeaderName(name string) error {
	if name == "" {
		return nil
	}
	if strings.ContainsAny(name, " \t:") {
		return fmt.Errorf("invalid override header name %q", name)
	}

	return nil
}
