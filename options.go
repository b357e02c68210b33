package edgetrust

import (
	"fmt"
	"net/netip"
	"strings"
)

// TrustedProxies adds trusted proxy ranges from a multi-line configuration
// value, one entry per line (CIDR, bare address, or start-end range).
//
// Blank lines are ignored. Malformed lines are logged at error level and
// excluded from the list; they never fail resolver construction. This is the
// lenient configuration-facing form; use TrustProxyPrefixes or ParseCIDRs
// when malformed input should be a hard error.
func TrustedProxies(raw string) Option {
	return func(c *config) error {
		if strings.TrimSpace(raw) == "" {
			return nil
		}

		c.trustedProxyRaw = append(c.trustedProxyRaw, raw)
		return nil
	}
}

// TrustProxyPrefixes adds trusted proxy network prefixes.
func TrustProxyPrefixes(prefixes ...netip.Prefix) Option {
	prefixes = clonePrefixes(prefixes)

	return func(c *config) error {
		normalized, err := normalizeTrustedProxyPrefixes(prefixes)
		if err != nil {
			return err
		}

		appendTrustedProxyCIDRs(c, normalized...)
		return nil
	}
}

// TrustProxyAddrs adds trusted upstream proxy host addresses.
func TrustProxyAddrs(addrs ...netip.Addr) Option {
	addrs = cloneAddrs(addrs)

	return func(c *config) error {
		prefixes := make([]netip.Prefix, 0, len(addrs))
		for _, addr := range addrs {
			if !addr.IsValid() {
				return fmt.Errorf("invalid proxy address %q", addr)
			}

			addr = normalizeIP(addr)
			prefixes = append(prefixes, netip.PrefixFrom(addr, addr.BitLen()))
		}

		appendTrustedProxyCIDRs(c, prefixes...)
		return nil
	}
}

// TrustLoopbackProxy adds loopback CIDRs to trusted proxy ranges.
func TrustLoopbackProxy() Option {
	return func(c *config) error {
		appendTrustedProxyCIDRs(c, loopbackProxyCIDRs...)
		return nil
	}
}

// TrustPrivateProxyRanges adds private network CIDRs to trusted proxy ranges.
func TrustPrivateProxyRanges() Option {
	return func(c *config) error {
		appendTrustedProxyCIDRs(c, privateProxyCIDRs...)
		return nil
	}
}

// OverrideHeader sets the custom header whose value, when present and
// parsable as an IP address, overrides the resolved client IP.
//
// The override only takes effect when the transport peer is a trusted
// proxy; an untrusted peer supplying the header causes rejection. A
// configured header that is absent or unparsable falls through to the next
// resolution strategy. Empty disables the override.
func OverrideHeader(name string) Option {
	name = strings.TrimSpace(name)

	return func(c *config) error {
		if err := validateHeaderName(name); err != nil {
			return err
		}

		c.overrideHeader = name
		return nil
	}
}

// ProxyMode selects the standard forwarded-address fallback: when enabled
// and no override header fired, a trusted peer's request resolves via the
// transport's Forwarded / X-Forwarded-For / X-Real-IP mechanism.
func ProxyMode(enabled bool) Option {
	return func(c *config) error {
		c.proxyMode = enabled
		return nil
	}
}

// WithLogger sets the logger implementation used for diagnostics.
func WithLogger(logger Logger) Option {
	return func(c *config) error {
		c.logger = logger
		return nil
	}
}

// WithMetrics sets a concrete metrics implementation.
//
// If previously configured, a metrics factory is disabled.
func WithMetrics(metrics Metrics) Option {
	return func(c *config) error {
		c.metrics = metrics
		c.metricsFactory = nil
		c.useMetricsFactory = false
		return nil
	}
}

// WithMetricsFactory configures a lazy metrics constructor.
//
// The factory is invoked once, after option validation succeeds.
func WithMetricsFactory(factory func() (Metrics, error)) Option {
	return func(c *config) error {
		if factory == nil {
			return fmt.Errorf("metrics factory cannot be nil")
		}

		c.metricsFactory = factory
		c.useMetricsFactory = true
		return nil
	}
}
