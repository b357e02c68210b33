package edgetrust

import (
	"errors"
	"fmt"
	"net/netip"
	"testing"
)

func TestNew_InvalidOverrideHeader(t *testing.T) {
	for _, name := range []string{"X Custom", "X:Custom", "X\tCustom"} {
		t.Run(name, func(t *testing.T) {
			if _, err := New(OverrideHeader(name)); err == nil {
				t.Fatalf("New(OverrideHeader(%q)) succeeded, want error", name)
			}
		})
	}
}

func TestNew_OverrideHeaderTrimmed(t *testing.T) {
	resolver := mustNewResolver(t, OverrideHeader("  X-Client-IP  "))

	if got := resolver.config.overrideHeader; got != "X-Client-IP" {
		t.Fatalf("overrideHeader = %q, want trimmed name", got)
	}
}

func TestNew_NilMetricsFactory(t *testing.T) {
	if _, err := New(WithMetricsFactory(nil)); err == nil {
		t.Fatal("New(WithMetricsFactory(nil)) succeeded, want error")
	}
}

func TestNew_MetricsFactoryInvokedOnce(t *testing.T) {
	calls := 0
	metrics := newMockMetrics()

	resolver := mustNewResolver(t, WithMetricsFactory(func() (Metrics, error) {
		calls++
		return metrics, nil
	}))

	if calls != 1 {
		t.Fatalf("factory calls = %d, want 1", calls)
	}
	if resolver.config.metrics != Metrics(metrics) {
		t.Fatal("expected factory result to be installed as the metrics sink")
	}
}

func TestNew_MetricsFactoryError(t *testing.T) {
	factoryErr := fmt.Errorf("registry unavailable")

	_, err := New(WithMetricsFactory(func() (Metrics, error) {
		return nil, factoryErr
	}))
	if !errors.Is(err, factoryErr) {
		t.Fatalf("New() error = %v, want the factory error", err)
	}
}

func TestNew_WithMetricsDisablesFactory(t *testing.T) {
	metrics := newMockMetrics()

	resolver := mustNewResolver(t,
		WithMetricsFactory(func() (Metrics, error) {
			t.Fatal("factory must not run once WithMetrics replaced it")
			return nil, nil
		}),
		WithMetrics(metrics),
	)

	if resolver.config.metrics != Metrics(metrics) {
		t.Fatal("expected explicit metrics to win over the factory")
	}
}

func TestTrustProxyAddrs(t *testing.T) {
	resolver := mustNewResolver(t, TrustProxyAddrs(
		netip.MustParseAddr("10.1.2.3"),
		netip.MustParseAddr("::ffff:192.168.1.1"),
	))

	if !resolver.TrustsProxy(netip.MustParseAddr("10.1.2.3")) {
		t.Fatal("expected exact address to be trusted")
	}
	if resolver.TrustsProxy(netip.MustParseAddr("10.1.2.4")) {
		t.Fatal("expected neighboring address to be untrusted")
	}
	if !resolver.TrustsProxy(netip.MustParseAddr("192.168.1.1")) {
		t.Fatal("expected mapped address to be trusted as plain IPv4")
	}
}

func TestTrustProxyAddrs_InvalidAddr(t *testing.T) {
	if _, err := New(TrustProxyAddrs(netip.Addr{})); err == nil {
		t.Fatal("New(TrustProxyAddrs(zero)) succeeded, want error")
	}
}

func TestTrustProxyPrefixes_Canonicalizes(t *testing.T) {
	resolver := mustNewResolver(t, TrustProxyPrefixes(netip.MustParsePrefix("10.1.2.3/8")))

	if got := resolver.config.trustedProxyPrefixes[0].String(); got != "10.0.0.0/8" {
		t.Fatalf("stored prefix = %s, want masked form", got)
	}
}

func TestTrustedRanges_Deduplicated(t *testing.T) {
	resolver := mustNewResolver(t,
		TrustProxyPrefixes(netip.MustParsePrefix("10.0.0.0/8")),
		TrustProxyPrefixes(netip.MustParsePrefix("10.0.0.0/8")),
		TrustedProxies("10.0.0.0/8"),
	)

	if got := len(resolver.config.trustedProxyPrefixes); got != 1 {
		t.Fatalf("trusted prefixes = %d, want 1 after dedup", got)
	}
}

func TestParseCIDRs(t *testing.T) {
	prefixes := mustParseCIDRs(t, "10.0.0.0/8", "2001:db8::/32")
	if len(prefixes) != 2 {
		t.Fatalf("prefixes = %d, want 2", len(prefixes))
	}

	if _, err := ParseCIDRs("10.0.0.0/8", "bogus"); err == nil {
		t.Fatal("ParseCIDRs with malformed entry succeeded, want error")
	}
}

func TestPresetDirectConnection(t *testing.T) {
	resolver := mustNewResolver(t,
		OverrideHeader("X-Client-IP"),
		ProxyMode(true),
		PresetDirectConnection(),
	)

	if resolver.config.proxyMode {
		t.Fatal("expected proxy mode disabled")
	}
	if resolver.config.overrideHeader != "" {
		t.Fatal("expected override header cleared")
	}

	req := newTestRequest("203.0.113.7:1234")
	req.Header.Set("X-Forwarded-For", "10.0.0.1")

	res, err := resolver.Resolve(req)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if res.Source != SourcePeerAddr {
		t.Fatalf("Source = %s, want %s", res.Source, SourcePeerAddr)
	}
}

func TestPresetLoopbackReverseProxy(t *testing.T) {
	resolver := mustNewResolver(t, PresetLoopbackReverseProxy())

	if !resolver.config.proxyMode {
		t.Fatal("expected proxy mode enabled")
	}
	if !resolver.TrustsProxy(netip.MustParseAddr("127.0.0.1")) {
		t.Fatal("expected loopback IPv4 trusted")
	}
	if !resolver.TrustsProxy(netip.MustParseAddr("::1")) {
		t.Fatal("expected loopback IPv6 trusted")
	}
	if resolver.TrustsProxy(netip.MustParseAddr("10.0.0.1")) {
		t.Fatal("expected private range untrusted")
	}
}

func TestPresetPrivateReverseProxy(t *testing.T) {
	resolver := mustNewResolver(t, PresetPrivateReverseProxy())

	for _, ip := range []string{"127.0.0.1", "::1", "10.1.2.3", "172.16.0.1", "192.168.1.1", "fc00::1"} {
		if !resolver.TrustsProxy(netip.MustParseAddr(ip)) {
			t.Fatalf("expected %s trusted", ip)
		}
	}
	if resolver.TrustsProxy(netip.MustParseAddr("8.8.8.8")) {
		t.Fatal("expected public address untrusted")
	}
}

func TestOptionsDoNotShareState(t *testing.T) {
	first := mustNewResolver(t, TrustLoopbackProxy())
	second := mustNewResolver(t, TrustLoopbackProxy(), TrustPrivateProxyRanges())

	if first.TrustsProxy(netip.MustParseAddr("10.0.0.1")) {
		t.Fatal("expected first resolver unaffected by second resolver's options")
	}
	if !second.TrustsProxy(netip.MustParseAddr("10.0.0.1")) {
		t.Fatal("expected second resolver to trust private ranges")
	}
}
