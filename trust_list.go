package edgetrust

import (
	"fmt"
	"net/netip"
	"strings"

	"go4.org/netipx"
)

// trustListIssue records one skipped line from a multi-line trusted-proxy
// configuration value.
type trustListIssue struct {
	entry string
	err   error
}

// parseTrustList parses a multi-line trusted-proxy configuration value, one
// entry per line. Blank lines are ignored. Malformed entries are collected
// as issues and excluded from the result; they never abort construction of
// the rest of the list.
func parseTrustList(raw string) (prefixes []netip.Prefix, skipped []trustListIssue) {
	for line := range strings.Lines(raw) {
		entry := strings.TrimSpace(line)
		if entry == "" {
			continue
		}

		parsed, err := parseTrustEntry(entry)
		if err != nil {
			skipped = append(skipped, trustListIssue{entry: entry, err: err})
			continue
		}

		prefixes = append(prefixes, parsed...)
	}

	return prefixes, skipped
}

// parseTrustEntry parses a single trusted-proxy entry. Supported forms:
//   - CIDR: "192.168.100.0/24"
//   - Bare address: "172.16.0.1" (single-address prefix)
//   - Explicit range: "10.0.0.5-10.0.0.9" (expanded to covering prefixes)
func parseTrustEntry(entry string) ([]netip.Prefix, error) {
	// netipx silently drops IPv6 zone IDs, which would make zone-scoped
	// entries match nothing. Reject them up front; '%' only ever appears as
	// the zone separator in address strings.
	if strings.Contains(entry, "%") {
		return nil, fmt.Errorf("IPv6 zone ID is not supported in trusted proxy entry %q", entry)
	}

	if strings.Contains(entry, "/") {
		prefix, err := netip.ParsePrefix(entry)
		if err != nil {
			return nil, fmt.Errorf("invalid CIDR %q: %w", entry, err)
		}
		return []netip.Prefix{prefix.Masked()}, nil
	}

	if idx := strings.IndexByte(entry, '-'); idx >= 0 {
		return parseTrustRange(entry, idx)
	}

	addr, err := netip.ParseAddr(entry)
	if err != nil {
		return nil, fmt.Errorf("invalid address %q: %w", entry, err)
	}

	addr = normalizeIP(addr)
	return []netip.Prefix{netip.PrefixFrom(addr, addr.BitLen())}, nil
}

func parseTrustRange(entry string, idx int) ([]netip.Prefix, error) {
	from, fromErr := netip.ParseAddr(strings.TrimSpace(entry[:idx]))
	to, toErr := netip.ParseAddr(strings.TrimSpace(entry[idx+1:]))
	if fromErr != nil {
		return nil, fmt.Errorf("invalid range start in %q: %w", entry, fromErr)
	}
	if toErr != nil {
		return nil, fmt.Errorf("invalid range end in %q: %w", entry, toErr)
	}

	ipRange := netipx.IPRangeFrom(from, to)
	if !ipRange.IsValid() {
		return nil, fmt.Errorf("invalid range %q", entry)
	}

	return ipRange.Prefixes(), nil
}
