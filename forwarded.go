package edgetrust

import "strings"

// standardForwardedAddr implements the transport layer's standard
// forwarded-address resolution for header-carrying requests: the first for=
// element of an RFC7239 Forwarded header, else the leftmost X-Forwarded-For
// entry, else X-Real-IP, else the peer address itself.
//
// The result is the raw string as supplied by the proxy; the caller parses
// and validates it.
func standardForwardedAddr(headerValue func(name string) string, peerAddr string) string {
	if value := headerValue("Forwarded"); value != "" {
		if addr := firstForwardedFor(value); addr != "" {
			return addr
		}
	}

	if value := headerValue("X-Forwarded-For"); value != "" {
		first, _, _ := strings.Cut(value, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}

	if value := headerValue("X-Real-IP"); value != "" {
		return strings.TrimSpace(value)
	}

	return peerAddr
}

// firstForwardedFor returns the for parameter of the first element in a
// Forwarded header value, with surrounding quotes removed. The parameter
// name is matched case-insensitively; elements without a for parameter
// yield "".
func firstForwardedFor(value string) string {
	element, _, _ := strings.Cut(value, ",")

	for param := range strings.SplitSeq(element, ";") {
		key, paramValue, ok := strings.Cut(param, "=")
		if !ok {
			continue
		}
		if !strings.EqualFold(strings.TrimSpace(key), "for") {
			continue
		}

		paramValue = strings.TrimSpace(paramValue)
		paramValue = trimMatchedChar(paramValue, '"')
		return strings.TrimSpace(paramValue)
	}

	return ""
}
