package edgetrust

// PresetDirectConnection configures resolution for direct client-to-app
// traffic.
//
// The transport peer address is always the result; headers are never
// consulted.
func PresetDirectConnection() Option {
	return func(c *config) error {
		return applyOptions(c,
			ProxyMode(false),
			OverrideHeader(""),
		)
	}
}

// PresetLoopbackReverseProxy configures resolution for apps behind a reverse
// proxy on the same host (for example NGINX on localhost).
//
// It trusts loopback proxy CIDRs and enables the standard forwarded-address
// fallback.
func PresetLoopbackReverseProxy() Option {
	return func(c *config) error {
		return applyOptions(c,
			TrustLoopbackProxy(),
			ProxyMode(true),
		)
	}
}

// PresetPrivateReverseProxy configures resolution for apps behind a reverse
// proxy in a typical VM or private-network setup.
//
// It trusts loopback and private proxy CIDRs and enables the standard
// forwarded-address fallback.
func PresetPrivateReverseProxy() Option {
	return func(c *config) error {
		return applyOptions(c,
			TrustLoopbackProxy(),
			TrustPrivateProxyRanges(),
			ProxyMode(true),
		)
	}
}
