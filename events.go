package edgetrust

const (
	securityEventUntrustedProxy          = "untrusted_proxy"
	securityEventMissingPeerAddr         = "missing_peer_addr"
	securityEventMalformedPeerAddr       = "malformed_peer_addr"
	securityEventMalformedForwardedAddr  = "malformed_forwarded_addr"
	securityEventMalformedOverrideHeader = "malformed_override_header"
	securityEventSkippedTrustEntry       = "skipped_trust_entry"
)
