package stream

import "errors"

var (
	ErrInvalidNetworkType      = errors.New("network type mismatch")
	ErrInvalidSecurityType     = errors.New("security type mismatch")
	ErrMissingSNI              = errors.New("missing sni")
	ErrInvalidFingerprint      = errors.New("unknown tls fingerprint")
	ErrMissingRealityPublicKey = errors.New("missing reality public key")
)
