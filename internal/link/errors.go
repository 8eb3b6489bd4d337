package link

import "errors"

// Parse failures are reported as wrapped sentinel errors so callers can
// classify them with errors.Is while the message keeps the offending value.
var (
	ErrInvalidURL          = errors.New("malformed share link")
	ErrUnsupportedProtocol = errors.New("unsupported protocol scheme")
	ErrMissingUserID       = errors.New("missing user id")
	ErrMissingHost         = errors.New("missing host")
	ErrInvalidPort         = errors.New("invalid port")
	ErrMissingNetworkType  = errors.New("missing or unknown network type")
	ErrMissingSecurityType = errors.New("missing or unknown security type")
	ErrMissingParameter    = errors.New("missing required parameter")
)
