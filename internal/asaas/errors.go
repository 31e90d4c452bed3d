package asaas

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingToken means no API token is configured.
	ErrMissingToken = errors.New("asaas_token_missing")
	// ErrUnreachable means the provider gave no response at all.
	ErrUnreachable = errors.New("asaas_unreachable")
)

// UpstreamError carries the provider's error status and body verbatim.
type UpstreamError struct {
	StatusCode int
	Body       []byte
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("asaas upstream error: status %d", e.StatusCode)
}

// AsUpstreamError unwraps err into an UpstreamError when possible.
func AsUpstreamError(err error) (*UpstreamError, bool) {
	var upstream *UpstreamError
	if errors.As(err, &upstream) {
		return upstream, true
	}
	return nil, false
}
