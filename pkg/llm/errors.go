package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
)

var (
	// ErrProviderTimeout marks a call that exceeded its wall-clock budget.
	ErrProviderTimeout = errors.New("provider timed out")

	// ErrProviderRejected marks a call refused by the backend itself
	// (bad credential, quota exhausted, rate limit).
	ErrProviderRejected = errors.New("provider rejected request")

	// ErrAllProvidersUnavailable is the only provider-level failure that
	// escapes the gateway. Callers never see individual provider errors.
	ErrAllProvidersUnavailable = errors.New("all generation providers unavailable")
)

// ClassifyHTTPError wraps a non-2xx provider response into the taxonomy.
func ClassifyHTTPError(provider string, status int, body string) error {
	switch status {
	case 401, 403, 429:
		return fmt.Errorf("%w: %s status %d: %s", ErrProviderRejected, provider, status, body)
	default:
		return fmt.Errorf("%s error: status %d, body: %s", provider, status, body)
	}
}

// ClassifyTransportError wraps a transport-level failure into the taxonomy.
func ClassifyTransportError(provider string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s: %v", ErrProviderTimeout, provider, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %s: %v", ErrProviderTimeout, provider, err)
	}
	return fmt.Errorf("%s request failed: %w", provider, err)
}
