package outbound

import (
	"errors"
	"fmt"
	"net/http"
)

// ProviderError is a non-2xx answer from an upstream media or text provider.
type ProviderError struct {
	StatusCode int
	Message    string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider returned status %d: %s", e.StatusCode, e.Message)
}

// IsNonRetryable reports whether retrying the call is pointless, i.e. the
// provider rejected the request itself (bad key, malformed prompt) rather
// than failing transiently. Timeouts and rate limits stay retryable.
func IsNonRetryable(err error) bool {
	var providerErr *ProviderError
	if !errors.As(err, &providerErr) {
		return false
	}
	code := providerErr.StatusCode
	if code == http.StatusRequestTimeout || code == http.StatusTooManyRequests {
		return false
	}
	return code >= 400 && code < 500
}
