package balance

import "fmt"

// HTTPError represents a non-200 response from the balance store.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("balance: HTTP %d: %s", e.StatusCode, e.Body)
}

// IsRetryable returns true for rate limits and server errors.
func (e *HTTPError) IsRetryable() bool {
	return e.StatusCode == 429 || e.StatusCode >= 500
}
