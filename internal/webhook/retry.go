package webhook

import (
	"math"
	"math/rand/v2"
	"net/http"
	"time"
)

// calculateBackoff returns initialDelay * multiplier^(attempt-1), capped at
// MaxDelay, with ±10% jitter
func calculateBackoff(attempt int, config *RetryConfig) time.Duration {
	if attempt <= 0 {
		return 0
	}

	delay := float64(config.InitialDelay) * math.Pow(config.Multiplier, float64(attempt-1))
	if config.MaxDelay > 0 && delay > float64(config.MaxDelay) {
		delay = float64(config.MaxDelay)
	}

	jitter := delay * 0.1
	delay += (rand.Float64()*2 - 1) * jitter

	return time.Duration(delay)
}

// isRetryableStatus checks if an HTTP status code should trigger a retry
func isRetryableStatus(code int) bool {
	switch code {
	case http.StatusRequestTimeout,
		http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}
