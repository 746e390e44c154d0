package batch

import "strings"

const (
	failureRateLimited = "rate_limited"
	failureGeneric     = "generic"
)

var rateLimitMarkers = []string{
	"429",
	"too many requests",
	"throttl",
	"rate limit",
}

// classifyFailure tags a fetch error so retry backoff can distinguish
// rate limiting from ordinary failures. Matching is on the error text
// because the engine surfaces its diagnostics as opaque stderr lines.
func classifyFailure(err error) string {
	if err == nil {
		return failureGeneric
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range rateLimitMarkers {
		if strings.Contains(msg, marker) {
			return failureRateLimited
		}
	}
	return failureGeneric
}
