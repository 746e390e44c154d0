package batch

import (
	"errors"
	"testing"
)

func TestClassifyFailure(t *testing.T) {
	cases := []struct {
		msg  string
		want string
	}{
		{"HTTP Error 429: Too Many Requests", failureRateLimited},
		{"ERROR: unable to download: rate limit reached", failureRateLimited},
		{"request was throttled upstream", failureRateLimited},
		{"TOO MANY REQUESTS", failureRateLimited},
		{"network is unreachable", failureGeneric},
		{"ERROR: video unavailable", failureGeneric},
	}
	for _, tc := range cases {
		if got := classifyFailure(errors.New(tc.msg)); got != tc.want {
			t.Fatalf("classifyFailure(%q) = %q, want %q", tc.msg, got, tc.want)
		}
	}
	if got := classifyFailure(nil); got != failureGeneric {
		t.Fatalf("nil error should classify as generic, got %q", got)
	}
}
