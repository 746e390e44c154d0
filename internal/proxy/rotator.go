package proxy

import "strings"

// Rotator cycles through a fixed pool of outbound proxy endpoints
// (scheme://[user:pass@]host:port), skipping endpoints marked failed.
// When every endpoint is failed the failed set resets and rotation
// continues over the full pool. The rotation index is process-local.
type Rotator struct {
	pool   []string
	failed map[string]struct{}
	index  int
}

// NewRotator builds a rotator from raw endpoint strings, trimming
// whitespace and dropping empties and duplicates while preserving
// order. A nil or empty list means direct connections.
func NewRotator(endpoints []string) *Rotator {
	pool := make([]string, 0, len(endpoints))
	seen := make(map[string]bool, len(endpoints))
	for _, e := range endpoints {
		v := strings.TrimSpace(e)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		pool = append(pool, v)
	}
	return &Rotator{
		pool:   pool,
		failed: make(map[string]struct{}),
	}
}

// Next returns the next usable endpoint. ok is false when no proxies
// are configured at all, which callers treat as "connect directly".
func (r *Rotator) Next() (endpoint string, ok bool) {
	if len(r.pool) == 0 {
		return "", false
	}
	live := r.live()
	if len(live) == 0 {
		r.failed = make(map[string]struct{})
		live = r.pool
	}
	r.index = (r.index + 1) % len(live)
	return live[r.index], true
}

// MarkFailed flags an endpoint so rotation skips it. Idempotent;
// unknown endpoints are ignored by live-set computation anyway.
func (r *Rotator) MarkFailed(endpoint string) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return
	}
	r.failed[endpoint] = struct{}{}
}

func (r *Rotator) Size() int {
	return len(r.pool)
}

func (r *Rotator) FailedCount() int {
	n := 0
	for _, p := range r.pool {
		if _, ok := r.failed[p]; ok {
			n++
		}
	}
	return n
}

func (r *Rotator) live() []string {
	out := make([]string, 0, len(r.pool))
	for _, p := range r.pool {
		if _, bad := r.failed[p]; bad {
			continue
		}
		out = append(out, p)
	}
	return out
}
