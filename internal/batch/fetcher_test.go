package batch

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"yt-sub-archiver/internal/archive"
	"yt-sub-archiver/internal/model"
	"yt-sub-archiver/internal/proxy"
)

type fakeEngine struct {
	listing    Listing
	listErr    error
	listCalls  int
	fetchErrs  []error
	fetchCalls []FetchRequest
}

func (e *fakeEngine) ListChannel(req ListRequest) (Listing, error) {
	e.listCalls++
	if e.listErr != nil {
		return Listing{}, e.listErr
	}
	return e.listing, nil
}

func (e *fakeEngine) FetchSubtitles(req FetchRequest) error {
	e.fetchCalls = append(e.fetchCalls, req)
	if len(e.fetchErrs) == 0 {
		return nil
	}
	err := e.fetchErrs[0]
	e.fetchErrs = e.fetchErrs[1:]
	return err
}

func newTestStore(t *testing.T) *archive.Store {
	t.Helper()
	s := archive.NewStore(filepath.Join(t.TempDir(), "archive.txt"))
	if err := s.Ensure(); err != nil {
		t.Fatalf("ensure archive: %v", err)
	}
	return s
}

func TestFetchSkipsArchivedVideoWithoutEngineCall(t *testing.T) {
	store := newTestStore(t)
	if err := store.Record("vid1"); err != nil {
		t.Fatalf("seed archive: %v", err)
	}
	eng := &fakeEngine{}
	f := &Fetcher{
		Engine:     eng,
		Archive:    store,
		MaxRetries: 5,
		Sleep:      func(time.Duration) {},
	}

	res, err := f.Fetch(model.Video{ID: "vid1", Title: "One"}, "tr,en")
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if res.Outcome != model.OutcomeSkipped {
		t.Fatalf("outcome mismatch: got %q want %q", res.Outcome, model.OutcomeSkipped)
	}
	if len(eng.fetchCalls) != 0 {
		t.Fatalf("archived video reached the engine: %d calls", len(eng.fetchCalls))
	}
}

func TestFetchRecordsOnSuccess(t *testing.T) {
	store := newTestStore(t)
	eng := &fakeEngine{}
	f := &Fetcher{
		Engine:     eng,
		Archive:    store,
		MaxRetries: 5,
		Sleep:      func(time.Duration) {},
	}

	res, err := f.Fetch(model.Video{ID: "vid2", URL: "https://www.youtube.com/watch?v=vid2"}, "tr,en")
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if res.Outcome != model.OutcomeDownloaded || res.Attempts != 1 {
		t.Fatalf("unexpected result: %+v", res)
	}
	seen, err := store.Contains("vid2")
	if err != nil {
		t.Fatalf("contains check: %v", err)
	}
	if !seen {
		t.Fatalf("successful fetch was not recorded in archive")
	}
}

func TestFetchRateLimitBackoffWithoutProxies(t *testing.T) {
	store := newTestStore(t)
	rl := errors.New("HTTP Error 429: Too Many Requests")
	eng := &fakeEngine{fetchErrs: []error{rl, rl}}

	var sleeps []time.Duration
	f := &Fetcher{
		Engine:     eng,
		Archive:    store,
		MaxRetries: 5,
		Sleep:      func(d time.Duration) { sleeps = append(sleeps, d) },
	}

	res, err := f.Fetch(model.Video{ID: "vid3"}, "tr,en")
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if res.Outcome != model.OutcomeDownloaded {
		t.Fatalf("expected success after retries, got %+v", res)
	}
	if res.Attempts != 3 {
		t.Fatalf("attempts mismatch: got %d want 3", res.Attempts)
	}
	want := []time.Duration{60 * time.Second, 120 * time.Second}
	if len(sleeps) != len(want) {
		t.Fatalf("sleep count mismatch: got %v want %v", sleeps, want)
	}
	for i := range want {
		if sleeps[i] != want[i] {
			t.Fatalf("sleep %d mismatch: got %s want %s", i, sleeps[i], want[i])
		}
	}
}

func TestFetchRateLimitMarksProxyFailed(t *testing.T) {
	store := newTestStore(t)
	rl := errors.New("429")
	eng := &fakeEngine{fetchErrs: []error{rl}}
	rot := proxy.NewRotator([]string{"http://p1:8080", "http://p2:8080"})

	f := &Fetcher{
		Engine:     eng,
		Archive:    store,
		Proxies:    rot,
		MaxRetries: 5,
		Sleep:      func(time.Duration) {},
	}

	res, err := f.Fetch(model.Video{ID: "vid4"}, "tr,en")
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if res.Outcome != model.OutcomeDownloaded {
		t.Fatalf("expected success, got %+v", res)
	}
	if rot.FailedCount() != 1 {
		t.Fatalf("expected 1 failed proxy, got %d", rot.FailedCount())
	}
	if len(eng.fetchCalls) != 2 {
		t.Fatalf("expected 2 engine calls, got %d", len(eng.fetchCalls))
	}
	if eng.fetchCalls[0].Common.ProxyURL == eng.fetchCalls[1].Common.ProxyURL {
		t.Fatalf("retry reused the failed proxy %q", eng.fetchCalls[0].Common.ProxyURL)
	}
}

func TestFetchExhaustsRetries(t *testing.T) {
	store := newTestStore(t)
	eng := &fakeEngine{fetchErrs: []error{
		errors.New("boom"), errors.New("boom"), errors.New("boom"),
		errors.New("boom"), errors.New("boom"),
	}}

	var sleeps []time.Duration
	f := &Fetcher{
		Engine:     eng,
		Archive:    store,
		MaxRetries: 5,
		Sleep:      func(d time.Duration) { sleeps = append(sleeps, d) },
		RandFloat:  func() float64 { return 0 },
	}

	res, err := f.Fetch(model.Video{ID: "vid5"}, "tr,en")
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if res.Outcome != model.OutcomeFailed {
		t.Fatalf("expected failed outcome, got %+v", res)
	}
	if res.Attempts != 5 {
		t.Fatalf("attempts mismatch: got %d want 5", res.Attempts)
	}
	if len(sleeps) != 4 {
		t.Fatalf("should not sleep after the final attempt: %d sleeps", len(sleeps))
	}
	seen, err := store.Contains("vid5")
	if err != nil {
		t.Fatalf("contains check: %v", err)
	}
	if seen {
		t.Fatalf("failed video must not be archived")
	}
}

func TestBackoffTable(t *testing.T) {
	f := &Fetcher{RandFloat: func() float64 { return 0 }}

	for k := 1; k <= 10; k++ {
		withProxy := f.backoff(failureRateLimited, k, true)
		wantSecs := 5 * k
		if wantSecs > 30 {
			wantSecs = 30
		}
		if withProxy != time.Duration(wantSecs)*time.Second {
			t.Fatalf("proxied backoff for failure %d: got %s want %ds", k, withProxy, wantSecs)
		}

		withoutProxy := f.backoff(failureRateLimited, k, false)
		if withoutProxy != time.Duration(60*k)*time.Second {
			t.Fatalf("direct backoff for failure %d: got %s want %ds", k, withoutProxy, 60*k)
		}
	}

	generic := f.backoff(failureGeneric, 1, false)
	if generic != 2*time.Second {
		t.Fatalf("generic backoff floor mismatch: got %s want 2s", generic)
	}
}

func TestUniformDelaySpansRange(t *testing.T) {
	r := model.DelayRange{Min: 2, Max: 5}
	if got := uniformDelay(r, 0); got != 2*time.Second {
		t.Fatalf("sample 0 should hit the floor: %s", got)
	}
	if got := uniformDelay(r, 1); got != 5*time.Second {
		t.Fatalf("sample 1 should hit the ceiling: %s", got)
	}
	mid := uniformDelay(r, 0.5)
	if mid <= 2*time.Second || mid >= 5*time.Second {
		t.Fatalf("midpoint sample out of range: %s", mid)
	}
}
