package batch

import (
	"errors"
	"strings"
	"testing"
	"time"

	"yt-sub-archiver/internal/model"
)

func TestProcessChannelMixedOutcomes(t *testing.T) {
	store := newTestStore(t)
	if err := store.Record("already"); err != nil {
		t.Fatalf("seed archive: %v", err)
	}

	boom := errors.New("video unavailable")
	eng := &fakeEngine{
		listing: Listing{
			ChannelTitle: "Demo",
			Videos: []model.Video{
				{ID: "fresh", Title: "Fresh"},
				{ID: "already", Title: "Seen"},
				{ID: "broken", Title: "Broken"},
			},
		},
		// "fresh" succeeds immediately; "broken" fails every attempt.
		fetchErrs: nil,
	}
	failing := &routingEngine{inner: eng, failIDs: map[string]error{"broken": boom}}

	var out strings.Builder
	o := &Orchestrator{
		Engine:  failing,
		Archive: store,
		Config: RunConfig{
			MaxRetries: 2,
			VideoDelay: model.DelayRange{Min: 0, Max: 0},
		},
		Out:       &out,
		Sleep:     func(time.Duration) {},
		RandFloat: func() float64 { return 0 },
	}

	summary, err := o.ProcessChannel(ChannelJob{Name: "demo", Identifier: "@demo", MaxVideos: 30, SubLangs: "tr,en"})
	if err != nil {
		t.Fatalf("process channel failed: %v", err)
	}
	if summary.Total != 3 {
		t.Fatalf("total mismatch: got %d want 3", summary.Total)
	}
	if summary.Successful != 1 || summary.Skipped != 1 || summary.Failed != 1 {
		t.Fatalf("unexpected tallies: %+v", summary)
	}
	if summary.ListingError != "" {
		t.Fatalf("unexpected listing error: %q", summary.ListingError)
	}
}

func TestProcessChannelListingFailure(t *testing.T) {
	store := newTestStore(t)
	eng := &fakeEngine{listErr: errors.New("channel not found")}

	var out strings.Builder
	o := &Orchestrator{
		Engine:    eng,
		Archive:   store,
		Config:    RunConfig{MaxRetries: 5},
		Out:       &out,
		Sleep:     func(time.Duration) {},
		RandFloat: func() float64 { return 0 },
	}

	summary, err := o.ProcessChannel(ChannelJob{Name: "missing", Identifier: "@missing"})
	if err != nil {
		t.Fatalf("listing failure must not abort the batch: %v", err)
	}
	if summary.ListingError == "" {
		t.Fatalf("expected listing error on summary")
	}
	if summary.Total != 0 {
		t.Fatalf("failed listing should contribute zero videos, got %d", summary.Total)
	}
	if !strings.Contains(out.String(), "warning:") {
		t.Fatalf("expected a warning line, got %q", out.String())
	}
}

func TestProcessChannelsDelaysBetweenNotAfter(t *testing.T) {
	store := newTestStore(t)
	eng := &fakeEngine{
		listing: Listing{Videos: []model.Video{
			{ID: "a1", Title: "A1"},
			{ID: "a2", Title: "A2"},
		}},
	}

	var sleeps []time.Duration
	o := &Orchestrator{
		Engine:  eng,
		Archive: store,
		Config: RunConfig{
			MaxRetries:   5,
			VideoDelay:   model.DelayRange{Min: 2, Max: 2},
			ChannelDelay: model.DelayRange{Min: 7, Max: 7},
		},
		Sleep:     func(d time.Duration) { sleeps = append(sleeps, d) },
		RandFloat: func() float64 { return 0 },
	}

	// Both channels list the same two videos. The second channel skips
	// them via the archive, so all sleeps are pacing delays.
	batch, err := o.ProcessChannels([]ChannelJob{
		{Name: "one", Identifier: "@one"},
		{Name: "two", Identifier: "@two"},
	})
	if err != nil {
		t.Fatalf("process channels failed: %v", err)
	}
	if batch.Channels != 2 || batch.Total != 4 {
		t.Fatalf("aggregate mismatch: %+v", batch)
	}
	if batch.Successful != 2 || batch.Skipped != 2 {
		t.Fatalf("unexpected outcomes: %+v", batch)
	}

	want := []time.Duration{2 * time.Second, 7 * time.Second, 2 * time.Second}
	if len(sleeps) != len(want) {
		t.Fatalf("sleep sequence mismatch: got %v want %v", sleeps, want)
	}
	for i := range want {
		if sleeps[i] != want[i] {
			t.Fatalf("sleep %d mismatch: got %s want %s", i, sleeps[i], want[i])
		}
	}
	if len(batch.Reports) != 2 {
		t.Fatalf("expected 2 channel reports, got %d", len(batch.Reports))
	}
}

// routingEngine fails specific video IDs and delegates the rest.
type routingEngine struct {
	inner   Engine
	failIDs map[string]error
}

func (e *routingEngine) ListChannel(req ListRequest) (Listing, error) {
	return e.inner.ListChannel(req)
}

func (e *routingEngine) FetchSubtitles(req FetchRequest) error {
	if err, ok := e.failIDs[req.Video.ID]; ok {
		return err
	}
	return e.inner.FetchSubtitles(req)
}
