package model

// Per-video fetch outcomes tallied into channel summaries.
const (
	OutcomeDownloaded = "downloaded"
	OutcomeSkipped    = "skipped"
	OutcomeFailed     = "failed"
)

// ChannelSummary covers one channel-processing pass.
type ChannelSummary struct {
	Channel      string `json:"channel"`
	Total        int    `json:"total"`
	Successful   int    `json:"successful"`
	Skipped      int    `json:"skipped"`
	Failed       int    `json:"failed"`
	ListingError string `json:"listing_error,omitempty"`
}

func (s *ChannelSummary) Tally(outcome string) {
	switch outcome {
	case OutcomeDownloaded:
		s.Successful++
	case OutcomeSkipped:
		s.Skipped++
	case OutcomeFailed:
		s.Failed++
	}
}

// BatchSummary aggregates channel summaries across one invocation.
type BatchSummary struct {
	Channels   int              `json:"channels"`
	Total      int              `json:"total"`
	Successful int              `json:"successful"`
	Skipped    int              `json:"skipped"`
	Failed     int              `json:"failed"`
	Reports    []ChannelSummary `json:"reports"`
}

func (b *BatchSummary) Add(s ChannelSummary) {
	b.Channels++
	b.Total += s.Total
	b.Successful += s.Successful
	b.Skipped += s.Skipped
	b.Failed += s.Failed
	b.Reports = append(b.Reports, s)
}
