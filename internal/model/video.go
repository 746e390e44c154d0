package model

// Video is one entry produced by a channel listing. It lives for the
// duration of a single fetch and is never persisted.
type Video struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	URL     string `json:"url"`
	Channel string `json:"channel,omitempty"`
}

// DelayRange is an inclusive-exclusive interval of seconds from which a
// pacing delay is drawn uniformly at random.
type DelayRange struct {
	Min float64 `json:"min" yaml:"min"`
	Max float64 `json:"max" yaml:"max"`
}

func (r DelayRange) IsZero() bool {
	return r.Min == 0 && r.Max == 0
}
