package model

// Listing sort modes recognized by the channel lister. Anything else is
// passed through as-is and leaves the listing URL unmodified.
const (
	SortRecency    = "recency"
	SortPopularity = "popularity"
)

func IsKnownSortMode(mode string) bool {
	switch mode {
	case SortRecency, SortPopularity:
		return true
	default:
		return false
	}
}
