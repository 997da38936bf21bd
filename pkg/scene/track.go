package scene

// Track holds a sequence of items. Order is a stable integer; higher Order
// renders first/behind — tracks are sorted descending by Order for
// bottom-to-top compositing.
type Track struct {
	ID      string         `json:"id"`
	Order   int            `json:"order"`
	Visible bool           `json:"visible"`
	Muted   bool           `json:"muted"`
	Items   []TimelineItem `json:"items"`
}

// SortTracksDescending returns a copy of tracks ordered so index 0 renders
// first/behind and the last index renders last/on top.
func SortTracksDescending(tracks []Track) []Track {
	sorted := make([]Track, len(tracks))
	copy(sorted, tracks)
	// Insertion sort: track counts are small (dozens, not thousands) and a
	// stable, allocation-free sort keeps ties in their original order.
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && sorted[j-1].Order < sorted[j].Order; j-- {
			sorted[j-1], sorted[j] = sorted[j], sorted[j-1]
		}
	}
	return sorted
}
