// Package rresolve turns an authored composition plus an optional export
// range into the normalized timeline the rest of the pipeline renders from:
// range filtering, transition pruning, split-aware keyframe offset
// resolution, and track ordering.
package rresolve

import (
	"math"
	"sort"

	"github.com/mantonx/reelforge/pkg/scene"
)

// Normalized is the resolver's output: a composition whose item timing
// already reflects any export range, with per-item keyframes pre-shifted
// into the resolved timeline's frame numbering.
type Normalized struct {
	Composition      *scene.Composition
	Keyframes        map[string]*scene.ItemKeyframes
	DurationInFrames int
}

// Normalize runs the resolver's operations in order: range filter,
// transition filter, keyframe processing, track sort.
func Normalize(comp *scene.Composition, rng *scene.Range) (*Normalized, error) {
	if err := comp.Validate(); err != nil {
		return nil, err
	}

	origin := buildOriginGroups(comp)

	working := cloneComposition(comp)
	ioOffsets := make(map[string]int)

	hasRange := rng != nil && rng.HasRange()
	applyRangeFilter(working, rng, hasRange, ioOffsets)
	filterDanglingTransitions(working)

	resolved := resolveKeyframes(comp, working, origin, ioOffsets)

	working.Tracks = scene.SortTracksDescending(working.Tracks)

	duration := computeDuration(working, rng, hasRange)
	working.DurationInFrames = duration

	return &Normalized{Composition: working, Keyframes: resolved, DurationInFrames: duration}, nil
}

// originGroup is the parent clip (if present in the original composition)
// plus every item whose OriginID names it, keyed by the parent's own ID.
type originGroup struct {
	parentID     string
	minSourceStart int
	hasMedia       bool
}

// buildOriginGroups scans the original, pre-range composition so a split
// group's reference source-start stays stable regardless of which clips an
// export range later keeps.
func buildOriginGroups(comp *scene.Composition) map[string]*originGroup {
	groups := make(map[string]*originGroup)

	get := func(id string) *originGroup {
		g, ok := groups[id]
		if !ok {
			g = &originGroup{parentID: id, minSourceStart: math.MaxInt64}
			groups[id] = g
		}
		return g
	}

	considerAll := func(item *scene.TimelineItem, groupKey string) {
		ss, ok := mediaSourceStart(item)
		if !ok {
			return
		}
		g := get(groupKey)
		g.hasMedia = true
		if ss < g.minSourceStart {
			g.minSourceStart = ss
		}
	}

	for ti := range comp.Tracks {
		for ii := range comp.Tracks[ti].Items {
			item := &comp.Tracks[ti].Items[ii]
			if item.OriginID != "" {
				considerAll(item, item.OriginID)
			}
		}
	}
	// Fold the parent's own source start into its group, found by ID.
	byID := comp.ItemByID()
	for parentID, g := range groups {
		if parent, ok := byID[parentID]; ok {
			considerAll(parent, parentID)
		}
		_ = g
	}

	return groups
}

func mediaSourceStart(item *scene.TimelineItem) (int, bool) {
	switch item.Type {
	case scene.ItemVideo:
		if item.Video != nil {
			return item.Video.SourceStart, true
		}
	case scene.ItemAudio:
		if item.Audio != nil {
			return item.Audio.SourceStart, true
		}
	}
	return 0, false
}

func cloneComposition(comp *scene.Composition) *scene.Composition {
	out := *comp
	out.Tracks = make([]scene.Track, len(comp.Tracks))
	for ti, tr := range comp.Tracks {
		nt := tr
		nt.Items = make([]scene.TimelineItem, len(tr.Items))
		copy(nt.Items, tr.Items)
		for ii := range nt.Items {
			normalizeAliases(&nt.Items[ii])
		}
		out.Tracks[ti] = nt
	}
	out.Transitions = make([]scene.Transition, len(comp.Transitions))
	copy(out.Transitions, comp.Transitions)
	out.Keyframes = nil // resolver returns keyframes via its own map, not embedded
	return &out
}

func normalizeAliases(item *scene.TimelineItem) {
	if item.Video != nil {
		item.Video.Normalize()
	}
	if item.Audio != nil {
		item.Audio.Normalize()
	}
}

// applyRangeFilter mutates working in place: items outside
// [inPoint, outPoint) are dropped, kept items are shifted/shortened, and
// video/audio items get their source trim converted from timeline frames to
// source frames via speed.
func applyRangeFilter(working *scene.Composition, rng *scene.Range, hasRange bool, ioOffsets map[string]int) {
	if !hasRange {
		return
	}
	inPoint, outPoint := rng.InPoint, rng.OutPoint

	for ti := range working.Tracks {
		track := &working.Tracks[ti]
		kept := track.Items[:0]
		for _, item := range track.Items {
			from, dur := item.From, item.DurationInFrames
			end := from + dur
			if end <= inPoint || from >= outPoint {
				continue // fully outside the range
			}

			startTrim := 0
			if inPoint > from {
				startTrim = inPoint - from
			}
			endTrim := 0
			if end > outPoint {
				endTrim = end - outPoint
			}
			newDuration := dur - startTrim - endTrim
			if newDuration < 1 {
				continue
			}
			newFrom := from - inPoint
			if newFrom < 0 {
				newFrom = 0
			}

			item.From = newFrom
			item.DurationInFrames = newDuration
			ioOffsets[item.ID] = startTrim

			speed := item.EffectiveSpeed()
			switch item.Type {
			case scene.ItemVideo:
				if item.Video != nil {
					shiftSourceStart(&item.Video.SourceStart, &item.Video.SourceEnd, startTrim, endTrim, speed)
				}
			case scene.ItemAudio:
				if item.Audio != nil {
					shiftSourceStart(&item.Audio.SourceStart, &item.Audio.SourceEnd, startTrim, endTrim, speed)
				}
			}

			kept = append(kept, item)
		}
		track.Items = kept
	}
}

func shiftSourceStart(sourceStart, sourceEnd *int, startTrim, endTrim int, speed float64) {
	startDelta := int(math.Round(float64(startTrim) * speed))
	endDelta := int(math.Round(float64(endTrim) * speed))
	*sourceStart += startDelta
	*sourceEnd -= endDelta
	if *sourceEnd < *sourceStart {
		*sourceEnd = *sourceStart
	}
}

// filterDanglingTransitions drops any transition whose left or right clip
// did not survive the range filter.
func filterDanglingTransitions(working *scene.Composition) {
	present := make(map[string]bool)
	for _, tr := range working.Tracks {
		for _, it := range tr.Items {
			present[it.ID] = true
		}
	}
	kept := working.Transitions[:0]
	for _, tr := range working.Transitions {
		if present[tr.LeftClipID] && present[tr.RightClipID] {
			kept = append(kept, tr)
		}
	}
	working.Transitions = kept
}

// computeDuration returns the range's length when an export range is set,
// otherwise the latest item end clamped to at least one second.
func computeDuration(working *scene.Composition, rng *scene.Range, hasRange bool) int {
	if hasRange {
		return rng.OutPoint - rng.InPoint
	}
	maxEnd := 0
	for _, tr := range working.Tracks {
		for _, it := range tr.Items {
			if end := it.From + it.DurationInFrames; end > maxEnd {
				maxEnd = end
			}
		}
	}
	oneSecond := working.FPS
	if oneSecond < 1 {
		oneSecond = 1
	}
	if maxEnd < oneSecond {
		return oneSecond
	}
	return maxEnd
}

// sortedCopy returns a frame-ascending copy of kfs, defensive against
// out-of-order caller input.
func sortedCopy(kfs []scene.Keyframe) []scene.Keyframe {
	out := make([]scene.Keyframe, len(kfs))
	copy(out, kfs)
	sort.Slice(out, func(i, j int) bool { return out[i].Frame < out[j].Frame })
	return out
}
