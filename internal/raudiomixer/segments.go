package raudiomixer

import (
	"context"

	"github.com/mantonx/reelforge/internal/rerr"
	"github.com/mantonx/reelforge/pkg/scene"
)

// maxSegmentRecursionDepth bounds composition-item recursion while walking
// tracks for audio segments, mirroring the compositor's sub-composition cap.
const maxSegmentRecursionDepth = 8

// SubCompositionResolver loads a sub-composition by ID, the same contract
// the compositor uses for composition items.
type SubCompositionResolver func(ctx context.Context, compositionID string) (*scene.Composition, error)

// Segment is one span of source audio to decode, process, and mix into the
// output buffer.
type Segment struct {
	Src                string
	ItemID             string
	StartFrame         int
	DurationFrames     int
	SourceStartFrame   int
	VolumeDB           float64
	FadeInFrames       int
	FadeOutFrames      int
	UseEqualPowerFades bool
	Speed              float64
	Type               scene.ItemType
	VolumeKeyframes    *scene.PropertyKeyframes
	FPS                int
}

// ExtractSegments walks every track of comp and produces the flat list of
// audio segments to decode and mix: one per non-muted video item's embedded
// audio (expanded into adjoining transition windows), one per non-muted
// audio item, and the recursively-offset segments of every composition
// item's sub-composition.
func ExtractSegments(ctx context.Context, comp *scene.Composition, keyframes map[string]*scene.ItemKeyframes, resolve SubCompositionResolver) ([]Segment, error) {
	return extractSegments(ctx, comp, keyframes, resolve, 0, 0)
}

func extractSegments(ctx context.Context, comp *scene.Composition, keyframes map[string]*scene.ItemKeyframes, resolve SubCompositionResolver, timelineOffset, depth int) ([]Segment, error) {
	if depth > maxSegmentRecursionDepth {
		return nil, rerr.Wrapf(rerr.InputInvalid, "sub-composition nesting exceeds depth %d", maxSegmentRecursionDepth)
	}

	transitionsByItem := indexTransitions(comp)

	var out []Segment
	for ti := range comp.Tracks {
		track := &comp.Tracks[ti]
		if track.Muted {
			continue
		}
		for ii := range track.Items {
			item := &track.Items[ii]
			switch item.Type {
			case scene.ItemVideo:
				if item.Muted || item.Video == nil {
					continue
				}
				seg := videoSegment(comp, item, transitionsByItem[item.ID])
				seg.StartFrame += timelineOffset
				seg.VolumeKeyframes = findPropertyTrack(keyframes, item.ID, scene.PropVolume)
				out = append(out, seg)
			case scene.ItemAudio:
				if item.Audio == nil || item.Audio.Muted {
					continue
				}
				seg := audioSegment(comp, item)
				seg.StartFrame += timelineOffset
				seg.VolumeKeyframes = findPropertyTrack(keyframes, item.ID, scene.PropVolume)
				out = append(out, seg)
			case scene.ItemComposition:
				if item.Composition == nil || resolve == nil {
					continue
				}
				sub, err := resolve(ctx, item.Composition.CompositionID)
				if err != nil {
					return nil, rerr.Wrapf(rerr.MediaUnavailable, "resolve sub-composition %s: %v", item.Composition.CompositionID, err)
				}
				subKeyframes := sub.KeyframesByItemID()
				subOffset := timelineOffset + item.From - item.Composition.SourceStart
				subSegments, err := extractSegments(ctx, sub, subKeyframes, resolve, subOffset, depth+1)
				if err != nil {
					return nil, err
				}
				out = append(out, clipToRange(subSegments, timelineOffset+item.From, timelineOffset+item.From+item.DurationInFrames)...)
			}
		}
	}

	return mergeAdjacent(out), nil
}

func videoSegment(comp *scene.Composition, item *scene.TimelineItem, transitions []scene.Transition) Segment {
	v := item.Video
	start := item.From
	duration := item.DurationInFrames
	sourceStart := v.SourceStart
	equalPower := false

	for _, tr := range transitions {
		leftPortion, rightPortion := transitionPortions(&tr)
		if tr.LeftClipID == item.ID {
			extend := min(rightPortion, v.SourceEnd-(sourceStart+duration))
			if extend > 0 {
				duration += extend
				equalPower = true
			}
		}
		if tr.RightClipID == item.ID {
			extend := min(leftPortion, sourceStart)
			if extend > 0 {
				start -= extend
				duration += extend
				sourceStart -= extend
				equalPower = true
			}
		}
	}

	return Segment{
		Src:                firstNonEmpty(v.Src, v.MediaID),
		ItemID:             item.ID,
		StartFrame:         start,
		DurationFrames:     duration,
		SourceStartFrame:   sourceStart,
		VolumeDB:           effectiveVolumeDB(item.Volume),
		FadeInFrames:       item.FadeIn,
		FadeOutFrames:      item.FadeOut,
		UseEqualPowerFades: equalPower,
		Speed:              item.EffectiveSpeed(),
		Type:               scene.ItemVideo,
		FPS:                comp.FPS,
	}
}

func audioSegment(comp *scene.Composition, item *scene.TimelineItem) Segment {
	a := item.Audio
	return Segment{
		Src:            firstNonEmpty(a.Src, a.MediaID),
		ItemID:         item.ID,
		StartFrame:     item.From,
		DurationFrames: item.DurationInFrames,
		SourceStartFrame:   a.SourceStart,
		VolumeDB:           effectiveVolumeDB(item.Volume),
		FadeInFrames:       item.FadeIn,
		FadeOutFrames:      item.FadeOut,
		UseEqualPowerFades: false,
		Speed:              item.EffectiveSpeed(),
		Type:               scene.ItemAudio,
		FPS:                comp.FPS,
	}
}

func effectiveVolumeDB(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

func indexTransitions(comp *scene.Composition) map[string][]scene.Transition {
	out := make(map[string][]scene.Transition)
	for _, tr := range comp.Transitions {
		out[tr.LeftClipID] = append(out[tr.LeftClipID], tr)
		out[tr.RightClipID] = append(out[tr.RightClipID], tr)
	}
	return out
}

// transitionPortions splits a transition's duration across the cut point
// by its alignment: leftPortion extends before the nominal cut, rightPortion
// after it.
func transitionPortions(tr *scene.Transition) (leftPortion, rightPortion int) {
	align := tr.EffectiveAlignment()
	left := int(float64(tr.DurationInFrames) * align)
	return left, tr.DurationInFrames - left
}

func findPropertyTrack(keyframes map[string]*scene.ItemKeyframes, itemID string, prop scene.Property) *scene.PropertyKeyframes {
	ik, ok := keyframes[itemID]
	if !ok || ik == nil {
		return nil
	}
	return ik.Find(prop)
}

// mergeAdjacent merges consecutive segments from the same source that are
// continuous: same source and speed, no keyframes, no volume difference,
// starting within 2 frames of the previous segment's end.
func mergeAdjacent(segments []Segment) []Segment {
	if len(segments) < 2 {
		return segments
	}
	out := make([]Segment, 0, len(segments))
	out = append(out, segments[0])
	for i := 1; i < len(segments); i++ {
		prev := &out[len(out)-1]
		cur := segments[i]
		if canMerge(*prev, cur) {
			prev.DurationFrames = (cur.StartFrame + cur.DurationFrames) - prev.StartFrame
			continue
		}
		out = append(out, cur)
	}
	return out
}

func canMerge(a, b Segment) bool {
	if a.Src != b.Src || a.Type != b.Type {
		return false
	}
	if a.Speed != b.Speed || a.VolumeDB != b.VolumeDB {
		return false
	}
	if a.VolumeKeyframes != nil || b.VolumeKeyframes != nil {
		return false
	}
	if a.FadeOutFrames != 0 || b.FadeInFrames != 0 {
		return false
	}
	gap := b.StartFrame - (a.StartFrame + a.DurationFrames)
	if gap < 0 || gap > 2 {
		return false
	}
	expectedSourceStart := a.SourceStartFrame + int(float64(a.DurationFrames+gap)*a.Speed)
	return b.SourceStartFrame == expectedSourceStart
}

func clipToRange(segments []Segment, lo, hi int) []Segment {
	out := make([]Segment, 0, len(segments))
	for _, s := range segments {
		end := s.StartFrame + s.DurationFrames
		if end <= lo || s.StartFrame >= hi {
			continue
		}
		if s.StartFrame < lo {
			trim := lo - s.StartFrame
			s.SourceStartFrame += trim
			s.StartFrame = lo
			s.DurationFrames -= trim
		}
		if s.StartFrame+s.DurationFrames > hi {
			s.DurationFrames = hi - s.StartFrame
		}
		out = append(out, s)
	}
	return out
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
