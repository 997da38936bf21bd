package rresolve

import (
	"math"

	"github.com/mantonx/reelforge/internal/rkeyframe"
	"github.com/mantonx/reelforge/pkg/scene"
)

// resolveKeyframes is step 3 of the resolver: for every surviving item it
// finds (or inherits) a keyframe set, computes that item's total frame
// offset from splitting plus range trimming, and shifts every keyframe
// track by that offset so frame 0 in the resolved timeline always lines up
// with the item's own start.
func resolveKeyframes(original, working *scene.Composition, origin map[string]*originGroup, ioOffsets map[string]int) map[string]*scene.ItemKeyframes {
	bySource := original.KeyframesByItemID()
	out := make(map[string]*scene.ItemKeyframes)

	for _, tr := range working.Tracks {
		for i := range tr.Items {
			item := &tr.Items[i]
			src := findKeyframeSource(item, bySource)
			if src == nil {
				continue
			}

			totalOffset := float64(splitOffset(original, item, origin)) + float64(ioOffsets[item.ID])
			out[item.ID] = shiftItemKeyframes(item.ID, src, totalOffset)
		}
	}
	return out
}

// findKeyframeSource returns the item's own keyframe entry if present,
// otherwise inherits its parent's entry (minus opacity, which split children
// never inherit — each child controls its own fade independently).
func findKeyframeSource(item *scene.TimelineItem, bySource map[string]*scene.ItemKeyframes) *scene.ItemKeyframes {
	if ik, ok := bySource[item.ID]; ok {
		return ik
	}
	if item.OriginID == "" {
		return nil
	}
	parent, ok := bySource[item.OriginID]
	if !ok {
		return nil
	}
	inherited := parent.Clone()
	inherited.ItemID = item.ID
	filtered := inherited.Properties[:0]
	for _, pk := range inherited.Properties {
		if pk.Property == scene.PropOpacity {
			continue
		}
		filtered = append(filtered, pk)
	}
	inherited.Properties = filtered
	if len(inherited.Properties) == 0 {
		return nil
	}
	return inherited
}

// splitOffset is (sourceStart of item's original, pre-trim placement minus
// the origin group's minimum original source start) / speed, rounded. It is
// computed entirely from the original composition so an export range's own
// trimming never perturbs it; rangeTrim is folded in separately as the
// IO-marker offset.
func splitOffset(original *scene.Composition, item *scene.TimelineItem, origin map[string]*originGroup) int {
	if item.OriginID == "" {
		return 0
	}
	g, ok := origin[item.OriginID]
	if !ok || !g.hasMedia {
		return 0
	}

	byID := original.ItemByID()
	orig, ok := byID[item.ID]
	if !ok {
		return 0
	}
	ss, ok := mediaSourceStart(orig)
	if !ok {
		return 0
	}

	speed := item.EffectiveSpeed()
	if speed <= 0 {
		speed = 1
	}
	return int(math.Round(float64(ss-g.minSourceStart) / speed))
}

// shiftItemKeyframes applies the boundary rules to every property track:
// frames landing at or after the shift stay put (renumbered from the new
// item-relative zero); if the shift lands inside a span, a synthesized
// keyframe at frame 0 captures the pre-shift interpolated value so visible
// motion doesn't jump; if the shift passes every keyframe, the last one
// pins to frame 0.
func shiftItemKeyframes(itemID string, src *scene.ItemKeyframes, totalOffset float64) *scene.ItemKeyframes {
	out := &scene.ItemKeyframes{ItemID: itemID}
	for _, pk := range src.Properties {
		shifted := shiftTrack(pk.Keyframes, totalOffset)
		if len(shifted) == 0 {
			continue
		}
		out.Properties = append(out.Properties, scene.PropertyKeyframes{Property: pk.Property, Keyframes: shifted})
	}
	return out
}

func shiftTrack(kfs []scene.Keyframe, offset float64) []scene.Keyframe {
	if len(kfs) == 0 {
		return nil
	}
	ordered := sortedCopy(kfs)

	var kept []scene.Keyframe
	for _, kf := range ordered {
		shifted := float64(kf.Frame) - offset
		if shifted >= 0 {
			nk := kf
			nk.Frame = int(math.Round(shifted))
			kept = append(kept, nk)
		}
	}

	if len(kept) == len(ordered) {
		return kept // offset is zero or negative relative to every keyframe
	}
	if len(kept) == 0 {
		last := ordered[len(ordered)-1]
		pinned := last
		pinned.Frame = 0
		return []scene.Keyframe{pinned}
	}

	// Straddle: synthesize a frame-0 keyframe from the pre-shift value at
	// offset, carrying the easing of the segment it falls in.
	plain := make([]scene.Keyframe, len(ordered))
	copy(plain, ordered)
	val := rkeyframe.Interpolate(plain, offset, ordered[0].Value)
	easing := precedingEasing(plain, offset)

	synthesized := scene.Keyframe{Frame: 0, Value: val, Easing: easing}
	return append([]scene.Keyframe{synthesized}, kept...)
}

func precedingEasing(kfs []scene.Keyframe, at float64) scene.Easing {
	easing := kfs[0].Easing
	for _, kf := range kfs {
		if float64(kf.Frame) > at {
			break
		}
		easing = kf.Easing
	}
	return easing
}
