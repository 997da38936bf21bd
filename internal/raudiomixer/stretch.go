package raudiomixer

import "math"

// TimeStretchWSOLA changes the duration of channels by 1/speed without
// shifting pitch, using waveform-similarity overlap-add: the same alignment
// offset found against channel 0 is applied to every channel so they stay
// in phase with each other.
func TimeStretchWSOLA(channels [][]float64, speed float64, sampleRate int) [][]float64 {
	if speed == 1 || len(channels) == 0 || len(channels[0]) == 0 {
		return channels
	}

	frameLen := sampleRate / 50 // 20ms analysis/synthesis window
	if frameLen < 64 {
		frameLen = 64
	}
	synthHop := frameLen / 2
	analysisHop := int(math.Round(float64(synthHop) * speed))
	if analysisHop < 1 {
		analysisHop = 1
	}
	tolerance := synthHop / 2

	numFrames := len(channels[0])
	outLen := int(math.Round(float64(numFrames) / speed))
	window := hannWindow(frameLen)

	out := make([][]float64, len(channels))
	for c := range out {
		out[c] = make([]float64, outLen+frameLen)
	}

	srcCenter := 0
	outPos := 0
	var prevTail []float64

	for outPos < outLen && srcCenter < numFrames {
		offset := 0
		if prevTail != nil {
			offset = bestOverlapOffset(channels[0], prevTail, srcCenter, tolerance, synthHop)
		}
		pos := srcCenter + offset
		for c := range channels {
			frame := extractFrame(channels[c], pos, frameLen)
			overlapAdd(out[c], frame, window, outPos)
		}
		prevTail = extractFrame(channels[0], pos+synthHop, synthHop)
		outPos += synthHop
		srcCenter += analysisHop
	}

	for c := range out {
		out[c] = out[c][:outLen]
	}
	return out
}

func extractFrame(src []float64, pos, length int) []float64 {
	frame := make([]float64, length)
	for i := 0; i < length; i++ {
		p := pos + i
		if p >= 0 && p < len(src) {
			frame[i] = src[p]
		}
	}
	return frame
}

func overlapAdd(dst, frame, window []float64, at int) {
	for i := 0; i < len(frame) && i < len(window); i++ {
		idx := at + i
		if idx >= 0 && idx < len(dst) {
			dst[idx] += frame[i] * window[i]
		}
	}
}

func hannWindow(n int) []float64 {
	w := make([]float64, n)
	if n == 1 {
		w[0] = 1
		return w
	}
	for i := range w {
		w[i] = 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(n-1))
	}
	return w
}

// bestOverlapOffset searches [candidateCenter-tolerance, candidateCenter+tolerance]
// for the offset whose synthHop-length window best correlates with prevTail,
// the region the previous frame already wrote — this is what keeps
// consecutive frames from clicking at the splice point.
func bestOverlapOffset(src, prevTail []float64, candidateCenter, tolerance, synthHop int) int {
	bestOffset := 0
	bestScore := math.Inf(-1)
	for offset := -tolerance; offset <= tolerance; offset++ {
		score := crossCorrelation(src, prevTail, candidateCenter+offset, synthHop)
		if score > bestScore {
			bestScore = score
			bestOffset = offset
		}
	}
	return bestOffset
}

func crossCorrelation(src, ref []float64, pos, length int) float64 {
	var sum, normSrc, normRef float64
	for i := 0; i < length; i++ {
		p := pos + i
		var s float64
		if p >= 0 && p < len(src) {
			s = src[p]
		}
		r := 0.0
		if i < len(ref) {
			r = ref[i]
		}
		sum += s * r
		normSrc += s * s
		normRef += r * r
	}
	denom := math.Sqrt(normSrc * normRef)
	if denom == 0 {
		return 0
	}
	return sum / denom
}
