package rcodec

import "github.com/mantonx/reelforge/internal/rerr"

// FormatOptions configures a container at creation time.
type FormatOptions struct {
	Width       int
	Height      int
	FrameRate   int
	HasVideo    bool
	HasAudio    bool
	VideoCodec  VideoCodec
	AudioCodec  AudioCodec
	VideoBitrate int
	AudioBitrate int
}

// ValidateSettings enforces the containers-and-codecs table's settings
// rule: even width/height, fps in [1,120], positive dimensions.
func ValidateSettings(width, height, frameRate int) error {
	if width <= 0 || height <= 0 {
		return rerr.Wrapf(rerr.InputInvalid, "width/height must be positive, got %dx%d", width, height)
	}
	if width%2 != 0 || height%2 != 0 {
		return rerr.Wrapf(rerr.InputInvalid, "width/height must be even, got %dx%d", width, height)
	}
	if frameRate < 1 || frameRate > 120 {
		return rerr.Wrapf(rerr.InputInvalid, "fps must be in [1,120], got %d", frameRate)
	}
	return nil
}

// LatencyMode trades encode latency against compression efficiency.
type LatencyMode string

const (
	LatencyQuality LatencyMode = "quality"
	LatencyRealtime LatencyMode = "realtime"
)
