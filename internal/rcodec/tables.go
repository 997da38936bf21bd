// Package rcodec is the codec facade: container/codec/mime lookup tables,
// settings validation, and an Encoder that feeds rendered video samples and
// a mixed audio buffer into a finalized container.
package rcodec

import (
	"fmt"

	"github.com/mantonx/reelforge/internal/rerr"
)

// Container is a supported output container format.
type Container string

const (
	ContainerMP4  Container = "mp4"
	ContainerMOV  Container = "mov"
	ContainerWebM Container = "webm"
	ContainerMKV  Container = "mkv"
	ContainerMP3  Container = "mp3"
	ContainerAAC  Container = "aac"
	ContainerWAV  Container = "wav"
)

// VideoCodec is a supported video codec.
type VideoCodec string

const (
	VideoAVC  VideoCodec = "avc"
	VideoHEVC VideoCodec = "hevc"
	VideoVP8  VideoCodec = "vp8"
	VideoVP9  VideoCodec = "vp9"
	VideoAV1  VideoCodec = "av1"
)

// AudioCodec is a supported audio codec.
type AudioCodec string

const (
	AudioAAC    AudioCodec = "aac"
	AudioOpus   AudioCodec = "opus"
	AudioMP3    AudioCodec = "mp3"
	AudioPCMS16 AudioCodec = "pcm-s16"
)

// containerSpec is one row of the containers-and-codecs table.
type containerSpec struct {
	mime        string
	videoCodecs []VideoCodec
	audioCodecs []AudioCodec
}

var containerTable = map[Container]containerSpec{
	ContainerMP4: {
		mime:        "video/mp4",
		videoCodecs: []VideoCodec{VideoAVC, VideoHEVC},
		audioCodecs: []AudioCodec{AudioAAC},
	},
	ContainerMOV: {
		mime:        "video/mov",
		videoCodecs: []VideoCodec{VideoAVC, VideoHEVC},
		audioCodecs: []AudioCodec{AudioAAC},
	},
	ContainerWebM: {
		mime:        "video/webm",
		videoCodecs: []VideoCodec{VideoVP8, VideoVP9, VideoAV1},
		audioCodecs: []AudioCodec{AudioOpus},
	},
	ContainerMKV: {
		mime:        "video/x-matroska",
		videoCodecs: []VideoCodec{VideoAVC, VideoHEVC, VideoVP8, VideoVP9, VideoAV1},
		audioCodecs: []AudioCodec{AudioOpus, AudioAAC},
	},
	ContainerMP3: {
		mime:        "audio/mpeg",
		audioCodecs: []AudioCodec{AudioMP3},
	},
	ContainerAAC: {
		mime:        "audio/aac",
		audioCodecs: []AudioCodec{AudioAAC},
	},
	ContainerWAV: {
		mime:        "audio/wav",
		audioCodecs: []AudioCodec{AudioPCMS16},
	},
}

// codecStringTable gives the canonical `codecs="..."` fragment used in an
// RFC 6381-style mime type, where the container names one.
var codecStringTable = map[VideoCodec]string{
	VideoAVC:  "avc1.42E01E",
	VideoHEVC: "hvc1.1.6.L93.B0",
	VideoVP9:  "vp09.00.10.08",
	VideoAV1:  "av01.0.04M.08",
}

// SupportsVideoCodec reports whether container supports codec for a frame
// of the given dimensions. Width/height must already satisfy the even-only
// rule enforced by ValidateSettings.
func SupportsVideoCodec(container Container, codec VideoCodec, w, h int) bool {
	if w <= 0 || h <= 0 || w%2 != 0 || h%2 != 0 {
		return false
	}
	spec, ok := containerTable[container]
	if !ok {
		return false
	}
	for _, c := range spec.videoCodecs {
		if c == codec {
			return true
		}
	}
	return false
}

// supportsAudioCodec reports whether container supports codec.
func supportsAudioCodec(container Container, codec AudioCodec) bool {
	spec, ok := containerTable[container]
	if !ok {
		return false
	}
	for _, c := range spec.audioCodecs {
		if c == codec {
			return true
		}
	}
	return false
}

// defaultAudioCodec returns the first (and typically only) audio codec a
// container supports.
func defaultAudioCodec(container Container) (AudioCodec, bool) {
	spec, ok := containerTable[container]
	if !ok || len(spec.audioCodecs) == 0 {
		return "", false
	}
	return spec.audioCodecs[0], true
}

// MimeType returns the canonical media type for container, annotated with
// videoCodec's RFC 6381 codec string when the container's mime template
// carries one.
func MimeType(container Container, videoCodec VideoCodec) (string, error) {
	spec, ok := containerTable[container]
	if !ok {
		return "", rerr.Wrapf(rerr.CodecUnsupported, "unsupported container %q", container)
	}
	if videoCodec == "" || len(spec.videoCodecs) == 0 {
		return spec.mime, nil
	}
	codecStr, ok := codecStringTable[videoCodec]
	if !ok {
		return spec.mime, nil
	}
	switch container {
	case ContainerMP4, ContainerWebM:
		return fmt.Sprintf("%s; codecs=%q", spec.mime, codecStr), nil
	default:
		return spec.mime, nil
	}
}

// IsVideoContainer reports whether container carries a video track at all.
func IsVideoContainer(container Container) bool {
	spec, ok := containerTable[container]
	return ok && len(spec.videoCodecs) > 0
}
