package rcodec

import "image"

// Format is a fully-resolved output container: codecs, dimensions, and
// which tracks it carries.
type Format struct {
	Container  Container
	Width      int
	Height     int
	FrameRate  int
	HasVideo   bool
	HasAudio   bool
	VideoCodec VideoCodec
	AudioCodec AudioCodec
	MimeType   string
}

// CreateFormat resolves container + opts into a Format, filling in the
// container's first listed audio codec when the caller didn't pick one,
// and rejecting codec/container combinations the
// table doesn't list.
func CreateFormat(container Container, opts FormatOptions) (Format, error) {
	if err := ValidateSettings(opts.Width, opts.Height, opts.FrameRate); err != nil {
		return Format{}, err
	}
	spec, err := containerSpecOrErr(container)
	if err != nil {
		return Format{}, err
	}

	f := Format{
		Container: container,
		Width:     opts.Width,
		Height:    opts.Height,
		FrameRate: opts.FrameRate,
		HasVideo:  opts.HasVideo && IsVideoContainer(container),
		HasAudio:  opts.HasAudio,
	}

	if f.HasVideo {
		if opts.VideoCodec == "" {
			opts.VideoCodec = spec.videoCodecs[0]
		}
		if !SupportsVideoCodec(container, opts.VideoCodec, opts.Width, opts.Height) {
			return Format{}, unsupportedVideoCodec(container, opts.VideoCodec)
		}
		f.VideoCodec = opts.VideoCodec
	}

	if f.HasAudio {
		codec := opts.AudioCodec
		if codec == "" {
			var ok bool
			codec, ok = defaultAudioCodec(container)
			if !ok {
				return Format{}, unsupportedAudioCodec(container, codec)
			}
		}
		if !supportsAudioCodec(container, codec) {
			return Format{}, unsupportedAudioCodec(container, codec)
		}
		f.AudioCodec = codec
	}

	mime, err := MimeType(container, f.VideoCodec)
	if err != nil {
		return Format{}, err
	}
	f.MimeType = mime
	return f, nil
}

// VideoSource configures the encoder's video track.
type VideoSource struct {
	Codec               VideoCodec
	BitrateKbps         int
	FrameRate           int
	KeyFrameIntervalSec int
	Latency             LatencyMode
}

// CreateVideoSource builds a VideoSource with sane defaults for an
// unspecified key-frame interval or latency mode.
func CreateVideoSource(codec VideoCodec, bitrateKbps, frameRate, keyFrameIntervalSec int, latency LatencyMode) VideoSource {
	if keyFrameIntervalSec <= 0 {
		keyFrameIntervalSec = 2
	}
	if latency == "" {
		latency = LatencyQuality
	}
	return VideoSource{
		Codec:               codec,
		BitrateKbps:         bitrateKbps,
		FrameRate:           frameRate,
		KeyFrameIntervalSec: keyFrameIntervalSec,
		Latency:             latency,
	}
}

// AudioSource configures the encoder's audio track.
type AudioSource struct {
	Codec       AudioCodec
	BitrateKbps int
}

// CreateAudioSource builds an AudioSource.
func CreateAudioSource(codec AudioCodec, bitrateKbps int) AudioSource {
	return AudioSource{Codec: codec, BitrateKbps: bitrateKbps}
}

// VideoSample is one container-independent rendered frame handed to the
// encoder.
type VideoSample struct {
	Image             *image.RGBA
	TimestampSeconds  float64
	DurationSeconds   float64
	Keyframe          bool
}

func containerSpecOrErr(container Container) (containerSpec, error) {
	spec, ok := containerTable[container]
	if !ok {
		return containerSpec{}, unsupportedContainer(container)
	}
	return spec, nil
}
