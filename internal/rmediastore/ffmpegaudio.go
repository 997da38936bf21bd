package rmediastore

import (
	"bytes"
	"context"
	"encoding/binary"
	"math"
	"os/exec"
	"strconv"

	"github.com/mantonx/reelforge/internal/rerr"
	"github.com/mantonx/reelforge/pkg/mediaio"
)

// ffmpegBinary is resolved once; overridable for tests that stub the
// subprocess boundary.
var ffmpegBinary = "ffmpeg"

const (
	decodeSampleRate = 48000
	decodeChannels   = 2
)

// decodeAudioRangeViaFFmpeg handles every audio container the pure-Go wav
// decoder doesn't: mp3, aac, flac, m4a, ogg. There is no pack library that
// decodes compressed audio, so this shells out to ffmpeg the same way the
// codec facade's ffmpeg muxer shells out for compressed video containers.
func decodeAudioRangeViaFFmpeg(ctx context.Context, path string, startSeconds, endSeconds float64) (mediaio.AudioBuffer, error) {
	duration := endSeconds - startSeconds
	if duration <= 0 {
		return mediaio.AudioBuffer{SampleRate: decodeSampleRate, Channels: [][]float32{{}, {}}}, nil
	}

	args := []string{
		"-v", "error",
		"-ss", strconv.FormatFloat(startSeconds, 'f', 6, 64),
		"-t", strconv.FormatFloat(duration, 'f', 6, 64),
		"-i", path,
		"-f", "f32le",
		"-ac", strconv.Itoa(decodeChannels),
		"-ar", strconv.Itoa(decodeSampleRate),
		"pipe:1",
	}

	cmd := exec.CommandContext(ctx, ffmpegBinary, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	raw, err := cmd.Output()
	if err != nil {
		return mediaio.AudioBuffer{}, rerr.Wrapf(rerr.DecodeRecoverable, "ffmpeg decode %s: %v: %s", path, err, stderr.String())
	}

	const bytesPerSample = 4
	numFrames := len(raw) / bytesPerSample / decodeChannels
	channels := make([][]float32, decodeChannels)
	for c := range channels {
		channels[c] = make([]float32, numFrames)
	}
	for s := 0; s < numFrames; s++ {
		for c := 0; c < decodeChannels; c++ {
			idx := (s*decodeChannels + c) * bytesPerSample
			bits := binary.LittleEndian.Uint32(raw[idx : idx+bytesPerSample])
			channels[c][s] = math.Float32frombits(bits)
		}
	}

	return mediaio.AudioBuffer{SampleRate: decodeSampleRate, Channels: channels}, nil
}
