package rmediastore

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"math"
	"os/exec"
	"strconv"
	"sync"
	"time"

	"github.com/mantonx/reelforge/internal/rcanvas"
	"github.com/mantonx/reelforge/internal/rerr"
	"github.com/mantonx/reelforge/pkg/mediaio"
)

// frameCacheEpsilon treats two DrawFrame calls within this many seconds of
// each other as asking for the same frame, so a compositor re-reading the
// same still frame across an item's duration doesn't re-invoke ffmpeg.
const frameCacheEpsilon = 1.0 / 240.0

// videoFrameReader extracts frames from a video file on demand by seeking
// with ffmpeg and decoding the single PNG frame it emits. There is no
// frame-accurate pure-Go decoder for the containers this engine targets
// (mp4/mov/mkv/webm), so this uses the same subprocess boundary the codec
// facade uses for muxing.
type videoFrameReader struct {
	path     string
	width    int
	height   int
	duration time.Duration

	mu            sync.Mutex
	lastTimestamp float64
	lastFrame     image.Image
}

func newVideoFrameReader(ctx context.Context, path string) (*videoFrameReader, error) {
	probe, err := probeVideo(ctx, path)
	if err != nil {
		return nil, err
	}
	if probe.Width == 0 || probe.Height == 0 {
		return nil, rerr.Wrapf(rerr.MediaUnavailable, "no video stream found in %s", path)
	}
	return &videoFrameReader{path: path, width: probe.Width, height: probe.Height, duration: probe.Duration}, nil
}

func (r *videoFrameReader) Dimensions() (width, height int) { return r.width, r.height }

func (r *videoFrameReader) Duration() time.Duration { return r.duration }

func (r *videoFrameReader) DrawFrame(ctx context.Context, timestampSeconds float64, target *image.RGBA, x, y, w, h int) (bool, mediaio.DrawFailureKind, error) {
	if timestampSeconds < 0 || (r.duration > 0 && timestampSeconds > r.duration.Seconds()) {
		return false, mediaio.DrawNoSample, nil
	}

	frame, err := r.frameAt(ctx, timestampSeconds)
	if err != nil {
		return false, mediaio.DrawDecodeError, err
	}

	rcanvas.ScaleInto(target, image.Rect(x, y, x+w, y+h), frame)
	return true, mediaio.DrawOK, nil
}

func (r *videoFrameReader) frameAt(ctx context.Context, timestampSeconds float64) (image.Image, error) {
	r.mu.Lock()
	if r.lastFrame != nil && math.Abs(r.lastTimestamp-timestampSeconds) < frameCacheEpsilon {
		frame := r.lastFrame
		r.mu.Unlock()
		return frame, nil
	}
	r.mu.Unlock()

	args := []string{
		"-v", "error",
		"-ss", strconv.FormatFloat(timestampSeconds, 'f', 6, 64),
		"-i", r.path,
		"-frames:v", "1",
		"-f", "image2pipe",
		"-vcodec", "png",
		"pipe:1",
	}
	cmd := exec.CommandContext(ctx, ffmpegBinary, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	raw, err := cmd.Output()
	if err != nil {
		return nil, rerr.Wrapf(rerr.DecodeRecoverable, "extract frame at %.3fs from %s: %v: %s", timestampSeconds, r.path, err, stderr.String())
	}

	img, err := png.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, rerr.Wrap(rerr.DecodeRecoverable, err)
	}

	r.mu.Lock()
	r.lastTimestamp = timestampSeconds
	r.lastFrame = img
	r.mu.Unlock()
	return img, nil
}

// Close is a no-op: each call spawns and waits out its own ffmpeg process,
// there is no persistent subprocess or handle to release.
func (r *videoFrameReader) Close() error { return nil }
