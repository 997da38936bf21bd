// Package mediaio is the render core's contract boundary: the interfaces a
// caller implements to supply media bytes, fonts, and to receive progress —
// and the RenderResult the core hands back. Small, behavior-only contracts,
// with no concrete implementation shipped in the core package itself.
package mediaio

import (
	"context"
	"image"
	"time"
)

// MediaStore resolves the external media bytes a composition references.
// The core borrows bytes via these calls; it never owns them.
type MediaStore interface {
	// FetchBytes loads the full contents of a source (by src path or
	// mediaId) — used for images and small assets.
	FetchBytes(ctx context.Context, srcOrMediaID string) ([]byte, error)

	// DecodeAudioRange decodes [startSeconds, endSeconds) of src into
	// per-channel float32 PCM at the rate given by the returned buffer's
	// SampleRate.
	DecodeAudioRange(ctx context.Context, src string, startSeconds, endSeconds float64) (AudioBuffer, error)

	// CreateVideoFrameReader opens src for random-access frame extraction.
	CreateVideoFrameReader(ctx context.Context, src string) (VideoFrameReader, error)
}

// AudioBuffer is decoded PCM: one []float32 per channel, all the same
// length, at SampleRate.
type AudioBuffer struct {
	SampleRate int
	Channels   [][]float32
}

// DrawFailureKind distinguishes "no frame at this timestamp yet" from a
// genuine decode error.
type DrawFailureKind int

const (
	DrawOK DrawFailureKind = iota
	DrawNoSample
	DrawDecodeError
)

// VideoFrameReader exposes random-access frame extraction for one source.
type VideoFrameReader interface {
	Dimensions() (width, height int)
	Duration() time.Duration

	// DrawFrame decodes the frame nearest timestampSeconds and draws it into
	// target at (x, y, w, h). The returned kind distinguishes "not ready
	// yet" from a hard decode failure so callers can apply the
	// DecodeRecoverable vs MediaUnavailable recovery rules.
	DrawFrame(ctx context.Context, timestampSeconds float64, target *image.RGBA, x, y, w, h int) (ok bool, kind DrawFailureKind, err error)

	Close() error
}

// FontProvider resolves font metrics/glyphs for text items. Font loading is
// an external collaborator the core never implements directly.
type FontProvider interface {
	// MeasureText returns the rendered width/height in pixels of text set in
	// the given family/weight/size with the given letter spacing.
	MeasureText(family, weight string, size, letterSpacing float64, text string) (width, height float64, err error)

	// DrawText rasterizes text into target at (x, y) using the given style.
	DrawText(target *image.RGBA, family, weight string, size float64, color string, x, y float64, text string) error
}

// Phase names the stage a ProgressFunc callback reports.
type Phase string

const (
	PhasePreparing  Phase = "preparing"
	PhaseRendering  Phase = "rendering"
	PhaseEncoding   Phase = "encoding"
	PhaseFinalizing Phase = "finalizing"
)

// Progress is one progress snapshot.
type Progress struct {
	Phase        Phase
	ProgressPct  float64
	CurrentFrame int
	TotalFrames  int
	Message      string
}

// ProgressFunc receives progress callbacks. No call happens after a fatal
// error.
type ProgressFunc func(Progress)

// RenderResult is the finalized output.
type RenderResult struct {
	Bytes           []byte
	MimeType        string
	DurationSeconds float64
	ByteSize        int64
}
