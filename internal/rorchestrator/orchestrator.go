// Package rorchestrator drives one export end to end: resolve the
// composition, mix audio, allocate the encoder and compositor, walk every
// output frame in order, and hand back the finalized bytes. It is the one
// place that owns a render's full lifecycle and is responsible for
// releasing every resource it allocates on every exit path.
package rorchestrator

import (
	"context"
	"image"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/sync/semaphore"

	"github.com/mantonx/reelforge/internal/raudiomixer"
	"github.com/mantonx/reelforge/internal/rcanvas"
	"github.com/mantonx/reelforge/internal/rcodec"
	"github.com/mantonx/reelforge/internal/rcompositor"
	"github.com/mantonx/reelforge/internal/rconfig"
	"github.com/mantonx/reelforge/internal/rerr"
	"github.com/mantonx/reelforge/internal/rresolve"
	"github.com/mantonx/reelforge/pkg/mediaio"
	"github.com/mantonx/reelforge/pkg/scene"
)

// ExportOptions selects the output container/codecs and optional export
// resolution/range. Zero-value codec fields let the codec facade pick its
// per-container default.
type ExportOptions struct {
	Container           rcodec.Container
	VideoCodec          rcodec.VideoCodec
	AudioCodec          rcodec.AudioCodec
	VideoBitrateKbps    int
	AudioBitrateKbps    int
	KeyFrameIntervalSec int
	Latency             rcodec.LatencyMode

	// Width/Height override the composition's canvas size for the
	// exported video; zero means "use the composition's own dimensions".
	Width, Height int

	Range *scene.Range
}

// Orchestrator renders one composition per call to Render. It holds no
// per-render state between calls — every cache, pool, and encoder it
// allocates is scoped to a single Render invocation.
type Orchestrator struct {
	store    mediaio.MediaStore
	fonts    mediaio.FontProvider
	resolve  rcompositor.SubCompositionResolver
	settings rconfig.Settings
	log      hclog.Logger
}

// New builds an Orchestrator. resolve may be nil if the caller's
// compositions never reference sub-compositions.
func New(store mediaio.MediaStore, fonts mediaio.FontProvider, resolve rcompositor.SubCompositionResolver, settings rconfig.Settings, log hclog.Logger) *Orchestrator {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return &Orchestrator{store: store, fonts: fonts, resolve: resolve, settings: settings, log: log}
}

// Render executes the full export sequence against comp and returns the
// finalized container bytes, or a surfaced error (InputInvalid,
// CodecUnsupported, Cancelled, EncoderFatal).
func (o *Orchestrator) Render(ctx context.Context, comp *scene.Composition, opts ExportOptions, onProgress mediaio.ProgressFunc) (mediaio.RenderResult, error) {
	report(onProgress, mediaio.Progress{Phase: mediaio.PhasePreparing, Message: "resolving composition"})

	norm, err := rresolve.Normalize(comp, opts.Range)
	if err != nil {
		return mediaio.RenderResult{}, rerr.Wrap(rerr.InputInvalid, err)
	}
	if norm.DurationInFrames < 1 {
		return mediaio.RenderResult{}, rerr.Wrapf(rerr.InputInvalid, "durationInFrames must be >= 1, got %d", norm.DurationInFrames)
	}

	o.preResolveSubCompositions(ctx, norm.Composition)

	outWidth, outHeight := opts.Width, opts.Height
	if outWidth <= 0 || outHeight <= 0 {
		outWidth, outHeight = norm.Composition.Width, norm.Composition.Height
	}

	hasAudio := compositionHasAudio(norm.Composition)
	hasVideo := rcodec.IsVideoContainer(opts.Container)
	fps := norm.Composition.FPS
	if fps < 1 {
		fps = 1
	}

	format, videoSource, audioSource, err := o.buildFormat(opts, outWidth, outHeight, fps, hasVideo, hasAudio)
	if err != nil {
		return mediaio.RenderResult{}, err
	}

	encoder, err := rcodec.NewEncoder(format, videoSource, audioSource, o.log.Named("codec"))
	if err != nil {
		return mediaio.RenderResult{}, err
	}

	compositor := rcompositor.New(o.store, o.fonts, o.resolve, o.log.Named("compositor"))
	defer compositor.Close()

	samplerCtx, stopSampler := context.WithCancel(ctx)
	defer stopSampler()
	sampler := startResourceSampler(samplerCtx, 0)

	var outPool *rcanvas.Pool
	scaleExport := outWidth != norm.Composition.Width || outHeight != norm.Composition.Height
	if scaleExport && hasVideo {
		outPool = rcanvas.NewPool(outWidth, outHeight, o.settings.Resources.CanvasPoolCap)
	}

	mixResult := make(chan mixOutcome, 1)
	if format.HasAudio {
		go o.mixAudio(ctx, norm, mixResult)
	} else {
		mixResult <- mixOutcome{}
	}

	if err := ctx.Err(); err != nil {
		return mediaio.RenderResult{}, rerr.Wrap(rerr.Cancelled, err)
	}

	if err := encoder.Start(ctx); err != nil {
		return mediaio.RenderResult{}, err
	}

	if format.HasAudio {
		mixed := <-mixResult
		if mixed.err != nil {
			encoder.Abort()
			return mediaio.RenderResult{}, mixed.err
		}
		if err := encoder.SubmitAudio(ctx, mixed.buffer); err != nil {
			encoder.Abort()
			return mediaio.RenderResult{}, err
		}
	}

	totalFrames := norm.DurationInFrames

	if hasVideo {
		queueDepth := o.settings.Resources.InFlightFrameQueue
		if queueDepth < 1 {
			queueDepth = 1
		}
		sem := semaphore.NewWeighted(int64(queueDepth))

		for frame := 0; frame < totalFrames; frame++ {
			if err := ctx.Err(); err != nil {
				encoder.Abort()
				return mediaio.RenderResult{}, rerr.Wrap(rerr.Cancelled, err)
			}

			if err := renderAndSubmitFrame(ctx, compositor, encoder, sem, norm, outPool, frame, fps, outWidth, outHeight, scaleExport); err != nil {
				encoder.Abort()
				return mediaio.RenderResult{}, err
			}

			percent := float64(frame+1) / float64(totalFrames) * 100
			report(onProgress, mediaio.Progress{
				Phase:        mediaio.PhaseRendering,
				ProgressPct:  percent,
				CurrentFrame: frame,
				TotalFrames:  totalFrames,
				Message:      sampler.message(),
			})
		}
	}

	report(onProgress, mediaio.Progress{Phase: mediaio.PhaseFinalizing, ProgressPct: 100, TotalFrames: totalFrames, CurrentFrame: totalFrames})

	result, err := encoder.Finalize(ctx)
	if err != nil {
		return mediaio.RenderResult{}, err
	}

	report(onProgress, mediaio.Progress{Phase: mediaio.PhaseEncoding, ProgressPct: 100, TotalFrames: totalFrames, CurrentFrame: totalFrames, Message: "finalized"})
	return result, nil
}

// renderAndSubmitFrame renders and submits a single frame, acquiring and
// releasing its in-flight queue slot and scaled-canvas handle within this
// call so no per-frame resource outlives the frame itself.
func renderAndSubmitFrame(
	ctx context.Context,
	compositor *rcompositor.Compositor,
	encoder *rcodec.Encoder,
	sem *semaphore.Weighted,
	norm *rresolve.Normalized,
	outPool *rcanvas.Pool,
	frame, fps, outWidth, outHeight int,
	scaleExport bool,
) error {
	if err := sem.Acquire(ctx, 1); err != nil {
		return rerr.Wrap(rerr.Cancelled, err)
	}
	defer sem.Release(1)

	rendered, err := compositor.RenderFrame(ctx, norm, frame)
	if err != nil {
		return err
	}

	output := rendered
	if scaleExport {
		scaled := outPool.Acquire()
		defer outPool.Release(scaled)
		rcanvas.ScaleInto(scaled.Image(), image.Rect(0, 0, outWidth, outHeight), rendered)
		output = scaled.Image()
	}

	sample := rcodec.VideoSample{
		Image:            output,
		TimestampSeconds: float64(frame) / float64(fps),
		DurationSeconds:  1.0 / float64(fps),
		Keyframe:         frame == 0,
	}
	return encoder.SubmitVideoSample(ctx, sample)
}

func report(onProgress mediaio.ProgressFunc, p mediaio.Progress) {
	if onProgress != nil {
		onProgress(p)
	}
}

// compositionHasAudio reports whether comp can produce any audio samples:
// a standalone audio item, a non-muted video item (which carries its own
// embedded audio track), or a sub-composition item (which may contain
// either, and is cheaper to assume audio-bearing than to resolve here).
func compositionHasAudio(comp *scene.Composition) bool {
	for _, track := range comp.Tracks {
		for _, item := range track.Items {
			switch item.Type {
			case scene.ItemAudio:
				return true
			case scene.ItemVideo:
				if !item.Muted {
					return true
				}
			case scene.ItemComposition:
				return true
			}
		}
	}
	return false
}

type mixOutcome struct {
	buffer mediaio.AudioBuffer
	err    error
}

// mixAudio runs concurrently with encoder setup, per the "audio decode runs
// concurrently with video setup" ordering rule; its result is only needed
// once the encoder has started.
func (o *Orchestrator) mixAudio(ctx context.Context, norm *rresolve.Normalized, out chan<- mixOutcome) {
	mixer := raudiomixer.New(o.store, raudiomixer.SubCompositionResolver(o.resolve), o.log.Named("audiomixer"), o.settings.Audio.MaxConcurrentDecodes)
	buf, err := mixer.Mix(ctx, norm, o.settings.Audio.SampleRate)
	out <- mixOutcome{buffer: buf, err: err}
}

// preResolveSubCompositions warms the sub-composition resolver cache by
// visiting every composition item once before the frame loop starts, so a
// missing sub-composition is logged early rather than on a random frame.
func (o *Orchestrator) preResolveSubCompositions(ctx context.Context, comp *scene.Composition) {
	if o.resolve == nil {
		return
	}
	seen := make(map[string]bool)
	for _, track := range comp.Tracks {
		for _, item := range track.Items {
			if item.Type != scene.ItemComposition || item.Composition == nil {
				continue
			}
			id := item.Composition.CompositionID
			if id == "" || seen[id] {
				continue
			}
			seen[id] = true
			if _, err := o.resolve(ctx, id); err != nil {
				o.log.Warn("pre-resolving sub-composition failed, frames referencing it will render blank", "compositionId", id, "err", err)
			}
		}
	}
}

func (o *Orchestrator) buildFormat(opts ExportOptions, width, height, fps int, hasVideo, hasAudio bool) (rcodec.Format, *rcodec.VideoSource, *rcodec.AudioSource, error) {
	format, err := rcodec.CreateFormat(opts.Container, rcodec.FormatOptions{
		Width:        width,
		Height:       height,
		FrameRate:    fps,
		HasVideo:     hasVideo,
		HasAudio:     hasAudio,
		VideoCodec:   opts.VideoCodec,
		AudioCodec:   opts.AudioCodec,
		VideoBitrate: opts.VideoBitrateKbps,
		AudioBitrate: opts.AudioBitrateKbps,
	})
	if err != nil {
		return rcodec.Format{}, nil, nil, err
	}

	var videoSource *rcodec.VideoSource
	if format.HasVideo {
		vs := rcodec.CreateVideoSource(format.VideoCodec, opts.VideoBitrateKbps, format.FrameRate, opts.KeyFrameIntervalSec, opts.Latency)
		videoSource = &vs
	}
	var audioSource *rcodec.AudioSource
	if format.HasAudio {
		as := rcodec.CreateAudioSource(format.AudioCodec, opts.AudioBitrateKbps)
		audioSource = &as
	}
	return format, videoSource, audioSource, nil
}
