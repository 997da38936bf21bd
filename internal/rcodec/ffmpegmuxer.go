package rcodec

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/hashicorp/go-hclog"

	"github.com/mantonx/reelforge/internal/rerr"
	"github.com/mantonx/reelforge/pkg/mediaio"
)

// ffmpegBinary is resolved once; overridable for tests that stub the
// subprocess boundary.
var ffmpegBinary = "ffmpeg"

// ffmpegMuxer drives an ffmpeg subprocess: build an argument list, start the
// process, stream input, wait, read the finished file. It has no source
// file to transcode — video frames arrive one at a time over stdin as raw
// RGBA, and the full mixed audio buffer is written to a scratch file before
// the process starts.
type ffmpegMuxer struct {
	format Format
	video  *VideoSource
	audio  *AudioSource
	log    hclog.Logger

	mu         sync.Mutex
	tempDir    string
	audioPath  string
	outputPath string
	hasAudio   bool
	audioRate  int
	audioChans int

	cmd     *exec.Cmd
	stdin   io.WriteCloser
	started bool
}

func newFFmpegMuxer(format Format, video *VideoSource, audio *AudioSource, log hclog.Logger) *ffmpegMuxer {
	return &ffmpegMuxer{format: format, video: video, audio: audio, log: log}
}

func (m *ffmpegMuxer) start(ctx context.Context) error {
	dir, err := os.MkdirTemp("", "reelforge-encode-*")
	if err != nil {
		return rerr.Wrap(rerr.EncoderFatal, err)
	}
	m.tempDir = dir
	m.audioPath = filepath.Join(dir, "audio.pcm")
	m.outputPath = filepath.Join(dir, "output."+string(m.format.Container))
	return nil
}

// writeAudio writes the complete mixed buffer to a scratch PCM file before
// the ffmpeg process is spawned, matching the orchestrator's "submit the
// full mixed audio buffer" step that precedes the per-frame video loop.
func (m *ffmpegMuxer) writeAudio(ctx context.Context, buf mediaio.AudioBuffer) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	numChans := len(buf.Channels)
	if numChans == 0 {
		return nil
	}
	numFrames := len(buf.Channels[0])
	raw := make([]byte, numFrames*numChans*2)
	for s := 0; s < numFrames; s++ {
		for c := 0; c < numChans; c++ {
			v := floatToPCM16(float64(buf.Channels[c][s]))
			idx := (s*numChans + c) * 2
			raw[idx] = byte(v)
			raw[idx+1] = byte(v >> 8)
		}
	}
	if err := os.WriteFile(m.audioPath, raw, 0o644); err != nil {
		return rerr.Wrap(rerr.EncoderFatal, err)
	}
	m.hasAudio = true
	m.audioRate = buf.SampleRate
	m.audioChans = numChans
	return nil
}

func (m *ffmpegMuxer) writeVideoFrame(ctx context.Context, sample VideoSample) error {
	m.mu.Lock()
	if !m.started {
		if err := m.spawn(ctx); err != nil {
			m.mu.Unlock()
			return err
		}
	}
	stdin := m.stdin
	m.mu.Unlock()

	if stdin == nil {
		return rerr.Wrapf(rerr.EncoderFatal, "ffmpeg stdin unavailable")
	}

	img := sample.Image
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+w*4]
		if _, err := stdin.Write(row); err != nil {
			return rerr.Wrap(rerr.EncoderFatal, err)
		}
	}
	return nil
}

func (m *ffmpegMuxer) spawn(ctx context.Context) error {
	args := m.buildArgs()
	m.log.Debug("starting ffmpeg encode", "args", args)

	cmd := exec.CommandContext(ctx, ffmpegBinary, args...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return rerr.Wrap(rerr.EncoderFatal, err)
	}
	cmd.Stderr = nil

	if err := cmd.Start(); err != nil {
		stdin.Close()
		return rerr.Wrapf(rerr.EncoderFatal, "start ffmpeg: %v", err)
	}

	m.cmd = cmd
	m.stdin = stdin
	m.started = true
	return nil
}

func (m *ffmpegMuxer) buildArgs() []string {
	var args []string

	inputIdx := 0
	audioInputIdx, videoInputIdx := -1, -1

	if m.hasAudio {
		args = append(args,
			"-f", "s16le",
			"-ar", strconv.Itoa(m.audioRate),
			"-ac", strconv.Itoa(m.audioChans),
			"-i", m.audioPath,
		)
		audioInputIdx = inputIdx
		inputIdx++
	}
	if m.format.HasVideo {
		args = append(args,
			"-f", "rawvideo",
			"-pix_fmt", "rgba",
			"-s", fmt.Sprintf("%dx%d", m.format.Width, m.format.Height),
			"-r", strconv.Itoa(m.format.FrameRate),
			"-i", "pipe:0",
		)
		videoInputIdx = inputIdx
		inputIdx++
	}

	if videoInputIdx >= 0 {
		args = append(args, "-map", fmt.Sprintf("%d:v:0", videoInputIdx))
		args = append(args, m.videoCodecArgs()...)
	}
	if audioInputIdx >= 0 {
		args = append(args, "-map", fmt.Sprintf("%d:a:0", audioInputIdx))
		args = append(args, m.audioCodecArgs()...)
	}

	args = append(args, "-f", ffmpegFormatName(m.format.Container))
	args = append(args, "-y", m.outputPath)
	return args
}

func (m *ffmpegMuxer) videoCodecArgs() []string {
	if m.video == nil {
		return nil
	}
	args := []string{"-c:v", ffmpegVideoEncoder(m.video.Codec)}
	if m.video.BitrateKbps > 0 {
		args = append(args, "-b:v", strconv.Itoa(m.video.BitrateKbps)+"k")
	}
	gop := m.video.KeyFrameIntervalSec * m.format.FrameRate
	if gop > 0 {
		args = append(args, "-g", strconv.Itoa(gop))
	}
	if m.video.Latency == LatencyRealtime {
		args = append(args, "-preset", "ultrafast", "-tune", "zerolatency")
	} else {
		args = append(args, "-preset", "medium")
	}
	args = append(args, "-pix_fmt", "yuv420p")
	return args
}

func (m *ffmpegMuxer) audioCodecArgs() []string {
	if m.audio == nil {
		return nil
	}
	args := []string{"-c:a", ffmpegAudioEncoder(m.audio.Codec)}
	if m.audio.BitrateKbps > 0 {
		args = append(args, "-b:a", strconv.Itoa(m.audio.BitrateKbps)+"k")
	}
	return args
}

func ffmpegVideoEncoder(codec VideoCodec) string {
	switch codec {
	case VideoAVC:
		return "libx264"
	case VideoHEVC:
		return "libx265"
	case VideoVP8:
		return "libvpx"
	case VideoVP9:
		return "libvpx-vp9"
	case VideoAV1:
		return "libaom-av1"
	default:
		return "libx264"
	}
}

func ffmpegAudioEncoder(codec AudioCodec) string {
	switch codec {
	case AudioAAC:
		return "aac"
	case AudioOpus:
		return "libopus"
	case AudioMP3:
		return "libmp3lame"
	default:
		return "aac"
	}
}

func ffmpegFormatName(container Container) string {
	switch container {
	case ContainerMKV:
		return "matroska"
	case ContainerMOV:
		return "mov"
	default:
		return string(container)
	}
}

func (m *ffmpegMuxer) finalize(ctx context.Context) ([]byte, error) {
	m.mu.Lock()
	if !m.started {
		if err := m.spawn(ctx); err != nil {
			m.mu.Unlock()
			return nil, err
		}
	}
	stdin := m.stdin
	cmd := m.cmd
	outputPath := m.outputPath
	tempDir := m.tempDir
	m.mu.Unlock()

	if stdin != nil {
		stdin.Close()
	}
	if err := cmd.Wait(); err != nil {
		os.RemoveAll(tempDir)
		return nil, rerr.Wrapf(rerr.EncoderFatal, "ffmpeg exited with error: %v", err)
	}

	bytes, err := os.ReadFile(outputPath)
	os.RemoveAll(tempDir)
	if err != nil {
		return nil, rerr.Wrap(rerr.EncoderFatal, err)
	}
	return bytes, nil
}

func (m *ffmpegMuxer) abort() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.stdin != nil {
		m.stdin.Close()
	}
	if m.cmd != nil && m.cmd.Process != nil {
		m.cmd.Process.Kill()
		m.cmd.Wait()
	}
	if m.tempDir != "" {
		os.RemoveAll(m.tempDir)
	}
	return nil
}
