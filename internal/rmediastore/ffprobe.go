package rmediastore

import (
	"context"
	"encoding/json"
	"os/exec"
	"strconv"
	"time"

	"github.com/mantonx/reelforge/internal/rerr"
)

var ffprobeBinary = "ffprobe"

type probeStream struct {
	CodecType string `json:"codec_type"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
}

type probeOutput struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
	Streams []probeStream `json:"streams"`
}

type videoProbe struct {
	Width, Height int
	Duration      time.Duration
}

// probeVideo resolves a source's video stream dimensions and container
// duration via ffprobe's JSON report.
func probeVideo(ctx context.Context, path string) (videoProbe, error) {
	cmd := exec.CommandContext(ctx, ffprobeBinary,
		"-v", "error",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		path,
	)
	out, err := cmd.Output()
	if err != nil {
		return videoProbe{}, rerr.Wrap(rerr.MediaUnavailable, err)
	}

	var parsed probeOutput
	if err := json.Unmarshal(out, &parsed); err != nil {
		return videoProbe{}, rerr.Wrap(rerr.MediaUnavailable, err)
	}

	var probe videoProbe
	for _, st := range parsed.Streams {
		if st.CodecType == "video" {
			probe.Width, probe.Height = st.Width, st.Height
			break
		}
	}
	if d, err := strconv.ParseFloat(parsed.Format.Duration, 64); err == nil {
		probe.Duration = time.Duration(d * float64(time.Second))
	}
	return probe, nil
}
