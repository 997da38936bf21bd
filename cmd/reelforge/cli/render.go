package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mantonx/reelforge/internal/rcodec"
	"github.com/mantonx/reelforge/internal/rconfig"
	"github.com/mantonx/reelforge/internal/rid"
	"github.com/mantonx/reelforge/internal/rlog"
	"github.com/mantonx/reelforge/internal/rmediastore"
	"github.com/mantonx/reelforge/internal/rorchestrator"
	"github.com/mantonx/reelforge/pkg/mediaio"
	"github.com/mantonx/reelforge/pkg/scene"
)

var renderFlags struct {
	input      string
	output     string
	mediaRoot  string
	fontsDir   string
	container  string
	videoCodec string
	audioCodec string
	width      int
	height     int
	configPath string
}

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a composition JSON file to a finished container",
	RunE:  runRender,
}

func init() {
	flags := renderCmd.Flags()
	flags.StringVar(&renderFlags.input, "input", "", "path to the composition JSON file (required)")
	flags.StringVar(&renderFlags.output, "output", "", "path to write the rendered container (required)")
	flags.StringVar(&renderFlags.mediaRoot, "media-root", ".", "directory every composition src path is resolved against")
	flags.StringVar(&renderFlags.fontsDir, "fonts-dir", "./fonts", "directory of <family>-<weight>.ttf files")
	flags.StringVar(&renderFlags.container, "container", "mp4", "output container: mp4, mov, webm, mkv, mp3, aac, wav")
	flags.StringVar(&renderFlags.videoCodec, "video-codec", "", "video codec override, empty picks the container default")
	flags.StringVar(&renderFlags.audioCodec, "audio-codec", "", "audio codec override, empty picks the container default")
	flags.IntVar(&renderFlags.width, "width", 0, "export width override, 0 uses the composition's own width")
	flags.IntVar(&renderFlags.height, "height", 0, "export height override, 0 uses the composition's own height")
	flags.StringVar(&renderFlags.configPath, "config", "", "path to an engine settings YAML file, empty uses defaults")
	_ = renderCmd.MarkFlagRequired("input")
	_ = renderCmd.MarkFlagRequired("output")
}

func runRender(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	comp, err := loadComposition(renderFlags.input)
	if err != nil {
		return err
	}

	settings, err := rconfig.Load(renderFlags.configPath)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	log := rlog.New(rid.NewJobID())

	store, err := rmediastore.New(renderFlags.mediaRoot, log.Named(rlog.MediaStore))
	if err != nil {
		return fmt.Errorf("open media store: %w", err)
	}
	defer store.Close()

	fonts := rmediastore.NewFontProvider(renderFlags.fontsDir, settings.Resources.TextMeasureCacheCap)

	resolve := subCompositionResolver(renderFlags.input)

	orch := rorchestrator.New(store, fonts, resolve, settings, log.Named(rlog.Orchestrator))

	opts := rorchestrator.ExportOptions{
		Container:  rcodec.Container(renderFlags.container),
		VideoCodec: rcodec.VideoCodec(renderFlags.videoCodec),
		AudioCodec: rcodec.AudioCodec(renderFlags.audioCodec),
		Width:      renderFlags.width,
		Height:     renderFlags.height,
	}

	result, err := orch.Render(ctx, comp, opts, printProgress)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}

	if err := os.WriteFile(renderFlags.output, result.Bytes, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	fmt.Fprintf(os.Stderr, "\nwrote %s (%d bytes, %.2fs, %s)\n", renderFlags.output, result.ByteSize, result.DurationSeconds, result.MimeType)
	return nil
}

func loadComposition(path string) (*scene.Composition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read composition %s: %w", path, err)
	}
	var comp scene.Composition
	if err := json.Unmarshal(data, &comp); err != nil {
		return nil, fmt.Errorf("parse composition %s: %w", path, err)
	}
	return &comp, nil
}

// subCompositionResolver loads a sub-composition referenced by ID from a
// sibling JSON file named "<compositionID>.json" next to the top-level
// composition — the simplest resolution rule a standalone CLI can apply
// without a project manifest or asset database to consult.
func subCompositionResolver(inputPath string) func(ctx context.Context, compositionID string) (*scene.Composition, error) {
	dir := filepath.Dir(inputPath)
	return func(ctx context.Context, compositionID string) (*scene.Composition, error) {
		return loadComposition(filepath.Join(dir, compositionID+".json"))
	}
}

func printProgress(p mediaio.Progress) {
	if p.TotalFrames > 0 {
		fmt.Fprintf(os.Stderr, "\r%-11s %5.1f%% (%d/%d) %s", p.Phase, p.ProgressPct, p.CurrentFrame, p.TotalFrames, p.Message)
		return
	}
	fmt.Fprintf(os.Stderr, "\r%-11s %5.1f%% %s", p.Phase, p.ProgressPct, p.Message)
}
