package rmediastore

import (
	"bytes"
	"context"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"time"

	"github.com/dhowden/tag"

	_ "github.com/chai2010/webp"

	"github.com/mantonx/reelforge/internal/rerr"
)

// AudioMetadata is tag/duration information read straight off a source
// file, used by callers building a composition to resolve sourceEnd for an
// audio item whose trim points weren't supplied explicitly.
type AudioMetadata struct {
	Title         string
	Artist        string
	Album         string
	Duration      time.Duration
	ArtworkWidth  int
	ArtworkHeight int
}

// AudioMetadata reads a source file's embedded tag metadata. It is not
// part of the mediaio.MediaStore contract — a caller resolving sourceEnd
// for an audio item with no explicit trim point uses it to find the
// track's natural duration before building the composition.
func (s *Store) AudioMetadata(ctx context.Context, src string) (AudioMetadata, error) {
	path, err := s.resolvePath(src)
	if err != nil {
		return AudioMetadata{}, err
	}

	f, err := os.Open(path)
	if err != nil {
		return AudioMetadata{}, rerr.Wrap(rerr.MediaUnavailable, err)
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return AudioMetadata{}, rerr.Wrap(rerr.MediaUnavailable, err)
	}

	meta := AudioMetadata{Title: m.Title(), Artist: m.Artist(), Album: m.Album()}

	if pic := m.Picture(); pic != nil {
		if cfg, _, err := image.DecodeConfig(bytes.NewReader(pic.Data)); err == nil {
			meta.ArtworkWidth, meta.ArtworkHeight = cfg.Width, cfg.Height
		}
	}

	if probe, err := probeVideo(ctx, path); err == nil {
		meta.Duration = probe.Duration
	}

	return meta, nil
}
