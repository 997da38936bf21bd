package rtext

import (
	"fmt"
	"image"
	"image/color"
	"strconv"
	"sync"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// FontLoader resolves a family/weight pair to raw TrueType bytes — the
// caller's font store, not something this package owns.
type FontLoader func(family, weight string) ([]byte, error)

// Provider is the default FontProvider: it parses TrueType fonts on first
// use via load, caches the parsed *truetype.Font per family/weight, and
// memoizes measurements through a Cache.
type Provider struct {
	load  FontLoader
	cache *Cache

	mu    sync.RWMutex
	fonts map[string]*truetype.Font
}

// NewProvider returns a Provider that resolves fonts via load and memoizes
// up to cacheCap text measurements.
func NewProvider(cacheCap int, load FontLoader) *Provider {
	return &Provider{load: load, cache: NewCache(cacheCap), fonts: make(map[string]*truetype.Font)}
}

func fontKey(family, weight string) string { return family + "|" + weight }

func (p *Provider) fontFor(family, weight string) (*truetype.Font, error) {
	key := fontKey(family, weight)

	p.mu.RLock()
	f, ok := p.fonts[key]
	p.mu.RUnlock()
	if ok {
		return f, nil
	}

	raw, err := p.load(family, weight)
	if err != nil {
		return nil, fmt.Errorf("load font %s/%s: %w", family, weight, err)
	}
	parsed, err := truetype.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse font %s/%s: %w", family, weight, err)
	}

	p.mu.Lock()
	p.fonts[key] = parsed
	p.mu.Unlock()
	return parsed, nil
}

func (p *Provider) faceFor(family, weight string, size float64) (font.Face, error) {
	f, err := p.fontFor(family, weight)
	if err != nil {
		return nil, err
	}
	return truetype.NewFace(f, &truetype.Options{Size: size, DPI: 72, Hinting: font.HintingFull}), nil
}

// MeasureText returns text's rendered width/height, summing per-glyph
// advances plus letterSpacing between glyphs rather than relying on
// font.MeasureString, which has no notion of extra tracking.
func (p *Provider) MeasureText(family, weight string, size, letterSpacing float64, text string) (float64, float64, error) {
	return p.cache.GetOrMeasure(family, weight, size, letterSpacing, text, func() (float64, float64, error) {
		face, err := p.faceFor(family, weight, size)
		if err != nil {
			return 0, 0, err
		}
		defer closeFace(face)

		var width fixed.Int26_6
		runes := []rune(text)
		for i, r := range runes {
			adv, ok := face.GlyphAdvance(r)
			if !ok {
				continue
			}
			width += adv
			if i < len(runes)-1 {
				width += fixed.I(int(letterSpacing))
			}
		}

		metrics := face.Metrics()
		height := float64((metrics.Ascent + metrics.Descent).Ceil())
		return float64(width.Ceil()), height, nil
	})
}

// DrawText rasterizes text into target at (x, y), where y is the text
// baseline.
func (p *Provider) DrawText(target *image.RGBA, family, weight string, size float64, colorHex string, x, y float64, text string) error {
	f, err := p.fontFor(family, weight)
	if err != nil {
		return err
	}

	ctx := freetype.NewContext()
	ctx.SetDPI(72)
	ctx.SetFont(f)
	ctx.SetFontSize(size)
	ctx.SetClip(target.Bounds())
	ctx.SetDst(target)
	ctx.SetSrc(image.NewUniform(parseHexColor(colorHex)))
	ctx.SetHinting(font.HintingFull)

	pt := freetype.Pt(int(x), int(y))
	_, err = ctx.DrawString(text, pt)
	return err
}

func closeFace(f font.Face) {
	if c, ok := f.(interface{ Close() error }); ok {
		_ = c.Close()
	}
}

func parseHexColor(hex string) color.RGBA {
	if len(hex) > 0 && hex[0] == '#' {
		hex = hex[1:]
	}
	if len(hex) != 6 {
		return color.RGBA{A: 255}
	}
	r, _ := strconv.ParseUint(hex[0:2], 16, 8)
	g, _ := strconv.ParseUint(hex[2:4], 16, 8)
	b, _ := strconv.ParseUint(hex[4:6], 16, 8)
	return color.RGBA{R: uint8(r), G: uint8(g), B: uint8(b), A: 255}
}
