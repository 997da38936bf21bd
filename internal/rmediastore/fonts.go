package rmediastore

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mantonx/reelforge/internal/rtext"
)

// NewFontProvider returns a mediaio.FontProvider backed by TrueType files
// under fontsDir, named "<family>-<weight>.ttf" (e.g. "Inter-bold.ttf"),
// falling back to "<family>-regular.ttf" for an unrecognized weight.
func NewFontProvider(fontsDir string, measureCacheCap int) *rtext.Provider {
	loader := func(family, weight string) ([]byte, error) {
		candidates := []string{
			filepath.Join(fontsDir, fmt.Sprintf("%s-%s.ttf", family, weight)),
			filepath.Join(fontsDir, fmt.Sprintf("%s-regular.ttf", family)),
		}
		var lastErr error
		for _, path := range candidates {
			data, err := os.ReadFile(path)
			if err == nil {
				return data, nil
			}
			lastErr = err
		}
		return nil, fmt.Errorf("no font file found for %s/%s under %s: %w", family, weight, fontsDir, lastErr)
	}
	return rtext.NewProvider(measureCacheCap, loader)
}
