package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultNoOpValue(t *testing.T) {
	assert.Equal(t, 100.0, FilterBrightness.DefaultNoOpValue())
	assert.Equal(t, 100.0, FilterContrast.DefaultNoOpValue())
	assert.Equal(t, 100.0, FilterSaturate.DefaultNoOpValue())
	assert.Equal(t, 0.0, FilterBlur.DefaultNoOpValue())
	assert.Equal(t, 0.0, FilterHueRotate.DefaultNoOpValue())
	assert.Equal(t, 0.0, FilterGrayscale.DefaultNoOpValue())
}

func TestIntroducesTransparencyDisabledEffectNeverIntroducesIt(t *testing.T) {
	e := &ItemEffect{Enabled: false, Kind: EffectGlitch}
	assert.False(t, e.IntroducesTransparency())
}

func TestIntroducesTransparencyGlitchAndHalftoneDo(t *testing.T) {
	assert.True(t, (&ItemEffect{Enabled: true, Kind: EffectGlitch}).IntroducesTransparency())
	assert.True(t, (&ItemEffect{Enabled: true, Kind: EffectHalftone}).IntroducesTransparency())
}

func TestIntroducesTransparencyFilterAndVignetteDoNot(t *testing.T) {
	assert.False(t, (&ItemEffect{Enabled: true, Kind: EffectCSSFilter}).IntroducesTransparency())
	assert.False(t, (&ItemEffect{Enabled: true, Kind: EffectVignette}).IntroducesTransparency())
}
