package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEffectiveAlignmentDefaultsToHalf(t *testing.T) {
	tr := Transition{}
	assert.Equal(t, 0.5, tr.EffectiveAlignment())
}

func TestEffectiveAlignmentHonorsExplicitZero(t *testing.T) {
	zero := 0.0
	tr := Transition{Alignment: &zero}
	assert.Equal(t, 0.0, tr.EffectiveAlignment())
}

func TestEffectiveAlignmentHonorsExplicitValue(t *testing.T) {
	v := 0.75
	tr := Transition{Alignment: &v}
	assert.Equal(t, 0.75, tr.EffectiveAlignment())
}
