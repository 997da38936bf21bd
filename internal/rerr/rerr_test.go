package rerr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapIsUnwrap(t *testing.T) {
	cause := errors.New("disk gone")
	err := Wrap(MediaUnavailable, cause)

	assert.True(t, errors.Is(err, MediaUnavailable))
	assert.False(t, errors.Is(err, Cancelled))
	assert.Contains(t, err.Error(), "disk gone")
}

func TestWrapNilCause(t *testing.T) {
	err := Wrap(Cancelled, nil)
	assert.Equal(t, Cancelled, err)
}

func TestIsLocalRecovery(t *testing.T) {
	assert.True(t, IsLocalRecovery(Wrap(MediaUnavailable, errors.New("x"))))
	assert.True(t, IsLocalRecovery(Wrap(DecodeRecoverable, errors.New("x"))))
	assert.False(t, IsLocalRecovery(Wrap(EncoderFatal, errors.New("x"))))
	assert.False(t, IsLocalRecovery(Wrap(Cancelled, nil)))
}

func TestWrapf(t *testing.T) {
	err := Wrapf(InputInvalid, "fps %d out of range", 0)
	assert.True(t, errors.Is(err, InputInvalid))
	assert.Contains(t, err.Error(), "fps 0 out of range")
}
