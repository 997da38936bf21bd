// Package rerr defines the render engine's typed error kinds and the
// propagation rules attached to them: local-recovery kinds are logged and
// swallowed by callers, the rest cancel the render and surface.
package rerr

import (
	"errors"
	"fmt"
)

// Kind identifies one of the engine's error categories. Kind values are
// sentinels, not string codes, so callers branch with errors.Is.
type Kind error

var (
	// InputInvalid: composition invariants violated. Surfaced, no recovery.
	InputInvalid Kind = errors.New("input invalid")
	// CodecUnsupported: requested codec/container not available. Surfaced.
	CodecUnsupported Kind = errors.New("codec unsupported")
	// MediaUnavailable: fetch/decode for one item failed. Local recovery.
	MediaUnavailable Kind = errors.New("media unavailable")
	// DecodeRecoverable: transient decode error. Local recovery: the item is
	// skipped for the current frame; the decode is not retried.
	DecodeRecoverable Kind = errors.New("decode recoverable")
	// Cancelled: caller-initiated cancellation. Surfaced.
	Cancelled Kind = errors.New("cancelled")
	// EncoderFatal: encoder rejected a sample or finalize failed. Surfaced.
	EncoderFatal Kind = errors.New("encoder fatal")
)

// wrapped pairs a sentinel Kind with the concrete cause, keeping both
// errors.Is(err, Kind) and errors.Unwrap(err) working.
type wrapped struct {
	kind  Kind
	cause error
}

func (w *wrapped) Error() string {
	if w.cause == nil {
		return w.kind.Error()
	}
	return fmt.Sprintf("%s: %v", w.kind.Error(), w.cause)
}

func (w *wrapped) Unwrap() error { return w.kind }

func (w *wrapped) Is(target error) bool {
	return errors.Is(w.kind, target)
}

// Wrap attaches kind to cause. Wrap(kind, nil) yields a bare kind error.
func Wrap(kind Kind, cause error) error {
	if cause == nil {
		return kind
	}
	return &wrapped{kind: kind, cause: cause}
}

// Wrapf is Wrap with a formatted cause message.
func Wrapf(kind Kind, format string, args ...interface{}) error {
	return Wrap(kind, fmt.Errorf(format, args...))
}

// IsLocalRecovery reports whether err belongs to a kind that should be
// logged and swallowed rather than surfaced to the caller.
func IsLocalRecovery(err error) bool {
	return errors.Is(err, MediaUnavailable) || errors.Is(err, DecodeRecoverable)
}
