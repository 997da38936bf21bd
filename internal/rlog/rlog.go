// Package rlog constructs the engine's root hclog.Logger and hands out
// named sub-loggers per subsystem via logger.Named(...).
package rlog

import (
	"os"

	"github.com/hashicorp/go-hclog"
)

// New builds the root logger for one render. name is usually the job or
// session ID so concurrent renders' logs can be told apart.
func New(name string) hclog.Logger {
	return hclog.New(&hclog.LoggerOptions{
		Name:            name,
		Level:           levelFromEnv(),
		Output:          os.Stderr,
		IncludeLocation: false,
	})
}

func levelFromEnv() hclog.Level {
	if v := os.Getenv("REELFORGE_LOG_LEVEL"); v != "" {
		return hclog.LevelFromString(v)
	}
	return hclog.Info
}

// Named subsystem names, kept as constants so every caller spells them the
// same way (resolver/compositor/audiomixer/codec/...).
const (
	Resolver     = "resolver"
	Keyframe     = "keyframe"
	Transition   = "transition"
	Compositor   = "compositor"
	Effects      = "effects"
	AudioMixer   = "audiomixer"
	Codec        = "codec"
	Orchestrator = "orchestrator"
	MediaStore   = "mediastore"
)
