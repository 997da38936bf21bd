// Package rconfig holds the render engine's tunable settings: resource-pool
// caps, in-flight queue depth, and media timeouts. Settings load as a
// yaml-tagged struct, env-tag overrides with a default fallback, loaded by
// reflection — scaled down to what a library (as opposed to a long-running
// server) actually needs.
package rconfig

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Settings are the engine-wide knobs a caller may override; every field has
// a sensible default so a zero-value Settings{} never reaches the
// orchestrator unconfigured.
type Settings struct {
	Resources ResourceConfig `yaml:"resources" json:"resources"`
	Timeouts  TimeoutConfig  `yaml:"timeouts" json:"timeouts"`
	Audio     AudioConfig    `yaml:"audio" json:"audio"`
}

// ResourceConfig bounds the canvas pool, in-flight encoder queue, and
// text-measure cache.
type ResourceConfig struct {
	CanvasPoolCap      int `yaml:"canvas_pool_cap" json:"canvas_pool_cap" env:"REELFORGE_CANVAS_POOL_CAP" default:"8"`
	InFlightFrameQueue int `yaml:"in_flight_frame_queue" json:"in_flight_frame_queue" env:"REELFORGE_IN_FLIGHT_FRAMES" default:"16"`
	TextMeasureCacheCap int `yaml:"text_measure_cache_cap" json:"text_measure_cache_cap" env:"REELFORGE_TEXT_CACHE_CAP" default:"1000"`
	MaxSubCompositionDepth int `yaml:"max_subcomposition_depth" json:"max_subcomposition_depth" env:"REELFORGE_MAX_SUBCOMP_DEPTH" default:"8"`
	MaxSubCompositionFrames int `yaml:"max_subcomposition_frames" json:"max_subcomposition_frames" env:"REELFORGE_MAX_SUBCOMP_FRAMES" default:"216000"`
}

// TimeoutConfig caps network/media fetch waits.
type TimeoutConfig struct {
	VideoLoad      time.Duration `yaml:"video_load" json:"video_load" env:"REELFORGE_VIDEO_LOAD_TIMEOUT" default:"10s"`
	DecodeReady    time.Duration `yaml:"decode_ready" json:"decode_ready" env:"REELFORGE_DECODE_READY_TIMEOUT" default:"1s"`
}

// AudioConfig bounds concurrent decode and sets the mix sample rate.
type AudioConfig struct {
	SampleRate              int `yaml:"sample_rate" json:"sample_rate" env:"REELFORGE_AUDIO_SAMPLE_RATE" default:"48000"`
	MaxConcurrentDecodes    int `yaml:"max_concurrent_decodes" json:"max_concurrent_decodes" env:"REELFORGE_AUDIO_MAX_CONCURRENT_DECODES" default:"4"`
}

// Default returns Settings with every built-in default applied.
func Default() Settings {
	var s Settings
	_ = loadStructDefaults(reflect.ValueOf(&s).Elem())
	return s
}

// Load reads YAML from path (if non-empty and present), layers environment
// overrides on top, and falls back to defaults for anything unset.
func Load(path string) (Settings, error) {
	s := Default()

	if path != "" {
		if data, err := os.ReadFile(path); err == nil {
			if err := yaml.Unmarshal(data, &s); err != nil {
				return Settings{}, fmt.Errorf("parse config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return Settings{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	if err := loadStructFromEnv(reflect.ValueOf(&s).Elem()); err != nil {
		return Settings{}, fmt.Errorf("load config from environment: %w", err)
	}

	return s, nil
}

func loadStructDefaults(v reflect.Value) error {
	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		fieldType := t.Field(i)
		if !field.CanSet() {
			continue
		}
		if field.Kind() == reflect.Struct {
			if err := loadStructDefaults(field); err != nil {
				return err
			}
			continue
		}
		if def := fieldType.Tag.Get("default"); def != "" {
			if err := setFieldValue(field, def); err != nil {
				return fmt.Errorf("default for %s: %w", fieldType.Name, err)
			}
		}
	}
	return nil
}

func loadStructFromEnv(v reflect.Value) error {
	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		fieldType := t.Field(i)
		if !field.CanSet() {
			continue
		}
		if field.Kind() == reflect.Struct {
			if err := loadStructFromEnv(field); err != nil {
				return err
			}
			continue
		}
		envTag := fieldType.Tag.Get("env")
		if envTag == "" {
			continue
		}
		envValue := os.Getenv(envTag)
		if envValue == "" {
			continue
		}
		if err := setFieldValue(field, envValue); err != nil {
			return fmt.Errorf("env %s for %s: %w", envTag, fieldType.Name, err)
		}
	}
	return nil
}

func setFieldValue(field reflect.Value, value string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if field.Type() == reflect.TypeOf(time.Duration(0)) {
			d, err := time.ParseDuration(value)
			if err != nil {
				return err
			}
			field.SetInt(int64(d))
			return nil
		}
		iv, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return err
		}
		field.SetInt(iv)
	case reflect.Bool:
		bv, err := strconv.ParseBool(value)
		if err != nil {
			return err
		}
		field.SetBool(bv)
	default:
		return fmt.Errorf("unsupported field kind: %v", field.Kind())
	}
	return nil
}
