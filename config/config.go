// Package config loads split configurations from YAML and the environment.
package config

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"

	"github.com/sartorproj/timesplit/window"
)

// EnvPrefix is the prefix of environment overrides, e.g. TIMESPLIT_TRAIN_SIZE.
const EnvPrefix = "TIMESPLIT_"

const maxConfigFileSize = 1024 * 1024 // 1MB

// Keys of the split configuration.
const (
	KeyFrequency       = "frequency"
	KeyTrainSize       = "train_size"
	KeyForecastHorizon = "forecast_horizon"
	KeyGap             = "gap"
	KeyStride          = "stride"
	KeyWindow          = "window"
)

var intKeys = []string{KeyTrainSize, KeyForecastHorizon, KeyGap, KeyStride}

// Load reads a split configuration from a YAML file, then applies
// TIMESPLIT_* environment overrides. An empty path loads from the
// environment only.
//
// Configuration precedence (highest to lowest):
//  1. Environment variables (TIMESPLIT_TRAIN_SIZE, TIMESPLIT_WINDOW, ...)
//  2. YAML config file
//  3. Defaults: frequency days, gap 0, window rolling, stride unset
func Load(path string) (window.Config, error) {
	var content []byte
	if path != "" {
		info, err := os.Stat(path)
		if err != nil {
			return window.Config{}, fmt.Errorf("failed to stat config file: %w", err)
		}
		if info.Size() > maxConfigFileSize {
			return window.Config{}, fmt.Errorf("config file %s exceeds %d bytes", path, maxConfigFileSize)
		}
		content, err = os.ReadFile(path)
		if err != nil {
			return window.Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
	}
	return LoadBytes(content)
}

// LoadBytes is Load for in-memory YAML.
func LoadBytes(content []byte) (window.Config, error) {
	k := koanf.New(".")

	if len(content) > 0 {
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return window.Config{}, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	// TIMESPLIT_FORECAST_HORIZON -> forecast_horizon
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return window.Config{}, fmt.Errorf("failed to load environment variables: %w", err)
	}

	return fromKoanf(k)
}

func fromKoanf(k *koanf.Koanf) (window.Config, error) {
	cfg := window.Config{Frequency: window.Days, Window: window.Rolling}

	if k.Exists(KeyFrequency) {
		f, err := window.ParseFrequency(k.String(KeyFrequency))
		if err != nil {
			return window.Config{}, err
		}
		cfg.Frequency = f
	}

	ints := make(map[string]int, len(intKeys))
	var bad []string
	for _, key := range intKeys {
		if !k.Exists(key) {
			continue
		}
		raw := k.Get(key)
		if raw == nil {
			continue
		}
		v, ok := asInt(raw)
		if !ok {
			bad = append(bad, key)
			continue
		}
		ints[key] = v
	}
	if len(bad) > 0 {
		return window.Config{}, fmt.Errorf("%w, got non-integer %s", window.ErrNotInteger, strings.Join(bad, ", "))
	}
	cfg.TrainSize = ints[KeyTrainSize]
	cfg.ForecastHorizon = ints[KeyForecastHorizon]
	cfg.Gap = ints[KeyGap]
	cfg.Stride = ints[KeyStride]

	var modeErr error
	if k.Exists(KeyWindow) {
		cfg.Window, modeErr = window.ParseMode(k.String(KeyWindow))
	}

	// bounds are reported before an unknown window mode
	if err := cfg.Validate(); err != nil {
		return window.Config{}, err
	}
	if modeErr != nil {
		return window.Config{}, modeErr
	}
	return cfg, nil
}

// asInt accepts integer kinds and decimal integer strings (environment
// values). Floats are rejected even when integral, e.g. 1.0.
func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		if n < math.MinInt || n > math.MaxInt {
			return 0, false
		}
		return int(n), true
	case int32:
		return int(n), true
	case uint64:
		if n > math.MaxInt {
			return 0, false
		}
		return int(n), true
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		return i, err == nil
	}
	return 0, false
}
