// Package config holds the requirement lists and settings the negotiation runs against.
package config

import (
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/gobuffalo/envy"
	"github.com/sirupsen/logrus"
	"github.com/vkngwrapper/extensions/v3/khr_swapchain"
)

// Environment overrides. envy also picks them up from a .env file in the working directory.
const (
	EnvValidation = "RT_VALIDATION"
	EnvShaderDir  = "RT_SHADER_DIR"
	EnvLogLevel   = "RT_LOG_LEVEL"
)

type Window struct {
	Title  string
	Width  int
	Height int
}

type Validation struct {
	Enabled bool
	Layers  []string
}

type Shaders struct {
	Directory string
	Vertex    string
	Fragment  string
}

type Config struct {
	Window           Window
	Validation       Validation
	DeviceExtensions []string
	Shaders          Shaders
	LogLevel         logrus.Level
}

func Default() Config {
	return Config{
		Window: Window{
			Title:  "Vulkan Raytracing",
			Width:  800,
			Height: 600,
		},
		Validation: Validation{
			Enabled: false,
			Layers:  []string{"VK_LAYER_KHRONOS_validation"},
		},
		DeviceExtensions: []string{khr_swapchain.ExtensionName},
		Shaders: Shaders{
			Directory: "shaders",
			Vertex:    "vert.spv",
			Fragment:  "frag.spv",
		},
		LogLevel: logrus.WarnLevel,
	}
}

// FromEnv overlays the environment on top of Default.
func FromEnv() (Config, error) {
	return Overlay(Default(), envy.Get)
}

// Overlay applies overrides read through get, which returns fallback when a key is unset.
func Overlay(cfg Config, get func(key, fallback string) string) (Config, error) {
	if v := get(EnvValidation, ""); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return cfg, errors.Wrapf(err, "%s", EnvValidation)
		}
		cfg.Validation.Enabled = enabled
	}

	cfg.Shaders.Directory = get(EnvShaderDir, cfg.Shaders.Directory)

	if v := get(EnvLogLevel, ""); v != "" {
		level, err := logrus.ParseLevel(v)
		if err != nil {
			return cfg, errors.Wrapf(err, "%s", EnvLogLevel)
		}
		cfg.LogLevel = level
	}

	return cfg, nil
}
