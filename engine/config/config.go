package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/pcercuei/openrw/engine/core"
)

// Window holds the windowing and swap-chain settings.
type Window struct {
	Title  string `toml:"title"`
	Width  int32  `toml:"width"`
	Height int32  `toml:"height"`
	VSync  bool   `toml:"vsync"`
}

// Renderer holds the renderer tunables.
type Renderer struct {
	// Profiling turns on GPU timing for debug groups.
	Profiling bool `toml:"profiling"`
	// ObjectRingEntries is the depth of the per-object uniform ring. Zero
	// keeps the built-in default.
	ObjectRingEntries int `toml:"object_ring_entries"`
}

// Config is the application configuration, loaded from TOML.
type Config struct {
	Window   Window   `toml:"window"`
	Renderer Renderer `toml:"renderer"`
	// ShaderDir is watched for live shader reloads. Empty disables the
	// watcher.
	ShaderDir string `toml:"shader_dir"`
	LogLevel  string `toml:"log_level"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Window: Window{
			Title:  "openrw",
			Width:  1280,
			Height: 720,
			VSync:  true,
		},
		LogLevel: "info",
	}
}

// Load reads the TOML file at path over the defaults. A missing file is
// not an error; the defaults apply unchanged.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		core.LogDebug("no config at %s, using defaults", path)
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size %dx%d", c.Window.Width, c.Window.Height)
	}
	if c.Renderer.ObjectRingEntries < 0 {
		return fmt.Errorf("object ring entries %d", c.Renderer.ObjectRingEntries)
	}
	return nil
}
