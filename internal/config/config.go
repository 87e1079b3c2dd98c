package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/leftmike/gcsim"
)

// Channel describes one channel's program: a file (relative to the config file) or inline
// text, plus the breakpoints, as one-based line numbers, to set before starting.
type Channel struct {
	Program     string `yaml:"program,omitempty"`
	Text        string `yaml:"text,omitempty"`
	Breakpoints []int  `yaml:"breakpoints,omitempty"`
}

// Config is the contents of a gcsim.yaml session file.
type Config struct {
	Main      Channel       `yaml:"main"`
	Sub       Channel       `yaml:"sub"`
	Speed     float64       `yaml:"speed,omitempty"`
	Interval  time.Duration `yaml:"interval,omitempty"`
	FrameRate time.Duration `yaml:"frame_rate,omitempty"`

	dir string
}

func Default() *Config {
	return &Config{
		Speed:     1.0,
		Interval:  gcsim.DefaultInterval,
		FrameRate: gcsim.DefaultFrameRate,
	}
}

// Load reads a session file; fields it leaves out keep their defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config: empty path")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("config: resolve %s: %w", path, err)
	}
	f, err := os.Open(abs)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	defer f.Close()

	cfg := Default()
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", abs, err)
	}
	cfg.dir = filepath.Dir(abs)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", abs, err)
	}
	return cfg, nil
}

func (cfg *Config) Validate() error {
	if cfg.Speed <= 0 {
		return fmt.Errorf("speed must be positive: %v", cfg.Speed)
	}
	if cfg.Interval <= 0 {
		return fmt.Errorf("interval must be positive: %s", cfg.Interval)
	}
	if cfg.FrameRate <= 0 {
		return fmt.Errorf("frame_rate must be positive: %s", cfg.FrameRate)
	}
	for _, ch := range []*Channel{&cfg.Main, &cfg.Sub} {
		if ch.Program != "" && ch.Text != "" {
			return fmt.Errorf("program and text both given: %s", ch.Program)
		}
		for _, line := range ch.Breakpoints {
			if line < 1 {
				return fmt.Errorf("breakpoint must be at least line 1: %d", line)
			}
		}
	}
	return nil
}

func (cfg *Config) Channel(ch gcsim.Channel) *Channel {
	if ch == gcsim.Sub {
		return &cfg.Sub
	}
	return &cfg.Main
}

// Text returns the program for ch, reading it from disk if it is given as a file.
func (cfg *Config) Text(ch gcsim.Channel) (string, error) {
	c := cfg.Channel(ch)
	if c.Program == "" {
		return c.Text, nil
	}

	path := c.Program
	if !filepath.IsAbs(path) && cfg.dir != "" {
		path = filepath.Join(cfg.dir, path)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s program: %w", ch, err)
	}
	return string(b), nil
}

func (cfg *Config) Options() gcsim.Options {
	return gcsim.Options{
		Interval: cfg.Interval,
		Speed:    cfg.Speed,
	}
}

// Session builds a session from the config, with its breakpoints already set.
func (cfg *Config) Session(events *gcsim.Events) (*gcsim.Session, error) {
	main, err := cfg.Text(gcsim.Main)
	if err != nil {
		return nil, err
	}
	sub, err := cfg.Text(gcsim.Sub)
	if err != nil {
		return nil, err
	}

	s := gcsim.NewSession(main, sub, events, cfg.Options())
	for _, ch := range []gcsim.Channel{gcsim.Main, gcsim.Sub} {
		for _, n := range cfg.Channel(ch).Breakpoints {
			// Breakpoints are one-based here and zero-based in the engine.
			line := n - 1
			if s.Engine().HasBreakpoint(ch, line) {
				continue
			}
			err = s.Dispatch(gcsim.ToggleBreakpoint{Channel: ch, Line: line})
			if err != nil {
				return nil, err
			}
		}
	}
	return s, nil
}
