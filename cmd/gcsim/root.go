package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/leftmike/gcsim"
	"github.com/leftmike/gcsim/internal/config"
	"github.com/leftmike/gcsim/internal/version"
)

var configFile string
var mainFile string
var subFile string
var speed float64
var interval time.Duration
var breaks []string
var verbose bool

var rootCmd = &cobra.Command{
	Use:   "gcsim",
	Short: "Step and animate dual-channel G-code programs",
	Long: `gcsim executes a main and a sub spindle G-code program in lock step, tracking
shared #n variables, WAIT sync points, and M98/M99 call stacks, and animates the
tool along each program.

Programs come from --main and --sub or from a gcsim.yaml given with --config.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log.SetFlags(0)
		log.SetPrefix("gcsim: ")
	},
}

func init() {
	rootCmd.Version = version.Version
	rootCmd.SetVersionTemplate(fmt.Sprintf("gcsim %s\n", version.String()))

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&configFile, "config", "c", "", "Session file (yaml)")
	flags.StringVar(&mainFile, "main", "", "Program file for channel 1")
	flags.StringVar(&subFile, "sub", "", "Program file for channel 2")

	// Speed flag with env var fallback
	defaultSpeed := 1.0
	if env := os.Getenv("GCSIM_SPEED"); env != "" {
		if f, err := strconv.ParseFloat(env, 64); err == nil && f > 0 {
			defaultSpeed = f
		}
	}
	flags.Float64Var(&speed, "speed", defaultSpeed, "Speed multiplier for stepping and playing")
	flags.DurationVar(&interval, "interval", gcsim.DefaultInterval,
		"Time between steps at speed 1")
	flags.StringArrayVarP(&breaks, "break", "b", nil,
		"Breakpoint as channel:line, both one-based (repeatable)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Log engine events")
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads --config, if any, and lets the other flags override it.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()
	if configFile != "" {
		var err error
		cfg, err = config.Load(configFile)
		if err != nil {
			return nil, err
		}
	}

	flags := cmd.Flags()
	for _, f := range []struct {
		name string
		ch   gcsim.Channel
		path string
	}{
		{"main", gcsim.Main, mainFile},
		{"sub", gcsim.Sub, subFile},
	} {
		if !flags.Changed(f.name) {
			continue
		}
		path, err := filepath.Abs(f.path)
		if err != nil {
			return nil, err
		}
		c := cfg.Channel(f.ch)
		c.Program = path
		c.Text = ""
	}

	if flags.Changed("speed") || configFile == "" {
		cfg.Speed = speed
	}
	if flags.Changed("interval") {
		cfg.Interval = interval
	}
	for _, b := range breaks {
		ch, line, err := parseBreak(b)
		if err != nil {
			return nil, err
		}
		c := cfg.Channel(ch)
		c.Breakpoints = append(c.Breakpoints, line)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// parseBreak parses channel:line; both numbers are one-based and stay that way.
func parseBreak(s string) (gcsim.Channel, int, error) {
	chs, lines, ok := strings.Cut(s, ":")
	if !ok {
		return 0, 0, fmt.Errorf("breakpoint: expected channel:line: %s", s)
	}
	n, err := strconv.Atoi(chs)
	if err != nil {
		return 0, 0, fmt.Errorf("breakpoint: %s: %w", s, err)
	}
	ch, err := gcsim.ChannelFromNumber(n)
	if err != nil {
		return 0, 0, fmt.Errorf("breakpoint: %w", err)
	}
	line, err := strconv.Atoi(lines)
	if err != nil {
		return 0, 0, fmt.Errorf("breakpoint: %s: %w", s, err)
	}
	if line < 1 {
		return 0, 0, fmt.Errorf("breakpoint: line must be at least 1: %s", s)
	}
	return ch, line, nil
}

// newSession builds the session described by the flags, logging its events with -v.
func newSession(cmd *cobra.Command) (*gcsim.Session, *gcsim.Events, *config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, nil, err
	}

	events := gcsim.NewEvents()
	if verbose {
		events.Subscribe(func(ev gcsim.Event) {
			if ev.Type != gcsim.EventState {
				log.Print(ev)
			}
		})
	}

	s, err := cfg.Session(events)
	if err != nil {
		return nil, nil, nil, err
	}
	return s, events, cfg, nil
}

func programs(s *gcsim.Session) [gcsim.NumChannels][]string {
	var progs [gcsim.NumChannels][]string
	for ch := gcsim.Channel(0); ch < gcsim.NumChannels; ch += 1 {
		progs[ch] = s.Engine().Program(ch).Lines()
	}
	return progs
}

// termWidth is the width of stdout, or 80 when it is not a terminal.
func termWidth() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return 80
	}
	width, _, err := term.GetSize(fd)
	if err != nil || width <= 0 {
		return 80
	}
	return width
}
