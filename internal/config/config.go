package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Extract names a JMESPath expression shown in the detail panel.
type Extract struct {
	Name string
	Path string
}

// Config holds the dashboard settings.
type Config struct {
	Region  string
	Profile string

	Tick         time.Duration
	TailInterval time.Duration
	FetchTimeout time.Duration

	LogGroupPageSize int32
	EventPageSize    int32
	TailBufferLimit  int
	Workers          int

	LogFile  string
	LogLevel string
	Theme    string

	Extracts []Extract
}

const (
	defaultConfigPath       = "~/.config/cwlogs/config.toml"
	defaultLogFile          = "~/.local/state/cwlogs/cwlogs.log"
	defaultLogLevel         = "info"
	defaultTheme            = "Nightfox"
	defaultTickMS           = 200
	defaultTailIntervalMS   = 1000
	defaultFetchTimeoutMS   = 10000
	defaultLogGroupPageSize = 50
	defaultEventPageSize    = 100
	defaultTailBufferLimit  = 2000
	defaultWorkers          = 1
)

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Tick:             defaultTickMS * time.Millisecond,
		TailInterval:     defaultTailIntervalMS * time.Millisecond,
		FetchTimeout:     defaultFetchTimeoutMS * time.Millisecond,
		LogGroupPageSize: defaultLogGroupPageSize,
		EventPageSize:    defaultEventPageSize,
		TailBufferLimit:  defaultTailBufferLimit,
		Workers:          defaultWorkers,
		LogFile:          mustExpand(defaultLogFile),
		LogLevel:         defaultLogLevel,
		Theme:            defaultTheme,
	}
}

// Load locates and parses the config file, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		Region           string `toml:"region"`
		Profile          string `toml:"profile"`
		TickMS           int    `toml:"tick_ms"`
		TailIntervalMS   int    `toml:"tail_interval_ms"`
		FetchTimeoutMS   *int   `toml:"fetch_timeout_ms"`
		LogGroupPageSize int32  `toml:"log_group_page_size"`
		EventPageSize    int32  `toml:"event_page_size"`
		TailBufferLimit  int    `toml:"tail_buffer_limit"`
		Workers          int    `toml:"workers"`
		LogFile          string `toml:"log_file"`
		LogLevel         string `toml:"log_level"`
		Theme            string `toml:"theme"`
		Extract          []struct {
			Name string `toml:"name"`
			Path string `toml:"path"`
		} `toml:"extract"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	cfg.Region = strings.TrimSpace(raw.Region)
	cfg.Profile = strings.TrimSpace(raw.Profile)

	if raw.TickMS > 0 {
		cfg.Tick = time.Duration(raw.TickMS) * time.Millisecond
	}
	if raw.TailIntervalMS > 0 {
		cfg.TailInterval = time.Duration(raw.TailIntervalMS) * time.Millisecond
	}
	// Zero disables the per-call timeout.
	if raw.FetchTimeoutMS != nil && *raw.FetchTimeoutMS >= 0 {
		cfg.FetchTimeout = time.Duration(*raw.FetchTimeoutMS) * time.Millisecond
	}
	if raw.LogGroupPageSize > 0 {
		cfg.LogGroupPageSize = raw.LogGroupPageSize
	}
	if raw.EventPageSize > 0 {
		cfg.EventPageSize = raw.EventPageSize
	}
	if raw.TailBufferLimit > 0 {
		cfg.TailBufferLimit = raw.TailBufferLimit
	}
	if raw.Workers > 0 {
		cfg.Workers = raw.Workers
	}

	if logFile := strings.TrimSpace(raw.LogFile); logFile != "" {
		cfg.LogFile = mustExpand(logFile)
	}
	if level := strings.TrimSpace(raw.LogLevel); level != "" {
		cfg.LogLevel = level
	}
	if theme := strings.TrimSpace(raw.Theme); theme != "" {
		cfg.Theme = theme
	}

	for _, e := range raw.Extract {
		name, path := strings.TrimSpace(e.Name), strings.TrimSpace(e.Path)
		if name == "" || path == "" {
			return Config{}, fmt.Errorf("parse config: extract entries need name and path")
		}
		cfg.Extracts = append(cfg.Extracts, Extract{Name: name, Path: path})
	}

	return cfg, nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
