// Package config loads server settings from the environment.
package config

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/ironsheep/contrast-tools-mcp/internal/imaging"
)

// Environment variable names.
const (
	EnvLogLevel        = "CONTRAST_MCP_LOG_LEVEL"
	EnvLogJSON         = "CONTRAST_MCP_LOG_JSON"
	EnvClipLimit       = "CONTRAST_MCP_CLIP_LIMIT"
	EnvTileGrid        = "CONTRAST_MCP_TILE_GRID"
	EnvMosaicColumns   = "CONTRAST_MCP_MOSAIC_COLUMNS"
	EnvMaxRequestBytes = "CONTRAST_MCP_MAX_REQUEST_BYTES"
)

// Config holds the server settings. Zero values are never valid; use
// Default or LoadFromEnv.
type Config struct {
	LogLevel string
	LogJSON  bool

	// ClipLimit and TileGrid are used when a tool call omits them.
	ClipLimit float64
	TileGrid  imaging.TileGrid

	// MosaicColumns is the default column count for image_mosaic.
	MosaicColumns int

	// MaxRequestBytes caps a single JSON-RPC line on stdin.
	MaxRequestBytes int
}

// Default returns the built-in settings: clip limit 2.0 on an 8x8 grid,
// four mosaic columns, 1 MiB requests.
func Default() *Config {
	return &Config{
		LogLevel:        "info",
		ClipLimit:       2.0,
		TileGrid:        imaging.TileGrid{X: 8, Y: 8},
		MosaicColumns:   4,
		MaxRequestBytes: 1024 * 1024,
	}
}

// LoadFromEnv starts from Default and applies any variables that are set.
// Malformed values are reported rather than ignored.
func LoadFromEnv() (*Config, error) {
	return load(os.Getenv)
}

func load(getenv func(string) string) (*Config, error) {
	cfg := Default()

	if v := strings.TrimSpace(getenv(EnvLogLevel)); v != "" {
		lvl, err := logrus.ParseLevel(strings.ToLower(v))
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvLogLevel, err)
		}
		cfg.LogLevel = lvl.String()
	}

	if v := strings.TrimSpace(getenv(EnvLogJSON)); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %q", EnvLogJSON, v)
		}
		cfg.LogJSON = b
	}

	if v := strings.TrimSpace(getenv(EnvClipLimit)); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f <= 0 || math.IsInf(f, 0) || math.IsNaN(f) {
			return nil, fmt.Errorf("invalid %s: %q (must be a positive number)", EnvClipLimit, v)
		}
		cfg.ClipLimit = f
	}

	if v := strings.TrimSpace(getenv(EnvTileGrid)); v != "" {
		grid, err := ParseTileGrid(v)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvTileGrid, err)
		}
		cfg.TileGrid = grid
	}

	if v := strings.TrimSpace(getenv(EnvMosaicColumns)); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("invalid %s: %q (must be >= 1)", EnvMosaicColumns, v)
		}
		cfg.MosaicColumns = n
	}

	if v := strings.TrimSpace(getenv(EnvMaxRequestBytes)); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 4096 {
			return nil, fmt.Errorf("invalid %s: %q (must be >= 4096)", EnvMaxRequestBytes, v)
		}
		cfg.MaxRequestBytes = n
	}

	return cfg, nil
}

// ParseTileGrid parses "8x8", "8X4" or a single "8" meaning 8x8.
func ParseTileGrid(s string) (imaging.TileGrid, error) {
	s = strings.TrimSpace(s)
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == 'x' || r == 'X' })
	var grid imaging.TileGrid
	switch len(parts) {
	case 1:
		n, err := strconv.Atoi(strings.TrimSpace(parts[0]))
		if err != nil {
			return grid, fmt.Errorf("tile grid %q: %w", s, err)
		}
		grid = imaging.TileGrid{X: n, Y: n}
	case 2:
		x, err := strconv.Atoi(strings.TrimSpace(parts[0]))
		if err != nil {
			return grid, fmt.Errorf("tile grid %q: %w", s, err)
		}
		y, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil {
			return grid, fmt.Errorf("tile grid %q: %w", s, err)
		}
		grid = imaging.TileGrid{X: x, Y: y}
	default:
		return grid, fmt.Errorf("tile grid %q: want WxH", s)
	}
	if err := grid.Validate(); err != nil {
		return grid, err
	}
	return grid, nil
}
