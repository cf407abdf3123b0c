package config

import (
	"errors"
	"testing"

	"github.com/ironsheep/contrast-tools-mcp/internal/imaging"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(envMap(nil))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.ClipLimit != 2.0 {
		t.Errorf("ClipLimit: got %v, want 2.0", cfg.ClipLimit)
	}
	if cfg.TileGrid != (imaging.TileGrid{X: 8, Y: 8}) {
		t.Errorf("TileGrid: got %v, want 8x8", cfg.TileGrid)
	}
	if cfg.MosaicColumns != 4 {
		t.Errorf("MosaicColumns: got %d, want 4", cfg.MosaicColumns)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel: got %s, want info", cfg.LogLevel)
	}
	if cfg.LogJSON {
		t.Error("LogJSON should default to false")
	}
}

func TestLoad_Overrides(t *testing.T) {
	cfg, err := load(envMap(map[string]string{
		EnvLogLevel:        "DEBUG",
		EnvLogJSON:         "true",
		EnvClipLimit:       "3.5",
		EnvTileGrid:        "16x4",
		EnvMosaicColumns:   "3",
		EnvMaxRequestBytes: "8192",
	}))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.LogLevel != "debug" || !cfg.LogJSON {
		t.Errorf("logging: got (%s, %v), want (debug, true)", cfg.LogLevel, cfg.LogJSON)
	}
	if cfg.ClipLimit != 3.5 {
		t.Errorf("ClipLimit: got %v, want 3.5", cfg.ClipLimit)
	}
	if cfg.TileGrid != (imaging.TileGrid{X: 16, Y: 4}) {
		t.Errorf("TileGrid: got %v, want 16x4", cfg.TileGrid)
	}
	if cfg.MosaicColumns != 3 {
		t.Errorf("MosaicColumns: got %d, want 3", cfg.MosaicColumns)
	}
	if cfg.MaxRequestBytes != 8192 {
		t.Errorf("MaxRequestBytes: got %d, want 8192", cfg.MaxRequestBytes)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"zero clip", EnvClipLimit, "0"},
		{"negative clip", EnvClipLimit, "-1"},
		{"nan clip", EnvClipLimit, "NaN"},
		{"text clip", EnvClipLimit, "high"},
		{"zero grid", EnvTileGrid, "0x8"},
		{"bad grid", EnvTileGrid, "8x8x8"},
		{"zero columns", EnvMosaicColumns, "0"},
		{"bad json flag", EnvLogJSON, "sometimes"},
		{"unknown log level", EnvLogLevel, "verbose"},
		{"tiny request cap", EnvMaxRequestBytes, "10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := load(envMap(map[string]string{tt.key: tt.val})); err == nil {
				t.Errorf("%s=%q should be rejected", tt.key, tt.val)
			}
		})
	}
}

func TestParseTileGrid(t *testing.T) {
	tests := []struct {
		in      string
		want    imaging.TileGrid
		wantErr bool
	}{
		{"8x8", imaging.TileGrid{X: 8, Y: 8}, false},
		{"4X2", imaging.TileGrid{X: 4, Y: 2}, false},
		{" 3 x 5 ", imaging.TileGrid{X: 3, Y: 5}, false},
		{"6", imaging.TileGrid{X: 6, Y: 6}, false},
		{"1x1", imaging.TileGrid{X: 1, Y: 1}, false},
		{"0x1", imaging.TileGrid{}, true},
		{"-2x2", imaging.TileGrid{}, true},
		{"axb", imaging.TileGrid{}, true},
		{"", imaging.TileGrid{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTileGrid(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error, got %v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseTileGrid_InvalidArgument(t *testing.T) {
	_, err := ParseTileGrid("0x0")
	if !errors.Is(err, imaging.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}
}
