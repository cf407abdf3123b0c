package main

import (
	"fmt"
	"os"

	"github.com/ironsheep/contrast-tools-mcp/internal/config"
	"github.com/ironsheep/contrast-tools-mcp/internal/logger"
	"github.com/ironsheep/contrast-tools-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("contrast-tools-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println("contrast-tools-mcp - MCP server for per-channel contrast enhancement")
			fmt.Println()
			fmt.Println("Usage: contrast-tools-mcp [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Environment variables:")
			fmt.Printf("  %s=debug          Log level (trace, debug, info, warn, error)\n", config.EnvLogLevel)
			fmt.Printf("  %s=true             Log as JSON\n", config.EnvLogJSON)
			fmt.Printf("  %s=2.0           Default CLAHE clip limit\n", config.EnvClipLimit)
			fmt.Printf("  %s=8x8            Default CLAHE tile grid\n", config.EnvTileGrid)
			fmt.Printf("  %s=4         Default mosaic columns\n", config.EnvMosaicColumns)
			fmt.Printf("  %s=1048576  Largest accepted request line\n", config.EnvMaxRequestBytes)
			fmt.Println()
			fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
			return
		}
	}

	cfg, err := config.LoadFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(2)
	}
	if err := logger.Configure(cfg.LogLevel, cfg.LogJSON); err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(2)
	}

	logger.WithField("version", Version).
		WithField("commit", GitCommit).
		WithField("tile_grid", cfg.TileGrid.String()).
		WithField("clip_limit", cfg.ClipLimit).
		Debug("starting contrast-tools-mcp")

	srv := server.NewWithConfig(cfg)
	if err := srv.Run(); err != nil {
		logger.WithError(err).Fatal("server error")
	}
}
