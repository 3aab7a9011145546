// Repa: Research Ethics Pre-Assessment MCP Server
//
// An MCP server that integrates with any AI tool (Claude Code, OpenCode,
// Gemini CLI, Codex, Cursor, VS Code Copilot) to guide researchers through
// preparing an ethics committee submission: checklist, supporting
// documents, and AI compliance analysis.
//
// Usage:
//
//	repa serve    # Start MCP server (stdio transport)
//	repa update   # Update to the latest version
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/mcp-go/server"

	"github.com/Jgam2/EthicsPoC/internal/config"
	ethicsserver "github.com/Jgam2/EthicsPoC/internal/server"
	"github.com/Jgam2/EthicsPoC/internal/updater"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		if err := run(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "update":
		runUpdate()
	case "--help", "-h", "help":
		printUsage()
		os.Exit(0)
	case "--version", "-v", "version":
		fmt.Printf("repa v%s\n", ethicsserver.Version)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

// loadConfig reads REPA_CONFIG if set, otherwise uses defaults.
func loadConfig() (config.Config, error) {
	if path := os.Getenv("REPA_CONFIG"); path != "" {
		return config.NewFromFile(path)
	}
	return config.Default(), nil
}

func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	s, cleanup, err := ethicsserver.New(cfg)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}
	defer cleanup()

	// Background version check — prints to stderr so it doesn't
	// interfere with MCP's stdio transport on stdout.
	go checkForUpdates()

	// Graceful shutdown on interrupt.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigCh
		cancel()
	}()

	_ = ctx // stdio server manages its own lifecycle

	return server.ServeStdio(s)
}

// checkForUpdates runs a non-blocking version check and prints a notice
// to stderr if an update is available. This runs in a goroutine during
// "serve" and is best-effort — network failures are silently ignored.
func checkForUpdates() {
	result := updater.CheckVersion(ethicsserver.Version)
	if result.UpdateAvailable {
		fmt.Fprintf(os.Stderr,
			"\n  📦 Update available: v%s → v%s\n"+
				"     Run: repa update\n"+
				"     Release: %s\n\n",
			result.CurrentVersion, result.LatestVersion, result.ReleaseURL,
		)
	}
}

// runUpdate performs a self-update to the latest version.
func runUpdate() {
	fmt.Fprintf(os.Stderr, "🔍 Checking for updates...\n")

	result := updater.CheckVersion(ethicsserver.Version)
	if !result.UpdateAvailable {
		fmt.Fprintf(os.Stderr, "✅ Already at the latest version (v%s)\n", result.CurrentVersion)
		return
	}

	fmt.Fprintf(os.Stderr, "📦 New version available: v%s → v%s\n", result.CurrentVersion, result.LatestVersion)
	fmt.Fprintf(os.Stderr, "⬇️  Downloading...\n")

	if err := updater.SelfUpdate(ethicsserver.Version); err != nil {
		fmt.Fprintf(os.Stderr, "❌ Update failed: %v\n", err)
		fmt.Fprintf(os.Stderr, "\n   You can download manually from:\n   %s\n", result.ReleaseURL)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stderr, "✅ Updated to v%s!\n", result.LatestVersion)
	fmt.Fprintf(os.Stderr, "   Restart repa to use the new version.\n")
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `Repa v%s — Research Ethics Pre-Assessment MCP Server

Usage:
  repa serve    Start the MCP server (stdio transport)
  repa update   Update to the latest version

Configuration:
  Set REPA_CONFIG to a YAML file to override defaults
  (checklist path, data dir, Ollama model, verdict thresholds).

  Add to your AI tool's MCP config:

  {
    "mcpServers": {
      "repa": {
        "command": "repa",
        "args": ["serve"]
      }
    }
  }

Learn more: https://github.com/Jgam2/EthicsPoC
`, ethicsserver.Version)
}
