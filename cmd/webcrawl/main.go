// Command webcrawl reads web pages as Markdown, either once from the command
// line or as the web_crawl tool of an MCP stdio server.
//
//	webcrawl crawl https://example.com
//	webcrawl --backend crawl4ai serve
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/leofalp/webcrawl/internal/config"
)

func main() {
	if err := config.LoadDotenv(".env"); err != nil {
		slog.Warn("failed to load .env", "error", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cmd := newRootCommand(&app{
		stdout:     os.Stdout,
		stderr:     os.Stderr,
		newCrawler: newCrawler,
	})
	if err := cmd.Run(ctx, os.Args); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}
