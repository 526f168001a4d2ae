package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/leofalp/webcrawl/internal/config"
	"github.com/leofalp/webcrawl/providers/crawler"
	"github.com/leofalp/webcrawl/providers/observability"
	"github.com/leofalp/webcrawl/providers/observability/slogobs"
	"github.com/leofalp/webcrawl/providers/tool/webcrawl"
)

var version = "dev"

// app carries what the commands share. Tests swap the writers and the
// crawler factory.
type app struct {
	stdout     io.Writer
	stderr     io.Writer
	newCrawler func(cfg *config.Config) (crawler.Crawler, error)
}

func newRootCommand(a *app) *cli.Command {
	return &cli.Command{
		Name:      "webcrawl",
		Usage:     "Read web pages as Markdown",
		Version:   version,
		Writer:    a.stdout,
		ErrWriter: a.stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a JSONC config file",
				Sources: cli.EnvVars("WEBCRAWL_CONFIG"),
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging",
			},
			&cli.StringFlag{
				Name:    "backend",
				Usage:   "Crawler backend: http or crawl4ai",
				Sources: cli.EnvVars(config.EnvBackend),
			},
			&cli.StringFlag{
				Name:    "crawl4ai-url",
				Usage:   "Base URL of the Crawl4AI server",
				Sources: cli.EnvVars(config.EnvCrawl4AIURL),
			},
			&cli.BoolFlag{
				Name:    "ignore-links",
				Usage:   "Strip links from the markdown (default true)",
				Sources: cli.EnvVars(config.EnvIgnoreLinks),
			},
			&cli.BoolFlag{
				Name:    "ignore-images",
				Usage:   "Strip images from the markdown (default true)",
				Sources: cli.EnvVars(config.EnvIgnoreImages),
			},
		},
		Commands: []*cli.Command{
			newCrawlCommand(a),
			newServeCommand(a),
		},
	}
}

// setup loads the configuration, applies flag overrides and builds the tool
// and its observer.
func (a *app) setup(cmd *cli.Command) (*config.Config, *webcrawl.Tool, *slogobs.Observer, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return nil, nil, nil, err
	}

	if cmd.IsSet("backend") {
		cfg.Backend = cmd.String("backend")
	}
	if cmd.IsSet("crawl4ai-url") {
		cfg.Crawl4AI.URL = cmd.String("crawl4ai-url")
	}
	if cmd.IsSet("ignore-links") {
		cfg.Valves.IgnoreLinks = cmd.Bool("ignore-links")
	}
	if cmd.IsSet("ignore-images") {
		cfg.Valves.IgnoreImages = cmd.Bool("ignore-images")
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, nil, err
	}

	level := slogobs.ParseLogLevel(cfg.Log.Level)
	if cmd.Bool("debug") {
		level = slog.LevelDebug
	}
	observer := slogobs.New(
		slogobs.WithOutput(a.stderr),
		slogobs.WithLevel(level),
		slogobs.WithFormat(slogobs.ParseFormat(cfg.Log.Format)),
	)
	slog.SetDefault(observer.Logger())

	c, err := a.newCrawler(cfg)
	if err != nil {
		return nil, nil, nil, err
	}

	t := webcrawl.New(c,
		webcrawl.WithValves(cfg.Valves),
		webcrawl.WithObserver(observer),
		webcrawl.WithBackendName(cfg.Backend),
	)
	observer.Debug(context.Background(), "webcrawl configured",
		observability.String(observability.AttrCrawlBackend, cfg.Backend),
		observability.Bool(observability.AttrCrawlIgnoreLinks, cfg.Valves.IgnoreLinks),
		observability.Bool(observability.AttrCrawlIgnoreImages, cfg.Valves.IgnoreImages),
	)
	return cfg, t, observer, nil
}
