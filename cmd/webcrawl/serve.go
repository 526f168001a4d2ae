package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/leofalp/webcrawl/internal/mcpserver"
	"github.com/leofalp/webcrawl/providers/tool"
)

func newServeCommand(a *app) *cli.Command {
	return &cli.Command{
		Name:   "serve",
		Usage:  "Expose web_crawl as an MCP server over stdio",
		Action: a.runServe,
	}
}

func (a *app) runServe(ctx context.Context, cmd *cli.Command) error {
	cfg, t, observer, err := a.setup(cmd)
	if err != nil {
		return err
	}

	server, err := mcpserver.New(tool.NewCatalog(t.AsTool()),
		mcpserver.WithVersion(version),
		mcpserver.WithLogger(observer.Logger()),
	)
	if err != nil {
		return err
	}

	observer.Logger().Info("starting MCP server", "backend", cfg.Backend)
	return server.Run(ctx)
}
