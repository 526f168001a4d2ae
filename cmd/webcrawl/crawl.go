package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

func newCrawlCommand(a *app) *cli.Command {
	return &cli.Command{
		Name:      "crawl",
		Usage:     "Read one page and print it as Markdown",
		ArgsUsage: "<url>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json-events",
				Usage: "Print status events as JSON envelopes",
			},
		},
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name:      "url",
				UsageText: "The web page URL to crawl",
			},
		},
		Action: a.runCrawl,
	}
}

// runCrawl prints status events to stderr and the result to stdout. A failed
// crawl still exits 0: its outcome is in the error status event and the text.
func (a *app) runCrawl(ctx context.Context, cmd *cli.Command) error {
	url := cmd.StringArg("url")
	if url == "" {
		return fmt.Errorf("usage: webcrawl crawl <url>")
	}

	_, t, _, err := a.setup(cmd)
	if err != nil {
		return err
	}

	sink := &stderrSink{w: a.stderr, json: cmd.Bool("json-events")}
	result := t.Crawl(ctx, url, sink)

	_, err = fmt.Fprintln(a.stdout, result)
	return err
}
