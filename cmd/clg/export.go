package main

import (
	"fmt"
	"os"

	"github.com/fwojciec/coverletter"
	"github.com/fwojciec/coverletter/goldmark"
	cljson "github.com/fwojciec/coverletter/json"
	"github.com/fwojciec/coverletter/plaintext"
	clyaml "github.com/fwojciec/coverletter/yaml"
	"github.com/urfave/cli/v2"
)

func exportCommand() *cli.Command {
	return &cli.Command{
		Name:      "export",
		Usage:     "Write a cover letter as wrapped text or HTML",
		ArgsUsage: "[<id>]",
		Flags: []cli.Flag{
			&cli.PathFlag{Name: "from", Usage: "Export a result saved by generate --save instead of a stored letter"},
			&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Usage: "Output format: text, html", Value: "text"},
			&cli.PathFlag{Name: "out", Aliases: []string{"o"}, Usage: "Output file (default: stdout)"},
			&cli.BoolFlag{Name: "date", Usage: "Include today's date (default: export.date)"},
			&cli.StringFlag{Name: "title", Usage: "HTML document title"},
		},
		Action: withEnv(exportAction),
	}
}

func exportAction(c *cli.Context, e *env) error {
	content, err := exportContent(c, e)
	if err != nil {
		return err
	}

	layout := coverletter.LayoutOptions{Signature: e.cfg.Export.Signature}
	if c.Bool("date") || e.cfg.Export.Date {
		layout.Date = e.now()
	}
	r, err := newRenderer(c.String("format"), c.String("title"), e.cfg.Export, layout)
	if err != nil {
		return err
	}

	path := c.Path("out")
	if path == "" || path == "-" {
		return r.Render(e.out, content)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := r.Render(f, content); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	fmt.Fprintf(e.errOut, "Wrote %s\n", path)
	return nil
}

func exportContent(c *cli.Context, e *env) (string, error) {
	if path := c.Path("from"); path != "" {
		saved, err := cljson.LoadResult(path)
		if err != nil {
			return "", err
		}
		return saved.Content, nil
	}
	id, err := letterID(c)
	if err != nil {
		return "", err
	}
	ctx, cancel := e.requestContext(c.Context)
	defer cancel()
	l, err := e.client.Letter(ctx, id)
	if err != nil {
		return "", err
	}
	return l.Content, nil
}

// newRenderer selects the export renderer for format.
func newRenderer(format, title string, cfg clyaml.ExportConfig, layout coverletter.LayoutOptions) (coverletter.Renderer, error) {
	switch format {
	case "text", "txt", "":
		return plaintext.New(
			plaintext.WithWidth(cfg.Width),
			plaintext.WithMargin(cfg.Margin),
			plaintext.WithLayout(layout),
		), nil
	case "html":
		return goldmark.NewHTML(title, layout), nil
	default:
		return nil, fmt.Errorf("unknown format %q, want text or html: %w", format, coverletter.ErrValidation)
	}
}
