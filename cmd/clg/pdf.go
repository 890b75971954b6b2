package main

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/coverletter"
	bt "github.com/fwojciec/coverletter/bubbletea"
	"github.com/urfave/cli/v2"
)

func pdfCommand() *cli.Command {
	return &cli.Command{
		Name:      "pdf",
		Usage:     "Export a cover letter to PDF on the server and print its location",
		ArgsUsage: "<id>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "open", Usage: "Open the PDF in the browser (default: export.open)"},
			&cli.BoolFlag{Name: "no-progress", Usage: "Print status lines instead of the progress view"},
		},
		Action: withEnv(pdfAction),
	}
}

func pdfAction(c *cli.Context, e *env) error {
	id, err := letterID(c)
	if err != nil {
		return err
	}

	var opener coverletter.Opener
	if c.Bool("open") || e.cfg.Export.Open {
		opener = browserOpener(runtime.GOOS)
	}
	run := func(ctx context.Context, onState func(coverletter.PollState)) (string, error) {
		opts := append(e.pollOptions(), coverletter.WithStatusHandler(onState))
		return coverletter.ExportPDF(ctx, e.client, id, opener, opts...)
	}

	if !c.Bool("no-progress") && isTerminal(e.out) {
		m := bt.New(c.Context, id, run, e.theme)
		_, err = bt.Run(c.Context, m, tea.WithOutput(e.out), tea.WithInput(c.App.Reader))
		return err
	}

	url, err := run(c.Context, func(s coverletter.PollState) {
		fmt.Fprintf(e.errOut, "%s: %s (attempt %d/%d)\n", id, s.Status, s.Attempt, s.MaxAttempts)
	})
	if err != nil {
		return err
	}
	fmt.Fprintln(e.out, url)
	return nil
}

// browserOpener hands a URL to the platform's default handler.
func browserOpener(goos string) coverletter.OpenerFunc {
	return func(url string) error {
		name, args := openCommand(goos, url)
		return exec.Command(name, args...).Start()
	}
}

func openCommand(goos, url string) (string, []string) {
	switch goos {
	case "darwin":
		return "open", []string{url}
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", url}
	default:
		return "xdg-open", []string{url}
	}
}
