// Command clg is a command-line client for the cover-letter API.
//
// Usage:
//
//	clg [--config path] <command> [options]
//
// Commands register, login, logout, refresh and whoami manage the stored
// credentials. generate streams a new letter to stdout, list and show read
// the letter history, pdf runs the server-side PDF export, and export
// writes a letter as wrapped text or HTML.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

var version = "dev"

func main() {
	if err := newApp().Run(os.Args); err != nil {
		// exitErrHandler already exited for handled errors.
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:           "clg",
		Usage:          "Generate cover letters and export them",
		Version:        version,
		ExitErrHandler: exitErrHandler,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to the YAML config file",
				EnvVars: []string{"CLG_CONFIG"},
			},
			&cli.StringFlag{
				Name:  "base-url",
				Usage: "Override api.base_url",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Override log.level: trace, debug, info, warn, error, disabled",
			},
		},
		Commands: []*cli.Command{
			registerCommand(),
			loginCommand(),
			logoutCommand(),
			refreshCommand(),
			whoamiCommand(),
			generateCommand(),
			listCommand(),
			showCommand(),
			pdfCommand(),
			exportCommand(),
		},
	}
}

// exitErrHandler prints the error and exits, keeping codes from cli.Exit.
func exitErrHandler(c *cli.Context, err error) {
	if err == nil {
		return
	}
	var exitCoder cli.ExitCoder
	if errors.As(err, &exitCoder) {
		code := exitCoder.ExitCode()
		if msg := exitCoder.Error(); msg != "" && msg != fmt.Sprintf("exit status %d", code) {
			fmt.Fprintln(c.App.ErrWriter, msg)
		}
		os.Exit(code)
	}
	fmt.Fprintf(c.App.ErrWriter, "clg: %v\n", err)
	os.Exit(exitCode(err))
}
