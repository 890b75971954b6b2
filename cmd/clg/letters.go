package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/coverletter"
	"github.com/fwojciec/coverletter/goldmark"
	cljson "github.com/fwojciec/coverletter/json"
	"github.com/urfave/cli/v2"
)

const previewLen = 50

func generateCommand() *cli.Command {
	return &cli.Command{
		Name:  "generate",
		Usage: "Stream a new cover letter to stdout",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "job", Aliases: []string{"j"}, Usage: "Job requirements text"},
			&cli.PathFlag{Name: "job-file", Usage: "Read job requirements from a file"},
			&cli.PathFlag{Name: "cv", Usage: "CV file to upload"},
			&cli.StringFlag{Name: "info", Usage: "Optional information about the applicant"},
			&cli.IntFlag{Name: "human-scale", Usage: "How human the letter should sound (0 = config default)"},
			&cli.PathFlag{Name: "save", Usage: "Save the result as JSON for later export"},
		},
		Action: withEnv(generateAction),
	}
}

func generateAction(c *cli.Context, e *env) error {
	req, err := generateRequest(c, e.cfg.Generation.HumanScale)
	if err != nil {
		return err
	}

	res, err := coverletter.Generate(c.Context, e.client, req,
		coverletter.WithChunkHandler(func(delta, _ string) {
			fmt.Fprint(e.out, delta)
		}),
		coverletter.WithGenerateObserver(e.observer),
	)
	if res.Content != "" && !strings.HasSuffix(res.Content, "\n") {
		fmt.Fprintln(e.out)
	}
	if path := c.Path("save"); path != "" && res.Content != "" {
		if serr := cljson.SaveResult(path, cljson.NewSavedResult(req, res, e.now())); serr != nil {
			e.log.Error().Err(serr).Str("path", path).Msg("save result")
		} else {
			fmt.Fprintf(e.errOut, "Saved to %s\n", path)
		}
	}
	if err != nil {
		return err
	}
	if res.CoverLetterID != "" {
		fmt.Fprintf(e.errOut, "Cover letter id: %s\n", res.CoverLetterID)
	}
	return nil
}

func generateRequest(c *cli.Context, defaultScale int) (coverletter.GenerateRequest, error) {
	req := coverletter.GenerateRequest{
		JobRequirements: c.String("job"),
		OptionalInfo:    c.String("info"),
		HumanScale:      c.Int("human-scale"),
	}
	if req.HumanScale == 0 {
		req.HumanScale = defaultScale
	}
	if path := c.Path("job-file"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return req, fmt.Errorf("read job file: %w", err)
		}
		req.JobRequirements = string(data)
	}
	if path := c.Path("cv"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return req, fmt.Errorf("read cv: %w", err)
		}
		req.CV = &coverletter.Attachment{Filename: filepath.Base(path), Data: data}
	}
	return req, req.Validate()
}

func listCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List generated cover letters",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Aliases: []string{"n"}, Usage: "Letters per page (max 100)", Value: coverletter.DefaultPageSize},
			&cli.IntFlag{Name: "skip", Usage: "Letters to skip"},
		},
		Action: withEnv(func(c *cli.Context, e *env) error {
			ctx, cancel := e.requestContext(c.Context)
			defer cancel()
			page, err := e.client.ListLetters(ctx, coverletter.PageQuery{Limit: c.Int("limit"), Skip: c.Int("skip")})
			if err != nil {
				return err
			}
			if len(page.Letters) == 0 {
				fmt.Fprintln(e.out, "No cover letters yet")
				return nil
			}
			for _, l := range page.Letters {
				fmt.Fprintln(e.out, listLine(l))
			}
			if page.Count > len(page.Letters) {
				fmt.Fprintf(e.errOut, "Showing %d of %d\n", len(page.Letters), page.Count)
			}
			return nil
		}),
	}
}

// listLine formats one history entry as id, date, pdf status, preview.
func listLine(l coverletter.Letter) string {
	created := "-"
	if !l.CreatedAt.IsZero() {
		created = l.CreatedAt.Local().Format("2006-01-02")
	}
	status := string(l.PDFStatus)
	if status == "" {
		status = "-"
	}
	return fmt.Sprintf("%-24s  %-10s  %-10s  %s", l.ID, created, status, l.Preview(previewLen))
}

func showCommand() *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Show a cover letter",
		ArgsUsage: "<id>",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "width", Usage: "Wrap width (0 = export.width)"},
		},
		Action: withEnv(func(c *cli.Context, e *env) error {
			id, err := letterID(c)
			if err != nil {
				return err
			}
			ctx, cancel := e.requestContext(c.Context)
			defer cancel()
			l, err := e.client.Letter(ctx, id)
			if err != nil {
				return err
			}
			width := c.Int("width")
			if width <= 0 {
				width = e.cfg.Export.Width
			}
			fmt.Fprintln(e.out, goldmark.RenderLetter(l, width, e.theme))
			return nil
		}),
	}
}

func letterID(c *cli.Context) (string, error) {
	id := strings.TrimSpace(c.Args().First())
	if id == "" {
		return "", fmt.Errorf("cover letter id is required: %w", coverletter.ErrValidation)
	}
	return id, nil
}
