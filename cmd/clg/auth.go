package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fwojciec/coverletter"
	"github.com/urfave/cli/v2"
)

func credentialFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "email",
			Aliases:  []string{"e"},
			Usage:    "Account email",
			Required: true,
		},
		&cli.StringFlag{
			Name:    "password",
			Usage:   "Account password (read from stdin when omitted)",
			EnvVars: []string{"CLG_PASSWORD"},
		},
	}
}

func registerCommand() *cli.Command {
	return &cli.Command{
		Name:  "register",
		Usage: "Create an account and store its tokens",
		Flags: credentialFlags(),
		Action: withEnv(func(c *cli.Context, e *env) error {
			return authenticate(c, e, e.client.Register, "Registered")
		}),
	}
}

func loginCommand() *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "Log in and store the tokens",
		Flags: credentialFlags(),
		Action: withEnv(func(c *cli.Context, e *env) error {
			return authenticate(c, e, e.client.Login, "Logged in")
		}),
	}
}

type authFunc func(ctx context.Context, email, password string) (coverletter.Credentials, error)

func authenticate(c *cli.Context, e *env, fn authFunc, verb string) error {
	password, err := readPassword(c)
	if err != nil {
		return err
	}
	ctx, cancel := e.requestContext(c.Context)
	defer cancel()
	creds, err := fn(ctx, c.String("email"), password)
	if err != nil {
		return err
	}
	if err := e.store.Save(c.Context, creds); err != nil {
		return fmt.Errorf("save credentials: %w", err)
	}
	email := creds.User.Email
	if email == "" {
		email = c.String("email")
	}
	fmt.Fprintf(e.out, "%s as %s\n", verb, email)
	return nil
}

// readPassword returns --password, or the first line of stdin.
func readPassword(c *cli.Context) (string, error) {
	if p := c.String("password"); p != "" {
		return p, nil
	}
	line, err := bufio.NewReader(c.App.Reader).ReadString('\n')
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		if err != nil {
			return "", fmt.Errorf("read password: %w: %w", coverletter.ErrValidation, err)
		}
		return "", fmt.Errorf("password is required: %w", coverletter.ErrValidation)
	}
	return line, nil
}

func logoutCommand() *cli.Command {
	return &cli.Command{
		Name:  "logout",
		Usage: "Remove the stored tokens",
		Action: withEnv(func(c *cli.Context, e *env) error {
			if err := e.store.Clear(c.Context); err != nil {
				return fmt.Errorf("clear credentials: %w", err)
			}
			fmt.Fprintln(e.out, "Logged out")
			return nil
		}),
	}
}

func refreshCommand() *cli.Command {
	return &cli.Command{
		Name:  "refresh",
		Usage: "Exchange the refresh token for new tokens",
		Action: withEnv(func(c *cli.Context, e *env) error {
			old, err := e.store.Load(c.Context)
			if err != nil {
				return err
			}
			if old.RefreshToken == "" {
				return fmt.Errorf("no refresh token stored: %w", coverletter.ErrUnauthenticated)
			}
			ctx, cancel := e.requestContext(c.Context)
			defer cancel()
			creds, err := e.client.Refresh(ctx, old.RefreshToken)
			if err != nil {
				return err
			}
			// The refresh response may omit the user and the refresh token.
			if creds.User.ID == "" && creds.User.Email == "" {
				creds.User = old.User
			}
			if creds.RefreshToken == "" {
				creds.RefreshToken = old.RefreshToken
			}
			if err := e.store.Save(c.Context, creds); err != nil {
				return fmt.Errorf("save credentials: %w", err)
			}
			fmt.Fprintf(e.out, "Token refreshed, expires %s\n", expiryText(creds, e.now()))
			return nil
		}),
	}
}

func whoamiCommand() *cli.Command {
	return &cli.Command{
		Name:  "whoami",
		Usage: "Show the stored account",
		Action: withEnv(func(c *cli.Context, e *env) error {
			creds, err := e.store.Load(c.Context)
			if errors.Is(err, coverletter.ErrUnauthenticated) {
				return cli.Exit("Not logged in", exitCode(err))
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(e.out, "%s (%s)\n", creds.User.Email, creds.User.ID)
			fmt.Fprintf(e.out, "Token expires %s\n", expiryText(creds, e.now()))
			return nil
		}),
	}
}

func expiryText(c coverletter.Credentials, now time.Time) string {
	if c.ExpiresIn <= 0 || c.CreatedAt.IsZero() {
		return "unknown"
	}
	at := c.ExpiresAt().Local().Format(time.RFC3339)
	if c.Expired(now) {
		return at + " (expired)"
	}
	return at
}
