// Command scrub masks credentials and personal data in bodies, values and
// URLs from the command line.
//
//	echo '{"password":"s3cr3t"}' | scrub body
//	scrub value --field phone 13800138000
//	scrub url 'https://api.example.com/v1?api_key=abc'
//	scrub --config rules.yaml rules
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v3"

	"github.com/zoobzio/scrub"
	"github.com/zoobzio/scrub/rulefile"
)

func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().
		Timestamp().
		Logger()

	if err := newApp().Run(context.Background(), os.Args); err != nil {
		logger.Error().Err(err).Msg("scrub failed")
		os.Exit(1)
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:  "scrub",
		Usage: "Mask sensitive values before they reach a log",

		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Rule file (YAML); SCRUB_* environment variables override it",
				Sources: cli.EnvVars("SCRUB_CONFIG"),
			},
		},

		Commands: []*cli.Command{
			bodyCommand(),
			valueCommand(),
			urlCommand(),
			rulesCommand(),
		},
	}
}

// loadEngine builds an engine from the --config file and the environment.
func loadEngine(c *cli.Command) (*scrub.Engine, error) {
	cfg, err := rulefile.Load(c.Root().String("config"))
	if err != nil {
		return nil, err
	}
	return scrub.New(cfg), nil
}

func bodyCommand() *cli.Command {
	return &cli.Command{
		Name:      "body",
		Usage:     "Mask a request or response body",
		ArgsUsage: "[file]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "content-type",
				Aliases: []string{"t"},
				Usage:   "Content-Type hint (application/json, application/x-www-form-urlencoded, ...)",
			},
			&cli.IntFlag{
				Name:    "max-body-length",
				Aliases: []string{"m"},
				Usage:   "Truncate output to this many bytes (0 = unlimited)",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			engine, err := loadEngine(c)
			if err != nil {
				return err
			}
			if c.IsSet("max-body-length") {
				cfg := engine.Config()
				engine = scrub.New(scrub.NewConfig(
					scrub.WithEnabled(cfg.Enabled()),
					scrub.WithMaxBodyLength(int(c.Int("max-body-length"))),
					scrub.WithRegistry(cfg.Registry()),
				))
			}

			var in io.Reader = c.Root().Reader
			if path := c.Args().First(); path != "" && path != "-" {
				f, err := os.Open(path)
				if err != nil {
					return fmt.Errorf("failed to open body: %w", err)
				}
				defer f.Close()
				in = f
			}
			if in == nil {
				in = os.Stdin
			}

			body, err := io.ReadAll(in)
			if err != nil {
				return fmt.Errorf("failed to read body: %w", err)
			}

			masked := engine.MaskBodyContext(ctx, c.String("content-type"), strings.TrimRight(string(body), "\r\n"))
			_, err = fmt.Fprintln(c.Root().Writer, masked)
			return err
		},
	}
}

func valueCommand() *cli.Command {
	return &cli.Command{
		Name:      "value",
		Usage:     "Mask a single value by field name",
		ArgsUsage: "<value>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "field",
				Aliases:  []string{"f"},
				Usage:    "Field name used to pick the rule",
				Required: true,
			},
		},
		Action: func(_ context.Context, c *cli.Command) error {
			if c.Args().Len() != 1 {
				return fmt.Errorf("expected exactly one value, got %d", c.Args().Len())
			}
			engine, err := loadEngine(c)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(c.Root().Writer, engine.MaskValue(c.String("field"), c.Args().First()))
			return err
		},
	}
}

func urlCommand() *cli.Command {
	return &cli.Command{
		Name:      "url",
		Usage:     "Mask credential query parameters in URLs",
		ArgsUsage: "<url>...",
		Action: func(_ context.Context, c *cli.Command) error {
			if c.Args().Len() == 0 {
				return fmt.Errorf("expected at least one URL")
			}
			engine, err := loadEngine(c)
			if err != nil {
				return err
			}
			for _, raw := range c.Args().Slice() {
				if _, err := fmt.Fprintln(c.Root().Writer, engine.MaskURL(raw)); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func rulesCommand() *cli.Command {
	return &cli.Command{
		Name:  "rules",
		Usage: "List the active rules",
		Action: func(_ context.Context, c *cli.Command) error {
			engine, err := loadEngine(c)
			if err != nil {
				return err
			}
			w := c.Root().Writer
			for _, rule := range engine.Config().Registry().Rules() {
				line := fmt.Sprintf("%-12s %-8s %-8s %s", rule.Name(), rule.Type(), rule.Kind(), strings.Join(rule.Fields(), ","))
				if rule.Type() == scrub.MaskPartial {
					line += fmt.Sprintf(" (keep %d/%d, min %d)", rule.KeepPrefix(), rule.KeepSuffix(), rule.MinLength())
				}
				if _, err := fmt.Fprintln(w, line); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
