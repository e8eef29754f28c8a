package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/cp-hints/internal/common"
	"github.com/dtnitsch/cp-hints/internal/config"
	"github.com/dtnitsch/cp-hints/internal/hints"
	"github.com/dtnitsch/cp-hints/internal/history"
	"github.com/dtnitsch/cp-hints/internal/serve"
	"github.com/dtnitsch/cp-hints/models"
	"github.com/dtnitsch/cp-hints/pkg/help"
)

func main() {
	// A missing .env is normal.
	_ = godotenv.Load()

	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	pageFlags := []cli.Flag{
		&cli.StringFlag{
			Name:     "url",
			Aliases:  []string{"u"},
			Usage:    "LeetCode or Codeforces problem URL",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "file",
			Usage: "read the page HTML from `FILE` instead of fetching --url",
		},
		&cli.DurationFlag{
			Name:  "max-age",
			Usage: "reuse a cached page younger than this (default 1h)",
		},
		&cli.BoolFlag{
			Name:  "force-fetch",
			Usage: "ignore the page cache",
		},
	}

	modelFlags := []cli.Flag{
		&cli.StringFlag{
			Name:    "model",
			Usage:   "Gemini model name (default " + models.DefaultModel + ")",
			EnvVars: []string{"CP_HINTS_MODEL"},
		},
		&cli.StringFlag{
			Name:    "endpoint",
			Usage:   "Gemini API base URL",
			EnvVars: []string{"CP_HINTS_ENDPOINT"},
		},
	}

	return &cli.App{
		Name:        "cp-hints",
		Usage:       "Incremental hints for LeetCode and Codeforces problems",
		Description: "The Gemini API key is read from " + common.EnvAPIKey + " (also loaded from .env) or from `cp-hints config set-key`.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "YAML config `FILE`",
				Value:   "cp-hints.yaml",
				EnvVars: []string{"CP_HINTS_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "db",
				Usage:   "SQLite database path (default: next to the executable)",
				EnvVars: []string{"CP_HINTS_DB"},
			},
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "only log errors",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "log debug output",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "hints",
				Usage:  "Extract the problem and print hints",
				Action: hints.HintsAction,
				Flags: append(append(append([]cli.Flag{}, pageFlags...), modelFlags...),
					&cli.StringFlag{
						Name:  "out",
						Usage: "write the page with the hint overlay to `FILE`",
					},
					&cli.BoolFlag{
						Name:  "open",
						Usage: "expand every hint (terminal output and --out page)",
					},
					&cli.BoolFlag{
						Name:  "yaml",
						Usage: "print the result as YAML",
					},
					&cli.StringFlag{
						Name:    "relay",
						Usage:   "send the request to a running `cp-hints serve` at this base URL",
						EnvVars: []string{"CP_HINTS_RELAY"},
					},
					&cli.DurationFlag{
						Name:  "settle-delay",
						Usage: "wait before extracting (default 150ms)",
					},
				),
			},
			{
				Name:   "extract",
				Usage:  "Print the problem extracted from a page as YAML",
				Action: hints.ExtractAction,
				Flags:  pageFlags,
			},
			{
				Name:  "config",
				Usage: "Manage the stored API key",
				Subcommands: []*cli.Command{
					{
						Name:      "set-key",
						Usage:     "Save the Gemini API key",
						ArgsUsage: "<api-key>",
						Action:    config.SetKeyAction,
					},
					{
						Name:   "show",
						Usage:  "Print the effective configuration",
						Action: config.ShowAction,
					},
				},
			},
			{
				Name:   "serve",
				Usage:  "Run the hint relay over HTTP",
				Action: serve.ServeAction,
				Flags: append(append([]cli.Flag{}, modelFlags...),
					&cli.StringFlag{
						Name:    "addr",
						Usage:   "listen address (default " + models.DefaultListenAddr + ")",
						EnvVars: []string{"CP_HINTS_ADDR"},
					},
				),
			},
			{
				Name:  "quickstart",
				Usage: "Print a YAML quick start",
				Action: func(c *cli.Context) error {
					fmt.Print(help.ColdstartYAML)
					return nil
				},
			},
			{
				Name:   "history",
				Usage:  "List recent hint requests",
				Action: history.HistoryAction,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "number of requests to show (0 for all)",
						Value: 20,
					},
				},
			},
		},
	}
}
