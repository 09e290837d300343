package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/urfave/cli/v2"

	"github.com/gym-wars/internal/app"
	"github.com/gym-wars/internal/config"
	"github.com/gym-wars/internal/domain"
	"github.com/gym-wars/internal/export"
)

func newApp(out io.Writer) *cli.App {
	return &cli.App{
		Name:      "gymwarsctl",
		Usage:     "operate on Gym Wars data outside the HTTP server",
		Writer:    out,
		ErrWriter: os.Stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Value: "config.yaml", Usage: "path to the configuration file"},
			&cli.StringFlag{Name: "store", Usage: "override the store driver"},
			&cli.StringFlag{Name: "data-dir", Usage: "override the file store directory"},
			&cli.BoolFlag{Name: "verbose", Usage: "log at debug level"},
		},
		Commands: []*cli.Command{
			importLeaderboardCommand(),
			importRegistrationsCommand(),
			rankCommand(),
			exportParticipantsCommand(),
		},
	}
}

// withApp loads configuration, opens the application and runs fn with it.
func withApp(c *cli.Context, fn func(*app.App) error) error {
	level := slog.LevelWarn
	if c.Bool("verbose") {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(c.App.ErrWriter, &slog.HandlerOptions{Level: level}))

	if err := config.LoadEnv(); err != nil {
		logger.Warn("failed to load .env files", "error", err)
	}
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		logger.Debug("using default config", "error", err)
		cfg = config.DefaultConfig()
	}
	if v := c.String("store"); v != "" {
		cfg.Store.Driver = v
	}
	if v := c.String("data-dir"); v != "" {
		cfg.Store.DataDir = v
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	// Notifications are only sent by the server.
	cfg.Kafka.Enabled = false

	a, err := app.New(c.Context, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a)
}

func importLeaderboardCommand() *cli.Command {
	return &cli.Command{
		Name:      "import-leaderboard",
		Usage:     "normalize a legacy leaderboard JSON array and merge it by id",
		ArgsUsage: "FILE",
		Action: func(c *cli.Context) error {
			path := c.Args().First()
			if path == "" {
				return cli.Exit("missing FILE argument", 2)
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("reading %s: %w", path, err)
			}
			var raws []map[string]any
			if err := json.Unmarshal(data, &raws); err != nil {
				return fmt.Errorf("parsing %s: %w", path, err)
			}
			return withApp(c, func(a *app.App) error {
				total, err := a.Services.Leaderboard.ImportLegacy(c.Context, raws)
				if err != nil {
					return err
				}
				fmt.Fprintf(c.App.Writer, "Imported %d rows, leaderboard now has %d\n", len(raws), total)
				return nil
			})
		},
	}
}

func importRegistrationsCommand() *cli.Command {
	return &cli.Command{
		Name:  "import-registrations",
		Usage: "add a leaderboard row for every registered gym that has none",
		Action: func(c *cli.Context) error {
			return withApp(c, func(a *app.App) error {
				created, _, err := a.Services.Leaderboard.ImportRegistrations(c.Context)
				if err != nil {
					return err
				}
				fmt.Fprintf(c.App.Writer, "Created %d rows\n", len(created))
				return nil
			})
		},
	}
}

func rankCommand() *cli.Command {
	return &cli.Command{
		Name:  "rank",
		Usage: "print the ranked leaderboard",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "view", Usage: "public or admin, defaults to the configured view"},
			&cli.StringFlag{Name: "state", Usage: "only rows in this state"},
			&cli.StringFlag{Name: "q", Usage: "case-insensitive gym name filter"},
			&cli.BoolFlag{Name: "json", Usage: "print JSON instead of a table"},
		},
		Action: func(c *cli.Context) error {
			return withApp(c, func(a *app.App) error {
				standings, err := a.Services.Leaderboard.Ranked(c.Context, c.String("view"), c.String("state"), c.String("q"))
				if err != nil {
					return err
				}
				if c.Bool("json") {
					enc := json.NewEncoder(c.App.Writer)
					enc.SetIndent("", "  ")
					return enc.Encode(standings)
				}

				tw := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
				if standings.View == domain.ViewPublic {
					fmt.Fprintln(tw, "RANK\tGYM\tLOCATION\tTOTAL\tOVERALL WINS")
				} else {
					fmt.Fprintln(tw, "RANK\tGYM\tLOCATION\tTOTAL\tWINS")
				}
				for _, s := range standings.Data {
					wins := s.Wins
					if standings.View == domain.ViewPublic && s.OverallWins != nil {
						wins = *s.OverallWins
					}
					fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%d\n", s.Rank, s.Name, s.Location, s.TotalScore, wins)
				}
				return tw.Flush()
			})
		},
	}
}

func exportParticipantsCommand() *cli.Command {
	return &cli.Command{
		Name:  "export-participants",
		Usage: "write every participant as CSV or XLSX",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "format", Value: export.FormatCSV, Usage: "csv or xlsx"},
			&cli.StringFlag{Name: "out", Usage: "output file, defaults to stdout"},
		},
		Action: func(c *cli.Context) error {
			format, err := export.ParseFormat(c.String("format"))
			if err != nil {
				return err
			}
			return withApp(c, func(a *app.App) error {
				path := c.String("out")
				if path == "" {
					return a.Services.Participants.Export(c.Context, c.App.Writer, format)
				}
				return writeFile(path, func(w io.Writer) error {
					return a.Services.Participants.Export(c.Context, w, format)
				})
			})
		},
	}
}

// writeFile creates path and runs write against it. A failed close is
// reported like a failed write.
func writeFile(path string, write func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing %s: %w", path, cerr)
		}
	}()
	return write(f)
}
