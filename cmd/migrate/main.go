// Command migrate applies or rolls back the job-postings schema.
//
//	migrate up          apply every pending migration
//	migrate down [N]    roll back the last N migrations (default 1)
//	migrate status      list migrations and when they were applied
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"

	"github.com/JonMunkholm/hrpanel/internal/config"
	"github.com/JonMunkholm/hrpanel/internal/database"
	"github.com/JonMunkholm/hrpanel/internal/logging"
)

func usage() {
	fmt.Fprintln(os.Stderr, "usage: migrate up | down [N] | status")
	flag.PrintDefaults()
}

func main() {
	timeout := flag.Duration("timeout", 5*time.Minute, "abort after this long")
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() == 0 {
		usage()
		os.Exit(2)
	}

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	if cfg.Database.URL == "" {
		slog.Error("DATABASE_URL is required")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if err := run(ctx, cfg, flag.Args()); err != nil {
		slog.Error("migrate failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, args []string) error {
	pool, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer pool.Close()

	m, err := database.NewMigrator(pool)
	if err != nil {
		return err
	}

	switch args[0] {
	case "up":
		n, err := m.Up(ctx)
		if err != nil {
			return err
		}
		slog.Info("migrations applied", "count", n, "database", database.Name(cfg.Database.URL))

	case "down":
		steps := 1
		if len(args) > 1 {
			steps, err = strconv.Atoi(args[1])
			if err != nil || steps < 1 {
				return fmt.Errorf("down: invalid step count %q", args[1])
			}
		}
		n, err := m.Down(ctx, steps)
		if err != nil {
			return err
		}
		slog.Info("migrations rolled back", "count", n)

	case "status":
		status, err := m.Status(ctx)
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "VERSION\tDESCRIPTION\tAPPLIED")
		for _, s := range status {
			applied := "pending"
			if s.AppliedAt != nil {
				applied = s.AppliedAt.Local().Format(time.DateTime)
			}
			fmt.Fprintf(tw, "%03d\t%s\t%s\n", s.Version, s.Description, applied)
		}
		return tw.Flush()

	default:
		usage()
		return fmt.Errorf("unknown command %q", args[0])
	}
	return nil
}
