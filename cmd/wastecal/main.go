// Command wastecal runs the waste-collection calendar service.
//
// Usage:
//
//	wastecal [serve]                     run the HTTP API and refresh scheduler
//	wastecal migrate                     apply pending schema migrations
//	wastecal sync [-place ID] [-start YYYY-MM-DD] [-end YYYY-MM-DD] [-months N]
//	wastecal prune [-days N]             delete events older than the retention period
//	wastecal hash-password PASSWORD      print an argon2id hash for auth.password_hash
//
// Configuration is read from CONFIG_PATH (default ./config.yaml) and ENV.
//
// Exit codes: 0 = success, 1 = error, 2 = usage.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	_ "time/tzdata"

	"github.com/ecoscan/wastecal/internal/app"
	"github.com/ecoscan/wastecal/internal/config"
	"github.com/ecoscan/wastecal/internal/domain"
	"github.com/ecoscan/wastecal/internal/transport/middleware"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd, args := "serve", os.Args[1:]
	if len(args) > 0 {
		cmd, args = args[0], args[1:]
	}

	var err error
	switch cmd {
	case "serve":
		err = app.Run(ctx)
	case "migrate":
		err = runMigrate(ctx)
	case "sync":
		err = runSync(ctx, args)
	case "prune":
		err = runPrune(ctx, args)
	case "hash-password":
		err = runHashPassword(args)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n", cmd)
		fmt.Fprintln(os.Stderr, "usage: wastecal [serve|migrate|sync|prune|hash-password]")
		os.Exit(2)
	}

	if err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("%s: %v", cmd, err)
		os.Exit(1)
	}
}

func runMigrate(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := app.NewLogger(cfg.Log)

	from, to, err := app.Migrate(ctx, cfg.Database, logger)
	if err != nil {
		return err
	}
	logger.Info("migrations applied", slog.Int("from", from), slog.Int("to", to))
	return nil
}

func runSync(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("sync", flag.ExitOnError)
	placeID := fs.String("place", "", "place id to sync (default: selected place)")
	start := fs.String("start", "", "first day of the window, YYYY-MM-DD")
	end := fs.String("end", "", "last day of the window, YYYY-MM-DD")
	months := fs.Int("months", 0, "months ahead when -end is not set")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var opts domain.SyncOptions
	if *start != "" {
		d, err := domain.ParseDate(*start)
		if err != nil {
			return fmt.Errorf("-start: %w", err)
		}
		opts.Start = &d
	}
	if *end != "" {
		d, err := domain.ParseDate(*end)
		if err != nil {
			return fmt.Errorf("-end: %w", err)
		}
		opts.End = &d
	}
	if *months > 0 {
		opts.MonthsAhead = months
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := app.NewLogger(cfg.Log)

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	res, err := a.SyncPlace(ctx, *placeID, opts)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

func runPrune(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("prune", flag.ExitOnError)
	days := fs.Int("days", -1, "retention in days (default: sync.retention_days)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := app.NewLogger(cfg.Log)

	if *days < 0 {
		*days = cfg.Sync.RetentionDays
	}

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	cutoff, deleted, err := a.Prune(ctx, *days)
	if err != nil {
		logger.Error("prune failed",
			slog.String("error", err.Error()),
			slog.String("cutoff", cutoff.String()),
		)
		return err
	}

	logger.Info("prune completed",
		slog.Int64("deleted", deleted),
		slog.String("cutoff", cutoff.String()),
	)
	return nil
}

func runHashPassword(args []string) error {
	if len(args) != 1 || args[0] == "" {
		fmt.Fprintln(os.Stderr, "usage: wastecal hash-password PASSWORD")
		os.Exit(2)
	}

	hash, err := middleware.HashPassword(args[0])
	if err != nil {
		return err
	}
	fmt.Println(hash)
	return nil
}
