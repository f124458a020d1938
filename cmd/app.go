// Package cmd implements the CLI application managing a portfolio ledger.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"

	"github.com/vozeel/gator"
	"github.com/vozeel/gator/store"
	"github.com/vozeel/gator/yahoo"
)

// Register the subcommands on c.
func Register(c *subcommands.Commander) {
	c.Register(&importCmd{}, "ledger")
	c.Register(&txCmd{}, "ledger")
	c.Register(&metricsCmd{}, "reports")
	c.Register(&optimizeCmd{}, "reports")
	c.Register(&topicCmd{}, "help")
}

// loadPortfolio reads the ledger file and wires the Yahoo-backed providers.
// A missing file yields an empty portfolio.
func loadPortfolio(cfg Config) (*gator.Portfolio, error) {
	ledger := gator.NewLedger()
	f, err := os.Open(cfg.LedgerFile)
	if err == nil {
		defer f.Close()
		if ledger, err = gator.DecodeLedger(f); err != nil {
			return nil, fmt.Errorf("reading %s: %w", cfg.LedgerFile, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	client := yahoo.NewClient()
	return gator.NewPortfolioFromLedger(cfg.BaseCurrency, ledger,
		yahoo.NewResolver(client), yahoo.NewRates(client), client)
}

// appendEntries appends entries to the ledger file and, when a database is
// configured, mirrors them there.
func appendEntries(ctx context.Context, cfg Config, entries ...gator.Entry) error {
	f, err := os.OpenFile(cfg.LedgerFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("opening %s: %w", cfg.LedgerFile, err)
	}
	defer f.Close()
	for _, e := range entries {
		if err := gator.EncodeEntry(f, e); err != nil {
			return fmt.Errorf("writing %s: %w", cfg.LedgerFile, err)
		}
	}

	if cfg.DatabaseFile == "" {
		return nil
	}
	s, err := store.Open(ctx, cfg.DatabaseFile)
	if err != nil {
		return fmt.Errorf("opening %s: %w", cfg.DatabaseFile, err)
	}
	defer s.Close()
	if err := s.Append(ctx, entries...); err != nil {
		return fmt.Errorf("mirroring to %s: %w", cfg.DatabaseFile, err)
	}
	return nil
}

// display renders markdown to the terminal, falling back to the raw source
// when the renderer cannot be built (dumb terminals, pipes).
func display(md string) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(110))
	if err != nil {
		fmt.Print(md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}

// fail prints err and maps it to the command exit status.
func fail(err error) subcommands.ExitStatus {
	fmt.Fprintln(os.Stderr, "Error:", err)
	return subcommands.ExitFailure
}

// usageError prints err and returns a usage exit status.
func usageError(err error) subcommands.ExitStatus {
	fmt.Fprintln(os.Stderr, "Error:", err)
	return subcommands.ExitUsageError
}
