package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"

	"github.com/vozeel/gator/degiro"
)

// importCmd loads a Degiro CSV export into the ledger.
type importCmd struct {
	file string
	tags string
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "import transactions from a Degiro CSV export" }
func (*importCmd) Usage() string {
	return `gator import -file <export.csv> [-tags ticker=tag1;tag2,...]

  Parses the export and appends the transactions not already present in the
  ledger, so re-importing an overlapping export is safe.

`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.file, "file", "", "path to the Degiro CSV export")
	f.StringVar(&c.tags, "tags", "", "per-ticker tags, e.g. aapl=tech;core,asml=tech")
}

func (c *importCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.file == "" {
		return usageError(fmt.Errorf("-file is required"))
	}
	cfg := LoadConfig()

	f, err := os.Open(c.file)
	if err != nil {
		return fail(err)
	}
	defer f.Close()
	txs, err := degiro.Read(f)
	if err != nil {
		return fail(fmt.Errorf("parsing %s: %w", c.file, err))
	}
	txs = degiro.Dedup(txs)

	p, err := loadPortfolio(cfg)
	if err != nil {
		return fail(err)
	}
	added, err := p.Import(ctx, txs, parseTags(c.tags))
	if err != nil {
		return fail(err)
	}
	if len(added) == 0 {
		fmt.Println("Nothing new to import.")
		return subcommands.ExitSuccess
	}
	if err := appendEntries(ctx, cfg, added...); err != nil {
		return fail(err)
	}
	fmt.Printf("Imported %d of %d transactions into %s\n", len(added), len(txs), cfg.LedgerFile)
	return subcommands.ExitSuccess
}

// parseTags parses "ticker=tag1;tag2,ticker2=tag" into a tag map.
func parseTags(s string) map[string][]string {
	if s == "" {
		return nil
	}
	tags := make(map[string][]string)
	for _, part := range strings.Split(s, ",") {
		ticker, list, ok := strings.Cut(part, "=")
		if !ok {
			continue
		}
		tags[strings.ToLower(strings.TrimSpace(ticker))] = strings.Split(list, ";")
	}
	return tags
}
