package cmd

import (
	"context"
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/google/subcommands"
	"github.com/shopspring/decimal"

	"github.com/vozeel/gator"
)

// txCmd records a single transaction in the ledger.
type txCmd struct {
	when     string
	typ      string
	action   string
	ticker   string
	shares   string
	price    string
	priceCur string
	transact string
	fee      string
	tags     string
}

func (*txCmd) Name() string     { return "tx" }
func (*txCmd) Synopsis() string { return "record a transaction in the ledger" }
func (*txCmd) Usage() string {
	return `gator tx -ticker <symbol> -shares <n> -price <p> [-type buy|sale] [-action real|non_real] ...

  Validates and appends one transaction. The share price currency may differ
  from the settlement currency; both default to the base currency.

`
}

func (c *txCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.when, "date", time.Now().Format("2006-01-02 15:04"), "transaction datetime, 2006-01-02 15:04")
	f.StringVar(&c.typ, "type", "buy", "buy or sale")
	f.StringVar(&c.action, "action", "real", "real or non_real (corporate action)")
	f.StringVar(&c.ticker, "ticker", "", "ticker symbol")
	f.StringVar(&c.shares, "shares", "", "share count, strictly positive")
	f.StringVar(&c.price, "price", "", "price per share")
	f.StringVar(&c.priceCur, "price-currency", "", "share price currency, defaults to the base currency")
	f.StringVar(&c.transact, "transact-currency", "", "settlement currency, defaults to the base currency")
	f.StringVar(&c.fee, "fee", "0", "broker fee in the settlement currency")
	f.StringVar(&c.tags, "tags", "", "comma-separated tags")
}

func (c *txCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg := LoadConfig()

	when, err := time.Parse("2006-01-02 15:04", c.when)
	if err != nil {
		return usageError(fmt.Errorf("parsing -date: %w", err))
	}
	shares, err := decimal.NewFromString(c.shares)
	if err != nil {
		return usageError(fmt.Errorf("parsing -shares: %w", err))
	}
	price, err := decimal.NewFromString(c.price)
	if err != nil {
		return usageError(fmt.Errorf("parsing -price: %w", err))
	}
	fee, err := decimal.NewFromString(c.fee)
	if err != nil {
		return usageError(fmt.Errorf("parsing -fee: %w", err))
	}
	priceCur := pick(c.priceCur, cfg.BaseCurrency)
	transactCur := pick(c.transact, cfg.BaseCurrency)

	tx, err := gator.NewTransaction(when, gator.Type(c.typ), gator.Action(c.action),
		c.ticker, gator.Q(shares), gator.M(price, priceCur), transactCur, gator.Q(fee))
	if err != nil {
		return usageError(err)
	}

	p, err := loadPortfolio(cfg)
	if err != nil {
		return fail(err)
	}
	var tags []string
	if c.tags != "" {
		tags = strings.Split(c.tags, ",")
	}
	entry, err := p.AddTransaction(ctx, tx, tags...)
	if err != nil {
		return fail(err)
	}
	if err := appendEntries(ctx, cfg, entry); err != nil {
		return fail(err)
	}
	fmt.Printf("Recorded %s (%s) in %s\n", tx, entry.Name, cfg.LedgerFile)
	return subcommands.ExitSuccess
}
