package cmd

import (
	"flag"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config is the application configuration: flags override environment
// variables, which a .env file in the working directory may provide.
type Config struct {
	LedgerFile   string
	DatabaseFile string
	BaseCurrency string
}

var (
	ledgerFile   = flag.String("l", "", "ledger file (JSONL), default ledger.jsonl or $GATOR_LEDGER")
	databaseFile = flag.String("db", "", "optional SQLite mirror, default $GATOR_DB")
	baseCurrency = flag.String("base", "", "portfolio base currency, default eur or $GATOR_BASE_CURRENCY")
)

// LoadConfig resolves the configuration. Call after flag.Parse.
func LoadConfig() Config {
	// Absence of a .env file is the common case, not an error.
	_ = godotenv.Load()

	if level, err := logrus.ParseLevel(os.Getenv("GATOR_LOG_LEVEL")); err == nil {
		logrus.SetLevel(level)
	}

	return Config{
		LedgerFile:   pick(*ledgerFile, os.Getenv("GATOR_LEDGER"), "ledger.jsonl"),
		DatabaseFile: pick(*databaseFile, os.Getenv("GATOR_DB"), ""),
		BaseCurrency: pick(*baseCurrency, os.Getenv("GATOR_BASE_CURRENCY"), "eur"),
	}
}

// pick returns the first non-empty value.
func pick(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
