package cmd

import (
	"testing"
)

func TestParseTags(t *testing.T) {
	got := parseTags("AAPL=tech;core, asml =semi")
	if len(got) != 2 {
		t.Fatalf("parsed %d tickers, want 2: %v", len(got), got)
	}
	if tags := got["aapl"]; len(tags) != 2 || tags[0] != "tech" || tags[1] != "core" {
		t.Errorf("aapl tags = %v", tags)
	}
	if tags := got["asml"]; len(tags) != 1 || tags[0] != "semi" {
		t.Errorf("asml tags = %v", tags)
	}
	if parseTags("") != nil {
		t.Error("empty input should parse to nil")
	}
}

func TestParseFractions(t *testing.T) {
	got, err := parseFractions("a=0.6, B=0.4")
	if err != nil {
		t.Fatalf("parseFractions: %v", err)
	}
	if len(got) != 2 || got["a"].String() != "0.6" || got["b"].String() != "0.4" {
		t.Errorf("fractions = %v", got)
	}
	if _, err := parseFractions("a:0.6"); err == nil {
		t.Error("accepted input without =")
	}
	if _, err := parseFractions("a=sixty"); err == nil {
		t.Error("accepted non-numeric value")
	}
}

func TestSplitList(t *testing.T) {
	got := splitList(" AAPL ,,asml")
	if len(got) != 2 || got[0] != "aapl" || got[1] != "asml" {
		t.Errorf("splitList = %v", got)
	}
}

func TestPick(t *testing.T) {
	if got := pick("", "env", "default"); got != "env" {
		t.Errorf("pick = %q, want env", got)
	}
	if got := pick("", "", ""); got != "" {
		t.Errorf("pick = %q, want empty", got)
	}
}
