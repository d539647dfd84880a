package tagger

import (
	"reflect"
	"testing"
)

func TestExtractTickers_Cashtags(t *testing.T) {
	tg := New()

	tickers := tg.ExtractTickers("Loading up on $AAPL and $XYZAB before earnings")

	// Cashtags are accepted even when the symbol is not in the mapping
	want := []string{"AAPL", "XYZAB"}
	if !reflect.DeepEqual(tickers, want) {
		t.Errorf("expected %v, got %v", want, tickers)
	}
}

func TestExtractTickers_StandaloneKnownOnly(t *testing.T) {
	tg := New()

	tickers := tg.ExtractTickers("TSLA and NVDA look great but QQZZ is unknown")

	want := []string{"NVDA", "TSLA"}
	if !reflect.DeepEqual(tickers, want) {
		t.Errorf("expected %v, got %v", want, tickers)
	}
}

func TestExtractTickers_ExcludedWords(t *testing.T) {
	tg := New()

	tickers := tg.ExtractTickers("THE CEO SAID THIS IS A YOLO BUY FOR ALL OF US")

	if len(tickers) != 0 {
		t.Errorf("common words should not become tickers, got %v", tickers)
	}
}

func TestExtractTickers_DottedSymbols(t *testing.T) {
	tg := New()

	tickers := tg.ExtractTickers("Holding BRK.B forever")

	want := []string{"BRK.B"}
	if !reflect.DeepEqual(tickers, want) {
		t.Errorf("expected %v, got %v", want, tickers)
	}
}

func TestExtractTickers_Deduplicated(t *testing.T) {
	tg := New()

	tickers := tg.ExtractTickers("$AAPL AAPL $AAPL again")

	want := []string{"AAPL"}
	if !reflect.DeepEqual(tickers, want) {
		t.Errorf("expected %v, got %v", want, tickers)
	}
}

func TestExtractTickers_EmptyText(t *testing.T) {
	tg := New()

	if tickers := tg.ExtractTickers(""); tickers != nil {
		t.Errorf("empty text should yield nil, got %v", tickers)
	}
}

func TestTag_ResolvesClassification(t *testing.T) {
	tg := New()

	tags := tg.Tag("Comparing $AAPL with JPM this week")

	if !reflect.DeepEqual(tags.Tickers, []string{"AAPL", "JPM"}) {
		t.Errorf("unexpected tickers: %v", tags.Tickers)
	}
	if !reflect.DeepEqual(tags.Sectors, []string{"Financial Services", "Technology"}) {
		t.Errorf("unexpected sectors: %v", tags.Sectors)
	}
	if !reflect.DeepEqual(tags.Industries, []string{"Banks", "Consumer Electronics"}) {
		t.Errorf("unexpected industries: %v", tags.Industries)
	}
}

func TestTag_UnknownSymbolNoClassification(t *testing.T) {
	tg := New()

	tags := tg.Tag("All in on $XYZAB")

	if !reflect.DeepEqual(tags.Tickers, []string{"XYZAB"}) {
		t.Errorf("unexpected tickers: %v", tags.Tickers)
	}
	if len(tags.Sectors) != 0 || len(tags.Industries) != 0 {
		t.Errorf("unknown symbol should contribute no classification, got %+v", tags)
	}
}

func TestInfo(t *testing.T) {
	tg := New()

	info, ok := tg.Info("NVDA")
	if !ok {
		t.Fatal("NVDA should be known")
	}
	if info.Sector != "Technology" || info.Industry != "Semiconductors" {
		t.Errorf("unexpected info: %+v", info)
	}

	if _, ok := tg.Info("QQZZ"); ok {
		t.Error("QQZZ should be unknown")
	}
}
