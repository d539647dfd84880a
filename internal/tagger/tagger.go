// Package tagger extracts ticker symbols from post text and classifies them
// into sectors and industries using a static reference mapping.
package tagger

import (
	"regexp"
	"sort"
)

var (
	cashtagPattern    = regexp.MustCompile(`\$([A-Z]{1,5})\b`)
	standalonePattern = regexp.MustCompile(`\b([A-Z]{1,5})\b`)
	dottedPattern     = regexp.MustCompile(`\b([A-Z]{1,4}\.[A-Z])\b`)
)

// TickerInfo is the reference data for one symbol
type TickerInfo struct {
	Company  string
	Sector   string
	Industry string
}

// Tags is the dimension annotation extracted from one post
type Tags struct {
	Tickers    []string
	Sectors    []string
	Industries []string
}

// Tagger extracts and classifies ticker symbols
type Tagger struct {
	mappings map[string]TickerInfo
	excluded map[string]struct{}
}

// New creates a tagger backed by the built-in reference mapping
func New() *Tagger {
	return NewWithMappings(defaultMappings())
}

// NewWithMappings creates a tagger with a caller-supplied symbol mapping
func NewWithMappings(mappings map[string]TickerInfo) *Tagger {
	return &Tagger{
		mappings: mappings,
		excluded: buildExcludedWords(),
	}
}

// ExtractTickers returns the unique known ticker symbols mentioned in text,
// sorted. Cashtags ($AAPL) are accepted even for unknown symbols; bare
// all-caps words must be known symbols and not common English words.
func (t *Tagger) ExtractTickers(text string) []string {
	if text == "" {
		return nil
	}

	found := make(map[string]struct{})

	for _, m := range cashtagPattern.FindAllStringSubmatch(text, -1) {
		found[m[1]] = struct{}{}
	}

	for _, m := range standalonePattern.FindAllStringSubmatch(text, -1) {
		symbol := m[1]
		if _, skip := t.excluded[symbol]; skip {
			continue
		}
		if _, known := t.mappings[symbol]; known {
			found[symbol] = struct{}{}
		}
	}

	for _, m := range dottedPattern.FindAllStringSubmatch(text, -1) {
		if _, known := t.mappings[m[1]]; known {
			found[m[1]] = struct{}{}
		}
	}

	tickers := make([]string, 0, len(found))
	for symbol := range found {
		tickers = append(tickers, symbol)
	}
	sort.Strings(tickers)

	return tickers
}

// Info returns the reference data for a symbol, or false when unknown
func (t *Tagger) Info(symbol string) (TickerInfo, bool) {
	info, ok := t.mappings[symbol]
	return info, ok
}

// Tag extracts tickers from text and resolves their sectors and industries.
// Sector and industry lists are unique and sorted; unknown symbols contribute
// no classification.
func (t *Tagger) Tag(text string) Tags {
	tickers := t.ExtractTickers(text)

	sectors := make(map[string]struct{})
	industries := make(map[string]struct{})

	for _, symbol := range tickers {
		info, ok := t.mappings[symbol]
		if !ok {
			continue
		}
		if info.Sector != "" {
			sectors[info.Sector] = struct{}{}
		}
		if info.Industry != "" {
			industries[info.Industry] = struct{}{}
		}
	}

	return Tags{
		Tickers:    tickers,
		Sectors:    sortedKeys(sectors),
		Industries: sortedKeys(industries),
	}
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// buildExcludedWords returns common all-caps words that look like tickers but
// almost never are
func buildExcludedWords() map[string]struct{} {
	words := []string{
		"A", "I", "US", "USA", "UK", "EU", "NA", "IT", "AT", "ON", "OR", "AND",
		"THE", "TO", "FOR", "OF", "IN", "IS", "BE", "ARE", "AS", "BY", "AN",
		"IF", "SO", "DO", "GO", "NO", "UP", "OUT", "NOW", "ALL", "NEW", "OLD",
		"SEE", "TWO", "MAY", "BIG", "HE", "SHE", "WE", "WHO", "WHAT", "WHEN",
		"WHERE", "WHY", "HOW", "CAN", "WILL", "HAS", "HAD", "WAS", "WERE",
		"BEEN", "HAVE", "THIS", "THAT", "THESE", "THOSE", "BUT", "FROM",
		"WITH", "THEY", "THEIR", "THERE", "THEN", "THAN", "THEM", "SOME",
		"ANY", "MANY", "MUCH", "MORE", "MOST", "SUCH", "VERY", "JUST", "ONLY",
		"ALSO", "EACH", "BOTH", "FEW", "LESS",
		"CEO", "CFO", "CTO", "COO", "IPO", "ETF", "SEC", "NYSE", "NASDAQ",
		"DOW", "SP", "WSB", "DD", "YOLO", "FOMO", "FUD", "IMO", "IMHO", "TBH",
		"ASAP", "FYI", "BTW", "LOL", "OMG", "WTF", "ELI", "TL", "DR", "TLDR",
		"ETA", "AMA", "PSA", "OC", "NSFW", "SFW", "EDIT", "UPDATE", "PM",
		"AM", "EST", "PST", "MST", "CST", "GMT", "UTC",
	}

	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
