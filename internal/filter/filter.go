// Package filter defines the query criteria shared by post listings and every
// analytics aggregation. A single SQL builder keeps the "which posts are in
// scope" decision identical across all consumers.
package filter

import (
	"fmt"
	"strings"
)

// Spec is an immutable set of optional criteria. Zero-valued fields impose no
// constraint; present fields are AND-combined. Date bounds are inclusive
// ISO-8601 strings compared against the post creation timestamp; the HTTP
// boundary validates their format before a Spec is built.
type Spec struct {
	Ticker    string
	Industry  string
	Sector    string
	Sentiment string
	StartDate string
	EndDate   string
}

// IsZero reports whether the spec imposes no constraint at all
func (s Spec) IsZero() bool {
	return s == Spec{}
}

// HasDates reports whether either date bound is set
func (s Spec) HasDates() bool {
	return s.StartDate != "" || s.EndDate != ""
}

// DateOnly returns a copy retaining only the date bounds. Market pulse and the
// per-ticker breakdown accept a date-range filter and ignore dimension criteria.
func (s Spec) DateOnly() Spec {
	return Spec{StartDate: s.StartDate, EndDate: s.EndDate}
}

// Clause is the SQL rendering of a Spec against posts aliased as "p".
type Clause struct {
	Joins string
	Conds []string
	Args  []interface{}

	nextArg int
}

// Where renders a WHERE clause combining the spec conditions with any extra
// conditions the caller supplies. Returns "" when nothing constrains the query.
func (c Clause) Where(extra ...string) string {
	conds := append(append([]string{}, c.Conds...), extra...)
	if len(conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(conds, " AND ")
}

// NextArg returns the placeholder number following the clause's own arguments
func (c Clause) NextArg() int {
	return c.nextArg
}

// Build renders the spec into join fragments and parameterized conditions.
// Placeholder numbering starts at argOffset+1 so callers can prepend their own
// bind parameters. Values are always bound, never concatenated.
func (s Spec) Build(argOffset int) Clause {
	var c Clause
	n := argOffset

	bind := func(cond string, arg interface{}) {
		n++
		c.Conds = append(c.Conds, fmt.Sprintf(cond, n))
		c.Args = append(c.Args, arg)
	}

	if s.Ticker != "" {
		c.Joins += `
			INNER JOIN post_tickers pt ON p.id = pt.post_id
			INNER JOIN tickers t ON pt.ticker_id = t.id`
		bind("t.symbol = $%d", s.Ticker)
	}

	if s.Industry != "" {
		c.Joins += `
			INNER JOIN post_industries pi ON p.id = pi.post_id
			INNER JOIN industries i ON pi.industry_id = i.id`
		bind("i.name = $%d", s.Industry)
	}

	if s.Sector != "" {
		c.Joins += `
			INNER JOIN post_sectors ps ON p.id = ps.post_id
			INNER JOIN sectors s ON ps.sector_id = s.id`
		bind("s.name = $%d", s.Sector)
	}

	if s.Sentiment != "" {
		bind("p.sentiment_label = $%d", s.Sentiment)
	}

	if s.StartDate != "" {
		bind("p.created_at >= $%d::timestamptz", s.StartDate)
	}

	if s.EndDate != "" {
		bind("p.created_at <= $%d::timestamptz", s.EndDate)
	}

	c.nextArg = n + 1

	return c
}
