// Package locator relocates short evidence quotes inside paginated document
// text. Extracted PDF text often reflows or re-wraps relative to the visual
// layout, so matching degrades through an ordered chain of strategies:
// exact, whitespace-normalized and five-word prefix.
package locator

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	// MinQuoteLength is the shortest quote (in characters) worth locating
	MinQuoteLength = 8
	// PrefixWords is the number of leading words tried by the prefix strategy
	PrefixWords = 5
)

// Region is a span of one page's text. Page is the 0-based page index; Start
// and End are byte offsets into that page's text.
type Region struct {
	Page  int `json:"page"`
	Start int `json:"start"`
	End   int `json:"end"`
}

// Matcher is one tier of the fallback chain. It returns every match across
// all pages, or nothing.
type Matcher interface {
	Name() string
	Match(quote string, pages []string) []Region
}

// Result is the outcome of a Locate call
type Result struct {
	Regions  []Region
	Strategy string // name of the matcher that produced Regions
}

// Locator tries its matchers in order and stops at the first that matches
type Locator struct {
	matchers []Matcher
}

// New creates a locator with the given chain, or the default chain when none is given
func New(matchers ...Matcher) *Locator {
	if len(matchers) == 0 {
		matchers = []Matcher{Exact{}, Normalized{}, Prefix{Words: PrefixWords}}
	}
	return &Locator{matchers: matchers}
}

// Locate finds quote in pages. It never fails: an empty result means the
// evidence could not be located.
func (l *Locator) Locate(quote string, pages []string) Result {
	if utf8.RuneCountInString(quote) < MinQuoteLength {
		return Result{Regions: []Region{}}
	}
	for _, m := range l.matchers {
		if regions := m.Match(quote, pages); len(regions) > 0 {
			return Result{Regions: regions, Strategy: m.Name()}
		}
	}
	return Result{Regions: []Region{}}
}

// Exact searches for the quote as given, ignoring case
type Exact struct{}

func (Exact) Name() string { return "exact" }

func (Exact) Match(quote string, pages []string) []Region {
	if quote == "" {
		return nil
	}
	return findAll(regexp.MustCompile(`(?i)`+regexp.QuoteMeta(quote)), pages)
}

// Normalized collapses whitespace runs in the quote and lets any whitespace
// run in the page separate the words, which absorbs line-wrap artifacts.
type Normalized struct{}

func (Normalized) Name() string { return "normalized" }

func (Normalized) Match(quote string, pages []string) []Region {
	words := strings.Fields(quote)
	if len(words) == 0 {
		return nil
	}
	return findAll(wordsPattern(words), pages)
}

// Prefix retries with only the first Words words of a longer quote. Quotes
// with Words or fewer words are left to the earlier tiers.
type Prefix struct {
	Words int
}

func (Prefix) Name() string { return "prefix" }

func (p Prefix) Match(quote string, pages []string) []Region {
	words := strings.Fields(quote)
	if p.Words <= 0 || len(words) <= p.Words {
		return nil
	}
	return findAll(wordsPattern(words[:p.Words]), pages)
}

func wordsPattern(words []string) *regexp.Regexp {
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = regexp.QuoteMeta(w)
	}
	return regexp.MustCompile(`(?i)` + strings.Join(quoted, `\s+`))
}

func findAll(re *regexp.Regexp, pages []string) []Region {
	var regions []Region
	for i, page := range pages {
		for _, loc := range re.FindAllStringIndex(page, -1) {
			regions = append(regions, Region{Page: i, Start: loc[0], End: loc[1]})
		}
	}
	return regions
}
