// Package policy turns user choices into search and analysis configuration.
package policy

import (
	"github.com/abramin/unused/internal/analysis"
	"github.com/abramin/unused/internal/search"
	"github.com/abramin/unused/internal/tags"
)

// Policy holds validated user choices. The zero value selects every default.
type Policy struct {
	NoProgress      bool
	AllLikelihoods  bool
	Likelihoods     []analysis.Status
	SortField       analysis.SortField
	Reverse         bool
	OnlyLanguages   []tags.Language
	ExceptLanguages []tags.Language
}

// ExceptIgnored reports whether the except list was dropped in favour of only.
func (p Policy) ExceptIgnored() bool {
	return len(p.OnlyLanguages) > 0 && len(p.ExceptLanguages) > 0
}

// SearchConfig builds the search configuration. A non-empty only list wins
// over an except list.
func (p Policy) SearchConfig() search.Config {
	cfg := search.DefaultConfig()
	if p.NoProgress {
		cfg.DisplayProgress = false
	}
	switch {
	case len(p.OnlyLanguages) > 0:
		cfg.LanguageRestriction = search.Only(p.OnlyLanguages)
	case len(p.ExceptLanguages) > 0:
		cfg.LanguageRestriction = search.Except(p.ExceptLanguages)
	}
	return cfg
}

// AnalysisFilter builds the result filter. AllLikelihoods overrides any
// explicit likelihood list.
func (p Policy) AnalysisFilter() analysis.Filter {
	f := analysis.DefaultFilter()
	if len(p.Likelihoods) > 0 {
		f.Likelihoods = dedupe(p.Likelihoods)
	}
	if p.AllLikelihoods {
		f.Likelihoods = append([]analysis.Status(nil), analysis.AllStatuses...)
	}
	f.SortField = p.SortField
	f.SortDescending = p.Reverse
	return f
}

func dedupe(in []analysis.Status) []analysis.Status {
	seen := make(map[analysis.Status]struct{}, len(in))
	out := make([]analysis.Status, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
