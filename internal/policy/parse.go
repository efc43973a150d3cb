package policy

import (
	"fmt"
	"strings"

	"github.com/abramin/unused/internal/analysis"
	"github.com/abramin/unused/internal/tags"
)

// Input is the raw, unvalidated form of a Policy as read from flags or
// environment variables. List values may be comma-delimited.
type Input struct {
	NoProgress      bool
	AllLikelihoods  bool
	Likelihoods     []string
	SortOrder       string
	Reverse         bool
	OnlyFiletypes   []string
	ExceptFiletypes []string
}

// Parse validates every enumerated value and returns the typed policy.
func Parse(in Input) (Policy, error) {
	p := Policy{
		NoProgress:     in.NoProgress,
		AllLikelihoods: in.AllLikelihoods,
		Reverse:        in.Reverse,
	}

	for _, v := range splitList(in.Likelihoods) {
		s, err := analysis.ParseStatus(v)
		if err != nil {
			return Policy{}, fmt.Errorf("--likelihood: %w", err)
		}
		p.Likelihoods = append(p.Likelihoods, s)
	}

	if in.SortOrder != "" {
		f, err := analysis.ParseSortField(in.SortOrder)
		if err != nil {
			return Policy{}, fmt.Errorf("--sort-order: %w", err)
		}
		p.SortField = f
	}

	var err error
	if p.OnlyLanguages, err = parseLanguages(in.OnlyFiletypes); err != nil {
		return Policy{}, fmt.Errorf("--only-filetypes: %w", err)
	}
	if p.ExceptLanguages, err = parseLanguages(in.ExceptFiletypes); err != nil {
		return Policy{}, fmt.Errorf("--except-filetypes: %w", err)
	}
	return p, nil
}

func parseLanguages(values []string) ([]tags.Language, error) {
	var langs []tags.Language
	for _, v := range splitList(values) {
		l, err := tags.ParseLanguage(v)
		if err != nil {
			return nil, err
		}
		langs = append(langs, l)
	}
	return langs, nil
}

// splitList flattens comma- and space-delimited values, dropping empties.
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		out = append(out, strings.FieldsFunc(v, func(r rune) bool { return r == ',' || r == ' ' })...)
	}
	return out
}
