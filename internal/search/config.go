// Package search finds occurrences of token spellings across a project.
package search

import (
	"sort"
	"strings"

	"github.com/abramin/unused/internal/tags"
	"github.com/abramin/unused/internal/token"
)

// RestrictionMode selects how a LanguageRestriction filters tokens.
type RestrictionMode int

const (
	RestrictAll RestrictionMode = iota
	RestrictOnly
	RestrictExcept
)

// LanguageRestriction limits the tokens searched by definition language.
type LanguageRestriction struct {
	Mode      RestrictionMode
	Languages map[tags.Language]struct{}
}

// All places no restriction on languages.
func All() LanguageRestriction {
	return LanguageRestriction{Mode: RestrictAll}
}

// Only keeps tokens with at least one definition in langs.
func Only(langs []tags.Language) LanguageRestriction {
	return LanguageRestriction{Mode: RestrictOnly, Languages: toSet(langs)}
}

// Except drops tokens with any definition in langs.
func Except(langs []tags.Language) LanguageRestriction {
	return LanguageRestriction{Mode: RestrictExcept, Languages: toSet(langs)}
}

func toSet(langs []tags.Language) map[tags.Language]struct{} {
	set := make(map[tags.Language]struct{}, len(langs))
	for _, l := range langs {
		set[l] = struct{}{}
	}
	return set
}

// Allows reports whether the token passes the restriction.
func (r LanguageRestriction) Allows(t token.Token) bool {
	switch r.Mode {
	case RestrictOnly:
		for _, l := range t.Languages() {
			if _, ok := r.Languages[l]; ok {
				return true
			}
		}
		return false
	case RestrictExcept:
		for _, l := range t.Languages() {
			if _, ok := r.Languages[l]; ok {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// Sorted returns the restricted languages in sorted order.
func (r LanguageRestriction) Sorted() []tags.Language {
	out := make([]tags.Language, 0, len(r.Languages))
	for l := range r.Languages {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (r LanguageRestriction) String() string {
	names := make([]string, 0, len(r.Languages))
	for _, l := range r.Sorted() {
		names = append(names, string(l))
	}
	switch r.Mode {
	case RestrictOnly:
		return "only " + strings.Join(names, ", ")
	case RestrictExcept:
		return "except " + strings.Join(names, ", ")
	default:
		return "all"
	}
}

// Config controls a search run.
type Config struct {
	DisplayProgress     bool
	LanguageRestriction LanguageRestriction
}

// DefaultConfig searches every language and shows progress.
func DefaultConfig() Config {
	return Config{
		DisplayProgress:     true,
		LanguageRestriction: All(),
	}
}
