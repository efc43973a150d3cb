// Package token groups tag entries into tokens keyed by canonical spelling.
package token

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/abramin/unused/internal/tags"
)

// prefixPunctuation marks instance-scoped members in some tag generators
// (for example "#name" in RSpec describe blocks).
const prefixPunctuation = "#."

// Token is every definition site sharing one canonical spelling.
type Token struct {
	Spelling    string       `json:"token"`
	Definitions []tags.Entry `json:"definitions"`
}

// Source yields raw tag entries.
type Source interface {
	Load() ([]tags.Entry, error)
}

// Canonicalize strips leading instance-member punctuation from a raw name.
func Canonicalize(name string) string {
	return strings.TrimLeft(name, prefixPunctuation)
}

// All loads entries from src and groups them. A source that cannot be read
// or parsed yields no tokens.
func All(src Source, logger *slog.Logger) []Token {
	entries, err := src.Load()
	if err != nil {
		if logger != nil {
			logger.Debug("tag source unavailable, continuing with no tokens", "error", err)
		}
		return nil
	}
	return Group(entries)
}

// Group sorts entries by canonical spelling and splits them into one token
// per spelling. Entries sharing a spelling keep their input order.
func Group(entries []tags.Entry) []Token {
	type keyed struct {
		key   string
		entry tags.Entry
	}
	sorted := make([]keyed, len(entries))
	for i, e := range entries {
		sorted[i] = keyed{key: Canonicalize(e.Name), entry: e}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].key < sorted[j].key
	})

	var tokens []Token
	for i := 0; i < len(sorted); {
		j := i
		defs := make([]tags.Entry, 0, 1)
		for j < len(sorted) && sorted[j].key == sorted[i].key {
			defs = append(defs, sorted[j].entry)
			j++
		}
		tokens = append(tokens, Token{Spelling: sorted[i].key, Definitions: defs})
		i = j
	}
	return tokens
}

// DefinedPaths returns the distinct definition file paths, sorted.
func (t Token) DefinedPaths() []string {
	seen := make(map[string]struct{}, len(t.Definitions))
	paths := make([]string, 0, len(t.Definitions))
	for _, d := range t.Definitions {
		if _, ok := seen[d.FilePath]; ok {
			continue
		}
		seen[d.FilePath] = struct{}{}
		paths = append(paths, d.FilePath)
	}
	sort.Strings(paths)
	return paths
}

// FirstPath returns the lexicographically smallest definition path.
func (t Token) FirstPath() string {
	paths := t.DefinedPaths()
	if len(paths) == 0 {
		return ""
	}
	return paths[0]
}

// Languages returns one language per definition, skipping definitions
// without one.
func (t Token) Languages() []tags.Language {
	var langs []tags.Language
	for _, d := range t.Definitions {
		if d.Language != "" {
			langs = append(langs, d.Language)
		}
	}
	return langs
}

// OnlyDefinitions reports whether every definition satisfies check.
func (t Token) OnlyDefinitions(check func(tags.Entry) bool) bool {
	for _, d := range t.Definitions {
		if !check(d) {
			return false
		}
	}
	return true
}
