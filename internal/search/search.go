package search

import (
	"bytes"
	"fmt"
	"log/slog"
	"path"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/abramin/unused/internal/token"
)

// wordPattern matches identifier-like words, including Ruby-style ? and ! suffixes.
var wordPattern = regexp.MustCompile(`[\p{L}_$][\p{L}\p{N}_$]*[?!]?`)

// Occurrence is one appearance of a token spelling outside its definition sites.
type Occurrence struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Occurrences buckets occurrences by file path.
type Occurrences map[string][]Occurrence

// Paths returns the files with at least one occurrence, sorted.
func (o Occurrences) Paths() []string {
	paths := make([]string, 0, len(o))
	for p := range o {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Count returns the total number of occurrences across files.
func (o Occurrences) Count() int {
	n := 0
	for _, occ := range o {
		n += len(occ)
	}
	return n
}

// Result pairs a token with the occurrences found for it.
type Result struct {
	Token       token.Token
	Occurrences Occurrences
}

// NormalizePath makes tag file paths comparable with discovered paths.
func NormalizePath(p string) string {
	p = path.Clean(filepath.ToSlash(p))
	return strings.TrimPrefix(p, "./")
}

// sites records where a token is defined within one file.
type sites struct {
	lines    map[int]struct{}
	patterns map[string]struct{}
	prefixes []string
}

func (s *sites) contains(lineNo int, text string) bool {
	if s == nil {
		return false
	}
	if _, ok := s.lines[lineNo]; ok {
		return true
	}
	if _, ok := s.patterns[text]; ok {
		return true
	}
	for _, p := range s.prefixes {
		if strings.HasPrefix(text, p) {
			return true
		}
	}
	return false
}

// Searcher scans project files for token spellings.
type Searcher struct {
	root     string
	logger   *slog.Logger
	progress Progress
}

// NewSearcher creates a searcher rooted at root. A nil progress reports nothing.
func NewSearcher(root string, logger *slog.Logger, progress Progress) *Searcher {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if progress == nil {
		progress = noProgress{}
	}
	return &Searcher{root: root, logger: logger, progress: progress}
}

// Run filters tokens by the configured language restriction and returns one
// result per remaining token, in token order.
func (s *Searcher) Run(tokens []token.Token, cfg Config) ([]Result, error) {
	var kept []token.Token
	for _, t := range tokens {
		if cfg.LanguageRestriction.Allows(t) {
			kept = append(kept, t)
		}
	}

	files, err := Files(s.root)
	if err != nil {
		return nil, fmt.Errorf("discovering files: %w", err)
	}
	s.logger.Debug("searching", "tokens", len(kept), "files", len(files))

	index := make(map[string]int, len(kept))
	defSites := make(map[string]map[int]*sites)
	results := make([]Result, len(kept))
	for i, t := range kept {
		results[i] = Result{Token: t, Occurrences: Occurrences{}}
		if t.Spelling != "" {
			index[t.Spelling] = i
		}
		for _, d := range t.Definitions {
			file := NormalizePath(d.FilePath)
			byToken, ok := defSites[file]
			if !ok {
				byToken = make(map[int]*sites)
				defSites[file] = byToken
			}
			st, ok := byToken[i]
			if !ok {
				st = &sites{lines: map[int]struct{}{}, patterns: map[string]struct{}{}}
				byToken[i] = st
			}
			if n, ok := d.Line(); ok {
				st.lines[n] = struct{}{}
			} else if p, ok := d.Pattern(); ok {
				if d.Truncated {
					st.prefixes = append(st.prefixes, p)
				} else {
					st.patterns[p] = struct{}{}
				}
			}
		}
	}

	s.progress.Start(len(files))
	for n, file := range files {
		s.scanFile(file, index, defSites[file], results)
		s.progress.Step(n + 1)
	}
	s.progress.Finish()

	return results, nil
}

func (s *Searcher) scanFile(file string, index map[string]int, fileSites map[int]*sites, results []Result) {
	if len(index) == 0 {
		return
	}
	data, ok := readText(filepath.Join(s.root, filepath.FromSlash(file)))
	if !ok {
		return
	}

	for lineIdx, raw := range bytes.Split(data, []byte("\n")) {
		raw = bytes.TrimSuffix(raw, []byte("\r"))
		var text string
		for _, loc := range wordPattern.FindAllIndex(raw, -1) {
			word := string(raw[loc[0]:loc[1]])
			i, ok := index[word]
			if !ok {
				trimmed := strings.TrimRight(word, "?!")
				if trimmed == word {
					continue
				}
				if i, ok = index[trimmed]; !ok {
					continue
				}
			}
			if text == "" {
				text = string(raw)
			}
			if fileSites[i].contains(lineIdx+1, text) {
				continue
			}
			results[i].Occurrences[file] = append(results[i].Occurrences[file], Occurrence{
				Line:   lineIdx + 1,
				Column: loc[0] + 1,
			})
		}
	}
}
