package tags

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrNoTagsFile is returned when none of the default tag file locations exist.
var ErrNoTagsFile = errors.New("no tags file found")

// DefaultLocations are searched in order, relative to the project root.
var DefaultLocations = []string{
	filepath.Join(".git", "tags"),
	"tags",
	".tags",
	filepath.Join("tmp", "tags"),
}

// Reader locates and parses a tag file.
type Reader struct {
	Root string // Project root used to resolve default locations
	Path string // Explicit tag file; overrides DefaultLocations when set
}

// Locate returns the tag file path the reader will load.
func (r *Reader) Locate() (string, error) {
	if r.Path != "" {
		return r.Path, nil
	}
	for _, loc := range DefaultLocations {
		p := filepath.Join(r.Root, loc)
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p, nil
		}
	}
	return "", ErrNoTagsFile
}

// Load reads and parses the tag file. Entry paths written relative to the
// tag file's directory, as ctags --tag-relative does, are rewritten
// relative to Root.
func (r *Reader) Load() ([]Entry, error) {
	path, err := r.Locate()
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening tags file: %w", err)
	}
	defer f.Close()

	entries, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	r.rebase(entries, filepath.Dir(path))
	return entries, nil
}

func (r *Reader) rebase(entries []Entry, tagDir string) {
	if r.Root == "" {
		return
	}
	root, err := filepath.Abs(r.Root)
	if err != nil {
		return
	}
	dir, err := filepath.Abs(tagDir)
	if err != nil {
		return
	}

	resolved := make(map[string]string)
	for i := range entries {
		p := entries[i].FilePath
		rel, ok := resolved[p]
		if !ok {
			rel = resolvePath(root, dir, p)
			resolved[p] = rel
		}
		entries[i].FilePath = rel
	}
}

// resolvePath returns p relative to root. Paths that do not exist relative
// to tagDir were written relative to the working directory and are kept.
func resolvePath(root, tagDir, p string) string {
	native := filepath.FromSlash(p)
	var abs string
	switch {
	case filepath.IsAbs(native):
		abs = native
	case tagDir == root:
		return p
	default:
		abs = filepath.Join(tagDir, native)
		if _, err := os.Stat(abs); err != nil {
			return p
		}
	}
	rel, err := filepath.Rel(root, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return p
	}
	return filepath.ToSlash(rel)
}

// Parse reads ctags lines. Any malformed line fails the whole parse.
func Parse(r io.Reader) ([]Entry, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	var entries []Entry
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" || strings.HasPrefix(line, "!_TAG_") {
			continue
		}
		entry, err := parseLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading tags: %w", err)
	}
	return entries, nil
}

func parseLine(line string) (Entry, error) {
	name, rest, ok := strings.Cut(line, "\t")
	if !ok || name == "" {
		return Entry{}, errors.New("missing tag name")
	}
	file, rest, ok := strings.Cut(rest, "\t")
	if !ok || file == "" {
		return Entry{}, errors.New("missing file path")
	}

	// The address may itself contain tabs, so split on the ;" terminator.
	address, fields, hasFields := strings.Cut(rest, ";\"")
	if address == "" {
		return Entry{}, errors.New("missing address")
	}

	pattern, truncated := unescapeAddress(address)
	entry := Entry{
		Name:      name,
		FilePath:  file,
		Tags:      make(map[string]string),
		Address:   pattern,
		Truncated: truncated,
	}

	var rawKind string
	if hasFields {
		for _, field := range strings.Split(fields, "\t") {
			if field == "" {
				continue
			}
			key, value, isPair := strings.Cut(field, ":")
			switch {
			case !isPair:
				rawKind = field
			case key == "kind":
				rawKind = value
			case key == "language":
				entry.Language = languageForCtagsName(value)
			default:
				entry.Tags[key] = value
			}
		}
	}

	if entry.Language == "" {
		entry.Language = LanguageForPath(file)
	}
	entry.Kind = ParseKind(rawKind, entry.Language)
	return entry, nil
}

// unescapeAddress turns /^pattern$/ into the literal line it matches.
// truncated reports a pattern without the closing $, which only matches
// the start of a line. Numeric addresses and other ex commands are
// returned unchanged.
func unescapeAddress(addr string) (pattern string, truncated bool) {
	if len(addr) < 2 {
		return addr, false
	}
	delim := addr[0]
	if (delim != '/' && delim != '?') || addr[len(addr)-1] != delim {
		return addr, false
	}
	body := addr[1 : len(addr)-1]
	body = strings.TrimPrefix(body, "^")
	if trimmed, anchored := strings.CutSuffix(body, "$"); anchored {
		body = trimmed
	} else {
		truncated = true
	}

	var b strings.Builder
	for i := 0; i < len(body); i++ {
		if body[i] == '\\' && i+1 < len(body) && (body[i+1] == '\\' || body[i+1] == delim) {
			i++
		}
		b.WriteByte(body[i])
	}
	return b.String(), truncated
}
