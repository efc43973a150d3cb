package tags

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// Language identifies a source language by its canonical file extension.
// The zero value means no language was recorded.
type Language string

const (
	Ruby       Language = "rb"
	Erb        Language = "erb"
	Elixir     Language = "ex"
	ElixirExs  Language = "exs"
	Elm        Language = "elm"
	Haskell    Language = "hs"
	JavaScript Language = "js"
	JSX        Language = "jsx"
	TypeScript Language = "ts"
	TSX        Language = "tsx"
	Go         Language = "go"
	Python     Language = "py"
	Rust       Language = "rs"
	Java       Language = "java"
	Kotlin     Language = "kt"
	Swift      Language = "swift"
	PHP        Language = "php"
	CSharp     Language = "cs"
	C          Language = "c"
	CPP        Language = "cpp"
	CHeader    Language = "h"
	CSS        Language = "css"
	SCSS       Language = "scss"
)

// ctagsNames maps the language field written by ctags to a language.
var ctagsNames = map[string]Language{
	"ruby":       Ruby,
	"erb":        Erb,
	"elixir":     Elixir,
	"elm":        Elm,
	"haskell":    Haskell,
	"javascript": JavaScript,
	"typescript": TypeScript,
	"tsx":        TSX,
	"go":         Go,
	"python":     Python,
	"rust":       Rust,
	"java":       Java,
	"kotlin":     Kotlin,
	"swift":      Swift,
	"php":        PHP,
	"c#":         CSharp,
	"c":          C,
	"c++":        CPP,
	"css":        CSS,
	"scss":       SCSS,
}

var extensions = map[string]Language{
	"rb": Ruby, "erb": Erb, "ex": Elixir, "exs": ElixirExs, "elm": Elm,
	"hs": Haskell, "js": JavaScript, "jsx": JSX, "ts": TypeScript, "tsx": TSX,
	"go": Go, "py": Python, "rs": Rust, "java": Java, "kt": Kotlin,
	"swift": Swift, "php": PHP, "cs": CSharp, "c": C, "cpp": CPP, "cc": CPP,
	"h": CHeader, "css": CSS, "scss": SCSS, "rake": Ruby, "mjs": JavaScript,
}

// Extensions lists the accepted language identifiers in sorted order.
func Extensions() []string {
	seen := make(map[Language]struct{})
	var out []string
	for _, l := range extensions {
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		out = append(out, string(l))
	}
	sort.Strings(out)
	return out
}

// ParseLanguage resolves a user-supplied language identifier.
func ParseLanguage(s string) (Language, error) {
	ext := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), ".")
	if l, ok := extensions[ext]; ok && string(l) == ext {
		return l, nil
	}
	return "", fmt.Errorf("unknown language %q (valid: %s)", s, strings.Join(Extensions(), ", "))
}

// LanguageForPath derives a language from a file's extension.
func LanguageForPath(path string) Language {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	return extensions[ext]
}

// languageForCtagsName resolves the language: field of a tag line.
func languageForCtagsName(name string) Language {
	return ctagsNames[strings.ToLower(name)]
}
