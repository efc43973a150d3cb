package analysis

import (
	"fmt"
	"path"
	"strings"

	"github.com/abramin/unused/internal/config"
	"github.com/abramin/unused/internal/search"
)

var testDirs = []string{"test/", "tests/", "spec/", "__tests__/"}

// isTestPath reports whether a file looks like test code.
func isTestPath(p string) bool {
	p = search.NormalizePath(p)
	base := path.Base(p)
	if strings.Contains(base, "_test.") || strings.Contains(base, "_spec.") ||
		strings.Contains(base, ".test.") || strings.Contains(base, ".spec.") {
		return true
	}
	for _, dir := range testDirs {
		if strings.HasPrefix(p, dir) || strings.Contains(p, "/"+dir) {
			return true
		}
	}
	return false
}

// Classify assigns a usage likelihood to every search result, in order.
func Classify(results []search.Result, profile config.Profile) []Result {
	out := make([]Result, len(results))
	for i, r := range results {
		out[i] = Result{
			Token:           r.Token,
			Occurrences:     r.Occurrences,
			UsageLikelihood: classify(r, profile),
		}
	}
	return out
}

func classify(r search.Result, profile config.Profile) UsageLikelihood {
	if rule, ok := profile.Match(r.Token); ok {
		return UsageLikelihood{Status: Low, Reason: fmt.Sprintf("%s: %s", profile.Name, rule.Name)}
	}

	occurred := r.Occurrences.Paths()
	if len(occurred) == 0 {
		return UsageLikelihood{Status: High, Reason: "Only the definition exists"}
	}

	defined := make(map[string]struct{})
	definedInTests := false
	for _, p := range r.Token.DefinedPaths() {
		defined[search.NormalizePath(p)] = struct{}{}
		definedInTests = definedInTests || isTestPath(p)
	}

	onlyTests, onlyDefining := true, true
	var others []string
	for _, p := range occurred {
		if !isTestPath(p) {
			onlyTests = false
		}
		if _, ok := defined[p]; !ok {
			onlyDefining = false
			others = append(others, p)
		}
	}

	switch {
	case onlyTests && !definedInTests:
		return UsageLikelihood{Status: High, Reason: "Only the definition and corresponding tests exist"}
	case onlyDefining && len(defined) > 1:
		return UsageLikelihood{Status: Medium, Reason: "Used only in the files where it is defined"}
	case onlyDefining:
		return UsageLikelihood{Status: Medium, Reason: "Used only in the file where it is defined"}
	case len(others) == 1 && len(occurred) == 1:
		return UsageLikelihood{Status: Medium, Reason: "Used in one other file"}
	default:
		return UsageLikelihood{Status: Low, Reason: fmt.Sprintf("Used in %d files", len(occurred))}
	}
}
