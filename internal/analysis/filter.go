package analysis

import (
	"fmt"
	"sort"
	"strings"
)

// SortField selects the order of filtered results. The zero value keeps
// input order.
type SortField string

const (
	SortNone        SortField = ""
	SortToken       SortField = "token"
	SortFile        SortField = "file"
	SortLikelihood  SortField = "likelihood"
	SortOccurrences SortField = "occurrences"
)

// SortFields lists the fields accepted on the command line.
var SortFields = []SortField{SortToken, SortFile, SortLikelihood, SortOccurrences}

// ParseSortField resolves a case-insensitive sort field name. "none" selects
// input order.
func ParseSortField(s string) (SortField, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	if v == "none" {
		return SortNone, nil
	}
	for _, f := range SortFields {
		if string(f) == v {
			return f, nil
		}
	}
	names := make([]string, len(SortFields))
	for i, f := range SortFields {
		names[i] = string(f)
	}
	return "", fmt.Errorf("unknown sort order %q (valid: %s, none)", s, strings.Join(names, ", "))
}

func (f SortField) String() string {
	if f == SortNone {
		return "none"
	}
	return string(f)
}

// Filter selects and orders classified results.
type Filter struct {
	Likelihoods    []Status
	SortField      SortField
	SortDescending bool
}

// DefaultFilter keeps high-likelihood results in input order.
func DefaultFilter() Filter {
	return Filter{Likelihoods: []Status{High}}
}

// SortDescription describes the active ordering, e.g. "token (descending)".
func (f Filter) SortDescription() string {
	dir := "ascending"
	if f.SortDescending {
		dir = "descending"
	}
	return fmt.Sprintf("%s (%s)", f.SortField, dir)
}

// Allows reports whether a status passes the likelihood filter.
func (f Filter) Allows(s Status) bool {
	for _, l := range f.Likelihoods {
		if l == s {
			return true
		}
	}
	return false
}

// Apply returns the results whose status passes the filter, ordered by the
// sort field. The input slice is not modified.
func (f Filter) Apply(results []Result) []Result {
	kept := make([]Result, 0, len(results))
	for _, r := range results {
		if f.Allows(r.UsageLikelihood.Status) {
			kept = append(kept, r)
		}
	}

	if less := f.less(); less != nil {
		sort.SliceStable(kept, func(i, j int) bool { return less(kept[i], kept[j]) })
	}
	if f.SortDescending {
		for i, j := 0, len(kept)-1; i < j; i, j = i+1, j-1 {
			kept[i], kept[j] = kept[j], kept[i]
		}
	}
	return kept
}

// less returns a total order for the sort field, or nil to keep input order.
func (f Filter) less() func(a, b Result) bool {
	var primary func(a, b Result) int
	switch f.SortField {
	case SortToken:
		primary = func(a, b Result) int { return 0 }
	case SortFile:
		primary = func(a, b Result) int { return strings.Compare(a.FirstPath(), b.FirstPath()) }
	case SortLikelihood:
		primary = func(a, b Result) int { return a.UsageLikelihood.Status.rank() - b.UsageLikelihood.Status.rank() }
	case SortOccurrences:
		primary = func(a, b Result) int { return a.Occurrences.Count() - b.Occurrences.Count() }
	default:
		return nil
	}
	return func(a, b Result) bool {
		if c := primary(a, b); c != 0 {
			return c < 0
		}
		if c := strings.Compare(a.Spelling, b.Spelling); c != 0 {
			return c < 0
		}
		return a.FirstPath() < b.FirstPath()
	}
}
