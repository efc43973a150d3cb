// Package analysis classifies search results by how likely each token is
// to be unused, and filters and orders the classified results.
package analysis

import (
	"fmt"
	"strings"

	"github.com/abramin/unused/internal/search"
	"github.com/abramin/unused/internal/token"
)

// Status is the confidence that a token is unused.
type Status string

const (
	High   Status = "high"
	Medium Status = "medium"
	Low    Status = "low"
)

// AllStatuses lists every status, most likely unused first.
var AllStatuses = []Status{High, Medium, Low}

// ParseStatus resolves a case-insensitive status name.
func ParseStatus(s string) (Status, error) {
	switch Status(strings.ToLower(strings.TrimSpace(s))) {
	case High:
		return High, nil
	case Medium:
		return Medium, nil
	case Low:
		return Low, nil
	}
	return "", fmt.Errorf("unknown likelihood %q (valid: high, medium, low)", s)
}

// rank orders statuses from most to least likely unused.
func (s Status) rank() int {
	switch s {
	case High:
		return 0
	case Medium:
		return 1
	case Low:
		return 2
	default:
		return 3
	}
}

// UsageLikelihood is a classification verdict with its supporting reason.
type UsageLikelihood struct {
	Status Status `json:"status"`
	Reason string `json:"reason"`
}

// Result is one classified token.
type Result struct {
	token.Token
	Occurrences     search.Occurrences `json:"occurrences"`
	UsageLikelihood UsageLikelihood    `json:"usage_likelihood"`
}

// OccurredPaths returns the files the token occurs in, sorted.
func (r Result) OccurredPaths() []string {
	return r.Occurrences.Paths()
}
