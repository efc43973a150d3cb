// Package report renders classified results as JSON or as a text report.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/muesli/termenv"

	"github.com/abramin/unused/internal/analysis"
	"github.com/abramin/unused/internal/search"
)

// RenderConfig controls presentation only.
type RenderConfig struct {
	JSON  bool
	Color bool
}

// Summary describes the run that produced the results.
type Summary struct {
	Restriction search.LanguageRestriction
	Filter      analysis.Filter
	ProfileName string
}

// Render writes results in the configured format.
func Render(w io.Writer, results []analysis.Result, sum Summary, cfg RenderConfig) error {
	if cfg.JSON {
		return WriteJSON(w, results)
	}
	return WriteText(w, results, sum, cfg)
}

// WriteJSON writes results as a JSON array.
func WriteJSON(w io.Writer, results []analysis.Result) error {
	if results == nil {
		results = []analysis.Result{}
	}
	if err := json.NewEncoder(w).Encode(results); err != nil {
		return fmt.Errorf("encoding results: %w", err)
	}
	return nil
}

// ReadJSON decodes results written by WriteJSON.
func ReadJSON(r io.Reader) ([]analysis.Result, error) {
	var results []analysis.Result
	if err := json.NewDecoder(r).Decode(&results); err != nil {
		return nil, fmt.Errorf("decoding results: %w", err)
	}
	return results, nil
}

type styles struct {
	high, medium, low lipgloss.Style
	reason, path      lipgloss.Style
	header            lipgloss.Style
	good, bad         lipgloss.Style
}

func newStyles(w io.Writer, color bool) styles {
	r := lipgloss.NewRenderer(w)
	if !color {
		r.SetColorProfile(termenv.Ascii)
	}
	red := r.NewStyle().Foreground(lipgloss.Color("1"))
	yellow := r.NewStyle().Foreground(lipgloss.Color("3"))
	green := r.NewStyle().Foreground(lipgloss.Color("2"))
	cyan := r.NewStyle().Foreground(lipgloss.Color("6"))
	return styles{
		high:   red,
		medium: yellow,
		low:    green,
		reason: cyan,
		path:   yellow,
		header: r.NewStyle().Foreground(lipgloss.Color("7")).Bold(true),
		good:   green,
		bad:    red,
	}
}

func (s styles) status(st analysis.Status) lipgloss.Style {
	switch st {
	case analysis.High:
		return s.high
	case analysis.Medium:
		return s.medium
	default:
		return s.low
	}
}

func (s styles) total(n int) string {
	if n == 0 {
		return s.good.Render("0")
	}
	return s.bad.Render(humanize.Comma(int64(n)))
}

// WriteText writes one block per result followed by a run summary.
func WriteText(w io.Writer, results []analysis.Result, sum Summary, cfg RenderConfig) error {
	st := newStyles(w, cfg.Color)
	var b strings.Builder

	tokens := make(map[string]struct{})
	files := make(map[string]struct{})

	for _, r := range results {
		tokens[r.Spelling] = struct{}{}
		occurred := r.OccurredPaths()
		for _, p := range occurred {
			files[p] = struct{}{}
		}

		b.WriteString(st.status(r.UsageLikelihood.Status).Render(r.Spelling) + "\n")
		fmt.Fprintf(&b, "   Reason: %s\n", st.reason.Render(r.UsageLikelihood.Reason))

		defined := r.DefinedPaths()
		fmt.Fprintf(&b, "   Defined in: (%s)\n", st.path.Render(strconv.Itoa(len(defined))))
		for _, p := range defined {
			fmt.Fprintf(&b, "   * %s\n", st.path.Render(p))
		}

		if len(occurred) > 0 {
			fmt.Fprintf(&b, "   Found in: (%s)\n", st.path.Render(strconv.Itoa(len(occurred))))
			for _, p := range occurred {
				fmt.Fprintf(&b, "   * %s\n", st.path.Render(p))
			}
		}
		b.WriteString("\n")
	}

	likelihoods := make([]string, len(sum.Filter.Likelihoods))
	for i, l := range sum.Filter.Likelihoods {
		likelihoods[i] = string(l)
	}

	b.WriteString("\n")
	b.WriteString(st.header.Render("== UNUSED SUMMARY ==") + "\n")
	fmt.Fprintf(&b, "   Tokens found: %s\n", st.total(len(tokens)))
	fmt.Fprintf(&b, "   Files found: %s\n", st.total(len(files)))
	fmt.Fprintf(&b, "   Applied language filters: %s\n", st.reason.Render(sum.Restriction.String()))
	fmt.Fprintf(&b, "   Sort order: %s\n", st.reason.Render(sum.Filter.SortDescription()))
	fmt.Fprintf(&b, "   Usage likelihood: %s\n", st.reason.Render(strings.Join(likelihoods, ", ")))
	fmt.Fprintf(&b, "   Configuration setting: %s\n", st.reason.Render(sum.ProfileName))
	b.WriteString("\n")

	_, err := io.WriteString(w, b.String())
	return err
}
