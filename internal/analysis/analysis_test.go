package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abramin/unused/internal/config"
	"github.com/abramin/unused/internal/search"
	"github.com/abramin/unused/internal/tags"
	"github.com/abramin/unused/internal/token"
)

func tok(spelling string, paths ...string) token.Token {
	t := token.Token{Spelling: spelling}
	for _, p := range paths {
		t.Definitions = append(t.Definitions, tags.Entry{Name: spelling, FilePath: p, Language: tags.Ruby, Kind: tags.KindMethod})
	}
	return t
}

func occ(paths ...string) search.Occurrences {
	o := search.Occurrences{}
	for i, p := range paths {
		o[p] = append(o[p], search.Occurrence{Line: i + 1, Column: 1})
	}
	return o
}

func result(spelling string, status Status, path string, occurrences int) Result {
	o := search.Occurrences{}
	for i := 0; i < occurrences; i++ {
		o["x.rb"] = append(o["x.rb"], search.Occurrence{Line: i + 1, Column: 1})
	}
	return Result{
		Token:           tok(spelling, path),
		Occurrences:     o,
		UsageLikelihood: UsageLikelihood{Status: status, Reason: "r"},
	}
}

func spellings(rs []Result) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.Spelling
	}
	return out
}

func TestClassify(t *testing.T) {
	rails := config.Profile{
		Name:              "Rails",
		AutoLowLikelihood: []config.Rule{{Name: "Migrations", PathStartsWith: "db/migrate"}},
	}

	tests := []struct {
		name   string
		result search.Result
		status Status
		reason string
	}{
		{
			"profile rule",
			search.Result{Token: tok("change", "db/migrate/001.rb")},
			Low, "Rails: Migrations",
		},
		{
			"no occurrences",
			search.Result{Token: tok("orphan", "app/a.rb"), Occurrences: occ()},
			High, "Only the definition exists",
		},
		{
			"only tests",
			search.Result{Token: tok("helper", "app/a.rb"), Occurrences: occ("spec/a_spec.rb", "test/a_test.rb")},
			High, "Only the definition and corresponding tests exist",
		},
		{
			"defined in tests and used in tests",
			search.Result{Token: tok("fixture", "spec/support/fixture.rb"), Occurrences: occ("spec/support/fixture.rb")},
			Medium, "Used only in the file where it is defined",
		},
		{
			"only defining files",
			search.Result{Token: tok("run", "app/a.rb", "./app/b.rb"), Occurrences: occ("app/a.rb", "app/b.rb")},
			Medium, "Used only in the files where it is defined",
		},
		{
			"one other file",
			search.Result{Token: tok("call", "app/a.rb"), Occurrences: occ("app/b.rb")},
			Medium, "Used in one other file",
		},
		{
			"widely used",
			search.Result{Token: tok("name", "app/a.rb"), Occurrences: occ("app/a.rb", "app/b.rb", "app/c.rb")},
			Low, "Used in 3 files",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify([]search.Result{tt.result}, rails)
			require.Len(t, got, 1)
			assert.Equal(t, tt.status, got[0].UsageLikelihood.Status)
			assert.Equal(t, tt.reason, got[0].UsageLikelihood.Reason)
			assert.Equal(t, tt.result.Token, got[0].Token)
		})
	}
}

func TestClassifyDefaultProfile(t *testing.T) {
	got := Classify([]search.Result{{Token: tok("change", "db/migrate/001.rb")}}, config.Default())
	require.Len(t, got, 1)
	assert.Equal(t, High, got[0].UsageLikelihood.Status)
}

func TestIsTestPath(t *testing.T) {
	for p, want := range map[string]bool{
		"spec/models/user_spec.rb":     true,
		"internal/api/handler_test.go": true,
		"web/__tests__/app.js":         true,
		"src/app.test.ts":              true,
		"test/unit/x.exs":              true,
		"app/models/user.rb":           false,
		"lib/contest/entry.rb":         false,
	} {
		assert.Equal(t, want, isTestPath(p), p)
	}
}

func TestFilterByLikelihoodKeepsInputOrder(t *testing.T) {
	results := []Result{
		result("a", Low, "a.rb", 0),
		result("b", High, "b.rb", 0),
		result("c", Medium, "c.rb", 0),
		result("d", High, "d.rb", 0),
	}
	got := DefaultFilter().Apply(results)
	assert.Equal(t, []string{"b", "d"}, spellings(got))
	assert.Equal(t, "a", results[0].Spelling, "input is not modified")
}

func TestFilterSortFields(t *testing.T) {
	results := []Result{
		result("zeta", High, "a.rb", 3),
		result("alpha", Low, "c.rb", 1),
		result("mid", Medium, "b.rb", 1),
		result("beta", High, "b.rb", 0),
	}
	all := []Status{High, Medium, Low}

	tests := []struct {
		field SortField
		desc  bool
		want  []string
	}{
		{SortNone, false, []string{"zeta", "alpha", "mid", "beta"}},
		{SortToken, false, []string{"alpha", "beta", "mid", "zeta"}},
		{SortToken, true, []string{"zeta", "mid", "beta", "alpha"}},
		{SortFile, false, []string{"zeta", "beta", "mid", "alpha"}},
		{SortLikelihood, false, []string{"beta", "zeta", "mid", "alpha"}},
		{SortOccurrences, false, []string{"beta", "alpha", "mid", "zeta"}},
		{SortOccurrences, true, []string{"zeta", "mid", "alpha", "beta"}},
		{SortNone, true, []string{"beta", "mid", "alpha", "zeta"}},
	}

	for _, tt := range tests {
		f := Filter{Likelihoods: all, SortField: tt.field, SortDescending: tt.desc}
		assert.Equal(t, tt.want, spellings(f.Apply(results)), f.SortDescription())
	}
}

func TestParseSortField(t *testing.T) {
	f, err := ParseSortField("Likelihood")
	require.NoError(t, err)
	assert.Equal(t, SortLikelihood, f)

	f, err = ParseSortField("none")
	require.NoError(t, err)
	assert.Equal(t, SortNone, f)

	_, err = ParseSortField("size")
	assert.Error(t, err)
}

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus(" MEDIUM ")
	require.NoError(t, err)
	assert.Equal(t, Medium, s)

	_, err = ParseStatus("certain")
	assert.Error(t, err)
}
