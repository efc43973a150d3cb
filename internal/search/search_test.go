package search

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abramin/unused/internal/tags"
	"github.com/abramin/unused/internal/token"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func def(name, file, address string, lang tags.Language) tags.Entry {
	return tags.Entry{Name: name, FilePath: file, Language: lang, Kind: tags.KindMethod, Tags: map[string]string{}, Address: address}
}

func setupProject(t *testing.T) string {
	root := t.TempDir()
	writeFile(t, root, "app/models/person.rb", "class Person\n  def name\n    @name\n  end\n\n  def greet\n    \"hi #{name}\"\n  end\nend\n")
	writeFile(t, root, "app/views/show.rb", "person.greet\nperson.valid?\n")
	writeFile(t, root, "lib/ignored.rb", "greet greet greet\n")
	writeFile(t, root, ".gitignore", "lib/ignored.rb\n")
	writeFile(t, root, "bin/blob.rb", "greet\x00")
	writeFile(t, root, "node_modules/pkg/index.js", "greet\n")
	return root
}

type recordingProgress struct {
	total, steps int
	finished     bool
}

func (r *recordingProgress) Start(total int) { r.total = total }
func (r *recordingProgress) Step(int)        { r.steps++ }
func (r *recordingProgress) Finish()         { r.finished = true }

func TestFiles(t *testing.T) {
	root := setupProject(t)
	files, err := Files(root)
	require.NoError(t, err)
	assert.Equal(t, []string{"app/models/person.rb", "app/views/show.rb", "bin/blob.rb"}, files)
}

func TestRunFindsOccurrencesOutsideDefinitions(t *testing.T) {
	root := setupProject(t)
	tokens := token.Group([]tags.Entry{
		def("name", "app/models/person.rb", "  def name", tags.Ruby),
		def("greet", "./app/models/person.rb", "6", tags.Ruby),
		def("valid", "app/models/person.rb", "1", tags.Ruby),
		def("unused_thing", "app/models/person.rb", "1", tags.Ruby),
	})

	progress := &recordingProgress{}
	results, err := NewSearcher(root, nil, progress).Run(tokens, DefaultConfig())
	require.NoError(t, err)
	require.Len(t, results, 4)

	byName := map[string]Result{}
	for _, r := range results {
		byName[r.Token.Spelling] = r
	}

	greet := byName["greet"]
	assert.Equal(t, []string{"app/views/show.rb"}, greet.Occurrences.Paths(), "ignored, binary and vendored files are skipped")
	assert.Equal(t, []Occurrence{{Line: 1, Column: 8}}, greet.Occurrences["app/views/show.rb"])

	name := byName["name"]
	assert.Equal(t, []Occurrence{{Line: 3, Column: 6}, {Line: 7, Column: 11}}, name.Occurrences["app/models/person.rb"])

	assert.Equal(t, 1, byName["valid"].Occurrences.Count(), "trailing ? is retried without the suffix")
	assert.Empty(t, byName["unused_thing"].Occurrences)

	assert.Equal(t, 3, progress.total)
	assert.Equal(t, 3, progress.steps)
	assert.True(t, progress.finished)
}

func TestRunAppliesLanguageRestriction(t *testing.T) {
	root := setupProject(t)
	tokens := token.Group([]tags.Entry{
		def("greet", "app/models/person.rb", "6", tags.Ruby),
		def("render", "web/app.js", "1", tags.JavaScript),
		def("unknown", "README", "1", ""),
	})

	spellings := func(cfg Config) []string {
		results, err := NewSearcher(root, nil, nil).Run(tokens, cfg)
		require.NoError(t, err)
		var out []string
		for _, r := range results {
			out = append(out, r.Token.Spelling)
		}
		return out
	}

	assert.Equal(t, []string{"greet", "render", "unknown"}, spellings(DefaultConfig()))
	assert.Equal(t, []string{"greet"}, spellings(Config{LanguageRestriction: Only([]tags.Language{tags.Ruby})}))
	assert.Equal(t, []string{"greet", "unknown"}, spellings(Config{LanguageRestriction: Except([]tags.Language{tags.JavaScript})}))
}

func TestRestrictionString(t *testing.T) {
	assert.Equal(t, "all", All().String())
	assert.Equal(t, "only js, rb", Only([]tags.Language{tags.Ruby, tags.JavaScript}).String())
	assert.Equal(t, "except go", Except([]tags.Language{tags.Go}).String())
}

func TestNormalizePath(t *testing.T) {
	assert.Equal(t, "app/a.rb", NormalizePath("./app/a.rb"))
	assert.Equal(t, "app/a.rb", NormalizePath("app//b/../a.rb"))
}

func TestRunExcludesDefinitionMatchedByTruncatedPattern(t *testing.T) {
	root := t.TempDir()
	long := "def orphan(argument_number_one, argument_number_two, argument_number_three, argument_number_four)"
	writeFile(t, root, "lib/orphan.rb", long+"\nend\n")

	entries, err := tags.Parse(strings.NewReader("orphan\tlib/orphan.rb\t/^" + long[:90] + "/;\"\tf\n"))
	require.NoError(t, err)
	require.True(t, entries[0].Truncated)

	results, err := NewSearcher(root, nil, nil).Run(token.Group(entries), DefaultConfig())
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Empty(t, results[0].Occurrences, "the defining line is excluded by prefix")
}

func TestFilesListsNonASCIINamesFromGit(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	root := t.TempDir()
	gitInit := exec.Command("git", "init", "-q")
	gitInit.Dir = root
	require.NoError(t, gitInit.Run())

	writeFile(t, root, "lib/café.rb", "greet\n")
	writeFile(t, root, "lib/plain.rb", "greet\n")
	writeFile(t, root, "lib/ignored.rb", "greet\n")
	writeFile(t, root, ".gitignore", "lib/ignored.rb\n")

	files, err := Files(root)
	require.NoError(t, err)
	assert.Equal(t, []string{"lib/café.rb", "lib/plain.rb"}, files)
}
