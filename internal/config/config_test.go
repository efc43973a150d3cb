package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/abramin/unused/internal/tags"
	"github.com/abramin/unused/internal/token"
)

const storeContent = `
- name: Rails
  autoLowLikelihood:
    - name: Controllers
      pathStartsWith: app/controllers
      termEndsWith: Controller
      classOrModule: true
    - name: Controller actions
      pathStartsWith: app/controllers
      allowedTerms: [index, show, new, create, edit, update, destroy]
    - name: Migrations
      pathStartsWith: db/migrate
- name: Phoenix
  autoLowLikelihood:
    - name: Views
      pathEndsWith: _view.ex
`

func homeWith(t *testing.T, content string) func() (string, error) {
	t.Helper()
	dir := t.TempDir()
	if content != "" {
		if err := os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return func() (string, error) { return dir, nil }
}

func TestSelectProfile(t *testing.T) {
	s := &Selector{HomeDir: homeWith(t, storeContent)}
	p := s.Select()
	if p.Name != "Rails" {
		t.Fatalf("expected Rails profile, got %q", p.Name)
	}
	if len(p.AutoLowLikelihood) != 3 {
		t.Errorf("expected 3 rules, got %d", len(p.AutoLowLikelihood))
	}
	if p.AutoLowLikelihood[1].AllowedTerms[1] != "show" {
		t.Errorf("expected allowed term show, got %v", p.AutoLowLikelihood[1].AllowedTerms)
	}
}

func TestSelectFallsBackToDefault(t *testing.T) {
	tests := []struct {
		name    string
		homeDir func() (string, error)
	}{
		{"no home directory", func() (string, error) { return "", errors.New("no home") }},
		{"empty home directory", func() (string, error) { return "", nil }},
		{"missing file", homeWith(t, "")},
		{"corrupt file", homeWith(t, "- name: [unterminated\n  :::")},
		{"wrong shape", homeWith(t, "name: Rails\n")},
		{"profile absent", homeWith(t, "- name: Phoenix\n")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := (&Selector{HomeDir: tt.homeDir}).Select()
			if p.Name != DefaultProfileName {
				t.Errorf("expected default profile, got %q", p.Name)
			}
			if len(p.AutoLowLikelihood) != 0 {
				t.Errorf("expected no rules, got %d", len(p.AutoLowLikelihood))
			}
		})
	}
}

func TestSelectUnreadableStore(t *testing.T) {
	dir := t.TempDir()
	// A directory in place of the file fails the read step.
	if err := os.Mkdir(filepath.Join(dir, FileName), 0755); err != nil {
		t.Fatal(err)
	}
	p := (&Selector{HomeDir: func() (string, error) { return dir, nil }}).Select()
	if p.Name != DefaultProfileName {
		t.Errorf("expected default profile, got %q", p.Name)
	}
}

func tok(spelling, path string, kind tags.Kind) token.Token {
	return token.Token{
		Spelling:    spelling,
		Definitions: []tags.Entry{{Name: spelling, FilePath: path, Kind: kind}},
	}
}

func TestProfileMatch(t *testing.T) {
	profiles, err := Parse([]byte(storeContent))
	if err != nil {
		t.Fatal(err)
	}
	rails, ok := profiles.Get("Rails")
	if !ok {
		t.Fatal("expected Rails profile")
	}

	tests := []struct {
		tok  token.Token
		rule string
	}{
		{tok("UsersController", "app/controllers/users_controller.rb", tags.KindClass), "Controllers"},
		{tok("UsersController", "app/models/users_controller.rb", tags.KindClass), ""},
		{tok("UsersController", "app/controllers/users_controller.rb", tags.KindMethod), ""},
		{tok("index", "app/controllers/users_controller.rb", tags.KindMethod), "Controller actions"},
		{tok("helper", "app/controllers/users_controller.rb", tags.KindMethod), ""},
		{tok("change", "db/migrate/001_create_users.rb", tags.KindMethod), "Migrations"},
	}

	for _, tt := range tests {
		rule, ok := rails.Match(tt.tok)
		got := ""
		if ok {
			got = rule.Name
		}
		if got != tt.rule {
			t.Errorf("Match(%s in %s) = %q, want %q", tt.tok.Spelling, tt.tok.FirstPath(), got, tt.rule)
		}
	}
}

func TestRuleMatchRequiresEveryDefinition(t *testing.T) {
	r := Rule{Name: "Migrations", PathStartsWith: "db/migrate"}
	mixed := token.Token{
		Spelling: "change",
		Definitions: []tags.Entry{
			{Name: "change", FilePath: "db/migrate/001.rb"},
			{Name: "change", FilePath: "app/models/user.rb"},
		},
	}
	if r.Matches(mixed) {
		t.Error("expected rule not to match when one definition is outside the path")
	}
}

func TestEmptyRuleNeverMatches(t *testing.T) {
	if (Rule{Name: "empty"}).Matches(tok("x", "a.rb", tags.KindClass)) {
		t.Error("expected empty rule not to match")
	}
}
