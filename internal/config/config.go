// Package config loads project configuration profiles from ~/.unused.yml.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/abramin/unused/internal/tags"
	"github.com/abramin/unused/internal/token"
)

const (
	// FileName is the store's name under the home directory.
	FileName = ".unused.yml"
	// SelectedProfile is the profile looked up on every run.
	SelectedProfile = "Rails"
	// DefaultProfileName names the empty profile used when none is selected.
	DefaultProfileName = "Default"
)

// Profile is a named set of rules adjusting usage classification.
type Profile struct {
	Name              string `yaml:"name"`
	AutoLowLikelihood []Rule `yaml:"autoLowLikelihood"`
}

// Rule marks matching tokens as low likelihood of being unused.
// Every matcher that is set must hold.
type Rule struct {
	Name           string   `yaml:"name"`
	PathStartsWith string   `yaml:"pathStartsWith"`
	PathEndsWith   string   `yaml:"pathEndsWith"`
	TermStartsWith string   `yaml:"termStartsWith"`
	TermEndsWith   string   `yaml:"termEndsWith"`
	TermEquals     string   `yaml:"termEquals"`
	ClassOrModule  bool     `yaml:"classOrModule"`
	AllowedTerms   []string `yaml:"allowedTerms"`
}

// Default returns the profile used when no profile is selected.
func Default() Profile {
	return Profile{Name: DefaultProfileName}
}

// Matches reports whether the rule applies to the token. Path matchers and
// ClassOrModule must hold for every definition.
func (r Rule) Matches(t token.Token) bool {
	if !r.hasMatcher() {
		return false
	}
	if r.TermEquals != "" && t.Spelling != r.TermEquals {
		return false
	}
	if r.TermStartsWith != "" && !strings.HasPrefix(t.Spelling, r.TermStartsWith) {
		return false
	}
	if r.TermEndsWith != "" && !strings.HasSuffix(t.Spelling, r.TermEndsWith) {
		return false
	}
	if len(r.AllowedTerms) > 0 && !contains(r.AllowedTerms, t.Spelling) {
		return false
	}
	return t.OnlyDefinitions(func(e tags.Entry) bool {
		if r.PathStartsWith != "" && !strings.HasPrefix(e.FilePath, r.PathStartsWith) {
			return false
		}
		if r.PathEndsWith != "" && !strings.HasSuffix(e.FilePath, r.PathEndsWith) {
			return false
		}
		if r.ClassOrModule && !e.Kind.IsClassOrModule() {
			return false
		}
		return true
	})
}

// hasMatcher keeps an empty rule from matching everything.
func (r Rule) hasMatcher() bool {
	return r.PathStartsWith != "" || r.PathEndsWith != "" ||
		r.TermStartsWith != "" || r.TermEndsWith != "" || r.TermEquals != "" ||
		r.ClassOrModule || len(r.AllowedTerms) > 0
}

// Match returns the first rule in the profile that applies to the token.
func (p Profile) Match(t token.Token) (Rule, bool) {
	for _, r := range p.AutoLowLikelihood {
		if r.Matches(t) {
			return r, true
		}
	}
	return Rule{}, false
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// Profiles is the parsed contents of the store.
type Profiles []Profile

// Parse decodes a YAML sequence of profiles.
func Parse(data []byte) (Profiles, error) {
	var profiles Profiles
	if err := yaml.Unmarshal(data, &profiles); err != nil {
		return nil, fmt.Errorf("parsing profiles: %w", err)
	}
	return profiles, nil
}

// Get returns the profile with the given name.
func (ps Profiles) Get(name string) (Profile, bool) {
	for _, p := range ps {
		if p.Name == name {
			return p, true
		}
	}
	return Profile{}, false
}

// Selector locates the store and picks the run's profile.
type Selector struct {
	// HomeDir resolves the user's home directory; os.UserHomeDir when nil.
	HomeDir func() (string, error)
	Logger  *slog.Logger
}

// Select returns the fixed profile from the store, or the default profile
// when any step fails. It never returns an error.
func (s *Selector) Select() Profile {
	logger := s.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	path, ok := s.storePath()
	if !ok {
		logger.Debug("no home directory, using default profile")
		return Default()
	}
	data, ok := readStore(path)
	if !ok {
		logger.Debug("profile store not readable, using default profile", "path", path)
		return Default()
	}
	profiles, err := Parse(data)
	if err != nil {
		logger.Debug("profile store not parsable, using default profile", "path", path, "error", err)
		return Default()
	}
	profile, ok := profiles.Get(SelectedProfile)
	if !ok {
		logger.Debug("profile not found, using default profile", "path", path, "profile", SelectedProfile)
		return Default()
	}
	return profile
}

func (s *Selector) storePath() (string, bool) {
	homeDir := s.HomeDir
	if homeDir == nil {
		homeDir = os.UserHomeDir
	}
	home, err := homeDir()
	if err != nil || home == "" {
		return "", false
	}
	return filepath.Join(home, FileName), true
}

func readStore(path string) ([]byte, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	return data, true
}
