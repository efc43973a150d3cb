package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/abramin/unused/internal/analysis"
	"github.com/abramin/unused/internal/config"
	"github.com/abramin/unused/internal/policy"
	"github.com/abramin/unused/internal/report"
	"github.com/abramin/unused/internal/search"
	"github.com/abramin/unused/internal/store"
	"github.com/abramin/unused/internal/tags"
	"github.com/abramin/unused/internal/token"
)

// NewRootCmd builds the command tree. Each call returns independent flag
// and environment state.
func NewRootCmd() *cobra.Command {
	v := newViper()
	var pol policy.Policy

	root := &cobra.Command{
		Use:   "unused",
		Short: "Identify potentially unused code",
		Long: `unused reads a ctags tags file, searches the project for every tagged
token and reports how likely each token is to be unused.

Generate tags first, for example:
  ctags -R --fields=+nl -f .git/tags .

Project-specific rules are read from the "Rails" profile in ~/.unused.yml
when present.`,
		Args: func(c *cobra.Command, args []string) error {
			if err := cobra.NoArgs(c, args); err != nil {
				return usageError(err)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		PreRunE: func(c *cobra.Command, args []string) error {
			p, err := policy.Parse(policyInput(v))
			if err != nil {
				return usageError(err)
			}
			pol = p
			return nil
		},
		RunE: func(c *cobra.Command, args []string) error {
			return runAnalysis(c.OutOrStdout(), c.ErrOrStderr(), v, pol)
		},
	}

	root.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return usageError(err)
	})

	addSourceFlags(root.PersistentFlags())
	addAnalysisFlags(root.Flags())
	// BindPFlags only fails on a nil flag set.
	_ = v.BindPFlags(root.PersistentFlags())
	_ = v.BindPFlags(root.Flags())

	root.AddCommand(newTagsCmd(v))
	return root
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func tagsReader(v *viper.Viper) *tags.Reader {
	return &tags.Reader{Root: v.GetString(flagRoot), Path: v.GetString(flagTagsFile)}
}

// runAnalysis reads tags, searches, classifies, filters and renders.
func runAnalysis(stdout, stderr io.Writer, v *viper.Viper, pol policy.Policy) error {
	logger := newLogger(stderr, v.GetBool(flagVerbose))
	root := v.GetString(flagRoot)

	searchCfg := pol.SearchConfig()
	filter := pol.AnalysisFilter()
	if pol.ExceptIgnored() {
		logger.Debug("--except-filetypes ignored because --only-filetypes is set")
	}

	tokens := token.All(tagsReader(v), logger)

	// Progress needs a terminal; writers that are not files never get one.
	stderrFile, _ := stderr.(*os.File)
	progress := search.NewProgress(stderrFile, searchCfg.DisplayProgress)
	results, err := search.NewSearcher(root, logger, progress).Run(tokens, searchCfg)
	if err != nil {
		return fmt.Errorf("searching: %w", err)
	}

	profile := (&config.Selector{Logger: logger}).Select()
	classified := analysis.Classify(results, profile)
	filtered := filter.Apply(classified)

	sum := report.Summary{
		Restriction: searchCfg.LanguageRestriction,
		Filter:      filter,
		ProfileName: profile.Name,
	}
	renderCfg := report.RenderConfig{
		JSON:  v.GetBool(flagJSON),
		Color: !v.GetBool(flagNoColor),
	}
	if err := report.Render(stdout, filtered, sum, renderCfg); err != nil {
		return fmt.Errorf("rendering: %w", err)
	}

	if dbPath := v.GetString(flagDB); dbPath != "" {
		if err := export(dbPath, root, sum, filtered, logger); err != nil {
			return err
		}
	}
	return nil
}

func export(dbPath, root string, sum report.Summary, results []analysis.Result, logger *slog.Logger) error {
	st, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("opening export database: %w", err)
	}
	defer st.Close()

	runID, err := st.SaveRun(root, sum, results)
	if err != nil {
		return fmt.Errorf("exporting results: %w", err)
	}
	stats, err := st.GetStats(runID)
	if err != nil {
		return fmt.Errorf("reading export stats: %w", err)
	}
	logger.Info("exported results",
		"db", st.DBPath(),
		"run", runID,
		"tokens", stats.TokenCount,
		"definitions", stats.DefinitionCount,
		"occurrences", stats.OccurrenceCount)
	return nil
}
