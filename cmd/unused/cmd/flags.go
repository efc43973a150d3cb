package cmd

import (
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/abramin/unused/internal/analysis"
	"github.com/abramin/unused/internal/policy"
	"github.com/abramin/unused/internal/tags"
)

// Flag names, also used as viper keys. Every flag can be set from the
// environment as UNUSED_<NAME>, e.g. UNUSED_NO_COLOR=true.
const (
	flagNoColor         = "no-color"
	flagJSON            = "json"
	flagNoProgress      = "no-progress"
	flagAllLikelihoods  = "all-likelihoods"
	flagLikelihood      = "likelihood"
	flagSortOrder       = "sort-order"
	flagReverse         = "reverse"
	flagOnlyFiletypes   = "only-filetypes"
	flagExceptFiletypes = "except-filetypes"
	flagTagsFile        = "tags-file"
	flagRoot            = "root"
	flagDB              = "db"
	flagVerbose         = "verbose"
)

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("UNUSED")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// addSourceFlags registers the flags shared by every command that reads tags.
func addSourceFlags(fs *pflag.FlagSet) {
	fs.String(flagRoot, ".", "project root to search")
	fs.String(flagTagsFile, "", "tags file to read (default: .git/tags, tags, .tags or tmp/tags under the root)")
	fs.Bool(flagVerbose, false, "log diagnostics to stderr")
}

func addAnalysisFlags(fs *pflag.FlagSet) {
	fs.Bool(flagNoColor, false, "disable color output")
	fs.Bool(flagJSON, false, "render output as JSON")
	fs.BoolP(flagNoProgress, "P", false, "hide progress indicator")
	fs.BoolP(flagAllLikelihoods, "a", false, "include tokens that fall into any likelihood category")
	fs.StringSliceP(flagLikelihood, "l", []string{string(analysis.High)},
		"limit output to the comma-delimited likelihood(s): high, medium, low")

	sortNames := make([]string, len(analysis.SortFields))
	for i, f := range analysis.SortFields {
		sortNames[i] = string(f)
	}
	fs.String(flagSortOrder, string(analysis.SortToken),
		"sort output by one of: "+strings.Join(sortNames, ", ")+", none (case-insensitive)")
	fs.Bool(flagReverse, false, "reverse sort order")

	exts := strings.Join(tags.Extensions(), ", ")
	fs.StringSlice(flagOnlyFiletypes, nil, "limit tokens to those defined in the comma-delimited file extension(s): "+exts)
	fs.StringSlice(flagExceptFiletypes, nil, "exclude tokens defined in the comma-delimited file extension(s); ignored when --only-filetypes is set")
	fs.String(flagDB, "", "also export results to this SQLite database")
}

// policyInput reads analysis policy from flags and the environment.
func policyInput(v *viper.Viper) policy.Input {
	return policy.Input{
		NoProgress:      v.GetBool(flagNoProgress),
		AllLikelihoods:  v.GetBool(flagAllLikelihoods),
		Likelihoods:     v.GetStringSlice(flagLikelihood),
		SortOrder:       v.GetString(flagSortOrder),
		Reverse:         v.GetBool(flagReverse),
		OnlyFiletypes:   v.GetStringSlice(flagOnlyFiletypes),
		ExceptFiletypes: v.GetStringSlice(flagExceptFiletypes),
	}
}
