package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/abramin/unused/internal/tags"
)

func newTagsCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "tags",
		Short: "Print the parsed tags file as JSON",
		Long: `Read the tags file the analysis would use and print every entry as JSON.

Unlike the analysis, which treats an unreadable tags file as empty, this
command fails with exit code 3 when the tags file cannot be read or parsed.`,
		Args: func(c *cobra.Command, args []string) error {
			if err := cobra.NoArgs(c, args); err != nil {
				return usageError(err)
			}
			return nil
		},
		RunE: func(c *cobra.Command, args []string) error {
			entries, err := tagsReader(v).Load()
			if err != nil {
				return &exitError{code: ExitTagsMissing, err: err}
			}
			if entries == nil {
				entries = []tags.Entry{}
			}
			if err := json.NewEncoder(c.OutOrStdout()).Encode(entries); err != nil {
				return fmt.Errorf("encoding tags: %w", err)
			}
			return nil
		},
	}
}
