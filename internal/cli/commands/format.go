package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/querykit/pkg/core"
)

// NewFormatCommand creates the format command.
func NewFormatCommand() *cobra.Command {
	var input string

	cmd := &cobra.Command{
		Use:   "format [SQL]",
		Short: "Re-indent multi-line SQL for debug output",
		Long: `Tidy a multi-line SQL statement for logs: blank lines are dropped and
indentation is rebuilt from changes in leading tab depth, one tab per level.`,
		Example: `  querykit format -i query.sql
  cat query.sql | querykit format`,
		RunE: func(cmd *cobra.Command, args []string) error {
			sql, err := readSQL(cmd, args, input)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), core.FormatQuery(sql))
			return err
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "Read SQL from file")

	return cmd
}
