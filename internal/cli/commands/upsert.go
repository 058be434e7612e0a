package commands

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/querykit/pkg/querybuilder"
)

// UpsertOptions holds options for the upsert command.
type UpsertOptions struct {
	ParamOptions
	Where  string
	Fields []string
	DryRun bool
}

// NewUpsertCommand creates the upsert command.
func NewUpsertCommand() *cobra.Command {
	opts := &UpsertOptions{}

	cmd := &cobra.Command{
		Use:   "upsert <table>",
		Short: "Update rows, or insert-or-update a row",
		Long: `Build an UPDATE statement from --field values and a --where condition.
Without --where, build INSERT ... ON DUPLICATE KEY UPDATE instead.

The condition is a query template; its parameters are set with --param.`,
		Example: `  querykit upsert users --field name=alice --field age=31 --where 'id = #id#' -p id=7
  querykit upsert counters --field id=1 --field hits=0 --dry-run`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUpsert(cmd, args[0], opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVar(&opts.Where, "where", "", "Condition template; omit to insert or update on duplicate key")
	cmd.Flags().StringArrayVarP(&opts.Fields, "field", "f", nil, "Column value as name=value (value is parsed as YAML)")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Print the statement without running it")

	return cmd
}

func runUpsert(cmd *cobra.Command, table string, opts *UpsertOptions) error {
	cc := NewCommandContext(cmd)

	fields, err := parseAssignments(opts.Fields)
	if err != nil {
		return err
	}
	values, err := opts.values()
	if err != nil {
		return err
	}

	u, err := querybuilder.NewUpdate(table, opts.Where, querybuilder.WithLogger(cc.Logger))
	if err != nil {
		return err
	}
	for _, f := range fields {
		u.AddField(f.Name, f.Value)
	}
	if err := bindAll(u.Builder, values); err != nil {
		return err
	}

	if opts.DryRun {
		dialect, err := cc.Dialect()
		if err != nil {
			return err
		}
		query, err := u.Compose(dialect)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), query)
		return err
	}

	engine, cleanup, err := cc.OpenEngine(cmd.Context())
	if err != nil {
		return err
	}
	defer cleanup()

	res, err := u.Execute(cmd.Context(), engine)
	if err != nil {
		return err
	}
	cc.Logger.Debug("upsert executed", slog.String("table", table), slog.Int("fields", len(fields)))
	return renderResult(cmd.OutOrStdout(), res, cc.Cfg.Output)
}
