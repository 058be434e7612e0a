package commands

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/querykit/pkg/core"
)

// ExecOptions holds options for the exec command.
type ExecOptions struct {
	ParamOptions
	Input      string
	Set        bool
	Unbuffered bool
}

// NewExecCommand creates the exec command.
func NewExecCommand() *cobra.Command {
	opts := &ExecOptions{}

	cmd := &cobra.Command{
		Use:   "exec [TEMPLATE]",
		Short: "Compose a query template and run it",
		Long: `Compose a query template and run it against the configured target.

With a reader and a writer configured, statements starting with "SELECT "
go to the reader and everything else to the writer.`,
		Example: `  querykit exec 'SELECT * FROM users WHERE id = #id#' -p id=42
  querykit exec 'DELETE FROM sessions WHERE user_id = #id#' -p id=42
  querykit exec 'SELECT * FROM events' --unbuffered -o csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExec(cmd, args, opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVarP(&opts.Input, "input", "i", "", "Read the template from file")
	cmd.Flags().BoolVar(&opts.Set, "set", false, "Always return rows as a set, even when one row matches")
	cmd.Flags().BoolVar(&opts.Unbuffered, "unbuffered", false, "Stream rows instead of buffering the result")

	return cmd
}

func runExec(cmd *cobra.Command, args []string, opts *ExecOptions) error {
	cc := NewCommandContext(cmd)

	template, err := readSQL(cmd, args, opts.Input)
	if err != nil {
		return err
	}
	values, err := opts.values()
	if err != nil {
		return err
	}

	b, err := cc.NewBuilder(template)
	if err != nil {
		return err
	}
	if err := bindAll(b, values); err != nil {
		return err
	}

	engine, cleanup, err := cc.OpenEngine(cmd.Context())
	if err != nil {
		return err
	}
	defer cleanup()

	var qopts []core.QueryOption
	if opts.Set {
		qopts = append(qopts, core.AsSet())
	}
	if opts.Unbuffered {
		qopts = append(qopts, core.Unbuffered())
	}

	res, err := b.Execute(cmd.Context(), engine, qopts...)
	if err != nil {
		return err
	}

	if n, ok := res.(core.RowCount); ok {
		cc.Logger.Debug("statement executed", slog.Int64("affected_rows", int64(n)))
	}
	return renderResult(cmd.OutOrStdout(), res, cc.Cfg.Output)
}
