package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/querykit/pkg/core"
)

// ComposeOptions holds options for the compose command.
type ComposeOptions struct {
	ParamOptions
	Input  string
	Pretty bool
}

// NewComposeCommand creates the compose command.
func NewComposeCommand() *cobra.Command {
	opts := &ComposeOptions{}

	cmd := &cobra.Command{
		Use:   "compose [TEMPLATE]",
		Short: "Compose a query template into SQL without running it",
		Long: `Compose a query template with its parameter values and print the
resulting SQL. Escaping and identifier quoting follow the configured target
(the writer in read/write mode); no connection is opened.

Markers: @name@ (any value), #name# (integer), $name$ (identifier),
@[int|float|bool|ident]name@ (typed).`,
		Example: `  # Integer and identifier parameters
  querykit compose 'SELECT * FROM $table$ WHERE id = #id#' -p table=users -p id=42

  # A string list becomes one quoted literal
  querykit compose 'SELECT * FROM t WHERE tag IN (@tags@)' -p 'tags=[a, b]'

  # Values from a file
  querykit compose -i query.sql --params-file params.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompose(cmd, args, opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVarP(&opts.Input, "input", "i", "", "Read the template from file")
	cmd.Flags().BoolVar(&opts.Pretty, "pretty", false, "Re-indent multi-line output")

	return cmd
}

func runCompose(cmd *cobra.Command, args []string, opts *ComposeOptions) error {
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

	dialect, err := cc.Dialect()
	if err != nil {
		return err
	}
	query, err := b.Compose(dialect)
	if err != nil {
		return err
	}

	if opts.Pretty {
		query = core.FormatQuery(query)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), query)
	return err
}
