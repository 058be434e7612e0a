package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/querykit/internal/cli/config"
	"github.com/leapstack-labs/querykit/pkg/adapter"
	"github.com/leapstack-labs/querykit/pkg/core"
	"github.com/leapstack-labs/querykit/pkg/querybuilder"
)

// CommandContext holds the config and logger shared by commands.
type CommandContext struct {
	Cfg    *config.Config
	Logger *slog.Logger
}

// NewCommandContext reads the config and logger stored by the root command.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return &CommandContext{
		Cfg:    config.FromContext(ctx),
		Logger: config.GetLogger(ctx),
	}
}

// OpenEngine connects to the configured backends. In read/write mode the
// returned engine dispatches between reader and writer. The cleanup function
// closes every connection and must be called (typically via defer).
func (c *CommandContext) OpenEngine(ctx context.Context) (core.Engine, func(), error) {
	if c.Cfg.ReadWrite() {
		readerCfg, err := c.Cfg.Reader.AdapterConfig()
		if err != nil {
			return nil, nil, err
		}
		writerCfg, err := c.Cfg.Writer.AdapterConfig()
		if err != nil {
			return nil, nil, err
		}
		rw, err := adapter.OpenReadWrite(ctx, readerCfg, writerCfg, c.Logger)
		if err != nil {
			return nil, nil, err
		}
		return rw, func() { _ = rw.Close() }, nil
	}

	cfg, err := c.Cfg.Target.AdapterConfig()
	if err != nil {
		return nil, nil, err
	}
	a, err := adapter.Open(ctx, cfg, c.Logger)
	if err != nil {
		return nil, nil, err
	}
	c.Logger.Debug("connected", slog.String("adapter", a.Name()))
	return a, func() { _ = a.Close() }, nil
}

// Dialect returns an unconnected adapter for the primary target. Escaping
// and identifier quoting need no connection.
func (c *CommandContext) Dialect() (querybuilder.Dialect, error) {
	cfg, err := c.Cfg.Primary().AdapterConfig()
	if err != nil {
		return nil, err
	}
	return adapter.NewAdapter(cfg, c.Logger)
}

// NewBuilder scans query with the command logger attached.
func (c *CommandContext) NewBuilder(query string) (*querybuilder.Builder, error) {
	return querybuilder.New(query, querybuilder.WithLogger(c.Logger))
}

// readSQL returns the statement from the arguments, the input file, or
// standard input, in that order.
func readSQL(cmd *cobra.Command, args []string, input string) (string, error) {
	switch {
	case len(args) > 0:
		return strings.Join(args, " "), nil
	case input != "":
		content, err := os.ReadFile(input)
		if err != nil {
			return "", fmt.Errorf("failed to read file: %w", err)
		}
		return string(content), nil
	default:
		content, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		if strings.TrimSpace(string(content)) == "" {
			return "", fmt.Errorf("no SQL given: pass it as an argument, with --input, or on stdin")
		}
		return string(content), nil
	}
}

// ParamOptions holds the flags that supply parameter values.
type ParamOptions struct {
	Params     []string
	ParamsFile string
}

func (o *ParamOptions) register(cmd *cobra.Command) {
	cmd.Flags().StringArrayVarP(&o.Params, "param", "p", nil, "Parameter value as name=value (value is parsed as YAML)")
	cmd.Flags().StringVar(&o.ParamsFile, "params-file", "", "YAML file mapping parameter names to values")
}

// values collects parameters from the params file, then the --param flags.
func (o *ParamOptions) values() (map[string]any, error) {
	values := make(map[string]any)
	if o.ParamsFile != "" {
		content, err := os.ReadFile(o.ParamsFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read params file: %w", err)
		}
		if err := yaml.Unmarshal(content, &values); err != nil {
			return nil, fmt.Errorf("failed to parse params file %s: %w", o.ParamsFile, err)
		}
	}

	assigned, err := parseAssignments(o.Params)
	if err != nil {
		return nil, err
	}
	for _, a := range assigned {
		values[a.Name] = a.Value
	}
	return values, nil
}

type assignment struct {
	Name  string
	Value any
}

// parseAssignments parses name=value pairs, keeping their order. Values are
// YAML scalars or flow sequences: 42 is an int, 1.5 a float, true a bool,
// null a null, [1, 2] a list and anything else a string.
func parseAssignments(pairs []string) ([]assignment, error) {
	out := make([]assignment, 0, len(pairs))
	for _, pair := range pairs {
		name, raw, ok := strings.Cut(pair, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid assignment %q: expected name=value", pair)
		}
		var v any
		if err := yaml.Unmarshal([]byte(raw), &v); err != nil {
			return nil, fmt.Errorf("invalid value for %q: %w", name, err)
		}
		out = append(out, assignment{Name: name, Value: v})
	}
	return out, nil
}

// bindAll binds values in name order so errors are reported deterministically.
func bindAll(b *querybuilder.Builder, values map[string]any) error {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := b.Bind(name, values[name]); err != nil {
			return err
		}
	}
	return nil
}
