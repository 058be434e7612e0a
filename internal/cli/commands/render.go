package commands

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/leapstack-labs/querykit/internal/cli/config"
	"github.com/leapstack-labs/querykit/pkg/core"
)

// renderResult writes a query result in the given output format.
func renderResult(w io.Writer, res core.Result, format string) error {
	switch r := res.(type) {
	case core.RowCount:
		return renderStatus(w, format, map[string]any{"affected_rows": int64(r)},
			fmt.Sprintf("%d row(s) affected", int64(r)))
	case core.NoRows:
		return renderStatus(w, format, map[string]any{"rows": 0}, "OK")
	case *core.Row:
		return renderRows(w, format, r.Columns(), singleRow(r))
	case core.Cursor:
		defer func() { _ = r.Close() }()
		return renderRows(w, format, r.Columns(), cursorRows(r))
	default:
		return fmt.Errorf("unexpected result type %T", res)
	}
}

func renderStatus(w io.Writer, format string, payload map[string]any, text string) error {
	if format == config.OutputJSON {
		return writeJSON(w, payload)
	}
	_, err := fmt.Fprintln(w, text)
	return err
}

// rowSource yields rows until it returns nil.
type rowSource func() (*core.Row, error)

func singleRow(r *core.Row) rowSource {
	done := false
	return func() (*core.Row, error) {
		if done {
			return nil, nil
		}
		done = true
		return r, nil
	}
}

func cursorRows(c core.Cursor) rowSource {
	return func() (*core.Row, error) {
		if c.Next() {
			return c.Row(), nil
		}
		return nil, c.Err()
	}
}

func renderRows(w io.Writer, format string, cols []string, next rowSource) error {
	switch format {
	case config.OutputJSON:
		return renderJSON(w, next)
	case config.OutputCSV:
		return renderCSV(w, cols, next)
	default:
		return renderTable(w, cols, next)
	}
}

func renderTable(w io.Writer, cols []string, next rowSource) error {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	header := make(table.Row, len(cols))
	for i, col := range cols {
		header[i] = col
	}
	t.AppendHeader(header)

	count := 0
	for {
		row, err := next()
		if err != nil {
			return err
		}
		if row == nil {
			break
		}
		values := make(table.Row, row.Len())
		for i, v := range row.Values() {
			values[i] = formatValue(v)
		}
		t.AppendRow(values)
		count++
	}

	if count == 0 {
		_, _ = fmt.Fprintln(w, "(0 rows)")
		return nil
	}
	t.Render()
	_, _ = fmt.Fprintf(w, "(%d rows)\n", count)
	return nil
}

func renderJSON(w io.Writer, next rowSource) error {
	results := []map[string]any{}
	for {
		row, err := next()
		if err != nil {
			return err
		}
		if row == nil {
			break
		}
		results = append(results, row.Map())
	}
	return writeJSON(w, results)
}

func renderCSV(w io.Writer, cols []string, next rowSource) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(cols); err != nil {
		return err
	}
	for {
		row, err := next()
		if err != nil {
			return err
		}
		if row == nil {
			break
		}
		record := make([]string, row.Len())
		for i, v := range row.Values() {
			record[i] = formatValue(v)
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func formatValue(v any) string {
	if v == nil {
		return "NULL"
	}
	return fmt.Sprintf("%v", v)
}
