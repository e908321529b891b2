package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/domonda/go-sheetjson"
	"github.com/domonda/go-sheetjson/htmltable"
	"github.com/domonda/go-sheetjson/internal/cli/config"
)

func renderImports(cmd *cobra.Command, cfg *config.Config, imports []fileImport) error {
	w := cmd.OutOrStdout()
	if cfg.Output == "json" {
		return renderJSON(w, imports)
	}
	for _, imp := range imports {
		if imp.err != nil {
			renderErrors(cmd.ErrOrStderr(), imp.Path, imp.Errors)
			continue
		}
		for _, result := range imp.Results {
			var err error
			if cfg.Output == "html" {
				err = renderHTML(cmd, cfg, result)
			} else {
				renderTable(w, imp.Path, result)
			}
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func renderJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func renderTable(w io.Writer, path string, result sheetjson.Result) {
	rows := recordRows(result.Data)
	cols := sheetjson.RowsHeader(rows)

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.SetTitle("%s / %s", path, result.Name)

	headerRow := make(table.Row, len(cols))
	for i, col := range cols {
		headerRow[i] = col
	}
	t.AppendHeader(headerRow)

	for _, row := range rows {
		tableRow := make(table.Row, len(cols))
		for i, col := range cols {
			value, _ := row.Get(col)
			tableRow[i] = sheetjson.CellText(value)
		}
		t.AppendRow(tableRow)
	}

	t.Render()
	_, _ = fmt.Fprintf(w, "(%d records)\n", len(rows))
}

func renderErrors(w io.Writer, path string, messages []string) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.SetTitle("%s", path)
	t.AppendHeader(table.Row{"#", "Error"})
	for i, msg := range messages {
		t.AppendRow(table.Row{strconv.Itoa(i + 1), msg})
	}
	t.Render()
}

// renderHTML writes the records of a result as HTML table.
// Columns of the configured template with Date type
// are formatted as dates.
func renderHTML(cmd *cobra.Command, cfg *config.Config, result sheetjson.Result) error {
	writer := htmltable.NewWriter().WithTableClass("sheetjson")
	if tmpl, ok := cfg.Template(result.Name); ok {
		for _, col := range tmpl.Header {
			if col.Type == sheetjson.TypeDate && col.Key != "" {
				writer = writer.WithColumnFormatter(col.Key, htmltable.UnixMilliCellFormatter(time.DateOnly))
			}
		}
	}
	view := sheetjson.NewRowsView(result.Name, recordRows(result.Data))
	return writer.Write(cmd.Context(), cmd.OutOrStdout(), view)
}

func recordRows(records []sheetjson.Record) []sheetjson.Row {
	rows := make([]sheetjson.Row, len(records))
	for i, record := range records {
		rows[i] = record.Row()
	}
	return rows
}
