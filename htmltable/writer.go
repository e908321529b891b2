package htmltable

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"reflect"
	"time"

	"github.com/domonda/go-sheetjson"
)

var (
	HeaderTemplate = template.Must(template.New("header").Parse(
		"<table{{if .TableClass}} class='{{.TableClass}}'{{end}}>\n" +
			"{{if .Caption}}  <caption>{{.Caption}}</caption>\n{{end}}",
	))

	RowTemplate = template.Must(template.New("row").Parse("" +
		"{{if .IsHeaderRow}}" +
		"  <tr>{{range $cell := .RawCells}}<th>{{$cell}}</th>{{end}}</tr>\n" +
		"{{else}}" +
		"  <tr>{{range $cell := .RawCells}}<td>{{$cell}}</td>{{end}}</tr>\n" +
		"{{end}}",
	))

	FooterTemplate = template.Must(template.New("footer").Parse(
		"</table>\n",
	))
)

// TemplateContext is passed to the header and footer templates.
type TemplateContext struct {
	TableClass string
	Caption    string
}

// RowTemplateContext is passed to the row template.
type RowTemplateContext struct {
	TemplateContext

	IsHeaderRow bool
	RowIndex    int
	RawCells    []template.HTML
}

// CellFormatter formats a cell value for HTML.
// If raw is true, str is used as HTML, else it is escaped.
type CellFormatter func(value any) (str string, raw bool, err error)

// JSONCellFormatter formats array and object values
// as indented JSON within a <pre> element.
// Other values are formatted with the default formatting.
func JSONCellFormatter(indent string) CellFormatter {
	return func(value any) (string, bool, error) {
		switch sheetjson.Classify(value) {
		case sheetjson.TypeArray, sheetjson.TypeObject:
		default:
			return sheetjson.CellText(value), false, nil
		}
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", indent)
		if err := enc.Encode(value); err != nil {
			return "", false, err
		}
		return "<pre>" + template.HTMLEscapeString(string(bytes.TrimSpace(buf.Bytes()))) + "</pre>", true, nil
	}
}

// UnixMilliCellFormatter formats numbers as date
// interpreting them as Unix milliseconds,
// the representation of Date columns in records.
func UnixMilliCellFormatter(layout string) CellFormatter {
	return func(value any) (string, bool, error) {
		v := reflect.ValueOf(value)
		switch v.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return time.UnixMilli(v.Int()).UTC().Format(layout), false, nil
		case reflect.Float32, reflect.Float64:
			return time.UnixMilli(int64(v.Float())).UTC().Format(layout), false, nil
		}
		return sheetjson.CellText(value), false, nil
	}
}

// Writer writes a sheetjson.Table as HTML table element.
//
// Writer is immutable after creation - all With* methods return
// a new Writer instance with the modified configuration.
//
// All cell values are HTML-escaped
// unless a CellFormatter returns raw HTML.
type Writer struct {
	tableClass       string
	columnFormatters map[string]CellFormatter
	nilValue         template.HTML
	headerRow        bool
	headerTemplate   *template.Template
	rowTemplate      *template.Template
	footerTemplate   *template.Template
}

// NewWriter creates a new HTML table writer
// with a header row and the default templates.
func NewWriter() *Writer {
	return &Writer{
		columnFormatters: make(map[string]CellFormatter),
		headerRow:        true,
		headerTemplate:   HeaderTemplate,
		rowTemplate:      RowTemplate,
		footerTemplate:   FooterTemplate,
	}
}

// Write renders table to dest using the table title as caption.
func (w *Writer) Write(ctx context.Context, dest io.Writer, table sheetjson.Table) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	var (
		columns   = table.Columns()
		numCols   = len(columns)
		templData = &RowTemplateContext{
			TemplateContext: TemplateContext{
				TableClass: w.tableClass,
				Caption:    table.Title(),
			},
			RawCells: make([]template.HTML, numCols),
		}
	)

	err := w.headerTemplate.Execute(dest, templData.TemplateContext)
	if err != nil {
		return err
	}

	if w.headerRow {
		templData.IsHeaderRow = true
		for i := range columns {
			templData.RawCells[i] = template.HTML(template.HTMLEscapeString(columns[i])) //#nosec G203
		}
		err = w.rowTemplate.Execute(dest, templData)
		if err != nil {
			return err
		}
		templData.IsHeaderRow = false
		templData.RowIndex++
	}

	for row, numRows := 0, table.NumRows(); row < numRows; row++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		for col := range numCols {
			value := table.Cell(row, col)
			formatter, ok := w.columnFormatters[columns[col]]
			if !ok && (value == nil || value == sheetjson.Undefined) {
				templData.RawCells[col] = w.nilValue
				continue
			}
			str, isRaw := sheetjson.CellText(value), false
			if ok {
				str, isRaw, err = formatter(value)
				if err != nil {
					return fmt.Errorf("column %q row %d: %w", columns[col], row, err)
				}
			}
			if !isRaw {
				str = template.HTMLEscapeString(str)
			}
			templData.RawCells[col] = template.HTML(str) //#nosec G203
		}

		err = w.rowTemplate.Execute(dest, templData)
		if err != nil {
			return err
		}
		templData.RowIndex++
	}

	return w.footerTemplate.Execute(dest, templData.TemplateContext)
}

func (w *Writer) clone() *Writer {
	c := new(Writer)
	*c = *w
	return c
}

func (w *Writer) WithHeaderRow(headerRow bool) *Writer {
	mod := w.clone()
	mod.headerRow = headerRow
	return mod
}

func (w *Writer) WithTableClass(tableClass string) *Writer {
	mod := w.clone()
	mod.tableClass = tableClass
	return mod
}

// WithColumnFormatter returns a Writer that formats
// the cells of the column with the passed title using formatter.
// A nil formatter removes a column formatter.
func (w *Writer) WithColumnFormatter(column string, formatter CellFormatter) *Writer {
	mod := w.clone()
	mod.columnFormatters = make(map[string]CellFormatter, len(w.columnFormatters)+1)
	for key, val := range w.columnFormatters {
		mod.columnFormatters[key] = val
	}
	if formatter != nil {
		mod.columnFormatters[column] = formatter
	} else {
		delete(mod.columnFormatters, column)
	}
	return mod
}

func (w *Writer) WithNilValue(nilValue template.HTML) *Writer {
	mod := w.clone()
	mod.nilValue = nilValue
	return mod
}

func (w *Writer) WithTemplate(tableTemplate, rowTemplate, footerTemplate *template.Template) *Writer {
	mod := w.clone()
	mod.headerTemplate = tableTemplate
	mod.rowTemplate = rowTemplate
	mod.footerTemplate = footerTemplate
	return mod
}

func (w *Writer) TableClass() string {
	return w.tableClass
}

func (w *Writer) NilValue() template.HTML {
	return w.nilValue
}
