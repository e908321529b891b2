package sheetjson

import (
	"strings"
)

// Table is an existing tabular source that can be exported
// as a sheet without schema, for example a parsed HTML table.
type Table interface {
	// Title of the table, may be empty
	Title() string
	// Columns returns the column titles that form the header row
	Columns() []string
	// NumRows returns the number of data rows
	NumRows() int
	// Cell returns the value at the 0-based data row and column
	// or nil for an empty or out of bounds cell
	Cell(row, col int) any
}

// StringsView is a Table with string cell values.
//
// Rows can have fewer elements than Cols,
// missing cells are returned as empty strings.
//
// Example:
//
//	view := sheetjson.NewStringsView(
//	    "Users",
//	    [][]string{
//	        {"Name", "Age"}, // This becomes the header
//	        {"alice", "30"},
//	        {"bob", "25"},
//	    },
//	)
type StringsView struct {
	// Tit is the title of this view, returned by the Title() method.
	Tit string

	// Cols contains the column names defining both the column headers
	// and the number of columns in this view.
	Cols []string

	// Rows contains the data rows, where each row is a slice of strings.
	Rows [][]string
}

var _ Table = new(StringsView)

// NewStringsView returns a StringsView for rows.
// If no cols are passed, the first row is used as header
// and removed from the data rows.
// All column names are trimmed.
func NewStringsView(title string, rows [][]string, cols ...string) *StringsView {
	if len(cols) == 0 && len(rows) > 0 {
		cols = rows[0]
		rows = rows[1:]
	}
	trimmed := make([]string, len(cols))
	for i, col := range cols {
		trimmed[i] = strings.TrimSpace(col)
	}
	return &StringsView{Tit: title, Cols: trimmed, Rows: rows}
}

func (view *StringsView) Title() string     { return view.Tit }
func (view *StringsView) Columns() []string { return view.Cols }
func (view *StringsView) NumRows() int      { return len(view.Rows) }

// Cell returns the string at row and col,
// an empty string for a cell missing from a short row,
// or nil for indices outside of the table.
func (view *StringsView) Cell(row, col int) any {
	if row < 0 || col < 0 || row >= len(view.Rows) || col >= len(view.Cols) {
		return nil
	}
	if col >= len(view.Rows[row]) {
		return ""
	}
	return view.Rows[row][col]
}

// TableRows returns the rows of a table labeled by its columns.
// Empty string cells are kept so that every row has all columns.
func TableRows(table Table) []Row {
	cols := table.Columns()
	rows := make([]Row, table.NumRows())
	for r := range rows {
		row := make(Row, len(cols))
		for c, col := range cols {
			row[c] = Field{Label: col, Value: table.Cell(r, c)}
		}
		rows[r] = row
	}
	return rows
}

// RemoveEmptyStringRows removes all rows
// that only consist of empty or whitespace strings.
func RemoveEmptyStringRows(rows [][]string) [][]string {
	filtered := rows[:0]
	for _, row := range rows {
		if !IsEmptyStringRow(row) {
			filtered = append(filtered, row)
		}
	}
	return filtered
}

// IsEmptyStringRow reports if all strings of row are empty or whitespace.
func IsEmptyStringRow(row []string) bool {
	for _, s := range row {
		if strings.TrimSpace(s) != "" {
			return false
		}
	}
	return true
}

// RowsView is a Table over rows, for example
// the result of ToRows. Its columns are the RowsHeader of the rows.
type RowsView struct {
	Tit  string
	Cols []string
	Rows []Row
}

var _ Table = new(RowsView)

// NewRowsView returns a RowsView with RowsHeader(rows) as columns.
func NewRowsView(title string, rows []Row) *RowsView {
	return &RowsView{Tit: title, Cols: RowsHeader(rows), Rows: rows}
}

func (view *RowsView) Title() string     { return view.Tit }
func (view *RowsView) Columns() []string { return view.Cols }
func (view *RowsView) NumRows() int      { return len(view.Rows) }

// Cell returns the value of the row field labeled
// with the column title or nil if there is none.
func (view *RowsView) Cell(row, col int) any {
	if row < 0 || col < 0 || row >= len(view.Rows) || col >= len(view.Cols) {
		return nil
	}
	value, _ := view.Rows[row].Get(view.Cols[col])
	return value
}
