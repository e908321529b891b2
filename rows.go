package sheetjson

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Field is a labeled value of a Row.
type Field struct {
	Label string
	Value any
}

// Row is a sheet row as ordered list of labeled values.
type Row []Field

// Get returns the value of the first field with the passed label.
func (r Row) Get(label string) (any, bool) {
	for _, f := range r {
		if f.Label == label {
			return f.Value, true
		}
	}
	return nil, false
}

// Labels returns the labels of all fields in order.
func (r Row) Labels() []string {
	labels := make([]string, len(r))
	for i, f := range r {
		labels[i] = f.Label
	}
	return labels
}

// Record returns the fields as Record.
func (r Row) Record() Record {
	rec := make(Record, len(r))
	for _, f := range r {
		rec[f.Label] = f.Value
	}
	return rec
}

// Record maps field keys to validated values.
type Record map[string]any

// Keys returns the sorted keys of the record.
func (r Record) Keys() []string {
	return slices.Sorted(maps.Keys(r))
}

// Row returns the record fields as Row sorted by key.
func (r Record) Row() Row {
	row := make(Row, 0, len(r))
	for _, key := range r.Keys() {
		row = append(row, Field{Label: key, Value: r[key]})
	}
	return row
}

// CellText returns the text of a cell value as it is used
// for header labels. Empty cells result in an empty string.
func CellText(v any) string {
	switch x := v.(type) {
	case nil, undefinedValue:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		if x {
			return "TRUE"
		}
		return "FALSE"
	case time.Time:
		return x.Format(time.DateOnly)
	}
	return fmt.Sprint(v)
}

// HeaderLabel returns the text of a header cell
// up to the first line break.
func HeaderLabel(v any) string {
	text := CellText(v)
	if i := strings.IndexAny(text, "\r\n"); i >= 0 {
		return text[:i]
	}
	return text
}

// SheetHeader returns the header labels of a sheet
// from the first row of its declared range.
// A sheet without declared range has no header labels.
func SheetHeader(sheet RawSheet) []string {
	ref, ok := sheet.Ref()
	if !ok {
		return []string{}
	}
	labels := make([]string, 0, ref.NumCols())
	for col := ref.FirstCol; col <= ref.LastCol; col++ {
		labels = append(labels, HeaderLabel(sheet.Cell(ref.FirstRow, col)))
	}
	return labels
}

// SheetLabels returns the unique labels of the header columns
// of a sheet as used for the fields of its rows.
func SheetLabels(sheet RawSheet) []string {
	return rowLabels(SheetHeader(sheet))
}

// rowLabels returns unique labels for the header columns.
// Empty labels are named __EMPTY, __EMPTY_1, ...
// and repeated labels get a _1, _2, ... suffix.
func rowLabels(header []string) []string {
	labels := make([]string, len(header))
	counts := make(map[string]int, len(header))
	for i, label := range header {
		if label == "" {
			label = "__EMPTY"
		}
		unique := label
		if n := counts[label]; n == 0 {
			counts[label] = 1
		} else {
			for {
				unique = label + "_" + strconv.Itoa(n)
				n++
				if counts[unique] == 0 {
					break
				}
			}
			counts[label] = n
			counts[unique] = 1
		}
		labels[i] = unique
	}
	return labels
}

// SheetRows decodes the data rows of a sheet.
//
// The first row of the declared range is the header row,
// every following row is returned as Row labeled by the header.
// Empty cells are not part of a Row and rows
// without any non empty cell are skipped.
func SheetRows(sheet RawSheet) []Row {
	ref, ok := sheet.Ref()
	if !ok {
		return nil
	}
	labels := SheetLabels(sheet)
	var rows []Row
	for r := ref.FirstRow + 1; r <= ref.LastRow; r++ {
		var row Row
		for i, label := range labels {
			v := sheet.Cell(r, ref.FirstCol+i)
			if v == nil || v == Undefined {
				continue
			}
			row = append(row, Field{Label: label, Value: v})
		}
		if len(row) > 0 {
			rows = append(rows, row)
		}
	}
	return rows
}
