package exceltable

import (
	"errors"
	"fmt"
	"io"

	fs "github.com/ungerik/go-fs"
	"github.com/xuri/excelize/v2"

	"github.com/domonda/go-sheetjson"
	"github.com/domonda/go-sheetjson/htmltable"
)

const (
	// DefaultFilename is used by the write functions for an empty filename.
	DefaultFilename = "未命名.xlsx"
	// DefaultSheetName is used by the write functions for an empty sheet name.
	DefaultSheetName = "Sheet"
)

// WriteRecords exports records as a single sheet Excel file.
//
// The records are transformed with sheetjson.ToRows
// using the optional schema, so a nil schema writes
// the record keys as columns in sorted order
// and nil records write a single "no data" notice row.
//
// Empty filename and sheetname default to DefaultFilename and DefaultSheetName.
func WriteRecords(records []sheetjson.Record, schema sheetjson.Schema, filename, sheetname string) error {
	return writeRows(sheetjson.ToRows(records, schema), filename, sheetname)
}

// WriteTable exports an existing table as a single sheet Excel file
// with the table columns as header row.
//
// An empty sheetname defaults to the table title
// or DefaultSheetName if the title is empty too.
// An empty filename defaults to DefaultFilename.
func WriteTable(table sheetjson.Table, filename, sheetname string) error {
	if sheetname == "" {
		sheetname = table.Title()
	}
	return writeRows(sheetjson.TableRows(table), filename, sheetname)
}

// WriteHTMLTable parses the first <table> element of an HTML document
// and exports it as a single sheet Excel file.
//
// See WriteTable
func WriteHTMLTable(reader io.Reader, filename, sheetname string) error {
	table, err := htmltable.ParseTable(reader)
	if err != nil {
		return err
	}
	return WriteTable(table, filename, sheetname)
}

func writeRows(rows []sheetjson.Row, filename, sheetname string) error {
	if filename == "" {
		filename = DefaultFilename
	}
	data, err := EncodeRows(rows, sheetname)
	if err != nil {
		return err
	}
	return fs.File(filename).WriteAll(data)
}

// EncodeRows encodes rows as an Excel file with a single sheet.
//
// The first sheet row is the header formed by sheetjson.RowsHeader,
// every row is written below with its values
// in the column of their label.
// An empty sheetname defaults to DefaultSheetName.
func EncodeRows(rows []sheetjson.Row, sheetname string) (data []byte, err error) {
	if sheetname == "" {
		sheetname = DefaultSheetName
	}
	f := excelize.NewFile()
	defer func() {
		err = errors.Join(err, f.Close())
	}()

	if err := f.SetSheetName(f.GetSheetName(0), sheetname); err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrInvalidSheetName, sheetname, err)
	}

	header := sheetjson.RowsHeader(rows)
	columns := make(map[string]int, len(header))
	headerCells := make([]any, len(header))
	for i, label := range header {
		columns[label] = i
		headerCells[i] = label
	}
	if err := setRow(f, sheetname, 1, headerCells); err != nil {
		return nil, err
	}
	for r, row := range rows {
		cells := make([]any, len(header))
		for _, field := range row {
			cells[columns[field.Label]] = field.Value
		}
		if err := setRow(f, sheetname, r+2, cells); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func setRow(f *excelize.File, sheet string, row int, cells []any) error {
	if len(cells) == 0 {
		return nil
	}
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &cells)
}
