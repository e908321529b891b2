// Package exceltable reads Excel files (.xlsx, .xlsm, .xltm, .xltx)
// into sheetjson.Workbook values and writes records back into Excel files.
//
// The package uses the excelize library (github.com/xuri/excelize/v2) under the hood.
// In contrast to a plain string grid, cells are decoded with their type:
//   - text cells as string
//   - number cells as float64
//   - boolean cells as bool
//   - number cells with a date number format and date cells as time.Time
//
// Empty cells are nil.
//
// Example usage:
//
//	results, err := exceltable.LoadFile("people.xlsx", sheetjson.Template{
//	    SheetName: "People",
//	    Header: sheetjson.Schema{
//	        {Header: "Name", Key: "name", Require: sheetjson.RequireYes},
//	        {Header: "Age", Key: "age", Type: sheetjson.TypeNumber},
//	    },
//	})
//	if err != nil {
//	    for _, msg := range sheetjson.LocalizeError(err, language.English) {
//	        fmt.Println(msg)
//	    }
//	    return
//	}
//	fmt.Println(results[0].Data)
package exceltable

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	fs "github.com/ungerik/go-fs"
	"github.com/xuri/excelize/v2"

	"github.com/domonda/go-sheetjson"
)

// Load reads the Excel file and applies the templates to its workbook
// using a sheetjson.Processor with default options.
//
// The file content is read with ctx, so reading can be canceled.
// Any fs.FileReader can be passed, for example an uploaded fs.MemFile
// or a local fs.File.
//
// See sheetjson.Processor.Process
func Load(ctx context.Context, file fs.FileReader, templates ...sheetjson.Template) ([]sheetjson.Result, error) {
	return LoadWith(ctx, nil, file, templates...)
}

// LoadWith is like Load but uses the passed processor.
// A nil processor uses default options.
func LoadWith(ctx context.Context, processor *sheetjson.Processor, file fs.FileReader, templates ...sheetjson.Template) ([]sheetjson.Result, error) {
	wb, err := ReadFileWorkbook(ctx, file)
	if err != nil {
		return nil, err
	}
	if processor == nil {
		return sheetjson.Process(wb, templates...)
	}
	return processor.Process(wb, templates...)
}

// LoadFile reads the Excel file at path and applies the templates
// to its workbook using a sheetjson.Processor with default options.
//
// A sheetjson.FileNotFound error is returned
// if there is no file at path.
func LoadFile(path string, templates ...sheetjson.Template) ([]sheetjson.Result, error) {
	file := fs.File(path)
	if !file.Exists() {
		return nil, &sheetjson.Error{Kind: sheetjson.FileNotFound, File: path}
	}
	return Load(context.Background(), file, templates...)
}

// ReadFileWorkbook reads and decodes all sheets of an Excel file.
//
// A sheetjson.FileNotFound error is returned
// if the file does not exist.
func ReadFileWorkbook(ctx context.Context, file fs.FileReader) (*sheetjson.Workbook, error) {
	if !file.Exists() {
		return nil, &sheetjson.Error{Kind: sheetjson.FileNotFound, File: file.Name()}
	}
	data, err := file.ReadAllContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", file.Name(), err)
	}
	wb, err := ReadWorkbook(data)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", file.Name(), err)
	}
	return wb, nil
}

// ReadWorkbook decodes all sheets of Excel file data.
func ReadWorkbook(data []byte) (*sheetjson.Workbook, error) {
	return OpenWorkbook(bytes.NewReader(data))
}

// OpenWorkbook decodes all sheets of an Excel file provided via io.Reader.
//
// The sheets of the returned workbook are in workbook order
// and hold all cells in memory, the reader is not used afterwards.
// The declared dimension of a sheet is used as its range
// if it encloses all non empty cells, else the range of the non empty cells.
// Sheets without non empty cells have no range.
func OpenWorkbook(reader io.Reader) (wb *sheetjson.Workbook, err error) {
	f, e := excelize.OpenReader(reader)
	if e != nil {
		return nil, e
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()

	d := decoder{file: f, dateStyles: make(map[int]bool)}
	if props, e := f.GetWorkbookProps(); e == nil && props.Date1904 != nil {
		d.date1904 = *props.Date1904
	}
	wb = sheetjson.NewWorkbook()
	for _, name := range f.GetSheetList() {
		sheet, err := d.readSheet(name)
		if err != nil {
			return nil, fmt.Errorf("sheet %q: %w", name, err)
		}
		wb.Add(sheet)
	}
	return wb, nil
}

type decoder struct {
	file     *excelize.File
	date1904 bool
	// dateStyles caches if a style ID has a date number format
	dateStyles map[int]bool
}

// readSheet decodes the typed cells of a sheet.
//
// excelize.File.GetRows returns the raw cell values
// starting at cell A1 with trailing empty cells removed,
// the type of every non empty cell is then looked up.
func (d *decoder) readSheet(sheet string) (*sheetjson.MemSheet, error) {
	rows, err := d.file.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}
	cells := make([][]any, len(rows))
	for r, row := range rows {
		cells[r] = make([]any, len(row))
		for c, raw := range row {
			if raw == "" {
				continue
			}
			cells[r][c], err = d.cellValue(sheet, r, c, raw)
			if err != nil {
				return nil, err
			}
		}
	}
	mem := &sheetjson.MemSheet{Title: sheet, Cells: cells}
	if ref, ok := d.sheetRange(sheet, cells); ok {
		mem.Range = &ref
	}
	return mem, nil
}

func (d *decoder) cellValue(sheet string, row, col int, raw string) (any, error) {
	cell, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return nil, err
	}
	cellType, err := d.file.GetCellType(sheet, cell)
	if err != nil {
		return nil, err
	}
	switch cellType {
	case excelize.CellTypeBool:
		return raw == "1" || strings.EqualFold(raw, "true"), nil

	case excelize.CellTypeSharedString, excelize.CellTypeInlineString,
		excelize.CellTypeFormula, excelize.CellTypeError:
		return raw, nil

	case excelize.CellTypeDate:
		if t, ok := parseISODate(raw); ok {
			return t, nil
		}
		return raw, nil

	case excelize.CellTypeNumber, excelize.CellTypeUnset:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			// Cells without type attribute can hold any text
			return raw, nil
		}
		isDate, err := d.isDateCell(sheet, cell)
		if err != nil {
			return nil, err
		}
		if isDate {
			t, err := excelize.ExcelDateToTime(f, d.date1904)
			if err != nil {
				return nil, fmt.Errorf("cell %s: %w", cell, err)
			}
			return t, nil
		}
		return f, nil
	}
	return raw, nil
}

// isDateCell reports if the number format of the cell style is a date format.
func (d *decoder) isDateCell(sheet, cell string) (bool, error) {
	styleID, err := d.file.GetCellStyle(sheet, cell)
	if err != nil {
		return false, err
	}
	if isDate, ok := d.dateStyles[styleID]; ok {
		return isDate, nil
	}
	style, err := d.file.GetStyle(styleID)
	if err != nil {
		return false, err
	}
	isDate := isDateNumFmt(style.NumFmt)
	if style.CustomNumFmt != nil {
		isDate = isDateFormatCode(*style.CustomNumFmt)
	}
	d.dateStyles[styleID] = isDate
	return isDate, nil
}

// isDateNumFmt reports if id is a built-in date or time number format,
// including the locale specific ones of East Asian languages.
func isDateNumFmt(id int) bool {
	switch {
	case id >= 14 && id <= 22,
		id >= 27 && id <= 36,
		id >= 45 && id <= 47,
		id >= 50 && id <= 58:
		return true
	}
	return false
}

// isDateFormatCode reports if a custom number format code
// formats date or time parts.
// Quoted literals, escaped characters and bracketed sections
// like colors or locales are not considered.
func isDateFormatCode(code string) bool {
	var (
		inQuote   bool
		inBracket bool
		escaped   bool
	)
	for _, r := range strings.ToLower(code) {
		switch {
		case escaped:
			escaped = false
		case inQuote:
			inQuote = r != '"'
		case inBracket:
			if r == ']' {
				inBracket = false
			}
		case r == '\\':
			escaped = true
		case r == '"':
			inQuote = true
		case r == '[':
			inBracket = true
		case strings.ContainsRune("ymdhs", r):
			return true
		}
	}
	return false
}

var isoDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	time.DateTime,
	time.DateOnly,
}

func parseISODate(str string) (time.Time, bool) {
	for _, layout := range isoDateLayouts {
		if t, err := time.Parse(layout, str); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// sheetRange returns the declared dimension of the sheet
// if it encloses all non empty cells, else the range of the non empty cells.
// Files written by some libraries declare the dimension "A1" for any sheet.
func (d *decoder) sheetRange(sheet string, cells [][]any) (sheetjson.Range, bool) {
	content, ok := contentRange(cells)
	if !ok {
		return content, false
	}
	if dim, err := d.file.GetSheetDimension(sheet); err == nil && dim != "" {
		declared, err := ParseRange(dim)
		if err == nil && encloses(declared, content) {
			return declared, true
		}
	}
	return content, true
}

func contentRange(cells [][]any) (ref sheetjson.Range, ok bool) {
	ref = sheetjson.Range{FirstRow: -1, FirstCol: -1, LastRow: -1, LastCol: -1}
	for r, row := range cells {
		for c, v := range row {
			if v == nil {
				continue
			}
			if ref.FirstRow < 0 {
				ref.FirstRow = r
			}
			if ref.FirstCol < 0 || c < ref.FirstCol {
				ref.FirstCol = c
			}
			ref.LastRow = r
			ref.LastCol = max(ref.LastCol, c)
		}
	}
	return ref, ref.FirstRow >= 0
}

func encloses(outer, inner sheetjson.Range) bool {
	return outer.FirstRow <= inner.FirstRow &&
		outer.FirstCol <= inner.FirstCol &&
		outer.LastRow >= inner.LastRow &&
		outer.LastCol >= inner.LastCol
}

// ParseRange parses an A1 style range like "B2:D10"
// or a single cell like "A1" into a 0-based sheetjson.Range.
func ParseRange(a1 string) (sheetjson.Range, error) {
	first, last, _ := strings.Cut(a1, ":")
	if last == "" {
		last = first
	}
	firstCol, firstRow, err := excelize.CellNameToCoordinates(first)
	if err != nil {
		return sheetjson.Range{}, err
	}
	lastCol, lastRow, err := excelize.CellNameToCoordinates(last)
	if err != nil {
		return sheetjson.Range{}, err
	}
	return sheetjson.Range{
		FirstRow: min(firstRow, lastRow) - 1,
		FirstCol: min(firstCol, lastCol) - 1,
		LastRow:  max(firstRow, lastRow) - 1,
		LastCol:  max(firstCol, lastCol) - 1,
	}, nil
}
