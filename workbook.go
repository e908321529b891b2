package sheetjson

import (
	"fmt"
	"slices"
)

// Range is the occupied cell range of a sheet
// with 0-based inclusive row and column indices.
type Range struct {
	FirstRow int
	FirstCol int
	LastRow  int
	LastCol  int
}

func (r Range) String() string {
	return fmt.Sprintf("R%dC%d:R%dC%d", r.FirstRow, r.FirstCol, r.LastRow, r.LastCol)
}

// NumRows returns the number of rows in the range.
func (r Range) NumRows() int { return r.LastRow - r.FirstRow + 1 }

// NumCols returns the number of columns in the range.
func (r Range) NumCols() int { return r.LastCol - r.FirstCol + 1 }

// RawSheet gives read access to the cell grid of a decoded sheet.
//
// Implementations are provided by spreadsheet codecs
// like the exceltable package. The core never mutates a RawSheet.
type RawSheet interface {
	// Name of the sheet
	Name() string
	// Ref returns the declared occupied range of the sheet
	// or false if the sheet has none.
	Ref() (Range, bool)
	// Cell returns the value at the 0-based row and column
	// or nil if the cell is empty.
	Cell(row, col int) any
}

// MemSheet is a RawSheet holding all cells in memory.
//
// Cells can be sparse: rows of Cells can be shorter than others.
// If Range is nil, the occupied range is derived from Cells
// ignoring nil and Undefined cells.
type MemSheet struct {
	Title string
	Cells [][]any
	Range *Range
}

var _ RawSheet = new(MemSheet)

// NewMemSheet returns a MemSheet with the rows as cells.
// The first row is the header row.
func NewMemSheet(title string, rows ...[]any) *MemSheet {
	return &MemSheet{Title: title, Cells: rows}
}

func (s *MemSheet) Name() string { return s.Title }

func (s *MemSheet) Ref() (Range, bool) {
	if s.Range != nil {
		return *s.Range, true
	}
	lastCol := -1
	lastRow := -1
	for row, cells := range s.Cells {
		for col := len(cells) - 1; col >= 0; col-- {
			if cells[col] != nil && cells[col] != Undefined {
				lastRow = row
				lastCol = max(lastCol, col)
				break
			}
		}
	}
	if lastRow < 0 {
		return Range{}, false
	}
	return Range{LastRow: lastRow, LastCol: lastCol}, true
}

func (s *MemSheet) Cell(row, col int) any {
	if row < 0 || col < 0 || row >= len(s.Cells) || col >= len(s.Cells[row]) {
		return nil
	}
	return s.Cells[row][col]
}

// Workbook is an ordered collection of named sheets.
type Workbook struct {
	sheets []RawSheet
}

// NewWorkbook returns a Workbook with the sheets in the passed order.
// Sheets with duplicate names are ignored after the first one.
func NewWorkbook(sheets ...RawSheet) *Workbook {
	wb := &Workbook{sheets: make([]RawSheet, 0, len(sheets))}
	for _, sheet := range sheets {
		wb.Add(sheet)
	}
	return wb
}

// Add appends a sheet and returns false
// if a sheet with the same name already exists.
func (wb *Workbook) Add(sheet RawSheet) bool {
	if _, ok := wb.Sheet(sheet.Name()); ok {
		return false
	}
	wb.sheets = append(wb.sheets, sheet)
	return true
}

// SheetNames returns the names of all sheets in workbook order.
func (wb *Workbook) SheetNames() []string {
	names := make([]string, len(wb.sheets))
	for i, sheet := range wb.sheets {
		names[i] = sheet.Name()
	}
	return names
}

// FirstSheetName returns the name of the first sheet
// or an empty string for an empty workbook.
func (wb *Workbook) FirstSheetName() string {
	if wb == nil || len(wb.sheets) == 0 {
		return ""
	}
	return wb.sheets[0].Name()
}

// Sheet returns the sheet with the passed name.
func (wb *Workbook) Sheet(name string) (RawSheet, bool) {
	if wb == nil {
		return nil, false
	}
	i := slices.IndexFunc(wb.sheets, func(s RawSheet) bool { return s.Name() == name })
	if i < 0 {
		return nil, false
	}
	return wb.sheets[i], true
}

// NumSheets returns the number of sheets.
func (wb *Workbook) NumSheets() int {
	if wb == nil {
		return 0
	}
	return len(wb.sheets)
}
