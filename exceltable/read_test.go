package exceltable

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	fs "github.com/ungerik/go-fs"
	"github.com/xuri/excelize/v2"

	"github.com/domonda/go-sheetjson"
)

var ordered = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

// peopleFile returns the data of an Excel file
// with a "People" and an "Empty" sheet.
func peopleFile(t *testing.T) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := "People"
	require.NoError(t, f.SetSheetName("Sheet1", sheet))
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"Name", "Age", "Member", "Since\n(date)"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]any{" Alice ", 30, true, ordered}))
	require.NoError(t, f.SetSheetRow(sheet, "A4", &[]any{"Bob", 25.5, false}))

	_, err := f.NewSheet("Empty")
	require.NoError(t, err)

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestReadWorkbook(t *testing.T) {
	wb, err := ReadWorkbook(peopleFile(t))
	require.NoError(t, err)
	require.Equal(t, []string{"People", "Empty"}, wb.SheetNames())

	people, ok := wb.Sheet("People")
	require.True(t, ok)
	ref, ok := people.Ref()
	require.True(t, ok)
	assert.Equal(t, sheetjson.Range{FirstRow: 0, FirstCol: 0, LastRow: 3, LastCol: 3}, ref)

	assert.Equal(t, []string{"Name", "Age", "Member", "Since"}, sheetjson.SheetHeader(people))
	assert.Equal(t, " Alice ", people.Cell(1, 0))
	assert.Equal(t, 30.0, people.Cell(1, 1))
	assert.Equal(t, true, people.Cell(1, 2))
	since, ok := people.Cell(1, 3).(time.Time)
	require.True(t, ok, "date cell decoded as time.Time")
	assert.True(t, ordered.Equal(since))
	assert.Nil(t, people.Cell(2, 0))
	assert.Equal(t, 25.5, people.Cell(3, 1))
	assert.Equal(t, false, people.Cell(3, 2))

	empty, ok := wb.Sheet("Empty")
	require.True(t, ok)
	_, ok = empty.Ref()
	assert.False(t, ok)
}

func TestReadWorkbook_Invalid(t *testing.T) {
	_, err := ReadWorkbook([]byte("not an Excel file"))
	require.Error(t, err)
}

func TestLoad(t *testing.T) {
	file := fs.MemFile{FileName: "people.xlsx", FileData: peopleFile(t)}
	results, err := Load(context.Background(), file, sheetjson.Template{
		SheetName: "People",
		Header: sheetjson.Schema{
			{Header: "Name", Key: "name", Require: sheetjson.RequireYes},
			{Header: "Age", Key: "age", Type: sheetjson.TypeNumber},
			{Header: "Since", Key: "since", Type: sheetjson.TypeDate, Require: sheetjson.RequireNo},
		},
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, []sheetjson.Record{
		{"name": "Alice", "age": 30.0, "since": ordered.UnixMilli()},
		{"name": "Bob", "age": 25.5},
	}, results[0].Data)
}

func TestLoad_Errors(t *testing.T) {
	file := fs.MemFile{FileName: "people.xlsx", FileData: peopleFile(t)}
	_, err := Load(context.Background(), file,
		sheetjson.Template{SheetName: "Missing"},
		sheetjson.Template{SheetName: "People", Header: sheetjson.Schema{{Header: "Member", Key: "member"}}},
	)
	var agg *sheetjson.AggregateError
	require.True(t, errors.As(err, &agg))
	require.Len(t, agg.Errs, 2)
	assert.ErrorIs(t, agg.Errs[0], sheetjson.SheetNotFound)
	assert.ErrorIs(t, agg.Errs[1], sheetjson.TypeMismatch)
}

func TestLoadWith_StrictChecks(t *testing.T) {
	file := fs.MemFile{FileName: "people.xlsx", FileData: peopleFile(t)}
	tmpl := sheetjson.Template{
		SheetName: "People",
		Header: sheetjson.Schema{{Header: "Age", Key: "age", Type: sheetjson.TypeNumber, Check: func(r sheetjson.Record) any {
			return r["age"].(float64) < 30
		}}},
	}
	_, err := LoadWith(context.Background(), nil, file, tmpl)
	require.NoError(t, err)
	_, err = LoadWith(context.Background(), sheetjson.NewProcessor(sheetjson.WithStrictChecks()), file, tmpl)
	require.ErrorIs(t, err, sheetjson.CheckFailed)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "people.xlsx")
	require.NoError(t, fs.File(path).WriteAll(peopleFile(t)))

	results, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "People", results[0].Name)
	assert.Len(t, results[0].Data, 2)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.xlsx"))
	require.ErrorIs(t, err, sheetjson.FileNotFound)
	var e *sheetjson.Error
	require.True(t, errors.As(err, &e))
	assert.Contains(t, e.File, "missing.xlsx")
}

func TestParseRange(t *testing.T) {
	ref, err := ParseRange("B2:D10")
	require.NoError(t, err)
	assert.Equal(t, sheetjson.Range{FirstRow: 1, FirstCol: 1, LastRow: 9, LastCol: 3}, ref)

	ref, err = ParseRange("A1")
	require.NoError(t, err)
	assert.Equal(t, sheetjson.Range{}, ref)

	_, err = ParseRange("1A")
	require.Error(t, err)
}

func TestIsDateFormatCode(t *testing.T) {
	tests := []struct {
		code string
		want bool
	}{
		{code: "yyyy-mm-dd", want: true},
		{code: "[$-409]d-mmm-yy;@", want: true},
		{code: "hh:mm:ss", want: true},
		{code: "General", want: false},
		{code: "#,##0.00", want: false},
		{code: `#,##0 "days"`, want: false},
		{code: `0\d`, want: false},
		{code: "[Red]0.00", want: false},
		{code: "0.00E+00", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, isDateFormatCode(tt.code))
		})
	}
	assert.True(t, isDateNumFmt(14))
	assert.True(t, isDateNumFmt(22))
	assert.False(t, isDateNumFmt(0))
	assert.False(t, isDateNumFmt(4))
}
