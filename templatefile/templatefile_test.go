package templatefile

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/domonda/go-sheetjson"
)

const peopleYAML = `
templates:
  - sheet: People
    columns:
      - header: Name
        key: name
        require: true
        check: 'len(name) <= 5 ? true : "name is too long"'
      - header: Age
        key: age
        type: Number
        label: Age (years)
        format: 'value * 2'
      - header: Note
        key: note
        require: false
        default: "-"
  - sheet: Cities
`

func peopleWorkbook() *sheetjson.Workbook {
	return sheetjson.NewWorkbook(
		sheetjson.NewMemSheet("People",
			[]any{"Name", "Age", "Note"},
			[]any{"Alice", 30.0, "first"},
			[]any{"Bob", 25.0},
		),
		sheetjson.NewMemSheet("Cities",
			[]any{"City"},
			[]any{"Berlin"},
		),
	)
}

func TestParse(t *testing.T) {
	templates, err := Parse([]byte(peopleYAML))
	require.NoError(t, err)
	require.Len(t, templates, 2)

	people := templates[0]
	assert.Equal(t, "People", people.SheetName)
	require.Len(t, people.Header, 3)
	assert.Equal(t, []string{"Name", "Age", "Note"}, people.Header.Headers())
	assert.Equal(t, sheetjson.RequireYes, people.Header[0].Require)
	assert.NotNil(t, people.Header[0].Check)
	assert.Equal(t, sheetjson.TypeNumber, people.Header[1].Type)
	assert.Equal(t, sheetjson.RequireUnset, people.Header[1].Require)
	assert.Equal(t, "Age (years)", people.Header[1].Label)
	assert.NotNil(t, people.Header[1].Format)
	assert.Equal(t, sheetjson.RequireNo, people.Header[2].Require)
	assert.Equal(t, "-", people.Header[2].Default)

	cities := templates[1]
	assert.Equal(t, "Cities", cities.SheetName)
	assert.Nil(t, cities.Header, "template without columns has no schema")
}

func TestParse_Process(t *testing.T) {
	templates, err := Parse([]byte(peopleYAML))
	require.NoError(t, err)

	results, err := sheetjson.Process(peopleWorkbook(), templates...)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, []sheetjson.Record{
		{"name": "Alice", "age": 30.0, "note": "first"},
		{"name": "Bob", "age": 25.0},
	}, results[0].Data)
	assert.Equal(t, []sheetjson.Record{{"City": "Berlin"}}, results[1].Data)

	rows := sheetjson.ToRows(results[0].Data, templates[0].Header)
	require.Len(t, rows, 2)
	assert.Equal(t, sheetjson.Row{
		{Label: "Name", Value: "Bob"},
		{Label: "Age (years)", Value: 50.0},
		{Label: "Note", Value: "-"},
	}, rows[1])
}

func TestParse_CheckFailed(t *testing.T) {
	templates, err := Parse([]byte(peopleYAML))
	require.NoError(t, err)

	wb := sheetjson.NewWorkbook(sheetjson.NewMemSheet("People",
		[]any{"Name", "Age"},
		[]any{"Alice", 30.0},
		[]any{"Maximilian", 40.0},
	))
	_, err = sheetjson.Process(wb, templates[0])
	require.ErrorIs(t, err, sheetjson.CheckFailed)

	var e *sheetjson.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, "Name", e.Column)
	assert.Equal(t, 3, e.Row)
	assert.Equal(t, "name is too long", e.Value)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{name: "unknown type", yaml: "templates:\n  - sheet: A\n    columns:\n      - header: X\n        type: Text\n"},
		{name: "unknown option", yaml: "templates:\n  - sheet: A\n    columns:\n      - header: X\n        colour: red\n"},
		{name: "invalid check", yaml: "templates:\n  - sheet: A\n    columns:\n      - header: X\n        check: 'len('\n"},
		{name: "invalid format", yaml: "templates:\n  - sheet: A\n    columns:\n      - header: X\n        format: '1 +'\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.ErrorIs(t, err, sheetjson.InvalidSchema)
		})
	}

	_, err := Parse([]byte("templates: [\n"))
	require.Error(t, err, "malformed YAML")
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "people.yaml")
	require.NoError(t, os.WriteFile(path, []byte(peopleYAML), 0o600))

	templates, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, templates, 2)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, sheetjson.FileNotFound)
}

func TestKeyFromHeader(t *testing.T) {
	tests := []struct {
		label string
		want  string
	}{
		{label: "Name", want: "name"},
		{label: "First Name", want: "first_name"},
		{label: " Age (years) ", want: "age_years"},
		{label: "E-Mail", want: "e_mail"},
		{label: "姓名", want: "姓名"},
		{label: "", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			assert.Equal(t, tt.want, KeyFromHeader(tt.label))
		})
	}
}

func TestScaffold(t *testing.T) {
	since := time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC)
	wb := sheetjson.NewWorkbook(sheetjson.NewMemSheet("People",
		[]any{"Name", "Age", nil, "Since", "name"},
		[]any{"Alice", 30.0, "x", since, "a"},
		[]any{"Bob", nil, nil, since},
	))

	defs, err := Scaffold(wb)
	require.NoError(t, err)
	require.Len(t, defs, 1)
	assert.Equal(t, "People", defs[0].Sheet)

	yes := true
	assert.Equal(t, []ColumnDef{
		{Header: "Name", Key: "name", Require: &yes},
		{Header: "Age", Key: "age", Type: sheetjson.TypeNumber},
		{Header: "Since", Key: "since", Type: sheetjson.TypeDate, Require: &yes},
		{Header: "name", Key: "name_2"},
	}, defs[0].Columns)

	_, err = Scaffold(wb, "Missing")
	require.ErrorIs(t, err, sheetjson.SheetNotFound)
}

func TestScaffold_FalsyValues(t *testing.T) {
	wb := sheetjson.NewWorkbook(sheetjson.NewMemSheet("Stock",
		[]any{"Item", "Count", "Active"},
		[]any{"Nail", 0.0, false},
		[]any{"Screw", 0.0, false},
	))

	defs, err := Scaffold(wb)
	require.NoError(t, err)
	require.Len(t, defs, 1)
	yes := true
	assert.Equal(t, []ColumnDef{
		{Header: "Item", Key: "item", Require: &yes},
		{Header: "Count", Key: "count", Type: sheetjson.TypeNumber},
		{Header: "Active", Key: "active", Type: sheetjson.TypeBoolean},
	}, defs[0].Columns)

	data, err := Marshal(defs)
	require.NoError(t, err)
	templates, err := Parse(data)
	require.NoError(t, err)
	results, err := sheetjson.Process(wb, templates...)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, []sheetjson.Record{
		{"item": "Nail", "count": 0.0, "active": false},
		{"item": "Screw", "count": 0.0, "active": false},
	}, results[0].Data)
}

func TestMarshal(t *testing.T) {
	defs, err := Scaffold(peopleWorkbook(), "People")
	require.NoError(t, err)

	data, err := Marshal(defs)
	require.NoError(t, err)
	assert.Contains(t, string(data), "sheet: People")
	assert.Contains(t, string(data), "type: Number")
	assert.NotContains(t, string(data), "format")

	templates, err := Parse(data)
	require.NoError(t, err)
	require.Len(t, templates, 1)
	assert.Equal(t, []string{"Name", "Age", "Note"}, templates[0].Header.Headers())

	results, err := sheetjson.Process(peopleWorkbook(), templates...)
	require.NoError(t, err)
	assert.Equal(t, sheetjson.Record{"name": "Alice", "age": 30.0, "note": "first"}, results[0].Data[0])
}
