package templatefile

import (
	"bytes"
	"strconv"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"

	"github.com/domonda/go-sheetjson"
)

// Scaffold derives template declarations from the sheets
// of a workbook, or all sheets if no sheetNames are passed.
//
// Every non empty header label becomes a column with a key derived
// from the label and the type of the first non empty value
// of the column. Columns with a value in every data row
// are marked as required.
// Scaffolded declarations are meant as starting point
// for a template file written with Marshal.
func Scaffold(wb *sheetjson.Workbook, sheetNames ...string) ([]TemplateDef, error) {
	if len(sheetNames) == 0 {
		sheetNames = wb.SheetNames()
	}
	defs := make([]TemplateDef, 0, len(sheetNames))
	for _, name := range sheetNames {
		sheet, ok := wb.Sheet(name)
		if !ok {
			return nil, &sheetjson.Error{Kind: sheetjson.SheetNotFound, Sheet: name}
		}
		defs = append(defs, scaffoldSheet(sheet))
	}
	return defs, nil
}

func scaffoldSheet(sheet sheetjson.RawSheet) TemplateDef {
	var (
		labels = sheetjson.SheetLabels(sheet)
		rows   = sheetjson.SheetRows(sheet)
		def    = TemplateDef{Sheet: sheet.Name(), Columns: []ColumnDef{}}
		keys   = make(map[string]int)
	)
	for _, label := range labels {
		if strings.HasPrefix(label, "__EMPTY") {
			continue
		}
		col := ColumnDef{Header: label, Key: KeyFromHeader(label)}
		if n := keys[col.Key]; n > 0 {
			keys[col.Key]++
			col.Key += "_" + strconv.Itoa(n+1)
		} else {
			keys[col.Key] = 1
		}

		present := 0
		for _, row := range rows {
			value, ok := row.Get(label)
			if !ok {
				continue
			}
			if typ := sheetjson.Classify(value); col.Type == "" && typ != sheetjson.TypeNull && typ != sheetjson.TypeUndefined {
				col.Type = typ
			}
			if sheetjson.Truthy(value) {
				present++
			}
		}
		if col.Type == sheetjson.TypeString {
			col.Type = ""
		}
		if len(rows) > 0 && present == len(rows) {
			required := true
			col.Require = &required
		}
		def.Columns = append(def.Columns, col)
	}
	return def
}

// KeyFromHeader derives a record key from a header label
// by lower casing it and replacing every run of
// characters that are neither letters nor digits with an underscore.
func KeyFromHeader(label string) string {
	var b strings.Builder
	sep := false
	for _, r := range label {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			sep = b.Len() > 0
			continue
		}
		if sep {
			b.WriteByte('_')
			sep = false
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// Marshal encodes template declarations as YAML template file.
func Marshal(defs []TemplateDef) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	err := enc.Encode(File{Templates: defs})
	if err != nil {
		return nil, err
	}
	if err = enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
