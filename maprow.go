package sheetjson

import (
	"reflect"
	"strings"
	"time"
)

type deferredCheck struct {
	check  CheckFunc
	header string
}

// MapRow validates a row against a schema
// and maps its labeled values to a new Record.
//
// See Processor.MapRow
func MapRow(sheetName string, row Row, schema Schema, rowIndex int) (Record, error) {
	return defaultProcessor.MapRow(sheetName, row, schema, rowIndex)
}

// MapRow validates a row against a schema
// and maps its labeled values to a new Record.
// rowIndex is the 0-based index of the data row
// below the header row.
//
// The fields of the row are processed in row order:
//  1. Fields without schema column or column Key are dropped.
//  2. The TypeTag of the value must equal the column Type,
//     else a TypeMismatch *Error is returned.
//  3. String values are trimmed.
//  4. Columns with RequireYes must have a truthy value,
//     else a MissingValue *Error is returned.
//  5. The column Check is deferred if the value is truthy.
//  6. The value is assigned to the column Key,
//     Date values as Unix milliseconds.
//
// After all fields are mapped, the deferred checks are called
// with the mapped record. A check returning a non bool value
// results in a CheckFailed *Error.
// If the Processor was created WithStrictChecks,
// a check returning false also fails.
//
// The passed row is never modified.
func (p *Processor) MapRow(sheetName string, row Row, schema Schema, rowIndex int) (Record, error) {
	var (
		record = make(Record, len(row))
		checks []deferredCheck
		rowNum = rowIndex + 2 // 1-based counting the header row
	)
	for _, field := range row {
		col, ok := schema.Column(field.Label)
		if !ok || col.Key == "" {
			continue
		}
		expected := col.Type.OrDefault()
		actual := Classify(field.Value)
		if actual != expected {
			return nil, &Error{
				Kind:     TypeMismatch,
				Sheet:    sheetName,
				Column:   field.Label,
				Row:      rowNum,
				Value:    field.Value,
				Expected: expected,
				Actual:   actual,
			}
		}
		value := field.Value
		if actual == TypeString {
			value = strings.TrimSpace(stringValue(value))
		}
		if col.Require.ValueRequired() && !Truthy(value) {
			return nil, &Error{
				Kind:   MissingValue,
				Sheet:  sheetName,
				Column: field.Label,
				Row:    rowNum,
			}
		}
		if col.Check != nil && Truthy(value) {
			checks = append(checks, deferredCheck{check: col.Check, header: field.Label})
		}
		if expected == TypeDate {
			value = dateValue(value)
		}
		record[col.Key] = value
	}
	for _, c := range checks {
		result := c.check(record)
		passed, isBool := result.(bool)
		if !isBool || p.strictChecks && !passed {
			return nil, &Error{
				Kind:   CheckFailed,
				Sheet:  sheetName,
				Column: c.header,
				Row:    rowNum,
				Value:  result,
			}
		}
	}
	return record, nil
}

// stringValue returns the string of v,
// dereferencing pointers and converting named string types.
func stringValue(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	val := reflect.ValueOf(v)
	for val.Kind() == reflect.Pointer && !val.IsNil() {
		val = val.Elem()
	}
	if val.Kind() == reflect.String {
		return val.String()
	}
	return CellText(v)
}

// dateValue returns the Unix milliseconds of a time.Time
// or a pointer to one.
func dateValue(v any) any {
	switch t := v.(type) {
	case time.Time:
		return t.UnixMilli()
	case *time.Time:
		return t.UnixMilli()
	}
	return v
}
