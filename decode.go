package sheetjson

import (
	"fmt"
	"reflect"
)

// DecodeRecords converts records to a slice of structs
// mapping the record keys to the struct fields using
// the passed StructFieldNaming.
// If naming is nil, DefaultStructFieldNaming is used.
//
// AssignValue is used to assign the record values to the struct fields.
// Record keys without a matching struct field are ignored.
//
// T must be a struct or a pointer to a struct.
func DecodeRecords[T any](records []Record, naming *StructFieldNaming) ([]T, error) {
	rowType := reflect.TypeFor[T]()
	if rowType.Kind() != reflect.Struct && (rowType.Kind() != reflect.Pointer || rowType.Elem().Kind() != reflect.Struct) {
		return nil, fmt.Errorf("slice element type %s is not a struct or pointer to struct", rowType)
	}
	if naming == nil {
		naming = &DefaultStructFieldNaming
	}

	rows := make([]T, len(records))
	for rowIndex, record := range records {
		rowStruct := reflect.ValueOf(&rows[rowIndex]).Elem()
		if rowType.Kind() == reflect.Pointer {
			rowStruct.Set(reflect.New(rowType.Elem())) // Set allocated struct pointer for row
			rowStruct = rowStruct.Elem()               // Continue with struct value instead of pointer
		}
		for _, key := range record.Keys() {
			dst := naming.KeyStructFieldValue(rowStruct, key)
			if !dst.IsValid() {
				continue
			}
			err := AssignValue(dst, reflect.ValueOf(record[key]))
			if err != nil {
				return nil, fmt.Errorf("record %d key %q: %w", rowIndex, key, err)
			}
		}
	}
	return rows, nil
}
