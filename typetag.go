package sheetjson

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"time"
)

// TypeTag is the semantic type of a cell or record value.
//
// Column declarations name the TypeTag a cell must have
// and Classify returns the TypeTag of any runtime value.
// Two values satisfy the same declaration only if their
// tags are equal, there is no implicit coercion:
// the string "42" is a String, not a Number.
type TypeTag string

const (
	TypeString    TypeTag = "String"
	TypeNumber    TypeTag = "Number"
	TypeDate      TypeTag = "Date"
	TypeArray     TypeTag = "Array"
	TypeBoolean   TypeTag = "Boolean"
	TypeFunction  TypeTag = "Function"
	TypeNull      TypeTag = "Null"
	TypeUndefined TypeTag = "Undefined"
	TypeSymbol    TypeTag = "Symbol"
	TypeObject    TypeTag = "Object"
)

// TypeTags lists all valid TypeTag values.
var TypeTags = []TypeTag{
	TypeString,
	TypeNumber,
	TypeDate,
	TypeArray,
	TypeBoolean,
	TypeFunction,
	TypeNull,
	TypeUndefined,
	TypeSymbol,
	TypeObject,
}

// ParseTypeTag returns the TypeTag named by str
// or an error wrapping InvalidSchema for unknown names.
func ParseTypeTag(str string) (TypeTag, error) {
	t := TypeTag(str)
	if !t.Valid() {
		return "", fmt.Errorf("%w: unknown type %q", InvalidSchema, str)
	}
	return t, nil
}

// Valid reports whether t is one of TypeTags.
func (t TypeTag) Valid() bool {
	switch t {
	case TypeString, TypeNumber, TypeDate, TypeArray, TypeBoolean,
		TypeFunction, TypeNull, TypeUndefined, TypeSymbol, TypeObject:
		return true
	}
	return false
}

// OrDefault returns t or TypeString if t is empty.
func (t TypeTag) OrDefault() TypeTag {
	if t == "" {
		return TypeString
	}
	return t
}

func (t TypeTag) String() string { return string(t) }

// UnmarshalText implements encoding.TextUnmarshaler
// and rejects unknown type names.
func (t *TypeTag) UnmarshalText(text []byte) error {
	parsed, err := ParseTypeTag(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Symbol is a value classified as TypeSymbol.
type Symbol string

type undefinedValue struct{}

func (undefinedValue) String() string { return "undefined" }

// Undefined is the value of a cell that does not exist.
// It is classified as TypeUndefined, while nil is TypeNull.
var Undefined any = undefinedValue{}

var (
	typeOfTime       = reflect.TypeOf(time.Time{})
	typeOfJSONNumber = reflect.TypeOf(json.Number(""))
	typeOfSymbol     = reflect.TypeOf(Symbol(""))
)

// Classify returns the TypeTag of v.
//
// Non-nil pointers are classified by the value they point to,
// nil pointers, maps, slices, functions and channels are TypeNull.
// NaN is a TypeNumber.
func Classify(v any) TypeTag {
	switch v.(type) {
	case nil:
		return TypeNull
	case undefinedValue:
		return TypeUndefined
	case string:
		return TypeString
	case bool:
		return TypeBoolean
	case float64, float32, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64, json.Number:
		return TypeNumber
	case time.Time:
		return TypeDate
	case Symbol:
		return TypeSymbol
	}
	return classifyValue(reflect.ValueOf(v))
}

func classifyValue(val reflect.Value) TypeTag {
	if ValueIsNil(val) {
		return TypeNull
	}
	switch val.Type() {
	case typeOfTime:
		return TypeDate
	case typeOfJSONNumber:
		return TypeNumber
	case typeOfSymbol:
		return TypeSymbol
	}
	switch val.Kind() {
	case reflect.Pointer, reflect.Interface:
		return classifyValue(val.Elem())
	case reflect.String:
		return TypeString
	case reflect.Bool:
		return TypeBoolean
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return TypeNumber
	case reflect.Slice, reflect.Array:
		return TypeArray
	case reflect.Func:
		return TypeFunction
	}
	return TypeObject
}

// Truthy reports whether v counts as a present value.
//
// nil, Undefined, the empty string, false, zero and NaN are falsy,
// a Symbol is always truthy,
// every other value is truthy.
func Truthy(v any) bool {
	switch x := v.(type) {
	case nil, undefinedValue:
		return false
	case Symbol:
		return true
	case string:
		return x != ""
	case bool:
		return x
	case float64:
		return x != 0 && !math.IsNaN(x)
	case float32:
		return x != 0 && !math.IsNaN(float64(x))
	case json.Number:
		f, err := x.Float64()
		return err != nil || f != 0 && !math.IsNaN(f)
	}
	val := reflect.ValueOf(v)
	if ValueIsNil(val) {
		return false
	}
	for val.Kind() == reflect.Pointer || val.Kind() == reflect.Interface {
		val = val.Elem()
		if ValueIsNil(val) {
			return false
		}
	}
	switch val.Kind() {
	case reflect.String:
		return val.Len() > 0
	case reflect.Bool:
		return val.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return val.Int() != 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return val.Uint() != 0
	case reflect.Float32, reflect.Float64:
		f := val.Float()
		return f != 0 && !math.IsNaN(f)
	}
	return true
}
