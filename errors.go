package sheetjson

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// ErrorKind classifies an *Error.
//
// ErrorKind implements the error interface
// so it can be used as target for errors.Is:
//
//	if errors.Is(err, sheetjson.TypeMismatch) {
//	    ...
//	}
type ErrorKind int

const (
	// FileNotFound is returned when a file path does not resolve to an existing file.
	FileNotFound ErrorKind = iota + 1
	// SheetNotFound is returned when a template names a sheet
	// that does not exist in the workbook.
	SheetNotFound
	// HeaderMismatch is returned when required header labels are missing.
	HeaderMismatch
	// TypeMismatch is returned when the TypeTag of a cell
	// differs from the declared column type.
	TypeMismatch
	// MissingValue is returned when a required column has an empty value.
	MissingValue
	// CheckFailed is returned when a column check returned a non-boolean value.
	CheckFailed
	// InvalidSchema is returned for schemas that can't be applied,
	// for example because of an unknown type name.
	InvalidSchema
)

func (k ErrorKind) String() string {
	switch k {
	case FileNotFound:
		return "FileNotFound"
	case SheetNotFound:
		return "SheetNotFound"
	case HeaderMismatch:
		return "HeaderMismatch"
	case TypeMismatch:
		return "TypeMismatch"
	case MissingValue:
		return "MissingValue"
	case CheckFailed:
		return "CheckFailed"
	case InvalidSchema:
		return "InvalidSchema"
	}
	return "ErrorKind(" + strconv.Itoa(int(k)) + ")"
}

func (k ErrorKind) Error() string { return k.String() }

// Error is a validation error with structured fields
// describing where and why processing failed.
// Which fields are set depends on the Kind.
//
// Error() renders the message in English,
// use Localize to render it for another language.
type Error struct {
	Kind ErrorKind

	File   string
	Sheet  string
	Column string
	// Row is the 1-based row number as displayed by spreadsheet
	// applications, counting the header row.
	Row   int
	Value any

	Expected TypeTag
	Actual   TypeTag

	RequiredHeaders []string
	ActualHeaders   []string
	MissingHeaders  []string

	// Detail is set for InvalidSchema errors
	Detail string
}

func (e *Error) Error() string { return e.Localize(language.English) }

// Unwrap returns the Kind of the error.
func (e *Error) Unwrap() error { return e.Kind }

// Localize renders the error message for the language tag.
// English is used for languages without a catalog.
func (e *Error) Localize(tag language.Tag) string {
	p := message.NewPrinter(tag)
	switch e.Kind {
	case FileNotFound:
		return p.Sprintf(msgFileNotFound, e.File)
	case SheetNotFound:
		return p.Sprintf(msgSheetNotFound, e.Sheet)
	case HeaderMismatch:
		return p.Sprintf(msgHeaderMismatch, e.Sheet, jsonStrings(e.RequiredHeaders), jsonStrings(e.ActualHeaders))
	case TypeMismatch:
		return p.Sprintf(msgTypeMismatch, e.Sheet, e.Column, strconv.Itoa(e.Row), valueString(e.Value), string(e.Expected), string(e.Actual))
	case MissingValue:
		return p.Sprintf(msgMissingValue, e.Sheet, e.Column, strconv.Itoa(e.Row))
	case CheckFailed:
		return p.Sprintf(msgCheckFailed, e.Sheet, e.Column, strconv.Itoa(e.Row), valueString(e.Value))
	case InvalidSchema:
		return p.Sprintf(msgInvalidSchema, e.Sheet, e.Column, e.Detail)
	}
	return e.Kind.String()
}

// AggregateError holds one error per failed template in template order.
type AggregateError struct {
	Errs []error
}

// Error joins the messages of all errors with a comma.
func (a *AggregateError) Error() string {
	return strings.Join(a.Messages(), ",")
}

func (a *AggregateError) Unwrap() []error { return a.Errs }

// Messages returns the English message of every error.
func (a *AggregateError) Messages() []string {
	return a.LocalizedMessages(language.English)
}

// LocalizedMessages returns the message of every error
// rendered for the language tag.
// Errors that are not of type *Error use their Error() string.
func (a *AggregateError) LocalizedMessages(tag language.Tag) []string {
	msgs := make([]string, len(a.Errs))
	for i, err := range a.Errs {
		var e *Error
		if errors.As(err, &e) {
			msgs[i] = e.Localize(tag)
		} else {
			msgs[i] = err.Error()
		}
	}
	return msgs
}

// LocalizeError renders err for the language tag,
// unpacking an *AggregateError into its messages.
func LocalizeError(err error, tag language.Tag) []string {
	var agg *AggregateError
	if errors.As(err, &agg) {
		return agg.LocalizedMessages(tag)
	}
	var e *Error
	if errors.As(err, &e) {
		return []string{e.Localize(tag)}
	}
	return []string{err.Error()}
}

// Catalog keys double as English format strings.
const (
	msgFileNotFound   = "file [%s] not found!"
	msgSheetNotFound  = "sheet [%s] not found"
	msgHeaderMismatch = "sheet [%s] has an invalid header, it must contain the columns %s, actual columns are %s, watch out for stray whitespace!"
	msgTypeMismatch   = "sheet [%s] type validation failed, [column: %s, row: %s, value: %s], type mismatch, expected a value of type [%s], got type [%s]"
	msgMissingValue   = "sheet [%s] validation failed, [column: %s, row: %s] is missing a value, the column is required"
	msgCheckFailed    = "sheet [%s] validation failed, [column: %s, row: %s] has an invalid value, %s"
	msgInvalidSchema  = "sheet [%s] has an invalid schema for column [%s]: %s"
)

func init() {
	zh := map[string]string{
		msgFileNotFound:   "找不到文件[%s]!",
		msgSheetNotFound:  "找不到工作表[%s]",
		msgHeaderMismatch: "表[%s]表头错误，标题中必须包含列名%s,实际列名%s，注意去除空格!",
		msgTypeMismatch:   "表[%s]数据类型验证失败,[列:%s, 行:%s,值:%s],数据类型不匹配，必须是[%s]类型的数据，实际是[%s]类型",
		msgMissingValue:   "表[%s]数据有效性验证失败,[列:%s, 行:%s]缺少值，该单元所在列为必填列",
		msgCheckFailed:    "表[%s]数据有效性验证失败,[列:%s, 行:%s]值错误，%s",
		msgInvalidSchema:  "表[%s]模板定义错误,[列:%s]%s",
	}
	for key, msg := range zh {
		if err := message.SetString(language.Chinese, key, msg); err != nil {
			panic(err)
		}
	}
}

// jsonStrings renders strs as JSON array
// without escaping HTML characters.
func jsonStrings(strs []string) string {
	if strs == nil {
		strs = []string{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(strs); err != nil {
		return fmt.Sprint(strs)
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

func valueString(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	}
	return fmt.Sprint(v)
}
