package sheetjson

import (
	"fmt"
	"reflect"
	"strings"
)

// DefaultStructFieldNaming maps record keys to struct fields
// using the "json" tag, ignores "-" tagged fields
// and uses the field name for untagged fields.
var DefaultStructFieldNaming = StructFieldNaming{
	Tag:    "json",
	Ignore: "-",
}

// LabelStructFieldNaming maps records keyed by sheet header labels
// to struct fields using the "sheet" tag, ignores "-" tagged fields
// and derives the label of untagged fields with SpacePascalCase,
// so the field FirstName is mapped to the label "First Name".
var LabelStructFieldNaming = StructFieldNaming{
	Tag:      "sheet",
	Ignore:   "-",
	Untagged: SpacePascalCase,
}

// StructFieldNaming defines how struct fields
// are mapped to record keys.
//
// nil is a valid value for *StructFieldNaming
// and is equal to the zero value
// which will use all exported struct fields
// with their field name as record key.
type StructFieldNaming struct {
	// Tag is the struct field tag to be used as record key.
	// If Tag is empty, then every struct field will be treated as untagged.
	Tag string
	// Ignore is the key that marks a field as not mapped.
	Ignore string
	// Untagged will be called with the struct field name to
	// return a key in case the struct field has no tag named Tag.
	// If Untagged is nil, then the struct field name will be used.
	Untagged func(fieldName string) (key string)
}

// String implements the fmt.Stringer interface for StructFieldNaming.
func (n *StructFieldNaming) String() string {
	if n == nil {
		return `StructFieldNaming{Tag: "", Ignore: ""}`
	}
	return fmt.Sprintf("StructFieldNaming{Tag: %#v, Ignore: %#v}", n.Tag, n.Ignore)
}

// StructFieldKey returns the record key for a struct field.
func (n *StructFieldNaming) StructFieldKey(structField reflect.StructField) string {
	if n == nil {
		return structField.Name
	}
	if n.Tag != "" {
		if tag, ok := structField.Tag.Lookup(n.Tag); ok {
			if i := strings.IndexByte(tag, ','); i != -1 {
				tag = tag[:i]
			}
			if tag != "" {
				return tag
			}
		}
	}
	if n.Untagged == nil {
		return structField.Name
	}
	return n.Untagged(structField.Name)
}

// IsIgnored reports if key marks a field as not mapped.
func (n *StructFieldNaming) IsIgnored(key string) bool {
	return key == "" || n != nil && n.Ignore != "" && key == n.Ignore
}

// KeyStructFieldValue returns the exported field of strct
// mapped to key, including fields of embedded structs,
// or an invalid reflect.Value if there is none.
func (n *StructFieldNaming) KeyStructFieldValue(strct reflect.Value, key string) reflect.Value {
	if n.IsIgnored(key) {
		return reflect.Value{}
	}
	fields := StructFieldTypes(strct.Type())
	for i, value := range StructFieldValues(strct) {
		if n.StructFieldKey(fields[i]) == key {
			return value
		}
	}
	return reflect.Value{}
}
