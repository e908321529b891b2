package sheetjson

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStructFieldNaming_StructFieldKey(t *testing.T) {
	type Person struct {
		Name       string `json:"name,omitempty"`
		Age        int    `json:"age"`
		Hidden     bool   `json:"-"`
		HelloWorld string
		Empty      string `json:""`
	}
	fields := StructFieldTypes(reflect.TypeOf(Person{}))
	require.Len(t, fields, 5)

	tests := []struct {
		name   string
		naming *StructFieldNaming
		want   []string
	}{
		{
			name:   "nil naming",
			naming: nil,
			want:   []string{"Name", "Age", "Hidden", "HelloWorld", "Empty"},
		},
		{
			name:   "DefaultStructFieldNaming",
			naming: &DefaultStructFieldNaming,
			want:   []string{"name", "age", "-", "HelloWorld", "Empty"},
		},
		{
			name:   "Untagged SpacePascalCase",
			naming: &StructFieldNaming{Tag: "json", Ignore: "-", Untagged: SpacePascalCase},
			want:   []string{"name", "age", "-", "Hello World", "Empty"},
		},
		{
			name:   "no tag",
			naming: &StructFieldNaming{},
			want:   []string{"Name", "Age", "Hidden", "HelloWorld", "Empty"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := make([]string, len(fields))
			for i, field := range fields {
				got[i] = tt.naming.StructFieldKey(field)
			}
			require.Equal(t, tt.want, got)
		})
	}
}

func TestStructFieldNaming_KeyStructFieldValue(t *testing.T) {
	type Embedded struct {
		Float float64 `json:"float"`
	}
	type Row struct {
		Int int `json:"int"`
		Embedded
		Skip   string `json:"-"`
		hidden string
	}
	var row Row
	strct := reflect.ValueOf(&row).Elem()
	naming := &DefaultStructFieldNaming

	v := naming.KeyStructFieldValue(strct, "int")
	require.True(t, v.IsValid())
	v.SetInt(7)
	require.Equal(t, 7, row.Int)

	v = naming.KeyStructFieldValue(strct, "float")
	require.True(t, v.IsValid())
	v.SetFloat(1.5)
	require.Equal(t, 1.5, row.Float)

	require.False(t, naming.KeyStructFieldValue(strct, "-").IsValid())
	require.False(t, naming.KeyStructFieldValue(strct, "").IsValid())
	require.False(t, naming.KeyStructFieldValue(strct, "hidden").IsValid())
	require.False(t, naming.KeyStructFieldValue(strct, "unknown").IsValid())
}

func TestStructFieldNaming_String(t *testing.T) {
	var naming *StructFieldNaming
	require.Equal(t, `StructFieldNaming{Tag: "", Ignore: ""}`, naming.String())
	require.Equal(t, `StructFieldNaming{Tag: "json", Ignore: "-"}`, DefaultStructFieldNaming.String())
}
