package sheetjson

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSpacePascalCase(t *testing.T) {
	tests := []struct {
		testName string
		name     string
		want     string
	}{
		{testName: "", name: "", want: ""},
		{testName: "HelloWorld", name: "HelloWorld", want: "Hello World"},
		{testName: "_Hello_World", name: "_Hello_World", want: "Hello World"},
		{testName: "helloWorld", name: "helloWorld", want: "hello World"},
		{testName: "helloWorld_", name: "helloWorld_", want: "hello World"},
		{testName: "ThisHasMoreSpacesForSure", name: "ThisHasMoreSpacesForSure", want: "This Has More Spaces For Sure"},
		{testName: "ThisHasMore_Spaces__ForSure", name: "ThisHasMore_Spaces__ForSure", want: "This Has More Spaces For Sure"},
	}
	for _, tt := range tests {
		t.Run(tt.testName, func(t *testing.T) {
			if got := SpacePascalCase(tt.name); got != tt.want {
				t.Errorf("SpacePascalCase() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValueIsNil(t *testing.T) {
	var nilPtr *int
	require.True(t, ValueIsNil(reflect.Value{}))
	require.True(t, ValueIsNil(reflect.ValueOf(nilPtr)))
	require.True(t, ValueIsNil(reflect.ValueOf(struct{}{})))
	require.True(t, ValueIsNil(reflect.ValueOf([]int(nil))))
	require.False(t, ValueIsNil(reflect.ValueOf(0)))
	require.False(t, ValueIsNil(reflect.ValueOf("")))
	require.False(t, ValueIsNil(reflect.ValueOf(Undefined)))
}
