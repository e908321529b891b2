package sheetjson

import (
	"errors"
	"net/netip"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestAssignValue(t *testing.T) {
	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name    string
		dst     reflect.Value
		src     reflect.Value
		wantErr bool
		wantDst any
	}{
		{
			name:    "int to int",
			dst:     assignableValue[int](),
			src:     reflect.ValueOf(int(1)),
			wantDst: int(1),
		},
		{
			name:    "string to string",
			dst:     assignableValue[string](),
			src:     reflect.ValueOf("S"),
			wantDst: "S",
		},
		{
			name:    "int to *int",
			dst:     assignableValue[*int](),
			src:     reflect.ValueOf(int(1)),
			wantDst: pointerTo(int(1)),
		},
		{
			name:    "*int to int",
			dst:     assignableValue[int](),
			src:     reflect.ValueOf(pointerTo(int(1))),
			wantDst: int(1),
		},
		{
			name:    "float64 to int",
			dst:     assignableValue[int](),
			src:     reflect.ValueOf(float64(30)),
			wantDst: int(30),
		},
		{
			name:    "float64 to uint8",
			dst:     assignableValue[uint8](),
			src:     reflect.ValueOf(float64(200)),
			wantDst: uint8(200),
		},
		{
			name:    "int to float64",
			dst:     assignableValue[float64](),
			src:     reflect.ValueOf(int(2)),
			wantDst: float64(2),
		},
		{
			name:    "unix ms to time.Time",
			dst:     assignableValue[time.Time](),
			src:     reflect.ValueOf(date.UnixMilli()),
			wantDst: time.UnixMilli(date.UnixMilli()),
		},
		{
			name:    "string to TextUnmarshaler",
			dst:     assignableValue[netip.Addr](),
			src:     reflect.ValueOf("127.0.0.1"),
			wantDst: netip.MustParseAddr("127.0.0.1"),
		},
		{
			name:    "string to int",
			dst:     assignableValue[int](),
			src:     reflect.ValueOf("42"),
			wantDst: int(42),
		},
		{
			name:    "string to bool",
			dst:     assignableValue[bool](),
			src:     reflect.ValueOf("true"),
			wantDst: true,
		},
		{
			name:    "int to string",
			dst:     assignableValue[string](),
			src:     reflect.ValueOf(int(65)),
			wantDst: "65",
		},
		{
			name:    "float64 to string",
			dst:     assignableValue[string](),
			src:     reflect.ValueOf(1.5),
			wantDst: "1.5",
		},
		{
			name:    "nil to *int",
			dst:     assignableValue[*int](),
			src:     reflect.ValueOf(nil),
			wantDst: (*int)(nil),
		},
		{
			name:    "Undefined to string",
			dst:     assignableValue[string](),
			src:     reflect.ValueOf(Undefined),
			wantDst: "",
		},

		// Error cases
		{
			name:    "fractional float64 to int",
			dst:     assignableValue[int](),
			src:     reflect.ValueOf(1.5),
			wantErr: true,
		},
		{
			name:    "negative float64 to uint",
			dst:     assignableValue[uint](),
			src:     reflect.ValueOf(float64(-1)),
			wantErr: true,
		},
		{
			name:    "overflowing float64 to int8",
			dst:     assignableValue[int8](),
			src:     reflect.ValueOf(float64(300)),
			wantErr: true,
		},
		{
			name:    "invalid string to int",
			dst:     assignableValue[int](),
			src:     reflect.ValueOf("thirty"),
			wantErr: true,
		},
		{
			name:    "invalid dst",
			dst:     reflect.Value{},
			src:     reflect.ValueOf(int(1)),
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Copy value in tt.dst to gotDst to be used by AssignValue
			// to not modify the original value in tt.dst
			var gotDst reflect.Value
			if tt.dst.IsValid() {
				gotDst = reflect.New(tt.dst.Type()).Elem()
				gotDst.Set(tt.dst)
			}
			err := AssignValue(gotDst, tt.src)
			require.Equalf(t, tt.wantErr, err != nil, "AssignValue(%s, %s) error = %#v, wantErr %t", tt.dst, tt.src, err, tt.wantErr)
			if err != nil {
				return
			}
			require.Equalf(t, tt.wantDst, gotDst.Interface(), "AssignValue(%s, %s) gotDst = %#v, wantDst %#v", tt.dst, tt.src, gotDst.Interface(), tt.wantDst)
		})
	}
}

func TestAssignValue_Unsupported(t *testing.T) {
	dst := assignableValue[[]string]()
	err := AssignValue(dst, reflect.ValueOf(1.0))
	require.ErrorIs(t, err, errors.ErrUnsupported)
}

func pointerTo[T any](v T) *T {
	return &v
}

func assignableValue[T any]() reflect.Value {
	ptr := new(T)
	return reflect.ValueOf(ptr).Elem()
}
