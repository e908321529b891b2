package sheetjson

import (
	"encoding"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"time"
)

// AssignValue assigns a record value to dst
// converting between the value types produced by MapRow
// and the Go type of dst.
//
// Conversion strategies in order:
//
//  1. Nil source values and Undefined assign the zero value.
//  2. Convertible types are converted with reflect.Value.Convert,
//     except between numbers and strings.
//  3. Non nil pointers are dereferenced, pointer destinations allocated.
//  4. Unix milliseconds, as stored for Date columns,
//     are assigned to time.Time destinations.
//  5. Strings are assigned to encoding.TextUnmarshaler destinations.
//  6. Float numbers are assigned to integer destinations
//     if they have no fractional part.
//  7. Strings are parsed for bool and number destinations.
//  8. Numbers and bools are formatted for string destinations.
//
// An error wrapping errors.ErrUnsupported is returned
// if no strategy could assign the value.
func AssignValue(dst, src reflect.Value) error {
	if !dst.IsValid() {
		return errors.New("dst value is invalid")
	}
	if !dst.CanSet() {
		return errors.New("cannot set dst value")
	}
	if ValueIsNil(src) || src.Type() == reflect.TypeOf(Undefined) {
		dst.Set(reflect.Zero(dst.Type()))
		return nil
	}
	if src.Kind() == reflect.Interface {
		return AssignValue(dst, src.Elem())
	}
	var (
		srcType = src.Type()
		srcKind = srcType.Kind()
		dstType = dst.Type()
		dstKind = dstType.Kind()
	)

	if srcType.ConvertibleTo(dstType) && !isLossyConversion(srcKind, dstKind) {
		dst.Set(src.Convert(dstType))
		return nil
	}

	if srcKind == reflect.Pointer {
		return AssignValue(dst, src.Elem())
	}
	if dstKind == reflect.Pointer {
		ptr := reflect.New(dstType.Elem())
		if err := AssignValue(ptr.Elem(), src); err != nil {
			return err
		}
		dst.Set(ptr)
		return nil
	}

	if dstType == typeOfTime && isIntKind(srcKind) {
		dst.Set(reflect.ValueOf(time.UnixMilli(src.Int())))
		return nil
	}
	if dstType == typeOfTime && isFloatKind(srcKind) {
		dst.Set(reflect.ValueOf(time.UnixMilli(int64(src.Float()))))
		return nil
	}

	if srcKind == reflect.String && dst.CanAddr() {
		if u, ok := dst.Addr().Interface().(encoding.TextUnmarshaler); ok {
			return u.UnmarshalText([]byte(src.String()))
		}
	}

	switch dstKind {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		switch {
		case isFloatKind(srcKind):
			f := src.Float()
			if f != math.Trunc(f) || dst.OverflowInt(int64(f)) {
				return fmt.Errorf("can't assign %v to %s without loss", f, dstType)
			}
			dst.SetInt(int64(f))
			return nil
		case srcKind == reflect.String:
			i, err := strconv.ParseInt(src.String(), 10, 64)
			if err != nil {
				return err
			}
			dst.SetInt(i)
			return nil
		}

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		switch {
		case isFloatKind(srcKind):
			f := src.Float()
			if f < 0 || f != math.Trunc(f) || dst.OverflowUint(uint64(f)) {
				return fmt.Errorf("can't assign %v to %s without loss", f, dstType)
			}
			dst.SetUint(uint64(f))
			return nil
		case srcKind == reflect.String:
			u, err := strconv.ParseUint(src.String(), 10, 64)
			if err != nil {
				return err
			}
			dst.SetUint(u)
			return nil
		}

	case reflect.Float32, reflect.Float64:
		if srcKind == reflect.String {
			f, err := strconv.ParseFloat(src.String(), 64)
			if err != nil {
				return err
			}
			dst.SetFloat(f)
			return nil
		}

	case reflect.Bool:
		if srcKind == reflect.String {
			b, err := strconv.ParseBool(src.String())
			if err != nil {
				return err
			}
			dst.SetBool(b)
			return nil
		}

	case reflect.String:
		switch {
		case isIntKind(srcKind):
			dst.SetString(strconv.FormatInt(src.Int(), 10))
			return nil
		case srcKind >= reflect.Uint && srcKind <= reflect.Uintptr:
			dst.SetString(strconv.FormatUint(src.Uint(), 10))
			return nil
		case isFloatKind(srcKind):
			dst.SetString(strconv.FormatFloat(src.Float(), 'f', -1, 64))
			return nil
		case srcKind == reflect.Bool:
			dst.SetString(strconv.FormatBool(src.Bool()))
			return nil
		}
	}

	return fmt.Errorf("assigning %s to %s: %w", srcType, dstType, errors.ErrUnsupported)
}

func isIntKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	}
	return false
}

func isFloatKind(k reflect.Kind) bool {
	return k == reflect.Float32 || k == reflect.Float64
}

// isLossyConversion reports if reflect would convert
// a float to an integer by truncating it, or
// an integer to a string containing the rune of that code point.
func isLossyConversion(src, dst reflect.Kind) bool {
	switch dst {
	case reflect.String:
		return isIntKind(src) || isFloatKind(src) || src >= reflect.Uint && src <= reflect.Uintptr
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return isFloatKind(src)
	}
	return false
}
