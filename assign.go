package codable

import (
	"math"
	"reflect"
)

var anyType = reflect.TypeFor[any]()

// anyValue wraps value for storage in a map[string]any, keeping nil as a
// present entry.
func anyValue(value any) reflect.Value {
	if value == nil {
		return reflect.Zero(anyType)
	}
	return reflect.ValueOf(value)
}

// setValue assigns value to dst, converting where no information is lost.
// It reports false, leaving dst untouched, when value does not fit.
func setValue(dst reflect.Value, value any) bool {
	if value == nil {
		dst.Set(reflect.Zero(dst.Type()))
		return true
	}

	tmp := reflect.New(dst.Type()).Elem()
	if !convertInto(tmp, reflect.ValueOf(value)) {
		return false
	}
	dst.Set(tmp)
	return true
}

// convertInto writes src into dst. dst is always settable.
func convertInto(dst, src reflect.Value) bool {
	for src.Kind() == reflect.Interface {
		if src.IsNil() {
			dst.Set(reflect.Zero(dst.Type()))
			return true
		}
		src = src.Elem()
	}

	dt := dst.Type()
	if src.Type().AssignableTo(dt) {
		dst.Set(src)
		return true
	}

	switch {
	case dt.Kind() == reflect.Pointer:
		if src.Kind() == reflect.Pointer && src.IsNil() {
			dst.Set(reflect.Zero(dt))
			return true
		}
		elem := reflect.New(dt.Elem())
		if !convertInto(elem.Elem(), src) {
			return false
		}
		dst.Set(elem)
		return true

	case src.Kind() == reflect.Pointer:
		if src.IsNil() {
			dst.Set(reflect.Zero(dt))
			return true
		}
		return convertInto(dst, src.Elem())

	case isNumber(src.Kind()) && isNumber(dt.Kind()):
		return convertNumber(dst, src)

	case src.Kind() == reflect.String && dt.Kind() == reflect.String:
		dst.SetString(src.String())
		return true

	case src.Kind() == reflect.Bool && dt.Kind() == reflect.Bool:
		dst.SetBool(src.Bool())
		return true

	case dt.Kind() == reflect.Slice && (src.Kind() == reflect.Slice || src.Kind() == reflect.Array):
		if src.Kind() == reflect.Slice && src.IsNil() {
			dst.Set(reflect.Zero(dt))
			return true
		}
		out := reflect.MakeSlice(dt, src.Len(), src.Len())
		for i := 0; i < src.Len(); i++ {
			if !convertInto(out.Index(i), src.Index(i)) {
				return false
			}
		}
		dst.Set(out)
		return true

	case dt.Kind() == reflect.Array && (src.Kind() == reflect.Slice || src.Kind() == reflect.Array):
		if src.Len() > dt.Len() {
			return false
		}
		for i := 0; i < src.Len(); i++ {
			if !convertInto(dst.Index(i), src.Index(i)) {
				return false
			}
		}
		return true

	case dt.Kind() == reflect.Map && src.Kind() == reflect.Map:
		if src.IsNil() {
			dst.Set(reflect.Zero(dt))
			return true
		}
		out := reflect.MakeMapWithSize(dt, src.Len())
		iter := src.MapRange()
		for iter.Next() {
			k := reflect.New(dt.Key()).Elem()
			if !convertInto(k, iter.Key()) {
				return false
			}
			v := reflect.New(dt.Elem()).Elem()
			if !convertInto(v, iter.Value()) {
				return false
			}
			out.SetMapIndex(k, v)
		}
		dst.Set(out)
		return true
	}

	return false
}

func isNumber(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// convertNumber converts between numeric kinds, refusing overflow,
// negative-to-unsigned and fractional-to-integer conversions.
func convertNumber(dst, src reflect.Value) bool {
	switch dst.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		var i int64
		switch {
		case src.CanInt():
			i = src.Int()
		case src.CanUint():
			u := src.Uint()
			if u > math.MaxInt64 {
				return false
			}
			i = int64(u)
		default:
			f := src.Float()
			if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
				return false
			}
			i = int64(f)
		}
		if dst.OverflowInt(i) {
			return false
		}
		dst.SetInt(i)
		return true

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		var u uint64
		switch {
		case src.CanUint():
			u = src.Uint()
		case src.CanInt():
			i := src.Int()
			if i < 0 {
				return false
			}
			u = uint64(i)
		default:
			f := src.Float()
			if f != math.Trunc(f) || f < 0 || f >= math.MaxUint64 {
				return false
			}
			u = uint64(f)
		}
		if dst.OverflowUint(u) {
			return false
		}
		dst.SetUint(u)
		return true

	default:
		var f float64
		switch {
		case src.CanInt():
			f = float64(src.Int())
		case src.CanUint():
			f = float64(src.Uint())
		default:
			f = src.Float()
		}
		if dst.OverflowFloat(f) {
			return false
		}
		dst.SetFloat(f)
		return true
	}
}
