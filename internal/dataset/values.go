package dataset

import (
	"fmt"
	"reflect"

	"github.com/batchatco/go-native-netcdf/netcdf/api"
)

// flatten converts the nested slices returned by the NetCDF reader into a
// row-major float64 slice and its shape. Ragged input is rejected.
func flatten(values interface{}) ([]float64, []int, error) {
	rv := reflect.ValueOf(values)
	if !rv.IsValid() {
		return nil, nil, fmt.Errorf("variable has no values")
	}

	var shape []int
	for v := rv; v.Kind() == reflect.Slice || v.Kind() == reflect.Array; {
		shape = append(shape, v.Len())
		if v.Len() == 0 {
			break
		}
		v = v.Index(0)
	}

	size := 1
	for _, n := range shape {
		size *= n
	}
	out := make([]float64, 0, size)

	var walk func(v reflect.Value, depth int) error
	walk = func(v reflect.Value, depth int) error {
		if depth == len(shape) {
			f, ok := toFloat(v)
			if !ok {
				return fmt.Errorf("unsupported element type %s", v.Type())
			}
			out = append(out, f)
			return nil
		}
		if (v.Kind() != reflect.Slice && v.Kind() != reflect.Array) || v.Len() != shape[depth] {
			return fmt.Errorf("ragged values at depth %d", depth)
		}
		for i := 0; i < v.Len(); i++ {
			if err := walk(v.Index(i), depth+1); err != nil {
				return err
			}
		}
		return nil
	}

	if err := walk(rv, 0); err != nil {
		return nil, nil, err
	}
	return out, shape, nil
}

func toFloat(v reflect.Value) (float64, bool) {
	switch v.Kind() {
	case reflect.Float32, reflect.Float64:
		return v.Float(), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(v.Uint()), true
	case reflect.Interface:
		if v.IsNil() {
			return 0, false
		}
		return toFloat(v.Elem())
	}
	return 0, false
}

func stringAttr(attrs api.AttributeMap, key string) string {
	if attrs == nil {
		return ""
	}
	v, ok := attrs.Get(key)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

// numberAttr reads a numeric attribute, which the reader may return either
// as a scalar or as a one-element slice.
func numberAttr(attrs api.AttributeMap, key string) (float64, bool) {
	if attrs == nil {
		return 0, false
	}
	v, ok := attrs.Get(key)
	if !ok {
		return 0, false
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		if rv.Len() == 0 {
			return 0, false
		}
		rv = rv.Index(0)
	}
	return toFloat(rv)
}
