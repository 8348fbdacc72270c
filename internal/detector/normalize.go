package detector

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"
)

var ErrUnexpectedResultFormat = errors.New("unexpected result format")

// Field names accepted for named results, compared case-insensitively.
var (
	statisticNames   = []string{"stat", "statistic", "u", "k", "t"}
	pValueNames      = []string{"pvalue", "p_value", "p"}
	changePointNames = []string{"cp", "changepoint", "change_point", "loc"}
)

// Normalize converts a raw change-point test result into a TestResult.
//
// Named results (structs and string-keyed maps) are read by field name and
// missing fields are left undefined. Ordered results (slices and arrays) are
// read by position as statistic, p-value and change point; the change point
// may be omitted. Anything else yields ErrUnexpectedResultFormat.
func Normalize(raw any) (TestResult, error) {
	rv := reflect.ValueOf(raw)
	for rv.IsValid() && (rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface) {
		if rv.IsNil() {
			return TestResult{}, fmt.Errorf("%w: nil result", ErrUnexpectedResultFormat)
		}
		rv = rv.Elem()
	}
	if !rv.IsValid() {
		return TestResult{}, fmt.Errorf("%w: nil result", ErrUnexpectedResultFormat)
	}

	switch rv.Kind() {
	case reflect.Struct:
		return fromNamed(structFields(rv))
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return TestResult{}, fmt.Errorf("%w: map keyed by %s", ErrUnexpectedResultFormat, rv.Type().Key())
		}
		return fromNamed(mapFields(rv))
	case reflect.Slice, reflect.Array:
		return fromOrdered(rv)
	}
	return TestResult{}, fmt.Errorf("%w: %T", ErrUnexpectedResultFormat, raw)
}

func structFields(rv reflect.Value) map[string]reflect.Value {
	fields := make(map[string]reflect.Value)
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		if !rt.Field(i).IsExported() {
			continue
		}
		fields[strings.ToLower(rt.Field(i).Name)] = rv.Field(i)
	}
	return fields
}

func mapFields(rv reflect.Value) map[string]reflect.Value {
	fields := make(map[string]reflect.Value)
	iter := rv.MapRange()
	for iter.Next() {
		fields[strings.ToLower(iter.Key().String())] = iter.Value()
	}
	return fields
}

func lookup(fields map[string]reflect.Value, names []string) (reflect.Value, bool) {
	for _, name := range names {
		if v, ok := fields[name]; ok {
			return v, true
		}
	}
	return reflect.Value{}, false
}

func fromNamed(fields map[string]reflect.Value) (TestResult, error) {
	var r TestResult
	if v, ok := lookup(fields, statisticNames); ok {
		r.Statistic = floatValue(v)
	}
	if v, ok := lookup(fields, pValueNames); ok {
		r.PValue = floatValue(v)
	}
	if v, ok := lookup(fields, changePointNames); ok {
		r.ChangePoint = indexValue(v)
	}
	return r, nil
}

func fromOrdered(rv reflect.Value) (TestResult, error) {
	if rv.Len() < 2 {
		return TestResult{}, fmt.Errorf("%w: sequence of %d elements", ErrUnexpectedResultFormat, rv.Len())
	}

	r := TestResult{
		Statistic: floatValue(rv.Index(0)),
		PValue:    floatValue(rv.Index(1)),
	}
	if rv.Len() > 2 {
		r.ChangePoint = indexValue(rv.Index(2))
	}
	return r, nil
}

// floatValue converts a numeric or boolean value. NaN and non-numeric
// values are undefined.
func floatValue(v reflect.Value) Optional[float64] {
	for v.IsValid() && (v.Kind() == reflect.Interface || v.Kind() == reflect.Pointer) {
		if v.IsNil() {
			return None[float64]()
		}
		v = v.Elem()
	}
	if !v.IsValid() {
		return None[float64]()
	}

	var f float64
	switch v.Kind() {
	case reflect.Float32, reflect.Float64:
		f = v.Float()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		f = float64(v.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		f = float64(v.Uint())
	case reflect.Bool:
		if v.Bool() {
			f = 1
		}
	default:
		return None[float64]()
	}
	if math.IsNaN(f) {
		return None[float64]()
	}
	return Some(f)
}

// indexValue accepts non-negative integral numbers only.
func indexValue(v reflect.Value) Optional[int] {
	f, ok := floatValue(v).Get()
	if !ok || math.IsInf(f, 0) || f < 0 || f != math.Trunc(f) || f > math.MaxInt32 {
		return None[int]()
	}
	return Some(int(f))
}
