package segment

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
)

// Build normalizes a raw Go value into a Segment.
//
// Strings, all integer and float kinds, bools (as 1/0), json.Number, maps with string keys,
// slices, File values and existing segments are accepted. Mappings marked with
// FileIdentityKey are decoded into files. Anything else fails with ErrUnsupportedValue.
func Build(raw any) (Segment, error) {
	switch v := raw.(type) {
	case nil:
		return None{}, nil
	case Variable:
		if v.Segment == nil {
			return None{}, nil
		}
		return v.Segment, nil
	case Segment:
		return v, nil
	case string:
		return NewString(v), nil
	case bool:
		if v {
			return NewInt(1), nil
		}
		return NewInt(0), nil
	case int:
		return NewInt(int64(v)), nil
	case int8:
		return NewInt(int64(v)), nil
	case int16:
		return NewInt(int64(v)), nil
	case int32:
		return NewInt(int64(v)), nil
	case int64:
		return NewInt(v), nil
	case uint:
		return fromUnsigned(uint64(v))
	case uint8:
		return NewInt(int64(v)), nil
	case uint16:
		return NewInt(int64(v)), nil
	case uint32:
		return NewInt(int64(v)), nil
	case uint64:
		return fromUnsigned(v)
	case float32:
		return NewFloat(float64(v)), nil
	case float64:
		return NewFloat(v), nil
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return NewInt(i), nil
		}
		f, err := v.Float64()
		if err != nil {
			return nil, fmt.Errorf("%w: malformed number %q", ErrUnsupportedValue, v.String())
		}
		return NewFloat(f), nil
	case File:
		return NewFile(v), nil
	case *File:
		if v == nil {
			return None{}, nil
		}
		return NewFile(*v), nil
	case map[string]any:
		return buildMapping(v)
	case []any:
		return buildSequence(v)
	}

	return buildReflected(raw)
}

func buildMapping(raw map[string]any) (Segment, error) {
	if isFileMapping(raw) {
		f, err := DecodeFile(raw)
		if err != nil {
			return nil, err
		}
		return NewFile(f), nil
	}

	fields := make(map[string]Segment, len(raw))
	for k, v := range raw {
		seg, err := Build(v)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", k, err)
		}
		fields[k] = seg
	}
	return NewObject(fields), nil
}

func buildSequence(raw []any) (Segment, error) {
	items := make([]Segment, len(raw))
	for i, v := range raw {
		seg, err := Build(v)
		if err != nil {
			return nil, fmt.Errorf("index %d: %w", i, err)
		}
		items[i] = seg
	}
	return NewArray(items...), nil
}

// fromUnsigned rejects values a signed integer Number cannot hold exactly.
func fromUnsigned(v uint64) (Segment, error) {
	if v > math.MaxInt64 {
		return nil, fmt.Errorf("%w: %d overflows int64", ErrUnsupportedValue, v)
	}
	return NewInt(int64(v)), nil
}

// buildReflected handles typed slices ([]string, []File, ...) and string-keyed maps
// (map[string]string, ...) that the fast path does not list.
func buildReflected(raw any) (Segment, error) {
	rv := reflect.ValueOf(raw)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		items := make([]any, rv.Len())
		for i := range items {
			items[i] = rv.Index(i).Interface()
		}
		return buildSequence(items)
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			break
		}
		fields := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			fields[iter.Key().String()] = iter.Value().Interface()
		}
		return buildMapping(fields)
	case reflect.Pointer:
		if rv.IsNil() {
			return None{}, nil
		}
		return Build(rv.Elem().Interface())
	}
	return nil, fmt.Errorf("%w: %T", ErrUnsupportedValue, raw)
}
