package values

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
)

// ErrUnsupported is returned when a value has no tagged encoding.
var ErrUnsupported = errors.New("values: unsupported value type")

// Tagged encodings keep the Go type of a value across a JSON round trip, so a
// restored default of 5 comes back as an int rather than a float64.
const (
	tagNull    = "null"
	tagBool    = "bool"
	tagInt     = "int"
	tagFloat   = "float"
	tagString  = "string"
	tagInts    = "ints"
	tagFloats  = "floats"
	tagStrings = "strings"
	tagBools   = "bools"
	tagList    = "list"
)

type tagged struct {
	Kind  string          `json:"kind"`
	Value json.RawMessage `json:"value,omitempty"`
}

// Encode renders v as a tagged JSON value.
func Encode(v any) (json.RawMessage, error) {
	t, err := encodeTagged(v)
	if err != nil {
		return nil, err
	}
	return json.Marshal(t)
}

func encodeTagged(v any) (tagged, error) {
	switch tv := v.(type) {
	case nil:
		return tagged{Kind: tagNull}, nil
	case bool:
		return rawTagged(tagBool, tv)
	case string:
		return rawTagged(tagString, tv)
	case []int:
		return rawTagged(tagInts, tv)
	case []float64:
		fs := make([]Float, len(tv))
		for i, f := range tv {
			fs[i] = Float(f)
		}
		return rawTagged(tagFloats, fs)
	case []string:
		return rawTagged(tagStrings, tv)
	case []bool:
		return rawTagged(tagBools, tv)
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rawTagged(tagInt, rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rawTagged(tagInt, rv.Uint())
	case reflect.Float32, reflect.Float64:
		return rawTagged(tagFloat, Float(rv.Float()))
	case reflect.Slice, reflect.Array:
		elems := make([]tagged, rv.Len())
		for i := range elems {
			e, err := encodeTagged(rv.Index(i).Interface())
			if err != nil {
				return tagged{}, fmt.Errorf("element %d: %w", i, err)
			}
			elems[i] = e
		}
		return rawTagged(tagList, elems)
	}
	return tagged{}, fmt.Errorf("%w: %T", ErrUnsupported, v)
}

func rawTagged(kind string, v any) (tagged, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return tagged{}, err
	}
	return tagged{Kind: kind, Value: b}, nil
}

// Decode parses a tagged JSON value produced by Encode.
func Decode(raw json.RawMessage) (any, error) {
	var t tagged
	if err := json.Unmarshal(raw, &t); err != nil {
		return nil, fmt.Errorf("values: decode: %w", err)
	}
	return decodeTagged(t)
}

func decodeTagged(t tagged) (any, error) {
	switch t.Kind {
	case tagNull:
		return nil, nil
	case tagBool:
		return decodeAs[bool](t.Value)
	case tagInt:
		n, err := decodeAs[int64](t.Value)
		return int(n), err
	case tagFloat:
		f, err := decodeAs[Float](t.Value)
		return float64(f), err
	case tagString:
		return decodeAs[string](t.Value)
	case tagInts:
		return decodeAs[[]int](t.Value)
	case tagFloats:
		fs, err := decodeAs[[]Float](t.Value)
		if err != nil {
			return nil, err
		}
		out := make([]float64, len(fs))
		for i, f := range fs {
			out[i] = float64(f)
		}
		return out, nil
	case tagStrings:
		return decodeAs[[]string](t.Value)
	case tagBools:
		return decodeAs[[]bool](t.Value)
	case tagList:
		elems, err := decodeAs[[]tagged](t.Value)
		if err != nil {
			return nil, err
		}
		out := make([]any, len(elems))
		for i, e := range elems {
			v, err := decodeTagged(e)
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			out[i] = v
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: unknown kind %q", ErrUnsupported, t.Kind)
}

func decodeAs[T any](raw json.RawMessage) (T, error) {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, fmt.Errorf("values: decode: %w", err)
	}
	return v, nil
}

// EncodeMap encodes every entry of m with Encode.
func EncodeMap(m map[string]any) (map[string]json.RawMessage, error) {
	if m == nil {
		return nil, nil
	}
	out := make(map[string]json.RawMessage, len(m))
	for k, v := range m {
		raw, err := Encode(v)
		if err != nil {
			return nil, fmt.Errorf("key %s: %w", k, err)
		}
		out[k] = raw
	}
	return out, nil
}

// DecodeMap reverses EncodeMap.
func DecodeMap(m map[string]json.RawMessage) (map[string]any, error) {
	if m == nil {
		return nil, nil
	}
	out := make(map[string]any, len(m))
	for k, raw := range m {
		v, err := Decode(raw)
		if err != nil {
			return nil, fmt.Errorf("key %s: %w", k, err)
		}
		out[k] = v
	}
	return out, nil
}

// Float is a float64 whose JSON form also covers the non-finite values:
// NaN and the infinities are written as the strings "NaN", "+Inf" and "-Inf".
type Float float64

func (f Float) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return json.Marshal(strconv.FormatFloat(v, 'g', -1, 64))
	}
	return json.Marshal(v)
}

func (f *Float) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("values: float %q: %w", s, err)
		}
		*f = Float(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = Float(v)
	return nil
}
