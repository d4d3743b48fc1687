package coerce

import (
	"math"
	"strconv"
)

// number matches encoding/json.Number and compatible decoders.
type number interface {
	Int64() (int64, error)
	Float64() (float64, error)
	String() string
}

// ToInt64 handles JSON decoded numbers (float64, json.Number) and every Go
// integer kind. Floats must be integral and in range.
func ToInt64(value any) (int64, bool) {
	switch v := value.(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	case int8:
		return int64(v), true
	case int16:
		return int64(v), true
	case int32:
		return int64(v), true
	case uint8:
		return int64(v), true
	case uint16:
		return int64(v), true
	case uint32:
		return int64(v), true
	case uint:
		if uint64(v) <= math.MaxInt64 {
			return int64(v), true
		}
	case uint64:
		if v <= math.MaxInt64 {
			return int64(v), true
		}
	case float64:
		if v >= math.MinInt64 && v < math.MaxInt64 && v == math.Trunc(v) {
			return int64(v), true
		}
	case float32:
		f := float64(v)
		if f >= math.MinInt64 && f < math.MaxInt64 && f == math.Trunc(f) {
			return int64(f), true
		}
	case number:
		if i, err := v.Int64(); err == nil {
			return i, true
		}
		if f, err := v.Float64(); err == nil {
			return ToInt64(f)
		}
	}
	return 0, false
}

// ToFloat64 accepts every Go numeric kind and json.Number.
func ToFloat64(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int64:
		return float64(v), true
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case uint:
		return float64(v), true
	case number:
		if f, err := v.Float64(); err == nil {
			return f, true
		}
	}
	return 0, false
}

// ParseInt parses decimal text into an int64. Exponent or fractional
// forms are accepted when they denote an integral value ("1E+2", "3.0").
func ParseInt(s string) (int64, error) {
	i, err := strconv.ParseInt(s, 10, 64)
	if err == nil {
		return i, nil
	}
	f, ferr := strconv.ParseFloat(s, 64)
	if ferr != nil {
		return 0, err
	}
	if i, ok := ToInt64(f); ok {
		return i, nil
	}
	return 0, err
}

// ParseFloat parses decimal text into a float64.
func ParseFloat(s string) (float64, error) {
	return strconv.ParseFloat(s, 64)
}

// AppendInt appends the decimal text of v.
func AppendInt(dst []byte, v int64) []byte {
	return strconv.AppendInt(dst, v, 10)
}

// AppendFloat appends the shortest decimal text that round-trips v.
// Plain notation is used for magnitudes in [1e-6, 1e21), matching the
// way JSON encoders render numbers. Whole values carry no fraction: 100
// renders as "100".
func AppendFloat(dst []byte, v float64) []byte {
	abs := math.Abs(v)
	if abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		return strconv.AppendFloat(dst, v, 'g', -1, 64)
	}
	return strconv.AppendFloat(dst, v, 'f', -1, 64)
}

// Finite reports whether v can be written as a decimal number.
func Finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
