// Package safe provides helpers for numeric conversions with range checks.
package safe

import (
	"fmt"
	"math"
)

// Uint8 converts signed or unsigned integers to uint8 with range validation.
func Uint8[T ~int | ~int32 | ~int64 | ~uint | ~uint32 | ~uint64](v T) (uint8, error) {
	n, err := Uint64(v)
	if err != nil {
		return 0, fmt.Errorf("value %d out of uint8 range", v)
	}
	if n > math.MaxUint8 {
		return 0, fmt.Errorf("value %d out of uint8 range", v)
	}
	return uint8(n), nil
}

// Uint32 converts signed or unsigned integers to uint32 with range validation.
func Uint32[T ~int | ~int32 | ~int64 | ~uint | ~uint32 | ~uint64](v T) (uint32, error) {
	n, err := Uint64(v)
	if err != nil {
		return 0, fmt.Errorf("value %d out of uint32 range", v)
	}
	if n > math.MaxUint32 {
		return 0, fmt.Errorf("value %d out of uint32 range", v)
	}
	return uint32(n), nil
}

// Uint64 converts signed or unsigned integers to uint64 while guarding
// against negatives.
func Uint64[T ~int | ~int32 | ~int64 | ~uint | ~uint32 | ~uint64](v T) (uint64, error) {
	switch value := any(v).(type) {
	case int:
		if value < 0 {
			return 0, fmt.Errorf("value %d out of uint64 range", v)
		}
		return uint64(value), nil
	case int32:
		if value < 0 {
			return 0, fmt.Errorf("value %d out of uint64 range", v)
		}
		return uint64(value), nil
	case int64:
		if value < 0 {
			return 0, fmt.Errorf("value %d out of uint64 range", v)
		}
		return uint64(value), nil
	case uint:
		return uint64(value), nil
	case uint32:
		return uint64(value), nil
	case uint64:
		return value, nil
	default:
		return 0, fmt.Errorf("unsupported type %T", v)
	}
}
