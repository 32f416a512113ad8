package util

import (
	"fmt"
	"strconv"
	"strings"
)

// GetAsString converts various types to string
// If s is a string, return it
// If s is any form of number, parse it into a string and return it
// If s is any other type, convert it to string representation
func GetAsString(s any) (string, error) {
	if s == nil {
		return "", fmt.Errorf("cannot convert nil to string")
	}

	switch v := s.(type) {
	case string:
		return v, nil
	case int:
		return strconv.Itoa(v), nil
	case int8:
		return strconv.FormatInt(int64(v), 10), nil
	case int16:
		return strconv.FormatInt(int64(v), 10), nil
	case int32:
		return strconv.FormatInt(int64(v), 10), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case uint:
		return strconv.FormatUint(uint64(v), 10), nil
	case uint8:
		return strconv.FormatUint(uint64(v), 10), nil
	case uint16:
		return strconv.FormatUint(uint64(v), 10), nil
	case uint32:
		return strconv.FormatUint(uint64(v), 10), nil
	case uint64:
		return strconv.FormatUint(v, 10), nil
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case bool:
		return strconv.FormatBool(v), nil
	case fmt.Stringer:
		// Handle types that implement String() method
		return v.String(), nil
	default:
		// Fallback to fmt.Sprintf for other types
		return fmt.Sprintf("%v", v), nil
	}
}

// GetAsInteger converts various types to integer
// If s is an integer, return it
// If s is a string that represents an integer, convert it to an integer and return it
// If s is any other type, return an error
func GetAsInteger(s any) (int, error) {
	if s == nil {
		return 0, fmt.Errorf("cannot convert nil to integer")
	}

	switch v := s.(type) {
	case int:
		return v, nil
	case int8:
		return int(v), nil
	case int16:
		return int(v), nil
	case int32:
		return int(v), nil
	case int64:
		// Check if it fits in int range using safe conversion
		if v > 2147483647 || v < -2147483648 {
			return 0, fmt.Errorf("int64 value %d is out of int range", v)
		}
		return int(v), nil
	case uint:
		// Check if it fits in int range
		if v > 2147483647 {
			return 0, fmt.Errorf("uint value %d is out of int range", v)
		}
		return int(v), nil
	case uint8:
		return int(v), nil
	case uint16:
		return int(v), nil
	case uint32:
		if v > 2147483647 {
			return 0, fmt.Errorf("uint32 value %d is out of int range", v)
		}
		return int(v), nil
	case uint64:
		if v > 2147483647 {
			return 0, fmt.Errorf("uint64 value %d is out of int range", v)
		}
		return int(v), nil
	case float32:
		// Check if it's a whole number
		if v != float32(int(v)) {
			return 0, fmt.Errorf("float32 value %f is not a whole number", v)
		}
		return int(v), nil
	case float64:
		// Check if it's a whole number
		if v != float64(int(v)) {
			return 0, fmt.Errorf("float64 value %f is not a whole number", v)
		}
		return int(v), nil
	case string:
		// Try to parse the string as an integer
		result, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, fmt.Errorf("cannot convert string '%s' to integer: %w", v, err)
		}
		return result, nil
	default:
		return 0, fmt.Errorf("cannot convert type %T to integer", s)
	}
}

// GetAsFloat converts various types to float64, the coercion tool
// argument handlers use since JSON numbers decode as float64 but a
// client may also send a numeric string.
func GetAsFloat(s any) (float64, error) {
	if s == nil {
		return 0, fmt.Errorf("cannot convert nil to float")
	}

	switch v := s.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case string:
		result, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, fmt.Errorf("cannot convert string '%s' to float: %w", v, err)
		}
		return result, nil
	default:
		return 0, fmt.Errorf("cannot convert type %T to float", s)
	}
}
