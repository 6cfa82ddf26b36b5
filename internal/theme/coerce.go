package theme

import (
	"encoding/json"
	"strconv"
)

// CoerceBool reports whether a raw flag value means "on". Only boolean true,
// numeric 1 and the string "1" are on; everything else, including nil, is off.
func CoerceBool(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		return t == "1"
	case json.Number:
		f, err := t.Float64()
		return err == nil && f == 1
	case float64:
		return t == 1
	case float32:
		return t == 1
	case int:
		return t == 1
	case int64:
		return t == 1
	case int32:
		return t == 1
	}
	return false
}

// CoerceString renders a scalar raw value as a string. It returns false for
// nil, objects and arrays.
func CoerceString(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case json.Number:
		return t.String(), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32), true
	case int:
		return strconv.Itoa(t), true
	case int64:
		return strconv.FormatInt(t, 10), true
	case int32:
		return strconv.FormatInt(int64(t), 10), true
	case bool:
		return strconv.FormatBool(t), true
	}
	return "", false
}

func coerceInt(v any) (int, bool) {
	switch t := v.(type) {
	case json.Number:
		n, err := t.Int64()
		if err != nil {
			return 0, false
		}
		return int(n), true
	case float64:
		if t != float64(int(t)) {
			return 0, false
		}
		return int(t), true
	case int:
		return t, true
	case int64:
		return int(t), true
	case string:
		n, err := strconv.Atoi(t)
		if err != nil {
			return 0, false
		}
		return n, true
	}
	return 0, false
}

func encodeFlag(on bool) string {
	if on {
		return "1"
	}
	return "0"
}

func encodeNumericFlag(on bool) int {
	if on {
		return 1
	}
	return 0
}
