package record

import (
	"fmt"
	"strconv"
	"time"
)

// Backends disagree on scan types: pgx hands back int64/float64/time.Time,
// sqlite int64/float64/string. These coercions normalize system column
// values; user cell values are passed through untouched.

func toInt64(v any) (int64, error) {
	switch n := v.(type) {
	case int64:
		return n, nil
	case int32:
		return int64(n), nil
	case int:
		return int64(n), nil
	case float64:
		return int64(n), nil
	case string:
		return strconv.ParseInt(n, 10, 64)
	case nil:
		return 0, nil
	default:
		return 0, fmt.Errorf("cannot convert %T to int64", v)
	}
}

func toFloat64(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case string:
		return strconv.ParseFloat(n, 64)
	case nil:
		return 0, nil
	default:
		return 0, fmt.Errorf("cannot convert %T to float64", v)
	}
}

func toString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}

func toTimeMillis(v any) time.Time {
	millis, err := toInt64(v)
	if err != nil {
		if t, ok := v.(time.Time); ok {
			return t
		}
		return time.Time{}
	}
	if millis == 0 {
		return time.Time{}
	}
	return time.UnixMilli(millis)
}
