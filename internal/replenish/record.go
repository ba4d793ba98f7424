package replenish

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// Record is a single raw row from one of the backing record sets. Upstream
// schemas drifted across migrations, so rows stay untyped and logical fields
// are resolved through ordered alias tables (see normalize.go).
type Record map[string]any

// asFloat coerces a raw column value to a finite float64. Postgres drivers
// hand back int64, float64, []byte or string depending on the column type,
// so all of those are accepted.
func asFloat(v any) (float64, bool) {
	var n float64
	switch t := v.(type) {
	case nil:
		return 0, false
	case float64:
		n = t
	case float32:
		n = float64(t)
	case int:
		n = float64(t)
	case int32:
		n = float64(t)
	case int64:
		n = float64(t)
	case uint64:
		n = float64(t)
	case string:
		parsed, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return 0, false
		}
		n = parsed
	case []byte:
		parsed, err := strconv.ParseFloat(string(t), 64)
		if err != nil {
			return 0, false
		}
		n = parsed
	default:
		return 0, false
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

// asString renders a raw column value as a string. Numeric identifiers are
// formatted without an exponent so they survive the round trip.
func asString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	case time.Time:
		return t.Format(dayFormat)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(t, 10)
	case int:
		return strconv.Itoa(t)
	default:
		return fmt.Sprintf("%v", t)
	}
}
