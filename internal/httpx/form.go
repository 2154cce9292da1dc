package httpx

import (
	"fmt"
	"net/url"
	"strconv"
)

// EncodeForm builds a form body from fields. Nil values and nil pointers are
// omitted entirely rather than sent as empty strings; an empty string that is
// actually present is kept.
func EncodeForm(fields map[string]any) url.Values {
	values := url.Values{}
	for key, v := range fields {
		s, ok := formValue(v)
		if !ok {
			continue
		}
		values.Set(key, s)
	}
	return values
}

func formValue(v any) (string, bool) {
	switch val := v.(type) {
	case nil:
		return "", false
	case string:
		return val, true
	case *string:
		if val == nil {
			return "", false
		}
		return *val, true
	case bool:
		return strconv.FormatBool(val), true
	case *bool:
		if val == nil {
			return "", false
		}
		return strconv.FormatBool(*val), true
	case int:
		return strconv.Itoa(val), true
	case *int:
		if val == nil {
			return "", false
		}
		return strconv.Itoa(*val), true
	case int64:
		return strconv.FormatInt(val, 10), true
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), true
	case fmt.Stringer:
		return val.String(), true
	default:
		return fmt.Sprint(val), true
	}
}
