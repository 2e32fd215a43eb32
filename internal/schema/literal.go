package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// FormatLiteral prints a concrete value as a JSON-like literal: strings are
// always double-quoted, floats always carry a fraction or exponent so they
// do not read back as integers, and object keys are sorted.
func FormatLiteral(v any) string {
	var sb strings.Builder
	writeLiteral(&sb, v, QuoteString)
	return sb.String()
}

// QuoteString JSON-encodes s without HTML escaping.
func QuoteString(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s)
	return strings.TrimSuffix(buf.String(), "\n")
}

// FormatLiteralWith prints v like FormatLiteral but renders strings with str.
func FormatLiteralWith(v any, str func(string) string) string {
	var sb strings.Builder
	writeLiteral(&sb, v, str)
	return sb.String()
}

func writeLiteral(sb *strings.Builder, v any, str func(string) string) {
	switch x := v.(type) {
	case nil:
		sb.WriteString("null")
	case bool:
		sb.WriteString(strconv.FormatBool(x))
	case int:
		sb.WriteString(strconv.Itoa(x))
	case float64:
		sb.WriteString(formatFloat(x))
	case string:
		sb.WriteString(str(x))
	case []any:
		sb.WriteByte('[')
		for i, item := range x {
			if i > 0 {
				sb.WriteString(", ")
			}
			writeLiteral(sb, item, str)
		}
		sb.WriteByte(']')
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		sb.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(QuoteString(k))
			sb.WriteString(": ")
			writeLiteral(sb, x[k], str)
		}
		sb.WriteByte('}')
	default:
		writeLiteral(sb, Normalize(v), str)
	}
}

func formatFloat(f float64) string {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return "null"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eEn") {
		s += ".0"
	}
	return s
}

// Normalize converts decoded data into the value model used throughout the
// shell: nil, bool, int, float64, string, []any and map[string]any.
func Normalize(v any) any {
	switch x := v.(type) {
	case nil, bool, int, string:
		return x
	case float64:
		return x
	case float32:
		return float64(x)
	case int8:
		return int(x)
	case int16:
		return int(x)
	case int32:
		return int(x)
	case int64:
		return int(x)
	case uint8:
		return int(x)
	case uint16:
		return int(x)
	case uint32:
		return int(x)
	case uint64:
		return int(x)
	case uint:
		return int(x)
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return int(i)
		}
		f, _ := x.Float64()
		return f
	case []byte:
		return string(x)
	case []any:
		out := make([]any, len(x))
		for i, item := range x {
			out[i] = Normalize(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, item := range x {
			out[k] = Normalize(item)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(x))
		for k, item := range x {
			out[fmt.Sprint(k)] = Normalize(item)
		}
		return out
	}
	return fmt.Sprint(v)
}

// Equal compares two normalized values.
func Equal(a, b any) bool {
	return FormatLiteral(Normalize(a)) == FormatLiteral(Normalize(b))
}
