package sources

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// maxCount caps counts read from upstream payloads.
const maxCount = math.MaxInt32

var keyReplacer = strings.NewReplacer(" ", "_", "-", "_")

func normalizeKey(k string) string {
	return keyReplacer.Replace(strings.ToLower(strings.TrimSpace(k)))
}

// lookup returns the first present, non-null value among keys. Keys match exactly first, then
// ignoring case and treating spaces and dashes as underscores ("Overall Homeless").
func lookup(m map[string]any, keys ...string) (any, bool) {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			return v, true
		}
	}
	for _, k := range keys {
		nk := normalizeKey(k)
		for mk, v := range m {
			if v != nil && normalizeKey(mk) == nk {
				return v, true
			}
		}
	}
	return nil, false
}

// intField reads a non-negative integer, accepting numbers and numeric strings such as "1,157".
// Anything missing or unparseable reads as zero; huge values are capped at maxCount.
func intField(m map[string]any, keys ...string) int {
	f := floatField(m, keys...)
	if f <= 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	if f >= maxCount {
		return maxCount
	}
	return int(f)
}

func floatField(m map[string]any, keys ...string) float64 {
	v, ok := lookup(m, keys...)
	if !ok {
		return 0
	}
	return toFloat(v)
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case interface{ String() string }:
		return parseNumber(n.String())
	case string:
		return parseNumber(n)
	}
	return 0
}

func parseNumber(s string) float64 {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSuffix(s, "%")
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

func stringField(m map[string]any, keys ...string) string {
	v, ok := lookup(m, keys...)
	if !ok {
		return ""
	}
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(s)
	}
	return fmt.Sprint(v)
}

func boolField(m map[string]any, def bool, keys ...string) bool {
	v, ok := lookup(m, keys...)
	if !ok {
		return def
	}
	switch b := v.(type) {
	case bool:
		return b
	case float64:
		return b != 0
	case string:
		switch strings.ToLower(strings.TrimSpace(b)) {
		case "true", "yes", "y", "1", "open":
			return true
		case "false", "no", "n", "0", "closed":
			return false
		}
	}
	return def
}

// stringsField reads either a JSON array of strings or a ";" / "," separated string.
func stringsField(m map[string]any, keys ...string) []string {
	v, ok := lookup(m, keys...)
	if !ok {
		return nil
	}

	var parts []string
	switch s := v.(type) {
	case []any:
		for _, item := range s {
			if str, ok := item.(string); ok {
				parts = append(parts, str)
			}
		}
	case string:
		sep := ","
		if strings.Contains(s, ";") {
			sep = ";"
		}
		parts = strings.Split(s, sep)
	}

	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func objectField(m map[string]any, keys ...string) map[string]any {
	v, ok := lookup(m, keys...)
	if !ok {
		return nil
	}
	obj, _ := v.(map[string]any)
	return obj
}

// rows unwraps the common response shapes: a bare array, {"data": [...]}, {"results": [...]},
// {"features": [...]} or a single object.
func rows(v any) []map[string]any {
	switch t := v.(type) {
	case []any:
		out := make([]map[string]any, 0, len(t))
		for _, item := range t {
			if m, ok := item.(map[string]any); ok {
				out = append(out, m)
			}
		}
		return out
	case map[string]any:
		for _, k := range []string{"data", "results", "rows", "features", "records"} {
			if inner, ok := t[k]; ok {
				return rows(inner)
			}
		}
		return []map[string]any{t}
	}
	return nil
}
