package sportmonks

import (
	"strconv"
	"strings"
)

func getString(src map[string]any, key string) string {
	if src == nil {
		return ""
	}
	value, ok := src[key].(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(value)
}

// getIntAny returns the first key holding a numeric value.
func getIntAny(src map[string]any, keys ...string) (int, bool) {
	for _, key := range keys {
		if src == nil {
			return 0, false
		}
		if raw, ok := src[key]; ok {
			if value, ok := extractStandingValue(raw); ok {
				return value, true
			}
		}
	}
	return 0, false
}

func getInt64(src map[string]any, key string) int64 {
	if src == nil {
		return 0
	}
	switch typed := src[key].(type) {
	case float64:
		return int64(typed)
	case int64:
		return typed
	case int:
		return int64(typed)
	case string:
		v, err := strconv.ParseInt(strings.TrimSpace(typed), 10, 64)
		if err != nil {
			return 0
		}
		return v
	default:
		return 0
	}
}

// extractStandingValue reads plain numbers, numeric strings and {total|all|overall|value} or
// home+away objects.
func extractStandingValue(value any) (int, bool) {
	switch typed := value.(type) {
	case nil:
		return 0, false
	case float64:
		return int(typed), true
	case float32:
		return int(typed), true
	case int:
		return typed, true
	case int64:
		return int(typed), true
	case string:
		v, err := strconv.Atoi(strings.TrimSpace(typed))
		if err != nil {
			return 0, false
		}
		return v, true
	case map[string]any:
		for _, key := range []string{"total", "all", "overall", "value"} {
			if v, ok := extractStandingValue(typed[key]); ok {
				return v, true
			}
		}
		home, homeOK := extractStandingValue(typed["home"])
		away, awayOK := extractStandingValue(typed["away"])
		if homeOK || awayOK {
			return home + away, true
		}
		return 0, false
	default:
		return 0, false
	}
}

func relationDataMap(raw any) map[string]any {
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil
	}
	if data, ok := obj["data"].(map[string]any); ok {
		return data
	}
	return obj
}

func firstNonEmpty(values ...string) string {
	for _, item := range values {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

func ptrInt(value int) *int {
	return &value
}
