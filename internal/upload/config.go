package upload

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Helper functions to extract values from config map.
// Credentials are expected as strings or json.Number; other scalars are formatted.
func getStringValue(config map[string]any, key string) (string, bool) {
	val, ok := config[key]
	if !ok {
		return "", false
	}
	str, ok := stringify(val)
	if !ok || str == "" {
		return "", false
	}
	return str, true
}

func getStringValueWithDefault(config map[string]any, key, defaultValue string) string {
	if val, ok := getStringValue(config, key); ok {
		return val
	}
	return defaultValue
}

func getBoolValue(config map[string]any, key string, defaultValue bool) bool {
	if val, ok := config[key]; ok {
		switch v := val.(type) {
		case bool:
			return v
		case string:
			if b, err := strconv.ParseBool(v); err == nil {
				return b
			}
		}
	}
	return defaultValue
}

// getStringMap reads a nested object and stringifies its scalar values
func getStringMap(config map[string]any, key string) (map[string]string, bool) {
	val, ok := config[key]
	if !ok {
		return nil, false
	}

	switch v := val.(type) {
	case map[string]string:
		return v, true
	case map[string]any:
		fields := make(map[string]string, len(v))
		for k, raw := range v {
			if raw == nil {
				fields[k] = ""
				continue
			}
			str, ok := stringify(raw)
			if !ok {
				str = fmt.Sprint(raw)
			}
			fields[k] = str
		}
		return fields, true
	}
	return nil, false
}

func stringify(val any) (string, bool) {
	switch v := val.(type) {
	case string:
		return v, true
	case json.Number:
		return v.String(), true
	case int:
		return strconv.Itoa(v), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(v), true
	}
	return "", false
}
