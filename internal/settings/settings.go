// Package settings builds provider configuration maps from layered sources:
// environment < file < JSON string < key=value pairs.
package settings

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
)

// DefaultPrefix is the environment prefix for upload configuration
const DefaultPrefix = "UPLINK_UPLOAD_CONFIG"

// Masked replaces secret values when a configuration is printed
const Masked = "****"

var secretKeys = map[string]bool{
	"token":            true,
	"secret_key":       true,
	"access_key":       true,
	"policy":           true,
	"signature":        true,
	"x-amz-signature":  true,
	"x-amz-credential": true,
}

// ParseKV parses a key=value pair, attempting type inference for the value
func ParseKV(kvPair string) (string, any, error) {
	return parseKV(kvPair, true)
}

func parseKV(kvPair string, infer bool) (string, any, error) {
	key, valueStr, found := strings.Cut(kvPair, "=")
	if !found {
		return "", nil, fmt.Errorf("invalid format, expected key=value: %s", kvPair)
	}

	key = strings.TrimSpace(key)
	if key == "" {
		return "", nil, fmt.Errorf("empty key in key=value pair")
	}

	return key, scalar(strings.TrimSpace(valueStr), infer), nil
}

func scalar(valueStr string, infer bool) any {
	if !infer {
		return valueStr
	}
	return inferValue(valueStr)
}

func inferValue(valueStr string) any {
	// Integers first so "1" is not read as true
	if intVal, err := strconv.Atoi(valueStr); err == nil {
		return intVal
	}
	if floatVal, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return floatVal
	}
	if valueStr == "true" || valueStr == "false" {
		return valueStr == "true"
	}
	return valueStr
}

// ParseJSON parses a JSON object
func ParseJSON(jsonStr string) (map[string]any, error) {
	return decodeJSON([]byte(jsonStr), true)
}

// decodeJSON decodes a JSON object. Without infer, numbers are kept as
// json.Number so their spelling survives.
func decodeJSON(data []byte, infer bool) (map[string]any, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	if !infer {
		decoder.UseNumber()
	}

	var result map[string]any
	if err := decoder.Decode(&result); err != nil {
		return nil, fmt.Errorf("invalid JSON object: %w", err)
	}
	if decoder.More() {
		return nil, fmt.Errorf("invalid JSON object: trailing data")
	}
	return result, nil
}

// ParseFile reads and parses a JSON object from a file
func ParseFile(path string) (map[string]any, error) {
	return parseFile(path, true)
}

func parseFile(path string, infer bool) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	result, err := decodeJSON(data, infer)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return result, nil
}

// ParseEnvWithPrefix reads PREFIX as a JSON object, then PREFIX_* variables as
// lower-cased keys. Invalid JSON in PREFIX is ignored.
func ParseEnvWithPrefix(prefix string) map[string]any {
	return parseEnv(prefix, true)
}

func parseEnv(prefix string, infer bool) map[string]any {
	config := make(map[string]any)

	if jsonStr := os.Getenv(prefix); jsonStr != "" {
		if parsed, err := decodeJSON([]byte(jsonStr), infer); err == nil {
			config = Merge(config, parsed)
		}
	}

	envPrefix := prefix + "_"
	for _, env := range os.Environ() {
		if !strings.HasPrefix(env, envPrefix) {
			continue
		}
		name, value, found := strings.Cut(env, "=")
		if !found || value == "" {
			continue
		}
		key := strings.ToLower(strings.TrimPrefix(name, envPrefix))
		if key == "" {
			continue
		}
		config[key] = scalar(strings.TrimSpace(value), infer)
	}

	if len(config) == 0 {
		return nil
	}
	return config
}

// SetPath stores value under a dotted key, creating nested objects as needed.
// "fields.key=abc" yields {"fields": {"key": "abc"}}.
func SetPath(config map[string]any, key string, value any) {
	parts := strings.Split(key, ".")
	current := config
	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part].(map[string]any)
		if !ok {
			next = make(map[string]any)
			current[part] = next
		}
		current = next
	}
	current[parts[len(parts)-1]] = value
}

// Merge merges configuration maps, later sources overriding earlier ones.
// Nested objects are merged key by key.
func Merge(sources ...map[string]any) map[string]any {
	result := make(map[string]any)
	for _, src := range sources {
		for k, v := range src {
			srcMap, srcIsMap := v.(map[string]any)
			dstMap, dstIsMap := result[k].(map[string]any)
			if srcIsMap && dstIsMap {
				result[k] = Merge(dstMap, srcMap)
				continue
			}
			if srcIsMap {
				result[k] = Merge(srcMap)
				continue
			}
			result[k] = v
		}
	}
	return result
}

// Build builds the configuration from all sources, inferring scalar types
// of env and kv values. An empty envPrefix skips the environment.
func Build(envPrefix, jsonStr string, kvPairs []string, filePath string) (map[string]any, error) {
	return build(envPrefix, jsonStr, kvPairs, filePath, true)
}

// BuildRaw is Build without type inference. Env and kv values stay strings
// and JSON numbers arrive as json.Number, so "007" is never rewritten to 7.
func BuildRaw(envPrefix, jsonStr string, kvPairs []string, filePath string) (map[string]any, error) {
	return build(envPrefix, jsonStr, kvPairs, filePath, false)
}

func build(envPrefix, jsonStr string, kvPairs []string, filePath string, infer bool) (map[string]any, error) {
	var sources []map[string]any

	// 1. Environment variables (lowest priority)
	if envPrefix != "" {
		if envConfig := parseEnv(envPrefix, infer); envConfig != nil {
			sources = append(sources, envConfig)
		}
	}

	// 2. Config file
	if filePath != "" {
		fileConfig, err := parseFile(filePath, infer)
		if err != nil {
			return nil, err
		}
		sources = append(sources, fileConfig)
	}

	// 3. JSON string
	if jsonStr != "" {
		jsonConfig, err := decodeJSON([]byte(jsonStr), infer)
		if err != nil {
			return nil, err
		}
		sources = append(sources, jsonConfig)
	}

	// 4. Key-value pairs (highest priority)
	if len(kvPairs) > 0 {
		kvConfig := make(map[string]any)
		for _, kv := range kvPairs {
			key, value, err := parseKV(kv, infer)
			if err != nil {
				return nil, err
			}
			SetPath(kvConfig, key, value)
		}
		sources = append(sources, kvConfig)
	}

	return Merge(sources...), nil
}

// Mask returns a copy of config with secret values replaced
func Mask(config map[string]any) map[string]any {
	masked := make(map[string]any, len(config))
	for k, v := range config {
		if nested, ok := v.(map[string]any); ok {
			masked[k] = Mask(nested)
			continue
		}
		if secretKeys[strings.ToLower(k)] {
			masked[k] = Masked
			continue
		}
		masked[k] = v
	}
	return masked
}

// Keys returns the top-level keys of config in sorted order
func Keys(config map[string]any) []string {
	keys := make([]string, 0, len(config))
	for k := range config {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
