package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// typedKeys are the keys whose override values are read as numbers or
// booleans. Every other value is kept exactly as written, so "1.50" stays
// a directory name and a numeric token keeps all of its digits.
var typedKeys = map[string]bool{
	"server.port":     true,
	"webhook.retries": true,
	"upload.secure":   true,
}

// splitKV splits a key=value pair, trimming space around both halves
func splitKV(kvPair string) (string, string, error) {
	key, valueStr, ok := strings.Cut(kvPair, "=")
	if !ok {
		return "", "", fmt.Errorf("invalid format, expected key=value: %s", kvPair)
	}

	key = strings.TrimSpace(key)
	if key == "" {
		return "", "", fmt.Errorf("empty key in key=value pair")
	}
	return key, strings.TrimSpace(valueStr), nil
}

// inferValue reads a number or boolean out of valueStr, falling back to
// the string itself
func inferValue(valueStr string) any {
	// Leading zeros are significant (tokens, codes): keep them as strings
	if len(valueStr) > 1 && valueStr[0] == '0' && valueStr[1] != '.' {
		return valueStr
	}

	// Integers first so "1" is not read as boolean true
	if intVal, err := strconv.Atoi(valueStr); err == nil {
		return intVal
	}

	if floatVal, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return floatVal
	}

	// Only explicit "true"/"false" are booleans
	if valueStr == "true" || valueStr == "false" {
		boolVal, _ := strconv.ParseBool(valueStr)
		return boolVal
	}

	return valueStr
}

// ParseJSON parses a JSON object
func ParseJSON(jsonStr string) (map[string]any, error) {
	var result map[string]any
	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	return result, nil
}

// ParseFile reads a YAML (or JSON) configuration file
func ParseFile(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	result := map[string]any{}
	if err := yaml.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("invalid YAML in %s: %w", path, err)
	}
	return result, nil
}

// ParseEnvWithPrefix builds a configuration tree from the environment.
// PREFIX may hold a JSON object; PREFIX_SECTION_KEY variables set single
// values, e.g. SYNCD_SERVER_PORT=4000 sets server.port.
func ParseEnvWithPrefix(prefix string) (map[string]any, error) {
	result := map[string]any{}

	if jsonStr := os.Getenv(prefix); jsonStr != "" {
		parsed, err := ParseJSON(jsonStr)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", prefix, err)
		}
		result = Merge(result, parsed)
	}

	envPrefix := prefix + "_"
	for _, env := range os.Environ() {
		name, value, ok := strings.Cut(env, "=")
		if !ok || !strings.HasPrefix(name, envPrefix) || value == "" {
			continue
		}
		setPath(result, strings.TrimPrefix(name, envPrefix), strings.TrimSpace(value))
	}

	if len(result) == 0 {
		return nil, nil
	}
	return result, nil
}

// ParseSet turns section.key=value pairs into a configuration tree.
// Map-valued keys take a further segment: webhook.headers.X-Token=abc.
func ParseSet(pairs []string) (map[string]any, error) {
	if len(pairs) == 0 {
		return nil, nil
	}

	result := map[string]any{}
	for _, kv := range pairs {
		key, value, err := splitKV(kv)
		if err != nil {
			return nil, err
		}
		setPath(result, key, value)
	}
	return result, nil
}

// Merge deep-merges configuration trees; later trees override earlier ones
func Merge(layers ...map[string]any) map[string]any {
	result := map[string]any{}
	for _, layer := range layers {
		for key, value := range layer {
			if sub, ok := value.(map[string]any); ok {
				if existing, ok := result[key].(map[string]any); ok {
					result[key] = Merge(existing, sub)
					continue
				}
				result[key] = Merge(sub)
				continue
			}
			result[key] = value
		}
	}
	return result
}

// setPath stores value at a dotted key. A key without dots has its section
// split off at the first '_', so "webhook.retry_delay" and
// "webhook_retry_delay" both address webhook.retry_delay. Section and key
// are lowercased; deeper segments such as header names keep their case.
func setPath(tree map[string]any, key string, value string) {
	var path []string
	switch {
	case strings.Contains(key, "."):
		path = strings.Split(key, ".")
	case strings.Contains(key, "_"):
		section, rest, _ := strings.Cut(key, "_")
		path = []string{section, rest}
	default:
		path = []string{key}
	}
	for i := 0; i < len(path) && i < 2; i++ {
		path[i] = strings.ToLower(path[i])
	}

	var typed any = value
	if len(path) == 2 && typedKeys[path[0]+"."+path[1]] {
		typed = inferValue(value)
	}

	node := tree
	for _, name := range path[:len(path)-1] {
		sub, ok := node[name].(map[string]any)
		if !ok {
			sub = map[string]any{}
			node[name] = sub
		}
		node = sub
	}
	node[path[len(path)-1]] = typed
}
