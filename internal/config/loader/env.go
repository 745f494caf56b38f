package loader

import (
	"os"
	"strconv"
	"strings"
)

// EnvLoader loads settings overrides from environment variables.
type EnvLoader struct {
	prefix  string            // variable prefix including the trailing underscore
	mapping map[string]string // variable name -> settings path
}

// NewEnvLoader creates an environment loader. The prefix should
// include the trailing underscore (e.g. "DRAGSTORM_").
func NewEnvLoader(prefix string) *EnvLoader {
	return &EnvLoader{
		prefix:  prefix,
		mapping: defaultEnvMapping(),
	}
}

// NewEnvLoaderWithMapping creates a loader with custom variable mappings.
func NewEnvLoaderWithMapping(prefix string, mapping map[string]string) *EnvLoader {
	return &EnvLoader{
		prefix:  prefix,
		mapping: mapping,
	}
}

// defaultEnvMapping covers the variables whose names don't follow the
// section-then-key convention.
func defaultEnvMapping() map[string]string {
	return map[string]string{
		"DRAGSTORM_LOG_LEVEL": "logging.level",
		"DRAGSTORM_LOG_FILE":  "logging.file",
		"DRAGSTORM_SCRIPT":    "script.path",
	}
}

// Load reads environment variables into a settings map. Empty string
// values count as set.
func (l *EnvLoader) Load() (map[string]any, error) {
	settings := make(map[string]any)

	for env, path := range l.mapping {
		if val, ok := os.LookupEnv(env); ok {
			setByPath(settings, path, parseValue(val))
		}
	}

	for _, env := range os.Environ() {
		if !strings.HasPrefix(env, l.prefix) {
			continue
		}

		name, value, ok := strings.Cut(env, "=")
		if !ok {
			continue
		}
		if _, mapped := l.mapping[name]; mapped {
			continue
		}

		setByPath(settings, l.envToPath(name), parseValue(value))
	}

	return settings, nil
}

// AddMapping adds a custom environment variable mapping.
func (l *EnvLoader) AddMapping(envVar, settingsPath string) {
	if l.mapping == nil {
		l.mapping = make(map[string]string)
	}
	l.mapping[envVar] = settingsPath
}

// envToPath converts DRAGSTORM_INPUT_DRAG_DEAD_ZONE to
// input.drag_dead_zone: the first word after the prefix is the
// section, the rest is the snake_case key.
func (l *EnvLoader) envToPath(env string) string {
	name := strings.ToLower(strings.TrimPrefix(env, l.prefix))

	section, key, ok := strings.Cut(name, "_")
	if !ok {
		return section
	}
	return section + "." + key
}

// parseValue turns an environment string into a typed value: bools and
// integers are recognized, floats when they carry a decimal point,
// everything else stays a string.
func parseValue(s string) any {
	switch strings.ToLower(s) {
	case "true", "yes", "on":
		return true
	case "false", "no", "off":
		return false
	}

	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if strings.Contains(s, ".") {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}

	return s
}

// setByPath sets a value in a nested map using a dot-separated path.
func setByPath(data map[string]any, path string, value any) {
	parts := strings.Split(path, ".")
	current := data

	for i := 0; i < len(parts)-1; i++ {
		part := parts[i]
		if next, ok := current[part].(map[string]any); ok {
			current = next
		} else {
			next := make(map[string]any)
			current[part] = next
			current = next
		}
	}

	current[parts[len(parts)-1]] = value
}
