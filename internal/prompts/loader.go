// Package prompts provides a loader for externalized LLM prompt templates.
// Prompts are stored as JSON files and embedded at compile time.
package prompts

import (
	"embed"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"
)

//go:embed *.json
var promptFiles embed.FS

// cache stores parsed prompt files to avoid repeated JSON parsing
var (
	cache   = make(map[string]map[string]string)
	cacheMu sync.RWMutex
)

// placeholderPattern matches template placeholders in the form {{.Key}}.
var placeholderPattern = regexp.MustCompile(`\{\{\.([A-Za-z][A-Za-z0-9_]*)\}\}`)

// MissingVariableError is returned by Render when a placeholder has no bound value.
type MissingVariableError struct {
	Name string
}

func (e *MissingVariableError) Error() string {
	return fmt.Sprintf("template variable %q is not bound", e.Name)
}

// Get retrieves a prompt by filename and key.
// The filename should not include the path (e.g., "analysis.json").
// Returns an error if the file or key is not found.
func Get(filename, key string) (string, error) {
	prompts, err := loadFile(filename)
	if err != nil {
		return "", err
	}

	prompt, exists := prompts[key]
	if !exists {
		return "", fmt.Errorf("prompt key %q not found in %s", key, filename)
	}

	return prompt, nil
}

// Format replaces template placeholders in the form {{.Key}} with values from data.
// Placeholders without a value are left untouched.
func Format(template string, data map[string]string) string {
	return placeholderPattern.ReplaceAllStringFunc(template, func(match string) string {
		name := placeholderPattern.FindStringSubmatch(match)[1]
		if value, ok := data[name]; ok {
			return value
		}
		return match
	})
}

// Render binds every placeholder in template to its value in data.
// Unlike Format it fails with *MissingVariableError when a referenced placeholder
// has no value. Unused entries in data are ignored. Substitution is single-pass,
// so placeholder-like text inside a value is never expanded.
func Render(template string, data map[string]string) (string, error) {
	for _, name := range Placeholders(template) {
		if _, ok := data[name]; !ok {
			return "", &MissingVariableError{Name: name}
		}
	}
	return Format(template, data), nil
}

// Placeholders returns the distinct placeholder names referenced by template, sorted.
func Placeholders(template string) []string {
	seen := make(map[string]bool)
	var names []string
	for _, m := range placeholderPattern.FindAllStringSubmatch(template, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			names = append(names, m[1])
		}
	}
	sort.Strings(names)
	return names
}

// loadFile loads and caches a prompt file.
func loadFile(filename string) (map[string]string, error) {
	cacheMu.RLock()
	if prompts, exists := cache[filename]; exists {
		cacheMu.RUnlock()
		return prompts, nil
	}
	cacheMu.RUnlock()

	data, err := promptFiles.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompt file %s: %w", filename, err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse prompt file %s: %w", filename, err)
	}

	// Values may be a single string or a list of lines joined with newlines.
	prompts := make(map[string]string, len(raw))
	for key, value := range raw {
		switch v := value.(type) {
		case string:
			prompts[key] = v
		case []any:
			lines := make([]string, 0, len(v))
			for _, line := range v {
				s, ok := line.(string)
				if !ok {
					return nil, fmt.Errorf("prompt %q in %s: lines must be strings", key, filename)
				}
				lines = append(lines, s)
			}
			prompts[key] = strings.Join(lines, "\n")
		default:
			return nil, fmt.Errorf("prompt %q in %s: unsupported value type %T", key, filename, value)
		}
	}

	cacheMu.Lock()
	cache[filename] = prompts
	cacheMu.Unlock()

	return prompts, nil
}
