// Package tpl fills icon module templates.
//
// A template is plain text with ${identifier} placeholders. Compile replaces
// each placeholder with the string form of the matching context value and
// leaves any other text, including malformed placeholders, untouched.
package tpl

import (
	_ "embed"
	"fmt"
	"regexp"
	"strconv"

	"github.com/spf13/afero"
)

// Recognized context keys.
const (
	KeyName          = "name"
	KeyWidth         = "width"
	KeyHeight        = "height"
	KeyViewBox       = "viewBox"
	KeyData          = "data"
	KeyComponentName = "componentName"
)

//go:embed icon.tpl.txt
var defaultTemplate string

var placeholder = regexp.MustCompile(`\$\{(\w+)\}`)

// Context maps placeholder identifiers to values.
type Context map[string]any

// Default returns the bundled icon module template.
func Default() string {
	return defaultTemplate
}

// Load reads a template file from fsys. An empty path yields [Default].
func Load(fsys afero.Fs, path string) (string, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return "", fmt.Errorf("read template: %w", err)
	}

	return string(data), nil
}

// Compile substitutes every ${identifier} in template with ctx[identifier].
// Missing and falsy values become the empty string.
func Compile(template string, ctx Context) string {
	return placeholder.ReplaceAllStringFunc(template, func(match string) string {
		key := match[2 : len(match)-1]
		return format(ctx[key])
	})
}

func format(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		if !v {
			return ""
		}

		return "true"
	case float64:
		return formatFloat(v)
	case float32:
		return formatFloat(float64(v))
	case int:
		if v == 0 {
			return ""
		}

		return strconv.Itoa(v)
	case int64:
		if v == 0 {
			return ""
		}

		return strconv.FormatInt(v, 10)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

func formatFloat(f float64) string {
	if f == 0 || f != f {
		return ""
	}

	return strconv.FormatFloat(f, 'f', -1, 64)
}
