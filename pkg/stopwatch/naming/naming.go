// Package naming builds stopwatch identifiers from ${var} patterns.
//
// A pattern such as "${prefix}-${worker}" is parsed once against the set of
// variables the caller can supply, then expanded per identifier:
//
//	p, err := naming.Parse("${prefix}-${worker}", "prefix", "worker")
//	id, err := p.Expand(map[string]any{"prefix": "job", "worker": 3})
//	// id: "job-3"
package naming

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"
)

// DefaultPattern names workers by prefix and index.
const DefaultPattern = "${prefix}-${worker}"

// placeholder matches ${name}; name is alphanumeric or underscore.
var placeholder = regexp.MustCompile(`\$\{([a-zA-Z_][a-zA-Z0-9_]*)\}`)

// ErrEmptyPattern is returned by Parse for an empty pattern.
var ErrEmptyPattern = errors.New("naming: empty pattern")

// UndefinedVariableError reports placeholders with no value.
type UndefinedVariableError struct {
	Names []string
}

func (e *UndefinedVariableError) Error() string {
	if len(e.Names) == 1 {
		return fmt.Sprintf("undefined variable: %s", e.Names[0])
	}
	return fmt.Sprintf("undefined variables: %s", strings.Join(e.Names, ", "))
}

// Pattern is a parsed identifier pattern. It is immutable and safe for
// concurrent use.
type Pattern struct {
	raw  string
	vars []string
}

// Parse validates raw against the known variable names. Any placeholder not
// in known yields an *UndefinedVariableError. With no known names every
// placeholder is accepted.
func Parse(raw string, known ...string) (*Pattern, error) {
	if raw == "" {
		return nil, ErrEmptyPattern
	}

	var vars, undefined []string
	for _, m := range placeholder.FindAllStringSubmatch(raw, -1) {
		name := m[1]
		if slices.Contains(vars, name) {
			continue
		}
		vars = append(vars, name)
		if len(known) > 0 && !slices.Contains(known, name) {
			undefined = append(undefined, name)
		}
	}
	if len(undefined) > 0 {
		return nil, &UndefinedVariableError{Names: undefined}
	}
	return &Pattern{raw: raw, vars: vars}, nil
}

// MustParse is Parse that panics on error. Use it for compile-time constants.
func MustParse(raw string, known ...string) *Pattern {
	p, err := Parse(raw, known...)
	if err != nil {
		panic(fmt.Sprintf("naming: %v", err))
	}
	return p
}

// String returns the pattern as written.
func (p *Pattern) String() string {
	return p.raw
}

// Vars returns the distinct placeholder names in order of first use.
func (p *Pattern) Vars() []string {
	return slices.Clone(p.vars)
}

// Uses reports whether the pattern references name.
func (p *Pattern) Uses(name string) bool {
	return slices.Contains(p.vars, name)
}

// Expand substitutes vars into the pattern. Values are formatted with %v.
// Missing variables produce an *UndefinedVariableError.
func (p *Pattern) Expand(vars map[string]any) (string, error) {
	var missing []string
	out := placeholder.ReplaceAllStringFunc(p.raw, func(match string) string {
		name := match[2 : len(match)-1]
		if val, ok := vars[name]; ok {
			return fmt.Sprintf("%v", val)
		}
		if !slices.Contains(missing, name) {
			missing = append(missing, name)
		}
		return match
	})
	if len(missing) > 0 {
		return "", &UndefinedVariableError{Names: missing}
	}
	return out, nil
}
