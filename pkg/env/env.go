// Package env expands env(NAME) references in configuration values.
package env

import (
	"fmt"
	"os"
	"regexp"

	"github.com/goccy/go-yaml/ast"
)

// referencePattern matches env(NAME)
var referencePattern = regexp.MustCompile(`env\(([^)]+)\)`)

// unsafeChars are control characters rejected in substituted values.
// Tab and newline are allowed.
var unsafeChars = regexp.MustCompile(`[\x00-\x08\x0b\x0c\x0e-\x1f\x7f]`)

// SubstituteEnvVarsNode expands env(NAME) references in every scalar value
// below node. Mapping keys are left alone. A reference to an unset variable
// is kept verbatim so CheckResolved can report it against its field.
func SubstituteEnvVarsNode(node ast.Node) error {
	return walk(node, true)
}

func walk(node ast.Node, isValue bool) error {
	switch n := node.(type) {
	case nil:
		return nil
	case *ast.DocumentNode:
		return walk(n.Body, true)
	case *ast.MappingNode:
		for _, mv := range n.Values {
			if err := walk(mv, isValue); err != nil {
				return err
			}
		}
	case *ast.MappingValueNode:
		return walk(n.Value, true)
	case *ast.SequenceNode:
		for _, v := range n.Values {
			if err := walk(v, true); err != nil {
				return err
			}
		}
	case *ast.TagNode:
		return walk(n.Value, isValue)
	case *ast.AnchorNode:
		return walk(n.Value, isValue)
	case *ast.StringNode:
		if isValue {
			return expand(&n.Value)
		}
	case *ast.LiteralNode:
		if isValue && n.Value != nil {
			return expand(&n.Value.Value)
		}
	}
	return nil
}

func expand(s *string) error {
	var failed string
	out := referencePattern.ReplaceAllStringFunc(*s, func(ref string) string {
		name := referencePattern.FindStringSubmatch(ref)[1]
		value, ok := os.LookupEnv(name)
		if !ok {
			return ref
		}
		if unsafeChars.MatchString(value) {
			failed = name
		}
		return value
	})
	if failed != "" {
		return fmt.Errorf("environment variable %s contains disallowed control characters", failed)
	}
	*s = out
	return nil
}

// CheckResolved returns an error naming field when value still holds an
// env(NAME) reference, i.e. the variable was not set at load time.
func CheckResolved(value, field string) error {
	if m := referencePattern.FindStringSubmatch(value); m != nil {
		return fmt.Errorf("%s: environment variable %s is not set", field, m[1])
	}
	return nil
}
