// Package formula implements the shortcode resolution layer that turns
// report templates into literal strings. Formula bodies are admin-editable
// text; they are evaluated in a sandboxed expression VM over a `data`
// environment, never as host code.
package formula

import (
	"fmt"

	"github.com/expr-lang/expr"
)

// Formula is a stored, named expression over lead and metric variables.
type Formula struct {
	Name        string   `json:"name" yaml:"name"`
	Expression  string   `json:"expression" yaml:"expression"`
	Variables   []string `json:"variables,omitempty" yaml:"variables,omitempty"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
}

// Evaluate runs the formula against the given data map. Each call compiles
// and runs in isolation; no state is shared between formula executions.
// Compilation errors, runtime panics inside the VM, and references to
// missing data all surface as an error — the caller decides how to degrade.
func Evaluate(f Formula, data map[string]any) (any, error) {
	if f.Expression == "" {
		return nil, fmt.Errorf("formula %q: empty expression", f.Name)
	}

	env := map[string]any{"data": data}

	program, err := expr.Compile(f.Expression, expr.Env(env))
	if err != nil {
		return nil, fmt.Errorf("formula %q: compile: %w", f.Name, err)
	}

	result, err := expr.Run(program, env)
	if err != nil {
		return nil, fmt.Errorf("formula %q: run: %w", f.Name, err)
	}

	return result, nil
}
