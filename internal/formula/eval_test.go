package formula

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluate_Arithmetic(t *testing.T) {
	result, err := Evaluate(Formula{
		Name:       "savings",
		Expression: "data.current_cost - data.new_cost",
	}, map[string]any{
		"current_cost": 3000.0,
		"new_cost":     750.0,
	})

	require.NoError(t, err)
	assert.Equal(t, 2250.0, result)
}

func TestEvaluate_Conditional(t *testing.T) {
	result, err := Evaluate(Formula{
		Name:       "label",
		Expression: `data.savings > 0 ? "säästöä" : "ei säästöä"`,
	}, map[string]any{"savings": 100.0})

	require.NoError(t, err)
	assert.Equal(t, "säästöä", result)
}

func TestEvaluate_EmptyExpression(t *testing.T) {
	_, err := Evaluate(Formula{Name: "empty"}, map[string]any{})
	assert.Error(t, err)
}

func TestEvaluate_SyntaxErrorIsCaught(t *testing.T) {
	_, err := Evaluate(Formula{
		Name:       "broken",
		Expression: "data.x *** 2",
	}, map[string]any{"x": 1.0})

	assert.Error(t, err)
}

func TestEvaluate_MissingVariableIsError(t *testing.T) {
	_, err := Evaluate(Formula{
		Name:       "missing",
		Expression: "data.olematon * 2",
	}, map[string]any{})

	assert.Error(t, err)
}

func TestEvaluate_NoHostCodeAccess(t *testing.T) {
	// Stored formulas must not be able to reach anything beyond the data
	// environment; identifiers outside it fail to compile.
	_, err := Evaluate(Formula{
		Name:       "escape",
		Expression: `os.Getenv("HOME")`,
	}, map[string]any{})

	assert.Error(t, err)
}

func TestEvaluate_IsolatedPerInvocation(t *testing.T) {
	f := Formula{Name: "inc", Expression: "data.n + 1"}

	first, err := Evaluate(f, map[string]any{"n": 1.0})
	require.NoError(t, err)
	second, err := Evaluate(f, map[string]any{"n": 1.0})
	require.NoError(t, err)

	assert.Equal(t, first, second, "no state may leak between executions")
}
