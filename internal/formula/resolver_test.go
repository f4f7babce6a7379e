package formula

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContext() Context {
	return Context{
		Fields: map[string]any{
			"nimi":           "Matti Meikäläinen",
			"vuosikustannus": 3000.0,
			"saasto_1v":      2250.0,
			"pinta_ala":      142.5,
		},
		Formulas: map[string]Formula{
			"saasto-10v": {
				Name:       "saasto-10v",
				Expression: "data.saasto_1v * 10",
			},
			"rikki": {
				Name:       "rikki",
				Expression: "data.olematon * 2",
			},
		},
		Lookups: map[string]any{
			"oljyn_hinta": 1.3,
		},
		Now:           time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC),
		NextReference: func() string { return "REF00042" },
	}
}

func TestResolve_PureLiteralUnchanged(t *testing.T) {
	template := "Hei! Tässä raporttisi ilman yhtään tokenia."
	resolved, result := Resolve(template, testContext())

	assert.Equal(t, template, resolved)
	assert.True(t, result.Success)
	assert.Empty(t, result.Errors)
}

func TestResolve_FieldToken(t *testing.T) {
	resolved, result := Resolve("Hei {nimi}!", testContext())

	assert.Equal(t, "Hei Matti Meikäläinen!", resolved)
	assert.True(t, result.Success)
}

func TestResolve_MissingFieldIsEmpty(t *testing.T) {
	resolved, result := Resolve("X{tuntematon}Y", testContext())

	assert.Equal(t, "XY", resolved)
	assert.True(t, result.Success)
}

func TestResolve_CalcToken(t *testing.T) {
	resolved, result := Resolve("Säästö: [calc:saasto-10v] €", testContext())

	assert.Equal(t, "Säästö: 22500 €", resolved)
	assert.True(t, result.Success)
}

func TestResolve_UnknownFormulaKeepsTokenAndFlags(t *testing.T) {
	resolved, result := Resolve("Savings: [calc:missing-formula] €", testContext())

	assert.Equal(t, "Savings: [calc:missing-formula] €", resolved)
	require.False(t, result.Success)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "[calc:missing-formula]", result.Errors[0].Token)
	assert.Contains(t, result.Errors[0].Message, "missing-formula")
}

func TestResolve_FailingFormulaDoesNotPanic(t *testing.T) {
	resolved, result := Resolve("A [calc:rikki] B", testContext())

	assert.Equal(t, "A Formula execution failed B", resolved)
	assert.False(t, result.Success)
	require.Len(t, result.Errors, 1)
}

func TestResolve_LookupToken(t *testing.T) {
	resolved, result := Resolve("Öljy: [lookup:oljyn_hinta] €/l", testContext())

	assert.Equal(t, "Öljy: 1.3 €/l", resolved)
	assert.True(t, result.Success)
}

func TestResolve_UnknownLookupKeepsToken(t *testing.T) {
	resolved, result := Resolve("[lookup:puuttuu]", testContext())

	assert.Equal(t, "[lookup:puuttuu]", resolved)
	assert.False(t, result.Success)
}

func TestResolve_FormatCurrency(t *testing.T) {
	resolved, result := Resolve("[format:vuosikustannus:currency]", testContext())

	assert.True(t, result.Success)
	assert.True(t, strings.HasSuffix(resolved, "€"), "got %q", resolved)
	assert.Contains(t, resolved, "3")
}

func TestResolve_FormatDecimalWithSuffix(t *testing.T) {
	resolved, result := Resolve("[format:pinta_ala:decimal:decimals=1,suffix= m²]", testContext())

	assert.True(t, result.Success)
	assert.True(t, strings.HasSuffix(resolved, " m²"), "got %q", resolved)
	assert.Contains(t, resolved, "142,5")
}

func TestResolve_FormatCalcSource(t *testing.T) {
	resolved, result := Resolve("[format:saasto-10v:number]", testContext())

	assert.True(t, result.Success)
	// 22500 grouped per fi-FI
	assert.Contains(t, resolved, "22")
	assert.Contains(t, resolved, "500")
}

func TestResolve_Sentinels(t *testing.T) {
	resolved, result := Resolve("Pvm: CURRENT_DATE, viite: AUTO_GENERATE", testContext())

	assert.True(t, result.Success)
	assert.Equal(t, "Pvm: 28.8.2026, viite: REF00042", resolved)
}

func TestResolve_MultipleTokensLeftToRight(t *testing.T) {
	resolved, result := Resolve("{nimi}: [calc:saasto-10v] ([lookup:oljyn_hinta])", testContext())

	assert.True(t, result.Success)
	assert.Equal(t, "Matti Meikäläinen: 22500 (1.3)", resolved)
}

func TestResolve_OneBadTokenDoesNotBlankOthers(t *testing.T) {
	resolved, result := Resolve("{nimi} / [calc:missing] / [calc:saasto-10v]", testContext())

	assert.False(t, result.Success)
	assert.Contains(t, resolved, "Matti Meikäläinen")
	assert.Contains(t, resolved, "22500")
	assert.Contains(t, resolved, "[calc:missing]")
}
