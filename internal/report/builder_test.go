package report

import (
	"strings"
	"testing"
	"time"

	"lampolaskuri_backend/internal/calc"
	"lampolaskuri_backend/internal/formula"
	"lampolaskuri_backend/internal/leads/transport"
	"lampolaskuri_backend/internal/lookups"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func testSnapshot() lookups.Snapshot {
	return lookups.Snapshot{
		Lookups: map[string]any{"oljyn_hinta": 1.3},
		Formulas: map[string]formula.Formula{
			"saasto-1v": {
				Name:       "saasto-1v",
				Expression: "data.nykyinen_kustannus_1v - data.uusi_kustannus_1v",
			},
			"saasto-5v": {
				Name:       "saasto-5v",
				Expression: "data.nykyinen_kustannus_5v - data.uusi_kustannus_5v",
			},
			"saasto-10v": {
				Name:       "saasto-10v",
				Expression: "data.nykyinen_kustannus_10v - data.uusi_kustannus_10v",
			},
			"co2-vahennys": {
				Name:       "co2-vahennys",
				Expression: "data.nykyinen_co2 - data.uusi_co2",
			},
		},
	}
}

func testLead() transport.LeadNormalized {
	energy := 19000.0
	cost := 2600.0
	return transport.LeadNormalized{
		HeatingType: strPtr("Öljylämmitys"),
		Name:        strPtr("Matti Meikäläinen"),
		EnergyNeed:  &energy,
		AnnualCost:  &cost,
		OilPrice:    1.3,
	}
}

func TestBuildResolvesTemplates(t *testing.T) {
	lead := testLead()
	metrics := calc.ComputeMetrics(lead, calc.LookupContext{})
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	data := NewBuilder().Build(lead, metrics, testSnapshot(), now)

	require.True(t, data.Result.Success, "resolution errors: %+v", data.Result.Errors)

	assert.Contains(t, data.Title, "Matti Meikäläinen")
	assert.Contains(t, data.Intro, "28.8.2026")
	assert.Contains(t, data.Intro, "€")
	assert.NotContains(t, data.Intro, "[format:")
	assert.NotContains(t, data.Intro, "CURRENT_DATE")

	assert.NotContains(t, data.Reference, "AUTO_GENERATE")
	assert.True(t, strings.HasPrefix(data.Reference, "Laskelma "))

	require.Len(t, data.Rows, 5)
	assert.Equal(t, "Vuosikustannus", data.Rows[0].Label)
}

func TestBuildUnknownFormulaKeepsTokenAndFlags(t *testing.T) {
	lead := testLead()
	metrics := calc.ComputeMetrics(lead, calc.LookupContext{})

	snapshot := lookups.Snapshot{
		Lookups:  map[string]any{},
		Formulas: map[string]formula.Formula{},
	}

	data := NewBuilder().Build(lead, metrics, snapshot, time.Now())

	assert.False(t, data.Result.Success)
	assert.Contains(t, data.Intro, "[format:saasto-1v:currency]")
}

func TestFieldMapCarriesMetricsAndLead(t *testing.T) {
	lead := testLead()
	metrics := calc.ComputeMetrics(lead, calc.LookupContext{})

	fields := FieldMap(lead, metrics)

	assert.Equal(t, metrics.Current.Cost.Year1, fields["nykyinen_kustannus_1v"])
	assert.Equal(t, metrics.Current.Cost.Year1*5, fields["nykyinen_kustannus_5v"])
	assert.Equal(t, metrics.NewSystem.Cost.Year1, fields["uusi_kustannus_1v"])
	assert.Equal(t, metrics.NewSystem.CO2KgYear, fields["uusi_co2"])
	assert.Equal(t, "Öljylämmitys", fields["lammitysmuoto"])
	assert.Equal(t, 1.3, fields["oljyn_hinta"])

	// oil strategy: liters derived from reported energy need
	if assert.Contains(t, fields, "oljyn_kulutus") {
		assert.Equal(t, 1900, fields["oljyn_kulutus"])
	}
	assert.NotContains(t, fields, "kaasun_kulutus")
	assert.NotContains(t, fields, "puun_kulutus")
}
