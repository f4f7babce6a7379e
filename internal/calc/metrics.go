package calc

import (
	"lampolaskuri_backend/internal/leads/transport"
)

const (
	// heatPumpCOP is the fixed coefficient of performance for the new system.
	heatPumpCOP = 3.8
)

// CostProjection is the 1/5/10-year cost outlook. Year5 and Year10 are exact
// integer multiples of the rounded Year1 — rounding happens once, at Year1.
// Multiplying the rounded value keeps the horizons consistent with each other
// in the rendered report; do not switch to round(5*raw).
type CostProjection struct {
	Year1  int `json:"year1"`
	Year5  int `json:"year5"`
	Year10 int `json:"year10"`
}

func newCostProjection(annualRounded int) CostProjection {
	return CostProjection{
		Year1:  annualRounded,
		Year5:  annualRounded * 5,
		Year10: annualRounded * 10,
	}
}

// CurrentSystem describes the lead's existing heating system.
type CurrentSystem struct {
	Strategy          string               `json:"strategy"`
	Cost              CostProjection       `json:"cost"`
	Consumption       ConsumptionBreakdown `json:"consumption"`
	CO2KgYear         int                  `json:"co2KgYear"`
	MaintenanceYearly int                  `json:"maintenanceYearly"`
}

// NewSystem describes the proposed heat pump.
type NewSystem struct {
	Cost           CostProjection `json:"cost"`
	ElectricityKWh int            `json:"electricityKWh"`
	CO2KgYear      int            `json:"co2KgYear"`
}

// Metrics is the aggregate current-vs-new comparison stored with the lead and
// fed to the report resolver.
type Metrics struct {
	Current   CurrentSystem `json:"current"`
	NewSystem NewSystem     `json:"newSystem"`
}

// SavingsYear1 returns the year-one cost difference (positive = savings).
func (m Metrics) SavingsYear1() int {
	return m.Current.Cost.Year1 - m.NewSystem.Cost.Year1
}

// ComputeMetrics selects the heating strategy for the lead, computes the
// current-system basics and the heat-pump model, and returns the symmetric
// comparison. Pure function of its inputs.
func ComputeMetrics(lead transport.LeadNormalized, lookups LookupContext) Metrics {
	lookups = lookups.withDefaults()

	strategy := Select(lead)
	basics := strategy.ComputeBasics(lead, lookups)

	electricityKWh := round(lead.EnergyNeedKWh() / heatPumpCOP)
	newAnnualCost := round(float64(electricityKWh) * lookups.ElectricityPricePerKWh)
	newCO2 := round(float64(electricityKWh) * lookups.ElectricityCO2PerKWh)

	return Metrics{
		Current: CurrentSystem{
			Strategy:          strategy.Name(),
			Cost:              newCostProjection(basics.AnnualCost),
			Consumption:       basics.Consumption,
			CO2KgYear:         basics.AnnualCO2Kg,
			MaintenanceYearly: basics.MaintenanceYearly,
		},
		NewSystem: NewSystem{
			Cost:           newCostProjection(newAnnualCost),
			ElectricityKWh: electricityKWh,
			CO2KgYear:      newCO2,
		},
	}
}
