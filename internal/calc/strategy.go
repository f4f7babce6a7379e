package calc

import (
	"math"
	"strings"

	"lampolaskuri_backend/internal/leads/transport"
)

// Strategy names, stored alongside the lead and used for PDF labeling.
const (
	StrategyOil     = "oil"
	StrategyGas     = "gas"
	StrategyWood    = "wood"
	StrategyOilWood = "oilwood"
)

const (
	// kWhPerOilLiter converts annual energy need to liters of heating oil.
	kWhPerOilLiter = 10.0

	maintenanceOil  = 200
	maintenanceGas  = 300
	maintenanceWood = 200
)

// ConsumptionBreakdown holds the current system's annual consumption.
// Exactly one field is populated per strategy.
type ConsumptionBreakdown struct {
	OilLiters     *int `json:"oilLiters,omitempty"`
	GasCubicM     *int `json:"gasCubicM,omitempty"`
	WoodStackedM3 *int `json:"woodStackedM3,omitempty"`
}

// Basics is the output of one heating strategy for the current system.
// All values are rounded here, once; nothing downstream re-rounds them.
type Basics struct {
	AnnualCost        int                  `json:"annualCost"`
	Consumption       ConsumptionBreakdown `json:"consumption"`
	AnnualCO2Kg       int                  `json:"annualCo2Kg"`
	MaintenanceYearly int                  `json:"maintenanceYearly"`
}

// PDFRow describes one line item of the strategy's consumption table in the
// report PDF.
type PDFRow struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Unit  string `json:"unit"`
}

// Strategy is one mutually exclusive heating-cost model.
type Strategy interface {
	Name() string
	Matches(lead transport.LeadNormalized) bool
	ComputeBasics(lead transport.LeadNormalized, lookups LookupContext) Basics
	PDFRows() []PDFRow
}

// strategies is the selection order. The mixed oil+wood predicate must run
// before the plain oil and wood predicates or it would never match.
var strategies = []Strategy{
	oilWoodStrategy{},
	oilStrategy{},
	gasStrategy{},
	woodStrategy{},
}

// Select returns the strategy for the lead. Oil is the guaranteed fallback:
// there is no "unknown heating type" outcome.
func Select(lead transport.LeadNormalized) Strategy {
	for _, s := range strategies {
		if s.Matches(lead) {
			return s
		}
	}
	return oilStrategy{}
}

// ByName returns the strategy with the given name, or the oil fallback when
// the name is not recognized. Used when re-rendering a stored lead whose
// strategy was decided at capture time.
func ByName(name string) Strategy {
	for _, s := range strategies {
		if s.Name() == name {
			return s
		}
	}
	return oilStrategy{}
}

func round(v float64) int {
	return int(math.Round(v))
}

func intPtr(v int) *int { return &v }

func heatingTokens(lead transport.LeadNormalized) (oil, wood, gas bool) {
	text := strings.ToLower(lead.HeatingTypeText())
	oil = strings.Contains(text, "öljy") || strings.Contains(text, "oljy")
	wood = strings.Contains(text, "puu")
	gas = strings.Contains(text, "kaasu")
	return oil, wood, gas
}

// ── Oil ─────────────────────────────────────────────────────────────────

type oilStrategy struct{}

func (oilStrategy) Name() string { return StrategyOil }

func (oilStrategy) Matches(lead transport.LeadNormalized) bool {
	oil, wood, _ := heatingTokens(lead)
	return oil && !wood
}

// oilBasics is shared by the oil and mixed oil+wood strategies: liters from
// reported consumption when present, otherwise derived from energy need at
// 10 kWh per liter; cost from the reported value when present, otherwise
// liters times the oil price (lead override, else lookup).
func oilBasics(lead transport.LeadNormalized, lookups LookupContext) Basics {
	liters := 0.0
	if lead.TotalConsumption != nil && *lead.TotalConsumption > 0 {
		liters = *lead.TotalConsumption
	} else {
		liters = lead.EnergyNeedKWh() / kWhPerOilLiter
	}

	price := lead.OilPrice
	if price <= 0 {
		price = lookups.OilPricePerLiter
	}

	cost := 0.0
	if lead.AnnualCost != nil && *lead.AnnualCost > 0 {
		cost = *lead.AnnualCost
	} else {
		cost = liters * price
	}

	return Basics{
		AnnualCost:        round(cost),
		Consumption:       ConsumptionBreakdown{OilLiters: intPtr(round(liters))},
		AnnualCO2Kg:       round(liters * lookups.OilCO2PerLiter),
		MaintenanceYearly: maintenanceOil,
	}
}

func (oilStrategy) ComputeBasics(lead transport.LeadNormalized, lookups LookupContext) Basics {
	return oilBasics(lead, lookups.withDefaults())
}

func (oilStrategy) PDFRows() []PDFRow {
	return []PDFRow{
		{Key: "oilLiters", Label: "Öljyn kulutus", Unit: "l/v"},
		{Key: "annualCost", Label: "Lämmityskulut", Unit: "€/v"},
		{Key: "annualCo2", Label: "CO₂-päästöt", Unit: "kg/v"},
	}
}

// ── Gas ─────────────────────────────────────────────────────────────────

type gasStrategy struct{}

func (gasStrategy) Name() string { return StrategyGas }

func (gasStrategy) Matches(lead transport.LeadNormalized) bool {
	_, _, gas := heatingTokens(lead)
	return gas
}

// Gas takes the reported yearly cost as-is instead of deriving it from the
// m³ price; billing already aggregates it. See the gas pricing note in
// DESIGN.md before changing this.
func (gasStrategy) ComputeBasics(lead transport.LeadNormalized, lookups LookupContext) Basics {
	lookups = lookups.withDefaults()

	cubic := 0.0
	if lead.TotalConsumption != nil {
		cubic = *lead.TotalConsumption
	}

	cost := 0.0
	if lead.AnnualCost != nil {
		cost = *lead.AnnualCost
	}

	return Basics{
		AnnualCost:        round(cost),
		Consumption:       ConsumptionBreakdown{GasCubicM: intPtr(round(cubic))},
		AnnualCO2Kg:       round(lead.EnergyNeedKWh() * lookups.GasCO2PerKWh),
		MaintenanceYearly: maintenanceGas,
	}
}

func (gasStrategy) PDFRows() []PDFRow {
	return []PDFRow{
		{Key: "gasCubicM", Label: "Kaasun kulutus", Unit: "m³/v"},
		{Key: "annualCost", Label: "Lämmityskulut", Unit: "€/v"},
		{Key: "annualCo2", Label: "CO₂-päästöt", Unit: "kg/v"},
	}
}

// ── Wood ────────────────────────────────────────────────────────────────

type woodStrategy struct{}

func (woodStrategy) Name() string { return StrategyWood }

func (woodStrategy) Matches(lead transport.LeadNormalized) bool {
	oil, wood, _ := heatingTokens(lead)
	return wood && !oil
}

// Wood is treated as carbon-neutral biomass in this model.
func (woodStrategy) ComputeBasics(lead transport.LeadNormalized, _ LookupContext) Basics {
	stacked := 0.0
	if lead.TotalConsumption != nil {
		stacked = *lead.TotalConsumption
	}

	cost := 0.0
	if lead.AnnualCost != nil {
		cost = *lead.AnnualCost
	}

	return Basics{
		AnnualCost:        round(cost),
		Consumption:       ConsumptionBreakdown{WoodStackedM3: intPtr(round(stacked))},
		AnnualCO2Kg:       0,
		MaintenanceYearly: maintenanceWood,
	}
}

func (woodStrategy) PDFRows() []PDFRow {
	return []PDFRow{
		{Key: "woodStackedM3", Label: "Puun kulutus", Unit: "p-m³/v"},
		{Key: "annualCost", Label: "Lämmityskulut", Unit: "€/v"},
	}
}

// ── Mixed oil + wood ────────────────────────────────────────────────────

// oilWoodStrategy is numerically identical to oil. It exists as a distinct
// variant so PDF labeling and future divergence do not touch oil's model.
type oilWoodStrategy struct{}

func (oilWoodStrategy) Name() string { return StrategyOilWood }

func (oilWoodStrategy) Matches(lead transport.LeadNormalized) bool {
	oil, wood, _ := heatingTokens(lead)
	return oil && wood
}

func (oilWoodStrategy) ComputeBasics(lead transport.LeadNormalized, lookups LookupContext) Basics {
	return oilBasics(lead, lookups.withDefaults())
}

func (oilWoodStrategy) PDFRows() []PDFRow {
	return []PDFRow{
		{Key: "oilLiters", Label: "Öljyn kulutus (öljy + puu)", Unit: "l/v"},
		{Key: "annualCost", Label: "Lämmityskulut", Unit: "€/v"},
		{Key: "annualCo2", Label: "CO₂-päästöt", Unit: "kg/v"},
	}
}
