package calc

import (
	"testing"

	"lampolaskuri_backend/internal/leads/transport"
)

func strPtr(s string) *string    { return &s }
func f64Ptr(v float64) *float64 { return &v }

func leadWithHeating(label string) transport.LeadNormalized {
	return transport.LeadNormalized{HeatingType: strPtr(label), OilPrice: 1.3}
}

func TestSelect_OilWoodPrecedesOilAndWood(t *testing.T) {
	cases := []struct {
		label string
		want  string
	}{
		{"Puu ja öljy", StrategyOilWood},
		{"Öljy ja puu", StrategyOilWood},
		{"Öljylämmitys", StrategyOil},
		{"oljylammitys", StrategyOil},
		{"Puulämmitys", StrategyWood},
		{"Maakaasu", StrategyGas},
		{"kaukolämpö", StrategyOil}, // unrecognized defaults to oil
		{"", StrategyOil},
	}

	for _, tc := range cases {
		got := Select(leadWithHeating(tc.label)).Name()
		if got != tc.want {
			t.Fatalf("%q: expected strategy %s, got %s", tc.label, tc.want, got)
		}
	}
}

func TestSelect_NoHeatingTypeDefaultsToOil(t *testing.T) {
	got := Select(transport.LeadNormalized{})
	if got.Name() != StrategyOil {
		t.Fatalf("expected oil fallback, got %s", got.Name())
	}
}

func TestSelect_ExactlyOneStrategyMatches(t *testing.T) {
	labels := []string{"Öljylämmitys", "Puu ja öljy", "Puu", "Kaasu", "sähkö", ""}
	for _, label := range labels {
		lead := leadWithHeating(label)
		matched := 0
		for _, s := range strategies {
			if s.Matches(lead) {
				matched++
			}
		}
		if matched > 1 {
			t.Fatalf("%q: %d strategies matched, want at most 1", label, matched)
		}
	}
}

func TestOil_ReportedConsumptionAndCost(t *testing.T) {
	lead := leadWithHeating("Öljylämmitys")
	lead.TotalConsumption = f64Ptr(2500.5)
	lead.AnnualCost = f64Ptr(3200)

	basics := Select(lead).ComputeBasics(lead, DefaultLookups())

	if basics.Consumption.OilLiters == nil || *basics.Consumption.OilLiters != 2500 {
		t.Fatalf("expected 2500 liters (rounded), got %v", basics.Consumption.OilLiters)
	}
	if basics.AnnualCost != 3200 {
		t.Fatalf("expected reported cost 3200, got %d", basics.AnnualCost)
	}
	if basics.AnnualCO2Kg != 6651 { // 2500.5 * 2.66 = 6651.33
		t.Fatalf("expected CO2 6651, got %d", basics.AnnualCO2Kg)
	}
	if basics.MaintenanceYearly != 200 {
		t.Fatalf("expected maintenance 200, got %d", basics.MaintenanceYearly)
	}
}

func TestOil_DerivesLitersFromEnergyNeed(t *testing.T) {
	lead := leadWithHeating("Öljylämmitys")
	lead.EnergyNeed = f64Ptr(20000)

	basics := Select(lead).ComputeBasics(lead, DefaultLookups())

	// 20000 kWh / 10 kWh per liter = 2000 l
	if basics.Consumption.OilLiters == nil || *basics.Consumption.OilLiters != 2000 {
		t.Fatalf("expected 2000 derived liters, got %v", basics.Consumption.OilLiters)
	}
	// 2000 l * 1.3 €/l
	if basics.AnnualCost != 2600 {
		t.Fatalf("expected derived cost 2600, got %d", basics.AnnualCost)
	}
}

func TestOil_LeadPriceOverride(t *testing.T) {
	lead := leadWithHeating("Öljylämmitys")
	lead.EnergyNeed = f64Ptr(10000)
	lead.OilPrice = 1.5

	basics := Select(lead).ComputeBasics(lead, DefaultLookups())

	if basics.AnnualCost != 1500 {
		t.Fatalf("expected cost 1500 with override price, got %d", basics.AnnualCost)
	}
}

func TestGas_ReportedCostAndCO2FromEnergyNeed(t *testing.T) {
	lead := leadWithHeating("Maakaasu")
	lead.TotalConsumption = f64Ptr(1800)
	lead.AnnualCost = f64Ptr(2100)
	lead.EnergyNeed = f64Ptr(18000)

	basics := Select(lead).ComputeBasics(lead, DefaultLookups())

	if basics.Consumption.GasCubicM == nil || *basics.Consumption.GasCubicM != 1800 {
		t.Fatalf("expected 1800 m3, got %v", basics.Consumption.GasCubicM)
	}
	if basics.AnnualCost != 2100 {
		t.Fatalf("expected reported cost 2100, got %d", basics.AnnualCost)
	}
	if basics.AnnualCO2Kg != 3618 { // 18000 * 0.201
		t.Fatalf("expected CO2 3618, got %d", basics.AnnualCO2Kg)
	}
	if basics.MaintenanceYearly != 300 {
		t.Fatalf("expected maintenance 300, got %d", basics.MaintenanceYearly)
	}
}

func TestWood_ZeroCO2(t *testing.T) {
	lead := leadWithHeating("Puulämmitys")
	lead.TotalConsumption = f64Ptr(12)
	lead.AnnualCost = f64Ptr(900)

	basics := Select(lead).ComputeBasics(lead, DefaultLookups())

	if basics.Consumption.WoodStackedM3 == nil || *basics.Consumption.WoodStackedM3 != 12 {
		t.Fatalf("expected 12 stacked m3, got %v", basics.Consumption.WoodStackedM3)
	}
	if basics.AnnualCO2Kg != 0 {
		t.Fatalf("expected zero CO2 for wood, got %d", basics.AnnualCO2Kg)
	}
}

func TestOilWood_MatchesOilNumbers(t *testing.T) {
	mixed := leadWithHeating("Puu ja öljy")
	mixed.TotalConsumption = f64Ptr(1500)

	oil := leadWithHeating("Öljylämmitys")
	oil.TotalConsumption = f64Ptr(1500)

	mixedBasics := Select(mixed).ComputeBasics(mixed, DefaultLookups())
	oilBasics := Select(oil).ComputeBasics(oil, DefaultLookups())

	if mixedBasics.AnnualCost != oilBasics.AnnualCost {
		t.Fatalf("mixed cost %d differs from oil cost %d", mixedBasics.AnnualCost, oilBasics.AnnualCost)
	}
	if mixedBasics.AnnualCO2Kg != oilBasics.AnnualCO2Kg {
		t.Fatalf("mixed CO2 %d differs from oil CO2 %d", mixedBasics.AnnualCO2Kg, oilBasics.AnnualCO2Kg)
	}
}

func TestConsumptionBreakdown_ExactlyOnePopulated(t *testing.T) {
	for _, label := range []string{"Öljy", "Kaasu", "Puu", "Puu ja öljy"} {
		lead := leadWithHeating(label)
		lead.TotalConsumption = f64Ptr(100)
		basics := Select(lead).ComputeBasics(lead, DefaultLookups())

		populated := 0
		if basics.Consumption.OilLiters != nil {
			populated++
		}
		if basics.Consumption.GasCubicM != nil {
			populated++
		}
		if basics.Consumption.WoodStackedM3 != nil {
			populated++
		}
		if populated != 1 {
			t.Fatalf("%q: %d breakdown fields populated, want exactly 1", label, populated)
		}
	}
}
