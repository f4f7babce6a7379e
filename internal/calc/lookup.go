// Package calc implements the heating-cost calculation engine: per-fuel
// strategies for the current system and the heat-pump model for the new one.
// Everything here is a pure function of the normalized lead and a read-only
// lookup snapshot; the package performs no I/O.
package calc

// LookupContext holds the unit prices and CO₂ intensity factors one
// calculation runs against. It is supplied by the lookup store and treated as
// immutable for the duration of the calculation.
type LookupContext struct {
	// Prices
	ElectricityPricePerKWh float64 `json:"sahkon_hinta" yaml:"sahkon_hinta"`
	OilPricePerLiter       float64 `json:"oljyn_hinta" yaml:"oljyn_hinta"`
	GasPricePerMWh         float64 `json:"kaasun_hinta" yaml:"kaasun_hinta"`

	// CO₂ intensity
	OilCO2PerLiter       float64 `json:"oljy_co2" yaml:"oljy_co2"`
	GasCO2PerKWh         float64 `json:"kaasu_co2" yaml:"kaasu_co2"`
	ElectricityCO2PerKWh float64 `json:"sahko_co2" yaml:"sahko_co2"`
}

// DefaultLookups returns the built-in lookup values, so the engine is usable
// without the external store.
func DefaultLookups() LookupContext {
	return LookupContext{
		ElectricityPricePerKWh: 0.15,
		OilPricePerLiter:       1.3,
		GasPricePerMWh:         60,
		OilCO2PerLiter:         2.66,
		GasCO2PerKWh:           0.201,
		ElectricityCO2PerKWh:   0.181,
	}
}

// withDefaults fills zero-valued factors from the defaults so a partially
// populated store row cannot zero out a calculation.
func (l LookupContext) withDefaults() LookupContext {
	def := DefaultLookups()
	if l.ElectricityPricePerKWh <= 0 {
		l.ElectricityPricePerKWh = def.ElectricityPricePerKWh
	}
	if l.OilPricePerLiter <= 0 {
		l.OilPricePerLiter = def.OilPricePerLiter
	}
	if l.GasPricePerMWh <= 0 {
		l.GasPricePerMWh = def.GasPricePerMWh
	}
	if l.OilCO2PerLiter <= 0 {
		l.OilCO2PerLiter = def.OilCO2PerLiter
	}
	if l.GasCO2PerKWh <= 0 {
		l.GasCO2PerKWh = def.GasCO2PerKWh
	}
	if l.ElectricityCO2PerKWh <= 0 {
		l.ElectricityCO2PerKWh = def.ElectricityCO2PerKWh
	}
	return l
}
