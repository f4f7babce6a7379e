// Package report turns a stored lead and its metrics into the customer-facing
// savings report: resolved text blocks, a comparison table and a PDF.
package report

import (
	"time"

	"lampolaskuri_backend/internal/calc"
	"lampolaskuri_backend/internal/formula"
	"lampolaskuri_backend/internal/leads/transport"
	"lampolaskuri_backend/internal/lookups"
	"lampolaskuri_backend/platform/numeric"
)

// Default text templates. Like the lookup defaults these can be replaced per
// deployment; tokens are resolved by the shortcode resolver.
const (
	defaultTitleTemplate = "Lämmityskustannusvertailu {nimi}"
	defaultIntroTemplate = "Laskelma on tehty CURRENT_DATE antamillasi tiedoilla. " +
		"Arvioitu säästö ensimmäisenä vuonna on [format:saasto-1v:currency], " +
		"viidessä vuodessa [format:saasto-5v:currency] ja kymmenessä vuodessa " +
		"[format:saasto-10v:currency]. CO₂-päästöt pienenevät noin " +
		"[format:co2-vahennys:number] kg vuodessa."
	defaultReferenceTemplate = "Laskelma AUTO_GENERATE"
)

// Row is one line of the current-vs-new comparison table.
type Row struct {
	Label   string `json:"label"`
	Current string `json:"current"`
	New     string `json:"new"`
}

// Data is a fully resolved report, ready for rendering as JSON or PDF.
type Data struct {
	Title     string         `json:"title"`
	Reference string         `json:"reference"`
	Intro     string         `json:"intro"`
	Rows      []Row          `json:"rows"`
	Result    formula.Result `json:"result"`
	CreatedAt time.Time      `json:"createdAt"`
}

// Builder resolves report templates against lead data.
type Builder struct {
	titleTemplate string
	introTemplate string
	refTemplate   string
}

func NewBuilder() *Builder {
	return &Builder{
		titleTemplate: defaultTitleTemplate,
		introTemplate: defaultIntroTemplate,
		refTemplate:   defaultReferenceTemplate,
	}
}

// Build resolves every template against the lead, its metrics and the lookup
// snapshot. Resolution never fails; partial results carry their errors in
// Data.Result.
func (b *Builder) Build(lead transport.LeadNormalized, metrics calc.Metrics, snapshot lookups.Snapshot, now time.Time) Data {
	ctx := formula.Context{
		Fields:   FieldMap(lead, metrics),
		Formulas: snapshot.Formulas,
		Lookups:  snapshot.Lookups,
		Now:      now,
	}

	result := formula.Result{Success: true}
	resolve := func(template string) string {
		text, r := formula.Resolve(template, ctx)
		if !r.Success {
			result.Success = false
			result.Errors = append(result.Errors, r.Errors...)
		}
		return text
	}

	return Data{
		Title:     resolve(b.titleTemplate),
		Reference: resolve(b.refTemplate),
		Intro:     resolve(b.introTemplate),
		Rows:      comparisonRows(metrics),
		Result:    result,
		CreatedAt: now,
	}
}

// FieldMap flattens a lead and its metrics into the value map that backs
// {field} tokens and the data environment of stored formulas.
func FieldMap(lead transport.LeadNormalized, metrics calc.Metrics) map[string]any {
	fields := map[string]any{
		transport.FieldOilPrice: lead.OilPrice,

		"nykyinen_kustannus_1v":  metrics.Current.Cost.Year1,
		"nykyinen_kustannus_5v":  metrics.Current.Cost.Year5,
		"nykyinen_kustannus_10v": metrics.Current.Cost.Year10,
		"uusi_kustannus_1v":      metrics.NewSystem.Cost.Year1,
		"uusi_kustannus_5v":      metrics.NewSystem.Cost.Year5,
		"uusi_kustannus_10v":     metrics.NewSystem.Cost.Year10,
		"nykyinen_co2":           metrics.Current.CO2KgYear,
		"uusi_co2":               metrics.NewSystem.CO2KgYear,
		"sahkon_kulutus":         metrics.NewSystem.ElectricityKWh,
		"huolto_vuodessa":        metrics.Current.MaintenanceYearly,
		"strategia":              metrics.Current.Strategy,
	}

	putString(fields, transport.FieldHeatingType, lead.HeatingType)
	putString(fields, transport.FieldName, lead.Name)
	putString(fields, transport.FieldEmail, lead.Email)
	putString(fields, transport.FieldPhone, lead.Phone)
	putFloat(fields, transport.FieldFloorArea, lead.FloorArea)
	putFloat(fields, transport.FieldCeilingHeight, lead.CeilingHeight)
	putFloat(fields, transport.FieldTotalConsumption, lead.TotalConsumption)
	putFloat(fields, transport.FieldAnnualCost, lead.AnnualCost)
	putFloat(fields, transport.FieldEnergyNeed, lead.EnergyNeed)
	putInt(fields, transport.FieldConstructionYear, lead.ConstructionYear)
	putInt(fields, transport.FieldResidents, lead.Residents)

	if c := metrics.Current.Consumption.OilLiters; c != nil {
		fields["oljyn_kulutus"] = *c
	}
	if c := metrics.Current.Consumption.GasCubicM; c != nil {
		fields["kaasun_kulutus"] = *c
	}
	if c := metrics.Current.Consumption.WoodStackedM3; c != nil {
		fields["puun_kulutus"] = *c
	}

	return fields
}

func comparisonRows(metrics calc.Metrics) []Row {
	rows := []Row{
		{
			Label:   "Vuosikustannus",
			Current: numeric.FormatCurrency(float64(metrics.Current.Cost.Year1)),
			New:     numeric.FormatCurrency(float64(metrics.NewSystem.Cost.Year1)),
		},
		{
			Label:   "Kustannus 5 vuodessa",
			Current: numeric.FormatCurrency(float64(metrics.Current.Cost.Year5)),
			New:     numeric.FormatCurrency(float64(metrics.NewSystem.Cost.Year5)),
		},
		{
			Label:   "Kustannus 10 vuodessa",
			Current: numeric.FormatCurrency(float64(metrics.Current.Cost.Year10)),
			New:     numeric.FormatCurrency(float64(metrics.NewSystem.Cost.Year10)),
		},
		{
			Label:   "CO₂-päästöt (kg/v)",
			Current: numeric.Format(float64(metrics.Current.CO2KgYear), 0),
			New:     numeric.Format(float64(metrics.NewSystem.CO2KgYear), 0),
		},
		{
			Label:   "Huoltokulut (€/v)",
			Current: numeric.Format(float64(metrics.Current.MaintenanceYearly), 0),
			New:     "0",
		},
	}

	return rows
}

func putString(fields map[string]any, key string, value *string) {
	if value != nil {
		fields[key] = *value
	}
}

func putFloat(fields map[string]any, key string, value *float64) {
	if value != nil {
		fields[key] = *value
	}
}

func putInt(fields map[string]any, key string, value *int) {
	if value != nil {
		fields[key] = *value
	}
}
