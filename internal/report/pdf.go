package report

import (
	"fmt"

	"lampolaskuri_backend/internal/calc"
	"lampolaskuri_backend/platform/numeric"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/border"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// ── Colour palette ──────────────────────────────────────────────────────

var (
	colorPrimary   = &props.Color{Red: 17, Green: 24, Blue: 39}    // near-black
	colorSecondary = &props.Color{Red: 107, Green: 114, Blue: 128} // gray-500
	colorAccent    = &props.Color{Red: 22, Green: 101, Blue: 52}   // green-800
	colorTableHead = &props.Color{Red: 240, Green: 253, Blue: 244} // green-50
	colorTableAlt  = &props.Color{Red: 249, Green: 250, Blue: 251} // gray-50
	colorBorder    = &props.Color{Red: 226, Green: 232, Blue: 240} // slate-200
)

// PDFInput is everything the PDF needs beyond the resolved report data.
type PDFInput struct {
	Report  Data
	Metrics calc.Metrics
}

// GeneratePDF renders the savings report as a PDF document.
func GeneratePDF(input PDFInput) ([]byte, error) {
	cfg := config.NewBuilder().
		WithLeftMargin(15).
		WithTopMargin(12).
		WithRightMargin(15).
		Build()

	m := maroto.New(cfg)

	if err := m.RegisterFooter(buildFooter(input.Report)); err != nil {
		return nil, fmt.Errorf("register footer: %w", err)
	}

	m.AddRows(buildHeader(input.Report)...)
	m.AddRows(row.New(1).WithStyle(&props.Cell{
		BorderType:  border.Bottom,
		BorderColor: colorBorder,
	}))
	m.AddRows(row.New(6)) // spacer

	m.AddRows(buildIntro(input.Report)...)
	m.AddRows(row.New(6))

	m.AddRows(buildComparisonTable(input.Report)...)
	m.AddRows(row.New(6))

	m.AddRows(buildConsumptionBlock(input)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("generate PDF: %w", err)
	}

	return doc.GetBytes(), nil
}

// ── Header ──────────────────────────────────────────────────────────────

func buildHeader(data Data) []core.Row {
	return []core.Row{
		row.New(20).Add(
			col.New(8).Add(
				text.New("SÄÄSTÖLASKELMA", props.Text{
					Size:  22,
					Style: fontstyle.Bold,
					Color: colorAccent,
				}),
				text.New(data.Title, props.Text{
					Size:  10,
					Color: colorSecondary,
					Top:   11,
				}),
			),
			col.New(4).Add(
				text.New(data.Reference, props.Text{
					Size:  9,
					Align: align.Right,
					Color: colorSecondary,
					Top:   2,
				}),
				text.New(data.CreatedAt.Format("2.1.2006"), props.Text{
					Size:  9,
					Align: align.Right,
					Color: colorSecondary,
					Top:   7,
				}),
			),
		),
	}
}

// ── Intro text ──────────────────────────────────────────────────────────

func buildIntro(data Data) []core.Row {
	return []core.Row{
		row.New(16).Add(
			col.New(12).Add(
				text.New(data.Intro, props.Text{
					Size:  9,
					Color: colorPrimary,
				}),
			),
		),
	}
}

// ── Comparison table ────────────────────────────────────────────────────

func buildComparisonTable(data Data) []core.Row {
	rows := []core.Row{
		row.New(7).Add(
			col.New(12).Add(text.New("VERTAILU", props.Text{
				Size:  8,
				Style: fontstyle.Bold,
				Color: colorAccent,
			})),
		),
	}

	headerStyle := props.Text{Size: 7.5, Style: fontstyle.Bold, Color: colorPrimary, Top: 1.5}
	headerStyleRight := props.Text{Size: 7.5, Style: fontstyle.Bold, Color: colorPrimary, Align: align.Right, Top: 1.5}

	rows = append(rows, row.New(7).Add(
		col.New(6).Add(text.New("", headerStyle)),
		col.New(3).Add(text.New("Nykyinen", headerStyleRight)),
		col.New(3).Add(text.New("Lämpöpumppu", headerStyleRight)),
	).WithStyle(&props.Cell{
		BackgroundColor: colorTableHead,
		BorderType:      border.Bottom,
		BorderColor:     colorBorder,
	}))

	normalStyle := props.Text{Size: 8, Color: colorPrimary, Top: 1}
	rightStyle := props.Text{Size: 8, Color: colorPrimary, Align: align.Right, Top: 1}

	for i, r := range data.Rows {
		tableRow := row.New(7).Add(
			col.New(6).Add(text.New(r.Label, normalStyle)),
			col.New(3).Add(text.New(r.Current, rightStyle)),
			col.New(3).Add(text.New(r.New, rightStyle)),
		)
		if i%2 == 0 {
			tableRow.WithStyle(&props.Cell{BackgroundColor: colorTableAlt})
		}
		rows = append(rows, tableRow)
	}

	return rows
}

// ── Consumption block ───────────────────────────────────────────────────

// buildConsumptionBlock renders the strategy-specific consumption lines.
// The strategy decides which rows appear; values come from the field map.
func buildConsumptionBlock(input PDFInput) []core.Row {
	strategy := calc.ByName(input.Metrics.Current.Strategy)

	rows := []core.Row{
		row.New(7).Add(
			col.New(12).Add(text.New("NYKYINEN KULUTUS", props.Text{
				Size:  8,
				Style: fontstyle.Bold,
				Color: colorAccent,
			})),
		),
	}

	labelStyle := props.Text{Size: 8, Color: colorSecondary, Top: 1}
	valueStyle := props.Text{Size: 8, Color: colorPrimary, Align: align.Right, Top: 1}

	for _, pdfRow := range strategy.PDFRows() {
		value := "-"
		if raw, ok := metricValue(input.Metrics, pdfRow.Key); ok {
			value = numeric.Format(float64(raw), 0)
			if pdfRow.Unit != "" {
				value += " " + pdfRow.Unit
			}
		}
		rows = append(rows, row.New(6).Add(
			col.New(8).Add(text.New(pdfRow.Label, labelStyle)),
			col.New(4).Add(text.New(value, valueStyle)),
		))
	}

	return rows
}

// metricValue maps a PDF row key onto the computed metrics.
func metricValue(m calc.Metrics, key string) (int, bool) {
	switch key {
	case "annualCost":
		return m.Current.Cost.Year1, true
	case "annualCo2":
		return m.Current.CO2KgYear, true
	case "oilLiters":
		if m.Current.Consumption.OilLiters != nil {
			return *m.Current.Consumption.OilLiters, true
		}
	case "gasCubicM":
		if m.Current.Consumption.GasCubicM != nil {
			return *m.Current.Consumption.GasCubicM, true
		}
	case "woodStackedM3":
		if m.Current.Consumption.WoodStackedM3 != nil {
			return *m.Current.Consumption.WoodStackedM3, true
		}
	}
	return 0, false
}

// ── Footer ──────────────────────────────────────────────────────────────

func buildFooter(data Data) core.Row {
	return row.New(8).Add(
		col.New(12).Add(
			text.New("Laskelma perustuu antamiisi tietoihin ja keskimääräisiin energiahintoihin. "+
				"Tulokset ovat suuntaa-antavia.", props.Text{
				Size:  7,
				Color: colorSecondary,
				Align: align.Center,
			}),
		),
	)
}
