// Package normalizer turns raw, alias-prone form submissions into the
// canonical LeadNormalized record. Normalization is best-effort by design:
// malformed input degrades to an empty record with a diagnostic log entry,
// never an error — a bad calculation must not block capturing the lead.
package normalizer

import (
	"fmt"
	"strings"

	"lampolaskuri_backend/internal/leads/transport"
	"lampolaskuri_backend/platform/numeric"
	"lampolaskuri_backend/platform/phone"
	"lampolaskuri_backend/platform/validator"
)

// defaultOilPrice is applied when the form carries no oil price override.
const defaultOilPrice = 1.3

// aliases maps legacy form field names onto canonical keys. Applied only when
// the canonical key is absent from the submission.
var aliases = map[string]string{
	"vuosittainen_kustannus": transport.FieldAnnualCost,
	"lammitys":               transport.FieldHeatingType,
	"lammitystapa":           transport.FieldHeatingType,
	"menekki":                transport.FieldTotalConsumption,
	"pinta-ala":              transport.FieldFloorArea,
	"asuinpinta_ala":         transport.FieldFloorArea,
	"vuosikulutus_kwh":       transport.FieldEnergyNeed,
	"energiatarve":           transport.FieldEnergyNeed,
	"oljynhinta":             transport.FieldOilPrice,
	"name":                   transport.FieldName,
	"sahkoposti":             transport.FieldEmail,
	"phone":                  transport.FieldPhone,
}

// numeric canonical keys checked during shape validation.
var scalarKeys = []string{
	transport.FieldHeatingType,
	transport.FieldFloorArea,
	transport.FieldCeilingHeight,
	transport.FieldConstructionYear,
	transport.FieldResidents,
	transport.FieldTotalConsumption,
	transport.FieldAnnualCost,
	transport.FieldEnergyNeed,
	transport.FieldOilPrice,
	transport.FieldName,
	transport.FieldEmail,
	transport.FieldPhone,
}

// Normalizer applies alias resolution, coercion and validation.
type Normalizer struct {
	val *validator.Validator
}

// New creates a Normalizer using the shared validator instance.
func New(val *validator.Validator) *Normalizer {
	return &Normalizer{val: val}
}

// Normalize produces the canonical record plus an audit log of every alias
// and fallback applied. It never returns an error.
func (n *Normalizer) Normalize(input transport.LeadInput) (transport.LeadNormalized, []string) {
	log := make([]string, 0, 4)

	aliased := resolveAliases(input, &log)

	if !validShape(aliased) {
		log = append(log, "input:validation_failed")
		aliased = transport.LeadInput{}
	}

	normalized := coerce(aliased)

	if n.val != nil {
		if err := n.val.Struct(normalized); err != nil {
			// Best effort: log, keep the partially-normalized record.
			log = append(log, "normalized:validation_failed")
		}
	}

	return normalized, log
}

// resolveAliases copies input, mapping legacy keys onto canonical ones when
// the canonical key is absent. Each substitution is logged.
func resolveAliases(input transport.LeadInput, log *[]string) transport.LeadInput {
	out := make(transport.LeadInput, len(input))
	for key, value := range input {
		out[key] = value
	}

	for old, canonical := range aliases {
		value, hasOld := out[old]
		if !hasOld {
			continue
		}
		if _, hasCanonical := out[canonical]; hasCanonical {
			continue
		}
		out[canonical] = value
		*log = append(*log, fmt.Sprintf("alias:%s -> %s", old, canonical))
	}

	return out
}

// validShape is the permissive schema check: every canonical field, when
// present, must be a scalar. Unknown keys are ignored.
func validShape(input transport.LeadInput) bool {
	for _, key := range scalarKeys {
		value, ok := input[key]
		if !ok {
			continue
		}
		switch value.(type) {
		case nil, string, float64, float32, int, int64, bool:
		default:
			return false
		}
	}
	return true
}

func coerce(input transport.LeadInput) transport.LeadNormalized {
	normalized := transport.LeadNormalized{
		HeatingType:      stringField(input, transport.FieldHeatingType),
		FloorArea:        numberField(input, transport.FieldFloorArea),
		CeilingHeight:    numberField(input, transport.FieldCeilingHeight),
		ConstructionYear: intField(input, transport.FieldConstructionYear),
		Residents:        intField(input, transport.FieldResidents),
		TotalConsumption: numberField(input, transport.FieldTotalConsumption),
		AnnualCost:       numberField(input, transport.FieldAnnualCost),
		EnergyNeed:       numberField(input, transport.FieldEnergyNeed),
		OilPrice:         defaultOilPrice,
		Name:             stringField(input, transport.FieldName),
		Email:            stringField(input, transport.FieldEmail),
	}

	if raw, ok := input[transport.FieldOilPrice]; ok {
		if price := numeric.Parse(raw); price > 0 {
			normalized.OilPrice = price
		}
	}

	if phoneStr := stringField(input, transport.FieldPhone); phoneStr != nil {
		e164 := phone.NormalizeE164(*phoneStr)
		normalized.Phone = &e164
	}

	return normalized
}

func stringField(input transport.LeadInput, key string) *string {
	raw, ok := input[key]
	if !ok || raw == nil {
		return nil
	}
	s := strings.TrimSpace(fmt.Sprint(raw))
	if s == "" {
		return nil
	}
	return &s
}

func numberField(input transport.LeadInput, key string) *float64 {
	raw, ok := input[key]
	if !ok || raw == nil {
		return nil
	}
	v := numeric.Parse(raw)
	return &v
}

func intField(input transport.LeadInput, key string) *int {
	raw, ok := input[key]
	if !ok || raw == nil {
		return nil
	}
	v := numeric.ParseInt(raw)
	return &v
}
