package normalizer

import (
	"reflect"
	"strings"
	"testing"

	"lampolaskuri_backend/internal/leads/transport"
	"lampolaskuri_backend/platform/validator"
)

func newNormalizer() *Normalizer {
	return New(validator.New())
}

func TestNormalize_LocaleNumbers(t *testing.T) {
	n := newNormalizer()

	normalized, _ := n.Normalize(transport.LeadInput{
		"lammitysmuoto":   "Öljylämmitys",
		"kokonaismenekki": "2 500,5",
	})

	if normalized.TotalConsumption == nil || *normalized.TotalConsumption != 2500.5 {
		t.Fatalf("expected 2500.5, got %v", normalized.TotalConsumption)
	}
	if normalized.HeatingType == nil || *normalized.HeatingType != "Öljylämmitys" {
		t.Fatalf("expected heating type preserved, got %v", normalized.HeatingType)
	}
}

func TestNormalize_AliasResolution(t *testing.T) {
	n := newNormalizer()

	normalized, log := n.Normalize(transport.LeadInput{
		"vuosittainen_kustannus": "1 800",
		"lammitys":               "Puu",
	})

	if normalized.AnnualCost == nil || *normalized.AnnualCost != 1800 {
		t.Fatalf("expected aliased annual cost 1800, got %v", normalized.AnnualCost)
	}
	if normalized.HeatingType == nil || *normalized.HeatingType != "Puu" {
		t.Fatalf("expected aliased heating type, got %v", normalized.HeatingType)
	}

	foundCost := false
	for _, entry := range log {
		if entry == "alias:vuosittainen_kustannus -> vuosikustannus" {
			foundCost = true
		}
	}
	if !foundCost {
		t.Fatalf("expected alias audit entry, got %v", log)
	}
}

func TestNormalize_CanonicalKeyWinsOverAlias(t *testing.T) {
	n := newNormalizer()

	normalized, log := n.Normalize(transport.LeadInput{
		"vuosikustannus":         "2000",
		"vuosittainen_kustannus": "999",
	})

	if normalized.AnnualCost == nil || *normalized.AnnualCost != 2000 {
		t.Fatalf("canonical key should win, got %v", normalized.AnnualCost)
	}
	for _, entry := range log {
		if strings.HasPrefix(entry, "alias:") {
			t.Fatalf("no alias should be applied when canonical present, got %v", log)
		}
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	n := newNormalizer()

	canonical := transport.LeadInput{
		"lammitysmuoto":   "Öljylämmitys",
		"kokonaismenekki": "2500",
		"vuosikustannus":  "3000",
		"energiantarve":   "20000",
	}

	first, firstLog := n.Normalize(canonical)
	second, secondLog := n.Normalize(canonical)

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("normalizing canonical input twice differed: %+v vs %+v", first, second)
	}
	if len(firstLog) != 0 || len(secondLog) != 0 {
		t.Fatalf("expected empty alias log for canonical input, got %v / %v", firstLog, secondLog)
	}
}

func TestNormalize_OilPriceDefault(t *testing.T) {
	n := newNormalizer()

	normalized, _ := n.Normalize(transport.LeadInput{})
	if normalized.OilPrice != 1.3 {
		t.Fatalf("expected default oil price 1.3, got %v", normalized.OilPrice)
	}

	normalized, _ = n.Normalize(transport.LeadInput{"oljyn_hinta": "1,45"})
	if normalized.OilPrice != 1.45 {
		t.Fatalf("expected overridden oil price 1.45, got %v", normalized.OilPrice)
	}
}

func TestNormalize_ConstructionYearAsInt(t *testing.T) {
	n := newNormalizer()

	normalized, _ := n.Normalize(transport.LeadInput{"rakennusvuosi": "1987"})
	if normalized.ConstructionYear == nil || *normalized.ConstructionYear != 1987 {
		t.Fatalf("expected year 1987, got %v", normalized.ConstructionYear)
	}
}

func TestNormalize_MalformedShapeFallsBack(t *testing.T) {
	n := newNormalizer()

	normalized, log := n.Normalize(transport.LeadInput{
		"kokonaismenekki": map[string]any{"nested": true},
	})

	if normalized.TotalConsumption != nil {
		t.Fatalf("expected empty fallback record, got %v", normalized.TotalConsumption)
	}
	found := false
	for _, entry := range log {
		if entry == "input:validation_failed" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected shape failure in log, got %v", log)
	}
	// Fallback still carries defaults.
	if normalized.OilPrice != 1.3 {
		t.Fatalf("expected default oil price in fallback, got %v", normalized.OilPrice)
	}
}

func TestNormalize_InvalidValuesLoggedNotFatal(t *testing.T) {
	n := newNormalizer()

	// Negative area fails final validation but the record is still returned.
	normalized, log := n.Normalize(transport.LeadInput{"pinta_ala": "-120"})

	if normalized.FloorArea == nil || *normalized.FloorArea != -120 {
		t.Fatalf("expected partially-normalized record returned, got %v", normalized.FloorArea)
	}
	found := false
	for _, entry := range log {
		if entry == "normalized:validation_failed" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected validation failure log entry, got %v", log)
	}
}

func TestNormalize_PhoneToE164(t *testing.T) {
	n := newNormalizer()

	normalized, _ := n.Normalize(transport.LeadInput{"puhelin": "040 1234567"})
	if normalized.Phone == nil || *normalized.Phone != "+358401234567" {
		t.Fatalf("expected E.164 phone, got %v", normalized.Phone)
	}
}

func TestNormalize_EmptyStringsBecomeNil(t *testing.T) {
	n := newNormalizer()

	normalized, _ := n.Normalize(transport.LeadInput{
		"lammitysmuoto": "   ",
		"email":         "",
	})

	if normalized.HeatingType != nil {
		t.Fatalf("expected nil heating type for blank input, got %v", normalized.HeatingType)
	}
	if normalized.Email != nil {
		t.Fatalf("expected nil email for blank input, got %v", normalized.Email)
	}
}
