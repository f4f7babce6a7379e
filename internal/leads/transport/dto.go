package transport

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Canonical form field keys. The public form has gone through several
// front-end rewrites; legacy keys are mapped onto these by the normalizer.
const (
	FieldHeatingType      = "lammitysmuoto"
	FieldFloorArea        = "pinta_ala"
	FieldCeilingHeight    = "huonekorkeus"
	FieldConstructionYear = "rakennusvuosi"
	FieldResidents        = "asukkaita"
	FieldTotalConsumption = "kokonaismenekki"
	FieldAnnualCost       = "vuosikustannus"
	FieldEnergyNeed       = "energiantarve"
	FieldOilPrice         = "oljyn_hinta"
	FieldName             = "nimi"
	FieldEmail            = "email"
	FieldPhone            = "puhelin"
)

// LeadInput is the raw form submission: arbitrary keys, locale-ambiguous
// values, possibly legacy field names. It is normalized before anything else
// touches it.
type LeadInput map[string]any

// LeadNormalized is the canonical lead record. Every field is either a
// concrete value or an explicit nil pointer; all numerics have been through
// the locale-tolerant parser.
type LeadNormalized struct {
	HeatingType      *string  `json:"lammitysmuoto" validate:"omitempty,max=200"`
	FloorArea        *float64 `json:"pinta_ala" validate:"omitempty,gte=0,lte=10000"`
	CeilingHeight    *float64 `json:"huonekorkeus" validate:"omitempty,gte=0,lte=10"`
	ConstructionYear *int     `json:"rakennusvuosi" validate:"omitempty,gte=0,lte=2100"`
	Residents        *int     `json:"asukkaita" validate:"omitempty,gte=0,lte=100"`
	TotalConsumption *float64 `json:"kokonaismenekki" validate:"omitempty,gte=0"`
	AnnualCost       *float64 `json:"vuosikustannus" validate:"omitempty,gte=0"`
	EnergyNeed       *float64 `json:"energiantarve" validate:"omitempty,gte=0"`
	// OilPrice is always concrete; it defaults to 1.3 €/L when the form does
	// not carry an override.
	OilPrice float64 `json:"oljyn_hinta" validate:"gte=0"`

	Name  *string `json:"nimi" validate:"omitempty,max=200"`
	Email *string `json:"email" validate:"omitempty,email"`
	Phone *string `json:"puhelin" validate:"omitempty,max=30"`
}

// HeatingTypeText returns the heating type label or "" when absent.
func (l LeadNormalized) HeatingTypeText() string {
	if l.HeatingType == nil {
		return ""
	}
	return *l.HeatingType
}

// EnergyNeedKWh returns the annual energy need or 0 when absent.
func (l LeadNormalized) EnergyNeedKWh() float64 {
	if l.EnergyNeed == nil {
		return 0
	}
	return *l.EnergyNeed
}

// Response DTOs

type SubmitLeadResponse struct {
	ID          uuid.UUID       `json:"id"`
	PublicToken string          `json:"publicToken"`
	Metrics     json.RawMessage `json:"metrics"`
}

type LeadResponse struct {
	ID          uuid.UUID       `json:"id"`
	PublicToken string          `json:"publicToken"`
	Normalized  LeadNormalized  `json:"normalized"`
	Metrics     json.RawMessage `json:"metrics"`
	Log         []string        `json:"log"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

type ListLeadsRequest struct {
	Page     int `form:"page" validate:"min=1"`
	PageSize int `form:"pageSize" validate:"min=1,max=100"`
}

type ListLeadsResponse struct {
	Items    []LeadResponse `json:"items"`
	Total    int            `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"pageSize"`
}
