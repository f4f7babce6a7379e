// Package lookups supplies the read-only lookup and formula snapshot one
// calculation or report resolution runs against. Values come from three
// layers: embedded defaults, an optional overrides file, and admin-edited
// database rows — later layers win by name.
package lookups

import (
	"context"
	_ "embed"
	"fmt"
	"os"

	"lampolaskuri_backend/internal/calc"
	"lampolaskuri_backend/internal/formula"
	"lampolaskuri_backend/platform/logger"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Snapshot is one immutable view of the lookup and formula tables.
type Snapshot struct {
	Lookups  map[string]any
	Formulas map[string]formula.Formula
}

// CalcContext maps the named lookups onto the calculation engine's context.
// Missing or non-numeric entries fall back inside the engine.
func (s Snapshot) CalcContext() calc.LookupContext {
	return calc.LookupContext{
		ElectricityPricePerKWh: s.float("sahkon_hinta"),
		OilPricePerLiter:       s.float("oljyn_hinta"),
		GasPricePerMWh:         s.float("kaasun_hinta"),
		OilCO2PerLiter:         s.float("oljy_co2"),
		GasCO2PerKWh:           s.float("kaasu_co2"),
		ElectricityCO2PerKWh:   s.float("sahko_co2"),
	}
}

func (s Snapshot) float(name string) float64 {
	switch v := s.Lookups[name].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	default:
		return 0
	}
}

type yamlFile struct {
	Lookups  map[string]any    `yaml:"lookups"`
	Formulas []formula.Formula `yaml:"formulas"`
}

// Repository is the subset of store access the service needs.
type Repository interface {
	ListLookups(ctx context.Context) (map[string]any, error)
	ListFormulas(ctx context.Context) ([]formula.Formula, error)
}

// Service builds snapshots. Callers may cache the snapshot; the service
// itself performs a fresh read per call.
type Service struct {
	repo      Repository
	overrides yamlFile
	log       *logger.Logger
}

// New creates the lookup service. overridesFile may be empty; when set, it is
// loaded once and layered over the embedded defaults.
func New(repo Repository, overridesFile string, log *logger.Logger) (*Service, error) {
	svc := &Service{repo: repo, log: log}

	if overridesFile != "" {
		raw, err := os.ReadFile(overridesFile)
		if err != nil {
			return nil, fmt.Errorf("read lookup overrides: %w", err)
		}
		if err := yaml.Unmarshal(raw, &svc.overrides); err != nil {
			return nil, fmt.Errorf("parse lookup overrides: %w", err)
		}
	}

	return svc, nil
}

// Snapshot returns the merged view. Database errors degrade to the static
// layers: the calculation pipeline must stay usable when the store is down.
func (s *Service) Snapshot(ctx context.Context) Snapshot {
	snapshot := Snapshot{
		Lookups:  make(map[string]any),
		Formulas: make(map[string]formula.Formula),
	}

	var defaults yamlFile
	if err := yaml.Unmarshal(defaultsYAML, &defaults); err == nil {
		merge(&snapshot, defaults)
	}
	merge(&snapshot, s.overrides)

	if s.repo != nil {
		if dbLookups, err := s.repo.ListLookups(ctx); err != nil {
			if s.log != nil {
				s.log.DatabaseError("lookups.list", err)
			}
		} else {
			for name, value := range dbLookups {
				snapshot.Lookups[name] = value
			}
		}

		if dbFormulas, err := s.repo.ListFormulas(ctx); err != nil {
			if s.log != nil {
				s.log.DatabaseError("formulas.list", err)
			}
		} else {
			for _, f := range dbFormulas {
				snapshot.Formulas[f.Name] = f
			}
		}
	}

	return snapshot
}

func merge(snapshot *Snapshot, layer yamlFile) {
	for name, value := range layer.Lookups {
		snapshot.Lookups[name] = value
	}
	for _, f := range layer.Formulas {
		snapshot.Formulas[f.Name] = f
	}
}
