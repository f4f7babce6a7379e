package lookups

import (
	"context"
	"errors"
	"testing"

	"lampolaskuri_backend/internal/formula"
)

type fakeRepo struct {
	lookups  map[string]any
	formulas []formula.Formula
	err      error
}

func (f *fakeRepo) ListLookups(ctx context.Context) (map[string]any, error) {
	return f.lookups, f.err
}

func (f *fakeRepo) ListFormulas(ctx context.Context) ([]formula.Formula, error) {
	return f.formulas, f.err
}

func TestSnapshotDefaults(t *testing.T) {
	svc, err := New(nil, "", nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	snap := svc.Snapshot(context.Background())

	if got := snap.float("oljyn_hinta"); got != 1.3 {
		t.Fatalf("oljyn_hinta = %v, want 1.3", got)
	}
	if _, ok := snap.Formulas["saasto-1v"]; !ok {
		t.Fatalf("embedded formula saasto-1v missing")
	}

	lc := snap.CalcContext()
	if lc.ElectricityPricePerKWh != 0.15 {
		t.Fatalf("electricity price = %v, want 0.15", lc.ElectricityPricePerKWh)
	}
	if lc.OilCO2PerLiter != 2.66 {
		t.Fatalf("oil co2 = %v, want 2.66", lc.OilCO2PerLiter)
	}
}

func TestSnapshotDatabaseOverlay(t *testing.T) {
	repo := &fakeRepo{
		lookups: map[string]any{"oljyn_hinta": 1.55, "uusi_arvo": 42.0},
		formulas: []formula.Formula{
			{Name: "saasto-1v", Expression: "data.a - data.b"},
			{Name: "oma-kaava", Expression: "1 + 1"},
		},
	}
	svc, err := New(repo, "", nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	snap := svc.Snapshot(context.Background())

	if got := snap.float("oljyn_hinta"); got != 1.55 {
		t.Fatalf("db overlay lost: oljyn_hinta = %v, want 1.55", got)
	}
	if got := snap.float("uusi_arvo"); got != 42 {
		t.Fatalf("db-only lookup missing: %v", got)
	}
	if snap.Formulas["saasto-1v"].Expression != "data.a - data.b" {
		t.Fatalf("db formula did not replace embedded one")
	}
	if _, ok := snap.Formulas["oma-kaava"]; !ok {
		t.Fatalf("db-only formula missing")
	}
}

func TestSnapshotRepositoryFailureKeepsDefaults(t *testing.T) {
	repo := &fakeRepo{err: errors.New("connection refused")}
	svc, err := New(repo, "", nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	snap := svc.Snapshot(context.Background())

	if got := snap.float("oljyn_hinta"); got != 1.3 {
		t.Fatalf("defaults lost on repo failure: oljyn_hinta = %v", got)
	}
	if len(snap.Formulas) == 0 {
		t.Fatalf("embedded formulas lost on repo failure")
	}
}
