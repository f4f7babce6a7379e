package numeric

import (
	"math"
	"strings"
	"testing"
)

func TestParse_CommaDecimal(t *testing.T) {
	if got := Parse("2500,5"); got != 2500.5 {
		t.Fatalf("expected 2500.5, got %v", got)
	}
}

func TestParse_SpaceThousandSeparator(t *testing.T) {
	if got := Parse("2 500,5"); got != 2500.5 {
		t.Fatalf("expected 2500.5, got %v", got)
	}
	if got := Parse("1 234 567"); got != 1234567 {
		t.Fatalf("expected 1234567, got %v", got)
	}
}

func TestParse_Total(t *testing.T) {
	cases := []struct {
		name  string
		input any
		want  float64
	}{
		{"nil", nil, 0},
		{"empty string", "", 0},
		{"whitespace", "   ", 0},
		{"garbage", "ei tiedossa", 0},
		{"plain float", 12.5, 12.5},
		{"int", 42, 42},
		{"nan", math.NaN(), 0},
		{"inf", math.Inf(1), 0},
		{"dot decimal", "3.14", 3.14},
	}

	for _, tc := range cases {
		if got := Parse(tc.input); got != tc.want {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
		if math.IsNaN(Parse(tc.input)) {
			t.Fatalf("%s: Parse returned NaN", tc.name)
		}
	}
}

func TestParseInt(t *testing.T) {
	if got := ParseInt("1987"); got != 1987 {
		t.Fatalf("expected 1987, got %d", got)
	}
	if got := ParseInt("12,9"); got != 12 {
		t.Fatalf("expected truncation to 12, got %d", got)
	}
}

func TestFormat_GuardsNonFinite(t *testing.T) {
	if got := Format(math.NaN(), 0); got != "0" {
		t.Fatalf("expected \"0\" for NaN, got %q", got)
	}
	if got := Format(math.Inf(-1), 2); got != "0" {
		t.Fatalf("expected \"0\" for -Inf, got %q", got)
	}
}

func TestFormat_FinnishConventions(t *testing.T) {
	got := Format(1234.5, 1)
	// fi-FI: comma decimal, non-breaking-space grouping
	if !strings.Contains(got, ",5") {
		t.Fatalf("expected comma decimal in %q", got)
	}
	if strings.Contains(got, ".") {
		t.Fatalf("unexpected dot in %q", got)
	}
}

func TestParse_FormatRoundTrip(t *testing.T) {
	values := []float64{0, 1, 999, 1000, 2500.5, 123456.7}
	for _, v := range values {
		formatted := Format(v, 1)
		parsed := Parse(formatted)
		if math.Abs(parsed-v) > 0.05 {
			t.Fatalf("round trip of %v via %q yielded %v", v, formatted, parsed)
		}
	}
}

func TestFormatCurrency(t *testing.T) {
	got := FormatCurrency(1000)
	if !strings.HasSuffix(got, "€") {
		t.Fatalf("expected trailing euro sign in %q", got)
	}
	if Parse(strings.TrimSuffix(got, " €")) != 1000 {
		t.Fatalf("currency string %q does not parse back to 1000", got)
	}
}
