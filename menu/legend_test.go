package menu

import "testing"

func TestParseLegend(t *testing.T) {
	legend := ParseLegend("28 Soja 29 Sellerie")

	if got := legend["soja"]; got != "28" {
		t.Errorf("soja = %q, want 28", got)
	}
	if got := legend["sellerie"]; got != "29" {
		t.Errorf("sellerie = %q, want 29", got)
	}
}

func TestParseLegendFirstWordAlias(t *testing.T) {
	legend := ParseLegend("3a Weizen glutenhaltig 4 Erdnüsse")

	if got := legend["weizen glutenhaltig"]; got != "3a" {
		t.Errorf("full name = %q, want 3a", got)
	}
	if got := legend["weizen"]; got != "3a" {
		t.Errorf("first word = %q, want 3a", got)
	}
	if got := legend["erdnüsse"]; got != "4" {
		t.Errorf("erdnüsse = %q, want 4", got)
	}
}

func TestParseLegendCleansNames(t *testing.T) {
	legend := ParseLegend("12 Senf (auch in Spuren): 13 Sesam")

	if got := legend["senf"]; got != "12" {
		t.Errorf("senf = %q, want 12; parenthetical and colon should be stripped", got)
	}
	if got := legend["sesam"]; got != "13" {
		t.Errorf("sesam = %q, want 13", got)
	}
}

func TestParseLegendDropsShortNames(t *testing.T) {
	legend := ParseLegend("7 Ei 8 Milch")

	if _, ok := legend["ei"]; ok {
		t.Error("two-character name should be discarded as noise")
	}
	if got := legend["milch"]; got != "8" {
		t.Errorf("milch = %q, want 8", got)
	}
}

func TestParseLegendLastWriteWins(t *testing.T) {
	legend := ParseLegend("1 Gluten 2 Gluten")

	if got := legend["gluten"]; got != "2" {
		t.Errorf("gluten = %q, want 2 (last entry wins)", got)
	}
}

func TestResolve(t *testing.T) {
	legend := ParseLegend("28 Soja 29 Sellerie")

	codes, missing := legend.Resolve([]string{"  Soja ", "gluten"})
	if !codes["28"] {
		t.Error("expected 'Soja' to resolve to code 28 despite case and whitespace")
	}
	if len(codes) != 1 {
		t.Errorf("expected 1 resolved code, got %d", len(codes))
	}
	if len(missing) != 1 || missing[0] != "gluten" {
		t.Errorf("missing = %v, want [gluten]", missing)
	}
}
