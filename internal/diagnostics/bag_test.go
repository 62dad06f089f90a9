package diagnostics

import (
	"strings"
	"testing"

	"signalcore/internal/source"
)

func TestBagCountsBySeverity(t *testing.T) {
	bag := NewBag()
	loc := source.NewLocation("f.sig", source.Position{Line: 1, Column: 1}, source.Position{Line: 1, Column: 2})

	bag.Add(NewError(UnresolvedSymbol, "boom").WithPrimaryLabel(loc, ""))
	bag.Add(NewWarning(ComparisonAlwaysTrue, "always true"))

	if !bag.HasErrors() {
		t.Fatal("expected HasErrors to be true")
	}
	if bag.ErrorCount() != 1 || bag.WarningCount() != 1 {
		t.Fatalf("got errors=%d warnings=%d, want 1/1", bag.ErrorCount(), bag.WarningCount())
	}
	if len(bag.Diagnostics()) != 2 {
		t.Fatalf("got %d diagnostics, want 2", len(bag.Diagnostics()))
	}
}

func TestBagClear(t *testing.T) {
	bag := NewBag()
	bag.Add(NewError(UnresolvedSymbol, "boom"))
	bag.Clear()

	if bag.HasErrors() || len(bag.Diagnostics()) != 0 {
		t.Fatal("expected bag to be empty after Clear")
	}
}

func TestEmitAllToStringIncludesMessageAndSummary(t *testing.T) {
	bag := NewBag()
	bag.AddSourceContent("f.sig", "processor P {}\n")
	loc := source.NewLocation("f.sig", source.Position{Line: 1, Column: 1}, source.Position{Line: 1, Column: 10})
	bag.Add(NewError(ProcessorNeedsOutput, "processor 'P' declares no output").WithPrimaryLabel(loc, "no output endpoint"))

	out := bag.EmitAllToString()
	if !strings.Contains(out, "no output") {
		t.Errorf("expected rendered output to contain the label message, got:\n%s", out)
	}
	if !strings.Contains(out, "1 error") {
		t.Errorf("expected summary to mention 1 error, got:\n%s", out)
	}
}

func TestDiagnosticBuildersAttachTrail(t *testing.T) {
	loc := source.NewLocation("f.sig", source.Position{Line: 2, Column: 3}, source.Position{Line: 2, Column: 4})
	d := Unresolved(loc, "foo").WithCallSite("in specialisation of f<i32>")

	if len(d.Trail) != 1 {
		t.Fatalf("expected one trail frame, got %d", len(d.Trail))
	}
	if d.Code != UnresolvedSymbol {
		t.Fatalf("got code %s, want %s", d.Code, UnresolvedSymbol)
	}
}
