package main

import (
	"testing"

	"signalcore/internal/compiler"
)

func TestDemoNamespaceCompilesCleanly(t *testing.T) {
	res := compiler.Compile(demoNamespace())
	if res.Diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %s", res.Diags.EmitAllToString())
	}
	if res.Program == nil {
		t.Fatal("expected a Program from the demo namespace")
	}

	main, ok := res.Program.FindMain()
	if !ok || main.Name != "Gain" {
		t.Fatalf("expected Gain to be found as main, got %v, %v", main, ok)
	}
	if _, ok := res.Program.FindFunction("double"); !ok {
		t.Error("expected the free function double to survive lowering")
	}
	if _, ok := res.Program.FindVariable("tuning"); !ok {
		t.Error("expected Osc's tuning state variable to survive lowering")
	}
}

func TestOutputChannelCountCountsMainsOutEndpoints(t *testing.T) {
	res := compiler.Compile(demoNamespace())
	if res.Diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %s", res.Diags.EmitAllToString())
	}

	if got := outputChannelCount(res.Program); got != 1 {
		t.Errorf("expected Gain's single out endpoint to yield 1 channel, got %d", got)
	}
}
