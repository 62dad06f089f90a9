package ir

import (
	"strings"
	"testing"

	"signalcore/internal/types"
)

func TestFormatModuleIncludesProcessorAndBlocks(t *testing.T) {
	i32 := types.NewPrimitive(types.I32)
	fn := &Function{
		Name: "run",
		Blocks: []*Block{
			{
				Name:  "entry",
				Stmts: []Statement{&Assign{Target: 1, Value: &ConstExpr{Value: types.NewI32Value(i32, 1)}}},
				Term:  &Return{},
			},
		},
	}
	mod := &Module{
		Processors: []*Processor{
			{
				Name:      "Gain",
				Endpoints: []*EndpointInfo{{Name: "in", Type: i32}},
				Run:       fn,
			},
		},
	}
	out := FormatModule(mod)
	if !strings.Contains(out, "processor Gain") {
		t.Errorf("expected processor header, got:\n%s", out)
	}
	if !strings.Contains(out, "entry:") {
		t.Errorf("expected entry block label, got:\n%s", out)
	}
}

func TestFunctionLookupHelpers(t *testing.T) {
	local := &Local{ID: 3, Name: "x"}
	block := &Block{ID: 2, Name: "if.then"}
	fn := &Function{Locals: []*Local{local}, Blocks: []*Block{block}}

	if fn.LocalByID(3) != local {
		t.Error("LocalByID should find the matching local")
	}
	if fn.LocalByID(99) != nil {
		t.Error("LocalByID should return nil for an unknown id")
	}
	if fn.BlockByID(2) != block {
		t.Error("BlockByID should find the matching block")
	}
}
