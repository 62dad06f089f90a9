package ir

import (
	"fmt"
	"sort"
	"strings"
)

// FormatModule returns a readable text dump of the module, printed by
// cmd/signalcorec after a successful compile, hashed by program.Hash,
// and used by tests asserting on lowering output shape rather than
// walking the IR tree by hand. Event functions are written in name
// order, so the text does not depend on map iteration order.
func FormatModule(mod *Module) string {
	if mod == nil {
		return ""
	}
	var b strings.Builder
	for _, p := range mod.Processors {
		writeProcessor(&b, p)
	}
	for _, fn := range mod.Functions {
		b.WriteString("\n")
		writeFunction(&b, fn)
	}
	return b.String()
}

func writeProcessor(b *strings.Builder, p *Processor) {
	fmt.Fprintf(b, "processor %s {\n", p.Name)
	for _, ep := range p.Endpoints {
		fmt.Fprintf(b, "  endpoint %s: %s\n", ep.Name, ep.Type.String())
	}
	for _, sv := range p.StateVars {
		fmt.Fprintf(b, "  statevar %s: %s external=%v\n", sv.Name, sv.Type.String(), sv.External)
	}
	for _, inst := range p.Instances {
		fmt.Fprintf(b, "  instance %s: %s\n", inst.Name, inst.Processor.Name)
	}
	for _, conn := range p.Connections {
		fmt.Fprintf(b, "  connect %s.%s -> %s.%s (delay=%d, interp=%s, clock=%d/%d)\n",
			conn.From.Instance, conn.From.Endpoint, conn.To.Instance, conn.To.Endpoint,
			conn.DelayFrames, conn.Interpolation, conn.ClockMultiplier, conn.ClockDivider)
	}
	if p.Init != nil {
		b.WriteString("\n  init ")
		writeFunction(b, p.Init)
	}
	if p.Run != nil {
		b.WriteString("\n  run ")
		writeFunction(b, p.Run)
	}
	names := make([]string, 0, len(p.Events))
	for name := range p.Events {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(b, "\n  event %s ", name)
		writeFunction(b, p.Events[name])
	}
	b.WriteString("}\n")
}

func writeFunction(b *strings.Builder, fn *Function) {
	fmt.Fprintf(b, "func %s() {\n", fn.Name)
	for _, blk := range fn.Blocks {
		fmt.Fprintf(b, "%s:\n", blk.Name)
		for _, s := range blk.Stmts {
			fmt.Fprintf(b, "    %s\n", formatStmt(s))
		}
		fmt.Fprintf(b, "    %s\n", formatTerm(blk.Term))
	}
	b.WriteString("}\n")
}

func formatStmt(s Statement) string {
	switch v := s.(type) {
	case *Assign:
		return fmt.Sprintf("local.%d = %s", v.Target, formatExpr(v.Value))
	case *StateVarAssign:
		return fmt.Sprintf("state.%d = %s", v.Target, formatExpr(v.Value))
	case *EndpointWrite:
		name := v.Endpoint
		if v.Instance != "" {
			name = v.Instance + "." + v.Endpoint
		}
		return fmt.Sprintf("%s <- %s", name, formatExpr(v.Value))
	case *CallStmt:
		return fmt.Sprintf("call %s(...)", v.Func.Name)
	case *AdvanceClock:
		return "advance_clock"
	case *IndexAssign:
		return fmt.Sprintf("%s[%s] = %s", formatExpr(v.Base), formatExpr(v.Index), formatExpr(v.Value))
	case *FieldAssign:
		return fmt.Sprintf("%s.%s = %s", formatExpr(v.Base), v.Field, formatExpr(v.Value))
	default:
		return "<unknown stmt>"
	}
}

func formatTerm(t Terminator) string {
	switch v := t.(type) {
	case *Jump:
		return fmt.Sprintf("jump %d", v.Target)
	case *Branch:
		return fmt.Sprintf("branch %s -> %d, %d", formatExpr(v.Cond), v.Then, v.Else)
	case *Return:
		if v.Value == nil {
			return "return"
		}
		return fmt.Sprintf("return %s", formatExpr(v.Value))
	case *Unreachable:
		return "unreachable"
	default:
		return "<unknown term>"
	}
}

func formatExpr(e Expr) string {
	switch v := e.(type) {
	case *ConstExpr:
		return v.Value.Type.String()
	case *LocalRef:
		return fmt.Sprintf("local.%d", v.ID)
	case *StateVarRef:
		return fmt.Sprintf("state.%d", v.ID)
	case *EndpointRead:
		if v.Instance != "" {
			return v.Instance + "." + v.Endpoint
		}
		return v.Endpoint
	case *Binary:
		return fmt.Sprintf("(%s %d %s)", formatExpr(v.Left), v.Op, formatExpr(v.Right))
	case *Unary:
		return fmt.Sprintf("(%d %s)", v.Op, formatExpr(v.Operand))
	case *Cast:
		return fmt.Sprintf("cast<%s>(%s)", v.Type.String(), formatExpr(v.Operand))
	case *Call:
		return fmt.Sprintf("%s(...)", v.Func.Name)
	case *Ternary:
		return fmt.Sprintf("(%s ? %s : %s)", formatExpr(v.Cond), formatExpr(v.Then), formatExpr(v.Else))
	case *Aggregate:
		parts := make([]string, len(v.Elements))
		for i, el := range v.Elements {
			parts[i] = formatExpr(el)
		}
		return fmt.Sprintf("%s{%s}", v.Type.String(), strings.Join(parts, ", "))
	case *PropertyRead:
		if v.Instance == "" {
			return v.Property
		}
		return fmt.Sprintf("%s.%s", v.Instance, v.Property)
	case *Index:
		return fmt.Sprintf("%s[%s]", formatExpr(v.Base), formatExpr(v.Index))
	case *FieldRead:
		return fmt.Sprintf("%s.%s", formatExpr(v.Base), v.Field)
	case *Slice:
		low, high := "", ""
		if v.Low != nil {
			low = formatExpr(v.Low)
		}
		if v.High != nil {
			high = formatExpr(v.High)
		}
		return fmt.Sprintf("%s[%s:%s]", formatExpr(v.Base), low, high)
	default:
		return "<unknown expr>"
	}
}
