package validator

import (
	"signalcore/internal/ast"
	"signalcore/internal/diagnostics"
)

// CheckGraphRecursion performs a depth-first descent through g's
// processor instances, rejecting a graph that instantiates itself
// (directly or transitively). Only instances whose target resolved to a
// GraphDecl are followed, and connection delays play no part here.
// The visit set is a threaded map passed down the call stack rather
// than a recursion-depth counter, following the same shape as
// internal/types.StructType.ContainsSelf's structContains (spec.md §9).
func (v *Validator) CheckGraphRecursion(g *ast.GraphDecl) {
	visitGraphInstances(g, map[string]bool{g.Name: true}, []string{g.Name}, v)
}

func visitGraphInstances(g *ast.GraphDecl, visiting map[string]bool, path []string, v *Validator) {
	for _, inst := range g.Instances {
		name, ok := identName(inst.ProcessorRef)
		if !ok {
			continue
		}
		target := resolvedGraph(inst)
		if target == nil {
			continue
		}
		if visiting[target.Name] {
			v.diags.Add(diagnostics.RecursiveGraphDiag(inst.Loc(), append(append([]string{}, path...), target.Name)))
			continue
		}
		visiting[target.Name] = true
		visitGraphInstances(target, visiting, append(path, name), v)
		delete(visiting, target.Name)
	}
}

// resolvedGraph returns inst's target as a *ast.GraphDecl if the
// resolver bound inst.ProcessorRef to one (a plain ProcessorDecl target
// can never recurse back into a graph, since processors cannot
// instantiate other modules).
func resolvedGraph(inst *ast.ProcessorInstanceDecl) *ast.GraphDecl {
	id, ok := inst.ProcessorRef.(*ast.Identifier)
	if !ok || id.Resolved == nil {
		return nil
	}
	g, _ := id.Resolved.(*ast.GraphDecl)
	return g
}

// CheckFeedbackCycles builds a node-per-instance graph with an edge for
// every connection whose DelayFrames is nil (zero delay), then runs a
// DFS with a visited stack over it; a re-entry before leaving the
// current path is a feedback cycle with no delay to break it (spec.md
// §4.4). A connection carrying a delay never contributes an edge, so a
// cycle that routes through one is never flagged.
func (v *Validator) CheckFeedbackCycles(g *ast.GraphDecl) {
	edges := make(map[string][]connEdge)
	for _, conn := range g.Connections {
		if conn.DelayFrames != nil {
			continue
		}
		from, ok := instanceNameOf(conn.From)
		to, ok2 := instanceNameOf(conn.To)
		if !ok || !ok2 {
			continue
		}
		edges[from] = append(edges[from], connEdge{to: to, node: conn})
	}

	visiting := make(map[string]bool)
	done := make(map[string]bool)
	for _, inst := range g.Instances {
		if done[inst.Name] {
			continue
		}
		dfsFeedback(inst.Name, edges, visiting, done, []string{inst.Name}, v)
	}
}

type connEdge struct {
	to   string
	node ast.Node
}

func dfsFeedback(name string, edges map[string][]connEdge, visiting, done map[string]bool, path []string, v *Validator) {
	visiting[name] = true
	for _, edge := range edges[name] {
		if visiting[edge.to] {
			v.diags.Add(diagnostics.FeedbackCycle(edge.node.Loc(), append(append([]string{}, path...), edge.to)))
			continue
		}
		if done[edge.to] {
			continue
		}
		dfsFeedback(edge.to, edges, visiting, done, append(path, edge.to), v)
	}
	visiting[name] = false
	done[name] = true
}

// instanceNameOf extracts the processor-instance name an endpoint
// reference expression (`instance.endpoint` or `instance.endpoint[i]`)
// addresses.
func instanceNameOf(e ast.Expr) (string, bool) {
	switch n := e.(type) {
	case *ast.Member:
		return instanceNameOf(n.Base)
	case *ast.Index:
		return instanceNameOf(n.Base)
	case *ast.Identifier:
		return n.Name, true
	default:
		return "", false
	}
}
