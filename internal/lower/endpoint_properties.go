package lower

import (
	"signalcore/internal/ast"
	"signalcore/internal/ir"
)

// lowerEndpointProperties extracts the parameter-property schema
// spec.md §6 derives from an endpoint's annotations (grounded on
// soul_EndpointType.cpp's EndpointDetails constructor, which reads the
// same fixed key set off an Annotation). Returns nil when the
// endpoint has no annotations at all, so a plain unannotated endpoint
// costs nothing downstream.
func lowerEndpointProperties(anns []*ast.Annotation) *ir.EndpointProperties {
	if len(anns) == 0 {
		return nil
	}
	return &ir.EndpointProperties{
		Name:        annotationString(anns, "name"),
		Unit:        annotationString(anns, "unit"),
		Group:       annotationString(anns, "group"),
		Text:        annotationString(anns, "text"),
		Min:         annotationFloat(anns, "min", 0),
		Max:         annotationFloat(anns, "max", 0),
		Step:        annotationFloat(anns, "step", 0),
		Init:        annotationFloat(anns, "init", 0),
		RampFrames:  annotationInt(anns, "rampFrames"),
		Automatable: annotationBool(anns, "automatable", true),
		Boolean:     annotationBool(anns, "boolean", false),
		Hidden:      annotationBool(anns, "hidden", false),
	}
}

func findAnnotationLiteral(anns []*ast.Annotation, name string) (*ast.Literal, bool) {
	for _, a := range anns {
		if a.Name != name || len(a.Args) != 1 {
			continue
		}
		if lit, ok := a.Args[0].(*ast.Literal); ok {
			return lit, true
		}
	}
	return nil, false
}

func annotationString(anns []*ast.Annotation, name string) string {
	lit, ok := findAnnotationLiteral(anns, name)
	if !ok || lit.LitKind != ast.StringLit {
		return ""
	}
	return lit.Str
}

func annotationFloat(anns []*ast.Annotation, name string, def float64) float64 {
	lit, ok := findAnnotationLiteral(anns, name)
	if !ok {
		return def
	}
	switch lit.LitKind {
	case ast.FloatLit:
		return lit.Float
	case ast.IntLit:
		return float64(lit.Int)
	default:
		return def
	}
}

func annotationInt(anns []*ast.Annotation, name string) int64 {
	lit, ok := findAnnotationLiteral(anns, name)
	if !ok {
		return 0
	}
	switch lit.LitKind {
	case ast.IntLit:
		return lit.Int
	case ast.FloatLit:
		return int64(lit.Float)
	default:
		return 0
	}
}

func annotationBool(anns []*ast.Annotation, name string, def bool) bool {
	lit, ok := findAnnotationLiteral(anns, name)
	if !ok || lit.LitKind != ast.BoolLit {
		return def
	}
	return lit.Bool
}
