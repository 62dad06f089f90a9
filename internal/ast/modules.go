package ast

// Annotation is a `@name(args...)` tag attached to a declaration:
// processor/graph annotations like `@main`, endpoint annotations that
// derive the parameter-property schema (name/unit/group/min/max/step/
// init/rampFrames/automatable/boolean/hidden — spec.md §6), and the
// "do not optimise" function annotation C6 respects.
type Annotation struct {
	Header
	Name string
	Args []Expr
}

func (a *Annotation) astNode() {}

// Namespace is the top-level grouping module (spec.md §3): a named
// container of nested namespaces, structs, functions, constants,
// processors, and graphs. The root of a compiled Program is an
// unnamed Namespace per file.
type Namespace struct {
	Header
	Name       string
	Namespaces []*Namespace
	Structs    []*StructDecl
	Functions  []*FunctionDecl
	Constants  []*ConstantDecl
	Processors []*ProcessorDecl
	Graphs     []*GraphDecl
	Usings     []*UsingDecl
	Scope      *Scope
}

func (n *Namespace) declNode() {}

// ProcessorDecl is a processor module: a unit with typed input/output
// endpoints, private state, and a `run` function invoked once per audio
// block (spec.md §3). Graphs may also declare a run function directly
// for the graph-level feedback path.
type ProcessorDecl struct {
	Header
	Name        string
	Generics    []string // generic type parameters, specialised by the resolver
	Annotations []*Annotation
	Endpoints   []*EndpointDecl
	StateVars   []*StateVarDecl
	Constants   []*ConstantDecl
	Structs     []*StructDecl
	Functions   []*FunctionDecl
	Scope       *Scope
}

func (p *ProcessorDecl) declNode() {}

// IsMain reports whether the processor carries the `@main` annotation
// with no argument or a true argument. `@main(false)` explicitly opts
// out, distinct from the annotation's plain absence (spec.md §6's main-
// module selection rule needs to tell the two apart: an explicit `false`
// rules the processor out even when it is the sole candidate).
func (p *ProcessorDecl) IsMain() bool {
	return mainAnnotation(p.Annotations)
}

// HasExplicitMainFalse reports whether the processor carries an
// explicit `@main(false)` annotation, as opposed to simply lacking
// `@main` altogether.
func (p *ProcessorDecl) HasExplicitMainFalse() bool {
	return explicitMainFalse(p.Annotations)
}

// RunFunction returns the processor's `run` function, or nil if absent.
func (p *ProcessorDecl) RunFunction() *FunctionDecl {
	for _, f := range p.Functions {
		if f.Name == "run" {
			return f
		}
	}
	return nil
}

// GraphDecl is a graph module: a composition of processor instances
// wired together by connections (spec.md §3). A graph behaves as a
// processor from the outside through its own declared Endpoints.
type GraphDecl struct {
	Header
	Name        string
	Annotations []*Annotation
	Endpoints   []*EndpointDecl
	Instances   []*ProcessorInstanceDecl
	Connections []*ConnectionDecl
	StateVars   []*StateVarDecl
	Functions   []*FunctionDecl
	Scope       *Scope
}

func (g *GraphDecl) declNode() {}

// IsMain is the graph analogue of ProcessorDecl.IsMain.
func (g *GraphDecl) IsMain() bool {
	return mainAnnotation(g.Annotations)
}

// HasExplicitMainFalse is the graph analogue of
// ProcessorDecl.HasExplicitMainFalse.
func (g *GraphDecl) HasExplicitMainFalse() bool {
	return explicitMainFalse(g.Annotations)
}

func mainAnnotation(anns []*Annotation) bool {
	for _, a := range anns {
		if a.Name == "main" {
			return !annotationIsFalse(a)
		}
	}
	return false
}

func explicitMainFalse(anns []*Annotation) bool {
	for _, a := range anns {
		if a.Name == "main" {
			return annotationIsFalse(a)
		}
	}
	return false
}

func annotationIsFalse(a *Annotation) bool {
	if len(a.Args) != 1 {
		return false
	}
	lit, ok := a.Args[0].(*Literal)
	return ok && lit.LitKind == BoolLit && !lit.Bool
}
