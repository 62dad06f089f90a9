package ast

// SearchMask constrains which kind of declaration a name lookup may
// resolve to, letting the resolver disambiguate "foo" used as a type
// name from "foo" used as a value in the same scope (spec.md §4.2).
// Masks combine with bitwise OR.
type SearchMask int

const (
	SearchValues SearchMask = 1 << iota
	SearchTypes
	SearchEndpoints
	SearchProcessors
	SearchNamespaces

	SearchAny = SearchValues | SearchTypes | SearchEndpoints | SearchProcessors | SearchNamespaces
)

// Scope is a lexical binding environment: function bodies, blocks,
// namespaces, processors, and graphs each open one. Scopes form a tree
// via Parent; name resolution walks up the tree applying mask filters
// at each level (spec.md §4.2, §9's "scope tree" design note).
type Scope struct {
	Parent   *Scope
	Bindings map[string]Decl
}

// NewScope creates a child scope of parent (nil for the root).
func NewScope(parent *Scope) *Scope {
	return &Scope{Parent: parent, Bindings: make(map[string]Decl)}
}

// Declare binds name to decl in this scope, returning false if name is
// already bound here (a redeclaration, which the resolver reports as a
// diagnostic rather than silently shadowing).
func (s *Scope) Declare(name string, decl Decl) bool {
	if _, exists := s.Bindings[name]; exists {
		return false
	}
	s.Bindings[name] = decl
	return true
}

// Lookup searches this scope and its ancestors for name, returning the
// nearest binding.
func (s *Scope) Lookup(name string) (Decl, bool) {
	for sc := s; sc != nil; sc = sc.Parent {
		if d, ok := sc.Bindings[name]; ok {
			return d, true
		}
	}
	return nil, false
}

// LookupLocal searches only this scope, not its ancestors.
func (s *Scope) LookupLocal(name string) (Decl, bool) {
	d, ok := s.Bindings[name]
	return d, ok
}
