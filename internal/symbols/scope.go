package symbols

import (
	"decaf/internal/ast"
	"decaf/internal/source"
)

// ScopeKind mirrors the kind of declaration that owns the scope.
type ScopeKind uint8

const (
	ScopeInvalid ScopeKind = iota
	ScopeClass
	ScopeInterface
	ScopeFunction
)

func (k ScopeKind) String() string {
	switch k {
	case ScopeClass:
		return "class"
	case ScopeInterface:
		return "interface"
	case ScopeFunction:
		return "function"
	default:
		return "invalid"
	}
}

// Entry is one name binding in insertion order.
type Entry struct {
	Name source.StringID
	Decl ast.DeclID
}

// Scope is a single-level name -> declaration map. The first binding of a
// name wins; Enter never overwrites.
type Scope struct {
	Kind   ScopeKind
	Owner  ast.DeclID
	Parent ScopeID // scope of the enclosing declaration, if any
	Span   source.Span

	names   map[source.StringID]ast.DeclID
	entries []Entry
	filled  bool
}

func newScope(kind ScopeKind, owner ast.DeclID, parent ScopeID, span source.Span) Scope {
	return Scope{
		Kind:   kind,
		Owner:  owner,
		Parent: parent,
		Span:   span,
		names:  make(map[source.StringID]ast.DeclID),
	}
}

// Enter binds name to decl if name is absent and reports whether it did.
func (s *Scope) Enter(name source.StringID, decl ast.DeclID) bool {
	if _, exists := s.names[name]; exists {
		return false
	}
	s.names[name] = decl
	s.entries = append(s.entries, Entry{Name: name, Decl: decl})
	return true
}

func (s *Scope) Lookup(name source.StringID) (ast.DeclID, bool) {
	decl, ok := s.names[name]
	return decl, ok
}

// Entries returns bindings in the order they were entered.
func (s *Scope) Entries() []Entry {
	return s.entries
}

func (s *Scope) Len() int {
	return len(s.entries)
}

// Filled reports whether declaration analysis already populated the scope.
func (s *Scope) Filled() bool {
	return s.filled
}
