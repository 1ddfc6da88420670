package symbols

import (
	"fmt"

	"fortio.org/safecast"

	"decaf/internal/ast"
	"decaf/internal/source"
)

// Scopes stores all allocated scopes; index 0 is the NoScopeID sentinel.
type Scopes struct {
	data []Scope
}

func NewScopes(capacity uint32) *Scopes {
	if capacity == 0 {
		capacity = 32
	}
	return &Scopes{
		data: make([]Scope, 1, capacity+1),
	}
}

func (s *Scopes) New(kind ScopeKind, owner ast.DeclID, parent ScopeID, span source.Span) ScopeID {
	value, err := safecast.Conv[uint32](len(s.data))
	if err != nil {
		panic(fmt.Errorf("scopes arena overflow: %w", err))
	}
	s.data = append(s.data, newScope(kind, owner, parent, span))
	return ScopeID(value)
}

// Get returns the scope pointer or nil if ID is invalid.
func (s *Scopes) Get(id ScopeID) *Scope {
	if !id.IsValid() || int(id) >= len(s.data) {
		return nil
	}
	return &s.data[id]
}

// Len reports total number of scopes excluding the sentinel.
func (s *Scopes) Len() int { return len(s.data) - 1 }

// Data exposes the underlying slice without the sentinel.
func (s *Scopes) Data() []Scope {
	if len(s.data) <= 1 {
		return nil
	}
	return s.data[1:]
}
