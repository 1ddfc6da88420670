package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"decaf/internal/ast"
	"decaf/internal/sema"
	"decaf/internal/symbols"
)

// ScopesInput carries the data required to dump the scope table of a file.
type ScopesInput struct {
	Builder *ast.Builder
	Result  *sema.Result
}

// ScopeJSON describes one class, interface or function scope.
type ScopeJSON struct {
	ID      uint32      `json:"id"`
	Kind    string      `json:"kind"`
	Owner   string      `json:"owner"`
	Parent  uint32      `json:"parent,omitempty"`
	Filled  bool        `json:"filled"`
	Entries []EntryJSON `json:"entries"`
}

// EntryJSON is one binding of a scope. From names the class or interface
// that declared the entry when the scope received it by inheritance.
type EntryJSON struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
	Type string `json:"type,omitempty"`
	From string `json:"from,omitempty"`
}

// BuildScopes lists every scope of the table in allocation order.
func BuildScopes(in *ScopesInput) []ScopeJSON {
	if in == nil || in.Builder == nil || in.Result == nil || in.Result.Scopes == nil {
		return nil
	}
	data := in.Result.Scopes.Scopes.Data()
	out := make([]ScopeJSON, 0, len(data))
	for i := range data {
		sc := &data[i]
		entry := ScopeJSON{
			ID:      uint32(i + 1), // #nosec G115 -- scope ids are uint32
			Kind:    sc.Kind.String(),
			Owner:   qualifiedName(in.Builder, sc.Owner),
			Parent:  uint32(sc.Parent),
			Filled:  sc.Filled(),
			Entries: make([]EntryJSON, 0, sc.Len()),
		}
		for _, e := range sc.Entries() {
			entry.Entries = append(entry.Entries, describeEntry(in, sc, e))
		}
		out = append(out, entry)
	}
	return out
}

func describeEntry(in *ScopesInput, sc *symbols.Scope, e symbols.Entry) EntryJSON {
	b := in.Builder
	decl := b.Decls.Get(e.Decl)
	name, _ := b.Strings.Lookup(e.Name)
	out := EntryJSON{Name: name, Kind: decl.Kind.String()}
	switch decl.Kind {
	case ast.DeclVar:
		if v, ok := b.Decls.Var(e.Decl); ok && in.Result.Oracle != nil {
			out.Type = in.Result.Types.Label(in.Result.Oracle.TypeOf(v.Type))
		}
	case ast.DeclFn:
		if in.Result.Oracle != nil {
			if sig, ok := in.Result.Oracle.Signature(e.Decl); ok {
				out.Type = in.Result.Types.SignatureLabel(sig)
			}
		}
	}
	if decl.Parent.IsValid() && decl.Parent != sc.Owner {
		out.From = b.Name(decl.Parent)
	}
	return out
}

func qualifiedName(b *ast.Builder, id ast.DeclID) string {
	parts := []string{}
	for id.IsValid() {
		parts = append(parts, b.Name(id))
		id = b.Decls.Get(id).Parent
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, ".")
}

// Scopes prints the scope table as aligned columns, one block per scope.
// Unfilled scopes (prototypes) are skipped.
func Scopes(w io.Writer, in *ScopesInput, opts ScopesOpts) error {
	header := lipgloss.NewStyle()
	dim := lipgloss.NewStyle()
	if opts.Color {
		header = header.Bold(true).Foreground(lipgloss.Color("6"))
		dim = dim.Foreground(lipgloss.Color("8"))
	}

	first := true
	for _, sc := range BuildScopes(in) {
		if !sc.Filled {
			continue
		}
		entries := sc.Entries
		if !opts.Inherited {
			entries = ownEntries(entries)
		}
		if !first {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		first = false
		if _, err := fmt.Fprintln(w, header.Render(sc.Kind+" "+sc.Owner)); err != nil {
			return err
		}

		nameW, kindW := 0, 0
		for _, e := range entries {
			nameW = max(nameW, runewidth.StringWidth(e.Name))
			kindW = max(kindW, len(e.Kind))
		}
		for _, e := range entries {
			line := "  " + runewidth.FillRight(e.Name, nameW) + "  " + runewidth.FillRight(e.Kind, kindW)
			if e.Type != "" {
				line += "  " + e.Type
			}
			if e.From != "" {
				line += "  " + dim.Render("(from "+e.From+")")
			}
			if _, err := fmt.Fprintln(w, strings.TrimRight(line, " ")); err != nil {
				return err
			}
		}
	}
	return nil
}

func ownEntries(entries []EntryJSON) []EntryJSON {
	out := make([]EntryJSON, 0, len(entries))
	for _, e := range entries {
		if e.From == "" {
			out = append(out, e)
		}
	}
	return out
}
