package testkit

import (
	"errors"
	"fmt"

	"fortio.org/safecast"

	"decaf/internal/ast"
	"decaf/internal/source"
)

// CheckTreeInvariants runs structural checks on a loaded file:
// 1) file.Span is non-empty and within file content bounds
// 2) every declaration span is non-empty and inside file.Span, and names
// lie inside their declaration
// 3) ownership: top-level declarations have no parent, every member and
// formal points back at the declaration that lists it
// 4) functions are complete, interface members are prototypes
func CheckTreeInvariants(b *ast.Builder, fileID ast.FileID, sf *source.File) error {
	if b == nil || sf == nil {
		return fmt.Errorf("nil builder or file")
	}
	f := b.Files.Get(fileID)
	if f == nil {
		return fmt.Errorf("file node not found")
	}

	// 1) file span sanity
	if len(f.Decls) > 0 && f.Span.End <= f.Span.Start {
		return fmt.Errorf("file span is empty: %v", f.Span)
	}
	if f.Span.File != sf.ID {
		return fmt.Errorf("file span points to different file id: got=%d want=%d", f.Span.File, sf.ID)
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	if f.Span.End > lenContent {
		return fmt.Errorf("file span end beyond content: %d > %d", f.Span.End, lenContent)
	}

	c := treeChecker{b: b, file: f, sf: sf}
	for _, id := range f.Decls {
		c.visit(id, ast.NoDeclID, false)
	}
	return errors.Join(c.errs...)
}

type treeChecker struct {
	b    *ast.Builder
	file *ast.File
	sf   *source.File
	errs []error
}

func (c *treeChecker) fail(format string, args ...interface{}) {
	c.errs = append(c.errs, fmt.Errorf(format, args...))
}

func (c *treeChecker) visit(id, owner ast.DeclID, inInterface bool) {
	decl := c.b.Decls.Get(id)
	if decl == nil {
		c.fail("nil decl for id=%d", id)
		return
	}
	name := c.b.Name(id)

	// 2) spans
	sp := decl.Span
	if sp.End <= sp.Start {
		c.fail("%s %q: empty span %v", decl.Kind, name, sp)
	}
	if sp.File != c.sf.ID {
		c.fail("%s %q: span file mismatch: got=%d want=%d", decl.Kind, name, sp.File, c.sf.ID)
	}
	if !c.file.Span.Contains(sp) {
		c.fail("%s %q: span %v is outside file span %v", decl.Kind, name, sp, c.file.Span)
	}
	if !sp.Contains(decl.Name.Span) {
		c.fail("%s %q: name span %v outside declaration %v", decl.Kind, name, decl.Name.Span, sp)
	}

	// 3) ownership
	if decl.Parent != owner {
		c.fail("%s %q: parent %d, listed by %d", decl.Kind, name, decl.Parent, owner)
	}

	// 4) states
	if fn, ok := c.b.Decls.Fn(id); ok {
		if fn.State != ast.FnComplete {
			c.fail("fn %q left in state %s", name, fn.State)
		}
		if inInterface && !fn.Prototype {
			c.fail("interface member %q is not a prototype", name)
		}
		if fn.Prototype && fn.Body.IsValid() {
			c.fail("prototype %q has a body", name)
		}
	}

	for _, child := range c.b.Decls.Children(id) {
		c.visit(child, id, decl.Kind == ast.DeclInterface)
	}
}
