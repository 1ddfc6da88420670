// Package loader turns declaration manifests into declaration trees. It
// stands in for a parser: nodes are built bottom-up, formals before their
// function and members before their class, and every function body is
// attached after its signature.
package loader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"decaf/internal/ast"
	"decaf/internal/diag"
	"decaf/internal/source"
	"decaf/internal/symbols"
)

// Program is a loaded manifest with its registry of top-level names.
type Program struct {
	Builder *ast.Builder
	File    ast.FileID
	Source  source.FileID
	Globals *symbols.Globals
}

// Load decodes the manifest stored as fileID in fs. Malformed YAML is
// returned as an error; structural problems are reported and the offending
// entries skipped.
func Load(fs *source.FileSet, fileID source.FileID, reporter diag.Reporter) (*Program, error) {
	if int(fileID) >= fs.Len() {
		return nil, fmt.Errorf("loader: unknown file %d", fileID)
	}
	file := fs.Get(fileID)
	if reporter == nil {
		reporter = diag.NopReporter{}
	}

	var raw manifestYAML
	dec := yaml.NewDecoder(bytes.NewReader(file.Content))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("loader: decode %s: %w", file.Path, err)
	}

	b := ast.NewBuilder(ast.Hints{Decls: uint(countDecls(raw.Decls))}, nil)
	whole := source.Span{File: fileID, Start: 0, End: uint32(len(file.Content))} // #nosec G115 -- checked when the file was added
	l := &loader{b: b, file: file, reporter: reporter}
	prog := &Program{Builder: b, File: b.NewFile(whole), Source: fileID}

	for i := range raw.Decls {
		if id, ok := l.decl(&raw.Decls[i], ctxTop); ok {
			b.PushDecl(prog.File, id)
		}
	}
	prog.Globals = symbols.CollectGlobals(b, prog.File, reporter)
	return prog, nil
}

// LoadBytes registers content as a virtual file and loads it.
func LoadBytes(fs *source.FileSet, name string, content []byte, reporter diag.Reporter) (*Program, error) {
	return Load(fs, fs.AddVirtual(name, content), reporter)
}

func countDecls(decls []declYAML) int {
	n := len(decls)
	for i := range decls {
		n += len(decls[i].Formals) + countDecls(decls[i].Members)
	}
	return n
}

// declContext says where a declaration entry appears.
type declContext uint8

const (
	ctxTop declContext = iota
	ctxClass
	ctxInterface
)

func (c declContext) String() string {
	switch c {
	case ctxClass:
		return "class"
	case ctxInterface:
		return "interface"
	default:
		return "program"
	}
}

type loader struct {
	b        *ast.Builder
	file     *source.File
	reporter diag.Reporter
}

func (l *loader) span(node *yaml.Node) source.Span {
	return spanOf(l.file, node)
}

func (l *loader) report(code diag.Code, sp source.Span, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if b := diag.ReportError(l.reporter, code, sp, msg); b != nil {
		b.Emit()
	}
}

func (l *loader) warn(code diag.Code, sp source.Span, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if b := diag.ReportWarning(l.reporter, code, sp, msg); b != nil {
		b.Emit()
	}
}

// decl builds one entry. ok is false when the entry was skipped.
func (l *loader) decl(d *declYAML, where declContext) (ast.DeclID, bool) {
	at := l.span(d.node)
	kinds, names := d.kinds()
	switch len(kinds) {
	case 0:
		l.report(diag.SynUnknownDeclKind, at, "entry declares none of var, fn, class or interface")
		return ast.NoDeclID, false
	case 1:
	default:
		l.report(diag.SynUnknownDeclKind, at, "entry mixes %s and %s", kinds[0], kinds[1])
		return ast.NoDeclID, false
	}
	kind := kinds[0]
	l.checkKeys(d, kind)

	if !l.allowed(kind, where) {
		l.report(diag.SynMemberNotAllowed, at, "%s declaration not allowed in %s", kind, where)
		return ast.NoDeclID, false
	}

	nameNode := names[0]
	if nameNode.Kind != yaml.ScalarNode || strings.TrimSpace(nameNode.Value) == "" {
		l.report(diag.SynMissingName, at, "%s declaration has no name", kind)
		return ast.NoDeclID, false
	}
	if text := strings.TrimSpace(nameNode.Value); !isIdent(text) {
		l.report(diag.SynMissingName, l.span(nameNode), "%q is not a valid %s name", text, kind)
		return ast.NoDeclID, false
	}
	name := l.b.Ident(strings.TrimSpace(nameNode.Value), l.span(nameNode))
	whole := at.Cover(name.Span)

	switch kind {
	case keyVar:
		return l.b.Decls.NewVar(name, l.typeOf(d.Type, "variable '"+nameNode.Value+"'", name.Span), whole), true
	case keyFn:
		return l.fn(d, name, whole, where), true
	case keyClass:
		return l.class(d, name, whole), true
	default:
		return l.iface(d, name, whole), true
	}
}

func (l *loader) allowed(kind kindKey, where declContext) bool {
	switch where {
	case ctxClass:
		return kind == keyVar || kind == keyFn
	case ctxInterface:
		return kind == keyFn
	default:
		return true
	}
}

// checkKeys warns about keys that do not apply to kind.
func (l *loader) checkKeys(d *declYAML, kind kindKey) {
	accepted := allowedKeys[kind]
	for _, key := range d.keys {
		if _, ok := accepted[key.Value]; !ok {
			l.warn(diag.SynManifestDecode, l.span(key), "key %q does not apply to a %s declaration", key.Value, kind)
		}
	}
}

func (l *loader) fn(d *declYAML, name ast.Ident, whole source.Span, where declContext) ast.DeclID {
	formals := make([]ast.DeclID, 0, len(d.Formals))
	for i := range d.Formals {
		f := &d.Formals[i]
		at := l.span(f.node)
		if f.Name == nil || strings.TrimSpace(f.Name.Value) == "" {
			l.report(diag.SynMissingName, at, "formal %d of '%s' has no name", i+1, l.lookup(name))
			continue
		}
		ident := l.b.Ident(strings.TrimSpace(f.Name.Value), l.span(f.Name))
		typ := l.typeOf(f.Type, "formal '"+f.Name.Value+"'", ident.Span)
		formals = append(formals, l.b.Decls.NewVar(ident, typ, at.Cover(ident.Span)))
	}

	var result ast.TypeID
	if d.Returns == nil {
		result = l.b.Types.NewPrimitive(ast.PrimVoid, name.Span)
	} else {
		result = l.typeOf(d.Returns, "result of '"+l.lookup(name)+"'", name.Span)
	}

	body := d.hasBody()
	if where == ctxInterface {
		if body {
			l.report(diag.SynPrototypeBody, l.span(d.Body), "interface method '%s' cannot have a body", l.lookup(name))
		}
		return l.b.Decls.NewPrototype(name, result, formals, whole)
	}
	if !body {
		return l.b.Decls.NewPrototype(name, result, formals, whole)
	}
	id := l.b.Decls.NewFn(name, result, formals, whole)
	l.b.Decls.AttachBody(id, l.b.Stmts.NewBlock(l.span(d.Body), nil))
	return id
}

func (l *loader) class(d *declYAML, name ast.Ident, whole source.Span) ast.DeclID {
	members := l.members(d, ctxClass)
	extends := ast.NoTypeID
	if d.Extends != nil {
		extends = l.namedType(d.Extends, "extends")
	}
	var implements []ast.TypeID
	if d.Implements != nil {
		for _, node := range l.list(d.Implements) {
			if id := l.namedType(node, "implements"); id.IsValid() {
				implements = append(implements, id)
			}
		}
	}
	return l.b.Decls.NewClass(name, extends, implements, members, whole)
}

func (l *loader) iface(d *declYAML, name ast.Ident, whole source.Span) ast.DeclID {
	return l.b.Decls.NewInterface(name, l.members(d, ctxInterface), whole)
}

func (l *loader) members(d *declYAML, where declContext) []ast.DeclID {
	out := make([]ast.DeclID, 0, len(d.Members))
	for i := range d.Members {
		if id, ok := l.decl(&d.Members[i], where); ok {
			out = append(out, id)
		}
	}
	return out
}

// namedType builds the type of an extends or implements clause, which must
// be a plain identifier.
func (l *loader) namedType(node *yaml.Node, clause string) ast.TypeID {
	text := strings.TrimSpace(node.Value)
	if node.Kind != yaml.ScalarNode || !isIdent(text) {
		l.report(diag.SynBadTypeSyntax, l.span(node), "%s expects a name, found %q", clause, node.Value)
		return ast.NoTypeID
	}
	return l.b.Types.NewNamed(l.b.Ident(text, l.span(node)))
}

// list accepts a single scalar or a sequence of scalars.
func (l *loader) list(node *yaml.Node) []*yaml.Node {
	switch node.Kind {
	case yaml.SequenceNode:
		return node.Content
	case yaml.ScalarNode:
		if node.Tag == "!!null" {
			return nil
		}
		return []*yaml.Node{node}
	default:
		l.report(diag.SynBadTypeSyntax, l.span(node), "expected a name or a list of names")
		return nil
	}
}

func (l *loader) lookup(ident ast.Ident) string {
	s, _ := l.b.Strings.Lookup(ident.Name)
	return s
}
