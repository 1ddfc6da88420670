package loader

import (
	"strings"
	"testing"

	"decaf/internal/ast"
	"decaf/internal/diag"
	"decaf/internal/source"
	"decaf/internal/testkit"
)

const zooManifest = `decls:
  - interface: Pet
    members:
      - fn: play
        returns: void
  - class: Animal
    members:
      - var: age
        type: int
  - class: Dog
    extends: Animal
    implements: [Pet]
    members:
      - var: name
        type: string
      - fn: speak
        returns: void
        formals:
          - {name: loud, type: bool}
        body: true
  - fn: main
    returns: void
    body: true
`

func load(t *testing.T, text string) (*Program, *source.FileSet, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	bag := diag.NewBag(0)
	prog, err := LoadBytes(fs, "zoo.yaml", []byte(text), diag.BagReporter{Bag: bag})
	if err != nil {
		t.Fatalf("LoadBytes: %v", err)
	}
	return prog, fs, bag
}

func topLevel(t *testing.T, prog *Program) map[string]ast.DeclID {
	t.Helper()
	out := make(map[string]ast.DeclID)
	for _, id := range prog.Builder.Files.Get(prog.File).Decls {
		out[prog.Builder.Name(id)] = id
	}
	return out
}

func TestLoadZoo(t *testing.T) {
	prog, fs, bag := load(t, zooManifest)
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	if err := testkit.CheckTreeInvariants(prog.Builder, prog.File, fs.Get(prog.Source)); err != nil {
		t.Fatalf("tree invariants: %v", err)
	}
	b := prog.Builder
	decls := topLevel(t, prog)
	if len(decls) != 4 {
		t.Fatalf("expected 4 top-level decls, got %v", decls)
	}

	pet, ok := b.Decls.Interface(decls["Pet"])
	if !ok || len(pet.Members) != 1 {
		t.Fatalf("Pet = %+v, %v", pet, ok)
	}
	if play, _ := b.Decls.Fn(pet.Members[0]); !play.Prototype || play.State != ast.FnComplete {
		t.Fatalf("interface member must be a complete prototype: %+v", play)
	}

	dog, ok := b.Decls.Class(decls["Dog"])
	if !ok {
		t.Fatalf("Dog is not a class")
	}
	if got := b.TypeLabel(dog.Extends); got != "Animal" {
		t.Fatalf("extends = %q", got)
	}
	if len(dog.Implements) != 1 || b.TypeLabel(dog.Implements[0]) != "Pet" {
		t.Fatalf("implements = %v", dog.Implements)
	}
	if len(dog.Members) != 2 {
		t.Fatalf("Dog members = %v", dog.Members)
	}
	speak, ok := b.Decls.Fn(dog.Members[1])
	if !ok || speak.State != ast.FnComplete || !speak.Body.IsValid() || speak.Prototype {
		t.Fatalf("speak = %+v", speak)
	}
	if len(speak.Formals) != 1 || b.Name(speak.Formals[0]) != "loud" {
		t.Fatalf("formals = %v", speak.Formals)
	}
	if b.Decls.Get(speak.Formals[0]).Parent != dog.Members[1] {
		t.Fatalf("formal must be owned by speak")
	}
	if b.Decls.Get(dog.Members[0]).Parent != decls["Dog"] {
		t.Fatalf("member must be owned by Dog")
	}
	if _, ok := prog.Globals.Lookup(b.Strings.Intern("main")); !ok {
		t.Fatalf("globals must contain main")
	}
}

func TestSpansPointAtNames(t *testing.T) {
	prog, fs, _ := load(t, zooManifest)
	b := prog.Builder
	dog := topLevel(t, prog)["Dog"]
	name := b.Decls.Get(dog).Name
	file := fs.Get(prog.Source)
	if got := string(file.Content[name.Span.Start:name.Span.End]); got != "Dog" {
		t.Fatalf("name span covers %q", got)
	}
	start, _ := fs.Resolve(name.Span)
	if start.Line != 10 || start.Col != 12 {
		t.Fatalf("Dog at %+v, want 10:12", start)
	}
	cls, _ := b.Decls.Class(dog)
	ext := b.Types.Get(cls.Extends).Name
	if got := string(file.Content[ext.Span.Start:ext.Span.End]); got != "Animal" {
		t.Fatalf("extends span covers %q", got)
	}
}

func TestTypeSyntax(t *testing.T) {
	tests := []struct {
		spelling string
		want     string
		bad      bool
	}{
		{"int", "int", false},
		{"double[]", "double[]", false},
		{"Dog[][]", "Dog[][]", false},
		{"café", "café", false},
		{"1abc", "error", true},
		{"Dog[", "error", true},
	}
	for _, tt := range tests {
		t.Run(tt.spelling, func(t *testing.T) {
			prog, _, bag := load(t, "decls:\n  - var: v\n    type: \""+tt.spelling+"\"\n")
			v, ok := prog.Builder.Decls.Var(topLevel(t, prog)["v"])
			if !ok {
				t.Fatalf("v not loaded")
			}
			if got := prog.Builder.TypeLabel(v.Type); got != tt.want {
				t.Fatalf("type = %q, want %q", got, tt.want)
			}
			if hasBad := bag.Count(diag.SynBadTypeSyntax) > 0; hasBad != tt.bad {
				t.Fatalf("bad syntax reported = %v, want %v", hasBad, tt.bad)
			}
		})
	}
}

func TestStructuralProblemsReported(t *testing.T) {
	tests := []struct {
		name     string
		manifest string
		code     diag.Code
		kept     int
	}{
		{
			name:     "no kind",
			manifest: "decls:\n  - type: int\n",
			code:     diag.SynUnknownDeclKind,
		},
		{
			name:     "two kinds",
			manifest: "decls:\n  - var: a\n    fn: b\n",
			code:     diag.SynUnknownDeclKind,
		},
		{
			name:     "empty name",
			manifest: "decls:\n  - class: \"\"\n",
			code:     diag.SynMissingName,
		},
		{
			name:     "bad name",
			manifest: "decls:\n  - class: 9lives\n",
			code:     diag.SynMissingName,
		},
		{
			name:     "class inside class",
			manifest: "decls:\n  - class: A\n    members:\n      - class: B\n",
			code:     diag.SynMemberNotAllowed,
			kept:     1,
		},
		{
			name:     "field in interface",
			manifest: "decls:\n  - interface: I\n    members:\n      - var: x\n        type: int\n",
			code:     diag.SynMemberNotAllowed,
			kept:     1,
		},
		{
			name:     "prototype with body",
			manifest: "decls:\n  - interface: I\n    members:\n      - fn: f\n        body: true\n",
			code:     diag.SynPrototypeBody,
			kept:     1,
		},
		{
			name:     "var without type",
			manifest: "decls:\n  - var: x\n",
			code:     diag.SynBadTypeSyntax,
			kept:     1,
		},
		{
			name:     "extends list",
			manifest: "decls:\n  - class: A\n    extends: [B]\n",
			code:     diag.SynBadTypeSyntax,
			kept:     1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog, _, bag := load(t, tt.manifest)
			if bag.Count(tt.code) != 1 {
				t.Fatalf("expected one %s, got %v", tt.code.ID(), bag.Items())
			}
			if got := len(prog.Builder.Files.Get(prog.File).Decls); got != tt.kept {
				t.Fatalf("kept %d decls, want %d", got, tt.kept)
			}
		})
	}
}

func TestKeyNotApplicableWarns(t *testing.T) {
	_, _, bag := load(t, "decls:\n  - var: x\n    type: int\n    returns: int\n")
	if bag.Count(diag.SynManifestDecode) != 1 || bag.HasErrors() {
		t.Fatalf("expected a single warning, got %v", bag.Items())
	}
}

func TestMalformedYAMLIsAnError(t *testing.T) {
	fs := source.NewFileSet()
	_, err := LoadBytes(fs, "bad.yaml", []byte("decls: [\n"), nil)
	if err == nil {
		t.Fatalf("expected decode error")
	}
	_, err = LoadBytes(fs, "unknown.yaml", []byte("classes: []\n"), nil)
	if err == nil || !strings.Contains(err.Error(), "classes") {
		t.Fatalf("unknown top-level key must be rejected, got %v", err)
	}
}

func TestEmptyManifest(t *testing.T) {
	prog, _, bag := load(t, "")
	if bag.Len() != 0 || len(prog.Builder.Files.Get(prog.File).Decls) != 0 {
		t.Fatalf("empty manifest must load cleanly")
	}
}

func TestDuplicateTopLevelReported(t *testing.T) {
	prog, _, bag := load(t, "decls:\n  - class: A\n  - interface: A\n")
	if bag.Count(diag.SemaDeclConflict) != 1 {
		t.Fatalf("expected a top-level conflict, got %v", bag.Items())
	}
	first := prog.Builder.Files.Get(prog.File).Decls[0]
	if got, _ := prog.Globals.Lookup(prog.Builder.Strings.Intern("A")); got != first {
		t.Fatalf("first declaration must win")
	}
}

func TestDecodeKeepsScalarNodes(t *testing.T) {
	text := `decls:
  - class: Base
    members:
      - &speak
        fn: speak
        returns: "int[]"
        formals:
          - {name: n, type: double}
        body: true
  - class: Kid
    extends: Base
    implements: Talker
    members:
      - *speak
  - interface: Talker
`
	prog, _, bag := load(t, text)
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	b := prog.Builder
	decls := topLevel(t, prog)
	kid, ok := b.Decls.Class(decls["Kid"])
	if !ok || !kid.Extends.IsValid() || len(kid.Implements) != 1 || len(kid.Members) != 1 {
		t.Fatalf("Kid = %+v", kid)
	}
	if got, want := b.Decls.Get(decls["Kid"]).Name.Span.Start, uint32(strings.Index(text, "Kid")); got != want {
		t.Fatalf("Kid name starts at %d, want %d", got, want)
	}
	speak, ok := b.Decls.Fn(kid.Members[0])
	if !ok || speak.State != ast.FnComplete || len(speak.Formals) != 1 {
		t.Fatalf("aliased member = %+v", speak)
	}
	if got := b.TypeLabel(speak.Result); got != "int[]" {
		t.Fatalf("result = %q", got)
	}
}

func TestDecodeRejectsBadShapes(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"duplicate key", "decls:\n  - class: A\n    class: B\n", "already defined"},
		{"members scalar", "decls:\n  - class: A\n    members: x\n", "members must be a list"},
		{"formal extra key", "decls:\n  - fn: f\n    formals:\n      - {name: a, type: int, dflt: 1}\n", "dflt"},
		{"entry not mapping", "decls:\n  - A\n", "must be a mapping"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadBytes(source.NewFileSet(), "bad.yaml", []byte(tt.text), nil)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error = %v, want %q", err, tt.want)
			}
		})
	}
}
