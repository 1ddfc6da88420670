package diagfmt

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"decaf/internal/diag"
	"decaf/internal/loader"
	"decaf/internal/sema"
	"decaf/internal/source"
)

const zoo = `decls:
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
      - fn: play
        returns: void
        body: true
      - fn: fetch
        returns: bool
        formals:
          - {name: toys, type: "Toy[]"}
        body: true
  - class: Toy
`

func scopesInput(t *testing.T) *ScopesInput {
	t.Helper()
	fs := source.NewFileSet()
	bag := diag.NewBag(0)
	reporter := diag.BagReporter{Bag: bag}
	prog, err := loader.LoadBytes(fs, "zoo.yaml", []byte(zoo), reporter)
	if err != nil {
		t.Fatalf("LoadBytes: %v", err)
	}
	res := sema.Check(context.Background(), prog.Builder, prog.File, sema.Options{Reporter: reporter, Registry: prog.Globals})
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	return &ScopesInput{Builder: prog.Builder, Result: &res}
}

func findScope(t *testing.T, scopes []ScopeJSON, owner string) ScopeJSON {
	t.Helper()
	for _, sc := range scopes {
		if sc.Owner == owner {
			return sc
		}
	}
	t.Fatalf("no scope owned by %s", owner)
	return ScopeJSON{}
}

func TestBuildScopes(t *testing.T) {
	scopes := BuildScopes(scopesInput(t))

	dog := findScope(t, scopes, "Dog")
	if dog.Kind != "class" || !dog.Filled {
		t.Fatalf("Dog scope = %+v", dog)
	}
	var names []string
	for _, e := range dog.Entries {
		names = append(names, e.Name)
	}
	if got := strings.Join(names, " "); got != "Dog play fetch age" {
		t.Fatalf("Dog entries = %q", got)
	}
	age := dog.Entries[3]
	if age.From != "Animal" || age.Type != "int" || age.Kind != "variable" {
		t.Fatalf("inherited entry = %+v", age)
	}
	fetch := dog.Entries[2]
	if fetch.Type != "bool fetch(Toy[])" || fetch.From != "" {
		t.Fatalf("fetch entry = %+v", fetch)
	}

	fetchScope := findScope(t, scopes, "Dog.fetch")
	if len(fetchScope.Entries) != 1 || fetchScope.Entries[0].Type != "Toy[]" {
		t.Fatalf("formal scope = %+v", fetchScope)
	}
	if fetchScope.Parent == 0 {
		t.Fatalf("method scope must point at its class scope")
	}

	if proto := findScope(t, scopes, "Pet.play"); proto.Filled {
		t.Fatalf("prototype scopes stay empty")
	}
}

func TestScopesText(t *testing.T) {
	in := scopesInput(t)

	var own bytes.Buffer
	if err := Scopes(&own, in, ScopesOpts{}); err != nil {
		t.Fatalf("Scopes: %v", err)
	}
	out := own.String()
	if strings.Contains(out, "(from Animal)") {
		t.Fatalf("inherited entries shown without Inherited:\n%s", out)
	}
	if strings.Contains(out, "Pet.play") {
		t.Fatalf("unfilled prototype scope printed:\n%s", out)
	}
	if !strings.Contains(out, "class Dog\n  Dog    class\n  play   function  void play()\n  fetch  function  bool fetch(Toy[])\n") {
		t.Fatalf("unexpected Dog block:\n%s", out)
	}

	var all bytes.Buffer
	if err := Scopes(&all, in, ScopesOpts{Inherited: true}); err != nil {
		t.Fatalf("Scopes: %v", err)
	}
	if !strings.Contains(all.String(), "  age    variable  int  (from Animal)\n") {
		t.Fatalf("inherited entry missing:\n%s", all.String())
	}
}

func TestScopesJSON(t *testing.T) {
	fs := source.NewFileSet()
	fs.AddVirtual("empty.yaml", nil)
	output := BuildDiagnosticsOutput(diag.NewBag(0), fs, JSONOpts{IncludeScopes: true}, scopesInput(t))
	if len(output.Scopes) == 0 {
		t.Fatalf("scopes requested but missing")
	}
	if BuildScopes(nil) != nil {
		t.Fatalf("nil input must produce no scopes")
	}
}
