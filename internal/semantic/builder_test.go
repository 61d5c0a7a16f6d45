package semantic

import (
	"testing"

	"github.com/tinovyatkin/ziglint/internal/ids"
	"github.com/tinovyatkin/ziglint/internal/zsyntax"
)

func parseModel(t *testing.T, src string) *Model {
	t.Helper()
	tree := zsyntax.Parse([]byte(src))
	model, err := Build(tree, "test.zig")
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return model
}

func TestBuildNilTree(t *testing.T) {
	if _, err := Build(nil, "test.zig"); err == nil {
		t.Fatal("Build(nil, ...) expected an error, got nil")
	}
}

func TestBuildResolvesLocalVariable(t *testing.T) {
	model := parseModel(t, `
fn add(a: i32, b: i32) i32 {
    const sum = a + b;
    return sum;
}
`)

	var sumRefs, returnRefs int
	for _, r := range model.References {
		switch r.Name {
		case "a", "b":
			if _, ok := r.Symbol.Get(); !ok {
				t.Errorf("reference to %q did not resolve", r.Name)
			}
		case "sum":
			sumRefs++
		}
		_ = returnRefs
	}
	if sumRefs == 0 {
		t.Fatal("expected at least one reference to sum")
	}
	if len(model.UnresolvedReferences) != 0 {
		t.Errorf("expected no unresolved references, got %d", len(model.UnresolvedReferences))
	}
}

func TestBuildUndefinedReferenceIsUnresolved(t *testing.T) {
	model := parseModel(t, `
fn broken() i32 {
    return missing;
}
`)

	if len(model.UnresolvedReferences) != 1 {
		t.Fatalf("expected 1 unresolved reference, got %d", len(model.UnresolvedReferences))
	}
	ref := model.Reference(model.UnresolvedReferences[0])
	if ref.Name != "missing" {
		t.Errorf("unresolved reference name = %q, want %q", ref.Name, "missing")
	}
	if ref.Flags.Has(ReferenceMember) {
		t.Error("a bare identifier reference should not be marked Member")
	}
}

func TestBuildMemberAccessChainProducesOneReferencePerComponent(t *testing.T) {
	model := parseModel(t, `
fn use(a: Foo) void {
    const x = a.b.c;
}
`)

	var names []string
	for _, r := range model.References {
		names = append(names, r.Name)
	}

	wantMembers := map[string]bool{"b": true, "c": true}
	found := map[string]bool{}
	for _, r := range model.References {
		if wantMembers[r.Name] {
			found[r.Name] = true
			if !r.Flags.Has(ReferenceMember) {
				t.Errorf("reference %q in a.b.c should be Member, got Member=false", r.Name)
			}
			if _, ok := r.Symbol.Get(); ok {
				t.Errorf("member reference %q should never resolve to a symbol", r.Name)
			}
		}
		if r.Name == "a" && r.Flags.Has(ReferenceMember) {
			t.Error("the base of a.b.c should not be marked Member")
		}
	}
	for name := range wantMembers {
		if !found[name] {
			t.Errorf("expected a reference for member %q in a.b.c, names seen: %v", name, names)
		}
	}
}

func TestBuildNodeLinksCoverWholeTree(t *testing.T) {
	model := parseModel(t, `
const std = @import("std");

fn add(a: i32, b: i32) i32 {
    if (a > b) {
        return a;
    }
    return b;
}
`)

	if len(model.NodeParent) != model.Tree.Len() {
		t.Fatalf("NodeParent length = %d, want %d", len(model.NodeParent), model.Tree.Len())
	}
	if len(model.NodeScope) != model.Tree.Len() {
		t.Fatalf("NodeScope length = %d, want %d", len(model.NodeScope), model.Tree.Len())
	}
	if model.ParentOf(0) != 0 {
		t.Errorf("root's recorded parent = %d, want 0 (self)", model.ParentOf(0))
	}
	if model.ScopeOf(0) != ids.RootScope {
		t.Errorf("root's recorded scope = %v, want RootScope", model.ScopeOf(0))
	}
}

func findSymbol(model *Model, name string) (ids.SymbolID, bool) {
	for i, s := range model.Symbols {
		if s.Name == name {
			return ids.SymbolID(i), true
		}
	}
	return 0, false
}

func TestBuildStructFieldsAreMembers(t *testing.T) {
	model := parseModel(t, `const Foo = struct { bar: u32 };`)

	foo, ok := findSymbol(model, "Foo")
	if !ok {
		t.Fatal("symbol Foo not found")
	}
	bar, ok := findSymbol(model, "bar")
	if !ok {
		t.Fatal("symbol bar not found")
	}

	members := model.MembersOf(foo)
	if len(members) != 1 || members[0] != bar {
		t.Errorf("MembersOf(Foo) = %v, want [%v]", members, bar)
	}
	if exports := model.ExportsOf(foo); len(exports) != 0 {
		t.Errorf("ExportsOf(Foo) = %v, want []", exports)
	}

	barSym := model.Symbol(bar)
	structScope := barSym.OwnerScope
	if structScope == model.Symbol(foo).OwnerScope {
		t.Error("bar.scope should be the struct's own scope, not Foo's owner scope")
	}
	if model.Scope(structScope).Kind != ScopeContainer {
		t.Errorf("bar.scope kind = %v, want ScopeContainer", model.Scope(structScope).Kind)
	}
	if !model.Scope(structScope).Flags.Has(ScopeStruct) {
		t.Error("bar.scope should carry ScopeStruct")
	}
}

func TestBuildEnumVariantsAreMembers(t *testing.T) {
	model := parseModel(t, `const Foo = enum { bar };`)

	foo, ok := findSymbol(model, "Foo")
	if !ok {
		t.Fatal("symbol Foo not found")
	}
	bar, ok := findSymbol(model, "bar")
	if !ok {
		t.Fatal("symbol bar not found")
	}

	members := model.MembersOf(foo)
	if len(members) != 1 || members[0] != bar {
		t.Errorf("MembersOf(Foo) = %v, want [%v]", members, bar)
	}
	if exports := model.ExportsOf(foo); len(exports) != 0 {
		t.Errorf("ExportsOf(Foo) = %v, want []", exports)
	}
	barSym := model.Symbol(bar)
	if barSym.Kind != SymbolEnumVariant {
		t.Errorf("bar.Kind = %v, want SymbolEnumVariant", barSym.Kind)
	}
	if model.Scope(barSym.OwnerScope).Flags.Has(ScopeEnum) == false {
		t.Error("bar.scope should carry ScopeEnum")
	}
}

func TestBuildContainerExportsInDeclarationOrder(t *testing.T) {
	model := parseModel(t, `
const Foo = struct {
    const C = 1;
    pub const D = struct {};
    fn e() void {}
};
`)

	foo, ok := findSymbol(model, "Foo")
	if !ok {
		t.Fatal("symbol Foo not found")
	}

	exports := model.ExportsOf(foo)
	var names []string
	for _, id := range exports {
		names = append(names, model.Symbol(id).Name)
	}
	want := []string{"C", "D", "e"}
	if len(names) != len(want) {
		t.Fatalf("exports[Foo] = %v, want %v", names, want)
	}
	for i, n := range want {
		if names[i] != n {
			t.Errorf("exports[Foo][%d] = %q, want %q", i, names[i], n)
		}
	}
}

func TestBuildSwitchCreatesPerCaseScopes(t *testing.T) {
	model := parseModel(t, `
fn classify(x: i32) i32 {
    switch (x) {
        0 => {
            const zero = x;
            return zero;
        },
        else => {
            const other = x;
            return other;
        },
    }
}
`)

	zero, ok := findSymbol(model, "zero")
	if !ok {
		t.Fatal("symbol zero not found")
	}
	other, ok := findSymbol(model, "other")
	if !ok {
		t.Fatal("symbol other not found")
	}

	zeroScope := model.Scope(model.Symbol(zero).OwnerScope)
	otherScope := model.Scope(model.Symbol(other).OwnerScope)
	if model.Symbol(zero).OwnerScope == model.Symbol(other).OwnerScope {
		t.Fatal("the two case bodies should not share a scope")
	}

	zeroCaseScope, ok := zeroScope.Parent.Get()
	if !ok {
		t.Fatal("zero's block scope has no parent")
	}
	otherCaseScope, ok := otherScope.Parent.Get()
	if !ok {
		t.Fatal("other's block scope has no parent")
	}
	if zeroCaseScope == otherCaseScope {
		t.Fatal("the two cases should each get their own case scope")
	}

	switchScope, ok := model.Scope(zeroCaseScope).Parent.Get()
	if !ok {
		t.Fatal("case scope has no parent")
	}
	otherSwitchScope, ok := model.Scope(otherCaseScope).Parent.Get()
	if !ok || otherSwitchScope != switchScope {
		t.Error("both cases' scopes should share the same switch scope as their grandparent")
	}
}

func TestBuildImportBinding(t *testing.T) {
	model := parseModel(t, `const std = @import("std");`)

	if len(model.Imports) != 1 {
		t.Fatalf("expected 1 import, got %d", len(model.Imports))
	}
	if model.Imports[0].Specifier != "std" {
		t.Errorf("import specifier = %q, want %q", model.Imports[0].Specifier, "std")
	}
	sym := model.Symbol(model.Imports[0].Symbol)
	if sym.Kind != SymbolImportBinding {
		t.Errorf("import symbol kind = %v, want SymbolImportBinding", sym.Kind)
	}
}
