// Package semantic builds a flat, columnar symbol/scope/reference model
// from a zsyntax.Tree in a single forward pass. It is the analytical core
// every rule runs against: rules never walk the syntax tree directly, they
// query Model.
package semantic

import (
	"github.com/tinovyatkin/ziglint/internal/ids"
	"github.com/tinovyatkin/ziglint/internal/zsyntax"
)

// SymbolKind classifies what a Symbol denotes.
type SymbolKind uint8

const (
	SymbolVariable SymbolKind = iota
	SymbolConst
	SymbolParameter
	SymbolFunction
	SymbolField
	SymbolEnumVariant
	SymbolCatchPayload
	SymbolImportBinding
)

// SymbolFlags is a bitset of modifiers that don't warrant their own column.
type SymbolFlags uint16

const (
	FlagPub SymbolFlags = 1 << iota
	FlagComptime
	FlagExtern
	FlagExport
	// FlagMember marks a symbol declared with field syntax: it belongs to
	// its owner's Members, not its Exports, and is never added to a scope's
	// lexical symbol list (it is reachable only through member access).
	FlagMember
	// FlagExported marks a nested declaration (const/var/fn/type) owned by
	// a container: it belongs to the owner's Exports.
	FlagExported
)

func (f SymbolFlags) Has(flag SymbolFlags) bool { return f&flag != 0 }

// Contains reports whether every bit of other is set in f.
func (f SymbolFlags) Contains(other SymbolFlags) bool { return f&other == other }

// Intersects reports whether f and other share any set bit.
func (f SymbolFlags) Intersects(other SymbolFlags) bool { return f&other != 0 }

// Merge returns f with other's bits also set.
func (f SymbolFlags) Merge(other SymbolFlags) SymbolFlags { return f | other }

// Set returns f with flag set or cleared according to enable.
func (f SymbolFlags) Set(flag SymbolFlags, enable bool) SymbolFlags {
	if enable {
		return f | flag
	}
	return f &^ flag
}

// Symbol is one row of the symbol table.
type Symbol struct {
	Name       string
	Kind       SymbolKind
	Flags      SymbolFlags
	Node       zsyntax.NodeIndex  // the declaring node
	NameToken  uint32             // token carrying the declared name, for position lookup
	OwnerScope ids.ScopeID        // the scope this symbol is lexically visible in (NoneScope equivalent is never used: every symbol has a home scope)
	Owner      ids.OptionalSymbol // the container symbol this is a member/export of; NoneSymbol for locals and parameters
}

// ScopeKind classifies a Scope row by its structural role (what kind of
// node created it): the identity a caller needs to decide, say, whether a
// declaration here would shadow a function's parameters. ScopeFlags (below)
// layers the finer, combinable categories spec.md §3 lists on top of this.
type ScopeKind uint8

const (
	ScopeRoot ScopeKind = iota
	ScopeContainer
	ScopeParameter
	ScopeBody
	ScopeBlock
)

// ScopeFlags is a bitset over the scope categories spec.md §3 lists:
// {top, function, struct, enum, union, error, block, comptime, catch,
// test}. Unlike ScopeKind, several of these can be true at once — a
// `comptime { ... }` block is both Block and Comptime, and Comptime itself
// is inherited: a scope nested inside a comptime context carries the bit
// even if nothing about the nested scope itself is comptime.
type ScopeFlags uint16

const (
	ScopeTop ScopeFlags = 1 << iota
	ScopeFunction
	ScopeStruct
	ScopeEnum
	ScopeUnion
	ScopeError
	ScopeBlockFlag
	ScopeComptime
	ScopeCatch
	// ScopeTest marks a `test "name" { ... }` block's body scope. zsyntax's
	// narrow front-end grammar (internal/zsyntax) does not currently parse
	// test declarations into a structured node, so nothing sets this bit
	// yet; it is declared now so the bitset matches spec.md §3's category
	// list in full.
	ScopeTest
)

func (f ScopeFlags) Has(flag ScopeFlags) bool         { return f&flag != 0 }
func (f ScopeFlags) Contains(other ScopeFlags) bool   { return f&other == other }
func (f ScopeFlags) Intersects(other ScopeFlags) bool { return f&other != 0 }
func (f ScopeFlags) Merge(other ScopeFlags) ScopeFlags { return f | other }
func (f ScopeFlags) Set(flag ScopeFlags, enable bool) ScopeFlags {
	if enable {
		return f | flag
	}
	return f &^ flag
}

// containerScopeFlag maps a zsyntax container kind to its ScopeFlags bit.
func containerScopeFlag(kind zsyntax.ContainerKind) ScopeFlags {
	switch kind {
	case zsyntax.ContainerEnum:
		return ScopeEnum
	case zsyntax.ContainerUnion:
		return ScopeUnion
	case zsyntax.ContainerError:
		return ScopeError
	default:
		return ScopeStruct
	}
}

// Scope is one row of the scope tree. Symbols holds only lexically
// resolvable bindings (locals, parameters, and exported/hoisted
// declarations) — container members are never listed here.
type Scope struct {
	Kind    ScopeKind
	Flags   ScopeFlags
	Parent  ids.OptionalScope
	Symbols []ids.SymbolID
}

// ReferenceFlags is a bitset over the role an identifier plays at one
// reference site: spec.md §3's {read, write, call, type, member}. They
// combine — a call target reached through a field access is both Call and
// Member — to distinguish, e.g., "x is read" from "a member of x is read".
type ReferenceFlags uint16

const (
	ReferenceRead ReferenceFlags = 1 << iota
	ReferenceWrite
	ReferenceCall
	// ReferenceType marks an identifier used in type position, e.g. the
	// `Point` in `Point{ .x = 1 }`. zsyntax captures most type syntax
	// (parameter/return types) as raw, unwalked text (Param.TypeText,
	// FnDecl.ReturnTypeText), so composite-literal type names are
	// currently the only source of this flag.
	ReferenceType
	ReferenceMember
)

func (f ReferenceFlags) Has(flag ReferenceFlags) bool         { return f&flag != 0 }
func (f ReferenceFlags) Contains(other ReferenceFlags) bool   { return f&other == other }
func (f ReferenceFlags) Intersects(other ReferenceFlags) bool { return f&other != 0 }
func (f ReferenceFlags) Merge(other ReferenceFlags) ReferenceFlags { return f | other }
func (f ReferenceFlags) Set(flag ReferenceFlags, enable bool) ReferenceFlags {
	if enable {
		return f | flag
	}
	return f &^ flag
}

// Reference is one row of the reference table: one occurrence of an
// identifier being used, resolved (or not) against the scope chain.
//
// A member-access chain such as a.b.c produces one Reference per
// component: the leading identifier resolves against the scope chain
// like any other reference, and every component after it is a field
// name rather than a binding — ReferenceMember is set, Symbol is always
// None, and it is counted among the model's unresolved references
// regardless (consumers that care about undefined bindings, not field
// names, are expected to filter on Flags.Has(ReferenceMember)). The
// read/write/call/type role flag is carried by every component but only
// meaningful on the last one: earlier components are always plain reads
// (you must read `a` and `a.b` to reach `c`).
type Reference struct {
	Name   string
	Token  uint32
	Scope  ids.ScopeID
	Symbol ids.OptionalSymbol // NoneSymbol if no enclosing scope declares Name
	Flags  ReferenceFlags
}

// ModuleImport records one `const name = @import("specifier");` binding.
// Specifier is the string literal's text without its quotes.
type ModuleImport struct {
	Specifier string
	Symbol    ids.SymbolID
}

// Model is the full semantic model of one file. Symbols and scopes are
// identified by dense, file-local ids; a (File, SymbolID) pair is the unit
// a future cross-file pass would key on, which is why File is carried here
// rather than assumed by the caller.
type Model struct {
	File string
	Tree *zsyntax.Tree

	Symbols    []Symbol
	Scopes     []Scope
	References []Reference
	Imports    []ModuleImport

	// NodeParent maps every node to the node it was reached from during
	// the build walk, indexed by zsyntax.NodeIndex. Index 0 (the root
	// container) maps to itself, the same overloaded meaning zsyntax
	// gives index 0 (root and "absent" at once).
	NodeParent []zsyntax.NodeIndex

	// NodeScope maps every node to its innermost enclosing scope.
	NodeScope []ids.ScopeID

	// IdentifierRefs maps an identifier token index to the ReferenceID
	// it produced, for rules that start from a token (e.g. from a
	// directive comment's position) rather than from a scope walk.
	IdentifierRefs map[uint32]ids.ReferenceID

	// UnresolvedReferences lists, in creation order, the id of every
	// Reference whose Symbol is None — both free identifiers and member
	// components of an access chain.
	UnresolvedReferences []ids.ReferenceID
}

// Symbol returns the row for id.
func (m *Model) Symbol(id ids.SymbolID) *Symbol { return &m.Symbols[id] }

// Scope returns the row for id.
func (m *Model) Scope(id ids.ScopeID) *Scope { return &m.Scopes[id] }

// ParentOf returns node's syntactic parent. The root node (index 0) is
// its own parent; callers distinguish it by comparing the returned index
// against the argument.
func (m *Model) ParentOf(node zsyntax.NodeIndex) zsyntax.NodeIndex { return m.NodeParent[node] }

// ScopeOf returns the scope enclosing node.
func (m *Model) ScopeOf(node zsyntax.NodeIndex) ids.ScopeID { return m.NodeScope[node] }

// Reference returns the row for id.
func (m *Model) Reference(id ids.ReferenceID) *Reference { return &m.References[id] }

// MembersOf returns the member symbols owned by owner, in declaration order.
func (m *Model) MembersOf(owner ids.SymbolID) []ids.SymbolID {
	return m.ownedWithFlag(owner, FlagMember)
}

// ExportsOf returns the exported (nested-declaration) symbols owned by
// owner, in declaration order.
func (m *Model) ExportsOf(owner ids.SymbolID) []ids.SymbolID {
	return m.ownedWithFlag(owner, FlagExported)
}

func (m *Model) ownedWithFlag(owner ids.SymbolID, flag SymbolFlags) []ids.SymbolID {
	var out []ids.SymbolID
	for i := range m.Symbols {
		s := &m.Symbols[i]
		if !s.Flags.Has(flag) {
			continue
		}
		if o, ok := s.Owner.Get(); ok && o == owner {
			out = append(out, ids.SymbolID(i))
		}
	}
	return out
}

// IsUsed reports whether any reference in the model resolves to id with a
// read or call role. A reference that only writes to id — the target of a
// plain assignment — does not make id "used": a variable assigned to but
// never read is exactly the case this is meant to catch.
func (m *Model) IsUsed(id ids.SymbolID) bool {
	for _, r := range m.References {
		resolved, ok := r.Symbol.Get()
		if !ok || resolved != id {
			continue
		}
		if r.Flags.Intersects(ReferenceRead | ReferenceCall) {
			return true
		}
	}
	return false
}

// ReferencesTo returns every reference that resolved to id.
func (m *Model) ReferencesTo(id ids.SymbolID) []Reference {
	var out []Reference
	for _, r := range m.References {
		if resolved, ok := r.Symbol.Get(); ok && resolved == id {
			out = append(out, r)
		}
	}
	return out
}
