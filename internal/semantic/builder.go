package semantic

import (
	"fmt"
	"strings"

	"github.com/tinovyatkin/ziglint/internal/ids"
	"github.com/tinovyatkin/ziglint/internal/zsyntax"
)

// Build walks tree once and returns the resulting Model. Build never
// returns an error for the constructs zsyntax already tolerates (it
// degrades unknown syntax to opaque leaves); an error here signals an
// invariant the builder itself could not satisfy, such as a nil tree.
func Build(tree *zsyntax.Tree, file string) (*Model, error) {
	if tree == nil {
		return nil, fmt.Errorf("semantic: nil tree for %s", file)
	}
	n := tree.Len()
	b := &builder{
		tree: tree,
		model: &Model{
			File:           file,
			Tree:           tree,
			NodeParent:     make([]zsyntax.NodeIndex, n),
			NodeScope:      make([]ids.ScopeID, n),
			IdentifierRefs: make(map[uint32]ids.ReferenceID, n),
		},
	}

	// Symbol 0 / scope 0: the synthetic root container and its scope.
	b.model.Symbols = append(b.model.Symbols, Symbol{
		Name:       "",
		Kind:       SymbolVariable,
		OwnerScope: ids.RootScope,
		Owner:      ids.NoneSymbol,
	})
	b.model.Scopes = append(b.model.Scopes, Scope{Kind: ScopeRoot, Flags: ScopeTop, Parent: ids.NoneScope})
	b.recordNode(0, 0, ids.RootScope)

	b.buildContainerBody(tree.Root(), zsyntax.ContainerStruct, ids.RootSymbol, ids.RootScope, 0)
	return b.model, nil
}

type builder struct {
	tree  *zsyntax.Tree
	model *Model
}

// recordNode fills the node-links tables for node, given the node it was
// reached from and its innermost enclosing scope.
func (b *builder) recordNode(node, parent zsyntax.NodeIndex, scope ids.ScopeID) {
	b.model.NodeParent[node] = parent
	b.model.NodeScope[node] = scope
}

// newScope creates a child of parent with the given kind and flags, merging
// in ScopeComptime automatically when parent itself carries it — the
// "comptime bit is set on a scope inheriting from a comptime context" rule
// applies uniformly to every scope this builder creates.
func (b *builder) newScope(kind ScopeKind, parent ids.ScopeID, flags ScopeFlags) ids.ScopeID {
	if b.model.Scope(parent).Flags.Has(ScopeComptime) {
		flags |= ScopeComptime
	}
	id := ids.ScopeID(len(b.model.Scopes))
	b.model.Scopes = append(b.model.Scopes, Scope{Kind: kind, Flags: flags, Parent: ids.SomeScope(parent)})
	return id
}

func (b *builder) newSymbol(sym Symbol) ids.SymbolID {
	id := ids.SymbolID(len(b.model.Symbols))
	b.model.Symbols = append(b.model.Symbols, sym)
	return id
}

// blockScopeFlags returns the ScopeFlags for a `{ ... }` statement block,
// adding ScopeComptime when the block itself is a `comptime { ... }` block
// (nested scopes still inherit it independently via newScope).
func blockScopeFlags(blk *zsyntax.Block) ScopeFlags {
	flags := ScopeBlockFlag
	if blk.IsComptime {
		flags |= ScopeComptime
	}
	return flags
}

func (b *builder) addToScope(scope ids.ScopeID, sym ids.SymbolID) {
	s := b.model.Scope(scope)
	s.Symbols = append(s.Symbols, sym)
}

func (b *builder) tokenText(tok uint32) string {
	return b.tree.TokenText(tok)
}

// buildContainerBody declares every field and nested declaration of a
// container, then walks each declaration's body/value. Nested declarations
// are all registered before any of their bodies are walked, so sibling
// declarations can reference each other regardless of textual order (the
// same hoisting rule the language itself applies to container-level
// declarations). containerNode is the node whose children these are (0
// for the file-level root, whose own "node" is the synthetic root).
func (b *builder) buildContainerBody(
	c *zsyntax.ContainerDecl,
	kind zsyntax.ContainerKind,
	ownerSymbol ids.SymbolID,
	ownerScope ids.ScopeID,
	containerNode zsyntax.NodeIndex,
) {
	for _, fieldIdx := range c.Fields {
		b.recordNode(fieldIdx, containerNode, ownerScope)
		field := b.tree.Data[fieldIdx].(*zsyntax.ContainerField)
		fieldKind := SymbolField
		if kind == zsyntax.ContainerEnum {
			fieldKind = SymbolEnumVariant
		}
		b.newSymbol(Symbol{
			Name:       b.tokenText(field.NameToken),
			Kind:       fieldKind,
			Flags:      FlagMember,
			Node:       fieldIdx,
			NameToken:  field.NameToken,
			OwnerScope: ownerScope,
			Owner:      ids.SomeSymbol(ownerSymbol),
		})
		// Field default values may themselves reference sibling constants;
		// walk them in the owner scope after all fields/decls exist below.
	}

	type pending struct {
		node   zsyntax.NodeIndex
		symbol ids.SymbolID
	}
	var pendingDecls []pending

	for _, declIdx := range c.Decls {
		b.recordNode(declIdx, containerNode, ownerScope)
		switch b.tree.Tags[declIdx] {
		case zsyntax.TagVarDecl:
			vd := b.tree.Data[declIdx].(*zsyntax.VarDecl)
			kindSym := SymbolVariable
			if vd.IsConst {
				kindSym = SymbolConst
			}
			flags := FlagExported
			if vd.IsPub {
				flags |= FlagPub
			}
			if vd.IsComptime {
				flags |= FlagComptime
			}
			if vd.IsExtern {
				flags |= FlagExtern
			}
			if vd.IsExport {
				flags |= FlagExport
			}
			sym := b.newSymbol(Symbol{
				Name:       b.tokenText(vd.NameToken),
				Kind:       kindSym,
				Flags:      flags,
				Node:       declIdx,
				NameToken:  vd.NameToken,
				OwnerScope: ownerScope,
				Owner:      ids.SomeSymbol(ownerSymbol),
			})
			b.addToScope(ownerScope, sym)
			pendingDecls = append(pendingDecls, pending{declIdx, sym})
		case zsyntax.TagFnDecl:
			fn := b.tree.Data[declIdx].(*zsyntax.FnDecl)
			flags := FlagExported
			if fn.IsPub {
				flags |= FlagPub
			}
			if fn.IsComptimeAny {
				flags |= FlagComptime
			}
			name := ""
			if tok, ok := fn.NameToken.Get(); ok {
				name = b.tokenText(tok)
			}
			sym := b.newSymbol(Symbol{
				Name:       name,
				Kind:       SymbolFunction,
				Flags:      flags,
				Node:       declIdx,
				OwnerScope: ownerScope,
				Owner:      ids.SomeSymbol(ownerSymbol),
			})
			if tok, ok := fn.NameToken.Get(); ok {
				b.model.Symbols[sym].NameToken = tok
			}
			if name != "" {
				b.addToScope(ownerScope, sym)
			}
			pendingDecls = append(pendingDecls, pending{declIdx, sym})
		}
	}

	for _, p := range pendingDecls {
		switch b.tree.Tags[p.node] {
		case zsyntax.TagVarDecl:
			b.walkVarDeclValue(p.node, p.symbol, ownerScope)
		case zsyntax.TagFnDecl:
			b.buildFnDecl(p.node, b.tree.Data[p.node].(*zsyntax.FnDecl), p.symbol, ownerScope)
		}
	}

	// Field default-value expressions are walked last, in the owner scope,
	// so they can see sibling exports (e.g. a field defaulting to a
	// sibling constant).
	for _, fieldIdx := range c.Fields {
		field := b.tree.Data[fieldIdx].(*zsyntax.ContainerField)
		if v, ok := field.Value.Get(); ok {
			b.walkExpr(zsyntax.NodeIndex(v), ownerScope, fieldIdx)
		}
	}
}

// walkVarDeclValue resolves a declaration's initializer. If the value is
// itself a container literal, the declaration becomes that container's
// owning symbol and a new container scope is created for its body;
// otherwise the value expression is walked for references in parentScope.
func (b *builder) walkVarDeclValue(node zsyntax.NodeIndex, sym ids.SymbolID, parentScope ids.ScopeID) {
	vd := b.tree.Data[node].(*zsyntax.VarDecl)
	valueIdx, ok := vd.Value.Get()
	if !ok {
		return
	}
	value := zsyntax.NodeIndex(valueIdx)
	switch b.tree.Tags[value] {
	case zsyntax.TagContainerDecl:
		b.recordNode(value, node, parentScope)
		container := b.tree.Data[value].(*zsyntax.ContainerDecl)
		containerScope := b.newScope(ScopeContainer, parentScope, containerScopeFlag(container.Kind))
		b.buildContainerBody(container, container.Kind, sym, containerScope, value)
	case zsyntax.TagImport:
		b.recordNode(value, node, parentScope)
		imp := b.tree.Data[value].(*zsyntax.Import)
		b.model.Symbols[sym].Kind = SymbolImportBinding
		b.model.Imports = append(b.model.Imports, ModuleImport{
			Specifier: strings.Trim(b.tokenText(imp.SpecifierToken), `"`),
			Symbol:    sym,
		})
	default:
		b.walkExpr(value, parentScope, node)
	}
}

// buildFnDecl creates the parameter scope (child of the declaring scope)
// and, if a body is present, a body scope nested inside it — the
// root/parameter/body nesting every function declaration produces.
func (b *builder) buildFnDecl(node zsyntax.NodeIndex, fn *zsyntax.FnDecl, sym ids.SymbolID, declaringScope ids.ScopeID) {
	paramFlags := ScopeFlags(0)
	if fn.IsComptimeAny {
		paramFlags |= ScopeComptime
	}
	paramScope := b.newScope(ScopeParameter, declaringScope, paramFlags)
	for _, param := range fn.Params {
		flags := SymbolFlags(0)
		if param.IsComptime {
			flags |= FlagComptime
		}
		paramSym := b.newSymbol(Symbol{
			Name:       b.tokenText(param.NameToken),
			Kind:       SymbolParameter,
			Flags:      flags,
			NameToken:  param.NameToken,
			OwnerScope: paramScope,
			Owner:      ids.NoneSymbol,
		})
		b.addToScope(paramScope, paramSym)
	}

	bodyIdx, ok := fn.Body.Get()
	if !ok {
		return
	}
	body := zsyntax.NodeIndex(bodyIdx)
	bodyScope := b.newScope(ScopeBody, paramScope, ScopeFunction)
	b.recordNode(body, node, bodyScope)
	blk := b.tree.Data[body].(*zsyntax.Block)
	b.walkBlockHoisted(blk, bodyScope, body)
}

// walkBlockHoisted walks a function body. Unlike container declarations,
// local declarations are NOT hoisted: each statement is processed in
// order, and a const/var's own initializer is resolved before the name
// becomes visible.
func (b *builder) walkBlockHoisted(blk *zsyntax.Block, scope ids.ScopeID, parent zsyntax.NodeIndex) {
	for _, stmt := range blk.Statements {
		b.walkStmt(stmt, scope, parent)
	}
}

func (b *builder) walkBody(node zsyntax.NodeIndex, parentScope ids.ScopeID, parent zsyntax.NodeIndex) {
	if b.tree.Tags[node] == zsyntax.TagBlock {
		b.recordNode(node, parent, parentScope)
		blk := b.tree.Data[node].(*zsyntax.Block)
		child := b.newScope(ScopeBlock, parentScope, blockScopeFlags(blk))
		b.walkBlockHoisted(blk, child, node)
		return
	}
	b.walkStmt(node, parentScope, parent)
}

func (b *builder) walkStmt(node zsyntax.NodeIndex, scope ids.ScopeID, parent zsyntax.NodeIndex) {
	b.recordNode(node, parent, scope)
	switch b.tree.Tags[node] {
	case zsyntax.TagVarDecl:
		vd := b.tree.Data[node].(*zsyntax.VarDecl)
		if v, ok := vd.Value.Get(); ok {
			value := zsyntax.NodeIndex(v)
			b.walkExpr(value, scope, node)
			if b.tree.Tags[value] == zsyntax.TagImport {
				imp := b.tree.Data[value].(*zsyntax.Import)
				kindSym := SymbolVariable
				if vd.IsConst {
					kindSym = SymbolImportBinding
				}
				sym := b.newSymbol(Symbol{
					Name:       b.tokenText(vd.NameToken),
					Kind:       kindSym,
					Node:       node,
					NameToken:  vd.NameToken,
					OwnerScope: scope,
					Owner:      ids.NoneSymbol,
				})
				b.addToScope(scope, sym)
				b.model.Imports = append(b.model.Imports, ModuleImport{Specifier: strings.Trim(b.tokenText(imp.SpecifierToken), `"`), Symbol: sym})
				return
			}
		}
		kindSym := SymbolVariable
		if vd.IsConst {
			kindSym = SymbolConst
		}
		flags := SymbolFlags(0)
		if vd.IsComptime {
			flags |= FlagComptime
		}
		sym := b.newSymbol(Symbol{
			Name:       b.tokenText(vd.NameToken),
			Kind:       kindSym,
			Flags:      flags,
			Node:       node,
			NameToken:  vd.NameToken,
			OwnerScope: scope,
			Owner:      ids.NoneSymbol,
		})
		b.addToScope(scope, sym)
	case zsyntax.TagAssignDestructure:
		ad := b.tree.Data[node].(*zsyntax.AssignDestructure)
		b.walkExpr(ad.Value, scope, node)
		for _, n := range ad.Names {
			sym := b.newSymbol(Symbol{
				Name:       b.tokenText(n.NameToken),
				Kind:       SymbolVariable,
				NameToken:  n.NameToken,
				OwnerScope: scope,
				Owner:      ids.NoneSymbol,
			})
			b.addToScope(scope, sym)
		}
	case zsyntax.TagIf:
		ifn := b.tree.Data[node].(*zsyntax.If)
		b.walkExpr(ifn.Cond, scope, node)
		b.walkBody(ifn.Then, scope, node)
		if elseIdx, ok := ifn.Else.Get(); ok {
			b.walkBody(zsyntax.NodeIndex(elseIdx), scope, node)
		}
	case zsyntax.TagWhile:
		w := b.tree.Data[node].(*zsyntax.While)
		b.walkExpr(w.Cond, scope, node)
		b.walkBody(w.Body, scope, node)
	case zsyntax.TagFor:
		f := b.tree.Data[node].(*zsyntax.For)
		b.walkExpr(f.Iterable, scope, node)
		b.walkBody(f.Body, scope, node)
	case zsyntax.TagSwitch:
		b.walkSwitch(node, scope, parent)
	case zsyntax.TagBlock:
		blk := b.tree.Data[node].(*zsyntax.Block)
		child := b.newScope(ScopeBlock, scope, blockScopeFlags(blk))
		b.walkBlockHoisted(blk, child, node)
	case zsyntax.TagReturn:
		seq := b.tree.Data[node].(*zsyntax.Seq)
		for _, c := range seq.Children {
			b.walkExpr(c, scope, node)
		}
	case zsyntax.TagBreak, zsyntax.TagContinue:
		// no operand modeled
	case zsyntax.TagAssign:
		as := b.tree.Data[node].(*zsyntax.Assign)
		b.walkExprRole(as.Target, scope, node, ReferenceWrite)
		b.walkExpr(as.Value, scope, node)
	default:
		b.walkExpr(node, scope, parent)
	}
}

// walkSwitch creates one scope for the switch statement itself, and a
// further child scope per case — the "one scope whose children are
// per-case scopes" nesting spec.md §4.2 requires. Both are plain block
// scopes: the spec's flag vocabulary has no dedicated "switch" category.
func (b *builder) walkSwitch(node zsyntax.NodeIndex, scope ids.ScopeID, parent zsyntax.NodeIndex) {
	sw := b.tree.Data[node].(*zsyntax.Switch)
	b.walkExpr(sw.Cond, scope, node)

	switchScope := b.newScope(ScopeBlock, scope, ScopeBlockFlag)
	b.recordNode(node, parent, switchScope)

	for _, caseIdx := range sw.Cases {
		caseScope := b.newScope(ScopeBlock, switchScope, ScopeBlockFlag)
		b.recordNode(caseIdx, node, caseScope)
		c := b.tree.Data[caseIdx].(*zsyntax.SwitchCase)
		for _, v := range c.Values {
			b.walkExpr(v, caseScope, caseIdx)
		}
		b.walkBody(c.Body, caseScope, caseIdx)
	}
}

// walkExpr walks node as a plain read — the role every expression position
// carries except a call's callee, an assignment's target, and a composite
// literal's type name.
func (b *builder) walkExpr(node zsyntax.NodeIndex, scope ids.ScopeID, parent zsyntax.NodeIndex) {
	b.walkExprRole(node, scope, parent, ReferenceRead)
}

// walkExprRole walks node, attributing role to the identifier (or, for a
// field-access chain, the final field name) that node denotes. Everything
// reached recursively below that — a call's arguments, a field access's
// base — keeps its own unconditional role; role only ever applies to the
// node passed in directly.
func (b *builder) walkExprRole(node zsyntax.NodeIndex, scope ids.ScopeID, parent zsyntax.NodeIndex, role ReferenceFlags) {
	b.recordNode(node, parent, scope)
	switch b.tree.Tags[node] {
	case zsyntax.TagIdentifier:
		b.emitReference(b.tree.MainToken[node], scope, role, false)
	case zsyntax.TagFieldAccess:
		// a.b.c is flattened into one Reference per component: the base
		// resolves like any other expression (recursing covers chains of
		// arbitrary depth) and is always a plain read, and the field name
		// at this level is always an unresolved member reference — the
		// builder has no type information to know which symbol's member it
		// names. Only the final component carries the caller's role: the
		// call in a.b.c() marks c with call, not a or b.
		fa := b.tree.Data[node].(*zsyntax.FieldAccess)
		b.walkExpr(fa.Base, scope, node)
		b.emitReference(fa.FieldToken, scope, role, true)
	case zsyntax.TagCall:
		call := b.tree.Data[node].(*zsyntax.Call)
		b.walkExprRole(call.Callee, scope, node, ReferenceCall)
		for _, a := range call.Args {
			b.walkExpr(a, scope, node)
		}
	case zsyntax.TagCatch:
		c := b.tree.Data[node].(*zsyntax.Catch)
		b.walkExpr(c.Target, scope, node)
		catchScope := b.newScope(ScopeBlock, scope, ScopeCatch)
		if tok, ok := c.PayloadToken.Get(); ok {
			sym := b.newSymbol(Symbol{
				Name:       b.tokenText(tok),
				Kind:       SymbolCatchPayload,
				NameToken:  tok,
				OwnerScope: catchScope,
				Owner:      ids.NoneSymbol,
			})
			b.addToScope(catchScope, sym)
		}
		b.walkBody(c.Body, catchScope, node)
	case zsyntax.TagSeq:
		seq := b.tree.Data[node].(*zsyntax.Seq)
		for _, c := range seq.Children {
			b.walkExpr(c, scope, node)
		}
	case zsyntax.TagArrayInit:
		arr := b.tree.Data[node].(*zsyntax.ArrayInit)
		for _, e := range arr.Elements {
			b.walkExpr(e, scope, node)
		}
	case zsyntax.TagStructInit:
		si := b.tree.Data[node].(*zsyntax.StructInit)
		if te, ok := si.TypeExpr.Get(); ok {
			b.walkExprRole(zsyntax.NodeIndex(te), scope, node, ReferenceType)
		}
		for _, fieldIdx := range si.Fields {
			b.recordNode(fieldIdx, node, scope)
			field := b.tree.Data[fieldIdx].(*zsyntax.ContainerField)
			if v, ok := field.Value.Get(); ok {
				b.walkExpr(zsyntax.NodeIndex(v), scope, fieldIdx)
			}
		}
	case zsyntax.TagImport, zsyntax.TagLiteral, zsyntax.TagOpaqueExpr, zsyntax.TagContainerDecl:
		// Imports are only meaningful as a declaration's direct value
		// (handled by the caller); literals, opaque expressions, and
		// anonymous container types carry no references of their own.
	}
}

// emitReference records one reference-table row for an identifier or
// field-name token and threads it into the unresolved-reference and
// per-token lookup tables as needed. role is the read/write/call/type bit
// the occurrence carries; member additionally sets ReferenceMember and
// skips scope-chain resolution (a field name is never a binding).
func (b *builder) emitReference(tok uint32, scope ids.ScopeID, role ReferenceFlags, member bool) {
	name := b.tokenText(tok)
	refID := ids.ReferenceID(len(b.model.References))

	var resolved ids.OptionalSymbol = ids.NoneSymbol
	if !member {
		resolved = b.resolve(scope, name)
	}

	flags := role
	if member {
		flags |= ReferenceMember
	}

	b.model.References = append(b.model.References, Reference{
		Name:   name,
		Token:  tok,
		Scope:  scope,
		Symbol: resolved,
		Flags:  flags,
	})
	b.model.IdentifierRefs[tok] = refID

	if _, ok := resolved.Get(); !ok {
		b.model.UnresolvedReferences = append(b.model.UnresolvedReferences, refID)
	}
}

// resolve walks the scope chain from scope upward, returning the nearest
// enclosing declaration named name. Container member symbols are never
// visible this way — only through explicit member access, which the
// builder does not attempt to resolve without type information.
func (b *builder) resolve(scope ids.ScopeID, name string) ids.OptionalSymbol {
	current := ids.SomeScope(scope)
	for {
		id, ok := current.Get()
		if !ok {
			return ids.NoneSymbol
		}
		s := b.model.Scope(id)
		for i := len(s.Symbols) - 1; i >= 0; i-- {
			sym := s.Symbols[i]
			if b.model.Symbols[sym].Name == name {
				return ids.SomeSymbol(sym)
			}
		}
		current = s.Parent
	}
}
