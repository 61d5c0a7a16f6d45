// Package zsyntax is the front-end boundary: a small recursive-descent
// parser for the subset of the source language the semantic builder needs
// to understand. It stands in for the external parser the specification
// treats as an out-of-scope collaborator — nothing downstream depends on
// its internals beyond the Tree/Node contract in this file.
//
// The grammar covered is deliberately narrow: const/var declarations,
// function declarations, struct/enum/union/error containers and their
// fields, block statements, if/while/for/switch, catch payloads,
// assignment-destructuring, struct/array initializers, calls, field-access
// chains, and @import. Anything else (generics, anytype, inline asm,
// async/await) parses as an opaque leaf with no exposed structure.
package zsyntax

import (
	"github.com/tinovyatkin/ziglint/internal/ids"
	"github.com/tinovyatkin/ziglint/internal/token"
)

// NodeIndex identifies a node in a Tree. Index 0 denotes both the synthetic
// root and "no node"; callers that need to disambiguate track that
// separately (the root is never a legitimate "no node" answer from a
// parser method, only from zero-valued struct fields).
type NodeIndex uint32

// Tag identifies which node family a node belongs to, and therefore which
// concrete type (if any) Data holds.
type Tag uint8

const (
	TagRoot Tag = iota
	TagContainerDecl
	TagContainerField
	TagVarDecl
	TagFnDecl
	TagBlock
	TagIf
	TagWhile
	TagFor
	TagSwitch
	TagSwitchCase
	TagCatch
	TagCall
	TagFieldAccess
	TagIdentifier
	TagImport
	TagAssignDestructure
	TagAssign
	TagArrayInit
	TagStructInit
	TagReturn
	TagBreak
	TagContinue
	TagSeq
	TagLiteral
	TagOpaqueExpr
)

// ContainerKind distinguishes struct/enum/union/error container decls.
type ContainerKind uint8

const (
	ContainerStruct ContainerKind = iota
	ContainerEnum
	ContainerUnion
	ContainerError
)

// ContainerDecl is the full projection for a struct/enum/union/error
// container literal.
type ContainerDecl struct {
	Kind   ContainerKind
	Fields []NodeIndex
	Decls  []NodeIndex
}

// ContainerField is the full projection for one field of a container.
// Enum variants with no explicit value (`bar,`) have Value == NoneNode.
type ContainerField struct {
	NameToken uint32
	Value     ids.OptionalNode
}

// VarDecl is the full projection for a const/var declaration.
type VarDecl struct {
	NameToken  uint32
	IsConst    bool
	IsComptime bool
	IsPub      bool
	IsExtern   bool
	IsExport   bool
	Value      ids.OptionalNode
}

// Param is one function parameter.
type Param struct {
	NameToken  uint32
	IsComptime bool
	TypeText   string
}

// FnDecl is the full projection for a function declaration.
type FnDecl struct {
	NameToken      ids.OptionalNode // wraps a token index, NoneNode if anonymous
	Params         []Param
	ReturnTypeText string
	IsPub          bool
	IsComptimeAny  bool // true if any parameter is comptime or ReturnTypeText == "type"
	Body           ids.OptionalNode
}

// Block is the full projection for a `{ ... }` statement block.
type Block struct {
	Statements []NodeIndex
	IsComptime bool
}

// If is the full projection for an if/else expression or statement.
type If struct {
	Cond NodeIndex
	Then NodeIndex
	Else ids.OptionalNode
}

// While is the full projection for a while loop.
type While struct {
	Cond NodeIndex
	Body NodeIndex
}

// For is the full projection for a for loop.
type For struct {
	Iterable NodeIndex
	Body     NodeIndex
}

// Switch is the full projection for a switch expression/statement.
type Switch struct {
	Cond  NodeIndex
	Cases []NodeIndex
}

// SwitchCase is the full projection for one arm of a switch.
type SwitchCase struct {
	Values []NodeIndex // empty means the `else` arm
	Body   NodeIndex
}

// Catch is the full projection for `expr catch |payload| body`.
type Catch struct {
	Target       NodeIndex
	PayloadToken ids.OptionalNode
	Body         NodeIndex
}

// Call is the full projection for a function call.
type Call struct {
	Callee NodeIndex
	Args   []NodeIndex
}

// FieldAccess is the full projection for `base.field`.
type FieldAccess struct {
	Base       NodeIndex
	FieldToken uint32
}

// Import is the full projection for `@import("specifier")`.
type Import struct {
	SpecifierToken uint32
}

// AssignDestructure is the full projection for `const a, var b = rhs;`.
type AssignDestructure struct {
	Names   []DestructureName
	Value   NodeIndex
}

// DestructureName is one binding on the left side of a destructure.
type DestructureName struct {
	NameToken uint32
	IsConst   bool
}

// Assign is the full projection for a plain assignment statement
// (`x = 5;`, `x.y = 5;`): unlike AssignDestructure, the target is an
// existing binding being written to, not a new declaration.
type Assign struct {
	Target NodeIndex
	Value  NodeIndex
}

// ArrayInit is the full projection for an anonymous or typed array
// initializer (`.{1, 2, 3}` or `[3]u8{1, 2, 3}`).
type ArrayInit struct {
	Elements []NodeIndex
}

// StructInit is the full projection for an anonymous or typed struct
// initializer (`.{ .x = 1 }` or `Point{ .x = 1 }`). TypeExpr is the `Point`
// identifier node for a typed initializer, NoneNode for the anonymous `.{}`
// form.
type StructInit struct {
	Fields   []NodeIndex // each is a TagContainerField node holding a ContainerField
	TypeExpr ids.OptionalNode
}

// Seq is a generic wrapper for expression chains the parser does not need
// to model precisely (binary operators, orelse, return values): it exists
// purely so identifier operands inside it are still visited for reference
// creation.
type Seq struct {
	Children []NodeIndex
}

// Tree is a columnar node arena: parallel arrays indexed by NodeIndex.
type Tree struct {
	Tags      []Tag
	MainToken []uint32
	Data      []any

	Source []byte
	// Tokens holds the lexed token table the builder can use for text
	// extraction and span resolution.
	Tokens *token.Table
}

func newTree(source []byte, tokens *token.Table) *Tree {
	t := &Tree{Source: source, Tokens: tokens}
	// Node 0 is always the synthetic root; its Data is filled in once the
	// parse completes.
	t.Tags = append(t.Tags, TagRoot)
	t.MainToken = append(t.MainToken, 0)
	t.Data = append(t.Data, nil)
	return t
}

func (t *Tree) push(tag Tag, mainToken uint32, data any) NodeIndex {
	idx := NodeIndex(len(t.Tags))
	t.Tags = append(t.Tags, tag)
	t.MainToken = append(t.MainToken, mainToken)
	t.Data = append(t.Data, data)
	return idx
}

// Len returns the number of nodes, including the root.
func (t *Tree) Len() int { return len(t.Tags) }

// Root returns the root container's projection.
func (t *Tree) Root() *ContainerDecl {
	data, _ := t.Data[0].(*ContainerDecl)
	return data
}

// TokenText returns the source text of the given token index.
func (t *Tree) TokenText(tokenIndex uint32) string {
	return t.Tokens.Text(t.Source, int(tokenIndex))
}
