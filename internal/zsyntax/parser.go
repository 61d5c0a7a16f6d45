package zsyntax

import (
	"github.com/tinovyatkin/ziglint/internal/ids"
	"github.com/tinovyatkin/ziglint/internal/token"
)

// Parse lexes and parses source, returning the resulting Tree. Parse never
// fails outright: unrecognized constructs degrade to opaque leaves rather
// than aborting the parse, so the caller always gets a usable tree back.
func Parse(source []byte) *Tree {
	tbl := token.Lex(source)
	p := &parser{src: source, tbl: tbl}
	p.tree = newTree(source, tbl)
	root := p.parseContainerBody(token.EOF)
	p.tree.Data[0] = root
	return p.tree
}

type parser struct {
	src  []byte
	tbl  *token.Table
	tree *Tree
	pos  int
}

func (p *parser) cur() token.Tag {
	if p.pos >= p.tbl.Len() {
		return token.EOF
	}
	return p.tbl.Tags[p.pos]
}

func (p *parser) peekAt(off int) token.Tag {
	i := p.pos + off
	if i >= p.tbl.Len() {
		return token.EOF
	}
	return p.tbl.Tags[i]
}

func (p *parser) atEOF() bool { return p.cur() == token.EOF }

func (p *parser) text(i int) string { return p.tbl.Text(p.src, i) }

// advance returns the current token index and moves past it.
func (p *parser) advance() uint32 {
	i := p.pos
	if p.pos < p.tbl.Len() {
		p.pos++
	}
	return uint32(i)
}

// accept consumes the current token if it matches tag.
func (p *parser) accept(tag token.Tag) (uint32, bool) {
	if p.cur() == tag {
		return p.advance(), true
	}
	return 0, false
}

// expect consumes the current token if it matches tag, else leaves position
// unchanged and returns false; callers resynchronize as needed.
func (p *parser) expect(tag token.Tag) (uint32, bool) {
	return p.accept(tag)
}

func (p *parser) push(tag Tag, mainToken uint32, data any) NodeIndex {
	return p.tree.push(tag, mainToken, data)
}

// skipBalanced consumes tokens until the matching close for the delimiter
// that was just opened (open already consumed), honoring nesting.
func (p *parser) skipBalanced(open, close token.Tag) {
	depth := 1
	for !p.atEOF() {
		switch p.cur() {
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				p.advance()
				return
			}
		}
		p.advance()
	}
}

// parseContainerBody parses a sequence of container members (fields and
// declarations) until end is reached. end is not consumed.
func (p *parser) parseContainerBody(end token.Tag) *ContainerDecl {
	decl := &ContainerDecl{}
	for p.cur() != end && !p.atEOF() {
		isPub := false
		if _, ok := p.accept(token.KeywordPub); ok {
			isPub = true
		}
		isExport := false
		if _, ok := p.accept(token.KeywordExport); ok {
			isExport = true
		}
		isExtern := false
		if _, ok := p.accept(token.KeywordExtern); ok {
			isExtern = true
		}

		switch p.cur() {
		case token.KeywordConst, token.KeywordVar:
			node := p.parseVarDecl(isPub, isExtern, isExport)
			decl.Decls = append(decl.Decls, node)
		case token.KeywordFn:
			node := p.parseFnDecl(isPub)
			decl.Decls = append(decl.Decls, node)
		case token.KeywordComptime:
			p.advance()
			if p.cur() == token.LBrace {
				p.advance()
				blk := p.parseBlockBody(true)
				decl.Decls = append(decl.Decls, p.push(TagBlock, 0, blk))
			} else {
				// comptime decl inside container: parse as a normal decl.
				if p.cur() == token.KeywordConst || p.cur() == token.KeywordVar {
					node := p.parseVarDeclTagged(isPub, isExtern, isExport, true)
					decl.Decls = append(decl.Decls, node)
				}
			}
		case token.Identifier:
			// container field: IDENT (':' Type)? ('=' Expr)? ','
			if p.peekAt(1) == token.Colon || p.peekAt(1) == token.Comma || p.peekAt(1) == end {
				field := p.parseContainerField()
				decl.Fields = append(decl.Fields, field)
			} else {
				p.advance()
			}
		default:
			// Unrecognized member token (doc comment artifacts, stray
			// punctuation): skip forward to avoid an infinite loop.
			p.advance()
		}
	}
	return decl
}

func (p *parser) parseContainerField() NodeIndex {
	nameTok := p.advance() // identifier
	value := ids.NoneNode
	if _, ok := p.accept(token.Colon); ok {
		p.skipTypeExpr()
	}
	if _, ok := p.accept(token.Equal); ok {
		v := p.parseExpr()
		value = ids.SomeNode(uint32(v))
	}
	p.accept(token.Comma)
	return p.push(TagContainerField, nameTok, &ContainerField{NameToken: nameTok, Value: value})
}

func (p *parser) parseVarDecl(isPub, isExtern, isExport bool) NodeIndex {
	return p.parseVarDeclTagged(isPub, isExtern, isExport, false)
}

func (p *parser) parseVarDeclTagged(isPub, isExtern, isExport, isComptime bool) NodeIndex {
	isConst := p.cur() == token.KeywordConst
	kwTok := p.advance() // const|var
	nameTok, _ := p.accept(token.Identifier)
	if _, ok := p.accept(token.Colon); ok {
		p.skipTypeExpr()
	}
	value := ids.NoneNode
	if _, ok := p.accept(token.Equal); ok {
		v := p.parseExpr()
		value = ids.SomeNode(uint32(v))
	}
	p.accept(token.Semicolon)
	return p.push(TagVarDecl, kwTok, &VarDecl{
		NameToken:  nameTok,
		IsConst:    isConst,
		IsComptime: isComptime,
		IsPub:      isPub,
		IsExtern:   isExtern,
		IsExport:   isExport,
		Value:      value,
	})
}

// parseAssignDestructure parses `const a, var b = rhs;` once the caller has
// detected a comma following the first binding name.
func (p *parser) parseAssignDestructure() NodeIndex {
	startTok := uint32(p.pos)
	var names []DestructureName
	for {
		isConst := true
		if _, ok := p.accept(token.KeywordVar); ok {
			isConst = false
		} else {
			p.accept(token.KeywordConst)
		}
		nameTok, _ := p.accept(token.Identifier)
		names = append(names, DestructureName{NameToken: nameTok, IsConst: isConst})
		if _, ok := p.accept(token.Comma); !ok {
			break
		}
	}
	p.accept(token.Equal)
	value := p.parseExpr()
	p.accept(token.Semicolon)
	return p.push(TagAssignDestructure, startTok, &AssignDestructure{Names: names, Value: value})
}

// isDestructureAhead reports whether the upcoming tokens look like a
// destructuring assignment: (const|var)? IDENT ',' ...
func (p *parser) isDestructureAhead() bool {
	off := 0
	if p.peekAt(off) == token.KeywordConst || p.peekAt(off) == token.KeywordVar {
		off++
	}
	if p.peekAt(off) != token.Identifier {
		return false
	}
	off++
	return p.peekAt(off) == token.Comma
}

func (p *parser) parseFnDecl(isPub bool) NodeIndex {
	fnTok := p.advance() // 'fn'
	var nameOpt ids.OptionalNode
	if nameTok, ok := p.accept(token.Identifier); ok {
		nameOpt = ids.SomeNode(nameTok)
	} else {
		nameOpt = ids.NoneNode
	}
	p.accept(token.LParen)
	var params []Param
	for p.cur() != token.RParen && !p.atEOF() {
		isComptime := false
		if _, ok := p.accept(token.KeywordComptime); ok {
			isComptime = true
		}
		nameTok, _ := p.accept(token.Identifier)
		p.accept(token.Colon)
		typeText := p.captureTypeExpr(token.Comma, token.RParen)
		params = append(params, Param{NameToken: nameTok, IsComptime: isComptime, TypeText: typeText})
		if _, ok := p.accept(token.Comma); !ok {
			break
		}
	}
	p.accept(token.RParen)

	returnType := p.captureTypeExpr(token.LBrace, token.Semicolon)

	isComptimeAny := returnType == "type"
	for _, param := range params {
		if param.IsComptime {
			isComptimeAny = true
		}
	}

	var body ids.OptionalNode
	if _, ok := p.accept(token.Semicolon); ok {
		body = ids.NoneNode
	} else if p.cur() == token.LBrace {
		p.advance()
		blk := p.parseBlockBody(false)
		idx := p.push(TagBlock, 0, blk)
		body = ids.SomeNode(uint32(idx))
	} else {
		body = ids.NoneNode
	}

	return p.push(TagFnDecl, fnTok, &FnDecl{
		NameToken:      nameOpt,
		Params:         params,
		ReturnTypeText: returnType,
		IsPub:          isPub,
		IsComptimeAny:  isComptimeAny,
		Body:           body,
	})
}

// skipTypeExpr consumes a type annotation without retaining its text,
// honoring bracket/paren/brace nesting so it stops at the right boundary.
func (p *parser) skipTypeExpr() {
	p.captureTypeExpr(token.Equal, token.Semicolon, token.Comma, token.RParen)
}

// captureTypeExpr consumes tokens up to (but not including) the first
// occurrence of any stop tag at depth 0, returning the joined source text.
func (p *parser) captureTypeExpr(stops ...token.Tag) string {
	start := p.pos
	depth := 0
	for !p.atEOF() {
		cur := p.cur()
		if depth == 0 {
			for _, s := range stops {
				if cur == s {
					return p.joinText(start, p.pos)
				}
			}
		}
		switch cur {
		case token.LParen, token.LBracket, token.LBrace:
			depth++
		case token.RParen, token.RBracket, token.RBrace:
			if depth == 0 {
				return p.joinText(start, p.pos)
			}
			depth--
		}
		p.advance()
	}
	return p.joinText(start, p.pos)
}

func (p *parser) joinText(start, end int) string {
	if start >= end || end > p.tbl.Len() {
		return ""
	}
	from := p.tbl.Starts[start]
	to := p.tbl.Ends[end-1]
	if int(to) > len(p.src) {
		to = uint32(len(p.src))
	}
	return string(p.src[from:to])
}

// parseBlockBody parses statements until the matching '}', which is
// consumed on return.
func (p *parser) parseBlockBody(isComptime bool) *Block {
	blk := &Block{IsComptime: isComptime}
	for p.cur() != token.RBrace && !p.atEOF() {
		blk.Statements = append(blk.Statements, p.parseStmt())
	}
	p.accept(token.RBrace)
	return blk
}

func (p *parser) parseStmt() NodeIndex {
	switch p.cur() {
	case token.KeywordConst, token.KeywordVar:
		if p.isDestructureAhead() {
			return p.parseAssignDestructure()
		}
		return p.parseVarDecl(false, false, false)
	case token.KeywordIf:
		return p.parseIf()
	case token.KeywordWhile:
		return p.parseWhile()
	case token.KeywordFor:
		return p.parseFor()
	case token.KeywordSwitch:
		return p.parseSwitch()
	case token.KeywordReturn:
		tok := p.advance()
		if p.cur() == token.Semicolon {
			p.accept(token.Semicolon)
			return p.push(TagReturn, tok, &Seq{})
		}
		e := p.parseExpr()
		p.accept(token.Semicolon)
		return p.push(TagReturn, tok, &Seq{Children: []NodeIndex{e}})
	case token.KeywordBreak:
		tok := p.advance()
		p.skipToSemicolon()
		return p.push(TagBreak, tok, nil)
	case token.KeywordContinue:
		tok := p.advance()
		p.skipToSemicolon()
		return p.push(TagContinue, tok, nil)
	case token.KeywordComptime:
		tok := p.advance()
		if p.cur() == token.LBrace {
			p.advance()
			blk := p.parseBlockBody(true)
			return p.push(TagBlock, tok, blk)
		}
		e := p.parseExpr()
		p.accept(token.Semicolon)
		return e
	case token.LBrace:
		p.advance()
		blk := p.parseBlockBody(false)
		return p.push(TagBlock, 0, blk)
	default:
		lhs := p.parseExpr()
		if _, ok := p.accept(token.Equal); ok {
			rhs := p.parseExpr()
			lhs = p.push(TagAssign, 0, &Assign{Target: lhs, Value: rhs})
		}
		p.accept(token.Semicolon)
		return lhs
	}
}

func (p *parser) skipToSemicolon() {
	depth := 0
	for !p.atEOF() {
		switch p.cur() {
		case token.LParen, token.LBracket, token.LBrace:
			depth++
		case token.RParen, token.RBracket, token.RBrace:
			if depth == 0 {
				return
			}
			depth--
		case token.Semicolon:
			if depth == 0 {
				p.advance()
				return
			}
		}
		p.advance()
	}
}

func (p *parser) parseIf() NodeIndex {
	tok := p.advance() // 'if'
	p.accept(token.LParen)
	cond := p.parseExpr()
	p.accept(token.RParen)
	p.skipOptionalPayloadCapture()
	then := p.parseStmtOrExpr()
	elseOpt := ids.NoneNode
	if _, ok := p.accept(token.KeywordElse); ok {
		p.skipOptionalPayloadCapture()
		e := p.parseStmtOrExpr()
		elseOpt = ids.SomeNode(uint32(e))
	}
	return p.push(TagIf, tok, &If{Cond: cond, Then: then, Else: elseOpt})
}

// skipOptionalPayloadCapture skips a `|name|` or `|name, idx|` capture list
// if present. The builder does not model these as scopes.
func (p *parser) skipOptionalPayloadCapture() {
	if _, ok := p.accept(token.Pipe); ok {
		for p.cur() != token.Pipe && !p.atEOF() {
			p.advance()
		}
		p.accept(token.Pipe)
	}
}

func (p *parser) parseStmtOrExpr() NodeIndex {
	if p.cur() == token.LBrace {
		p.advance()
		blk := p.parseBlockBody(false)
		return p.push(TagBlock, 0, blk)
	}
	return p.parseStmt()
}

func (p *parser) parseWhile() NodeIndex {
	tok := p.advance() // 'while'
	p.accept(token.LParen)
	cond := p.parseExpr()
	p.accept(token.RParen)
	// optional continue expression: `: (expr)`
	if _, ok := p.accept(token.Colon); ok {
		p.accept(token.LParen)
		p.parseExpr()
		p.accept(token.RParen)
	}
	p.skipOptionalPayloadCapture()
	body := p.parseStmtOrExpr()
	return p.push(TagWhile, tok, &While{Cond: cond, Body: body})
}

func (p *parser) parseFor() NodeIndex {
	tok := p.advance() // 'for'
	p.accept(token.LParen)
	iterable := p.parseExpr()
	for _, ok := p.accept(token.Comma); ok; _, ok = p.accept(token.Comma) {
		p.parseExpr()
	}
	p.accept(token.RParen)
	p.skipOptionalPayloadCapture()
	body := p.parseStmtOrExpr()
	return p.push(TagFor, tok, &For{Iterable: iterable, Body: body})
}

func (p *parser) parseSwitch() NodeIndex {
	tok := p.advance() // 'switch'
	p.accept(token.LParen)
	cond := p.parseExpr()
	p.accept(token.RParen)
	p.accept(token.LBrace)
	sw := &Switch{Cond: cond}
	for p.cur() != token.RBrace && !p.atEOF() {
		sw.Cases = append(sw.Cases, p.parseSwitchCase())
	}
	p.accept(token.RBrace)
	return p.push(TagSwitch, tok, sw)
}

func (p *parser) parseSwitchCase() NodeIndex {
	startTok := uint32(p.pos)
	var values []NodeIndex
	if _, ok := p.accept(token.KeywordElse); !ok {
		for {
			values = append(values, p.parseExpr())
			if _, ok := p.accept(token.Comma); !ok {
				break
			}
			if p.cur() == token.FatArrow {
				break
			}
		}
	}
	p.accept(token.FatArrow)
	p.skipOptionalPayloadCapture()
	body := p.parseStmtOrExpr()
	p.accept(token.Comma)
	return p.push(TagSwitchCase, startTok, &SwitchCase{Values: values, Body: body})
}

// parseExpr parses a loosely-structured expression: a chain of postfix
// expressions optionally separated by binary/orelse operators. Operator
// identity is not retained; only operand structure matters downstream.
func (p *parser) parseExpr() NodeIndex {
	left := p.parseUnary()
	for isBinaryOp(p.cur()) {
		p.advance()
		right := p.parseUnary()
		left = p.push(TagSeq, 0, &Seq{Children: []NodeIndex{left, right}})
	}
	return left
}

func isBinaryOp(t token.Tag) bool {
	switch t {
	case token.Plus, token.Minus, token.Star, token.Slash, token.Percent,
		token.EqualEqual, token.BangEqual, token.Less, token.Greater,
		token.LessEqual, token.GreaterEqual, token.KeywordOrelse:
		return true
	default:
		return false
	}
}

func (p *parser) parseUnary() NodeIndex {
	switch p.cur() {
	case token.Bang, token.Minus, token.Tilde, token.Amp:
		p.advance()
		return p.parsePostfix()
	default:
		return p.parsePostfix()
	}
}

func (p *parser) parsePostfix() NodeIndex {
	expr := p.parsePrimary()
	for {
		switch p.cur() {
		case token.Dot:
			if p.peekAt(1) == token.LBrace {
				p.advance() // '.'
				p.advance() // '{'
				expr = p.parseInitList(expr)
				continue
			}
			if p.peekAt(1) == token.Identifier {
				p.advance() // '.'
				fieldTok := p.advance()
				expr = p.push(TagFieldAccess, fieldTok, &FieldAccess{Base: expr, FieldToken: fieldTok})
				continue
			}
			p.advance()
		case token.LParen:
			p.advance()
			var args []NodeIndex
			for p.cur() != token.RParen && !p.atEOF() {
				args = append(args, p.parseExpr())
				if _, ok := p.accept(token.Comma); !ok {
					break
				}
			}
			p.accept(token.RParen)
			expr = p.push(TagCall, 0, &Call{Callee: expr, Args: args})
		case token.LBrace:
			// Type{...} composite literal immediately following an
			// identifier/field-access primary.
			p.advance()
			expr = p.parseInitList(expr)
		case token.KeywordCatch:
			tok := p.advance()
			payload := ids.NoneNode
			if _, ok := p.accept(token.Pipe); ok {
				nameTok, _ := p.accept(token.Identifier)
				payload = ids.SomeNode(nameTok)
				p.accept(token.Pipe)
			}
			body := p.parseStmtOrExpr()
			expr = p.push(TagCatch, tok, &Catch{Target: expr, PayloadToken: payload, Body: body})
		default:
			return expr
		}
	}
}

// parseInitList parses the body of a struct/array initializer after the
// opening '{' has been consumed, and decides (by peeking at the first
// element) whether it is field-keyed (struct) or positional (array).
func (p *parser) parseInitList(typeExpr NodeIndex) NodeIndex {
	if p.cur() == token.Dot && p.peekAt(1) == token.Identifier {
		fields := p.parseStructInitFields()
		typeOpt := ids.NoneNode
		if typeExpr != 0 {
			typeOpt = ids.SomeNode(uint32(typeExpr))
		}
		return p.push(TagStructInit, 0, &StructInit{Fields: fields, TypeExpr: typeOpt})
	}
	var elements []NodeIndex
	for p.cur() != token.RBrace && !p.atEOF() {
		elements = append(elements, p.parseExpr())
		if _, ok := p.accept(token.Comma); !ok {
			break
		}
	}
	p.accept(token.RBrace)
	return p.push(TagArrayInit, 0, &ArrayInit{Elements: elements})
}

func (p *parser) parseStructInitFields() []NodeIndex {
	var fields []NodeIndex
	for p.cur() == token.Dot && !p.atEOF() {
		dotTok := p.advance()
		nameTok, _ := p.accept(token.Identifier)
		value := ids.NoneNode
		if _, ok := p.accept(token.Equal); ok {
			v := p.parseExpr()
			value = ids.SomeNode(uint32(v))
		}
		fields = append(fields, p.push(TagContainerField, dotTok, &ContainerField{NameToken: nameTok, Value: value}))
		if _, ok := p.accept(token.Comma); !ok {
			break
		}
	}
	p.accept(token.RBrace)
	return fields
}

func (p *parser) parsePrimary() NodeIndex {
	switch p.cur() {
	case token.Identifier:
		tok := p.advance()
		return p.push(TagIdentifier, tok, nil)
	case token.At:
		return p.parseBuiltinCall()
	case token.KeywordStruct, token.KeywordEnum, token.KeywordUnion, token.KeywordError:
		return p.parseContainerDecl()
	case token.Dot:
		if p.peekAt(1) == token.LBrace {
			p.advance()
			p.advance()
			return p.parseInitList(0)
		}
		if p.peekAt(1) == token.Identifier {
			// bare enum-literal reference `.Foo`; treat as a leaf.
			p.advance()
			tok := p.advance()
			return p.push(TagLiteral, tok, nil)
		}
		tok := p.advance()
		return p.push(TagOpaqueExpr, tok, nil)
	case token.LParen:
		p.advance()
		e := p.parseExpr()
		p.accept(token.RParen)
		return e
	case token.IntegerLiteral, token.FloatLiteral, token.StringLiteral, token.CharLiteral,
		token.KeywordTrue, token.KeywordFalse, token.KeywordNull, token.KeywordUndefined:
		tok := p.advance()
		return p.push(TagLiteral, tok, nil)
	default:
		tok := p.advance()
		return p.push(TagOpaqueExpr, tok, nil)
	}
}

// parseBuiltinCall parses `@name(args)`. Only @import is given a typed
// projection; every other builtin becomes an opaque call whose argument
// expressions are still visited so identifiers inside them resolve.
func (p *parser) parseBuiltinCall() NodeIndex {
	atTok := p.advance() // '@'
	nameTok, _ := p.accept(token.Identifier)
	name := ""
	if int(nameTok) < p.tbl.Len() {
		name = p.text(int(nameTok))
	}
	p.accept(token.LParen)
	if name == "import" && p.cur() == token.StringLiteral {
		specTok := p.advance()
		p.accept(token.RParen)
		return p.push(TagImport, atTok, &Import{SpecifierToken: specTok})
	}
	var args []NodeIndex
	for p.cur() != token.RParen && !p.atEOF() {
		args = append(args, p.parseExpr())
		if _, ok := p.accept(token.Comma); !ok {
			break
		}
	}
	p.accept(token.RParen)
	return p.push(TagCall, atTok, &Call{Callee: p.push(TagOpaqueExpr, nameTok, nil), Args: args})
}

func (p *parser) parseContainerDecl() NodeIndex {
	tok := p.advance() // struct|enum|union|error
	var kind ContainerKind
	switch p.tbl.Tags[tok] {
	case token.KeywordEnum:
		kind = ContainerEnum
	case token.KeywordUnion:
		kind = ContainerUnion
	case token.KeywordError:
		kind = ContainerError
	default:
		kind = ContainerStruct
	}
	// optional backing type: `enum(u8)` / `union(enum)`
	if _, ok := p.accept(token.LParen); ok {
		p.skipBalanced(token.LParen, token.RParen)
	}
	p.accept(token.LBrace)
	body := p.parseContainerBody(token.RBrace)
	p.accept(token.RBrace)
	body.Kind = kind
	return p.push(TagContainerDecl, tok, body)
}
