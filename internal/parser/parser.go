// Package parser is a hand-written recursive-descent parser, one
// method per production, mirroring the method-per-rule shape of the
// teacher's grammar parser even though this grammar is fixed rather
// than user-authored.
package parser

import (
	"strconv"

	"teachlang"
	"teachlang/internal/lexer"
)

// Parser consumes a Token slice and builds a teachlang.Node tree.
type Parser struct {
	toks []teachlang.Token
	pos  int
}

// Parse lexes and parses src into a Code node, the top-level entry
// point used by every caller (CLI, tests).
func Parse(src string) (teachlang.Node, error) {
	toks, err := lexer.Lex(src)
	if err != nil {
		return nil, err
	}
	p := &Parser{toks: toks}
	return p.parseCode()
}

func (p *Parser) cur() teachlang.Token  { return p.toks[p.pos] }
func (p *Parser) curTag() teachlang.TokenTag { return p.toks[p.pos].Tag }

func (p *Parser) advance() teachlang.Token {
	t := p.cur()
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) check(tag teachlang.TokenTag) bool { return p.curTag() == tag }

func (p *Parser) match(tag teachlang.TokenTag) bool {
	if p.check(tag) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) expect(tag teachlang.TokenTag) (teachlang.Token, error) {
	if p.check(tag) {
		return p.advance(), nil
	}
	cur := p.cur()
	return teachlang.Token{}, teachlang.NewError(teachlang.ParseError, cur.Pos,
		"expected %s but found %s", tag, cur)
}

// --- top level -------------------------------------------------------

func (p *Parser) parseCode() (teachlang.Node, error) {
	tok := p.cur()
	var defs teachlang.Node
	if p.check(teachlang.TokDefinitions) {
		d, err := p.parseDefinitions()
		if err != nil {
			return nil, err
		}
		defs = d
	}

	if _, err := p.expect(teachlang.TokProgram); err != nil {
		return nil, err
	}
	block, err := p.parseStatements(teachlang.TokEndProgram)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(teachlang.TokEndProgram); err != nil {
		return nil, err
	}
	if _, err := p.expect(teachlang.TokEOF); err != nil {
		return nil, err
	}
	return teachlang.NewNode(teachlang.KindCode, tok, defs, teachlang.NewNode(teachlang.KindBlock, tok, block...)), nil
}

func (p *Parser) parseDefinitions() (teachlang.Node, error) {
	tok := p.advance() // 'definitions'

	var structDefs []teachlang.Node
	for p.check(teachlang.TokStructure) {
		sd, err := p.parseStructDef()
		if err != nil {
			return nil, err
		}
		structDefs = append(structDefs, sd)
	}

	var globals []teachlang.Node
	for !p.check(teachlang.TokFunction) && !p.check(teachlang.TokEndDefinitions) {
		s, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		globals = append(globals, s)
	}

	var funDefs []teachlang.Node
	for p.check(teachlang.TokFunction) {
		fd, err := p.parseFunDef()
		if err != nil {
			return nil, err
		}
		funDefs = append(funDefs, fd)
	}

	if _, err := p.expect(teachlang.TokEndDefinitions); err != nil {
		return nil, err
	}

	return teachlang.NewNode(teachlang.KindDefinitions, tok,
		teachlang.NewNode(teachlang.KindStructDefs, tok, structDefs...),
		teachlang.NewNode(teachlang.KindGlobalDefs, tok, globals...),
		teachlang.NewNode(teachlang.KindFunDefs, tok, funDefs...),
	), nil
}

func (p *Parser) parseStructDef() (teachlang.Node, error) {
	tok := p.advance() // 'structure'
	nameTok, err := p.expect(teachlang.TokIdentifier)
	if err != nil {
		return nil, err
	}
	id := teachlang.NewIdNode(nameTok.Lexeme, nameTok)

	var args []teachlang.Node
	for p.check(teachlang.TokIdentifier) {
		argTok := p.advance()
		if _, err := p.expect(teachlang.TokColon); err != nil {
			return nil, err
		}
		t, err := p.parseType()
		if err != nil {
			return nil, err
		}
		args = append(args, teachlang.NewNode(teachlang.KindStructArg, argTok,
			teachlang.NewIdNode(argTok.Lexeme, argTok), t))
		if !p.match(teachlang.TokComma) {
			break
		}
	}
	if _, err := p.expect(teachlang.TokEndStructure); err != nil {
		return nil, err
	}
	return teachlang.NewNode(teachlang.KindStructDef, tok, id,
		teachlang.NewNode(teachlang.KindStructArgs, tok, args...)), nil
}

func (p *Parser) parseFunDef() (teachlang.Node, error) {
	tok := p.advance() // 'function'
	nameTok, err := p.expect(teachlang.TokIdentifier)
	if err != nil {
		return nil, err
	}
	id := teachlang.NewIdNode(nameTok.Lexeme, nameTok)

	if _, err := p.expect(teachlang.TokLParen); err != nil {
		return nil, err
	}
	var params []teachlang.Node
	for !p.check(teachlang.TokRParen) {
		param, err := p.parseParam()
		if err != nil {
			return nil, err
		}
		params = append(params, param)
		if !p.match(teachlang.TokComma) {
			break
		}
	}
	if _, err := p.expect(teachlang.TokRParen); err != nil {
		return nil, err
	}
	if _, err := p.expect(teachlang.TokReturns); err != nil {
		return nil, err
	}
	retType, err := p.parseType()
	if err != nil {
		return nil, err
	}
	body, err := p.parseStatements(teachlang.TokEndFunction)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(teachlang.TokEndFunction); err != nil {
		return nil, err
	}
	return teachlang.NewNode(teachlang.KindFunDef, tok, id,
		teachlang.NewNode(teachlang.KindParams, tok, params...),
		retType,
		teachlang.NewNode(teachlang.KindBlock, tok, body...)), nil
}

func (p *Parser) parseParam() (teachlang.Node, error) {
	tok := p.cur()
	changeable := p.match(teachlang.TokChangeable)
	nameTok, err := p.expect(teachlang.TokIdentifier)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(teachlang.TokColon); err != nil {
		return nil, err
	}
	t, err := p.parseType()
	if err != nil {
		return nil, err
	}
	if changeable {
		t = teachlang.NewNode(teachlang.KindPointer, tok, t)
	}
	return teachlang.NewNode(teachlang.KindParam, tok, teachlang.NewIdNode(nameTok.Lexeme, nameTok), t), nil
}

// --- types -------------------------------------------------------------

func (p *Parser) parseType() (teachlang.Node, error) {
	tok := p.cur()
	switch {
	case p.match(teachlang.TokArray):
		return p.parseArrayDef(tok)
	case p.match(teachlang.TokLink):
		if _, err := p.expect(teachlang.TokTo); err != nil {
			return nil, err
		}
		inner, err := p.parseType()
		if err != nil {
			return nil, err
		}
		return teachlang.NewNode(teachlang.KindPointer, tok, inner), nil
	default:
		nameTok, err := p.expect(teachlang.TokIdentifier)
		if err != nil {
			return nil, err
		}
		return teachlang.NewTypeNode(nameTok.Lexeme, nameTok), nil
	}
}

func (p *Parser) parseArrayDef(tok teachlang.Token) (teachlang.Node, error) {
	var bounds teachlang.Node
	if p.match(teachlang.TokLBracket) {
		var bs []teachlang.Node
		for {
			b, err := p.parseBound()
			if err != nil {
				return nil, err
			}
			bs = append(bs, b)
			if !p.match(teachlang.TokComma) {
				break
			}
		}
		if _, err := p.expect(teachlang.TokRBracket); err != nil {
			return nil, err
		}
		bounds = teachlang.NewNode(teachlang.KindBounds, tok, bs...)
	}
	if _, err := p.expect(teachlang.TokOf); err != nil {
		return nil, err
	}
	elem, err := p.parseType()
	if err != nil {
		return nil, err
	}
	return teachlang.NewNode(teachlang.KindArrayDef, tok, bounds, elem), nil
}

func (p *Parser) parseBound() (teachlang.Node, error) {
	tok := p.cur()
	first, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.match(teachlang.TokTo) {
		hi, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return teachlang.NewNode(teachlang.KindBound, tok, first, hi), nil
	}
	return teachlang.NewNode(teachlang.KindBound, tok, nil, first), nil
}

// --- statements ----------------------------------------------------------

// parseStatements parses statements until the current token matches
// one of ends.
func (p *Parser) parseStatements(ends ...teachlang.TokenTag) ([]teachlang.Node, error) {
	var stmts []teachlang.Node
	for !p.atAny(ends) {
		s, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, s)
	}
	return stmts, nil
}

func (p *Parser) atAny(tags []teachlang.TokenTag) bool {
	for _, t := range tags {
		if p.check(t) {
			return true
		}
	}
	return false
}

func (p *Parser) parseStatement() (teachlang.Node, error) {
	tok := p.cur()
	switch tok.Tag {
	case teachlang.TokIf:
		return p.parseIf()
	case teachlang.TokWhile:
		return p.parseWhile()
	case teachlang.TokRepeat:
		return p.parseRepeat()
	case teachlang.TokLink:
		return p.parseLinkStatement()
	case teachlang.TokUnlink:
		p.advance()
		idTok, err := p.expect(teachlang.TokIdentifier)
		if err != nil {
			return nil, err
		}
		return teachlang.NewNode(teachlang.KindUnlink, tok, teachlang.NewIdNode(idTok.Lexeme, idTok)), nil
	case teachlang.TokQuit:
		p.advance()
		return teachlang.NewNode(teachlang.KindQuit, tok), nil
	case teachlang.TokBreak:
		p.advance()
		return teachlang.NewNode(teachlang.KindBreak, tok), nil
	case teachlang.TokContinue:
		p.advance()
		return teachlang.NewNode(teachlang.KindContinue, tok), nil
	case teachlang.TokReturn:
		p.advance()
		if p.startsExpr() {
			e, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			return teachlang.NewNode(teachlang.KindReturn, tok, e), nil
		}
		return teachlang.NewNode(teachlang.KindReturn, tok, nil), nil
	case teachlang.TokIdentifier:
		return p.parseIdLeadStatement()
	default:
		return nil, teachlang.NewError(teachlang.ParseError, tok.Pos, "unexpected token %s at start of statement", tok)
	}
}

func (p *Parser) startsExpr() bool {
	switch p.curTag() {
	case teachlang.TokEndFunction, teachlang.TokEndProgram, teachlang.TokEndIf,
		teachlang.TokEndWhile, teachlang.TokEndRepeat, teachlang.TokEndDefinitions, teachlang.TokEOF:
		return false
	default:
		return true
	}
}

// parseIdLeadStatement disambiguates the three statement shapes that
// start with a bare identifier: a VarDef ("x, y : number ..."), a call
// used for effect ("display(x)"), and an assignment to a plain or
// compound reference ("x = 1", "a[i] = 1", "s.field = 1").
func (p *Parser) parseIdLeadStatement() (teachlang.Node, error) {
	first := p.advance()
	firstID := teachlang.NewIdNode(first.Lexeme, first)

	if p.check(teachlang.TokComma) || p.check(teachlang.TokColon) {
		ids := []teachlang.Node{firstID}
		for p.match(teachlang.TokComma) {
			idTok, err := p.expect(teachlang.TokIdentifier)
			if err != nil {
				return nil, err
			}
			ids = append(ids, teachlang.NewIdNode(idTok.Lexeme, idTok))
		}
		return p.finishVarDef(first, ids)
	}

	if p.check(teachlang.TokLParen) {
		call, err := p.finishCall(first, firstID)
		if err != nil {
			return nil, err
		}
		return call, nil
	}

	ref, err := p.finishReference(firstID)
	if err != nil {
		return nil, err
	}
	eq, err := p.expect(teachlang.TokAssign)
	if err != nil {
		return nil, err
	}
	rhs, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return teachlang.NewNode(teachlang.KindAssign, eq, ref, rhs), nil
}

func (p *Parser) finishVarDef(tok teachlang.Token, ids []teachlang.Node) (teachlang.Node, error) {
	if _, err := p.expect(teachlang.TokColon); err != nil {
		return nil, err
	}
	t, err := p.parseType()
	if err != nil {
		return nil, err
	}
	var init teachlang.Node
	if p.match(teachlang.TokAssign) {
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		init = e
	}
	var idsNode teachlang.Node
	if len(ids) == 1 {
		idsNode = ids[0]
	} else {
		idsNode = teachlang.NewNode(teachlang.KindIds, tok, ids...)
	}
	return teachlang.NewNode(teachlang.KindVarDef, tok, idsNode, t, init), nil
}

func (p *Parser) parseLinkStatement() (teachlang.Node, error) {
	tok := p.advance() // 'link'
	target, err := p.parseReference()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(teachlang.TokTo); err != nil {
		return nil, err
	}
	src, err := p.parseReference()
	if err != nil {
		return nil, err
	}
	link := teachlang.NewNode(teachlang.KindLinkLit, tok, src)
	return teachlang.NewNode(teachlang.KindAssign, tok, target, link), nil
}

func (p *Parser) parseIf() (teachlang.Node, error) {
	tok := p.advance() // 'if'
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(teachlang.TokThen); err != nil {
		return nil, err
	}
	thenStmts, err := p.parseStatements(teachlang.TokEndIf, teachlang.TokElse)
	if err != nil {
		return nil, err
	}
	thenBlock := teachlang.NewNode(teachlang.KindBlock, tok, thenStmts...)
	return p.finishIf(tok, cond, thenBlock)
}

func (p *Parser) finishIf(tok teachlang.Token, cond, thenBlock teachlang.Node) (teachlang.Node, error) {
	var elseNode teachlang.Node
	if p.match(teachlang.TokElse) {
		if p.check(teachlang.TokIf) {
			e, err := p.parseIf()
			if err != nil {
				return nil, err
			}
			return teachlang.NewNode(teachlang.KindIf, tok, cond, thenBlock, e), nil
		}
		elseStmts, err := p.parseStatements(teachlang.TokEndIf)
		if err != nil {
			return nil, err
		}
		elseNode = teachlang.NewNode(teachlang.KindBlock, tok, elseStmts...)
	}
	if _, err := p.expect(teachlang.TokEndIf); err != nil {
		return nil, err
	}
	return teachlang.NewNode(teachlang.KindIf, tok, cond, thenBlock, elseNode), nil
}

func (p *Parser) parseWhile() (teachlang.Node, error) {
	tok := p.advance() // 'while'
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	stmts, err := p.parseStatements(teachlang.TokEndWhile)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(teachlang.TokEndWhile); err != nil {
		return nil, err
	}
	return teachlang.NewNode(teachlang.KindWhile, tok, cond, teachlang.NewNode(teachlang.KindBlock, tok, stmts...)), nil
}

func (p *Parser) parseRepeat() (teachlang.Node, error) {
	tok := p.advance() // 'repeat'

	if p.match(teachlang.TokForever) {
		stmts, err := p.parseStatements(teachlang.TokEndRepeat)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(teachlang.TokEndRepeat); err != nil {
			return nil, err
		}
		return teachlang.NewNode(teachlang.KindRepeatForever, tok, teachlang.NewNode(teachlang.KindBlock, tok, stmts...)), nil
	}

	if p.match(teachlang.TokForAll) { // 'for'
		if _, err := p.expect(teachlang.TokForAll); err != nil { // 'all'
			return nil, err
		}
		idTok, err := p.expect(teachlang.TokIdentifier)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(teachlang.TokIn); err != nil {
			return nil, err
		}
		arr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		stmts, err := p.parseStatements(teachlang.TokEndRepeat)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(teachlang.TokEndRepeat); err != nil {
			return nil, err
		}
		return teachlang.NewNode(teachlang.KindRepeatFor, tok, teachlang.NewIdNode(idTok.Lexeme, idTok), arr,
			teachlang.NewNode(teachlang.KindBlock, tok, stmts...)), nil
	}

	count, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(teachlang.TokTimes); err != nil {
		return nil, err
	}
	stmts, err := p.parseStatements(teachlang.TokEndRepeat)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(teachlang.TokEndRepeat); err != nil {
		return nil, err
	}
	return teachlang.NewNode(teachlang.KindRepeat, tok, count, teachlang.NewNode(teachlang.KindBlock, tok, stmts...)), nil
}

// finishCall parses the "(args)" suffix of a call whose name has
// already been consumed as nameTok/nameID.
func (p *Parser) finishCall(nameTok teachlang.Token, nameID teachlang.Node) (teachlang.Node, error) {
	p.advance() // '('
	args, err := p.parseExprList(teachlang.TokRParen)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(teachlang.TokRParen); err != nil {
		return nil, err
	}
	return teachlang.NewNode(teachlang.KindCall, nameTok, nameID, teachlang.NewNode(teachlang.KindArgs, nameTok, args...)), nil
}

// parseReference parses a bare variable reference, starting fresh at
// an identifier: used by "link ... to ..." statements.
func (p *Parser) parseReference() (teachlang.Node, error) {
	idTok, err := p.expect(teachlang.TokIdentifier)
	if err != nil {
		return nil, err
	}
	return p.finishReference(teachlang.NewIdNode(idTok.Lexeme, idTok))
}

// finishReference consumes the "[index]" / ".field" chain trailing an
// already-parsed base reference node.
func (p *Parser) finishReference(base teachlang.Node) (teachlang.Node, error) {
	for {
		switch {
		case p.check(teachlang.TokLBracket):
			tok := p.advance()
			idxs, err := p.parseExprList(teachlang.TokRBracket)
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(teachlang.TokRBracket); err != nil {
				return nil, err
			}
			base = teachlang.NewNode(teachlang.KindGetIndex, tok, base, teachlang.NewNode(teachlang.KindIndex, tok, idxs...))
		case p.check(teachlang.TokDot):
			tok := p.advance()
			fieldTok, err := p.expect(teachlang.TokIdentifier)
			if err != nil {
				return nil, err
			}
			base = teachlang.NewNode(teachlang.KindGetStruct, tok, base, teachlang.NewIdNode(fieldTok.Lexeme, fieldTok))
		default:
			return base, nil
		}
	}
}

// parseExprList parses a comma-separated expression list up to (but
// not consuming) closeTag, allowing an empty list.
func (p *Parser) parseExprList(closeTag teachlang.TokenTag) ([]teachlang.Node, error) {
	var list []teachlang.Node
	if p.check(closeTag) {
		return list, nil
	}
	for {
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		list = append(list, e)
		if !p.match(teachlang.TokComma) {
			break
		}
	}
	return list, nil
}

// --- expressions, lowest to highest precedence --------------------------

func (p *Parser) parseExpr() (teachlang.Node, error) { return p.parseOr() }

func (p *Parser) parseOr() (teachlang.Node, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.check(teachlang.TokOr) {
		tok := p.advance()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = teachlang.NewBinComp(teachlang.CmpOr, left, right, tok)
	}
	return left, nil
}

func (p *Parser) parseAnd() (teachlang.Node, error) {
	left, err := p.parseComp()
	if err != nil {
		return nil, err
	}
	for p.check(teachlang.TokAnd) {
		tok := p.advance()
		right, err := p.parseComp()
		if err != nil {
			return nil, err
		}
		left = teachlang.NewBinComp(teachlang.CmpAnd, left, right, tok)
	}
	return left, nil
}

var compareOps = map[teachlang.TokenTag]teachlang.CompareKind{
	teachlang.TokEq:  teachlang.CmpEq,
	teachlang.TokNeq: teachlang.CmpNeq,
	teachlang.TokLt:  teachlang.CmpLt,
	teachlang.TokLte: teachlang.CmpLte,
	teachlang.TokGt:  teachlang.CmpGt,
	teachlang.TokGte: teachlang.CmpGte,
}

func (p *Parser) parseComp() (teachlang.Node, error) {
	left, err := p.parseAdd()
	if err != nil {
		return nil, err
	}
	if op, ok := compareOps[p.curTag()]; ok {
		tok := p.advance()
		right, err := p.parseAdd()
		if err != nil {
			return nil, err
		}
		return teachlang.NewBinComp(op, left, right, tok), nil
	}
	return left, nil
}

func (p *Parser) parseAdd() (teachlang.Node, error) {
	left, err := p.parseMul()
	if err != nil {
		return nil, err
	}
	for p.check(teachlang.TokPlus) || p.check(teachlang.TokMinus) {
		tok := p.advance()
		op := teachlang.OpAdd
		if tok.Tag == teachlang.TokMinus {
			op = teachlang.OpSub
		}
		right, err := p.parseMul()
		if err != nil {
			return nil, err
		}
		left = teachlang.NewBinOp(op, left, right, tok)
	}
	return left, nil
}

var mulOps = map[teachlang.TokenTag]teachlang.BinOpKind{
	teachlang.TokStar:       teachlang.OpMul,
	teachlang.TokSlash:      teachlang.OpDiv,
	teachlang.TokMod:        teachlang.OpMod,
	teachlang.TokBitAnd:     teachlang.OpBitAnd,
	teachlang.TokBitOr:      teachlang.OpBitOr,
	teachlang.TokBitXor:     teachlang.OpBitXor,
	teachlang.TokShiftLeft:  teachlang.OpShl,
	teachlang.TokShiftRight: teachlang.OpShr,
}

func (p *Parser) parseMul() (teachlang.Node, error) {
	left, err := p.parsePow()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := mulOps[p.curTag()]
		if !ok {
			return left, nil
		}
		tok := p.advance()
		right, err := p.parsePow()
		if err != nil {
			return nil, err
		}
		left = teachlang.NewBinOp(op, left, right, tok)
	}
}

func (p *Parser) parsePow() (teachlang.Node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	if p.check(teachlang.TokCaret) {
		tok := p.advance()
		right, err := p.parsePow() // right-associative
		if err != nil {
			return nil, err
		}
		return teachlang.NewBinOp(teachlang.OpPow, left, right, tok), nil
	}
	return left, nil
}

func (p *Parser) parseUnary() (teachlang.Node, error) {
	switch {
	case p.check(teachlang.TokMinus):
		tok := p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return teachlang.NewNode(teachlang.KindNeg, tok, operand), nil
	case p.check(teachlang.TokBitNot):
		tok := p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return teachlang.NewNode(teachlang.KindBitNot, tok, operand), nil
	case p.check(teachlang.TokAbs):
		tok := p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return teachlang.NewNode(teachlang.KindAbs, tok, operand), nil
	default:
		return p.parsePrimary()
	}
}

func (p *Parser) parsePrimary() (teachlang.Node, error) {
	tok := p.cur()
	switch tok.Tag {
	case teachlang.TokNumber:
		p.advance()
		f, err := strconv.ParseFloat(tok.Lexeme, 64)
		if err != nil {
			return nil, teachlang.NewError(teachlang.ParseError, tok.Pos, "invalid number literal %q", tok.Lexeme)
		}
		return teachlang.NewNumberLit(f, tok), nil

	case teachlang.TokText:
		p.advance()
		return teachlang.NewTextLit(tok.Lexeme, tok), nil

	case teachlang.TokLParen:
		p.advance()
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(teachlang.TokRParen); err != nil {
			return nil, err
		}
		return e, nil

	case teachlang.TokLBracket:
		p.advance()
		elems, err := p.parseExprList(teachlang.TokRBracket)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(teachlang.TokRBracket); err != nil {
			return nil, err
		}
		return teachlang.NewNode(teachlang.KindArrayLit, tok, elems...), nil

	case teachlang.TokIdentifier:
		p.advance()
		id := teachlang.NewIdNode(tok.Lexeme, tok)

		if p.check(teachlang.TokLBrace) {
			p.advance()
			fields, err := p.parseExprList(teachlang.TokRBrace)
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(teachlang.TokRBrace); err != nil {
				return nil, err
			}
			return teachlang.NewNode(teachlang.KindStructLit, tok, fields...), nil
		}

		if p.check(teachlang.TokLParen) {
			return p.finishCall(tok, id)
		}

		ref, err := p.finishReference(id)
		if err != nil {
			return nil, err
		}
		if ref == id && (p.check(teachlang.TokIsLinked) || p.check(teachlang.TokIsNotLinked)) {
			suffixTok := p.advance()
			kind := teachlang.KindIsLinked
			if suffixTok.Tag == teachlang.TokIsNotLinked {
				kind = teachlang.KindIsNotLinked
			}
			return teachlang.NewNode(kind, suffixTok, id), nil
		}
		return ref, nil

	default:
		return nil, teachlang.NewError(teachlang.ParseError, tok.Pos, "unexpected token %s in expression", tok)
	}
}
