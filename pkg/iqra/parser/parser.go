package parser

import (
	"github.com/iqra-lang/iqra/pkg/iqra/ast"
	ierrors "github.com/iqra-lang/iqra/pkg/iqra/errors"
	"github.com/iqra-lang/iqra/pkg/iqra/lexer"
)

// Precedence levels for operators
const (
	_ int = iota
	LOWEST
	LOGIC_OR    // or, أو, ||
	LOGIC_AND   // and, و, &&
	EQUALS      // == !=
	LESSGREATER // < <= > >=
	SUM         // + -
	PRODUCT     // * / %
	PREFIX      // -X or not X
	INDEX       // list[index]
)

// precedences maps tokens to their precedence
var precedences = map[lexer.TokenType]int{
	lexer.OR:       LOGIC_OR,
	lexer.AND:      LOGIC_AND,
	lexer.EQ:       EQUALS,
	lexer.NOT_EQ:   EQUALS,
	lexer.LT:       LESSGREATER,
	lexer.LTE:      LESSGREATER,
	lexer.GT:       LESSGREATER,
	lexer.GTE:      LESSGREATER,
	lexer.PLUS:     SUM,
	lexer.MINUS:    SUM,
	lexer.ASTERISK: PRODUCT,
	lexer.SLASH:    PRODUCT,
	lexer.PERCENT:  PRODUCT,
	lexer.LBRACKET: INDEX,
}

// operatorNames gives the canonical spelling stored in the AST, whichever
// script the source used.
var operatorNames = map[lexer.TokenType]string{
	lexer.OR:       "or",
	lexer.AND:      "and",
	lexer.NOT:      "not",
	lexer.EQ:       "==",
	lexer.NOT_EQ:   "!=",
	lexer.LT:       "<",
	lexer.LTE:      "<=",
	lexer.GT:       ">",
	lexer.GTE:      ">=",
	lexer.PLUS:     "+",
	lexer.MINUS:    "-",
	lexer.ASTERISK: "*",
	lexer.SLASH:    "/",
	lexer.PERCENT:  "%",
}

type (
	prefixParseFn func() ast.Expression
	infixParseFn  func(ast.Expression) ast.Expression
)

// Parser is a recursive-descent parser with Pratt-style precedence climbing
// for binary operators.
type Parser struct {
	l *lexer.Lexer

	errors []*ierrors.IqraError

	curToken  lexer.Token
	peekToken lexer.Token

	// groupDepth counts open ( and [ in expressions; newlines inside are not significant
	groupDepth int

	prefixParseFns map[lexer.TokenType]prefixParseFn
	infixParseFns  map[lexer.TokenType]infixParseFn
}

// New creates a new parser instance
func New(l *lexer.Lexer) *Parser {
	p := &Parser{
		l: l,
	}

	p.prefixParseFns = make(map[lexer.TokenType]prefixParseFn)
	p.registerPrefix(lexer.IDENT, p.parseIdentifier)
	p.registerPrefix(lexer.NUMBER, p.parseNumberLiteral)
	p.registerPrefix(lexer.STRING, p.parseStringLiteral)
	p.registerPrefix(lexer.TRUE, p.parseBoolean)
	p.registerPrefix(lexer.FALSE, p.parseBoolean)
	p.registerPrefix(lexer.NOT, p.parsePrefixExpression)
	p.registerPrefix(lexer.MINUS, p.parsePrefixExpression)
	p.registerPrefix(lexer.LPAREN, p.parseGroupedExpression)
	p.registerPrefix(lexer.LBRACKET, p.parseListLiteral)

	p.infixParseFns = make(map[lexer.TokenType]infixParseFn)
	for tt := range precedences {
		p.registerInfix(tt, p.parseInfixExpression)
	}
	p.registerInfix(lexer.LBRACKET, p.parseIndexExpression)

	// Read two tokens, so curToken and peekToken are both set
	p.nextToken()
	p.nextToken()

	return p
}

// Parse lexes and parses src, returning the first syntax error if any.
func Parse(src string) (*ast.Program, error) {
	p := New(lexer.New(src))
	program := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		return nil, errs[0]
	}
	return program, nil
}

// Errors returns the recorded syntax errors. Only the first is kept since
// later ones are usually cascading noise.
func (p *Parser) Errors() []*ierrors.IqraError {
	return p.errors
}

func (p *Parser) failed() bool {
	return len(p.errors) > 0
}

// addError records a catalog error at the given token.
func (p *Parser) addError(code string, tok lexer.Token, data map[string]any) {
	if p.failed() {
		return
	}
	p.errors = append(p.errors, ierrors.NewWithLine(code, tok.Line, data))
}

func (p *Parser) addLexError(err error) {
	if p.failed() {
		return
	}
	if ie, ok := ierrors.As(err); ok {
		p.errors = append(p.errors, ie)
		return
	}
	p.errors = append(p.errors, ierrors.New("LEX-0001", map[string]any{"Char": err.Error()}))
}

// registerPrefix registers a prefix parse function
func (p *Parser) registerPrefix(tokenType lexer.TokenType, fn prefixParseFn) {
	p.prefixParseFns[tokenType] = fn
}

// registerInfix registers an infix parse function
func (p *Parser) registerInfix(tokenType lexer.TokenType, fn infixParseFn) {
	p.infixParseFns[tokenType] = fn
}

// nextToken advances curToken and peekToken
func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.fetch()
}

// fetch reads the next token from the lexer, dropping newlines inside groups.
func (p *Parser) fetch() lexer.Token {
	for {
		tok, err := p.l.NextToken()
		if err != nil {
			p.addLexError(err)
			return tok
		}
		if tok.Type == lexer.NEWLINE && p.groupDepth > 0 {
			continue
		}
		return tok
	}
}

// enterGroup is called with curToken on an opening ( or [.
func (p *Parser) enterGroup() {
	p.groupDepth++
	for p.peekTokenIs(lexer.NEWLINE) {
		p.peekToken = p.fetch()
	}
}

// closeGroup expects t as the peek token and consumes it. The depth drops
// before the token after the closer is fetched, so a newline following
// ')' still ends the statement.
func (p *Parser) closeGroup(t lexer.TokenType) bool {
	if !p.peekTokenIs(t) {
		p.peekError(t)
		return false
	}
	if p.groupDepth > 0 {
		p.groupDepth--
	}
	p.nextToken()
	return true
}

// ParseProgram parses the program and returns the AST
func (p *Parser) ParseProgram() *ast.Program {
	program := &ast.Program{}
	program.Statements = []ast.Statement{}

	for !p.curTokenIs(lexer.EOF) && !p.failed() {
		if p.isSeparator(p.curToken) {
			p.nextToken()
			continue
		}
		stmt := p.parseStatement()
		if stmt != nil {
			program.Statements = append(program.Statements, stmt)
		}
		p.nextToken()
	}

	return program
}

// parseStatement parses statements. On return curToken is the last token
// of the statement.
func (p *Parser) parseStatement() ast.Statement {
	switch p.curToken.Type {
	case lexer.TRY:
		return p.parseTryStatement()
	case lexer.FUNCTION:
		return p.parseFunctionStatement()
	case lexer.IF:
		return p.parseIfStatement()
	case lexer.WHILE:
		return p.parseWhileStatement()
	case lexer.LBRACE:
		return p.parseBlockStatement()
	case lexer.RETURN:
		return p.parseReturnStatement()
	case lexer.IDENT:
		if p.peekTokenIs(lexer.ASSIGN) {
			return p.parseAssignmentStatement()
		}
		return p.parseExpressionStatement()
	default:
		return p.parseExpressionStatement()
	}
}

func (p *Parser) parseAssignmentStatement() ast.Statement {
	stmt := &ast.AssignmentStatement{Token: p.curToken}
	stmt.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}

	p.nextToken() // '='
	p.nextToken()

	stmt.Value = p.parseExpression(LOWEST)
	if stmt.Value == nil {
		return nil
	}
	return stmt
}

func (p *Parser) parseExpressionStatement() ast.Statement {
	stmt := &ast.ExpressionStatement{Token: p.curToken}
	stmt.Expression = p.parseExpression(LOWEST)
	if stmt.Expression == nil {
		return nil
	}
	return stmt
}

func (p *Parser) parseReturnStatement() ast.Statement {
	stmt := &ast.ReturnStatement{Token: p.curToken}

	switch p.peekToken.Type {
	case lexer.NEWLINE, lexer.SEMICOLON, lexer.RBRACE, lexer.EOF:
		stmt.ReturnValue = &ast.NilLiteral{Token: p.curToken}
		return stmt
	}

	p.nextToken()
	stmt.ReturnValue = p.parseExpression(LOWEST)
	if stmt.ReturnValue == nil {
		return nil
	}
	return stmt
}

// parseBlockStatement parses '{ ... }' with curToken on '{'.
// On return curToken is the closing '}'.
func (p *Parser) parseBlockStatement() *ast.BlockStatement {
	block := &ast.BlockStatement{Token: p.curToken}
	block.Statements = []ast.Statement{}

	p.nextToken()

	for !p.curTokenIs(lexer.RBRACE) {
		if p.failed() {
			return nil
		}
		if p.curTokenIs(lexer.EOF) {
			p.addError("PARSE-0001", p.curToken, map[string]any{"Expected": "'}'", "Got": tokenDisplay(p.curToken)})
			return nil
		}
		if p.isSeparator(p.curToken) {
			p.nextToken()
			continue
		}
		stmt := p.parseStatement()
		if stmt != nil {
			block.Statements = append(block.Statements, stmt)
		}
		p.nextToken()
	}

	return block
}

// expectBlock moves onto a '{' (newlines before it are allowed) and parses the block.
func (p *Parser) expectBlock() *ast.BlockStatement {
	for p.peekTokenIs(lexer.NEWLINE) {
		p.nextToken()
	}
	if !p.peekTokenIs(lexer.LBRACE) {
		p.addError("PARSE-0003", p.peekToken, map[string]any{"Got": tokenDisplay(p.peekToken)})
		return nil
	}
	p.nextToken()
	return p.parseBlockStatement()
}

func (p *Parser) parseIfStatement() ast.Statement {
	stmt := &ast.IfStatement{Token: p.curToken}

	p.nextToken()
	stmt.Condition = p.parseExpression(LOWEST)
	if stmt.Condition == nil {
		return nil
	}

	stmt.Consequence = p.expectBlock()
	if stmt.Consequence == nil {
		return nil
	}

	if !p.skipNewlinesBefore(lexer.ELSE) {
		return stmt
	}
	p.nextToken() // 'else'

	if p.peekTokenIs(lexer.IF) {
		p.nextToken()
		alt := p.parseIfStatement()
		if alt == nil {
			return nil
		}
		stmt.Alternative = alt
		return stmt
	}

	alt := p.expectBlock()
	if alt == nil {
		return nil
	}
	stmt.Alternative = alt
	return stmt
}

func (p *Parser) parseWhileStatement() ast.Statement {
	stmt := &ast.WhileStatement{Token: p.curToken}

	p.nextToken()
	stmt.Condition = p.parseExpression(LOWEST)
	if stmt.Condition == nil {
		return nil
	}

	stmt.Body = p.expectBlock()
	if stmt.Body == nil {
		return nil
	}
	return stmt
}

// parseFunctionStatement parses 'function name(a, b) { body }'
func (p *Parser) parseFunctionStatement() ast.Statement {
	stmt := &ast.FunctionStatement{Token: p.curToken}

	if !p.peekTokenIs(lexer.IDENT) {
		p.addError("PARSE-0004", p.peekToken, map[string]any{"Got": tokenDisplay(p.peekToken)})
		return nil
	}
	p.nextToken()
	stmt.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}

	if !p.expectPeek(lexer.LPAREN) {
		return nil
	}
	p.enterGroup()

	stmt.Parameters = p.parseFunctionParameters()
	if stmt.Parameters == nil {
		return nil
	}

	stmt.Body = p.expectBlock()
	if stmt.Body == nil {
		return nil
	}
	return stmt
}

// parseFunctionParameters parses bare identifiers up to ')'. A trailing
// comma is rejected. Returns nil on error, an empty slice for '()'.
func (p *Parser) parseFunctionParameters() []*ast.Identifier {
	identifiers := []*ast.Identifier{}

	if p.peekTokenIs(lexer.RPAREN) {
		p.closeGroup(lexer.RPAREN)
		return identifiers
	}

	for {
		p.nextToken()
		if !p.curTokenIs(lexer.IDENT) {
			p.addError("PARSE-0005", p.curToken, map[string]any{"Got": tokenDisplay(p.curToken)})
			return nil
		}
		identifiers = append(identifiers, &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal})

		if !p.peekTokenIs(lexer.COMMA) {
			break
		}
		p.nextToken()
	}

	if !p.closeGroup(lexer.RPAREN) {
		return nil
	}
	return identifiers
}

// parseTryStatement parses 'try { } catch(e) { }' or 'try { } catch { }'
func (p *Parser) parseTryStatement() ast.Statement {
	stmt := &ast.TryStatement{Token: p.curToken}

	stmt.Try = p.expectBlock()
	if stmt.Try == nil {
		return nil
	}

	if !p.skipNewlinesBefore(lexer.CATCH) {
		p.addError("PARSE-0006", p.peekToken, map[string]any{"Got": tokenDisplay(p.peekToken)})
		return nil
	}
	p.nextToken() // 'catch'

	if p.peekTokenIs(lexer.LPAREN) {
		p.nextToken()
		p.nextToken()
		// Only a plain identifier binds the error. The false keyword (خطأ, "error"
		// in Arabic) reads naturally here but is not a name.
		if !p.curTokenIs(lexer.IDENT) {
			p.addError("PARSE-0007", p.curToken, map[string]any{"Got": tokenDisplay(p.curToken)})
			return nil
		}
		stmt.ErrorVar = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
		if !p.expectPeek(lexer.RPAREN) {
			return nil
		}
	}

	stmt.Catch = p.expectBlock()
	if stmt.Catch == nil {
		return nil
	}
	return stmt
}

// skipNewlinesBefore reports whether the next significant token is t, and if
// so consumes the newlines in front of it. Otherwise nothing is consumed.
func (p *Parser) skipNewlinesBefore(t lexer.TokenType) bool {
	if p.peekTokenIs(t) {
		return true
	}
	if !p.peekTokenIs(lexer.NEWLINE) {
		return false
	}

	state := p.l.SaveState()
	next := p.l.PeekToken()
	for next.Type == lexer.NEWLINE {
		p.l.NextToken()
		next = p.l.PeekToken()
	}
	p.l.RestoreState(state)

	if next.Type != t {
		return false
	}
	for p.peekTokenIs(lexer.NEWLINE) {
		p.nextToken()
	}
	return true
}

// ============================================================================
// Expressions
// ============================================================================

// parseExpression parses expressions using Pratt parsing
func (p *Parser) parseExpression(precedence int) ast.Expression {
	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.noPrefixParseFnError(p.curToken)
		return nil
	}

	leftExp := prefix()
	if leftExp == nil {
		return nil
	}

	for precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return leftExp
		}

		p.nextToken()

		leftExp = infix(leftExp)
		if leftExp == nil {
			return nil
		}
	}

	return leftExp
}

// parseIdentifier parses a variable reference, or a call when '(' follows.
func (p *Parser) parseIdentifier() ast.Expression {
	if p.peekTokenIs(lexer.LPAREN) {
		call := &ast.CallExpression{Token: p.curToken, Function: p.curToken.Literal}
		p.nextToken()
		p.enterGroup()
		call.Arguments = p.parseExpressionList(lexer.RPAREN)
		if call.Arguments == nil {
			return nil
		}
		return call
	}
	return &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
}

func (p *Parser) parseNumberLiteral() ast.Expression {
	return &ast.NumberLiteral{Token: p.curToken, Value: p.curToken.Number}
}

func (p *Parser) parseStringLiteral() ast.Expression {
	return &ast.StringLiteral{Token: p.curToken, Value: p.curToken.Literal}
}

func (p *Parser) parseBoolean() ast.Expression {
	return &ast.BooleanLiteral{Token: p.curToken, Value: p.curTokenIs(lexer.TRUE)}
}

func (p *Parser) parsePrefixExpression() ast.Expression {
	expression := &ast.PrefixExpression{
		Token:    p.curToken,
		Operator: operatorNames[p.curToken.Type],
	}

	p.nextToken()
	expression.Right = p.parseExpression(PREFIX)
	if expression.Right == nil {
		return nil
	}
	return expression
}

func (p *Parser) parseInfixExpression(left ast.Expression) ast.Expression {
	expression := &ast.InfixExpression{
		Token:    p.curToken,
		Operator: operatorNames[p.curToken.Type],
		Left:     left,
	}

	precedence := p.curPrecedence()
	p.nextToken()
	expression.Right = p.parseExpression(precedence)
	if expression.Right == nil {
		return nil
	}
	return expression
}

func (p *Parser) parseGroupedExpression() ast.Expression {
	p.enterGroup()
	p.nextToken()

	exp := p.parseExpression(LOWEST)
	if exp == nil {
		return nil
	}

	if !p.closeGroup(lexer.RPAREN) {
		return nil
	}
	return exp
}

func (p *Parser) parseListLiteral() ast.Expression {
	list := &ast.ListLiteral{Token: p.curToken}
	p.enterGroup()
	list.Elements = p.parseExpressionList(lexer.RBRACKET)
	if list.Elements == nil {
		return nil
	}
	return list
}

func (p *Parser) parseIndexExpression(left ast.Expression) ast.Expression {
	exp := &ast.IndexExpression{Token: p.curToken, Left: left}

	p.enterGroup()
	p.nextToken()
	exp.Index = p.parseExpression(LOWEST)
	if exp.Index == nil {
		return nil
	}

	if !p.closeGroup(lexer.RBRACKET) {
		return nil
	}
	return exp
}

// parseExpressionList parses comma-separated expressions up to end, with
// curToken on the opener. Returns nil on error, an empty slice for '()'.
func (p *Parser) parseExpressionList(end lexer.TokenType) []ast.Expression {
	list := []ast.Expression{}

	if p.peekTokenIs(end) {
		p.closeGroup(end)
		return list
	}

	p.nextToken()
	item := p.parseExpression(LOWEST)
	if item == nil {
		return nil
	}
	list = append(list, item)

	for p.peekTokenIs(lexer.COMMA) {
		p.nextToken()
		p.nextToken()
		item := p.parseExpression(LOWEST)
		if item == nil {
			return nil
		}
		list = append(list, item)
	}

	if !p.closeGroup(end) {
		return nil
	}
	return list
}

// Helper functions
func (p *Parser) curTokenIs(t lexer.TokenType) bool {
	return p.curToken.Type == t
}

func (p *Parser) peekTokenIs(t lexer.TokenType) bool {
	return p.peekToken.Type == t
}

func (p *Parser) isSeparator(tok lexer.Token) bool {
	return tok.Type == lexer.NEWLINE || tok.Type == lexer.SEMICOLON
}

func (p *Parser) expectPeek(t lexer.TokenType) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.peekError(t)
	return false
}

func (p *Parser) peekError(t lexer.TokenType) {
	p.addError("PARSE-0001", p.peekToken, map[string]any{
		"Expected": "'" + t.String() + "'",
		"Got":      tokenDisplay(p.peekToken),
	})
}

func (p *Parser) noPrefixParseFnError(tok lexer.Token) {
	if tok.Type == lexer.ILLEGAL {
		// the lexer already reported this token
		return
	}
	p.addError("PARSE-0002", tok, map[string]any{"Token": tokenDisplay(tok)})
}

func (p *Parser) peekPrecedence() int {
	if p, ok := precedences[p.peekToken.Type]; ok {
		return p
	}
	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if p, ok := precedences[p.curToken.Type]; ok {
		return p
	}
	return LOWEST
}

// tokenDisplay renders a token for error messages.
func tokenDisplay(tok lexer.Token) string {
	switch tok.Type {
	case lexer.EOF:
		return "نهاية الملف / end of input"
	case lexer.NEWLINE:
		return "سطر جديد / newline"
	}
	return tok.Literal
}
