package lexer

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	ierrors "github.com/iqra-lang/iqra/pkg/iqra/errors"
)

// TokenType represents different types of tokens
type TokenType int

const (
	// Special tokens
	ILLEGAL TokenType = iota
	EOF
	NEWLINE

	// Identifiers and literals
	IDENT  // x, عدد, رقم؟
	NUMBER // 12, 3.5, ١٢
	STRING // "foobar"

	// Keywords
	IF       // if, اذا, إذا
	ELSE     // else, وإلا
	WHILE    // while, بينما
	TRUE     // true, صحيح
	FALSE    // false, خطأ
	AND      // and, و, &&
	OR       // or, أو, ||
	NOT      // not, ليس, !
	FUNCTION // function, def, دالة
	RETURN   // return, ارجع
	TRY      // try, حاول
	CATCH    // catch, التقط

	// Operators
	ASSIGN   // =
	PLUS     // +
	MINUS    // -
	ASTERISK // *
	SLASH    // /
	PERCENT  // %
	EQ       // ==
	NOT_EQ   // !=
	LT       // <
	LTE      // <=
	GT       // >
	GTE      // >=

	// Delimiters
	COMMA     // ,
	SEMICOLON // ;
	LPAREN    // (
	RPAREN    // )
	LBRACE    // {
	RBRACE    // }
	LBRACKET  // [
	RBRACKET  // ]
)

var tokenNames = map[TokenType]string{
	ILLEGAL:   "ILLEGAL",
	EOF:       "EOF",
	NEWLINE:   "NEWLINE",
	IDENT:     "IDENT",
	NUMBER:    "NUMBER",
	STRING:    "STRING",
	IF:        "IF",
	ELSE:      "ELSE",
	WHILE:     "WHILE",
	TRUE:      "TRUE",
	FALSE:     "FALSE",
	AND:       "AND",
	OR:        "OR",
	NOT:       "NOT",
	FUNCTION:  "FUNCTION",
	RETURN:    "RETURN",
	TRY:       "TRY",
	CATCH:     "CATCH",
	ASSIGN:    "=",
	PLUS:      "+",
	MINUS:     "-",
	ASTERISK:  "*",
	SLASH:     "/",
	PERCENT:   "%",
	EQ:        "==",
	NOT_EQ:    "!=",
	LT:        "<",
	LTE:       "<=",
	GT:        ">",
	GTE:       ">=",
	COMMA:     ",",
	SEMICOLON: ";",
	LPAREN:    "(",
	RPAREN:    ")",
	LBRACE:    "{",
	RBRACE:    "}",
	LBRACKET:  "[",
	RBRACKET:  "]",
}

// String returns a string representation of the token type
func (tt TokenType) String() string {
	if name, ok := tokenNames[tt]; ok {
		return name
	}
	return fmt.Sprintf("TokenType(%d)", int(tt))
}

// Token represents a single token
type Token struct {
	Type    TokenType
	Literal string  // source spelling (digits already folded for NUMBER)
	Number  float64 // parsed value for NUMBER tokens
	Line    int
}

// String returns a string representation of the token
func (t Token) String() string {
	return fmt.Sprintf("{Type: %s, Literal: %q, Line: %d}", t.Type, t.Literal, t.Line)
}

// keywords maps every accepted spelling, Arabic or English, to one token type.
var keywords = map[string]TokenType{
	"if":       IF,
	"اذا":      IF,
	"إذا":      IF,
	"else":     ELSE,
	"وإلا":     ELSE,
	"والا":     ELSE,
	"وإلاّ":    ELSE,
	"while":    WHILE,
	"بينما":    WHILE,
	"true":     TRUE,
	"صحيح":     TRUE,
	"false":    FALSE,
	"خطأ":      FALSE,
	"and":      AND,
	"و":        AND,
	"or":       OR,
	"أو":       OR,
	"not":      NOT,
	"ليس":      NOT,
	"function": FUNCTION,
	"def":      FUNCTION,
	"دالة":     FUNCTION,
	"return":   RETURN,
	"ارجع":     RETURN,
	"أرجع":     RETURN,
	"try":      TRY,
	"حاول":     TRY,
	"catch":    CATCH,
	"التقط":    CATCH,
	"امسك":     CATCH,
}

// LookupIdent checks if an identifier is a keyword
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}

// Keywords returns every keyword spelling. Used for REPL completion.
func Keywords() []string {
	words := make([]string, 0, len(keywords))
	for w := range keywords {
		words = append(words, w)
	}
	return words
}

// Lexer represents the lexical analyzer
type Lexer struct {
	input        string
	position     int  // current position in input (points to current char)
	readPosition int  // current reading position in input (after current char)
	ch           rune // current char under examination, 0 at end of input
	line         int  // line of the current char
}

// New creates a new lexer instance. The input is NFC-normalised so that
// decomposed hamza and madda forms match the keyword table.
func New(input string) *Lexer {
	l := &Lexer{
		input: norm.NFC.String(input),
		line:  1,
	}
	l.readChar()
	return l
}

// LexerState holds the state of a lexer for save/restore
type LexerState struct {
	position     int
	readPosition int
	ch           rune
	line         int
}

// SaveState saves the current lexer state for potential restoration
func (l *Lexer) SaveState() LexerState {
	return LexerState{
		position:     l.position,
		readPosition: l.readPosition,
		ch:           l.ch,
		line:         l.line,
	}
}

// RestoreState restores the lexer to a previously saved state
func (l *Lexer) RestoreState(state LexerState) {
	l.position = state.position
	l.readPosition = state.readPosition
	l.ch = state.ch
	l.line = state.line
}

// PeekToken returns the next token without consuming it
func (l *Lexer) PeekToken() Token {
	state := l.SaveState()
	tok, _ := l.NextToken()
	l.RestoreState(state)
	return tok
}

// readChar advances to the next character. The line counter moves when
// the character being left behind is a newline.
func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
	}

	if l.readPosition >= len(l.input) {
		l.ch = 0
		l.position = len(l.input)
		l.readPosition = len(l.input) + 1
		return
	}

	r, size := utf8.DecodeRuneInString(l.input[l.readPosition:])
	l.ch = r
	l.position = l.readPosition
	l.readPosition += size
}

// peekChar returns the next character without advancing position
func (l *Lexer) peekChar() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPosition:])
	return r
}

func (l *Lexer) atEOF() bool {
	return l.position >= len(l.input)
}

// NextToken scans the input and returns the next token. A lexical error is
// returned alongside an ILLEGAL token; the scanner has already moved past
// the offending input so the caller may keep going.
func (l *Lexer) NextToken() (Token, error) {
	l.skipWhitespace()
	for l.ch == '/' && l.peekChar() == '/' {
		l.skipComment()
		l.skipWhitespace()
	}

	line := l.line

	if l.atEOF() {
		return Token{Type: EOF, Line: line}, nil
	}

	var tok Token
	switch l.ch {
	case '\n':
		tok = newToken(NEWLINE, "\n", line)
	case '=':
		if l.peekChar() == '=' {
			l.readChar()
			tok = newToken(EQ, "==", line)
		} else {
			tok = newToken(ASSIGN, "=", line)
		}
	case '!':
		if l.peekChar() == '=' {
			l.readChar()
			tok = newToken(NOT_EQ, "!=", line)
		} else {
			tok = newToken(NOT, "!", line)
		}
	case '<':
		if l.peekChar() == '=' {
			l.readChar()
			tok = newToken(LTE, "<=", line)
		} else {
			tok = newToken(LT, "<", line)
		}
	case '>':
		if l.peekChar() == '=' {
			l.readChar()
			tok = newToken(GTE, ">=", line)
		} else {
			tok = newToken(GT, ">", line)
		}
	case '&':
		// A lone '&' is not an operator; it passes through as a name.
		if l.peekChar() == '&' {
			l.readChar()
			tok = newToken(AND, "&&", line)
		} else {
			tok = newToken(IDENT, "&", line)
		}
	case '|':
		if l.peekChar() == '|' {
			l.readChar()
			tok = newToken(OR, "||", line)
		} else {
			tok = newToken(IDENT, "|", line)
		}
	case '+':
		tok = newToken(PLUS, "+", line)
	case '-':
		tok = newToken(MINUS, "-", line)
	case '*':
		tok = newToken(ASTERISK, "*", line)
	case '/':
		tok = newToken(SLASH, "/", line)
	case '%':
		tok = newToken(PERCENT, "%", line)
	case ',':
		tok = newToken(COMMA, ",", line)
	case ';':
		tok = newToken(SEMICOLON, ";", line)
	case '(':
		tok = newToken(LPAREN, "(", line)
	case ')':
		tok = newToken(RPAREN, ")", line)
	case '{':
		tok = newToken(LBRACE, "{", line)
	case '}':
		tok = newToken(RBRACE, "}", line)
	case '[':
		tok = newToken(LBRACKET, "[", line)
	case ']':
		tok = newToken(RBRACKET, "]", line)
	case '"':
		str, ok := l.readString()
		if !ok {
			return Token{Type: ILLEGAL, Literal: str, Line: line},
				ierrors.NewWithLine("LEX-0003", line, nil)
		}
		return Token{Type: STRING, Literal: str, Line: line}, nil
	default:
		if isDigit(l.ch) {
			literal := l.readNumber()
			n, err := strconv.ParseFloat(literal, 64)
			if err != nil {
				return Token{Type: ILLEGAL, Literal: literal, Line: line},
					ierrors.NewWithLine("LEX-0002", line, map[string]any{"Literal": literal})
			}
			return Token{Type: NUMBER, Literal: literal, Number: n, Line: line}, nil
		}
		if isIdentStart(l.ch) {
			ident := l.readIdentifier()
			return Token{Type: LookupIdent(ident), Literal: ident, Line: line}, nil
		}
		ch := string(l.ch)
		l.readChar()
		return Token{Type: ILLEGAL, Literal: ch, Line: line},
			ierrors.NewWithLine("LEX-0001", line, map[string]any{"Char": ch})
	}

	l.readChar()
	return tok, nil
}

// Tokenize scans the whole input, stopping at EOF or the first error.
func Tokenize(input string) ([]Token, error) {
	l := New(input)
	var tokens []Token
	for {
		tok, err := l.NextToken()
		if err != nil {
			return tokens, err
		}
		tokens = append(tokens, tok)
		if tok.Type == EOF {
			return tokens, nil
		}
	}
}

// newToken creates a new token with the given parameters
func newToken(tokenType TokenType, literal string, line int) Token {
	return Token{Type: tokenType, Literal: literal, Line: line}
}

// readIdentifier reads an identifier or keyword.
func (l *Lexer) readIdentifier() string {
	position := l.position
	for isIdentChar(l.ch) {
		l.readChar()
	}
	return l.input[position:l.position]
}

// readNumber reads digits and dots, folding Arabic-Indic digits to ASCII.
// Validation is left to strconv so "1.2.3" surfaces as a Number Error.
func (l *Lexer) readNumber() string {
	var sb strings.Builder
	for isDigit(l.ch) || l.ch == '.' {
		sb.WriteRune(FoldDigit(l.ch))
		l.readChar()
	}
	return sb.String()
}

// readString reads a double-quoted string. Strings may span lines.
func (l *Lexer) readString() (string, bool) {
	var sb strings.Builder
	l.readChar() // skip opening quote

	for l.ch != '"' && !l.atEOF() {
		if l.ch == '\\' {
			l.readChar() // consume backslash
			if l.atEOF() {
				sb.WriteRune('\\')
				break
			}
			switch l.ch {
			case 'n':
				sb.WriteRune('\n')
			case 't':
				sb.WriteRune('\t')
			case 'r':
				sb.WriteRune('\r')
			case '\\':
				sb.WriteRune('\\')
			case '"':
				sb.WriteRune('"')
			default:
				// Unknown escape, keep as-is
				sb.WriteRune('\\')
				sb.WriteRune(l.ch)
			}
		} else {
			sb.WriteRune(l.ch)
		}
		l.readChar()
	}

	if l.atEOF() {
		return sb.String(), false
	}
	l.readChar() // closing quote
	return sb.String(), true
}

func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\r' {
		l.readChar()
	}
}

// skipComment consumes a // comment up to, not including, the newline.
func (l *Lexer) skipComment() {
	for l.ch != '\n' && !l.atEOF() {
		l.readChar()
	}
}

// FoldDigit maps an Arabic-Indic digit (٠-٩) to its ASCII form and returns
// any other rune unchanged.
func FoldDigit(r rune) rune {
	if r >= '٠' && r <= '٩' {
		return '0' + (r - '٠')
	}
	return r
}

// FoldDigits maps every Arabic-Indic digit in s to ASCII.
func FoldDigits(s string) string {
	return strings.Map(FoldDigit, s)
}

func isDigit(r rune) bool {
	return ('0' <= r && r <= '9') || ('٠' <= r && r <= '٩')
}

// isArabic reports whether r is in the Arabic, Arabic Supplement or
// Arabic Extended-A blocks.
func isArabic(r rune) bool {
	return (r >= 0x0600 && r <= 0x06FF) ||
		(r >= 0x0750 && r <= 0x077F) ||
		(r >= 0x08A0 && r <= 0x08FF)
}

func isIdentStart(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || isArabic(r)
}

func isIdentChar(r rune) bool {
	return isIdentStart(r) || (r >= '0' && r <= '9')
}
