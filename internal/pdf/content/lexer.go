package content

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"
	"unicode"
)

// TokenType represents the type of a content stream token
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenNumber
	TokenString
	TokenHexString
	TokenName
	TokenOperator
	TokenArrayStart
	TokenArrayEnd
	TokenDictStart
	TokenDictEnd
	TokenInlineImage
)

func (t TokenType) String() string {
	switch t {
	case TokenEOF:
		return "EOF"
	case TokenNumber:
		return "Number"
	case TokenString:
		return "String"
	case TokenHexString:
		return "HexString"
	case TokenName:
		return "Name"
	case TokenOperator:
		return "Operator"
	case TokenArrayStart:
		return "ArrayStart"
	case TokenArrayEnd:
		return "ArrayEnd"
	case TokenDictStart:
		return "DictStart"
	case TokenDictEnd:
		return "DictEnd"
	case TokenInlineImage:
		return "InlineImage"
	default:
		return "Unknown"
	}
}

// Token is a lexical token of a page content stream
type Token struct {
	Type  TokenType
	Value string
	Pos   int64
}

// ParseError reports malformed content at a byte position
type ParseError struct {
	Message  string
	Position int64
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("content parse error at position %d: %s", e.Position, e.Message)
}

// Lexer tokenizes a decoded page content stream
type Lexer struct {
	reader   *bufio.Reader
	position int64
	current  byte
	hasNext  bool
	err      error
}

// NewLexer creates a new content stream lexer
func NewLexer(reader io.Reader) *Lexer {
	l := &Lexer{
		reader:   bufio.NewReader(reader),
		position: -1,
		hasNext:  true,
	}
	l.advance()
	return l
}

func (l *Lexer) advance() {
	if !l.hasNext {
		return
	}

	ch, err := l.reader.ReadByte()
	if err != nil {
		if err != io.EOF {
			l.err = err
		}
		l.hasNext = false
		l.current = 0
		return
	}

	l.current = ch
	l.position++
}

func (l *Lexer) peek() byte {
	if !l.hasNext {
		return 0
	}
	next, err := l.reader.Peek(1)
	if err != nil || len(next) == 0 {
		return 0
	}
	return next[0]
}

func (l *Lexer) skipComment() {
	for l.hasNext && l.current != '\n' && l.current != '\r' {
		l.advance()
	}
}

// NextToken returns the next token. Inline image data following an ID
// operator is returned as a single TokenInlineImage.
func (l *Lexer) NextToken() (Token, error) {
	if l.err != nil {
		return Token{Type: TokenEOF, Pos: l.position}, l.err
	}

	for l.hasNext {
		if isWhitespace(l.current) {
			l.advance()
		} else if l.current == '%' {
			l.skipComment()
		} else {
			break
		}
	}

	if !l.hasNext {
		return Token{Type: TokenEOF, Pos: l.position}, l.err
	}

	start := l.position

	switch l.current {
	case '(':
		return l.readLiteralString()
	case '<':
		if l.peek() == '<' {
			l.advance()
			l.advance()
			return Token{Type: TokenDictStart, Value: "<<", Pos: start}, nil
		}
		return l.readHexString()
	case '>':
		l.advance()
		if l.hasNext && l.current == '>' {
			l.advance()
		}
		return Token{Type: TokenDictEnd, Value: ">>", Pos: start}, nil
	case '[':
		l.advance()
		return Token{Type: TokenArrayStart, Value: "[", Pos: start}, nil
	case ']':
		l.advance()
		return Token{Type: TokenArrayEnd, Value: "]", Pos: start}, nil
	case '/':
		return l.readName()
	case '{', '}', ')':
		l.advance()
		return l.NextToken()
	default:
		if unicode.IsDigit(rune(l.current)) || l.current == '+' || l.current == '-' || l.current == '.' {
			return l.readNumber()
		}
		return l.readOperator()
	}
}

func (l *Lexer) readLiteralString() (Token, error) {
	start := l.position
	var buffer bytes.Buffer

	l.advance()
	depth := 1

	for l.hasNext && depth > 0 {
		ch := l.current

		switch {
		case ch == '(':
			depth++
			buffer.WriteByte(ch)
		case ch == ')':
			depth--
			if depth > 0 {
				buffer.WriteByte(ch)
			}
		case ch == '\\':
			l.advance()
			if !l.hasNext {
				break
			}
			switch l.current {
			case 'n':
				buffer.WriteByte('\n')
			case 'r':
				buffer.WriteByte('\r')
			case 't':
				buffer.WriteByte('\t')
			case 'b':
				buffer.WriteByte('\b')
			case 'f':
				buffer.WriteByte('\f')
			case '\n', '\r':
				if l.current == '\r' && l.peek() == '\n' {
					l.advance()
				}
			default:
				if l.current >= '0' && l.current <= '7' {
					octal := string(l.current)
					for i := 0; i < 2 && l.peek() >= '0' && l.peek() <= '7'; i++ {
						l.advance()
						octal += string(l.current)
					}
					if val, err := strconv.ParseUint(octal, 8, 8); err == nil {
						buffer.WriteByte(byte(val))
					}
				} else {
					buffer.WriteByte(l.current)
				}
			}
		default:
			buffer.WriteByte(ch)
		}

		l.advance()
	}

	if depth > 0 {
		return Token{Type: TokenString, Value: buffer.String(), Pos: start},
			&ParseError{Message: "unterminated string", Position: start}
	}

	return Token{Type: TokenString, Value: buffer.String(), Pos: start}, nil
}

func (l *Lexer) readHexString() (Token, error) {
	start := l.position
	var buffer bytes.Buffer

	l.advance()

	for l.hasNext && l.current != '>' {
		if !isWhitespace(l.current) {
			if !unicode.Is(unicode.ASCII_Hex_Digit, rune(l.current)) {
				return Token{Type: TokenHexString, Pos: l.position},
					&ParseError{Message: "invalid hex digit in hex string", Position: l.position}
			}
			buffer.WriteByte(l.current)
		}
		l.advance()
	}

	if l.hasNext {
		l.advance()
	}

	hex := buffer.String()
	if len(hex)%2 == 1 {
		hex += "0"
	}

	return Token{Type: TokenHexString, Value: hex, Pos: start}, nil
}

func (l *Lexer) readName() (Token, error) {
	start := l.position
	var buffer bytes.Buffer

	l.advance()

	for l.hasNext && isRegular(l.current) {
		if l.current == '#' {
			l.advance()
			hi := l.current
			l.advance()
			lo := l.current
			if val, err := strconv.ParseUint(string([]byte{hi, lo}), 16, 8); err == nil {
				buffer.WriteByte(byte(val))
				l.advance()
				continue
			}
			buffer.WriteByte('#')
			buffer.WriteByte(hi)
			continue
		}
		buffer.WriteByte(l.current)
		l.advance()
	}

	return Token{Type: TokenName, Value: buffer.String(), Pos: start}, nil
}

func (l *Lexer) readNumber() (Token, error) {
	start := l.position
	var buffer bytes.Buffer

	if l.current == '+' || l.current == '-' {
		buffer.WriteByte(l.current)
		l.advance()
	}

	for l.hasNext && (unicode.IsDigit(rune(l.current)) || l.current == '.') {
		buffer.WriteByte(l.current)
		l.advance()
	}

	return Token{Type: TokenNumber, Value: buffer.String(), Pos: start}, nil
}

func (l *Lexer) readOperator() (Token, error) {
	start := l.position
	var buffer bytes.Buffer

	for l.hasNext && isRegular(l.current) {
		buffer.WriteByte(l.current)
		l.advance()
	}

	op := buffer.String()
	if op == "ID" {
		return l.readInlineImage(start)
	}

	return Token{Type: TokenOperator, Value: op, Pos: start}, nil
}

// readInlineImage consumes binary image data up to the EI operator
func (l *Lexer) readInlineImage(start int64) (Token, error) {
	if l.hasNext && isWhitespace(l.current) {
		l.advance()
	}

	var data bytes.Buffer
	for l.hasNext {
		if l.current == 'E' && l.peek() == 'I' {
			prevWhite := data.Len() == 0 || isWhitespace(data.Bytes()[data.Len()-1])
			l.advance()
			l.advance()
			if prevWhite && (!l.hasNext || isWhitespace(l.current)) {
				return Token{Type: TokenInlineImage, Value: data.String(), Pos: start}, nil
			}
			data.WriteString("EI")
			continue
		}
		data.WriteByte(l.current)
		l.advance()
	}

	return Token{Type: TokenInlineImage, Value: data.String(), Pos: start},
		&ParseError{Message: "inline image without EI", Position: start}
}

// Position returns the current byte offset
func (l *Lexer) Position() int64 {
	return l.position
}

func isWhitespace(ch byte) bool {
	return ch == 0 || ch == '\t' || ch == '\n' || ch == '\f' || ch == '\r' || ch == ' '
}

func isDelimiter(ch byte) bool {
	switch ch {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}

func isRegular(ch byte) bool {
	return !isWhitespace(ch) && !isDelimiter(ch)
}
