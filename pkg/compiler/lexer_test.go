package compiler

import (
	"reflect"
	"strings"
	"testing"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []Token
	}{
		{
			name:  "Empty",
			input: "",
			expected: []Token{
				{Type: END_OF_FILE, Value: "", Line: 1, Column: 1},
			},
		},
		{
			name:  "Operators",
			input: "+ - * / % = == != < > <= >= && || !",
			expected: []Token{
				{Type: PLUS, Value: "+", Line: 1, Column: 1},
				{Type: MINUS, Value: "-", Line: 1, Column: 3},
				{Type: STAR, Value: "*", Line: 1, Column: 5},
				{Type: SLASH, Value: "/", Line: 1, Column: 7},
				{Type: PERCENT, Value: "%", Line: 1, Column: 9},
				{Type: ASSIGN, Value: "=", Line: 1, Column: 11},
				{Type: EQUAL, Value: "==", Line: 1, Column: 13},
				{Type: NOT_EQUAL, Value: "!=", Line: 1, Column: 16},
				{Type: LESS, Value: "<", Line: 1, Column: 19},
				{Type: GREATER, Value: ">", Line: 1, Column: 21},
				{Type: LESS_EQUAL, Value: "<=", Line: 1, Column: 23},
				{Type: GREATER_EQUAL, Value: ">=", Line: 1, Column: 26},
				{Type: AND, Value: "&&", Line: 1, Column: 29},
				{Type: OR, Value: "||", Line: 1, Column: 32},
				{Type: NOT, Value: "!", Line: 1, Column: 35},
				{Type: END_OF_FILE, Value: "", Line: 1, Column: 36},
			},
		},
		{
			name:  "Keywords and Identifiers",
			input: "int if elif else while for return let variableName _under_score",
			expected: []Token{
				{Type: INT, Value: "int", Line: 1, Column: 1},
				{Type: IF, Value: "if", Line: 1, Column: 5},
				{Type: ELIF, Value: "elif", Line: 1, Column: 8},
				{Type: ELSE, Value: "else", Line: 1, Column: 13},
				{Type: WHILE, Value: "while", Line: 1, Column: 18},
				{Type: FOR, Value: "for", Line: 1, Column: 24},
				{Type: RETURN, Value: "return", Line: 1, Column: 28},
				{Type: LET, Value: "let", Line: 1, Column: 35},
				{Type: IDENTIFIER, Value: "variableName", Line: 1, Column: 39},
				{Type: IDENTIFIER, Value: "_under_score", Line: 1, Column: 52},
				{Type: END_OF_FILE, Value: "", Line: 1, Column: 64},
			},
		},
		{
			name:  "Builtin keywords",
			input: "print input key_pressed screen drawPixel drawRect drawLine drawCircle clearScreen display quit isKeyDown updateInput",
			expected: []Token{
				{Type: PRINT, Value: "print", Line: 1, Column: 1},
				{Type: INPUT, Value: "input", Line: 1, Column: 7},
				{Type: KEY_PRESSED, Value: "key_pressed", Line: 1, Column: 13},
				{Type: SCREEN, Value: "screen", Line: 1, Column: 25},
				{Type: DRAW_PIXEL, Value: "drawPixel", Line: 1, Column: 32},
				{Type: DRAW_RECT, Value: "drawRect", Line: 1, Column: 42},
				{Type: DRAW_LINE, Value: "drawLine", Line: 1, Column: 51},
				{Type: DRAW_CIRCLE, Value: "drawCircle", Line: 1, Column: 60},
				{Type: CLEAR_SCREEN, Value: "clearScreen", Line: 1, Column: 71},
				{Type: DISPLAY, Value: "display", Line: 1, Column: 83},
				{Type: QUIT, Value: "quit", Line: 1, Column: 91},
				{Type: IS_KEY_DOWN, Value: "isKeyDown", Line: 1, Column: 96},
				{Type: UPDATE_INPUT, Value: "updateInput", Line: 1, Column: 106},
				{Type: END_OF_FILE, Value: "", Line: 1, Column: 117},
			},
		},
		{
			name:  "Numbers",
			input: "123 0 3.14 0.5",
			expected: []Token{
				{Type: INTEGER, Value: "123", Line: 1, Column: 1},
				{Type: INTEGER, Value: "0", Line: 1, Column: 5},
				{Type: FLOAT, Value: "3.14", Line: 1, Column: 7},
				{Type: FLOAT, Value: "0.5", Line: 1, Column: 12},
				{Type: END_OF_FILE, Value: "", Line: 1, Column: 15},
			},
		},
		{
			name:  "Newlines are tokens",
			input: "x\ny",
			expected: []Token{
				{Type: IDENTIFIER, Value: "x", Line: 1, Column: 1},
				{Type: NEWLINE, Value: "\n", Line: 1, Column: 2},
				{Type: IDENTIFIER, Value: "y", Line: 2, Column: 1},
				{Type: END_OF_FILE, Value: "", Line: 2, Column: 2},
			},
		},
		{
			name:  "Double quoted string",
			input: `"hello"`,
			expected: []Token{
				{Type: STRING, Value: "hello", Line: 1, Column: 1},
				{Type: END_OF_FILE, Value: "", Line: 1, Column: 8},
			},
		},
		{
			name:  "Single quoted string",
			input: `'world'`,
			expected: []Token{
				{Type: STRING, Value: "world", Line: 1, Column: 1},
				{Type: END_OF_FILE, Value: "", Line: 1, Column: 8},
			},
		},
		{
			name:  "Escape sequences",
			input: `"a\nb\tc\\d\"e"`,
			expected: []Token{
				{Type: STRING, Value: "a\nb\tc\\d\"e", Line: 1, Column: 1},
				{Type: END_OF_FILE, Value: "", Line: 1, Column: 16},
			},
		},
		{
			name:  "Unknown escape keeps the character",
			input: `"a\qb"`,
			expected: []Token{
				{Type: STRING, Value: "aqb", Line: 1, Column: 1},
				{Type: END_OF_FILE, Value: "", Line: 1, Column: 7},
			},
		},
		{
			name:  "Unterminated string runs to end of input",
			input: `"open`,
			expected: []Token{
				{Type: STRING, Value: "open", Line: 1, Column: 1},
				{Type: END_OF_FILE, Value: "", Line: 1, Column: 6},
			},
		},
		{
			name:  "Line comment",
			input: "x // note\ny",
			expected: []Token{
				{Type: IDENTIFIER, Value: "x", Line: 1, Column: 1},
				{Type: NEWLINE, Value: "\n", Line: 1, Column: 10},
				{Type: IDENTIFIER, Value: "y", Line: 2, Column: 1},
				{Type: END_OF_FILE, Value: "", Line: 2, Column: 2},
			},
		},
		{
			name:  "Block comment",
			input: "x /* a\nb */ y",
			expected: []Token{
				{Type: IDENTIFIER, Value: "x", Line: 1, Column: 1},
				{Type: IDENTIFIER, Value: "y", Line: 2, Column: 6},
				{Type: END_OF_FILE, Value: "", Line: 2, Column: 7},
			},
		},
		{
			name:  "Unterminated block comment is tolerated",
			input: "x /* open",
			expected: []Token{
				{Type: IDENTIFIER, Value: "x", Line: 1, Column: 1},
				{Type: END_OF_FILE, Value: "", Line: 1, Column: 10},
			},
		},
		{
			name:  "Lone ampersand and pipe are unknown",
			input: "& |",
			expected: []Token{
				{Type: UNKNOWN, Value: "&", Line: 1, Column: 1},
				{Type: UNKNOWN, Value: "|", Line: 1, Column: 3},
				{Type: END_OF_FILE, Value: "", Line: 1, Column: 4},
			},
		},
		{
			name:  "Unknown character",
			input: "@",
			expected: []Token{
				{Type: UNKNOWN, Value: "@", Line: 1, Column: 1},
				{Type: END_OF_FILE, Value: "", Line: 1, Column: 2},
			},
		},
		{
			name:  "Delimiters",
			input: "( ) { } [ ] ; , . :",
			expected: []Token{
				{Type: LPAREN, Value: "(", Line: 1, Column: 1},
				{Type: RPAREN, Value: ")", Line: 1, Column: 3},
				{Type: LBRACE, Value: "{", Line: 1, Column: 5},
				{Type: RBRACE, Value: "}", Line: 1, Column: 7},
				{Type: LBRACKET, Value: "[", Line: 1, Column: 9},
				{Type: RBRACKET, Value: "]", Line: 1, Column: 11},
				{Type: SEMICOLON, Value: ";", Line: 1, Column: 13},
				{Type: COMMA, Value: ",", Line: 1, Column: 15},
				{Type: DOT, Value: ".", Line: 1, Column: 17},
				{Type: COLON, Value: ":", Line: 1, Column: 19},
				{Type: END_OF_FILE, Value: "", Line: 1, Column: 20},
			},
		},
		{
			name:  "Boolean literals",
			input: "true false",
			expected: []Token{
				{Type: TRUE_LIT, Value: "true", Line: 1, Column: 1},
				{Type: FALSE_LIT, Value: "false", Line: 1, Column: 6},
				{Type: END_OF_FILE, Value: "", Line: 1, Column: 11},
			},
		},
		{
			name:  "Adjacent tokens",
			input: "x+y",
			expected: []Token{
				{Type: IDENTIFIER, Value: "x", Line: 1, Column: 1},
				{Type: PLUS, Value: "+", Line: 1, Column: 2},
				{Type: IDENTIFIER, Value: "y", Line: 1, Column: 3},
				{Type: END_OF_FILE, Value: "", Line: 1, Column: 4},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewLexer(tt.input).Tokenize()
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Tokenize() = %v, want %v", got, tt.expected)
			}
		})
	}
}

// TestTokenRoundTrip checks that for space-separated input the token
// values concatenated with spaces reproduce the input.
func TestTokenRoundTrip(t *testing.T) {
	inputs := []string{
		"int main ( ) { return 0 ; }",
		"x = x + 1 ;",
		"while ( i < 10 ) i = i * 2 ;",
		"let y : float = 1.5 ;",
	}
	for _, input := range inputs {
		tokens := NewLexer(input).Tokenize()
		var parts []string
		for _, tok := range tokens {
			if tok.Type == NEWLINE || tok.Type == END_OF_FILE {
				continue
			}
			parts = append(parts, tok.Value)
		}
		if got := strings.Join(parts, " "); got != input {
			t.Errorf("round trip of %q = %q", input, got)
		}
	}
}

func TestNextTokenStreaming(t *testing.T) {
	l := NewLexer("a b")
	if tok := l.NextToken(); tok.Type != IDENTIFIER || tok.Value != "a" {
		t.Fatalf("first token = %v", tok)
	}
	if tok := l.NextToken(); tok.Type != IDENTIFIER || tok.Value != "b" {
		t.Fatalf("second token = %v", tok)
	}
	if tok := l.NextToken(); tok.Type != END_OF_FILE {
		t.Fatalf("third token = %v", tok)
	}
	// NextToken stays at EOF once exhausted
	if tok := l.NextToken(); tok.Type != END_OF_FILE {
		t.Fatalf("fourth token = %v", tok)
	}
}
