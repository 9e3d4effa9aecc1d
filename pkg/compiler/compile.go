package compiler

import (
	"io"
	"os"
)

// Compile runs the whole front end over src: lex, parse, semantic
// analysis, IR generation. Semantic errors are written to diag (stderr
// when nil) and do not stop the pipeline; callers that want to gate on
// them can consult HasErrors. Only a parse failure aborts.
func Compile(src string, diag io.Writer) (*Program, *IRProgram, error) {
	if diag == nil {
		diag = os.Stderr
	}

	tokens := NewLexer(src).Tokenize()

	program, err := NewParser(tokens).Parse()
	if err != nil {
		return nil, nil, err
	}

	analyzer := NewSemanticAnalyzer(program)
	analyzer.Errout = diag
	analyzer.Analyze()

	ir := NewIRGenerator(program).Generate()
	return program, ir, nil
}
