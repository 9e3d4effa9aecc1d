package compiler

import (
	"fmt"
	"io"
	"os"
)

// semanticErrors records whether any semantic error has been reported in
// the current run. It is process-wide, like the diagnostic sink it
// mirrors; ResetErrors clears it between runs.
var semanticErrors = false

// HasErrors reports whether any semantic error has been reported since
// the last ResetErrors.
func HasErrors() bool {
	return semanticErrors
}

// ResetErrors clears the process-wide semantic error flag.
func ResetErrors() {
	semanticErrors = false
}

// builtinSignatures seeds the global scope so calls to the built-in
// graphics and input operations resolve like ordinary functions. The
// drawing operations report success as an int.
var builtinSignatures = map[string]string{
	"screen":      "int",
	"clearScreen": "int",
	"drawPixel":   "int",
	"drawRect":    "int",
	"drawLine":    "int",
	"drawCircle":  "int",
	"display":     "int",
	"quit":        "void",
	"isKeyDown":   "int",
	"updateInput": "int",
}

// SemanticAnalyzer validates names, call targets, and type compatibility
// over a parsed program. Errors are reported to the sink without
// aborting the pass; analysis always runs to completion.
type SemanticAnalyzer struct {
	program *Program
	global  *Scope
	current *Scope

	// return type of the function currently being analyzed
	currentReturnType string

	// Errout receives "Semantic Error: ..." lines. Defaults to os.Stderr.
	Errout io.Writer
}

func NewSemanticAnalyzer(program *Program) *SemanticAnalyzer {
	return &SemanticAnalyzer{program: program, currentReturnType: "void"}
}

func (a *SemanticAnalyzer) errSink() io.Writer {
	if a.Errout != nil {
		return a.Errout
	}
	return os.Stderr
}

func (a *SemanticAnalyzer) reportError(format string, args ...any) {
	fmt.Fprintf(a.errSink(), "Semantic Error: "+format+"\n", args...)
	semanticErrors = true
}

func (a *SemanticAnalyzer) enterScope() {
	a.current = NewScope(a.current)
}

func (a *SemanticAnalyzer) exitScope() {
	if a.current != nil && a.current != a.global {
		a.current = a.current.Parent()
	}
}

// Analyze runs the two analysis passes: function declarations first, so
// calls resolve regardless of declaration order, then function bodies.
func (a *SemanticAnalyzer) Analyze() {
	a.global = NewScope(nil)
	a.current = a.global

	for name, returnType := range builtinSignatures {
		_ = a.global.Declare(name, Symbol{Name: name, Type: returnType, IsFunction: true, IsDeclared: true})
	}

	if a.program == nil {
		return
	}

	for _, fn := range a.program.Functions {
		sym := Symbol{Name: fn.Name, Type: fn.ReturnType, IsFunction: true, IsDeclared: true}
		if err := a.current.Declare(fn.Name, sym); err != nil {
			a.reportError("%s", err.Error())
		}
	}

	for _, fn := range a.program.Functions {
		a.analyzeFunction(fn)
	}
}

func (a *SemanticAnalyzer) analyzeFunction(fn *FunctionDecl) {
	a.currentReturnType = fn.ReturnType
	a.enterScope()

	for _, param := range fn.Parameters {
		sym := Symbol{Name: param.Name, Type: param.Type, IsDeclared: true}
		if err := a.current.Declare(param.Name, sym); err != nil {
			a.reportError("%s", err.Error())
		}
	}

	a.analyzeStatement(fn.Body)
	a.exitScope()
}

// analyzeStatement dispatches on the statement variant. Plain blocks do
// not open a scope: a name declared inside `{ }` lives in the enclosing
// scope. A for-header does open one around its init/cond/incr/body.
func (a *SemanticAnalyzer) analyzeStatement(stmt Stmt) {
	switch s := stmt.(type) {
	case nil:
	case *BlockStatement:
		for _, inner := range s.Statements {
			a.analyzeStatement(inner)
		}
	case *ReturnStatement:
		if s.Expression != nil {
			exprType := a.analyzeExpression(s.Expression)
			if !isCompatibleType(exprType, a.currentReturnType) {
				a.reportError("Return type mismatch: expected %s, got %s", a.currentReturnType, exprType)
			}
		}
	case *IfStatement:
		a.analyzeExpression(s.Condition)
		a.analyzeStatement(s.ThenBranch)
		if s.ElseBranch != nil {
			a.analyzeStatement(s.ElseBranch)
		}
	case *WhileStatement:
		a.analyzeExpression(s.Condition)
		a.analyzeStatement(s.Body)
	case *ForStatement:
		a.enterScope()
		if s.Init != nil {
			a.analyzeStatement(s.Init)
		}
		if s.Condition != nil {
			a.analyzeExpression(s.Condition)
		}
		if s.Increment != nil {
			a.analyzeExpression(s.Increment)
		}
		a.analyzeStatement(s.Body)
		a.exitScope()
	case *VariableDecl:
		if s.Initializer != nil {
			exprType := a.analyzeExpression(s.Initializer)
			if !isCompatibleType(exprType, s.Type) {
				a.reportError("Variable initialization type mismatch: expected %s, got %s", s.Type, exprType)
			}
		}
		sym := Symbol{Name: s.Name, Type: s.Type, IsDeclared: true}
		if err := a.current.Declare(s.Name, sym); err != nil {
			a.reportError("%s", err.Error())
		}
	case *PrintStatement:
		a.analyzeExpression(s.Expression)
	case *ExpressionStatement:
		a.analyzeExpression(s.Expression)
	}
}

// analyzeExpression returns the textual type of the expression, using
// "void" where no meaningful type exists (including after errors, so
// analysis can continue).
func (a *SemanticAnalyzer) analyzeExpression(expr Expr) string {
	switch e := expr.(type) {
	case nil:
		return "void"
	case *Literal:
		switch e.Type {
		case INTEGER:
			return "int"
		case FLOAT:
			return "float"
		case STRING:
			return "string"
		case TRUE_LIT, FALSE_LIT:
			return "bool"
		default:
			return "void"
		}
	case *Identifier:
		sym, ok := a.current.Lookup(e.Name)
		if !ok {
			a.reportError("Undefined identifier: %s", e.Name)
			return "void"
		}
		return sym.Type
	case *BinaryOp:
		leftType := a.analyzeExpression(e.Left)
		rightType := a.analyzeExpression(e.Right)
		switch e.Op {
		case PLUS, MINUS, STAR, SLASH, PERCENT:
			return getCommonType(leftType, rightType)
		case EQUAL, NOT_EQUAL, LESS, GREATER, LESS_EQUAL, GREATER_EQUAL:
			return "int" // comparisons yield 0 or 1
		case AND, OR:
			return "int"
		case COMMA:
			return rightType
		default:
			return "void"
		}
	case *UnaryOp:
		operandType := a.analyzeExpression(e.Operand)
		switch e.Op {
		case MINUS, NOT:
			return operandType
		default:
			return "void"
		}
	case *FunctionCall:
		sym, ok := a.current.Lookup(e.Name)
		if !ok {
			a.reportError("Undefined function: %s", e.Name)
			return "void"
		}
		if !sym.IsFunction {
			a.reportError("'%s' is not a function", e.Name)
			return "void"
		}
		for _, arg := range e.Args {
			a.analyzeExpression(arg)
		}
		return sym.Type
	case *InputCall:
		if e.Prompt != nil {
			a.analyzeExpression(e.Prompt)
		}
		return "string"
	case *KeyPressedCall:
		if e.Prompt != nil {
			a.analyzeExpression(e.Prompt)
		}
		return "string"
	case *Assignment:
		sym, ok := a.current.Lookup(e.Name)
		if !ok {
			a.reportError("Undefined variable: %s", e.Name)
			return "void"
		}
		exprType := a.analyzeExpression(e.Value)
		if !isCompatibleType(exprType, sym.Type) {
			a.reportError("Assignment type mismatch: '%s' expects %s, got %s", e.Name, sym.Type, exprType)
		}
		return sym.Type
	case *ArrayAccess:
		arrayType := a.analyzeExpression(e.Array)
		a.analyzeExpression(e.Index)
		// index reads yield the array expression's type for now
		return arrayType
	}
	return "void"
}

// isCompatibleType reports whether a value of type from may initialize
// or be assigned to a location of type to. The relation is reflexive and
// admits int<->float, int<->string and bool<->int both ways.
func isCompatibleType(from, to string) bool {
	if from == to {
		return true
	}
	if (from == "int" || from == "float") && (to == "int" || to == "float") {
		return true
	}
	if (from == "int" || from == "string") && (to == "int" || to == "string") {
		return true
	}
	if (from == "bool" || from == "int") && (to == "bool" || to == "int") {
		return true
	}
	return false
}

// getCommonType resolves the result type of binary arithmetic: equal
// types stay, float wins over int, otherwise the left operand decides.
func getCommonType(type1, type2 string) string {
	if type1 == type2 {
		return type1
	}
	if type1 == "float" || type2 == "float" {
		return "float"
	}
	return type1
}
