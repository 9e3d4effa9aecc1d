package compiler

import "fmt"

// IRGenerator lowers a validated AST to linear three-address IR. It has
// no error paths: malformed input is presumed rejected upstream, and
// unknown identifiers are declared as locals on the fly.
type IRGenerator struct {
	program *Program
	out     IRProgram
	current *IRFunction

	// per-function state
	tempCounter  int
	labelCounter int
	symbols      map[string]IRValue
}

func NewIRGenerator(program *Program) *IRGenerator {
	return &IRGenerator{
		program: program,
		out:     IRProgram{GlobalVariables: make(map[string]string)},
	}
}

// Generate lowers every function in declaration order.
func (g *IRGenerator) Generate() *IRProgram {
	if g.program != nil {
		for _, fn := range g.program.Functions {
			g.genFunction(fn)
		}
	}
	return &g.out
}

func (g *IRGenerator) genFunction(fn *FunctionDecl) {
	g.out.Functions = append(g.out.Functions, IRFunction{
		Name:       fn.Name,
		ReturnType: fn.ReturnType,
		Parameters: fn.Parameters,
	})
	g.current = &g.out.Functions[len(g.out.Functions)-1]

	// fresh per-function state
	g.symbols = make(map[string]IRValue)
	g.tempCounter = 0
	g.labelCounter = 0

	for _, param := range fn.Parameters {
		g.symbols[param.Name] = NewLocal(param.Name)
	}

	g.genStatement(fn.Body)
}

func (g *IRGenerator) newTemp() IRValue {
	t := NewTemp(g.tempCounter)
	g.tempCounter++
	return t
}

func (g *IRGenerator) newLabel() string {
	l := fmt.Sprintf("L%d", g.labelCounter)
	g.labelCounter++
	return l
}

func (g *IRGenerator) emit(instr IRInstruction) {
	if g.current != nil {
		g.current.Instructions = append(g.current.Instructions, instr)
	}
}

func (g *IRGenerator) emitLabel(name string) {
	g.emit(IRInstruction{Op: OpLABEL, Label: name})
}

func (g *IRGenerator) genStatement(stmt Stmt) {
	switch s := stmt.(type) {
	case nil:
	case *BlockStatement:
		for _, inner := range s.Statements {
			g.genStatement(inner)
		}
	case *ReturnStatement:
		instr := IRInstruction{Op: OpRET}
		if s.Expression != nil {
			val := g.genExpression(s.Expression)
			instr.Operands = append(instr.Operands, val)
		}
		g.emit(instr)
	case *IfStatement:
		g.genIf(s)
	case *WhileStatement:
		g.genWhile(s)
	case *ForStatement:
		g.genFor(s)
	case *VariableDecl:
		local := NewLocal(s.Name)
		g.symbols[s.Name] = local
		if s.Initializer != nil {
			val := g.genExpression(s.Initializer)
			g.emit(IRInstruction{Op: OpSTORE, Operands: []IRValue{val}, Result: local})
		}
	case *PrintStatement:
		val := g.genExpression(s.Expression)
		g.emit(IRInstruction{Op: OpPRINT, Operands: []IRValue{val}})
	case *ExpressionStatement:
		g.genExpression(s.Expression) // result discarded
	}
}

func (g *IRGenerator) genIf(s *IfStatement) {
	cond := g.genExpression(s.Condition)

	thenLabel := g.newLabel()
	elseLabel := g.newLabel()
	endLabel := g.newLabel()

	g.emit(IRInstruction{Op: OpJZ, Operands: []IRValue{cond}, Label: elseLabel})

	g.emitLabel(thenLabel)
	g.genStatement(s.ThenBranch)
	g.emit(IRInstruction{Op: OpJMP, Label: endLabel})

	g.emitLabel(elseLabel)
	if s.ElseBranch != nil {
		g.genStatement(s.ElseBranch)
	}
	g.emitLabel(endLabel)
}

func (g *IRGenerator) genWhile(s *WhileStatement) {
	loopLabel := g.newLabel()
	endLabel := g.newLabel()

	g.emitLabel(loopLabel)
	cond := g.genExpression(s.Condition)
	g.emit(IRInstruction{Op: OpJZ, Operands: []IRValue{cond}, Label: endLabel})

	g.genStatement(s.Body)
	g.emit(IRInstruction{Op: OpJMP, Label: loopLabel})
	g.emitLabel(endLabel)
}

// genFor lowers the loop header inline. The for-header does not get its
// own entry in the symbol table: names declared there stay in the
// function's symbol table after the loop. The analyzer, unlike this
// pass, does scope the header, so it reports a later use as undefined.
func (g *IRGenerator) genFor(s *ForStatement) {
	if s.Init != nil {
		g.genStatement(s.Init)
	}

	loopLabel := g.newLabel()
	endLabel := g.newLabel()

	g.emitLabel(loopLabel)
	if s.Condition != nil {
		cond := g.genExpression(s.Condition)
		g.emit(IRInstruction{Op: OpJZ, Operands: []IRValue{cond}, Label: endLabel})
	}

	g.genStatement(s.Body)
	if s.Increment != nil {
		g.genExpression(s.Increment) // result discarded
	}
	g.emit(IRInstruction{Op: OpJMP, Label: loopLabel})
	g.emitLabel(endLabel)
}

func (g *IRGenerator) genExpression(expr Expr) IRValue {
	switch e := expr.(type) {
	case nil:
		return IRValue{}
	case *Literal:
		return g.genLiteral(e)
	case *Identifier:
		if val, ok := g.symbols[e.Name]; ok {
			return val
		}
		// undeclared identifier: register as a local and continue;
		// the semantic pass has already reported it
		val := NewLocal(e.Name)
		g.symbols[e.Name] = val
		return val
	case *BinaryOp:
		return g.genBinaryOp(e)
	case *UnaryOp:
		operand := g.genExpression(e.Operand)
		result := g.newTemp()
		op := OpNOT
		if e.Op == MINUS {
			op = OpNEG
		}
		g.emit(IRInstruction{Op: op, Operands: []IRValue{operand}, Result: result})
		return result
	case *FunctionCall:
		return g.genFunctionCall(e)
	case *InputCall:
		result := g.newTemp()
		instr := IRInstruction{Op: OpINPUT, Result: result}
		if lit, ok := e.Prompt.(*Literal); ok && lit.Type == STRING {
			instr.Prompt = lit.Value
		}
		g.emit(instr)
		return result
	case *KeyPressedCall:
		result := g.newTemp()
		g.emit(IRInstruction{Op: OpKEY_PRESSED, Result: result})
		return result
	case *Assignment:
		value := g.genExpression(e.Value)
		local, ok := g.symbols[e.Name]
		if !ok {
			local = NewLocal(e.Name)
			g.symbols[e.Name] = local
		}
		g.emit(IRInstruction{Op: OpSTORE, Operands: []IRValue{value}, Result: local})
		return local
	case *ArrayAccess:
		array := g.genExpression(e.Array)
		index := g.genExpression(e.Index)
		result := g.newTemp()
		g.emit(IRInstruction{Op: OpLOAD, Operands: []IRValue{array, index}, Result: result})
		return result
	}
	return IRValue{}
}

// genLiteral emits a load for numeric and string literals. Other literal
// kinds (the boolean ones) return their raw constant without emitting.
func (g *IRGenerator) genLiteral(lit *Literal) IRValue {
	val := NewConstant(lit.Value)

	var loadOp OpCode
	switch lit.Type {
	case INTEGER:
		loadOp = OpLOAD_INT
	case FLOAT:
		loadOp = OpLOAD_FLOAT
	case STRING:
		loadOp = OpLOAD_STRING
	default:
		return val
	}

	result := g.newTemp()
	g.emit(IRInstruction{Op: loadOp, Operands: []IRValue{val}, Result: result})
	return result
}

// genBinaryOp lowers both sides and emits the mapped opcode. Both ||
// and the comma operator lower to CONCAT: comma-joined print arguments
// are synthesized into one string at runtime.
func (g *IRGenerator) genBinaryOp(e *BinaryOp) IRValue {
	left := g.genExpression(e.Left)
	right := g.genExpression(e.Right)
	result := g.newTemp()

	var op OpCode
	if e.Op == OR || e.Op == COMMA {
		op = OpCONCAT
	} else {
		op = tokenToOpCode(e.Op)
	}

	g.emit(IRInstruction{Op: op, Operands: []IRValue{left, right}, Result: result})
	return result
}

// graphicsOps maps a built-in call name to its dedicated opcode.
var graphicsOps = map[string]OpCode{
	"screen":      OpSCREEN,
	"clearScreen": OpCLEAR_SCREEN,
	"drawPixel":   OpDRAW_PIXEL,
	"drawRect":    OpDRAW_RECT,
	"drawLine":    OpDRAW_LINE,
	"drawCircle":  OpDRAW_CIRCLE,
}

func (g *IRGenerator) genFunctionCall(call *FunctionCall) IRValue {
	result := g.newTemp()

	if op, ok := graphicsOps[call.Name]; ok {
		instr := IRInstruction{Op: op, Result: result}
		for _, arg := range call.Args {
			instr.Operands = append(instr.Operands, g.genExpression(arg))
		}
		g.emit(instr)
		return result
	}

	if call.Name == "display" {
		g.emit(IRInstruction{Op: OpPRESENT, Result: result})
		return result
	}

	// quit, isKeyDown, updateInput and user-defined functions all lower
	// to CALL with the callee name in the label field; the interpreter
	// dispatches on that name.
	instr := IRInstruction{Op: OpCALL, Label: call.Name, Result: result}
	for _, arg := range call.Args {
		instr.Operands = append(instr.Operands, g.genExpression(arg))
	}
	g.emit(instr)
	return result
}

// tokenToOpCode maps an operator token to its IR opcode. Unmapped
// tokens lower to NOP.
func tokenToOpCode(tt TokenType) OpCode {
	switch tt {
	case PLUS:
		return OpADD
	case MINUS:
		return OpSUB
	case STAR:
		return OpMUL
	case SLASH:
		return OpDIV
	case PERCENT:
		return OpMOD
	case AND:
		return OpAND
	case OR:
		return OpOR
	case COMMA:
		return OpCONCAT
	case NOT:
		return OpNOT
	case EQUAL:
		return OpEQ
	case NOT_EQUAL:
		return OpNE
	case LESS:
		return OpLT
	case GREATER:
		return OpGT
	case LESS_EQUAL:
		return OpLE
	case GREATER_EQUAL:
		return OpGE
	default:
		return OpNOP
	}
}
