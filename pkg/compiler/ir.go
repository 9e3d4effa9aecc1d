package compiler

import (
	"fmt"
	"strings"
)

// OpCode identifies a single IR instruction. The interpreter executes
// these directly; there is no further lowering stage.
type OpCode int

const (
	// Arithmetic
	OpADD OpCode = iota
	OpSUB
	OpMUL
	OpDIV
	OpMOD
	OpNEG
	OpCONCAT // string concatenation

	// Logical
	OpAND
	OpOR
	OpNOT

	// Comparison
	OpEQ
	OpNE
	OpLT
	OpGT
	OpLE
	OpGE

	// Control flow
	OpJMP
	OpJZ  // jump if zero
	OpJNZ // jump if not zero
	OpCALL
	OpRET

	// Memory
	OpLOAD
	OpSTORE
	OpLOAD_GLOBAL
	OpSTORE_GLOBAL

	// Literal loads
	OpLOAD_INT
	OpLOAD_FLOAT
	OpLOAD_STRING

	// I/O and graphics
	OpPRINT
	OpINPUT
	OpKEY_PRESSED
	OpSCREEN
	OpDRAW_PIXEL
	OpDRAW_RECT
	OpDRAW_LINE
	OpDRAW_CIRCLE
	OpCLEAR_SCREEN
	OpPRESENT

	// Structural
	OpLABEL
	OpNOP
)

var opNames = [...]string{
	OpADD:          "ADD",
	OpSUB:          "SUB",
	OpMUL:          "MUL",
	OpDIV:          "DIV",
	OpMOD:          "MOD",
	OpNEG:          "NEG",
	OpCONCAT:       "CONCAT",
	OpAND:          "AND",
	OpOR:           "OR",
	OpNOT:          "NOT",
	OpEQ:           "EQ",
	OpNE:           "NE",
	OpLT:           "LT",
	OpGT:           "GT",
	OpLE:           "LE",
	OpGE:           "GE",
	OpJMP:          "JMP",
	OpJZ:           "JZ",
	OpJNZ:          "JNZ",
	OpCALL:         "CALL",
	OpRET:          "RET",
	OpLOAD:         "LOAD",
	OpSTORE:        "STORE",
	OpLOAD_GLOBAL:  "LOAD_GLOBAL",
	OpSTORE_GLOBAL: "STORE_GLOBAL",
	OpLOAD_INT:     "LOAD_INT",
	OpLOAD_FLOAT:   "LOAD_FLOAT",
	OpLOAD_STRING:  "LOAD_STRING",
	OpPRINT:        "PRINT",
	OpINPUT:        "INPUT",
	OpKEY_PRESSED:  "KEY_PRESSED",
	OpSCREEN:       "SCREEN",
	OpDRAW_PIXEL:   "DRAW_PIXEL",
	OpDRAW_RECT:    "DRAW_RECT",
	OpDRAW_LINE:    "DRAW_LINE",
	OpDRAW_CIRCLE:  "DRAW_CIRCLE",
	OpCLEAR_SCREEN: "CLEAR_SCREEN",
	OpPRESENT:      "PRESENT",
	OpLABEL:        "LABEL",
	OpNOP:          "NOP",
}

func (op OpCode) String() string {
	if int(op) >= 0 && int(op) < len(opNames) {
		return opNames[op]
	}
	return fmt.Sprintf("OpCode(%d)", int(op))
}

// IRValueType discriminates the operand kinds an instruction can reference.
type IRValueType int

const (
	ValNone     IRValueType = iota // absent result slot
	ValTemp                        // compiler temporary t0, t1, ...
	ValGlobal                      // global variable
	ValLocal                       // local variable
	ValConstant                    // literal constant text
	ValLabel                       // label reference
)

// IRValue is a single operand or result slot of an instruction. The
// textual form returned by String is the interpreter's storage key.
type IRValue struct {
	Type IRValueType
	Name string
	ID   int // temp id; meaningful only for ValTemp
}

func NewTemp(id int) IRValue       { return IRValue{Type: ValTemp, ID: id} }
func NewLocal(name string) IRValue { return IRValue{Type: ValLocal, Name: name} }
func NewGlobal(name string) IRValue {
	return IRValue{Type: ValGlobal, Name: name}
}
func NewConstant(text string) IRValue {
	return IRValue{Type: ValConstant, Name: text}
}

func (v IRValue) String() string {
	switch v.Type {
	case ValNone:
		return "_"
	case ValTemp:
		return fmt.Sprintf("t%d", v.ID)
	case ValGlobal:
		return "g_" + v.Name
	case ValLocal:
		return "l_" + v.Name
	case ValConstant, ValLabel:
		return v.Name
	default:
		return "unknown"
	}
}

// IRInstruction is one three-address instruction. Label carries the jump
// target for JMP/JZ/JNZ, the label name for LABEL, and the callee name
// for CALL. Prompt carries the optional prompt text of INPUT.
type IRInstruction struct {
	Op       OpCode
	Operands []IRValue
	Result   IRValue
	Label    string
	Prompt   string
}

func (in IRInstruction) String() string {
	var sb strings.Builder
	sb.WriteString(in.Op.String())
	if in.Op == OpLABEL {
		fmt.Fprintf(&sb, " %s:", in.Label)
		return sb.String()
	}
	for i, operand := range in.Operands {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString(" " + operand.String())
	}
	switch in.Op {
	case OpJMP, OpJZ, OpJNZ:
		sb.WriteString(" " + in.Label)
		return sb.String()
	case OpCALL:
		fmt.Fprintf(&sb, " %s -> %s", in.Label, in.Result)
		return sb.String()
	}
	if in.Result.Type != ValNone {
		fmt.Fprintf(&sb, " -> %s", in.Result)
	}
	return sb.String()
}

// IRFunction is the lowered form of one function declaration.
type IRFunction struct {
	Name         string
	ReturnType   string
	Parameters   []Param
	Instructions []IRInstruction
}

// IRProgram is the lowered form of a whole program.
type IRProgram struct {
	Functions       []IRFunction
	GlobalVariables map[string]string
}

// Dump renders the program as readable text, one instruction per line.
func (p *IRProgram) Dump() string {
	var sb strings.Builder
	for _, fn := range p.Functions {
		fmt.Fprintf(&sb, "func %s %s:\n", fn.ReturnType, fn.Name)
		for i, instr := range fn.Instructions {
			fmt.Fprintf(&sb, "  %3d: %s\n", i, instr.String())
		}
	}
	return sb.String()
}
