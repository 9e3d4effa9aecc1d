// Package interp executes the linear IR produced by the compiler. Only
// the function named main runs; calls to other user-defined functions
// currently evaluate to 0 (see DESIGN.md).
package interp

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"sketchlang/pkg/compiler"
	"sketchlang/pkg/graphics"
)

// Interp executes IR programs. All collaborators are injectable; the
// zero defaults talk to the real terminal, keyboard, and window system.
type Interp struct {
	// Stdout receives PRINT output and prompts. Defaults to os.Stdout.
	Stdout io.Writer
	// Errout receives non-fatal diagnostics. Defaults to os.Stderr.
	Errout io.Writer
	// Stdin supplies INPUT lines. Defaults to os.Stdin.
	Stdin io.Reader

	// ReadKey reads one raw keystroke for KEY_PRESSED.
	ReadKey func() (byte, error)
	// OpenWindow constructs the graphics collaborator for SCREEN.
	OpenWindow func(width, height int, title string) (graphics.Window, error)
	// Exit terminates the process for quit(). Defaults to os.Exit.
	Exit func(code int)

	win    graphics.Window
	reader *bufio.Reader
}

func New() *Interp {
	return &Interp{
		Stdout:     os.Stdout,
		Errout:     os.Stderr,
		Stdin:      os.Stdin,
		ReadKey:    readSingleKey,
		OpenWindow: graphics.Open,
		Exit:       os.Exit,
	}
}

// Run executes the program's main function. Functions other than main
// are inert. Runtime errors (division by zero, bad coercions) abort
// execution and are returned to the caller.
func (in *Interp) Run(prog *compiler.IRProgram) error {
	if prog == nil {
		return nil
	}
	for i := range prog.Functions {
		if prog.Functions[i].Name == "main" {
			return in.runFunction(&prog.Functions[i])
		}
	}
	return nil
}

func (in *Interp) runFunction(fn *compiler.IRFunction) error {
	// temps maps the textual form of each IRValue (t3, l_x, ...) to its
	// current runtime value for the duration of the run.
	temps := make(map[string]Value)

	// label prescan for jump resolution
	labels := make(map[string]int)
	for i := range fn.Instructions {
		if fn.Instructions[i].Op == compiler.OpLABEL {
			labels[fn.Instructions[i].Label] = i
		}
	}

	defer in.closeWindow()

	ip := 0
	for ip < len(fn.Instructions) {
		instr := &fn.Instructions[ip]

		switch instr.Op {
		case compiler.OpLOAD_INT:
			n, err := strconv.ParseInt(instr.Operands[0].Name, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid integer literal %q", instr.Operands[0].Name)
			}
			temps[instr.Result.String()] = IntValue(n)

		case compiler.OpLOAD_FLOAT:
			f, err := strconv.ParseFloat(instr.Operands[0].Name, 64)
			if err != nil {
				return fmt.Errorf("invalid float literal %q", instr.Operands[0].Name)
			}
			temps[instr.Result.String()] = FloatValue(f)

		case compiler.OpLOAD_STRING:
			temps[instr.Result.String()] = StringValue(instr.Operands[0].Name)

		case compiler.OpADD, compiler.OpSUB, compiler.OpMUL, compiler.OpDIV, compiler.OpMOD:
			a, err := in.operand(temps, instr, 0).AsInt()
			if err != nil {
				return err
			}
			b, err := in.operand(temps, instr, 1).AsInt()
			if err != nil {
				return err
			}
			var result int64
			switch instr.Op {
			case compiler.OpADD:
				result = a + b
			case compiler.OpSUB:
				result = a - b
			case compiler.OpMUL:
				result = a * b
			case compiler.OpDIV:
				if b == 0 {
					return fmt.Errorf("Division by zero")
				}
				result = a / b
			case compiler.OpMOD:
				if b == 0 {
					return fmt.Errorf("Division by zero")
				}
				result = a % b
			}
			temps[instr.Result.String()] = IntValue(result)

		case compiler.OpNEG:
			a, err := in.operand(temps, instr, 0).AsInt()
			if err != nil {
				return err
			}
			temps[instr.Result.String()] = IntValue(-a)

		case compiler.OpNOT:
			a, err := in.operand(temps, instr, 0).AsInt()
			if err != nil {
				return err
			}
			temps[instr.Result.String()] = IntValue(boolToInt(a == 0))

		case compiler.OpAND, compiler.OpOR:
			a, err := in.operand(temps, instr, 0).AsInt()
			if err != nil {
				return err
			}
			b, err := in.operand(temps, instr, 1).AsInt()
			if err != nil {
				return err
			}
			if instr.Op == compiler.OpAND {
				temps[instr.Result.String()] = IntValue(boolToInt(a != 0 && b != 0))
			} else {
				temps[instr.Result.String()] = IntValue(boolToInt(a != 0 || b != 0))
			}

		case compiler.OpCONCAT:
			a := in.operand(temps, instr, 0)
			b := in.operand(temps, instr, 1)
			temps[instr.Result.String()] = StringValue(a.Display() + b.Display())

		case compiler.OpEQ, compiler.OpNE, compiler.OpLT, compiler.OpGT, compiler.OpLE, compiler.OpGE:
			a := in.operand(temps, instr, 0)
			b := in.operand(temps, instr, 1)
			result, err := compare(instr.Op, a, b)
			if err != nil {
				return err
			}
			temps[instr.Result.String()] = IntValue(result)

		case compiler.OpJZ:
			cond, err := in.operand(temps, instr, 0).AsInt()
			if err != nil {
				return err
			}
			if cond == 0 {
				target, ok := labels[instr.Label]
				if !ok {
					return fmt.Errorf("undefined label %q", instr.Label)
				}
				ip = target
				continue
			}

		case compiler.OpJNZ:
			cond, err := in.operand(temps, instr, 0).AsInt()
			if err != nil {
				return err
			}
			if cond != 0 {
				target, ok := labels[instr.Label]
				if !ok {
					return fmt.Errorf("undefined label %q", instr.Label)
				}
				ip = target
				continue
			}

		case compiler.OpJMP:
			target, ok := labels[instr.Label]
			if !ok {
				return fmt.Errorf("undefined label %q", instr.Label)
			}
			ip = target
			continue

		case compiler.OpSTORE:
			temps[instr.Result.String()] = in.operand(temps, instr, 0)

		case compiler.OpPRINT:
			fmt.Fprint(in.stdout(), in.operand(temps, instr, 0).Display())

		case compiler.OpINPUT:
			if instr.Prompt != "" {
				fmt.Fprint(in.stdout(), instr.Prompt)
			}
			line, err := in.readLine()
			if err != nil && line == "" {
				return fmt.Errorf("reading input: %v", err)
			}
			temps[instr.Result.String()] = StringValue(line)

		case compiler.OpKEY_PRESSED:
			key, err := in.readKey()
			if err != nil {
				return fmt.Errorf("reading key: %v", err)
			}
			temps[instr.Result.String()] = StringValue(string(key))

		case compiler.OpSCREEN:
			if len(instr.Operands) >= 3 {
				width := in.operand(temps, instr, 0).asIntLenient()
				height := in.operand(temps, instr, 1).asIntLenient()
				title := in.operand(temps, instr, 2).Display()

				in.closeWindow()
				win, err := in.openWindow(width, height, title)
				if err != nil {
					fmt.Fprintf(in.errout(), "Failed to create graphics window: %v\n", err)
				} else {
					in.win = win
					// clear the terminal before the banner
					fmt.Fprint(in.stdout(), "\033[2J\033[1;1H")
					fmt.Fprintf(in.stdout(), "Graphics window created: %dx%d - %s\n", width, height, title)
				}
			}
			temps[instr.Result.String()] = IntValue(1)

		case compiler.OpCLEAR_SCREEN:
			if in.win != nil && len(instr.Operands) >= 3 {
				args := in.intArgs(temps, instr, 3)
				in.win.Clear(args[0], args[1], args[2])
				temps[instr.Result.String()] = IntValue(1)
			}

		case compiler.OpDRAW_PIXEL:
			if in.win != nil && len(instr.Operands) >= 5 {
				args := in.intArgs(temps, instr, 5)
				in.win.DrawPixel(args[0], args[1], args[2], args[3], args[4])
				temps[instr.Result.String()] = IntValue(1)
			}

		case compiler.OpDRAW_RECT:
			if in.win != nil && len(instr.Operands) >= 8 {
				args := in.intArgs(temps, instr, 8)
				in.win.DrawRect(args[0], args[1], args[2], args[3], args[4], args[5], args[6], args[7])
				temps[instr.Result.String()] = IntValue(1)
			}

		case compiler.OpDRAW_LINE:
			if in.win != nil && len(instr.Operands) >= 7 {
				args := in.intArgs(temps, instr, 7)
				in.win.DrawLine(args[0], args[1], args[2], args[3], args[4], args[5], args[6])
				temps[instr.Result.String()] = IntValue(1)
			}

		case compiler.OpDRAW_CIRCLE:
			if in.win != nil && len(instr.Operands) >= 7 {
				args := in.intArgs(temps, instr, 7)
				in.win.DrawCircle(args[0], args[1], args[2], args[3], args[4], args[5], args[6])
				temps[instr.Result.String()] = IntValue(1)
			}

		case compiler.OpPRESENT:
			if in.win != nil {
				in.win.HandleEvents()
				in.win.Present()
				if in.win.ShouldClose() {
					in.closeWindow()
					// window closed by the user: end the program cleanly
					ip = len(fn.Instructions)
					continue
				}
			}
			temps[instr.Result.String()] = IntValue(1)

		case compiler.OpCALL:
			if stop, err := in.call(temps, instr); err != nil {
				return err
			} else if stop {
				return nil
			}

		case compiler.OpRET:
			return nil

		case compiler.OpLABEL, compiler.OpNOP:
			// no action

		default:
			// LOAD / LOAD_GLOBAL / STORE_GLOBAL have no runtime model yet
		}

		ip++
	}
	return nil
}

// call dispatches a CALL instruction by its label. quit, isKeyDown and
// updateInput are interpreter services; any other callee evaluates to 0.
func (in *Interp) call(temps map[string]Value, instr *compiler.IRInstruction) (stop bool, err error) {
	switch instr.Label {
	case "quit":
		if in.win != nil {
			in.win.HandleEvents()
			in.closeWindow()
		}
		in.exit(0)
		return true, nil

	case "isKeyDown":
		result := int64(0)
		if in.win != nil && len(instr.Operands) > 0 {
			keyName := in.operand(temps, instr, 0).Display()
			if key, ok := graphics.KeyByName(keyName); ok && in.win.IsKeyPressed(key) {
				result = 1
				fmt.Fprintf(in.stdout(), "Key detected: %s\n", keyName)
			}
		}
		temps[instr.Result.String()] = IntValue(result)

	case "updateInput":
		if in.win != nil {
			in.win.HandleEvents()
		}
		temps[instr.Result.String()] = IntValue(1)

	default:
		// user-defined function dispatch is not implemented yet
		temps[instr.Result.String()] = IntValue(0)
	}
	return false, nil
}

// compare evaluates a comparison opcode: integer pairs compare as
// integers, numeric mixes widen to float, strings compare
// lexicographically. Anything else is a runtime error.
func compare(op compiler.OpCode, a, b Value) (int64, error) {
	var less, equal bool
	switch {
	case a.Kind == KindInt && b.Kind == KindInt:
		less, equal = a.Int < b.Int, a.Int == b.Int
	case a.isNumeric() && b.isNumeric():
		af, bf := a.asFloat(), b.asFloat()
		less, equal = af < bf, af == bf
	case a.Kind == KindString && b.Kind == KindString:
		cmp := strings.Compare(a.Str, b.Str)
		less, equal = cmp < 0, cmp == 0
	default:
		return 0, fmt.Errorf("Invalid types for %s", op)
	}

	switch op {
	case compiler.OpEQ:
		return boolToInt(equal), nil
	case compiler.OpNE:
		return boolToInt(!equal), nil
	case compiler.OpLT:
		return boolToInt(less), nil
	case compiler.OpLE:
		return boolToInt(less || equal), nil
	case compiler.OpGT:
		return boolToInt(!less && !equal), nil
	case compiler.OpGE:
		return boolToInt(!less), nil
	}
	return 0, fmt.Errorf("Invalid comparison %s", op)
}

// operand reads the i-th operand's current value; a never-written slot
// reads as integer 0.
func (in *Interp) operand(temps map[string]Value, instr *compiler.IRInstruction, i int) Value {
	return temps[instr.Operands[i].String()]
}

// intArgs coerces the first n operands leniently to ints for the
// graphics opcodes.
func (in *Interp) intArgs(temps map[string]Value, instr *compiler.IRInstruction, n int) []int {
	args := make([]int, n)
	for i := 0; i < n; i++ {
		args[i] = in.operand(temps, instr, i).asIntLenient()
	}
	return args
}

func (in *Interp) readLine() (string, error) {
	if in.reader == nil {
		in.reader = bufio.NewReader(in.stdin())
	}
	line, err := in.reader.ReadString('\n')
	line = strings.TrimRight(line, "\r\n")
	if err == io.EOF && line != "" {
		err = nil
	}
	return line, err
}

func (in *Interp) closeWindow() {
	if in.win != nil {
		in.win.Close()
		in.win = nil
	}
}

func (in *Interp) stdout() io.Writer {
	if in.Stdout != nil {
		return in.Stdout
	}
	return os.Stdout
}

func (in *Interp) errout() io.Writer {
	if in.Errout != nil {
		return in.Errout
	}
	return os.Stderr
}

func (in *Interp) stdin() io.Reader {
	if in.Stdin != nil {
		return in.Stdin
	}
	return os.Stdin
}

func (in *Interp) readKey() (byte, error) {
	if in.ReadKey != nil {
		return in.ReadKey()
	}
	return readSingleKey()
}

func (in *Interp) openWindow(width, height int, title string) (graphics.Window, error) {
	if in.OpenWindow != nil {
		return in.OpenWindow(width, height, title)
	}
	return graphics.Open(width, height, title)
}

func (in *Interp) exit(code int) {
	if in.Exit != nil {
		in.Exit(code)
		return
	}
	os.Exit(code)
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
