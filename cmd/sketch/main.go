package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/repr"
	"github.com/urfave/cli/v2"

	"sketchlang/pkg/compiler"
	"sketchlang/pkg/interp"
)

// readSource loads the program text: from the positional file argument
// when given, otherwise from stdin until a line containing exactly END.
func readSource(path string) (string, error) {
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("Could not open file %s", path)
		}
		return string(data), nil
	}

	var sb strings.Builder
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "END" {
			break
		}
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	return sb.String(), scanner.Err()
}

func run(c *cli.Context) error {
	source, err := readSource(c.Args().First())
	if err != nil {
		return err
	}

	if c.Bool("emit-tokens") {
		for _, tok := range compiler.NewLexer(source).Tokenize() {
			fmt.Println(tok)
		}
	}

	program, ir, err := compiler.Compile(source, os.Stderr)
	if err != nil {
		return err
	}

	if c.Bool("emit-ast") {
		repr.Println(program)
	}
	if c.Bool("emit-ir") {
		fmt.Print(ir.Dump())
	}
	if c.Bool("no-run") {
		return nil
	}

	return interp.New().Run(ir)
}

func main() {
	app := &cli.App{
		Name:      "sketch",
		Usage:     "run sketch programs",
		ArgsUsage: "[source file]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "emit-tokens",
				Usage: "print the token stream before running",
			},
			&cli.BoolFlag{
				Name:  "emit-ast",
				Usage: "print the parsed syntax tree before running",
			},
			&cli.BoolFlag{
				Name:  "emit-ir",
				Usage: "print the generated IR before running",
			},
			&cli.BoolFlag{
				Name:  "no-run",
				Usage: "stop after compilation",
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
