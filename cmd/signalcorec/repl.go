package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/peterh/liner"

	"signalcore/internal/program"
)

const replPrompt = "signalcorec> "

// runREPL opens a history-backed line editor for querying the
// compiled Program's by-name lookups interactively: "func
// NAME", "var NAME", and "struct NAME" dispatch straight to
// Program.FindFunction/.FindVariable/.FindStruct. Ctrl+D ends the
// session.
func runREPL(p *program.Program) {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	fmt.Println("commands: func NAME | var NAME | struct NAME | quit")
	for {
		line, err := ln.Prompt(replPrompt)
		if errors.Is(err, io.EOF) {
			fmt.Println()
			return
		}
		if err != nil {
			// Ctrl+C aborts the current line; go again.
			continue
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		ln.AppendHistory(line)

		if line == "quit" || line == "exit" {
			return
		}
		handleReplCommand(p, line)
	}
}

func handleReplCommand(p *program.Program, line string) {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		fmt.Println("usage: func NAME | var NAME | struct NAME")
		return
	}
	kind, name := fields[0], fields[1]

	switch kind {
	case "func":
		fn, ok := p.FindFunction(name)
		if !ok {
			fmt.Printf("no function named %q\n", name)
			return
		}
		fmt.Printf("func %s -> %s\n", fn.Name, fn.ReturnType.String())
	case "var":
		sv, ok := p.FindVariable(name)
		if !ok {
			fmt.Printf("no state variable named %q\n", name)
			return
		}
		fmt.Printf("var %s: %s external=%v\n", sv.Name, sv.Type.String(), sv.External)
	case "struct":
		st, ok := p.FindStruct(name)
		if !ok {
			fmt.Printf("no struct named %q\n", name)
			return
		}
		fmt.Printf("struct %s\n", st.Name)
	default:
		fmt.Printf("unknown command %q\n", kind)
	}
}
