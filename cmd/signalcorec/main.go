package main

import (
	"flag"
	"fmt"
	"os"

	"signalcore/internal/compiler"
	"signalcore/internal/ir"
	"signalcore/internal/program"
)

const version = "0.1.0"

func main() {
	showVersion := flag.Bool("version", false, "show version")
	audition := flag.Bool("audition", false, "open a portaudio output stream and negotiate device parameters")
	repl := flag.Bool("repl", false, "open a liner REPL for inspecting the compiled Program")
	flag.Parse()

	if *showVersion {
		fmt.Printf("signalcorec %s\n", version)
		return
	}

	res := compiler.Compile(demoNamespace())
	if res.Diags.HasErrors() {
		fmt.Fprint(os.Stderr, res.Diags.EmitAllToString())
		os.Exit(1)
	}

	fmt.Println(ir.FormatModule(res.Program.Module()))

	if *audition {
		if err := runAudition(res.Program); err != nil {
			fmt.Fprintf(os.Stderr, "signalcorec: audition failed: %v\n", err)
			os.Exit(1)
		}
	}

	if *repl {
		runREPL(res.Program)
	}
}

// outputChannelCount counts the main processor's stream-flow output
// endpoints, the closest thing this IR has to a channel count; there
// is no declared sample rate anywhere in the IR (spec.md's Non-goals
// exclude numeric DSP from the core), so audition negotiates against a
// fixed default instead of a value read off the Program.
func outputChannelCount(p *program.Program) int {
	main, ok := p.FindMain()
	if !ok {
		return 1
	}
	n := 0
	for _, ep := range main.Endpoints {
		if ep.Direction == ir.Out && ep.Flow == ir.Stream {
			n++
		}
	}
	if n == 0 {
		return 1
	}
	return n
}
