package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"fortio.org/log"
	"golang.org/x/term"

	basic "github.com/garyluck/basic-plus-vm"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

//
// Exit status: 0 when the program ran to completion, 1 for a fault in
// the program, 2 for bad usage or a file we could not load
//

func run(args []string, stdout, stderr io.Writer) int {

	fs := flag.NewFlagSet("basic-run", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { printUsage(stderr) }

	configFlag := fs.String("config", "", "YAML file of run options")
	traceFlag := fs.Bool("trace", false, "log each statement as it executes")
	traceVarsFlag := fs.Bool("trace-vars", false, "log every variable change")
	dumpFlag := fs.Bool("dump", false, "dump each statement before it executes")
	statsFlag := fs.Bool("stats", false, "print execution statistics when the program stops")
	seedFlag := fs.Int64("seed", 0, "RND seed (0 picks one from the clock)")
	verboseFlag := fs.Bool("v", false, "verbose engine logging")
	levelFlag := fs.String("loglevel", "", "log level (debug, verbose, info, warning, error)")
	versionFlag := fs.Bool("version", false, "print the version and exit")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if *versionFlag {
		fmt.Fprintf(stdout, "basic-run %s\n", basic.VERSION)
		return 0
	}

	if fs.NArg() != 1 {
		printUsage(stderr)
		return 2
	}

	if *verboseFlag {
		log.SetLogLevel(log.Verbose)
	}

	if *levelFlag != "" {
		if err := log.SetLogLevelStr(*levelFlag); err != nil {
			log.Errf("bad -loglevel %q: %v", *levelFlag, err)
			return 2
		}
	}

	opts := basic.DefaultOptions()

	if *configFlag != "" {
		var err error
		if opts, err = loadOptions(*configFlag); err != nil {
			log.Errf("%v", err)
			return 2
		}
	}

	//
	// Flags only ever turn things on, so a config file setting survives
	// an unset flag
	//

	opts.Output = stdout
	opts.Diagnostics = stderr
	opts.TraceExec = opts.TraceExec || *traceFlag
	opts.TraceVars = opts.TraceVars || *traceVarsFlag
	opts.TraceDump = opts.TraceDump || *dumpFlag
	opts.Stats = opts.Stats || *statsFlag

	if *seedFlag != 0 {
		opts.Seed = *seedFlag
	}

	// color only ever goes to a terminal
	opts.Color = isTerminal(stderr)

	prog, err := basic.LoadProgramFile(fs.Arg(0))
	if err != nil {
		log.Errf("%v", err)
		return 2
	}

	log.LogVf("running %s: %d lines", fs.Arg(0), prog.Len())

	stats, err := basic.NewInterpreter(prog, opts).Run()
	if err != nil {
		log.LogVf("run failed: %v", err)
		return 1
	}

	log.LogVf("%s finished after %d statements", fs.Arg(0), stats.Statements)

	return 0
}

func loadOptions(path string) (basic.Options, error) {

	file, err := os.Open(path)
	if err != nil {
		return basic.Options{}, fmt.Errorf("options: open %s: %w", path, err)
	}
	defer file.Close()

	return basic.LoadOptions(file)
}

func isTerminal(w io.Writer) bool {

	f, ok := w.(*os.File)

	return ok && term.IsTerminal(int(f.Fd()))
}
