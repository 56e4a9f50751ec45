package main

import (
	"fmt"
	"io"
)

func printUsage(w io.Writer) {

	fmt.Fprintln(w, "usage: basic-run [flags] program.yaml")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run a BASIC-PLUS program stored as a YAML statement list")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  -config file   load run options from a YAML file")
	fmt.Fprintln(w, "  -trace         log each statement as it executes")
	fmt.Fprintln(w, "  -trace-vars    log every variable change")
	fmt.Fprintln(w, "  -dump          dump each statement before it executes")
	fmt.Fprintln(w, "  -stats         print execution statistics when the" +
		" program stops")
	fmt.Fprintln(w, "  -seed n        seed RND, for repeatable runs")
	fmt.Fprintln(w, "  -v             verbose engine logging")
	fmt.Fprintln(w, "  -loglevel lvl  set the log level")
	fmt.Fprintln(w, "  -version       print the version and exit")
}
