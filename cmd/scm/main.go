// Command scm is the CLI entry point spec.md 6 describes: an optional
// input-file argument dispatches to file mode, its absence enters the
// REPL, grounded on main.go's flag/logging/context-timeout shape.
package main

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"time"

	"github.com/jcorbin/scm/internal/logio"
	"github.com/jcorbin/scm/internal/panicerr"
	"github.com/jcorbin/scm/internal/repl"
)

func main() {
	var (
		memLimit    uint
		timeout     time.Duration
		trace       bool
		dump        bool
		noReadline  bool
		backendName string
	)
	flag.UintVar(&memLimit, "mem-limit", 0, "cap the VM back-end's operand stack")
	flag.DurationVar(&timeout, "timeout", 0, "time limit for the run")
	flag.BoolVar(&trace, "trace", false, "log one line per executed VM instruction")
	flag.BoolVar(&dump, "dump", false, "print the global frame after execution")
	flag.BoolVar(&noReadline, "no-readline", false, "disable history-file line editing")
	flag.StringVar(&backendName, "backend", "vm", `execution back-end: "vm" or "eval"`)
	flag.Parse()

	log := logio.Logger{}
	log.SetOutput(os.Stderr)
	defer os.Exit(log.ExitCode())

	backend := repl.BackendVM
	if backendName == "eval" {
		backend = repl.BackendEval
	}

	opts := []repl.Option{
		repl.WithInput(os.Stdin),
		repl.WithOutput(os.Stdout),
		repl.WithMemLimit(memLimit),
		repl.WithBackend(backend),
	}
	if trace {
		opts = append(opts, repl.WithLogf(log.Leveledf("TRACE")))
	}
	if noReadline {
		opts = append(opts, repl.WithHistoryFile(""))
	}

	it := repl.New(opts...)

	if trace {
		repl.WrapTrace(&log)
		defer log.Unwrap()
	}
	if dump {
		defer it.DumpGlobals(&logio.Writer{Logf: log.Leveledf("DUMP")})
	}

	ctx := context.Background()
	if timeout != 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	err := panicerr.Recover("scm", func() error {
		if args := flag.Args(); len(args) > 0 {
			return runFile(ctx, it, args[0])
		}
		return repl.NewStdIoRepl(it, os.Stdout).Run(ctx)
	})
	log.ErrorIf(err)
}

func runFile(ctx context.Context, it *repl.Interpreter, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return repl.NewFileRepl(it, filepath.Base(path), f).Run(ctx)
}
