// Command gen_scenarios generates a generatedScenarios slice of
// internal/repl's scenario type from a plain-text scenario file (one
// "expr => want" pair per line, `#`-prefixed comments ignored), the
// spec.md 8 testable-properties table. It mirrors
// gen_vm_expects.go's shape line for line: an errgroup pair piping
// generated source through goimports while reading its input
// concurrently, built on golang.org/x/net/context to match the original
// generator exactly rather than the stdlib context the interpreter itself
// uses.
package main

import (
	"bufio"
	"bytes"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"time"

	"golang.org/x/net/context"
	"golang.org/x/sync/errgroup"
)

type namedReader interface {
	io.ReadCloser
	Name() string
}

var (
	in  namedReader    = os.Stdin
	out io.WriteCloser = os.Stdout
)

func parseFlags() {
	flag.Parse()

	args := flag.Args()

	if len(args) > 0 {
		name := args[0]
		f, err := os.Open(name)
		if err != nil {
			log.Fatalf("failed to open %v: %v", name, err)
		}
		args = args[1:]
		in = f
	}

	if len(args) > 0 {
		name := args[0]
		f, err := os.Create(name)
		if err != nil {
			log.Fatalf("failed to create %v: %v", name, err)
		}
		args = args[1:]
		out = f
	}
}

func main() {
	ctx := context.Background()
	parseFlags()

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	eg, ctx := errgroup.WithContext(ctx)

	ready := make(chan struct{})

	eg.Go(func() error {
		gofmt := exec.CommandContext(ctx, "goimports")
		fmtPipe, err := gofmt.StdinPipe()
		if err != nil {
			return err
		}

		defer out.Close()
		gofmt.Stdout = out
		gofmt.Stderr = os.Stderr

		out = fmtPipe

		close(ready)
		if err := gofmt.Run(); err != nil {
			return fmt.Errorf("gofmt run failed: %w", err)
		}
		return nil
	})

	eg.Go(func() (rerr error) {
		select {
		case <-ctx.Done():
		case <-ready:
		}

		defer func() {
			if cerr := in.Close(); rerr == nil {
				rerr = cerr
			}
			if cerr := out.Close(); rerr == nil {
				rerr = cerr
			}
		}()

		return run(ctx)
	})

	if err := eg.Wait(); err != nil {
		log.Fatalln(err)
	}
}

// scenarioLine matches "expr => want", spec.md 8's table rows flattened
// to one line each in the scenario source file.
var scenarioLine = regexp.MustCompile(`^(.+?)\s*=>\s*(.+)$`)

func run(ctx context.Context) error {
	var buf bytes.Buffer
	buf.Grow(1024)
	buf.WriteString("package repl_test\n\n")

	buf.WriteString("// @generated from ")
	buf.WriteString(in.Name())
	buf.WriteString("\n\n")

	if args := flag.Args(); len(args) >= 2 {
		buf.WriteString("//go:generate go run scripts/gen_scenarios.go --")
		for _, arg := range args {
			buf.WriteByte(' ')
			buf.WriteString(arg)
		}
		buf.WriteString("\n\n")
	}

	buf.WriteString("var generatedScenarios = []scenario{\n")

	sc := bufio.NewScanner(in)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		match := scenarioLine.FindStringSubmatch(line)
		if match == nil {
			continue
		}
		fmt.Fprintf(&buf, "\t{Expr: %q, Want: %q},\n", match[1], match[2])

		if buf.Len() > 4096 {
			if _, err := buf.WriteTo(out); err != nil {
				return err
			}
		}
		if err := ctx.Err(); err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil {
		return err
	}

	buf.WriteString("}\n")
	_, err := buf.WriteTo(out)
	return err
}
