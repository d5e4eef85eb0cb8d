// trace.go wires a --trace log through a collapsing filter pipe, the same
// shape main.go's scanPipe/locScanner gave FIRST's trace mode: repeated
// consecutive instruction-trace lines naming the same code block fold
// under one another rather than repeating in full. Where the teacher
// supervises the pipe goroutine with a hand-rolled isolate/pipeWorker
// pair, this uses golang.org/x/sync/errgroup.
package repl

import (
	"bufio"
	"io"
	"regexp"

	"golang.org/x/sync/errgroup"

	"github.com/jcorbin/scm/internal/logio"
)

var traceBlockPattern = regexp.MustCompile(`^(?:\S+: )?(\S*):\d+ `)

// WrapTrace installs a folding filter on log's output stream: consecutive
// --trace lines naming the same code block are collapsed to their first
// occurrence, the way locScanner folded repeated "scan" lines for FIRST.
// Call log.Unwrap (or let ExitCode/Close do so) to restore the original
// stream once tracing is done.
func WrapTrace(log *logio.Logger) {
	log.Wrap(newTraceFilter)
}

type traceFilter struct {
	*io.PipeWriter
	g    *errgroup.Group
	done <-chan struct{}
}

func newTraceFilter(out io.WriteCloser) io.WriteCloser {
	pr, pw := io.Pipe()
	g := &errgroup.Group{}
	done := make(chan struct{})
	g.Go(func() error {
		defer close(done)
		defer out.Close()
		return foldTraceLines(pr, out)
	})
	return &traceFilter{PipeWriter: pw, g: g, done: done}
}

// Close closes the write side of the pipe and waits for the fold goroutine
// to drain and report any write error.
func (tf *traceFilter) Close() error {
	err := tf.PipeWriter.Close()
	<-tf.done
	if gerr := tf.g.Wait(); err == nil {
		err = gerr
	}
	return err
}

// foldTraceLines copies r to out line by line, skipping any line whose
// "block:pc " tag (after an optional "LEVEL: " prefix) names the same block
// as the immediately preceding line's tag.
func foldTraceLines(r io.Reader, out io.Writer) error {
	sc := bufio.NewScanner(r)
	var lastBlock string
	for sc.Scan() {
		line := sc.Text()
		block := line
		if m := traceBlockPattern.FindStringSubmatch(line); m != nil {
			block = m[1]
		}
		if block == lastBlock {
			continue
		}
		lastBlock = block
		if _, err := io.WriteString(out, line+"\n"); err != nil {
			return err
		}
	}
	return sc.Err()
}
