package xpr

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/fmahebert/eckit/pkg/xpr/evaluator"
)

// WriterLogger writes evaluation output to an io.Writer.
type WriterLogger struct {
	W io.Writer
}

func NewWriterLogger(w io.Writer) *WriterLogger {
	return &WriterLogger{W: w}
}

func (l *WriterLogger) Log(values ...interface{}) {
	for _, v := range values {
		fmt.Fprint(l.W, v)
	}
}

func (l *WriterLogger) LogLine(values ...interface{}) {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprint(v)
	}
	fmt.Fprintln(l.W, strings.Join(parts, " "))
}

// BufferedLogger accumulates output in memory. Safe for concurrent use.
type BufferedLogger struct {
	mu sync.Mutex
	sb strings.Builder
}

func NewBufferedLogger() *BufferedLogger {
	return &BufferedLogger{}
}

func (l *BufferedLogger) Log(values ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, v := range values {
		fmt.Fprint(&l.sb, v)
	}
}

func (l *BufferedLogger) LogLine(values ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, v := range values {
		if i > 0 {
			l.sb.WriteString(" ")
		}
		fmt.Fprint(&l.sb, v)
	}
	l.sb.WriteString("\n")
}

func (l *BufferedLogger) String() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.sb.String()
}

func (l *BufferedLogger) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sb.Reset()
}

// NullLogger discards all output.
type NullLogger struct{}

func (NullLogger) Log(values ...interface{})     {}
func (NullLogger) LogLine(values ...interface{}) {}

var _ evaluator.Logger = (*WriterLogger)(nil)
var _ evaluator.Logger = (*BufferedLogger)(nil)
var _ evaluator.Logger = NullLogger{}
