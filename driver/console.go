// Package driver provides the host-facing bindings an emulator run
// needs but the architectural core does not: TRAP-driven console I/O and
// the binary loader.
package driver

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

// Console is the TRAP-driven stdout/stdin binding: NEWLINE and PRINT
// write through stdout, PROMPT writes a prompt banner to stdout and
// blocks on a line of stdin, matching the original's printf/scanf pair.
type Console struct {
	stdout io.Writer
	stdin  *bufio.Reader
}

// ConsoleOption configures a Console at construction time.
type ConsoleOption func(*Console)

// WithStdout overrides the destination for NEWLINE/PRINT/PROMPT output.
func WithStdout(w io.Writer) ConsoleOption {
	return func(c *Console) { c.stdout = w }
}

// WithStdin overrides the source PROMPT reads from.
func WithStdin(r io.Reader) ConsoleOption {
	return func(c *Console) { c.stdin = bufio.NewReader(r) }
}

// NewConsole creates a Console bound to the process's real stdout/stdin
// unless overridden.
func NewConsole(opts ...ConsoleOption) *Console {
	c := &Console{
		stdout: os.Stdout,
		stdin:  bufio.NewReader(os.Stdin),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Newline implements emu.Console.
func (c *Console) Newline() {
	fmt.Fprint(c.stdout, "\n")
}

// Print implements emu.Console.
func (c *Console) Print(value int32) {
	fmt.Fprintf(c.stdout, " %d", value)
}

// Prompt implements emu.Console. ok is false once the input stream is
// exhausted, which the caller treats as a clean halt rather than a
// fatal error.
func (c *Console) Prompt() (value int32, ok bool) {
	fmt.Fprint(c.stdout, "\n? ")
	if f, isFlusher := c.stdout.(interface{ Flush() error }); isFlusher {
		_ = f.Flush()
	}

	var v int32
	_, err := fmt.Fscan(c.stdin, &v)
	if err != nil {
		return 0, false
	}
	return v, true
}
