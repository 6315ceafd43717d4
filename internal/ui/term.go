// Package ui renders the MarketXI terminal client: one view struct per
// screen, plus the shell that switches between them.
package ui

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Term wraps line-based terminal I/O so views stay testable against
// in-memory readers and writers.
type Term struct {
	in  *bufio.Scanner
	out io.Writer
}

func NewTerm(in io.Reader, out io.Writer) *Term {
	return &Term{in: bufio.NewScanner(in), out: out}
}

func (t *Term) Printf(format string, args ...any) {
	fmt.Fprintf(t.out, format, args...)
}

func (t *Term) Println(args ...any) {
	fmt.Fprintln(t.out, args...)
}

// Prompt prints a label and reads one line. The second return is false on
// end of input.
func (t *Term) Prompt(label string) (string, bool) {
	fmt.Fprintf(t.out, "%s: ", label)
	if !t.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(t.in.Text()), true
}

// ReadLine reads one line without a label, for command prompts.
func (t *Term) ReadLine(prompt string) (string, bool) {
	fmt.Fprint(t.out, prompt)
	if !t.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(t.in.Text()), true
}
