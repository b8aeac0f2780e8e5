package console

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

type lineReader interface {
	ReadLine() (string, error)
}

// newLineReader edits lines with x/term when in is a terminal and falls
// back to plain line scanning otherwise.
func newLineReader(in io.Reader, out io.Writer) lineReader {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		rw := struct {
			io.Reader
			io.Writer
		}{f, out}
		return &rawLines{fd: int(f.Fd()), t: term.NewTerminal(rw, prompt)}
	}
	return &scanLines{s: bufio.NewScanner(in), out: out}
}

// rawLines keeps the terminal raw only while a line is edited, so Ctrl-C
// still interrupts a running program.
type rawLines struct {
	fd int
	t  *term.Terminal
}

func (r *rawLines) ReadLine() (string, error) {
	state, err := term.MakeRaw(r.fd)
	if err != nil {
		return "", fmt.Errorf("couldn't set raw mode: %w", err)
	}
	defer term.Restore(r.fd, state)

	return r.t.ReadLine()
}

type scanLines struct {
	s   *bufio.Scanner
	out io.Writer
}

func (r *scanLines) ReadLine() (string, error) {
	fmt.Fprint(r.out, prompt)
	if !r.s.Scan() {
		if err := r.s.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return r.s.Text(), nil
}
