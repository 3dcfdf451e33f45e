// Package prompt reads secrets and confirmations from the operator.
package prompt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// ErrNoTerminal is returned when input is requested but stdin is not a terminal.
var ErrNoTerminal = errors.New("no terminal available for interactive input")

// Prompter asks the operator for input.
type Prompter interface {
	// ReadPassword shows label and reads one line with echo suppressed.
	ReadPassword(ctx context.Context, label string) (string, error)
	// Confirm asks a yes/no question; anything but y/yes is a no.
	Confirm(ctx context.Context, question string) (bool, error)
}

// Terminal prompts on a controlling terminal.
type Terminal struct {
	in  *os.File
	out io.Writer
}

func NewTerminal(in *os.File, out io.Writer) *Terminal {
	return &Terminal{in: in, out: out}
}

type readResult struct {
	line string
	err  error
}

func (t *Terminal) ReadPassword(ctx context.Context, label string) (string, error) {
	fd := int(t.in.Fd())
	if !term.IsTerminal(fd) {
		return "", ErrNoTerminal
	}

	state, err := term.GetState(fd)
	if err != nil {
		return "", fmt.Errorf("failed to read terminal state: %w", err)
	}

	fmt.Fprint(t.out, label)
	ch := make(chan readResult, 1)
	go func() {
		b, err := term.ReadPassword(fd)
		ch <- readResult{line: string(b), err: err}
	}()

	select {
	case <-ctx.Done():
		// The reader goroutine still holds echo off; put the terminal back.
		term.Restore(fd, state)
		fmt.Fprintln(t.out)
		return "", ctx.Err()
	case r := <-ch:
		fmt.Fprintln(t.out)
		if r.err != nil {
			return "", fmt.Errorf("failed to read password: %w", r.err)
		}
		return r.line, nil
	}
}

func (t *Terminal) Confirm(ctx context.Context, question string) (bool, error) {
	if !term.IsTerminal(int(t.in.Fd())) {
		return false, ErrNoTerminal
	}

	fmt.Fprintf(t.out, "%s [y/N]: ", question)
	ch := make(chan readResult, 1)
	go func() {
		line, err := readLine(t.in)
		ch <- readResult{line: line, err: err}
	}()

	select {
	case <-ctx.Done():
		fmt.Fprintln(t.out)
		return false, ctx.Err()
	case r := <-ch:
		if r.err != nil && !errors.Is(r.err, io.EOF) {
			return false, fmt.Errorf("failed to read answer: %w", r.err)
		}
		return isYes(r.line), nil
	}
}

// readLine reads up to and including '\n' one byte at a time so nothing
// past the line is consumed from r.
func readLine(r io.Reader) (string, error) {
	var sb strings.Builder
	buf := make([]byte, 1)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			sb.WriteByte(buf[0])
			if buf[0] == '\n' {
				return sb.String(), nil
			}
		}
		if err != nil {
			return sb.String(), err
		}
	}
}

func isYes(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}

// Scripted replays fixed answers in order; used for non-interactive runs and tests.
type Scripted struct {
	Passwords []string
	Answers   []string
	Asked     []string
}

func (s *Scripted) ReadPassword(ctx context.Context, label string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.Asked = append(s.Asked, label)
	if len(s.Passwords) == 0 {
		return "", io.EOF
	}
	p := s.Passwords[0]
	s.Passwords = s.Passwords[1:]
	return p, nil
}

func (s *Scripted) Confirm(ctx context.Context, question string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.Asked = append(s.Asked, question)
	if len(s.Answers) == 0 {
		return false, nil
	}
	a := s.Answers[0]
	s.Answers = s.Answers[1:]
	return isYes(a), nil
}
