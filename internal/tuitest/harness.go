// Package tuitest drives a compiled binary inside a pseudo terminal and
// records what it draws, so integration tests can assert on rendered frames
// without a real terminal attached.
package tuitest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/creack/pty"
)

const (
	defaultCols    = 120
	defaultRows    = 32
	defaultTimeout = 10 * time.Second
)

// Keystroke is one scripted input. Wait is how long to pause before the
// bytes are written to the terminal.
type Keystroke struct {
	Wait  time.Duration
	Bytes []byte
}

// Script configures a single recorded run of the program under test.
type Script struct {
	Command []string
	Dir     string
	Env     []string
	Cols    int
	Rows    int
	Keys    []Keystroke
	Timeout time.Duration

	// ExpectInterrupt accepts a SIGINT death as a clean exit, for scripts
	// that end with Ctrl+C.
	ExpectInterrupt bool
}

// Recording holds the raw byte stream and the frames parsed from it.
type Recording struct {
	Raw    []byte
	Frames []Frame
}

// Play runs the scripted session and captures everything the program drew.
func Play(ctx context.Context, s Script) (*Recording, error) {
	if len(s.Command) == 0 {
		return nil, errors.New("tuitest: command is required")
	}
	cols, rows := s.Cols, s.Rows
	if cols <= 0 {
		cols = defaultCols
	}
	if rows <= 0 {
		rows = defaultRows
	}
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, s.Command[0], s.Command[1:]...)
	cmd.Dir = s.Dir
	cmd.Env = sessionEnv(s.Env)

	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{Rows: uint16(rows), Cols: uint16(cols)})
	if err != nil {
		return nil, fmt.Errorf("tuitest: start program: %w", err)
	}
	defer func() { _ = ptmx.Close() }()

	var captured bytes.Buffer
	drained := make(chan struct{})
	go func() {
		defer close(drained)
		var queryTail []byte
		buf := make([]byte, 4096)
		for {
			n, readErr := ptmx.Read(buf)
			if n > 0 {
				chunk := buf[:n]
				queryTail = answerTerminalQueries(ptmx, append(queryTail, chunk...))
				_, _ = captured.Write(chunk)
			}
			if readErr != nil {
				return
			}
		}
	}()

	for _, key := range s.Keys {
		if key.Wait > 0 {
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("tuitest: script interrupted: %w", ctx.Err())
			case <-time.After(key.Wait):
			}
		}
		if len(key.Bytes) > 0 {
			if _, err := ptmx.Write(key.Bytes); err != nil {
				return nil, fmt.Errorf("tuitest: write input: %w", err)
			}
		}
	}

	waitErr := make(chan error, 1)
	go func() { waitErr <- cmd.Wait() }()

	select {
	case err := <-waitErr:
		if err != nil && !acceptableExit(err, s.ExpectInterrupt) {
			return nil, fmt.Errorf("tuitest: program exited with error: %w", err)
		}
	case <-ctx.Done():
		return nil, fmt.Errorf("tuitest: timeout waiting for program exit: %w", ctx.Err())
	}

	_ = ptmx.Close()
	<-drained

	raw := captured.Bytes()
	return &Recording{Raw: raw, Frames: parseFrames(raw)}, nil
}

func acceptableExit(err error, expectInterrupt bool) bool {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() == 0 {
		return true
	}
	return expectInterrupt && strings.Contains(err.Error(), "signal: interrupt")
}

func sessionEnv(extra []string) []string {
	env := append(os.Environ(), extra...)
	for _, entry := range env {
		if strings.HasPrefix(entry, "TERM=") {
			return env
		}
	}
	return append(env, "TERM=xterm-256color")
}

// termQueries maps terminal capability probes to canned replies. Bubbletea
// queries the terminal on startup and blocks until something answers.
var termQueries = []struct{ probe, reply []byte }{
	{[]byte("\x1b[6n"), []byte("\x1b[1;1R")},
	{[]byte("\x1b]10;?\x07"), []byte("\x1b]10;rgb:cccc/cccc/cccc\x07")},
	{[]byte("\x1b]10;?\x1b\\"), []byte("\x1b]10;rgb:cccc/cccc/cccc\x1b\\")},
	{[]byte("\x1b]11;?\x07"), []byte("\x1b]11;rgb:0000/0000/0000\x07")},
	{[]byte("\x1b]11;?\x1b\\"), []byte("\x1b]11;rgb:0000/0000/0000\x1b\\")},
}

// answerTerminalQueries replies to any capability probes found in tail and
// returns the unconsumed remainder, bounded so a chatty program cannot grow
// it without limit.
func answerTerminalQueries(w io.Writer, tail []byte) []byte {
	for {
		matched := false
		for _, q := range termQueries {
			if idx := bytes.Index(tail, q.probe); idx >= 0 {
				tail = tail[idx+len(q.probe):]
				_, _ = w.Write(q.reply)
				matched = true
			}
		}
		if !matched {
			break
		}
	}
	if len(tail) > 256 {
		tail = tail[len(tail)-64:]
	}
	return tail
}

var (
	// KeyEnter sends a carriage return.
	KeyEnter = []byte{'\r'}
	// KeyTab cycles panel focus.
	KeyTab = []byte{'\t'}
	// KeyCtrlC asks the program to quit.
	KeyCtrlC = []byte{3}
	// KeyCtrlU switches the composer to upload mode.
	KeyCtrlU = []byte{21}
	// KeyEsc backs out of transient state.
	KeyEsc = []byte{27}
)
