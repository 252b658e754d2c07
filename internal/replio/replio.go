// Package replio provides line-oriented input for the packrat REPL, either
// directly from a generic io.Reader or interactively through GNU-readline
// style editing and history.
package replio

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
)

// DirectReader reads lines from any io.Reader without sanitizing terminal
// escape sequences. Used when stdin isn't a TTY, or interactive editing was
// explicitly disabled.
//
// Create one with NewDirectReader; Close must be called before disposal.
type DirectReader struct {
	r             *bufio.Reader
	blanksAllowed bool
}

// InteractiveReader reads lines from stdin via chzyer/readline, giving the
// user history and line editing. Intended for direct TTY use.
//
// Create one with NewInteractiveReader; Close must be called before
// disposal to tear down readline's terminal state.
type InteractiveReader struct {
	rl            *readline.Instance
	blanksAllowed bool
	prompt        string
}

// NewDirectReader wraps r in a buffered reader.
func NewDirectReader(r io.Reader) *DirectReader {
	return &DirectReader{r: bufio.NewReader(r)}
}

// NewInteractiveReader initializes readline with the given prompt.
func NewInteractiveReader(prompt string) (*InteractiveReader, error) {
	rl, err := readline.NewEx(&readline.Config{Prompt: prompt})
	if err != nil {
		return nil, fmt.Errorf("create readline config: %w", err)
	}
	return &InteractiveReader{rl: rl, prompt: prompt}, nil
}

func (r *DirectReader) Close() error { return nil }
func (r *InteractiveReader) Close() error { return r.rl.Close() }

// ReadLine blocks until a non-blank line is read (unless AllowBlank was
// set), returning io.EOF once input is exhausted.
func (r *DirectReader) ReadLine() (string, error) {
	return readNonBlank(r.blanksAllowed, r.r.ReadString)
}

// ReadLine blocks until a non-blank line is read (unless AllowBlank was
// set), returning io.EOF once input is exhausted.
func (r *InteractiveReader) ReadLine() (string, error) {
	return readNonBlank(r.blanksAllowed, func(byte) (string, error) {
		return r.rl.Readline()
	})
}

func readNonBlank(allowBlank bool, next func(delim byte) (string, error)) (string, error) {
	var line string
	var err error
	for line == "" {
		line, err = next('\n')
		if err != nil && (err != io.EOF || line == "") {
			return "", err
		}
		line = strings.TrimSpace(line)
		if line == "" && allowBlank {
			return line, nil
		}
	}
	return line, nil
}

// AllowBlank controls whether an empty line is returned as-is instead of
// being skipped. Off by default.
func (r *DirectReader) AllowBlank(allow bool)      { r.blanksAllowed = allow }
func (r *InteractiveReader) AllowBlank(allow bool) { r.blanksAllowed = allow }

// SetPrompt updates the interactive prompt text.
func (r *InteractiveReader) SetPrompt(p string) {
	r.prompt = p
	r.rl.SetPrompt(p)
}
