package app

import (
	"bufio"
	"errors"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Console is the line-oriented surface the shell talks to.
type Console interface {
	io.Writer
	ReadLine() (string, error)
	SetPrompt(prompt string)
}

// OpenConsole returns a line-editing terminal console when in is a TTY, and
// a plain buffered console otherwise. The returned restore func must be
// called before exiting.
func OpenConsole(in, out *os.File) (Console, func(), error) {
	fd := int(in.Fd())
	if !term.IsTerminal(fd) {
		return NewStreamConsole(in, out), func() {}, nil
	}

	state, err := term.MakeRaw(fd)
	if err != nil {
		return nil, nil, err
	}
	restore := func() { _ = term.Restore(fd, state) }

	t := term.NewTerminal(struct {
		io.Reader
		io.Writer
	}{in, out}, "")
	return t, restore, nil
}

// StreamConsole reads lines of any length from a reader; used for pipes
// and tests.
type StreamConsole struct {
	io.Writer
	reader *bufio.Reader
}

// NewStreamConsole wraps r and w. Prompts are not echoed.
func NewStreamConsole(r io.Reader, w io.Writer) *StreamConsole {
	return &StreamConsole{Writer: w, reader: bufio.NewReader(r)}
}

// ReadLine returns the next line without its terminator, or io.EOF.
// A final line without a newline is still returned.
func (c *StreamConsole) ReadLine() (string, error) {
	line, err := c.reader.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return "", err
	}
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r"), nil
}

// SetPrompt is a no-op for streams.
func (c *StreamConsole) SetPrompt(string) {}

var _ Console = (*term.Terminal)(nil)
var _ Console = (*StreamConsole)(nil)
