package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// errPromptClosed is returned when input ends before an answer was read.
var errPromptClosed = errors.New("input closed before an answer was given")

// prompter reads answers from the command's input. One prompter must be used
// for a whole dialog, as its reader buffers ahead.
type prompter struct {
	in     io.Reader
	reader *bufio.Reader
	out    io.Writer
}

func newPrompter(cmd *cobra.Command) *prompter {
	in := cmd.InOrStdin()
	return &prompter{in: in, reader: bufio.NewReader(in), out: cmd.ErrOrStderr()}
}

// line prints label and returns the trimmed answer.
func (p *prompter) line(label string) (string, error) {
	fmt.Fprint(p.out, label)
	text, err := p.reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && text != "") {
		if errors.Is(err, io.EOF) {
			return "", errPromptClosed
		}
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// secret reads a password without echo when input is a terminal, and falls
// back to a plain line otherwise.
func (p *prompter) secret(label string) (string, error) {
	f, ok := p.in.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return p.line(label)
	}

	fmt.Fprint(p.out, label)
	raw, err := term.ReadPassword(int(f.Fd()))
	fmt.Fprintln(p.out)
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return string(raw), nil
}

// confirm asks a yes/no question. Anything but y or yes declines.
func (p *prompter) confirm(question string) (bool, error) {
	answer, err := p.line(question + " [y/N] ")
	if err != nil {
		if errors.Is(err, errPromptClosed) {
			return false, nil
		}
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
