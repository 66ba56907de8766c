package network

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/felixgeelhaar/macsetup/internal/ports"
)

// TerminalPrompter asks yes/no questions on the interactive terminal.
type TerminalPrompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewTerminalPrompter creates a prompter over the given reader/writer.
func NewTerminalPrompter(in io.Reader, out io.Writer) *TerminalPrompter {
	return &TerminalPrompter{
		in:  bufio.NewReader(in),
		out: out,
	}
}

// Confirm prints the question and reads a y/n answer. Empty input and
// anything not starting with "y" count as no.
func (p *TerminalPrompter) Confirm(ctx context.Context, question string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	_, _ = fmt.Fprintf(p.out, "%s [y/N]: ", question)

	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		return false, err
	}

	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}

// Ensure TerminalPrompter implements ports.Prompter.
var _ ports.Prompter = (*TerminalPrompter)(nil)
