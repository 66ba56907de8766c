package phase

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Selector command tokens.
const (
	TokenSelectAll   = "all"
	TokenDeselectAll = "none"
)

// SelectorState is a state of the interactive selection loop.
type SelectorState string

const (
	// StateRendering means the menu is about to be (re)drawn.
	StateRendering SelectorState = "rendering"
	// StateAwaitingInput means the selector is blocked on one line of input.
	StateAwaitingInput SelectorState = "awaiting-input"
	// StateConfirmed is the terminal state; the selection is final.
	StateConfirmed SelectorState = "confirmed"
)

// Selector drives the interactive phase menu: a finite-state loop over
// an immutable registry plus a mutable selection. Rendering, input
// parsing, and mutation are separate steps so each is testable alone.
type Selector struct {
	registry  *Registry
	selection Selection
	state     SelectorState
}

// NewSelector creates a Selector starting from all phases selected.
func NewSelector(r *Registry) *Selector {
	return &Selector{
		registry:  r,
		selection: SelectAll(r),
		state:     StateRendering,
	}
}

// State returns the current selector state.
func (s *Selector) State() SelectorState {
	return s.state
}

// Selection returns the current selection.
func (s *Selector) Selection() Selection {
	return s.selection
}

// Render produces the menu text for the current selection and moves
// the selector to AwaitingInput.
func (s *Selector) Render() string {
	var b strings.Builder

	b.WriteString("Select phases to run:\n")
	for _, p := range s.registry.Phases() {
		mark := " "
		if s.selection.Enabled(p.ID()) {
			mark = "x"
		}
		suffix := ""
		if p.IsRequired() {
			suffix = " (required, always runs)"
		}
		fmt.Fprintf(&b, "  [%s] %d. %s%s\n", mark, p.ID(), p.Label(), suffix)
	}
	b.WriteString("\nToggle by number, 'all', 'none', or press enter to continue: ")

	s.state = StateAwaitingInput
	return b.String()
}

// Handle interprets one line of input and mutates the selection.
// Empty input confirms; anything else returns the selector to
// Rendering. Invalid ids are silently ignored.
func (s *Selector) Handle(line string) {
	input := strings.TrimSpace(line)

	if input == "" {
		s.state = StateConfirmed
		return
	}

	switch input {
	case TokenSelectAll:
		s.selection = SelectAll(s.registry)
	case TokenDeselectAll:
		s.selection = SelectNone(s.registry)
	default:
		for _, tok := range strings.Fields(input) {
			id, err := strconv.Atoi(tok)
			if err != nil {
				continue
			}
			s.selection.Toggle(s.registry, id)
		}
	}

	s.state = StateRendering
}

// RunSelector runs the interactive loop against the given terminal
// until the selection is confirmed.
func RunSelector(r *Registry, in io.Reader, out io.Writer) (Selection, error) {
	sel := NewSelector(r)
	reader := bufio.NewReader(in)

	for sel.State() != StateConfirmed {
		if _, err := io.WriteString(out, sel.Render()); err != nil {
			return nil, err
		}

		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			// EOF confirms whatever is selected.
			sel.Handle("")
			break
		}
		sel.Handle(line)
		_, _ = io.WriteString(out, "\n")
	}

	return sel.Selection(), nil
}
