package console

import (
	"errors"
	"fmt"
	"strconv"
)

// State of a choice among several candidates.
type State int

const (
	Unresolved State = iota //no candidate at all, terminal
	Prompting               //waiting for the user
	Resolved
	Cancelled
)

func (s State) String() string {
	switch s {
	case Unresolved:
		return "unresolved"
	case Prompting:
		return "prompting"
	case Resolved:
		return "resolved"
	case Cancelled:
		return "cancelled"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

const QuitToken = "q"
const invalidSelection = "Invalid selection. Please select a valid one."

// Resolution is the final outcome of a choice. Choice is only meaningful if State is Resolved.
type Resolution[T any] struct {
	State  State
	Choice T
}

// Err maps unsuccessful outcomes to ErrNoChoice and ErrUserQuit for callers that prefer errors.
func (r Resolution[T]) Err() error {
	switch r.State {
	case Unresolved:
		return ErrNoChoice
	case Cancelled:
		return ErrUserQuit
	}
	return nil
}

// Chooser is the state machine behind ResolveAmbiguity. It performs no I/O itself:
// the menu is rendered with Menu and every line of user input is passed to Feed.
type Chooser[T any] struct {
	choices   []T
	display   func(T) string
	canCancel bool
	state     State
	choice    T
}

// NewChooser starts in Unresolved without candidates, Resolved with exactly one and Prompting otherwise.
func NewChooser[T any](choices []T, display func(T) string, canCancel bool) *Chooser[T] {
	ch := &Chooser[T]{choices: choices, display: display, canCancel: canCancel}
	switch len(choices) {
	case 0:
		ch.state = Unresolved
	case 1:
		ch.state = Resolved
		ch.choice = choices[0]
	default:
		ch.state = Prompting
	}
	return ch
}

func (ch *Chooser[T]) State() State {
	return ch.state
}

func (ch *Chooser[T]) Done() bool {
	return ch.state != Prompting
}

// Menu lists the candidates numbered from 1, followed by the quit option if cancelling is allowed.
func (ch *Chooser[T]) Menu() []string {
	lines := make([]string, 0, len(ch.choices)+1)
	for i, choice := range ch.choices {
		lines = append(lines, fmt.Sprintf("[%d] %s", i+1, ch.display(choice)))
	}
	if ch.canCancel {
		lines = append(lines, fmt.Sprintf("[%s] Quit", QuitToken))
	}
	return lines
}

// Feed processes one selection and reports whether it was accepted. Input after a final state is ignored.
func (ch *Chooser[T]) Feed(selection string) (accepted bool) {
	if ch.Done() {
		return false
	}
	if ch.canCancel && selection == QuitToken {
		ch.state = Cancelled
		return true
	}
	index, err := strconv.Atoi(selection)
	if err != nil || index < 1 || index > len(ch.choices) || selection != strconv.Itoa(index) {
		return false
	}
	ch.state = Resolved
	ch.choice = ch.choices[index-1]
	return true
}

func (ch *Chooser[T]) Resolution() Resolution[T] {
	return Resolution[T]{State: ch.state, Choice: ch.choice}
}

// Prompter is the interactive side of a choice.
type Prompter interface {
	Menu(line string)
	ReadLine(prompt string) (string, error)
}

// ChoiceOptions configure ResolveAmbiguity. The zero value shows no message and allows cancelling.
type ChoiceOptions struct {
	Message  string
	NoCancel bool
}

// ResolveAmbiguity narrows choices down to one. Without candidates nothing is asked and the
// resolution is Unresolved, a single candidate is selected without asking. Otherwise the menu is
// shown until a valid selection is made. The returned error only reports input failures.
//
// NoCancel only hides the quit option. The end of input still yields Cancelled since no selection
// can follow, so callers must handle Cancelled regardless of NoCancel.
func ResolveAmbiguity[T any](p Prompter, choices []T, display func(T) string, options ChoiceOptions) (Resolution[T], error) {
	ch := NewChooser(choices, display, !options.NoCancel)
	for !ch.Done() {
		if options.Message != "" {
			p.Menu(options.Message)
		}
		for _, line := range ch.Menu() {
			p.Menu(line)
		}
		selection, err := p.ReadLine("Choice: ")
		if errors.Is(err, ErrUserQuit) {
			if !options.NoCancel {
				ch.Feed(QuitToken)
				continue
			}
			return Resolution[T]{State: Cancelled}, nil
		}
		if err != nil {
			return Resolution[T]{State: ch.State()}, err
		}
		if !ch.Feed(selection) {
			p.Menu(invalidSelection)
		}
	}
	return ch.Resolution(), nil
}

// Choose is ResolveAmbiguity for callers that treat every unsuccessful outcome as an error.
func Choose[T any](p Prompter, choices []T, display func(T) string, options ChoiceOptions) (T, error) {
	resolution, err := ResolveAmbiguity(p, choices, display, options)
	if err != nil {
		var zero T
		return zero, err
	}
	return resolution.Choice, resolution.Err()
}
