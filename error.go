package coursedesk

import (
	"errors"
	"fmt"
	"strings"

	"github.com/n2code/coursedesk/internal/console"
)

type CommandError struct {
	message string
	cause   error
}

func (e *CommandError) Error() string {
	var msg strings.Builder
	fmt.Fprint(&msg, e.message)
	if e.cause != nil {
		fmt.Fprint(&msg, ": ", e.cause)
	}
	return msg.String()
}

func (e *CommandError) Unwrap() error {
	return e.cause
}

func newCommandError(message string, cause error) *CommandError {
	return &CommandError{message: message, cause: cause}
}

// conclude is deferred by every command: quitting an interactive choice is not a failure,
// everything else is wrapped into a CommandError unless it is one already.
func (d *desk) conclude(action string, err *error) {
	if *err == nil {
		return
	}
	if errors.Is(*err, console.ErrUserQuit) {
		d.Log.Debug().Str("command", action).Msg("cancelled by user")
		*err = nil
		return
	}
	var commandErr *CommandError
	if errors.As(*err, &commandErr) {
		return
	}
	*err = newCommandError(action+" failed", *err)
}
