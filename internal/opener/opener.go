// Package opener hands URLs, directories and images over to external programs.
package opener

import (
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/rs/zerolog"
)

var ErrNothingToOpen = errors.New("nothing to open")
var ErrNoCommand = errors.New("no command configured")

// Runner executes argv, argv[0] being the program.
type Runner func(argv []string) error

// ExecRunner runs programs directly (no shell involved) with their output attached to the given writers.
func ExecRunner(stdout io.Writer, stderr io.Writer) Runner {
	return func(argv []string) error {
		cmd := exec.Command(argv[0], argv[1:]...)
		cmd.Stdout = stdout
		cmd.Stderr = stderr
		return cmd.Run()
	}
}

type Opener struct {
	openCommand  []string
	imageCommand []string
	run          Runner
	log          zerolog.Logger
}

// New splits the configured commands at whitespace, so "open -a Safari" is a valid open command.
func New(openCommand string, imageCommand string, run Runner, log zerolog.Logger) *Opener {
	return &Opener{
		openCommand:  strings.Fields(openCommand),
		imageCommand: strings.Fields(imageCommand),
		run:          run,
		log:          log,
	}
}

// firstToken keeps only the first whitespace separated part of target so that trailing text
// (like the label of a link line) never reaches the program as separate arguments.
func firstToken(target string) (string, error) {
	fields := strings.Fields(target)
	if len(fields) == 0 {
		return "", ErrNothingToOpen
	}
	return fields[0], nil
}

func (o *Opener) launch(command []string, argument string) error {
	if len(command) == 0 {
		return ErrNoCommand
	}
	argv := append(append([]string(nil), command...), argument)
	o.log.Debug().Strs("argv", argv).Msg("launching external program")
	if err := o.run(argv); err != nil {
		return fmt.Errorf("running %s failed: %w", command[0], err)
	}
	return nil
}

// Open shows a URL or a path with the system's default application.
func (o *Opener) Open(target string) error {
	argument, err := firstToken(target)
	if err != nil {
		return err
	}
	return o.launch(o.openCommand, argument)
}

// ShowImage displays an image, typically inline in the terminal. The path is passed verbatim.
func (o *Opener) ShowImage(path string) error {
	if strings.TrimSpace(path) == "" {
		return ErrNothingToOpen
	}
	return o.launch(o.imageCommand, path)
}
