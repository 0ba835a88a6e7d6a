// Package console handles all interactive input and output with the user.
package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"github.com/n2code/coursedesk/internal/output"
)

var ErrNoChoice = errors.New("no choice to make")
var ErrUserQuit = errors.New("user quit")

type Console struct {
	printer output.Printer
	reader  *bufio.Reader
	log     zerolog.Logger
}

// New creates a console reading lines from in.
func New(in io.Reader, printer output.Printer, log zerolog.Logger) *Console {
	return &Console{printer: printer, reader: bufio.NewReader(in), log: log}
}

// Print writes requested output, shown regardless of verbosity.
func (c *Console) Print(format string, values ...interface{}) {
	c.printer.Out(output.Required, format+"\n", values...)
}

func (c *Console) Info(format string, values ...interface{}) {
	c.printer.Out(output.Normal, format+"\n", values...)
}

func (c *Console) Verbose(format string, values ...interface{}) {
	c.printer.Out(output.Verbose, format+"\n", values...)
}

func (c *Console) Warn(format string, values ...interface{}) {
	c.printer.Out(output.Warning, format+"\n", values...)
}

func (c *Console) Error(format string, values ...interface{}) {
	c.printer.Out(output.Error, format+"\n", values...)
}

// Dim exposes the printer's faint formatting for auxiliary text.
func (c *Console) Dim(text string) string {
	return c.printer.Dim(text)
}

// readLine returns one line without its line ending. The end of input counts as quitting.
func (c *Console) readLine() (string, error) {
	line, err := c.reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line == "" {
			c.log.Debug().Msg("input closed, treating as quit")
			return "", ErrUserQuit
		}
		if !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("reading input failed: %w", err)
		}
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Input asks for one line of text. If only whitespace is entered the default is returned instead.
func (c *Console) Input(prompt string, defaultValue string) (string, error) {
	fmt.Fprint(c.printer.Terminal(), prompt)
	line, err := c.readLine()
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(line) == "" {
		return defaultValue, nil
	}
	return line, nil
}

var answers = map[string]bool{"y": true, "yes": true, "n": false, "no": false}

// Confirm asks a yes/no question until a valid answer is given. An empty answer selects the default.
func (c *Console) Confirm(question string, defaultAnswer bool) (bool, error) {
	hint := "y/N"
	if defaultAnswer {
		hint = "Y/n"
	}
	prompt := fmt.Sprintf("%s [%s]: ", question, hint)
	for {
		line, err := c.Input(prompt, "")
		if err != nil {
			return false, err
		}
		if line == "" {
			return defaultAnswer, nil
		}
		if answer, valid := answers[strings.ToLower(strings.TrimSpace(line))]; valid {
			return answer, nil
		}
		c.Warn("Please answer Y/N.")
	}
}

// ReadLine shows the prompt and reads the answer verbatim.
func (c *Console) ReadLine(prompt string) (string, error) {
	fmt.Fprint(c.printer.Terminal(), prompt)
	return c.readLine()
}

// Menu prints lines that are part of an interactive question.
func (c *Console) Menu(line string) {
	fmt.Fprintln(c.printer.Terminal(), line)
}
