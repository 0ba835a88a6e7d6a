package output

import (
	"fmt"
	"io"
)

type Class int

const (
	Required Class = iota
	Error
	Normal
	Warning
	Verbose
)

// Printer routes text by class: Error goes to the diagnosis writer, all other classes to the terminal.
// Classes not included at creation are discarded.
type Printer struct {
	classes    map[Class]bool
	terminal   io.Writer
	diagnosis  io.Writer
	useEscapes bool
}

func NewPrinter(include []Class, terminal io.Writer, diagnosis io.Writer, allowEscapes bool) (p Printer) {
	p = Printer{
		classes:    map[Class]bool{},
		terminal:   terminal,
		diagnosis:  diagnosis,
		useEscapes: allowEscapes,
	}
	for _, class := range include {
		p.classes[class] = true
	}
	return
}

// ClassesFor returns the classes shown at the given verbosity: quiet keeps only requested output and errors.
func ClassesFor(quiet bool, verbose bool) []Class {
	switch {
	case quiet:
		return []Class{Required, Error}
	case verbose:
		return []Class{Required, Error, Normal, Warning, Verbose}
	default:
		return []Class{Required, Error, Normal, Warning}
	}
}

func (p Printer) Out(class Class, format string, values ...interface{}) {
	if !p.classes[class] {
		return
	}
	target := p.terminal
	text := fmt.Sprintf(format, values...)
	switch class {
	case Error:
		target = p.diagnosis
		text = p.styled(Red, text)
	case Warning:
		text = p.styled(Yellow, text)
	}
	fmt.Fprint(target, text)
}

// Dim renders auxiliary text faint if escape sequences are allowed.
func (p Printer) Dim(text string) string {
	return p.styled(Faint, text)
}

func (p Printer) styled(style Style, text string) string {
	if !p.useEscapes || text == "" {
		return text
	}
	return style.Apply(text)
}

// Terminal is the writer of all non-error classes.
func (p Printer) Terminal() io.Writer {
	return p.terminal
}
