package output

import "fmt"

// Style is the parameter of an SGR escape sequence.
type Style string

const (
	Faint  Style = "2"
	Red    Style = "31"
	Yellow Style = "33"
)

// Apply wraps text so that a terminal renders it in the style, resetting all attributes afterwards.
func (s Style) Apply(text string) string {
	return fmt.Sprintf("\x1B[%sm%s\x1B[0m", string(s), text)
}
