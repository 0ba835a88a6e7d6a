package opener

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	calls [][]string
	err   error
}

func (r *recorder) run(argv []string) error {
	r.calls = append(r.calls, argv)
	return r.err
}

func TestOpenUsesFirstTokenOnly(t *testing.T) {
	r := &recorder{}
	o := New("xdg-open", "imgcat", r.run, zerolog.Nop())

	require.NoError(t, o.Open("  https://example.com; rm -rf ~ "))
	assert.Equal(t, [][]string{{"xdg-open", "https://example.com;"}}, r.calls)
}

func TestCommandWithArguments(t *testing.T) {
	r := &recorder{}
	o := New("open -a Safari", "kitty +kitten icat", r.run, zerolog.Nop())

	require.NoError(t, o.Open("https://example.com"))
	require.NoError(t, o.ShowImage("/EPFL/BA3/schedule.png"))
	assert.Equal(t, [][]string{
		{"open", "-a", "Safari", "https://example.com"},
		{"kitty", "+kitten", "icat", "/EPFL/BA3/schedule.png"},
	}, r.calls)
}

func TestNothingToOpen(t *testing.T) {
	r := &recorder{}
	o := New("open", "", r.run, zerolog.Nop())

	assert.ErrorIs(t, o.Open("   "), ErrNothingToOpen)
	assert.ErrorIs(t, o.ShowImage("/some.png"), ErrNoCommand)
	assert.Empty(t, r.calls)
}

func TestRunnerFailure(t *testing.T) {
	failure := errors.New("exit status 3")
	r := &recorder{err: failure}
	o := New("open", "", r.run, zerolog.Nop())

	assert.ErrorIs(t, o.Open("https://example.com"), failure)
}

func TestImagePathWithSpaces(t *testing.T) {
	r := &recorder{}
	o := New("open", "imgcat", r.run, zerolog.Nop())

	require.NoError(t, o.ShowImage("/EPFL/Exchange Year/schedule.png"))
	assert.Equal(t, [][]string{{"imgcat", "/EPFL/Exchange Year/schedule.png"}}, r.calls)
	assert.ErrorIs(t, o.ShowImage(" "), ErrNothingToOpen)
}
