package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/n2code/coursedesk"
	"github.com/n2code/coursedesk/internal/config"
	"github.com/n2code/coursedesk/internal/console"
	"github.com/n2code/coursedesk/internal/opener"
	"github.com/n2code/coursedesk/internal/output"
)

// app carries everything a CLI invocation depends on. The desk is assembled lazily by the first
// command that needs it so that help and usage errors work without a valid configuration.
type app struct {
	fs      afero.Fs
	env     config.Environment
	wd      string
	in      io.Reader
	out     io.Writer
	errOut  io.Writer
	escapes bool
	run     opener.Runner

	verbose    bool
	quiet      bool
	configFile string

	console *console.Console
	desk    coursedesk.Desk
	logFile io.Closer
}

// usageError marks invocations that are wrong regardless of configuration and filesystem state.
type usageError struct {
	error
}

func (e usageError) Unwrap() error {
	return e.error
}

func (a *app) setup() error {
	if a.desk != nil {
		return nil
	}
	if a.verbose && a.quiet {
		return usageError{errors.New("quiet mode and verbose mode are mutually exclusive")}
	}
	cfg, err := config.Load(a.fs, a.configFile, a.env)
	if err != nil {
		return err
	}
	log, err := a.logger(cfg)
	if err != nil {
		return err
	}

	printer := output.NewPrinter(output.ClassesFor(a.quiet, a.verbose), a.out, a.errOut, a.escapes)
	a.console = console.New(a.in, printer, log.With().Str("component", "console").Logger())
	components, err := coursedesk.Assemble(a.fs, cfg, a.console, a.run, log)
	if err != nil {
		return err
	}
	log.Debug().Str("config", cfg.FileUsed()).Str("main_dir", cfg.MainDir()).Msg("desk assembled")
	a.desk = coursedesk.New(components, a.wd)
	return nil
}

// logger writes human readable warnings to the error output unless a log file is configured,
// which receives JSON lines instead. A configured level takes precedence over the verbose flag.
func (a *app) logger(cfg *config.Config) (zerolog.Logger, error) {
	level := zerolog.WarnLevel
	if a.verbose {
		level = zerolog.DebugLevel
	}
	if configured := cfg.LogLevel(); configured != "" {
		parsed, err := zerolog.ParseLevel(configured)
		if err != nil {
			return zerolog.Nop(), fmt.Errorf("invalid log level %q: %w", configured, err)
		}
		level = parsed
	}

	var writer io.Writer = zerolog.ConsoleWriter{Out: a.errOut, NoColor: !a.escapes}
	if path := cfg.LogFile(); path != "" {
		file, err := a.fs.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return zerolog.Nop(), fmt.Errorf("opening log file failed: %w", err)
		}
		a.logFile = file
		writer = file
	}
	return zerolog.New(writer).Level(level).With().Timestamp().Logger(), nil
}

// execute runs one invocation and returns the process exit code:
// 0 on success, 1 if the command failed and 2 for usage errors.
func (a *app) execute(args []string) (exitCode int) {
	root := newRootCommand(a)
	root.SetArgs(args)
	root.SetIn(a.in)
	root.SetOut(a.out)
	root.SetErr(a.errOut)

	err := root.Execute()
	if a.desk != nil {
		if closeErr := a.desk.Close(); err == nil {
			err = closeErr
		}
	}
	if a.logFile != nil {
		a.logFile.Close()
	}

	if err == nil {
		return 0
	}
	var usage usageError
	if errors.As(err, &usage) {
		fmt.Fprintf(a.errOut, "%s\nUsage help: coursedesk --help\n", err)
		return 2
	}
	if a.console != nil {
		a.console.Error("%s", err)
	} else {
		fmt.Fprintln(a.errOut, err)
	}
	return 1
}
