package coursedesk

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/n2code/coursedesk/internal/config"
	"github.com/n2code/coursedesk/internal/console"
	"github.com/n2code/coursedesk/internal/courses"
	"github.com/n2code/coursedesk/internal/fsnode"
	"github.com/n2code/coursedesk/internal/knowledge"
	"github.com/n2code/coursedesk/internal/opener"
)

// Components holds the services all commands work with. They are created once per process by Assemble
// and handed to every consumer explicitly.
type Components struct {
	Fs        afero.Fs
	Config    *config.Config
	Console   *console.Console
	Courses   *courses.Handler
	Knowledge *knowledge.Base
	Opener    *opener.Opener
	Log       zerolog.Logger
}

// Assemble creates the remaining components from the configuration.
func Assemble(fs afero.Fs, cfg *config.Config, con *console.Console, run opener.Runner, log zerolog.Logger) (*Components, error) {
	kb, err := knowledge.Open(fs, cfg.KnowledgeFile(), log.With().Str("component", "knowledge").Logger())
	if err != nil {
		return nil, fmt.Errorf("knowledge base load error: %w", err)
	}
	handler, err := courses.NewHandler(fsnode.NewFilesystem(fs, log), cfg, kb, log.With().Str("component", "courses").Logger())
	if err != nil {
		return nil, err
	}
	return &Components{
		Fs:        fs,
		Config:    cfg,
		Console:   con,
		Courses:   handler,
		Knowledge: kb,
		Opener:    opener.New(cfg.OpenCommand(), cfg.ImageCommand(), run, log),
		Log:       log,
	}, nil
}

// New creates a desk. Paths are displayed relative to workingDir where that is shorter.
func New(components *Components, workingDir string) Desk {
	return &desk{Components: components, wd: workingDir}
}

type desk struct {
	*Components
	wd string //absolute
}
