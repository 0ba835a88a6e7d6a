// Package knowledge remembers which names refer to the same course.
package knowledge

import (
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/n2code/coursedesk/internal/alias"
)

type Base struct {
	aliases *alias.List
	fs      afero.Fs
	path    string
	dirty   bool //unsaved changes exist
	log     zerolog.Logger
}

// Open loads the knowledge base stored at path. A missing file yields an empty base.
// An unreadable file is reported in the log and replaced by an empty base on the next save,
// a leftover work-in-progress file however requires manual intervention.
func Open(fs afero.Fs, path string, log zerolog.Logger) (*Base, error) {
	kb := &Base{aliases: alias.NewList(), fs: fs, path: path, log: log}
	if _, err := fs.Stat(path + workInProgressFileSuffix); !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("old %s-file exists next to %s, manual intervention necessary", workInProgressFileSuffix, path)
	}
	exists, err := afero.Exists(fs, path)
	if err != nil {
		return nil, err
	}
	if !exists {
		return kb, nil
	}
	log.Info().Str("path", path).Msg("knowledge base detected, will try to load")
	loaded, err := load(fs, path)
	if err != nil {
		log.Error().Err(err).Str("path", path).Msg("failed to load saved knowledge base, will create a new one")
		return kb, nil
	}
	kb.aliases = loaded
	log.Info().Int("entries", len(loaded.Nodes())).Msg("knowledge base loaded")
	return kb, nil
}

func (kb *Base) Path() string {
	return kb.path
}

func (kb *Base) Dirty() bool {
	return kb.dirty
}

// AddEntry makes a name known without any alias.
func (kb *Base) AddEntry(name string) {
	if kb.aliases.Contains(name) {
		return
	}
	kb.aliases.AddNode(name)
	kb.dirty = true
}

// AddAlias declares alias to be another name of of. Unknown targets are added first.
func (kb *Base) AddAlias(aliasName string, of string) error {
	kb.AddEntry(of)
	if kb.aliases.Contains(aliasName) {
		return kb.Merge(aliasName, of)
	}
	if err := kb.aliases.AddAndMerge(aliasName, of); err != nil {
		return err
	}
	kb.dirty = true
	return nil
}

// Merge unites the alias groups of two known names.
func (kb *Base) Merge(name1 string, name2 string) error {
	before, _ := kb.aliases.Group(name1)
	if err := kb.aliases.MergeEdges(name1, name2); err != nil {
		return err
	}
	if after, _ := kb.aliases.Group(name1); after != before {
		kb.dirty = true
	}
	return nil
}

// Forget removes a single name, its former aliases stay related to each other.
func (kb *Base) Forget(name string) bool {
	if !kb.aliases.Contains(name) {
		return false
	}
	kb.aliases.Remove(name)
	kb.dirty = true
	return true
}

// Aliases lists all names equivalent to name, itself included. Unknown names have none.
func (kb *Base) Aliases(name string) []string {
	return kb.aliases.Aliases(name)
}

// Resolve finds the candidate that is an alias of label, e.g. the course directory a nickname stands for.
func (kb *Base) Resolve(label string, candidates []string) (string, bool) {
	group, known := kb.aliases.Group(label)
	if !known {
		return "", false
	}
	for _, candidate := range candidates {
		if id, known := kb.aliases.Group(candidate); known && id == group {
			return candidate, true
		}
	}
	return "", false
}

// Groups lists all alias groups.
func (kb *Base) Groups() [][]string {
	return kb.aliases.Groups()
}

func (kb *Base) Save() error {
	if err := save(kb.fs, kb.path, kb.aliases); err != nil {
		return err
	}
	kb.dirty = false
	kb.log.Info().Str("path", kb.path).Msg("knowledge base saved")
	return nil
}

// Close saves pending changes.
func (kb *Base) Close() error {
	if !kb.dirty {
		return nil
	}
	kb.log.Debug().Msg("saving knowledge base on close")
	return kb.Save()
}
