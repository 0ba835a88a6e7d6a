package fsnode

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

const hiddenMarker = "."

const (
	dirsCacheKey        = "dirs"
	hiddenDirsCacheKey  = "dirs+hidden"
	filesCacheKey       = "files"
	hiddenFilesCacheKey = "files+hidden"
)

// Memoize returns the value cached on n under key, computing and storing it on first access.
// Failed computations are not cached.
func Memoize[T any](n *Node, key string, compute func() (T, error)) (T, error) {
	if cached, found := n.cache[key]; found {
		return cached.(T), nil
	}
	value, err := compute()
	if err != nil {
		var zero T
		return zero, err
	}
	n.cache[key] = value
	return value, nil
}

// Forget drops a single cached listing.
func (n *Node) Forget(key string) {
	delete(n.cache, key)
}

// ClearCache drops all listings memoized on n. Child nodes keep their own caches.
func (n *Node) ClearCache() {
	n.cache = make(map[string]interface{})
}

// Subdirectories lists the immediate child directories as generic directory nodes.
func (n *Node) Subdirectories(includeHidden bool) ([]*Node, error) {
	key := dirsCacheKey
	if includeHidden {
		key = hiddenDirsCacheKey
	}
	return Memoize(n, key, func() ([]*Node, error) {
		return n.listChildren(Directory, includeHidden, func(info os.FileInfo) bool { return info.IsDir() })
	})
}

// Files lists the immediate child regular files.
func (n *Node) Files(includeHidden bool) ([]*Node, error) {
	key := filesCacheKey
	if includeHidden {
		key = hiddenFilesCacheKey
	}
	return Memoize(n, key, func() ([]*Node, error) {
		return n.listChildren(File, includeHidden, func(info os.FileInfo) bool { return info.Mode().IsRegular() })
	})
}

func (n *Node) listChildren(kind Kind, includeHidden bool, accept func(os.FileInfo) bool) ([]*Node, error) {
	if !n.kind.IsDirectory() {
		return nil, fmt.Errorf("listing %s: %w", n.FullPath(), ErrFileParent)
	}
	path := n.FullPath()
	entries, err := afero.ReadDir(n.fs.fs, path)
	if err != nil {
		return nil, fmt.Errorf("listing %s failed: %w", path, err)
	}
	children := make([]*Node, 0, len(entries))
	for _, entry := range entries {
		if !includeHidden && strings.HasPrefix(entry.Name(), hiddenMarker) {
			continue
		}
		if !accept(entry) {
			continue
		}
		child, _ := n.Child(entry.Name(), kind) //n is a directory, checked above
		children = append(children, child)
	}
	n.fs.log.Debug().Str("path", path).Str("kind", kind.String()).Int("count", len(children)).Msg("listed children")
	return children, nil
}

// GetFile looks up a child file by name, hidden files included.
func (n *Node) GetFile(name string) (file *Node, found bool, err error) {
	files, err := n.Files(true)
	if err != nil {
		return nil, false, err
	}
	for _, f := range files {
		if f.name == name {
			return f, true, nil
		}
	}
	return nil, false, nil
}

// ReadFile returns the content of a child file. A missing file yields found=false and no error
// unless failIfMissing is set, in which case an error wrapping ErrFileNotFound is returned.
func (n *Node) ReadFile(name string, failIfMissing bool) (content string, found bool, err error) {
	file, found, err := n.GetFile(name)
	if err != nil {
		return "", false, err
	}
	if !found {
		if failIfMissing {
			return "", false, fmt.Errorf("file %s was not found in directory %s: %w", name, n.FullPath(), ErrFileNotFound)
		}
		return "", false, nil
	}
	content, err = file.Read()
	if err != nil {
		return "", false, err
	}
	return content, true, nil
}

// Confirmer asks the user a yes/no question.
type Confirmer interface {
	Confirm(question string, defaultAnswer bool) (bool, error)
}

// EnsureDirectoryExists creates the directory at path if nothing occupies it yet.
// It reports whether a directory exists at path afterwards: an existing directory counts as success,
// an existing non-directory as failure. If confirm is non-nil the user is asked before creation.
func (f *Filesystem) EnsureDirectoryExists(path string, confirm Confirmer) (bool, error) {
	info, err := f.fs.Stat(path)
	if err == nil {
		f.log.Info().Str("path", path).Bool("directory", info.IsDir()).Msg("path exists already")
		return info.IsDir(), nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return false, err
	}

	if confirm != nil {
		accepted, err := confirm.Confirm(fmt.Sprintf("Create directory %s", path), true)
		if err != nil {
			return false, err
		}
		if !accepted {
			f.log.Warn().Str("path", path).Msg("directory was not created")
			return false, nil
		}
	}

	f.log.Info().Str("path", path).Msg("creating directory")
	if err := f.fs.Mkdir(path, 0o755); err != nil {
		return false, fmt.Errorf("creating directory %s failed: %w", path, err)
	}
	return true, nil
}

// EnsureDirectoriesExist works like EnsureDirectoryExists but also takes care of a missing parent.
// The parent is only created if createParent is set, after confirmation by confirmParent (if non-nil).
func (f *Filesystem) EnsureDirectoriesExist(path string, confirmDir Confirmer, confirmParent Confirmer, createParent bool) (bool, error) {
	if info, err := f.fs.Stat(path); err == nil && info.IsDir() {
		return true, nil
	}

	parent := filepath.Dir(filepath.Clean(path))
	if _, err := f.fs.Stat(parent); errors.Is(err, os.ErrNotExist) {
		if !createParent {
			f.log.Warn().Str("parent", parent).Str("path", path).Msg("parent directory does not exist")
			return false, nil
		}
		if confirmParent != nil {
			accepted, err := confirmParent.Confirm(fmt.Sprintf("Create parent directory %s", parent), true)
			if err != nil {
				return false, err
			}
			if !accepted {
				f.log.Warn().Str("parent", parent).Str("path", path).Msg("parent directory was not created")
				return false, nil
			}
		}
		if err := f.fs.MkdirAll(parent, 0o755); err != nil {
			return false, fmt.Errorf("creating parent directory %s failed: %w", parent, err)
		}
	} else if err != nil {
		return false, err
	}

	return f.EnsureDirectoryExists(path, confirmDir)
}
