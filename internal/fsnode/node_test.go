package fsnode

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFilesystem() *Filesystem {
	return NewFilesystem(afero.NewMemMapFs(), zerolog.Nop())
}

func TestFullPath(t *testing.T) {
	fsys := newTestFilesystem()

	t.Run("ParentIsRootLabel", func(t *testing.T) {
		for _, name := range []string{"test", "spam", "egg"} {
			assert.Equal(t, filepath.Join("/", name), fsys.Anchor("/", name, Directory).FullPath())
		}
	})

	t.Run("ParentIsNode", func(t *testing.T) {
		root := fsys.Anchor("/", ".", Directory)
		for _, name := range []string{"test", "spam", "egg"} {
			child, err := root.Child(name, Directory)
			require.NoError(t, err)
			assert.Equal(t, filepath.Join("/", name), child.FullPath())
		}
	})

	t.Run("MultiLevelHierarchy", func(t *testing.T) {
		node := fsys.Anchor("/", ".", Directory)
		for _, name := range []string{"test", "spam", "egg"} {
			var err error
			node, err = node.Child(name, Directory)
			require.NoError(t, err)
		}
		assert.Equal(t, filepath.Join("/", "test", "spam", "egg"), node.FullPath())
	})
}

func TestFileCannotBeParent(t *testing.T) {
	fsys := newTestFilesystem()
	file := fsys.Anchor("/", "notes.txt", File)

	child, err := file.Child("impossible", Directory)
	assert.ErrorIs(t, err, ErrFileParent)
	assert.Nil(t, child)

	_, err = file.Subdirectories(false)
	assert.ErrorIs(t, err, ErrFileParent)
}

func TestEqualityIsByPath(t *testing.T) {
	fsys := newTestFilesystem()
	viaRootLabel := fsys.Anchor("/studies", "BA3", Directory)
	studies := fsys.Anchor("/", "studies", Directory)
	viaParent, err := studies.Child("BA3", Semester)
	require.NoError(t, err)
	viaOpen := fsys.Open("/studies/./BA3/", Course)

	assert.True(t, viaRootLabel.Equal(viaParent))
	assert.True(t, viaParent.Equal(viaOpen))
	assert.Equal(t, viaRootLabel.Key(), viaOpen.Key())
	assert.False(t, viaRootLabel.Equal(fsys.Anchor("/studies", "BA4", Directory)))

	set := map[string]*Node{viaRootLabel.Key(): viaRootLabel}
	_, found := set[viaParent.Key()]
	assert.True(t, found)
}

func TestAsKeepsLocation(t *testing.T) {
	fsys := newTestFilesystem()
	dir := fsys.Anchor("/studies", "MA1", Directory)
	semester := dir.As(Semester)

	assert.Equal(t, Semester, semester.Kind())
	assert.Equal(t, "MA1", semester.Name())
	assert.True(t, dir.Equal(semester))
}

func TestSplitParent(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		wantParent string
		wantName   string
	}{
		{name: "Root", path: "/", wantParent: "/", wantName: ""},
		{name: "Empty", path: "", wantParent: "", wantName: ""},
		{name: "File", path: "/test/fileA", wantParent: "/test", wantName: "fileA"},
		{name: "TrailingSeparator", path: "/test/dirtest/", wantParent: "/test", wantName: "dirtest"},
		{name: "Relative", path: "test/dirtest", wantParent: "test", wantName: "dirtest"},
		{name: "BareName", path: "dirtest", wantParent: "", wantName: "dirtest"},
		{name: "TopLevel", path: "/dirtest", wantParent: "/", wantName: "dirtest"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parent, name := SplitParent(filepath.FromSlash(tt.path))
			assert.Equal(t, filepath.FromSlash(tt.wantParent), parent)
			assert.Equal(t, tt.wantName, name)
		})
	}
}

func TestExistence(t *testing.T) {
	fsys := newTestFilesystem()
	dir := fsys.Anchor("/", "test", Directory)
	assert.False(t, dir.Exists())
	assert.False(t, dir.IsDir())

	require.NoError(t, fsys.Fs().Mkdir("/test", 0o755))
	assert.True(t, dir.Exists())
	assert.True(t, dir.IsDir())
	assert.False(t, dir.IsFile())

	require.NoError(t, afero.WriteFile(fsys.Fs(), "/test/file", []byte("x"), 0o644))
	file, err := dir.Child("file", File)
	require.NoError(t, err)
	assert.True(t, file.IsFile())
}
