package output

import (
	"path/filepath"

	"github.com/disiqueira/gotree/v3"
)

// VisualTree renders slash separated paths as a tree, e.g. semester/course.
type VisualTree struct {
	tree     gotree.Tree
	branches map[string]gotree.Tree
}

func NewVisualTree(rootLabel string) VisualTree {
	return VisualTree{tree: gotree.New(rootLabel), branches: make(map[string]gotree.Tree)}
}

func (t VisualTree) getBranch(dirPath string, label string) (branch gotree.Tree) {
	if dirPath == "." || dirPath == "" {
		return t.tree
	}
	branch = t.branches[dirPath]
	if branch == nil {
		parent := t.getBranch(filepath.Dir(dirPath), filepath.Base(filepath.Dir(dirPath)))
		if label == "" {
			label = filepath.Base(dirPath)
		}
		branch = parent.Add(label)
		t.branches[dirPath] = branch
	}
	return
}

// InsertBranch adds a directory shown with a custom label. The label is ignored if the branch exists already.
func (t VisualTree) InsertBranch(dirPath string, label string) {
	t.getBranch(filepath.Clean(dirPath), label)
}

// InsertPath adds a leaf below its (possibly new) parent branch.
func (t VisualTree) InsertPath(leafPath string, nodePrefix string) {
	leafPath = filepath.Clean(leafPath)
	dir := t.getBranch(filepath.Dir(leafPath), "")
	dir.Add(nodePrefix + filepath.Base(leafPath))
}

func (t VisualTree) Render() string {
	return t.tree.Print()
}
