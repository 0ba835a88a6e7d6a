package coursedesk

import (
	"path/filepath"
	"strings"
)

const mainDirScheme = "desk:" + string(filepath.Separator) + string(filepath.Separator)

func (d *desk) displayPath(absolutePath string) string {
	pleasant := pleasantPath(filepath.Clean(absolutePath), d.Courses.MainDir().FullPath(), d.wd)
	if strings.HasPrefix(pleasant, mainDirScheme) {
		pleasant = strings.Replace(pleasant, mainDirScheme, d.Console.Dim(mainDirScheme), 1)
	}
	return pleasant
}

const dot string = "."
const dirSeparator = string(filepath.Separator)
const dotDirSeparator = dot + dirSeparator
const doubleDot = dot + dot
const doubleDotDirSeparator = doubleDot + dirSeparator

func isChildOf(child string, parent string) bool {
	rel, err := filepath.Rel(parent, child)
	if err != nil { //mixed relative and absolute paths
		return false
	}
	return !(rel == dot || rel == doubleDot || strings.HasPrefix(rel, doubleDotDirSeparator))
}

// pleasantPath turns an absolute path into something easily understandable from the current context.
// If the working directory is inside the main directory a relative path is emitted, with leading "./" to stress relativity.
// If the current location is outside the main directory an anchored path is printed and the main directory is abbreviated.
// Paths outside the main directory are reflected unchanged.
func pleasantPath(absolute string, root string, wd string) string {
	if absolute == root {
		return mainDirScheme
	}
	if !isChildOf(absolute, root) {
		return absolute
	}
	if wdOutsideRoot := !isChildOf(wd, root) && wd != root; wdOutsideRoot {
		anchored, _ := filepath.Rel(root, absolute) //error impossible because both are rooted
		return mainDirScheme + anchored
	}

	relative, _ := filepath.Rel(wd, absolute) //error impossible because both are rooted
	if strings.HasPrefix(relative, doubleDotDirSeparator) || relative == doubleDot {
		return relative
	}
	return dotDirSeparator + relative
}
