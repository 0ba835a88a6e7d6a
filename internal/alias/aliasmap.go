// Package alias groups labels that mean the same thing, e.g. several spellings of one course name.
package alias

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var ErrRootAlias = errors.New("deleting an alias that is a root is not supported")
var ErrUnknownLabel = errors.New("unknown label")

// Map keeps alias groups, each with exactly one designated root label.
// Every label belongs to at most one group.
type Map struct {
	roots   map[string]map[string]struct{} //root -> its aliases (root excluded)
	aliases map[string]string              //label -> root, roots map to themselves
}

func NewMap() *Map {
	return &Map{roots: make(map[string]map[string]struct{}), aliases: make(map[string]string)}
}

// AddRoot creates a new empty group. It is a no-op if root is already a root.
func (m *Map) AddRoot(root string) {
	if _, exists := m.roots[root]; exists {
		return
	}
	m.roots[root] = make(map[string]struct{})
	m.aliases[root] = root
}

// AddAlias attaches alias to the group of of. Known labels are left untouched.
func (m *Map) AddAlias(alias string, of string) error {
	if _, known := m.aliases[alias]; known {
		return nil
	}
	root, known := m.aliases[of]
	if !known {
		return fmt.Errorf("cannot alias %s to %s: %w", alias, of, ErrUnknownLabel)
	}
	m.aliases[alias] = root
	m.roots[root][alias] = struct{}{}
	return nil
}

// DelRoot removes the root and all of its aliases. Unknown roots are ignored.
func (m *Map) DelRoot(root string) {
	aliases, exists := m.roots[root]
	if !exists {
		return
	}
	for alias := range aliases {
		delete(m.aliases, alias)
	}
	delete(m.aliases, root)
	delete(m.roots, root)
}

// DelAlias removes a non-root label from its group. Unknown labels are ignored.
func (m *Map) DelAlias(alias string) error {
	root, known := m.aliases[alias]
	if !known {
		return nil
	}
	if root == alias {
		return fmt.Errorf("%s: %w", alias, ErrRootAlias)
	}
	delete(m.roots[root], alias)
	delete(m.aliases, alias)
	return nil
}

func (m *Map) GetRoot(alias string) (root string, found bool) {
	root, found = m.aliases[alias]
	return
}

// AreAliases reports whether both labels are known and share a root.
func (m *Map) AreAliases(a string, b string) bool {
	rootA, knownA := m.aliases[a]
	rootB, knownB := m.aliases[b]
	return knownA && knownB && rootA == rootB
}

func (m *Map) IsRoot(label string) bool {
	_, isRoot := m.roots[label]
	return isRoot
}

// Aliases lists the aliases of root in lexical order, root excluded.
func (m *Map) Aliases(root string) []string {
	return sortedKeys(m.roots[root])
}

// Roots lists all roots in lexical order.
func (m *Map) Roots() []string {
	roots := make([]string, 0, len(m.roots))
	for root := range m.roots {
		roots = append(roots, root)
	}
	sort.Strings(roots)
	return roots
}

func (m *Map) String() string {
	var groups []string
	for _, root := range m.Roots() {
		groups = append(groups, fmt.Sprintf("%s: [%s]", root, strings.Join(m.Aliases(root), " ")))
	}
	return "AliasMap{" + strings.Join(groups, ", ") + "}"
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
