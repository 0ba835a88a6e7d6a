package alias

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

type GroupID int

// List is a disjoint-set structure over labels. Each group carries an integer id;
// merging two groups allocates a fresh id for the union.
type List struct {
	nodes  map[string]GroupID
	groups map[GroupID]map[string]struct{}
	nextID GroupID
}

func NewList() *List {
	return &List{nodes: make(map[string]GroupID), groups: make(map[GroupID]map[string]struct{})}
}

// AddNode puts node into a group of its own. Known nodes are ignored.
func (l *List) AddNode(node string) {
	if _, known := l.nodes[node]; known {
		return
	}
	l.nodes[node] = l.addGroup(map[string]struct{}{node: {}})
}

func (l *List) addGroup(members map[string]struct{}) GroupID {
	id := l.nextID
	l.groups[id] = members
	l.nextID++
	return id
}

// AddAndMerge puts node into the group of to. Known nodes are ignored.
func (l *List) AddAndMerge(node string, to string) error {
	if _, known := l.nodes[node]; known {
		return nil
	}
	toID, known := l.nodes[to]
	if !known {
		return fmt.Errorf("cannot add %s to group of %s: %w", node, to, ErrUnknownLabel)
	}
	l.groups[toID][node] = struct{}{}
	l.nodes[node] = toID
	return nil
}

// MergeEdges unites the groups of both nodes under a newly allocated group id.
func (l *List) MergeEdges(node1 string, node2 string) error {
	id1, known1 := l.nodes[node1]
	id2, known2 := l.nodes[node2]
	if !known1 || !known2 {
		return fmt.Errorf("cannot merge %s and %s: %w", node1, node2, ErrUnknownLabel)
	}
	if id1 == id2 {
		return nil
	}

	union := make(map[string]struct{}, len(l.groups[id1])+len(l.groups[id2]))
	for member := range l.groups[id1] {
		union[member] = struct{}{}
	}
	for member := range l.groups[id2] {
		union[member] = struct{}{}
	}
	unionID := l.addGroup(union)
	for member := range union {
		l.nodes[member] = unionID
	}
	delete(l.groups, id1)
	delete(l.groups, id2)
	return nil
}

// Remove takes node out of its group, dropping the group once it is empty.
func (l *List) Remove(node string) {
	id, known := l.nodes[node]
	if !known {
		return
	}
	delete(l.groups[id], node)
	if len(l.groups[id]) == 0 {
		delete(l.groups, id)
	}
	delete(l.nodes, node)
}

// Aliases lists all members of the group of node (node included) in lexical order.
// Unknown nodes have no aliases.
func (l *List) Aliases(node string) []string {
	id, known := l.nodes[node]
	if !known {
		return nil
	}
	return sortedKeys(l.groups[id])
}

func (l *List) Group(node string) (id GroupID, found bool) {
	id, found = l.nodes[node]
	return
}

func (l *List) Contains(node string) bool {
	_, known := l.nodes[node]
	return known
}

// Nodes lists all known nodes in lexical order.
func (l *List) Nodes() []string {
	nodes := make([]string, 0, len(l.nodes))
	for node := range l.nodes {
		nodes = append(nodes, node)
	}
	sort.Strings(nodes)
	return nodes
}

// Groups returns the members of every group, ordered by group id.
func (l *List) Groups() [][]string {
	ids := make([]int, 0, len(l.groups))
	for id := range l.groups {
		ids = append(ids, int(id))
	}
	sort.Ints(ids)
	groups := make([][]string, 0, len(ids))
	for _, id := range ids {
		groups = append(groups, sortedKeys(l.groups[GroupID(id)]))
	}
	return groups
}

func (l *List) String() string {
	var groups []string
	for _, members := range l.Groups() {
		groups = append(groups, "{"+strings.Join(members, " ")+"}")
	}
	return "AliasList: " + strings.Join(groups, " ")
}

type serializedList struct {
	NextID GroupID              `json:"next_id"`
	Groups map[GroupID][]string `json:"groups"`
}

func (l *List) MarshalJSON() ([]byte, error) {
	serialized := serializedList{NextID: l.nextID, Groups: make(map[GroupID][]string, len(l.groups))}
	for id, members := range l.groups {
		serialized.Groups[id] = sortedKeys(members)
	}
	return json.Marshal(serialized)
}

// UnmarshalJSON rejects unknown fields as well as labels appearing in several groups.
func (l *List) UnmarshalJSON(data []byte) error {
	var serialized serializedList
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&serialized); err != nil {
		return err
	}
	restored := NewList()
	for id, members := range serialized.Groups {
		if id >= serialized.NextID {
			return fmt.Errorf("group id %d not below next id %d", id, serialized.NextID)
		}
		group := make(map[string]struct{}, len(members))
		for _, member := range members {
			if _, duplicate := restored.nodes[member]; duplicate {
				return fmt.Errorf("label %s belongs to more than one group", member)
			}
			group[member] = struct{}{}
			restored.nodes[member] = id
		}
		restored.groups[id] = group
	}
	restored.nextID = serialized.NextID
	*l = *restored
	return nil
}
