package group

import (
	"sort"

	"github.com/go-errors/errors"
)

// Table owns the groups of a proof session.
type Table struct {
	groups map[ID]Group
}

func NewTable() *Table {
	return &Table{groups: map[ID]Group{}}
}

// Add registers g under id. Ids are unique within a table.
func (t *Table) Add(id ID, g Group) error {
	if id == "" {
		return errors.New("empty group id")
	}
	if _, ok := t.groups[id]; ok {
		return errors.Errorf("group %s already exists", id)
	}
	t.groups[id] = g
	return nil
}

func (t *Table) Get(id ID) (Group, bool) {
	g, ok := t.groups[id]
	return g, ok
}

// IDs returns the ids of all groups in sorted order.
func (t *Table) IDs() []ID {
	ids := make([]ID, 0, len(t.groups))
	for id := range t.groups {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Public returns a table holding the public view of every group.
func (t *Table) Public() *Table {
	pub := NewTable()
	for id, g := range t.groups {
		pub.groups[id] = g.Public()
	}
	return pub
}
