package notes

import (
	"slices"
	"strings"

	"github.com/entrhq/rolodex/pkg/types"
	"github.com/entrhq/rolodex/pkg/validate"
)

// unassignedID marks a draft that has not been added to a notebook yet.
const unassignedID = -1

// Note is a titled free-form text with tags.
type Note struct {
	id      int
	title   string
	content string
	tags    []string // lower-case, sorted, unique
}

// NewNote creates a validated draft. Tags are normalized to lower case and
// sorted; repeating a tag is an error.
func NewNote(title, content string, tags []string) (*Note, error) {
	title = strings.TrimSpace(title)
	if err := validate.Title(title); err != nil {
		return nil, err
	}

	n := &Note{
		id:      unassignedID,
		title:   title,
		content: content,
	}

	for _, tag := range tags {
		if err := validate.Tag(tag); err != nil {
			return nil, err
		}
		normalized := validate.NormalizeTag(tag)
		if n.HasTag(normalized) {
			return nil, &types.DuplicateError{Field: types.FieldTag, Value: normalized}
		}
		n.tags = append(n.tags, normalized)
	}
	slices.Sort(n.tags)

	return n, nil
}

// ID returns the note's identity, or -1 for an unsaved draft.
func (n *Note) ID() int { return n.id }

// Title returns the note's title.
func (n *Note) Title() string { return n.title }

// Content returns the note's text.
func (n *Note) Content() string { return n.content }

// Tags returns a copy of the note's sorted tags.
func (n *Note) Tags() []string { return slices.Clone(n.tags) }

// HasTag checks if the note has a specific tag (case-insensitive)
func (n *Note) HasTag(tag string) bool {
	return slices.Contains(n.tags, validate.NormalizeTag(tag))
}

// ContainsText checks if the title or content contains the query (case-insensitive)
func (n *Note) ContainsText(query string) bool {
	if query == "" {
		return true
	}
	return validate.ContainsFold(n.title, query) || validate.ContainsFold(n.content, query)
}

// Rehydrate rebuilds a stored note with its persisted identity. The record
// goes through the same checks as NewNote.
func Rehydrate(id int, title, content string, tags []string) (*Note, error) {
	n, err := NewNote(title, content, tags)
	if err != nil {
		return nil, err
	}
	n.id = id
	return n, nil
}
