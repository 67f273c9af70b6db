// Package notes implements the notebook: titled notes with tags, their
// uniqueness rules and search.
package notes

import (
	"fmt"
	"slices"
	"strings"

	"github.com/entrhq/rolodex/pkg/types"
	"github.com/entrhq/rolodex/pkg/validate"
	"github.com/gobwas/glob"
)

// Notebook owns a list of notes and saves after every mutation.
// It is not safe for concurrent use.
type Notebook struct {
	notes []*Note
	seq   types.Sequence
	saver types.Saver
}

// Option configures a Notebook.
type Option func(*Notebook)

// WithSaver sets the autosave hook invoked after every mutation.
func WithSaver(s types.Saver) Option {
	return func(nb *Notebook) {
		nb.saver = s
	}
}

// NewNotebook creates an empty notebook.
func NewNotebook(opts ...Option) *Notebook {
	nb := &Notebook{}
	for _, opt := range opts {
		opt(nb)
	}
	return nb
}

// SetSaver replaces the autosave hook.
func (nb *Notebook) SetSaver(s types.Saver) {
	nb.saver = s
}

// Restore replaces the notebook's contents with stored notes and resumes the
// identity sequence above both seq and the highest stored id.
func (nb *Notebook) Restore(stored []*Note, seq int) error {
	seen := make(map[int]bool, len(stored))
	titles := make(map[string]bool, len(stored))
	maxID := -1
	for _, n := range stored {
		if n == nil || n.id < 0 || validate.Title(n.title) != nil {
			return fmt.Errorf("restore: malformed note record")
		}
		if seen[n.id] {
			return fmt.Errorf("restore: duplicate note id %d", n.id)
		}
		folded := validate.Fold(n.title)
		if titles[folded] {
			return fmt.Errorf("restore: duplicate note title %q", n.title)
		}
		seen[n.id] = true
		titles[folded] = true
		maxID = max(maxID, n.id)
	}
	nb.notes = slices.Clone(stored)
	nb.seq.Restore(seq, maxID)
	return nil
}

// Seq returns the identity the next added note will receive.
func (nb *Notebook) Seq() int {
	return nb.seq.Peek()
}

// Notes returns the notes in collection order.
func (nb *Notebook) Notes() []*Note {
	return slices.Clone(nb.notes)
}

// Len returns the number of notes.
func (nb *Notebook) Len() int {
	return len(nb.notes)
}

// Get retrieves a note by ID
func (nb *Notebook) Get(id int) (*Note, bool) {
	for _, n := range nb.notes {
		if n.id == id {
			return n, true
		}
	}
	return nil, false
}

// HasTitle reports whether a note with this title exists, ignoring case.
func (nb *Notebook) HasTitle(title string) bool {
	return nb.titleTaken(strings.TrimSpace(title), unassignedID)
}

func (nb *Notebook) titleTaken(title string, exceptID int) bool {
	for _, n := range nb.notes {
		if n.id != exceptID && validate.EqualFold(n.title, title) {
			return true
		}
	}
	return false
}

func (nb *Notebook) indexOf(n *Note) int {
	if n == nil {
		return -1
	}
	return slices.IndexFunc(nb.notes, func(other *Note) bool {
		return other.id == n.id
	})
}

func (nb *Notebook) member(n *Note) (*Note, error) {
	idx := nb.indexOf(n)
	if idx < 0 {
		return nil, notFound(n)
	}
	return nb.notes[idx], nil
}

func notFound(n *Note) error {
	id := unassignedID
	if n != nil {
		id = n.id
	}
	return &types.NotFoundError{Entity: types.FieldNote, ID: id}
}

func (nb *Notebook) save() error {
	if nb.saver == nil {
		return nil
	}
	return types.AsPersistenceError(nb.saver.Save())
}

// AddNote assigns the draft an identity and appends it.
func (nb *Notebook) AddNote(n *Note) error {
	if n == nil {
		return notFound(n)
	}
	// a zero Note has no title
	if err := validate.Title(n.title); err != nil {
		return err
	}
	if nb.titleTaken(n.title, unassignedID) {
		return &types.DuplicateError{Field: types.FieldTitle, Value: n.title}
	}
	n.id = nb.seq.Next()
	nb.notes = append(nb.notes, n)
	return nb.save()
}

// ChangeTitle renames a note, keeping titles unique.
func (nb *Notebook) ChangeTitle(n *Note, title string) error {
	target, err := nb.member(n)
	if err != nil {
		return err
	}
	title = strings.TrimSpace(title)
	if err := validate.Title(title); err != nil {
		return err
	}
	if nb.titleTaken(title, target.id) {
		return &types.DuplicateError{Field: types.FieldTitle, Value: title}
	}
	target.title = title
	return nb.save()
}

// ChangeContent replaces a note's text.
func (nb *Notebook) ChangeContent(n *Note, content string) error {
	target, err := nb.member(n)
	if err != nil {
		return err
	}
	target.content = content
	return nb.save()
}

// RemoveNote removes a member note by identity.
func (nb *Notebook) RemoveNote(n *Note) error {
	idx := nb.indexOf(n)
	if idx < 0 {
		return notFound(n)
	}
	nb.notes = slices.Delete(nb.notes, idx, idx+1)
	return nb.save()
}

// AddTag adds a tag to the note, keeping tags sorted.
func (nb *Notebook) AddTag(n *Note, tag string) error {
	target, err := nb.member(n)
	if err != nil {
		return err
	}
	if err := validate.Tag(tag); err != nil {
		return err
	}
	normalized := validate.NormalizeTag(tag)
	if target.HasTag(normalized) {
		return &types.DuplicateError{Field: types.FieldTag, Value: normalized}
	}
	target.tags = append(target.tags, normalized)
	slices.Sort(target.tags)
	return nb.save()
}

// RemoveTag removes a tag from the note.
func (nb *Notebook) RemoveTag(n *Note, tag string) error {
	target, err := nb.member(n)
	if err != nil {
		return err
	}
	normalized := validate.NormalizeTag(tag)
	idx := slices.Index(target.tags, normalized)
	if idx < 0 {
		return &types.TagNotFoundError{Tag: normalized, Title: target.title}
	}
	target.tags = slices.Delete(target.tags, idx, idx+1)
	return nb.save()
}

// FindNotes returns notes whose title or content contains term, ignoring case.
func (nb *Notebook) FindNotes(term string) []*Note {
	term = strings.TrimSpace(term)
	var result []*Note
	for _, n := range nb.notes {
		if n.ContainsText(term) {
			result = append(result, n)
		}
	}
	return result
}

// FindByTag returns notes with a tag containing term. A term with glob
// metacharacters (*, ?, [) is matched against whole tags instead.
func (nb *Notebook) FindByTag(term string) []*Note {
	match := tagMatcher(validate.NormalizeTag(term))
	var result []*Note
	for _, n := range nb.notes {
		if slices.ContainsFunc(n.tags, match) {
			result = append(result, n)
		}
	}
	return result
}

// Find returns the union of FindNotes and FindByTag in collection order.
func (nb *Notebook) Find(term string) []*Note {
	hits := make(map[int]bool)
	for _, n := range nb.FindNotes(term) {
		hits[n.id] = true
	}
	for _, n := range nb.FindByTag(term) {
		hits[n.id] = true
	}

	var result []*Note
	for _, n := range nb.notes {
		if hits[n.id] {
			result = append(result, n)
		}
	}
	return result
}

// Tags returns every tag in use across the notebook, sorted.
func (nb *Notebook) Tags() []string {
	var tags []string
	for _, n := range nb.notes {
		tags = append(tags, n.tags...)
	}
	slices.Sort(tags)
	return slices.Compact(tags)
}

func tagMatcher(term string) func(string) bool {
	if strings.ContainsAny(term, "*?[") {
		if g, err := glob.Compile(term); err == nil {
			return g.Match
		}
	}
	return func(tag string) bool {
		return strings.Contains(tag, term)
	}
}
