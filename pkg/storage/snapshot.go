// Package storage persists the address book and notebook as a single
// versioned snapshot, either as a JSON file or inside a SQLite database.
package storage

import (
	"fmt"
	"time"

	"github.com/entrhq/rolodex/pkg/contacts"
	"github.com/entrhq/rolodex/pkg/notes"
)

// SnapshotVersion is the only snapshot format this build reads and writes.
const SnapshotVersion = 1

const birthdayLayout = "2006-01-02"

// Snapshot is the persisted state of both collections.
type Snapshot struct {
	Version    int             `json:"version"`
	Contacts   []ContactRecord `json:"contacts"`
	Notes      []NoteRecord    `json:"notes"`
	ContactSeq int             `json:"contact_seq"`
	NoteSeq    int             `json:"note_seq"`
}

// ContactRecord is the stored form of a contact.
type ContactRecord struct {
	ID       int      `json:"id"`
	Name     string   `json:"name"`
	Phones   []string `json:"phones,omitempty"`
	Emails   []string `json:"emails,omitempty"`
	Birthday string   `json:"birthday,omitempty"` // YYYY-MM-DD
}

// NoteRecord is the stored form of a note.
type NoteRecord struct {
	ID      int      `json:"id"`
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Tags    []string `json:"tags,omitempty"`
}

// Empty returns a snapshot of two empty collections with counters at zero.
func Empty() *Snapshot {
	return &Snapshot{Version: SnapshotVersion}
}

// Capture records the current state of both collections.
func Capture(book *contacts.AddressBook, notebook *notes.Notebook) *Snapshot {
	s := Empty()
	s.ContactSeq = book.Seq()
	s.NoteSeq = notebook.Seq()

	for _, c := range book.Contacts() {
		rec := ContactRecord{
			ID:     c.ID(),
			Name:   c.Name(),
			Phones: c.Phones(),
			Emails: c.Emails(),
		}
		if bday, ok := c.Birthday(); ok {
			rec.Birthday = bday.Format(birthdayLayout)
		}
		s.Contacts = append(s.Contacts, rec)
	}

	for _, n := range notebook.Notes() {
		s.Notes = append(s.Notes, NoteRecord{
			ID:      n.ID(),
			Title:   n.Title(),
			Content: n.Content(),
			Tags:    n.Tags(),
		})
	}
	return s
}

// Apply rebuilds both collections from a snapshot. Options are passed to the
// new address book.
func Apply(s *Snapshot, opts ...contacts.Option) (*contacts.AddressBook, *notes.Notebook, error) {
	if s == nil {
		s = Empty()
	}
	if s.Version != SnapshotVersion {
		return nil, nil, fmt.Errorf("unsupported snapshot version %d", s.Version)
	}

	stored := make([]*contacts.Contact, 0, len(s.Contacts))
	for _, rec := range s.Contacts {
		var birthday *time.Time
		if rec.Birthday != "" {
			t, err := time.Parse(birthdayLayout, rec.Birthday)
			if err != nil {
				return nil, nil, fmt.Errorf("contact %d: invalid birthday %q", rec.ID, rec.Birthday)
			}
			birthday = &t
		}
		c, err := contacts.Rehydrate(rec.ID, rec.Name, rec.Phones, rec.Emails, birthday)
		if err != nil {
			return nil, nil, fmt.Errorf("contact %d: %w", rec.ID, err)
		}
		stored = append(stored, c)
	}

	book := contacts.NewAddressBook(opts...)
	if err := book.Restore(stored, s.ContactSeq); err != nil {
		return nil, nil, err
	}

	storedNotes := make([]*notes.Note, 0, len(s.Notes))
	for _, rec := range s.Notes {
		n, err := notes.Rehydrate(rec.ID, rec.Title, rec.Content, rec.Tags)
		if err != nil {
			return nil, nil, fmt.Errorf("note %d: %w", rec.ID, err)
		}
		storedNotes = append(storedNotes, n)
	}

	notebook := notes.NewNotebook()
	if err := notebook.Restore(storedNotes, s.NoteSeq); err != nil {
		return nil, nil, err
	}
	return book, notebook, nil
}
