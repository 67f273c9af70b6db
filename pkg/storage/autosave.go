package storage

import (
	"github.com/entrhq/rolodex/pkg/contacts"
	"github.com/entrhq/rolodex/pkg/logging"
	"github.com/entrhq/rolodex/pkg/notes"
	"github.com/entrhq/rolodex/pkg/types"
)

// Load reads the store and rebuilds both collections. The returned
// collections are always usable: when the stored snapshot cannot be read or
// does not describe valid collections, both start empty and the error
// explains what was discarded.
func Load(store Store, log *logging.Logger, opts ...contacts.Option) (*contacts.AddressBook, *notes.Notebook, error) {
	if log == nil {
		log = logging.Nop()
	}

	snap, loadErr := store.Load()
	book, notebook, err := Apply(snap, opts...)
	if err != nil {
		log.Warnf("discarding invalid snapshot at %s: %v", store.Path(), err)
		book, notebook, _ = Apply(Empty(), opts...)
		return book, notebook, &types.PersistenceError{Op: "load", Path: store.Path(), Err: err}
	}
	return book, notebook, loadErr
}

// Autosaver writes a fresh snapshot of both collections to a store. It is
// installed as the save hook of the address book and the notebook.
type Autosaver struct {
	store    Store
	book     *contacts.AddressBook
	notebook *notes.Notebook
	log      *logging.Logger
}

// NewAutosaver binds store to both collections.
func NewAutosaver(store Store, book *contacts.AddressBook, notebook *notes.Notebook, log *logging.Logger) *Autosaver {
	if log == nil {
		log = logging.Nop()
	}
	a := &Autosaver{store: store, book: book, notebook: notebook, log: log}
	book.SetSaver(a)
	notebook.SetSaver(a)
	return a
}

// Save captures and stores the current state.
func (a *Autosaver) Save() error {
	snap := Capture(a.book, a.notebook)
	if err := a.store.Save(snap); err != nil {
		a.log.Errorf("autosave to %s failed: %v", a.store.Path(), err)
		if types.KindOf(err) == types.KindPersistence {
			return err
		}
		return &types.PersistenceError{Op: "save", Path: a.store.Path(), Err: err}
	}
	a.log.Debugf("saved %d contacts and %d notes", len(snap.Contacts), len(snap.Notes))
	return nil
}
