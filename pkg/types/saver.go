package types

// Saver persists the current state after a successful mutation.
type Saver interface {
	Save() error
}

// SaverFunc adapts an ordinary function to the Saver interface.
type SaverFunc func() error

// Save calls f.
func (f SaverFunc) Save() error {
	return f()
}

// AsPersistenceError wraps err as a save failure unless it already is one.
func AsPersistenceError(err error) error {
	if err == nil {
		return nil
	}
	if KindOf(err) == KindPersistence {
		return err
	}
	return &PersistenceError{Op: "save", Err: err}
}
