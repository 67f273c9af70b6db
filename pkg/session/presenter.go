package session

import (
	"github.com/entrhq/rolodex/pkg/contacts"
	"github.com/entrhq/rolodex/pkg/notes"
)

// Params carries the structured values a message template is rendered with.
type Params map[string]any

// Confirmation is the answer to a yes/no question.
type Confirmation int

const (
	ConfirmYes Confirmation = iota
	ConfirmNo
	// ConfirmCancelled means no valid answer was given.
	ConfirmCancelled
)

// HelpEntry describes one command available at a navigation path.
type HelpEntry struct {
	Command        string
	DescriptionKey string
	Example        string
}

// Presenter renders messages and reads answers. The session only passes
// symbolic message keys and parameters; wording, colors and layout belong to
// the presenter.
type Presenter interface {
	// Prompt shows the prompt for key at path and returns the line read,
	// without its line ending. It returns io.EOF when input is exhausted.
	Prompt(key string, path []string, params Params) (string, error)

	// Confirm asks a yes/no question.
	Confirm(key string, path []string, params Params) (Confirmation, error)

	Success(key string, params Params)
	Warning(key string, params Params)
	Error(key string, params Params)
	Info(key string, params Params)

	ShowContacts(list []*contacts.Contact)
	ShowNotes(list []*notes.Note)
	ShowBirthdays(list []contacts.Birthday)
	ShowHelp(entries []HelpEntry)
}
