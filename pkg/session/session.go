// Package session implements the menu navigation state machine. A Session
// tracks where in the menu the user is, reads commands through a Presenter,
// dispatches them to the address book and notebook, and turns every error
// into a report without ever leaving the loop except on quit.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/entrhq/rolodex/pkg/contacts"
	"github.com/entrhq/rolodex/pkg/logging"
	"github.com/entrhq/rolodex/pkg/notes"
	"github.com/entrhq/rolodex/pkg/types"
)

// DefaultMaxBirthdayDays bounds the birthdays window unless overridden.
const DefaultMaxBirthdayDays = 365

var (
	// errCancelled ends the current input sequence without a change.
	errCancelled = errors.New("input cancelled")

	// errQuit ends the session from inside an action.
	errQuit = errors.New("quit")

	// errNothingSelected ends an action whose search matched nothing.
	errNothingSelected = errors.New("nothing selected")
)

// Session is the navigation state of one interactive run. It is not safe for
// concurrent use.
type Session struct {
	book     *contacts.AddressBook
	notebook *notes.Notebook
	ui       Presenter
	log      *logging.Logger
	now      func() time.Time
	maxDays  int

	path    []string
	scratch map[string]any
	running bool
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger for dispatched commands and reported errors.
func WithLogger(l *logging.Logger) Option {
	return func(s *Session) {
		s.log = l
	}
}

// WithClock overrides the clock used to validate birthdays.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		s.now = now
	}
}

// WithMaxBirthdayDays sets the largest accepted birthdays window.
func WithMaxBirthdayDays(n int) Option {
	return func(s *Session) {
		if n > 0 {
			s.maxDays = n
		}
	}
}

// New creates a session at the root menu.
func New(book *contacts.AddressBook, notebook *notes.Notebook, ui Presenter, opts ...Option) *Session {
	s := &Session{
		book:     book,
		notebook: notebook,
		ui:       ui,
		log:      logging.Nop(),
		now:      time.Now,
		maxDays:  DefaultMaxBirthdayDays,
		scratch:  make(map[string]any),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns a copy of the current navigation path.
func (s *Session) Path() []string {
	return slices.Clone(s.path)
}

// Scratch returns the number of values held for the current operation.
func (s *Session) Scratch() int {
	return len(s.scratch)
}

// Running reports whether the loop is active.
func (s *Session) Running() bool {
	return s.running
}

// Run reads and dispatches commands until the user quits, input ends or ctx
// is cancelled.
func (s *Session) Run(ctx context.Context) error {
	s.running = true
	s.ui.Success("welcome", nil)

	for s.running {
		if err := ctx.Err(); err != nil {
			s.log.Infof("session cancelled: %v", err)
			return err
		}
		s.step()
	}

	s.ui.Info("goodbye", nil)
	return nil
}

// step handles one line of input at the current path. A panic anywhere below
// is reported and resets navigation to the root.
func (s *Session) step() {
	defer func() {
		if r := recover(); r != nil {
			s.log.Errorf("recovered from panic at %v: %v", s.path, r)
			s.ui.Error("generic_error", Params{"error_message": fmt.Sprint(r)})
			s.reset()
		}
	}()

	input, err := s.ui.Prompt(s.promptKey(), s.Path(), nil)
	if err != nil {
		s.stopOnInputError(err)
		return
	}

	cmd, args := parseInput(input)
	if cmd == "" {
		return
	}
	s.log.Debugf("command %q args %v at %v", cmd, args, s.path)

	if s.intercept(cmd) {
		return
	}
	s.dispatch(cmd, args)
}

func (s *Session) promptKey() string {
	if len(s.path) == 1 && s.path[0] != cmdBirthdays {
		return "prompt_" + s.path[0] + "_type"
	}
	return "command_prompt"
}

// intercept handles the commands valid at every path.
func (s *Session) intercept(cmd string) bool {
	switch {
	case cmd == cmdMenu:
		if len(s.path) == 0 {
			s.ui.Warning("already_at_main_menu", nil)
		} else {
			s.back()
		}
	case isQuit(cmd):
		s.quit()
	case cmd == cmdHelp:
		s.ui.ShowHelp(HelpFor(s.path))
	default:
		return false
	}
	return true
}

func (s *Session) dispatch(cmd string, args []string) {
	if len(s.path) == 0 {
		s.dispatchRoot(cmd, args)
		return
	}
	s.chooseType(cmd)
}

func (s *Session) dispatchRoot(cmd string, args []string) {
	switch cmd {
	case cmdAdd, cmdFind, cmdChange, cmdRemove:
		s.push(cmd)
		if len(args) > 0 {
			s.chooseType(args[0])
		}
	case cmdBirthdays:
		s.push(cmdBirthdays)
		err := s.birthdays(args)
		s.back()
		s.report(err)
	default:
		s.ui.Error("invalid_command", Params{"command": cmd})
	}
}

// chooseType resolves the entity type in a type-choice state and runs the
// matching action.
func (s *Session) chooseType(token string) {
	verb := s.path[len(s.path)-1]
	kind, _ := parseInput(token)

	var handler func() error
	switch kind {
	case typeContact:
		handler = map[string]func() error{
			cmdAdd:    s.addContact,
			cmdFind:   s.findContacts,
			cmdChange: s.changeContact,
			cmdRemove: s.removeContact,
		}[verb]
	case typeNote:
		handler = map[string]func() error{
			cmdAdd:    s.addNote,
			cmdFind:   s.findNotes,
			cmdChange: s.changeNote,
			cmdRemove: s.removeNote,
		}[verb]
	}
	if handler == nil {
		s.report(&types.InvalidTypeError{Value: token})
		return
	}

	s.runAction(kind, handler)
}

// runAction enters an action state, runs it to completion and returns to the
// parent state whatever the outcome.
func (s *Session) runAction(kind string, handler func() error) {
	s.push(kind)
	s.log.Infof("action %v", s.path)
	err := handler()
	s.back()
	s.report(err)
}

// report maps an error to presenter calls.
func (s *Session) report(err error) {
	switch {
	case err == nil, errors.Is(err, errNothingSelected):
	case errors.Is(err, errQuit):
		s.quit()
	case errors.Is(err, errCancelled):
		s.ui.Warning("input_cancelled", nil)
	default:
		if keyed, ok := types.AsKeyed(err); ok {
			if keyed.Kind() == types.KindPersistence {
				s.log.Errorf("persistence failure: %v", err)
			} else {
				s.log.Debugf("reported %s: %v", keyed.Key(), err)
			}
			s.ui.Error(keyed.Key(), keyed.Params())
			return
		}
		s.log.Errorf("unexpected error at %v: %v", s.path, err)
		s.ui.Error("generic_error", Params{"error_message": err.Error()})
	}
}

func (s *Session) stopOnInputError(err error) {
	if !errors.Is(err, io.EOF) {
		s.log.Errorf("reading input: %v", err)
		s.ui.Error("generic_error", Params{"error_message": err.Error()})
	}
	s.quit()
}

func (s *Session) quit() {
	s.running = false
}

func (s *Session) push(segment string) {
	s.path = append(s.path, segment)
}

// back pops one level and clears the operation context.
func (s *Session) back() {
	if len(s.path) > 0 {
		s.path = s.path[:len(s.path)-1]
	}
	clear(s.scratch)
}

func (s *Session) reset() {
	s.path = s.path[:0]
	clear(s.scratch)
}

// within runs fn with segment appended to the path, keeping the operation
// context.
func (s *Session) within(segment string, fn func() error) error {
	depth := len(s.path)
	s.path = append(s.path, segment)
	defer func() { s.path = s.path[:depth] }()
	return fn()
}
