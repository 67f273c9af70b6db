package contacts

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/entrhq/rolodex/pkg/types"
	"github.com/entrhq/rolodex/pkg/validate"
)

// AddressBook owns a list of contacts. It is not safe for concurrent use.
type AddressBook struct {
	contacts []*Contact
	seq      types.Sequence
	saver    types.Saver
	now      func() time.Time
}

// Option configures an AddressBook.
type Option func(*AddressBook)

// WithSaver sets the autosave hook invoked after every mutation.
func WithSaver(s types.Saver) Option {
	return func(b *AddressBook) {
		b.saver = s
	}
}

// WithClock overrides the clock used for birthday checks.
func WithClock(now func() time.Time) Option {
	return func(b *AddressBook) {
		b.now = now
	}
}

// NewAddressBook creates an empty address book.
func NewAddressBook(opts ...Option) *AddressBook {
	b := &AddressBook{now: time.Now}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// SetSaver replaces the autosave hook.
func (b *AddressBook) SetSaver(s types.Saver) {
	b.saver = s
}

// Restore replaces the book's contents with stored contacts and resumes the
// identity sequence above both seq and the highest stored id.
func (b *AddressBook) Restore(stored []*Contact, seq int) error {
	seen := make(map[int]bool, len(stored))
	names := make(map[string]bool, len(stored))
	maxID := -1
	for _, c := range stored {
		if c == nil || c.id < 0 || validate.Name(c.name) != nil {
			return fmt.Errorf("restore: malformed contact record")
		}
		if c.birthday != nil {
			if err := validate.BirthdayDate(*c.birthday, b.now()); err != nil {
				return fmt.Errorf("restore: contact %d: %w", c.id, err)
			}
		}
		if seen[c.id] {
			return fmt.Errorf("restore: duplicate contact id %d", c.id)
		}
		folded := validate.Fold(c.name)
		if names[folded] {
			return fmt.Errorf("restore: duplicate contact name %q", c.name)
		}
		seen[c.id] = true
		names[folded] = true
		maxID = max(maxID, c.id)
	}
	b.contacts = slices.Clone(stored)
	b.seq.Restore(seq, maxID)
	return nil
}

// Seq returns the identity the next added contact will receive.
func (b *AddressBook) Seq() int {
	return b.seq.Peek()
}

// Contacts returns the contacts in collection order.
func (b *AddressBook) Contacts() []*Contact {
	return slices.Clone(b.contacts)
}

// Len returns the number of contacts.
func (b *AddressBook) Len() int {
	return len(b.contacts)
}

// Get returns the contact with the given identity.
func (b *AddressBook) Get(id int) (*Contact, bool) {
	for _, c := range b.contacts {
		if c.id == id {
			return c, true
		}
	}
	return nil, false
}

// HasName reports whether a contact with this name exists, ignoring case.
func (b *AddressBook) HasName(name string) bool {
	return b.nameTaken(validate.NormalizeName(name), unassignedID)
}

func (b *AddressBook) nameTaken(name string, exceptID int) bool {
	for _, c := range b.contacts {
		if c.id != exceptID && validate.EqualFold(c.name, name) {
			return true
		}
	}
	return false
}

func (b *AddressBook) indexOf(c *Contact) int {
	if c == nil {
		return -1
	}
	return slices.IndexFunc(b.contacts, func(other *Contact) bool {
		return other.id == c.id
	})
}

func (b *AddressBook) member(c *Contact) (*Contact, error) {
	idx := b.indexOf(c)
	if idx < 0 {
		return nil, notFound(c)
	}
	return b.contacts[idx], nil
}

func notFound(c *Contact) error {
	id := unassignedID
	if c != nil {
		id = c.id
	}
	return &types.NotFoundError{Entity: types.FieldContact, ID: id}
}

func (b *AddressBook) save() error {
	if b.saver == nil {
		return nil
	}
	return types.AsPersistenceError(b.saver.Save())
}

// AddContact assigns the draft an identity and appends it.
func (b *AddressBook) AddContact(c *Contact) error {
	if c == nil {
		return notFound(c)
	}
	// a zero Contact has no name
	if err := validate.Name(c.name); err != nil {
		return err
	}
	if c.birthday != nil {
		if err := validate.BirthdayDate(*c.birthday, b.now()); err != nil {
			return err
		}
	}
	if b.nameTaken(c.name, unassignedID) {
		return &types.DuplicateError{Field: types.FieldName, Value: c.name}
	}

	c.id = b.seq.Next()
	b.contacts = append(b.contacts, c)
	return b.save()
}

// RemoveContact removes a member contact by identity.
func (b *AddressBook) RemoveContact(c *Contact) error {
	idx := b.indexOf(c)
	if idx < 0 {
		return notFound(c)
	}
	b.contacts = slices.Delete(b.contacts, idx, idx+1)
	return b.save()
}

// RenameContact changes a contact's name, keeping names unique.
func (b *AddressBook) RenameContact(c *Contact, name string) error {
	target, err := b.member(c)
	if err != nil {
		return err
	}
	if err := validate.Name(name); err != nil {
		return err
	}
	normalized := validate.NormalizeName(name)
	if b.nameTaken(normalized, target.id) {
		return &types.DuplicateError{Field: types.FieldName, Value: normalized}
	}
	target.name = normalized
	return b.save()
}

// AddPhone appends a phone number to the contact.
func (b *AddressBook) AddPhone(c *Contact, phone string) error {
	target, err := b.member(c)
	if err != nil {
		return err
	}
	if err := validate.Phone(phone); err != nil {
		return err
	}
	if target.phoneIndex(phone) >= 0 {
		return &types.DuplicateError{Field: types.FieldPhone, Value: phone}
	}
	target.phones = append(target.phones, phone)
	return b.save()
}

// ChangePhone replaces the phone at the 1-based index.
func (b *AddressBook) ChangePhone(c *Contact, index int, phone string) error {
	target, err := b.member(c)
	if err != nil {
		return err
	}
	if err := checkIndex(types.FieldPhone, index, len(target.phones)); err != nil {
		return err
	}
	if err := validate.Phone(phone); err != nil {
		return err
	}
	if at := target.phoneIndex(phone); at >= 0 && at != index-1 {
		return &types.DuplicateError{Field: types.FieldPhone, Value: phone}
	}
	target.phones[index-1] = phone
	return b.save()
}

// RemovePhone removes the phone at the 1-based index.
func (b *AddressBook) RemovePhone(c *Contact, index int) error {
	target, err := b.member(c)
	if err != nil {
		return err
	}
	if err := checkIndex(types.FieldPhone, index, len(target.phones)); err != nil {
		return err
	}
	target.phones = slices.Delete(target.phones, index-1, index)
	return b.save()
}

// AddEmail appends an email address to the contact.
func (b *AddressBook) AddEmail(c *Contact, email string) error {
	target, err := b.member(c)
	if err != nil {
		return err
	}
	if err := validate.Email(email); err != nil {
		return err
	}
	if target.emailIndex(email) >= 0 {
		return &types.DuplicateError{Field: types.FieldEmail, Value: email}
	}
	target.emails = append(target.emails, email)
	return b.save()
}

// ChangeEmail replaces the email at the 1-based index.
func (b *AddressBook) ChangeEmail(c *Contact, index int, email string) error {
	target, err := b.member(c)
	if err != nil {
		return err
	}
	if err := checkIndex(types.FieldEmail, index, len(target.emails)); err != nil {
		return err
	}
	if err := validate.Email(email); err != nil {
		return err
	}
	if at := target.emailIndex(email); at >= 0 && at != index-1 {
		return &types.DuplicateError{Field: types.FieldEmail, Value: email}
	}
	target.emails[index-1] = email
	return b.save()
}

// RemoveEmail removes the email at the 1-based index.
func (b *AddressBook) RemoveEmail(c *Contact, index int) error {
	target, err := b.member(c)
	if err != nil {
		return err
	}
	if err := checkIndex(types.FieldEmail, index, len(target.emails)); err != nil {
		return err
	}
	target.emails = slices.Delete(target.emails, index-1, index)
	return b.save()
}

// ChangeBirthday sets the contact's birthday, or clears it when birthday is nil.
func (b *AddressBook) ChangeBirthday(c *Contact, birthday *time.Time) error {
	target, err := b.member(c)
	if err != nil {
		return err
	}
	if birthday == nil {
		target.birthday = nil
		return b.save()
	}
	if err := validate.BirthdayDate(*birthday, b.now()); err != nil {
		return err
	}
	day := validate.Day(*birthday)
	target.birthday = &day
	return b.save()
}

// FindContacts returns contacts whose name, phones or emails contain term,
// ignoring case, in collection order.
func (b *AddressBook) FindContacts(term string) []*Contact {
	term = strings.TrimSpace(term)
	var result []*Contact
	for _, c := range b.contacts {
		if c.matches(term) {
			result = append(result, c)
		}
	}
	return result
}

func checkIndex(field string, index, count int) error {
	if index < 1 || index > count {
		return &types.IndexError{Field: field, Index: index, Count: count}
	}
	return nil
}
