// Package contacts implements the address book: contacts, their phones and
// emails, and the upcoming-birthdays projection.
//
// A Contact is only mutated through its AddressBook. Every successful
// mutation triggers the book's Saver before returning.
package contacts

import (
	"slices"
	"time"

	"github.com/entrhq/rolodex/pkg/types"
	"github.com/entrhq/rolodex/pkg/validate"
)

// unassignedID marks a draft that has not been added to a book yet.
const unassignedID = -1

// Contact is a person in the address book.
type Contact struct {
	id       int
	name     string
	phones   []string
	emails   []string
	birthday *time.Time
}

// NewContact builds a validated draft. The birthday range is checked against
// the book's clock when the draft is added.
func NewContact(name string, phones, emails []string, birthday *time.Time) (*Contact, error) {
	if err := validate.Name(name); err != nil {
		return nil, err
	}

	c := &Contact{
		id:   unassignedID,
		name: validate.NormalizeName(name),
	}

	for _, phone := range phones {
		if err := validate.Phone(phone); err != nil {
			return nil, err
		}
		if c.phoneIndex(phone) >= 0 {
			return nil, &types.DuplicateError{Field: types.FieldPhone, Value: phone}
		}
		c.phones = append(c.phones, phone)
	}

	for _, email := range emails {
		if err := validate.Email(email); err != nil {
			return nil, err
		}
		if c.emailIndex(email) >= 0 {
			return nil, &types.DuplicateError{Field: types.FieldEmail, Value: email}
		}
		c.emails = append(c.emails, email)
	}

	if birthday != nil {
		day := validate.Day(*birthday)
		c.birthday = &day
	}

	return c, nil
}

// ID returns the contact's identity, or -1 for an unsaved draft.
func (c *Contact) ID() int { return c.id }

// Name returns the contact's name.
func (c *Contact) Name() string { return c.name }

// Phones returns a copy of the contact's phone numbers in order.
func (c *Contact) Phones() []string { return slices.Clone(c.phones) }

// Emails returns a copy of the contact's email addresses in order.
func (c *Contact) Emails() []string { return slices.Clone(c.emails) }

// Birthday returns the contact's birthday and whether one is set.
func (c *Contact) Birthday() (time.Time, bool) {
	if c.birthday == nil {
		return time.Time{}, false
	}
	return *c.birthday, true
}

func (c *Contact) phoneIndex(phone string) int {
	return slices.Index(c.phones, phone)
}

func (c *Contact) emailIndex(email string) int {
	return slices.IndexFunc(c.emails, func(e string) bool {
		return validate.EqualFold(e, email)
	})
}

// matches reports whether term occurs in the name, a phone or an email.
func (c *Contact) matches(term string) bool {
	if validate.ContainsFold(c.name, term) {
		return true
	}
	for _, phone := range c.phones {
		if validate.ContainsFold(phone, term) {
			return true
		}
	}
	for _, email := range c.emails {
		if validate.ContainsFold(email, term) {
			return true
		}
	}
	return false
}

// Rehydrate rebuilds a stored contact with its persisted identity. The record
// goes through the same checks as NewContact; the birthday range is checked
// by Restore against the book's clock.
func Rehydrate(id int, name string, phones, emails []string, birthday *time.Time) (*Contact, error) {
	c, err := NewContact(name, phones, emails, birthday)
	if err != nil {
		return nil, err
	}
	c.id = id
	return c, nil
}
