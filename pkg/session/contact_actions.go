package session

import (
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/entrhq/rolodex/pkg/contacts"
	"github.com/entrhq/rolodex/pkg/types"
	"github.com/entrhq/rolodex/pkg/validate"
)

const scratchContact = "contact"

// addContact collects every field first and adds the contact once.
func (s *Session) addContact() error {
	var name string
	_, err := s.ask("prompt_enter_name", nil, true, func(input string) error {
		candidate := validate.NormalizeName(input)
		if err := validate.Name(candidate); err != nil {
			return err
		}
		if s.book.HasName(candidate) {
			return &types.DuplicateError{Field: types.FieldName, Value: candidate}
		}
		name = candidate
		return nil
	})
	if err != nil {
		return err
	}

	var phones []string
	_, err = s.ask("prompt_enter_phones", nil, false, func(input string) error {
		var list []string
		for _, p := range strings.Fields(input) {
			if err := validate.Phone(p); err != nil {
				return err
			}
			if slices.Contains(list, p) {
				return &types.DuplicateError{Field: types.FieldPhone, Value: p}
			}
			list = append(list, p)
		}
		phones = list
		return nil
	})
	if err != nil {
		return err
	}

	var emails []string
	_, err = s.ask("prompt_enter_emails", nil, false, func(input string) error {
		var list []string
		for _, e := range strings.Fields(input) {
			if err := validate.Email(e); err != nil {
				return err
			}
			for _, seen := range list {
				if validate.EqualFold(seen, e) {
					return &types.DuplicateError{Field: types.FieldEmail, Value: e}
				}
			}
			list = append(list, e)
		}
		emails = list
		return nil
	})
	if err != nil {
		return err
	}

	birthday, err := s.askBirthday("prompt_enter_birthday", nil)
	if err != nil {
		return err
	}

	c, err := contacts.NewContact(name, phones, emails, birthday)
	if err != nil {
		return err
	}
	if err := s.book.AddContact(c); err != nil {
		return err
	}
	s.ui.Success("contact_added", Params{"name": c.Name()})
	return nil
}

// askBirthday reads an optional DD.MM.YYYY date; nil means none was given.
func (s *Session) askBirthday(key string, params Params) (*time.Time, error) {
	var birthday *time.Time
	_, err := s.ask(key, params, false, func(input string) error {
		t, err := validate.Birthday(input, s.now())
		if err != nil {
			return err
		}
		birthday = &t
		return nil
	})
	return birthday, err
}

func (s *Session) findContacts() error {
	term, err := s.ask("prompt_enter_search_term", nil, false, acceptAny)
	if err != nil {
		return err
	}
	found := s.book.FindContacts(term)
	if len(found) == 0 {
		s.ui.Info("no_contacts_found", Params{"term": term})
		return nil
	}
	s.ui.Info("contacts_found_title", Params{"count": len(found)})
	s.ui.ShowContacts(found)
	return nil
}

// selectContact searches, lists the matches and asks for one of them by its
// 1-based position. The choice is kept in the operation context.
func (s *Session) selectContact(indexKey string) (*contacts.Contact, error) {
	term, err := s.ask("prompt_enter_search_term", nil, false, acceptAny)
	if err != nil {
		return nil, err
	}
	found := s.book.FindContacts(term)
	if len(found) == 0 {
		s.ui.Info("no_contacts_found", Params{"term": term})
		return nil, errNothingSelected
	}
	s.ui.ShowContacts(found)

	_, err = s.ask(indexKey, Params{"count": len(found)}, true, func(input string) error {
		idx, err := validate.ParseIndex(input, types.FieldContact, len(found))
		if err != nil {
			return err
		}
		s.scratch[scratchContact] = found[idx-1]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.scratch[scratchContact].(*contacts.Contact), nil
}

func (s *Session) removeContact() error {
	c, err := s.selectContact("prompt_select_index_to_remove")
	if err != nil {
		return err
	}

	answer, err := s.ui.Confirm("confirm_deletion", s.Path(), Params{"name": c.Name()})
	if err != nil {
		return errQuit
	}
	switch answer {
	case ConfirmYes:
		if err := s.book.RemoveContact(c); err != nil {
			return err
		}
		s.ui.Success("contact_deleted", Params{"name": c.Name()})
		return nil
	case ConfirmNo:
		s.ui.Info("deletion_aborted", Params{"name": c.Name()})
		return nil
	default:
		return errCancelled
	}
}

// changeContact loops over the fields of one contact until the user is done.
func (s *Session) changeContact() error {
	c, err := s.selectContact("prompt_select_index_to_change")
	if err != nil {
		return err
	}

	for {
		field, err := s.askChoice("prompt_what_to_change_contact", Params{"name": c.Name()}, contactFieldHelp)
		if err != nil {
			if errors.Is(err, errCancelled) {
				return nil
			}
			return err
		}

		err = s.within(field, func() error { return s.changeContactField(c, field) })
		switch {
		case err == nil:
		case errors.Is(err, errCancelled):
			s.ui.Warning("input_cancelled", nil)
		case errors.Is(err, errQuit):
			return err
		default:
			if _, ok := types.AsKeyed(err); !ok {
				return err
			}
			s.report(err)
		}
	}
}

func (s *Session) changeContactField(c *contacts.Contact, field string) error {
	switch field {
	case fieldName:
		_, err := s.ask("prompt_enter_new_name", Params{"name": c.Name()}, true, func(input string) error {
			return s.book.RenameContact(c, input)
		})
		if err != nil {
			return err
		}
		s.ui.Success("name_changed", Params{"name": c.Name()})
		return nil
	case fieldPhone:
		return s.changeList(c, contactList{
			field:  types.FieldPhone,
			values: c.Phones,
			add:    s.book.AddPhone,
			change: s.book.ChangePhone,
			remove: s.book.RemovePhone,
		})
	case fieldEmail:
		return s.changeList(c, contactList{
			field:  types.FieldEmail,
			values: c.Emails,
			add:    s.book.AddEmail,
			change: s.book.ChangeEmail,
			remove: s.book.RemoveEmail,
		})
	case fieldBirthday:
		return s.changeBirthday(c)
	}
	return nil
}

// contactList binds the phone or email operations of the address book.
type contactList struct {
	field  string
	values func() []string
	add    func(*contacts.Contact, string) error
	change func(*contacts.Contact, int, string) error
	remove func(*contacts.Contact, int) error
}

func (s *Session) changeList(c *contacts.Contact, list contactList) error {
	params := Params{"name": c.Name(), "field": list.field}
	s.ui.ShowContacts([]*contacts.Contact{c})

	action, err := s.askChoice("prompt_"+list.field+"_action", params, listActionHelp)
	if err != nil {
		return err
	}

	if action != actionAdd && len(list.values()) == 0 {
		s.ui.Info("no_"+list.field+"s", params)
		return nil
	}

	valueKey := "prompt_enter_" + list.field
	switch action {
	case actionAdd:
		var added string
		if _, err := s.ask(valueKey, params, true, func(input string) error {
			added = input
			return list.add(c, input)
		}); err != nil {
			return err
		}
		s.ui.Success(list.field+"_added", Params{"name": c.Name(), list.field: added})

	case actionChange:
		index, err := s.askIndex("prompt_select_index_to_change", list.field, len(list.values()))
		if err != nil {
			return err
		}
		var changed string
		if _, err := s.ask(valueKey, params, true, func(input string) error {
			changed = input
			return list.change(c, index, input)
		}); err != nil {
			return err
		}
		s.ui.Success(list.field+"_changed", Params{"name": c.Name(), list.field: changed})

	case actionRemove:
		if _, err := s.ask("prompt_select_index_to_remove", params, true, func(input string) error {
			index, err := validate.ParseIndex(input, list.field, len(list.values()))
			if err != nil {
				return err
			}
			return list.remove(c, index)
		}); err != nil {
			return err
		}
		s.ui.Success(list.field+"_removed", Params{"name": c.Name()})
	}
	return nil
}

// askIndex reads a 1-based position among count items.
func (s *Session) askIndex(key, field string, count int) (int, error) {
	var index int
	_, err := s.ask(key, Params{"field": field, "count": count}, true, func(input string) error {
		var err error
		index, err = validate.ParseIndex(input, field, count)
		return err
	})
	return index, err
}

// changeBirthday sets a new birthday; empty input removes it.
func (s *Session) changeBirthday(c *contacts.Contact) error {
	birthday, err := s.askBirthday("prompt_change_birthday", Params{"name": c.Name()})
	if err != nil {
		return err
	}
	if err := s.book.ChangeBirthday(c, birthday); err != nil {
		return err
	}
	if birthday == nil {
		s.ui.Success("birthday_removed", Params{"name": c.Name()})
		return nil
	}
	s.ui.Success("birthday_set", Params{"name": c.Name(), "birthday": birthday.Format(validate.DateLayout)})
	return nil
}

func acceptAny(string) error { return nil }
