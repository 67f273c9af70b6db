package session

import (
	"errors"
	"strings"

	"github.com/entrhq/rolodex/pkg/notes"
	"github.com/entrhq/rolodex/pkg/types"
	"github.com/entrhq/rolodex/pkg/validate"
)

const scratchNote = "note"

func (s *Session) addNote() error {
	var title string
	_, err := s.ask("prompt_enter_title", nil, true, func(input string) error {
		if err := validate.Title(input); err != nil {
			return err
		}
		if s.notebook.HasTitle(input) {
			return &types.DuplicateError{Field: types.FieldTitle, Value: input}
		}
		title = input
		return nil
	})
	if err != nil {
		return err
	}

	content, err := s.ask("prompt_enter_content", nil, false, acceptAny)
	if err != nil {
		return err
	}

	var tags []string
	_, err = s.ask("prompt_enter_tags", nil, false, func(input string) error {
		list := strings.Fields(input)
		// NewNote applies the same rules as AddTag
		if _, err := notes.NewNote(title, "", list); err != nil {
			return err
		}
		tags = list
		return nil
	})
	if err != nil {
		return err
	}

	n, err := notes.NewNote(title, content, tags)
	if err != nil {
		return err
	}
	if err := s.notebook.AddNote(n); err != nil {
		return err
	}
	s.ui.Success("note_added", Params{"title": n.Title()})
	return nil
}

func (s *Session) findNotes() error {
	term, err := s.ask("prompt_enter_search_term", nil, false, acceptAny)
	if err != nil {
		return err
	}
	found := s.notebook.Find(term)
	if len(found) == 0 {
		s.ui.Info("no_notes_found", Params{"term": term})
		return nil
	}
	s.ui.Info("notes_found_title", Params{"count": len(found)})
	s.ui.ShowNotes(found)
	return nil
}

// selectNote searches titles, content and tags, lists the matches and asks
// for one of them by its 1-based position.
func (s *Session) selectNote(indexKey string) (*notes.Note, error) {
	term, err := s.ask("prompt_enter_search_term", nil, false, acceptAny)
	if err != nil {
		return nil, err
	}
	found := s.notebook.Find(term)
	if len(found) == 0 {
		s.ui.Info("no_notes_found", Params{"term": term})
		return nil, errNothingSelected
	}
	s.ui.ShowNotes(found)

	_, err = s.ask(indexKey, Params{"count": len(found)}, true, func(input string) error {
		idx, err := validate.ParseIndex(input, types.FieldNote, len(found))
		if err != nil {
			return err
		}
		s.scratch[scratchNote] = found[idx-1]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.scratch[scratchNote].(*notes.Note), nil
}

func (s *Session) removeNote() error {
	n, err := s.selectNote("prompt_select_index_to_remove")
	if err != nil {
		return err
	}

	answer, err := s.ui.Confirm("confirm_deletion", s.Path(), Params{"title": n.Title()})
	if err != nil {
		return errQuit
	}
	switch answer {
	case ConfirmYes:
		if err := s.notebook.RemoveNote(n); err != nil {
			return err
		}
		s.ui.Success("note_deleted", Params{"title": n.Title()})
		return nil
	case ConfirmNo:
		s.ui.Info("deletion_aborted", Params{"title": n.Title()})
		return nil
	default:
		return errCancelled
	}
}

func (s *Session) changeNote() error {
	n, err := s.selectNote("prompt_select_index_to_change")
	if err != nil {
		return err
	}

	for {
		field, err := s.askChoice("prompt_what_to_change_note", Params{"title": n.Title()}, noteFieldHelp)
		if err != nil {
			if errors.Is(err, errCancelled) {
				return nil
			}
			return err
		}

		err = s.within(field, func() error { return s.changeNoteField(n, field) })
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

func (s *Session) changeNoteField(n *notes.Note, field string) error {
	params := Params{"title": n.Title()}

	switch field {
	case fieldTitle:
		if _, err := s.ask("prompt_enter_new_title", params, true, func(input string) error {
			return s.notebook.ChangeTitle(n, input)
		}); err != nil {
			return err
		}
		s.ui.Success("title_changed", Params{"title": n.Title()})

	case fieldContent:
		// empty input clears the content
		content, err := s.ask("prompt_enter_content", params, false, acceptAny)
		if err != nil {
			return err
		}
		if err := s.notebook.ChangeContent(n, content); err != nil {
			return err
		}
		s.ui.Success("content_changed", params)

	case fieldTag:
		s.ui.ShowNotes([]*notes.Note{n})
		action, err := s.askChoice("prompt_tag_action", params, tagActionHelp)
		if err != nil {
			return err
		}

		var tag string
		_, err = s.ask("prompt_enter_tag", params, true, func(input string) error {
			tag = validate.NormalizeTag(input)
			if action == actionAdd {
				return s.notebook.AddTag(n, input)
			}
			return s.notebook.RemoveTag(n, input)
		})
		if err != nil {
			return err
		}
		key := "tag_added"
		if action == actionRemove {
			key = "tag_removed"
		}
		s.ui.Success(key, Params{"title": n.Title(), "tag": tag})
	}
	return nil
}
