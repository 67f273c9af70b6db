package session

import (
	"errors"
	"io"
	"strings"

	"github.com/entrhq/rolodex/pkg/types"
)

// ask prompts until accept returns nil and yields the accepted answer.
// Domain errors from accept are reported and the same prompt is shown again,
// except persistence failures which end the prompt. "menu" cancels, a quit
// command ends the session and "help" lists the commands of the current path.
// Empty input cancels a required field and returns "" for an optional one.
func (s *Session) ask(key string, params Params, required bool, accept func(string) error) (string, error) {
	for {
		input, err := s.ui.Prompt(key, s.Path(), params)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return "", errQuit
			}
			return "", err
		}

		input = strings.TrimSpace(input)
		switch word := strings.ToLower(input); {
		case word == cmdMenu:
			return "", errCancelled
		case isQuit(word):
			return "", errQuit
		case word == cmdHelp:
			s.ui.ShowHelp(HelpFor(s.Path()))
			continue
		}
		if input == "" {
			if required {
				return "", errCancelled
			}
			return "", nil
		}

		err = accept(input)
		if err == nil {
			return input, nil
		}
		keyed, ok := types.AsKeyed(err)
		if !ok || keyed.Kind() == types.KindPersistence {
			return "", err
		}
		s.report(err)
	}
}

// askChoice prompts for one of the commands in entries. The entries are what
// HelpFor returns for the current path.
func (s *Session) askChoice(key string, params Params, entries []HelpEntry) (string, error) {
	choices := choicesOf(entries)
	var choice string
	_, err := s.ask(key, params, true, func(input string) error {
		cmd, _ := parseInput(input)
		for _, c := range choices {
			if cmd == c {
				choice = c
				return nil
			}
		}
		return &types.InvalidChoiceError{Value: input, Choices: choices}
	})
	return choice, err
}
