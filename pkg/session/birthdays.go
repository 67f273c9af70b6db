package session

import "github.com/entrhq/rolodex/pkg/validate"

// birthdays lists upcoming birthdays. The window may be given inline
// ("birthdays 7"); otherwise, or when the inline value is invalid, it is
// asked for until a valid number is entered.
func (s *Session) birthdays(args []string) error {
	days := 0
	if len(args) > 0 {
		n, err := validate.ParseDays(args[0], s.maxDays)
		if err != nil {
			s.report(err)
		} else {
			days = n
		}
	}

	if days == 0 {
		_, err := s.ask("prompt_enter_days", Params{"max": s.maxDays}, true, func(input string) error {
			n, err := validate.ParseDays(input, s.maxDays)
			days = n
			return err
		})
		if err != nil {
			return err
		}
	}

	upcoming := s.book.BirthdaysInNextDays(days)
	if len(upcoming) == 0 {
		s.ui.Info("no_upcoming_birthdays", Params{"days": days})
		return nil
	}
	s.ui.Info("birthdays_found_title", Params{"days": days, "count": len(upcoming)})
	s.ui.ShowBirthdays(upcoming)
	return nil
}
