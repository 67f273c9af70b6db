package contacts

import (
	"time"

	"github.com/entrhq/rolodex/pkg/validate"
)

// Birthday is one upcoming birthday.
type Birthday struct {
	Contact *Contact

	// Date is the next occurrence of the birthday, today or later.
	Date time.Time

	// Celebration is the Monday the birthday is observed on when Date falls
	// on a weekend; nil means it is celebrated on Date itself.
	Celebration *time.Time
}

// DaysUntil returns the number of days from today to the birthday.
func (b Birthday) DaysUntil(today time.Time) int {
	return daysBetween(validate.Day(today), b.Date)
}

// BirthdaysInNextDays returns contacts whose next birthday is within n days,
// today included, in collection order.
func (b *AddressBook) BirthdaysInNextDays(n int) []Birthday {
	today := validate.Day(b.now())

	var result []Birthday
	for _, c := range b.contacts {
		if c.birthday == nil {
			continue
		}

		next := anniversary(*c.birthday, today.Year())
		if next.Before(today) {
			next = anniversary(*c.birthday, today.Year()+1)
		}

		days := daysBetween(today, next)
		if days < 0 || days > n {
			continue
		}

		result = append(result, Birthday{
			Contact:     c,
			Date:        next,
			Celebration: celebrationDate(next),
		})
	}
	return result
}

// anniversary projects birthday onto year. A 29 February birthday falls on
// 28 February in common years.
func anniversary(birthday time.Time, year int) time.Time {
	month, day := birthday.Month(), birthday.Day()
	if month == time.February && day == 29 && !isLeap(year) {
		day = 28
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// celebrationDate moves a weekend date to the following Monday.
func celebrationDate(date time.Time) *time.Time {
	var shift int
	switch date.Weekday() {
	case time.Saturday:
		shift = 2
	case time.Sunday:
		shift = 1
	default:
		return nil
	}
	monday := date.AddDate(0, 0, shift)
	return &monday
}

func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}

func isLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}
