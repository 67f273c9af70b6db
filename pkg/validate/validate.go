// Package validate holds the field rules shared by contacts and notes.
//
// Every validator returns nil or one of the keyed errors from pkg/types, never
// a pre-rendered message.
package validate

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/entrhq/rolodex/pkg/types"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

const (
	// TitleMin and TitleMax bound note title length in characters.
	TitleMin = 2
	TitleMax = 128

	// TagMin and TagMax bound trimmed tag length in characters.
	TagMin = 2
	TagMax = 16

	// MinBirthYear is the earliest accepted birthday year.
	MinBirthYear = 1900

	// DateLayout is the user-facing date format (DD.MM.YYYY).
	DateLayout = "02.01.2006"

	// PhoneDigits is the exact length of a phone number.
	PhoneDigits = 10
)

var (
	namePattern  = regexp.MustCompile(`^\p{L}[\p{L}\p{M}' \-]*$`)
	phonePattern = regexp.MustCompile(`^[0-9]{10}$`)
	emailPattern = regexp.MustCompile(`^[A-Za-z0-9._%+\-]+@[A-Za-z0-9\-]+(\.[A-Za-z0-9\-]+)*\.[A-Za-z]{2,}$`)
	tagPattern   = regexp.MustCompile(`^[A-Za-z0-9_]+$`)
	datePattern  = regexp.MustCompile(`^[0-9]{2}\.[0-9]{2}\.[0-9]{4}$`)
)

// Fold returns the Unicode case-folded form of s for case-insensitive
// comparisons.
func Fold(s string) string {
	return cases.Fold().String(s)
}

// EqualFold reports whether a and b are equal under Unicode case folding.
func EqualFold(a, b string) bool {
	return Fold(a) == Fold(b)
}

// ContainsFold reports whether substr occurs in s, ignoring case.
func ContainsFold(s, substr string) bool {
	return strings.Contains(Fold(s), Fold(substr))
}

// NormalizeName trims surrounding whitespace and composes the name to NFC so
// visually identical names compare equal.
func NormalizeName(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// Name validates a contact name.
func Name(s string) error {
	name := NormalizeName(s)
	if name == "" || !namePattern.MatchString(name) {
		return &types.InvalidFormatError{Field: types.FieldName, Value: s}
	}
	return nil
}

// Phone validates a phone number: exactly ten decimal digits.
func Phone(s string) error {
	if !phonePattern.MatchString(s) {
		return &types.InvalidFormatError{Field: types.FieldPhone, Value: s}
	}
	return nil
}

// Email validates a local@domain.tld shaped address.
func Email(s string) error {
	if !emailPattern.MatchString(s) {
		return &types.InvalidFormatError{Field: types.FieldEmail, Value: s}
	}
	return nil
}

// Title validates a note title length.
func Title(s string) error {
	n := utf8.RuneCountInString(s)
	if n < TitleMin || n > TitleMax {
		return &types.InvalidLengthError{Field: types.FieldTitle, Min: TitleMin, Max: TitleMax, Actual: n}
	}
	return nil
}

// Tag validates a note tag. Length is checked before format.
func Tag(s string) error {
	tag := strings.TrimSpace(s)
	n := utf8.RuneCountInString(tag)
	if n < TagMin || n > TagMax {
		return &types.InvalidLengthError{Field: types.FieldTag, Min: TagMin, Max: TagMax, Actual: n}
	}
	if !tagPattern.MatchString(tag) {
		return &types.InvalidFormatError{Field: types.FieldTag, Value: s}
	}
	return nil
}

// NormalizeTag returns the stored form of a tag.
func NormalizeTag(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Birthday parses a DD.MM.YYYY string and checks it against the range rule.
// The returned date is midnight UTC of the parsed calendar day.
func Birthday(s string, now time.Time) (time.Time, error) {
	value := strings.TrimSpace(s)
	if !datePattern.MatchString(value) {
		return time.Time{}, &types.InvalidDateSyntaxError{Value: s, Layout: DateLayout}
	}
	date, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, &types.InvalidDateSyntaxError{Value: s, Layout: DateLayout}
	}
	if err := BirthdayDate(date, now); err != nil {
		return time.Time{}, err
	}
	return date, nil
}

// BirthdayDate checks that date is not before MinBirthYear and not after the
// calendar day of now.
func BirthdayDate(date time.Time, now time.Time) error {
	day := Day(date)
	today := Day(now)
	if day.Year() < MinBirthYear || day.After(today) {
		return &types.InvalidDateRangeError{
			Value:   day.Format(DateLayout),
			MinYear: MinBirthYear,
			Max:     today.Format(DateLayout),
		}
	}
	return nil
}

// Day strips the clock from t, keeping its calendar day in UTC.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDays parses the upcoming-birthdays window, an integer in [1, max].
func ParseDays(s string, max int) (int, error) {
	value := strings.TrimSpace(s)
	n, err := strconv.Atoi(value)
	if err != nil || n < 1 || n > max {
		return 0, &types.InvalidNumberError{Field: types.FieldDays, Value: s, Min: 1, Max: max}
	}
	return n, nil
}

// ParseIndex parses a 1-based selection against count items.
func ParseIndex(s string, field string, count int) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 || n > count {
		if err != nil {
			n = 0
		}
		return 0, &types.IndexError{Field: field, Index: n, Count: count}
	}
	return n, nil
}
