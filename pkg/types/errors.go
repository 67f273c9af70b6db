package types

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies domain errors so the session layer can decide whether to
// retry the current field or unwind navigation.
type Kind string

const (
	// KindValidation indicates a format, length or range violation on a single field.
	KindValidation Kind = "validation"
	// KindUniqueness indicates a duplicate name, title, tag, phone or email.
	KindUniqueness Kind = "uniqueness"
	// KindNotFound indicates an identity-based lookup or removal miss.
	KindNotFound Kind = "not_found"
	// KindIndex indicates an out-of-range 1-based selection.
	KindIndex Kind = "index"
	// KindPersistence indicates a snapshot read or write failure.
	KindPersistence Kind = "persistence"
)

// Keyed is implemented by every domain error. Key is a symbolic message key
// and Params carries the structured values a presenter needs to render it.
type Keyed interface {
	error
	Key() string
	Params() map[string]any
	Kind() Kind
}

// AsKeyed returns the first keyed error in err's chain.
func AsKeyed(err error) (Keyed, bool) {
	var keyed Keyed
	if errors.As(err, &keyed) {
		return keyed, true
	}
	return nil, false
}

// KindOf returns the kind of err, or "" when err is not a domain error.
func KindOf(err error) Kind {
	if keyed, ok := AsKeyed(err); ok {
		return keyed.Kind()
	}
	return ""
}

// Field names used in error keys.
const (
	FieldName     = "name"
	FieldPhone    = "phone"
	FieldEmail    = "email"
	FieldBirthday = "birthday"
	FieldTitle    = "title"
	FieldTag      = "tag"
	FieldDays     = "days"
	FieldContact  = "contact"
	FieldNote     = "note"
)

// InvalidFormatError reports a value that does not match the field's pattern.
type InvalidFormatError struct {
	Field string
	Value string
}

func (e *InvalidFormatError) Error() string {
	return fmt.Sprintf("invalid %s format: %q", e.Field, e.Value)
}

func (e *InvalidFormatError) Key() string { return "invalid_" + e.Field + "_format" }
func (e *InvalidFormatError) Kind() Kind  { return KindValidation }

func (e *InvalidFormatError) Params() map[string]any {
	return map[string]any{"field": e.Field, "value": e.Value}
}

// InvalidLengthError reports a value whose length is outside [Min, Max].
type InvalidLengthError struct {
	Field  string
	Min    int
	Max    int
	Actual int
}

func (e *InvalidLengthError) Error() string {
	return fmt.Sprintf("%s length must be between %d and %d characters (got %d)", e.Field, e.Min, e.Max, e.Actual)
}

func (e *InvalidLengthError) Key() string { return "invalid_" + e.Field + "_length" }
func (e *InvalidLengthError) Kind() Kind  { return KindValidation }

func (e *InvalidLengthError) Params() map[string]any {
	return map[string]any{"field": e.Field, "min": e.Min, "max": e.Max, "actual": e.Actual}
}

// InvalidDateSyntaxError reports a date string that cannot be parsed.
type InvalidDateSyntaxError struct {
	Value  string
	Layout string
}

func (e *InvalidDateSyntaxError) Error() string {
	return fmt.Sprintf("invalid date %q: expected DD.MM.YYYY", e.Value)
}

func (e *InvalidDateSyntaxError) Key() string { return "invalid_birthday_format" }
func (e *InvalidDateSyntaxError) Kind() Kind  { return KindValidation }

func (e *InvalidDateSyntaxError) Params() map[string]any {
	return map[string]any{"value": e.Value, "layout": "DD.MM.YYYY"}
}

// InvalidDateRangeError reports a date before MinYear or after Max.
type InvalidDateRangeError struct {
	Value   string
	MinYear int
	Max     string
}

func (e *InvalidDateRangeError) Error() string {
	return fmt.Sprintf("date %s must be between %d and %s", e.Value, e.MinYear, e.Max)
}

func (e *InvalidDateRangeError) Key() string { return "invalid_birthday_range" }
func (e *InvalidDateRangeError) Kind() Kind  { return KindValidation }

func (e *InvalidDateRangeError) Params() map[string]any {
	return map[string]any{"value": e.Value, "min_year": e.MinYear, "max": e.Max}
}

// InvalidTypeError reports a category token other than contact or note.
type InvalidTypeError struct {
	Value string
}

func (e *InvalidTypeError) Error() string {
	return fmt.Sprintf("invalid type %q: expected contact or note", e.Value)
}

func (e *InvalidTypeError) Key() string { return "invalid_type" }
func (e *InvalidTypeError) Kind() Kind  { return KindValidation }

func (e *InvalidTypeError) Params() map[string]any {
	return map[string]any{"value": e.Value}
}

// InvalidChoiceError reports a menu answer outside the offered choices.
type InvalidChoiceError struct {
	Value   string
	Choices []string
}

func (e *InvalidChoiceError) Error() string {
	return fmt.Sprintf("invalid choice %q: expected one of %s", e.Value, strings.Join(e.Choices, ", "))
}

func (e *InvalidChoiceError) Key() string { return "invalid_choice" }
func (e *InvalidChoiceError) Kind() Kind  { return KindValidation }

func (e *InvalidChoiceError) Params() map[string]any {
	return map[string]any{"value": e.Value, "choices": strings.Join(e.Choices, ", ")}
}

// InvalidNumberError reports numeric input that is not an integer in [Min, Max].
type InvalidNumberError struct {
	Field string
	Value string
	Min   int
	Max   int
}

func (e *InvalidNumberError) Error() string {
	return fmt.Sprintf("%s must be a number between %d and %d (got %q)", e.Field, e.Min, e.Max, e.Value)
}

func (e *InvalidNumberError) Key() string { return "invalid_" + e.Field + "_range" }
func (e *InvalidNumberError) Kind() Kind  { return KindValidation }

func (e *InvalidNumberError) Params() map[string]any {
	return map[string]any{"field": e.Field, "value": e.Value, "min": e.Min, "max": e.Max}
}

// DuplicateError reports a value that already exists where it must be unique.
type DuplicateError struct {
	Field string
	Value string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("duplicate %s: %q already exists", e.Field, e.Value)
}

func (e *DuplicateError) Key() string { return "duplicate_" + e.Field }
func (e *DuplicateError) Kind() Kind  { return KindUniqueness }

func (e *DuplicateError) Params() map[string]any {
	return map[string]any{"field": e.Field, e.Field: e.Value}
}

// NotFoundError reports an entity that is not a member of its collection.
type NotFoundError struct {
	Entity string
	ID     int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

func (e *NotFoundError) Key() string { return e.Entity + "_not_found" }
func (e *NotFoundError) Kind() Kind  { return KindNotFound }

func (e *NotFoundError) Params() map[string]any {
	return map[string]any{"entity": e.Entity, "id": e.ID}
}

// TagNotFoundError reports removal of a tag the note does not carry.
type TagNotFoundError struct {
	Tag   string
	Title string
}

func (e *TagNotFoundError) Error() string {
	return fmt.Sprintf("tag %q not found in note %q", e.Tag, e.Title)
}

func (e *TagNotFoundError) Key() string { return "tag_not_found_in_note" }
func (e *TagNotFoundError) Kind() Kind  { return KindNotFound }

func (e *TagNotFoundError) Params() map[string]any {
	return map[string]any{"tag": e.Tag, "title": e.Title}
}

// IndexError reports a 1-based index outside [1, Count].
type IndexError struct {
	Field string
	Index int
	Count int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("invalid %s index %d (have %d)", e.Field, e.Index, e.Count)
}

func (e *IndexError) Key() string { return "invalid_" + e.Field + "_index" }
func (e *IndexError) Kind() Kind  { return KindIndex }

func (e *IndexError) Params() map[string]any {
	return map[string]any{"field": e.Field, "index": e.Index, "count": e.Count}
}

// PersistenceError wraps a snapshot read or write failure.
type PersistenceError struct {
	Op   string
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
func (e *PersistenceError) Key() string   { return "persistence_" + e.Op + "_failed" }
func (e *PersistenceError) Kind() Kind    { return KindPersistence }

func (e *PersistenceError) Params() map[string]any {
	msg := ""
	if e.Err != nil {
		msg = e.Err.Error()
	}
	return map[string]any{"op": e.Op, "path": e.Path, "error_message": msg}
}
