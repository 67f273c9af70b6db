package contacts

import (
	"errors"
	"testing"
	"time"

	"github.com/entrhq/rolodex/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingSaver records autosave calls and can be told to fail.
type countingSaver struct {
	calls int
	err   error
}

func (s *countingSaver) Save() error {
	s.calls++
	return s.err
}

func fixedClock(year int, month time.Month, day int) func() time.Time {
	return func() time.Time {
		return time.Date(year, month, day, 9, 0, 0, 0, time.UTC)
	}
}

func newTestBook(t *testing.T) (*AddressBook, *countingSaver) {
	t.Helper()
	saver := &countingSaver{}
	book := NewAddressBook(WithSaver(saver), WithClock(fixedClock(2024, time.March, 10)))
	return book, saver
}

func mustAdd(t *testing.T, book *AddressBook, name string, phones, emails []string, birthday *time.Time) *Contact {
	t.Helper()
	c, err := NewContact(name, phones, emails, birthday)
	require.NoError(t, err)
	require.NoError(t, book.AddContact(c))
	return c
}

func date(year int, month time.Month, day int) *time.Time {
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &d
}

func TestNewContact(t *testing.T) {
	tests := []struct {
		name   string
		cname  string
		phones []string
		emails []string
		key    string
	}{
		{name: "valid", cname: "Ann Lee", phones: []string{"0501234567"}, emails: []string{"ann@example.com"}},
		{name: "invalid name", cname: "R2D2", key: "invalid_name_format"},
		{name: "invalid phone", cname: "Ann", phones: []string{"123"}, key: "invalid_phone_format"},
		{name: "duplicate phone", cname: "Ann", phones: []string{"0501234567", "0501234567"}, key: "duplicate_phone"},
		{name: "invalid email", cname: "Ann", emails: []string{"ann@"}, key: "invalid_email_format"},
		{name: "duplicate email ignores case", cname: "Ann", emails: []string{"ann@example.com", "ANN@example.com"}, key: "duplicate_email"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewContact(tt.cname, tt.phones, tt.emails, nil)
			if tt.key == "" {
				require.NoError(t, err)
				assert.Equal(t, -1, c.ID())
				assert.Equal(t, tt.phones, c.Phones())
				return
			}
			keyed, ok := types.AsKeyed(err)
			require.True(t, ok, "expected keyed error, got %v", err)
			assert.Equal(t, tt.key, keyed.Key())
		})
	}
}

func TestAddContact(t *testing.T) {
	t.Run("assigns increasing identities and autosaves", func(t *testing.T) {
		book, saver := newTestBook(t)
		ann := mustAdd(t, book, "Ann", nil, nil, nil)
		bob := mustAdd(t, book, "Bob", nil, nil, nil)

		assert.Equal(t, 0, ann.ID())
		assert.Equal(t, 1, bob.ID())
		assert.Equal(t, 2, book.Len())
		assert.Equal(t, 2, saver.calls)
	})

	t.Run("rejects names differing only by case", func(t *testing.T) {
		book, saver := newTestBook(t)
		mustAdd(t, book, "Ann", nil, nil, nil)

		dup, err := NewContact("ann", nil, nil, nil)
		require.NoError(t, err)
		err = book.AddContact(dup)

		var dupErr *types.DuplicateError
		require.ErrorAs(t, err, &dupErr)
		assert.Equal(t, types.FieldName, dupErr.Field)
		assert.Equal(t, 1, book.Len())
		assert.Equal(t, 1, saver.calls)
		assert.Equal(t, -1, dup.ID())
	})

	t.Run("rejects future birthday", func(t *testing.T) {
		book, _ := newTestBook(t)
		c, err := NewContact("Ann", nil, nil, date(2024, time.March, 11))
		require.NoError(t, err)

		err = book.AddContact(c)
		assert.Equal(t, "invalid_birthday_range", keyOf(t, err))
		assert.Equal(t, 0, book.Len())
	})

	t.Run("save failure is reported as persistence error", func(t *testing.T) {
		book, saver := newTestBook(t)
		saver.err = errors.New("disk full")

		c, err := NewContact("Ann", nil, nil, nil)
		require.NoError(t, err)
		err = book.AddContact(c)

		assert.Equal(t, types.KindPersistence, types.KindOf(err))
		assert.Equal(t, 1, book.Len(), "mutation stays in memory")
	})
}

func TestRemoveContact(t *testing.T) {
	book, saver := newTestBook(t)
	ann := mustAdd(t, book, "Ann", nil, nil, nil)
	bob := mustAdd(t, book, "Bob", nil, nil, nil)

	require.NoError(t, book.RemoveContact(ann))
	assert.Equal(t, []*Contact{bob}, book.Contacts())
	assert.Equal(t, 3, saver.calls)

	err := book.RemoveContact(ann)
	var notFound *types.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, ann.ID(), notFound.ID)

	draft, err := NewContact("Cid", nil, nil, nil)
	require.NoError(t, err)
	assert.Error(t, book.RemoveContact(draft))
	assert.Equal(t, 3, saver.calls)
}

func TestRenameContact(t *testing.T) {
	book, _ := newTestBook(t)
	ann := mustAdd(t, book, "Ann", nil, nil, nil)
	mustAdd(t, book, "Bob", nil, nil, nil)

	require.NoError(t, book.RenameContact(ann, "ANN"), "renaming to own name in another case is allowed")
	assert.Equal(t, "ANN", ann.Name())

	assert.Equal(t, "duplicate_name", keyOf(t, book.RenameContact(ann, "bob")))
	assert.Equal(t, "invalid_name_format", keyOf(t, book.RenameContact(ann, "")))
	assert.Equal(t, "ANN", ann.Name())
}

func TestPhones(t *testing.T) {
	book, saver := newTestBook(t)
	ann := mustAdd(t, book, "Ann", []string{"0501111111", "0502222222"}, nil, nil)

	t.Run("remove at out of range index leaves list unchanged", func(t *testing.T) {
		calls := saver.calls
		err := book.RemovePhone(ann, 5)

		var indexErr *types.IndexError
		require.ErrorAs(t, err, &indexErr)
		assert.Equal(t, 5, indexErr.Index)
		assert.Equal(t, 2, indexErr.Count)
		assert.Equal(t, []string{"0501111111", "0502222222"}, ann.Phones())
		assert.Equal(t, calls, saver.calls)
	})

	t.Run("add rejects duplicate", func(t *testing.T) {
		assert.Equal(t, "duplicate_phone", keyOf(t, book.AddPhone(ann, "0501111111")))
		assert.Equal(t, "invalid_phone_format", keyOf(t, book.AddPhone(ann, "12")))
	})

	t.Run("change validates before mutating", func(t *testing.T) {
		assert.Equal(t, "duplicate_phone", keyOf(t, book.ChangePhone(ann, 1, "0502222222")))
		assert.Equal(t, "invalid_phone_index", keyOf(t, book.ChangePhone(ann, 0, "0503333333")))
		require.NoError(t, book.ChangePhone(ann, 1, "0501111111"), "same value at same index")
		require.NoError(t, book.ChangePhone(ann, 2, "0503333333"))
		assert.Equal(t, []string{"0501111111", "0503333333"}, ann.Phones())
	})

	t.Run("add and remove", func(t *testing.T) {
		require.NoError(t, book.AddPhone(ann, "0504444444"))
		require.NoError(t, book.RemovePhone(ann, 1))
		assert.Equal(t, []string{"0503333333", "0504444444"}, ann.Phones())
	})

	t.Run("returned slice is a copy", func(t *testing.T) {
		phones := ann.Phones()
		phones[0] = "0000000000"
		assert.NotEqual(t, "0000000000", ann.Phones()[0])
	})
}

func TestEmails(t *testing.T) {
	book, _ := newTestBook(t)
	ann := mustAdd(t, book, "Ann", nil, []string{"Ann@Example.com"}, nil)

	assert.Equal(t, "duplicate_email", keyOf(t, book.AddEmail(ann, "ann@example.COM")))
	require.NoError(t, book.AddEmail(ann, "ann@work.org"))
	assert.Equal(t, "duplicate_email", keyOf(t, book.ChangeEmail(ann, 2, "ANN@example.com")))
	require.NoError(t, book.ChangeEmail(ann, 1, "ann@home.net"))
	assert.Equal(t, "invalid_email_index", keyOf(t, book.RemoveEmail(ann, 3)))
	require.NoError(t, book.RemoveEmail(ann, 2))
	assert.Equal(t, []string{"ann@home.net"}, ann.Emails())
}

func TestChangeBirthday(t *testing.T) {
	book, _ := newTestBook(t)
	ann := mustAdd(t, book, "Ann", nil, nil, nil)

	require.NoError(t, book.ChangeBirthday(ann, date(1990, time.March, 15)))
	got, ok := ann.Birthday()
	require.True(t, ok)
	assert.Equal(t, *date(1990, time.March, 15), got)

	assert.Equal(t, "invalid_birthday_range", keyOf(t, book.ChangeBirthday(ann, date(1899, time.December, 31))))

	require.NoError(t, book.ChangeBirthday(ann, nil))
	_, ok = ann.Birthday()
	assert.False(t, ok)
}

func TestFindContacts(t *testing.T) {
	book, _ := newTestBook(t)
	ann := mustAdd(t, book, "Ann Lee", []string{"0501234567"}, []string{"ann@example.com"}, nil)
	bob := mustAdd(t, book, "Bob", []string{"0679999999"}, []string{"bob@lee.org"}, nil)
	mustAdd(t, book, "Cid", nil, nil, nil)

	assert.Equal(t, []*Contact{ann, bob}, book.FindContacts("LEE"))
	assert.Equal(t, []*Contact{ann}, book.FindContacts("1234"))
	assert.Equal(t, []*Contact{bob}, book.FindContacts("BOB@"))
	assert.Empty(t, book.FindContacts("zed"))
	assert.Len(t, book.FindContacts(""), 3)
}

func mustRehydrate(t *testing.T, id int, name string, phones []string, birthday *time.Time) *Contact {
	t.Helper()
	c, err := Rehydrate(id, name, phones, nil, birthday)
	require.NoError(t, err)
	return c
}

func TestRestore(t *testing.T) {
	book := NewAddressBook()
	stored := []*Contact{
		mustRehydrate(t, 3, "Ann", []string{"0501234567"}, nil),
		mustRehydrate(t, 7, "Bob", nil, date(1990, time.May, 1)),
	}
	require.NoError(t, book.Restore(stored, 5))
	assert.Equal(t, 8, book.Seq())

	c, err := NewContact("Cid", nil, nil, nil)
	require.NoError(t, err)
	require.NoError(t, book.AddContact(c))
	assert.Equal(t, 8, c.ID())

	t.Run("duplicate ids are rejected", func(t *testing.T) {
		err := NewAddressBook().Restore([]*Contact{
			mustRehydrate(t, 1, "Ann", nil, nil),
			mustRehydrate(t, 1, "Bob", nil, nil),
		}, 2)
		assert.Error(t, err)
	})

	t.Run("birthday out of range is rejected", func(t *testing.T) {
		book := NewAddressBook(WithClock(fixedClock(2024, time.March, 10)))
		err := book.Restore([]*Contact{
			mustRehydrate(t, 1, "Ann", nil, date(2024, time.March, 11)),
		}, 2)
		assert.Equal(t, "invalid_birthday_range", keyOf(t, err))
		assert.Equal(t, 0, book.Len())
	})
}

func TestRehydrateValidates(t *testing.T) {
	tests := []struct {
		name   string
		cname  string
		phones []string
		emails []string
		want   string
	}{
		{name: "bad name", cname: "R2D2", want: "invalid_name_format"},
		{name: "bad phone", cname: "Ann", phones: []string{"123"}, want: "invalid_phone_format"},
		{name: "repeated phone", cname: "Ann", phones: []string{"0501234567", "0501234567"}, want: "duplicate_phone"},
		{name: "bad email", cname: "Ann", emails: []string{"ann@"}, want: "invalid_email_format"},
		{name: "repeated email", cname: "Ann", emails: []string{"ann@lee.org", "ANN@lee.org"}, want: "duplicate_email"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Rehydrate(1, tt.cname, tt.phones, tt.emails, nil)
			assert.Nil(t, c)
			assert.Equal(t, tt.want, keyOf(t, err))
		})
	}
}

func TestAddZeroContact(t *testing.T) {
	book, saver := newTestBook(t)

	err := book.AddContact(&Contact{})
	assert.Equal(t, "invalid_name_format", keyOf(t, err))
	assert.Equal(t, 0, book.Len())
	assert.Equal(t, 0, book.Seq())
	assert.Zero(t, saver.calls)
}

func keyOf(t *testing.T, err error) string {
	t.Helper()
	keyed, ok := types.AsKeyed(err)
	require.True(t, ok, "expected keyed error, got %v", err)
	return keyed.Key()
}
