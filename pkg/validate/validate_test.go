package validate

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/entrhq/rolodex/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, time.March, 10, 15, 30, 0, 0, time.UTC)

func TestPhone(t *testing.T) {
	t.Run("accepts every ten digit string", func(t *testing.T) {
		for i := 0; i < 1000; i++ {
			phone := fmt.Sprintf("%010d", i*9999991)
			assert.NoError(t, Phone(phone), phone)
		}
	})

	rejected := []string{
		"", "123456789", "12345678901", "12345abcde", "+380501234",
		"050 123 456", " 0501234567", "0501234567 ", "٠١٢٣٤٥٦٧٨٩",
	}
	for _, phone := range rejected {
		t.Run("rejects "+phone, func(t *testing.T) {
			err := Phone(phone)
			var formatErr *types.InvalidFormatError
			require.ErrorAs(t, err, &formatErr)
			assert.Equal(t, types.FieldPhone, formatErr.Field)
		})
	}
}

func TestName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		valid bool
	}{
		{"simple", "Ann", true},
		{"with space", "Mary Jane", true},
		{"hyphenated", "Anne-Marie", true},
		{"apostrophe", "O'Connor", true},
		{"cyrillic", "Олена Петренко", true},
		{"accented", "José Álvarez", true},
		{"surrounding whitespace", "  Ann  ", true},
		{"empty", "", false},
		{"blank", "   ", false},
		{"digits", "Ann2", false},
		{"symbols", "Ann!", false},
		{"leading hyphen", "-Ann", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Name(tt.input)
			if tt.valid {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, types.KindValidation, types.KindOf(err))
		})
	}
}

func TestEmail(t *testing.T) {
	valid := []string{"ann@example.com", "Ann.Lee+work@Mail.Example.org", "a_b@x-y.io"}
	for _, email := range valid {
		assert.NoError(t, Email(email), email)
	}

	invalid := []string{"", "ann", "ann@", "@example.com", "ann@example", "ann@example.c", "ann example@x.com"}
	for _, email := range invalid {
		assert.Error(t, Email(email), email)
	}
}

func TestTitle(t *testing.T) {
	assert.NoError(t, Title("ok"))
	assert.NoError(t, Title(strings.Repeat("x", TitleMax)))
	assert.NoError(t, Title("ії"))

	err := Title("x")
	var lengthErr *types.InvalidLengthError
	require.ErrorAs(t, err, &lengthErr)
	assert.Equal(t, 1, lengthErr.Actual)
	assert.Equal(t, TitleMin, lengthErr.Min)
	assert.Equal(t, TitleMax, lengthErr.Max)

	assert.Error(t, Title(strings.Repeat("x", TitleMax+1)))
}

func TestTag(t *testing.T) {
	tests := []struct {
		name string
		tag  string
		key  string
	}{
		{"valid", "work_2024", ""},
		{"trimmed", "  ok  ", ""},
		{"too short", "a", "invalid_tag_length"},
		{"too long", strings.Repeat("a", TagMax+1), "invalid_tag_length"},
		{"bad characters", "to-do", "invalid_tag_format"},
		{"unicode", "робота", "invalid_tag_format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Tag(tt.tag)
			if tt.key == "" {
				assert.NoError(t, err)
				return
			}
			keyed, ok := types.AsKeyed(err)
			require.True(t, ok)
			assert.Equal(t, tt.key, keyed.Key())
		})
	}

	assert.Equal(t, "urgent", NormalizeTag(" Urgent "))
}

func TestBirthday(t *testing.T) {
	t.Run("parses valid date", func(t *testing.T) {
		date, err := Birthday("15.03.1990", fixedNow)
		require.NoError(t, err)
		assert.Equal(t, time.Date(1990, time.March, 15, 0, 0, 0, 0, time.UTC), date)
	})

	t.Run("today is accepted", func(t *testing.T) {
		_, err := Birthday("10.03.2024", fixedNow)
		assert.NoError(t, err)
	})

	syntax := []string{"", "1990-03-15", "15/03/1990", "5.3.1990", "31.02.1990", "32.01.1990", "15.13.1990", "15.03.90"}
	for _, value := range syntax {
		t.Run("syntax "+value, func(t *testing.T) {
			_, err := Birthday(value, fixedNow)
			var syntaxErr *types.InvalidDateSyntaxError
			assert.ErrorAs(t, err, &syntaxErr)
		})
	}

	rangeCases := []string{"31.12.1899", "11.03.2024", "01.01.2030"}
	for _, value := range rangeCases {
		t.Run("range "+value, func(t *testing.T) {
			_, err := Birthday(value, fixedNow)
			var rangeErr *types.InvalidDateRangeError
			require.ErrorAs(t, err, &rangeErr)
			assert.Equal(t, MinBirthYear, rangeErr.MinYear)
			assert.Equal(t, "10.03.2024", rangeErr.Max)
		})
	}
}

func TestFold(t *testing.T) {
	assert.True(t, EqualFold("Ann", "ANN"))
	assert.True(t, EqualFold("Äpfel", "äPFEL"))
	assert.True(t, ContainsFold("Олена Петренко", "петр"))
	assert.False(t, ContainsFold("Ann", "bob"))
}

func TestNormalizeName(t *testing.T) {
	decomposed := "Jose\u0301"
	assert.Equal(t, "Jos\u00e9", NormalizeName("  "+decomposed+" "))
}

func TestParseDays(t *testing.T) {
	n, err := ParseDays(" 7 ", 365)
	require.NoError(t, err)
	assert.Equal(t, 7, n)

	for _, value := range []string{"0", "366", "-1", "seven", ""} {
		_, err := ParseDays(value, 365)
		var numErr *types.InvalidNumberError
		assert.ErrorAs(t, err, &numErr, value)
	}
}

func TestParseIndex(t *testing.T) {
	n, err := ParseIndex("2", types.FieldPhone, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, err = ParseIndex("5", types.FieldPhone, 2)
	var indexErr *types.IndexError
	require.ErrorAs(t, err, &indexErr)
	assert.Equal(t, 5, indexErr.Index)
	assert.Equal(t, 2, indexErr.Count)

	_, err = ParseIndex("x", types.FieldEmail, 1)
	assert.ErrorAs(t, err, &indexErr)
}
