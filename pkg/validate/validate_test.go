package validate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPhoneCanonicalization(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plus seven prefix", "+79990001122", "+79990001122"},
		{"eight prefix", "89990001122", "+79990001122"},
		{"surrounding whitespace", " 89990001122 ", "+79990001122"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Phone(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPhoneCanonicalizationIsIdempotent(t *testing.T) {
	once, err := Phone("89990001122")
	require.NoError(t, err)

	twice, err := Phone(once)
	require.NoError(t, err)
	assert.Equal(t, once, twice)
}

func TestPhoneRejectsInvalid(t *testing.T) {
	invalid := []string{
		"",
		"9990001122",       // no prefix
		"+7999000112",      // nine digits
		"+799900011223",    // eleven digits
		"8999000112a",      // letter
		"+7 999 000 11 22", // spaces inside
		"79990001122",      // bare seven
		"++79990001122",
	}

	for _, input := range invalid {
		_, err := Phone(input)
		assert.Error(t, err, "input %q", input)
	}
}

func TestFullName(t *testing.T) {
	valid := []string{
		"Иванов Иван",
		"Иванов Иван Иванович",
		"John Smith",
		"Тестовый Пользователь",
	}
	for _, name := range valid {
		assert.NoError(t, FullName(name), "name %q", name)
	}

	invalid := []string{
		"",
		"Иванов",          // single word
		"И Иванов",        // one-letter token
		"Ivan123 Smith",   // digits
		"Иванов-Петров И", // hyphen and short token
	}
	for _, name := range invalid {
		assert.Error(t, FullName(name), "name %q", name)
	}
}

func TestAge(t *testing.T) {
	now := time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		birth time.Time
		want  int
	}{
		{"birthday already passed", time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC), 25},
		{"birthday today", time.Date(2000, time.June, 15, 0, 0, 0, 0, time.UTC), 25},
		{"birthday tomorrow", time.Date(2000, time.June, 16, 0, 0, 0, 0, time.UTC), 24},
		{"birthday later this year", time.Date(2000, time.December, 31, 0, 0, 0, 0, time.UTC), 24},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Age(tt.birth, now))
		})
	}
}

func TestBirthDateBounds(t *testing.T) {
	now := time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)

	// Exactly 14 today is allowed.
	assert.NoError(t, BirthDate(time.Date(2011, time.June, 15, 0, 0, 0, 0, time.UTC), now))
	// 14 tomorrow is still 13.
	assert.Error(t, BirthDate(time.Date(2011, time.June, 16, 0, 0, 0, 0, time.UTC), now))
	// Exactly 100 is allowed.
	assert.NoError(t, BirthDate(time.Date(1925, time.June, 15, 0, 0, 0, 0, time.UTC), now))
	// 101 is not.
	assert.Error(t, BirthDate(time.Date(1924, time.June, 14, 0, 0, 0, 0, time.UTC), now))
}

func TestGender(t *testing.T) {
	assert.NoError(t, Gender("Мужской"))
	assert.NoError(t, Gender("Женский"))
	assert.Error(t, Gender("other"))
	assert.Error(t, Gender(""))
}
