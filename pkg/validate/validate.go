// Package validate holds the registration validation rules: full name shape,
// Russian phone numbers and their canonical form, and age limits. All rules run
// before any storage access.
package validate

import (
	"regexp"
	"strings"
	"time"

	"github.com/polyclinicapp/booking-api/pkg/errors"
)

const (
	MinAge = 14
	MaxAge = 100
)

var (
	// At least two whitespace-separated words, each at least two Cyrillic or
	// Latin letters.
	fullNameRe = regexp.MustCompile(`^[а-яА-ЯёЁa-zA-Z]{2,}(?:\s+[а-яА-ЯёЁa-zA-Z]{2,})+$`)

	// +7 or 8 followed by exactly ten digits.
	phoneRe = regexp.MustCompile(`^(\+7|8)[0-9]{10}$`)
)

// FullName checks the full-name shape.
func FullName(name string) error {
	if !fullNameRe.MatchString(strings.TrimSpace(name)) {
		return errors.Validation("full name must be at least two words of letters only")
	}
	return nil
}

// Phone canonicalizes a phone number to the +7XXXXXXXXXX form. Both accepted
// prefixes map to the same stored representation, so the function is idempotent.
func Phone(phone string) (string, error) {
	phone = strings.TrimSpace(phone)
	if !phoneRe.MatchString(phone) {
		return "", errors.Validation("phone must be +7 or 8 followed by 10 digits")
	}
	if strings.HasPrefix(phone, "8") {
		return "+7" + phone[1:], nil
	}
	return phone, nil
}

// Age returns full years between birthDate and now, decremented when the
// birthday has not yet occurred this year.
func Age(birthDate, now time.Time) int {
	age := now.Year() - birthDate.Year()
	if now.Month() < birthDate.Month() ||
		(now.Month() == birthDate.Month() && now.Day() < birthDate.Day()) {
		age--
	}
	return age
}

// BirthDate checks that the birth date yields an age within [MinAge, MaxAge].
func BirthDate(birthDate, now time.Time) error {
	age := Age(birthDate, now)
	if age < MinAge {
		return errors.Validation("user must be at least 14 years old")
	}
	if age > MaxAge {
		return errors.Validation("user must be at most 100 years old")
	}
	return nil
}

// Gender checks the gender enum as stored.
func Gender(gender string) error {
	switch gender {
	case "Мужской", "Женский":
		return nil
	}
	return errors.Validation("gender must be Мужской or Женский")
}
