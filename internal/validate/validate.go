package validate

import (
	"regexp"
	"strings"
)

var (
	reEmail = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	rePhone = regexp.MustCompile(`^\+?[0-9 ()-]{10,20}$`)
	reKey   = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
)

// Name validates the customer's display name
func Name(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > 80 {
		return "", false
	}
	return s, true
}

func Email(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > 100 {
		return "", false
	}
	return s, reEmail.MatchString(s)
}

// Phone accepts local and international formats with at least 10 characters
func Phone(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, rePhone.MatchString(s)
}

// Address is the free-form delivery address
func Address(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > 200 {
		return "", false
	}
	return s, true
}

// Key validates session ids, order references and idempotency keys
func Key(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, reKey.MatchString(s)
}
