package flow

import "strings"

// ValidatePhone accepts exactly 10 decimal digits, nothing else.
// No separators, no leading plus.
func ValidatePhone(v string) error {
	if len(v) != 10 {
		return errInvalidPhone
	}
	for i := 0; i < len(v); i++ {
		if v[i] < '0' || v[i] > '9' {
			return errInvalidPhone
		}
	}
	return nil
}

// ValidateNonEmpty rejects answers that are empty after trimming.
func ValidateNonEmpty(v string) error {
	if strings.TrimSpace(v) == "" {
		return errEmptyAnswer
	}
	return nil
}
