package credentials

import (
	"crypto/rand"
	"math/big"
	"regexp"
	"strings"
)

var symbolRegexp = regexp.MustCompile(`[<>_.,!@#$%^&*()\-+=\[\]{}|\\;:'"/?]`)

// IsStrongPassword reports whether a password satisfies the account policy:
// at least 8 characters with an upper-case letter, a lower-case letter,
// a digit and a symbol.
func IsStrongPassword(password string) bool {
	if len(password) < 8 {
		return false
	}
	var hasUpper, hasLower, hasDigit bool
	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case r >= 'a' && r <= 'z':
			hasLower = true
		case r >= '0' && r <= '9':
			hasDigit = true
		}
	}
	return hasUpper && hasLower && hasDigit && symbolRegexp.MatchString(password)
}

// GenerateInitialPassword builds a short throwaway password for a student
// account provisioned from an email address: two letters of the local part
// plus four random digits and a bang. It deliberately fails IsStrongPassword
// so the student is forced to pick a real password on first login.
func GenerateInitialPassword(email string) (string, error) {
	local := email
	if at := strings.Index(email, "@"); at > 0 {
		local = email[:at]
	}
	prefix := strings.ToLower(local)
	if len(prefix) > 2 {
		prefix = prefix[:2]
	}

	digits := make([]byte, 4)
	for i := range digits {
		num, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		digits[i] = byte('0' + num.Int64())
	}

	return prefix + string(digits) + "!", nil
}
