package user

import (
	"strings"
	"unicode"
)

const minPasswordLength = 8

// passwordSymbols is the accepted punctuation class. At least one of these is
// required in addition to upper, lower, and digit characters.
const passwordSymbols = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

func validPassword(password string) bool {
	if len(password) < minPasswordLength {
		return false
	}

	var hasUpper, hasLower, hasDigit, hasSymbol bool
	for _, char := range password {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsDigit(char):
			hasDigit = true
		case strings.ContainsRune(passwordSymbols, char):
			hasSymbol = true
		}
	}

	return hasUpper && hasLower && hasDigit && hasSymbol
}
