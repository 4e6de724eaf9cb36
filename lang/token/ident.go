package token

import (
	"unicode"
	"unicode/utf8"
)

// IsIdentifier returns true if name is a valid identifier. An identifier is a
// sequence of letters, digits and underscores that contains at least one
// letter, and where no digit appears before the first letter. Leading
// underscores are allowed (e.g. "__init"), but a name made only of
// underscores is not.
func IsIdentifier(name string) bool {
	var seenLetter bool
	for _, rn := range name {
		switch {
		case rn == '_':
		case isLetter(rn):
			seenLetter = true
		case !seenLetter:
			return false
		case isDigit(rn):
		default:
			return false
		}
	}
	return seenLetter
}

func isLetter(rn rune) bool {
	return 'a' <= rn && rn <= 'z' ||
		'A' <= rn && rn <= 'Z' ||
		rn >= utf8.RuneSelf && unicode.IsLetter(rn)
}

func isDigit(rn rune) bool {
	return '0' <= rn && rn <= '9' ||
		rn >= utf8.RuneSelf && unicode.IsDigit(rn)
}
