package normalize

import (
	"regexp"
	"strings"
)

// Alphabetic runs of two or more characters, Hebrew or Latin. Digits and
// single letters carry no categorization signal.
var tokenRe = regexp.MustCompile(`[א-תa-z]{2,}`)

// Tokens extracts the learnable keywords from a business name.
func Tokens(name string) []string {
	return tokenRe.FindAllString(strings.ToLower(name), -1)
}
