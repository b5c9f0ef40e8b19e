// Package issuer classifies statement files by the card company that issued
// them. Detection is purely filename-based: each issuer publishes statements
// under a predictable name carrying its own alias in Hebrew or Latin script.
package issuer

import (
	"regexp"
	"strings"

	"github.com/ysiton/shekelwise/internal/model"
)

// alias maps a set of filename substrings to an issuer tag. Order matters:
// the first matching entry wins, so more specific aliases come first.
type alias struct {
	issuer model.Issuer
	names  []string
}

var aliases = []alias{
	{model.IssuerDiners, []string{"דיינרס", "diners"}},
	{model.IssuerIsracard, []string{"ישראכרט", "isracard"}},
	{model.IssuerCal, []string{"כאל", "cal"}},
	{model.IssuerVisa, []string{"ויזה", "visa"}},
	{model.IssuerMastercard, []string{"מסטרקארד", "mastercard"}},
	{model.IssuerAmex, []string{"אמריקן", "american"}},
}

// Detect returns the issuer whose alias appears in the filename, or
// IssuerUnknown when none does. Matching is case-insensitive and total;
// Detect never fails.
func Detect(filename string) model.Issuer {
	lower := strings.ToLower(filename)

	for _, a := range aliases {
		for _, name := range a.names {
			if strings.Contains(lower, name) {
				return a.issuer
			}
		}
	}

	return model.IssuerUnknown
}

// Statement filenames follow <alias>_<card>_<month>_<year>, e.g.
// ישראכרט_9158_03_2025.xlsx or isracard_1234_05_2025.xlsx.
var cardNumberRe = regexp.MustCompile(`[א-תa-zA-Z]+_(\d{4})_\d{2}_\d{4}`)

// CardLastFour extracts the last four card digits embedded in a statement
// filename. Returns the empty string when the filename does not follow the
// convention; callers treat that as "card unknown", not as an error.
func CardLastFour(filename string) string {
	match := cardNumberRe.FindStringSubmatch(filename)
	if match == nil {
		return ""
	}
	return match[1]
}
