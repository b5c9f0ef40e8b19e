package categorize

import (
	"strings"

	"github.com/ysiton/shekelwise/internal/model"
)

// Rule pairs a keyword set with a category and a fixed confidence. A rule
// matches when any of its keywords appears as a case-insensitive substring of
// the business name.
type Rule struct {
	Category   string
	Keywords   []string
	Confidence float64
}

// DefaultRules is the ordered rule table. Order is significant: the first
// matching rule wins, so supermarket chains outrank the generic food
// keywords below them.
var DefaultRules = []Rule{
	{Keywords: []string{"רמי לוי", "סופר", "שופרסל", "מגה", "ויקטורי", "טיב טעם", "אושר עד"}, Category: "מזון ומשקאות", Confidence: 0.90},
	{Keywords: []string{"דלק", "פז", "סונול", "דור אלון", "חניה", "פארק"}, Category: "תחבורה", Confidence: 0.90},
	{Keywords: []string{"מקדונלד", "בורגר", "פיצה", "קפה", "מסעדה", "רולדין", "גרג"}, Category: "מזון ומשקאות", Confidence: 0.85},
	{Keywords: []string{"פארם", "מרקח", "רופא", "מכבי", "כללית", "לאומית", "מנורה"}, Category: "בריאות", Confidence: 0.90},
	{Keywords: []string{"חשמל", "בזק", "פרטנר", "סלקום", "הוט", "yes"}, Category: "שירותים", Confidence: 0.90},
	{Keywords: []string{"קולנוע", "ספורט", "כושר", "חדר כושר"}, Category: "בילוי ותרבות", Confidence: 0.85},
	{Keywords: []string{"זארה", "קסטרו", "אלקטרה", "כי.אס.פי"}, Category: "קניות", Confidence: 0.80},
	{Keywords: []string{"פנגו", "מוביט", "תחבורה"}, Category: "תחבורה", Confidence: 0.85},
	{Keywords: []string{"apple", "אפל", "גוגל", "microsoft", "cursor", "openai", "claude"}, Category: "קניות", Confidence: 0.80},
	{Keywords: []string{"paybox"}, Category: "שונות", Confidence: 0.70},
	{Keywords: []string{"ליברה", "ביטוח", "כלל רכב", "כלל דירה"}, Category: "ביטוח ופיננסים", Confidence: 0.85},
	{Keywords: []string{"העברה", "bit"}, Category: "שונות", Confidence: 0.60},
	{Keywords: []string{"דמי כרטיס", "מזרחי"}, Category: "ביטוח ופיננסים", Confidence: 0.80},
}

// DefaultConfidence is returned when no rule matches.
const DefaultConfidence = 0.30

// RuleCategorizer assigns categories by evaluating an ordered rule table.
type RuleCategorizer struct {
	rules []Rule
}

// NewRuleCategorizer creates a categorizer over the given rules.
func NewRuleCategorizer(rules []Rule) *RuleCategorizer {
	return &RuleCategorizer{rules: rules}
}

// Categorize returns the category and confidence of the first rule matching
// the business name, or the default category at minimum confidence.
func (rc *RuleCategorizer) Categorize(businessName string) (string, float64) {
	lower := strings.ToLower(businessName)

	for _, rule := range rc.rules {
		for _, keyword := range rule.Keywords {
			if strings.Contains(lower, keyword) {
				return rule.Category, rule.Confidence
			}
		}
	}

	return model.DefaultCategoryName, DefaultConfidence
}
