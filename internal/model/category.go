// Package model defines the core data types shared across the application.
package model

import "time"

// DefaultCategoryName is the catch-all category every uncategorizable
// business falls back to. It is part of the seed set and always present.
const DefaultCategoryName = "שונות"

// Category represents a spending category.
type Category struct {
	CreatedAt   time.Time
	Name        string
	Description string
	Color       string
	Icon        string
	ID          int64
}

// SeedCategories is the fixed set created when the category store is empty.
var SeedCategories = []Category{
	{Name: "מזון ומשקאות", Description: "מסעדות וסופרמרקטים", Color: "#28a745", Icon: "🍔"},
	{Name: "תחבורה", Description: "דלק וחניה", Color: "#ffc107", Icon: "🚗"},
	{Name: "קניות", Description: "ביגוד ואלקטרוניקה", Color: "#17a2b8", Icon: "🛍️"},
	{Name: "בילוי ותרבות", Description: "קולנוע וספורט", Color: "#e83e8c", Icon: "🎭"},
	{Name: "בריאות", Description: "רופאים ובתי מרקחת", Color: "#fd7e14", Icon: "🏥"},
	{Name: "שירותים", Description: "חשמל ואינטרנט", Color: "#6c757d", Icon: "🔧"},
	{Name: "חינוך", Description: "לימודים וקורסים", Color: "#20c997", Icon: "📚"},
	{Name: "בית ומשק", Description: "ריהוט ותחזוקה", Color: "#6f42c1", Icon: "🏠"},
	{Name: "ביטוח ופיננסים", Description: "ביטוחים ובנקים", Color: "#343a40", Icon: "🏦"},
	{Name: DefaultCategoryName, Description: "הוצאות שונות", Color: "#868e96", Icon: "❓"},
}
