package statement

import "github.com/ysiton/shekelwise/internal/model"

// LayoutKind selects the extraction strategy for a sheet.
type LayoutKind int

const (
	// LayoutSegmented sheets carry two independent data blocks at fixed
	// header offsets, each terminated by a blank row or a repeated header.
	LayoutSegmented LayoutKind = iota
	// LayoutSingleBlock sheets carry one data block running from a fixed
	// header row to the end of the sheet.
	LayoutSingleBlock
)

// Layout describes where an issuer puts its data inside a sheet. Header rows
// and column positions are structural constants per issuer family, observed
// from real statements, never inferred from content.
type Layout struct {
	DateLayouts []string // Accepted time.Parse layouts for the date column
	HeaderRows  []int    // Zero-based; one entry per data block
	Kind        LayoutKind
	DateCol     int
	BusinessCol int
	AmountCol   int
}

// isracardLayout: two blocks headed at sheet rows 9 and 26, dates always
// written as dd.mm.yy text.
var isracardLayout = Layout{
	Kind:        LayoutSegmented,
	HeaderRows:  []int{8, 25},
	DateCol:     0,
	BusinessCol: 1,
	AmountCol:   4,
	DateLayouts: []string{"02.01.06"},
}

// singleBlockLayout covers Diners, Cal and the remaining issuers: one block
// headed at sheet row 3, dates in whatever representation the exporting tool
// chose that month.
var singleBlockLayout = Layout{
	Kind:        LayoutSingleBlock,
	HeaderRows:  []int{2},
	DateCol:     0,
	BusinessCol: 1,
	AmountCol:   3,
	DateLayouts: genericDateLayouts,
}

// genericDateLayouts are tried in order for issuers without a fixed date
// format. Day-first forms come first; the mm-dd-yy form at the end is the
// spreadsheet default some exports fall back to.
var genericDateLayouts = []string{
	"02/01/2006",
	"02/01/06",
	"2006-01-02",
	"02-01-2006",
	"02.01.2006",
	"02.01.06",
	"2006-01-02 15:04:05",
	"01-02-06",
}

// LayoutFor returns the sheet layout for an issuer. Unknown issuers get the
// single-block layout, matching how their files are actually structured when
// they show up with unrecognized names.
func LayoutFor(iss model.Issuer) Layout {
	if iss == model.IssuerIsracard {
		return isracardLayout
	}
	return singleBlockLayout
}
