package content

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	PlaceholderImage = "https://via.placeholder.com/600x400"
	DefaultCategory  = "General"
	DefaultAuthor    = "Admin"
)

var (
	million = decimal.NewFromInt(1_000_000)

	statusLabels = map[string]string{
		"PRE_SALE":        "Pre-Venta",
		"IN_CONSTRUCTION": "En Construcción",
		"COMPLETED":       "Completado",
	}
)

// StatusLabel returns the Spanish label for a project status, or the status
// itself when it has none.
func StatusLabel(status string) string {
	if label, ok := statusLabels[status]; ok {
		return label
	}
	return status
}

// IsPreSale reports whether the status gets the highlighted badge.
func IsPreSale(status string) bool {
	return status == "PRE_SALE"
}

// Units formats the units designed counter, e.g. "120+".
func Units(n int) string {
	return strconv.Itoa(n) + "+"
}

// Capital formats capital managed in whole millions of euros, e.g. "€45M".
func Capital(amount decimal.Decimal) string {
	return "€" + amount.Div(million).Round(0).String() + "M"
}

// ROI formats the average return, e.g. "12.5%".
func ROI(roi decimal.Decimal) string {
	return roi.String() + "%"
}

// EUR formats an amount the way es-ES does for whole euros: thousands
// separated by dots once the integer part has five digits or more, and the
// sign after a non-breaking space, e.g. "250.000 €".
func EUR(amount decimal.Decimal) string {
	rounded := amount.Round(0)
	digits := rounded.Abs().String()

	var sb strings.Builder
	if rounded.IsNegative() {
		sb.WriteByte('-')
	}
	if len(digits) < 5 {
		sb.WriteString(digits)
	} else {
		lead := len(digits) % 3
		if lead > 0 {
			sb.WriteString(digits[:lead])
		}
		for i := lead; i < len(digits); i += 3 {
			if i > 0 {
				sb.WriteByte('.')
			}
			sb.WriteString(digits[i : i+3])
		}
	}
	sb.WriteString("\u00a0€")
	return sb.String()
}
