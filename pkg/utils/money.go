package utils

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"go-deal-recon/internal/model"
)

// Round2 rounds a monetary amount half-away-from-zero to 2 decimal
// places. All payload figures pass through here so JSON output never
// carries float noise.
func Round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

// Round2Null rounds a nullable percentage, preserving undefined.
func Round2Null(v model.NullFloat) model.NullFloat {
	if !v.Valid {
		return v
	}
	return model.Float(Round2(v.Value))
}

// FormatCurrency renders a USD amount as "$1,234.56". Negative values
// keep the sign ahead of the dollar symbol.
func FormatCurrency(v float64) string {
	d := decimal.NewFromFloat(v).Round(2)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	fixed := d.StringFixed(2)
	parts := strings.SplitN(fixed, ".", 2)
	return sign + "$" + groupThousands(parts[0]) + "." + parts[1]
}

// FormatPercentage renders a nullable percentage as "12.34%", or "-"
// when undefined.
func FormatPercentage(v model.NullFloat) string {
	if !v.Valid {
		return "-"
	}
	return fmt.Sprintf("%.2f%%", v.Value)
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
