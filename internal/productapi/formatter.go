package productapi

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// FormatPrice renders a price the way the product list shows it ("$12.50")
func FormatPrice(price decimal.Decimal) string {
	return "$" + price.StringFixed(2)
}

// FormatCompact returns the one-line list representation ("Mug - $12.50")
func (p Product) FormatCompact() string {
	return fmt.Sprintf("%s - %s", p.Name, FormatPrice(p.Price))
}

// FormatDetailed returns a multi-line representation for the show commands
func (p Product) FormatDetailed() string {
	var b strings.Builder

	fmt.Fprintf(&b, "Product #%d\n", p.ID)
	b.WriteString(strings.Repeat("=", 40))
	b.WriteString("\n")
	fmt.Fprintf(&b, "  Name:         %s\n", p.Name)
	if p.Description != "" {
		fmt.Fprintf(&b, "  Description:  %s\n", p.Description)
	} else {
		b.WriteString("  Description:  (none)\n")
	}
	fmt.Fprintf(&b, "  Price:        %s", FormatPrice(p.Price))

	return b.String()
}

// String implements fmt.Stringer
func (p Product) String() string {
	return fmt.Sprintf("#%d %s", p.ID, p.FormatCompact())
}

// FormatDelta describes what changes between a loaded product and a draft,
// one "field: old → new" line per changed field.
func FormatDelta(before Product, after Draft) []string {
	var changes []string
	if before.Name != after.Name {
		changes = append(changes, fmt.Sprintf("name: %q → %q", before.Name, after.Name))
	}
	if before.Description != after.Description {
		changes = append(changes, fmt.Sprintf("description: %q → %q", before.Description, after.Description))
	}
	if !before.Price.Equal(after.Price) {
		changes = append(changes, fmt.Sprintf("price: %s → %s", FormatPrice(before.Price), FormatPrice(after.Price)))
	}
	return changes
}
