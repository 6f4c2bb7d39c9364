package ui

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/muurk/catalog/internal/catalog"
	"github.com/muurk/catalog/internal/productapi"
)

// Format selects how products are printed
type Format string

const (
	FormatTable   Format = "table"
	FormatCompact Format = "compact"
	FormatJSON    Format = "json"
)

// Formats lists the accepted --format values
var Formats = []Format{FormatTable, FormatCompact, FormatJSON}

// ParseFormat validates a --format value
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown format %q (want table, compact or json)", s)
}

// maxDescriptionWidth truncates descriptions in the product table
const maxDescriptionWidth = 40

// Printer provides methods for printing UI components to a writer.
// CLI commands write all their output through one.
type Printer struct {
	out   io.Writer
	width int
}

// NewPrinter creates a new Printer that writes to the given writer.
// If w is nil, os.Stdout is used.
func NewPrinter(w io.Writer) *Printer {
	if w == nil {
		w = os.Stdout
	}
	return &Printer{
		out:   w,
		width: GetTerminalWidth(),
	}
}

// Width returns the render width used by this printer
func (p *Printer) Width() int {
	return p.width
}

// SetWidth overrides the detected terminal width
func (p *Printer) SetWidth(width int) *Printer {
	p.width = clampWidth(width)
	return p
}

// Print writes content to the output
func (p *Printer) Print(content string) {
	_, _ = fmt.Fprint(p.out, content)
}

// Println writes content with a newline
func (p *Printer) Println(content string) {
	_, _ = fmt.Fprintln(p.out, content)
}

// Newline prints an empty line
func (p *Printer) Newline() {
	_, _ = fmt.Fprintln(p.out)
}

// PrintHeader prints a command header box
func (p *Printer) PrintHeader(title, command string, params ...Detail) {
	p.Println(NewHeader(title, command, params...).SetWidth(p.width).Render())
}

// PrintSuccess prints a success result box
func (p *Printer) PrintSuccess(title string, details ...Detail) {
	p.Println(NewSuccessResult(title, details...).SetWidth(p.width).Render())
}

// PrintWarning prints a warning result box
func (p *Printer) PrintWarning(title string, details ...Detail) {
	p.Println(NewWarningResult(title, details...).SetWidth(p.width).Render())
}

// PrintError prints an error result box with troubleshooting tips
func (p *Printer) PrintError(title string, err error, troubleshooting []string) {
	p.Println(NewFailureResult(title, err, troubleshooting).SetWidth(p.width).Render())
}

// PrintAPIError prints an API failure with its short message and hint
func (p *Printer) PrintAPIError(title string, err error) {
	short := errors.New(productapi.GetShortErrorMessage(err))
	if field := productapi.ValidationField(err); field != "" {
		short = fmt.Errorf("%s (%s)", short, field)
	}
	p.PrintError(title, short, TroubleshootingTips(productapi.GetTroubleshootingHint(err)))
}

// PrintJSON writes v as indented JSON
func (p *Printer) PrintJSON(v interface{}) error {
	enc := json.NewEncoder(p.out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// PrintProducts prints a product list in the requested format
func (p *Printer) PrintProducts(products []productapi.Product, format Format) error {
	if format == FormatJSON {
		if products == nil {
			products = []productapi.Product{}
		}
		return p.PrintJSON(products)
	}

	if len(products) == 0 {
		p.Println(MutedStyle.Render(catalog.NoProductsPlaceholder))
		return nil
	}

	switch format {
	case FormatCompact:
		for _, product := range products {
			p.Println(product.String())
		}
	default:
		p.Println(RenderProductTable(products))
		p.Println(MutedStyle.Render(countLabel(len(products))))
	}
	return nil
}

// PrintProduct prints a single product in the requested format
func (p *Printer) PrintProduct(product productapi.Product, format Format) error {
	switch format {
	case FormatJSON:
		return p.PrintJSON(product)
	case FormatCompact:
		p.Println(product.String())
	default:
		p.Println(product.FormatDetailed())
	}
	return nil
}

// RenderProductTable renders products as a bordered table
func RenderProductTable(products []productapi.Product) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(PrimaryColor)).
		Headers("ID", "NAME", "DESCRIPTION", "PRICE").
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return TableHeaderStyle
			case col == 3:
				return TablePriceStyle
			default:
				return TableCellStyle
			}
		})

	for _, product := range products {
		t.Row(
			strconv.FormatInt(product.ID, 10),
			product.Name,
			truncate(product.Description, maxDescriptionWidth),
			productapi.FormatPrice(product.Price),
		)
	}
	return t.String()
}

func countLabel(n int) string {
	if n == 1 {
		return "1 product"
	}
	return fmt.Sprintf("%d products", n)
}

func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit-1]) + "…"
}
