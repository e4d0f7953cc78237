// Package placeholder substitutes brace-delimited tokens embedded in free-text
// template elements with values from the document record.
package placeholder

import (
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/invopdf/invopdf/pkg/model"
)

var printer = message.NewPrinter(language.English)

// dateLayouts are the wire formats accepted for document dates
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05.000Z07:00",
}

// Currency formats an amount as "RM 1,234.50"
func Currency(amount float64) string {
	return printer.Sprintf("RM %v", number.Decimal(amount, number.Scale(2)))
}

// Date reformats a document date as DD/MM/YYYY. Empty input yields an empty
// string; unparseable input is returned verbatim.
func Date(value string) string {
	if value == "" {
		return ""
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Format("02/01/2006")
		}
	}
	return value
}

// Resolve replaces every occurrence of a recognized {token} in content with
// the corresponding field of the document record. Unknown tokens are left
// verbatim; string fields that are unset resolve to an empty string. Resolve
// is pure and idempotent on content containing no token syntax.
func Resolve(content string, inv *model.Invoice) string {
	if inv == nil || !strings.Contains(content, "{") {
		return content
	}

	replacer := strings.NewReplacer(
		"{company_name}", inv.CompanyName,
		"{address}", inv.Address,
		"{attention}", inv.Attention,
		"{telephone}", inv.Telephone,
		"{invoice_number}", inv.InvoiceNumber,
		"{invoice_date}", Date(inv.InvoiceDate),
		"{subtotal}", Currency(inv.Subtotal),
		"{total}", Currency(inv.Total),
	)
	return replacer.Replace(content)
}
