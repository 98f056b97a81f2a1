package domain

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// ParseAmount interprets a currency cell from any of the source
// spreadsheets. Currency symbols, thousands separators and inner whitespace
// are stripped before parsing. Blank cells and the placeholder are expected
// and contribute zero; any other unparseable value contributes zero and is
// reported via the false return.
func ParseAmount(raw string) (decimal.Decimal, bool) {
	cleaned := strings.TrimSpace(raw)
	if cleaned == "" || cleaned == Placeholder {
		return decimal.Zero, true
	}
	cleaned = strings.NewReplacer("$", "", ",", "", " ", "", " ", "").Replace(cleaned)
	amount, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, false
	}
	return amount, true
}

var copPrinter = message.NewPrinter(language.Spanish)

// FormatCOP renders an integer peso amount with Spanish digit grouping and
// a currency prefix, the way the invoices and the summary sheet show money.
func FormatCOP(amount int64) string {
	return copPrinter.Sprintf("$ %d", amount)
}
