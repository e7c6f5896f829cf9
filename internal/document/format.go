package document

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var rupiahPrinter = message.NewPrinter(language.Indonesian)

// FormatRupiah renders an amount as integer Rupiah with Indonesian
// thousands grouping, e.g. 1500000 -> "Rp 1.500.000".
func FormatRupiah(amount decimal.Decimal) string {
	return rupiahPrinter.Sprintf("Rp %d", amount.Round(0).IntPart())
}
