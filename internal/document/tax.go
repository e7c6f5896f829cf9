package document

import (
	"go-erp-docs/internal/model"

	"github.com/shopspring/decimal"
)

var (
	ppnRate   = decimal.RequireFromString("0.12")
	pph23Rate = decimal.RequireFromString("0.02")

	// DPP barang = 11/12 dari subtotal
	goodsDPPNumerator   = decimal.NewFromInt(11)
	goodsDPPDenominator = decimal.NewFromInt(12)

	hundred = decimal.NewFromInt(100)
)

// moneyPlaces is the rounding applied to every computed figure
const moneyPlaces = 2

// WithholdingMode decides how PPH23 enters an invoice grand total.
type WithholdingMode int

const (
	// WithholdingDeducted subtracts PPH23 on service lines; the payer withholds it.
	WithholdingDeducted WithholdingMode = iota
	// WithholdingAdded adds PPH23 on top, as the legacy invoice printout did.
	WithholdingAdded
)

// InvoiceWithholding is the policy every invoice total in this system uses.
// Changing it needs product-owner sign-off: the printed and the computed
// totals disagreed in the past.
const InvoiceWithholding = WithholdingDeducted

// ItemTax is the tax breakdown of a single line item
type ItemTax struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	DPP      decimal.Decimal `json:"dpp"`
	PPN      decimal.Decimal `json:"ppn"`
	PPH23    decimal.Decimal `json:"pph23"`
}

func round(d decimal.Decimal) decimal.Decimal {
	return d.Round(moneyPlaces)
}

func isGoods(c model.Category) bool {
	return model.ParseCategory(string(c)) == model.CategoryGoods
}

// CalculateItemTax computes subtotal, DPP, PPN and PPH23 from the item's
// unit price, qty and category. Input is not validated here.
func CalculateItemTax(item model.TransactionItem) ItemTax {
	subtotal := item.Price.Mul(item.Qty)

	var dpp, pph23 decimal.Decimal
	if isGoods(item.Category) {
		dpp = subtotal.Mul(goodsDPPNumerator).Div(goodsDPPDenominator)
	} else {
		dpp = subtotal
		pph23 = dpp.Mul(pph23Rate)
	}
	ppn := dpp.Mul(ppnRate)

	return ItemTax{
		Subtotal: round(subtotal),
		DPP:      round(dpp),
		PPN:      round(ppn),
		PPH23:    round(pph23),
	}
}

// SellingPrice is price × (100 + margin) / 100
func SellingPrice(item model.TransactionItem) decimal.Decimal {
	return item.Price.Mul(hundred.Add(item.Margin)).Div(hundred)
}

// Amount is qty × selling price
func Amount(item model.TransactionItem) decimal.Decimal {
	return round(item.Qty.Mul(SellingPrice(item)))
}

// CalculateTotal returns the document total. Non-invoice documents use the
// plain Σ price × qty; invoices sum the per-item tax breakdown under
// InvoiceWithholding.
func CalculateTotal(items []model.TransactionItem, docType model.DocumentType) decimal.Decimal {
	if docType != model.DocInvoice {
		total := decimal.Zero
		for _, item := range items {
			total = total.Add(item.Price.Mul(item.Qty))
		}
		return round(total)
	}
	return InvoiceGrandTotal(items, InvoiceWithholding)
}

// InvoiceGrandTotal sums dpp + ppn per item and applies PPH23 on service
// lines according to mode.
func InvoiceGrandTotal(items []model.TransactionItem, mode WithholdingMode) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		tax := CalculateItemTax(item)
		line := tax.DPP.Add(tax.PPN)
		if !isGoods(item.Category) {
			if mode == WithholdingAdded {
				line = line.Add(tax.PPH23)
			} else {
				line = line.Sub(tax.PPH23)
			}
		}
		total = total.Add(line)
	}
	return round(total)
}

// LineSummary is one row of a document summary
type LineSummary struct {
	Position     int             `json:"position"`
	Category     model.Category  `json:"category"`
	Qty          decimal.Decimal `json:"qty"`
	Price        decimal.Decimal `json:"price"`
	Margin       decimal.Decimal `json:"margin"`
	SellingPrice decimal.Decimal `json:"selling_price"`
	Amount       decimal.Decimal `json:"amount"`
	Tax          ItemTax         `json:"tax"`
}

// Summary aggregates the figures a printable document shows
type Summary struct {
	Type       model.DocumentType `json:"type"`
	Lines      []LineSummary      `json:"lines"`
	Subtotal   decimal.Decimal    `json:"subtotal"`
	DPP        decimal.Decimal    `json:"dpp"`
	PPN        decimal.Decimal    `json:"ppn"`
	PPH23      decimal.Decimal    `json:"pph23"`
	GrandTotal decimal.Decimal    `json:"grand_total"`
	Formatted  FormattedTotals    `json:"formatted"`
}

// FormattedTotals holds the Rupiah strings of Summary's totals
type FormattedTotals struct {
	Subtotal   string `json:"subtotal"`
	DPP        string `json:"dpp"`
	PPN        string `json:"ppn"`
	PPH23      string `json:"pph23"`
	GrandTotal string `json:"grand_total"`
}

// Summarize builds the per-line and total figures for a document. The grand
// total always comes from CalculateTotal so there is a single formula.
func Summarize(docType model.DocumentType, items []model.TransactionItem) Summary {
	s := Summary{
		Type:     docType,
		Lines:    make([]LineSummary, 0, len(items)),
		Subtotal: decimal.Zero,
		DPP:      decimal.Zero,
		PPN:      decimal.Zero,
		PPH23:    decimal.Zero,
	}
	for i, item := range items {
		tax := CalculateItemTax(item)
		s.Lines = append(s.Lines, LineSummary{
			Position:     i + 1,
			Category:     item.Category,
			Qty:          item.Qty,
			Price:        item.Price,
			Margin:       item.Margin,
			SellingPrice: round(SellingPrice(item)),
			Amount:       Amount(item),
			Tax:          tax,
		})
		s.Subtotal = s.Subtotal.Add(tax.Subtotal)
		s.DPP = s.DPP.Add(tax.DPP)
		s.PPN = s.PPN.Add(tax.PPN)
		s.PPH23 = s.PPH23.Add(tax.PPH23)
	}
	s.GrandTotal = CalculateTotal(items, docType)
	s.Formatted = FormattedTotals{
		Subtotal:   FormatRupiah(s.Subtotal),
		DPP:        FormatRupiah(s.DPP),
		PPN:        FormatRupiah(s.PPN),
		PPH23:      FormatRupiah(s.PPH23),
		GrandTotal: FormatRupiah(s.GrandTotal),
	}
	return s
}
