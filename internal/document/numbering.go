package document

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"go-erp-docs/internal/model"

	"github.com/google/uuid"
)

// DocPrefix returns the numbering prefix for a type and month,
// e.g. QT202501 or DO#202501.
func DocPrefix(docType model.DocumentType, date time.Time) string {
	ym := fmt.Sprintf("%04d%02d", date.Year(), int(date.Month()))
	switch docType {
	case model.DocQuotation:
		return "QT" + ym
	case model.DocDeliveryOrder:
		return "DO#" + ym
	case model.DocHandoverProtocol:
		return "HOP" + ym
	case model.DocInvoice:
		return "INV" + ym
	}
	return string(docType) + ym
}

// NextDocNumber computes the next number in the (type, month) sequence from
// the given snapshot of existing documents. Callers must hold the sequence
// lock while reading the snapshot and inserting the result.
func NextDocNumber(docType model.DocumentType, date time.Time, existing []model.Transaction) string {
	prefix := DocPrefix(docType, date)

	maxSeq := 0
	for _, t := range existing {
		if t.Type != docType || !strings.HasPrefix(t.DocNumber, prefix) {
			continue
		}
		if seq := sequenceOf(t.DocNumber, prefix); seq > maxSeq {
			maxSeq = seq
		}
	}
	return fmt.Sprintf("%s%03d", prefix, maxSeq+1)
}

// sequenceOf parses the numeric suffix; anything non-numeric counts as 0
func sequenceOf(docNumber, prefix string) int {
	seq, err := strconv.Atoi(strings.TrimPrefix(docNumber, prefix))
	if err != nil || seq < 0 {
		return 0
	}
	return seq
}

// DocNumberTaken reports whether another document of the same type already
// uses docNumber.
func DocNumberTaken(docType model.DocumentType, docNumber string, existing []model.Transaction, selfID uuid.UUID) bool {
	for _, t := range existing {
		if t.Type == docType && t.DocNumber == docNumber && t.ID != selfID {
			return true
		}
	}
	return false
}
