package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DocumentType is the kind of commercial document a Transaction is
type DocumentType string

const (
	DocQuotation        DocumentType = "QUOTATION"
	DocDeliveryOrder    DocumentType = "DELIVERY_ORDER"
	DocHandoverProtocol DocumentType = "HANDOVER_PROTOCOL" // BAST
	DocInvoice          DocumentType = "INVOICE"
)

// DocumentTypes lists the known types in lifecycle order
var DocumentTypes = []DocumentType{DocQuotation, DocDeliveryOrder, DocHandoverProtocol, DocInvoice}

// ParseDocumentType accepts the canonical names and the legacy short codes
// (QUO, DO, BAP/BAST, INV).
func ParseDocumentType(s string) (DocumentType, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "QUOTATION", "QUO", "QT":
		return DocQuotation, true
	case "DELIVERY_ORDER", "DO":
		return DocDeliveryOrder, true
	case "HANDOVER_PROTOCOL", "BAP", "BAST", "HOP":
		return DocHandoverProtocol, true
	case "INVOICE", "INV":
		return DocInvoice, true
	}
	return "", false
}

// Label is the short human name used in messages
func (t DocumentType) Label() string {
	switch t {
	case DocQuotation:
		return "Quotation"
	case DocDeliveryOrder:
		return "DO"
	case DocHandoverProtocol:
		return "BAST"
	case DocInvoice:
		return "Invoice"
	}
	return string(t)
}

type TransactionStatus string

const (
	StatusDraft    TransactionStatus = "Draft"
	StatusSent     TransactionStatus = "Sent"
	StatusPO       TransactionStatus = "PO"
	StatusPaid     TransactionStatus = "Paid"
	StatusRejected TransactionStatus = "Rejected"
	StatusUnpaid   TransactionStatus = "Unpaid"
)

// InvoiceMeta is stored as JSON on invoices only
type InvoiceMeta struct {
	DueDate   string `json:"due_date"` // YYYY-MM-DD
	Attention string `json:"attention"`
	DORef     string `json:"do_ref"`
	BASTRef   string `json:"bast_ref"`
}

type Transaction struct {
	BaseModel
	Type        DocumentType                    `gorm:"type:varchar(30);not null;index" json:"type"`
	DocNumber   string                          `gorm:"type:varchar(50);not null" json:"doc_number"`
	Date        time.Time                       `gorm:"type:date;not null;index" json:"date"`
	ClientID    uuid.UUID                       `gorm:"type:uuid;not null;index" json:"client_id"`
	Client      *Client                         `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	CustomerPO  string                          `gorm:"column:customer_po;type:varchar(100);not null;default:''" json:"customer_po"`
	Terms       string                          `gorm:"type:text" json:"terms"`
	Status      TransactionStatus               `gorm:"type:varchar(20);not null" json:"status"`
	InvoiceMeta datatypes.JSONType[InvoiceMeta] `gorm:"type:jsonb" json:"invoice_meta"`

	// Items di-replace seluruhnya setiap update; hapus transaksi ikut hapus item (CASCADE)
	Items []TransactionItem `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"items,omitempty"`
}

// HasConfirmedPO reports whether a customer PO number is set
func (t *Transaction) HasConfirmedPO() bool {
	return strings.TrimSpace(t.CustomerPO) != ""
}

// ClientName is safe to call when Client was not preloaded
func (t *Transaction) ClientName() string {
	if t.Client == nil {
		return ""
	}
	return t.Client.Name
}

// TransactionItem is a line item exclusively owned by one Transaction
type TransactionItem struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key;" json:"id"`
	TransactionID uuid.UUID       `gorm:"type:uuid;not null;index" json:"transaction_id"`
	Position      int             `gorm:"not null;default:0" json:"position"`
	ProductID     *uuid.UUID      `gorm:"type:uuid;index" json:"product_id"`
	Product       *Product        `gorm:"foreignKey:ProductID;constraint:OnDelete:SET NULL;" json:"product,omitempty"`
	Category      Category        `gorm:"type:varchar(20)" json:"category"`
	Qty           decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"qty"`
	Unit          string          `gorm:"type:varchar(20)" json:"unit"`
	Price         decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"price"` // harga dasar (cost basis)
	Margin        decimal.Decimal `gorm:"type:decimal(7,2);not null;default:0" json:"margin"` // persen
	SerialNumber  string          `gorm:"column:serial_number;type:varchar(255)" json:"sn"`
	Remarks       string          `gorm:"type:text" json:"remarks"`
}

func (i *TransactionItem) BeforeCreate(tx *gorm.DB) (err error) {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return
}
