package model

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Category of a catalog entry or line item
type Category string

const (
	CategoryGoods   Category = "Barang"
	CategoryService Category = "Service"
)

// ParseCategory normalizes a category string case-insensitively.
// Unknown or empty input yields "".
func ParseCategory(s string) Category {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "barang", "goods":
		return CategoryGoods
	case "service", "jasa":
		return CategoryService
	}
	return ""
}

type Product struct {
	BaseModel
	Name        string          `gorm:"type:varchar(255);not null" json:"name"`
	Description string          `gorm:"type:text" json:"description"`
	Category    Category        `gorm:"type:varchar(20);not null;default:'Barang'" json:"category"`
	Unit        string          `gorm:"type:varchar(20)" json:"unit"`
	Price       decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"price"`
}
