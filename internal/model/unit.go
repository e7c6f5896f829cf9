package model

// Unit of measure used by products and line items
type Unit struct {
	Name string `gorm:"type:varchar(20);primaryKey" json:"name"`
}

// DefaultUnits are seeded on first start
var DefaultUnits = []string{"Pcs", "Unit", "Lot", "Kg", "Mtr"}
