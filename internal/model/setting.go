package model

import "gorm.io/datatypes"

// Setting is one company setting stored as a JSON value under a key
type Setting struct {
	Key   string         `gorm:"type:varchar(100);primaryKey" json:"key"`
	Value datatypes.JSON `gorm:"type:jsonb" json:"value"`
}

func (Setting) TableName() string {
	return "company_settings"
}

// DefaultSettings are written only when the key does not exist yet
var DefaultSettings = map[string]string{
	"name":      "PT. IDE SOLUSI INTEGRASI",
	"address":   "JL. KH. Abdullah Syafe'i no.23A Kebon Baru Tebet, Jakarta Selatan 12830",
	"phone":     "021-83796630-32",
	"adminName": "Admin Name",
}
