package model

// Client is a customer that documents are issued to
type Client struct {
	BaseModel
	Name    string `gorm:"type:varchar(255);not null" json:"name"`
	Address string `gorm:"type:text" json:"address"`
	Email   string `gorm:"type:varchar(255)" json:"email"`
	PIC     string `gorm:"column:pic;type:varchar(255)" json:"pic"`
	NPWP    string `gorm:"column:npwp;type:varchar(30)" json:"npwp"`
}
