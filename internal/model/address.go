package model

// Address is the optional companion record created from the address fields of
// an application. The owning member points at it via primary_address_id.
type Address struct {
	ID uint32 `gorm:"column:id;primaryKey;autoIncrement"`

	Title        string `gorm:"column:title;type:VARCHAR2(160);not null"`
	AddressLine1 string `gorm:"column:address_line1;type:VARCHAR2(255);not null"`
	AddressLine2 string `gorm:"column:address_line2;type:VARCHAR2(255)"`
	City         string `gorm:"column:city;type:VARCHAR2(100);not null"`
	PostalCode   string `gorm:"column:postal_code;type:VARCHAR2(20);not null"`
	Country      string `gorm:"column:country;type:VARCHAR2(100);not null"`

	BaseEntity
}

func (*Address) TableName() string {
	return "address"
}
