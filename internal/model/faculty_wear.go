package model

import "time"

// FacultyWear is one catalog entry of the faculty wear shop. An entry is
// never persisted without an image; CustomPrice is NULL when custom sizing
// is not offered for the item.
type FacultyWear struct {
	ID            uint64  `gorm:"primaryKey;autoIncrement"`
	Title         string  `gorm:"size:200;not null"`
	Description   string  `gorm:"type:text;not null"`
	ImageURL      string  `gorm:"size:512;not null"`
	BadgeText     string  `gorm:"size:100"`
	StandardPrice float64 `gorm:"not null"`
	CustomPrice   *float64
	AddToCartText string `gorm:"size:100"`
	AddToCartLink string `gorm:"size:512"`
	BuyNowText    string `gorm:"size:100"`
	BuyNowLink    string `gorm:"size:512"`
	// `order` is reserved in SQL, so the sort key lives in display_order.
	DisplayOrder int `gorm:"column:display_order;not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (FacultyWear) TableName() string {
	return "faculty_wears"
}
