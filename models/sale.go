package models

import "time"

// Sale records a completed purchase of a sale-kind car.
type Sale struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	InvoiceNumber string    `json:"invoiceNumber" gorm:"uniqueIndex;not null"`
	CarID         uint      `json:"carId" gorm:"not null;index"`
	Car           Car       `json:"car,omitempty" gorm:"foreignKey:CarID"`
	DealerID      uint      `json:"dealerId" gorm:"not null;index"`
	Dealer        User      `json:"dealer,omitempty" gorm:"foreignKey:DealerID"`
	BuyerID       uint      `json:"buyerId" gorm:"not null;index"`
	Buyer         User      `json:"buyer,omitempty" gorm:"foreignKey:BuyerID"`
	Price         float64   `json:"price" gorm:"not null"` // snapshot of SalePrice at purchase time
	CreatedAt     time.Time `json:"createdAt"`
}
