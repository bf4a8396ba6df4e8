package models

import "time"

// RentalStatus represents all possible states of a rental request
type RentalStatus string

const (
	RentalPending   RentalStatus = "pending"
	RentalApproved  RentalStatus = "approved"
	RentalRejected  RentalStatus = "rejected"
	RentalCompleted RentalStatus = "completed"
	RentalCancelled RentalStatus = "cancelled"
)

type RentalRequest struct {
	ID         uint         `json:"id" gorm:"primaryKey"`
	Reference  string       `json:"reference" gorm:"uniqueIndex;not null"`
	CarID      uint         `json:"carId" gorm:"not null;index"`
	Car        Car          `json:"car,omitempty" gorm:"foreignKey:CarID"`
	UserID     uint         `json:"userId" gorm:"not null;index"`
	User       User         `json:"user,omitempty" gorm:"foreignKey:UserID"`
	StartDate  time.Time    `json:"startDate" gorm:"not null"`
	EndDate    time.Time    `json:"endDate" gorm:"not null"`
	Phone      string       `json:"phone" gorm:"not null"`
	TotalPrice float64      `json:"totalPrice"` // derived server-side, never client input
	Status     RentalStatus `json:"status" gorm:"not null;default:'pending'"`
	CreatedAt  time.Time    `json:"createdAt"`
	UpdatedAt  time.Time    `json:"updatedAt"`
}

// RentalStatusHistory tracks every status change of a rental request.
type RentalStatusHistory struct {
	ID         uint         `json:"id" gorm:"primaryKey"`
	RentalID   uint         `json:"rentalId" gorm:"not null;index"`
	FromStatus RentalStatus `json:"fromStatus"`
	ToStatus   RentalStatus `json:"toStatus" gorm:"not null"`
	ChangedBy  uint         `json:"changedBy"` // user ID who triggered the transition
	Note       string       `json:"note"`
	CreatedAt  time.Time    `json:"createdAt"`
}
