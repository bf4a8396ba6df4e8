package models

import "time"

// ApprovalStatus is the disposition of a dealer-upgrade request.
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

type DealerApprovalRequest struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	UserID      uint           `json:"userId" gorm:"not null;index"`
	User        User           `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Phone       string         `json:"phone" gorm:"not null"`
	Description string         `json:"description" gorm:"not null"` // free-text justification
	Status      ApprovalStatus `json:"status" gorm:"not null;default:'pending'"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}
