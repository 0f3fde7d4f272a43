package models

import "time"

type InwardStatus string

const (
	InwardPending  InwardStatus = "PENDING"
	InwardAccepted InwardStatus = "ACCEPTED"
	InwardRejected InwardStatus = "REJECTED"
)

// ProductionInward: Üretimin depodan parça talebi. Depo sorumlusu (assignedTo)
// onaylayana kadar PENDING bekler; onay stok transferiyle birlikte tek
// transaction içinde gerçekleşir.
type ProductionInward struct {
	ID       uint         `gorm:"primaryKey" json:"id"`
	PartName string       `gorm:"size:100;not null" json:"part_name"`
	Quantity int          `gorm:"not null" json:"quantity"`
	Location string       `gorm:"size:100;not null" json:"location"` // hedef üretim lokasyonu (PROD_*)
	Status   InwardStatus `gorm:"size:10;not null;default:PENDING;index" json:"status"`

	CreatedByID  uint  `gorm:"not null" json:"created_by_id"`
	CreatedBy    *User `json:"created_by,omitempty"`
	AssignedToID uint  `gorm:"not null;index" json:"assigned_to_id"`
	AssignedTo   *User `json:"assigned_to,omitempty"`
	ApprovedByID *uint `json:"approved_by_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
