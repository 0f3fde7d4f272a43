package models

import "time"

type MovementReason string

const (
	MovementReasonTransfer   MovementReason = "TRANSFER"
	MovementReasonDispatch   MovementReason = "DISPATCH"
	MovementReasonReturn     MovementReason = "RETURN"
	MovementReasonAdjustment MovementReason = "ADJUSTMENT"
)

// StockMovement: Miktar hareketlerinin salt-ekleme denetim kaydı. Her başarılı
// transfer/sevkiyat/üretim-kabul işlemi bir kayıt üretir; kayıt sonradan
// değiştirilmez.
type StockMovement struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Kind         StockKind      `gorm:"size:20" json:"kind"`
	ItemName     string         `gorm:"size:100;not null;index" json:"item_name"`
	FromLocation string         `gorm:"size:100" json:"from_location"`
	ToLocation   string         `gorm:"size:100" json:"to_location"`
	Quantity     int            `gorm:"not null" json:"quantity"`
	MovedByID    uint           `gorm:"index" json:"moved_by_id"`
	MovedBy      *User          `json:"moved_by,omitempty"`
	Reason       MovementReason `gorm:"size:20;not null;default:TRANSFER" json:"reason"`
	CreatedAt    time.Time      `json:"created_at"`
}
