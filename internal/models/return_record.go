package models

import "time"

type ReturnCategory string

const (
	ReturnFunctional    ReturnCategory = "Functional"
	ReturnNonFunctional ReturnCategory = "Non-Functional"
)

// ReturnRecord: İade kaydı. Yalnızca Functional kategorisindeki iadeler stoğa
// geri alınabilir; geri alma işlemi tek seferliktir.
type ReturnRecord struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	OrderID     string         `gorm:"size:20;uniqueIndex;not null" json:"order_id"`
	ChairModel  string         `gorm:"size:100;not null" json:"chair_model"`
	Description string         `gorm:"size:255" json:"description"`
	Quantity    int            `gorm:"not null;default:1" json:"quantity"`
	ReturnDate  time.Time      `gorm:"not null" json:"return_date"`
	Category    ReturnCategory `gorm:"size:20;not null" json:"category"`
	Vendor      string         `gorm:"size:100;not null" json:"vendor"`
	Location    string         `gorm:"size:100" json:"location"`

	MovedToInventory bool `gorm:"not null;default:false" json:"moved_to_inventory"`

	CreatedByID *uint     `json:"created_by_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
