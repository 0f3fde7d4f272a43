package models

import "time"

// ChairBOM: Bir sandalye modelinin parça listesi (bill of parts). Sipariş
// önizlemesi ve üretilebilir adet hesabı bu listeden beslenir.
type ChairBOM struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ChairModel string    `gorm:"size:100;uniqueIndex;not null" json:"chair_model"`
	Parts      []BOMPart `gorm:"constraint:OnDelete:CASCADE" json:"parts"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type BOMPart struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	ChairBOMID  uint   `gorm:"not null;index" json:"chair_bom_id"`
	PartName    string `gorm:"size:100;not null" json:"part_name"`
	QtyPerChair int    `gorm:"not null;default:1" json:"qty_per_chair"`
}
