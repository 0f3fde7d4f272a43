package models

import "time"

// ActivityLog: Başarılı mutasyonlardan SONRA yazılan denetim kaydı. Core
// işlemler commit olmadan bu tabloya hiçbir şey yazılmaz.
type ActivityLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	UserID   uint     `gorm:"not null;index" json:"user_id"`
	UserName string   `gorm:"size:100;not null" json:"user_name"`
	UserRole UserRole `gorm:"size:20;not null" json:"user_role"`

	Action string `gorm:"size:50;not null" json:"action"`
	Module string `gorm:"size:50;not null" json:"module"`

	EntityType string `gorm:"size:50;index" json:"entity_type"`
	EntityID   uint   `gorm:"index" json:"entity_id"`

	Description string `gorm:"size:255;not null" json:"description"`

	SourceLocation string `gorm:"size:100" json:"source_location"`
	Destination    string `gorm:"size:100" json:"destination"`
	Quantity       int    `json:"quantity"`

	IsDeleted bool `gorm:"not null;default:false" json:"is_deleted"`
}
