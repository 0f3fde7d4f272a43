package models

import "time"

type UserRole string

const (
	RoleAdmin      UserRole = "admin"
	RoleSales      UserRole = "sales"
	RoleProduction UserRole = "production"
	RoleFitting    UserRole = "fitting"
	RoleWarehouse  UserRole = "warehouse"
	RoleUser       UserRole = "user"
)

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:100;not null" json:"name"`
	Email        string    `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	Role         UserRole  `gorm:"size:20;not null" json:"role"`
	Mobile       string    `gorm:"size:20" json:"mobile"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
