package models

import "time"

type UserRole string

const (
	RoleWorker UserRole = "worker"
	RoleAdmin  UserRole = "admin"
)

// User - сотрудник или админ, идентифицируется номером WhatsApp.
type User struct {
	ID           uint     `gorm:"primaryKey"`
	Phone        string   `gorm:"size:32;uniqueIndex;not null"` // 7XXXXXXXXXX@c.us
	Name         string   `gorm:"size:255"`
	PasswordHash string   `gorm:"size:255"` // только для входа в админ-API
	Role         UserRole `gorm:"size:20;not null"`
	IsActive     bool     `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
