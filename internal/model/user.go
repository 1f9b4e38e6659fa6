package model

import "time"

// Roles a user can hold. Role gates privileged mutations such as
// changing another user's role.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents a registered user. The password hash is never
// serialized into responses.
type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Name         string    `json:"name" gorm:"size:255;not null"`
	Email        string    `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"`
	Role         string    `json:"role" gorm:"size:50;not null;default:'user'"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName pins the table name regardless of GORM naming strategy.
func (User) TableName() string { return "users" }

// ValidRole reports whether r is one of the known roles.
func ValidRole(r string) bool { return r == RoleUser || r == RoleAdmin }
