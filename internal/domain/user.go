package domain

import "time"

// Roles a user can hold
const (
	RoleUser  = "user"  // Regular customer
	RoleAdmin = "admin" // Back-office operator
)

// User Model
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`                       // Primary key
	Name         string    `gorm:"size:100;not null" json:"name"`              // Display name
	Email        string    `gorm:"size:191;uniqueIndex;not null" json:"email"` // Unique email used to log in
	Password     string    `gorm:"not null" json:"-"`                          // Hashed password
	Role         string    `gorm:"size:16;default:user;index" json:"role"`     // Role: user or admin
	ProfileImage string    `gorm:"size:255" json:"profile_image"`              // Relative path of the avatar
	CreatedAt    time.Time `json:"created_at"`                                 // Registration time
	Wallet       *Wallet   `gorm:"constraint:OnDelete:CASCADE;" json:"-"`      // One-to-one relationship with Wallet
}

// IsValidRole reports whether role is one of the known roles
func IsValidRole(role string) bool {
	return role == RoleUser || role == RoleAdmin
}
