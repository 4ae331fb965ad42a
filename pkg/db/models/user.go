package models

import "time"

// User roles. The role claim in access tokens carries these values verbatim.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// User represents the canonical identity entity. Username and email are
// unique case-insensitively; the application checks with lower() lookups and
// the store enforces it with functional unique indexes.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"size:50;not null;uniqueIndex" json:"username"`
	Email        string    `gorm:"size:100;not null;uniqueIndex" json:"email"`
	PasswordHash string    `gorm:"column:password_hash;not null" json:"-"`
	FullName     string    `gorm:"column:full_name;size:100;not null" json:"fullName"`
	PhoneNumber  *string   `gorm:"column:phone_number;size:20" json:"phoneNumber,omitempty"`
	Role         string    `gorm:"size:20;not null;default:'USER'" json:"role"`
	Enabled      bool      `gorm:"not null;default:true" json:"enabled"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

// IsAdmin reports whether the user holds the ADMIN role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
