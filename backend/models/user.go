package models

import "gorm.io/gorm"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	gorm.Model
	Username     string `gorm:"unique;not null"`
	Email        string
	PasswordHash string `gorm:"not null"`
	FirstName    string
	LastName     string
	Role         string `gorm:"default:user"` // user, admin
	Profile      Profile
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Profile holds the coding-judge side of an account.
type Profile struct {
	gorm.Model
	UserID           uint   `gorm:"uniqueIndex;not null"`
	LeetCodeUsername string `gorm:"index"`
	AvatarURL        string
	Bio              string
}
