package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

type User struct {
	ID           string `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string `gorm:"type:varchar(100);not null" json:"name"`
	Email        string `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"column:password_hash;type:varchar(255);not null" json:"-"`

	HasVerifiedEmail bool       `gorm:"not null;default:false" json:"has_verified_email"`
	EmailVerifiedAt  *time.Time `json:"-"`

	// refreshTokenは生の値ではなくsha256ハッシュだけ保存する
	RefreshTokenHash      string     `gorm:"type:varchar(255)" json:"-"`
	RefreshTokenExpiresAt *time.Time `json:"-"`

	Role        Role       `gorm:"type:varchar(20);not null;default:'USER'" json:"role"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`

	CreatedAt time.Time      `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}
