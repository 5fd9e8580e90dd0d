package model

import "time"

type Role string

const (
	RoleUser   Role = "USER"
	RoleSeller Role = "SELLER"
	RoleAdmin  Role = "ADMIN"
)

// ユーザー。出品者の場合はショップ情報も持つ。
// ClientIDがそのままテナントIDになる（商品・注文のClientIDと突き合わせる）。
type User struct {
	Base
	Email          string `gorm:"uniqueIndex;not null" json:"email"`
	Name           string `gorm:"type:varchar(255)" json:"name"`
	PasswordHash   string `gorm:"column:password_hash;not null" json:"-"`
	Role           Role   `gorm:"type:varchar(20);not null;default:'USER'" json:"role"`
	IsActive       bool   `gorm:"not null;default:true" json:"is_active"`
	ProfilePicture string `gorm:"type:text" json:"profile_picture"`

	//出品者プロフィール
	ShopName         string `gorm:"type:varchar(255)" json:"shop_name"`
	ShopDescription  string `gorm:"type:text" json:"shop_description"`
	IsVerifiedSeller bool   `gorm:"not null;default:false" json:"is_verified_seller"`

	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}
