package model

import "time"

// 全集約共通のフィールド。
// ClientIDはテナント（出品者・顧客）の識別子で、Ownedスコープの絞り込みに使う。
type Base struct {
	ID        string     `gorm:"type:uuid;primaryKey" json:"id"`
	ClientID  string     `gorm:"type:uuid;index" json:"client_id"`
	CreatedAt time.Time  `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"not null;autoUpdateTime" json:"updated_at"`
	DeletedAt *time.Time `json:"-"`

	//物理削除はしない（フラグ＋時刻）
	IsDeleted bool `gorm:"not null;default:false;index" json:"-"`
}
