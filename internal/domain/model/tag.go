package model

// タグの対象種別
const (
	TagKindProduct = "product"
	TagKindOrder   = "order"
)

// テナントごとのタグ。(ClientID, Name, Kind)で一意。
type Tag struct {
	Base
	Name string `gorm:"type:varchar(100);not null;index" json:"name"`
	Kind string `gorm:"type:varchar(20);not null;index" json:"kind"`
}
