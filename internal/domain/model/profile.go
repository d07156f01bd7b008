package model

import "time"

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleCustomer Role = "customer"
)

// 認証プリンシパルに対応するプロフィール。IDは認証基盤のユーザーID（uuid）と同一。
// roleの変更は管理操作経由のみ
type Profile struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	Role      Role      `gorm:"type:varchar(20);not null;default:'customer'" json:"role"`
	FullName  string    `gorm:"type:varchar(255)" json:"full_name"`
	AvatarURL string    `gorm:"type:text" json:"avatar_url"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
