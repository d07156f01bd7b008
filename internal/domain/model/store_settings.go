package model

import "time"

// 店舗設定。管理ユーザーごとに1行
type StoreSettings struct {
	ID     int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID string `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`

	StoreName    string `gorm:"type:varchar(255)" json:"store_name"`
	ContactEmail string `gorm:"type:varchar(255)" json:"contact_email"`
	ContactPhone string `gorm:"type:varchar(50)" json:"contact_phone"`

	AddressStreet  string `gorm:"type:varchar(255)" json:"address_street"`
	AddressCity    string `gorm:"type:varchar(255)" json:"address_city"`
	AddressState   string `gorm:"type:varchar(255)" json:"address_state"`
	AddressZipCode string `gorm:"type:varchar(20)" json:"address_zip_code"`

	LogoURL      string `gorm:"type:text" json:"logo_url"`
	DefaultTheme string `gorm:"type:varchar(20)" json:"default_theme"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
