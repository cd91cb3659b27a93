package model

import "time"

// セッションごとのカート保存枠（1セッション=1行）。
// 中身はカート明細のJSON。毎回まるごと上書きする
type CartSnapshot struct {
	SessionKey string    `gorm:"type:varchar(64);primaryKey" json:"session_key"`
	Payload    string    `gorm:"type:text;not null" json:"payload"`
	UpdatedAt  time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
