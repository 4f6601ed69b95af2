package model

import (
	"time"
)

type BaseModel struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

// UserSummary is the public projection of a user embedded in challenge,
// request and participant payloads.
type UserSummary struct {
	ID           int64  `gorm:"column:id" json:"id"`
	Nickname     string `gorm:"column:nickname" json:"nickname"`
	ProfileImage string `gorm:"column:profile_image" json:"profileImage"`
}
