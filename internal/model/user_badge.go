package model

import "time"

// UserBadge records that a player obtained a badge. The unique index makes
// the grant idempotent even when several missions reference the same badge.
// swagger:model UserBadge
type UserBadge struct {
	BaseModel

	UserID     uint      `gorm:"uniqueIndex:idx_user_badge;not null" json:"userId"`
	BadgeID    uint      `gorm:"uniqueIndex:idx_user_badge;not null" json:"badgeId"`
	MissionID  *uint     `json:"missionId,omitempty"`
	AcquiredAt time.Time `json:"acquiredAt"`

	Badge Badge `gorm:"foreignKey:BadgeID" json:"badge"`
}

func (UserBadge) TableName() string {
	return "user_badges"
}
