package model

// XPPerLevel is the experience span of one exploration level.
const XPPerLevel = 1000

// ExplorationStats accumulates a player's experience across missions.
// Level is derived from XP and recomputed on every grant.
// swagger:model ExplorationStats
type ExplorationStats struct {
	BaseModel

	UserID uint `gorm:"uniqueIndex;not null" json:"userId"`
	XP     int  `gorm:"default:0" json:"xp"`
	Level  int  `gorm:"default:1" json:"level"`
}

func (ExplorationStats) TableName() string {
	return "exploration_stats"
}

// LevelForXP maps cumulative experience to a level.
func LevelForXP(xp int) int {
	return xp/XPPerLevel + 1
}
