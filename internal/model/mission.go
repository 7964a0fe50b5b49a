package model

const (
	MissionDifficultyEasy   = "easy"
	MissionDifficultyMedium = "medium"
	MissionDifficultyHard   = "hard"
)

// Mission is authored reference data. Gameplay never mutates it.
// swagger:model Mission
type Mission struct {
	BaseModel

	Title       string `gorm:"size:255;not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	CoverURL    string `gorm:"size:255" json:"coverUrl"`
	Difficulty  string `gorm:"size:20;default:'easy'" json:"difficulty"`
	XPReward    int    `gorm:"default:0" json:"xpReward"`
	MinLevel    int    `gorm:"default:1" json:"minLevel"`
	IsActive    bool   `gorm:"default:true" json:"isActive"`

	// Missions that must be completed before this one unlocks.
	Prerequisites []*Mission `gorm:"many2many:mission_prerequisites;joinForeignKey:MissionID;joinReferences:RequiredMissionID" json:"prerequisites,omitempty"`

	// Badges granted when this mission completes.
	Badges []Badge `gorm:"many2many:mission_badges" json:"badges,omitempty"`

	// Badges the player must already hold before starting.
	RequiredBadges []Badge `gorm:"many2many:mission_required_badges" json:"requiredBadges,omitempty"`
}

func (Mission) TableName() string {
	return "missions"
}
