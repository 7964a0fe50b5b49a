package model

const (
	BadgeRarityCommon    = "common"
	BadgeRarityRare      = "rare"
	BadgeRarityEpic      = "epic"
	BadgeRarityLegendary = "legendary"
)

// Badge is a global achievement. A player holds any badge at most once,
// no matter how many missions reference it.
// swagger:model Badge
type Badge struct {
	BaseModel

	Code        string `gorm:"size:50;uniqueIndex;not null" json:"code"`
	Name        string `gorm:"size:100;not null" json:"name"`
	Description string `gorm:"size:500" json:"description"`
	IconURL     string `gorm:"size:255" json:"iconUrl"`
	Rarity      string `gorm:"size:20;default:'common'" json:"rarity"`
	IsActive    bool   `gorm:"default:true" json:"isActive"`
}

func (Badge) TableName() string {
	return "badges"
}
