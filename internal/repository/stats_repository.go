package repository

import (
	"explora_backend/internal/model"

	"gorm.io/gorm"
)

type StatsRepository struct {
	DB *gorm.DB
}

func NewStatsRepository(db *gorm.DB) *StatsRepository {
	return &StatsRepository{DB: db}
}

// GetOrCreateForUpdate loads the player's stats row under a row lock,
// creating it lazily on first access.
func (r *StatsRepository) GetOrCreateForUpdate(tx *gorm.DB, userID uint) (*model.ExplorationStats, error) {
	var stats model.ExplorationStats
	err := forUpdate(tx).
		Where("user_id = ?", userID).First(&stats).Error
	if err == gorm.ErrRecordNotFound {
		stats = model.ExplorationStats{UserID: userID, Level: 1}
		if err := tx.Create(&stats).Error; err != nil {
			return nil, err
		}
		return &stats, nil
	}
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

func (r *StatsRepository) FindByUser(userID uint) (*model.ExplorationStats, error) {
	var stats model.ExplorationStats
	err := r.DB.Where("user_id = ?", userID).First(&stats).Error
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

func (r *StatsRepository) Save(tx *gorm.DB, stats *model.ExplorationStats) error {
	return tx.Save(stats).Error
}

type LeaderboardRow struct {
	UserID uint   `json:"userId"`
	Name   string `json:"name"`
	XP     int    `json:"xp"`
	Level  int    `json:"level"`
}

func (r *StatsRepository) TopByXP(limit int) ([]LeaderboardRow, error) {
	var rows []LeaderboardRow
	err := r.DB.Table("exploration_stats").
		Select("exploration_stats.user_id, users.name, exploration_stats.xp, exploration_stats.level").
		Joins("JOIN users ON users.id = exploration_stats.user_id").
		Order("exploration_stats.xp DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}
