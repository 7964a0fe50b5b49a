package repository

import (
	"explora_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BadgeRepository struct {
	DB *gorm.DB
}

func NewBadgeRepository(db *gorm.DB) *BadgeRepository {
	return &BadgeRepository{DB: db}
}

func (r *BadgeRepository) Create(badge *model.Badge) error {
	return r.DB.Create(badge).Error
}

func (r *BadgeRepository) FindByID(id uint) (*model.Badge, error) {
	var b model.Badge
	if err := r.DB.First(&b, id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BadgeRepository) FindByCode(code string) (*model.Badge, error) {
	var b model.Badge
	if err := r.DB.Where("code = ?", code).First(&b).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BadgeRepository) FindActive() ([]model.Badge, error) {
	var badges []model.Badge
	err := r.DB.Where("is_active = ?", true).Order("rarity, code").Find(&badges).Error
	return badges, err
}

func (r *BadgeRepository) FindUserBadges(userID uint) ([]model.UserBadge, error) {
	var rows []model.UserBadge
	err := r.DB.Preload("Badge").Where("user_id = ?", userID).Find(&rows).Error
	return rows, err
}

func (r *BadgeRepository) CountUserBadges(userID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.UserBadge{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

// GrantIfAbsent inserts the user badge unless the (user, badge) pair already
// exists. The unique index plus insert-or-ignore keeps concurrent completions
// from double-granting. Returns whether a new row was written.
func (r *BadgeRepository) GrantIfAbsent(tx *gorm.DB, userBadge *model.UserBadge) (bool, error) {
	res := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "badge_id"}},
		DoNothing: true,
	}).Create(userBadge)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
