package repository

import (
	"explora_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

func (r *ProgressRepository) Create(progress *model.UserMissionProgress) error {
	return r.DB.Create(progress).Error
}

func (r *ProgressRepository) FindByID(id uint) (*model.UserMissionProgress, error) {
	var p model.UserMissionProgress
	if err := r.DB.First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// FindByIDForUpdate takes a row lock so no other request can interleave a
// read-modify-write on the same (player, mission) run.
func (r *ProgressRepository) FindByIDForUpdate(tx *gorm.DB, id uint) (*model.UserMissionProgress, error) {
	var p model.UserMissionProgress
	err := forUpdate(tx).First(&p, id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// forUpdate adds a row lock. SQLite has no FOR UPDATE clause and serializes
// writers itself, so the clause is skipped there.
func forUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

func (r *ProgressRepository) FindByUserAndMission(userID, missionID uint) (*model.UserMissionProgress, error) {
	var p model.UserMissionProgress
	err := r.DB.Where("user_id = ? AND mission_id = ?", userID, missionID).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProgressRepository) FindByUser(userID uint) ([]model.UserMissionProgress, error) {
	var rows []model.UserMissionProgress
	err := r.DB.Where("user_id = ?", userID).Find(&rows).Error
	return rows, err
}

func (r *ProgressRepository) CreateAnswer(tx *gorm.DB, answer *model.PhaseAnswer) error {
	return tx.Create(answer).Error
}

func (r *ProgressRepository) FindAnswer(tx *gorm.DB, progressID, questionID uint) (*model.PhaseAnswer, error) {
	var a model.PhaseAnswer
	err := tx.Where("progress_id = ? AND question_id = ?", progressID, questionID).First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *ProgressRepository) GetPhaseAnswers(tx *gorm.DB, progressID, phaseID uint) ([]model.PhaseAnswer, error) {
	var answers []model.PhaseAnswer
	err := tx.Where("progress_id = ? AND phase_id = ?", progressID, phaseID).Find(&answers).Error
	return answers, err
}

func (r *ProgressRepository) CountPhaseAnswers(tx *gorm.DB, progressID, phaseID uint) (int64, error) {
	var count int64
	err := tx.Model(&model.PhaseAnswer{}).
		Where("progress_id = ? AND phase_id = ?", progressID, phaseID).
		Count(&count).Error
	return count, err
}
