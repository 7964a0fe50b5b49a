package repository

import (
	"explora_backend/internal/model"

	"gorm.io/gorm"
)

// MissionRepository is the read side of the mission catalog. Reference data
// is authored up front and never mutated by gameplay.
type MissionRepository struct {
	DB *gorm.DB
}

func NewMissionRepository(db *gorm.DB) *MissionRepository {
	return &MissionRepository{DB: db}
}

func (r *MissionRepository) FindByID(id uint) (*model.Mission, error) {
	var m model.Mission
	err := r.DB.Preload("Badges").Preload("Prerequisites").Preload("RequiredBadges").
		First(&m, id).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *MissionRepository) FindActive() ([]model.Mission, error) {
	var missions []model.Mission
	err := r.DB.Preload("Badges").Preload("Prerequisites").Preload("RequiredBadges").
		Where("is_active = ?", true).
		Order("min_level, id").
		Find(&missions).Error
	return missions, err
}

// GetPhases returns the mission's phases ordered by sequence number. The
// progression logic always walks this list instead of doing sequence
// arithmetic, so gaps introduced by the authoring tool are harmless.
func (r *MissionRepository) GetPhases(missionID uint) ([]model.Phase, error) {
	var phases []model.Phase
	err := r.DB.Where("mission_id = ?", missionID).
		Order("sequence_number").
		Find(&phases).Error
	return phases, err
}

func (r *MissionRepository) GetPhase(phaseID uint) (*model.Phase, error) {
	var p model.Phase
	if err := r.DB.First(&p, phaseID).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *MissionRepository) GetPhaseBySequence(missionID uint, sequence int) (*model.Phase, error) {
	var p model.Phase
	err := r.DB.Where("mission_id = ? AND sequence_number = ?", missionID, sequence).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *MissionRepository) GetQuizQuestions(phaseID uint) ([]model.QuizQuestion, error) {
	var questions []model.QuizQuestion
	err := r.DB.Where("phase_id = ?", phaseID).
		Order("`order`").
		Find(&questions).Error
	return questions, err
}

func (r *MissionRepository) GetQuizQuestion(questionID uint) (*model.QuizQuestion, error) {
	var q model.QuizQuestion
	if err := r.DB.First(&q, questionID).Error; err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *MissionRepository) GetBadgesForMission(missionID uint) ([]model.Badge, error) {
	var badges []model.Badge
	err := r.DB.
		Joins("JOIN mission_badges ON mission_badges.badge_id = badges.id").
		Where("mission_badges.mission_id = ? AND badges.is_active = ?", missionID, true).
		Find(&badges).Error
	return badges, err
}

func (r *MissionRepository) Create(mission *model.Mission) error {
	return r.DB.Create(mission).Error
}
