package service

import (
	"errors"
	"explora_backend/internal/model"
	"explora_backend/internal/repository"
	"explora_backend/internal/util"

	"gorm.io/gorm"
)

// AuthoringService creates the reference data the progression engine
// consumes. Admin only; gameplay never writes through this path.
type AuthoringService struct {
	MissionRepo *repository.MissionRepository
	BadgeRepo   *repository.BadgeRepository
	Content     *ContentService
	DB          *gorm.DB
}

func NewAuthoringService(
	missionRepo *repository.MissionRepository,
	badgeRepo *repository.BadgeRepository,
	content *ContentService,
	db *gorm.DB,
) *AuthoringService {
	return &AuthoringService{
		MissionRepo: missionRepo,
		BadgeRepo:   badgeRepo,
		Content:     content,
		DB:          db,
	}
}

type QuizQuestionRequest struct {
	Text              string `json:"text" binding:"required"`
	OptionA           string `json:"optionA" binding:"required"`
	OptionB           string `json:"optionB" binding:"required"`
	OptionC           string `json:"optionC" binding:"required"`
	OptionD           string `json:"optionD" binding:"required"`
	CorrectOption     string `json:"correctOption" binding:"required,oneof=A B C D"`
	FeedbackCorrect   string `json:"feedbackCorrect"`
	FeedbackIncorrect string `json:"feedbackIncorrect"`
	Points            int    `json:"points"`
}

type PhaseRequest struct {
	Type        model.PhaseType       `json:"type" binding:"required"`
	Description string                `json:"description"`
	Config      model.PhaseConfig     `json:"config"`
	Points      int                   `json:"points"`
	XPReward    int                   `json:"xpReward"`
	Questions   []QuizQuestionRequest `json:"questions"`
}

type MissionCreateRequest struct {
	Title              string         `json:"title" binding:"required"`
	Description        string         `json:"description"`
	CoverURL           string         `json:"coverUrl"`
	Difficulty         string         `json:"difficulty"`
	XPReward           int            `json:"xpReward"`
	MinLevel           int            `json:"minLevel"`
	IsActive           bool           `json:"isActive"`
	PrerequisiteIDs    []uint         `json:"prerequisiteIds"`
	BadgeCodes         []string       `json:"badgeCodes"`
	RequiredBadgeCodes []string       `json:"requiredBadgeCodes"`
	Phases             []PhaseRequest `json:"phases" binding:"required,min=1"`
}

type BadgeCreateRequest struct {
	Code        string `json:"code" binding:"required"`
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	IconURL     string `json:"iconUrl"`
	Rarity      string `json:"rarity"`
}

func (s *AuthoringService) CreateBadge(req BadgeCreateRequest) (*model.Badge, error) {
	if req.Rarity == "" {
		req.Rarity = model.BadgeRarityCommon
	}
	badge := &model.Badge{
		Code:        req.Code,
		Name:        req.Name,
		Description: req.Description,
		IconURL:     req.IconURL,
		Rarity:      req.Rarity,
		IsActive:    true,
	}
	if err := s.BadgeRepo.Create(badge); err != nil {
		return nil, err
	}
	return badge, nil
}

// CreateMission writes the mission, its phases and quiz questions, and the
// badge links in one transaction. Phases are numbered in request order.
func (s *AuthoringService) CreateMission(req MissionCreateRequest) (*model.Mission, error) {
	for _, p := range req.Phases {
		if _, ok := validatorFor(p.Type); !ok {
			return nil, util.Validationf("unknown phase type %q", p.Type)
		}
		if p.Type == model.PhaseQuiz && len(p.Questions) == 0 {
			return nil, util.Validationf("quiz phase needs at least one question")
		}
	}
	if req.Difficulty == "" {
		req.Difficulty = model.MissionDifficultyEasy
	}
	if req.MinLevel <= 0 {
		req.MinLevel = 1
	}

	badges, err := s.resolveBadges(req.BadgeCodes)
	if err != nil {
		return nil, err
	}
	requiredBadges, err := s.resolveBadges(req.RequiredBadgeCodes)
	if err != nil {
		return nil, err
	}

	var prerequisites []*model.Mission
	for _, id := range req.PrerequisiteIDs {
		pre, err := s.MissionRepo.FindByID(id)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrMissionNotFound
		}
		if err != nil {
			return nil, err
		}
		prerequisites = append(prerequisites, pre)
	}

	var created *model.Mission
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		mission := &model.Mission{
			Title:          req.Title,
			Description:    req.Description,
			CoverURL:       req.CoverURL,
			Difficulty:     req.Difficulty,
			XPReward:       req.XPReward,
			MinLevel:       req.MinLevel,
			IsActive:       req.IsActive,
			Prerequisites:  prerequisites,
			Badges:         badges,
			RequiredBadges: requiredBadges,
		}
		if err := tx.Create(mission).Error; err != nil {
			return err
		}

		for idx, p := range req.Phases {
			phase := &model.Phase{
				MissionID:      mission.ID,
				SequenceNumber: idx + 1,
				Type:           p.Type,
				Description:    p.Description,
				Config:         p.Config,
				Points:         p.Points,
				XPReward:       p.XPReward,
			}
			if err := tx.Create(phase).Error; err != nil {
				return err
			}

			for qIdx, q := range p.Questions {
				question := &model.QuizQuestion{
					PhaseID:           phase.ID,
					Order:             qIdx + 1,
					Text:              q.Text,
					OptionA:           q.OptionA,
					OptionB:           q.OptionB,
					OptionC:           q.OptionC,
					OptionD:           q.OptionD,
					CorrectOption:     q.CorrectOption,
					FeedbackCorrect:   q.FeedbackCorrect,
					FeedbackIncorrect: q.FeedbackIncorrect,
					Points:            q.Points,
				}
				if err := tx.Create(question).Error; err != nil {
					return err
				}
			}
		}

		created = mission
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// SetMissionActive toggles a mission's visibility without touching any
// player progress.
func (s *AuthoringService) SetMissionActive(missionID uint, active bool) error {
	res := s.DB.Model(&model.Mission{}).Where("id = ?", missionID).
		Update("is_active", active)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return util.ErrMissionNotFound
	}

	phases, err := s.MissionRepo.GetPhases(missionID)
	if err == nil {
		for _, p := range phases {
			s.Content.Invalidate(p.ID)
		}
	}
	return nil
}

func (s *AuthoringService) resolveBadges(codes []string) ([]model.Badge, error) {
	var badges []model.Badge
	for _, code := range codes {
		badge, err := s.BadgeRepo.FindByCode(code)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrBadgeNotFound
		}
		if err != nil {
			return nil, err
		}
		badges = append(badges, *badge)
	}
	return badges, nil
}
