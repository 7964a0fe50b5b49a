package service

import (
	"errors"
	"explora_backend/internal/model"
	"explora_backend/internal/repository"
	"explora_backend/internal/util"
	"explora_backend/pkg/logger"
	"explora_backend/pkg/monitoring"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// MissionService is the progression state machine. Every mutating operation
// runs as one transaction holding a row lock on the progress record, so two
// requests for the same (player, mission) run can never interleave.
type MissionService struct {
	MissionRepo  *repository.MissionRepository
	ProgressRepo *repository.ProgressRepository
	BadgeRepo    *repository.BadgeRepository
	StatsRepo    *repository.StatsRepository
	Reward       *RewardService
	Content      *ContentService
	DB           *gorm.DB
}

func NewMissionService(
	missionRepo *repository.MissionRepository,
	progressRepo *repository.ProgressRepository,
	badgeRepo *repository.BadgeRepository,
	statsRepo *repository.StatsRepository,
	reward *RewardService,
	content *ContentService,
	db *gorm.DB,
) *MissionService {
	return &MissionService{
		MissionRepo:  missionRepo,
		ProgressRepo: progressRepo,
		BadgeRepo:    badgeRepo,
		StatsRepo:    statsRepo,
		Reward:       reward,
		Content:      content,
		DB:           db,
	}
}

type StartMissionResult struct {
	ProgressID uint          `json:"progressId"`
	FirstPhase *PhaseContent `json:"firstPhase"`
}

// SubmitResult is the bundle returned by every submission path.
type SubmitResult struct {
	Feedback         []AnswerFeedback `json:"feedback"`
	ScoreDelta       int              `json:"scoreDelta"`
	Score            int              `json:"score"`
	CorrectCount     int              `json:"correctCount"`
	IncorrectCount   int              `json:"incorrectCount"`
	MissionCompleted bool             `json:"missionCompleted"`
	NextPhase        *PhaseContent    `json:"nextPhase,omitempty"`
	BadgesGranted    []model.Badge    `json:"badgesGranted"`
}

// StartMission creates the progress record for an eligible player and
// returns the first phase's content.
func (s *MissionService) StartMission(userID, missionID uint) (*StartMissionResult, error) {
	mission, err := s.MissionRepo.FindByID(missionID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrMissionNotFound
	}
	if err != nil {
		return nil, err
	}
	if !mission.IsActive {
		return nil, util.ErrMissionNotFound
	}

	if existing, err := s.ProgressRepo.FindByUserAndMission(userID, missionID); err == nil {
		if existing.Status == model.ProgressCompleted {
			return nil, util.ErrMissionAlreadyCompleted
		}
		return nil, util.ErrMissionAlreadyStarted
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	elig, err := s.eligibilityFor(userID)
	if err != nil {
		return nil, err
	}
	if reason := blockReason(mission, elig); reason != "" {
		return nil, util.Validationf("%s", reason)
	}

	phases, err := s.MissionRepo.GetPhases(missionID)
	if err != nil {
		return nil, err
	}
	if len(phases) == 0 {
		return nil, util.ErrPhaseNotFound
	}
	first := phases[0]

	progress := &model.UserMissionProgress{
		UserID:          userID,
		MissionID:       missionID,
		Status:          model.ProgressInProgress,
		CurrentPhase:    first.SequenceNumber,
		StartedAt:       time.Now(),
		CompletedPhases: model.PhaseSet{},
	}
	if err := s.ProgressRepo.Create(progress); err != nil {
		// the unique (user, mission) index closes the start/start race
		if isDuplicateKey(err) {
			return nil, util.ErrMissionAlreadyStarted
		}
		return nil, err
	}

	content, err := s.Content.RenderPhase(&first)
	if err != nil {
		return nil, err
	}

	logger.Log.Info("mission started",
		zap.Uint("userId", userID),
		zap.Uint("missionId", missionID),
		zap.Uint("progressId", progress.ID),
	)
	return &StartMissionResult{ProgressID: progress.ID, FirstPhase: content}, nil
}

// SubmitPhaseResponse validates the response against the current phase,
// applies the outcome, and either advances or completes the mission. A
// validator rejection rolls back without touching any state.
func (s *MissionService) SubmitPhaseResponse(progressID, phaseID uint, resp *PhaseResponse) (*SubmitResult, error) {
	var result *SubmitResult
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		progress, phase, err := s.loadCurrentPhase(tx, progressID, phaseID)
		if err != nil {
			return err
		}

		if !responseMatchesType(phase.Type, resp) {
			return util.ErrPhaseTypeMismatch
		}
		validator, ok := validatorFor(phase.Type)
		if !ok {
			return fmt.Errorf("no validator registered for phase type %s", phase.Type)
		}

		var questions []model.QuizQuestion
		if phase.Type == model.PhaseQuiz {
			if questions, err = s.MissionRepo.GetQuizQuestions(phase.ID); err != nil {
				return err
			}
		}

		outcome, err := validator.Validate(phase, questions, resp)
		if err != nil {
			return err
		}

		for i := range outcome.Answers {
			outcome.Answers[i].ProgressID = progress.ID
			if err := s.ProgressRepo.CreateAnswer(tx, &outcome.Answers[i]); err != nil {
				if isDuplicateKey(err) {
					return util.ErrQuestionAlreadyAnswered
				}
				return err
			}
		}

		updated := applyOutcome(*progress, outcome)
		result = &SubmitResult{
			Feedback:   outcome.Feedback,
			ScoreDelta: outcome.ScoreDelta,
		}
		return s.advance(tx, &updated, phase.SequenceNumber, result)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// SubmitSingleQuizAnswer grades one question of the current quiz phase. The
// phase advances once every question has been answered, right or wrong.
func (s *MissionService) SubmitSingleQuizAnswer(progressID, questionID uint, chosen string) (*SubmitResult, error) {
	if chosen == "" {
		return nil, util.Validationf("chosen option is required")
	}

	var result *SubmitResult
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		progress, err := s.lockProgress(tx, progressID)
		if err != nil {
			return err
		}

		question, err := s.MissionRepo.GetQuizQuestion(questionID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrQuestionNotFound
		}
		if err != nil {
			return err
		}

		phase, err := s.MissionRepo.GetPhase(question.PhaseID)
		if err != nil {
			return err
		}
		if phase.MissionID != progress.MissionID || phase.SequenceNumber != progress.CurrentPhase {
			return util.ErrPhaseMismatch
		}
		if phase.Type != model.PhaseQuiz {
			return util.ErrPhaseTypeMismatch
		}

		if _, err := s.ProgressRepo.FindAnswer(tx, progress.ID, question.ID); err == nil {
			return util.ErrQuestionAlreadyAnswered
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		correct, feedback, answer := gradeQuestion(question, chosen)
		answer.ProgressID = progress.ID
		if err := s.ProgressRepo.CreateAnswer(tx, &answer); err != nil {
			if isDuplicateKey(err) {
				return util.ErrQuestionAlreadyAnswered
			}
			return err
		}

		outcome := &PhaseOutcome{Feedback: []AnswerFeedback{feedback}}
		if correct {
			outcome.Correct = 1
			outcome.ScoreDelta = question.Points
		} else {
			outcome.Incorrect = 1
		}

		updated := applyOutcome(*progress, outcome)
		result = &SubmitResult{
			Feedback:   outcome.Feedback,
			ScoreDelta: outcome.ScoreDelta,
		}

		questions, err := s.MissionRepo.GetQuizQuestions(phase.ID)
		if err != nil {
			return err
		}
		answered, err := s.ProgressRepo.CountPhaseAnswers(tx, progress.ID, phase.ID)
		if err != nil {
			return err
		}
		if answered < int64(len(questions)) {
			// phase not satisfied yet, persist the counters only
			if err := tx.Save(&updated).Error; err != nil {
				return err
			}
			result.Score = updated.Score
			result.CorrectCount = updated.CorrectAnswers
			result.IncorrectCount = updated.IncorrectAnswers
			return nil
		}

		return s.advance(tx, &updated, phase.SequenceNumber, result)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// AdvancePhase moves past the current phase without scoring. Completion
// side effects are identical to a scored submission's completion branch.
func (s *MissionService) AdvancePhase(progressID uint) (*PhaseContent, error) {
	var content *PhaseContent
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		progress, err := s.lockProgress(tx, progressID)
		if err != nil {
			return err
		}

		result := &SubmitResult{}
		updated := *progress
		if err := s.advance(tx, &updated, progress.CurrentPhase, result); err != nil {
			return err
		}
		content = result.NextPhase
		return nil
	})
	if err != nil {
		return nil, err
	}
	return content, nil
}

func (s *MissionService) GetCurrentPhase(progressID uint) (*PhaseContent, error) {
	progress, err := s.ProgressRepo.FindByID(progressID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrProgressNotFound
	}
	if err != nil {
		return nil, err
	}
	if progress.Status != model.ProgressInProgress {
		return nil, util.ErrMissionNotInProgress
	}

	phase, err := s.MissionRepo.GetPhaseBySequence(progress.MissionID, progress.CurrentPhase)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrPhaseNotFound
	}
	if err != nil {
		return nil, err
	}
	return s.Content.RenderPhase(phase)
}

func (s *MissionService) lockProgress(tx *gorm.DB, progressID uint) (*model.UserMissionProgress, error) {
	progress, err := s.ProgressRepo.FindByIDForUpdate(tx, progressID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrProgressNotFound
	}
	if err != nil {
		return nil, err
	}
	if progress.Status == model.ProgressCompleted {
		return nil, util.ErrMissionAlreadyCompleted
	}
	return progress, nil
}

func (s *MissionService) loadCurrentPhase(tx *gorm.DB, progressID, phaseID uint) (*model.UserMissionProgress, *model.Phase, error) {
	progress, err := s.lockProgress(tx, progressID)
	if err != nil {
		return nil, nil, err
	}

	phase, err := s.MissionRepo.GetPhase(phaseID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, util.ErrPhaseNotFound
	}
	if err != nil {
		return nil, nil, err
	}
	if phase.MissionID != progress.MissionID || phase.SequenceNumber != progress.CurrentPhase {
		return nil, nil, util.ErrPhaseMismatch
	}
	return progress, phase, nil
}

// advance marks phaseSeq as completed, moves to the next catalog phase or
// completes the mission, persists the record once, and on completion grants
// rewards within the same transaction.
func (s *MissionService) advance(tx *gorm.DB, progress *model.UserMissionProgress, phaseSeq int, result *SubmitResult) error {
	phases, err := s.MissionRepo.GetPhases(progress.MissionID)
	if err != nil {
		return err
	}
	next, completed, err := nextSequence(phases, phaseSeq)
	if err != nil {
		return err
	}

	now := time.Now()
	updated := advanceProgress(*progress, phaseSeq, next, completed, now)
	if err := tx.Save(&updated).Error; err != nil {
		return err
	}

	result.Score = updated.Score
	result.CorrectCount = updated.CorrectAnswers
	result.IncorrectCount = updated.IncorrectAnswers
	result.MissionCompleted = completed

	if !completed {
		nextPhase := phaseBySequence(phases, next)
		if nextPhase == nil {
			return util.ErrPhaseNotFound
		}
		content, err := s.Content.RenderPhase(nextPhase)
		if err != nil {
			return err
		}
		result.NextPhase = content
		return nil
	}

	mission, err := s.MissionRepo.FindByID(progress.MissionID)
	if err != nil {
		return err
	}
	if _, err := s.Reward.GrantMissionCompletion(tx, progress.UserID, mission); err != nil {
		return err
	}
	granted, err := s.Reward.GrantBadgesForMission(tx, progress.UserID, progress.MissionID)
	if err != nil {
		return err
	}
	result.BadgesGranted = granted

	monitoring.MissionCompletions.Inc()
	logger.Log.Info("mission completed",
		zap.Uint("userId", progress.UserID),
		zap.Uint("missionId", progress.MissionID),
		zap.Int("score", updated.Score),
	)
	return nil
}

func (s *MissionService) eligibilityFor(userID uint) (eligibility, error) {
	elig := eligibility{
		Level:             1,
		CompletedMissions: map[uint]bool{},
		OwnedBadges:       map[uint]bool{},
	}

	stats, err := s.StatsRepo.FindByUser(userID)
	if err == nil {
		elig.Level = stats.Level
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return elig, err
	}

	rows, err := s.ProgressRepo.FindByUser(userID)
	if err != nil {
		return elig, err
	}
	for _, row := range rows {
		if row.Status == model.ProgressCompleted {
			elig.CompletedMissions[row.MissionID] = true
		}
	}

	owned, err := s.BadgeRepo.FindUserBadges(userID)
	if err != nil {
		return elig, err
	}
	for _, ub := range owned {
		elig.OwnedBadges[ub.BadgeID] = true
	}
	return elig, nil
}

// applyOutcome folds a validator outcome into the progress counters.
// Pure; the caller persists the returned value.
func applyOutcome(p model.UserMissionProgress, o *PhaseOutcome) model.UserMissionProgress {
	p.Attempts++
	p.CorrectAnswers += o.Correct
	p.IncorrectAnswers += o.Incorrect
	p.Score += o.ScoreDelta
	return p
}

// advanceProgress marks phaseSeq done and moves the cursor. Pure; the
// completed-phases set is copied, not mutated in place.
func advanceProgress(p model.UserMissionProgress, phaseSeq, next int, completed bool, now time.Time) model.UserMissionProgress {
	done := make(model.PhaseSet, len(p.CompletedPhases)+1)
	for seq, ok := range p.CompletedPhases {
		done[seq] = ok
	}
	done[phaseSeq] = true
	p.CompletedPhases = done

	p.CurrentPhase = next
	if completed {
		p.Status = model.ProgressCompleted
		t := now
		p.CompletedAt = &t
	}
	return p
}

// nextSequence resolves the phase after current from the ordered catalog
// list. The sentinel lastPhase+1 marks completion.
func nextSequence(phases []model.Phase, current int) (int, bool, error) {
	for i := range phases {
		if phases[i].SequenceNumber == current {
			if i+1 < len(phases) {
				return phases[i+1].SequenceNumber, false, nil
			}
			return phases[len(phases)-1].SequenceNumber + 1, true, nil
		}
	}
	return 0, false, fmt.Errorf("phase %d is not part of the mission", current)
}

func phaseBySequence(phases []model.Phase, sequence int) *model.Phase {
	for i := range phases {
		if phases[i].SequenceNumber == sequence {
			return &phases[i]
		}
	}
	return nil
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}
