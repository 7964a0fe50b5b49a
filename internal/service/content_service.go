package service

import (
	"context"
	"encoding/json"
	"explora_backend/internal/model"
	"explora_backend/internal/repository"
	"explora_backend/pkg/logger"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const phaseContentTTL = 10 * time.Minute

// QuestionContent is a quiz question as shown to the player. The correct
// option and feedback texts never leave the server before grading.
type QuestionContent struct {
	ID      uint   `json:"id"`
	Order   int    `json:"order"`
	Text    string `json:"text"`
	OptionA string `json:"optionA"`
	OptionB string `json:"optionB"`
	OptionC string `json:"optionC"`
	OptionD string `json:"optionD"`
	Points  int    `json:"points"`
}

// PhaseContent is the renderable view of a phase.
// swagger:model PhaseContent
type PhaseContent struct {
	PhaseID               uint                   `json:"phaseId"`
	MissionID             uint                   `json:"missionId"`
	SequenceNumber        int                    `json:"sequenceNumber"`
	Type                  model.PhaseType        `json:"type"`
	Description           string                 `json:"description"`
	NPCName               string                 `json:"npcName,omitempty"`
	TargetLocationID      string                 `json:"targetLocationId,omitempty"`
	MinExplorationSeconds int                    `json:"minExplorationSeconds,omitempty"`
	Options               []model.DecisionOption `json:"options,omitempty"`
	Questions             []QuestionContent      `json:"questions,omitempty"`
	Points                int                    `json:"points"`
	XPReward              int                    `json:"xpReward"`
}

// ContentService turns stored phase configuration into player-facing
// content. Rendered phases are reference data, so they cache well; Redis is
// optional and a nil client just disables the cache.
type ContentService struct {
	MissionRepo *repository.MissionRepository
	Redis       *redis.Client
}

func NewContentService(missionRepo *repository.MissionRepository, rdb *redis.Client) *ContentService {
	return &ContentService{MissionRepo: missionRepo, Redis: rdb}
}

func phaseContentKey(phaseID uint) string {
	return fmt.Sprintf("phase_content:%d", phaseID)
}

func (s *ContentService) RenderPhase(phase *model.Phase) (*PhaseContent, error) {
	ctx := context.Background()

	if s.Redis != nil {
		if cached, err := s.Redis.Get(ctx, phaseContentKey(phase.ID)).Result(); err == nil {
			var content PhaseContent
			if err := json.Unmarshal([]byte(cached), &content); err == nil {
				return &content, nil
			}
		}
	}

	content := &PhaseContent{
		PhaseID:               phase.ID,
		MissionID:             phase.MissionID,
		SequenceNumber:        phase.SequenceNumber,
		Type:                  phase.Type,
		Description:           phase.Description,
		NPCName:               phase.Config.NPCName,
		TargetLocationID:      phase.Config.TargetLocationID,
		MinExplorationSeconds: phase.Config.MinExplorationSeconds,
		Options:               phase.Config.Options,
		Points:                phase.Points,
		XPReward:              phase.XPReward,
	}

	if phase.Type == model.PhaseQuiz {
		questions, err := s.MissionRepo.GetQuizQuestions(phase.ID)
		if err != nil {
			return nil, err
		}
		for _, q := range questions {
			content.Questions = append(content.Questions, QuestionContent{
				ID:      q.ID,
				Order:   q.Order,
				Text:    q.Text,
				OptionA: q.OptionA,
				OptionB: q.OptionB,
				OptionC: q.OptionC,
				OptionD: q.OptionD,
				Points:  q.Points,
			})
		}
	}

	if s.Redis != nil {
		if payload, err := json.Marshal(content); err == nil {
			if err := s.Redis.Set(ctx, phaseContentKey(phase.ID), payload, phaseContentTTL).Err(); err != nil {
				logger.Log.Warn("phase content cache write failed", zap.Error(err))
			}
		}
	}

	return content, nil
}

// Invalidate drops a cached phase after its authoring data changed.
func (s *ContentService) Invalidate(phaseID uint) {
	if s.Redis == nil {
		return
	}
	s.Redis.Del(context.Background(), phaseContentKey(phaseID))
}
