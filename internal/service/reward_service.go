package service

import (
	"explora_backend/internal/model"
	"explora_backend/internal/repository"
	"explora_backend/pkg/logger"
	"explora_backend/pkg/monitoring"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RewardService grants experience and badges exactly once per qualifying
// mission completion. It is only ever invoked from the progress tracker's
// completion branch, inside the tracker's transaction.
type RewardService struct {
	MissionRepo *repository.MissionRepository
	BadgeRepo   *repository.BadgeRepository
	StatsRepo   *repository.StatsRepository
}

func NewRewardService(
	missionRepo *repository.MissionRepository,
	badgeRepo *repository.BadgeRepository,
	statsRepo *repository.StatsRepository,
) *RewardService {
	return &RewardService{
		MissionRepo: missionRepo,
		BadgeRepo:   badgeRepo,
		StatsRepo:   statsRepo,
	}
}

// GrantMissionCompletion adds the mission's experience reward to the
// player's exploration stats and recomputes the level.
func (s *RewardService) GrantMissionCompletion(tx *gorm.DB, userID uint, mission *model.Mission) (*model.ExplorationStats, error) {
	stats, err := s.StatsRepo.GetOrCreateForUpdate(tx, userID)
	if err != nil {
		return nil, err
	}

	stats.XP += mission.XPReward
	stats.Level = model.LevelForXP(stats.XP)
	if err := s.StatsRepo.Save(tx, stats); err != nil {
		return nil, err
	}

	logger.Log.Info("mission experience granted",
		zap.Uint("userId", userID),
		zap.Uint("missionId", mission.ID),
		zap.Int("xp", mission.XPReward),
		zap.Int("level", stats.Level),
	)
	return stats, nil
}

// GrantBadgesForMission grants every badge linked to the mission that the
// player does not already hold. Badges are global achievements, a second
// grant of the same badge is silently skipped.
func (s *RewardService) GrantBadgesForMission(tx *gorm.DB, userID, missionID uint) ([]model.Badge, error) {
	badges, err := s.MissionRepo.GetBadgesForMission(missionID)
	if err != nil {
		return nil, err
	}

	var granted []model.Badge
	now := time.Now()
	for _, badge := range badges {
		mid := missionID
		created, err := s.BadgeRepo.GrantIfAbsent(tx, &model.UserBadge{
			UserID:     userID,
			BadgeID:    badge.ID,
			MissionID:  &mid,
			AcquiredAt: now,
		})
		if err != nil {
			return nil, err
		}
		if created {
			granted = append(granted, badge)
			monitoring.BadgeGrants.Inc()
			logger.Log.Info("badge granted",
				zap.Uint("userId", userID),
				zap.String("badge", badge.Code),
				zap.Uint("missionId", missionID),
			)
		}
	}
	return granted, nil
}
