package service

import (
	"errors"
	"explora_backend/internal/model"
	"explora_backend/internal/repository"
	"explora_backend/internal/util"
	"time"

	"gorm.io/gorm"
)

// Display states derived for listing. Only IN_PROGRESS and COMPLETED are
// stored; AVAILABLE and BLOCKED are computed per player.
const (
	MissionAvailable  = "AVAILABLE"
	MissionInProgress = "IN_PROGRESS"
	MissionCompleted  = "COMPLETED"
	MissionBlocked    = "BLOCKED"
)

type MissionQueryService struct {
	MissionRepo  *repository.MissionRepository
	ProgressRepo *repository.ProgressRepository
	BadgeRepo    *repository.BadgeRepository
	StatsRepo    *repository.StatsRepository
}

func NewMissionQueryService(
	missionRepo *repository.MissionRepository,
	progressRepo *repository.ProgressRepository,
	badgeRepo *repository.BadgeRepository,
	statsRepo *repository.StatsRepository,
) *MissionQueryService {
	return &MissionQueryService{
		MissionRepo:  missionRepo,
		ProgressRepo: progressRepo,
		BadgeRepo:    badgeRepo,
		StatsRepo:    statsRepo,
	}
}

type MissionSummary struct {
	ID          uint   `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	CoverURL    string `json:"coverUrl,omitempty"`
	Difficulty  string `json:"difficulty"`
	XPReward    int    `json:"xpReward"`
	MinLevel    int    `json:"minLevel"`
	Status      string `json:"status"`
	BlockReason string `json:"blockReason,omitempty"`

	ProgressID   *uint      `json:"progressId,omitempty"`
	CurrentPhase int        `json:"currentPhase,omitempty"`
	Score        int        `json:"score,omitempty"`
	CompletedAt  *time.Time `json:"completedAt,omitempty"`
}

type ListingStats struct {
	TotalMissions   int     `json:"totalMissions"`
	CompletedCount  int     `json:"completedCount"`
	InProgressCount int     `json:"inProgressCount"`
	BadgesObtained  int64   `json:"badgesObtained"`
	PercentComplete float64 `json:"percentComplete"`
}

type MissionListing struct {
	Available  []MissionSummary `json:"available"`
	InProgress []MissionSummary `json:"inProgress"`
	Completed  []MissionSummary `json:"completed"`
	Blocked    []MissionSummary `json:"blocked"`
	Stats      ListingStats     `json:"stats"`
}

// ListMissionsForPlayer merges the catalog with the player's progress and
// categorizes every active mission into exactly one bucket.
func (s *MissionQueryService) ListMissionsForPlayer(userID uint) (*MissionListing, error) {
	missions, err := s.MissionRepo.FindActive()
	if err != nil {
		return nil, err
	}

	progressRows, err := s.ProgressRepo.FindByUser(userID)
	if err != nil {
		return nil, err
	}
	byMission := make(map[uint]*model.UserMissionProgress, len(progressRows))
	for i := range progressRows {
		byMission[progressRows[i].MissionID] = &progressRows[i]
	}

	elig, err := s.eligibilityFor(userID, progressRows)
	if err != nil {
		return nil, err
	}

	listing := &MissionListing{
		Available:  []MissionSummary{},
		InProgress: []MissionSummary{},
		Completed:  []MissionSummary{},
		Blocked:    []MissionSummary{},
	}

	for i := range missions {
		m := &missions[i]
		summary := MissionSummary{
			ID:          m.ID,
			Title:       m.Title,
			Description: m.Description,
			CoverURL:    m.CoverURL,
			Difficulty:  m.Difficulty,
			XPReward:    m.XPReward,
			MinLevel:    m.MinLevel,
		}

		if row, ok := byMission[m.ID]; ok {
			pid := row.ID
			summary.ProgressID = &pid
			summary.CurrentPhase = row.CurrentPhase
			summary.Score = row.Score
			summary.CompletedAt = row.CompletedAt

			if row.Status == model.ProgressCompleted {
				summary.Status = MissionCompleted
				listing.Completed = append(listing.Completed, summary)
			} else {
				summary.Status = MissionInProgress
				listing.InProgress = append(listing.InProgress, summary)
			}
			continue
		}

		if reason := blockReason(m, elig); reason != "" {
			summary.Status = MissionBlocked
			summary.BlockReason = reason
			listing.Blocked = append(listing.Blocked, summary)
		} else {
			summary.Status = MissionAvailable
			listing.Available = append(listing.Available, summary)
		}
	}

	badgeCount, err := s.BadgeRepo.CountUserBadges(userID)
	if err != nil {
		return nil, err
	}

	listing.Stats = ListingStats{
		TotalMissions:   len(missions),
		CompletedCount:  len(listing.Completed),
		InProgressCount: len(listing.InProgress),
		BadgesObtained:  badgeCount,
	}
	if listing.Stats.TotalMissions > 0 {
		listing.Stats.PercentComplete = float64(listing.Stats.CompletedCount) / float64(listing.Stats.TotalMissions) * 100
	}
	return listing, nil
}

type MissionDetail struct {
	Mission     *model.Mission             `json:"mission"`
	Phases      []model.Phase              `json:"phases"`
	Progress    *model.UserMissionProgress `json:"progress,omitempty"`
	CanStart    bool                       `json:"canStart"`
	BlockReason string                     `json:"blockReason,omitempty"`
}

func (s *MissionQueryService) GetMissionDetail(missionID, userID uint) (*MissionDetail, error) {
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

	phases, err := s.MissionRepo.GetPhases(missionID)
	if err != nil {
		return nil, err
	}

	detail := &MissionDetail{Mission: mission, Phases: phases}

	progressRows, err := s.ProgressRepo.FindByUser(userID)
	if err != nil {
		return nil, err
	}
	for i := range progressRows {
		if progressRows[i].MissionID == missionID {
			detail.Progress = &progressRows[i]
			break
		}
	}

	if detail.Progress == nil {
		elig, err := s.eligibilityFor(userID, progressRows)
		if err != nil {
			return nil, err
		}
		detail.BlockReason = blockReason(mission, elig)
		detail.CanStart = detail.BlockReason == ""
	}
	return detail, nil
}

type BadgeStatus struct {
	Badge      model.Badge `json:"badge"`
	Obtained   bool        `json:"obtained"`
	AcquiredAt *time.Time  `json:"acquiredAt,omitempty"`
}

type BadgeCollection struct {
	Badges         []BadgeStatus `json:"badges"`
	TotalObtained  int           `json:"totalObtained"`
	TotalAvailable int           `json:"totalAvailable"`
	Percent        float64       `json:"percent"`
}

// GetBadgeCollection returns every active badge with the player's
// acquisition state.
func (s *MissionQueryService) GetBadgeCollection(userID uint) (*BadgeCollection, error) {
	badges, err := s.BadgeRepo.FindActive()
	if err != nil {
		return nil, err
	}

	owned, err := s.BadgeRepo.FindUserBadges(userID)
	if err != nil {
		return nil, err
	}
	acquiredAt := make(map[uint]time.Time, len(owned))
	for _, ub := range owned {
		acquiredAt[ub.BadgeID] = ub.AcquiredAt
	}

	collection := &BadgeCollection{
		Badges:         make([]BadgeStatus, 0, len(badges)),
		TotalAvailable: len(badges),
	}
	for _, badge := range badges {
		status := BadgeStatus{Badge: badge}
		if at, ok := acquiredAt[badge.ID]; ok {
			status.Obtained = true
			t := at
			status.AcquiredAt = &t
			collection.TotalObtained++
		}
		collection.Badges = append(collection.Badges, status)
	}
	if collection.TotalAvailable > 0 {
		collection.Percent = float64(collection.TotalObtained) / float64(collection.TotalAvailable) * 100
	}
	return collection, nil
}

type PlayerDashboard struct {
	Stats       *model.ExplorationStats    `json:"stats"`
	NextLevelXP int                        `json:"nextLevelXp"`
	Missions    ListingStats               `json:"missions"`
	Recent      []model.UserBadge          `json:"recentBadges"`
	Leaderboard []repository.LeaderboardRow `json:"leaderboard"`
}

func (s *MissionQueryService) GetPlayerDashboard(userID uint) (*PlayerDashboard, error) {
	stats, err := s.StatsRepo.FindByUser(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		stats = &model.ExplorationStats{UserID: userID, Level: 1}
	} else if err != nil {
		return nil, err
	}

	listing, err := s.ListMissionsForPlayer(userID)
	if err != nil {
		return nil, err
	}

	owned, err := s.BadgeRepo.FindUserBadges(userID)
	if err != nil {
		return nil, err
	}
	recent := owned
	if len(recent) > 5 {
		recent = recent[len(recent)-5:]
	}

	leaderboard, err := s.StatsRepo.TopByXP(10)
	if err != nil {
		return nil, err
	}

	return &PlayerDashboard{
		Stats:       stats,
		NextLevelXP: stats.Level * model.XPPerLevel,
		Missions:    listing.Stats,
		Recent:      recent,
		Leaderboard: leaderboard,
	}, nil
}

func (s *MissionQueryService) GetLeaderboard(limit int) ([]repository.LeaderboardRow, error) {
	return s.StatsRepo.TopByXP(limit)
}

func (s *MissionQueryService) eligibilityFor(userID uint, progressRows []model.UserMissionProgress) (eligibility, error) {
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

	for _, row := range progressRows {
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
