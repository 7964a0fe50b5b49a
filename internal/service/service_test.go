package service

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"explora_backend/internal/model"
	"explora_backend/internal/repository"
	"explora_backend/pkg/database"
	"explora_backend/pkg/logger"
)

type testEnv struct {
	db       *gorm.DB
	missions *repository.MissionRepository
	progress *repository.ProgressRepository
	badges   *repository.BadgeRepository
	stats    *repository.StatsRepository
	reward   *RewardService
	mission  *MissionService
	query    *MissionQueryService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger.Log = zap.NewNop()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db))

	env := &testEnv{
		db:       db,
		missions: repository.NewMissionRepository(db),
		progress: repository.NewProgressRepository(db),
		badges:   repository.NewBadgeRepository(db),
		stats:    repository.NewStatsRepository(db),
	}
	content := NewContentService(env.missions, nil)
	env.reward = NewRewardService(env.missions, env.badges, env.stats)
	env.mission = NewMissionService(env.missions, env.progress, env.badges, env.stats, env.reward, content, db)
	env.query = NewMissionQueryService(env.missions, env.progress, env.badges, env.stats)
	return env
}

func (e *testEnv) createPlayer(t *testing.T, name string) *model.User {
	t.Helper()
	user := &model.User{
		Name:     name,
		Email:    name + "@test.local",
		Password: "hashed",
		Role:     model.Player,
	}
	require.NoError(t, e.db.Create(user).Error)
	return user
}

func (e *testEnv) createBadge(t *testing.T, code string) *model.Badge {
	t.Helper()
	badge := &model.Badge{
		Code:     code,
		Name:     code,
		Rarity:   model.BadgeRarityCommon,
		IsActive: true,
	}
	require.NoError(t, e.db.Create(badge).Error)
	return badge
}

// createMission writes a mission plus its phases in request order, numbering
// them 1..n.
func (e *testEnv) createMission(t *testing.T, mission *model.Mission, phases ...*model.Phase) *model.Mission {
	t.Helper()
	if mission.Difficulty == "" {
		mission.Difficulty = model.MissionDifficultyEasy
	}
	if mission.MinLevel == 0 {
		mission.MinLevel = 1
	}
	mission.IsActive = true
	require.NoError(t, e.db.Create(mission).Error)

	for i, p := range phases {
		p.MissionID = mission.ID
		p.SequenceNumber = i + 1
		require.NoError(t, e.db.Create(p).Error)
	}
	return mission
}

func (e *testEnv) createQuestion(t *testing.T, phaseID uint, order int, correct string, points int) *model.QuizQuestion {
	t.Helper()
	q := &model.QuizQuestion{
		PhaseID:           phaseID,
		Order:             order,
		Text:              "question",
		OptionA:           "a",
		OptionB:           "b",
		OptionC:           "c",
		OptionD:           "d",
		CorrectOption:     correct,
		FeedbackCorrect:   "well done",
		FeedbackIncorrect: "try harder",
		Points:            points,
	}
	require.NoError(t, e.db.Create(q).Error)
	return q
}

func (e *testEnv) phaseBySeq(t *testing.T, missionID uint, seq int) *model.Phase {
	t.Helper()
	phase, err := e.missions.GetPhaseBySequence(missionID, seq)
	require.NoError(t, err)
	return phase
}

func (e *testEnv) loadProgress(t *testing.T, id uint) *model.UserMissionProgress {
	t.Helper()
	progress, err := e.progress.FindByID(id)
	require.NoError(t, err)
	return progress
}
