package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"explora_backend/internal/model"
)

func TestGrantMissionCompletionAccumulatesXP(t *testing.T) {
	env := newTestEnv(t)
	player := env.createPlayer(t, "ana")
	mission := &model.Mission{BaseModel: model.BaseModel{ID: 1}, XPReward: 600}

	stats, err := env.reward.GrantMissionCompletion(env.db, player.ID, mission)
	require.NoError(t, err)
	assert.Equal(t, 600, stats.XP)
	assert.Equal(t, 1, stats.Level)

	// crossing the 1000 XP boundary raises the level
	stats, err = env.reward.GrantMissionCompletion(env.db, player.ID, mission)
	require.NoError(t, err)
	assert.Equal(t, 1200, stats.XP)
	assert.Equal(t, 2, stats.Level)
}

func TestGrantBadgesForMissionIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	player := env.createPlayer(t, "ana")
	badge := env.createBadge(t, "historian")
	mission := env.createMission(t, &model.Mission{Title: "Route", Badges: []model.Badge{*badge}},
		&model.Phase{Type: model.PhaseDialogue},
	)

	granted, err := env.reward.GrantBadgesForMission(env.db, player.ID, mission.ID)
	require.NoError(t, err)
	require.Len(t, granted, 1)
	assert.Equal(t, "historian", granted[0].Code)

	granted, err = env.reward.GrantBadgesForMission(env.db, player.ID, mission.ID)
	require.NoError(t, err)
	assert.Empty(t, granted)

	count, err := env.badges.CountUserBadges(player.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestInactiveBadgeIsNotGranted(t *testing.T) {
	env := newTestEnv(t)
	player := env.createPlayer(t, "ana")
	badge := env.createBadge(t, "retired")
	mission := env.createMission(t, &model.Mission{Title: "Route", Badges: []model.Badge{*badge}},
		&model.Phase{Type: model.PhaseDialogue},
	)
	require.NoError(t, env.db.Model(&model.Badge{}).Where("id = ?", badge.ID).
		Update("is_active", false).Error)

	granted, err := env.reward.GrantBadgesForMission(env.db, player.ID, mission.ID)
	require.NoError(t, err)
	assert.Empty(t, granted)
}

func TestLevelForXP(t *testing.T) {
	assert.Equal(t, 1, model.LevelForXP(0))
	assert.Equal(t, 1, model.LevelForXP(999))
	assert.Equal(t, 2, model.LevelForXP(1000))
	assert.Equal(t, 4, model.LevelForXP(3500))
}
