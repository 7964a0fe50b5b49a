package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"explora_backend/internal/model"
	"explora_backend/internal/util"
)

func TestListMissionsBuckets(t *testing.T) {
	env := newTestEnv(t)
	player := env.createPlayer(t, "ana")

	available := env.createMission(t, &model.Mission{Title: "Available"},
		&model.Phase{Type: model.PhaseDialogue},
	)
	running := env.createMission(t, &model.Mission{Title: "Running"},
		&model.Phase{Type: model.PhaseDialogue},
		&model.Phase{Type: model.PhaseDecision},
	)
	finished := env.createMission(t, &model.Mission{Title: "Finished"},
		&model.Phase{Type: model.PhaseDialogue},
	)
	locked := env.createMission(t, &model.Mission{Title: "Locked", MinLevel: 5},
		&model.Phase{Type: model.PhaseDialogue},
	)

	res, err := env.mission.StartMission(player.ID, running.ID)
	require.NoError(t, err)
	_, err = env.mission.SubmitPhaseResponse(res.ProgressID, res.FirstPhase.PhaseID, &PhaseResponse{})
	require.NoError(t, err)

	res, err = env.mission.StartMission(player.ID, finished.ID)
	require.NoError(t, err)
	_, err = env.mission.SubmitPhaseResponse(res.ProgressID, res.FirstPhase.PhaseID, &PhaseResponse{})
	require.NoError(t, err)

	listing, err := env.query.ListMissionsForPlayer(player.ID)
	require.NoError(t, err)

	require.Len(t, listing.Available, 1)
	assert.Equal(t, available.ID, listing.Available[0].ID)
	assert.Equal(t, MissionAvailable, listing.Available[0].Status)

	require.Len(t, listing.InProgress, 1)
	assert.Equal(t, running.ID, listing.InProgress[0].ID)
	assert.Equal(t, 2, listing.InProgress[0].CurrentPhase)

	require.Len(t, listing.Completed, 1)
	assert.Equal(t, finished.ID, listing.Completed[0].ID)
	assert.NotNil(t, listing.Completed[0].CompletedAt)

	require.Len(t, listing.Blocked, 1)
	assert.Equal(t, locked.ID, listing.Blocked[0].ID)
	assert.NotEmpty(t, listing.Blocked[0].BlockReason)

	assert.Equal(t, 4, listing.Stats.TotalMissions)
	assert.Equal(t, 1, listing.Stats.CompletedCount)
	assert.Equal(t, 1, listing.Stats.InProgressCount)
	assert.InDelta(t, 25.0, listing.Stats.PercentComplete, 0.01)
}

func TestMissionDetailCanStart(t *testing.T) {
	env := newTestEnv(t)
	player := env.createPlayer(t, "ana")
	mission := env.createMission(t, &model.Mission{Title: "Route"},
		&model.Phase{Type: model.PhaseDialogue},
		&model.Phase{Type: model.PhaseDecision},
	)

	detail, err := env.query.GetMissionDetail(mission.ID, player.ID)
	require.NoError(t, err)
	assert.True(t, detail.CanStart)
	assert.Nil(t, detail.Progress)
	assert.Len(t, detail.Phases, 2)

	res, err := env.mission.StartMission(player.ID, mission.ID)
	require.NoError(t, err)

	detail, err = env.query.GetMissionDetail(mission.ID, player.ID)
	require.NoError(t, err)
	require.NotNil(t, detail.Progress)
	assert.Equal(t, res.ProgressID, detail.Progress.ID)
	assert.False(t, detail.CanStart)

	_, err = env.query.GetMissionDetail(999, player.ID)
	assert.ErrorIs(t, err, util.ErrMissionNotFound)
}

func TestMissionDetailBlockReason(t *testing.T) {
	env := newTestEnv(t)
	player := env.createPlayer(t, "ana")
	mission := env.createMission(t, &model.Mission{Title: "Locked", MinLevel: 4},
		&model.Phase{Type: model.PhaseDialogue},
	)

	detail, err := env.query.GetMissionDetail(mission.ID, player.ID)
	require.NoError(t, err)
	assert.False(t, detail.CanStart)
	assert.NotEmpty(t, detail.BlockReason)
}

func TestGetBadgeCollection(t *testing.T) {
	env := newTestEnv(t)
	player := env.createPlayer(t, "ana")
	obtained := env.createBadge(t, "first_step")
	env.createBadge(t, "historian")

	mission := env.createMission(t, &model.Mission{Title: "Route", Badges: []model.Badge{*obtained}},
		&model.Phase{Type: model.PhaseDialogue},
	)
	res, err := env.mission.StartMission(player.ID, mission.ID)
	require.NoError(t, err)
	_, err = env.mission.SubmitPhaseResponse(res.ProgressID, res.FirstPhase.PhaseID, &PhaseResponse{})
	require.NoError(t, err)

	collection, err := env.query.GetBadgeCollection(player.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, collection.TotalAvailable)
	assert.Equal(t, 1, collection.TotalObtained)
	assert.InDelta(t, 50.0, collection.Percent, 0.01)

	for _, status := range collection.Badges {
		if status.Badge.Code == "first_step" {
			assert.True(t, status.Obtained)
			assert.NotNil(t, status.AcquiredAt)
		} else {
			assert.False(t, status.Obtained)
		}
	}
}

func TestPlayerDashboard(t *testing.T) {
	env := newTestEnv(t)
	player := env.createPlayer(t, "ana")
	rival := env.createPlayer(t, "bo")

	mission := env.createMission(t, &model.Mission{Title: "Route", XPReward: 400},
		&model.Phase{Type: model.PhaseDialogue},
	)
	res, err := env.mission.StartMission(player.ID, mission.ID)
	require.NoError(t, err)
	_, err = env.mission.SubmitPhaseResponse(res.ProgressID, res.FirstPhase.PhaseID, &PhaseResponse{})
	require.NoError(t, err)

	require.NoError(t, env.db.Create(&model.ExplorationStats{UserID: rival.ID, XP: 900, Level: 1}).Error)

	dashboard, err := env.query.GetPlayerDashboard(player.ID)
	require.NoError(t, err)
	assert.Equal(t, 400, dashboard.Stats.XP)
	assert.Equal(t, model.XPPerLevel, dashboard.NextLevelXP)
	assert.Equal(t, 1, dashboard.Missions.CompletedCount)

	require.Len(t, dashboard.Leaderboard, 2)
	assert.Equal(t, rival.ID, dashboard.Leaderboard[0].UserID)
	assert.Equal(t, 900, dashboard.Leaderboard[0].XP)
}

func TestDashboardForFreshPlayer(t *testing.T) {
	env := newTestEnv(t)
	player := env.createPlayer(t, "ana")

	dashboard, err := env.query.GetPlayerDashboard(player.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, dashboard.Stats.XP)
	assert.Equal(t, 1, dashboard.Stats.Level)
	assert.Empty(t, dashboard.Recent)
}
