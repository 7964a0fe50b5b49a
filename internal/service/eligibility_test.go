package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"explora_backend/internal/model"
	"explora_backend/internal/util"
)

func TestBlockReasonOrdering(t *testing.T) {
	pre := &model.Mission{BaseModel: model.BaseModel{ID: 7}, Title: "Intro"}
	badge := model.Badge{BaseModel: model.BaseModel{ID: 3}, Name: "Historian"}
	mission := &model.Mission{
		MinLevel:       2,
		Prerequisites:  []*model.Mission{pre},
		RequiredBadges: []model.Badge{badge},
	}

	elig := eligibility{Level: 1, CompletedMissions: map[uint]bool{}, OwnedBadges: map[uint]bool{}}
	assert.Contains(t, blockReason(mission, elig), "level 2")

	elig.Level = 2
	assert.Contains(t, blockReason(mission, elig), "Intro")

	elig.CompletedMissions[7] = true
	assert.Contains(t, blockReason(mission, elig), "Historian")

	elig.OwnedBadges[3] = true
	assert.Empty(t, blockReason(mission, elig))
}

func TestStartMissionRequiresBadge(t *testing.T) {
	env := newTestEnv(t)
	player := env.createPlayer(t, "ana")
	badge := env.createBadge(t, "historian")

	gated := env.createMission(t, &model.Mission{
		Title:          "Archive",
		RequiredBadges: []model.Badge{*badge},
	}, &model.Phase{Type: model.PhaseDialogue})

	_, err := env.mission.StartMission(player.ID, gated.ID)
	require.True(t, util.IsValidation(err))

	granter := env.createMission(t, &model.Mission{Title: "Route", Badges: []model.Badge{*badge}},
		&model.Phase{Type: model.PhaseDialogue},
	)
	res, err := env.mission.StartMission(player.ID, granter.ID)
	require.NoError(t, err)
	_, err = env.mission.SubmitPhaseResponse(res.ProgressID, res.FirstPhase.PhaseID, &PhaseResponse{})
	require.NoError(t, err)

	_, err = env.mission.StartMission(player.ID, gated.ID)
	assert.NoError(t, err)
}
