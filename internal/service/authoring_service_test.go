package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"explora_backend/internal/model"
	"explora_backend/internal/util"
)

func newAuthoring(env *testEnv) *AuthoringService {
	return NewAuthoringService(env.missions, env.badges, NewContentService(env.missions, nil), env.db)
}

func TestCreateMissionWritesPhasesAndQuestions(t *testing.T) {
	env := newTestEnv(t)
	authoring := newAuthoring(env)

	badge, err := authoring.CreateBadge(BadgeCreateRequest{Code: "first_step", Name: "First Step"})
	require.NoError(t, err)
	assert.Equal(t, model.BadgeRarityCommon, badge.Rarity)

	mission, err := authoring.CreateMission(MissionCreateRequest{
		Title:      "Old Town",
		XPReward:   200,
		IsActive:   true,
		BadgeCodes: []string{"first_step"},
		Phases: []PhaseRequest{
			{Type: model.PhaseDialogue, Config: model.PhaseConfig{NPCName: "Elena"}},
			{Type: model.PhaseQuiz, Questions: []QuizQuestionRequest{
				{Text: "q", OptionA: "a", OptionB: "b", OptionC: "c", OptionD: "d", CorrectOption: "B", Points: 100},
			}},
		},
	})
	require.NoError(t, err)

	phases, err := env.missions.GetPhases(mission.ID)
	require.NoError(t, err)
	require.Len(t, phases, 2)
	assert.Equal(t, 1, phases[0].SequenceNumber)
	assert.Equal(t, 2, phases[1].SequenceNumber)

	questions, err := env.missions.GetQuizQuestions(phases[1].ID)
	require.NoError(t, err)
	require.Len(t, questions, 1)
	assert.Equal(t, "B", questions[0].CorrectOption)

	granted, err := env.missions.GetBadgesForMission(mission.ID)
	require.NoError(t, err)
	require.Len(t, granted, 1)
	assert.Equal(t, "first_step", granted[0].Code)
}

func TestCreateMissionRejectsBadAuthoring(t *testing.T) {
	env := newTestEnv(t)
	authoring := newAuthoring(env)

	_, err := authoring.CreateMission(MissionCreateRequest{
		Title:  "Broken",
		Phases: []PhaseRequest{{Type: "teleport"}},
	})
	assert.True(t, util.IsValidation(err))

	_, err = authoring.CreateMission(MissionCreateRequest{
		Title:  "Empty Quiz",
		Phases: []PhaseRequest{{Type: model.PhaseQuiz}},
	})
	assert.True(t, util.IsValidation(err))

	_, err = authoring.CreateMission(MissionCreateRequest{
		Title:      "Ghost Badge",
		BadgeCodes: []string{"missing"},
		Phases:     []PhaseRequest{{Type: model.PhaseDialogue}},
	})
	assert.ErrorIs(t, err, util.ErrBadgeNotFound)
}

func TestSetMissionActive(t *testing.T) {
	env := newTestEnv(t)
	authoring := newAuthoring(env)
	player := env.createPlayer(t, "ana")
	mission := env.createMission(t, &model.Mission{Title: "Route"},
		&model.Phase{Type: model.PhaseDialogue},
	)

	require.NoError(t, authoring.SetMissionActive(mission.ID, false))
	_, err := env.mission.StartMission(player.ID, mission.ID)
	assert.ErrorIs(t, err, util.ErrMissionNotFound)

	require.NoError(t, authoring.SetMissionActive(mission.ID, true))
	_, err = env.mission.StartMission(player.ID, mission.ID)
	assert.NoError(t, err)

	assert.ErrorIs(t, authoring.SetMissionActive(999, true), util.ErrMissionNotFound)
}

// Deactivating a mission must not disturb a run already in flight.
func TestDeactivationKeepsRunningProgress(t *testing.T) {
	env := newTestEnv(t)
	authoring := newAuthoring(env)
	player := env.createPlayer(t, "ana")
	mission := env.createMission(t, &model.Mission{Title: "Route"},
		&model.Phase{Type: model.PhaseDialogue},
	)

	res, err := env.mission.StartMission(player.ID, mission.ID)
	require.NoError(t, err)

	require.NoError(t, authoring.SetMissionActive(mission.ID, false))

	done, err := env.mission.SubmitPhaseResponse(res.ProgressID, res.FirstPhase.PhaseID, &PhaseResponse{})
	require.NoError(t, err)
	assert.True(t, done.MissionCompleted)
}
