package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"explora_backend/internal/model"
	"explora_backend/internal/util"
)

func dialoguePhase() *model.Phase {
	return &model.Phase{
		Type:   model.PhaseDialogue,
		Config: model.PhaseConfig{NPCName: "Elena"},
	}
}

func TestDialogueValidatorAlwaysSatisfied(t *testing.T) {
	outcome, err := dialogueValidator{}.Validate(dialoguePhase(), nil, &PhaseResponse{})
	require.NoError(t, err)
	assert.Equal(t, DefaultDialoguePoints, outcome.ScoreDelta)
	require.Len(t, outcome.Feedback, 1)
	assert.True(t, outcome.Feedback[0].Correct)
}

func TestDialogueValidatorAuthoredPointsWin(t *testing.T) {
	phase := dialoguePhase()
	phase.Points = 120
	outcome, err := dialogueValidator{}.Validate(phase, nil, &PhaseResponse{})
	require.NoError(t, err)
	assert.Equal(t, 120, outcome.ScoreDelta)
}

func TestQuizValidatorGradesEveryQuestion(t *testing.T) {
	phase := &model.Phase{Type: model.PhaseQuiz}
	questions := []model.QuizQuestion{
		{BaseModel: model.BaseModel{ID: 1}, CorrectOption: "A", Points: 100},
		{BaseModel: model.BaseModel{ID: 2}, CorrectOption: "B", Points: 100},
		{BaseModel: model.BaseModel{ID: 3}, CorrectOption: "C", Points: 100},
	}
	resp := &PhaseResponse{Answers: []QuizAnswer{
		{QuestionID: 1, Chosen: "A"},
		{QuestionID: 2, Chosen: "B"},
		{QuestionID: 3, Chosen: "D"},
	}}

	outcome, err := quizValidator{}.Validate(phase, questions, resp)
	require.NoError(t, err)
	assert.Equal(t, 200, outcome.ScoreDelta)
	assert.Equal(t, 2, outcome.Correct)
	assert.Equal(t, 1, outcome.Incorrect)
	require.Len(t, outcome.Answers, 3)
	assert.False(t, outcome.Answers[2].Correct)
	assert.Equal(t, 0, outcome.Answers[2].Points)
}

func TestQuizValidatorRejectsIncompleteAnswers(t *testing.T) {
	phase := &model.Phase{Type: model.PhaseQuiz}
	questions := []model.QuizQuestion{
		{BaseModel: model.BaseModel{ID: 1}, CorrectOption: "A"},
		{BaseModel: model.BaseModel{ID: 2}, CorrectOption: "B"},
	}
	resp := &PhaseResponse{Answers: []QuizAnswer{{QuestionID: 1, Chosen: "A"}}}

	_, err := quizValidator{}.Validate(phase, questions, resp)
	assert.True(t, util.IsValidation(err))
}

func TestVisitPointValidator(t *testing.T) {
	phase := &model.Phase{
		Type:   model.PhaseVisitPoint,
		Config: model.PhaseConfig{TargetLocationID: "cathedral"},
	}

	_, err := visitPointValidator{}.Validate(phase, nil, &PhaseResponse{})
	assert.True(t, util.IsValidation(err))

	_, err = visitPointValidator{}.Validate(phase, nil, &PhaseResponse{VisitedLocationID: "market"})
	assert.True(t, util.IsValidation(err))

	outcome, err := visitPointValidator{}.Validate(phase, nil, &PhaseResponse{VisitedLocationID: "cathedral"})
	require.NoError(t, err)
	assert.Equal(t, DefaultVisitPoints, outcome.ScoreDelta)
}

func TestFindArtifactValidatorOptionalTarget(t *testing.T) {
	phase := &model.Phase{Type: model.PhaseFindArtifact}

	_, err := findArtifactValidator{}.Validate(phase, nil, &PhaseResponse{})
	assert.True(t, util.IsValidation(err))

	// no authored target: any artifact counts
	outcome, err := findArtifactValidator{}.Validate(phase, nil, &PhaseResponse{FoundArtifactID: "anything"})
	require.NoError(t, err)
	assert.Equal(t, DefaultArtifactPoints, outcome.ScoreDelta)

	phase.Config.TargetArtifactID = "seal"
	_, err = findArtifactValidator{}.Validate(phase, nil, &PhaseResponse{FoundArtifactID: "coin"})
	assert.True(t, util.IsValidation(err))
}

func TestFreeExplorationValidatorMinSeconds(t *testing.T) {
	phase := &model.Phase{Type: model.PhaseFreeExploration}

	_, err := freeExplorationValidator{}.Validate(phase, nil, &PhaseResponse{ExploredSeconds: 59})
	assert.True(t, util.IsValidation(err))

	outcome, err := freeExplorationValidator{}.Validate(phase, nil, &PhaseResponse{ExploredSeconds: 60})
	require.NoError(t, err)
	assert.Equal(t, DefaultExplorationPoints, outcome.ScoreDelta)

	phase.Config.MinExplorationSeconds = 120
	_, err = freeExplorationValidator{}.Validate(phase, nil, &PhaseResponse{ExploredSeconds: 60})
	assert.True(t, util.IsValidation(err))
}

func TestDecisionValidatorNoWrongBranch(t *testing.T) {
	phase := &model.Phase{
		Type: model.PhaseDecision,
		Config: model.PhaseConfig{Options: []model.DecisionOption{
			{ID: "tower", Consequence: "you climb up"},
			{ID: "crypt", Consequence: "you descend"},
		}},
	}

	_, err := decisionValidator{}.Validate(phase, nil, &PhaseResponse{})
	assert.True(t, util.IsValidation(err))

	_, err = decisionValidator{}.Validate(phase, nil, &PhaseResponse{DecisionID: "garden"})
	assert.True(t, util.IsValidation(err))

	outcome, err := decisionValidator{}.Validate(phase, nil, &PhaseResponse{DecisionID: "crypt"})
	require.NoError(t, err)
	assert.Equal(t, DefaultDecisionPoints, outcome.ScoreDelta)
	require.Len(t, outcome.Feedback, 1)
	assert.Equal(t, "you descend", outcome.Feedback[0].Text)
}

func TestResponseMatchesType(t *testing.T) {
	quizPayload := &PhaseResponse{Answers: []QuizAnswer{{QuestionID: 1, Chosen: "A"}}}
	visitPayload := &PhaseResponse{VisitedLocationID: "x"}

	assert.True(t, responseMatchesType(model.PhaseQuiz, quizPayload))
	assert.False(t, responseMatchesType(model.PhaseQuiz, visitPayload))
	assert.False(t, responseMatchesType(model.PhaseVisitPoint, quizPayload))
	assert.False(t, responseMatchesType(model.PhaseDecision, visitPayload))

	// dialogue ignores whatever the client sends
	assert.True(t, responseMatchesType(model.PhaseDialogue, visitPayload))
}
