package service

import (
	"explora_backend/internal/model"
	"explora_backend/internal/util"
)

// Default scores for phase types whose points were not authored explicitly.
const (
	DefaultDialoguePoints    = 50
	DefaultVisitPoints       = 100
	DefaultArtifactPoints    = 150
	DefaultExplorationPoints = 80
	DefaultDecisionPoints    = 75

	DefaultMinExplorationSeconds = 60
)

// QuizAnswer is one answer within a full quiz phase submission.
type QuizAnswer struct {
	QuestionID uint   `json:"questionId" binding:"required"`
	Chosen     string `json:"chosen" binding:"required"`
}

// PhaseResponse is the caller's payload for a phase submission. Only the
// fields matching the phase's type may be set; anything else is a type
// mismatch, not a validation failure.
// swagger:model PhaseResponse
type PhaseResponse struct {
	Answers           []QuizAnswer `json:"answers,omitempty"`
	VisitedLocationID string       `json:"visitedLocationId,omitempty"`
	FoundArtifactID   string       `json:"foundArtifactId,omitempty"`
	ExploredSeconds   int          `json:"exploredSeconds,omitempty"`
	DecisionID        string       `json:"decisionId,omitempty"`
}

// AnswerFeedback is one line of player-facing feedback.
type AnswerFeedback struct {
	QuestionID uint   `json:"questionId,omitempty"`
	Correct    bool   `json:"correct"`
	Text       string `json:"text,omitempty"`
	Points     int    `json:"points"`
}

// PhaseOutcome is a validator verdict. Validators never touch progress
// state; the tracker applies the outcome in its own transaction.
type PhaseOutcome struct {
	ScoreDelta int
	Correct    int
	Incorrect  int
	Feedback   []AnswerFeedback
	Answers    []model.PhaseAnswer
}

type phaseValidator interface {
	Validate(phase *model.Phase, questions []model.QuizQuestion, resp *PhaseResponse) (*PhaseOutcome, error)
}

var phaseValidators = map[model.PhaseType]phaseValidator{
	model.PhaseDialogue:        dialogueValidator{},
	model.PhaseQuiz:            quizValidator{},
	model.PhaseVisitPoint:      visitPointValidator{},
	model.PhaseFindArtifact:    findArtifactValidator{},
	model.PhaseFreeExploration: freeExplorationValidator{},
	model.PhaseDecision:        decisionValidator{},
}

func validatorFor(t model.PhaseType) (phaseValidator, bool) {
	v, ok := phaseValidators[t]
	return v, ok
}

// responseMatchesType rejects payloads shaped for a different phase type
// before any validator runs.
func responseMatchesType(t model.PhaseType, resp *PhaseResponse) bool {
	switch t {
	case model.PhaseQuiz:
		return resp.VisitedLocationID == "" && resp.FoundArtifactID == "" &&
			resp.ExploredSeconds == 0 && resp.DecisionID == ""
	case model.PhaseVisitPoint:
		return len(resp.Answers) == 0 && resp.FoundArtifactID == "" &&
			resp.ExploredSeconds == 0 && resp.DecisionID == ""
	case model.PhaseFindArtifact:
		return len(resp.Answers) == 0 && resp.VisitedLocationID == "" &&
			resp.ExploredSeconds == 0 && resp.DecisionID == ""
	case model.PhaseFreeExploration:
		return len(resp.Answers) == 0 && resp.VisitedLocationID == "" &&
			resp.FoundArtifactID == "" && resp.DecisionID == ""
	case model.PhaseDecision:
		return len(resp.Answers) == 0 && resp.VisitedLocationID == "" &&
			resp.FoundArtifactID == "" && resp.ExploredSeconds == 0
	default: // dialogue needs no payload, extra fields are ignored
		return true
	}
}

func phasePoints(phase *model.Phase, fallback int) int {
	if phase.Points > 0 {
		return phase.Points
	}
	return fallback
}

type dialogueValidator struct{}

func (dialogueValidator) Validate(phase *model.Phase, _ []model.QuizQuestion, _ *PhaseResponse) (*PhaseOutcome, error) {
	points := phasePoints(phase, DefaultDialoguePoints)
	return &PhaseOutcome{
		ScoreDelta: points,
		Feedback: []AnswerFeedback{{
			Correct: true,
			Text:    phase.Config.NPCName,
			Points:  points,
		}},
	}, nil
}

type quizValidator struct{}

// Validate checks every question of the phase independently. Wrong answers
// are counted but never block completion.
func (quizValidator) Validate(phase *model.Phase, questions []model.QuizQuestion, resp *PhaseResponse) (*PhaseOutcome, error) {
	if len(questions) == 0 {
		return nil, util.ErrQuestionNotFound
	}

	chosen := make(map[uint]string, len(resp.Answers))
	for _, a := range resp.Answers {
		chosen[a.QuestionID] = a.Chosen
	}

	for _, q := range questions {
		if _, ok := chosen[q.ID]; !ok {
			return nil, util.Validationf("question %d has no answer", q.ID)
		}
	}
	if len(resp.Answers) != len(questions) {
		return nil, util.Validationf("answers do not match the phase's questions")
	}

	outcome := &PhaseOutcome{}
	for _, q := range questions {
		correct, feedback, answer := gradeQuestion(&q, chosen[q.ID])
		outcome.Feedback = append(outcome.Feedback, feedback)
		outcome.Answers = append(outcome.Answers, answer)
		if correct {
			outcome.Correct++
			outcome.ScoreDelta += q.Points
		} else {
			outcome.Incorrect++
		}
	}
	return outcome, nil
}

func gradeQuestion(q *model.QuizQuestion, chosen string) (bool, AnswerFeedback, model.PhaseAnswer) {
	correct := chosen == q.CorrectOption

	feedback := AnswerFeedback{
		QuestionID: q.ID,
		Correct:    correct,
	}
	if correct {
		feedback.Text = q.FeedbackCorrect
		feedback.Points = q.Points
	} else {
		feedback.Text = q.FeedbackIncorrect
	}

	answer := model.PhaseAnswer{
		QuestionID: q.ID,
		PhaseID:    q.PhaseID,
		Chosen:     chosen,
		Correct:    correct,
	}
	if correct {
		answer.Points = q.Points
	}
	return correct, feedback, answer
}

type visitPointValidator struct{}

func (visitPointValidator) Validate(phase *model.Phase, _ []model.QuizQuestion, resp *PhaseResponse) (*PhaseOutcome, error) {
	if resp.VisitedLocationID == "" {
		return nil, util.Validationf("visited location is required")
	}
	if resp.VisitedLocationID != phase.Config.TargetLocationID {
		return nil, util.Validationf("location %q is not the phase target", resp.VisitedLocationID)
	}

	points := phasePoints(phase, DefaultVisitPoints)
	return &PhaseOutcome{
		ScoreDelta: points,
		Feedback:   []AnswerFeedback{{Correct: true, Points: points}},
	}, nil
}

type findArtifactValidator struct{}

func (findArtifactValidator) Validate(phase *model.Phase, _ []model.QuizQuestion, resp *PhaseResponse) (*PhaseOutcome, error) {
	if resp.FoundArtifactID == "" {
		return nil, util.Validationf("found artifact is required")
	}
	// The target is optional authoring data; when present it must match.
	if target := phase.Config.TargetArtifactID; target != "" && resp.FoundArtifactID != target {
		return nil, util.Validationf("artifact %q is not the phase target", resp.FoundArtifactID)
	}

	points := phasePoints(phase, DefaultArtifactPoints)
	return &PhaseOutcome{
		ScoreDelta: points,
		Feedback:   []AnswerFeedback{{Correct: true, Points: points}},
	}, nil
}

type freeExplorationValidator struct{}

func (freeExplorationValidator) Validate(phase *model.Phase, _ []model.QuizQuestion, resp *PhaseResponse) (*PhaseOutcome, error) {
	minSeconds := phase.Config.MinExplorationSeconds
	if minSeconds <= 0 {
		minSeconds = DefaultMinExplorationSeconds
	}
	if resp.ExploredSeconds < minSeconds {
		return nil, util.Validationf("exploration requires at least %d seconds", minSeconds)
	}

	points := phasePoints(phase, DefaultExplorationPoints)
	return &PhaseOutcome{
		ScoreDelta: points,
		Feedback:   []AnswerFeedback{{Correct: true, Points: points}},
	}, nil
}

type decisionValidator struct{}

// Validate accepts any configured option. There is no wrong branch, the
// consequence text is returned as feedback.
func (decisionValidator) Validate(phase *model.Phase, _ []model.QuizQuestion, resp *PhaseResponse) (*PhaseOutcome, error) {
	if resp.DecisionID == "" {
		return nil, util.Validationf("decision is required")
	}

	var chosen *model.DecisionOption
	for i := range phase.Config.Options {
		if phase.Config.Options[i].ID == resp.DecisionID {
			chosen = &phase.Config.Options[i]
			break
		}
	}
	if len(phase.Config.Options) > 0 && chosen == nil {
		return nil, util.Validationf("decision %q is not one of the phase options", resp.DecisionID)
	}

	points := phasePoints(phase, DefaultDecisionPoints)
	feedback := AnswerFeedback{Correct: true, Points: points}
	if chosen != nil {
		feedback.Text = chosen.Consequence
	}
	return &PhaseOutcome{
		ScoreDelta: points,
		Feedback:   []AnswerFeedback{feedback},
	}, nil
}
