package model

type PhaseType string

const (
	PhaseDialogue        PhaseType = "dialogue"
	PhaseQuiz            PhaseType = "quiz"
	PhaseVisitPoint      PhaseType = "visit_point"
	PhaseFindArtifact    PhaseType = "find_artifact"
	PhaseFreeExploration PhaseType = "free_exploration"
	PhaseDecision        PhaseType = "decision"
)

// DecisionOption is one branch of a decision phase.
type DecisionOption struct {
	ID          string `json:"id"`
	Text        string `json:"text"`
	Consequence string `json:"consequence"`
}

// PhaseConfig holds the type-specific authoring fields. Only the fields
// relevant to the phase's type are populated.
type PhaseConfig struct {
	NPCName               string           `json:"npcName,omitempty"`
	TargetLocationID      string           `json:"targetLocationId,omitempty"`
	TargetArtifactID      string           `json:"targetArtifactId,omitempty"`
	MinExplorationSeconds int              `json:"minExplorationSeconds,omitempty"`
	Options               []DecisionOption `json:"options,omitempty"`
}

// Phase is one ordered step of a mission. Sequence numbers are 1-based and
// unique within a mission; progression always resolves the next phase from
// the ordered catalog list, so authoring gaps are tolerated.
// swagger:model Phase
type Phase struct {
	BaseModel

	MissionID      uint        `gorm:"index;uniqueIndex:idx_mission_sequence" json:"missionId"`
	SequenceNumber int         `gorm:"uniqueIndex:idx_mission_sequence;not null" json:"sequenceNumber"`
	Type           PhaseType   `gorm:"size:30;not null" json:"type"`
	Description    string      `gorm:"type:text" json:"description"`
	Config         PhaseConfig `gorm:"serializer:json" json:"config"`
	Points         int         `gorm:"default:0" json:"points"`
	XPReward       int         `gorm:"default:0" json:"xpReward"`
}

func (Phase) TableName() string {
	return "phases"
}
