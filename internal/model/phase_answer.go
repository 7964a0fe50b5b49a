package model

// PhaseAnswer records one answered quiz question within a progress run.
// A question can be answered once per run.
type PhaseAnswer struct {
	BaseModel

	ProgressID uint   `gorm:"uniqueIndex:idx_progress_question;not null" json:"progressId"`
	QuestionID uint   `gorm:"uniqueIndex:idx_progress_question;not null" json:"questionId"`
	PhaseID    uint   `gorm:"index" json:"phaseId"`
	Chosen     string `gorm:"size:1" json:"chosen"`
	Correct    bool   `json:"correct"`
	Points     int    `gorm:"default:0" json:"points"`
}

func (PhaseAnswer) TableName() string {
	return "phase_answers"
}
