package model

// swagger:model QuizQuestion
type QuizQuestion struct {
	BaseModel

	PhaseID           uint   `gorm:"index" json:"phaseId"`
	Order             int    `gorm:"default:0" json:"order"`
	Text              string `gorm:"type:text;not null" json:"text"`
	OptionA           string `gorm:"size:500" json:"optionA"`
	OptionB           string `gorm:"size:500" json:"optionB"`
	OptionC           string `gorm:"size:500" json:"optionC"`
	OptionD           string `gorm:"size:500" json:"optionD"`
	CorrectOption     string `gorm:"size:1;not null" json:"-"`
	FeedbackCorrect   string `gorm:"size:500" json:"-"`
	FeedbackIncorrect string `gorm:"size:500" json:"-"`
	Points            int    `gorm:"default:100" json:"points"`
}

func (QuizQuestion) TableName() string {
	return "quiz_questions"
}
