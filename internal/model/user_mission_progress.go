package model

import (
	"time"
)

type ProgressStatus string

const (
	ProgressInProgress ProgressStatus = "IN_PROGRESS"
	ProgressCompleted  ProgressStatus = "COMPLETED"
)

// PhaseSet is the typed set of completed phase numbers, stored as JSON.
type PhaseSet map[int]bool

func (s PhaseSet) Done(sequence int) bool {
	return s[sequence]
}

// UserMissionProgress tracks one player's run through one mission. At most
// one row exists per (user, mission) pair.
//
// Invariants: CurrentPhase is an existing sequence number of the mission or
// one past the last phase once completed; Score never decreases;
// CompletedAt is non-nil iff Status is COMPLETED.
// swagger:model UserMissionProgress
type UserMissionProgress struct {
	BaseModel

	UserID           uint           `gorm:"uniqueIndex:idx_user_mission;not null" json:"userId"`
	MissionID        uint           `gorm:"uniqueIndex:idx_user_mission;not null" json:"missionId"`
	Status           ProgressStatus `gorm:"size:20;default:'IN_PROGRESS'" json:"status"`
	CurrentPhase     int            `gorm:"default:1" json:"currentPhase"`
	Score            int            `gorm:"default:0" json:"score"`
	Attempts         int            `gorm:"default:0" json:"attempts"`
	CorrectAnswers   int            `gorm:"default:0" json:"correctAnswers"`
	IncorrectAnswers int            `gorm:"default:0" json:"incorrectAnswers"`
	StartedAt        time.Time      `json:"startedAt"`
	CompletedAt      *time.Time     `json:"completedAt,omitempty"`
	CompletedPhases  PhaseSet       `gorm:"serializer:json" json:"completedPhases"`
}

func (UserMissionProgress) TableName() string {
	return "user_mission_progress"
}
