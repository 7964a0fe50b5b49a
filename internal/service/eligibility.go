package service

import (
	"explora_backend/internal/model"
	"fmt"
)

// eligibility is a snapshot of everything start/listing checks against.
type eligibility struct {
	Level             int
	CompletedMissions map[uint]bool
	OwnedBadges       map[uint]bool
}

// blockReason returns a player-facing reason the mission cannot be started,
// or "" when the player is eligible.
func blockReason(m *model.Mission, e eligibility) string {
	if e.Level < m.MinLevel {
		return fmt.Sprintf("requires exploration level %d", m.MinLevel)
	}
	for _, pre := range m.Prerequisites {
		if !e.CompletedMissions[pre.ID] {
			return fmt.Sprintf("requires completing mission %q", pre.Title)
		}
	}
	for _, badge := range m.RequiredBadges {
		if !e.OwnedBadges[badge.ID] {
			return fmt.Sprintf("requires badge %q", badge.Name)
		}
	}
	return ""
}
