package models

import "time"

// ChallengeStatus moves pending → active → completed|abandoned and never back.
type ChallengeStatus string

const (
	ChallengeStatusPending   ChallengeStatus = "pending"
	ChallengeStatusActive    ChallengeStatus = "active"
	ChallengeStatusCompleted ChallengeStatus = "completed"
	ChallengeStatusAbandoned ChallengeStatus = "abandoned"
)

var challengeTransitions = map[ChallengeStatus][]ChallengeStatus{
	ChallengeStatusPending: {ChallengeStatusActive},
	ChallengeStatusActive:  {ChallengeStatusCompleted, ChallengeStatusAbandoned},
}

// CanTransitionTo reports whether next is a legal successor of s.
func (s ChallengeStatus) CanTransitionTo(next ChallengeStatus) bool {
	for _, allowed := range challengeTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Side says which seat of a challenge a participant occupies.
type Side string

const (
	SideInitiator Side = "initiator"
	SideFriend    Side = "friend"
)

// StreakColumn is the denormalized counter column for the side.
func (s Side) StreakColumn() string {
	if s == SideInitiator {
		return "initiator_streak"
	}
	return "friend_streak"
}

// Challenge is a two-party habit commitment over an 18-day window.
type Challenge struct {
	ID               string          `gorm:"primaryKey;type:uuid" json:"id"`
	HabitDescription string          `gorm:"type:text;not null" json:"habit_description"`
	InitiatorID      string          `gorm:"type:uuid;not null;index" json:"initiator_id"`
	FriendID         string          `gorm:"type:uuid;not null;index" json:"friend_id"`
	InviteToken      string          `gorm:"type:varchar(64);uniqueIndex;not null" json:"-"`
	Status           ChallengeStatus `gorm:"type:varchar(16);not null;default:'pending';index" json:"status"`
	StartDate        *time.Time      `json:"start_date,omitempty"`

	// Denormalized streak counters, written only by the check-in recorder
	// and by acceptance.
	InitiatorStreak int        `gorm:"not null;default:0" json:"initiator_streak"`
	FriendStreak    int        `gorm:"not null;default:0" json:"friend_streak"`
	LastCheckinAt   *time.Time `json:"last_checkin_at,omitempty"`

	Initiator Participant `gorm:"foreignKey:InitiatorID" json:"initiator"`
	Friend    Participant `gorm:"foreignKey:FriendID" json:"friend"`

	Timestamps
}

// SideOf resolves which seat participantID holds.
func (c *Challenge) SideOf(participantID string) (Side, bool) {
	switch participantID {
	case c.InitiatorID:
		return SideInitiator, true
	case c.FriendID:
		return SideFriend, true
	}
	return "", false
}

func (c *Challenge) StreakFor(side Side) int {
	if side == SideInitiator {
		return c.InitiatorStreak
	}
	return c.FriendStreak
}

// ParticipantFor returns the participant in the seat; it is only populated
// when the relation was preloaded.
func (c *Challenge) ParticipantFor(side Side) Participant {
	if side == SideInitiator {
		return c.Initiator
	}
	return c.Friend
}

// Partner returns the opposite seat.
func (s Side) Partner() Side {
	if s == SideInitiator {
		return SideFriend
	}
	return SideInitiator
}
