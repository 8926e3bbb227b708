package services

import (
	"context"
	"testing"
	"time"

	"habit-pact/database"
	"habit-pact/models"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var challengeStart = time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

type testEnv struct {
	db         *gorm.DB
	clock      *clockwork.FakeClock
	identity   *IdentityService
	challenges *ChallengeService
	checkins   *CheckinService
	streaks    *StreakService
	reminders  *ReminderService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := database.OpenInMemory()
	require.NoError(t, err)

	log := zap.NewNop().Sugar()
	clock := clockwork.NewFakeClockAt(challengeStart)
	identity := NewIdentityService(db, log)

	return &testEnv{
		db:         db,
		clock:      clock,
		identity:   identity,
		challenges: NewChallengeService(db, identity, clock, log),
		checkins:   NewCheckinService(db, clock, log),
		streaks:    NewStreakService(db, log),
		reminders:  NewReminderService(db, clock, log),
	}
}

// activeChallenge creates and accepts a challenge at the env's current time.
func (e *testEnv) activeChallenge(t *testing.T, habit, initiator, friend string) *models.Challenge {
	t.Helper()
	ctx := context.Background()
	c, err := e.challenges.Create(ctx, CreateChallengeRequest{
		HabitDescription: habit,
		InitiatorEmail:   initiator,
		FriendEmail:      friend,
	})
	require.NoError(t, err)
	accepted, err := e.challenges.AcceptByToken(ctx, c.InviteToken)
	require.NoError(t, err)
	return accepted
}

func (e *testEnv) checkIn(t *testing.T, c *models.Challenge, participantID string, completed bool) *CheckInResult {
	t.Helper()
	res, err := e.checkins.RecordCheckIn(context.Background(), CheckInRequest{
		ChallengeID:   c.ID,
		ParticipantID: participantID,
		Completed:     completed,
	})
	require.NoError(t, err)
	return res
}

func (e *testEnv) setStreaks(t *testing.T, id string, initiator, friend int) {
	t.Helper()
	require.NoError(t, e.db.Model(&models.Challenge{}).Where("id = ?", id).Updates(map[string]interface{}{
		"initiator_streak": initiator,
		"friend_streak":    friend,
	}).Error)
}

func (e *testEnv) countCompletions(t *testing.T, challengeID, participantID string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(&models.CompletionRecord{}).
		Where("challenge_id = ? AND participant_id = ?", challengeID, participantID).
		Count(&n).Error)
	return n
}
