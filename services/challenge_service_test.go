package services

import (
	"context"
	"testing"
	"time"

	"habit-pact/apperrors"
	"habit-pact/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateChallenge(t *testing.T) {
	env := newTestEnv(t)

	c, err := env.challenges.Create(context.Background(), CreateChallengeRequest{
		HabitDescription: "  meditate ",
		InitiatorEmail:   "a@x.com",
		FriendEmail:      "B@x.com",
	})
	require.NoError(t, err)

	assert.Equal(t, models.ChallengeStatusPending, c.Status)
	assert.Equal(t, "meditate", c.HabitDescription)
	assert.Nil(t, c.StartDate)
	assert.Len(t, c.InviteToken, 22)
	assert.Equal(t, "a@x.com", c.Initiator.Email)
	assert.Equal(t, "b@x.com", c.Friend.Email)
	assert.NotEqual(t, c.InitiatorID, c.FriendID)

	stored, err := env.challenges.GetByID(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, c.InviteToken, stored.InviteToken)
	assert.Equal(t, models.ChallengeStatusPending, stored.Status)
}

func TestCreateChallengeRejectsSameEmail(t *testing.T) {
	env := newTestEnv(t)

	for _, pair := range [][2]string{
		{"a@x.com", "a@x.com"},
		{"A@X.com", " a@x.COM"},
	} {
		_, err := env.challenges.Create(context.Background(), CreateChallengeRequest{
			HabitDescription: "run",
			InitiatorEmail:   pair[0],
			FriendEmail:      pair[1],
		})
		assert.True(t, apperrors.Is(err, apperrors.CodeValidation), pair)
	}

	var count int64
	require.NoError(t, env.db.Model(&models.Challenge{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreateChallengeValidatesInput(t *testing.T) {
	env := newTestEnv(t)

	cases := []CreateChallengeRequest{
		{HabitDescription: "", InitiatorEmail: "a@x.com", FriendEmail: "b@x.com"},
		{HabitDescription: "run", InitiatorEmail: "not-an-email", FriendEmail: "b@x.com"},
		{HabitDescription: "run", InitiatorEmail: "a@x.com", FriendEmail: ""},
	}
	for _, req := range cases {
		_, err := env.challenges.Create(context.Background(), req)
		assert.True(t, apperrors.Is(err, apperrors.CodeValidation), req)
	}
}

func TestCreateChallengeIssuesUniqueTokens(t *testing.T) {
	env := newTestEnv(t)
	seen := map[string]bool{}
	for i := 0; i < 5; i++ {
		c, err := env.challenges.Create(context.Background(), CreateChallengeRequest{
			HabitDescription: "read", InitiatorEmail: "a@x.com", FriendEmail: "b@x.com",
		})
		require.NoError(t, err)
		assert.False(t, seen[c.InviteToken])
		seen[c.InviteToken] = true
	}
}

func TestAcceptByToken(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	c, err := env.challenges.Create(ctx, CreateChallengeRequest{
		HabitDescription: "stretch", InitiatorEmail: "a@x.com", FriendEmail: "b@x.com",
	})
	require.NoError(t, err)

	accepted, err := env.challenges.AcceptByToken(ctx, c.InviteToken)
	require.NoError(t, err)

	assert.Equal(t, models.ChallengeStatusActive, accepted.Status)
	require.NotNil(t, accepted.StartDate)
	assert.True(t, accepted.StartDate.Equal(challengeStart))
	assert.Zero(t, accepted.InitiatorStreak)
	assert.Zero(t, accepted.FriendStreak)
	assert.Equal(t, "a@x.com", accepted.Initiator.Email)
}

func TestAcceptByTokenUnknown(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.challenges.AcceptByToken(context.Background(), "no-such-token")
	assert.True(t, apperrors.Is(err, apperrors.CodeNotFound))
}

func TestAcceptByTokenTwiceConflicts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	c := env.activeChallenge(t, "journal", "a@x.com", "b@x.com")
	env.checkIn(t, c, c.InitiatorID, true)

	env.clock.Advance(48 * time.Hour)
	_, err := env.challenges.AcceptByToken(ctx, c.InviteToken)
	assert.True(t, apperrors.Is(err, apperrors.CodeConflict))

	after, err := env.challenges.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, after.InitiatorStreak)
	assert.True(t, after.StartDate.Equal(challengeStart))
}

func TestGetActiveChallengesOrder(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	older := env.activeChallenge(t, "walk", "a@x.com", "b@x.com")
	env.clock.Advance(2 * time.Hour)
	newer := env.activeChallenge(t, "swim", "c@x.com", "d@x.com")

	_, err := env.challenges.Create(ctx, CreateChallengeRequest{
		HabitDescription: "pending one", InitiatorEmail: "e@x.com", FriendEmail: "f@x.com",
	})
	require.NoError(t, err)

	active, err := env.challenges.GetActiveChallenges(ctx)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, newer.ID, active[0].ID)
	assert.Equal(t, older.ID, active[1].ID)
}

func TestGetByIDNotFound(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.challenges.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, apperrors.ErrChallengeNotFound)
}
