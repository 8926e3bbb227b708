// services/streak_service.go
package services

import (
	"context"
	"sort"
	"time"

	"habit-pact/apperrors"
	"habit-pact/calendar"
	"habit-pact/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DefaultTopStreaks is how many entries the dashboard leaderboard shows.
const DefaultTopStreaks = 5

// ActiveStreak is one row of the dashboard report. Day indices are offsets
// from StartDate inside the challenge window, built only from real records.
type ActiveStreak struct {
	ChallengeID         string    `json:"id"`
	HabitDescription    string    `json:"habit_description"`
	InitiatorEmail      string    `json:"initiator_email"`
	FriendEmail         string    `json:"friend_email"`
	InitiatorStreak     int       `json:"initiator_streak"`
	FriendStreak        int       `json:"friend_streak"`
	StartDate           time.Time `json:"start_date"`
	InitiatorDayIndices []int     `json:"initiator_day_indices"`
	FriendDayIndices    []int     `json:"friend_day_indices"`
}

type TopStreak struct {
	ChallengeID      string      `json:"challenge_id"`
	HabitDescription string      `json:"habit_description"`
	ParticipantEmail string      `json:"participant_email"`
	Side             models.Side `json:"side"`
	StreakCount      int         `json:"streak_count"`
}

type StreakService struct {
	DB  *gorm.DB
	Log *zap.SugaredLogger
}

func NewStreakService(db *gorm.DB, log *zap.SugaredLogger) *StreakService {
	return &StreakService{DB: db, Log: log}
}

// ActiveStreaksReport projects every active challenge with both counters and
// the day indices of its completions, most recently started first.
func (s *StreakService) ActiveStreaksReport(ctx context.Context) ([]ActiveStreak, error) {
	db := s.DB.WithContext(ctx)

	challenges, err := activeChallenges(db)
	if err != nil {
		return nil, err
	}
	if len(challenges) == 0 {
		return []ActiveStreak{}, nil
	}

	days, err := completionDays(db, challengeIDs(challenges), "")
	if err != nil {
		return nil, err
	}

	report := make([]ActiveStreak, 0, len(challenges))
	for _, c := range challenges {
		var start time.Time
		if c.StartDate != nil {
			start = *c.StartDate
		}
		perParticipant := days[c.ID]
		report = append(report, ActiveStreak{
			ChallengeID:         c.ID,
			HabitDescription:    c.HabitDescription,
			InitiatorEmail:      c.Initiator.Email,
			FriendEmail:         c.Friend.Email,
			InitiatorStreak:     c.InitiatorStreak,
			FriendStreak:        c.FriendStreak,
			StartDate:           start,
			InitiatorDayIndices: calendar.DayIndices(start, perParticipant[c.InitiatorID], calendar.ChallengeWindow),
			FriendDayIndices:    calendar.DayIndices(start, perParticipant[c.FriendID], calendar.ChallengeWindow),
		})
	}
	return report, nil
}

// TopStreaks flattens both seats of every active challenge and returns the n
// longest current streaks. Ties keep challenge id order, initiator first.
func (s *StreakService) TopStreaks(ctx context.Context, n int) ([]TopStreak, error) {
	if n <= 0 {
		n = DefaultTopStreaks
	}

	var challenges []models.Challenge
	err := s.DB.WithContext(ctx).
		Preload("Initiator").
		Preload("Friend").
		Where("status = ?", models.ChallengeStatusActive).
		Order("id ASC").
		Find(&challenges).Error
	if err != nil {
		return nil, apperrors.Internal("streakService.TopStreaks", err)
	}

	return RankStreaks(challenges, n), nil
}

// RankStreaks is the pure ranking step behind TopStreaks.
func RankStreaks(challenges []models.Challenge, n int) []TopStreak {
	entries := make([]TopStreak, 0, len(challenges)*2)
	for _, c := range challenges {
		entries = append(entries,
			TopStreak{
				ChallengeID:      c.ID,
				HabitDescription: c.HabitDescription,
				ParticipantEmail: c.Initiator.Email,
				Side:             models.SideInitiator,
				StreakCount:      c.InitiatorStreak,
			},
			TopStreak{
				ChallengeID:      c.ID,
				HabitDescription: c.HabitDescription,
				ParticipantEmail: c.Friend.Email,
				Side:             models.SideFriend,
				StreakCount:      c.FriendStreak,
			},
		)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.StreakCount != b.StreakCount {
			return a.StreakCount > b.StreakCount
		}
		if a.ChallengeID != b.ChallengeID {
			return a.ChallengeID < b.ChallengeID
		}
		return a.Side == models.SideInitiator && b.Side != models.SideInitiator
	})

	if len(entries) > n {
		entries = entries[:n]
	}
	return entries
}

func challengeIDs(challenges []models.Challenge) []string {
	ids := make([]string, len(challenges))
	for i, c := range challenges {
		ids[i] = c.ID
	}
	return ids
}

// completionDays groups recorded days by challenge and participant. When since
// is set only days on or after it are loaded.
func completionDays(db *gorm.DB, ids []string, since string) (map[string]map[string][]string, error) {
	var records []models.CompletionRecord
	q := db.Where("challenge_id IN ?", ids)
	if since != "" {
		q = q.Where("day >= ?", since)
	}
	if err := q.Order("day ASC").Find(&records).Error; err != nil {
		return nil, apperrors.Internal("streakService.completionDays", err)
	}

	grouped := make(map[string]map[string][]string, len(ids))
	for _, r := range records {
		if grouped[r.ChallengeID] == nil {
			grouped[r.ChallengeID] = map[string][]string{}
		}
		grouped[r.ChallengeID][r.ParticipantID] = append(grouped[r.ChallengeID][r.ParticipantID], r.Day)
	}
	return grouped, nil
}
