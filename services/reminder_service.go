// services/reminder_service.go
package services

import (
	"context"
	"time"

	"habit-pact/calendar"
	"habit-pact/models"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ReminderDays is how many trailing days a reminder's calendar covers.
const ReminderDays = 7

type ReminderParticipant struct {
	ParticipantID string             `json:"participant_id"`
	Email         string             `json:"email"`
	Streak        int                `json:"streak"`
	LastSevenDays []calendar.DayFlag `json:"last_seven_days"`
}

// CheckInReminder carries everything a notifier needs to ask both sides of
// one challenge whether they did the habit today.
type CheckInReminder struct {
	ChallengeID      string              `json:"challenge_id"`
	HabitDescription string              `json:"habit_description"`
	Date             string              `json:"date"`
	Initiator        ReminderParticipant `json:"initiator"`
	Friend           ReminderParticipant `json:"friend"`
}

// Recipient returns the seat's participant and their partner.
func (r CheckInReminder) Recipient(side models.Side) (self, partner ReminderParticipant) {
	if side == models.SideInitiator {
		return r.Initiator, r.Friend
	}
	return r.Friend, r.Initiator
}

type ReminderService struct {
	DB    *gorm.DB
	Clock clockwork.Clock
	Log   *zap.SugaredLogger
}

func NewReminderService(db *gorm.DB, clock clockwork.Clock, log *zap.SugaredLogger) *ReminderService {
	return &ReminderService{DB: db, Clock: clock, Log: log}
}

// DailyCheckInReminders builds one payload per active challenge. It is pulled
// by the scheduler; nothing here schedules or sends.
func (s *ReminderService) DailyCheckInReminders(ctx context.Context) ([]CheckInReminder, error) {
	db := s.DB.WithContext(ctx)
	today := calendar.Midnight(s.Clock.Now())

	challenges, err := activeChallenges(db)
	if err != nil {
		return nil, err
	}
	if len(challenges) == 0 {
		return []CheckInReminder{}, nil
	}

	since := calendar.DayKey(today.AddDate(0, 0, -(ReminderDays - 1)))
	days, err := completionDays(db, challengeIDs(challenges), since)
	if err != nil {
		return nil, err
	}

	reminders := make([]CheckInReminder, 0, len(challenges))
	for _, c := range challenges {
		perParticipant := days[c.ID]
		reminders = append(reminders, CheckInReminder{
			ChallengeID:      c.ID,
			HabitDescription: c.HabitDescription,
			Date:             calendar.DayKey(today),
			Initiator:        reminderParticipant(c.Initiator, c.InitiatorStreak, today, perParticipant[c.InitiatorID]),
			Friend:           reminderParticipant(c.Friend, c.FriendStreak, today, perParticipant[c.FriendID]),
		})
	}
	s.Log.Debugf("[Reminder] Built %d check-in reminder(s) for %s", len(reminders), calendar.DayKey(today))
	return reminders, nil
}

func reminderParticipant(p models.Participant, streak int, today time.Time, days []string) ReminderParticipant {
	completed := make(map[string]bool, len(days))
	for _, d := range days {
		completed[d] = true
	}
	return ReminderParticipant{
		ParticipantID: p.ID,
		Email:         p.Email,
		Streak:        streak,
		LastSevenDays: calendar.TrailingDays(today, ReminderDays, completed),
	}
}
