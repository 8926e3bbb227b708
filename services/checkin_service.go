// services/checkin_service.go
package services

import (
	"context"
	"time"

	"habit-pact/apperrors"
	"habit-pact/calendar"
	"habit-pact/models"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CheckInRequest struct {
	ChallengeID   string
	ParticipantID string
	Completed     bool
	// Day defaults to today (UTC) when zero.
	Day time.Time
}

// CheckInResult is what a check-in did. StreakWasReset lets the caller decide
// whether a "streak broken" message is due.
type CheckInResult struct {
	Challenge       *models.Challenge `json:"challenge"`
	Side            models.Side       `json:"side"`
	Day             string            `json:"day"`
	Streak          int               `json:"streak"`
	Recorded        bool              `json:"recorded"`
	AlreadyRecorded bool              `json:"already_recorded"`
	StreakWasReset  bool              `json:"streak_was_reset"`
	// PreviousStreak is the counter before a failed check-in zeroed it.
	PreviousStreak int `json:"previous_streak,omitempty"`
}

type CheckinService struct {
	DB    *gorm.DB
	Clock clockwork.Clock
	Log   *zap.SugaredLogger
}

func NewCheckinService(db *gorm.DB, clock clockwork.Clock, log *zap.SugaredLogger) *CheckinService {
	return &CheckinService{DB: db, Clock: clock, Log: log}
}

// RecordCheckIn appends a completion for (challenge, participant, day) and moves
// the denormalized counter. A repeated completed check-in for the same day is a
// no-op. A failed check-in zeroes the counter and leaves the log untouched.
func (s *CheckinService) RecordCheckIn(ctx context.Context, req CheckInRequest) (*CheckInResult, error) {
	now := s.Clock.Now().UTC()
	day := req.Day
	if day.IsZero() {
		day = now
	}
	dayKey := calendar.DayKey(day)

	result := &CheckInResult{Day: dayKey}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var challenge models.Challenge
		err := lockChallengeRow(tx, req.ChallengeID).First(&challenge).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrChallengeNotFound
		}
		if err != nil {
			return errors.Wrap(err, "checkinService.RecordCheckIn.Lookup")
		}
		if challenge.Status != models.ChallengeStatusActive {
			return apperrors.ErrChallengeNotActive
		}

		side, ok := challenge.SideOf(req.ParticipantID)
		if !ok {
			return apperrors.ErrNotAParticipant
		}
		result.Side = side
		column := side.StreakColumn()
		prior := challenge.StreakFor(side)

		updates := map[string]interface{}{"last_checkin_at": now}

		if req.Completed {
			record := models.CompletionRecord{
				ID:            uuid.NewString(),
				ChallengeID:   challenge.ID,
				ParticipantID: req.ParticipantID,
				Day:           dayKey,
			}
			res := tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{
					{Name: "challenge_id"}, {Name: "participant_id"}, {Name: "day"},
				},
				DoNothing: true,
			}).Create(&record)
			if res.Error != nil {
				return errors.Wrap(res.Error, "checkinService.RecordCheckIn.InsertCompletion")
			}
			if res.RowsAffected == 0 {
				result.AlreadyRecorded = true
				result.Streak = prior
				return nil
			}
			result.Recorded = true
			updates[column] = gorm.Expr(column + " + 1")
		} else {
			updates[column] = 0
			result.StreakWasReset = prior > 0
			result.PreviousStreak = prior
		}

		if err := tx.Model(&models.Challenge{}).Where("id = ?", challenge.ID).Updates(updates).Error; err != nil {
			return errors.Wrap(err, "checkinService.RecordCheckIn.UpdateStreak")
		}

		var streak int
		if err := tx.Model(&models.Challenge{}).Select(column).Where("id = ?", challenge.ID).Scan(&streak).Error; err != nil {
			return errors.Wrap(err, "checkinService.RecordCheckIn.ReadStreak")
		}
		result.Streak = streak
		return nil
	})
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return nil, err
		}
		return nil, apperrors.Internal("failed to record check-in", err)
	}

	challenge, err := loadChallenge(s.DB.WithContext(ctx), req.ChallengeID)
	if err != nil {
		return nil, err
	}
	result.Challenge = challenge

	switch {
	case result.AlreadyRecorded:
		s.Log.Debugf("[Checkin] 🔁 %s already checked in for %s on %s", req.ParticipantID, req.ChallengeID, dayKey)
	case result.Recorded:
		s.Log.Infof("[Checkin] 🔥 %s streak on %s is now %d", result.Side, req.ChallengeID, result.Streak)
	case result.StreakWasReset:
		s.Log.Infof("[Checkin] 💔 %s streak on %s was reset", result.Side, req.ChallengeID)
	}
	return result, nil
}

// CompletionDays returns the recorded days for one participant, oldest first.
func (s *CheckinService) CompletionDays(ctx context.Context, challengeID, participantID string) ([]string, error) {
	var days []string
	err := s.DB.WithContext(ctx).
		Model(&models.CompletionRecord{}).
		Where("challenge_id = ? AND participant_id = ?", challengeID, participantID).
		Order("day ASC").
		Pluck("day", &days).Error
	if err != nil {
		return nil, apperrors.Internal("checkinService.CompletionDays", err)
	}
	return days, nil
}

// lockChallengeRow holds the challenge row until the transaction ends so the
// prior streak read here is the one the update replaces. SQLite drops the clause.
func lockChallengeRow(tx *gorm.DB, id string) *gorm.DB {
	return tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id)
}
