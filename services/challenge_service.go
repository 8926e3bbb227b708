// services/challenge_service.go
package services

import (
	"context"
	"strings"

	"habit-pact/apperrors"
	"habit-pact/models"
	"habit-pact/utils"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var validate = validator.New()

type CreateChallengeRequest struct {
	HabitDescription string `json:"habit_description" form:"habit_description" validate:"required,max=280"`
	InitiatorEmail   string `json:"initiator_email" form:"initiator_email" validate:"required,email"`
	FriendEmail      string `json:"friend_email" form:"friend_email" validate:"required,email"`
}

type ChallengeService struct {
	DB       *gorm.DB
	Identity *IdentityService
	Clock    clockwork.Clock
	Log      *zap.SugaredLogger
}

func NewChallengeService(db *gorm.DB, identity *IdentityService, clock clockwork.Clock, log *zap.SugaredLogger) *ChallengeService {
	return &ChallengeService{DB: db, Identity: identity, Clock: clock, Log: log}
}

// Create is the only way a challenge comes into existence. It starts pending.
func (s *ChallengeService) Create(ctx context.Context, req CreateChallengeRequest) (*models.Challenge, error) {
	req.HabitDescription = strings.TrimSpace(req.HabitDescription)
	req.InitiatorEmail = strings.TrimSpace(req.InitiatorEmail)
	req.FriendEmail = strings.TrimSpace(req.FriendEmail)

	if err := validate.Struct(&req); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeValidation, "invalid challenge request", err)
	}
	if utils.SameEmail(req.InitiatorEmail, req.FriendEmail) {
		return nil, apperrors.ErrSelfChallenge
	}

	// A failure past this point may leave a participant without a challenge.
	// Such rows are harmless and get reused by the next resolve.
	initiator, err := s.Identity.ResolveOrCreate(ctx, req.InitiatorEmail)
	if err != nil {
		return nil, err
	}
	friend, err := s.Identity.ResolveOrCreate(ctx, req.FriendEmail)
	if err != nil {
		return nil, err
	}

	token, err := utils.NewInviteToken()
	if err != nil {
		return nil, apperrors.Internal("challengeService.Create.Token", err)
	}

	challenge := models.Challenge{
		ID:               uuid.NewString(),
		HabitDescription: req.HabitDescription,
		InitiatorID:      initiator.ID,
		FriendID:         friend.ID,
		InviteToken:      token,
		Status:           models.ChallengeStatusPending,
	}
	if err := s.DB.WithContext(ctx).Omit("Initiator", "Friend").Create(&challenge).Error; err != nil {
		return nil, apperrors.Internal("challengeService.Create.Insert", err)
	}
	challenge.Initiator = *initiator
	challenge.Friend = *friend

	s.Log.Infof("[Challenge] 🤝 %s challenged %s to %q (challenge %s)",
		initiator.Email, friend.Email, challenge.HabitDescription, challenge.ID)
	return &challenge, nil
}

// AcceptByToken activates a pending challenge. Status, start date and both
// counters change in one conditional UPDATE so no reader sees a mix.
func (s *ChallengeService) AcceptByToken(ctx context.Context, token string) (*models.Challenge, error) {
	db := s.DB.WithContext(ctx)

	var challenge models.Challenge
	err := db.Where("invite_token = ?", token).First(&challenge).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrInviteNotFound
	}
	if err != nil {
		return nil, apperrors.Internal("challengeService.AcceptByToken.Lookup", err)
	}
	if !challenge.Status.CanTransitionTo(models.ChallengeStatusActive) {
		return nil, apperrors.ErrChallengeNotPending
	}

	now := s.Clock.Now().UTC()
	res := db.Model(&models.Challenge{}).
		Where("id = ? AND status = ?", challenge.ID, models.ChallengeStatusPending).
		Updates(map[string]interface{}{
			"status":           models.ChallengeStatusActive,
			"start_date":       now,
			"initiator_streak": 0,
			"friend_streak":    0,
		})
	if res.Error != nil {
		return nil, apperrors.Internal("challengeService.AcceptByToken.Update", res.Error)
	}
	if res.RowsAffected == 0 {
		// a concurrent accept got there first
		return nil, apperrors.ErrChallengeNotPending
	}

	accepted, err := s.GetByID(ctx, challenge.ID)
	if err != nil {
		return nil, err
	}
	s.Log.Infof("[Challenge] ✅ Challenge %s accepted, window starts %s", accepted.ID, now.Format("2006-01-02"))
	return accepted, nil
}

// GetByID loads a challenge with both participants.
func (s *ChallengeService) GetByID(ctx context.Context, id string) (*models.Challenge, error) {
	return loadChallenge(s.DB.WithContext(ctx), id)
}

func loadChallenge(db *gorm.DB, id string) (*models.Challenge, error) {
	var challenge models.Challenge
	err := db.Preload("Initiator").
		Preload("Friend").
		Where("id = ?", id).
		First(&challenge).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrChallengeNotFound
	}
	if err != nil {
		return nil, apperrors.Internal("challengeService.GetByID", err)
	}
	return &challenge, nil
}

// GetActiveChallenges lists active challenges, most recently started first.
func (s *ChallengeService) GetActiveChallenges(ctx context.Context) ([]models.Challenge, error) {
	return activeChallenges(s.DB.WithContext(ctx))
}

func activeChallenges(db *gorm.DB) ([]models.Challenge, error) {
	var challenges []models.Challenge
	err := db.Preload("Initiator").
		Preload("Friend").
		Where("status = ?", models.ChallengeStatusActive).
		Order("start_date DESC").
		Order("id ASC").
		Find(&challenges).Error
	if err != nil {
		return nil, apperrors.Internal("challengeService.GetActiveChallenges", errors.Wrap(err, "select active challenges"))
	}
	return challenges, nil
}
