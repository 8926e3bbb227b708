// services/identity_service.go
package services

import (
	"context"

	"habit-pact/apperrors"
	"habit-pact/models"
	"habit-pact/utils"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type IdentityService struct {
	DB  *gorm.DB
	Log *zap.SugaredLogger
}

func NewIdentityService(db *gorm.DB, log *zap.SugaredLogger) *IdentityService {
	return &IdentityService{DB: db, Log: log}
}

// ResolveOrCreate returns the participant for email, creating it on first
// reference. Concurrent callers for the same address converge on one row:
// the unique index absorbs the losing insert and the loser re-reads.
func (s *IdentityService) ResolveOrCreate(ctx context.Context, email string) (*models.Participant, error) {
	normalized := utils.NormalizeEmail(email)
	if normalized == "" {
		return nil, apperrors.ErrEmailRequired
	}

	db := s.DB.WithContext(ctx)

	p, err := s.findByEmail(db, normalized)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Internal("identityService.ResolveOrCreate.Lookup", err)
	}

	created := models.Participant{ID: uuid.NewString(), Email: normalized}
	res := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoNothing: true,
	}).Create(&created)
	if res.Error != nil {
		return nil, apperrors.Internal("identityService.ResolveOrCreate.Insert", res.Error)
	}
	if res.RowsAffected == 1 {
		s.Log.Debugf("[Identity] 👤 Created participant %s", created.ID)
		return &created, nil
	}

	// another resolver inserted the same email first
	p, err = s.findByEmail(db, normalized)
	if err != nil {
		return nil, apperrors.Internal("identityService.ResolveOrCreate.Reload", err)
	}
	return p, nil
}

func (s *IdentityService) findByEmail(db *gorm.DB, normalized string) (*models.Participant, error) {
	var p models.Participant
	if err := db.Where("email = ?", normalized).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// GetByID looks a participant up by id.
func (s *IdentityService) GetByID(ctx context.Context, id string) (*models.Participant, error) {
	var p models.Participant
	err := s.DB.WithContext(ctx).Where("id = ?", id).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("participant not found")
	}
	if err != nil {
		return nil, apperrors.Internal("identityService.GetByID", errors.Wrap(err, "select participant"))
	}
	return &p, nil
}
