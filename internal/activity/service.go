package activity

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/media2net-app/bloemenvandegier-sub001/pkg/db/models"
	"github.com/media2net-app/bloemenvandegier-sub001/pkg/enums"
	pkgerrors "github.com/media2net-app/bloemenvandegier-sub001/pkg/errors"
)

// RecordInput describes one entry to append to the activity log.
type RecordInput struct {
	EntityType string
	EntityID   uuid.UUID
	Action     enums.ActivityAction
	ActorID    *uuid.UUID
	Note       string
}

// Recorder appends entries to the activity log, optionally inside the
// caller's transaction.
type Recorder interface {
	Record(ctx context.Context, tx *gorm.DB, input RecordInput) error
}

// Service exposes the activity feed.
type Service interface {
	Recorder
	List(ctx context.Context, filters ListFilters, limit int) ([]models.ActivityItem, error)
}

type service struct {
	repo *Repository
}

// NewService constructs the activity service.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("activity repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Record(ctx context.Context, tx *gorm.DB, input RecordInput) error {
	if strings.TrimSpace(input.EntityType) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "entity type is required")
	}
	if input.EntityID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "entity id is required")
	}
	if !input.Action.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid activity action")
	}
	item := &models.ActivityItem{
		EntityType: input.EntityType,
		EntityID:   input.EntityID,
		Action:     input.Action,
		ActorID:    input.ActorID,
		Note:       input.Note,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.repo.WithTx(tx).Create(ctx, item); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "recording activity")
	}
	return nil
}

func (s *service) List(ctx context.Context, filters ListFilters, limit int) ([]models.ActivityItem, error) {
	rows, err := s.repo.List(ctx, filters, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing activity")
	}
	return rows, nil
}
