package leads

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/media2net-app/bloemenvandegier-sub001/internal/activity"
	"github.com/media2net-app/bloemenvandegier-sub001/pkg/db/models"
	"github.com/media2net-app/bloemenvandegier-sub001/pkg/enums"
	pkgerrors "github.com/media2net-app/bloemenvandegier-sub001/pkg/errors"
	"github.com/media2net-app/bloemenvandegier-sub001/pkg/outbox"
	"github.com/media2net-app/bloemenvandegier-sub001/pkg/outbox/payloads"
	"github.com/media2net-app/bloemenvandegier-sub001/pkg/pagination"
)

// LeadRepository defines the persistence surface the service needs.
type LeadRepository interface {
	WithTx(tx *gorm.DB) LeadRepository
	Create(ctx context.Context, lead *models.Lead) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Lead, error)
	List(ctx context.Context, filters ListFilters, params pagination.Params) ([]models.Lead, int64, error)
	ListStale(ctx context.Context, cutoff time.Time) ([]models.Lead, error)
	Update(ctx context.Context, lead *models.Lead) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// CreateLeadInput is the validated payload to register a lead.
type CreateLeadInput struct {
	CompanyName string `validate:"required"`
	ContactName string `validate:"required"`
	Email       string `validate:"required,email"`
	Phone       string
	Source      string
	Notes       string
}

// UpdateLeadInput carries optional mutation values.
type UpdateLeadInput struct {
	CompanyName *string
	ContactName *string
	Email       *string `validate:"omitempty,email"`
	Phone       *string
	Source      *string
	Notes       *string
}

// LeadListResult is one page of the pipeline.
type LeadListResult struct {
	Items []models.Lead   `json:"items"`
	Page  pagination.Page `json:"page"`
}

// Service exposes the sales pipeline operations.
type Service interface {
	Create(ctx context.Context, input CreateLeadInput, actorID *uuid.UUID) (*models.Lead, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Lead, error)
	List(ctx context.Context, filters ListFilters, params pagination.Params) (*LeadListResult, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateLeadInput, actorID *uuid.UUID) (*models.Lead, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, target enums.LeadStatus, actorID *uuid.UUID) (*models.Lead, error)
	Delete(ctx context.Context, id uuid.UUID, actorID *uuid.UUID) error
}

type service struct {
	repo     LeadRepository
	tx       txRunner
	outbox   outboxPublisher
	activity activity.Recorder
	validate *validator.Validate
}

// NewService builds the leads service.
func NewService(repo LeadRepository, tx txRunner, publisher outboxPublisher, recorder activity.Recorder) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("leads repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if publisher == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	if recorder == nil {
		return nil, fmt.Errorf("activity recorder required")
	}
	return &service{
		repo:     repo,
		tx:       tx,
		outbox:   publisher,
		activity: recorder,
		validate: validator.New(),
	}, nil
}

func (s *service) Create(ctx context.Context, input CreateLeadInput, actorID *uuid.UUID) (*models.Lead, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid lead payload")
	}

	lead := &models.Lead{
		CompanyName: strings.TrimSpace(input.CompanyName),
		ContactName: strings.TrimSpace(input.ContactName),
		Email:       strings.ToLower(strings.TrimSpace(input.Email)),
		Phone:       strings.TrimSpace(input.Phone),
		Status:      enums.LeadStatusNew,
		Source:      input.Source,
		Notes:       input.Notes,
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.Create(ctx, lead); err != nil {
			return err
		}
		return s.activity.Record(ctx, tx, activity.RecordInput{
			EntityType: "lead",
			EntityID:   lead.ID,
			Action:     enums.ActivityActionCreated,
			ActorID:    actorID,
			Note:       lead.CompanyName,
		})
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating lead")
	}
	return lead, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*models.Lead, error) {
	lead, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, leadLoadError(err)
	}
	return lead, nil
}

func (s *service) List(ctx context.Context, filters ListFilters, params pagination.Params) (*LeadListResult, error) {
	rows, total, err := s.repo.List(ctx, filters, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing leads")
	}
	return &LeadListResult{
		Items: rows,
		Page:  pagination.Describe(params, int(total)),
	}, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateLeadInput, actorID *uuid.UUID) (*models.Lead, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid lead payload")
	}

	lead, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, leadLoadError(err)
	}

	if input.CompanyName != nil {
		lead.CompanyName = strings.TrimSpace(*input.CompanyName)
	}
	if input.ContactName != nil {
		lead.ContactName = strings.TrimSpace(*input.ContactName)
	}
	if input.Email != nil {
		lead.Email = strings.ToLower(strings.TrimSpace(*input.Email))
	}
	if input.Phone != nil {
		lead.Phone = strings.TrimSpace(*input.Phone)
	}
	if input.Source != nil {
		lead.Source = *input.Source
	}
	if input.Notes != nil {
		lead.Notes = *input.Notes
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.Update(ctx, lead); err != nil {
			return err
		}
		return s.activity.Record(ctx, tx, activity.RecordInput{
			EntityType: "lead",
			EntityID:   lead.ID,
			Action:     enums.ActivityActionUpdated,
			ActorID:    actorID,
		})
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating lead")
	}
	return lead, nil
}

// UpdateStatus applies one pipeline transition and stages the status event.
func (s *service) UpdateStatus(ctx context.Context, id uuid.UUID, target enums.LeadStatus, actorID *uuid.UUID) (*models.Lead, error) {
	if !target.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid lead status")
	}

	lead, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, leadLoadError(err)
	}
	if !lead.Status.CanTransitionTo(target) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("cannot transition lead from %s to %s", lead.Status, target))
	}

	from := lead.Status
	lead.Status = target

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.Update(ctx, lead); err != nil {
			return err
		}
		if err := s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventLeadStatusChanged,
			AggregateType: enums.AggregateLead,
			AggregateID:   lead.ID,
			Data: payloads.LeadStatusChangedEvent{
				LeadID:     lead.ID,
				FromStatus: from.String(),
				ToStatus:   target.String(),
				ChangedAt:  time.Now().UTC(),
			},
		}); err != nil {
			return err
		}
		return s.activity.Record(ctx, tx, activity.RecordInput{
			EntityType: "lead",
			EntityID:   lead.ID,
			Action:     enums.ActivityActionStatusChanged,
			ActorID:    actorID,
			Note:       fmt.Sprintf("%s -> %s", from, target),
		})
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating lead status")
	}
	return lead, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID, actorID *uuid.UUID) error {
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.Delete(ctx, id); err != nil {
			return err
		}
		return s.activity.Record(ctx, tx, activity.RecordInput{
			EntityType: "lead",
			EntityID:   id,
			Action:     enums.ActivityActionDeleted,
			ActorID:    actorID,
		})
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "lead not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting lead")
	}
	return nil
}

func leadLoadError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "lead not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading lead")
}
