package tasks

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/media2net-app/bloemenvandegier-sub001/internal/activity"
	"github.com/media2net-app/bloemenvandegier-sub001/pkg/db/models"
	"github.com/media2net-app/bloemenvandegier-sub001/pkg/enums"
	pkgerrors "github.com/media2net-app/bloemenvandegier-sub001/pkg/errors"
	"github.com/media2net-app/bloemenvandegier-sub001/pkg/pagination"
)

// TaskRepository defines the persistence surface the service needs.
type TaskRepository interface {
	WithTx(tx *gorm.DB) TaskRepository
	Create(ctx context.Context, task *models.Task) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Task, error)
	List(ctx context.Context, filters ListFilters, params pagination.Params) ([]models.Task, int64, error)
	Update(ctx context.Context, task *models.Task) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// CreateTaskInput is the payload to open a task.
type CreateTaskInput struct {
	Title       string
	Description string
	AssigneeID  *uuid.UUID
	DueDate     *time.Time
}

// UpdateTaskInput carries optional mutation values.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	AssigneeID  *uuid.UUID
	DueDate     *time.Time
}

// TaskListResult is one page of the board.
type TaskListResult struct {
	Items []models.Task   `json:"items"`
	Page  pagination.Page `json:"page"`
}

// Service exposes back-office task operations.
type Service interface {
	Create(ctx context.Context, input CreateTaskInput, actorID *uuid.UUID) (*models.Task, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Task, error)
	List(ctx context.Context, filters ListFilters, params pagination.Params) (*TaskListResult, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateTaskInput, actorID *uuid.UUID) (*models.Task, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, target enums.TaskStatus, actorID *uuid.UUID) (*models.Task, error)
	Delete(ctx context.Context, id uuid.UUID, actorID *uuid.UUID) error
}

type service struct {
	repo     TaskRepository
	tx       txRunner
	activity activity.Recorder
}

// NewService builds the tasks service.
func NewService(repo TaskRepository, tx txRunner, recorder activity.Recorder) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("tasks repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if recorder == nil {
		return nil, fmt.Errorf("activity recorder required")
	}
	return &service{repo: repo, tx: tx, activity: recorder}, nil
}

func (s *service) Create(ctx context.Context, input CreateTaskInput, actorID *uuid.UUID) (*models.Task, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}

	task := &models.Task{
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		Status:      enums.TaskStatusOpen,
		AssigneeID:  input.AssigneeID,
		DueDate:     input.DueDate,
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.Create(ctx, task); err != nil {
			return err
		}
		return s.activity.Record(ctx, tx, activity.RecordInput{
			EntityType: "task",
			EntityID:   task.ID,
			Action:     enums.ActivityActionCreated,
			ActorID:    actorID,
			Note:       task.Title,
		})
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating task")
	}
	return task, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	task, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, taskLoadError(err)
	}
	return task, nil
}

func (s *service) List(ctx context.Context, filters ListFilters, params pagination.Params) (*TaskListResult, error) {
	rows, total, err := s.repo.List(ctx, filters, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing tasks")
	}
	return &TaskListResult{
		Items: rows,
		Page:  pagination.Describe(params, int(total)),
	}, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateTaskInput, actorID *uuid.UUID) (*models.Task, error) {
	task, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, taskLoadError(err)
	}

	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "title cannot be empty")
		}
		task.Title = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.AssigneeID != nil {
		task.AssigneeID = input.AssigneeID
	}
	if input.DueDate != nil {
		task.DueDate = input.DueDate
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.Update(ctx, task); err != nil {
			return err
		}
		return s.activity.Record(ctx, tx, activity.RecordInput{
			EntityType: "task",
			EntityID:   task.ID,
			Action:     enums.ActivityActionUpdated,
			ActorID:    actorID,
		})
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating task")
	}
	return task, nil
}

// UpdateStatus applies one board transition.
func (s *service) UpdateStatus(ctx context.Context, id uuid.UUID, target enums.TaskStatus, actorID *uuid.UUID) (*models.Task, error) {
	if !target.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid task status")
	}

	task, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, taskLoadError(err)
	}
	if !task.Status.CanTransitionTo(target) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("cannot transition task from %s to %s", task.Status, target))
	}

	from := task.Status
	task.Status = target

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.Update(ctx, task); err != nil {
			return err
		}
		return s.activity.Record(ctx, tx, activity.RecordInput{
			EntityType: "task",
			EntityID:   task.ID,
			Action:     enums.ActivityActionStatusChanged,
			ActorID:    actorID,
			Note:       fmt.Sprintf("%s -> %s", from, target),
		})
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating task status")
	}
	return task, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID, actorID *uuid.UUID) error {
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.Delete(ctx, id); err != nil {
			return err
		}
		return s.activity.Record(ctx, tx, activity.RecordInput{
			EntityType: "task",
			EntityID:   id,
			Action:     enums.ActivityActionDeleted,
			ActorID:    actorID,
		})
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "task not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting task")
	}
	return nil
}

func taskLoadError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "task not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading task")
}
