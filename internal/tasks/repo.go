package tasks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/media2net-app/bloemenvandegier-sub001/pkg/db/models"
	"github.com/media2net-app/bloemenvandegier-sub001/pkg/enums"
	"github.com/media2net-app/bloemenvandegier-sub001/pkg/pagination"
)

// ListFilters narrows the task board.
type ListFilters struct {
	Status     *enums.TaskStatus
	AssigneeID *uuid.UUID
	DueBefore  *time.Time
}

// Repository persists back-office tasks.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a tasks repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *Repository) WithTx(tx *gorm.DB) TaskRepository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// Create inserts a new task.
func (r *Repository) Create(ctx context.Context, task *models.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

// FindByID loads one task.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	var task models.Task
	if err := r.db.WithContext(ctx).First(&task, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// List returns tasks ordered by due date, undated tasks last.
func (r *Repository) List(ctx context.Context, filters ListFilters, params pagination.Params) ([]models.Task, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Task{})
	if filters.Status != nil {
		q = q.Where("status = ?", *filters.Status)
	}
	if filters.AssigneeID != nil {
		q = q.Where("assignee_id = ?", *filters.AssigneeID)
	}
	if filters.DueBefore != nil {
		q = q.Where("due_date < ?", *filters.DueBefore)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := pagination.Describe(params, int(total))
	var rows []models.Task
	err := q.Order("due_date ASC NULLS LAST, created_at DESC").
		Offset((page.Page - 1) * page.PageSize).
		Limit(page.PageSize).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// Update saves the task.
func (r *Repository) Update(ctx context.Context, task *models.Task) error {
	return r.db.WithContext(ctx).Save(task).Error
}

// Delete removes the task.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&models.Task{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
