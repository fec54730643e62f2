package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/media2net-app/bloemenvandegier-sub001/pkg/enums"
)

// Lead is a prospective business customer tracked through the sales pipeline.
type Lead struct {
	ID          uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CompanyName string           `gorm:"column:company_name;not null"`
	ContactName string           `gorm:"column:contact_name;not null"`
	Email       string           `gorm:"column:email;not null"`
	Phone       string           `gorm:"column:phone"`
	Status      enums.LeadStatus `gorm:"column:status;type:lead_status;not null;default:'new'"`
	Source      string           `gorm:"column:source"`
	Notes       string           `gorm:"column:notes"`
	CreatedAt   time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

// Task is a back-office work item.
type Task struct {
	ID          uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Title       string           `gorm:"column:title;not null"`
	Description string           `gorm:"column:description"`
	Status      enums.TaskStatus `gorm:"column:status;type:task_status;not null;default:'open'"`
	AssigneeID  *uuid.UUID       `gorm:"column:assignee_id;type:uuid"`
	DueDate     *time.Time       `gorm:"column:due_date"`
	CreatedAt   time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

// ActivityItem is one append-only entry of the admin activity log.
type ActivityItem struct {
	ID         uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	EntityType string               `gorm:"column:entity_type;not null;index"`
	EntityID   uuid.UUID            `gorm:"column:entity_id;type:uuid;not null"`
	Action     enums.ActivityAction `gorm:"column:action;type:activity_action;not null"`
	ActorID    *uuid.UUID           `gorm:"column:actor_id;type:uuid"`
	Note       string               `gorm:"column:note"`
	CreatedAt  time.Time            `gorm:"column:created_at;autoCreateTime;index"`
}
