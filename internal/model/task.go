package model

import (
	"time"

	"gorm.io/gorm"
)

// Task represents a work item within a project. Like Project, TenantID is
// nullable for rows predating tenant scoping.
type Task struct {
	ID         uint           `json:"id" gorm:"primaryKey"`
	ProjectID  uint           `json:"project_id" gorm:"index;not null"`
	Title      string         `json:"title" gorm:"type:varchar(200);not null"`
	Notes      string         `json:"notes" gorm:"type:text"`
	Status     string         `json:"status" gorm:"type:varchar(50);not null;default:'open'"` // 'open', 'in_progress', 'done'
	Priority   int            `json:"priority" gorm:"default:0"`
	TenantID   *uint          `json:"tenant_id,omitempty" gorm:"index"`
	AssigneeID *uint          `json:"assignee_id,omitempty" gorm:"index"`
	DueDate    *time.Time     `json:"due_date,omitempty"`
	CreatedBy  uint           `json:"created_by"`
	UpdatedBy  uint           `json:"updated_by"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Project Project `json:"project,omitempty" gorm:"foreignKey:ProjectID"`
}
